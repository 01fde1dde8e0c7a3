package wire

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/klauspost/compress/zstd"
)

type Compression uint8

const (
	CompressionNone Compression = iota
	CompressionZstd
)

func (c Compression) String() string {
	switch c {
	case CompressionNone:
		return "none"
	case CompressionZstd:
		return "zstd"
	default:
		return fmt.Sprintf("Compression(%d)", uint8(c))
	}
}

func ParseCompression(s string) (Compression, error) {
	switch s {
	case "", "none":
		return CompressionNone, nil
	case "zstd":
		return CompressionZstd, nil
	}
	return 0, fmt.Errorf("unknown compression %q", s)
}

const (
	kindRequest byte = 1
	kindResult  byte = 2

	requestSize      = 1 + 4 + 1
	resultHeaderSize = 1 + 4 + 4
)

// Codec turns messages into self-describing frames. The first frame byte is
// the compression flag, so a decoder handles frames from any encoder.
// A Codec is safe for concurrent use.
type Codec struct {
	compression Compression
	enc         *zstd.Encoder
	dec         *zstd.Decoder
}

func NewCodec(c Compression) (*Codec, error) {
	codec := &Codec{compression: c}
	switch c {
	case CompressionNone:
	case CompressionZstd:
		enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedFastest))
		if err != nil {
			return nil, fmt.Errorf("zstd encoder: %w", err)
		}
		codec.enc = enc
	default:
		return nil, fmt.Errorf("unknown compression %d", uint8(c))
	}
	dec, err := zstd.NewReader(nil)
	if err != nil {
		return nil, fmt.Errorf("zstd decoder: %w", err)
	}
	codec.dec = dec
	return codec, nil
}

func (c *Codec) Compression() Compression { return c.compression }

// Close releases the zstd encoder and decoder resources.
func (c *Codec) Close() {
	if c.enc != nil {
		_ = c.enc.Close()
	}
	if c.dec != nil {
		c.dec.Close()
	}
}

func (c *Codec) EncodeRequest(r RowRequest) []byte {
	b := make([]byte, requestSize)
	b[0] = kindRequest
	binary.LittleEndian.PutUint32(b[1:], uint32(r.RowIndex))
	b[5] = byte(r.Directive)
	return c.seal(b)
}

func (c *Codec) DecodeRequest(frame []byte) (RowRequest, error) {
	b, err := c.open(frame)
	if err != nil {
		return RowRequest{}, err
	}
	if len(b) != requestSize || b[0] != kindRequest {
		return RowRequest{}, fmt.Errorf("malformed row request frame (%d bytes)", len(b))
	}
	r := RowRequest{
		RowIndex:  int32(binary.LittleEndian.Uint32(b[1:])),
		Directive: Directive(b[5]),
	}
	if r.Directive != Continue && r.Directive != Stop {
		return RowRequest{}, fmt.Errorf("unknown directive %d", b[5])
	}
	return r, nil
}

func (c *Codec) EncodeResult(r RowResult) []byte {
	b := make([]byte, resultHeaderSize+4*len(r.Values))
	b[0] = kindResult
	binary.LittleEndian.PutUint32(b[1:], uint32(r.RowIndex))
	binary.LittleEndian.PutUint32(b[5:], uint32(len(r.Values)))
	for k, v := range r.Values {
		binary.LittleEndian.PutUint32(b[resultHeaderSize+4*k:], math.Float32bits(v))
	}
	return c.seal(b)
}

func (c *Codec) DecodeResult(frame []byte) (RowResult, error) {
	b, err := c.open(frame)
	if err != nil {
		return RowResult{}, err
	}
	if len(b) < resultHeaderSize || b[0] != kindResult {
		return RowResult{}, fmt.Errorf("malformed row result frame (%d bytes)", len(b))
	}
	n := binary.LittleEndian.Uint32(b[5:])
	if uint64(len(b)-resultHeaderSize) != 4*uint64(n) {
		return RowResult{}, fmt.Errorf("row result declares %d values but carries %d bytes", n, len(b)-resultHeaderSize)
	}
	r := RowResult{
		RowIndex: int32(binary.LittleEndian.Uint32(b[1:])),
		Values:   make([]float32, n),
	}
	for k := range r.Values {
		r.Values[k] = math.Float32frombits(binary.LittleEndian.Uint32(b[resultHeaderSize+4*k:]))
	}
	return r, nil
}

func (c *Codec) seal(payload []byte) []byte {
	if c.compression == CompressionZstd {
		return c.enc.EncodeAll(payload, []byte{byte(CompressionZstd)})
	}
	return append([]byte{byte(CompressionNone)}, payload...)
}

func (c *Codec) open(frame []byte) ([]byte, error) {
	if len(frame) == 0 {
		return nil, fmt.Errorf("empty frame")
	}
	switch Compression(frame[0]) {
	case CompressionNone:
		return frame[1:], nil
	case CompressionZstd:
		b, err := c.dec.DecodeAll(frame[1:], nil)
		if err != nil {
			return nil, fmt.Errorf("zstd frame: %w", err)
		}
		return b, nil
	default:
		return nil, fmt.Errorf("unknown frame compression %d", frame[0])
	}
}
