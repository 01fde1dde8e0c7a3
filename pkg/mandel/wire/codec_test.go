package wire

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func codec(t *testing.T, c Compression) *Codec {
	t.Helper()
	cd, err := NewCodec(c)
	require.NoError(t, err)
	t.Cleanup(cd.Close)
	return cd
}

func TestCodec_Request(t *testing.T) {
	t.Parallel()

	for _, c := range []Compression{CompressionNone, CompressionZstd} {
		t.Run(c.String(), func(t *testing.T) {
			cd := codec(t, c)
			want := RowRequest{RowIndex: 4000, Directive: Stop}

			got, err := cd.DecodeRequest(cd.EncodeRequest(want))
			require.NoError(t, err)
			assert.Equal(t, want, got)
		})
	}
}

func TestCodec_ResultPreservesBits(t *testing.T) {
	t.Parallel()

	want := RowResult{RowIndex: 7, Values: []float32{0, 50.19, 254.99998, 1e-30}}
	cd := codec(t, CompressionZstd)

	got, err := cd.DecodeResult(cd.EncodeResult(want))
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestCodec_ZstdShrinksFlatRows(t *testing.T) {
	t.Parallel()

	row := RowResult{RowIndex: 1, Values: make([]float32, 4001)}
	raw := codec(t, CompressionNone).EncodeResult(row)
	packed := codec(t, CompressionZstd).EncodeResult(row)

	assert.Equal(t, byte(CompressionNone), raw[0])
	assert.Equal(t, byte(CompressionZstd), packed[0])
	assert.Less(t, len(packed), len(raw)/10)
}

func TestCodec_DecodesAnyCompression(t *testing.T) {
	t.Parallel()

	frame := codec(t, CompressionZstd).EncodeResult(RowResult{RowIndex: 3, Values: []float32{1, 2}})
	got, err := codec(t, CompressionNone).DecodeResult(frame)
	require.NoError(t, err)
	assert.Equal(t, int32(3), got.RowIndex)
}

func TestCodec_Malformed(t *testing.T) {
	t.Parallel()

	cd := codec(t, CompressionNone)

	_, err := cd.DecodeRequest(nil)
	assert.Error(t, err)

	_, err = cd.DecodeRequest(cd.EncodeResult(RowResult{RowIndex: 1}))
	assert.Error(t, err)

	_, err = cd.DecodeResult(cd.EncodeRequest(RowRequest{RowIndex: 1}))
	assert.Error(t, err)

	_, err = cd.DecodeRequest([]byte{0, kindRequest, 0, 0, 0, 0, 9})
	assert.ErrorContains(t, err, "unknown directive")

	truncated := cd.EncodeResult(RowResult{RowIndex: 1, Values: []float32{1, 2, 3}})
	_, err = cd.DecodeResult(truncated[:len(truncated)-2])
	assert.ErrorContains(t, err, "declares 3 values")

	_, err = cd.DecodeResult([]byte{byte(CompressionZstd), 1, 2, 3, 4, 5, 6, 7, 8})
	assert.Error(t, err)

	_, err = cd.DecodeResult([]byte{9, kindResult})
	assert.ErrorContains(t, err, "unknown frame compression")
}

func TestParseCompression(t *testing.T) {
	t.Parallel()

	c, err := ParseCompression("zstd")
	require.NoError(t, err)
	assert.Equal(t, CompressionZstd, c)

	_, err = ParseCompression("gzip")
	assert.Error(t, err)
}
