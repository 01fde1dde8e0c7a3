// Package export turns a completed intensity grid into a raster and writes
// it out. Row index i becomes the x coordinate and column j the y
// coordinate; an intensity v becomes the gray level (v, v, v).
package export

import (
	"bufio"
	"context"
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/ib-77/mandel/pkg/mandel"
	"github.com/ib-77/mandel/pkg/mandel/grid"
	"golang.org/x/image/draw"
)

const (
	DefaultPath   = "mandelbrot.png"
	DefaultWidth  = 1024
	DefaultHeight = 1024
)

// ParseScaler maps a scaler name to an x/image interpolator. The empty
// name selects nearest neighbour.
func ParseScaler(name string) (draw.Interpolator, error) {
	switch strings.ToLower(name) {
	case "", "nearest":
		return draw.NearestNeighbor, nil
	case "approxbilinear":
		return draw.ApproxBiLinear, nil
	case "bilinear":
		return draw.BiLinear, nil
	case "catmullrom":
		return draw.CatmullRom, nil
	}
	return nil, mandel.Invalidf("unknown scaler %q", name)
}

// Raster copies the grid into a Width x Height gray image.
func Raster(img *grid.Image) *image.Gray {
	out := image.NewGray(image.Rect(0, 0, img.Width(), img.Height()))
	for i := 0; i < img.Width(); i++ {
		for j, v := range img.Row(i) {
			out.Pix[out.PixOffset(i, j)] = level(v)
		}
	}
	return out
}

func level(v float32) uint8 {
	switch {
	case !(v > 0):
		return 0
	case v >= 255:
		return 255
	}
	return uint8(v)
}

// Encode resamples img to width x height and writes it as PNG.
func Encode(w io.Writer, img *grid.Image, width, height int, scaler draw.Interpolator) error {
	if width < 1 || height < 1 {
		return mandel.Invalidf("output size must be positive, got %dx%d", width, height)
	}
	if scaler == nil {
		scaler = draw.NearestNeighbor
	}

	src := Raster(img)
	var out image.Image = src
	if src.Bounds().Dx() != width || src.Bounds().Dy() != height {
		dst := image.NewGray(image.Rect(0, 0, width, height))
		scaler.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)
		out = dst
	}
	return png.Encode(w, out)
}

// PNG writes the image to Path, resampled to Width x Height.
type PNG struct {
	Path   string
	Width  int
	Height int
	Scaler draw.Interpolator
}

func (p PNG) Export(ctx context.Context, img *grid.Image) (err error) {
	if err := ctx.Err(); err != nil {
		return err
	}
	if !img.Complete() {
		mandel.Violate("exporting an image with %d of %d rows", img.Recorded(), img.Width())
	}

	path := p.Path
	if path == "" {
		path = DefaultPath
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("close %s: %w", path, cerr)
		}
	}()

	bw := bufio.NewWriter(f)
	if err := Encode(bw, img, p.Width, p.Height, p.Scaler); err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}

	mandel.Logger().Info("image exported", "path", path, "width", p.Width, "height", p.Height)
	return nil
}

// Memory keeps the exported image. Useful when the caller wants the matrix
// itself rather than a file.
type Memory struct {
	mu    sync.Mutex
	image *grid.Image
	calls int
}

func (m *Memory) Export(_ context.Context, img *grid.Image) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.image = img
	m.calls++
	return nil
}

func (m *Memory) Image() *grid.Image {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.image
}

func (m *Memory) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}
