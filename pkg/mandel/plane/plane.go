// Package plane maps a pixel grid onto a rectangle of the complex plane
// centred on the origin.
package plane

import (
	"math"

	"github.com/ib-77/mandel/pkg/mandel"
)

// snap absorbs representation error in 2*limit/step so that, e.g., 4/0.001
// yields 4001 samples and not 4000.
const snap = 1e-9

// Sampled is a square-ish region {-XLimit <= Re <= XLimit, -YLimit <= Im <= YLimit}
// sampled every Step. Row index i walks the real axis, column j the imaginary one.
type Sampled struct {
	xLimit float64
	yLimit float64
	step   float64
	width  int
	height int
}

func New(xLimit, yLimit, step float64) (Sampled, error) {
	if !(step > 0) || math.IsInf(step, 0) {
		return Sampled{}, mandel.Invalidf("sampling step must be positive, got %v", step)
	}
	if !(xLimit >= 0) || !(yLimit >= 0) || math.IsInf(xLimit, 0) || math.IsInf(yLimit, 0) {
		return Sampled{}, mandel.Invalidf("plane limits must be finite and non-negative, got %v x %v", xLimit, yLimit)
	}
	return Sampled{
		xLimit: xLimit,
		yLimit: yLimit,
		step:   step,
		width:  samples(xLimit, step),
		height: samples(yLimit, step),
	}, nil
}

func samples(limit, step float64) int {
	return int(math.Floor(2*limit/step+snap)) + 1
}

func (p Sampled) XLimit() float64 { return p.xLimit }
func (p Sampled) YLimit() float64 { return p.yLimit }
func (p Sampled) Step() float64   { return p.step }

// Width is the number of rows.
func (p Sampled) Width() int { return p.width }

// Height is the number of values per row.
func (p Sampled) Height() int { return p.height }

// PixelToPoint returns the complex point sampled at pixel (i, j). It does not
// check bounds.
func (p Sampled) PixelToPoint(i, j int) complex128 {
	return complex(axis(p.xLimit, p.width, i), axis(p.yLimit, p.height, j))
}

func axis(limit float64, n, k int) float64 {
	if n == 1 {
		return 0
	}
	return -limit + (2*limit)/float64(n-1)*float64(k)
}
