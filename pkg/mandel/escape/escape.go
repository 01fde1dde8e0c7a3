package escape

import (
	"fmt"
	"math"
	"math/cmplx"
	"strings"

	"github.com/ib-77/mandel/pkg/mandel"
)

const (
	RGBMax = 1 << 8

	// Inside is the intensity of points that never escape.
	Inside float32 = 0

	DefaultLimit  = 1000
	DefaultRadius = 2.0
	DefaultExtra  = 3
)

type Mode int

const (
	Continuous Mode = iota
	Linear
)

func (m Mode) String() string {
	switch m {
	case Continuous:
		return "continuous"
	case Linear:
		return "linear"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "continuous", "smooth":
		return Continuous, nil
	case "linear":
		return Linear, nil
	}
	return 0, mandel.Invalidf("unknown coloring mode %q", s)
}

func (m Mode) MarshalText() ([]byte, error) { return []byte(m.String()), nil }

func (m *Mode) UnmarshalText(b []byte) error {
	v, err := ParseMode(string(b))
	if err != nil {
		return err
	}
	*m = v
	return nil
}

type Params struct {
	Limit  int
	Radius float64
	// Extra is the number of iterations run past escape by the continuous
	// coloring. Zero means DefaultExtra.
	Extra int
	Mode  Mode
}

// Coloring maps a starting parameter c to an intensity.
type Coloring interface {
	Color(c complex128) float32
}

// Evaluator is immutable and safe for concurrent use.
type Evaluator struct {
	params   Params
	coloring Coloring
}

func New(p Params) (*Evaluator, error) {
	if p.Limit < 2 {
		return nil, mandel.Invalidf("iteration limit must be at least 2, got %d", p.Limit)
	}
	if !(p.Radius > 1) || math.IsInf(p.Radius, 0) {
		return nil, mandel.Invalidf("escape radius must be finite and greater than 1, got %v", p.Radius)
	}
	if p.Extra < 0 {
		return nil, mandel.Invalidf("extra iterations must not be negative, got %d", p.Extra)
	}
	if p.Extra == 0 {
		p.Extra = DefaultExtra
	}

	e := &Evaluator{params: p}
	switch p.Mode {
	case Continuous:
		e.coloring = ContinuousColoring{Limit: p.Limit, Radius: p.Radius, Extra: p.Extra}
	case Linear:
		e.coloring = LinearColoring{Limit: p.Limit, Radius: p.Radius}
	default:
		return nil, mandel.Invalidf("unknown coloring mode %d", int(p.Mode))
	}
	return e, nil
}

func (e *Evaluator) Params() Params { return e.params }

func (e *Evaluator) Evaluate(c complex128) float32 {
	return e.coloring.Color(c)
}

// Escape iterates from z = 0 while |z| <= radius and n < limit. It returns
// the number of iterations run and the last z.
func Escape(c complex128, limit int, radius float64) (int, complex128) {
	var z complex128
	n := 0
	for cmplx.Abs(z) <= radius && n < limit {
		z = z*z + c
		n++
	}
	return n, z
}

// ContinuousColoring smooths the iteration count with a double logarithm.
type ContinuousColoring struct {
	Limit  int
	Radius float64
	Extra  int
}

func (cc ContinuousColoring) Color(c complex128) float32 {
	n, z := Escape(c, cc.Limit, cc.Radius)
	for k := 0; k < cc.Extra; k++ {
		z = z*z + c
		n++
	}
	if n == cc.Limit+cc.Extra {
		return Inside
	}

	mu := float64(n) - math.Log(math.Log(cmplx.Abs(z)))/math.Log(cc.Radius)
	return clamp(mu / float64(n) * (RGBMax - 1))
}

type LinearColoring struct {
	Limit  int
	Radius float64
}

func (lc LinearColoring) Color(c complex128) float32 {
	n, _ := Escape(c, lc.Limit, lc.Radius)
	scale := float64(RGBMax-1) / float64(lc.Limit-1)
	return clamp(float64(lc.Limit-n) * scale)
}

func clamp(v float64) float32 {
	switch {
	case math.IsNaN(v), v < 0:
		return 0
	case v > RGBMax-1:
		return RGBMax - 1
	}
	return float32(v)
}
