// Package row colors one full row of a sampled plane.
package row

import (
	"github.com/ib-77/mandel/pkg/mandel/escape"
	"github.com/ib-77/mandel/pkg/mandel/plane"
)

// Evaluator colors one complex point. *escape.Evaluator implements it.
type Evaluator interface {
	Evaluate(c complex128) float32
}

// Computer holds no mutable state; concurrent Compute calls are safe.
type Computer struct {
	plane plane.Sampled
	eval  Evaluator
}

func NewComputer(p plane.Sampled, eval Evaluator) *Computer {
	return &Computer{plane: p, eval: eval}
}

func (c *Computer) Plane() plane.Sampled { return c.plane }

// Compute returns a freshly allocated row of Height() intensities for row i.
func (c *Computer) Compute(i int) []float32 {
	out := make([]float32, c.plane.Height())
	for j := range out {
		out[j] = c.eval.Evaluate(c.plane.PixelToPoint(i, j))
	}
	return out
}

var _ Evaluator = (*escape.Evaluator)(nil)
