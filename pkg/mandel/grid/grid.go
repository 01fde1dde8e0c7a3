// Package grid is the image buffer filled by the scheduler: Width rows of
// Height intensities, each row recorded exactly once.
package grid

import (
	"github.com/ib-77/mandel/pkg/mandel"
)

type Image struct {
	width    int
	height   int
	rows     [][]float32
	recorded int
}

func New(width, height int) *Image {
	if width < 1 || height < 1 {
		mandel.Violate("image dimensions must be positive, got %dx%d", width, height)
	}
	return &Image{
		width:  width,
		height: height,
		rows:   make([][]float32, width),
	}
}

func (m *Image) Width() int  { return m.width }
func (m *Image) Height() int { return m.height }

// Record stores row i. The image takes ownership of values. Recording an
// index outside [0, Width), a row of the wrong length or an index recorded
// before panics with a ProtocolViolation.
func (m *Image) Record(i int, values []float32) {
	if i < 0 || i >= m.width {
		mandel.Violate("row index %d outside [0,%d)", i, m.width)
	}
	if len(values) != m.height {
		mandel.Violate("row %d has %d values, want %d", i, len(values), m.height)
	}
	if m.rows[i] != nil {
		mandel.Violate("row %d recorded twice", i)
	}
	m.rows[i] = values
	m.recorded++
}

func (m *Image) Has(i int) bool { return i >= 0 && i < m.width && m.rows[i] != nil }

func (m *Image) Recorded() int { return m.recorded }

func (m *Image) Complete() bool { return m.recorded == m.width }

// Row returns row i, or nil if it has not been recorded yet.
func (m *Image) Row(i int) []float32 { return m.rows[i] }

func (m *Image) At(i, j int) float32 { return m.rows[i][j] }

// Matrix returns the rows in index order.
func (m *Image) Matrix() [][]float32 { return m.rows }
