package plane

import (
	"errors"
	"testing"

	"github.com/ib-77/mandel/pkg/mandel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_Dimensions(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name          string
		x, y, step    float64
		width, height int
	}{
		{"unit step", 2, 2, 1, 5, 5},
		{"original precision", 2, 2, 0.001, 4001, 4001},
		{"rectangular", 2, 1, 0.5, 9, 5},
		{"single sample", 0, 0, 1, 1, 1},
		{"step wider than plane", 1, 1, 10, 1, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := New(tt.x, tt.y, tt.step)
			require.NoError(t, err)
			assert.Equal(t, tt.width, p.Width())
			assert.Equal(t, tt.height, p.Height())
		})
	}
}

func TestNew_Rejects(t *testing.T) {
	t.Parallel()

	for _, step := range []float64{0, -0.5} {
		_, err := New(2, 2, step)
		require.Error(t, err)
		assert.True(t, errors.Is(err, mandel.ErrConfiguration))
	}

	_, err := New(-1, 2, 1)
	assert.ErrorIs(t, err, mandel.ErrConfiguration)
}

func TestPixelToPoint_Corners(t *testing.T) {
	t.Parallel()

	p, err := New(2, 1, 0.5)
	require.NoError(t, err)

	assert.Equal(t, complex(-2, -1), p.PixelToPoint(0, 0))
	assert.Equal(t, complex(2, 1), p.PixelToPoint(p.Width()-1, p.Height()-1))
	assert.Equal(t, complex(0, 0), p.PixelToPoint(4, 2))
	assert.Equal(t, complex(-1.5, 0.5), p.PixelToPoint(1, 3))
}

func TestPixelToPoint_OrderIndependent(t *testing.T) {
	t.Parallel()

	p, err := New(2, 2, 0.25)
	require.NoError(t, err)

	first := make([]complex128, 0, p.Width()*p.Height())
	for i := 0; i < p.Width(); i++ {
		for j := 0; j < p.Height(); j++ {
			first = append(first, p.PixelToPoint(i, j))
		}
	}

	k := len(first) - 1
	for i := p.Width() - 1; i >= 0; i-- {
		for j := p.Height() - 1; j >= 0; j-- {
			assert.Equal(t, first[k], p.PixelToPoint(i, j))
			k--
		}
	}
}

func TestPixelToPoint_SingleSampleAxis(t *testing.T) {
	t.Parallel()

	p, err := New(0, 2, 1)
	require.NoError(t, err)
	assert.Equal(t, complex(0, -2), p.PixelToPoint(0, 0))
}
