package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVector(t *testing.T) {
	// Concat
	{
		v := NewVector(2, []float64{1, 2})
		w := NewVector(3, []float64{3, 4, 5})
		assert.Equal(t, v.Concat(w).DataP(), []float64{1, 2, 3, 4, 5})
	}
	// Dot, Norm
	{
		v := NewVector(2, []float64{3, 4})
		assert.Equal(t, 5., v.Norm())
		assert.Equal(t, 25., v.Dot(v))
	}
	// Apply and POW mutate in place and chain
	{
		v := NewVector(3, []float64{1, 2, 3})
		v.POW(2)
		assert.Equal(t, v.DataP(), []float64{1, 4, 9})
		v.Apply(func(x float64) float64 { return -x })
		assert.Equal(t, v.DataP(), []float64{-1, -4, -9})
	}
	// ToMatrix reshape is row-major
	{
		v := NewVector(6, []float64{1, 2, 3, 4, 5, 6})
		assert.Equal(t, v.ToMatrix(2, 3), NewMatrix(2, 3, []float64{
			1, 2, 3,
			4, 5, 6,
		}))
	}
	// Negative indexing addresses from the end
	{
		v := NewVector(3, []float64{7, 8, 9})
		assert.Equal(t, 9., v.AtVec(-1))
	}
}

func TestLinSpace(t *testing.T) {
	v := LinSpace(0, 1, 5)
	assert.Equal(t, v, []float64{0, 0.25, 0.5, 0.75, 1})
	assert.Equal(t, LinSpace(2, 3, 1), []float64{2})
}
