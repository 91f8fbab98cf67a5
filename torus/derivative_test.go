package torus

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/notargets/goks/utils"
)

func TestDerivativeComposition(t *testing.T) {
	rnd := rand.New(rand.NewSource(21))
	// Two first derivatives compose to the second along either axis
	{
		a := randomTorus(Full, 32, 32, 20, 22, 0, rnd)
		d1, err := a.Dt(1)
		assert.NoError(t, err)
		d11, err := d1.Dt(1)
		assert.NoError(t, err)
		d2, err := a.Dt(2)
		assert.NoError(t, err)
		assert.True(t, nearMatrix(d11.State, d2.State))

		x1, err := a.Dx(1)
		assert.NoError(t, err)
		x11, err := x1.Dx(1)
		assert.NoError(t, err)
		x2, err := a.Dx(2)
		assert.NoError(t, err)
		assert.True(t, nearMatrix(x11.State, x2.State))
	}
	// Even orders compose inside the folded variants
	{
		for _, sym := range []Symmetry{ShiftReflection, Antisymmetric, Equilibrium} {
			a := randomTorus(sym, 32, 32, 20, 22, 0, rnd)
			x2, err := a.Dx(2)
			assert.NoError(t, err)
			x22, err := x2.Dx(2)
			assert.NoError(t, err)
			x4, err := a.Dx(4)
			assert.NoError(t, err)
			assert.True(t, nearMatrix(x22.State, x4.State))
		}
	}
	// Order zero is the identity in mode space
	{
		a := randomTorus(Full, 32, 32, 20, 22, 0, rnd)
		d0, err := a.Dt(0)
		assert.NoError(t, err)
		assert.True(t, nearMatrix(d0.State, a.State))
		x0, err := a.Dx(0)
		assert.NoError(t, err)
		assert.True(t, nearMatrix(x0.State, a.State))
	}
}

func TestDerivativeAnalytic(t *testing.T) {
	// d/dx sin(2 pi x / L) = (2 pi / L) cos(2 pi x / L) on the grid
	{
		a, err := New(sineField(32, 32), Field, Full, 20, 22, 0)
		assert.NoError(t, err)
		dx, err := a.Dx(1)
		assert.NoError(t, err)
		var (
			f  = dx.mustConvert(Field)
			q1 = 2 * math.Pi / 22
		)
		for _, ij := range [][2]int{{0, 0}, {7, 5}, {31, 20}} {
			i, j := ij[0], ij[1]
			expected := q1 * math.Cos(2*math.Pi*float64(j)/32.0)
			assert.True(t, near(f.State.At(i, j), expected))
		}
	}
	// The time derivative of a time-constant state vanishes
	{
		a, err := New(sineField(32, 32), Field, Full, 20, 22, 0)
		assert.NoError(t, err)
		dt, err := a.Dt(1)
		assert.NoError(t, err)
		assert.True(t, near(dt.Norm(), 0))
	}
}

func TestDerivativeMatrixConsistency(t *testing.T) {
	rnd := rand.New(rand.NewSource(22))
	const N, M = 16, 16
	for _, sym := range allSymmetries {
		a := randomTorus(sym, N, M, 20, 22, 3, rnd)
		nr, nc := ModeShape(sym, N, M)
		v := utils.NewVector(nr*nc, a.State.Flatten())
		folded := sym == ShiftReflection || sym == Antisymmetric || sym == Equilibrium
		for p := 0; p <= 4; p++ {
			// Time derivative, elementwise against dense operator
			{
				D, errM := a.DtMatrix(p)
				d, errF := a.Dt(p)
				assert.NoError(t, errM)
				assert.NoError(t, errF)
				got := D.MulVec(v)
				want := d.State.Flatten()
				for i := range want {
					assert.True(t, near(got.AtVec(i), want[i]))
				}
			}
			// Space derivative, including the advisory odd orders
			{
				D, errM := a.DxMatrix(p)
				d, errF := a.Dx(p)
				if folded && p%2 == 1 {
					assert.ErrorIs(t, errM, ErrSymmetryBroken)
					assert.ErrorIs(t, errF, ErrSymmetryBroken)
				} else {
					assert.NoError(t, errM)
					assert.NoError(t, errF)
				}
				got := D.MulVec(v)
				want := d.State.Flatten()
				for i := range want {
					assert.True(t, near(got.AtVec(i), want[i]))
				}
			}
		}
	}
}

func TestDerivativeDegenerate(t *testing.T) {
	rnd := rand.New(rand.NewSource(23))
	// Zero periods cannot be differentiated against
	{
		a := randomTorus(Full, 32, 32, 0, 22, 0, rnd)
		_, err := a.Dt(1)
		assert.ErrorIs(t, err, ErrDegenerateParameter)
		_, err = a.DtMatrix(1)
		assert.ErrorIs(t, err, ErrDegenerateParameter)

		b := randomTorus(Full, 32, 32, 20, 0, 0, rnd)
		_, err = b.Dx(1)
		assert.ErrorIs(t, err, ErrDegenerateParameter)
		_, err = b.DxMatrix(1)
		assert.ErrorIs(t, err, ErrDegenerateParameter)
	}
	// An equilibrium's time derivative is identically zero without error
	{
		e := randomTorus(Equilibrium, 32, 32, 0, 22, 0, rnd)
		d, err := e.Dt(1)
		assert.NoError(t, err)
		assert.True(t, near(d.Norm(), 0))
		D, err := e.DtMatrix(1)
		assert.NoError(t, err)
		assert.True(t, near(D.Norm(), 0))
	}
	// Negative orders are rejected outright
	{
		a := randomTorus(Full, 32, 32, 20, 22, 0, rnd)
		_, err := a.Dt(-1)
		assert.Error(t, err)
		_, err = a.Dx(-1)
		assert.Error(t, err)
	}
}
