package torus

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/notargets/goks/utils"
)

var allSymmetries = []Symmetry{Full, Relative, ShiftReflection, Antisymmetric, Equilibrium}

func TestConvertRoundTrip(t *testing.T) {
	rnd := rand.New(rand.NewSource(11))
	for _, sym := range allSymmetries {
		for _, size := range []struct{ N, M int }{{32, 32}, {32, 64}, {64, 32}} {
			a := randomTorus(sym, size.N, size.M, 20, 22, 3, rnd)
			// Modes -> field -> modes reproduces every coefficient
			{
				f := a.mustConvert(Field)
				back := f.mustConvert(SpacetimeModes)
				assert.True(t, nearMatrix(a.State, back.State))
			}
			// The packing is unitary: the norm agrees in all three bases
			{
				f := a.mustConvert(Field)
				s := a.mustConvert(SpaceModes)
				assert.True(t, near(a.Norm(), f.Norm()))
				assert.True(t, near(a.Norm(), s.Norm()))
			}
			// Walking the chain one step at a time matches the direct jump
			{
				viaS := a.mustConvert(SpaceModes).mustConvert(Field)
				direct := a.mustConvert(Field)
				assert.True(t, nearMatrix(viaS.State, direct.State))
			}
			// In-place conversion is observably identical
			{
				f := a.mustConvert(Field)
				b := a.Copy()
				assert.NoError(t, b.ConvertInPlace(Field))
				assert.True(t, nearMatrix(f.State, b.State))
				assert.Equal(t, Field, b.Basis)
			}
		}
	}
	// Converting to the current basis copies rather than aliases
	{
		a := randomTorus(Full, 32, 32, 20, 22, 0, rnd)
		c, err := a.ConvertTo(SpacetimeModes)
		assert.NoError(t, err)
		c.State.Set(0, 0, 1e6)
		assert.False(t, nearMatrix(a.State, c.State))
	}
}

func TestTransformMatrixConsistency(t *testing.T) {
	rnd := rand.New(rand.NewSource(12))
	const N, M = 16, 16
	for _, sym := range allSymmetries {
		a := randomTorus(sym, N, M, 20, 22, 3, rnd)
		nr, nc := ModeShape(sym, N, M)
		// Matrix forward transform agrees with the functional one
		{
			f := a.mustConvert(Field)
			v := utils.NewVector(N*M, f.State.Flatten())
			got := a.SpacetimeForwardMatrix().MulVec(v)
			want := a.State.Flatten()
			for i := range want {
				assert.True(t, near(got.AtVec(i), want[i]))
			}
		}
		// Matrix inverse recovers the field from the modes
		{
			f := a.mustConvert(Field)
			v := utils.NewVector(nr*nc, a.State.Flatten())
			got := a.SpacetimeInverseMatrix().MulVec(v)
			want := f.State.Flatten()
			for i := range want {
				assert.True(t, near(got.AtVec(i), want[i]))
			}
		}
		// Forward of inverse is the identity on the mode side
		{
			P := a.SpacetimeForwardMatrix().Mul(a.SpacetimeInverseMatrix())
			assert.True(t, nearMatrix(P, utils.Eye(nr*nc)))
		}
		// The time transform matrices match the fold used in conversion
		{
			s := a.mustConvert(SpaceModes)
			snr, snc := s.State.Dims()
			v := utils.NewVector(snr*snc, s.State.Flatten())
			got := a.TimeForwardMatrix().MulVec(v)
			want := a.State.Flatten()
			for i := range want {
				assert.True(t, near(got.AtVec(i), want[i]))
			}
		}
	}
}
