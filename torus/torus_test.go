package torus

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/notargets/goks/utils"
)

func near(a, b float64) (l bool) {
	if math.Abs(a-b) < 1.e-10*(1+math.Abs(a)) {
		l = true
	}
	return
}

func nearMatrix(A, B utils.Matrix) (l bool) {
	var (
		nrA, ncA = A.Dims()
		nrB, ncB = B.Dims()
	)
	if nrA != nrB || ncA != ncB {
		return false
	}
	l = true
	dataA, dataB := A.RawMatrix().Data, B.RawMatrix().Data
	for i := range dataA {
		if !near(dataA[i], dataB[i]) {
			l = false
		}
	}
	return
}

func randomMatrix(nr, nc int, rnd *rand.Rand) (R utils.Matrix) {
	R = utils.NewMatrix(nr, nc)
	data := R.RawMatrix().Data
	for i := range data {
		data[i] = rnd.NormFloat64()
	}
	return
}

// randomTorus draws an unconstrained mode array, which is a valid member of
// the symmetry subspace for every variant.
func randomTorus(sym Symmetry, N, M int, T, L, S float64, rnd *rand.Rand) Torus {
	nr, nc := ModeShape(sym, N, M)
	tor, err := New(randomMatrix(nr, nc, rnd), SpacetimeModes, sym, T, L, S, N)
	if err != nil {
		panic(err)
	}
	return tor
}

func sineField(N, M int) (F utils.Matrix) {
	F = utils.NewMatrix(N, M)
	for i := 0; i < N; i++ {
		for j := 0; j < M; j++ {
			F.Set(i, j, math.Sin(2*math.Pi*float64(j)/float64(M)))
		}
	}
	return
}

func TestNewValidation(t *testing.T) {
	// Discretization is inferred from the state shape per basis
	{
		tor, err := New(utils.NewMatrix(32, 32), Field, Full, 20, 22, 0)
		assert.NoError(t, err)
		assert.Equal(t, 32, tor.N)
		assert.Equal(t, 32, tor.M)
		tor, err = New(utils.NewMatrix(32, 30), SpaceModes, Full, 20, 22, 0)
		assert.NoError(t, err)
		assert.Equal(t, 32, tor.M)
		tor, err = New(utils.NewMatrix(31, 30), SpacetimeModes, Full, 20, 22, 0)
		assert.NoError(t, err)
		assert.Equal(t, 32, tor.N)
		tor, err = New(utils.NewMatrix(31, 15), SpacetimeModes, ShiftReflection, 20, 22, 0)
		assert.NoError(t, err)
		assert.Equal(t, 32, tor.M)
	}
	// Equilibrium modes are one row; N comes from the caller or defaults to 1
	{
		tor, err := New(utils.NewMatrix(1, 15), SpacetimeModes, Equilibrium, 0, 22, 0)
		assert.NoError(t, err)
		assert.Equal(t, 1, tor.N)
		assert.Equal(t, 32, tor.M)
		tor, err = New(utils.NewMatrix(1, 15), SpacetimeModes, Equilibrium, 0, 22, 0, 32)
		assert.NoError(t, err)
		assert.Equal(t, 32, tor.N)
		_, err = New(utils.NewMatrix(2, 15), SpacetimeModes, Equilibrium, 0, 22, 0)
		assert.ErrorIs(t, err, ErrShapeMismatch)
	}
	// T is structurally zero for an equilibrium, S for anything not relative
	{
		tor, err := New(utils.NewMatrix(32, 32), Field, Equilibrium, 55, 22, 0)
		assert.NoError(t, err)
		assert.Equal(t, 0.0, tor.T)
		tor, err = New(utils.NewMatrix(32, 32), Field, Full, 20, 22, 5)
		assert.NoError(t, err)
		assert.Equal(t, 0.0, tor.S)
		tor, err = New(utils.NewMatrix(32, 32), Field, Relative, 20, 22, 5)
		assert.NoError(t, err)
		assert.Equal(t, 5.0, tor.S)
	}
	// Bad discretizations and parameters are rejected
	{
		_, err := New(utils.NewMatrix(32, 31), Field, Full, 20, 22, 0)
		assert.ErrorIs(t, err, ErrShapeMismatch)
		_, err = New(utils.NewMatrix(31, 32), Field, Full, 20, 22, 0)
		assert.ErrorIs(t, err, ErrShapeMismatch)
		_, err = New(utils.NewMatrix(2, 32), Field, Full, 20, 22, 0)
		assert.ErrorIs(t, err, ErrShapeMismatch)
		_, err = New(utils.NewMatrix(32, 32), Field, Full, -1, 22, 0)
		assert.ErrorIs(t, err, ErrDegenerateParameter)
		_, err = New(utils.NewMatrix(31, 30), SpacetimeModes, Full, 20, 22, 0, 64)
		assert.ErrorIs(t, err, ErrShapeMismatch)
	}
}

func TestArithmetic(t *testing.T) {
	rnd := rand.New(rand.NewSource(3))
	a := randomTorus(Full, 32, 32, 20, 22, 0, rnd)
	b := randomTorus(Full, 32, 32, 44, 30, 0, rnd)
	// Sum and difference keep the receiver's parameters
	{
		sum, err := a.Add(b)
		assert.NoError(t, err)
		assert.Equal(t, a.T, sum.T)
		diff, err := sum.Sub(b)
		assert.NoError(t, err)
		assert.True(t, nearMatrix(a.State, diff.State))
	}
	// Mixed variants are rejected
	{
		c := randomTorus(Antisymmetric, 32, 32, 20, 22, 0, rnd)
		_, err := a.Add(c)
		assert.ErrorIs(t, err, ErrShapeMismatch)
	}
	// Norm is basis invariant and scales linearly
	{
		f := a.mustConvert(Field)
		s := a.mustConvert(SpaceModes)
		assert.True(t, near(a.Norm(), f.Norm()))
		assert.True(t, near(a.Norm(), s.Norm()))
		assert.True(t, near(a.Scale(2).Norm(), 2*a.Norm()))
	}
	// Renormalize caps the field amplitude at 1/denom
	{
		r, err := a.Renormalize(0.25)
		assert.NoError(t, err)
		assert.Equal(t, Field, r.Basis)
		assert.True(t, near(r.State.MaxAbs(), 4.0))
		z, _ := Zeros(Field, Full, 32, 32, 20, 22, 0)
		_, err = z.Renormalize(0.25)
		assert.ErrorIs(t, err, ErrDegenerateParameter)
	}
	// Inner product is consistent with the norm
	{
		d, err := a.Dot(a)
		assert.NoError(t, err)
		assert.True(t, near(d, a.Norm()*a.Norm()))
		dist, err := a.L2Distance(b)
		assert.NoError(t, err)
		diff, _ := a.Sub(b)
		assert.True(t, near(dist, diff.Norm()))
	}
}

func TestModeAmplitude(t *testing.T) {
	// A unit coefficient in the mean-row cosine k=1 slot is a standing
	// cosine of amplitude sqrt(2)/sqrt(N*M) on the grid
	{
		tor, err := Zeros(SpacetimeModes, Full, 32, 32, 20, 22, 0)
		assert.NoError(t, err)
		tor.State.Set(0, 0, 1)
		f := tor.mustConvert(Field)
		amp := math.Sqrt2 / 32.0
		for _, ij := range [][2]int{{0, 0}, {5, 3}, {31, 17}} {
			i, j := ij[0], ij[1]
			expected := amp * math.Cos(2*math.Pi*float64(j)/32.0)
			assert.True(t, near(f.State.At(i, j), expected))
		}
		assert.True(t, near(f.Norm(), 1.0))
		back := f.mustConvert(SpacetimeModes)
		assert.True(t, nearMatrix(back.State, tor.State))
	}
}

func TestEquilibriumDetection(t *testing.T) {
	// A time-constant odd field collapses to an EQUILIBRIUM
	{
		F := sineField(32, 32)
		tor, err := New(F, Field, Full, 20, 22, 0)
		assert.NoError(t, err)
		eq, replaced := tor.IsZeroOrEquilibrium()
		assert.True(t, replaced)
		assert.Equal(t, Equilibrium, eq.Symmetry)
		assert.Equal(t, 0.0, eq.T)
		round := eq.mustConvert(SpacetimeModes).mustConvert(Field)
		assert.True(t, nearMatrix(round.State, F))
	}
	// The zero state is replaced by zeros of the same variant
	{
		z, _ := Zeros(Field, Relative, 32, 32, 20, 22, 3)
		r, replaced := z.IsZeroOrEquilibrium()
		assert.True(t, replaced)
		assert.Equal(t, Relative, r.Symmetry)
		assert.True(t, near(r.Norm(), 0))
	}
	// A genuinely time dependent state passes through unchanged
	{
		rnd := rand.New(rand.NewSource(4))
		a := randomTorus(Full, 32, 32, 20, 22, 0, rnd)
		r, replaced := a.IsZeroOrEquilibrium()
		assert.False(t, replaced)
		assert.True(t, nearMatrix(r.State, a.State))
	}
}

func TestStateVector(t *testing.T) {
	rnd := rand.New(rand.NewSource(5))
	// Layout round trip with the trailing parameters per variant
	{
		syms := []Symmetry{Full, Relative, ShiftReflection, Antisymmetric, Equilibrium}
		for _, sym := range syms {
			a := randomTorus(sym, 32, 32, 20, 22, 3, rnd)
			v := a.StateVector()
			nr, nc := ModeShape(sym, 32, 32)
			assert.Equal(t, nr*nc+a.ParameterCount(), v.Len())
			b, err := a.FromStateVector(v)
			assert.NoError(t, err)
			assert.True(t, nearMatrix(a.State, b.State))
			assert.Equal(t, a.T, b.T)
			assert.Equal(t, a.L, b.L)
			assert.Equal(t, a.S, b.S)
			_, err = a.FromStateVector(utils.NewVector(3))
			assert.ErrorIs(t, err, ErrShapeMismatch)
		}
	}
	// Increment advances state and parameters together
	{
		a := randomTorus(Relative, 32, 32, 20, 22, 3, rnd)
		d := randomTorus(Relative, 32, 32, 1, 2, 0.5, rnd)
		r, err := a.Increment(d, 0.5)
		assert.NoError(t, err)
		assert.True(t, near(r.T, 20.5))
		assert.True(t, near(r.L, 23))
		assert.True(t, near(r.S, 3.25))
		want, _ := a.Add(d.Scale(0.5))
		assert.True(t, nearMatrix(r.State, want.State))
	}
}

func TestPrecondition(t *testing.T) {
	rnd := rand.New(rand.NewSource(6))
	a := randomTorus(Full, 32, 32, 20, 22, 0, rnd)
	g := randomTorus(Full, 32, 32, 7, 11, 0, rnd)
	// The grid is the inverse linear symbol, zero frequency on the mean row
	{
		grid := a.PreconditionGrid()
		q1 := 2 * math.Pi / 22
		assert.True(t, near(grid.At(0, 0), 1/(q1*q1+q1*q1*q1*q1)))
		w1 := 2 * math.Pi / 20
		assert.True(t, near(grid.At(1, 0), 1/(w1+q1*q1+q1*q1*q1*q1)))
	}
	// State is damped elementwise, parameters divided by T and L^4
	{
		p, err := g.Precondition(a, Fixed{})
		assert.NoError(t, err)
		assert.True(t, near(p.T, 7.0/20.0))
		assert.True(t, near(p.L, 11.0/math.Pow(22, 4)))
		want := g.State.Copy().ElMul(a.PreconditionGrid())
		assert.True(t, nearMatrix(p.State, want))
	}
	// Fixed parameters pass through untouched
	{
		p, err := g.Precondition(a, Fixed{T: true, L: true})
		assert.NoError(t, err)
		assert.Equal(t, g.T, p.T)
		assert.Equal(t, g.L, p.L)
	}
	// Degenerate base parameters are rejected
	{
		bad := randomTorus(Full, 32, 32, 0, 22, 0, rnd)
		_, err := g.Precondition(bad, Fixed{})
		assert.ErrorIs(t, err, ErrDegenerateParameter)
	}
	// The equilibrium grid has no temporal term
	{
		e := randomTorus(Equilibrium, 32, 32, 0, 22, 0, rnd)
		grid := e.PreconditionGrid()
		q1 := 2 * math.Pi / 22
		assert.True(t, near(grid.At(0, 0), 1/(q1*q1+q1*q1*q1*q1)))
	}
}
