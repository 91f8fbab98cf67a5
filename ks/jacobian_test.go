package ks

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/notargets/goks/torus"
	"github.com/notargets/goks/utils"
)

func TestJacobianLinearComposition(t *testing.T) {
	rnd := rand.New(rand.NewSource(51))
	const N, M = 16, 16
	// The sparse staging reproduces the operator sum it replaces
	for _, sym := range []torus.Symmetry{torus.Full, torus.ShiftReflection, torus.Equilibrium} {
		tor := randomTorus(sym, N, M, 20, 22, 0, rnd)
		Dt1, err := tor.DtMatrix(1)
		assert.NoError(t, err)
		Dx2, err := tor.DxMatrix(2)
		assert.NoError(t, err)
		Dx4, err := tor.DxMatrix(4)
		assert.NoError(t, err)
		want := Dt1.Add(Dx2).Add(Dx4)
		assert.True(t, nearMatrix(jacobianLinear(tor), want))
	}
	// A RELATIVE state adds the comoving transport operator
	{
		tor := randomTorus(torus.Relative, N, M, 20, 22, 3, rnd)
		Dt1, err := tor.DtMatrix(1)
		assert.NoError(t, err)
		Dx2, err := tor.DxMatrix(2)
		assert.NoError(t, err)
		Dx4, err := tor.DxMatrix(4)
		assert.NoError(t, err)
		Dx1, err := tor.DxMatrix(1)
		assert.NoError(t, err)
		want := Dt1.Add(Dx2).Add(Dx4).Add(Dx1.Scale(-tor.S / tor.T))
		assert.True(t, nearMatrix(jacobianLinear(tor), want))
	}
}

func TestJacobianFiniteDifference(t *testing.T) {
	rnd := rand.New(rand.NewSource(52))
	const (
		N, M = 16, 16
		eps  = 1e-5
	)
	none := torus.Fixed{}
	// Central differences of the mapping along a direction that moves the
	// state and every free parameter at once
	for _, sym := range []torus.Symmetry{torus.Full, torus.Relative} {
		var (
			tor = randomTorus(sym, N, M, 20, 22, 3, rnd)
			dv  = tangentTorus(sym, N, M, rnd)
		)
		J, err := Jacobian(tor, none)
		assert.NoError(t, err)
		want := J.MulVec(dv.StateVector())

		up, err := tor.Increment(dv, eps)
		assert.NoError(t, err)
		down, err := tor.Increment(dv, -eps)
		assert.NoError(t, err)
		Fup, err := Mapping(up)
		assert.NoError(t, err)
		Fdown, err := Mapping(down)
		assert.NoError(t, err)
		diff, err := Fup.Sub(Fdown)
		assert.NoError(t, err)
		fd := diff.Scale(1 / (2 * eps)).State.Flatten()

		assert.Equal(t, want.Len(), len(fd))
		for i := range fd {
			assert.True(t, nearTol(want.AtVec(i), fd[i], 2e-6))
		}
	}
}

func TestJacobianShapes(t *testing.T) {
	rnd := rand.New(rand.NewSource(53))
	const N, M = 16, 16
	none := torus.Fixed{}
	for _, tc := range []struct {
		sym   torus.Symmetry
		fixed torus.Fixed
		extra int
	}{
		{torus.Full, none, 2},
		{torus.Full, torus.Fixed{T: true}, 1},
		{torus.Full, torus.Fixed{T: true, L: true}, 0},
		{torus.Relative, none, 3},
		{torus.Relative, torus.Fixed{S: true}, 2},
		{torus.ShiftReflection, none, 2},
		{torus.Equilibrium, none, 1},
		{torus.Equilibrium, torus.Fixed{L: true}, 0},
	} {
		var (
			tor    = randomTorus(tc.sym, N, M, 20, 22, 3, rnd)
			nr, nc = torus.ModeShape(tc.sym, N, M)
		)
		J, err := Jacobian(tor, tc.fixed)
		assert.NoError(t, err)
		jr, jc := J.Dims()
		assert.Equal(t, nr*nc, jr)
		assert.Equal(t, nr*nc+tc.extra, jc)
	}
}

func TestPreconditionerMasks(t *testing.T) {
	rnd := rand.New(rand.NewSource(54))
	const N, M = 16, 16
	none := torus.Fixed{}
	{
		var (
			tor    = randomTorus(torus.Full, N, M, 20, 22, 0, rnd)
			nr, nc = torus.ModeShape(torus.Full, N, M)
			size   = nr * nc
			p      = tor.PreconditionGrid().Flatten()
		)
		left, right, err := Preconditioner(tor, none)
		assert.NoError(t, err)
		lr, lc := left.Dims()
		assert.Equal(t, size, lr)
		assert.Equal(t, size+2, lc)
		rr, rc := right.Dims()
		assert.Equal(t, size, rr)
		assert.Equal(t, size+2, rc)
		// Left repeats the symbol down each row, right across each column,
		// and right carries the parameter scalings in its trailing columns
		for _, i := range []int{0, 7, size - 1} {
			assert.True(t, near(left.At(i, 0), p[i]))
			assert.True(t, near(left.At(i, size+1), p[i]))
			assert.True(t, near(right.At(i, 3), p[3]))
			assert.True(t, near(right.At(i, size), 1/20.0))
			assert.True(t, near(right.At(i, size+1), 1/utils.POW(22, 4)))
		}
	}
	// An EQUILIBRIUM exposes only the spatial period
	{
		var (
			tor    = randomTorus(torus.Equilibrium, N, M, 0, 22, 0, rnd)
			nr, nc = torus.ModeShape(torus.Equilibrium, N, M)
			size   = nr * nc
		)
		left, right, err := Preconditioner(tor, none)
		assert.NoError(t, err)
		_, lc := left.Dims()
		assert.Equal(t, size+1, lc)
		for i := 0; i < size; i++ {
			assert.True(t, near(right.At(i, size), 1/utils.POW(22, 4)))
		}
	}
}
