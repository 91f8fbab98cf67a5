package torus

import (
	"fmt"
	"math"

	"github.com/notargets/goks/spectral"
	"github.com/notargets/goks/utils"
)

// Fixed marks continuation parameters excluded from the unknown vector
// during optimization.
type Fixed struct {
	T bool
	L bool
	S bool
}

// ParameterCount is the number of continuation parameters carried with the
// flattened modes: T and L, plus S for a RELATIVE state, only L for an
// EQUILIBRIUM.
func (t Torus) ParameterCount() int {
	switch t.Symmetry {
	case Relative:
		return 3
	case Equilibrium:
		return 1
	default:
		return 2
	}
}

// StateVector flattens the spacetime modes row major and appends the
// continuation parameters.
func (t Torus) StateVector() utils.Vector {
	var (
		modes = t.mustConvert(SpacetimeModes)
		data  = modes.State.Flatten()
	)
	switch t.Symmetry {
	case Relative:
		data = append(data, t.T, t.L, t.S)
	case Equilibrium:
		data = append(data, t.L)
	default:
		data = append(data, t.T, t.L)
	}
	return utils.NewVector(len(data), data)
}

// FromStateVector rebuilds a torus from the layout produced by StateVector,
// using the receiver as the shape template.
func (t Torus) FromStateVector(v utils.Vector) (r Torus, err error) {
	var (
		nr, nc = ModeShape(t.Symmetry, t.N, t.M)
		want   = nr*nc + t.ParameterCount()
		data   = v.DataP()
	)
	if len(data) != want {
		err = fmt.Errorf("%w: state vector length %d, want %d",
			ErrShapeMismatch, len(data), want)
		return
	}
	state := utils.NewMatrix(nr, nc, append([]float64(nil), data[:nr*nc]...))
	r = t.with(state, SpacetimeModes)
	p := data[nr*nc:]
	switch t.Symmetry {
	case Relative:
		r.T, r.L, r.S = p[0], p[1], p[2]
	case Equilibrium:
		r.T, r.L, r.S = 0, p[0], 0
	default:
		r.T, r.L, r.S = p[0], p[1], 0
	}
	return
}

// Increment adds step times another state and its parameters, returned in
// the spacetime mode basis. Directions held fixed by the caller should
// simply be zero in other.
func (t Torus) Increment(other Torus, step float64) (r Torus, err error) {
	a, err := t.ConvertTo(SpacetimeModes)
	if err != nil {
		return
	}
	b, err := other.ConvertTo(SpacetimeModes)
	if err != nil {
		return
	}
	if err = a.compatible(b); err != nil {
		return
	}
	r = a.with(a.State.Add(b.State.Copy().Scale(step)), SpacetimeModes)
	r.T = t.T + step*other.T
	r.L = t.L + step*other.L
	if t.Symmetry == Relative {
		r.S = t.S + step*other.S
	}
	return
}

// PreconditionGrid is the inverse symbol 1 / (|w| + q^2 + q^4) on the mode
// shape of the receiver, the elementwise left preconditioner of the KS
// spatiotemporal system. The |w| term is absent for an EQUILIBRIUM and on
// the temporal mean row.
func (t Torus) PreconditionGrid() utils.Matrix {
	if t.L == 0 {
		panic(fmt.Errorf("precondition grid needs L > 0"))
	}
	var (
		nr, nc = ModeShape(t.Symmetry, t.N, t.M)
		q2     = spectral.SpatialWavenumbers(t.L, t.M, 2)
		q4     = spectral.SpatialWavenumbers(t.L, t.M, 4)
		m      = t.m()
		P      = utils.NewMatrix(nr, nc)
		absw   = make([]float64, nr)
	)
	if t.Symmetry != Equilibrium {
		if t.T == 0 {
			panic(fmt.Errorf("precondition grid needs T > 0"))
		}
		var (
			w = spectral.TemporalFrequencies(t.T, t.N, 1)
			n = t.n()
		)
		for j, wj := range w {
			absw[1+j] = math.Abs(wj)
			absw[1+n+j] = math.Abs(wj)
		}
	}
	for i := 0; i < nr; i++ {
		for j := 0; j < nc; j++ {
			k := j % m
			P.Set(i, j, 1/(absw[i]+q2[k]+q4[k]))
		}
	}
	return P
}

// Precondition damps the stiff high wavenumber directions of a correction
// by the inverse linear symbol evaluated at base, which must share the
// receiver's discretization. Parameter entries are divided by base.T and
// base.L to the fourth unless held fixed.
func (t Torus) Precondition(base Torus, fixed Fixed) (r Torus, err error) {
	modes, err := t.ConvertTo(SpacetimeModes)
	if err != nil {
		return
	}
	if t.Symmetry != base.Symmetry || t.N != base.N || t.M != base.M {
		err = fmt.Errorf("%w: preconditioning %v %dx%d against %v %dx%d",
			ErrShapeMismatch, t.Symmetry, t.N, t.M, base.Symmetry, base.N, base.M)
		return
	}
	if base.L == 0 || (base.Symmetry != Equilibrium && base.T == 0) {
		err = fmt.Errorf("%w: preconditioning at T=%v L=%v",
			ErrDegenerateParameter, base.T, base.L)
		return
	}
	r = modes.with(modes.State.ElMul(base.PreconditionGrid()), SpacetimeModes)
	if !fixed.T && t.Symmetry != Equilibrium {
		r.T = t.T / base.T
	}
	if !fixed.L {
		r.L = t.L / (base.L * base.L * base.L * base.L)
	}
	return
}
