// Package ks evaluates the Kuramoto-Sivashinsky equation
//
//	F(u) = u_t + u_xx + u_xxxx + 1/2 (u^2)_x  [ - (S/T) u_x on a comoving domain ]
//
// and its linearization over the spectral states of the torus package. In
// the spacetime mode basis the linear terms act elementwise through the
// frequency grids, with the usual cosine/sine half swap standing in for the
// factor of i, while the quadratic term is computed pseudospectrally: the
// product is taken pointwise on the collocation grid and differentiated in
// mode space, which is exact within the retained truncation.
//
// The mapping, its Jacobian, and the matrix-free actions Matvec and Rmatvec
// share one set of analytic parameter gradients, so J*v computed without the
// explicit matrix agrees with the assembled Jacobian to roundoff. All
// results come back in the spacetime mode basis of the input variant.
package ks

import (
	"fmt"

	"github.com/notargets/goks/spectral"
	"github.com/notargets/goks/torus"
)

func checkDomain(t torus.Torus) error {
	if t.L == 0 {
		return fmt.Errorf("%w: evaluating the flow with L=0", torus.ErrDegenerateParameter)
	}
	if t.T == 0 && t.Symmetry != torus.Equilibrium {
		return fmt.Errorf("%w: evaluating the flow with T=0", torus.ErrDegenerateParameter)
	}
	return nil
}

func checkPair(t, v torus.Torus) error {
	if t.Symmetry != v.Symmetry || t.N != v.N || t.M != v.M {
		return fmt.Errorf("%w: %v %dx%d paired with %v %dx%d",
			torus.ErrShapeMismatch, t.Symmetry, t.N, t.M, v.Symmetry, v.N, v.M)
	}
	return nil
}

// Mapping evaluates F at the current state. The time derivative term drops
// for an EQUILIBRIUM and a RELATIVE state adds the comoving transport term.
func Mapping(t torus.Torus) (r torus.Torus, err error) {
	if err = checkDomain(t); err != nil {
		return
	}
	modes, err := t.ConvertTo(torus.SpacetimeModes)
	if err != nil {
		return
	}
	var (
		q1     = modes.SpatialWavenumberMatrix()
		d2xd4x = q1.Copy().POW(2).Scale(-1).Add(q1.Copy().POW(4))
		R      = d2xd4x.ElMul(modes.State)
	)
	if t.Symmetry != torus.Equilibrium {
		w1 := modes.TemporalFrequencyMatrix()
		R.Add(spectral.SwapModes(w1.ElMul(modes.State), spectral.TimeAxis))
	}
	if t.Symmetry == torus.Relative {
		comoving := spectral.SwapModes(q1.Copy().ElMul(modes.State), spectral.SpaceAxis)
		R.Add(comoving.Scale(-t.S / t.T))
	}
	nl, err := Pseudospectral(t, t)
	if err != nil {
		return
	}
	R.Add(nl.State)
	return torus.New(R, torus.SpacetimeModes, t.Symmetry, t.T, t.L, t.S, t.N)
}

// Residual is half the squared mapping norm, the objective driven to zero
// when hunting for solutions.
func Residual(t torus.Torus) (res float64, err error) {
	F, err := Mapping(t)
	if err != nil {
		return
	}
	nrm := F.Norm()
	res = 0.5 * nrm * nrm
	return
}

// Pseudospectral is 1/2 d/dx (a*b), the quadratic term of the mapping when
// b equals a and the tangent contribution (up to a factor of two) when it
// does not. The unfolded variants differentiate directly in the mode basis;
// the folded ones differentiate at the s_modes level, where the full spatial
// spectrum is available, and fold afterward. The fold loses nothing because
// the derivative of the product lands back inside the symmetry subspace.
func Pseudospectral(a, b torus.Torus) (r torus.Torus, err error) {
	if err = checkPair(a, b); err != nil {
		return
	}
	if a.L == 0 {
		err = fmt.Errorf("%w: spatial derivative with L=0", torus.ErrDegenerateParameter)
		return
	}
	af, err := a.ConvertTo(torus.Field)
	if err != nil {
		return
	}
	bf, err := b.ConvertTo(torus.Field)
	if err != nil {
		return
	}
	prod, err := af.StateMul(bf)
	if err != nil {
		return
	}
	switch a.Symmetry {
	case torus.Full, torus.Relative:
		var pm torus.Torus
		if pm, err = prod.ConvertTo(torus.SpacetimeModes); err != nil {
			return
		}
		R := spectral.SwapModes(a.SpatialWavenumberMatrix().ElMul(pm.State), spectral.SpaceAxis)
		return torus.New(R.Scale(0.5), torus.SpacetimeModes, a.Symmetry, a.T, a.L, a.S, a.N)
	default:
		var sm torus.Torus
		if sm, err = prod.ConvertTo(torus.SpaceModes); err != nil {
			return
		}
		R := spectral.SwapModes(a.SpatialWavenumberSModesMatrix().ElMul(sm.State), spectral.SpaceAxis)
		var st torus.Torus
		if st, err = torus.New(R.Scale(0.5), torus.SpaceModes, a.Symmetry, a.T, a.L, a.S, a.N); err != nil {
			return
		}
		return st.ConvertTo(torus.SpacetimeModes)
	}
}

// AdjointPseudospectral is -a * d/dx b, the transposed tangent of the
// quadratic term. The derivative of b leaves the folded subspaces, so it is
// held at the s_modes level until after the product, which restores the
// symmetry.
func AdjointPseudospectral(a, b torus.Torus) (r torus.Torus, err error) {
	if err = checkPair(a, b); err != nil {
		return
	}
	if a.L == 0 {
		err = fmt.Errorf("%w: spatial derivative with L=0", torus.ErrDegenerateParameter)
		return
	}
	var bx torus.Torus
	switch a.Symmetry {
	case torus.Full, torus.Relative:
		var bm torus.Torus
		if bm, err = b.ConvertTo(torus.SpacetimeModes); err != nil {
			return
		}
		R := spectral.SwapModes(a.SpatialWavenumberMatrix().ElMul(bm.State), spectral.SpaceAxis)
		if bx, err = torus.New(R, torus.SpacetimeModes, a.Symmetry, a.T, a.L, a.S, a.N); err != nil {
			return
		}
	default:
		var bs torus.Torus
		if bs, err = b.ConvertTo(torus.SpaceModes); err != nil {
			return
		}
		R := spectral.SwapModes(a.SpatialWavenumberSModesMatrix().ElMul(bs.State), spectral.SpaceAxis)
		if bx, err = torus.New(R, torus.SpaceModes, a.Symmetry, a.T, a.L, a.S, a.N); err != nil {
			return
		}
	}
	af, err := a.ConvertTo(torus.Field)
	if err != nil {
		return
	}
	bxf, err := bx.ConvertTo(torus.Field)
	if err != nil {
		return
	}
	prod, err := af.StateMul(bxf)
	if err != nil {
		return
	}
	pm, err := prod.ConvertTo(torus.SpacetimeModes)
	if err != nil {
		return
	}
	r = pm.Scale(-1)
	return
}
