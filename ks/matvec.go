package ks

import (
	"github.com/notargets/goks/spectral"
	"github.com/notargets/goks/torus"
	"github.com/notargets/goks/utils"
)

// The continuation parameters enter the mapping only through the frequency
// grids, so their partials wrap the same elementwise products as the flow
// itself. Each helper takes the state already in the spacetime mode basis
// and returns the gradient as a state-shaped array, which Jacobian flattens
// into an appended column and Rmatvec contracts into a scalar.

// dFdT is the partial of the mapping with respect to the time period. The
// temporal frequencies carry a factor 1/T, so differentiating brings down
// -1/T times the time derivative term, and for a RELATIVE state the same
// factor times the comoving term.
func dFdT(modes torus.Torus) (R utils.Matrix) {
	w1 := modes.TemporalFrequencyMatrix()
	R = spectral.SwapModes(w1.ElMul(modes.State), spectral.TimeAxis)
	if modes.Symmetry == torus.Relative {
		q1 := modes.SpatialWavenumberMatrix()
		comoving := spectral.SwapModes(q1.ElMul(modes.State), spectral.SpaceAxis)
		R.Add(comoving.Scale(-modes.S / modes.T))
	}
	return R.Scale(-1 / modes.T)
}

// dFdL is the partial with respect to the spatial period. Each power of the
// wavenumber contributes its own factor, -p/L per q^p term, and the
// quadratic term carries a single derivative.
func dFdL(modes torus.Torus) (R utils.Matrix, err error) {
	var (
		q1  = modes.SpatialWavenumberMatrix()
		d2x = q1.Copy().POW(2).Scale(-1).ElMul(modes.State)
		d4x = q1.Copy().POW(4).ElMul(modes.State)
	)
	R = d2x.Scale(-2 / modes.L).Add(d4x.Scale(-4 / modes.L))
	if modes.Symmetry == torus.Relative {
		comoving := spectral.SwapModes(q1.Copy().ElMul(modes.State), spectral.SpaceAxis)
		R.Add(comoving.Scale(-modes.S / modes.T).Scale(-1 / modes.L))
	}
	nl, err := Pseudospectral(modes, modes)
	if err != nil {
		return
	}
	R.Add(nl.State.Scale(-1 / modes.L))
	return
}

// dFdS is the partial with respect to the comoving shift, defined for
// RELATIVE states only.
func dFdS(modes torus.Torus) utils.Matrix {
	q1 := modes.SpatialWavenumberMatrix()
	return spectral.SwapModes(q1.ElMul(modes.State), spectral.SpaceAxis).Scale(-1 / modes.T)
}

// Matvec applies the Jacobian at t to the tangent v without materializing
// the matrix. The tangent's own T, L and S fields supply the parameter
// components of the direction; entries held fixed contribute nothing. With
// precondition set, the result is damped by the inverse linear symbol, the
// left preconditioning used inside the solvers.
func Matvec(t, v torus.Torus, fixed torus.Fixed, precondition bool) (r torus.Torus, err error) {
	if err = checkDomain(t); err != nil {
		return
	}
	if err = checkPair(t, v); err != nil {
		return
	}
	tm, err := t.ConvertTo(torus.SpacetimeModes)
	if err != nil {
		return
	}
	vm, err := v.ConvertTo(torus.SpacetimeModes)
	if err != nil {
		return
	}
	var (
		q1     = t.SpatialWavenumberMatrix()
		d2xd4x = q1.Copy().POW(2).Scale(-1).Add(q1.Copy().POW(4))
		R      = d2xd4x.ElMul(vm.State)
	)
	if t.Symmetry != torus.Equilibrium {
		w1 := t.TemporalFrequencyMatrix()
		R.Add(spectral.SwapModes(w1.ElMul(vm.State), spectral.TimeAxis))
	}
	if t.Symmetry == torus.Relative {
		comoving := spectral.SwapModes(q1.Copy().ElMul(vm.State), spectral.SpaceAxis)
		R.Add(comoving.Scale(-t.S / t.T))
	}
	nl, err := Pseudospectral(t, v)
	if err != nil {
		return
	}
	R.Add(nl.State.Scale(2))
	if !fixed.T && t.Symmetry != torus.Equilibrium {
		R.Add(dFdT(tm).Scale(v.T))
	}
	if !fixed.L {
		var dfdl utils.Matrix
		if dfdl, err = dFdL(tm); err != nil {
			return
		}
		R.Add(dfdl.Scale(v.L))
	}
	if !fixed.S && t.Symmetry == torus.Relative {
		R.Add(dFdS(tm).Scale(v.S))
	}
	if precondition {
		R.ElMul(t.PreconditionGrid())
	}
	return torus.New(R, torus.SpacetimeModes, t.Symmetry, t.T, t.L, t.S, t.N)
}

// Rmatvec applies the transposed Jacobian at t to v. The state part negates
// the time derivative and comoving terms, which are antisymmetric, and
// replaces the quadratic tangent with its adjoint. The parameter components
// of the result are scalars, the contractions of the parameter gradients
// against v, and land in the T, L and S fields of the returned state.
// Preconditioning additionally divides them by T and L to the fourth.
func Rmatvec(t, v torus.Torus, fixed torus.Fixed, precondition bool) (r torus.Torus, err error) {
	if err = checkDomain(t); err != nil {
		return
	}
	if err = checkPair(t, v); err != nil {
		return
	}
	tm, err := t.ConvertTo(torus.SpacetimeModes)
	if err != nil {
		return
	}
	vm, err := v.ConvertTo(torus.SpacetimeModes)
	if err != nil {
		return
	}
	var (
		q1     = t.SpatialWavenumberMatrix()
		d2xd4x = q1.Copy().POW(2).Scale(-1).Add(q1.Copy().POW(4))
		R      = d2xd4x.ElMul(vm.State)
	)
	if t.Symmetry != torus.Equilibrium {
		w1 := t.TemporalFrequencyMatrix()
		R.Add(spectral.SwapModes(w1.ElMul(vm.State), spectral.TimeAxis).Scale(-1))
	}
	if t.Symmetry == torus.Relative {
		comoving := spectral.SwapModes(q1.Copy().ElMul(vm.State), spectral.SpaceAxis)
		R.Add(comoving.Scale(t.S / t.T))
	}
	nl, err := AdjointPseudospectral(t, v)
	if err != nil {
		return
	}
	R.Add(nl.State)
	if r, err = torus.New(R, torus.SpacetimeModes, t.Symmetry, t.T, t.L, t.S, t.N); err != nil {
		return
	}
	r.T, r.L, r.S = 0, 0, 0
	if !fixed.T && t.Symmetry != torus.Equilibrium {
		r.T = dFdT(tm).Dot(vm.State)
	}
	if !fixed.L {
		var dfdl utils.Matrix
		if dfdl, err = dFdL(tm); err != nil {
			return
		}
		r.L = dfdl.Dot(vm.State)
	}
	if !fixed.S && t.Symmetry == torus.Relative {
		r.S = dFdS(tm).Dot(vm.State)
	}
	if precondition {
		r, err = r.Precondition(t, fixed)
	}
	return
}
