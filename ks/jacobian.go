package ks

import (
	"github.com/notargets/goks/spectral"
	"github.com/notargets/goks/torus"
	"github.com/notargets/goks/utils"
)

// Jacobian assembles the dense linearization of the mapping at t, acting on
// the flattened spacetime modes with one appended column per free
// continuation parameter, ordered T, L, S to match StateVector. The linear
// part is staged sparsely from its band structure, the nonlinear part is the
// analytic conjugation of the spatial derivative by the transform matrices,
// and the parameter columns reuse the gradients shared with Matvec.
func Jacobian(t torus.Torus, fixed torus.Fixed) (J utils.Matrix, err error) {
	if err = checkDomain(t); err != nil {
		return
	}
	tm, err := t.ConvertTo(torus.SpacetimeModes)
	if err != nil {
		return
	}
	nonlin, err := jacobianNonlinear(t)
	if err != nil {
		return
	}
	J = jacobianLinear(t).Add(nonlin)
	cols := []utils.Matrix{J}
	if !fixed.T && t.Symmetry != torus.Equilibrium {
		cols = append(cols, columnMatrix(dFdT(tm)))
	}
	if !fixed.L {
		var dfdl utils.Matrix
		if dfdl, err = dFdL(tm); err != nil {
			return
		}
		cols = append(cols, columnMatrix(dfdl))
	}
	if !fixed.S && t.Symmetry == torus.Relative {
		cols = append(cols, columnMatrix(dFdS(tm)))
	}
	if len(cols) > 1 {
		J = utils.HStack(cols...)
	}
	return
}

// jacobianLinear stages the banded linear operator in a DOK before
// densifying: the diagonal q^4 - q^2 symbol, the antisymmetric +-w pairs
// coupling each cosine row block to its sine partner, and for a RELATIVE
// state the comoving +-q pairs inside each row block.
func jacobianLinear(t torus.Torus) utils.Matrix {
	var (
		nr, nc = torus.ModeShape(t.Symmetry, t.N, t.M)
		size   = nr * nc
		m      = t.M/2 - 1
		q2     = spectral.SpatialWavenumbers(t.L, t.M, 2)
		q4     = spectral.SpatialWavenumbers(t.L, t.M, 4)
		D      = utils.NewDOK(size, size)
	)
	diag := make([]float64, size)
	for i := 0; i < nr; i++ {
		for j := 0; j < nc; j++ {
			k := j % m
			diag[i*nc+j] = q4[k] - q2[k]
		}
	}
	D.SetDiag(0, 0, diag)
	if t.Symmetry != torus.Equilibrium {
		var (
			w = spectral.TemporalFrequencies(t.T, t.N, 1)
			n = t.N/2 - 1
		)
		for j, wj := range w {
			cosBase, sinBase := (1+j)*nc, (1+n+j)*nc
			D.SetDiag(cosBase, sinBase, utils.ConstArray(nc, -wj))
			D.SetDiag(sinBase, cosBase, utils.ConstArray(nc, wj))
		}
	}
	if t.Symmetry == torus.Relative {
		var (
			q     = spectral.SpatialWavenumbers(t.L, t.M, 1)
			scale = t.S / t.T
			upper = make([]float64, m)
			lower = make([]float64, m)
		)
		for k, qk := range q {
			upper[k] = scale * qk
			lower[k] = -scale * qk
		}
		for i := 0; i < nr; i++ {
			D.SetDiag(i*nc, i*nc+m, upper)
			D.SetDiag(i*nc+m, i*nc, lower)
		}
	}
	return D.ToDense()
}

// jacobianNonlinear is the tangent of the quadratic term, d/dx (u * .),
// expressed against the flattened modes: inverse transform to the field,
// multiply by the field pointwise, transform back through the s_modes level
// where the spatial derivative applies, then fold.
func jacobianNonlinear(t torus.Torus) (R utils.Matrix, err error) {
	f, err := t.ConvertTo(torus.Field)
	if err != nil {
		return
	}
	R = t.TimeForwardMatrix().
		Mul(t.DxMatrixSModes(1)).
		Mul(t.SpaceForwardMatrix()).
		Mul(utils.Diag(f.State.Flatten())).
		Mul(t.SpacetimeInverseMatrix())
	return
}

func columnMatrix(A utils.Matrix) utils.Matrix {
	data := A.Flatten()
	return utils.NewMatrix(len(data), 1, data)
}

// Preconditioner returns the explicit left and right masks for the
// rectangular Jacobian, applied elementwise. Left scales every equation row
// by the inverse symbol 1 / (|w| + q^2 + q^4); right does the same per
// column and scales the free parameter columns, 1/T for the period and
// 1/L^4 for the spatial period, with the comoving shift column left alone.
func Preconditioner(t torus.Torus, fixed torus.Fixed) (left, right utils.Matrix, err error) {
	if err = checkDomain(t); err != nil {
		return
	}
	var (
		p      = t.PreconditionGrid().Flatten()
		size   = len(p)
		params = make([]float64, 0, 3)
	)
	if !fixed.T && t.Symmetry != torus.Equilibrium {
		params = append(params, 1/t.T)
	}
	if !fixed.L {
		params = append(params, 1/(t.L*t.L*t.L*t.L))
	}
	if !fixed.S && t.Symmetry == torus.Relative {
		params = append(params, 1)
	}
	left = utils.TileCols(p, size+len(params))
	right = utils.TileRows(append(append([]float64{}, p...), params...), size)
	return
}
