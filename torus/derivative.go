package torus

import (
	"fmt"

	"github.com/notargets/goks/spectral"
	"github.com/notargets/goks/utils"
)

// Spectral derivatives act elementwise on the packed modes: multiply by a
// frequency grid raised to the order, with a half swap when the order is odd
// because differentiation then exchanges the cosine and sine amplitudes. See
// the SO(2) coefficient table in the spectral package for the sign pattern.

// Dt is the order-th time derivative, returned in the spacetime mode basis.
// An EQUILIBRIUM state is time independent, so its derivative is identically
// zero and the structural T = 0 is not an error there.
func (t Torus) Dt(order int) (r Torus, err error) {
	if order < 0 {
		err = fmt.Errorf("negative derivative order %d", order)
		return
	}
	modes, err := t.ConvertTo(SpacetimeModes)
	if err != nil {
		return
	}
	if order == 0 {
		r = modes
		return
	}
	if t.Symmetry == Equilibrium {
		r = modes.with(utils.NewMatrix(1, t.m()), SpacetimeModes)
		return
	}
	if t.T == 0 {
		err = fmt.Errorf("%w: time derivative with T=0", ErrDegenerateParameter)
		return
	}
	var (
		c1, c2 = spectral.SO2Coefficients(order)
		w      = spectral.TemporalFrequencies(t.T, t.N, order)
		n      = t.n()
		_, nc  = modes.State.Dims()
	)
	col := make([]float64, 2*n+1)
	for j, wj := range w {
		col[1+j] = c1 * wj
		col[1+n+j] = c2 * wj
	}
	R := modes.State.ElMul(utils.TileCols(col, nc))
	if order%2 == 1 {
		R = spectral.SwapModes(R, spectral.TimeAxis)
	}
	r = modes.with(R, SpacetimeModes)
	return
}

// Dx is the order-th space derivative, returned in the spacetime mode basis.
// Even orders are closed within every variant. Odd orders leave the folded
// subspaces of SHIFT_REFLECTION, ANTISYMMETRIC and EQUILIBRIUM states, so
// those are differentiated at the s_modes level and folded back; the result
// is the projection onto the variant and is reported with ErrSymmetryBroken
// while still being returned.
func (t Torus) Dx(order int) (r Torus, err error) {
	if order < 0 {
		err = fmt.Errorf("negative derivative order %d", order)
		return
	}
	modes, err := t.ConvertTo(SpacetimeModes)
	if err != nil {
		return
	}
	if order == 0 {
		r = modes
		return
	}
	if t.L == 0 {
		err = fmt.Errorf("%w: space derivative with L=0", ErrDegenerateParameter)
		return
	}
	var (
		c1, c2 = spectral.SO2Coefficients(order)
		q      = spectral.SpatialWavenumbers(t.L, t.M, order)
		m      = t.m()
		nr, _  = modes.State.Dims()
	)
	switch t.Symmetry {
	case Full, Relative:
		row := make([]float64, 2*m)
		for k, qk := range q {
			row[k] = c1 * qk
			row[m+k] = c2 * qk
		}
		R := modes.State.ElMul(utils.TileRows(row, nr))
		if order%2 == 1 {
			R = spectral.SwapModes(R, spectral.SpaceAxis)
		}
		r = modes.with(R, SpacetimeModes)
	case ShiftReflection, Antisymmetric, Equilibrium:
		if order%2 == 0 {
			row := make([]float64, m)
			for k, qk := range q {
				row[k] = c2 * qk
			}
			r = modes.with(modes.State.ElMul(utils.TileRows(row, nr)), SpacetimeModes)
			return
		}
		sm := t.mustConvert(SpaceModes)
		row := make([]float64, 2*m)
		for k, qk := range q {
			row[k] = c1 * qk
			row[m+k] = c2 * qk
		}
		D := sm.State.ElMul(utils.TileRows(row, t.N))
		D = spectral.SwapModes(D, spectral.SpaceAxis)
		r = sm.with(D, SpaceModes).mustConvert(SpacetimeModes)
		err = fmt.Errorf("%w: odd spatial derivative of a %v state", ErrSymmetryBroken, t.Symmetry)
	default:
		panic(fmt.Errorf("unknown symmetry %v", t.Symmetry))
	}
	return
}

// DtMatrix is the dense operator whose product with a flattened mode array
// equals Dt of that array.
func (t Torus) DtMatrix(order int) (D utils.Matrix, err error) {
	if order < 0 {
		err = fmt.Errorf("negative derivative order %d", order)
		return
	}
	nr, nc := ModeShape(t.Symmetry, t.N, t.M)
	size := nr * nc
	if order == 0 {
		D = utils.Eye(size)
		return
	}
	if t.Symmetry == Equilibrium {
		D = utils.NewMatrix(size, size)
		return
	}
	if t.T == 0 {
		err = fmt.Errorf("%w: time derivative with T=0", ErrDegenerateParameter)
		return
	}
	w := spectral.TemporalFrequencies(t.T, t.N, order)
	core := utils.BlockDiag(utils.NewMatrix(1, 1),
		utils.Kron(spectral.SO2Generator(order), utils.Diag(w)))
	D = utils.Kron(core, utils.Eye(nc))
	return
}

// DxMatrix is the dense operator form of Dx. Odd orders on the folded
// variants are composed through the s_modes operator and carry the same
// ErrSymmetryBroken advisory as the elementwise form.
func (t Torus) DxMatrix(order int) (D utils.Matrix, err error) {
	if order < 0 {
		err = fmt.Errorf("negative derivative order %d", order)
		return
	}
	nr, nc := ModeShape(t.Symmetry, t.N, t.M)
	if order == 0 {
		D = utils.Eye(nr * nc)
		return
	}
	if t.L == 0 {
		err = fmt.Errorf("%w: space derivative with L=0", ErrDegenerateParameter)
		return
	}
	q := spectral.SpatialWavenumbers(t.L, t.M, order)
	switch t.Symmetry {
	case Full, Relative:
		D = utils.Kron(utils.Eye(t.N-1),
			utils.Kron(spectral.SO2Generator(order), utils.Diag(q)))
	case ShiftReflection, Antisymmetric, Equilibrium:
		if order%2 == 0 {
			_, c2 := spectral.SO2Coefficients(order)
			block := utils.Diag(q).Scale(c2)
			if t.Symmetry == Equilibrium {
				D = block
			} else {
				D = utils.Kron(utils.Eye(t.N-1), block)
			}
			return
		}
		D = t.TimeForwardMatrix().Mul(t.DxMatrixSModes(order)).Mul(t.TimeInverseMatrix())
		err = fmt.Errorf("%w: odd spatial derivative of a %v state", ErrSymmetryBroken, t.Symmetry)
	default:
		panic(fmt.Errorf("unknown symmetry %v", t.Symmetry))
	}
	return
}

// DxMatrixSModes is the spatial derivative operator on flattened s_modes,
// one SO(2) block per collocation time. The nonlinear Jacobian term is
// assembled around it.
func (t Torus) DxMatrixSModes(order int) utils.Matrix {
	if t.L == 0 {
		panic(fmt.Errorf("spatial wavenumbers need L > 0"))
	}
	q := spectral.SpatialWavenumbers(t.L, t.M, order)
	return utils.Kron(utils.Eye(t.N),
		utils.Kron(spectral.SO2Generator(order), utils.Diag(q)))
}

// TemporalFrequencyMatrix is the order-one temporal multiplier grid in the
// mode shape: zero on the mean row, then +w and -w over the paired row
// blocks. Identically zero for an EQUILIBRIUM.
func (t Torus) TemporalFrequencyMatrix() utils.Matrix {
	nr, nc := ModeShape(t.Symmetry, t.N, t.M)
	if t.Symmetry == Equilibrium {
		return utils.NewMatrix(nr, nc)
	}
	if t.T == 0 {
		panic(fmt.Errorf("temporal frequencies need T > 0"))
	}
	var (
		w = spectral.TemporalFrequencies(t.T, t.N, 1)
		n = t.n()
	)
	col := make([]float64, 2*n+1)
	for j, wj := range w {
		col[1+j] = wj
		col[1+n+j] = -wj
	}
	return utils.TileCols(col, nc)
}

// SpatialWavenumberMatrix is the order-one spatial multiplier grid in the
// mode shape: +q and -q over the column halves for the unfolded variants, a
// single +q block for the folded ones.
func (t Torus) SpatialWavenumberMatrix() utils.Matrix {
	if t.L == 0 {
		panic(fmt.Errorf("spatial wavenumbers need L > 0"))
	}
	var (
		nr, _ = ModeShape(t.Symmetry, t.N, t.M)
		q     = spectral.SpatialWavenumbers(t.L, t.M, 1)
		m     = t.m()
	)
	switch t.Symmetry {
	case Full, Relative:
		row := make([]float64, 2*m)
		for k, qk := range q {
			row[k] = qk
			row[m+k] = -qk
		}
		return utils.TileRows(row, nr)
	default:
		return utils.TileRows(q, nr)
	}
}

// SpatialWavenumberSModesMatrix is the order-one multiplier grid at the
// s_modes level, one row per collocation time.
func (t Torus) SpatialWavenumberSModesMatrix() utils.Matrix {
	if t.L == 0 {
		panic(fmt.Errorf("spatial wavenumbers need L > 0"))
	}
	var (
		q = spectral.SpatialWavenumbers(t.L, t.M, 1)
		m = t.m()
	)
	row := make([]float64, 2*m)
	for k, qk := range q {
		row[k] = qk
		row[m+k] = -qk
	}
	return utils.TileRows(row, t.N)
}
