package torus

import (
	"fmt"
	"math"

	"github.com/notargets/goks/spectral"
	"github.com/notargets/goks/utils"
)

// Half names one half of a fundamental domain decomposition. Time halves
// apply to SHIFT_REFLECTION states, space halves to ANTISYMMETRIC and
// EQUILIBRIUM states.
type Half uint8

const (
	BottomHalf Half = iota
	TopHalf
	LeftHalf
	RightHalf
)

func (h Half) String() string {
	switch h {
	case BottomHalf:
		return "bottom"
	case TopHalf:
		return "top"
	case LeftHalf:
		return "left"
	case RightHalf:
		return "right"
	default:
		return fmt.Sprintf("Half(%d)", uint8(h))
	}
}

// Reflection applies the spatial reflection u(t, x) -> -u(t, -x) on the
// collocation grid and returns the result in the calling basis. On the
// periodic grid the reflected column index is (M - j) mod M, which keeps
// x = 0 in place.
func (t Torus) Reflection() Torus {
	var (
		f      = t.mustConvert(Field)
		nr, nc = f.State.Dims()
		R      = utils.NewMatrix(nr, nc)
	)
	for i := 0; i < nr; i++ {
		for j := 0; j < nc; j++ {
			R.Set(i, j, -f.State.At(i, (nc-j)%nc))
		}
	}
	return f.with(R, Field).mustConvert(t.Basis)
}

// ShiftReflection reflects in space and advances half a period in time.
// SHIFT_REFLECTION states are fixed points of this map.
func (t Torus) ShiftReflection() Torus {
	f := t.Reflection().mustConvert(Field)
	return f.with(rollRows(f.State, t.N/2), Field).mustConvert(t.Basis)
}

// Rotate translates the state by distance along the given axis, returned in
// the calling basis. Spatial rotation is exact for FULL and RELATIVE states;
// an arbitrary spatial translation leaves the folded subspaces, so for the
// other variants the projected result is returned together with
// ErrSymmetryBroken. Temporal rotation preserves every variant and reduces
// to a copy for an EQUILIBRIUM.
func (t Torus) Rotate(distance float64, ax spectral.Axis) (r Torus, err error) {
	switch ax {
	case spectral.SpaceAxis:
		if t.L == 0 {
			err = fmt.Errorf("%w: spatial rotation with L=0", ErrDegenerateParameter)
			return
		}
		var (
			sm    = t.mustConvert(SpaceModes)
			q     = spectral.SpatialWavenumbers(t.L, t.M, 1)
			m     = t.m()
			nr, _ = sm.State.Dims()
			R     = utils.NewMatrix(nr, 2*m)
		)
		for k, qk := range q {
			c, s := math.Cos(qk*distance), math.Sin(qk*distance)
			for i := 0; i < nr; i++ {
				re := sm.State.At(i, k)
				im := sm.State.At(i, m+k)
				R.Set(i, k, c*re+s*im)
				R.Set(i, m+k, -s*re+c*im)
			}
		}
		r = sm.with(R, SpaceModes).mustConvert(t.Basis)
		if t.Symmetry != Full && t.Symmetry != Relative {
			err = fmt.Errorf("%w: spatial rotation of a %v state", ErrSymmetryBroken, t.Symmetry)
		}
	case spectral.TimeAxis:
		if t.Symmetry == Equilibrium {
			r = t.Copy()
			return
		}
		if t.T == 0 {
			err = fmt.Errorf("%w: temporal rotation with T=0", ErrDegenerateParameter)
			return
		}
		var (
			modes = t.mustConvert(SpacetimeModes)
			w     = spectral.TemporalFrequencies(t.T, t.N, 1)
			n     = t.n()
			_, nc = modes.State.Dims()
			R     = modes.State.Copy()
		)
		for j, wj := range w {
			c, s := math.Cos(wj*distance), math.Sin(wj*distance)
			for col := 0; col < nc; col++ {
				re := modes.State.At(1+j, col)
				im := modes.State.At(1+n+j, col)
				R.Set(1+j, col, c*re-s*im)
				R.Set(1+n+j, col, s*re+c*im)
			}
		}
		r = modes.with(R, SpacetimeModes).mustConvert(t.Basis)
	default:
		panic(fmt.Errorf("unknown axis %v", ax))
	}
	return
}

// ToFundamentalDomain cuts the tile down to the fundamental domain of the
// discrete symmetry: the requested time half with T/2 for SHIFT_REFLECTION,
// the requested space half with L/2 for ANTISYMMETRIC and EQUILIBRIUM. A
// FULL state is its own fundamental domain and a RELATIVE state maps to the
// comoving frame. The result is a field patch carrying the originating
// symmetry tag so that FromFundamentalDomain can invert the cut; mode
// conversions of the half-domain state are not meaningful.
func (t Torus) ToFundamentalDomain(h Half) (r Torus, err error) {
	switch t.Symmetry {
	case Full:
		r = t.Copy()
	case Relative:
		r, err = t.ToComoving()
	case ShiftReflection:
		f := t.mustConvert(Field)
		var half utils.Matrix
		switch h {
		case BottomHalf:
			half = f.State.Slice(t.N/2, t.N, 0, t.M)
		case TopHalf:
			half = f.State.Slice(0, t.N/2, 0, t.M)
		default:
			err = fmt.Errorf("half %v does not apply to a %v state", h, t.Symmetry)
			return
		}
		r = Torus{State: half, Basis: Field, Symmetry: ShiftReflection,
			T: t.T / 2, L: t.L, N: t.N / 2, M: t.M}
	case Antisymmetric, Equilibrium:
		f := t.mustConvert(Field)
		var half utils.Matrix
		switch h {
		case LeftHalf:
			half = f.State.Slice(0, t.N, 0, t.M/2)
		case RightHalf:
			half = f.State.Slice(0, t.N, t.M/2, t.M)
		default:
			err = fmt.Errorf("half %v does not apply to a %v state", h, t.Symmetry)
			return
		}
		r = Torus{State: half, Basis: Field, Symmetry: t.Symmetry,
			T: t.T, L: t.L / 2, N: t.N, M: t.M / 2}
	default:
		panic(fmt.Errorf("unknown symmetry %v", t.Symmetry))
	}
	return
}

// FromFundamentalDomain rebuilds the full tile from a fundamental domain
// patch produced by ToFundamentalDomain with the same half. The symmetry
// tag of the receiver selects the gluing rule.
func (t Torus) FromFundamentalDomain(h Half) (r Torus, err error) {
	switch t.Symmetry {
	case Full:
		r = t.Copy()
	case Relative:
		r, err = t.FromComoving()
	case ShiftReflection:
		var (
			f    = t.mustConvert(Field)
			refl = f.Reflection().mustConvert(Field)
			full utils.Matrix
		)
		switch h {
		case BottomHalf:
			full = utils.VStack(refl.State, f.State)
		case TopHalf:
			full = utils.VStack(f.State, refl.State)
		default:
			err = fmt.Errorf("half %v does not apply to a %v state", h, t.Symmetry)
			return
		}
		r = Torus{State: full, Basis: Field, Symmetry: ShiftReflection,
			T: 2 * t.T, L: t.L, N: 2 * t.N, M: t.M}
	case Antisymmetric, Equilibrium:
		var (
			f    = t.mustConvert(Field)
			refl = f.Reflection().mustConvert(Field)
			full utils.Matrix
		)
		switch h {
		case LeftHalf:
			full = utils.HStack(f.State, refl.State)
		case RightHalf:
			full = utils.HStack(refl.State, f.State)
		default:
			err = fmt.Errorf("half %v does not apply to a %v state", h, t.Symmetry)
			return
		}
		r = Torus{State: full, Basis: Field, Symmetry: t.Symmetry,
			T: t.T, L: 2 * t.L, N: t.N, M: 2 * t.M}
	default:
		panic(fmt.Errorf("unknown symmetry %v", t.Symmetry))
	}
	return
}

func rollRows(A utils.Matrix, shift int) utils.Matrix {
	var (
		nr, nc = A.Dims()
		R      = utils.NewMatrix(nr, nc)
	)
	shift = ((shift % nr) + nr) % nr
	for i := 0; i < nr; i++ {
		for j := 0; j < nc; j++ {
			R.Set((i+shift)%nr, j, A.At(i, j))
		}
	}
	return R
}
