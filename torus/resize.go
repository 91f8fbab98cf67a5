package torus

import (
	"fmt"

	"github.com/notargets/goks/spectral"
	"github.com/notargets/goks/utils"
)

// Discretization changes act on the spacetime modes, where refinement is
// zero padding of the truncated tails and coarsening drops them. Both keep
// every retained coefficient bit for bit, so pad followed by truncate back
// to the original size is exact and the L2 norm never grows under
// truncation.

// PadModes grows the discretization along the given axis to size points,
// returned in the calling basis. The new size must be even and larger than
// the current one.
func (t Torus) PadModes(size int, ax spectral.Axis) (r Torus, err error) {
	var (
		modes = t.mustConvert(SpacetimeModes)
		cur   = t.N
	)
	if ax == spectral.SpaceAxis {
		cur = t.M
	}
	if size <= cur || size%2 != 0 {
		err = fmt.Errorf("%w: pad size %d for current %d", ErrShapeMismatch, size, cur)
		return
	}
	switch ax {
	case spectral.TimeAxis:
		if t.Symmetry == Equilibrium {
			// Time independent: a finer time grid only changes the tiling
			// count, the stored modes are already complete.
			r = modes
			r.N = size
			r = r.mustConvert(t.Basis)
			return
		}
		var (
			n     = t.n()
			_, nc = modes.State.Dims()
			pad   = utils.NewMatrix((size-t.N)/2, nc)
			cosB  = modes.State.Slice(0, 1+n, 0, nc)
			sinB  = modes.State.Slice(1+n, t.N-1, 0, nc)
		)
		r = modes.with(utils.VStack(cosB, pad, sinB, pad), SpacetimeModes)
		r.N = size
	case spectral.SpaceAxis:
		var (
			nr, _ = modes.State.Dims()
			m     = t.m()
		)
		switch t.Symmetry {
		case Full, Relative:
			var (
				pad  = utils.NewMatrix(nr, (size-t.M)/2)
				cosB = modes.State.Slice(0, nr, 0, m)
				sinB = modes.State.Slice(0, nr, m, 2*m)
			)
			r = modes.with(utils.HStack(cosB, pad, sinB, pad), SpacetimeModes)
		default:
			pad := utils.NewMatrix(nr, (size-t.M)/2)
			r = modes.with(utils.HStack(modes.State, pad), SpacetimeModes)
		}
		r.M = size
	default:
		panic(fmt.Errorf("unknown axis %v", ax))
	}
	r = r.mustConvert(t.Basis)
	return
}

// TruncateModes shrinks the discretization along the given axis to size
// points, returned in the calling basis. The new size must be even, at
// least four and smaller than the current one.
func (t Torus) TruncateModes(size int, ax spectral.Axis) (r Torus, err error) {
	var (
		modes = t.mustConvert(SpacetimeModes)
		cur   = t.N
	)
	if ax == spectral.SpaceAxis {
		cur = t.M
	}
	if size >= cur || size%2 != 0 || size < 4 {
		err = fmt.Errorf("%w: truncate size %d for current %d", ErrShapeMismatch, size, cur)
		return
	}
	switch ax {
	case spectral.TimeAxis:
		if t.Symmetry == Equilibrium {
			r = modes
			r.N = size
			r = r.mustConvert(t.Basis)
			return
		}
		var (
			n     = t.n()
			keep  = size/2 - 1
			_, nc = modes.State.Dims()
			cosB  = modes.State.Slice(0, 1+keep, 0, nc)
			sinB  = modes.State.Slice(1+n, 1+n+keep, 0, nc)
		)
		r = modes.with(utils.VStack(cosB, sinB), SpacetimeModes)
		r.N = size
	case spectral.SpaceAxis:
		var (
			nr, _ = modes.State.Dims()
			m     = t.m()
			keep  = size/2 - 1
		)
		switch t.Symmetry {
		case Full, Relative:
			var (
				cosB = modes.State.Slice(0, nr, 0, keep)
				sinB = modes.State.Slice(0, nr, m, m+keep)
			)
			r = modes.with(utils.HStack(cosB, sinB), SpacetimeModes)
		default:
			r = modes.with(modes.State.Slice(0, nr, 0, keep), SpacetimeModes)
		}
		r.M = size
	default:
		panic(fmt.Errorf("unknown axis %v", ax))
	}
	r = r.mustConvert(t.Basis)
	return
}

// Rediscretize resamples the state onto an N by M grid by padding or
// truncating each axis as needed, returned in the calling basis.
func (t Torus) Rediscretize(newN, newM int) (r Torus, err error) {
	r = t.Copy()
	switch {
	case newN > r.N:
		r, err = r.PadModes(newN, spectral.TimeAxis)
	case newN < r.N:
		r, err = r.TruncateModes(newN, spectral.TimeAxis)
	}
	if err != nil {
		return
	}
	switch {
	case newM > r.M:
		r, err = r.PadModes(newM, spectral.SpaceAxis)
	case newM < r.M:
		r, err = r.TruncateModes(newM, spectral.SpaceAxis)
	}
	return
}
