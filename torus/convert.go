package torus

import (
	"fmt"
	"math"

	"github.com/notargets/goks/spectral"
	"github.com/notargets/goks/utils"
)

// ConvertTo produces the state in the requested basis. The three bases chain
// linearly, field <-> s_modes <-> modes, and a direct field <-> modes request
// walks through the intermediate basis. Converting to the current basis is a
// copy.
func (t Torus) ConvertTo(b Basis) (r Torus, err error) {
	switch b {
	case Field:
		switch t.Basis {
		case Field:
			r = t.Copy()
		case SpaceModes:
			r = t.with(t.spaceInverse(), Field)
		case SpacetimeModes:
			r = t.with(t.timeInverse(), SpaceModes)
			r = r.with(r.spaceInverse(), Field)
		default:
			err = fmt.Errorf("%w: %v", ErrUnrecognizedBasis, t.Basis)
		}
	case SpaceModes:
		switch t.Basis {
		case Field:
			r = t.with(t.spaceForward(), SpaceModes)
		case SpaceModes:
			r = t.Copy()
		case SpacetimeModes:
			r = t.with(t.timeInverse(), SpaceModes)
		default:
			err = fmt.Errorf("%w: %v", ErrUnrecognizedBasis, t.Basis)
		}
	case SpacetimeModes:
		switch t.Basis {
		case Field:
			r = t.with(t.spaceForward(), SpaceModes)
			r = r.with(r.timeForward(), SpacetimeModes)
		case SpaceModes:
			r = t.with(t.timeForward(), SpacetimeModes)
		case SpacetimeModes:
			r = t.Copy()
		default:
			err = fmt.Errorf("%w: %v", ErrUnrecognizedBasis, t.Basis)
		}
	default:
		err = fmt.Errorf("%w: %v", ErrUnrecognizedBasis, b)
	}
	return
}

// ConvertInPlace overwrites the receiver's state and basis tag with the
// converted form. Observably equivalent to ConvertTo; it exists to avoid
// the extra state copy and must not race with reads of the same instance.
func (t *Torus) ConvertInPlace(b Basis) error {
	r, err := t.ConvertTo(b)
	if err != nil {
		return err
	}
	t.State = r.State
	t.Basis = r.Basis
	return nil
}

func (t Torus) mustConvert(b Basis) Torus {
	r, err := t.ConvertTo(b)
	if err != nil {
		panic(err)
	}
	return r
}

func (t Torus) spaceForward() utils.Matrix {
	return spectral.SpaceForward(t.State)
}

func (t Torus) spaceInverse() utils.Matrix {
	return spectral.SpaceInverse(t.State)
}

// timeForward takes s_modes to spacetime modes, folding out the rows and
// columns a discrete symmetry constrains to zero. Shift-reflection couples
// the cosine-side spatial modes to odd temporal frequencies and the
// sine-side modes to even ones, so its fold is the sum of the two column
// halves of the unconstrained transform. Antisymmetry keeps only the
// sine-side half, and an equilibrium keeps the sine side of the temporal
// mean row alone.
func (t Torus) timeForward() (R utils.Matrix) {
	switch t.Symmetry {
	case Full, Relative:
		R = spectral.TimeForward(t.State)
	case ShiftReflection:
		var (
			m = t.m()
		)
		P := spectral.TimeForward(t.State)
		nr, _ := P.Dims()
		R = P.Slice(0, nr, 0, m).Add(P.Slice(0, nr, m, 2*m))
	case Antisymmetric:
		var (
			m = t.m()
		)
		P := spectral.TimeForward(t.State)
		nr, _ := P.Dims()
		R = P.Slice(0, nr, m, 2*m)
	case Equilibrium:
		var (
			m     = t.m()
			scale = 1 / math.Sqrt(float64(t.N))
		)
		R = utils.NewMatrix(1, m)
		for k := 0; k < m; k++ {
			var sum float64
			for i := 0; i < t.N; i++ {
				sum += t.State.At(i, m+k)
			}
			R.Set(0, k, scale*sum)
		}
	default:
		panic(fmt.Errorf("unknown symmetry %v", t.Symmetry))
	}
	return
}

// timeInverse takes spacetime modes back to s_modes, reinstating the
// structurally zero entries removed by the fold.
func (t Torus) timeInverse() (R utils.Matrix) {
	switch t.Symmetry {
	case Full, Relative:
		R = spectral.TimeInverse(t.State)
	case ShiftReflection:
		var (
			n    = t.n()
			m    = t.m()
			zero = make([]float64, m)
		)
		// Split the folded modes by temporal parity: the cosine-side
		// spatial half keeps the odd temporal frequencies, the sine-side
		// half keeps the even ones together with the mean row.
		cosSide := t.State.Copy()
		sinSide := t.State.Copy()
		cosSide.SetRow(0, zero)
		for j := 1; j <= n; j++ {
			if j%2 == 0 {
				cosSide.SetRow(j, zero)
				cosSide.SetRow(n+j, zero)
			} else {
				sinSide.SetRow(j, zero)
				sinSide.SetRow(n+j, zero)
			}
		}
		R = utils.HStack(spectral.TimeInverse(cosSide), spectral.TimeInverse(sinSide))
	case Antisymmetric:
		R = utils.HStack(utils.NewMatrix(t.N, t.m()), spectral.TimeInverse(t.State))
	case Equilibrium:
		var (
			m     = t.m()
			scale = 1 / math.Sqrt(float64(t.N))
		)
		R = utils.NewMatrix(t.N, 2*m)
		for i := 0; i < t.N; i++ {
			for k := 0; k < m; k++ {
				R.Set(i, m+k, scale*t.State.At(0, k))
			}
		}
	default:
		panic(fmt.Errorf("unknown symmetry %v", t.Symmetry))
	}
	return
}
