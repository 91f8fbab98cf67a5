package torus

import (
	"fmt"
	"math"

	"github.com/notargets/goks/spectral"
	"github.com/notargets/goks/utils"
)

// ToComoving maps a RELATIVE state into the frame translating with its
// shift, where the orbit closes into a strictly periodic tile. Each
// collocation row is rotated in space by -S*t/T, so the t = 0 row is left
// untouched and the t = T row has absorbed the full shift.
func (t Torus) ToComoving() (Torus, error) {
	return t.comovingTransform()
}

// FromComoving undoes ToComoving. The transform is its own inverse because
// the shift changes sign on the way through.
func (t Torus) FromComoving() (Torus, error) {
	return t.comovingTransform()
}

func (t Torus) comovingTransform() (r Torus, err error) {
	if t.Symmetry != Relative {
		err = fmt.Errorf("comoving transform needs a relative state, have %v", t.Symmetry)
		return
	}
	if t.T == 0 {
		err = fmt.Errorf("%w: comoving transform with T=0", ErrDegenerateParameter)
		return
	}
	var (
		sm    = t.mustConvert(SpaceModes)
		q     = spectral.SpatialWavenumbers(t.L, t.M, 1)
		m     = t.m()
		tgrid = utils.LinSpace(0, t.T, t.N)
		R     = utils.NewMatrix(t.N, 2*m)
	)
	for i := 0; i < t.N; i++ {
		// Row N-1 holds t = 0, so the times run through the grid reversed.
		ti := tgrid[t.N-1-i]
		for k, qk := range q {
			var (
				theta = -(t.S / t.T) * ti * qk
				c, s  = math.Cos(theta), math.Sin(theta)
				re    = sm.State.At(i, k)
				im    = sm.State.At(i, m+k)
			)
			R.Set(i, k, c*re-s*im)
			R.Set(i, m+k, s*re+c*im)
		}
	}
	r = sm.with(R, SpaceModes)
	r.S = -t.S
	r = r.mustConvert(t.Basis)
	return
}

// CalculateShift estimates the spatial drift over one period from the angle
// between the last and first collocation rows of the s_modes, which hold the
// t = 0 and t = T snapshots. Their normalized inner product is the cosine of
// the accumulated rotation.
func (t Torus) CalculateShift() float64 {
	var (
		sm    = t.mustConvert(SpaceModes)
		last  = sm.State.Row(-1)
		first = sm.State.Row(0)
	)
	denom := last.Norm() * first.Norm()
	if denom == 0 {
		return 0
	}
	cosine := last.Dot(first) / denom
	cosine = math.Max(-1, math.Min(1, cosine))
	return t.L / (2 * math.Pi) * math.Acos(cosine)
}
