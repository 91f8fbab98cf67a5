package torus

import (
	"fmt"
	"math"

	"github.com/notargets/goks/spectral"
	"github.com/notargets/goks/utils"
)

// Dense matrix forms of the basis transforms, acting on row-major flattened
// states. These are assembled only for analytic Jacobian construction and
// for consistency tests against the functional transforms; conversions never
// go through them. Each is algebraically identical to the corresponding
// ConvertTo step.

// SpaceForwardMatrix maps a flattened field to flattened s_modes.
func (t Torus) SpaceForwardMatrix() utils.Matrix {
	return utils.Kron(utils.Eye(t.N), spectral.SpaceForwardMatrix(t.M))
}

// SpaceInverseMatrix maps flattened s_modes to the flattened field.
func (t Torus) SpaceInverseMatrix() utils.Matrix {
	return utils.Kron(utils.Eye(t.N), spectral.SpaceInverseMatrix(t.M))
}

// TimeForwardMatrix maps flattened s_modes to flattened spacetime modes,
// including the variant fold. The fold acts on the spatial index, so it
// enters as the right Kronecker factor.
func (t Torus) TimeForwardMatrix() utils.Matrix {
	var (
		m     = t.m()
		theta = spectral.TimeForwardMatrix(t.N)
	)
	switch t.Symmetry {
	case Full, Relative:
		return utils.Kron(theta, utils.Eye(2*m))
	case ShiftReflection:
		return utils.Kron(theta, utils.HStack(utils.Eye(m), utils.Eye(m)))
	case Antisymmetric:
		return utils.Kron(theta, colSelectRight(m))
	case Equilibrium:
		mean := utils.TileRows(utils.ConstArray(t.N, 1/math.Sqrt(float64(t.N))), 1)
		return utils.Kron(mean, colSelectRight(m))
	}
	panic(fmt.Errorf("unknown symmetry %v", t.Symmetry))
}

// TimeInverseMatrix maps flattened spacetime modes back to flattened
// s_modes, reinstating the structurally zero blocks.
func (t Torus) TimeInverseMatrix() utils.Matrix {
	var (
		m        = t.m()
		thetaInv = spectral.TimeInverseMatrix(t.N)
	)
	switch t.Symmetry {
	case Full, Relative:
		return utils.Kron(thetaInv, utils.Eye(2*m))
	case ShiftReflection:
		cosMask, sinMask := t.temporalParityMasks()
		cosPart := utils.Kron(thetaInv.Mul(cosMask), embedLeft(m))
		sinPart := utils.Kron(thetaInv.Mul(sinMask), embedRight(m))
		return cosPart.Add(sinPart)
	case Antisymmetric:
		return utils.Kron(thetaInv, embedRight(m))
	case Equilibrium:
		mean := utils.TileCols(utils.ConstArray(t.N, 1/math.Sqrt(float64(t.N))), 1)
		return utils.Kron(mean, embedRight(m))
	}
	panic(fmt.Errorf("unknown symmetry %v", t.Symmetry))
}

// SpacetimeForwardMatrix composes the two forward transforms.
func (t Torus) SpacetimeForwardMatrix() utils.Matrix {
	return t.TimeForwardMatrix().Mul(t.SpaceForwardMatrix())
}

// SpacetimeInverseMatrix composes the two inverse transforms.
func (t Torus) SpacetimeInverseMatrix() utils.Matrix {
	return t.SpaceInverseMatrix().Mul(t.TimeInverseMatrix())
}

// temporalParityMasks are diagonal selectors over the packed temporal rows.
// The cosine mask keeps the odd temporal frequencies, the sine mask the even
// ones together with the mean row; they sum to the identity.
func (t Torus) temporalParityMasks() (cosMask, sinMask utils.Matrix) {
	var (
		n    = t.n()
		size = 2*n + 1
	)
	cosMask = utils.NewMatrix(size, size)
	sinMask = utils.NewMatrix(size, size)
	sinMask.Set(0, 0, 1)
	for j := 1; j <= n; j++ {
		if j%2 == 1 {
			cosMask.Set(j, j, 1)
			cosMask.Set(n+j, n+j, 1)
		} else {
			sinMask.Set(j, j, 1)
			sinMask.Set(n+j, n+j, 1)
		}
	}
	return
}

// colSelectRight extracts the sine-side column half: [0 I], m x 2m.
func colSelectRight(m int) utils.Matrix {
	return utils.HStack(utils.NewMatrix(m, m), utils.Eye(m))
}

// embedLeft places m columns into the cosine-side half: [I; 0], 2m x m.
func embedLeft(m int) utils.Matrix {
	return utils.VStack(utils.Eye(m), utils.NewMatrix(m, m))
}

// embedRight places m columns into the sine-side half: [0; I], 2m x m.
func embedRight(m int) utils.Matrix {
	return utils.VStack(utils.NewMatrix(m, m), utils.Eye(m))
}
