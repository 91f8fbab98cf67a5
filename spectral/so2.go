package spectral

import (
	"github.com/notargets/goks/utils"
)

/*
Differentiating a real Fourier pair rotates it: each derivative order maps the
(cosine, sine) coefficients of a mode through a quarter turn of SO(2). The
coefficient pair below gives the scalar weights applied to the two packed
halves for a given order, and the generator gives the same action as a 2x2
matrix for Kronecker-structured operator assembly. Odd orders additionally
exchange the halves, which is handled separately by SwapModes.
*/

// SO2Coefficients returns the half weights (c1, c2) for derivative order p.
func SO2Coefficients(p int) (c1, c2 float64) {
	switch ((p % 4) + 4) % 4 {
	case 0:
		c1, c2 = 1, 1
	case 1:
		c1, c2 = 1, -1
	case 2:
		c1, c2 = -1, -1
	case 3:
		c1, c2 = -1, 1
	}
	return
}

// SO2Generator returns [[0,-1],[1,0]] raised to the power (p mod 4).
func SO2Generator(p int) (R utils.Matrix) {
	switch ((p % 4) + 4) % 4 {
	case 0:
		R = utils.NewMatrix(2, 2, []float64{
			1, 0,
			0, 1,
		})
	case 1:
		R = utils.NewMatrix(2, 2, []float64{
			0, -1,
			1, 0,
		})
	case 2:
		R = utils.NewMatrix(2, 2, []float64{
			-1, 0,
			0, -1,
		})
	case 3:
		R = utils.NewMatrix(2, 2, []float64{
			0, 1,
			-1, 0,
		})
	}
	return
}
