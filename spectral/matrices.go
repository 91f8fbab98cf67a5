package spectral

import (
	"math"

	"github.com/notargets/goks/utils"
)

/*
Dense operator forms of the packed transforms. Rows are orthonormal by the
unitary convention, so each inverse operator is the transpose of its
forward. These are used only when assembling analytic Jacobians; routine
conversion goes through the FFT kernels, and the two paths agree to
rounding error.
*/

// SpaceForwardMatrix is the (M-2) x M operator equal to SpaceForward
// applied to a single row laid out as a column vector.
func SpaceForwardMatrix(M int) (W utils.Matrix) {
	var (
		m     = M/2 - 1
		scale = math.Sqrt2 / math.Sqrt(float64(M))
	)
	W = utils.NewMatrix(2*m, M)
	for k := 1; k <= m; k++ {
		for j := 0; j < M; j++ {
			theta := 2 * math.Pi * float64(j) * float64(k) / float64(M)
			W.Set(k-1, j, scale*math.Cos(theta))
			W.Set(m+k-1, j, -scale*math.Sin(theta))
		}
	}
	return
}

func SpaceInverseMatrix(M int) (W utils.Matrix) {
	W = SpaceForwardMatrix(M).Transpose()
	return
}

// TimeForwardMatrix is the (N-1) x N operator equal to TimeForward applied
// to a single column.
func TimeForwardMatrix(N int) (W utils.Matrix) {
	var (
		n     = N/2 - 1
		scale = 1 / math.Sqrt(float64(N))
	)
	W = utils.NewMatrix(2*n+1, N)
	for r := 0; r < N; r++ {
		W.Set(0, r, scale)
	}
	for k := 1; k <= n; k++ {
		for r := 0; r < N; r++ {
			theta := 2 * math.Pi * float64(r) * float64(k) / float64(N)
			W.Set(k, r, math.Sqrt2*scale*math.Cos(theta))
			W.Set(n+k, r, -math.Sqrt2*scale*math.Sin(theta))
		}
	}
	return
}

func TimeInverseMatrix(N int) (W utils.Matrix) {
	W = TimeForwardMatrix(N).Transpose()
	return
}
