package spectral

import (
	"math"
	"sync"

	"gonum.org/v1/gonum/dsp/fourier"

	"github.com/notargets/goks/utils"
)

/*
Packed real transforms built on gonum's unnormalized real FFT. All four
kernels are unitary: paired cosine/sine coefficients carry a factor sqrt(2)
so the packed array has the same L2 norm as the signal, and the temporal
mean row is stored unscaled. Inverse kernels are exact inverses of the
forward kernels for any packed input.

Plans hold scratch storage and are not safe for concurrent use, so they are
checked out of a per-length pool rather than shared.
*/

var planCache = struct {
	sync.Mutex
	plans map[int][]*fourier.FFT
}{plans: make(map[int][]*fourier.FFT)}

func checkoutPlan(n int) *fourier.FFT {
	planCache.Lock()
	defer planCache.Unlock()
	if s := planCache.plans[n]; len(s) > 0 {
		p := s[len(s)-1]
		planCache.plans[n] = s[:len(s)-1]
		return p
	}
	return fourier.NewFFT(n)
}

func returnPlan(n int, p *fourier.FFT) {
	planCache.Lock()
	defer planCache.Unlock()
	planCache.plans[n] = append(planCache.plans[n], p)
}

// SpaceForward transforms each row of an N x M field into packed space
// coefficients, dropping the zeroth and Nyquist wavenumbers: N x (M-2).
func SpaceForward(F utils.Matrix) (R utils.Matrix) {
	var (
		nr, M = F.Dims()
		m     = M/2 - 1
		scale = math.Sqrt2 / math.Sqrt(float64(M))
	)
	R = utils.NewMatrix(nr, 2*m)
	p := checkoutPlan(M)
	defer returnPlan(M, p)
	coeffs := make([]complex128, M/2+1)
	for i := 0; i < nr; i++ {
		p.Coefficients(coeffs, F.Row(i).DataP())
		for k := 1; k <= m; k++ {
			R.Set(i, k-1, scale*real(coeffs[k]))
			R.Set(i, m+k-1, scale*imag(coeffs[k]))
		}
	}
	return
}

// SpaceInverse reconstructs the N x M field from packed space coefficients,
// reinserting zero at the zeroth and Nyquist wavenumbers.
func SpaceInverse(S utils.Matrix) (R utils.Matrix) {
	var (
		nr, nc = S.Dims()
		m      = nc / 2
		M      = 2 * (m + 1)
		scale  = 1 / math.Sqrt(float64(M))
	)
	R = utils.NewMatrix(nr, M)
	p := checkoutPlan(M)
	defer returnPlan(M, p)
	coeffs := make([]complex128, M/2+1)
	seq := make([]float64, M)
	for i := 0; i < nr; i++ {
		row := S.Row(i).DataP()
		coeffs[0] = 0
		coeffs[M/2] = 0
		for k := 1; k <= m; k++ {
			coeffs[k] = complex(row[k-1]/math.Sqrt2, row[m+k-1]/math.Sqrt2)
		}
		p.Sequence(seq, coeffs)
		for j := 0; j < M; j++ {
			R.Set(i, j, seq[j]*scale)
		}
	}
	return
}

// TimeForward transforms each column of an N x C array into packed temporal
// coefficients: the mean row, n cosine rows and n sine rows, dropping the
// temporal Nyquist: (N-1) x C.
func TimeForward(S utils.Matrix) (R utils.Matrix) {
	var (
		N, nc = S.Dims()
		n     = N/2 - 1
		scale = 1 / math.Sqrt(float64(N))
	)
	R = utils.NewMatrix(2*n+1, nc)
	p := checkoutPlan(N)
	defer returnPlan(N, p)
	coeffs := make([]complex128, N/2+1)
	for j := 0; j < nc; j++ {
		p.Coefficients(coeffs, S.Col(j).DataP())
		R.Set(0, j, scale*real(coeffs[0]))
		for k := 1; k <= n; k++ {
			R.Set(k, j, math.Sqrt2*scale*real(coeffs[k]))
			R.Set(n+k, j, math.Sqrt2*scale*imag(coeffs[k]))
		}
	}
	return
}

// TimeInverse reconstructs the N x C array from packed temporal
// coefficients, reinserting zero at the temporal Nyquist.
func TimeInverse(P utils.Matrix) (R utils.Matrix) {
	var (
		nr, nc = P.Dims()
		n      = (nr - 1) / 2
		N      = 2 * (n + 1)
		scale  = 1 / math.Sqrt(float64(N))
	)
	R = utils.NewMatrix(N, nc)
	p := checkoutPlan(N)
	defer returnPlan(N, p)
	coeffs := make([]complex128, N/2+1)
	seq := make([]float64, N)
	for j := 0; j < nc; j++ {
		col := P.Col(j).DataP()
		coeffs[0] = complex(col[0], 0)
		coeffs[N/2] = 0
		for k := 1; k <= n; k++ {
			coeffs[k] = complex(col[k]/math.Sqrt2, col[n+k]/math.Sqrt2)
		}
		p.Sequence(seq, coeffs)
		for i := 0; i < N; i++ {
			R.Set(i, j, seq[i]*scale)
		}
	}
	return
}
