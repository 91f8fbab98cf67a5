package spectral

import (
	"math"

	"github.com/notargets/goks/utils"
)

// SpatialWavenumbers returns (2*pi*k/L)^p for k = 1..M/2-1. The zeroth and
// Nyquist wavenumbers are structurally absent from packed storage.
func SpatialWavenumbers(L float64, M, p int) (q []float64) {
	var (
		m = M/2 - 1
	)
	q = make([]float64, m)
	for k := 1; k <= m; k++ {
		q[k-1] = utils.POW(2*math.Pi*float64(k)/L, p)
	}
	return
}

// TemporalFrequencies returns (-2*pi*j/T)^p for j = 1..N/2-1. The sign
// accounts for the field row ordering, which places t = 0 on the last row
// with time increasing toward row zero.
func TemporalFrequencies(T float64, N, p int) (w []float64) {
	var (
		n = N/2 - 1
	)
	w = make([]float64, n)
	for j := 1; j <= n; j++ {
		w[j-1] = utils.POW(-2*math.Pi*float64(j)/T, p)
	}
	return
}
