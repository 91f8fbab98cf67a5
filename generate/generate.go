// Package generate seeds random torus states for continuation runs. Modes
// are drawn from a unit normal and shaped by a modal envelope that keeps
// the energy in the long wavelengths the flow actually excites; the field
// is then renormalized to a fixed amplitude. Seeds far from the attractor
// tend to converge into the requested symmetry class more reliably than
// samples of the flow itself.
package generate

import (
	"math"
	"time"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/notargets/goks/spectral"
	"github.com/notargets/goks/torus"
	"github.com/notargets/goks/utils"
)

// Spectrum selects the modal envelope applied to the raw Gaussian draw.
type Spectrum uint8

const (
	// Plateau keeps the first SpaceScale wavenumbers at unit weight and
	// rolls off by a factor of ten per wavenumber past the plateau, with a
	// hard cutoff after TimeScale temporal harmonics.
	Plateau Spectrum = iota
	// GaussianBump concentrates spatial energy near the most unstable
	// wavenumber and decays temporal harmonic j as 1/j.
	GaussianBump
)

// The linear growth rate q^2 - q^4 peaks at q = 1/sqrt(2); GaussianBump
// centers its spatial envelope there.
const mostUnstable = 1 / math.Sqrt2

// Options tune the random draw. The zero value selects the plateau
// envelope at full width, amplitude 4, and a clock-derived seed.
type Options struct {
	TimeScale  int // temporal harmonics kept, default and cap N/2-1
	SpaceScale int // spatial plateau width, default and cap M/2-1
	Spectrum   Spectrum
	Sigma      float64 // GaussianBump width in wavenumber units, default 1
	Amplitude  float64 // extremum of the renormalized field, default 4
	Seed       uint64  // 0 draws the seed from the clock
}

func (o Options) amplitude() float64 {
	if o.Amplitude <= 0 {
		return 4
	}
	return o.Amplitude
}

func seedOf(s uint64) uint64 {
	if s != 0 {
		return s
	}
	return uint64(time.Now().UnixNano())
}

// RandomTorus draws a random state of the requested symmetry in the
// spacetime mode basis. Zero-valued arguments pick the customary defaults:
// T uniform in [20, 120), L uniform in [22, 66), and power-of-two grids
// matched to the drawn periods. A RELATIVE draw also picks the shift S as
// a random signed fraction of L.
func RandomTorus(sym torus.Symmetry, N, M int, T, L float64, opts Options) (t torus.Torus, err error) {
	var (
		src    = rand.NewSource(seedOf(opts.Seed))
		rnd    = rand.New(src)
		normal = distuv.Normal{Mu: 0, Sigma: 1, Src: src}
	)
	N, M, T, L = domainDefaults(sym, N, M, T, L, rnd)
	if _, err = torus.Zeros(torus.SpacetimeModes, sym, N, M, T, L, 0); err != nil {
		return
	}
	var (
		nr, nc = torus.ModeShape(sym, N, M)
		env    = envelope(sym, N, M, L, opts)
		draw   = utils.NewMatrix(nr, nc)
	)
	for i := 0; i < nr; i++ {
		for j := 0; j < nc; j++ {
			draw.Set(i, j, normal.Rand())
		}
	}
	var S float64
	if sym == torus.Relative {
		S = randomSign(rnd) * rnd.Float64() * L
	}
	seeded, err := torus.New(draw.ElMul(env), torus.SpacetimeModes, sym, T, L, S, N)
	if err != nil {
		return
	}
	field, err := seeded.Renormalize(1 / opts.amplitude())
	if err != nil {
		return
	}
	return field.ConvertTo(torus.SpacetimeModes)
}

// GaussianField seeds in the field basis: a unit normal draw on the
// collocation grid, projected onto the representable subspace of the
// symmetry by a mode round trip and renormalized. The result stays in the
// field basis.
func GaussianField(sym torus.Symmetry, N, M int, T, L float64, opts Options) (t torus.Torus, err error) {
	var (
		src    = rand.NewSource(seedOf(opts.Seed))
		rnd    = rand.New(src)
		normal = distuv.Normal{Mu: 0, Sigma: 1, Src: src}
	)
	N, M, T, L = domainDefaults(sym, N, M, T, L, rnd)
	if _, err = torus.Zeros(torus.Field, sym, N, M, T, L, 0); err != nil {
		return
	}
	field := utils.NewMatrix(N, M)
	for i := 0; i < N; i++ {
		for j := 0; j < M; j++ {
			field.Set(i, j, normal.Rand())
		}
	}
	var S float64
	if sym == torus.Relative {
		S = randomSign(rnd) * rnd.Float64() * L
	}
	f, err := torus.New(field, torus.Field, sym, T, L, S, N)
	if err != nil {
		return
	}
	modes, err := f.ConvertTo(torus.SpacetimeModes)
	if err != nil {
		return
	}
	return modes.Renormalize(1 / opts.amplitude())
}

// domainDefaults fills zero-valued periods and grid sizes. An EQUILIBRIUM
// has no time period, so its grid cannot be derived from T and falls back
// to 32 rows.
func domainDefaults(sym torus.Symmetry, N, M int, T, L float64, rnd *rand.Rand) (int, int, float64, float64) {
	if sym == torus.Equilibrium {
		T = 0
	} else if T == 0 {
		T = 20 + 100*rnd.Float64()
	}
	if L == 0 {
		L = 22 + 44*rnd.Float64()
	}
	if N == 0 {
		if sym == torus.Equilibrium {
			N = 32
		} else {
			N = gridFor(T, -1)
		}
	}
	if M == 0 {
		M = gridFor(L, 0)
	}
	return N, M, T, L
}

// gridFor is the power-of-two discretization matched to a period, floored
// at 32 points.
func gridFor(period float64, shift int) int {
	if period <= 1 {
		return 32
	}
	e := int(math.Log2(period)) + shift
	if e < 5 {
		return 32
	}
	return 1 << e
}

func randomSign(rnd *rand.Rand) float64 {
	if rnd.Float64() < 0.5 {
		return -1
	}
	return 1
}

// envelope is the modal weight grid in the spacetime mode shape of the
// variant. The temporal mean row always carries unit weight; paired
// cosine and sine blocks share the same profile.
func envelope(sym torus.Symmetry, N, M int, L float64, opts Options) utils.Matrix {
	var (
		nr, nc = torus.ModeShape(sym, N, M)
		m      = M/2 - 1
		E      = utils.NewMatrix(nr, nc)
		sigma  = opts.Sigma
		q      []float64
	)
	if sigma <= 0 {
		sigma = 1
	}
	if opts.Spectrum == GaussianBump {
		q = spectral.SpatialWavenumbers(L, M, 1)
	}
	spaceScale := opts.SpaceScale
	if spaceScale <= 0 || spaceScale > m {
		spaceScale = m
	}
	w := make([]float64, m)
	for k := 0; k < m; k++ {
		switch opts.Spectrum {
		case GaussianBump:
			d := q[k] - mostUnstable
			w[k] = math.Exp(-d * d / (2 * sigma * sigma))
		default:
			w[k] = 1
			if k+1 > spaceScale {
				w[k] = math.Pow(10, float64(spaceScale-(k+1)))
			}
		}
	}
	if sym == torus.Equilibrium {
		E.SetRow(0, w)
		return E
	}
	var (
		n         = N/2 - 1
		timeScale = opts.TimeScale
	)
	if timeScale <= 0 || timeScale > n {
		timeScale = n
	}
	E.SetRow(0, utils.ConstArray(nc, 1))
	for j := 1; j <= n; j++ {
		row := make([]float64, nc)
		for k := 0; k < m; k++ {
			v := w[k]
			if j > timeScale {
				v = 0
			} else if opts.Spectrum == GaussianBump {
				v /= float64(j)
			}
			row[k] = v
			if nc == 2*m {
				row[m+k] = v
			}
		}
		E.SetRow(j, row)
		E.SetRow(n+j, row)
	}
	return E
}
