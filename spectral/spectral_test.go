package spectral

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/notargets/goks/utils"
)

func near(a, b float64) (l bool) {
	if math.Abs(a-b) < 1.e-10*(1+math.Abs(a)) {
		l = true
	}
	return
}

func nearMatrix(A, B utils.Matrix) (l bool) {
	var (
		nrA, ncA = A.Dims()
		nrB, ncB = B.Dims()
	)
	if nrA != nrB || ncA != ncB {
		return false
	}
	l = true
	dataA, dataB := A.RawMatrix().Data, B.RawMatrix().Data
	for i := range dataA {
		if !near(dataA[i], dataB[i]) {
			l = false
		}
	}
	return
}

func randomMatrix(nr, nc int, rnd *rand.Rand) (R utils.Matrix) {
	R = utils.NewMatrix(nr, nc)
	data := R.RawMatrix().Data
	for i := range data {
		data[i] = rnd.NormFloat64()
	}
	return
}

func TestSO2(t *testing.T) {
	// Coefficient table repeats with period four
	{
		type pair struct{ c1, c2 float64 }
		expected := []pair{
			{1, 1}, {1, -1}, {-1, -1}, {-1, 1},
		}
		for p := 0; p < 8; p++ {
			c1, c2 := SO2Coefficients(p)
			assert.Equal(t, expected[p%4].c1, c1)
			assert.Equal(t, expected[p%4].c2, c2)
		}
	}
	// Generator is the matching power of the quarter turn
	{
		G := SO2Generator(1)
		assert.Equal(t, G, utils.NewMatrix(2, 2, []float64{
			0, -1,
			1, 0,
		}))
		G2 := SO2Generator(1).Mul(SO2Generator(1))
		assert.Equal(t, G2, SO2Generator(2))
		assert.Equal(t, SO2Generator(4), utils.Eye(2))
		assert.Equal(t, SO2Generator(3), SO2Generator(-1))
	}
}

func TestSwapModes(t *testing.T) {
	// Space axis exchanges column halves
	{
		M := utils.NewMatrix(2, 4, []float64{
			1, 2, 3, 4,
			5, 6, 7, 8,
		})
		S := SwapModes(M, SpaceAxis)
		assert.Equal(t, S, utils.NewMatrix(2, 4, []float64{
			3, 4, 1, 2,
			7, 8, 5, 6,
		}))
		assert.Equal(t, SwapModes(S, SpaceAxis), M)
	}
	// Time axis holds the mean row fixed and exchanges the rest
	{
		M := utils.NewMatrix(5, 1, []float64{1, 2, 3, 4, 5})
		S := SwapModes(M, TimeAxis)
		assert.Equal(t, S, utils.NewMatrix(5, 1, []float64{1, 4, 5, 2, 3}))
		assert.Equal(t, SwapModes(S, TimeAxis), M)
	}
}

func TestTransformRoundTrip(t *testing.T) {
	rnd := rand.New(rand.NewSource(1))
	for _, size := range []struct{ N, M int }{{32, 32}, {32, 64}, {64, 32}} {
		// Space: packed -> field -> packed reproduces the input, norms agree
		{
			S := randomMatrix(size.N, size.M-2, rnd)
			F := SpaceInverse(S)
			assert.True(t, near(S.Norm(), F.Norm()))
			S2 := SpaceForward(F)
			assert.True(t, nearMatrix(S, S2))
		}
		// Time: packed -> sequence -> packed reproduces the input, norms agree
		{
			P := randomMatrix(size.N-1, size.M-2, rnd)
			S := TimeInverse(P)
			assert.True(t, near(P.Norm(), S.Norm()))
			P2 := TimeForward(S)
			assert.True(t, nearMatrix(P, P2))
		}
	}
}

func TestTransformMatrices(t *testing.T) {
	rnd := rand.New(rand.NewSource(2))
	// Operator rows are orthonormal
	{
		W := SpaceForwardMatrix(32)
		assert.True(t, nearMatrix(W.Mul(W.Transpose()), utils.Eye(30)))
		Th := TimeForwardMatrix(32)
		assert.True(t, nearMatrix(Th.Mul(Th.Transpose()), utils.Eye(31)))
	}
	// Matrix and FFT paths agree
	{
		F := randomMatrix(8, 16, rnd)
		W := SpaceForwardMatrix(16)
		// Applying W to each row is F * W^T
		assert.True(t, nearMatrix(SpaceForward(F), F.Mul(W.Transpose())))

		S := randomMatrix(16, 6, rnd)
		Th := TimeForwardMatrix(16)
		assert.True(t, nearMatrix(TimeForward(S), Th.Mul(S)))
	}
	// Inverse operators are the transposes
	{
		P := randomMatrix(15, 6, rnd)
		assert.True(t, nearMatrix(TimeInverse(P), TimeInverseMatrix(16).Mul(P)))
		S := randomMatrix(4, 14, rnd)
		assert.True(t, nearMatrix(SpaceInverse(S), S.Mul(SpaceInverseMatrix(16).Transpose())))
	}
}

func TestFrequencies(t *testing.T) {
	// Wavenumbers are positive multiples of 2*pi/L
	{
		q := SpatialWavenumbers(22.0, 32, 1)
		assert.Equal(t, 15, len(q))
		assert.True(t, near(2*math.Pi/22.0, q[0]))
		assert.True(t, near(2*math.Pi*15/22.0, q[14]))
	}
	// Temporal frequencies carry the row ordering sign
	{
		w := TemporalFrequencies(20.0, 32, 1)
		assert.Equal(t, 15, len(w))
		assert.True(t, near(-2*math.Pi/20.0, w[0]))
		w2 := TemporalFrequencies(20.0, 32, 2)
		assert.True(t, near(utils.POW(2*math.Pi/20.0, 2), w2[0]))
	}
}
