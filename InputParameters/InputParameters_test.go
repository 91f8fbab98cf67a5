package InputParameters

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/notargets/goks/generate"
	"github.com/notargets/goks/torus"
)

func TestParse(t *testing.T) {
	doc := []byte(`
Title: antisymmetric seed hunt
Symmetry: antisym
N: 64
M: 32
T: 44.0
L: 22.0
FixedL: true
Seed: 17
SpaceScale: 5
Spectrum: gaussian
Amplitude: 3
Archive: solutions.db
`)
	var ip InputParametersKS
	assert.NoError(t, ip.Parse(doc))
	assert.Equal(t, "antisymmetric seed hunt", ip.Title)
	assert.Equal(t, 64, ip.N)
	assert.Equal(t, 44.0, ip.T)
	assert.True(t, ip.FixedL)

	sym, err := ip.SymmetryType()
	assert.NoError(t, err)
	assert.Equal(t, torus.Antisymmetric, sym)

	assert.Equal(t, torus.Fixed{L: true}, ip.Fixed())

	opts, err := ip.GenerateOptions()
	assert.NoError(t, err)
	assert.Equal(t, generate.GaussianBump, opts.Spectrum)
	assert.Equal(t, uint64(17), opts.Seed)
	assert.Equal(t, 5, opts.SpaceScale)
	assert.Equal(t, 3.0, opts.Amplitude)
}

func TestParseDefaults(t *testing.T) {
	var ip InputParametersKS
	assert.NoError(t, ip.Parse([]byte("Title: defaults\n")))

	sym, err := ip.SymmetryType()
	assert.NoError(t, err)
	assert.Equal(t, torus.Full, sym)

	opts, err := ip.GenerateOptions()
	assert.NoError(t, err)
	assert.Equal(t, generate.Plateau, opts.Spectrum)

	ip.Spectrum = "sawtooth"
	_, err = ip.GenerateOptions()
	assert.Error(t, err)
}
