package cmd

import (
	"testing"

	"github.com/magiconair/properties/assert"

	"github.com/notargets/goks/torus"
)

func TestSeedInput(t *testing.T) {
	var (
		err error
	)
	// With no parameter file the flag defaults populate the input set.
	sm := &SeedModel{}
	ip := processSeedInput(sm, SeedCmd)
	assert.Equal(t, ip.Symmetry, "full")
	assert.Equal(t, ip.Spectrum, "plateau")
	sym, err := ip.SymmetryType()
	if err != nil {
		panic(err)
	}
	assert.Equal(t, sym, torus.Full)
	assert.Equal(t, ip.Fixed(), torus.Fixed{})
}
