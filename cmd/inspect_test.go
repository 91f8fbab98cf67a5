package cmd

import (
	"testing"

	"github.com/magiconair/properties/assert"

	"github.com/notargets/goks/generate"
	"github.com/notargets/goks/persist"
	"github.com/notargets/goks/torus"
)

func TestVerifyRecord(t *testing.T) {
	var (
		err error
	)
	tor, err := generate.RandomTorus(torus.ShiftReflection, 32, 32, 20, 22,
		generate.Options{Seed: 33})
	if err != nil {
		panic(err)
	}
	rec, err := persist.FromTorus(tor)
	if err != nil {
		panic(err)
	}
	rt, drift, err := verifyRecord(rec)
	if err != nil {
		panic(err)
	}
	// A stored field produced from a symmetric state survives the mode
	// round trip and keeps its norm in every basis.
	assert.Equal(t, rt < 1e-9, true)
	assert.Equal(t, drift < 1e-9, true)

	// Breaking the shift-reflection of the stored field surfaces as a
	// round trip loss, the advisory inspect --verify reports.
	rec.Field[1][1] += 0.5
	rt, _, err = verifyRecord(rec)
	if err != nil {
		panic(err)
	}
	assert.Equal(t, rt > 1e-3, true)
}
