// Package layout computes deterministic 2D map coordinates and a road
// graph for a set of hierarchically nested locations.
//
// Nothing here is random in the entropy sense: every coordinate is a pure
// function of the location names, the tier structure, and a caller-supplied
// layout seed. That determinism is what lets the system skip persisting
// coordinates entirely — the same input reproduces the same map on every
// run.
package layout

import "math"

// Hash derives an unsigned 32-bit integer from text using a polynomial
// rolling hash (h = h*31 + byte). The same string always yields the same
// value, with no external entropy source.
func Hash(text string) uint32 {
	var h uint32
	for i := 0; i < len(text); i++ {
		h = h*31 + uint32(text[i])
	}
	return h
}

// SeededRandom maps an integer seed to a float in [0,1). It is a pure
// function of the seed: calling it twice with the same seed yields the
// same value. Callers that need a sequence must vary the seed per draw,
// typically seed + i*seedStride.
func SeededRandom(seed uint32) float64 {
	x := math.Sin(float64(seed)) * 43758.5453123
	return x - math.Floor(x)
}

// seedStride offsets successive draws derived from the same name seed.
// Any odd constant works; this one keeps consecutive draws uncorrelated
// across the uint32 wrap.
const seedStride = 0x9E3779B9

// nameSeed mixes a location name with the layout seed. Bumping the layout
// seed reshuffles every non-overridden node while a fixed seed keeps the
// map stable across reloads.
func nameSeed(name string, layoutSeed uint64) uint32 {
	return Hash(name) + uint32(layoutSeed)*seedStride
}
