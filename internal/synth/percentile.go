package synth

import (
	"math"
	"slices"
)

// CutPoints returns the numCats-1 interior cut points splitting values into
// numCats equally populated bins: the percentiles at 100/numCats*i for
// i = 1..numCats-1. values is not modified.
func CutPoints(values []float64, numCats int) []float64 {
	if numCats < 2 || len(values) == 0 {
		return nil
	}
	sorted := slices.Clone(values)
	slices.Sort(sorted)

	cuts := make([]float64, numCats-1)
	for i := range cuts {
		cuts[i] = Percentile(sorted, 100*float64(i+1)/float64(numCats))
	}
	return cuts
}

// Percentile returns the q-th percentile (0 <= q <= 100) of sorted,
// interpolating linearly between the two closest ranks.
func Percentile(sorted []float64, q float64) float64 {
	switch len(sorted) {
	case 0:
		return math.NaN()
	case 1:
		return sorted[0]
	}
	h := float64(len(sorted)-1) * q / 100
	lo := int(math.Floor(h))
	if lo < 0 {
		return sorted[0]
	}
	if lo >= len(sorted)-1 {
		return sorted[len(sorted)-1]
	}
	frac := h - float64(lo)
	return sorted[lo] + frac*(sorted[lo+1]-sorted[lo])
}
