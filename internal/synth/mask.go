package synth

import (
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/mat"
)

// MissingCount is the number of entries Mask removes from a matrix with
// total entries, rounding half to even.
func MissingCount(total int, fraction float64) int {
	count := int(math.RoundToEven(fraction * float64(total)))
	return max(0, min(count, total))
}

// Mask sets MissingCount(r*c, fraction) distinct entries of m to NaN, chosen
// by a uniform permutation of all coordinates. It returns the count masked.
func Mask(src rand.Source, m *mat.Dense, fraction float64) int {
	r, c := m.Dims()
	total := r * c
	count := MissingCount(total, fraction)
	if count == 0 {
		return 0
	}
	perm := rand.New(src).Perm(total)
	for _, idx := range perm[:count] {
		m.Set(idx/c, idx%c, math.NaN())
	}
	return count
}

// CountMissing counts NaN entries of m.
func CountMissing(m mat.Matrix) int {
	r, c := m.Dims()
	n := 0
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			if math.IsNaN(m.At(i, j)) {
				n++
			}
		}
	}
	return n
}
