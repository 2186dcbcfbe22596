package synth

import (
	"math/rand/v2"
	"sort"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"
)

type sampler interface {
	Rand() float64
}

// Continuous draws X (n x k) and Y (k x p) from U[0,1), returns X*Y plus
// Gaussian noise with masking applied. It returns nil when p is zero.
func Continuous(src rand.Source, n, p, k int, pctMissing, noiseScale float64) *mat.Dense {
	if p == 0 {
		return nil
	}
	a := latent(src, n, p, k, distuv.Uniform{Min: 0, Max: 1, Src: src}, noiseScale)
	Mask(src, a, pctMissing)
	return a
}

// Binary thresholds a standard-normal low-rank signal at zero.
func Binary(src rand.Source, n, p, k int, pctMissing, noiseScale float64) *mat.Dense {
	if p == 0 {
		return nil
	}
	a := latent(src, n, p, k, distuv.Normal{Mu: 0, Sigma: 1, Src: src}, noiseScale)
	a.Apply(func(_, _ int, v float64) float64 {
		if v > 0 {
			return 1
		}
		return 0
	}, a)
	Mask(src, a, pctMissing)
	return a
}

// Categorical bins a standard-normal low-rank signal into numCats levels
// labelled 1..numCats. Cut points are the empirical percentiles of the
// signal itself, so levels come out roughly equally populated. Ordinal
// columns are generated by the same routine.
func Categorical(src rand.Source, n, p, k, numCats int, pctMissing, noiseScale float64) *mat.Dense {
	if p == 0 {
		return nil
	}
	a := latent(src, n, p, k, distuv.Normal{Mu: 0, Sigma: 1, Src: src}, noiseScale)
	cuts := CutPoints(a.RawMatrix().Data, numCats)
	a.Apply(func(_, _ int, v float64) float64 {
		return float64(level(cuts, v))
	}, a)
	Mask(src, a, pctMissing)
	return a
}

func latent(src rand.Source, n, p, k int, factor sampler, noiseScale float64) *mat.Dense {
	x := randomDense(n, k, factor)
	y := randomDense(k, p, factor)

	var a mat.Dense
	a.Mul(x, y)

	noise := distuv.Normal{Mu: 0, Sigma: noiseScale, Src: src}
	a.Apply(func(_, _ int, v float64) float64 {
		return v + noise.Rand()
	}, &a)
	return &a
}

func randomDense(r, c int, s sampler) *mat.Dense {
	data := make([]float64, r*c)
	for i := range data {
		data[i] = s.Rand()
	}
	return mat.NewDense(r, c, data)
}

// level returns the 1-based bin of v. Bins are closed below and open above,
// with -Inf and +Inf as the outer bounds.
func level(cuts []float64, v float64) int {
	return 1 + sort.Search(len(cuts), func(i int) bool { return cuts[i] > v })
}
