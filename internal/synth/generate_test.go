package synth

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func sampleParams() Params {
	return Params{
		Rows:        100,
		Continuous:  2,
		Binary:      1,
		Categorical: 1,
		Ordinal:     0,
		Rank:        3,
		NumCats:     3,
		NumOrd:      2,
		PctMissing:  0.1,
		NoiseScale:  0.5,
		Seed:        7,
	}
}

func TestGenerateSampleDataShapeAndLabels(t *testing.T) {
	t.Parallel()

	m, types, err := GenerateSampleData(100, 2, 1, 1, 0, 3, 3, 2, 0.1, 0.5)
	require.NoError(t, err)

	r, c := m.Dims()
	assert.Equal(t, 100, r)
	assert.Equal(t, 4, c)
	assert.Equal(t, []ColumnType{TypeNumerical, TypeNumerical, TypeBinary, TypeCategorical}, types)
}

func TestGenerateMasksEachBlockIndependently(t *testing.T) {
	t.Parallel()

	p := sampleParams()
	ds, err := Generate(p)
	require.NoError(t, err)

	// numerical block: 100x2, binary: 100x1, categorical: 100x1
	blocks := []struct{ from, to int }{{0, 2}, {2, 3}, {3, 4}}
	for _, b := range blocks {
		view := ds.Matrix.Slice(0, p.Rows, b.from, b.to)
		want := MissingCount(p.Rows*(b.to-b.from), p.PctMissing)
		assert.Equal(t, want, CountMissing(view), "columns [%d,%d)", b.from, b.to)
	}
}

func TestGenerateBlockValueDomains(t *testing.T) {
	t.Parallel()

	p := Params{
		Rows:        200,
		Continuous:  1,
		Binary:      2,
		Categorical: 2,
		Ordinal:     2,
		Rank:        4,
		NumCats:     4,
		NumOrd:      3,
		PctMissing:  0.2,
		NoiseScale:  0.1,
		Seed:        99,
	}
	ds, err := Generate(p)
	require.NoError(t, err)

	for j, typ := range ds.Types {
		for i := 0; i < p.Rows; i++ {
			v := ds.Matrix.At(i, j)
			if math.IsNaN(v) {
				continue
			}
			switch typ {
			case TypeBinary:
				assert.Contains(t, []float64{0, 1}, v)
			case TypeCategorical:
				assert.True(t, v == math.Trunc(v) && v >= 1 && v <= 4, "categorical value %g", v)
			case TypeOrdinal:
				assert.True(t, v == math.Trunc(v) && v >= 1 && v <= 3, "ordinal value %g", v)
			}
		}
	}
}

func TestGenerateSeedIsReproducible(t *testing.T) {
	t.Parallel()

	a, err := Generate(sampleParams())
	require.NoError(t, err)
	b, err := Generate(sampleParams())
	require.NoError(t, err)

	assert.NotEqual(t, a.ID, b.ID)
	assert.Equal(t, a.Seed, b.Seed)
	assertSameWithNaN(t, a.Matrix, b.Matrix)
}

func TestGenerateRecordsTimeSeed(t *testing.T) {
	t.Parallel()

	p := sampleParams()
	p.Seed = 0
	ds, err := Generate(p)
	require.NoError(t, err)
	assert.NotZero(t, ds.Seed)

	p.Seed = ds.Seed
	again, err := Generate(p)
	require.NoError(t, err)
	assertSameWithNaN(t, ds.Matrix, again.Matrix)
}

func TestGenerateExposesOverallocatedRanks(t *testing.T) {
	t.Parallel()

	ds, err := Generate(sampleParams())
	require.NoError(t, err)
	assert.Equal(t, Ranks{Continuous: 2, Binary: 1, Categorical: 1, Ordinal: 0}, ds.Ranks)
	assert.Greater(t, ds.Ranks.Total(), ds.Params.Rank)
}

func TestGenerateSingleBlock(t *testing.T) {
	t.Parallel()

	p := Params{Rows: 10, Ordinal: 3, Rank: 2, NumOrd: 5, Seed: 1}
	ds, err := Generate(p)
	require.NoError(t, err)

	r, c := ds.Dims()
	assert.Equal(t, 10, r)
	assert.Equal(t, 3, c)
	assert.Equal(t, []ColumnType{TypeOrdinal, TypeOrdinal, TypeOrdinal}, ds.Types)
	assert.Zero(t, CountMissing(ds.Matrix))
}

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mutate func(*Params)
		field  string
	}{
		{"zero rows", func(p *Params) { p.Rows = 0 }, "n"},
		{"negative continuous", func(p *Params) { p.Continuous = -1 }, "p_cts"},
		{"negative binary", func(p *Params) { p.Binary = -2 }, "p_bin"},
		{"negative categorical", func(p *Params) { p.Categorical = -1 }, "p_cat"},
		{"negative ordinal", func(p *Params) { p.Ordinal = -1 }, "p_ord"},
		{"no columns", func(p *Params) { p.Continuous, p.Binary, p.Categorical = 0, 0, 0 }, "columns"},
		{"zero rank", func(p *Params) { p.Rank = 0 }, "k"},
		{"one category", func(p *Params) { p.NumCats = 1 }, "num_cats"},
		{"one ordinal level", func(p *Params) { p.Ordinal, p.NumOrd = 1, 1 }, "num_ord"},
		{"missing above one", func(p *Params) { p.PctMissing = 1.5 }, "pct_missing"},
		{"missing negative", func(p *Params) { p.PctMissing = -0.1 }, "pct_missing"},
		{"missing NaN", func(p *Params) { p.PctMissing = math.NaN() }, "pct_missing"},
		{"negative noise", func(p *Params) { p.NoiseScale = -1 }, "noise_scale"},
		{"infinite noise", func(p *Params) { p.NoiseScale = math.Inf(1) }, "noise_scale"},
		{"column count overflows", func(p *Params) { p.Continuous = math.MaxInt }, "columns"},
		{"rank too large to allocate", func(p *Params) { p.Rank = math.MaxInt }, "n"},
		{"cells overflow", func(p *Params) { p.Rows, p.Continuous = 1<<40, 1<<24 }, "n"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			p := sampleParams()
			tc.mutate(&p)

			err := p.Validate()
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidParams))
			assert.Contains(t, err.Error(), tc.field)

			_, err = Generate(p)
			assert.ErrorIs(t, err, ErrInvalidParams)
		})
	}
}

func TestFootprint(t *testing.T) {
	t.Parallel()

	// 100x4 output, then per block X + Y + product for ranks {2, 1, 1, 0}.
	values, ok := sampleParams().Footprint()
	require.True(t, ok)
	assert.Equal(t, 400+(200+4+200)+(100+1+100)+(100+1+100), values)

	wide := Params{Rows: 1, Continuous: 1000, Rank: 10_000_000}
	values, ok = wide.Footprint()
	require.True(t, ok)
	assert.Greater(t, values, 10_000_000_000)

	_, ok = Params{Rows: 1 << 40, Continuous: 1 << 24, Rank: 1}.Footprint()
	assert.False(t, ok)
}

func TestValidateIgnoresLevelsOfEmptyBlocks(t *testing.T) {
	t.Parallel()

	p := Params{Rows: 5, Continuous: 1, Rank: 1}
	assert.NoError(t, p.Validate())
}

func assertSameWithNaN(t *testing.T, a, b *mat.Dense) {
	t.Helper()
	ar, ac := a.Dims()
	br, bc := b.Dims()
	require.Equal(t, ar, br)
	require.Equal(t, ac, bc)
	for i := 0; i < ar; i++ {
		for j := 0; j < ac; j++ {
			x, y := a.At(i, j), b.At(i, j)
			if math.IsNaN(x) || math.IsNaN(y) {
				require.True(t, math.IsNaN(x) && math.IsNaN(y), "NaN mismatch at (%d,%d)", i, j)
				continue
			}
			require.Equal(t, x, y, "value mismatch at (%d,%d)", i, j)
		}
	}
}
