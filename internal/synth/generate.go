package synth

import (
	"math/rand/v2"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"gonum.org/v1/gonum/mat"
)

// Dataset is one generated mixed-type matrix with its column labels.
type Dataset struct {
	ID        string
	Matrix    *mat.Dense
	Types     []ColumnType
	Ranks     Ranks
	Params    Params
	Seed      uint64
	CreatedAt time.Time
}

// Dims returns the row and column counts of the matrix.
func (d *Dataset) Dims() (int, int) {
	return d.Matrix.Dims()
}

// NewSource returns the random source used for a given seed.
func NewSource(seed uint64) rand.Source {
	return rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)
}

// Generate validates p and builds the dataset: each non-empty block is
// generated and masked independently, then blocks are joined column-wise in
// the order numerical, binary, categorical, ordinal.
func Generate(p Params) (*Dataset, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	seed := p.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	src := NewSource(seed)
	ranks := AllocateRanks(p)

	blocks := []*mat.Dense{
		Continuous(src, p.Rows, p.Continuous, ranks.Continuous, p.PctMissing, p.NoiseScale),
		Binary(src, p.Rows, p.Binary, ranks.Binary, p.PctMissing, p.NoiseScale),
		Categorical(src, p.Rows, p.Categorical, ranks.Categorical, p.NumCats, p.PctMissing, p.NoiseScale),
		Categorical(src, p.Rows, p.Ordinal, ranks.Ordinal, p.NumOrd, p.PctMissing, p.NoiseScale),
	}

	return &Dataset{
		ID:        "ds_" + uuid.NewString(),
		Matrix:    hstack(blocks),
		Types:     columnTypes(p),
		Ranks:     ranks,
		Params:    p,
		Seed:      seed,
		CreatedAt: time.Now().UTC(),
	}, nil
}

// GenerateSampleData is the positional form of Generate.
func GenerateSampleData(n, pCts, pBin, pCat, pOrd, k, numCats, numOrd int, pctMissing, noiseScale float64) (*mat.Dense, []ColumnType, error) {
	ds, err := Generate(Params{
		Rows:        n,
		Continuous:  pCts,
		Binary:      pBin,
		Categorical: pCat,
		Ordinal:     pOrd,
		Rank:        k,
		NumCats:     numCats,
		NumOrd:      numOrd,
		PctMissing:  pctMissing,
		NoiseScale:  noiseScale,
	})
	if err != nil {
		return nil, nil, err
	}
	return ds.Matrix, ds.Types, nil
}

func hstack(blocks []*mat.Dense) *mat.Dense {
	var out *mat.Dense
	for _, b := range blocks {
		if b == nil {
			continue
		}
		if out == nil {
			out = b
			continue
		}
		var joined mat.Dense
		joined.Augment(out, b)
		out = &joined
	}
	return out
}

func columnTypes(p Params) []ColumnType {
	repeat := func(t ColumnType, n int) []ColumnType {
		return lo.Times(n, func(int) ColumnType { return t })
	}
	return lo.Flatten([][]ColumnType{
		repeat(TypeNumerical, p.Continuous),
		repeat(TypeBinary, p.Binary),
		repeat(TypeCategorical, p.Categorical),
		repeat(TypeOrdinal, p.Ordinal),
	})
}
