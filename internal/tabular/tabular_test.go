package tabular

import (
	"bytes"
	"encoding/csv"
	"math"
	"strings"
	"testing"
	"time"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/samcharles93/synthkit/internal/synth"
)

func fixedDataset() *synth.Dataset {
	nan := math.NaN()
	return &synth.Dataset{
		ID: "ds_test",
		Matrix: mat.NewDense(3, 4, []float64{
			0.5, 1, 2, nan,
			nan, 0, 1, 3,
			1.25, 1, 2, 3,
		}),
		Types: []synth.ColumnType{
			synth.TypeNumerical, synth.TypeBinary, synth.TypeCategorical, synth.TypeOrdinal,
		},
		Ranks:     synth.Ranks{Continuous: 1, Binary: 1, Categorical: 1, Ordinal: 1},
		Params:    synth.Params{Rows: 3, Continuous: 1, Binary: 1, Categorical: 1, Ordinal: 1, Rank: 2, NumCats: 2, NumOrd: 3},
		Seed:      11,
		CreatedAt: time.Date(2026, 10, 16, 0, 0, 0, 0, time.UTC),
	}
}

func TestColumnNames(t *testing.T) {
	t.Parallel()

	got := ColumnNames([]synth.ColumnType{
		synth.TypeNumerical, synth.TypeNumerical, synth.TypeBinary, synth.TypeCategorical,
	})
	assert.Equal(t, []string{"numerical_1", "numerical_2", "binary_1", "categorical_1"}, got)
}

func TestWriteCSV(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, fixedDataset(), CSVOptions{Header: true, Missing: "NA"}))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	assert.Equal(t, [][]string{
		{"numerical_1", "binary_1", "categorical_1", "ordinal_1"},
		{"0.5", "1", "2", "NA"},
		{"NA", "0", "1", "3"},
		{"1.25", "1", "2", "3"},
	}, records)
}

func TestWriteCSVDefaultsToEmptyMissing(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, fixedDataset(), CSVOptions{}))
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "0.5,1,2,", lines[0])
}

func TestWriteJSONEncodesMissingAsNull(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, fixedDataset()))

	var doc struct {
		ID      string       `json:"id"`
		Rows    int          `json:"rows"`
		Cols    int          `json:"cols"`
		Types   []string     `json:"types"`
		Missing int          `json:"missing"`
		Seed    uint64       `json:"seed"`
		Data    [][]*float64 `json:"data"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))

	assert.Equal(t, "ds_test", doc.ID)
	assert.Equal(t, 3, doc.Rows)
	assert.Equal(t, 4, doc.Cols)
	assert.Equal(t, 2, doc.Missing)
	assert.Equal(t, uint64(11), doc.Seed)
	assert.Equal(t, []string{"numerical", "binary", "categorical", "ordinal"}, doc.Types)
	require.Len(t, doc.Data, 3)
	assert.Nil(t, doc.Data[0][3])
	assert.Nil(t, doc.Data[1][0])
	require.NotNil(t, doc.Data[2][0])
	assert.Equal(t, 1.25, *doc.Data[2][0])
}

func TestNewDocumentWithoutData(t *testing.T) {
	t.Parallel()

	doc := NewDocument(fixedDataset(), false)
	assert.Nil(t, doc.Data)
	assert.Equal(t, []string{"numerical_1", "binary_1", "categorical_1", "ordinal_1"}, doc.Columns)
}

func TestSummarize(t *testing.T) {
	t.Parallel()

	sums := Summarize(fixedDataset())
	require.Len(t, sums, 4)

	num := sums[0]
	assert.Equal(t, "numerical_1", num.Name)
	assert.Equal(t, 2, num.Observed)
	assert.Equal(t, 1, num.Missing)
	require.NotNil(t, num.Stats)
	assert.InDelta(t, 0.875, num.Stats.Mean, 1e-12)
	assert.Equal(t, 0.5, num.Stats.Min)
	assert.Equal(t, 1.25, num.Stats.Max)
	assert.Nil(t, num.Levels)

	bin := sums[1]
	assert.Equal(t, map[string]int{"0": 1, "1": 2}, bin.Levels)

	ord := sums[3]
	assert.Equal(t, 1, ord.Missing)
	assert.Equal(t, map[string]int{"3": 2}, ord.Levels)
	assert.Zero(t, ord.Stats.StdDev)
}

func TestSummarizeAllMissingColumn(t *testing.T) {
	t.Parallel()

	ds := fixedDataset()
	for i := 0; i < 3; i++ {
		ds.Matrix.Set(i, 0, math.NaN())
	}
	sums := Summarize(ds)
	assert.Nil(t, sums[0].Stats)
	assert.Equal(t, 3, sums[0].Missing)

	var buf bytes.Buffer
	require.NoError(t, WriteSummary(&buf, sums))
	assert.Contains(t, buf.String(), "numerical_1")
	assert.Contains(t, buf.String(), "NaN")
}

func TestSummaryOfGeneratedData(t *testing.T) {
	t.Parallel()

	ds, err := synth.Generate(synth.Params{
		Rows: 50, Continuous: 2, Categorical: 1, Rank: 2, NumCats: 4, PctMissing: 0.2, NoiseScale: 0.3, Seed: 5,
	})
	require.NoError(t, err)

	sums := Summarize(ds)
	require.Len(t, sums, 3)
	for _, s := range sums {
		assert.Equal(t, 50, s.Observed+s.Missing)
	}
	// masking is per block: 20% of the 50x2 numerical block, 20% of the 50x1 categorical block
	assert.Equal(t, 20, sums[0].Missing+sums[1].Missing)
	assert.Equal(t, 10, sums[2].Missing)
	assert.Len(t, sums[2].Levels, 4)
}
