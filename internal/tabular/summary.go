package tabular

import (
	"fmt"
	"io"
	"math"
	"slices"
	"strconv"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/samcharles93/synthkit/internal/synth"
)

type Stats struct {
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"std_dev"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
}

type ColumnSummary struct {
	Name     string           `json:"name"`
	Type     synth.ColumnType `json:"type"`
	Observed int              `json:"observed"`
	Missing  int              `json:"missing"`
	// Stats is nil when every cell of the column is missing.
	Stats *Stats `json:"stats,omitempty"`
	// Levels counts observed values of binary, categorical and ordinal columns.
	Levels map[string]int `json:"levels,omitempty"`
}

// Summarize describes each column of ds, skipping missing cells.
func Summarize(ds *synth.Dataset) []ColumnSummary {
	names := ColumnNames(ds.Types)
	_, cols := ds.Dims()

	out := make([]ColumnSummary, cols)
	for j := 0; j < cols; j++ {
		col := mat.Col(nil, j, ds.Matrix)
		observed := slices.DeleteFunc(col, math.IsNaN)

		s := ColumnSummary{
			Name:     names[j],
			Type:     ds.Types[j],
			Observed: len(observed),
			Missing:  len(col) - len(observed),
		}
		if len(observed) > 0 {
			s.Stats = describe(observed)
		}
		if ds.Types[j] != synth.TypeNumerical {
			s.Levels = levelCounts(observed)
		}
		out[j] = s
	}
	return out
}

func describe(x []float64) *Stats {
	st := &Stats{
		Mean: stat.Mean(x, nil),
		Min:  floats.Min(x),
		Max:  floats.Max(x),
	}
	if len(x) > 1 {
		st.StdDev = stat.StdDev(x, nil)
	}
	return st
}

func levelCounts(x []float64) map[string]int {
	counts := make(map[string]int)
	for _, v := range x {
		counts[strconv.FormatFloat(v, 'f', -1, 64)]++
	}
	return counts
}

// WriteSummary prints summaries as an aligned plain-text table.
func WriteSummary(w io.Writer, summaries []ColumnSummary) error {
	if _, err := fmt.Fprintf(w, "%-16s %-12s %8s %8s %10s %10s %10s %10s\n",
		"column", "type", "observed", "missing", "mean", "std", "min", "max"); err != nil {
		return err
	}
	for _, s := range summaries {
		st := Stats{Mean: math.NaN(), StdDev: math.NaN(), Min: math.NaN(), Max: math.NaN()}
		if s.Stats != nil {
			st = *s.Stats
		}
		if _, err := fmt.Fprintf(w, "%-16s %-12s %8d %8d %10.4f %10.4f %10.4f %10.4f\n",
			s.Name, s.Type, s.Observed, s.Missing, st.Mean, st.StdDev, st.Min, st.Max); err != nil {
			return err
		}
	}
	return nil
}
