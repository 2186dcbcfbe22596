package tabular

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/samcharles93/synthkit/internal/synth"
)

type CSVOptions struct {
	// Header writes a first row of column names.
	Header bool
	// Missing is written in place of NaN cells. Defaults to the empty string.
	Missing string
}

// ColumnNames names columns <type>_<n>, with n counting from 1 within each
// type, e.g. numerical_1, numerical_2, binary_1.
func ColumnNames(types []synth.ColumnType) []string {
	seen := make(map[synth.ColumnType]int, 4)
	names := make([]string, len(types))
	for i, t := range types {
		seen[t]++
		names[i] = fmt.Sprintf("%s_%d", t, seen[t])
	}
	return names
}

// WriteCSV writes the dataset matrix row by row.
func WriteCSV(w io.Writer, ds *synth.Dataset, opts CSVOptions) error {
	cw := csv.NewWriter(w)
	if opts.Header {
		if err := cw.Write(ColumnNames(ds.Types)); err != nil {
			return err
		}
	}

	rows, cols := ds.Dims()
	record := make([]string, cols)
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			record[j] = formatCell(ds.Matrix.At(i, j), opts.Missing)
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func formatCell(v float64, missing string) string {
	if math.IsNaN(v) {
		return missing
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
