package tabular

import (
	"io"
	"math"
	"time"

	json "github.com/goccy/go-json"

	"github.com/samcharles93/synthkit/internal/synth"
)

// Document is the JSON form of a dataset. Missing cells are null.
type Document struct {
	ID        string             `json:"id"`
	Rows      int                `json:"rows"`
	Cols      int                `json:"cols"`
	Columns   []string           `json:"columns"`
	Types     []synth.ColumnType `json:"types"`
	Ranks     synth.Ranks        `json:"ranks"`
	Params    synth.Params       `json:"params"`
	Seed      uint64             `json:"seed"`
	Missing   int                `json:"missing"`
	CreatedAt time.Time          `json:"created_at"`
	Data      [][]*float64       `json:"data,omitempty"`
}

// NewDocument builds the JSON view of ds. Data is filled only when
// withData is set.
func NewDocument(ds *synth.Dataset, withData bool) Document {
	rows, cols := ds.Dims()
	doc := Document{
		ID:        ds.ID,
		Rows:      rows,
		Cols:      cols,
		Columns:   ColumnNames(ds.Types),
		Types:     ds.Types,
		Ranks:     ds.Ranks,
		Params:    ds.Params,
		Seed:      ds.Seed,
		Missing:   synth.CountMissing(ds.Matrix),
		CreatedAt: ds.CreatedAt,
	}
	if !withData {
		return doc
	}

	doc.Data = make([][]*float64, rows)
	for i := range doc.Data {
		row := make([]*float64, cols)
		for j := range row {
			if v := ds.Matrix.At(i, j); !math.IsNaN(v) {
				row[j] = &v
			}
		}
		doc.Data[i] = row
	}
	return doc
}

// WriteJSON encodes the full document, data included, to w.
func WriteJSON(w io.Writer, ds *synth.Dataset) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(NewDocument(ds, true))
}
