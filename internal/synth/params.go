package synth

import (
	"errors"
	"fmt"
	"math"
)

// ColumnType labels the semantics of a generated column.
type ColumnType string

const (
	TypeNumerical   ColumnType = "numerical"
	TypeBinary      ColumnType = "binary"
	TypeCategorical ColumnType = "categorical"
	TypeOrdinal     ColumnType = "ordinal"
)

var ErrInvalidParams = errors.New("synth: invalid params")

type paramError struct {
	field string
	msg   string
}

func (e paramError) Error() string {
	return fmt.Sprintf("synth: invalid %s: %s", e.field, e.msg)
}

func (e paramError) Unwrap() error {
	return ErrInvalidParams
}

// InvalidField returns the parameter named by a validation error, or "".
func InvalidField(err error) string {
	var pe paramError
	if errors.As(err, &pe) {
		return pe.field
	}
	return ""
}

func invalid(field, format string, args ...any) error {
	return paramError{field: field, msg: fmt.Sprintf(format, args...)}
}

// Params describes one mixed-type dataset. Column counts are per block and
// blocks are laid out as numerical, binary, categorical, ordinal.
type Params struct {
	Rows        int     `json:"n" yaml:"n"`
	Continuous  int     `json:"p_cts" yaml:"p_cts"`
	Binary      int     `json:"p_bin" yaml:"p_bin"`
	Categorical int     `json:"p_cat" yaml:"p_cat"`
	Ordinal     int     `json:"p_ord" yaml:"p_ord"`
	Rank        int     `json:"k" yaml:"k"`
	NumCats     int     `json:"num_cats" yaml:"num_cats"`
	NumOrd      int     `json:"num_ord" yaml:"num_ord"`
	PctMissing  float64 `json:"pct_missing" yaml:"pct_missing"`
	NoiseScale  float64 `json:"noise_scale" yaml:"noise_scale"`

	// Seed fixes the random stream. Zero picks a time-derived seed, which
	// is reported back on the generated Dataset.
	Seed uint64 `json:"seed,omitempty" yaml:"seed,omitempty"`
}

// Columns returns the total column count across all blocks.
func (p Params) Columns() int {
	return p.Continuous + p.Binary + p.Categorical + p.Ordinal
}

// Footprint returns the number of float64 values Generate allocates for p:
// per block the factors X (n x k) and Y (k x p) and their n x p product, plus
// the joined n x sum(p) matrix. ok is false when the count overflows int.
func (p Params) Footprint() (values int, ok bool) {
	cols, ok := sumChecked(p.Continuous, p.Binary, p.Categorical, p.Ordinal)
	if !ok {
		return 0, false
	}
	if values, ok = mulChecked(p.Rows, cols); !ok {
		return 0, false
	}
	ranks := AllocateRanks(p)
	blocks := [][2]int{
		{p.Continuous, ranks.Continuous},
		{p.Binary, ranks.Binary},
		{p.Categorical, ranks.Categorical},
		{p.Ordinal, ranks.Ordinal},
	}
	for _, b := range blocks {
		width, rank := b[0], b[1]
		if width == 0 {
			continue
		}
		x, okX := mulChecked(p.Rows, rank)
		y, okY := mulChecked(rank, width)
		a, okA := mulChecked(p.Rows, width)
		if !okX || !okY || !okA {
			return 0, false
		}
		if values, ok = sumChecked(values, x, y, a); !ok {
			return 0, false
		}
	}
	return values, true
}

func (p Params) columnsFit() bool {
	_, ok := sumChecked(p.Continuous, p.Binary, p.Categorical, p.Ordinal)
	return ok
}

func mulChecked(a, b int) (int, bool) {
	if a < 0 || b < 0 {
		return 0, false
	}
	if a == 0 || b == 0 {
		return 0, true
	}
	if a > math.MaxInt/b {
		return 0, false
	}
	return a * b, true
}

func sumChecked(vs ...int) (int, bool) {
	total := 0
	for _, v := range vs {
		if v < 0 || total > math.MaxInt-v {
			return 0, false
		}
		total += v
	}
	return total, true
}

// Validate reports the first invalid field as an error wrapping ErrInvalidParams.
func (p Params) Validate() error {
	switch {
	case p.Rows < 1:
		return invalid("n", "must be at least 1, got %d", p.Rows)
	case p.Continuous < 0:
		return invalid("p_cts", "must not be negative, got %d", p.Continuous)
	case p.Binary < 0:
		return invalid("p_bin", "must not be negative, got %d", p.Binary)
	case p.Categorical < 0:
		return invalid("p_cat", "must not be negative, got %d", p.Categorical)
	case p.Ordinal < 0:
		return invalid("p_ord", "must not be negative, got %d", p.Ordinal)
	case !p.columnsFit():
		return invalid("columns", "total column count overflows")
	case p.Columns() == 0:
		return invalid("columns", "at least one block must have columns")
	case p.Rank < 1:
		return invalid("k", "must be at least 1, got %d", p.Rank)
	case p.Categorical > 0 && p.NumCats < 2:
		return invalid("num_cats", "must be at least 2 when p_cat > 0, got %d", p.NumCats)
	case p.Ordinal > 0 && p.NumOrd < 2:
		return invalid("num_ord", "must be at least 2 when p_ord > 0, got %d", p.NumOrd)
	case math.IsNaN(p.PctMissing) || p.PctMissing < 0 || p.PctMissing > 1:
		return invalid("pct_missing", "must be within [0, 1], got %g", p.PctMissing)
	case math.IsNaN(p.NoiseScale) || math.IsInf(p.NoiseScale, 0) || p.NoiseScale < 0:
		return invalid("noise_scale", "must be finite and non-negative, got %g", p.NoiseScale)
	}
	if _, ok := p.Footprint(); !ok {
		return invalid("n", "dataset of %d rows, %d columns and rank %d is too large to allocate", p.Rows, p.Columns(), p.Rank)
	}
	return nil
}
