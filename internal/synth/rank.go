package synth

import "math/bits"

// Ranks is the latent rank given to each block. Every block is rounded up on
// its own, so Total can exceed the requested rank.
type Ranks struct {
	Continuous  int `json:"k_cts"`
	Binary      int `json:"k_bin"`
	Categorical int `json:"k_cat"`
	Ordinal     int `json:"k_ord"`
}

func (r Ranks) Total() int {
	return r.Continuous + r.Binary + r.Categorical + r.Ordinal
}

// AllocateRanks splits p.Rank across blocks proportionally to their column
// counts: k_type = ceil(p_type / sum(p) * k).
func AllocateRanks(p Params) Ranks {
	total := p.Columns()
	return Ranks{
		Continuous:  ceilShare(p.Continuous, p.Rank, total),
		Binary:      ceilShare(p.Binary, p.Rank, total),
		Categorical: ceilShare(p.Categorical, p.Rank, total),
		Ordinal:     ceilShare(p.Ordinal, p.Rank, total),
	}
}

// ceilShare computes ceil(cols*rank/total) with a 128-bit intermediate
// product. cols <= total keeps the quotient within rank.
func ceilShare(cols, rank, total int) int {
	if total <= 0 || cols <= 0 || rank <= 0 || cols > total {
		return 0
	}
	hi, lo := bits.Mul64(uint64(cols), uint64(rank))
	quo, rem := bits.Div64(hi, lo, uint64(total))
	if rem != 0 {
		quo++
	}
	return int(quo)
}
