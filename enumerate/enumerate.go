// Package enumerate produces every labeling of a sublattice that satisfies
// per-species count constraints, and reduces the stream to one
// representative per symmetry class under hard size ceilings.
package enumerate

import (
	"fmt"
	"iter"
	"math/big"
)

// Labels assigns an identity to every sublattice position: 0 is the host,
// 1..k are the configured non-host species.
type Labels []uint8

// Clone returns a copy of l.
func (l Labels) Clone() Labels {
	out := make(Labels, len(l))
	copy(out, l)
	return out
}

// Estimate returns the number of raw labelings for n positions and the given
// non-host counts: the product of binomial coefficients for sequential
// placement. Arbitrary precision, since the product overflows int64 for
// moderate sublattices.
func Estimate(n int, counts []int) *big.Int {
	total := big.NewInt(1)
	remaining := int64(n)
	for _, c := range counts {
		total.Mul(total, new(big.Int).Binomial(remaining, int64(c)))
		remaining -= int64(c)
	}
	return total
}

// ErrTooManyConfigs is the raw-count sizing error: the estimated number of
// labelings exceeds the configured ceiling, so enumeration never starts.
type ErrTooManyConfigs struct {
	Estimate *big.Int
	Limit    int64
}

func (e *ErrTooManyConfigs) Error() string {
	return fmt.Sprintf("enumerate: estimated %s raw configurations exceeds ceiling %d", e.Estimate, e.Limit)
}

// CheckEstimate computes the raw-count estimate and returns an
// *ErrTooManyConfigs if it exceeds limit.
func CheckEstimate(n int, counts []int, limit int64) (*big.Int, error) {
	est := Estimate(n, counts)
	if est.Cmp(big.NewInt(limit)) > 0 {
		return est, &ErrTooManyConfigs{Estimate: est, Limit: limit}
	}
	return est, nil
}

// Sequence returns a lazy, finite, single-use iterator over every labeling
// of n positions where label i+1 occurs exactly counts[i] times and all
// remaining positions are host (0).
//
// Positions for label 1 are chosen first, then label 2 from the positions
// still free, and so on; each choice runs in lexicographic combination
// order, so the overall order is deterministic.
//
// The yielded slice is reused between iterations; callers must Clone to
// retain it.
func Sequence(n int, counts []int) iter.Seq[Labels] {
	return func(yield func(Labels) bool) {
		labels := make(Labels, n)
		free := make([]int, n)
		for i := range free {
			free[i] = i
		}

		var place func(level int, free []int) bool
		place = func(level int, free []int) bool {
			if level == len(counts) {
				return yield(labels)
			}

			c := counts[level]
			if c == 0 {
				return place(level+1, free)
			}

			chosen := make([]int, c) // indices into free
			rem := make([]int, 0, len(free)-c)

			var choose func(start, depth int) bool
			choose = func(start, depth int) bool {
				if depth == c {
					rem = rem[:0]
					k := 0
					for i, pos := range free {
						if k < c && chosen[k] == i {
							k++
							continue
						}
						rem = append(rem, pos)
					}
					for _, i := range chosen {
						labels[free[i]] = uint8(level + 1)
					}
					ok := place(level+1, rem)
					for _, i := range chosen {
						labels[free[i]] = 0
					}
					return ok
				}
				for i := start; i <= len(free)-(c-depth); i++ {
					chosen[depth] = i
					if !choose(i+1, depth+1) {
						return false
					}
				}
				return true
			}

			return choose(0, 0)
		}

		place(0, free)
	}
}
