package enumerate

import (
	"fmt"
	"iter"

	"github.com/hupe1980/dopego/symmetry"
)

// Unique is one retained representative of a symmetry class, tagged with its
// 1-based discovery index in the retained list.
type Unique struct {
	Index  int
	Labels Labels
}

// ErrTooManyUnique is the second sizing error: the number of retained
// symmetry-distinct labelings would exceed the configured ceiling. It is
// distinct from ErrTooManyConfigs so callers can tell "too many raw
// configurations" from "too many symmetry-distinct configurations".
type ErrTooManyUnique struct {
	Limit int
}

func (e *ErrTooManyUnique) Error() string {
	return fmt.Sprintf("enumerate: symmetry-distinct configurations exceed ceiling %d", e.Limit)
}

// Reduce consumes seq and retains the first labeling seen per canonical key.
// It returns the retained labelings in discovery order along with the number
// of raw labelings checked. If retaining one more labeling would exceed
// maxUnique, reduction stops with an *ErrTooManyUnique.
func Reduce(seq iter.Seq[Labels], canon *symmetry.Canonicalizer, maxUnique int) ([]Unique, int, error) {
	seen := make(map[string]struct{})
	var uniques []Unique
	raw := 0

	for labels := range seq {
		raw++
		key := canon.Key(labels)
		if _, dup := seen[string(key)]; dup {
			continue
		}
		if len(uniques) >= maxUnique {
			return nil, raw, &ErrTooManyUnique{Limit: maxUnique}
		}
		seen[string(key)] = struct{}{}
		uniques = append(uniques, Unique{
			Index:  len(uniques) + 1,
			Labels: labels.Clone(),
		})
	}

	return uniques, raw, nil
}
