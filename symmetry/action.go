package symmetry

import (
	"math"
	"strconv"

	"github.com/hupe1980/dopego/crystal"
)

// Permutation maps sublattice-local indices: a label vector L is carried to
// the image I with I[i] = L[p[i]].
type Permutation []int

// IsIdentity reports whether p maps every index to itself.
func (p Permutation) IsIdentity() bool {
	for i, j := range p {
		if i != j {
			return false
		}
	}
	return true
}

// ParentStructure returns a copy of base with every sublattice site
// overwritten by the host species, erasing any prior decoration so the
// analyzer observes the undecorated lattice's true space group.
func ParentStructure(base *crystal.Structure, sublattice []int, host string) *crystal.Structure {
	parent := base.Copy()
	for _, idx := range sublattice {
		parent.ReplaceSpecies(idx, host)
	}
	return parent
}

// BuildPermutations computes the action of each operation on the sublattice
// of parent: every sublattice coordinate is transformed, wrapped into [0,1)
// per axis, and matched to the sublattice site minimizing the periodic
// squared distance. A match is accepted only if that distance is at most
// (tolerance·10)²; otherwise an *ErrSiteMatch is returned.
//
// The resulting permutations are deduplicated by exact equality. Since the
// operation set contains the identity, so does the result.
func BuildPermutations(parent *crystal.Structure, sublattice []int, ops []Operation, tolerance float64) ([]Permutation, error) {
	n := len(sublattice)
	frac := make([]crystal.Vec3, n)
	for i, idx := range sublattice {
		frac[i] = parent.Sites[idx].Frac
	}

	limit := tolerance * 10
	limitSq := limit * limit

	var perms []Permutation
	seen := make(map[string]struct{}, len(ops))

	for opIdx, op := range ops {
		perm := make(Permutation, n)
		for i := 0; i < n; i++ {
			mapped := op.Apply(frac[i]).Wrap()

			best, bestDistSq := -1, math.Inf(1)
			for j := 0; j < n; j++ {
				if d2 := periodicDistSq(frac[j], mapped); d2 < bestDistSq {
					best, bestDistSq = j, d2
				}
			}
			if bestDistSq > limitSq {
				return nil, &ErrSiteMatch{Operation: opIdx, Site: i, MinDistSq: bestDistSq, Tolerance: tolerance}
			}
			perm[i] = best
		}

		key := permKey(perm)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		perms = append(perms, perm)
	}

	return perms, nil
}

// periodicDistSq is the squared distance between two fractional coordinates
// with each component difference reduced to its nearest periodic image.
func periodicDistSq(a, b crystal.Vec3) float64 {
	var sum float64
	for i := 0; i < 3; i++ {
		d := a[i] - b[i]
		d -= math.Round(d)
		sum += d * d
	}
	return sum
}

func permKey(p Permutation) string {
	buf := make([]byte, 0, len(p)*3)
	for _, v := range p {
		buf = strconv.AppendInt(buf, int64(v), 10)
		buf = append(buf, ',')
	}
	return string(buf)
}
