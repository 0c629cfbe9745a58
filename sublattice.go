package dopego

import (
	"sort"

	"github.com/hupe1980/dopego/crystal"
)

// sublattice describes the enumeration sublattice of a structure: the
// ordered site indices eligible for substitution plus the species counts
// found on them. Fixed for a given structure; computed once per scan.
type sublattice struct {
	indices      []int
	hostCount    int
	dopantCounts map[string]int
}

// size returns N = hostCount + Σ dopantCounts.
func (s *sublattice) size() int {
	return len(s.indices)
}

// dopants returns the non-host species sorted alphabetically, giving the
// stable label mapping 1..k, together with the matching counts.
func (s *sublattice) dopants() ([]string, []int) {
	els := make([]string, 0, len(s.dopantCounts))
	for el := range s.dopantCounts {
		els = append(els, el)
	}
	sort.Strings(els)

	counts := make([]int, len(els))
	for i, el := range els {
		counts[i] = s.dopantCounts[el]
	}
	return els, counts
}

// resolveSublattice identifies the substitutable sites of s (every site
// whose species is not a spectator) and infers the per-species counts on
// them from the structure itself.
func resolveSublattice(s *crystal.Structure, host string, spectators []string) (*sublattice, error) {
	spec := make(map[string]struct{}, len(spectators))
	for _, el := range spectators {
		spec[el] = struct{}{}
	}

	found := make(map[string]int)
	var indices []int
	for i, site := range s.Sites {
		if _, skip := spec[site.Species]; skip {
			continue
		}
		indices = append(indices, i)
		found[site.Species]++
	}

	hostCount, ok := found[host]
	if !ok {
		return nil, &ErrHostNotOnSublattice{Host: host, Found: found}
	}

	dopantCounts := make(map[string]int, len(found)-1)
	total := 0
	for el, c := range found {
		if el == host {
			continue
		}
		dopantCounts[el] = c
		total += c
	}

	sub := &sublattice{
		indices:      indices,
		hostCount:    hostCount,
		dopantCounts: dopantCounts,
	}
	if hostCount+total != sub.size() {
		return nil, &ErrInconsistentCounts{Sublattice: sub.size(), Host: hostCount, Dopants: total}
	}
	return sub, nil
}
