package dopego

import (
	"math/big"
	"strconv"
	"strings"
	"time"

	"github.com/hupe1980/dopego/crystal"
	"github.com/hupe1980/dopego/enumerate"
)

// Candidate is one ranked scan result.
type Candidate struct {
	// Rank is the 1-based position after sorting by ascending score.
	Rank int

	// Score is the oracle score (lower is better).
	Score float64

	// DiscoveryIndex is the candidate's 1-based position in the
	// symmetry-unique enumeration order. It is deterministic and also
	// serves as the tie-break between equal scores.
	DiscoveryIndex int

	// Labels is the label vector over the sublattice positions.
	Labels enumerate.Labels

	// Signature is a deterministic human-readable tag naming which
	// sublattice positions carry which non-host species, e.g. "Sb3_Ba17",
	// or "pristine" for the all-host labeling.
	Signature string

	// Structure is the fully decorated structure.
	Structure *crystal.Structure
}

// Stats summarizes one scan.
type Stats struct {
	SublatticeSize int
	HostCount      int
	DopantCounts   map[string]int
	Permutations   int
	RawEstimate    *big.Int
	RawChecked     int
	Unique         int
	Elapsed        time.Duration
}

// Result is the outcome of a scan: the ranked candidates, the label-to-
// species mapping used, per-candidate failures collected under
// ContinueOnError, and scan statistics.
type Result struct {
	Candidates []Candidate

	// LabelSpecies maps label values to species: index 0 is the host,
	// 1..k the non-host species in label order.
	LabelSpecies []string

	Failures []CandidateError

	Stats Stats
}

// decorate materializes the structure for a label vector by replacing the
// species on each sublattice position of a fresh copy of base.
func decorate(base *crystal.Structure, indices []int, labels []uint8, labelSpecies []string) *crystal.Structure {
	s := base.Copy()
	for pos, siteIndex := range indices {
		s.ReplaceSpecies(siteIndex, labelSpecies[labels[pos]])
	}
	return s
}

// signatureOf derives the position-based signature of a label vector.
func signatureOf(labels []uint8, labelSpecies []string) string {
	var sb strings.Builder
	for pos, lab := range labels {
		if lab == 0 {
			continue
		}
		if sb.Len() > 0 {
			sb.WriteByte('_')
		}
		sb.WriteString(labelSpecies[lab])
		sb.WriteString(strconv.Itoa(pos))
	}
	if sb.Len() == 0 {
		return "pristine"
	}
	return sb.String()
}
