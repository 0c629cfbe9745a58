package dopego

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidTopK is returned when the configured top-k is not positive.
	ErrInvalidTopK = errors.New("topk must be positive")

	// ErrInvalidTolerance is returned when the symmetry tolerance is not positive.
	ErrInvalidTolerance = errors.New("tolerance must be positive")

	// ErrInvalidWorkers is returned when the worker count is not positive.
	ErrInvalidWorkers = errors.New("workers must be positive")

	// ErrInvalidCeiling is returned when a size ceiling is not positive.
	ErrInvalidCeiling = errors.New("size ceilings must be positive")

	// ErrNoSpectators is returned when the spectator species set is empty.
	// Without spectators the whole structure would be enumerated, which is
	// never what a doping scan means.
	ErrNoSpectators = errors.New("spectator species set must be non-empty")

	// ErrMissingHost is returned when no host species is configured.
	ErrMissingHost = errors.New("host species is required")

	// ErrMissingAnalyzer is returned when no symmetry analyzer is configured.
	// There is deliberately no implicit default: falling back to an identity
	// analyzer would silently disable symmetry reduction. Use
	// symmetry.IdentityAnalyzer explicitly if that is what you want.
	ErrMissingAnalyzer = errors.New("symmetry analyzer is required")

	// ErrMissingOracle is returned when no oracle factory is configured.
	ErrMissingOracle = errors.New("oracle factory is required")

	// ErrMissingStructure is returned when no base structure is supplied.
	ErrMissingStructure = errors.New("base structure is required")
)

// ErrHostNotOnSublattice indicates that the configured host species does not
// occur on the enumeration sublattice of the supplied structure.
type ErrHostNotOnSublattice struct {
	Host  string
	Found map[string]int // species counts actually present on the sublattice
}

func (e *ErrHostNotOnSublattice) Error() string {
	return fmt.Sprintf("host %q not found on enumeration sublattice (found: %v)", e.Host, e.Found)
}

// ErrInconsistentCounts indicates that the inferred host and dopant counts
// do not add up to the sublattice size. This is an internal consistency
// failure, not a user configuration problem.
type ErrInconsistentCounts struct {
	Sublattice int
	Host       int
	Dopants    int
}

func (e *ErrInconsistentCounts) Error() string {
	return fmt.Sprintf("counts inconsistent with sublattice size: host %d + dopants %d != %d",
		e.Host, e.Dopants, e.Sublattice)
}

// CandidateError records the scoring failure of one candidate, identified by
// its discovery index. Collected under the ContinueOnError failure policy.
type CandidateError struct {
	Index int
	Err   error
}

func (e CandidateError) Error() string {
	return fmt.Sprintf("candidate %d: %v", e.Index, e.Err)
}

func (e CandidateError) Unwrap() error { return e.Err }

// BatchError is returned under ContinueOnError when every candidate in the
// batch failed to score, leaving nothing to rank.
type BatchError struct {
	Failures []CandidateError
}

func (e *BatchError) Error() string {
	return fmt.Sprintf("scoring failed for all %d candidates (first: %v)", len(e.Failures), e.Failures[0].Err)
}
