// Package symmetry derives the group of sublattice-index permutations
// induced by a structure's symmetry operations, and reduces label vectors
// to symmetry-invariant canonical keys.
//
// The symmetry operations themselves come from an external space-group
// analysis collaborator behind the Analyzer interface; this package only
// turns them into permutations of the enumeration sublattice.
package symmetry

import (
	"fmt"

	"github.com/hupe1980/dopego/crystal"
)

// Operation is one crystallographic symmetry operation in fractional
// coordinates: x' = Rotation·x + Translation.
type Operation struct {
	Rotation    [3][3]float64
	Translation crystal.Vec3
}

// Apply returns Rotation·v + Translation.
func (op Operation) Apply(v crystal.Vec3) crystal.Vec3 {
	var out crystal.Vec3
	for i := 0; i < 3; i++ {
		out[i] = op.Rotation[i][0]*v[0] + op.Rotation[i][1]*v[1] + op.Rotation[i][2]*v[2] + op.Translation[i]
	}
	return out
}

// Identity returns the identity operation.
func Identity() Operation {
	return Operation{Rotation: [3][3]float64{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}}}
}

// Analyzer is the external space-group analysis collaborator. For a given
// structure and tolerance it returns the symmetry operations in fractional
// coordinates; the returned set must include the identity.
//
// Implementations typically wrap a spglib binding or an equivalent service.
type Analyzer interface {
	Operations(s *crystal.Structure, tolerance float64) ([]Operation, error)
}

// AnalyzerFunc adapts a function to the Analyzer interface.
type AnalyzerFunc func(s *crystal.Structure, tolerance float64) ([]Operation, error)

// Operations implements Analyzer.
func (f AnalyzerFunc) Operations(s *crystal.Structure, tolerance float64) ([]Operation, error) {
	return f(s, tolerance)
}

// IdentityAnalyzer reports only the identity operation, disabling symmetry
// reduction entirely. Useful for tests and for structures whose space group
// is known to be trivial.
type IdentityAnalyzer struct{}

// Operations implements Analyzer.
func (IdentityAnalyzer) Operations(_ *crystal.Structure, _ float64) ([]Operation, error) {
	return []Operation{Identity()}, nil
}

// ErrSiteMatch reports that a symmetry-transformed sublattice coordinate had
// no sublattice site within the matching tolerance. This signals an
// inconsistent tolerance/structure pair, not a transient condition.
type ErrSiteMatch struct {
	Operation int     // index of the offending operation
	Site      int     // sublattice-local index of the unmatched site
	MinDistSq float64 // best periodic squared distance found
	Tolerance float64 // the analysis tolerance in effect
}

func (e *ErrSiteMatch) Error() string {
	return fmt.Sprintf(
		"symmetry: operation %d maps sublattice site %d to no site within tolerance (min dist²=%g, limit=%g)",
		e.Operation, e.Site, e.MinDistSq, e.matchLimit())
}

func (e *ErrSiteMatch) matchLimit() float64 {
	l := e.Tolerance * 10
	return l * l
}
