package symmetry

// Canonicalizer maps label vectors to symmetry-invariant canonical keys:
// the lexicographically smallest byte image of the vector over all
// permutations. Two label vectors with equal keys are symmetry-equivalent.
//
// A Canonicalizer reuses internal scratch buffers and is not safe for
// concurrent use.
type Canonicalizer struct {
	perms []Permutation
	img   []uint8
	best  []uint8
}

// NewCanonicalizer creates a Canonicalizer over the given permutation set.
// The set must be non-empty and include the identity permutation, otherwise
// keys are not well-defined (a vector might not map to itself).
func NewCanonicalizer(perms []Permutation) *Canonicalizer {
	n := 0
	if len(perms) > 0 {
		n = len(perms[0])
	}
	return &Canonicalizer{
		perms: perms,
		img:   make([]uint8, n),
		best:  make([]uint8, n),
	}
}

// Key returns the canonical key of labels. The returned slice aliases an
// internal buffer and is valid only until the next call; callers that need
// to retain it must copy (a string conversion does).
func (c *Canonicalizer) Key(labels []uint8) []uint8 {
	if len(c.perms) == 0 {
		c.best = append(c.best[:0], labels...)
		return c.best
	}

	applyPerm(c.best, labels, c.perms[0])
	for _, p := range c.perms[1:] {
		applyPerm(c.img, labels, p)
		if lessBytes(c.img, c.best) {
			c.img, c.best = c.best, c.img
		}
	}
	return c.best
}

func applyPerm(dst, labels []uint8, p Permutation) {
	for i, j := range p {
		dst[i] = labels[j]
	}
}

func lessBytes(a, b []uint8) bool {
	for i := range a {
		if a[i] != b[i] {
			return a[i] < b[i]
		}
	}
	return false
}
