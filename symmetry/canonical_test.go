package symmetry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanonicalizer(t *testing.T) {
	s, indices := chain(4)
	perms, err := BuildPermutations(s, indices, translations(4), 1e-3)
	require.NoError(t, err)

	canon := NewCanonicalizer(perms)

	t.Run("InvariantUnderGroup", func(t *testing.T) {
		labels := []uint8{0, 1, 0, 2}
		want := string(canon.Key(labels))

		img := make([]uint8, len(labels))
		for _, p := range perms {
			applyPerm(img, labels, p)
			assert.Equal(t, want, string(canon.Key(img)))
		}
	})

	t.Run("SeparatesDistinctClasses", func(t *testing.T) {
		// Adjacent dopant pair vs opposite dopant pair: not related by any
		// translation of the chain.
		adjacent := string(canon.Key([]uint8{1, 1, 0, 0}))
		opposite := string(canon.Key([]uint8{1, 0, 1, 0}))
		assert.NotEqual(t, adjacent, opposite)
	})

	t.Run("KeyIsMinimalImage", func(t *testing.T) {
		// The all-rotations class of {0,0,0,1} canonicalizes to the image
		// with the dopant on the last position.
		key := canon.Key([]uint8{1, 0, 0, 0})
		assert.Equal(t, []uint8{0, 0, 0, 1}, []uint8(key))
	})

	t.Run("BufferReuse", func(t *testing.T) {
		first := canon.Key([]uint8{1, 0, 0, 0})
		retained := string(first)
		_ = canon.Key([]uint8{0, 2, 0, 0})
		// The copied form survives; the aliased slice does not have to.
		assert.Equal(t, []uint8{0, 0, 0, 1}, []uint8(retained))
	})

	t.Run("IdentityOnlyGroup", func(t *testing.T) {
		idCanon := NewCanonicalizer([]Permutation{{0, 1, 2}})
		labels := []uint8{2, 0, 1}
		assert.Equal(t, labels, []uint8(idCanon.Key(labels)))
	})
}
