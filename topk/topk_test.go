package topk

import (
	"math/rand"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scores(h *Heap) []float64 {
	drained := h.Drain()
	out := make([]float64, len(drained))
	for i, c := range drained {
		out[i] = c.Score
	}
	return out
}

func TestHeap(t *testing.T) {
	t.Run("BelowCapacityAcceptsAll", func(t *testing.T) {
		h := New(5)
		assert.True(t, h.Offer(Candidate{Index: 1, Score: 3.0}))
		assert.True(t, h.Offer(Candidate{Index: 2, Score: 1.0}))
		assert.Equal(t, 2, h.Len())
		assert.Equal(t, 5, h.K())
	})

	t.Run("KeepsKSmallest", func(t *testing.T) {
		h := New(2)
		for i, s := range []float64{5.0, 1.0, 3.0, 0.5} {
			h.Offer(Candidate{Index: i + 1, Score: s})
		}
		assert.Equal(t, []float64{0.5, 1.0}, scores(h))
	})

	t.Run("OrderIndependent", func(t *testing.T) {
		base := []float64{5.0, 1.0, 3.0, 0.5}
		rng := rand.New(rand.NewSource(42))
		for trial := 0; trial < 50; trial++ {
			perm := rng.Perm(len(base))
			h := New(2)
			for _, i := range perm {
				h.Offer(Candidate{Index: i + 1, Score: base[i]})
			}
			assert.Equal(t, []float64{0.5, 1.0}, scores(h))
		}
	})

	t.Run("RejectsWorseWhenFull", func(t *testing.T) {
		h := New(1)
		require.True(t, h.Offer(Candidate{Index: 1, Score: 1.0}))
		assert.False(t, h.Offer(Candidate{Index: 2, Score: 2.0}))
		assert.True(t, h.Offer(Candidate{Index: 3, Score: 0.5}))
		assert.Equal(t, []float64{0.5}, scores(h))
	})

	t.Run("TieBreakBySmallerIndex", func(t *testing.T) {
		h := New(1)
		require.True(t, h.Offer(Candidate{Index: 7, Score: 1.0}))
		// Same score, smaller index: wins.
		assert.True(t, h.Offer(Candidate{Index: 3, Score: 1.0}))
		// Same score, larger index: loses.
		assert.False(t, h.Offer(Candidate{Index: 9, Score: 1.0}))

		got := h.Drain()
		require.Len(t, got, 1)
		assert.Equal(t, 3, got[0].Index)
	})

	t.Run("DrainAscendingScoreThenIndex", func(t *testing.T) {
		h := New(4)
		h.Offer(Candidate{Index: 2, Score: 1.0})
		h.Offer(Candidate{Index: 1, Score: 1.0})
		h.Offer(Candidate{Index: 3, Score: 0.5})
		h.Offer(Candidate{Index: 4, Score: 2.0})

		got := h.Drain()
		require.Len(t, got, 4)
		assert.Equal(t, 3, got[0].Index)
		assert.Equal(t, 1, got[1].Index)
		assert.Equal(t, 2, got[2].Index)
		assert.Equal(t, 4, got[3].Index)
		assert.Equal(t, 0, h.Len())
	})

	t.Run("Max", func(t *testing.T) {
		h := New(3)
		_, ok := h.Max()
		assert.False(t, ok)

		h.Offer(Candidate{Index: 1, Score: 1.0})
		h.Offer(Candidate{Index: 2, Score: 4.0})
		worst, ok := h.Max()
		require.True(t, ok)
		assert.Equal(t, 4.0, worst.Score)
	})

	t.Run("RandomizedAgainstSort", func(t *testing.T) {
		rng := rand.New(rand.NewSource(7))
		for trial := 0; trial < 20; trial++ {
			n := 50 + rng.Intn(100)
			k := 1 + rng.Intn(20)

			cands := make([]Candidate, n)
			for i := range cands {
				cands[i] = Candidate{Index: i + 1, Score: float64(rng.Intn(30))}
			}

			h := New(k)
			for _, c := range cands {
				h.Offer(c)
			}

			want := append([]Candidate(nil), cands...)
			sort.Slice(want, func(a, b int) bool {
				if want[a].Score != want[b].Score {
					return want[a].Score < want[b].Score
				}
				return want[a].Index < want[b].Index
			})
			if len(want) > k {
				want = want[:k]
			}

			assert.Equal(t, want, h.Drain())
		}
	})
}
