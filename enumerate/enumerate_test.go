package enumerate

import (
	"errors"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func collect(n int, counts []int) []Labels {
	var out []Labels
	for l := range Sequence(n, counts) {
		out = append(out, l.Clone())
	}
	return out
}

func TestEstimate(t *testing.T) {
	tests := []struct {
		name   string
		n      int
		counts []int
		want   int64
	}{
		{name: "single dopant", n: 4, counts: []int{1}, want: 4},
		{name: "pair", n: 4, counts: []int{2}, want: 6},
		{name: "two species", n: 5, counts: []int{2, 1}, want: 30}, // C(5,2)·C(3,1)
		{name: "no dopants", n: 7, counts: nil, want: 1},
		{name: "full occupation", n: 3, counts: []int{3}, want: 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Zero(t, Estimate(tt.n, tt.counts).Cmp(big.NewInt(tt.want)))
		})
	}

	t.Run("ExceedsInt64", func(t *testing.T) {
		// C(120,30)·C(90,30) overflows int64 comfortably.
		est := Estimate(120, []int{30, 30})
		assert.Greater(t, est.BitLen(), 64)
	})
}

func TestCheckEstimate(t *testing.T) {
	t.Run("WithinCeiling", func(t *testing.T) {
		est, err := CheckEstimate(4, []int{1}, 4)
		require.NoError(t, err)
		assert.Zero(t, est.Cmp(big.NewInt(4)))
	})

	t.Run("ExceedsCeiling", func(t *testing.T) {
		est, err := CheckEstimate(4, []int{2}, 5)
		require.Error(t, err)
		assert.Zero(t, est.Cmp(big.NewInt(6)))

		var tooMany *ErrTooManyConfigs
		require.True(t, errors.As(err, &tooMany))
		assert.Equal(t, int64(5), tooMany.Limit)
	})
}

func TestSequence(t *testing.T) {
	t.Run("CountMatchesEstimate", func(t *testing.T) {
		for _, tc := range []struct {
			n      int
			counts []int
		}{
			{4, []int{1}},
			{4, []int{2}},
			{5, []int{2, 1}},
			{6, []int{1, 1, 1}},
		} {
			got := collect(tc.n, tc.counts)
			assert.Equal(t, Estimate(tc.n, tc.counts).Int64(), int64(len(got)))
		}
	})

	t.Run("CountsHonoredPerLabeling", func(t *testing.T) {
		for _, l := range collect(5, []int{2, 1}) {
			hist := make(map[uint8]int)
			for _, v := range l {
				hist[v]++
			}
			assert.Equal(t, map[uint8]int{0: 2, 1: 2, 2: 1}, hist)
		}
	})

	t.Run("DeterministicLexicographicOrder", func(t *testing.T) {
		got := collect(4, []int{1})
		want := []Labels{
			{1, 0, 0, 0},
			{0, 1, 0, 0},
			{0, 0, 1, 0},
			{0, 0, 0, 1},
		}
		assert.Equal(t, want, got)
	})

	t.Run("NoDopantsYieldsPristine", func(t *testing.T) {
		got := collect(3, nil)
		require.Len(t, got, 1)
		assert.Equal(t, Labels{0, 0, 0}, got[0])
	})

	t.Run("ZeroCountSkipsLabel", func(t *testing.T) {
		got := collect(3, []int{0, 1})
		require.Len(t, got, 3)
		for _, l := range got {
			assert.NotContains(t, l, uint8(1))
			assert.Contains(t, l, uint8(2))
		}
	})

	t.Run("YieldedSliceIsReused", func(t *testing.T) {
		var first Labels
		for l := range Sequence(3, []int{1}) {
			first = l
			break
		}
		var second Labels
		for l := range Sequence(3, []int{1}) {
			second = l.Clone()
		}
		// Different runs, same backing semantics: retaining without Clone is
		// only safe for the last yielded value.
		assert.Equal(t, Labels{0, 0, 1}, second)
		assert.Len(t, first, 3)
	})

	t.Run("EarlyBreak", func(t *testing.T) {
		seen := 0
		for range Sequence(5, []int{2}) {
			seen++
			if seen == 3 {
				break
			}
		}
		assert.Equal(t, 3, seen)
	})
}
