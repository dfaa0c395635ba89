package random

import (
	"math/rand"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShufflePreservesMultiset(t *testing.T) {
	in := []int{5, 3, 9, 1, 1, 7, 2}

	out := Shuffle(in)

	require.Len(t, out, len(in))
	sortedIn := append([]int(nil), in...)
	sortedOut := append([]int(nil), out...)
	sort.Ints(sortedIn)
	sort.Ints(sortedOut)
	assert.Equal(t, sortedIn, sortedOut)
}

func TestShuffleDoesNotMutateInput(t *testing.T) {
	in := []string{"a", "b", "c", "d"}
	snapshot := append([]string(nil), in...)

	_ = Shuffle(in)

	assert.Equal(t, snapshot, in)
}

func TestShuffleEventuallyProducesDifferentOrders(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	in := []int{1, 2, 3, 4, 5, 6, 7, 8}

	distinct := map[[8]int]bool{}
	for i := 0; i < 200; i++ {
		out := ShuffleWith(rng, in)
		var key [8]int
		copy(key[:], out)
		distinct[key] = true
	}

	// A uniform shuffle of 8 elements must not keep producing the same
	// handful of permutations across 200 runs.
	assert.Greater(t, len(distinct), 100)
}

func TestShuffleIsRoughlyUniformPerPosition(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	const runs = 6000
	in := []int{0, 1, 2}

	// counts[pos][value]
	var counts [3][3]int
	for i := 0; i < runs; i++ {
		out := ShuffleWith(rng, in)
		for pos, v := range out {
			counts[pos][v]++
		}
	}

	// Each value should land in each position about runs/3 times. Allow a
	// generous 15% band; a biased swap scheme fails this by far more.
	expected := runs / 3
	slack := expected * 15 / 100
	for pos := range counts {
		for v := range counts[pos] {
			assert.InDelta(t, expected, counts[pos][v], float64(slack),
				"value %d at position %d", v, pos)
		}
	}
}

func TestSampleBounds(t *testing.T) {
	in := []int{1, 2, 3, 4, 5}

	tests := []struct {
		name string
		k    int
		want int
	}{
		{name: "k smaller than input", k: 3, want: 3},
		{name: "k equals input", k: 5, want: 5},
		{name: "k exceeds input", k: 10, want: 5},
		{name: "zero k", k: 0, want: 0},
		{name: "negative k", k: -1, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := Sample(in, tt.k)
			require.Len(t, out, tt.want)
			for _, v := range out {
				assert.Contains(t, in, v)
			}
		})
	}
}

func TestSampleDrawsWithoutReplacement(t *testing.T) {
	in := []int{1, 2, 3, 4, 5, 6}

	out := Sample(in, 6)

	seen := map[int]bool{}
	for _, v := range out {
		assert.False(t, seen[v], "value %d drawn twice", v)
		seen[v] = true
	}
}

func TestPickOne(t *testing.T) {
	rng := rand.New(rand.NewSource(1))

	_, ok := PickOne(rng, []string(nil))
	assert.False(t, ok)

	v, ok := PickOne(rng, []string{"only"})
	require.True(t, ok)
	assert.Equal(t, "only", v)
}
