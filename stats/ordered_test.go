package stats

import (
	"math/rand"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrderedSetBasics(t *testing.T) {
	var s orderedSet
	for _, f := range []float64{5, 1, 3, 3, 9} {
		s.insert(f)
	}
	require.Equal(t, 5, s.len())
	assert.Equal(t, 1.0, s.min())
	assert.Equal(t, 9.0, s.max())
	assert.Equal(t, 3.0, s.kth(1))
	assert.Equal(t, 3.0, s.kth(2))
	assert.Equal(t, 5.0, s.kth(3))

	// Removing a duplicate erases exactly one occurrence.
	assert.True(t, s.remove(3))
	assert.Equal(t, 4, s.len())
	assert.Equal(t, 3.0, s.kth(1))
	assert.Equal(t, 5.0, s.kth(2))

	assert.False(t, s.remove(42))
	assert.Equal(t, 4, s.len())
}

func TestOrderedSetMatchesSortedSlice(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	var s orderedSet
	var ref []float64

	for i := 0; i < 2000; i++ {
		if len(ref) > 0 && rng.Float64() < 0.4 {
			f := ref[rng.Intn(len(ref))]
			require.True(t, s.remove(f))
			for j, g := range ref {
				if g == f {
					ref = append(ref[:j], ref[j+1:]...)
					break
				}
			}
		} else {
			f := float64(rng.Intn(50)) // small range forces duplicates
			s.insert(f)
			ref = append(ref, f)
		}

		require.Equal(t, len(ref), s.len())
		if len(ref) == 0 {
			continue
		}
		sort.Float64s(ref)
		assert.Equal(t, ref[0], s.min())
		assert.Equal(t, ref[len(ref)-1], s.max())
		k := rng.Intn(len(ref))
		assert.Equal(t, ref[k], s.kth(k))
	}
}
