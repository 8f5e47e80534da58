package engine

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDrawNoRepeatUntilExhausted(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	pool := []string{"a", "b", "c", "d", "e"}

	var used Used[string]
	seen := map[string]bool{}

	for i := 0; i < len(pool); i++ {
		var item string
		item, used = DrawOne(rng, pool, used)
		assert.False(t, seen[item], "repeated %q before exhaustion", item)
		seen[item] = true
	}

	assert.Len(t, used, len(pool))
}

func TestDrawResetsAfterExhaustion(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	pool := []int{1, 2, 3}

	var used Used[int]
	for call := 0; call < 10; call++ {
		var items []int
		items, used = Draw(rng, pool, 2, used)
		require.Len(t, items, 2)
		for _, it := range items {
			assert.Contains(t, pool, it)
		}
	}
}

func TestDrawMoreThanPool(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	pool := []string{"x", "y"}

	items, used := Draw(rng, pool, 7, nil)
	assert.Len(t, items, 7)
	assert.NotEmpty(t, used)
}

func TestDrawDoesNotMutateInput(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	used := Used[string]{"a": {}}

	_, next := Draw(rng, []string{"a", "b", "c"}, 1, used)
	assert.Len(t, used, 1)
	assert.Len(t, next, 2)
}

func TestDrawDegenerate(t *testing.T) {
	rng := rand.New(rand.NewSource(1))

	items, _ := Draw[string](rng, nil, 3, nil)
	assert.Nil(t, items)

	items, _ = Draw(rng, []string{"a"}, 0, nil)
	assert.Nil(t, items)

	item, _ := DrawOne[string](rng, nil, nil)
	assert.Empty(t, item)
}

func TestShuffleKeepsItems(t *testing.T) {
	rng := rand.New(rand.NewSource(9))
	in := []int{1, 2, 3, 4, 5}

	out := Shuffle(rng, in)
	assert.ElementsMatch(t, in, out)
	assert.Equal(t, []int{1, 2, 3, 4, 5}, in)
}
