/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package engine

import "math/rand"

// Used is the exclusion set for one content pool.
type Used[T comparable] map[T]struct{}

// Draw picks n items from pool, skipping anything in used. When every
// item in the pool has been used, the set is cleared and drawing carries
// on from the full pool, so n items always come back for a non-empty
// pool. used is not modified; the updated set is returned.
func Draw[T comparable](rng *rand.Rand, pool []T, n int, used Used[T]) ([]T, Used[T]) {
	next := make(Used[T], len(used)+n)
	for k := range used {
		next[k] = struct{}{}
	}

	if len(pool) == 0 || n <= 0 {
		return nil, next
	}

	out := make([]T, 0, n)
	for len(out) < n {
		avail := make([]T, 0, len(pool))
		for _, item := range pool {
			if _, ok := next[item]; !ok {
				avail = append(avail, item)
			}
		}

		if len(avail) == 0 {
			next = make(Used[T], len(pool))
			continue
		}

		pick := avail[rng.Intn(len(avail))]
		next[pick] = struct{}{}
		out = append(out, pick)
	}

	return out, next
}

// DrawOne is Draw with n of one.
func DrawOne[T comparable](rng *rand.Rand, pool []T, used Used[T]) (T, Used[T]) {
	items, next := Draw(rng, pool, 1, used)
	if len(items) == 0 {
		var zero T
		return zero, next
	}

	return items[0], next
}

// Shuffle returns a shuffled copy of items.
func Shuffle[T any](rng *rand.Rand, items []T) []T {
	out := make([]T, len(items))
	copy(out, items)

	for i := len(out) - 1; i > 0; i-- {
		j := rng.Intn(i + 1)
		out[i], out[j] = out[j], out[i]
	}

	return out
}
