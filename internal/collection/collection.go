// Package collection maintains slices sorted by a key. Every operation
// returns a fresh slice and leaves its input untouched, so callers may
// detect changes by comparing values structurally rather than watching for
// in-place mutation.
package collection

import "cmp"

// Search finds the smallest index k in [0, n) where pred(k) is true,
// assuming pred is monotonic: once true it stays true for all larger
// indexes. Returns n when pred never holds. Runs in O(log n) calls.
func Search(n int, pred func(int) bool) int {
	if n <= 0 || pred(0) {
		return 0
	}

	l := 0 // pred(l) is false
	r := n // pred(r) is true, treating pred(n) as true
	for r-l > 1 {
		mid := (l + r) / 2
		if pred(mid) {
			r = mid
		} else {
			l = mid
		}
	}

	return r
}

// Insert places value into items, which must already be ascending by key,
// and returns the new slice. Equal keys are not deduplicated; the new value
// lands after all existing equals, keeping the insert stable.
func Insert[T any, K cmp.Ordered](items []T, key func(T) K, value T) []T {
	k := key(value)
	index := Search(len(items), func(i int) bool {
		return key(items[i]) > k
	})

	out := make([]T, 0, len(items)+1)
	out = append(out, items[:index]...)
	out = append(out, value)
	out = append(out, items[index:]...)
	return out
}

// Remove returns a new slice without the element at index.
func Remove[T any](items []T, index int) []T {
	out := make([]T, 0, len(items)-1)
	out = append(out, items[:index]...)
	out = append(out, items[index+1:]...)
	return out
}

// Replace swaps the element at index for value, re-inserting to keep the
// slice ordered even when the replacement changed the sort key.
func Replace[T any, K cmp.Ordered](items []T, key func(T) K, index int, value T) []T {
	return Insert(Remove(items, index), key, value)
}
