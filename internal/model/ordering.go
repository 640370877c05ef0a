package model

import "sort"

// Identified is anything carrying a store-assigned integer id.
type Identified interface {
	ItemID() int
}

// Orderable is an item with an order value inside some scope.
// WithOrder returns a copy with the order replaced.
type Orderable[T any] interface {
	Identified
	ItemOrder() int
	WithOrder(order int) T
}

// NextID returns 1 + the largest id in items, or 1 if items is empty.
// Ids are never reused as long as the full collection is passed in.
func NextID[T Identified](items []T) int {
	max := 0
	for _, item := range items {
		if id := item.ItemID(); id > max {
			max = id
		}
	}
	return max + 1
}

// NextOrder returns 1 + the largest order in items, or 0 if items is empty.
func NextOrder[T Orderable[T]](items []T) int {
	if len(items) == 0 {
		return 0
	}
	max := items[0].ItemOrder()
	for _, item := range items[1:] {
		if o := item.ItemOrder(); o > max {
			max = o
		}
	}
	return max + 1
}

// ReindexToSequence returns a copy of items where each item whose id
// appears in orderedIDs gets its index in orderedIDs as order. Items whose
// id is absent keep their order, so a call can be scoped to one group by
// passing only that group's ids.
func ReindexToSequence[T Orderable[T]](items []T, orderedIDs []int) []T {
	index := make(map[int]int, len(orderedIDs))
	for i, id := range orderedIDs {
		if _, dup := index[id]; !dup {
			index[id] = i
		}
	}

	out := make([]T, len(items))
	for i, item := range items {
		if pos, ok := index[item.ItemID()]; ok {
			out[i] = item.WithOrder(pos)
		} else {
			out[i] = item
		}
	}
	return out
}

// Compact renumbers the items selected by inScope to 0..n-1, keeping their
// relative order. Ties on order are broken by id. Items outside the scope
// are returned unchanged and in place.
func Compact[T Orderable[T]](items []T, inScope func(T) bool) []T {
	ids := SortedIDs(items, inScope)
	return ReindexToSequence(items, ids)
}

// SortedIDs returns the ids of the items selected by inScope sorted by
// (order, id).
func SortedIDs[T Orderable[T]](items []T, inScope func(T) bool) []int {
	var scoped []T
	for _, item := range items {
		if inScope == nil || inScope(item) {
			scoped = append(scoped, item)
		}
	}
	sort.SliceStable(scoped, func(i, j int) bool {
		oi, oj := scoped[i].ItemOrder(), scoped[j].ItemOrder()
		if oi != oj {
			return oi < oj
		}
		return scoped[i].ItemID() < scoped[j].ItemID()
	})
	ids := make([]int, len(scoped))
	for i, item := range scoped {
		ids[i] = item.ItemID()
	}
	return ids
}

// IsDense reports whether the scoped items carry exactly the orders 0..n-1.
func IsDense[T Orderable[T]](items []T, inScope func(T) bool) bool {
	seen := make(map[int]bool)
	n := 0
	for _, item := range items {
		if inScope != nil && !inScope(item) {
			continue
		}
		n++
		seen[item.ItemOrder()] = true
	}
	if len(seen) != n {
		return false
	}
	for i := 0; i < n; i++ {
		if !seen[i] {
			return false
		}
	}
	return true
}
