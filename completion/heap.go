package completion

import "container/heap"

// scoredItem pairs a candidate Item with its ranking score; higher scores
// rank first.
type scoredItem struct {
	item  Item
	score int
}

// minHeap is a bounded min-heap of the top-K highest-scored candidates seen
// so far: the root is always the weakest of the kept candidates, so a new
// candidate only needs to beat the root to be admitted, keeping admission
// O(log K) regardless of how many candidates are considered overall.
type minHeap []scoredItem

func (h minHeap) Len() int            { return len(h) }
func (h minHeap) Less(i, j int) bool  { return h[i].score < h[j].score }
func (h minHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *minHeap) Push(x any)         { *h = append(*h, x.(scoredItem)) }
func (h *minHeap) Pop() any {
	old := *h
	n := len(old)
	last := old[n-1]
	*h = old[:n-1]
	return last
}

// topK collects up to limit highest-scored items from a stream, without
// ever holding more than limit+1 candidates at once.
type topK struct {
	limit int
	h     minHeap
}

func newTopK(limit int) *topK {
	return &topK{limit: limit}
}

func (t *topK) offer(item Item, score int) {
	if t.limit <= 0 {
		return
	}
	if t.h.Len() < t.limit {
		heap.Push(&t.h, scoredItem{item: item, score: score})
		return
	}
	if score > t.h[0].score {
		heap.Pop(&t.h)
		heap.Push(&t.h, scoredItem{item: item, score: score})
	}
}

// items drains the heap into descending-score order.
func (t *topK) items() []Item {
	sorted := make([]scoredItem, len(t.h))
	copy(sorted, t.h)
	// simple insertion sort descending by score: K is small (a UI-bound
	// completion list), so this beats pulling in a second heap-sort pass.
	for i := 1; i < len(sorted); i++ {
		for j := i; j > 0 && sorted[j].score > sorted[j-1].score; j-- {
			sorted[j], sorted[j-1] = sorted[j-1], sorted[j]
		}
	}
	out := make([]Item, len(sorted))
	for i, s := range sorted {
		out[i] = s.item
	}
	return out
}
