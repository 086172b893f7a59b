// This file defines the frontier queue used by the shortest path search.
// It is built on Go's standard container/heap package.
package engine

// frontierItem is a tentative distance to an intersection. seq records the
// order in which the entry was discovered.
type frontierItem struct {
	node int
	dist float64
	seq  uint64
}

// frontier is a min-heap ordered by distance, then by discovery order, so
// that equal-distance candidates are expanded in the order they were found.
type frontier []frontierItem

// Len returns the size of the heap.
func (f frontier) Len() int { return len(f) }

// Less orders by distance and breaks ties by discovery sequence.
func (f frontier) Less(i, j int) bool {
	if f[i].dist != f[j].dist {
		return f[i].dist < f[j].dist
	}
	return f[i].seq < f[j].seq
}

// Swap swaps the elements at indices i and j.
func (f frontier) Swap(i, j int) { f[i], f[j] = f[j], f[i] }

// Push adds an element to the heap.
func (f *frontier) Push(x any) { *f = append(*f, x.(frontierItem)) }

// Pop removes and returns the closest candidate.
func (f *frontier) Pop() any {
	old := *f
	n := len(old)
	x := old[n-1]
	*f = old[0 : n-1]
	return x
}
