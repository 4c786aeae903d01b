package crossmatch

// neighbor is one nearest-neighbor candidate: squared chordal distance plus
// the right-side row position used as the deterministic tie-break.
type neighbor struct {
	dist2 float64
	row   int
}

// worse reports whether a is a strictly worse candidate than b: farther, or
// equidistant with a higher row position.
func (a neighbor) worse(b neighbor) bool {
	if a.dist2 != b.dist2 {
		return a.dist2 > b.dist2
	}
	return a.row > b.row
}

// candidateHeap is a bounded max-heap keeping the k best candidates seen so
// far, worst on top. Value-based storage, no allocations past capacity.
type candidateHeap struct {
	items []neighbor
}

func (h *candidateHeap) Len() int { return len(h.items) }

// Top returns the worst retained candidate.
func (h *candidateHeap) Top() (neighbor, bool) {
	if len(h.items) == 0 {
		return neighbor{}, false
	}
	return h.items[0], true
}

// Push offers a candidate, keeping at most limit items.
func (h *candidateHeap) Push(item neighbor, limit int) {
	if len(h.items) < limit {
		h.items = append(h.items, item)
		h.siftUp(len(h.items) - 1)
		return
	}
	if limit > 0 && h.items[0].worse(item) {
		h.items[0] = item
		h.siftDown(0)
	}
}

// Pop removes and returns the worst retained candidate.
func (h *candidateHeap) Pop() (neighbor, bool) {
	n := len(h.items)
	if n == 0 {
		return neighbor{}, false
	}
	root := h.items[0]
	h.items[0] = h.items[n-1]
	h.items = h.items[:n-1]
	if n-1 > 0 {
		h.siftDown(0)
	}
	return root, true
}

func (h *candidateHeap) less(i, j int) bool {
	return h.items[i].worse(h.items[j])
}

func (h *candidateHeap) siftUp(i int) {
	for i > 0 {
		p := (i - 1) / 2
		if !h.less(i, p) {
			return
		}
		h.items[i], h.items[p] = h.items[p], h.items[i]
		i = p
	}
}

func (h *candidateHeap) siftDown(i int) {
	n := len(h.items)
	for {
		l := 2*i + 1
		if l >= n {
			return
		}
		best := l
		if r := l + 1; r < n && h.less(r, l) {
			best = r
		}
		if !h.less(best, i) {
			return
		}
		h.items[i], h.items[best] = h.items[best], h.items[i]
		i = best
	}
}
