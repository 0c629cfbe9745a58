// Package topk implements exact streaming top-K-by-minimum selection: a
// bounded max-at-root heap that, after one pass over a stream of scored
// candidates, holds the K smallest scores regardless of arrival order.
package topk

// Candidate is one scored item in the heap: a payload identified by its
// deterministic 1-based discovery index plus its score.
type Candidate struct {
	Index  int
	Score  float64
	Labels []uint8
}

// Heap is a bounded max-at-root heap of at most K candidates. While below
// capacity every insert is accepted; at capacity an incoming candidate
// replaces the current maximum only if it is strictly better.
//
// Equal scores are ordered by discovery index: the smaller index wins, so
// the retained set is a pure function of the submitted candidates and never
// depends on completion order.
//
// Heap is not safe for concurrent use; it is owned by the single
// coordinating goroutine that drains worker results.
type Heap struct {
	k     int
	items []Candidate
}

// New creates a Heap retaining at most k candidates. k must be positive.
func New(k int) *Heap {
	return &Heap{
		k:     k,
		items: make([]Candidate, 0, k),
	}
}

// Len returns the number of retained candidates.
func (h *Heap) Len() int {
	return len(h.items)
}

// K returns the heap capacity.
func (h *Heap) K() int {
	return h.k
}

// Max returns the worst retained candidate (largest score, ties broken by
// larger index) and whether the heap is non-empty.
func (h *Heap) Max() (Candidate, bool) {
	if len(h.items) == 0 {
		return Candidate{}, false
	}
	return h.items[0], true
}

// Offer inserts c if it belongs in the current top K. It returns true if c
// was retained (possibly evicting the previous maximum).
func (h *Heap) Offer(c Candidate) bool {
	if len(h.items) < h.k {
		h.items = append(h.items, c)
		h.siftUp(len(h.items) - 1)
		return true
	}

	// Full: replace the root only if c is strictly better.
	if !worse(h.items[0], c) {
		return false
	}
	h.items[0] = c
	h.siftDown(0)
	return true
}

// Drain removes and returns all retained candidates in ascending
// (score, index) order. The heap is empty afterwards.
func (h *Heap) Drain() []Candidate {
	out := make([]Candidate, len(h.items))
	for i := len(h.items) - 1; i >= 0; i-- {
		out[i] = h.popMax()
	}
	return out
}

func (h *Heap) popMax() Candidate {
	n := len(h.items)
	top := h.items[0]
	h.items[0] = h.items[n-1]
	h.items = h.items[:n-1]
	if len(h.items) > 0 {
		h.siftDown(0)
	}
	return top
}

// worse reports whether a should sort above b in the max-at-root heap,
// i.e. a is a worse candidate than b.
func worse(a, b Candidate) bool {
	if a.Score != b.Score {
		return a.Score > b.Score
	}
	return a.Index > b.Index
}

func (h *Heap) siftUp(i int) {
	for i > 0 {
		parent := (i - 1) / 2
		if !worse(h.items[i], h.items[parent]) {
			break
		}
		h.items[i], h.items[parent] = h.items[parent], h.items[i]
		i = parent
	}
}

func (h *Heap) siftDown(i int) {
	n := len(h.items)
	for {
		left := 2*i + 1
		if left >= n {
			break
		}
		child := left
		if right := left + 1; right < n && worse(h.items[right], h.items[left]) {
			child = right
		}
		if !worse(h.items[child], h.items[i]) {
			break
		}
		h.items[i], h.items[child] = h.items[child], h.items[i]
		i = child
	}
}
