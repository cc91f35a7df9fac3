package engine

// varHeap is a binary max-heap over variable activity, the classic
// VSIDS priority queue: pop the unassigned variable with the highest
// activity, push a variable back in when it becomes unassigned by
// backtracking.
type varHeap struct {
	data []Var
	vars *[]*varData // points at Engine.vars, which is reallocated by append
}

func newVarHeap(vars *[]*varData) *varHeap {
	return &varHeap{data: make([]Var, 0, len(*vars)), vars: vars}
}

func (h *varHeap) varData(v Var) *varData { return (*h.vars)[v] }

func (h *varHeap) activity(v Var) float64 { return h.varData(v).activity }

func (h *varHeap) contains(v Var) bool { return h.varData(v).heapPos >= 0 }

func (h *varHeap) Len() int { return len(h.data) }

func (h *varHeap) less(i, j int) bool {
	return h.activity(h.data[i]) > h.activity(h.data[j])
}

func (h *varHeap) swap(i, j int) {
	h.data[i], h.data[j] = h.data[j], h.data[i]
	h.varData(h.data[i]).heapPos = i
	h.varData(h.data[j]).heapPos = j
}

func (h *varHeap) siftUp(i int) {
	for i > 0 {
		parent := (i - 1) / 2
		if !h.less(i, parent) {
			break
		}
		h.swap(i, parent)
		i = parent
	}
}

func (h *varHeap) siftDown(i int) {
	n := len(h.data)
	for {
		l, r, smallest := 2*i+1, 2*i+2, i
		if l < n && h.less(l, smallest) {
			smallest = l
		}
		if r < n && h.less(r, smallest) {
			smallest = r
		}
		if smallest == i {
			return
		}
		h.swap(i, smallest)
		i = smallest
	}
}

// push inserts v into the heap if it is not already present.
func (h *varHeap) push(v Var) {
	if h.contains(v) {
		return
	}
	h.varData(v).heapPos = len(h.data)
	h.data = append(h.data, v)
	h.siftUp(len(h.data) - 1)
}

// pop removes and returns the highest-activity variable.
func (h *varHeap) pop() Var {
	top := h.data[0]
	last := len(h.data) - 1
	h.swap(0, last)
	h.varData(top).heapPos = -1
	h.data = h.data[:last]
	if last > 0 {
		h.siftDown(0)
	}
	return top
}

// update re-establishes heap order for v after its activity changed.
func (h *varHeap) update(v Var) {
	pos := h.varData(v).heapPos
	if pos < 0 {
		return
	}
	h.siftUp(pos)
	h.siftDown(pos)
}
