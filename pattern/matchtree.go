package pattern

// Match is a node in the tree of sub-matches produced by a successful
// NextMatch. Children are ordered: for Capture/Tagged the sole child is
// the inner match; for Chain, two children; for Repeat/Upto, children
// alternate between sep matches and repeat-pat/skip matches in source
// order.
type Match struct {
	Pat      *Node
	Start    int
	End      int
	Children []*Match

	freed bool // guards against double-recycling the same node
}

// recycler pools Match nodes so repeated NextMatch/RecycleMatch cycles
// do not churn the allocator, mirroring the teacher's free-list design
// (spec.md 4.3, "new-match pops from the free list or allocates").
type recycler struct {
	free []*Match
}

func (r *recycler) newMatch(pat *Node, start, end int, children []*Match) *Match {
	var m *Match
	if n := len(r.free); n > 0 {
		m = r.free[n-1]
		r.free = r.free[:n-1]
		m.Children = m.Children[:0]
	} else {
		m = &Match{}
	}
	m.Pat = pat
	m.Start = start
	m.End = end
	m.Children = append(m.Children, children...)
	m.freed = false
	return m
}

// RecycleMatch returns m and its entire subtree to the engine's free
// list. Callers should recycle a NextMatch result before requesting the
// next one if they no longer need it. Recycling the same node twice
// would hand out one *Match to two live owners, so it is treated as the
// InvariantError bug class rather than silently corrupting the pool.
func (r *recycler) RecycleMatch(m *Match) {
	if m == nil {
		return
	}
	if m.freed {
		panic(errFreeListCorruption)
	}
	for _, c := range m.Children {
		r.RecycleMatch(c)
	}
	m.Pat = nil
	m.Children = m.Children[:0]
	m.freed = true
	r.free = append(r.free, m)
}

// GetNumberedCapture performs a depth-first preorder traversal,
// decrementing n every time it passes an unnamed Capture, returning the
// node where it reaches zero (or the top node when n == 0).
func GetNumberedCapture(m *Match, n int) *Match {
	if m == nil {
		return nil
	}
	if n == 0 {
		return m
	}
	count := n
	var walk func(m *Match) *Match
	walk = func(m *Match) *Match {
		if m.Pat != nil && m.Pat.Kind == KindCapture && m.Pat.Name == "" {
			count--
			if count == 0 {
				return m
			}
		}
		for _, c := range m.Children {
			if found := walk(c); found != nil {
				return found
			}
		}
		return nil
	}
	return walk(m)
}

// GetNamedCapture finds the first Capture or Tagged node whose name
// exactly matches name, depth-first preorder.
func GetNamedCapture(m *Match, name string) *Match {
	if m == nil {
		return nil
	}
	var walk func(m *Match) *Match
	walk = func(m *Match) *Match {
		if m.Pat != nil {
			switch m.Pat.Kind {
			case KindCapture, KindTagged:
				if m.Pat.Name == name {
					return m
				}
			}
		}
		for _, c := range m.Children {
			if found := walk(c); found != nil {
				return found
			}
		}
		return nil
	}
	return walk(m)
}
