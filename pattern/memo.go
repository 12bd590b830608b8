package pattern

// memoEntry is one packrat cache slot: at (pos, pat.Id) the match either
// succeeded with result m (ok == true) or failed (ok == false). used
// distinguishes an empty slot from a cached failure. The slot carries
// the built Match subtree, not just its end offset, so that a cache hit
// reproduces the identical match stream a non-memoized re-evaluation
// would have produced (see DESIGN.md, memo-correctness decision).
type memoEntry struct {
	used bool
	pos  int
	id   int
	m    *Match
	ok   bool
}

// memoTable is a per-scope open-addressed table keyed by
// hash(pos, pat.id) = pos*1 + pat.id*2, as specified in spec.md 4.2
// "Packrat cache". It grows once occupancy exceeds one fifth of
// capacity and is rehashed on grow; it is cleared entirely between
// successive search starts inside NextMatch so stale hits from an
// earlier starting position cannot satisfy a later query.
type memoTable struct {
	slots []memoEntry
	count int
}

const memoInitialSize = 64

func newMemoTable() *memoTable {
	return &memoTable{slots: make([]memoEntry, memoInitialSize)}
}

func memoHash(pos, id int) int {
	return pos*1 + id*2
}

func (t *memoTable) mask() int { return len(t.slots) - 1 }

func (t *memoTable) index(pos, id int) int {
	h := memoHash(pos, id)
	if h < 0 {
		h = -h
	}
	return h & t.mask()
}

func (t *memoTable) get(pos, id int) (m *Match, ok, found bool) {
	if t == nil || len(t.slots) == 0 {
		return nil, false, false
	}
	i := t.index(pos, id)
	for {
		s := &t.slots[i]
		if !s.used {
			return nil, false, false
		}
		if s.pos == pos && s.id == id {
			return s.m, s.ok, true
		}
		i = (i + 1) & t.mask()
	}
}

func (t *memoTable) put(pos, id int, m *Match, ok bool) {
	if t == nil {
		return
	}
	if (t.count+1)*5 > len(t.slots) {
		t.grow()
	}
	i := t.index(pos, id)
	for t.slots[i].used {
		if t.slots[i].pos == pos && t.slots[i].id == id {
			t.slots[i].m = m
			t.slots[i].ok = ok
			return
		}
		i = (i + 1) & t.mask()
	}
	t.slots[i] = memoEntry{used: true, pos: pos, id: id, m: m, ok: ok}
	t.count++
}

func (t *memoTable) grow() {
	old := t.slots
	t.slots = make([]memoEntry, len(old)*2)
	t.count = 0
	for _, s := range old {
		if s.used {
			t.put(s.pos, s.id, s.m, s.ok)
		}
	}
}

// clear empties the table in place, keeping its backing array, for reuse
// between successive NextMatch search starts.
func (t *memoTable) clear() {
	if t == nil {
		return
	}
	for i := range t.slots {
		t.slots[i] = memoEntry{}
	}
	t.count = 0
}
