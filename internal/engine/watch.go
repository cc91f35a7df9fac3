package engine

// watcher is one entry in a literal's watch list: the watched clause,
// plus a blocking literal used as a cheap satisfied-shortcut so BCP
// can often skip the clause entirely without touching its body.
type watcher struct {
	clause  *Clause
	blocker Lit
}

// watchIndex holds, per literal (dense-indexed via Lit.index), the
// clauses currently watching it.
type watchIndex struct {
	lists [][]watcher
}

func newWatchIndex() *watchIndex {
	return &watchIndex{lists: make([][]watcher, 4)}
}

func (w *watchIndex) ensure(idx int) {
	for idx >= len(w.lists) {
		w.lists = append(w.lists, nil)
	}
}

func (w *watchIndex) add(l Lit, wd watcher) {
	idx := l.index()
	w.ensure(idx)
	w.lists[idx] = append(w.lists[idx], wd)
}

func (w *watchIndex) get(l Lit) []watcher {
	idx := l.index()
	if idx >= len(w.lists) {
		return nil
	}
	return w.lists[idx]
}

func (w *watchIndex) set(l Lit, ws []watcher) {
	idx := l.index()
	w.ensure(idx)
	w.lists[idx] = ws
}

// remove deletes the watch on clause c from literal l's list, if present.
func (w *watchIndex) remove(l Lit, c *Clause) {
	idx := l.index()
	if idx >= len(w.lists) {
		return
	}
	ws := w.lists[idx]
	for i, wd := range ws {
		if wd.clause == c {
			ws[i] = ws[len(ws)-1]
			w.lists[idx] = ws[:len(ws)-1]
			return
		}
	}
}

// watchClause installs the two-watch invariant for a clause of size >= 2
// at its first two literals.
func (w *watchIndex) watchClause(c *Clause) {
	w.add(c.Lits[0].Neg(), watcher{clause: c, blocker: c.Lits[1]})
	w.add(c.Lits[1].Neg(), watcher{clause: c, blocker: c.Lits[0]})
}

func (w *watchIndex) unwatchClause(c *Clause) {
	if len(c.Lits) < 2 {
		return
	}
	w.remove(c.Lits[0].Neg(), c)
	w.remove(c.Lits[1].Neg(), c)
}
