package engine

// clauseDB manages redundant (learned) clauses in glue-based tiers so
// that reduction can keep high-quality clauses indefinitely while
// aggressively discarding low-quality ones. Irredundant clauses are
// never stored here; they live only in engine.clauses and are never
// removed except by inprocessing (§4.7) or root-level satisfaction.
//
// Tiers: core (glue<=2, kept), mid (glue 3-6, reduced carefully),
// local (glue>6, reduced aggressively). "recent" clauses are protected
// from reduction for a short window after being learned so their
// usefulness can be observed.
type clauseDB struct {
	core, mid, local, recent []*Clause
	bornAt                   map[uint64]int64
	protectionAge            int64
	nextID                   uint64
}

func newClauseDB(protectionAge int64) *clauseDB {
	return &clauseDB{
		bornAt:        make(map[uint64]int64),
		protectionAge: protectionAge,
	}
}

func tierOf(glue int32) int {
	switch {
	case glue <= 2:
		return 0
	case glue <= 6:
		return 1
	default:
		return 2
	}
}

func (db *clauseDB) add(c *Clause, conflicts int64) {
	db.nextID++
	c.id = db.nextID
	db.recent = append(db.recent, c)
	db.bornAt[c.id] = conflicts
}

func (db *clauseDB) promote(conflicts int64) {
	if db.protectionAge <= 0 || len(db.recent) == 0 {
		return
	}
	kept := db.recent[:0]
	for _, c := range db.recent {
		if conflicts-db.bornAt[c.id] >= db.protectionAge {
			delete(db.bornAt, c.id)
			switch tierOf(c.Glue) {
			case 0:
				db.core = append(db.core, c)
			case 1:
				db.mid = append(db.mid, c)
			default:
				db.local = append(db.local, c)
			}
		} else {
			kept = append(kept, c)
		}
	}
	db.recent = kept
}

func (db *clauseDB) all() []*Clause {
	out := make([]*Clause, 0, len(db.core)+len(db.mid)+len(db.local)+len(db.recent))
	out = append(out, db.core...)
	out = append(out, db.mid...)
	out = append(out, db.local...)
	out = append(out, db.recent...)
	return out
}

func (db *clauseDB) size() int {
	return len(db.core) + len(db.mid) + len(db.local) + len(db.recent)
}

// reduceTier keeps the better keepFrac of a tier in clauseLess order,
// returning the rest as garbage. Clauses currently serving as a trail
// reason are not filtered here: the caller keeps any that land on the
// garbage side.
func reduceTier(tier []*Clause, keepFrac float64) (kept, garbage []*Clause) {
	n := len(tier)
	if n == 0 {
		return tier, nil
	}
	// Selection by glue, then used flag, then activity: lower glue
	// first, used clauses first, higher activity first.
	sorted := append([]*Clause(nil), tier...)
	insertionSortClauses(sorted)
	keepN := int(float64(n) * keepFrac)
	if keepN < 1 {
		keepN = 1
	}
	if keepN > n {
		keepN = n
	}
	return sorted[:keepN], sorted[keepN:]
}

func insertionSortClauses(cs []*Clause) {
	for i := 1; i < len(cs); i++ {
		j := i
		for j > 0 && clauseLess(cs[j], cs[j-1]) {
			cs[j], cs[j-1] = cs[j-1], cs[j]
			j--
		}
	}
}

// clauseLess orders "better" clauses first: lower glue, then used
// flag, then higher activity.
func clauseLess(a, b *Clause) bool {
	if a.Glue != b.Glue {
		return a.Glue < b.Glue
	}
	if a.Used != b.Used {
		return a.Used
	}
	return a.Activity > b.Activity
}

func (db *clauseDB) removeFromTier(tier *[]*Clause, c *Clause) {
	t := *tier
	for i, x := range t {
		if x == c {
			t[i] = t[len(t)-1]
			*tier = t[:len(t)-1]
			return
		}
	}
}

func (db *clauseDB) remove(c *Clause) {
	if _, ok := db.bornAt[c.id]; ok {
		db.removeFromTier(&db.recent, c)
		delete(db.bornAt, c.id)
		return
	}
	switch tierOf(c.Glue) {
	case 0:
		db.removeFromTier(&db.core, c)
	case 1:
		db.removeFromTier(&db.mid, c)
	default:
		db.removeFromTier(&db.local, c)
	}
}
