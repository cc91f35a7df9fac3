package engine

// lubyRestarts implements the Luby-sequence restart schedule combined
// with an LBD-EMA trigger (spec §4.5): restart when the recent-average
// learned-clause glue is substantially above the long-term average, or
// when the Luby countdown expires. Both triggers are always active.
type lubyRestarts struct {
	unit        int64
	factor      float64
	idx         int64
	countdown   int64
	emaFast     float64 // fast-moving average of recent LBD
	emaSlow     float64 // slow-moving average of LBD
	fastAlpha   float64
	slowAlpha   float64
	conflictsAt int64
}

func newLubyRestarts(unit int64, factor float64) *lubyRestarts {
	r := &lubyRestarts{
		unit: unit, factor: factor,
		fastAlpha: 1.0 / 32, slowAlpha: 1.0 / 8192,
	}
	r.countdown = r.unit * luby(r.factor, 0)
	return r
}

// luby returns the Luby sequence value for index i scaled by factor,
// as an integer conflict-count unit.
func luby(factor float64, i int64) int64 {
	var k int64 = 1
	for k < i+1 {
		k = 2*k + 1
	}
	for k-1 != i {
		k = (k - 1) / 2
		i %= k
	}
	return int64(factor * float64((k+1)/2))
}

func (r *lubyRestarts) onConflict(glue int32) bool {
	g := float64(glue)
	if r.emaSlow == 0 {
		r.emaFast, r.emaSlow = g, g
	} else {
		r.emaFast += r.fastAlpha * (g - r.emaFast)
		r.emaSlow += r.slowAlpha * (g - r.emaSlow)
	}
	r.countdown--
	lubyDue := r.countdown <= 0
	lbdDue := r.emaSlow > 0 && r.emaFast > 1.25*r.emaSlow
	return lubyDue || lbdDue
}

func (r *lubyRestarts) reset() {
	r.idx++
	r.countdown = r.unit * luby(r.factor, r.idx)
}
