package gamestate

// RunState is the (outs, bases) situation a run expectancy value is keyed by.
type RunState struct {
	Outs  int
	Bases Bases
}

// RunExpectancy maps base/out situations to expected runs for the rest of the
// half-inning. Tables are supplied by callers; an empty table disables lookups.
type RunExpectancy map[RunState]float64

// Lookup returns the expectancy for the count's situation. Three outs always
// yields zero since the half-inning is over.
func (r RunExpectancy) Lookup(c Count) (float64, bool) {
	if len(r) == 0 {
		return 0, false
	}
	if c.Outs >= MaxOuts {
		return 0, true
	}
	value, ok := r[RunState{Outs: c.Outs, Bases: c.Bases}]
	return value, ok
}
