package loopinfo

// State is the small bitmask of loop-structure caveats the jump-threading
// engine can set but never clears itself: LoopsNeedFixup says
// "some loop's header/latch bookkeeping is no longer trustworthy, a real
// loop-structure recompute must run before anything else trusts it";
// LoopsMayHaveMultipleLatches says "at least one loop now has more than one
// latch, callers that assumed a single latch must re-check".
type State uint8

const (
	LoopsNeedFixup State = 1 << iota
	LoopsMayHaveMultipleLatches
)

// LoopsStateSet ORs flag into t's state.
func (t *Tree) LoopsStateSet(flag State) {
	t.state |= flag
}

// LoopsStateCheck reports whether flag is currently set.
func (t *Tree) LoopsStateCheck(flag State) bool {
	return t.state&flag != 0
}
