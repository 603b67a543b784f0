package loopinfo

import "github.com/codepathfinder/jumpthread/internal/cfg"

// Loop is one natural loop: a header block, its (possibly several, once
// LoopsMayHaveMultipleLatches is set) latch blocks, and the exit edges that
// leave it.
type Loop struct {
	Header  cfg.BlockID
	Latches []cfg.BlockID
	Outer   *Loop
	Inner   []*Loop
	Exits   []*cfg.Edge

	// copyOf records the loop this one was marked a "copy" of by
	// SetLoopCopy and is read back by CopyOf. The entries-case header
	// threader sets and clears it around duplicating the header; no engine
	// code reads it.
	copyOf *Loop
}

// Tree is the set of all loops found in one function, plus enough indexing
// to answer "which loop, if any, is this block the header or latch of" and
// "which loop immediately contains this block".
type Tree struct {
	Loops   []*Loop
	father  map[cfg.BlockID]*Loop // innermost loop containing each block
	headers map[cfg.BlockID]*Loop
	latches map[cfg.BlockID]*Loop

	state State
}

// NewTree creates an empty loop tree. Callers build it up with AddLoop
// before running the jump-threading engine.
func NewTree() *Tree {
	return &Tree{
		father:  make(map[cfg.BlockID]*Loop),
		headers: make(map[cfg.BlockID]*Loop),
		latches: make(map[cfg.BlockID]*Loop),
	}
}

// AddLoop registers l (and every block in members, which must include at
// least the header and latches) as belonging to loop l for LoopFather
// purposes. Nested loops should be added innermost-first so that a block
// shared by nested loops ends up mapped to its innermost containing loop.
func (t *Tree) AddLoop(l *Loop, members []cfg.BlockID) {
	t.Loops = append(t.Loops, l)
	t.headers[l.Header] = l
	for _, latch := range l.Latches {
		t.latches[latch] = l
	}
	for _, b := range members {
		if _, already := t.father[b]; !already {
			t.father[b] = l
		}
	}
}

// LoopFather returns the innermost loop containing b, or nil if b is not in
// any loop.
func (t *Tree) LoopFather(b cfg.BlockID) *Loop {
	return t.father[b]
}

// Members returns every block whose innermost containing loop is l, in no
// particular order. Intended for serializing a Tree back out (internal/
// fixture's Dump), not for anything performance-sensitive.
func (t *Tree) Members(l *Loop) []cfg.BlockID {
	var members []cfg.BlockID
	for b, father := range t.father {
		if father == l {
			members = append(members, b)
		}
	}
	return members
}

// LoopOuter returns l's immediately enclosing loop, or nil if l is
// outermost.
func LoopOuter(l *Loop) *Loop {
	if l == nil {
		return nil
	}
	return l.Outer
}

// HeaderOf returns the loop b is the header of, or nil.
func (t *Tree) HeaderOf(b cfg.BlockID) *Loop {
	return t.headers[b]
}

// LatchOf returns the loop b is a latch of, or nil.
func (t *Tree) LatchOf(b cfg.BlockID) *Loop {
	return t.latches[b]
}

// LoopExitEdgeP reports whether e leaves the loop that contains its source
// block: its destination is not in the same loop (or in any loop nested
// inside it).
func (t *Tree) LoopExitEdgeP(e *cfg.Edge) bool {
	srcLoop := t.LoopFather(e.Src)
	if srcLoop == nil {
		return false
	}
	dstLoop := t.LoopFather(e.Dst)
	for l := dstLoop; l != nil; l = l.Outer {
		if l == srcLoop {
			return false
		}
	}
	return true
}

// EmptyBlockP reports whether b is a "pure redirection block": nothing but
// labels/debug markers and a single control statement, so threading through
// it duplicates nothing of substance.
func EmptyBlockP(b *cfg.BasicBlock) bool {
	return len(b.Stmts) == 0 && len(b.Phis) == 0
}

// SetLoopCopy records that newCopy is (for the duration of one header-thread
// operation) considered not to add a new entry to outer. The entries-case
// header threader calls this so duplicating a header does not register as
// growing outer's entry count.
func SetLoopCopy(newCopy, outer *Loop) {
	if newCopy == nil {
		return
	}
	newCopy.copyOf = outer
}

// CopyOf returns whatever loop l was last marked a copy of via SetLoopCopy,
// or nil.
func CopyOf(l *Loop) *Loop {
	if l == nil {
		return nil
	}
	return l.copyOf
}

// InnermostFirst returns every loop in the tree ordered innermost-first,
// the order the driver processes loops in.
func (t *Tree) InnermostFirst() []*Loop {
	depth := func(l *Loop) int {
		d := 0
		for p := l.Outer; p != nil; p = p.Outer {
			d++
		}
		return d
	}
	out := append([]*Loop{}, t.Loops...)
	// Stable insertion sort on depth (descending): small N, clarity over
	// asymptotic cleverness.
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && depth(out[j]) > depth(out[j-1]); j-- {
			out[j], out[j-1] = out[j-1], out[j]
		}
	}
	return out
}

// Invalidate removes l's header/latch status entirely: used when a
// latch-to-exit thread destroys the loop.
func (t *Tree) Invalidate(l *Loop) {
	delete(t.headers, l.Header)
	for _, latch := range l.Latches {
		delete(t.latches, latch)
	}
	l.Header = ""
	l.Latches = nil
}
