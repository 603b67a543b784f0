package jumpthread

import (
	"fmt"

	"github.com/codepathfinder/jumpthread/internal/diagnostics"
)

// PathStore accumulates threading requests, validating and dumping each one
// as it arrives. Register attaches each accepted path to its starting edge's
// annotation straight away; the store keeps its own list of them until
// Release.
type PathStore struct {
	paths   []*Path
	annot   *Annotations
	stats   *diagnostics.Stats
	counter *diagnostics.DebugCounter
}

// NewPathStore creates an empty store. counter may be nil, meaning no
// bisection limit is consulted.
func NewPathStore(annot *Annotations, stats *diagnostics.Stats, counter *diagnostics.DebugCounter) *PathStore {
	return &PathStore{annot: annot, stats: stats, counter: counter}
}

// Register validates path and, if accepted, takes ownership of it: attaches
// it to its starting edge's annotation and appends it to the store. Returns
// whether the path was accepted.
//
// Rejected (cancel-and-drop) when any step carries a null edge, or when the
// debug counter denies this registration (used for bisection).
func (s *PathStore) Register(path *Path) bool {
	if path.HasNullEdge() {
		s.stats.Cancel(diagnostics.ReasonNullEdge, "path has a null edge")
		return false
	}
	if s.counter != nil && !s.counter.Allow() {
		s.stats.Cancel(diagnostics.ReasonDebugCounter, fmt.Sprintf("bisection denied registration #%d", s.counter.Count()-1))
		return false
	}

	s.annot.Set(path.StartEdge(), path)
	s.paths = append(s.paths, path)
	s.stats.Register(fmt.Sprintf("%d -> %s (%d steps)", len(s.paths)-1, path.FinalTarget(), len(path.Steps)))
	return true
}

// Len returns the number of currently-owned paths.
func (s *PathStore) Len() int {
	return len(s.paths)
}

// Paths returns every currently-owned path, in registration order.
func (s *PathStore) Paths() []*Path {
	return s.paths
}

// Release empties the store. The annotation table is untouched: by the time
// a driver run calls Release, every surviving path has already been moved
// onto a redirection table entry or cancelled.
func (s *PathStore) Release() {
	s.paths = nil
}

// DeleteJumpThreadPath is the explicit destructor for rejection paths: it
// clears path's annotation wherever it is still attached, so a caller
// rejecting a path after registration leaves no dangling reference.
func DeleteJumpThreadPath(annot *Annotations, path *Path) {
	if path == nil {
		return
	}
	annot.Clear(path.StartEdge())
}
