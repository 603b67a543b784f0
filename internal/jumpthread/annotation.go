package jumpthread

import "github.com/codepathfinder/jumpthread/internal/cfg"

// Annotations is the single mutable path reference slot per CFG edge,
// implemented as a side map keyed by stable edge (pointer) identity rather
// than a field on cfg.Edge.
type Annotations struct {
	byEdge map[*cfg.Edge]*Path
}

// NewAnnotations returns an empty annotation table.
func NewAnnotations() *Annotations {
	return &Annotations{byEdge: make(map[*cfg.Edge]*Path)}
}

// Set attaches path to e, taking ownership of it: path is considered
// transferred to the edge once registration completes.
func (a *Annotations) Set(e *cfg.Edge, path *Path) {
	a.byEdge[e] = path
}

// Get returns the path attached to e, or nil.
func (a *Annotations) Get(e *cfg.Edge) *Path {
	return a.byEdge[e]
}

// Clear detaches whatever path e carries, if any.
func (a *Annotations) Clear(e *cfg.Edge) {
	delete(a.byEdge, e)
}

// Edges returns every edge currently carrying a non-nil annotation. Used by
// the driver's mandatory final sweep.
func (a *Annotations) Edges() []*cfg.Edge {
	out := make([]*cfg.Edge, 0, len(a.byEdge))
	for e := range a.byEdge {
		out = append(out, e)
	}
	return out
}
