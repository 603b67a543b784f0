package jumpthread

import "github.com/codepathfinder/jumpthread/internal/cfg"

// RedirectionEntry groups every incoming edge that shares one path suffix
// during the processing of a single block.
type RedirectionEntry struct {
	// Template is the path used as this entry's hash key (its suffix, from
	// index 1 on, is shared by every edge in Incoming).
	Template *Path
	// Duplicate is the block created for this suffix, nil until the
	// edge-redirection engine creates it.
	Duplicate *cfg.BasicBlock
	// OutEdge is the duplicate's wired outgoing edge toward the path's
	// final target (plain mode) or the redirected parallel edge (joiner
	// mode), tracked so its Count can stay in sync with Duplicate's as
	// incoming edges are redirected onto it.
	OutEdge *cfg.Edge
	// Incoming is the list of edges to redirect to Duplicate, most
	// recently inserted first (mirrors a singly-linked list built by
	// repeated prepend).
	Incoming []*cfg.Edge
}

// RedirectionTable is an open hash table keyed by path-suffix identity,
// bucketed by the CFG id of the path's final destination block, with a
// single-table-per-block-processing lifetime.
type RedirectionTable struct {
	buckets map[cfg.BlockID][]*RedirectionEntry
	order   []*RedirectionEntry
}

// NewRedirectionTable creates a table sized to succCount, the number of
// successors of the block about to be processed.
func NewRedirectionTable(succCount int) *RedirectionTable {
	return &RedirectionTable{buckets: make(map[cfg.BlockID][]*RedirectionEntry, succCount)}
}

// LookupInsert finds the entry matching path's suffix, creating one if none
// exists, and prepends incoming to its list. Returns the entry and whether
// it was freshly created.
func (t *RedirectionTable) LookupInsert(incoming *cfg.Edge, path *Path) (*RedirectionEntry, bool) {
	key := path.FinalTarget()
	for _, e := range t.buckets[key] {
		if e.Template.SameSuffix(path) {
			e.Incoming = append([]*cfg.Edge{incoming}, e.Incoming...)
			return e, false
		}
	}
	entry := &RedirectionEntry{Template: path, Incoming: []*cfg.Edge{incoming}}
	t.buckets[key] = append(t.buckets[key], entry)
	t.order = append(t.order, entry)
	return entry, true
}

// LookupNoInsert returns the entry matching path's suffix, or nil, without
// modifying the table.
func (t *RedirectionTable) LookupNoInsert(path *Path) *RedirectionEntry {
	for _, e := range t.buckets[path.FinalTarget()] {
		if e.Template.SameSuffix(path) {
			return e
		}
	}
	return nil
}

// Entries returns every entry in the order its key was first inserted,
// the order the three traversals rely on ("first entry visited creates
// the template").
func (t *RedirectionTable) Entries() []*RedirectionEntry {
	return t.order
}

// Clear empties the table for reuse by the next block.
func (t *RedirectionTable) Clear() {
	t.buckets = make(map[cfg.BlockID][]*RedirectionEntry)
	t.order = nil
}
