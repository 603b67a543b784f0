// Package domfix provides the one dominator-info hook the jump-threading
// engine is allowed to touch: invalidation. Restoring dominator info after
// an update is explicitly out of scope for this engine; some later pass
// recomputes it. This package therefore only ever marks the cached info
// stale; it never recomputes anything.
package domfix

import "github.com/codepathfinder/jumpthread/internal/cfg"

// Info is a dominator-info cache for one Graph. Engine code outside this
// package should treat Stale as read-only.
type Info struct {
	Stale bool
}

// NewInfo returns a freshly (not yet invalidated) dominator cache.
func NewInfo() *Info {
	return &Info{}
}

// FreeDominanceInfo marks info stale. thread_block calls this exactly once
// per invocation, regardless of how many edges that invocation redirects:
// dominance relationships can change anywhere once any edge moves, so
// there is nothing finer-grained to invalidate.
func FreeDominanceInfo(info *Info) {
	info.Stale = true
}

// DFSEnumerateFrom is a depth-first block enumeration primitive kept
// alongside the dominator hooks. Nothing in this engine recomputes
// dominance, so the only use it has here is as a plain reachability walk
// available to diagnostics (e.g. confirming a path's blocks are still
// connected before dumping it).
func DFSEnumerateFrom(g *cfg.Graph, from cfg.BlockID) []cfg.BlockID {
	visited := map[cfg.BlockID]bool{}
	var order []cfg.BlockID
	var walk func(id cfg.BlockID)
	walk = func(id cfg.BlockID) {
		if visited[id] {
			return
		}
		visited[id] = true
		order = append(order, id)
		b := g.Block(id)
		if b == nil {
			return
		}
		for _, e := range b.Succs {
			walk(e.Dst)
		}
	}
	walk(from)
	return order
}
