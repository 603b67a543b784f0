package jumpthread

import (
	"github.com/codepathfinder/jumpthread/internal/cfg"
	"github.com/codepathfinder/jumpthread/internal/config"
	"github.com/codepathfinder/jumpthread/internal/diagnostics"
	"github.com/codepathfinder/jumpthread/internal/domfix"
	"github.com/codepathfinder/jumpthread/internal/loopinfo"
)

// Driver orchestrates one compilation's worth of jump threading: mark,
// non-loop thread, loop-header thread, cleanup. It is
// the sole exported entry point external callers (the CLI driver in this
// module's case) need.
type Driver struct {
	g       *cfg.Graph
	annot   *Annotations
	loops   *loopinfo.Tree
	domInfo *domfix.Info
	opts    config.EngineOptions
	stats   *diagnostics.Stats
	store   *PathStore
	engine  *Engine
}

// NewDriver wires one function body's graph, loop tree, and statistics sink
// into a fresh Driver ready to accept registrations.
func NewDriver(g *cfg.Graph, loops *loopinfo.Tree, opts config.EngineOptions, stats *diagnostics.Stats) *Driver {
	annot := NewAnnotations()
	domInfo := domfix.NewInfo()

	counter := diagnostics.NewDebugCounter("jumpthread-registration")
	counter.SetRange(opts.BisectionLow, opts.BisectionHigh)

	return &Driver{
		g:       g,
		annot:   annot,
		loops:   loops,
		domInfo: domInfo,
		opts:    opts,
		stats:   stats,
		store:   NewPathStore(annot, stats, counter),
		engine:  NewEngine(g, annot, loops, domInfo, stats),
	}
}

// RegisterJumpThread takes ownership of path (the
// register_jump_thread), returning whether it was accepted.
func (d *Driver) RegisterJumpThread(path *Path) bool {
	return d.store.Register(path)
}

// Stats returns the statistics sink accumulating this driver's run, for the
// caller to dump once ThreadThroughAllBlocks returns.
func (d *Driver) Stats() *diagnostics.Stats {
	return d.stats
}

// Graph returns the CFG this driver mutates in place.
func (d *Driver) Graph() *cfg.Graph {
	return d.g
}

// DeleteJumpThreadPath is the explicit rejection-path destructor 
// exposes, for a caller that decides not to register a path it built.
func (d *Driver) DeleteJumpThreadPath(path *Path) {
	DeleteJumpThreadPath(d.annot, path)
}

// ThreadThroughAllBlocks is thread_through_all_blocks:
// performs every pending threading and reports whether anything was
// applied.
func (d *Driver) ThreadThroughAllBlocks(mayPeelLoopHeaders bool) bool {
	if d.store.Len() == 0 {
		return false
	}

	order, eligible := MarkThreadedBlocks(d.g, d.annot, d.loops, d.store, d.opts, d.stats)

	anyThreaded := false

	// Step 4: every eligible block, loop headers included, in bitmap order
	// under the noloop_only guard, plain paths before joiner paths within
	// each block.
	for _, id := range order {
		if !eligible[id] {
			continue
		}
		b := d.g.Block(id)
		if b == nil {
			continue
		}
		plain := d.engine.ThreadBlock(b, false, true)
		joiner := d.engine.ThreadBlock(b, true, true)
		anyThreaded = anyThreaded || plain || joiner
	}

	// Step 5: loop headers, innermost first.
	for _, loop := range d.loops.InnermostFirst() {
		if !eligible[loop.Header] {
			continue
		}
		if d.engine.ThreadHeader(loop, mayPeelLoopHeaders) {
			anyThreaded = true
		}
	}

	// Step 6: mandatory final sweep. Some paths can be orphaned when a
	// latch-to-exit thread nulls a header before the outer-to-inner path
	// for the same loop is processed.
	for _, e := range d.annot.Edges() {
		if path := d.annot.Get(e); path != nil {
			DeleteJumpThreadPath(d.annot, path)
		}
		d.annot.Clear(e)
	}

	// Step 7: "Jumps threaded" statistics are already accumulated
	// incrementally in d.stats as each edge redirects; dumping them is the
	// caller's job (it owns the logger). Release the path store and, if
	// anything changed, flag the loop structure as needing a real
	// recompute.
	d.store.Release()
	if anyThreaded {
		d.loops.LoopsStateSet(loopinfo.LoopsNeedFixup)
	}

	return anyThreaded
}
