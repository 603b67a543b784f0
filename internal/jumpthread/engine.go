package jumpthread

import (
	"fmt"

	"github.com/codepathfinder/jumpthread/internal/cfg"
	"github.com/codepathfinder/jumpthread/internal/diagnostics"
	"github.com/codepathfinder/jumpthread/internal/domfix"
	"github.com/codepathfinder/jumpthread/internal/loopinfo"
	"github.com/codepathfinder/jumpthread/internal/profile"
	"github.com/codepathfinder/jumpthread/internal/ssa"
)

// Engine holds every external collaborator the edge-redirection state
// machine needs, plus the per-run annotation table. It is not exported
// state the caller should reach into; internal/jumpthread's own Driver
// owns the one Engine value for a compilation.
type Engine struct {
	g       *cfg.Graph
	annot   *Annotations
	loops   *loopinfo.Tree
	domInfo *domfix.Info
	stats   *diagnostics.Stats
}

// NewEngine wires together one function body's worth of external
// collaborators.
func NewEngine(g *cfg.Graph, annot *Annotations, loops *loopinfo.Tree, domInfo *domfix.Info, stats *diagnostics.Stats) *Engine {
	return &Engine{g: g, annot: annot, loops: loops, domInfo: domInfo, stats: stats}
}

// ThreadBlock is thread_block: called twice per block, once with
// joiners=false for plain paths and once with joiners=true for joiner
// paths. Returns whether anything was actually redirected.
func (e *Engine) ThreadBlock(b *cfg.BasicBlock, joiners, noloopOnly bool) bool {
	table := NewRedirectionTable(len(b.Succs))
	loop := e.loops.HeaderOf(b.ID)

	// Step 2: a latch-to-exit thread on this header invalidates the loop
	// before anything else runs.
	if loop != nil {
		for _, pe := range b.Preds {
			if e.loops.LatchOf(pe.Src) != loop {
				continue
			}
			path := e.annot.Get(pe)
			if path == nil {
				continue
			}
			for _, step := range path.Steps {
				if e.loops.LoopExitEdgeP(step.Edge) {
					e.loops.Invalidate(loop)
					e.loops.LoopsStateSet(loopinfo.LoopsNeedFixup)
					loop = nil
					break
				}
			}
			if loop == nil {
				break
			}
		}
	}

	headerToExit := false

	// Step 3: gather every matching-mode predecessor path into the table.
	for _, pe := range b.Preds {
		path := e.annot.Get(pe)
		if path == nil {
			continue
		}
		wantKind := CopySrcBlock
		if joiners {
			wantKind = CopySrcJoinerBlock
		}
		if path.ModeKind() != wantKind {
			continue
		}

		finalE := path.FinalEdge()

		if noloopOnly {
			exitOfSameLoop := loop != nil && !joiners && e.loops.LoopExitEdgeP(finalE) &&
				e.loops.LoopFather(finalE.Src) == loop
			coherent := pathStaysWithinLoopBoundaries(e.loops, path)
			if !exitOfSameLoop && !coherent {
				e.cancel(pe, path, diagnostics.ReasonLoopInvariant, "would create multi-entry loop")
				continue
			}
		}

		// Nested thread: the path's own trigger edge sources from b
		// itself (a self-referencing registration), so redirecting it
		// away lowers how often b itself is entered along that edge.
		if path.Steps[0].Edge.Src == b.ID {
			profile.UpdateBBProfileForThreading(b, profile.EdgeFrequency(e.g, pe), pe.Count)
		}

		if loop != nil && e.loops.LoopExitEdgeP(finalE) {
			headerToExit = true
		}

		table.LookupInsert(pe, path)
	}

	// Step 4.
	domfix.FreeDominanceInfo(e.domInfo)

	// Step 5.
	if headerToExit && loop != nil {
		loopinfo.SetLoopCopy(loop, loopinfo.LoopOuter(loop))
	}

	// Step 6: the three traversals.
	threaded := e.runTraversals(b, table, joiners)

	// Step 7.
	table.Clear()
	if headerToExit && loop != nil {
		loopinfo.SetLoopCopy(loop, nil)
	}
	return threaded > 0
}

func (e *Engine) cancel(pe *cfg.Edge, path *Path, reason, detail string) {
	e.stats.Cancel(reason, detail)
	DeleteJumpThreadPath(e.annot, path)
	e.annot.Clear(pe)
}

// pathStaysWithinLoopBoundaries is the "stays within coherent loop
// boundaries" half of the NoLoop guard: every step
// but the last must not leave the loop it started in. A path's final step
// is allowed to exit, since that is the loop-header-to-exit case handled
// separately by the sibling condition.
func pathStaysWithinLoopBoundaries(loops *loopinfo.Tree, path *Path) bool {
	for i, step := range path.Steps {
		if i == len(path.Steps)-1 {
			break
		}
		if loops.LoopExitEdgeP(step.Edge) {
			return false
		}
	}
	return true
}

// runTraversals runs the three traversals over an already-populated table
// and returns how many incoming edges were actually redirected.
func (e *Engine) runTraversals(b *cfg.BasicBlock, table *RedirectionTable, joiner bool) int {
	entries := table.Entries()
	if len(entries) == 0 {
		return 0
	}

	// Traversal 1: create duplicates. The first entry visited becomes the
	// template; every subsequent entry clones from it and is wired
	// immediately.
	var templateBlock *cfg.BasicBlock
	for i, entry := range entries {
		if i == 0 {
			templateBlock = MakeTemplate(e.g, b, joiner)
			entry.Duplicate = templateBlock
			continue
		}
		entry.Duplicate = CloneFromTemplate(e.g, templateBlock, b, joiner)
		e.wireDuplicateOutgoing(entry, joiner, b)
	}

	// Traversal 2: fix up the template last.
	e.wireDuplicateOutgoing(entries[0], joiner, b)

	// Traversal 3: redirect incoming edges.
	threaded := 0
	for _, entry := range entries {
		incoming := append([]*cfg.Edge{}, entry.Incoming...)
		for _, pe := range incoming {
			e.stats.Thread(fmt.Sprintf("%s -> %s", pe.Src, entry.Duplicate.ID))

			entry.Duplicate.Freq += profile.EdgeFrequency(e.g, pe)
			entry.Duplicate.Count += pe.Count
			if entry.OutEdge != nil {
				entry.OutEdge.Count = entry.Duplicate.Count
			}

			if redirected := e.g.RedirectEdgeAndBranch(pe, entry.Duplicate.ID); redirected != pe {
				bug("redirect_edge_and_branch returned a different edge than the one provided")
			}
			ssa.FlushPendingStmts(e.g, pe)
			e.annot.Clear(pe)
			threaded++
		}
	}
	return threaded
}

// wireDuplicateOutgoing wires entry.Duplicate's outgoing edge, dispatching
// on mode.
func (e *Engine) wireDuplicateOutgoing(entry *RedirectionEntry, joiner bool, src *cfg.BasicBlock) {
	dup := entry.Duplicate
	finalE := entry.Template.FinalEdge()
	finalTargetID := finalE.Dst
	finalDst := e.g.Block(finalTargetID)

	if !joiner {
		fallE := e.g.MakeEdge(dup.ID, finalTargetID, cfg.EdgeFallthru)
		fallE.Probability = cfg.ProbabilityBase
		entry.OutEdge = fallE

		propagateForPlainDuplicate(e.g, finalDst, fallE, finalE)

		if nested := e.annot.Get(finalE); nested != nil {
			e.annot.Set(fallE, nested.Clone())
		}
		return
	}

	propagateForJoinerDuplicate(e.g, src, dup)

	joinerStepE := entry.Template.Steps[1].Edge
	parallel := e.g.FindEdge(dup.ID, joinerStepE.Dst)
	if parallel == nil {
		return
	}
	entry.OutEdge = parallel

	rerouted := parallel.Dst != finalTargetID
	if rerouted {
		if redirected := e.g.RedirectEdgeAndBranch(parallel, finalTargetID); redirected != parallel {
			bug("redirect_edge_and_branch returned a different edge than the one provided")
		}
		ssa.FlushPendingStmts(e.g, parallel)
	}
	parallel.Count = finalE.Count

	if rerouted {
		propagateForRedirectedJoinerEdge(finalDst, parallel, finalE)
	}
}
