package jumpthread

import (
	"github.com/codepathfinder/jumpthread/internal/cfg"
	"github.com/codepathfinder/jumpthread/internal/config"
	"github.com/codepathfinder/jumpthread/internal/diagnostics"
	"github.com/codepathfinder/jumpthread/internal/loopinfo"
)

// MarkThreadedBlocks is mark_threaded_blocks: runs once, before any
// threading, and returns the blocks actually eligible to be threaded after
// trimming and cancellation, both as an order (the order their first
// registered path appeared in the store, "bitmap order") and as a
// membership set.
func MarkThreadedBlocks(g *cfg.Graph, annot *Annotations, loops *loopinfo.Tree, store *PathStore, opts config.EngineOptions, stats *diagnostics.Stats) ([]cfg.BlockID, map[cfg.BlockID]bool) {
	eligible := make(map[cfg.BlockID]bool)
	var order []cfg.BlockID

	// Step 1: every registered path marks the block it threads (the
	// destination of its starting edge). Attachment to the starting edge
	// already happened in PathStore.Register.
	for _, path := range store.Paths() {
		id := path.StartEdge().Dst
		if !eligible[id] {
			order = append(order, id)
		}
		eligible[id] = true
	}

	// Step 2: size-optimized cancellation.
	if opts.OptimizeForSize {
		for id := range eligible {
			b := g.Block(id)
			if b == nil {
				continue
			}
			if len(b.Preds) > 1 && !loopinfo.EmptyBlockP(b) {
				cancelAllOn(annot, stats, b, diagnostics.ReasonSizeOptCost, "duplication too expensive under optimize-for-size")
			}
		}
	}

	// Step 3: multi-loop trimming.
	for _, e := range annot.Edges() {
		path := annot.Get(e)
		if path == nil {
			continue
		}
		trimMultiLoop(annot, loops, stats, path)
	}

	// Step 4: joiner φ-consistency check.
	for _, e := range annot.Edges() {
		path := annot.Get(e)
		if path == nil || len(path.Steps) < 2 {
			continue
		}
		if path.Steps[1].Kind != CopySrcJoinerBlock {
			continue
		}
		checkJoinerConsistency(g, annot, stats, path)
	}

	// Only blocks that still have an annotated starting edge stay eligible.
	surviving := make(map[cfg.BlockID]bool)
	for _, e := range annot.Edges() {
		if annot.Get(e) != nil {
			surviving[e.Dst] = true
		}
	}
	var kept []cfg.BlockID
	for _, id := range order {
		if surviving[id] {
			kept = append(kept, id)
		}
	}
	return kept, surviving
}

func cancelAllOn(annot *Annotations, stats *diagnostics.Stats, b *cfg.BasicBlock, reason, detail string) {
	for _, pe := range b.Preds {
		path := annot.Get(pe)
		if path == nil {
			continue
		}
		stats.Cancel(reason, detail)
		DeleteJumpThreadPath(annot, path)
		annot.Clear(pe)
	}
}

// trimMultiLoop walks path's steps, tracking up to two distinct loop
// fathers seen at step destinations; a third truncates the path there. A
// result shorter than 2 steps, or one now ending in a joiner, is cancelled
// outright.
func trimMultiLoop(annot *Annotations, loops *loopinfo.Tree, stats *diagnostics.Stats, path *Path) {
	seen := make([]*loopinfo.Loop, 0, 2)
	seenHas := func(l *loopinfo.Loop) bool {
		for _, s := range seen {
			if s == l {
				return true
			}
		}
		return false
	}

	truncateAt := -1
	for i, step := range path.Steps {
		l := loops.LoopFather(step.Edge.Dst)
		if l == nil {
			continue
		}
		if seenHas(l) {
			continue
		}
		if len(seen) == 2 {
			truncateAt = i
			break
		}
		seen = append(seen, l)
	}

	if truncateAt < 0 {
		return
	}

	path.Steps = path.Steps[:truncateAt]
	if len(path.Steps) < 2 || path.Steps[len(path.Steps)-1].Kind == CopySrcJoinerBlock {
		stats.Cancel(diagnostics.ReasonTooManyLoops, "path crosses three or more loops")
		pe := path.StartEdge()
		DeleteJumpThreadPath(annot, path)
		annot.Clear(pe)
	}
}

// checkJoinerConsistency handles the case where a path's joiner step J has
// a direct edge to the path's final destination S2: every
// φ in S2 must agree between the direct J->S2 edge and the path's actual
// final edge, or the threading would introduce a wrong value.
func checkJoinerConsistency(g *cfg.Graph, annot *Annotations, stats *diagnostics.Stats, path *Path) {
	joinerStep := path.Steps[1]
	j := g.Block(joinerStep.Edge.Src)
	if j == nil {
		return
	}
	s2ID := path.FinalTarget()
	direct := g.FindEdge(j.ID, s2ID)
	if direct == nil {
		return
	}
	finalE := path.FinalEdge()
	s2 := g.Block(s2ID)
	if s2 == nil {
		return
	}

	directIdx := s2.PredIndex(direct)
	finalIdx := s2.PredIndex(finalE)
	if directIdx < 0 || finalIdx < 0 {
		return
	}

	for _, phi := range s2.Phis {
		if directIdx >= len(phi.Args) || finalIdx >= len(phi.Args) {
			continue
		}
		if phi.Args[directIdx] != phi.Args[finalIdx] {
			stats.Cancel(diagnostics.ReasonJoinerMismatch, "joiner phi argument disagrees with direct edge")
			pe := path.StartEdge()
			DeleteJumpThreadPath(annot, path)
			annot.Clear(pe)
			return
		}
	}
}
