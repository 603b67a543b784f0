package jumpthread

import (
	"github.com/codepathfinder/jumpthread/internal/cfg"
	"github.com/codepathfinder/jumpthread/internal/profile"
	"github.com/codepathfinder/jumpthread/internal/ssa"
)

// ThreadSingleEdge specializes thread_block for one edge e that traverses a
// single plain-copy step to target. Used by the loop-header threader's
// latch case, where the latch's back-edge must skip straight to the loop's
// already-known next header rather than re-entering the old header block.
//
// If e's destination block has exactly one predecessor (e itself), nothing
// needs duplicating: its useless outgoing edges are stripped so the one
// toward target becomes a plain fall-through, and the block itself is
// returned. Otherwise a duplicate is created, wired to target, and e is
// redirected onto it; the duplicate is returned.
func ThreadSingleEdge(g *cfg.Graph, annot *Annotations, e *cfg.Edge, target cfg.BlockID) *cfg.BasicBlock {
	b := g.Block(e.Dst)
	if b == nil {
		return nil
	}

	if cfg.SinglePredP(b) {
		keep := g.FindEdge(b.ID, target)
		g.RemoveCtrlStmtAndUselessEdges(b, keep)
		if keep != nil {
			keep.Flags = cfg.EdgeFallthru
			keep.Probability = cfg.ProbabilityBase
		}
		return b
	}

	dup := MakeTemplate(g, b, false)
	fallE := g.MakeEdge(dup.ID, target, cfg.EdgeFallthru)
	fallE.Probability = cfg.ProbabilityBase
	fallE.Count = e.Count

	if origE := g.FindEdge(b.ID, target); origE != nil {
		targetBlock := g.Block(target)
		ssa.AddPhiArg(targetBlock, fallE, origE)
		if nested := annot.Get(origE); nested != nil {
			annot.Set(fallE, nested.Clone())
		}
	}

	dup.Freq += profile.EdgeFrequency(g, e)
	dup.Count += e.Count

	if redirected := g.RedirectEdgeAndBranch(e, dup.ID); redirected != e {
		bug("redirect_edge_and_branch returned a different edge than the one provided")
	}
	ssa.FlushPendingStmts(g, e)
	annot.Clear(e)

	return dup
}
