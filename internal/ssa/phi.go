package ssa

import "github.com/codepathfinder/jumpthread/internal/cfg"

// CopyPhiArgs implements copy_phi_args(B, srcE, tgtE): for every phi in b,
// it reads the argument at srcE's predecessor index and writes that same
// value (and source location) at tgtE's predecessor index.
//
// Both srcE and tgtE must already be predecessor edges of b; callers wire
// tgtE into b.Preds before calling this, exactly as the duplicate wiring
// does.
func CopyPhiArgs(b *cfg.BasicBlock, srcE, tgtE *cfg.Edge) {
	srcIdx := b.PredIndex(srcE)
	tgtIdx := b.PredIndex(tgtE)
	if srcIdx < 0 || tgtIdx < 0 {
		return
	}
	for _, phi := range b.Phis {
		if srcIdx >= len(phi.Args) || tgtIdx >= len(phi.Args) {
			continue
		}
		phi.Args[tgtIdx] = phi.Args[srcIdx]
	}
}

// UpdateDestinationPhis implements update_destination_phis(origB, newB):
// for every successor S of origB, it finds the mirrored edge newB->S
// (freshly created by mirrorSuccessors, so S has never seen it as a
// predecessor before) and gives S a phi argument for it via AddPhiArg,
// mirroring the value origB->S carries. AddPhiArg writes at newE's
// predecessor index: it fills a slot that is already allocated there and
// pads the argument list when it is not.
func UpdateDestinationPhis(g *cfg.Graph, origB, newB *cfg.BasicBlock) {
	for _, origE := range origB.Succs {
		newE := g.FindEdge(newB.ID, origE.Dst)
		if newE == nil {
			continue
		}
		dst := g.Block(origE.Dst)
		if dst == nil {
			continue
		}
		AddPhiArg(dst, newE, origE)
	}
}

// AddPhiArg gives every phi in b a new argument slot at newE's actual
// predecessor index, mirroring the value/location that flowed on mirrorE
// (which must be an existing predecessor of b). newE must already be wired
// into b.Preds.
//
// The slot is written at b.PredIndex(newE), not simply appended: callers
// that mirror several duplicates' edges onto the same untouched successor
// (propagateForJoinerDuplicate) wire every duplicate's edge into b.Preds
// before any of them gets its phi slot filled, then fill the slots back in
// out of that order (template-first, so the first-created duplicate's edge
// is the last one to get AddPhiArg called on it). A plain append would put
// that value in the wrong slot. Any predecessor index between the phi's
// current length and newE's index that isn't filled yet is padded with a
// zero-value placeholder, to be overwritten once that predecessor's own
// AddPhiArg call runs.
func AddPhiArg(b *cfg.BasicBlock, newE, mirrorE *cfg.Edge) {
	idx := b.PredIndex(newE)
	if idx < 0 {
		return
	}
	mirrorIdx := b.PredIndex(mirrorE)
	for _, phi := range b.Phis {
		var arg cfg.PhiArg
		if mirrorIdx >= 0 && mirrorIdx < len(phi.Args) {
			arg = phi.Args[mirrorIdx]
		}
		for len(phi.Args) <= idx {
			phi.Args = append(phi.Args, cfg.PhiArg{})
		}
		phi.Args[idx] = arg
	}
}

// FlushPendingStmts moves any statements queued on e (e.g. inserted while e
// was a critical edge awaiting a split) into e's destination block and
// clears the queue. This is the "flush_pending_stmts" primitive 
// lists; the jump-threading engine calls it immediately after every
// RedirectEdgeAndBranch.
func FlushPendingStmts(g *cfg.Graph, e *cfg.Edge) {
	if len(e.Pending) == 0 {
		return
	}
	dst := g.Block(e.Dst)
	if dst != nil {
		dst.Stmts = append(append([]cfg.Stmt{}, e.Pending...), dst.Stmts...)
	}
	e.Pending = nil
}
