package jumpthread

import (
	"github.com/codepathfinder/jumpthread/internal/cfg"
	"github.com/codepathfinder/jumpthread/internal/diagnostics"
	"github.com/codepathfinder/jumpthread/internal/loopinfo"
)

// DominanceStatus classifies tgt_bb's relationship to a loop's latch once a
// common header-threading target has been determined.
type DominanceStatus int

const (
	// Nondominating: tgt_bb does not dominate the latch, and peeling would
	// not even disconnect the loop; fail, nothing to do.
	Nondominating DominanceStatus = iota
	// LoopBroken: tgt_bb does not dominate the latch because the backedge
	// no longer reaches it without passing through the old header, so the
	// loop as such has ceased to exist.
	LoopBroken
	// Dominating: tgt_bb dominates the latch; peeling the header is safe.
	Dominating
)

// determineDominanceStatus approximates the dominance query structurally:
// internal/domfix deliberately never computes real dominator relationships,
// so this asks instead whether some latch is reachable from tgt_bb without
// re-entering the header. That
// reachability question is exactly what a "dominates the latch, from
// inside the loop" check reduces to once the header itself is taken out of
// consideration.
func determineDominanceStatus(g *cfg.Graph, loops *loopinfo.Tree, loop *loopinfo.Loop, tgtBB cfg.BlockID) DominanceStatus {
	if tgtBB == loop.Header {
		return Dominating
	}

	reachesLatchWithoutHeader := func(from cfg.BlockID) bool {
		visited := map[cfg.BlockID]bool{loop.Header: true}
		var walk func(id cfg.BlockID) bool
		walk = func(id cfg.BlockID) bool {
			for _, latch := range loop.Latches {
				if id == latch {
					return true
				}
			}
			if visited[id] {
				return false
			}
			visited[id] = true
			b := g.Block(id)
			if b == nil {
				return false
			}
			for _, e := range b.Succs {
				if walk(e.Dst) {
					return true
				}
			}
			return false
		}
		return walk(from)
	}

	reaches := reachesLatchWithoutHeader(tgtBB)
	if !reaches {
		return LoopBroken
	}
	if loops.LoopFather(tgtBB) == loop {
		return Dominating
	}
	return Nondominating
}

// ThreadHeader is thread_header, invoked per loop, innermost first, by the
// driver.
func (e *Engine) ThreadHeader(loop *loopinfo.Loop, mayPeelLoopHeaders bool) bool {
	header := e.g.Block(loop.Header)
	if header == nil {
		return false
	}
	if cfg.SingleSuccP(header) {
		return false
	}

	var tgtBB cfg.BlockID
	var latchEdge *cfg.Edge
	latchCase := false

	for _, latchID := range loop.Latches {
		le := e.g.FindEdge(latchID, header.ID)
		if le == nil {
			continue
		}
		p := e.annot.Get(le)
		if p == nil || p.ModeKind() == CopySrcJoinerBlock {
			continue
		}
		latchEdge = le
		tgtBB = p.Steps[1].Edge.Dst
		latchCase = true
		break
	}

	if !latchCase {
		if !mayPeelLoopHeaders && !loopinfo.EmptyBlockP(header) {
			return false
		}
		common, ok := commonHeaderTarget(e.annot, header)
		if !ok {
			return false
		}
		tgtBB = common
	}

	status := determineDominanceStatus(e.g, e.loops, loop, tgtBB)
	if status == LoopBroken {
		e.loops.Invalidate(loop)
		return e.ThreadBlock(header, false, false)
	}
	if status != Dominating {
		return false
	}

	if sub := e.loops.HeaderOf(tgtBB); sub != nil {
		preheader := e.g.MakeForwarderBlock(tgtBB)
		if !cfg.SingleSuccP(preheader) {
			bug("make_forwarder_block did not produce a single-successor preheader")
		}
		tgtBB = preheader.ID
	}

	if latchCase {
		return e.threadLatchCase(loop, header, latchEdge, tgtBB)
	}
	return e.threadEntriesCase(loop, header, tgtBB)
}

// commonHeaderTarget implements the "otherwise" branch: every annotated
// predecessor of header must share a single non-joiner
// second-step destination, or peeling would create a multi-entry loop.
func commonHeaderTarget(annot *Annotations, header *cfg.BasicBlock) (cfg.BlockID, bool) {
	var common cfg.BlockID
	found := false
	for _, pe := range header.Preds {
		p := annot.Get(pe)
		if p == nil {
			continue
		}
		if p.ModeKind() == CopySrcJoinerBlock {
			return "", false
		}
		d := p.Steps[1].Edge.Dst
		if !found {
			common, found = d, true
			continue
		}
		if d != common {
			return "", false
		}
	}
	return common, found
}

// threadLatchCase implements the "Latch case": the loop's latch
// is threaded straight to tgtBB, making the copied header the new
// preheader, and any remaining header predecessors whose paths would still
// create a second loop entry are cancelled.
func (e *Engine) threadLatchCase(loop *loopinfo.Loop, header *cfg.BasicBlock, latchEdge *cfg.Edge, tgtBB cfg.BlockID) bool {
	newHeader := ThreadSingleEdge(e.g, e.annot, latchEdge, tgtBB)
	if newHeader != nil {
		loop.Header = newHeader.ID
	}
	if len(loop.Latches) > 1 {
		e.loops.LoopsStateSet(loopinfo.LoopsMayHaveMultipleLatches)
	}

	for _, pe := range header.Preds {
		p := e.annot.Get(pe)
		if p == nil {
			continue
		}
		dst := p.FinalTarget()
		if e.loops.LoopFather(pe.Src) != e.loops.LoopFather(dst) && dst != loop.Header {
			e.cancel(pe, p, diagnostics.ReasonLoopInvariant, "would still create a multi-entry loop after latch threading")
		}
	}

	return e.ThreadBlock(header, false, false)
}

// threadEntriesCase implements the "Entries case": the header is
// duplicated as a new preheader via the ordinary thread_block machinery,
// and a fresh single-successor block built with make_forwarder_block is
// appended to loop.Latches. The existing latches stay registered, so the
// loop ends up with one more latch than it had.
func (e *Engine) threadEntriesCase(loop *loopinfo.Loop, header *cfg.BasicBlock, tgtBB cfg.BlockID) bool {
	loopinfo.SetLoopCopy(loop, loopinfo.LoopOuter(loop))
	threaded := e.ThreadBlock(header, false, false)
	loopinfo.SetLoopCopy(loop, nil)

	fwd := e.g.MakeForwarderBlock(tgtBB)
	loop.Latches = append(loop.Latches, fwd.ID)

	return threaded
}
