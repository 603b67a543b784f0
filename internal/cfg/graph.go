package cfg

// Graph owns every BasicBlock of one function body being threaded.
type Graph struct {
	Blocks map[BlockID]*BasicBlock
	Entry  BlockID
	Exit   BlockID
}

// NewGraph creates an empty graph with a fresh entry and exit block.
func NewGraph() *Graph {
	entry := &BasicBlock{ID: NewBlockID(), Label: "entry"}
	exit := &BasicBlock{ID: NewBlockID(), Label: "exit"}
	g := &Graph{
		Blocks: map[BlockID]*BasicBlock{
			entry.ID: entry,
			exit.ID:  exit,
		},
		Entry: entry.ID,
		Exit:  exit.ID,
	}
	return g
}

// AddBlock registers a freshly constructed block with the graph.
func (g *Graph) AddBlock(b *BasicBlock) {
	g.Blocks[b.ID] = b
}

// Block looks up a block by id.
func (g *Graph) Block(id BlockID) *BasicBlock {
	return g.Blocks[id]
}

// MakeEdge creates a new edge from src to dst and wires it into both
// blocks' Preds/Succs lists.
func (g *Graph) MakeEdge(src, dst BlockID, flags EdgeFlag) *Edge {
	e := &Edge{Src: src, Dst: dst, Flags: flags, Probability: ProbabilityBase}
	g.attach(e)
	return e
}

func (g *Graph) attach(e *Edge) {
	if srcB := g.Blocks[e.Src]; srcB != nil {
		srcB.Succs = append(srcB.Succs, e)
	}
	if dstB := g.Blocks[e.Dst]; dstB != nil {
		dstB.Preds = append(dstB.Preds, e)
	}
}

func (g *Graph) detach(e *Edge) {
	if srcB := g.Blocks[e.Src]; srcB != nil {
		srcB.Succs = removeEdge(srcB.Succs, e)
	}
	if dstB := g.Blocks[e.Dst]; dstB != nil {
		removePred(dstB, e)
	}
}

// RemoveEdge deletes e from the graph entirely, unlinking it from both its
// source and destination blocks.
func (g *Graph) RemoveEdge(e *Edge) {
	g.detach(e)
}

// FindEdge returns the edge from src to dst, if one exists. Parallel edges
// are not expected between the same pair of blocks outside of the brief
// window between a redirect and its cleanup; FindEdge returns the first
// match.
func (g *Graph) FindEdge(src, dst BlockID) *Edge {
	srcB := g.Blocks[src]
	if srcB == nil {
		return nil
	}
	for _, e := range srcB.Succs {
		if e.Dst == dst {
			return e
		}
	}
	return nil
}

// RedirectEdgeAndBranch moves e's destination from its current Dst to
// newDst, preserving e's pointer identity (and therefore any annotation
// keyed on it) and updating both endpoints' Preds/Succs lists. It returns e
// itself; a caller that receives a different edge back from the real
// primitive this models would treat that as an internal assertion failure,
// but since this implementation always rewires e in place, it cannot fail
// that way.
func (g *Graph) RedirectEdgeAndBranch(e *Edge, newDst BlockID) *Edge {
	if oldDstB := g.Blocks[e.Dst]; oldDstB != nil {
		removePred(oldDstB, e)
	}
	e.Dst = newDst
	if newDstB := g.Blocks[newDst]; newDstB != nil {
		newDstB.Preds = append(newDstB.Preds, e)
	}
	return e
}

// SplitEdge inserts a new empty block in the middle of e, so that
// e now runs src -> newBlock and a fresh fall-through edge runs
// newBlock -> (original dst). The new block is returned.
//
// origDst's phi arguments survive the split: e's slot is removed (along
// with e itself) and its values are carried over onto the new fwd edge's
// slot, since mid is a pure pass-through and fwd sees exactly what e used
// to.
func (g *Graph) SplitEdge(e *Edge) *BasicBlock {
	origDst := e.Dst
	mid := &BasicBlock{ID: NewBlockID(), Label: "split"}
	g.AddBlock(mid)

	var carried []PhiArg
	if dstB := g.Blocks[origDst]; dstB != nil {
		carried = removePred(dstB, e)
	}

	e.Dst = mid.ID
	mid.Preds = append(mid.Preds, e)

	fwd := &Edge{Src: mid.ID, Dst: origDst, Flags: EdgeFallthru, Probability: ProbabilityBase}
	g.attach(fwd)
	if dstB := g.Blocks[origDst]; dstB != nil {
		for i, phi := range dstB.Phis {
			arg := PhiArg{}
			if i < len(carried) {
				arg = carried[i]
			}
			phi.Args = append(phi.Args, arg)
		}
	}
	return mid
}

// MakeForwarderBlock creates a single new predecessor of target that simply
// falls through to it, and returns that block. Used by the loop-header
// threader to synthesize a new loop latch.
func (g *Graph) MakeForwarderBlock(target BlockID) *BasicBlock {
	fwd := &BasicBlock{ID: NewBlockID(), Label: "forwarder"}
	g.AddBlock(fwd)
	g.MakeEdge(fwd.ID, target, EdgeFallthru)
	return fwd
}

// SinglePredP reports whether b has exactly one predecessor edge.
func SinglePredP(b *BasicBlock) bool { return len(b.Preds) == 1 }

// SingleSuccP reports whether b has exactly one successor edge.
func SingleSuccP(b *BasicBlock) bool { return len(b.Succs) == 1 }

func removeEdge(edges []*Edge, target *Edge) []*Edge {
	out := edges[:0]
	for _, e := range edges {
		if e != target {
			out = append(out, e)
		}
	}
	return out
}

// removePred removes e from b.Preds and splices the matching slot out of
// every one of b.Phis's Args, keeping len(Phis[*].Args) == len(Preds) (the
// bijection internal/ssa relies on to index a phi argument by predecessor
// position). Returns the removed slot's value from each phi, in b.Phis
// order, for a caller that needs to carry it onto a replacement edge
// (SplitEdge) rather than discard it.
func removePred(b *BasicBlock, e *Edge) []PhiArg {
	idx := b.PredIndex(e)
	if idx < 0 {
		return nil
	}
	b.Preds = append(b.Preds[:idx], b.Preds[idx+1:]...)

	removed := make([]PhiArg, len(b.Phis))
	for i, phi := range b.Phis {
		if idx >= len(phi.Args) {
			continue
		}
		removed[i] = phi.Args[idx]
		phi.Args = append(phi.Args[:idx], phi.Args[idx+1:]...)
	}
	return removed
}
