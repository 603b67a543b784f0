package cfg

// DuplicateBlock clones src's statements, control statement, and phi shape
// into a brand-new, unattached block: no Preds, no Succs, zero Freq/Count.
// The caller (internal/jumpthread's block duplicator) is responsible for
// wiring the copy into the graph. This is the external "duplicate_block"
// primitive.
func (g *Graph) DuplicateBlock(src BlockID) *BasicBlock {
	srcB := g.Blocks[src]
	if srcB == nil {
		return nil
	}

	dup := &BasicBlock{
		ID:    NewBlockID(),
		Label: srcB.Label + ".copy",
		Stmts: append([]Stmt{}, srcB.Stmts...),
	}
	if srcB.Control != nil {
		c := *srcB.Control
		dup.Control = &c
	}
	dup.Phis = make([]*Phi, len(srcB.Phis))
	for i, p := range srcB.Phis {
		dup.Phis[i] = &Phi{Name: p.Name, Args: append([]PhiArg{}, p.Args...)}
	}

	g.AddBlock(dup)
	return dup
}

// RemoveCtrlStmtAndUselessEdges drops b's terminating control statement (if
// any) and every outgoing edge of b except the one to keep, which must
// currently be one of b's successors. If keep is nil, every successor edge
// is removed. This is the "remove_ctrl_stmt_and_useless_edges(B, D)"
// primitive.
func (g *Graph) RemoveCtrlStmtAndUselessEdges(b *BasicBlock, keep *Edge) {
	b.Control = nil

	succs := append([]*Edge{}, b.Succs...)
	var kept []*Edge
	for _, e := range succs {
		if e == keep {
			kept = append(kept, e)
			continue
		}
		g.RemoveEdge(e)
	}
	b.Succs = kept
}
