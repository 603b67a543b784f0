package jumpthread

import "github.com/codepathfinder/jumpthread/internal/cfg"

// MakeTemplate creates the first duplicate visited for one RedirectionTable
// traversal. Every duplicate of src on a given traversal shares the same
// shape (plain or joiner); later duplicates clone from the returned
// template rather than src.
//
// A plain template has no outgoing edges and no control statement: the
// fall-through edge it eventually needs is added once the duplicate's path
// target is known. A joiner template retains src's control statement and
// gets one mirrored outgoing edge per src successor, so a later search for
// "the duplicate's outgoing edge that parallels the joiner edge" has
// somewhere to look.
func MakeTemplate(g *cfg.Graph, src *cfg.BasicBlock, joiner bool) *cfg.BasicBlock {
	dup := g.DuplicateBlock(src.ID)
	if joiner {
		mirrorSuccessors(g, src, dup)
		return dup
	}
	g.RemoveCtrlStmtAndUselessEdges(dup, nil)
	return dup
}

// CloneFromTemplate produces one more duplicate sharing template's shape.
// cfg.DuplicateBlock never copies outgoing edges (every duplicate starts
// unattached), so a joiner clone must re-mirror src's successors itself;
// template only supplies the already-stripped (or already-retained) control
// statement and phi shape.
func CloneFromTemplate(g *cfg.Graph, template, src *cfg.BasicBlock, joiner bool) *cfg.BasicBlock {
	dup := g.DuplicateBlock(template.ID)
	if joiner {
		mirrorSuccessors(g, src, dup)
	}
	return dup
}

// mirrorSuccessors wires dup with one fresh outgoing edge per successor of
// src, to the same destination and with the same flags and probability, so
// dup occupies the same position in the graph src does. The new edges carry
// no annotation and no count (dup is unreachable until the redirection
// engine bumps its profile from the edges actually redirected onto it).
func mirrorSuccessors(g *cfg.Graph, src, dup *cfg.BasicBlock) {
	for _, e := range src.Succs {
		newE := g.MakeEdge(dup.ID, e.Dst, e.Flags)
		newE.Probability = e.Probability
	}
}
