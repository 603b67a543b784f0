package jumpthread

import (
	"github.com/codepathfinder/jumpthread/internal/cfg"
	"github.com/codepathfinder/jumpthread/internal/diagnostics"
)

// addBlock creates and registers a labeled block with g, independent of its
// entry/exit pair.
func addBlock(g *cfg.Graph, label string) *cfg.BasicBlock {
	b := &cfg.BasicBlock{ID: cfg.NewBlockID(), Label: label}
	g.AddBlock(b)
	return b
}

// branch turns src into a two-way branch with the given true/false targets.
func branch(g *cfg.Graph, src *cfg.BasicBlock, t, f cfg.BlockID) (*cfg.Edge, *cfg.Edge) {
	src.Control = &cfg.ControlStmt{Kind: cfg.ControlBranch, Cond: "cond"}
	te := g.MakeEdge(src.ID, t, cfg.EdgeTrueBranch)
	fe := g.MakeEdge(src.ID, f, cfg.EdgeFalseBranch)
	return te, fe
}

// fallsThrough wires a single unconditional edge from src to dst.
func fallsThrough(g *cfg.Graph, src *cfg.BasicBlock, dst cfg.BlockID) *cfg.Edge {
	return g.MakeEdge(src.ID, dst, cfg.EdgeFallthru)
}

// newStats returns a fresh counters sink for a test run.
func newStats() *diagnostics.Stats {
	return diagnostics.NewStats()
}

// diamondGraph builds a classic diamond scenario:
//
//	A -(true)-> B -> D
//	A -(false)-> C -> D
//
// with D a joiner carrying one phi fed by B and C. Returns the graph and
// every named block.
func diamondGraph() (g *cfg.Graph, a, b, c, d *cfg.BasicBlock) {
	g = cfg.NewGraph()
	a = addBlock(g, "A")
	b = addBlock(g, "B")
	c = addBlock(g, "C")
	d = addBlock(g, "D")

	branch(g, a, b.ID, c.ID)
	fallsThrough(g, b, d.ID)
	fallsThrough(g, c, d.ID)

	d.Phis = []*cfg.Phi{{
		Name: "x",
		Args: []cfg.PhiArg{
			{Value: "from-b"},
			{Value: "from-c"},
		},
	}}
	return
}
