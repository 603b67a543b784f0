package jumpthread

import (
	"github.com/codepathfinder/jumpthread/internal/cfg"
	"github.com/codepathfinder/jumpthread/internal/ssa"
)

// propagateForPlainDuplicate adds a new φ argument at the final destination
// mirroring the original path-final edge's φ arguments, once the
// duplicate's single fall-through edge (fallE) has been wired to the final
// destination.
func propagateForPlainDuplicate(g *cfg.Graph, finalDst *cfg.BasicBlock, fallE, origFinalE *cfg.Edge) {
	ssa.AddPhiArg(finalDst, fallE, origFinalE)
}

// propagateForJoinerDuplicate propagates φ-arguments to every successor of
// the original: every parallel edge dup has relative to src gets the
// matching φ-argument values.
func propagateForJoinerDuplicate(g *cfg.Graph, src, dup *cfg.BasicBlock) {
	ssa.UpdateDestinationPhis(g, src, dup)
}

// propagateForRedirectedJoinerEdge handles the case where a redirect
// actually rerouted an edge (rather than finding an existing parallel
// edge): it copies φ-arguments into the target. Redirecting gives target a
// predecessor it never had before, so, exactly as in the plain case, that
// new slot is filled by mirroring the path's original final edge rather
// than by reading a slot that doesn't exist yet.
func propagateForRedirectedJoinerEdge(target *cfg.BasicBlock, redirectedE, origFinalE *cfg.Edge) {
	ssa.AddPhiArg(target, redirectedE, origFinalE)
}
