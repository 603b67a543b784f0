package jumpthread

import (
	"testing"

	"github.com/codepathfinder/jumpthread/internal/cfg"
	"github.com/stretchr/testify/assert"
)

func TestPropagateForPlainDuplicate(t *testing.T) {
	g, _, b, _, d := diamondGraph()
	bdE := g.FindEdge(b.ID, d.ID)

	dup := addBlock(g, "B.copy")
	fallE := fallsThrough(g, dup, d.ID)

	propagateForPlainDuplicate(g, d, fallE, bdE)

	idx := d.PredIndex(fallE)
	assert.GreaterOrEqual(t, idx, 0)
	assert.Equal(t, "from-b", d.Phis[0].Args[idx].Value)
}

func TestPropagateForJoinerDuplicate(t *testing.T) {
	g, a, b, c, _ := diamondGraph()
	b.Phis = []*cfg.Phi{{Name: "y", Args: []cfg.PhiArg{{Value: "seen-at-b"}}}}
	c.Phis = []*cfg.Phi{{Name: "y", Args: []cfg.PhiArg{{Value: "seen-at-c"}}}}

	dup := MakeTemplate(g, a, true)
	// mirrorSuccessors already wired dup -> b and dup -> c; give each a phi
	// slot to receive the propagated value.
	for _, e := range dup.Succs {
		dst := g.Block(e.Dst)
		dst.Phis[0].Args = append(dst.Phis[0].Args, cfg.PhiArg{})
	}

	propagateForJoinerDuplicate(g, a, dup)

	bParallel := g.FindEdge(dup.ID, b.ID)
	idx := b.PredIndex(bParallel)
	origIdx := b.PredIndex(g.FindEdge(a.ID, b.ID))
	assert.Equal(t, b.Phis[0].Args[origIdx].Value, b.Phis[0].Args[idx].Value)
}

func TestPropagateForRedirectedJoinerEdge(t *testing.T) {
	g, _, b, _, d := diamondGraph()
	bdE := g.FindEdge(b.ID, d.ID)

	other := addBlock(g, "other")
	redirectedE := fallsThrough(g, other, d.ID)

	propagateForRedirectedJoinerEdge(d, redirectedE, bdE)

	idx := d.PredIndex(redirectedE)
	assert.GreaterOrEqual(t, idx, 0)
	assert.Equal(t, "from-b", d.Phis[0].Args[idx].Value)
}
