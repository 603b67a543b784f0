package jumpthread

import (
	"testing"

	"github.com/codepathfinder/jumpthread/internal/cfg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestThreadSingleEdgeSinglePredStripsInPlace covers the cheap path: b's
// only predecessor is e itself, so nothing needs duplicating; b is reused
// with its useless edges stripped to a plain fall-through toward target.
func TestThreadSingleEdgeSinglePredStripsInPlace(t *testing.T) {
	g := cfg.NewGraph()
	latch := addBlock(g, "Latch")
	header := addBlock(g, "Header")
	target := addBlock(g, "Target")
	other := addBlock(g, "Other")

	e := fallsThrough(g, latch, header.ID)
	fallsThrough(g, header, target.ID)
	fallsThrough(g, header, other.ID)

	annot := NewAnnotations()
	result := ThreadSingleEdge(g, annot, e, target.ID)

	require.Same(t, header, result)
	require.Len(t, header.Succs, 1)
	assert.Equal(t, target.ID, header.Succs[0].Dst)
	assert.Equal(t, cfg.EdgeFallthru, header.Succs[0].Flags)
	assert.Equal(t, cfg.ProbabilityBase, header.Succs[0].Probability)
	assert.Nil(t, header.Control)
}

// TestThreadSingleEdgeMultiPredDuplicates covers the case where b has other
// predecessors: a fresh duplicate is created and wired to target, and e
// alone is redirected onto it.
func TestThreadSingleEdgeMultiPredDuplicates(t *testing.T) {
	g := cfg.NewGraph()
	latch := addBlock(g, "Latch")
	otherPred := addBlock(g, "OtherPred")
	header := addBlock(g, "Header")
	target := addBlock(g, "Target")

	e := fallsThrough(g, latch, header.ID)
	fallsThrough(g, otherPred, header.ID)
	origE := fallsThrough(g, header, target.ID)

	target.Phis = []*cfg.Phi{{Name: "v", Args: []cfg.PhiArg{{Value: "via-header"}}}}

	annot := NewAnnotations()
	dup := ThreadSingleEdge(g, annot, e, target.ID)

	require.NotNil(t, dup)
	assert.NotEqual(t, header.ID, dup.ID)
	require.Len(t, dup.Succs, 1)
	assert.Equal(t, target.ID, dup.Succs[0].Dst)

	assert.Equal(t, dup.ID, e.Dst, "e was redirected onto the duplicate")
	assert.Nil(t, annot.Get(e))

	idx := target.PredIndex(dup.Succs[0])
	require.GreaterOrEqual(t, idx, 0)
	assert.Equal(t, "via-header", target.Phis[0].Args[idx].Value)

	// header itself is untouched: it still has its original edge to target.
	assert.Same(t, origE, header.Succs[0])
}

func TestThreadSingleEdgeCarriesNestedAnnotation(t *testing.T) {
	g := cfg.NewGraph()
	latch := addBlock(g, "Latch")
	otherPred := addBlock(g, "OtherPred")
	header := addBlock(g, "Header")
	target := addBlock(g, "Target")

	e := fallsThrough(g, latch, header.ID)
	fallsThrough(g, otherPred, header.ID)
	origE := fallsThrough(g, header, target.ID)

	annot := NewAnnotations()
	nested := &Path{Steps: []JumpThreadEdge{{Edge: origE, Kind: StartJumpThread}, {Edge: origE, Kind: CopySrcBlock}}}
	annot.Set(origE, nested)

	dup := ThreadSingleEdge(g, annot, e, target.ID)
	require.NotNil(t, dup)
	assert.NotNil(t, annot.Get(dup.Succs[0]), "the nested path travels onto the duplicate's new edge")
}
