package jumpthread

import (
	"testing"

	"github.com/codepathfinder/jumpthread/internal/config"
	"github.com/codepathfinder/jumpthread/internal/diagnostics"
	"github.com/codepathfinder/jumpthread/internal/loopinfo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestDriverThreadThroughAllBlocksDiamond runs the full driver over the
// diamond scenario: A's branch to B is already known to land at D via B, so
// the whole of B can be bypassed once A's outcome is decided.
func TestDriverThreadThroughAllBlocksDiamond(t *testing.T) {
	g, a, b, _, d := diamondGraph()
	abE := g.FindEdge(a.ID, b.ID)
	bdE := g.FindEdge(b.ID, d.ID)

	stats := diagnostics.NewStats()
	driver := NewDriver(g, loopinfo.NewTree(), config.Default(), stats)

	require.True(t, driver.RegisterJumpThread(&Path{Steps: []JumpThreadEdge{
		{Edge: abE, Kind: StartJumpThread},
		{Edge: bdE, Kind: CopySrcBlock},
	}}))

	changed := driver.ThreadThroughAllBlocks(true)
	assert.True(t, changed)
	assert.NotEqual(t, b.ID, abE.Dst, "A's edge into B was rethreaded")
	assert.Equal(t, 1, stats.Threaded)
	assert.Empty(t, driver.annot.Edges(), "the mandatory final sweep leaves no dangling annotations")
}

func TestDriverThreadThroughAllBlocksNoPathsIsNoop(t *testing.T) {
	g, _, _, _, _ := diamondGraph()
	stats := diagnostics.NewStats()
	driver := NewDriver(g, loopinfo.NewTree(), config.Default(), stats)

	assert.False(t, driver.ThreadThroughAllBlocks(true))
	assert.Equal(t, 0, stats.Threaded)
}

func TestDriverSetsLoopsNeedFixupOnlyWhenSomethingThreaded(t *testing.T) {
	g, a, b, _, d := diamondGraph()
	abE := g.FindEdge(a.ID, b.ID)
	bdE := g.FindEdge(b.ID, d.ID)

	loops := loopinfo.NewTree()
	stats := diagnostics.NewStats()
	driver := NewDriver(g, loops, config.Default(), stats)
	driver.RegisterJumpThread(&Path{Steps: []JumpThreadEdge{
		{Edge: abE, Kind: StartJumpThread},
		{Edge: bdE, Kind: CopySrcBlock},
	}})

	driver.ThreadThroughAllBlocks(true)
	assert.True(t, loops.LoopsStateCheck(loopinfo.LoopsNeedFixup))
}

func TestDriverRegisterAndExplicitDelete(t *testing.T) {
	g, a, b, _, d := diamondGraph()
	abE := g.FindEdge(a.ID, b.ID)
	bdE := g.FindEdge(b.ID, d.ID)

	stats := diagnostics.NewStats()
	driver := NewDriver(g, loopinfo.NewTree(), config.Default(), stats)

	path := &Path{Steps: []JumpThreadEdge{
		{Edge: abE, Kind: StartJumpThread},
		{Edge: bdE, Kind: CopySrcBlock},
	}}
	require.True(t, driver.RegisterJumpThread(path))
	driver.DeleteJumpThreadPath(path)
	assert.Nil(t, driver.annot.Get(abE))

	assert.Same(t, g, driver.Graph())
	assert.Same(t, stats, driver.Stats())
}

func TestDriverRejectsNullEdgePath(t *testing.T) {
	g, a, b, _, _ := diamondGraph()
	abE := g.FindEdge(a.ID, b.ID)

	stats := diagnostics.NewStats()
	driver := NewDriver(g, loopinfo.NewTree(), config.Default(), stats)

	accepted := driver.RegisterJumpThread(&Path{Steps: []JumpThreadEdge{
		{Edge: abE, Kind: StartJumpThread},
		{Edge: nil, Kind: CopySrcBlock},
	}})
	assert.False(t, accepted)
	assert.Equal(t, 1, stats.CancelledByReason[diagnostics.ReasonNullEdge])
	assert.NotNil(t, b)
}
