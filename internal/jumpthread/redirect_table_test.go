package jumpthread

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRedirectionTableGroupsBySuffix(t *testing.T) {
	g, a, b, c, d := diamondGraph()
	abE := g.FindEdge(a.ID, b.ID)
	acE := g.FindEdge(a.ID, c.ID)
	bdE := g.FindEdge(b.ID, d.ID)
	cdE := g.FindEdge(c.ID, d.ID)

	table := NewRedirectionTable(2)

	p1 := twoStepPath(abE, bdE, CopySrcBlock)
	entry1, created1 := table.LookupInsert(abE, p1)
	assert.True(t, created1)

	p2 := twoStepPath(acE, bdE, CopySrcBlock)
	entry2, created2 := table.LookupInsert(acE, p2)
	assert.False(t, created2, "same suffix (ignoring index 0) reuses the entry")
	assert.Same(t, entry1, entry2)
	assert.Equal(t, 2, len(entry2.Incoming))

	p3 := twoStepPath(acE, cdE, CopySrcBlock)
	entry3, created3 := table.LookupInsert(acE, p3)
	assert.True(t, created3, "different final edge is a distinct suffix")
	assert.NotSame(t, entry1, entry3)

	assert.Len(t, table.Entries(), 2)
	assert.Equal(t, entry1, table.Entries()[0], "insertion order is preserved")
	assert.Equal(t, entry3, table.Entries()[1])
}

func TestRedirectionTableLookupNoInsert(t *testing.T) {
	g, a, b, _, d := diamondGraph()
	abE := g.FindEdge(a.ID, b.ID)
	bdE := g.FindEdge(b.ID, d.ID)

	table := NewRedirectionTable(1)
	p := twoStepPath(abE, bdE, CopySrcBlock)

	assert.Nil(t, table.LookupNoInsert(p))
	table.LookupInsert(abE, p)
	assert.NotNil(t, table.LookupNoInsert(p))
}

func TestRedirectionTableClear(t *testing.T) {
	g, a, b, _, d := diamondGraph()
	abE := g.FindEdge(a.ID, b.ID)
	bdE := g.FindEdge(b.ID, d.ID)

	table := NewRedirectionTable(1)
	p := twoStepPath(abE, bdE, CopySrcBlock)
	table.LookupInsert(abE, p)

	table.Clear()
	assert.Empty(t, table.Entries())
	assert.Nil(t, table.LookupNoInsert(p))
}
