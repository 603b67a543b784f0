package diagnostics_test

import (
	"testing"

	"github.com/codepathfinder/jumpthread/internal/diagnostics"
	"github.com/stretchr/testify/assert"
)

func TestDebugCounterDefaultAllowsEverything(t *testing.T) {
	c := diagnostics.NewDebugCounter("t")
	for i := 0; i < 5; i++ {
		assert.True(t, c.Allow())
	}
	assert.Equal(t, 5, c.Count())
}

func TestDebugCounterSetRangeBisects(t *testing.T) {
	c := diagnostics.NewDebugCounter("t")
	c.SetRange(2, 3)

	got := []bool{}
	for i := 0; i < 5; i++ {
		got = append(got, c.Allow())
	}
	assert.Equal(t, []bool{false, false, true, true, false}, got)
}
