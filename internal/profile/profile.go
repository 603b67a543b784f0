// Package profile provides the profile-weight primitives the jump-threading
// engine treats as an external collaborator: edge frequency, a ceiling on
// block frequency, and the block-profile adjustment
// applied when a nested thread changes how often a block is entered from a
// path that is about to be threaded away.
package profile

import "github.com/codepathfinder/jumpthread/internal/cfg"

// BBFreqMax is the ceiling basic-block frequency is expressed against.
const BBFreqMax int64 = 10000

// EdgeFrequency estimates how often e is taken, derived from its source
// block's frequency and its probability.
func EdgeFrequency(g *cfg.Graph, e *cfg.Edge) int64 {
	srcB := g.Block(e.Src)
	if srcB == nil {
		return 0
	}
	return srcB.Freq * int64(e.Probability) / int64(cfg.ProbabilityBase)
}

// UpdateBBProfileForThreading adjusts b's frequency and count downward by
// the weight of the edge that is being threaded away from it, clamping at
// zero. Called from internal/jumpthread's thread_block when the first step
// of a path sources from the block currently being threaded (a "nested
// thread").
func UpdateBBProfileForThreading(b *cfg.BasicBlock, removedFreq, removedCount int64) {
	b.Freq -= removedFreq
	if b.Freq < 0 {
		b.Freq = 0
	}
	b.Count -= removedCount
	if b.Count < 0 {
		b.Count = 0
	}
}
