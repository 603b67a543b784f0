// Package jumpthread rewrites a control-flow and SSA graph so that incoming
// edges to a block whose branch outcome is already known from an earlier
// block bypass that branch entirely, landing on the already-known successor
// while preserving every statement along the way.
//
// It consumes the external collaborators internal/cfg, internal/ssa,
// internal/loopinfo, internal/domfix, and internal/profile provide, and owns
// nothing persistent beyond one compilation: register paths with a Driver's
// RegisterJumpThread, then call ThreadThroughAllBlocks once per function
// body.
package jumpthread
