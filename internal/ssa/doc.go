// Package ssa provides the phi-node primitives the jump-threading engine
// treats as an external collaborator: reading and writing
// phi arguments by predecessor index, and flushing statements queued on an
// edge into a real block once that edge is no longer critical.
package ssa
