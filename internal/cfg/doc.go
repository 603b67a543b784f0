// Package cfg provides the control-flow graph primitives the jump-threading
// engine treats as an external collaborator: basic blocks, edges, block
// duplication, and edge redirection.
//
// # Basic blocks and edges
//
// A Graph owns a set of BasicBlock values linked by Edge values. Unlike a
// plain adjacency list keyed by string id, an Edge here is a first-class
// value with its own identity (a *Edge pointer never changes once the edge
// exists), because the jump-threading engine needs to attach a path
// annotation to one specific incoming edge and later find it again by
// pointer identity, see internal/jumpthread.
//
// # Mutating the graph
//
// Graph exposes exactly the primitives required of a CFG host: MakeEdge,
// DuplicateBlock, RedirectEdgeAndBranch, RemoveEdge, FindEdge,
// SplitEdge, MakeForwarderBlock, plus SinglePredP/SingleSuccP predicates.
// Every mutation keeps each BasicBlock's Preds/Succs lists and every Edge's
// Src/Dst fields consistent with each other; nothing else in this module
// should append to those slices directly.
package cfg
