package cfg

import "github.com/google/uuid"

// BlockID identifies a basic block for the lifetime of the Graph that owns
// it. Two distinct DuplicateBlock calls never produce the same BlockID, even
// if the original block is later removed: callers must not reuse a stale
// BlockID against a Graph that no longer has it.
type BlockID string

// NewBlockID mints a fresh, never-reused block identity.
func NewBlockID() BlockID {
	return BlockID(uuid.NewString())
}

// ControlKind categorizes the terminating statement of a BasicBlock.
type ControlKind int

const (
	// ControlNone means the block falls through to its single successor.
	ControlNone ControlKind = iota
	// ControlBranch means a two-way conditional (true/false successors).
	ControlBranch
	// ControlSwitch means a multi-way dispatch (one successor per case).
	ControlSwitch
	// ControlGoto means an unconditional jump to a single successor.
	ControlGoto
)

// ControlStmt is the terminating statement of a BasicBlock, if any.
type ControlStmt struct {
	Kind ControlKind
	// Cond is the condition text for ControlBranch/ControlSwitch, purely
	// diagnostic: the engine never evaluates it, only preserves or drops it.
	Cond string
}

// SourceLoc is a source location attached to a phi argument, carried along
// so CopyPhiArgs can preserve it across redirection.
type SourceLoc struct {
	File string
	Line int
}

// PhiArg is one argument slot of a Phi, corresponding by position to one
// entry of the owning block's Preds.
type PhiArg struct {
	Value string
	Loc   SourceLoc
}

// Phi is an SSA phi node local to one BasicBlock. len(Args) always equals
// len(owning BasicBlock.Preds); this bijection is an invariant every
// redirection in internal/ssa must preserve.
type Phi struct {
	Name string
	Args []PhiArg
}

// Stmt is an opaque side-effecting statement carried by a block. The engine
// never interprets statement contents, only duplicates or flushes the
// whole slice, so a single string stand-in is enough to exercise every code
// path while staying faithful to the "preserve all side effects" goal.
type Stmt string

// BasicBlock is a node of the control-flow graph.
type BasicBlock struct {
	ID    BlockID
	Label string

	Preds []*Edge
	Succs []*Edge

	Control *ControlStmt
	Phis    []*Phi
	Stmts   []Stmt

	// Freq and Count are profile weight; DuplicateBlock zeroes both on a
	// fresh copy (it is unreachable until wired).
	Freq  int64
	Count int64

	// IsHeader/IsLatch are set and cleared by internal/loopinfo, never by
	// this package, but live here because they are per-block state.
	IsHeader bool
	IsLatch  bool
}

// PredIndex returns the position of e within b.Preds, or -1 if e is not a
// predecessor edge of b. Phi argument slots are indexed this way throughout
// internal/ssa.
func (b *BasicBlock) PredIndex(e *Edge) int {
	for i, p := range b.Preds {
		if p == e {
			return i
		}
	}
	return -1
}

// SuccIndex returns the position of e within b.Succs, or -1 if e is not a
// successor edge of b.
func (b *BasicBlock) SuccIndex(e *Edge) int {
	for i, s := range b.Succs {
		if s == e {
			return i
		}
	}
	return -1
}
