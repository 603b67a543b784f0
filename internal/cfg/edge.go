package cfg

// EdgeFlag marks the role an Edge plays in its source block's control
// statement. Mirrors the small closed set a real CFG needs: which arm of a
// branch, whether the edge is a loop back-edge, whether it is abnormal
// (exception unwinding) and therefore never a threading candidate.
type EdgeFlag uint8

const (
	EdgeFallthru EdgeFlag = 1 << iota
	EdgeTrueBranch
	EdgeFalseBranch
	EdgeSwitchCase
	EdgeBackedge
	EdgeAbnormal
)

// Has reports whether f is set on the flag set.
func (f EdgeFlag) Has(bit EdgeFlag) bool { return f&bit != 0 }

// Edge is a directed control-flow edge with stable pointer identity: once
// created, the same *Edge value is reused by RedirectEdgeAndBranch (its Dst
// field changes; the pointer does not) so that anything keyed by edge
// identity, most importantly internal/jumpthread's edge annotation map,
// keeps working across a redirect.
type Edge struct {
	Src, Dst BlockID

	Flags       EdgeFlag
	Probability int32 // 0..ProbabilityBase
	Count       int64

	// Pending holds statements queued for insertion on this edge (e.g. a
	// copy inserted when splitting a critical edge) until
	// internal/ssa.FlushPendingStmts moves them into a real block.
	Pending []Stmt
}

// ProbabilityBase is the denominator Edge.Probability is expressed over: a
// duplicate's single outgoing edge always gets ProbabilityBase (it is now
// unconditional).
const ProbabilityBase int32 = 10000
