package jumpthread

import "github.com/codepathfinder/jumpthread/internal/cfg"

// EdgeKind classifies one step of a Path.
type EdgeKind int

const (
	// StartJumpThread is always index 0 of a path: the incoming edge that
	// triggers threading.
	StartJumpThread EdgeKind = iota
	// CopySrcBlock marks a block whose statements must be duplicated on
	// this path.
	CopySrcBlock
	// CopySrcJoinerBlock marks a block with multiple predecessors whose
	// control statement must be kept.
	CopySrcJoinerBlock
	// NoCopySrcBlock marks a block traversed but not duplicated.
	NoCopySrcBlock
)

func (k EdgeKind) String() string {
	switch k {
	case StartJumpThread:
		return "start"
	case CopySrcBlock:
		return "copy"
	case CopySrcJoinerBlock:
		return "joiner"
	case NoCopySrcBlock:
		return "nocopy"
	default:
		return "unknown"
	}
}

// JumpThreadEdge is one step in a thread Path.
type JumpThreadEdge struct {
	Edge *cfg.Edge
	Kind EdgeKind
}

// Path is an ordered sequence of steps of length >= 2. Index 0 is always
// StartJumpThread; index 1 determines the mode (plain copy vs. joiner); the
// last element is never a joiner, and its edge's destination is the path's
// final target.
type Path struct {
	Steps []JumpThreadEdge
}

// StartEdge returns the edge that triggers this path's threading.
func (p *Path) StartEdge() *cfg.Edge {
	if len(p.Steps) == 0 {
		return nil
	}
	return p.Steps[0].Edge
}

// ModeKind returns the kind that determines this path's mode: plain copy or
// joiner. A path shorter than 2 steps has no mode; callers must not call
// this on one (PathStore.Register does not check a path's length).
func (p *Path) ModeKind() EdgeKind {
	return p.Steps[1].Kind
}

// FinalEdge returns the last step's edge, whose destination is the path's
// final target.
func (p *Path) FinalEdge() *cfg.Edge {
	return p.Steps[len(p.Steps)-1].Edge
}

// FinalTarget returns the block id the path ultimately lands on.
func (p *Path) FinalTarget() cfg.BlockID {
	return p.FinalEdge().Dst
}

// HasNullEdge reports whether any step of p carries a nil edge, the
// condition register rejects a path for.
func (p *Path) HasNullEdge() bool {
	for _, s := range p.Steps {
		if s.Edge == nil {
			return true
		}
	}
	return false
}

// Clone returns a deep copy of p's step slice (but not the underlying
// *cfg.Edge values, which are shared graph state). Used when a nested
// thread's final edge itself carries a path that must be deep-cloned onto
// a freshly wired edge.
func (p *Path) Clone() *Path {
	steps := make([]JumpThreadEdge, len(p.Steps))
	copy(steps, p.Steps)
	return &Path{Steps: steps}
}

// SameSuffix reports whether p and other are equal under the redirection
// table's notion of path identity: same length, and for every index i >= 1
// both the kind and the underlying edge identity match. Index 0 is
// deliberately excluded so that distinct incoming edges sharing the same
// threadable suffix are recognized as such.
func (p *Path) SameSuffix(other *Path) bool {
	if len(p.Steps) != len(other.Steps) {
		return false
	}
	for i := 1; i < len(p.Steps); i++ {
		if p.Steps[i].Kind != other.Steps[i].Kind {
			return false
		}
		if p.Steps[i].Edge != other.Steps[i].Edge {
			return false
		}
	}
	return true
}

// Bug is the internal-assertion panic value: something the
// engine treats as never expected to happen, e.g. redirect_edge_and_branch
// returning a different edge than the one supplied. It is never recovered
// inside this package, only at the CLI boundary.
type Bug struct {
	Msg string
}

func (b Bug) Error() string { return b.Msg }

func bug(msg string) { panic(Bug{Msg: msg}) }
