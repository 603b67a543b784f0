// Package fixture loads one function body's control-flow graph, loop
// structure, and pending jump-thread requests from a YAML document using
// gopkg.in/yaml.v3. It exists purely so the thread command has something
// concrete to drive: a real compiler front end would hand a Driver a graph
// it already built, never a serialized one.
package fixture

import (
	"fmt"
	"os"

	"github.com/codepathfinder/jumpthread/internal/cfg"
	"github.com/codepathfinder/jumpthread/internal/jumpthread"
	"github.com/codepathfinder/jumpthread/internal/loopinfo"
	"gopkg.in/yaml.v3"
)

// BlockSpec describes one basic block by a document-local label; edges and
// paths below refer to blocks by this label rather than by cfg.BlockID,
// since real BlockIDs are only minted once the graph is built.
type BlockSpec struct {
	Label string   `yaml:"label"`
	Stmts []string `yaml:"stmts"`
	Phis  []string `yaml:"phis"`
}

// EdgeSpec describes one directed edge between two labeled blocks.
type EdgeSpec struct {
	Src         string `yaml:"src"`
	Dst         string `yaml:"dst"`
	Kind        string `yaml:"kind"` // fallthru, true, false, switch, backedge, abnormal
	Probability int32  `yaml:"probability"`
}

// LoopSpec describes one natural loop by its header/latch labels and the
// full set of blocks it contains (for LoopFather purposes). A nested loop
// sets Outer to its parent's header label. Build registers loops in the
// order they are listed and a block named by several loops belongs to the
// first of them, so a nested loop is listed before the loop enclosing it.
type LoopSpec struct {
	Header  string   `yaml:"header"`
	Latches []string `yaml:"latches"`
	Members []string `yaml:"members"`
	Outer   string   `yaml:"outer"`
}

// StepSpec describes one step of a jump-thread path as a (src, dst) edge
// reference plus the threading kind that edge plays.
type StepSpec struct {
	Src  string `yaml:"src"`
	Dst  string `yaml:"dst"`
	Kind string `yaml:"kind"` // start, copy, joiner, nocopy
}

// PathSpec describes one registered jump-thread request.
type PathSpec struct {
	Steps []StepSpec `yaml:"steps"`
}

// Document is the top-level fixture shape.
type Document struct {
	Blocks []BlockSpec `yaml:"blocks"`
	Edges  []EdgeSpec  `yaml:"edges"`
	Loops  []LoopSpec  `yaml:"loops"`
	Paths  []PathSpec  `yaml:"paths"`
}

// Load reads and parses the fixture at path.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

func edgeFlag(kind string) (cfg.EdgeFlag, error) {
	switch kind {
	case "", "fallthru":
		return cfg.EdgeFallthru, nil
	case "true":
		return cfg.EdgeTrueBranch, nil
	case "false":
		return cfg.EdgeFalseBranch, nil
	case "switch":
		return cfg.EdgeSwitchCase, nil
	case "backedge":
		return cfg.EdgeBackedge, nil
	case "abnormal":
		return cfg.EdgeAbnormal, nil
	default:
		return 0, fmt.Errorf("unknown edge kind %q", kind)
	}
}

func threadKind(kind string) (jumpthread.EdgeKind, error) {
	switch kind {
	case "start":
		return jumpthread.StartJumpThread, nil
	case "copy":
		return jumpthread.CopySrcBlock, nil
	case "joiner":
		return jumpthread.CopySrcJoinerBlock, nil
	case "nocopy":
		return jumpthread.NoCopySrcBlock, nil
	default:
		return 0, fmt.Errorf("unknown path step kind %q", kind)
	}
}

// Build constructs a fresh cfg.Graph and loopinfo.Tree from the document.
// Block labels are resolved to the cfg.BlockID minted for them; doc keeps
// no reference to the returned graph, so Build may be called at most
// usefully once per Document (a second call mints a disjoint graph).
func (d *Document) Build() (*cfg.Graph, *loopinfo.Tree, error) {
	g := cfg.NewGraph()
	byLabel := make(map[string]*cfg.BasicBlock, len(d.Blocks))

	for _, bs := range d.Blocks {
		b := &cfg.BasicBlock{ID: cfg.NewBlockID(), Label: bs.Label}
		for _, s := range bs.Stmts {
			b.Stmts = append(b.Stmts, cfg.Stmt(s))
		}
		for _, name := range bs.Phis {
			b.Phis = append(b.Phis, &cfg.Phi{Name: name})
		}
		g.AddBlock(b)
		byLabel[bs.Label] = b
	}

	resolve := func(label string) (*cfg.BasicBlock, error) {
		b, ok := byLabel[label]
		if !ok {
			return nil, fmt.Errorf("undefined block label %q", label)
		}
		return b, nil
	}

	for _, es := range d.Edges {
		src, err := resolve(es.Src)
		if err != nil {
			return nil, nil, err
		}
		dst, err := resolve(es.Dst)
		if err != nil {
			return nil, nil, err
		}
		flag, err := edgeFlag(es.Kind)
		if err != nil {
			return nil, nil, err
		}
		if src.Control == nil && (flag == cfg.EdgeTrueBranch || flag == cfg.EdgeFalseBranch) {
			src.Control = &cfg.ControlStmt{Kind: cfg.ControlBranch}
		}
		if src.Control == nil && flag == cfg.EdgeSwitchCase {
			src.Control = &cfg.ControlStmt{Kind: cfg.ControlSwitch}
		}
		e := g.MakeEdge(src.ID, dst.ID, flag)
		if es.Probability != 0 {
			e.Probability = es.Probability
		}
	}

	// Phi argument slots are appended in block-registration order of the
	// edges above, matching each block's final Preds order.
	for _, bs := range d.Blocks {
		b := byLabel[bs.Label]
		for _, phi := range b.Phis {
			for range b.Preds {
				phi.Args = append(phi.Args, cfg.PhiArg{})
			}
		}
	}

	tree := loopinfo.NewTree()
	loopByHeader := make(map[string]*loopinfo.Loop, len(d.Loops))
	for _, ls := range d.Loops {
		header, err := resolve(ls.Header)
		if err != nil {
			return nil, nil, err
		}
		l := &loopinfo.Loop{Header: header.ID}
		for _, latchLabel := range ls.Latches {
			latch, err := resolve(latchLabel)
			if err != nil {
				return nil, nil, err
			}
			l.Latches = append(l.Latches, latch.ID)
			latch.IsLatch = true
		}
		header.IsHeader = true
		loopByHeader[ls.Header] = l
	}
	// Wire Outer after every loop exists, so forward/backward references
	// between loop specs both work.
	for _, ls := range d.Loops {
		if ls.Outer == "" {
			continue
		}
		outer, ok := loopByHeader[ls.Outer]
		if !ok {
			return nil, nil, fmt.Errorf("loop %q names unknown outer loop %q", ls.Header, ls.Outer)
		}
		loopByHeader[ls.Header].Outer = outer
		outer.Inner = append(outer.Inner, loopByHeader[ls.Header])
	}
	for _, ls := range d.Loops {
		var members []cfg.BlockID
		for _, label := range ls.Members {
			b, err := resolve(label)
			if err != nil {
				return nil, nil, err
			}
			members = append(members, b.ID)
		}
		tree.AddLoop(loopByHeader[ls.Header], members)
	}

	return g, tree, nil
}

// Dump renders g (and, if non-nil, loops) back into the same document shape
// Load/Build accept, labeling each block by its Label (a duplicate minted
// during threading carries its source's label plus ".copy") and by its raw
// BlockID only when Label is empty. The graph's own entry and exit blocks
// are left out while no edge touches them. Block iteration order follows
// g.Blocks, a Go map, so re-running Dump on the same graph is not byte-stable
// across processes; callers that need a stable diff should sort the result.
func Dump(g *cfg.Graph, loops *loopinfo.Tree) *Document {
	doc := &Document{}
	labelOf := make(map[cfg.BlockID]string, len(g.Blocks))

	for id, b := range g.Blocks {
		if (id == g.Entry || id == g.Exit) && len(b.Preds) == 0 && len(b.Succs) == 0 {
			continue
		}
		label := b.Label
		if label == "" {
			label = string(id)
		}
		labelOf[id] = label

		bs := BlockSpec{Label: label}
		for _, s := range b.Stmts {
			bs.Stmts = append(bs.Stmts, string(s))
		}
		for _, phi := range b.Phis {
			bs.Phis = append(bs.Phis, phi.Name)
		}
		doc.Blocks = append(doc.Blocks, bs)
	}

	for _, b := range g.Blocks {
		for _, e := range b.Succs {
			doc.Edges = append(doc.Edges, EdgeSpec{
				Src:         labelOf[e.Src],
				Dst:         labelOf[e.Dst],
				Kind:        edgeKindLabel(e.Flags),
				Probability: e.Probability,
			})
		}
	}

	if loops != nil {
		for _, l := range loops.Loops {
			ls := LoopSpec{Header: labelOf[l.Header]}
			for _, latch := range l.Latches {
				ls.Latches = append(ls.Latches, labelOf[latch])
			}
			if l.Outer != nil {
				ls.Outer = labelOf[l.Outer.Header]
			}
			for id := range loops.Members(l) {
				ls.Members = append(ls.Members, labelOf[id])
			}
			doc.Loops = append(doc.Loops, ls)
		}
	}

	return doc
}

func edgeKindLabel(flag cfg.EdgeFlag) string {
	switch flag {
	case cfg.EdgeFallthru:
		return "fallthru"
	case cfg.EdgeTrueBranch:
		return "true"
	case cfg.EdgeFalseBranch:
		return "false"
	case cfg.EdgeSwitchCase:
		return "switch"
	case cfg.EdgeBackedge:
		return "backedge"
	case cfg.EdgeAbnormal:
		return "abnormal"
	default:
		return "fallthru"
	}
}

// Marshal renders doc as YAML, the inverse of Load.
func Marshal(doc *Document) ([]byte, error) {
	return yaml.Marshal(doc)
}

// ResolvePaths turns every PathSpec in the document into a *jumpthread.Path
// referencing real edges of g, in the same order they appear in the
// document.
func (d *Document) ResolvePaths(g *cfg.Graph) ([]*jumpthread.Path, error) {
	labelOf := make(map[cfg.BlockID]string, len(d.Blocks))
	byLabel := make(map[string]*cfg.BasicBlock, len(d.Blocks))
	for _, bs := range d.Blocks {
		for id, b := range g.Blocks {
			if b.Label == bs.Label {
				labelOf[id] = bs.Label
				byLabel[bs.Label] = b
			}
		}
	}

	var paths []*jumpthread.Path
	for _, ps := range d.Paths {
		steps := make([]jumpthread.JumpThreadEdge, 0, len(ps.Steps))
		for _, ss := range ps.Steps {
			src, ok := byLabel[ss.Src]
			if !ok {
				return nil, fmt.Errorf("path step references undefined block %q", ss.Src)
			}
			dst, ok := byLabel[ss.Dst]
			if !ok {
				return nil, fmt.Errorf("path step references undefined block %q", ss.Dst)
			}
			e := g.FindEdge(src.ID, dst.ID)
			if e == nil {
				return nil, fmt.Errorf("path step references an edge %s->%s that does not exist", ss.Src, ss.Dst)
			}
			kind, err := threadKind(ss.Kind)
			if err != nil {
				return nil, err
			}
			steps = append(steps, jumpthread.JumpThreadEdge{Edge: e, Kind: kind})
		}
		paths = append(paths, &jumpthread.Path{Steps: steps})
	}
	return paths, nil
}
