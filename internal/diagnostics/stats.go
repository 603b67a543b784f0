package diagnostics

import (
	"fmt"

	"github.com/codepathfinder/jumpthread/output"
	"github.com/dustin/go-humanize"
)

// DumpEventKind distinguishes the three things that can happen to a
// registered path: it is accepted and later threaded, or it is cancelled
// for one of a handful of concrete reasons instead of being threaded.
type DumpEventKind string

const (
	EventRegistered DumpEventKind = "register"
	EventCancelled  DumpEventKind = "cancel"
	EventThreaded   DumpEventKind = "thread"
)

// Cancellation reasons, recorded verbatim in the dump so a reader can tell
// which check rejected a given path.
const (
	ReasonTooManyLoops   = "crosses-three-or-more-loops"
	ReasonJoinerMismatch = "joiner-phi-mismatch"
	ReasonSizeOptCost    = "optimize-for-size-too-expensive"
	ReasonLoopInvariant  = "would-create-multi-entry-loop"
	ReasonNullEdge       = "path-has-null-edge"
	ReasonDebugCounter   = "debug-counter-bisection"
	ReasonLatchDestroyed = "latch-threading-destroyed-loop"
)

// DumpEvent is one line of the per-path dump trail.
type DumpEvent struct {
	Kind   DumpEventKind
	Detail string
}

// Stats accumulates the counters a run reports ("Jumps threaded" and
// friends), plus the dump event trail.
type Stats struct {
	Registered int
	Cancelled  int
	Threaded   int

	CancelledByReason map[string]int

	LoopsNeedFixup        bool
	LoopsMultipleLatches  int

	Events []DumpEvent
}

// NewStats returns a zeroed Stats ready to accumulate one driver run.
func NewStats() *Stats {
	return &Stats{CancelledByReason: make(map[string]int)}
}

// Register records a freshly-registered path.
func (s *Stats) Register(detail string) {
	s.Registered++
	s.Events = append(s.Events, DumpEvent{Kind: EventRegistered, Detail: detail})
}

// Cancel records a path cancelled for reason, before it ever threaded.
func (s *Stats) Cancel(reason, detail string) {
	s.Cancelled++
	s.CancelledByReason[reason]++
	s.Events = append(s.Events, DumpEvent{Kind: EventCancelled, Detail: fmt.Sprintf("%s: %s", reason, detail)})
}

// Thread records a path that was actually applied.
func (s *Stats) Thread(detail string) {
	s.Threaded++
	s.Events = append(s.Events, DumpEvent{Kind: EventThreaded, Detail: detail})
}

// Dump writes a human-readable summary to logger, the dump-file handle of
// a run. Counts are humanized (comma-grouped) the way a long-running
// compiler dump renders large numbers.
func (s *Stats) Dump(logger *output.Logger) {
	logger.Statistic("Jump threading: %s registered, %s threaded, %s cancelled",
		humanize.Comma(int64(s.Registered)),
		humanize.Comma(int64(s.Threaded)),
		humanize.Comma(int64(s.Cancelled)))

	for reason, n := range s.CancelledByReason {
		logger.Statistic("  cancelled (%s): %s", reason, humanize.Comma(int64(n)))
	}

	if s.LoopsNeedFixup {
		logger.Statistic("  loop structure needs fixup after this run")
	}
	if s.LoopsMultipleLatches > 0 {
		logger.Statistic("  %d loop(s) now have multiple latches", s.LoopsMultipleLatches)
	}

	if logger.IsDebug() {
		for _, ev := range s.Events {
			logger.Debug("%s: %s", ev.Kind, ev.Detail)
		}
	}
}
