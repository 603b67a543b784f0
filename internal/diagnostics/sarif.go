package diagnostics

import (
	"encoding/json"
	"io"

	sarif "github.com/owenrumney/go-sarif/v2/sarif"
)

// WriteSARIF renders s as a SARIF 2.1.0 run so the threading report
// composes with any SARIF-consuming toolchain. Threaded and cancelled dump
// events each become one result: threaded events are notes, cancelled events
// are warnings (something that could have sped up the function did not
// happen). Registered events are not rendered.
func WriteSARIF(w io.Writer, s *Stats) error {
	report, err := sarif.New(sarif.Version210)
	if err != nil {
		return err
	}

	run := sarif.NewRunWithInformationURI("jumpthread", "https://github.com/codepathfinder/jumpthread")
	run.AddRule("jumpthread/threaded").
		WithName("PathThreaded").
		WithDescription("An incoming edge was redirected to bypass a known branch outcome.").
		WithDefaultConfiguration(sarif.NewReportingConfiguration().WithLevel("note"))
	run.AddRule("jumpthread/cancelled").
		WithName("PathCancelled").
		WithDescription("A registered jump-thread request was cancelled instead of being threaded.").
		WithDefaultConfiguration(sarif.NewReportingConfiguration().WithLevel("warning"))

	for _, ev := range s.Events {
		switch ev.Kind {
		case EventThreaded:
			run.CreateResultForRule("jumpthread/threaded").
				WithMessage(sarif.NewTextMessage(ev.Detail))
		case EventCancelled:
			run.CreateResultForRule("jumpthread/cancelled").
				WithMessage(sarif.NewTextMessage(ev.Detail))
		}
	}

	report.AddRun(run)

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(report)
}
