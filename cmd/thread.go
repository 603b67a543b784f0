package cmd

import (
	"fmt"
	"os"

	"github.com/codepathfinder/jumpthread/internal/config"
	"github.com/codepathfinder/jumpthread/internal/diagnostics"
	"github.com/codepathfinder/jumpthread/internal/fixture"
	"github.com/codepathfinder/jumpthread/internal/jumpthread"
	"github.com/codepathfinder/jumpthread/internal/loopinfo"
	"github.com/spf13/cobra"
)

var (
	fixturePath  string
	configPath   string
	sarifOutPath string
	graphOutPath string
)

var threadCmd = &cobra.Command{
	Use:   "thread",
	Short: "Apply every pending jump-thread request to one function's CFG/SSA",
	Long: `thread reads a fixture describing a function body's control-flow graph,
loop structure, and the jump-thread requests an upstream analysis already
decided on, then runs them to completion the same way a compiler pass would:
mark, non-loop thread, loop-header thread, cleanup.`,
	RunE: runThread,
}

func init() {
	threadCmd.Flags().StringVar(&fixturePath, "fixture", "", "path to a CFG/SSA/paths fixture (required)")
	threadCmd.Flags().StringVar(&configPath, "config", "", "path to an engine options YAML file")
	threadCmd.Flags().StringVar(&sarifOutPath, "sarif-out", "", "optional path to write a SARIF report of what threaded and what was cancelled")
	threadCmd.Flags().StringVar(&graphOutPath, "out", "", "optional path to write the rewritten CFG back out as a fixture")
	_ = threadCmd.MarkFlagRequired("fixture")
	rootCmd.AddCommand(threadCmd)
}

func runThread(cmd *cobra.Command, _ []string) (err error) {
	logger := newLogger()

	// An internal assertion failure (jumpthread.Bug) is reported as an
	// ordinary command error rather than crashing the process;
	// internal/jumpthread never recovers one itself, so this CLI boundary
	// is where it is caught.
	defer func() {
		if r := recover(); r != nil {
			if b, ok := r.(jumpthread.Bug); ok {
				err = fmt.Errorf("jumpthread: internal assertion failed: %s", b.Msg)
				return
			}
			panic(r)
		}
	}()

	resolvedConfigPath := config.ResolvePath(configPath, "")
	opts := config.Default()
	if resolvedConfigPath != "" {
		opts, err = config.Load(resolvedConfigPath)
		if err != nil {
			return fmt.Errorf("loading engine config: %w", err)
		}
	}

	doc, err := fixture.Load(fixturePath)
	if err != nil {
		return fmt.Errorf("loading fixture: %w", err)
	}

	g, loops, err := doc.Build()
	if err != nil {
		return fmt.Errorf("building graph from fixture: %w", err)
	}

	stats := diagnostics.NewStats()
	driver := jumpthread.NewDriver(g, loops, opts, stats)

	diagnostics.ReportEvent(diagnostics.ThreadRunStarted)

	paths, err := doc.ResolvePaths(g)
	if err != nil {
		diagnostics.ReportEvent(diagnostics.ThreadRunFailed)
		return fmt.Errorf("resolving paths: %w", err)
	}
	for _, p := range paths {
		driver.RegisterJumpThread(p)
	}

	logger.Progress("Threading %d registered path(s) across %d block(s)...", len(paths), len(g.Blocks))
	changed := driver.ThreadThroughAllBlocks(opts.MayPeelLoopHeaders)

	stats.LoopsNeedFixup = loops.LoopsStateCheck(loopinfo.LoopsNeedFixup)
	stats.Dump(logger)

	if sarifOutPath != "" {
		f, ferr := os.Create(sarifOutPath)
		if ferr != nil {
			return fmt.Errorf("creating SARIF output: %w", ferr)
		}
		defer f.Close()
		if werr := diagnostics.WriteSARIF(f, stats); werr != nil {
			return fmt.Errorf("writing SARIF output: %w", werr)
		}
	}

	if graphOutPath != "" {
		out, merr := fixture.Marshal(fixture.Dump(g, loops))
		if merr != nil {
			return fmt.Errorf("rendering rewritten CFG: %w", merr)
		}
		if werr := os.WriteFile(graphOutPath, out, 0o644); werr != nil {
			return fmt.Errorf("writing rewritten CFG: %w", werr)
		}
	}

	if changed {
		diagnostics.ReportEventWithProperties(diagnostics.ThreadRunCompleted, map[string]interface{}{
			"threaded":   stats.Threaded,
			"cancelled":  stats.Cancelled,
			"registered": stats.Registered,
		})
	} else {
		diagnostics.ReportEvent(diagnostics.ThreadRunCompleted)
	}

	return nil
}
