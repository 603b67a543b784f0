package cmd

import (
	"fmt"
	"os"

	"github.com/codepathfinder/jumpthread/internal/diagnostics"
	"github.com/codepathfinder/jumpthread/output"
	"github.com/spf13/cobra"
)

var (
	verboseFlag bool
	debugFlag   bool
	Version     = "0.1.0"
	GitCommit   = "HEAD"
)

var rootCmd = &cobra.Command{
	Use:   "jumpthread",
	Short: "Jump-threading update engine for a mid-level CFG/SSA IR",
	Long: `jumpthread rewrites a control-flow graph so that selected incoming
edges to a conditional block bypass that block's branch, landing directly on
the already-known successor, while preserving SSA form and loop structure.

It does not decide which edges to thread; it executes threading requests an
upstream analysis already produced.`,
	PersistentPreRun: func(cmd *cobra.Command, _ []string) {
		disableMetrics, _ := cmd.Flags().GetBool("disable-metrics") //nolint:all
		verboseFlag, _ = cmd.Flags().GetBool("verbose")             //nolint:all
		debugFlag, _ = cmd.Flags().GetBool("debug")                 //nolint:all
		diagnostics.LoadEnvFile()
		diagnostics.Init(disableMetrics)
		diagnostics.SetVersion(Version)

		// Show banner for help command
		if cmd.Name() == "help" || (len(os.Args) == 1 || (len(os.Args) == 2 && (os.Args[1] == "--help" || os.Args[1] == "-h"))) {
			noBanner, _ := cmd.Flags().GetBool("no-banner")
			logger := output.NewLogger(output.VerbosityDefault)
			if output.ShouldShowBanner(logger.IsTTY(), noBanner) {
				output.PrintBanner(logger.GetWriter(), Version, output.DefaultBannerOptions())
			} else if logger.IsTTY() && !noBanner {
				fmt.Fprintln(os.Stderr, output.GetCompactBanner(Version))
				fmt.Fprintln(os.Stderr)
			}
		}
	},
}

func Execute() error {
	return rootCmd.Execute()
}

// newLogger builds the logger the leaf commands use, honoring --verbose and
// --debug exactly as internal/diagnostics.Stats dumps expect.
func newLogger() *output.Logger {
	verbosity := output.VerbosityDefault
	switch {
	case debugFlag:
		verbosity = output.VerbosityDebug
	case verboseFlag:
		verbosity = output.VerbosityVerbose
	}
	return output.NewLogger(verbosity)
}

func init() {
	rootCmd.PersistentFlags().Bool("disable-metrics", false, "Disable anonymous usage metrics")
	rootCmd.PersistentFlags().Bool("verbose", false, "Verbose output")
	rootCmd.PersistentFlags().Bool("debug", false, "Debug output (implies verbose)")
	rootCmd.PersistentFlags().Bool("no-banner", false, "Disable startup banner")
}
