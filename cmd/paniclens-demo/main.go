// Command paniclens-demo triggers a panic a few calls deep so the
// rendered report can be inspected with different settings.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/paniclens/paniclens"
	"github.com/paniclens/paniclens/reportfile"
	"github.com/paniclens/paniclens/sink"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		verbosity   string
		stripHashes bool
		addresses   bool
		light       bool
		reportDir   string
	)

	cmd := &cobra.Command{
		Use:   "paniclens-demo",
		Short: "Trigger a demo panic and render it with paniclens",
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := paniclens.NewOptions().
				WithStripHashes(stripHashes).
				WithPrintAddresses(addresses)

			switch verbosity {
			case "minimal":
				opts.WithVerbosity(paniclens.VerbosityMinimal)
			case "medium":
				opts.WithVerbosity(paniclens.VerbosityMedium)
			case "full":
				opts.WithVerbosity(paniclens.VerbosityFull)
			case "":
				// keep the environment-derived level
			default:
				return fmt.Errorf("unknown verbosity %q", verbosity)
			}

			if light {
				opts.WithScheme(sink.LightScheme())
			}
			if reportDir != "" {
				opts.WithReportFiles(reportfile.NewWriter(reportDir, 0, nil))
			}

			paniclens.Install(opts)
			defer paniclens.HandlePanic()

			outer()
			return nil
		},
	}

	cmd.Flags().StringVar(&verbosity, "verbosity", "", "report verbosity: minimal, medium, or full")
	cmd.Flags().BoolVar(&stripHashes, "strip-hashes", false, "drop mangled hash suffixes from symbol names")
	cmd.Flags().BoolVar(&addresses, "addresses", false, "print raw instruction addresses")
	cmd.Flags().BoolVar(&light, "light", false, "use the light color scheme")
	cmd.Flags().StringVar(&reportDir, "report-dir", "", "also write the report to this directory")

	return cmd
}

func outer() { middle() }

func middle() { inner() }

func inner() {
	panic("exhausting the available money supply")
}
