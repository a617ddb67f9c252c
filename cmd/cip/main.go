// Command cip is the engine's CLI wrapper: cobra/pflag subcommands wired
// around the param.Store and engine.Engine APIs, replacing the teacher's
// bare flag-based main.go (§1.1).
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/opencip/cip/internal/obslog"
	"github.com/opencip/cip/param"
)

var (
	paramsPath string
	verbose    bool
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "cip",
	Short: "A constraint integer programming solver core",
	Long:  "cip drives the branch-and-bound search engine: solve a problem file, inspect or edit parameters, and report the solver version.",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		obslog.SetVerbose(verbose)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&paramsPath, "params", "", "parameter file to load before running")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "raise the log level to debug")
	rootCmd.AddCommand(solveCmd)
	rootCmd.AddCommand(paramsCmd)
	rootCmd.AddCommand(versionCmd)
}

// loadParams builds the standard parameter store and, if --params was
// given, overlays the file on top of the registered defaults.
func loadParams() (*param.Store, error) {
	store := newDefaultParams()
	if paramsPath == "" {
		return store, nil
	}
	if err := store.ReadFilePath(paramsPath); err != nil {
		return nil, err
	}
	return store, nil
}
