package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

var (
	flagDisableStringLookup bool
	flagVerbose             bool

	logger *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "ecrsctl",
	Short: "Inspect and query an in-process entity-component-relational module",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := slog.LevelWarn
		if flagVerbose {
			level = slog.LevelDebug
		}
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&flagDisableStringLookup, "disable-string-lookup", false,
		"register component ids without populating the name->id forward map")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "enable debug logging")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(inspectCmd)
}

// Execute runs the root command, exiting the process on error.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
