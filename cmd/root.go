package cmd

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	applog "github.com/intizar/easyapply/pkg/log"
	"github.com/intizar/easyapply/pkg/style"
)

var (
	quiet   bool
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "easyapply",
	Short: "Automated easy-apply job applications",
	Long: `easyapply drives multi-step easy-apply flows for discovered job postings.

It decides per posting whether to apply (dedup, blacklists, salary
thresholds), answers application questions from a persistent learned
dictionary, and records every attempt in an append-only outcome ledger.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		applog.SetVerbose(verbose)
		applog.SetQuiet(quiet)
	},
}

func Execute() {
	// Load .env file if it exists (credentials live there)
	_ = godotenv.Load()

	applog.Init()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Setup Typer-style help formatting
	style.SetupHelp(rootCmd)

	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Suppress non-essential output")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
}
