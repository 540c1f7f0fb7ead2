package cmd

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/intizar/easyapply/pkg/config"
	"github.com/intizar/easyapply/pkg/domain"
	"github.com/intizar/easyapply/pkg/store"
	"github.com/intizar/easyapply/pkg/style"
)

var (
	csvFlag   string
	sinceFlag time.Duration
	statsFlag bool
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show the application outcome ledger",
	Long: `List every recorded application attempt and its result.

Examples:
  easyapply history
  easyapply history --since 48h
  easyapply history --stats
  easyapply history --csv output.csv`,
	RunE: runHistory,
}

func init() {
	historyCmd.Flags().StringVar(&csvFlag, "csv", "", "Export the ledger to a CSV file")
	historyCmd.Flags().DurationVar(&sinceFlag, "since", 0, "Only show entries newer than this (e.g. 48h)")
	historyCmd.Flags().BoolVar(&statsFlag, "stats", false, "Show per-result counts instead of rows")
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	st, err := store.Open(cfg.DBPath)
	if err != nil {
		return err
	}
	defer st.Close()

	ctx := cmd.Context()

	if statsFlag {
		stats, err := st.Stats(ctx)
		if err != nil {
			return err
		}
		for result, n := range stats {
			fmt.Printf("%-22s %d\n", result, n)
		}
		return nil
	}

	since := time.Time{}
	if sinceFlag > 0 {
		since = time.Now().Add(-sinceFlag)
	}
	entries, err := st.OutcomesSince(ctx, since)
	if err != nil {
		return err
	}

	if csvFlag != "" {
		return exportCSV(csvFlag, entries)
	}

	if len(entries) == 0 {
		fmt.Println("No attempts recorded yet.")
		return nil
	}
	for _, e := range entries {
		fmt.Printf("%s  %s  %s  %s  %s\n",
			e.Timestamp.Format("2006-01-02 15:04:05"),
			style.C(style.Cyan, e.JobID),
			e.Title,
			e.Company,
			string(e.Result),
		)
	}
	return nil
}

// exportCSV writes the ledger in the legacy output.csv column order:
// timestamp, jobID, job, company, attempted, result.
func exportCSV(path string, entries []domain.OutcomeEntry) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	for _, e := range entries {
		row := []string{
			e.Timestamp.Format("2006-01-02 15:04:05"),
			e.JobID,
			e.Title,
			e.Company,
			strconv.FormatBool(e.Attempted),
			string(e.Result),
		}
		if err := w.Write(row); err != nil {
			return fmt.Errorf("write csv: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	fmt.Printf("Exported %d entries to %s\n", len(entries), path)
	return nil
}
