package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/liliang-cn/azrag/internal/service"
)

var runsLimit int

var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Print the index fields and document count",
	Args:  cobra.NoArgs,
	RunE:  runVerify,
}

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "List recent setup runs",
	Args:  cobra.NoArgs,
	RunE:  runRuns,
}

func init() {
	runsCmd.Flags().IntVarP(&runsLimit, "limit", "n", 10, "Maximum number of runs to show")

	rootCmd.AddCommand(verifyCmd)
	rootCmd.AddCommand(runsCmd)
}

func runVerify(cmd *cobra.Command, _ []string) error {
	index, err := newIndexService()
	if err != nil {
		return err
	}

	report, err := index.VerifyIndex(cmd.Context())
	if err != nil {
		return err
	}
	service.PrintReport(cmd.OutOrStdout(), report)
	return nil
}

func runRuns(cmd *cobra.Command, _ []string) error {
	db, runs := openLedger()
	if db == nil {
		return errors.New("run ledger unavailable at " + cfg.Database.Path)
	}
	defer db.Close()

	list, err := runs.List(runsLimit)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if len(list) == 0 {
		fmt.Fprintln(out, "No setup runs recorded.")
		return nil
	}

	for _, r := range list {
		fmt.Fprintf(out, "%s  %s  %-9s  files=%d chunks=%d uploaded=%d failed=%d\n",
			r.StartedAt.Local().Format(time.DateTime), r.ID, r.Status,
			r.Files, r.Chunks, r.Uploaded, r.Failed)
		if r.Error != "" {
			fmt.Fprintf(out, "    error: %s\n", r.Error)
		}
	}
	return nil
}
