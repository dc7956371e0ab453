package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Rebuild the search index from the PDF directory",
	Long: `Deletes and recreates the search index, extracts and chunks every PDF
in the PDF directory, uploads the chunks and prints a verification report.
If the directory holds no PDFs the new index is left empty.`,
	Args: cobra.NoArgs,
	RunE: runSetup,
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Index the PDF directory, skipping the index when it is empty",
	Long: `Processes the PDF directory first. When there is nothing to upload
the existing index is left untouched; otherwise the index is recreated and
the chunks are uploaded.`,
	Args: cobra.NoArgs,
	RunE: runInit,
}

func init() {
	rootCmd.AddCommand(setupCmd)
	rootCmd.AddCommand(initCmd)
}

func runSetup(cmd *cobra.Command, _ []string) error {
	setup, cleanup, err := newSetupService(cmd.OutOrStdout())
	if err != nil {
		return err
	}
	defer cleanup()

	fmt.Fprintln(cmd.OutOrStdout(), "Starting Azure Search index setup...")
	_, err = setup.Run(cmd.Context(), cfg.Storage.PDFDir)
	return err
}

func runInit(cmd *cobra.Command, _ []string) error {
	setup, cleanup, err := newSetupService(cmd.OutOrStdout())
	if err != nil {
		return err
	}
	defer cleanup()

	_, err = setup.Init(cmd.Context(), cfg.Storage.PDFDir)
	return err
}
