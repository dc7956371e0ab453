// Package cli implements azragctl, the command line tool that builds and
// inspects the search index the server answers from.
package cli

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/liliang-cn/azrag/internal/config"
)

var (
	configPath string
	pdfDir     string

	cfg    *config.Config
	logger = zap.NewNop()
)

var rootCmd = &cobra.Command{
	Use:   "azragctl",
	Short: "Manage the azrag document index",
	Long: `azragctl checks Azure credentials, builds the search index from a
directory of PDFs and reports on its contents.

Run setup before starting azrag-server; the server must not answer
questions while the index is being rebuilt.`,
	SilenceUsage:      true,
	PersistentPreRunE: loadConfig,
	PersistentPostRun: func(*cobra.Command, []string) {
		_ = logger.Sync()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to config file")
	rootCmd.PersistentFlags().StringVar(&pdfDir, "pdf-dir", "", "Directory of PDFs to index (overrides AZRAG_PDF_DIR)")
}

// Execute runs azragctl until completion or an interrupt
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	return rootCmd.ExecuteContext(ctx)
}

func loadConfig(*cobra.Command, []string) error {
	loaded, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if pdfDir != "" {
		loaded.Storage.PDFDir = pdfDir
	}
	cfg = loaded

	// stdout carries the human readable progress; the logger only surfaces problems
	zc := zap.NewDevelopmentConfig()
	zc.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	l, err := zc.Build()
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	logger = l
	return nil
}
