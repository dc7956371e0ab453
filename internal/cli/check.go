package cli

import (
	"github.com/spf13/cobra"

	"github.com/liliang-cn/azrag/internal/diagnostics"
)

var checkSearchCmd = &cobra.Command{
	Use:   "check-search",
	Short: "Verify the Azure AI Search credentials",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return diagnostics.NewChecker(cmd.OutOrStdout()).CheckSearch(cmd.Context(), cfg)
	},
}

var checkOpenAICmd = &cobra.Command{
	Use:   "check-openai",
	Short: "Verify the Azure OpenAI credentials and deployment",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return diagnostics.NewChecker(cmd.OutOrStdout()).CheckOpenAI(cmd.Context(), cfg)
	},
}

func init() {
	rootCmd.AddCommand(checkSearchCmd)
	rootCmd.AddCommand(checkOpenAICmd)
}
