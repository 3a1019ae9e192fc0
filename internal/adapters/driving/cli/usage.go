package cli

import (
	"errors"
	"sort"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/quill-cli/internal/adapters/driven/usage"
)

var usageJSON bool

var usageCmd = &cobra.Command{
	Use:   "usage",
	Short: "Show AI token usage",
	Args:  cobra.NoArgs,
	RunE:  runUsage,
}

func init() {
	usageCmd.Flags().BoolVar(&usageJSON, "json", false, "output as JSON")
	rootCmd.AddCommand(usageCmd)
}

func runUsage(cmd *cobra.Command, _ []string) error {
	if usageReporter == nil {
		return errors.New("usage tracking not configured")
	}
	stats := usageReporter.Stats()

	if usageJSON {
		return writeJSON(cmd.OutOrStdout(), stats)
	}
	if stats.Total.Calls == 0 {
		cmd.Println("No AI calls recorded yet.")
		return nil
	}

	cmd.Println("Token Usage")
	cmd.Println("===========")
	cmd.Printf("Total: %d calls, %d tokens (prompt %d, completion %d)\n",
		stats.Total.Calls, stats.Total.TotalTokens, stats.Total.PromptTokens, stats.Total.CompletionTokens)
	printCounts(cmd, "By provider", stats.ByProvider)
	printCounts(cmd, "By model", stats.ByModel)
	printCounts(cmd, "By operation", stats.ByOperation)
	if !stats.UpdatedAt.IsZero() {
		cmd.Printf("\nUpdated: %s\n", stats.UpdatedAt.Local().Format("2006-01-02 15:04:05"))
	}
	return nil
}

func printCounts(cmd *cobra.Command, title string, counts map[string]usage.Counts) {
	if len(counts) == 0 {
		return
	}
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	cmd.Printf("\n[%s]\n", title)
	for _, k := range keys {
		c := counts[k]
		cmd.Printf("  %-24s %6d calls %10d tokens\n", k, c.Calls, c.TotalTokens)
	}
}
