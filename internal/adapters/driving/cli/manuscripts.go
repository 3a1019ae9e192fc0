package cli

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/quill-cli/internal/core/domain"
)

const previewRunes = 60

var (
	manuscriptsCategory string
	manuscriptsFull     bool
	manuscriptsJSON     bool
)

var manuscriptsCmd = &cobra.Command{
	Use:   "manuscripts",
	Short: "Browse generated manuscripts",
}

var manuscriptsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List manuscripts of a routing category",
	Args:  cobra.NoArgs,
	RunE:  runManuscriptsList,
}

func init() {
	manuscriptsListCmd.Flags().StringVarP(&manuscriptsCategory, "category", "c", "", "routing category")
	manuscriptsListCmd.Flags().BoolVar(&manuscriptsFull, "full", false, "print full content")
	manuscriptsListCmd.Flags().BoolVar(&manuscriptsJSON, "json", false, "output as JSON")
	_ = manuscriptsListCmd.MarkFlagRequired("category")
	manuscriptsCmd.AddCommand(manuscriptsListCmd)
	rootCmd.AddCommand(manuscriptsCmd)
}

func runManuscriptsList(cmd *cobra.Command, _ []string) error {
	if manuscriptService == nil {
		return errors.New("manuscript service not configured")
	}
	category, ok := domain.ParseRoutingCategory(manuscriptsCategory)
	if !ok {
		return fmt.Errorf("%w: unknown category %q (choose from %s)",
			domain.ErrInvalidInput, manuscriptsCategory, categoryList())
	}

	list, err := manuscriptService.List(cmd.Context(), category)
	if err != nil {
		return fmt.Errorf("listing manuscripts failed: %w", err)
	}

	if manuscriptsJSON {
		if list == nil {
			list = []domain.Manuscript{}
		}
		return writeJSON(cmd.OutOrStdout(), list)
	}
	if len(list) == 0 {
		cmd.Printf("No manuscripts for %s.\n", category)
		return nil
	}

	cmd.Printf("Manuscripts for %s (%d):\n\n", category, len(list))
	for _, m := range list {
		cmd.Printf("%s  %s\n", m.ID, m.CreatedAt.Format(time.DateTime))
		if m.Keyword != "" {
			cmd.Printf("  Keyword: %s\n", m.Keyword)
		}
		if manuscriptsFull {
			cmd.Printf("%s\n\n", m.Content)
		} else {
			cmd.Printf("  %s\n\n", preview(m.Content))
		}
	}
	return nil
}

// preview returns the first line of s, cut to previewRunes.
func preview(s string) string {
	line, _, _ := strings.Cut(strings.TrimSpace(s), "\n")
	r := []rune(line)
	if len(r) <= previewRunes {
		return line
	}
	return string(r[:previewRunes]) + "..."
}
