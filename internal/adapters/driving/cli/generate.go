package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/quill-cli/internal/adapters/driving/tui/progress"
	"github.com/custodia-labs/quill-cli/internal/core/domain"
)

var (
	generateCategory string
	generateOutput   string
)

var generateCmd = &cobra.Command{
	Use:   "generate [keyword]",
	Short: "Generate a manuscript",
	Long: `Generate a blog manuscript and store it.

Without --category the keyword is categorised first and the matching
dataset is used. The keyword is always passed as instructions.

Examples:
  quill generate "강남 치과 임플란트"
  quill generate --category beauty-treatment "여름 맞이 피부 관리 이벤트"`,
	Args: cobra.ArbitraryArgs,
	RunE: runGenerate,
}

func init() {
	generateCmd.Flags().StringVarP(&generateCategory, "category", "c", "", "routing category (default: categorise the keyword)")
	generateCmd.Flags().StringVarP(&generateOutput, "output", "o", "", "also write the manuscript to this file")
	rootCmd.AddCommand(generateCmd)
}

func runGenerate(cmd *cobra.Command, args []string) error {
	if manuscriptService == nil {
		return errors.New("manuscript service not configured")
	}
	keyword := strings.TrimSpace(strings.Join(args, " "))

	var run func() (*domain.Manuscript, error)
	if generateCategory != "" {
		category, ok := domain.ParseRoutingCategory(generateCategory)
		if !ok {
			return fmt.Errorf("%w: unknown category %q (choose from %s)",
				domain.ErrInvalidInput, generateCategory, categoryList())
		}
		run = func() (*domain.Manuscript, error) {
			return manuscriptService.Generate(cmd.Context(), category, keyword)
		}
	} else {
		if keyword == "" {
			return fmt.Errorf("%w: a keyword or --category is required", domain.ErrInvalidInput)
		}
		run = func() (*domain.Manuscript, error) {
			return manuscriptService.GenerateForKeyword(cmd.Context(), keyword)
		}
	}

	m, err := generateWithProgress(cmd, run)
	if err != nil {
		if errors.Is(err, domain.ErrInsufficientData) {
			return fmt.Errorf("%w\nRun 'quill analyze run <dir> --category <category>' first", err)
		}
		return fmt.Errorf("generation failed: %w", err)
	}

	if generateOutput != "" {
		if err := os.WriteFile(generateOutput, []byte(m.Content+"\n"), 0o600); err != nil {
			return fmt.Errorf("writing %s: %w", generateOutput, err)
		}
	}
	printManuscript(cmd, m)
	return nil
}

// generateWithProgress runs fn behind a spinner when progress output is enabled.
func generateWithProgress(cmd *cobra.Command, fn func() (*domain.Manuscript, error)) (*domain.Manuscript, error) {
	if !showProgress {
		return fn()
	}

	var m *domain.Manuscript
	err := progress.Run(cmd.Context(), cmd.ErrOrStderr(), "Generating manuscript", func(context.Context) error {
		var err error
		m, err = fn()
		return err
	})
	return m, err
}

func printManuscript(cmd *cobra.Command, m *domain.Manuscript) {
	cmd.Printf("Manuscript %s (%s, %s)\n\n", m.ID, m.Category, m.CreatedAt.Format(time.DateTime))
	cmd.Println(m.Content)
}
