package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var categorizeCmd = &cobra.Command{
	Use:   "categorize [keyword]",
	Short: "Show the routing category of a keyword",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runCategorize,
}

func init() {
	rootCmd.AddCommand(categorizeCmd)
}

func runCategorize(cmd *cobra.Command, args []string) error {
	if categorizer == nil {
		return errors.New("categorizer not configured")
	}

	category, err := categorizer.Categorize(cmd.Context(), strings.Join(args, " "))
	if err != nil {
		return fmt.Errorf("categorisation failed: %w", err)
	}
	cmd.Println(category)
	return nil
}
