package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/quill-cli/internal/core/domain"
	"github.com/custodia-labs/quill-cli/internal/core/ports/driving"
	"github.com/custodia-labs/quill-cli/internal/logger"
)

var (
	analyzeJSON         bool
	analyzeParamsDir    string
	analyzeCategory     string
	analyzeWatch        bool
	analyzeGenerate     bool
	analyzeInstructions string
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Analyse a corpus of sample posts",
	Long: `Analyse a directory of sample blog posts.

The stage subcommands print their results without storing anything.
"analyze run" performs every stage and stores the dataset under a
routing category, ready for "quill generate".`,
}

var analyzeMorphemesCmd = &cobra.Command{
	Use:   "morphemes [dir]",
	Short: "List the distinct words of the corpus",
	Args:  cobra.ExactArgs(1),
	RunE:  runAnalyzeMorphemes,
}

var analyzeSentencesCmd = &cobra.Command{
	Use:   "sentences [dir]",
	Short: "Split the corpus into sentences",
	Args:  cobra.ExactArgs(1),
	RunE:  runAnalyzeSentences,
}

var analyzeExpressionsCmd = &cobra.Command{
	Use:   "expressions [dir]",
	Short: "Extract marketing expressions with the AI provider",
	Args:  cobra.ExactArgs(1),
	RunE:  runAnalyzeExtraction,
}

var analyzeParametersCmd = &cobra.Command{
	Use:   "parameters [dir]",
	Short: "Extract grouped entities with the AI provider",
	Args:  cobra.ExactArgs(1),
	RunE:  runAnalyzeExtraction,
}

var analyzeTemplateCmd = &cobra.Command{
	Use:   "template [dir]",
	Short: "Rewrite documents with entity placeholders",
	Long: `Rewrite each document of dir, replacing entities with their category
placeholders. Entities are extracted from --params-dir, which defaults to dir.`,
	Args: cobra.ExactArgs(1),
	RunE: runAnalyzeTemplate,
}

var analyzeLibraryCmd = &cobra.Command{
	Use:   "library [dir]",
	Short: "Group sentences by document",
	Args:  cobra.ExactArgs(1),
	RunE:  runAnalyzeLibrary,
}

var analyzeRunCmd = &cobra.Command{
	Use:   "run [dir]",
	Short: "Run every stage and store the dataset",
	Long: `Run every analysis stage over dir and store the dataset under --category.

With --generate a manuscript is generated from the stored dataset right after.
With --watch the analysis is repeated whenever corpus files change.`,
	Args: cobra.ExactArgs(1),
	RunE: runAnalyzeRun,
}

func init() {
	analyzeCmd.PersistentFlags().BoolVar(&analyzeJSON, "json", false, "output results as JSON")
	analyzeTemplateCmd.Flags().StringVar(&analyzeParamsDir, "params-dir", "", "corpus to extract entities from (default: dir)")
	analyzeRunCmd.Flags().StringVarP(&analyzeCategory, "category", "c", "", "routing category to store the dataset under")
	analyzeRunCmd.Flags().BoolVarP(&analyzeWatch, "watch", "w", false, "re-run when corpus files change")
	analyzeRunCmd.Flags().BoolVarP(&analyzeGenerate, "generate", "g", false, "generate a manuscript after storing")
	analyzeRunCmd.Flags().StringVarP(&analyzeInstructions, "instructions", "i", "", "instructions for --generate")
	_ = analyzeRunCmd.MarkFlagRequired("category")

	analyzeCmd.AddCommand(analyzeMorphemesCmd)
	analyzeCmd.AddCommand(analyzeSentencesCmd)
	analyzeCmd.AddCommand(analyzeExpressionsCmd)
	analyzeCmd.AddCommand(analyzeParametersCmd)
	analyzeCmd.AddCommand(analyzeTemplateCmd)
	analyzeCmd.AddCommand(analyzeLibraryCmd)
	analyzeCmd.AddCommand(analyzeRunCmd)
	rootCmd.AddCommand(analyzeCmd)
}

func requireAnalysis() error {
	if analysisService == nil {
		return errors.New("analysis service not configured")
	}
	return nil
}

func runAnalyzeMorphemes(cmd *cobra.Command, args []string) error {
	if err := requireAnalysis(); err != nil {
		return err
	}
	words, err := analysisService.Morphemes(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("morpheme analysis failed: %w", err)
	}

	list := words.Slice()
	if analyzeJSON {
		return writeJSON(cmd.OutOrStdout(), list)
	}
	for _, w := range list {
		cmd.Println(w)
	}
	cmd.Printf("\n%d unique words\n", len(list))
	return nil
}

func runAnalyzeSentences(cmd *cobra.Command, args []string) error {
	if err := requireAnalysis(); err != nil {
		return err
	}
	sentences, err := analysisService.Sentences(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("sentence analysis failed: %w", err)
	}

	if analyzeJSON {
		if sentences == nil {
			sentences = []string{}
		}
		return writeJSON(cmd.OutOrStdout(), sentences)
	}
	for i, s := range sentences {
		cmd.Printf("%4d  %s\n", i+1, s)
	}
	cmd.Printf("\n%d sentences\n", len(sentences))
	return nil
}

// runAnalyzeExtraction serves both the expressions and parameters commands.
func runAnalyzeExtraction(cmd *cobra.Command, args []string) error {
	if err := requireAnalysis(); err != nil {
		return err
	}

	var (
		report *driving.AggregationReport
		err    error
	)
	if cmd.Name() == "parameters" {
		report, err = analysisService.Parameters(cmd.Context(), args[0])
	} else {
		report, err = analysisService.Expressions(cmd.Context(), args[0])
	}
	if err != nil {
		return fmt.Errorf("%s analysis failed: %w", cmd.Name(), err)
	}

	if analyzeJSON {
		return writeJSON(cmd.OutOrStdout(), report.Result)
	}
	printCategoryMap(cmd, report.Result)
	printAggregation(cmd, report)
	return nil
}

func runAnalyzeTemplate(cmd *cobra.Command, args []string) error {
	if err := requireAnalysis(); err != nil {
		return err
	}
	paramsDir := analyzeParamsDir
	if paramsDir == "" {
		paramsDir = args[0]
	}

	docs, err := analysisService.Templates(cmd.Context(), args[0], paramsDir)
	if err != nil {
		return fmt.Errorf("template generation failed: %w", err)
	}

	if analyzeJSON {
		out := make(map[string]string, len(docs))
		for _, d := range docs {
			out[d.FileName] = d.Text
		}
		return writeJSON(cmd.OutOrStdout(), out)
	}
	for _, d := range docs {
		cmd.Printf("== %s (%d sentences templated) ==\n%s\n\n", d.FileName, d.Templated, d.Text)
	}
	return nil
}

func runAnalyzeLibrary(cmd *cobra.Command, args []string) error {
	if err := requireAnalysis(); err != nil {
		return err
	}
	entries, err := analysisService.Library(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("library build failed: %w", err)
	}

	if analyzeJSON {
		lib := domain.NewCategoryMap()
		for _, e := range entries {
			for _, s := range e.Sentences {
				lib.Add(e.Category, s)
			}
		}
		return writeJSON(cmd.OutOrStdout(), lib)
	}
	for _, e := range entries {
		cmd.Printf("[%s] %d sentences\n", e.Category, len(e.Sentences))
		for _, s := range e.Sentences {
			cmd.Printf("  - %s\n", s)
		}
	}
	return nil
}

func runAnalyzeRun(cmd *cobra.Command, args []string) error {
	if err := requireAnalysis(); err != nil {
		return err
	}
	category, ok := domain.ParseRoutingCategory(analyzeCategory)
	if !ok {
		return fmt.Errorf("%w: unknown category %q (choose from %s)",
			domain.ErrInvalidInput, analyzeCategory, categoryList())
	}
	if analyzeGenerate && manuscriptService == nil {
		return errors.New("manuscript service not configured")
	}

	dir := args[0]
	if err := analyzeOnce(cmd, dir, category); err != nil {
		return err
	}
	if !analyzeWatch {
		return nil
	}

	if corpusWatcher == nil {
		return errors.New("corpus watcher not configured")
	}
	events, err := corpusWatcher.Watch(cmd.Context(), dir)
	if err != nil {
		return fmt.Errorf("watching %s: %w", dir, err)
	}
	cmd.Printf("Watching %s for changes (Ctrl+C to stop)\n", dir)
	for batch := range events {
		for _, e := range batch {
			logger.Debug("corpus change: %s (removed: %v)", e.Path, e.Removed)
		}
		cmd.Printf("\n%d file(s) changed, re-running analysis\n", len(batch))
		if err := analyzeOnce(cmd, dir, category); err != nil {
			// Keep watching; the next change may fix the corpus.
			cmd.PrintErrf("analysis failed: %v\n", err)
		}
	}
	return nil
}

func analyzeOnce(cmd *cobra.Command, dir string, category domain.RoutingCategory) error {
	report, err := analysisService.Run(cmd.Context(), dir, category)
	if err != nil {
		return fmt.Errorf("analysis failed: %w", err)
	}

	if analyzeJSON {
		if err := writeJSON(cmd.OutOrStdout(), report); err != nil {
			return err
		}
	} else {
		printRunReport(cmd, report)
	}

	if !analyzeGenerate {
		return nil
	}
	m, err := generateWithProgress(cmd, func() (*domain.Manuscript, error) {
		return manuscriptService.Generate(cmd.Context(), category, analyzeInstructions)
	})
	if err != nil {
		return fmt.Errorf("generation failed: %w", err)
	}
	printManuscript(cmd, m)
	return nil
}

func printRunReport(cmd *cobra.Command, r *driving.AnalysisReport) {
	cmd.Printf("Stored dataset for %s (snapshot %s)\n", r.Category, r.Snapshot)
	cmd.Printf("  Documents:    %d\n", r.Documents)
	cmd.Printf("  Unique words: %d\n", r.UniqueWords)
	cmd.Printf("  Sentences:    %d\n", r.Sentences)
	if r.Expressions != nil {
		cmd.Printf("  Expressions:  %d categories (%d ok, %d skipped, %d failed)\n",
			r.Expressions.Result.Len(), r.Expressions.Processed, r.Expressions.Skipped, r.Expressions.Failed)
	}
	if r.Parameters != nil {
		cmd.Printf("  Parameters:   %d categories (%d ok, %d skipped, %d failed)\n",
			r.Parameters.Result.Len(), r.Parameters.Processed, r.Parameters.Skipped, r.Parameters.Failed)
	}
}

func printCategoryMap(cmd *cobra.Command, m *domain.CategoryMap) {
	for _, c := range m.Categories() {
		cmd.Printf("[%s]\n", c)
		for _, v := range m.Values(c) {
			cmd.Printf("  - %s\n", v)
		}
	}
}

func printAggregation(cmd *cobra.Command, r *driving.AggregationReport) {
	cmd.Printf("\n%d documents: %d ok, %d skipped, %d failed\n", r.Total(), r.Processed, r.Skipped, r.Failed)
}

func writeJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

func categoryList() string {
	categories := domain.RoutingCategories()
	names := make([]string, len(categories))
	for i, c := range categories {
		names[i] = c.String()
	}
	return strings.Join(names, ", ")
}
