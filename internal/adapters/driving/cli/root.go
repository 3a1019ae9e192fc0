// Package cli provides the cobra command tree for Quill.
//
// Services are injected once at startup with Configure; commands report an
// error when a service they need was not provided.
package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/quill-cli/internal/adapters/driven/corpus/filesystem"
	"github.com/custodia-labs/quill-cli/internal/adapters/driven/usage"
	"github.com/custodia-labs/quill-cli/internal/core/domain"
	"github.com/custodia-labs/quill-cli/internal/core/ports/driving"
	"github.com/custodia-labs/quill-cli/internal/logger"
)

// version is set at build time with -ldflags "-X .../cli.version=...".
var version = "dev"

// CorpusWatcher reports batches of changed corpus files.
type CorpusWatcher interface {
	Watch(ctx context.Context, dir string) (<-chan []filesystem.Event, error)
}

// UsageReporter exposes accumulated token usage.
type UsageReporter interface {
	Stats() usage.Stats
}

// LLMValidator checks that LLM settings reach a working provider.
type LLMValidator func(ctx context.Context, settings *domain.LLMSettings) error

// Services holds everything the commands drive.
type Services struct {
	Settings     driving.SettingsService
	Analysis     driving.AnalysisService
	Manuscripts  driving.ManuscriptService
	Categorizer  driving.Categorizer
	Watcher      CorpusWatcher
	Usage        UsageReporter
	ValidateLLM  LLMValidator
	LLMProvider  domain.AIProvider
	DefaultAddr  string
	ShowProgress bool
}

var (
	settingsService   driving.SettingsService
	analysisService   driving.AnalysisService
	manuscriptService driving.ManuscriptService
	categorizer       driving.Categorizer
	corpusWatcher     CorpusWatcher
	usageReporter     UsageReporter
	validateLLM       LLMValidator
	llmProvider       domain.AIProvider
	defaultServeAddr  = ":8000"
	showProgress      bool
)

// Configure injects the services used by all commands.
func Configure(s Services) {
	settingsService = s.Settings
	analysisService = s.Analysis
	manuscriptService = s.Manuscripts
	categorizer = s.Categorizer
	corpusWatcher = s.Watcher
	usageReporter = s.Usage
	validateLLM = s.ValidateLLM
	llmProvider = s.LLMProvider
	if s.DefaultAddr != "" {
		defaultServeAddr = s.DefaultAddr
	}
	showProgress = s.ShowProgress
}

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "quill",
	Short: "Marketing blog manuscripts from analysed sample posts",
	Long: `Quill analyses a corpus of sample blog posts with an AI provider and
stores the extracted vocabulary, sentences, expressions and entity parameters
per routing category. Manuscripts are then generated from a category's dataset.

Typical flow:
  quill analyze run ./samples --category hospital
  quill generate "강남 치과 임플란트"`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
}

// Execute runs the root command with ctx.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}
