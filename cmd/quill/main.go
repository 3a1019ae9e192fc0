// Command quill generates marketing blog manuscripts from analysed sample posts.
package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/joho/godotenv"
	"golang.org/x/term"

	"github.com/custodia-labs/quill-cli/internal/adapters/driven/ai"
	"github.com/custodia-labs/quill-cli/internal/adapters/driven/config/file"
	"github.com/custodia-labs/quill-cli/internal/adapters/driven/corpus/filesystem"
	"github.com/custodia-labs/quill-cli/internal/adapters/driven/pacing"
	"github.com/custodia-labs/quill-cli/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/quill-cli/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/quill-cli/internal/adapters/driven/usage"
	"github.com/custodia-labs/quill-cli/internal/adapters/driving/cli"
	"github.com/custodia-labs/quill-cli/internal/core/domain"
	"github.com/custodia-labs/quill-cli/internal/core/ports/driven"
	"github.com/custodia-labs/quill-cli/internal/core/services"
	"github.com/custodia-labs/quill-cli/internal/logger"
	"github.com/custodia-labs/quill-cli/internal/normalisers"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := run(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	// .env is optional; real environment variables win over it.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		logger.Warn("loading .env: %v", err)
	}

	app, err := wire(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}
	defer app.close()

	return cli.Execute(ctx)
}

// application owns the resources opened at startup.
type application struct {
	closers []func() error
}

func (a *application) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			logger.Warn("shutdown: %v", err)
		}
	}
}

// wire builds every adapter and service and hands them to the CLI.
func wire(ctx context.Context) (*application, error) {
	app := &application{}

	home, err := file.HomeDir()
	if err != nil {
		return nil, fmt.Errorf("resolving home directory: %w", err)
	}

	configStore, err := file.NewConfigStore(home)
	if err != nil {
		return nil, fmt.Errorf("opening config: %w", err)
	}
	settingsService := services.NewSettingsService(configStore)
	settings, err := settingsService.Get()
	if err != nil {
		return nil, fmt.Errorf("loading settings: %w", err)
	}

	store, err := openStore(settings.Storage, home)
	if err != nil {
		return nil, err
	}
	app.closers = append(app.closers, store.Close)

	prompts, err := file.NewPromptStore(filepath.Join(home, "prompts"))
	if err != nil {
		return nil, fmt.Errorf("opening prompts: %w", err)
	}

	tracker, err := usage.NewTracker(filepath.Join(home, usage.FileName))
	if err != nil {
		return nil, fmt.Errorf("opening usage file: %w", err)
	}

	reader, err := filesystem.NewReader(settings.Pipeline.FilePattern)
	if err != nil {
		return nil, fmt.Errorf("corpus reader: %w", err)
	}
	reader.WithNormalisers(normalisers.Default())

	llm, err := ai.CreateLLMService(ctx, &settings.LLM)
	if err != nil {
		return nil, fmt.Errorf("creating LLM service: %w", err)
	}
	if llm != nil {
		app.closers = append(app.closers, llm.Close)
		logger.Debug("LLM provider: %s (%s)", llm.Provider(), llm.ModelName())
	} else {
		logger.Debug("no AI provider configured")
	}

	stage := func(name string) services.AIConfig {
		return services.AIConfig{
			LLM:     llm,
			Prompts: prompts,
			Usage:   tracker,
			Model:   settings.ModelFor(name),
		}
	}

	categorizer := services.NewKeywordCategorizer(stage(domain.StageCategorize))
	pipeline := services.NewPipeline(services.PipelineConfig{
		Corpus:      reader,
		Aggregator:  services.NewAggregator(pacing.New(settings.Pipeline.CallInterval)),
		Expressions: services.NewExpressionExtractor(stage(domain.StageExpression)),
		Parameters:  services.NewParameterExtractor(stage(domain.StageParameter)),
		Templater:   services.NewTemplater(stage(domain.StageTemplate), pacing.New(settings.Pipeline.TemplateInterval)),
		Generator:   services.NewManuscriptGenerator(stage(domain.StageGenerate)),
		Categorizer: categorizer,
		Store:       services.NewAnalysisStore(store),
	})

	cli.Configure(cli.Services{
		Settings:     settingsService,
		Analysis:     pipeline,
		Manuscripts:  pipeline,
		Categorizer:  pipeline,
		Watcher:      filesystem.NewWatcher(reader, 0),
		Usage:        tracker,
		ValidateLLM:  ai.ValidateLLMConfig,
		LLMProvider:  settings.LLM.Provider,
		DefaultAddr:  settings.Server.Addr,
		ShowProgress: term.IsTerminal(int(os.Stderr.Fd())),
	})

	return app, nil
}

// openStore opens the configured document store.
func openStore(cfg domain.StorageSettings, home string) (driven.DocumentStore, error) {
	switch cfg.Backend {
	case domain.StorageMemory:
		logger.Debug("using in-memory document store")
		return memory.NewDocumentStore(), nil
	case domain.StorageSQLite, "":
		dataDir := cfg.DataDir
		if dataDir == "" {
			dataDir = filepath.Join(home, "data")
		}
		store, err := sqlite.NewStore(dataDir)
		if err != nil {
			return nil, fmt.Errorf("opening document store: %w", err)
		}
		logger.Debug("document store: %s", store.Path())
		return store, nil
	default:
		return nil, fmt.Errorf("%w: unknown storage backend %q", domain.ErrConfiguration, cfg.Backend)
	}
}
