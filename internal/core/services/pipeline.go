package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/custodia-labs/quill-cli/internal/core/domain"
	"github.com/custodia-labs/quill-cli/internal/core/ports/driven"
	"github.com/custodia-labs/quill-cli/internal/core/ports/driving"
	"github.com/custodia-labs/quill-cli/internal/logger"
)

// Ensure Pipeline implements the interfaces.
var (
	_ driving.AnalysisService   = (*Pipeline)(nil)
	_ driving.ManuscriptService = (*Pipeline)(nil)
	_ driving.Categorizer       = (*Pipeline)(nil)
)

// Pipeline sequences ingestion, extraction, aggregation and storage, and
// separately retrieval and generation. Routing a keyword to a dataset
// partition is decided here, not by the aggregation stages.
type Pipeline struct {
	corpus      driven.CorpusReader
	aggregator  *Aggregator
	expressions Extractor
	parameters  Extractor
	templater   *Templater
	generator   *ManuscriptGenerator
	categorizer driving.Categorizer
	store       *AnalysisStore
	now         func() time.Time
}

// PipelineConfig holds the collaborators of a pipeline.
type PipelineConfig struct {
	Corpus      driven.CorpusReader
	Aggregator  *Aggregator
	Expressions Extractor
	Parameters  Extractor
	Templater   *Templater
	Generator   *ManuscriptGenerator
	Categorizer driving.Categorizer
	Store       *AnalysisStore
}

// NewPipeline creates a pipeline.
func NewPipeline(cfg PipelineConfig) *Pipeline {
	aggregator := cfg.Aggregator
	if aggregator == nil {
		aggregator = NewAggregator(nil)
	}
	return &Pipeline{
		corpus:      cfg.Corpus,
		aggregator:  aggregator,
		expressions: cfg.Expressions,
		parameters:  cfg.Parameters,
		templater:   cfg.Templater,
		generator:   cfg.Generator,
		categorizer: cfg.Categorizer,
		store:       cfg.Store,
		now:         time.Now,
	}
}

func (p *Pipeline) read(ctx context.Context, dir string) ([]domain.Document, error) {
	if p.corpus == nil {
		return nil, errors.New("corpus reader not configured")
	}
	docs, err := p.corpus.Read(ctx, dir)
	if err != nil {
		return nil, fmt.Errorf("read corpus %s: %w", dir, err)
	}
	logger.Debug("read %d documents from %s", len(docs), dir)
	return docs, nil
}

// Morphemes returns the distinct tokens across the corpus in dir.
func (p *Pipeline) Morphemes(ctx context.Context, dir string) (domain.WordSet, error) {
	docs, err := p.read(ctx, dir)
	if err != nil {
		return nil, err
	}
	return morphemesOf(docs), nil
}

// Sentences returns every sentence of the corpus, in file order.
func (p *Pipeline) Sentences(ctx context.Context, dir string) ([]string, error) {
	docs, err := p.read(ctx, dir)
	if err != nil {
		return nil, err
	}
	return sentencesOf(docs), nil
}

// Expressions aggregates AI-extracted expressions across the corpus.
func (p *Pipeline) Expressions(ctx context.Context, dir string) (*driving.AggregationReport, error) {
	return p.aggregateDir(ctx, dir, p.expressions)
}

// Parameters aggregates AI-extracted entity groups across the corpus.
func (p *Pipeline) Parameters(ctx context.Context, dir string) (*driving.AggregationReport, error) {
	return p.aggregateDir(ctx, dir, p.parameters)
}

func (p *Pipeline) aggregateDir(ctx context.Context, dir string, ex Extractor) (*driving.AggregationReport, error) {
	if ex == nil {
		return nil, errNoLLM
	}
	docs, err := p.read(ctx, dir)
	if err != nil {
		return nil, err
	}
	logger.Section("Extract " + ex.Kind().String())
	return p.aggregator.Aggregate(ctx, docs, ex)
}

// Templates extracts parameters from paramsDir, then templates every
// document of dir against them. An empty paramsDir uses dir.
func (p *Pipeline) Templates(ctx context.Context, dir, paramsDir string) ([]driving.TemplatedDocument, error) {
	if p.templater == nil {
		return nil, errNoLLM
	}
	if paramsDir == "" {
		paramsDir = dir
	}

	params, err := p.Parameters(ctx, paramsDir)
	if err != nil {
		return nil, err
	}
	if params.Result.IsEmpty() {
		return nil, fmt.Errorf("%w: no parameters extracted from %s", domain.ErrInsufficientData, paramsDir)
	}

	docs, err := p.read(ctx, dir)
	if err != nil {
		return nil, err
	}

	logger.Section("Templates")
	out := make([]driving.TemplatedDocument, 0, len(docs))
	for _, doc := range docs {
		if doc.IsBlank() {
			continue
		}
		templated, err := p.templater.TemplateDocument(ctx, doc, params.Result)
		if err != nil {
			return nil, fmt.Errorf("template %s: %w", doc.ID, err)
		}
		out = append(out, templated)
	}
	return out, nil
}

// Library groups sentences by document file stem.
func (p *Pipeline) Library(ctx context.Context, dir string) ([]driving.LibraryEntry, error) {
	docs, err := p.read(ctx, dir)
	if err != nil {
		return nil, err
	}

	var out []driving.LibraryEntry
	index := make(map[string]int)
	for _, doc := range docs {
		if doc.IsBlank() {
			continue
		}
		stem := doc.Stem()
		i, ok := index[stem]
		if !ok {
			i = len(out)
			index[stem] = i
			out = append(out, driving.LibraryEntry{Category: stem})
		}
		out[i].Sentences = append(out[i].Sentences, SplitSentences(doc.Content)...)
	}
	return out, nil
}

// Run analyses the corpus in dir and persists the dataset under category.
func (p *Pipeline) Run(ctx context.Context, dir string, category domain.RoutingCategory) (*driving.AnalysisReport, error) {
	if !category.IsValid() {
		return nil, fmt.Errorf("%w: unknown category %q", domain.ErrInvalidInput, category)
	}
	if p.expressions == nil || p.parameters == nil {
		return nil, errNoLLM
	}
	if p.store == nil {
		return nil, errors.New("analysis store not configured")
	}

	docs, err := p.read(ctx, dir)
	if err != nil {
		return nil, err
	}
	if len(docs) == 0 {
		return nil, fmt.Errorf("%w: no documents in %s", domain.ErrInvalidInput, dir)
	}

	dataset := domain.NewAnalysisDataset()

	logger.Section("Morphemes")
	dataset.UniqueWords = morphemesOf(docs)

	logger.Section("Sentences")
	dataset.Sentences = sentencesOf(docs)

	logger.Section("Expressions")
	expressions, err := p.aggregator.Aggregate(ctx, docs, p.expressions)
	if err != nil {
		return nil, err
	}
	dataset.Expressions = expressions.Result

	logger.Section("Parameters")
	parameters, err := p.aggregator.Aggregate(ctx, docs, p.parameters)
	if err != nil {
		return nil, err
	}
	dataset.Parameters = parameters.Result

	snapshot, err := p.store.SaveDataset(ctx, category, dataset)
	if err != nil {
		return nil, err
	}
	logger.Info("saved snapshot %s to %s", snapshot, category)

	return &driving.AnalysisReport{
		Category:    category,
		Snapshot:    snapshot,
		Documents:   len(docs),
		UniqueWords: dataset.UniqueWords.Len(),
		Sentences:   len(dataset.Sentences),
		Expressions: expressions,
		Parameters:  parameters,
	}, nil
}

// Categorize picks the dataset partition for keyword.
func (p *Pipeline) Categorize(ctx context.Context, keyword string) (domain.RoutingCategory, error) {
	if p.categorizer == nil {
		return "", errNoLLM
	}
	return p.categorizer.Categorize(ctx, keyword)
}

// Generate writes a manuscript from the dataset of category and stores it.
func (p *Pipeline) Generate(
	ctx context.Context,
	category domain.RoutingCategory,
	instructions string,
) (*domain.Manuscript, error) {
	if p.generator == nil {
		return nil, errNoLLM
	}

	dataset, err := p.Dataset(ctx, category)
	if err != nil {
		return nil, err
	}

	text, err := p.generator.Generate(ctx, dataset, instructions)
	if err != nil {
		return nil, err
	}

	m := &domain.Manuscript{
		Content:   text,
		Keyword:   strings.TrimSpace(instructions),
		Category:  category,
		CreatedAt: p.now(),
	}
	if err := p.store.SaveManuscript(ctx, m); err != nil {
		return nil, err
	}
	logger.Info("saved manuscript %s to %s", m.ID, category)
	return m, nil
}

// GenerateForKeyword routes keyword to a category and generates from it,
// passing the keyword as instructions.
func (p *Pipeline) GenerateForKeyword(ctx context.Context, keyword string) (*domain.Manuscript, error) {
	category, err := p.Categorize(ctx, keyword)
	if err != nil {
		return nil, err
	}
	return p.Generate(ctx, category, keyword)
}

// List returns the manuscripts stored under category.
func (p *Pipeline) List(ctx context.Context, category domain.RoutingCategory) ([]domain.Manuscript, error) {
	if p.store == nil {
		return nil, errors.New("analysis store not configured")
	}
	return p.store.ListManuscripts(ctx, category)
}

// Dataset returns the merged dataset stored under category.
func (p *Pipeline) Dataset(ctx context.Context, category domain.RoutingCategory) (*domain.AnalysisDataset, error) {
	if p.store == nil {
		return nil, errors.New("analysis store not configured")
	}
	return p.store.LoadDataset(ctx, category)
}

func morphemesOf(docs []domain.Document) domain.WordSet {
	words := domain.NewWordSet()
	for _, doc := range docs {
		if doc.IsBlank() {
			continue
		}
		words.Add(ExtractMorphemes(doc.Content)...)
	}
	return words
}

func sentencesOf(docs []domain.Document) []string {
	var out []string
	for _, doc := range docs {
		if doc.IsBlank() {
			continue
		}
		out = append(out, SplitSentences(doc.Content)...)
	}
	return out
}
