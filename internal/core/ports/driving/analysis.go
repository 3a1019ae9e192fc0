package driving

import (
	"context"

	"github.com/custodia-labs/quill-cli/internal/core/domain"
)

// AnalysisService runs the corpus analysis stages.
// Stage methods return results without persisting them; Run persists a full dataset.
type AnalysisService interface {
	// Morphemes returns the distinct tokens across the corpus in dir.
	Morphemes(ctx context.Context, dir string) (domain.WordSet, error)

	// Sentences returns every sentence of the corpus, in file order.
	Sentences(ctx context.Context, dir string) ([]string, error)

	// Expressions aggregates AI-extracted expressions across the corpus.
	Expressions(ctx context.Context, dir string) (*AggregationReport, error)

	// Parameters aggregates AI-extracted entity groups across the corpus.
	Parameters(ctx context.Context, dir string) (*AggregationReport, error)

	// Templates rewrites each document of dir, replacing entities found in
	// paramsDir with their category placeholders.
	Templates(ctx context.Context, dir, paramsDir string) ([]TemplatedDocument, error)

	// Library groups sentences by document file stem.
	Library(ctx context.Context, dir string) ([]LibraryEntry, error)

	// Run performs every stage and persists the dataset under category.
	Run(ctx context.Context, dir string, category domain.RoutingCategory) (*AnalysisReport, error)
}

// AggregationReport is the outcome of one aggregation pass.
type AggregationReport struct {
	// Kind is the extraction that produced the result.
	Kind domain.ExtractionKind

	// Result is the merged category map. Never nil.
	Result *domain.CategoryMap

	// Processed counts documents whose extraction merged successfully.
	Processed int

	// Skipped counts blank documents that were never sent.
	Skipped int

	// Failed counts documents whose extraction failed.
	Failed int
}

// Total returns the number of documents seen.
func (r *AggregationReport) Total() int {
	return r.Processed + r.Skipped + r.Failed
}

// TemplatedDocument is one document after templating.
type TemplatedDocument struct {
	FileName string

	// Text is the templated document; sentences are joined by single spaces.
	Text string

	// Templated counts sentences that were sent for templating and rewritten.
	Templated int
}

// LibraryEntry holds the sentences of one document, keyed by file stem.
type LibraryEntry struct {
	Category  string
	Sentences []string
}

// AnalysisReport summarises a persisted analysis run.
type AnalysisReport struct {
	Category    domain.RoutingCategory
	Snapshot    string
	Documents   int
	UniqueWords int
	Sentences   int
	Expressions *AggregationReport
	Parameters  *AggregationReport
}
