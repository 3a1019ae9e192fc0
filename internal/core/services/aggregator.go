package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/custodia-labs/quill-cli/internal/core/domain"
	"github.com/custodia-labs/quill-cli/internal/core/ports/driven"
	"github.com/custodia-labs/quill-cli/internal/core/ports/driving"
	"github.com/custodia-labs/quill-cli/internal/logger"
)

// Aggregator folds per-document extraction results into one corpus-level map.
// Documents are processed sequentially in the order given.
type Aggregator struct {
	pacer driven.Pacer
}

// NewAggregator creates an aggregator. A nil pacer disables pacing.
func NewAggregator(pacer driven.Pacer) *Aggregator {
	return &Aggregator{pacer: pacer}
}

// Aggregate runs extractor over docs and merges every successful result.
//
// Blank documents are skipped without an AI call. A failed document is
// logged and counted, and the pass continues. A configuration error or
// a cancelled context aborts the pass.
func (a *Aggregator) Aggregate(
	ctx context.Context,
	docs []domain.Document,
	extractor Extractor,
) (*driving.AggregationReport, error) {
	report := &driving.AggregationReport{
		Kind:   extractor.Kind(),
		Result: domain.NewCategoryMap(),
	}

	for i, doc := range docs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		if doc.IsBlank() {
			logger.Info("%s [%d/%d] %s: empty, skipped", report.Kind, i+1, len(docs), doc.ID)
			report.Skipped++
			continue
		}

		if a.pacer != nil {
			if err := a.pacer.Wait(ctx); err != nil {
				return nil, fmt.Errorf("pace %s extraction: %w", report.Kind, err)
			}
		}

		result := extractor.Extract(ctx, doc.Content)
		if !result.OK() {
			err := result.Err()
			if errors.Is(err, domain.ErrConfiguration) {
				return nil, fmt.Errorf("%s extraction of %s: %w", report.Kind, doc.ID, err)
			}
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}
			logger.Warn("%s [%d/%d] %s: %v", report.Kind, i+1, len(docs), doc.ID, err)
			report.Failed++
			continue
		}

		report.Result.Merge(result.Map())
		report.Processed++
		logger.Info("%s [%d/%d] %s: merged %d categories", report.Kind, i+1, len(docs), doc.ID, result.Map().Len())
	}

	return report, nil
}
