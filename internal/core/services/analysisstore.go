package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/quill-cli/internal/core/domain"
	"github.com/custodia-labs/quill-cli/internal/core/ports/driven"
	"github.com/custodia-labs/quill-cli/internal/logger"
)

// Record field names.
const (
	fieldWord      = "word"
	fieldSentence  = "sentence"
	fieldCategory  = "category"
	fieldValue     = "value"
	fieldContent   = "content"
	fieldKeyword   = "keyword"
	fieldSnapshot  = "snapshot"
	fieldTimestamp = "timestamp"
)

// AnalysisStore persists analysis datasets and manuscripts.
// Each routing category is its own logical database. Datasets are stored
// as append-only snapshots and merged additively on load. A snapshot counts
// only once its commit record exists, which is written after every batch.
type AnalysisStore struct {
	store driven.DocumentStore
	now   func() time.Time
}

// NewAnalysisStore creates an analysis store over a document store.
func NewAnalysisStore(store driven.DocumentStore) *AnalysisStore {
	return &AnalysisStore{
		store: store,
		now:   time.Now,
	}
}

func (s *AnalysisStore) database(category domain.RoutingCategory) (driven.Database, error) {
	if !category.IsValid() {
		return nil, fmt.Errorf("%w: unknown category %q", domain.ErrInvalidInput, category)
	}
	return s.store.Database(category.String()), nil
}

// SaveDataset writes dataset as a new snapshot and returns the snapshot id.
// If any batch fails the snapshot is left uncommitted and never loaded.
func (s *AnalysisStore) SaveDataset(
	ctx context.Context,
	category domain.RoutingCategory,
	dataset *domain.AnalysisDataset,
) (string, error) {
	db, err := s.database(category)
	if err != nil {
		return "", err
	}

	snapshot := uuid.NewString()
	stamp := s.now().UTC().Format(time.RFC3339Nano)
	record := func(fields driven.Record) driven.Record {
		fields[fieldSnapshot] = snapshot
		fields[fieldTimestamp] = stamp
		return fields
	}

	words := make([]driven.Record, 0, dataset.UniqueWords.Len())
	for _, w := range dataset.UniqueWords.Slice() {
		words = append(words, record(driven.Record{fieldWord: w}))
	}

	sentences := make([]driven.Record, 0, len(dataset.Sentences))
	for _, sentence := range dataset.Sentences {
		sentences = append(sentences, record(driven.Record{fieldSentence: sentence}))
	}

	pairs := func(m *domain.CategoryMap) []driven.Record {
		out := make([]driven.Record, 0, m.Size())
		for _, category := range m.Categories() {
			for _, value := range m.Values(category) {
				out = append(out, record(driven.Record{fieldCategory: category, fieldValue: value}))
			}
		}
		return out
	}

	batches := []struct {
		collection string
		records    []driven.Record
	}{
		{driven.CollectionMorphemes, words},
		{driven.CollectionSentences, sentences},
		{driven.CollectionExpressions, pairs(dataset.Expressions)},
		{driven.CollectionParameters, pairs(dataset.Parameters)},
	}
	for _, b := range batches {
		if len(b.records) == 0 {
			continue
		}
		if _, err := db.InsertMany(ctx, b.collection, b.records); err != nil {
			return "", fmt.Errorf("save %s to %s: %w", b.collection, category, err)
		}
	}

	if _, err := db.InsertOne(ctx, driven.CollectionSnapshots, record(driven.Record{})); err != nil {
		return "", fmt.Errorf("commit snapshot to %s: %w", category, err)
	}

	return snapshot, nil
}

// LoadDataset merges every committed snapshot of category into one dataset.
// A sentence appears as often as it does in the snapshot holding it most,
// so re-analysing an unchanged corpus adds no sentences.
func (s *AnalysisStore) LoadDataset(ctx context.Context, category domain.RoutingCategory) (*domain.AnalysisDataset, error) {
	db, err := s.database(category)
	if err != nil {
		return nil, err
	}

	committed, err := s.committed(ctx, db)
	if err != nil {
		return nil, fmt.Errorf("load snapshots from %s: %w", category, err)
	}

	dataset := domain.NewAnalysisDataset()

	words, err := db.Find(ctx, driven.CollectionMorphemes, nil)
	if err != nil {
		return nil, fmt.Errorf("load morphemes from %s: %w", category, err)
	}
	for _, r := range words {
		if committed[r.String(fieldSnapshot)] {
			dataset.UniqueWords.Add(r.String(fieldWord))
		}
	}

	sentences, err := db.Find(ctx, driven.CollectionSentences, nil)
	if err != nil {
		return nil, fmt.Errorf("load sentences from %s: %w", category, err)
	}
	dataset.Sentences = mergeSentences(sentences, committed)

	for collection, m := range map[string]*domain.CategoryMap{
		driven.CollectionExpressions: dataset.Expressions,
		driven.CollectionParameters:  dataset.Parameters,
	} {
		records, err := db.Find(ctx, collection, nil)
		if err != nil {
			return nil, fmt.Errorf("load %s from %s: %w", collection, category, err)
		}
		for _, r := range records {
			if committed[r.String(fieldSnapshot)] {
				m.Add(r.String(fieldCategory), r.String(fieldValue))
			}
		}
	}

	return dataset, nil
}

func (s *AnalysisStore) committed(ctx context.Context, db driven.Database) (map[string]bool, error) {
	records, err := db.Find(ctx, driven.CollectionSnapshots, nil)
	if err != nil {
		return nil, err
	}
	ids := make(map[string]bool, len(records))
	for _, r := range records {
		ids[r.String(fieldSnapshot)] = true
	}
	return ids, nil
}

// mergeSentences keeps first-seen order and gives each sentence its highest
// per-snapshot count.
func mergeSentences(records []driven.Record, committed map[string]bool) []string {
	var (
		out     []string
		kept    = make(map[string]int)
		current = make(map[string]map[string]int)
	)
	for _, r := range records {
		snapshot := r.String(fieldSnapshot)
		sentence := r.String(fieldSentence)
		if !committed[snapshot] || sentence == "" {
			continue
		}
		counts, ok := current[snapshot]
		if !ok {
			counts = make(map[string]int)
			current[snapshot] = counts
		}
		counts[sentence]++
		if counts[sentence] > kept[sentence] {
			kept[sentence] = counts[sentence]
			out = append(out, sentence)
		}
	}
	return out
}

// SaveManuscript appends m to its category and sets its ID.
func (s *AnalysisStore) SaveManuscript(ctx context.Context, m *domain.Manuscript) error {
	db, err := s.database(m.Category)
	if err != nil {
		return err
	}
	if m.CreatedAt.IsZero() {
		m.CreatedAt = s.now()
	}

	id, err := db.InsertOne(ctx, driven.CollectionManuscripts, driven.Record{
		fieldContent:   m.Content,
		fieldKeyword:   m.Keyword,
		fieldTimestamp: m.CreatedAt.UTC().Format(time.RFC3339Nano),
	})
	if err != nil {
		return fmt.Errorf("save manuscript to %s: %w", m.Category, err)
	}
	m.ID = id
	return nil
}

// ListManuscripts returns the manuscripts of category in insertion order.
func (s *AnalysisStore) ListManuscripts(ctx context.Context, category domain.RoutingCategory) ([]domain.Manuscript, error) {
	db, err := s.database(category)
	if err != nil {
		return nil, err
	}

	records, err := db.Find(ctx, driven.CollectionManuscripts, nil)
	if err != nil {
		return nil, fmt.Errorf("list manuscripts in %s: %w", category, err)
	}

	out := make([]domain.Manuscript, 0, len(records))
	for _, r := range records {
		created, err := time.Parse(time.RFC3339Nano, r.String(fieldTimestamp))
		if err != nil {
			logger.Warn("manuscript %s in %s: bad timestamp: %v", r.String(driven.FieldID), category, err)
		}
		out = append(out, domain.Manuscript{
			ID:        r.String(driven.FieldID),
			Content:   r.String(fieldContent),
			Keyword:   r.String(fieldKeyword),
			Category:  category,
			CreatedAt: created,
		})
	}
	return out, nil
}
