package mcp

import (
	"context"
	"time"

	"github.com/custodia-labs/quill-cli/internal/core/domain"
	"github.com/custodia-labs/quill-cli/internal/core/ports/driving"
)

// mockManuscriptService is a mock implementation of driving.ManuscriptService.
type mockManuscriptService struct {
	manuscripts []domain.Manuscript
	dataset     *domain.AnalysisDataset
	err         error

	generatedCategory domain.RoutingCategory
	generatedWith     string
	keywordCalls      int
}

func (m *mockManuscriptService) Generate(
	_ context.Context, category domain.RoutingCategory, instructions string,
) (*domain.Manuscript, error) {
	if m.err != nil {
		return nil, m.err
	}
	m.generatedCategory = category
	m.generatedWith = instructions
	return &domain.Manuscript{
		ID:        "ms-1",
		Content:   "원고 본문",
		Keyword:   instructions,
		Category:  category,
		CreatedAt: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
	}, nil
}

func (m *mockManuscriptService) GenerateForKeyword(
	ctx context.Context, keyword string,
) (*domain.Manuscript, error) {
	m.keywordCalls++
	return m.Generate(ctx, domain.CategoryHospital, keyword)
}

func (m *mockManuscriptService) List(
	_ context.Context, _ domain.RoutingCategory,
) ([]domain.Manuscript, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.manuscripts, nil
}

func (m *mockManuscriptService) Dataset(
	_ context.Context, _ domain.RoutingCategory,
) (*domain.AnalysisDataset, error) {
	if m.err != nil {
		return nil, m.err
	}
	if m.dataset == nil {
		return domain.NewAnalysisDataset(), nil
	}
	return m.dataset, nil
}

// mockCategorizer is a mock implementation of driving.Categorizer.
type mockCategorizer struct {
	category domain.RoutingCategory
	err      error
}

func (m *mockCategorizer) Categorize(_ context.Context, _ string) (domain.RoutingCategory, error) {
	if m.err != nil {
		return "", m.err
	}
	return m.category, nil
}

var (
	_ driving.ManuscriptService = (*mockManuscriptService)(nil)
	_ driving.Categorizer       = (*mockCategorizer)(nil)
)
