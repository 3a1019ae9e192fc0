package mcp

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/quill-cli/internal/core/domain"
)

func TestServer_handleCategorize(t *testing.T) {
	ctx := context.Background()

	t.Run("returns category", func(t *testing.T) {
		server, err := NewServer(&Ports{
			Manuscripts: &mockManuscriptService{},
			Categorizer: &mockCategorizer{category: domain.CategoryBeautyTreatment},
		})
		require.NoError(t, err)

		_, output, err := server.handleCategorize(ctx, nil, CategorizeInput{Keyword: "강남 피부과"})
		require.NoError(t, err)
		assert.Equal(t, "beauty-treatment", output.Category)
	})

	t.Run("missing categorizer returns error", func(t *testing.T) {
		server, err := NewServer(&Ports{Manuscripts: &mockManuscriptService{}})
		require.NoError(t, err)

		_, _, err = server.handleCategorize(ctx, nil, CategorizeInput{Keyword: "test"})
		assert.Error(t, err)
	})

	t.Run("categorizer error is returned", func(t *testing.T) {
		server, err := NewServer(&Ports{
			Manuscripts: &mockManuscriptService{},
			Categorizer: &mockCategorizer{err: domain.ErrInvalidInput},
		})
		require.NoError(t, err)

		_, _, err = server.handleCategorize(ctx, nil, CategorizeInput{Keyword: " "})
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})
}

func TestServer_handleGenerate(t *testing.T) {
	ctx := context.Background()

	t.Run("explicit category generates directly", func(t *testing.T) {
		svc := &mockManuscriptService{}
		server, err := NewServer(&Ports{Manuscripts: svc})
		require.NoError(t, err)

		_, output, err := server.handleGenerate(ctx, nil, GenerateInput{
			Keyword:  "봄맞이 이벤트",
			Category: "startup",
		})
		require.NoError(t, err)
		assert.Equal(t, domain.CategoryStartup, svc.generatedCategory)
		assert.Equal(t, "봄맞이 이벤트", svc.generatedWith)
		assert.Zero(t, svc.keywordCalls)
		assert.Equal(t, "ms-1", output.ID)
		assert.Equal(t, "startup", output.Category)
		assert.Equal(t, "2026-01-02T03:04:05Z", output.CreatedAt)
	})

	t.Run("empty category routes by keyword", func(t *testing.T) {
		svc := &mockManuscriptService{}
		server, err := NewServer(&Ports{Manuscripts: svc})
		require.NoError(t, err)

		_, output, err := server.handleGenerate(ctx, nil, GenerateInput{Keyword: "임플란트"})
		require.NoError(t, err)
		assert.Equal(t, 1, svc.keywordCalls)
		assert.Equal(t, "hospital", output.Category)
	})

	t.Run("unknown category is rejected", func(t *testing.T) {
		server, err := NewServer(&Ports{Manuscripts: &mockManuscriptService{}})
		require.NoError(t, err)

		_, _, err = server.handleGenerate(ctx, nil, GenerateInput{Keyword: "x", Category: "cars"})
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("service error is returned", func(t *testing.T) {
		svc := &mockManuscriptService{err: domain.ErrInsufficientData}
		server, err := NewServer(&Ports{Manuscripts: svc})
		require.NoError(t, err)

		_, _, err = server.handleGenerate(ctx, nil, GenerateInput{Keyword: "x", Category: "other"})
		assert.ErrorIs(t, err, domain.ErrInsufficientData)
	})
}

func TestServer_handleList(t *testing.T) {
	ctx := context.Background()

	t.Run("returns manuscripts", func(t *testing.T) {
		created := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
		svc := &mockManuscriptService{
			manuscripts: []domain.Manuscript{
				{ID: "a", Content: "첫 번째", Category: domain.CategoryOther, CreatedAt: created},
				{ID: "b", Content: "두 번째", Category: domain.CategoryOther, CreatedAt: created},
			},
		}
		server, err := NewServer(&Ports{Manuscripts: svc})
		require.NoError(t, err)

		_, output, err := server.handleList(ctx, nil, ListInput{Category: "other"})
		require.NoError(t, err)
		assert.Equal(t, 2, output.Count)
		assert.Equal(t, "a", output.Manuscripts[0].ID)
		assert.Equal(t, "두 번째", output.Manuscripts[1].Content)
	})

	t.Run("empty list", func(t *testing.T) {
		server, err := NewServer(&Ports{Manuscripts: &mockManuscriptService{}})
		require.NoError(t, err)

		_, output, err := server.handleList(ctx, nil, ListInput{Category: "hospital"})
		require.NoError(t, err)
		assert.Zero(t, output.Count)
		assert.Empty(t, output.Manuscripts)
	})

	t.Run("service error is returned", func(t *testing.T) {
		svc := &mockManuscriptService{err: errors.New("db closed")}
		server, err := NewServer(&Ports{Manuscripts: svc})
		require.NoError(t, err)

		_, _, err = server.handleList(ctx, nil, ListInput{Category: "hospital"})
		assert.Error(t, err)
	})
}
