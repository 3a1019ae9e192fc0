package driving

import (
	"context"

	"github.com/custodia-labs/quill-cli/internal/core/domain"
)

// ManuscriptService generates and lists manuscripts.
type ManuscriptService interface {
	// Generate writes a manuscript from the dataset stored under category and
	// persists it. Returns domain.ErrInsufficientData when the dataset is incomplete.
	Generate(ctx context.Context, category domain.RoutingCategory, instructions string) (*domain.Manuscript, error)

	// GenerateForKeyword categorises keyword, then generates from that
	// category's dataset using the keyword as instructions.
	GenerateForKeyword(ctx context.Context, keyword string) (*domain.Manuscript, error)

	// List returns manuscripts stored under category, oldest first.
	List(ctx context.Context, category domain.RoutingCategory) ([]domain.Manuscript, error)

	// Dataset returns the merged dataset stored under category.
	Dataset(ctx context.Context, category domain.RoutingCategory) (*domain.AnalysisDataset, error)
}

// Categorizer maps a free-text keyword to a routing category.
type Categorizer interface {
	// Categorize returns a member of the closed routing set. Blank keywords
	// return domain.ErrInvalidInput.
	Categorize(ctx context.Context, keyword string) (domain.RoutingCategory, error)
}
