// Package pacing spaces consecutive AI calls with a token bucket limiter.
package pacing

import (
	"context"
	"time"

	"golang.org/x/time/rate"

	"github.com/custodia-labs/quill-cli/internal/core/ports/driven"
)

// Ensure Pacer implements the interface.
var _ driven.Pacer = (*Pacer)(nil)

// Pacer lets the first call through immediately and spaces later calls by
// at least the configured interval.
type Pacer struct {
	limiter *rate.Limiter
}

// New creates a pacer. A non-positive interval disables pacing.
func New(interval time.Duration) *Pacer {
	if interval <= 0 {
		return &Pacer{limiter: rate.NewLimiter(rate.Inf, 1)}
	}
	return &Pacer{limiter: rate.NewLimiter(rate.Every(interval), 1)}
}

// Wait blocks until the next call may proceed or ctx is done.
func (p *Pacer) Wait(ctx context.Context) error {
	return p.limiter.Wait(ctx)
}
