// Package usage records AI token consumption, logging each call and keeping
// running totals in a JSON file.
package usage

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/custodia-labs/quill-cli/internal/core/domain"
	"github.com/custodia-labs/quill-cli/internal/core/ports/driven"
	"github.com/custodia-labs/quill-cli/internal/logger"
)

// Ensure Tracker implements the interface.
var _ driven.UsageRecorder = (*Tracker)(nil)

// FileName is the usage file inside the Quill home directory.
const FileName = "usage.json"

// Counts is a running token total.
type Counts struct {
	Calls            int `json:"calls"`
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

func (c *Counts) add(u domain.TokenUsage) {
	c.Calls++
	c.PromptTokens += u.PromptTokens
	c.CompletionTokens += u.CompletionTokens
	c.TotalTokens += u.TotalTokens
}

// Stats are the persisted totals.
type Stats struct {
	Total       Counts            `json:"total"`
	ByProvider  map[string]Counts `json:"by_provider"`
	ByModel     map[string]Counts `json:"by_model"`
	ByOperation map[string]Counts `json:"by_operation"`
	UpdatedAt   time.Time         `json:"updated_at"`
}

func newStats() Stats {
	return Stats{
		ByProvider:  make(map[string]Counts),
		ByModel:     make(map[string]Counts),
		ByOperation: make(map[string]Counts),
	}
}

// Tracker implements driven.UsageRecorder. An empty path keeps totals in
// memory only.
type Tracker struct {
	mu    sync.Mutex
	path  string
	stats Stats
	now   func() time.Time
}

// NewTracker loads existing totals from path. A missing or corrupt file starts
// from zero.
func NewTracker(path string) (*Tracker, error) {
	t := &Tracker{path: path, stats: newStats(), now: time.Now}
	if path == "" {
		return t, nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("create usage directory: %w", err)
	}
	if err := t.load(); err != nil {
		logger.Warn("usage file %s unreadable, starting fresh: %v", path, err)
		t.stats = newStats()
	}
	return t, nil
}

func (t *Tracker) load() error {
	data, err := os.ReadFile(t.path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return err
	}

	stats := newStats()
	if err := json.Unmarshal(data, &stats); err != nil {
		return err
	}
	// Older or hand-edited files may lack maps
	if stats.ByProvider == nil {
		stats.ByProvider = make(map[string]Counts)
	}
	if stats.ByModel == nil {
		stats.ByModel = make(map[string]Counts)
	}
	if stats.ByOperation == nil {
		stats.ByOperation = make(map[string]Counts)
	}
	t.stats = stats
	return nil
}

// Record logs the call and adds it to the totals. Persistence failures are
// logged, never returned, so accounting cannot fail a pipeline run.
func (t *Tracker) Record(_ context.Context, u domain.TokenUsage) {
	logger.Info("tokens [%s] %s/%s - prompt: %d, completion: %d, total: %d",
		u.Operation, u.Provider, u.Model, u.PromptTokens, u.CompletionTokens, u.TotalTokens)

	t.mu.Lock()
	defer t.mu.Unlock()

	t.stats.Total.add(u)
	addTo(t.stats.ByProvider, u.Provider, u)
	addTo(t.stats.ByModel, u.Model, u)
	addTo(t.stats.ByOperation, u.Operation, u)
	t.stats.UpdatedAt = t.now().UTC()

	if err := t.saveLocked(); err != nil {
		logger.Warn("save usage: %v", err)
	}
}

func addTo(m map[string]Counts, key string, u domain.TokenUsage) {
	c := m[key]
	c.add(u)
	m[key] = c
}

func (t *Tracker) saveLocked() error {
	if t.path == "" {
		return nil
	}
	data, err := json.MarshalIndent(t.stats, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(t.path, data, 0600)
}

// Stats returns a copy of the totals.
func (t *Tracker) Stats() Stats {
	t.mu.Lock()
	defer t.mu.Unlock()

	out := t.stats
	out.ByProvider = copyCounts(t.stats.ByProvider)
	out.ByModel = copyCounts(t.stats.ByModel)
	out.ByOperation = copyCounts(t.stats.ByOperation)
	return out
}

func copyCounts(src map[string]Counts) map[string]Counts {
	dst := make(map[string]Counts, len(src))
	for k, v := range src {
		dst[k] = v
	}
	return dst
}
