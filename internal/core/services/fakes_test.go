package services

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/custodia-labs/quill-cli/internal/core/domain"
	"github.com/custodia-labs/quill-cli/internal/core/ports/driven"
)

// fakeLLM answers completions from a handler and records every request.
type fakeLLM struct {
	mu       sync.Mutex
	handler  func(req driven.CompletionRequest) (string, error)
	requests []driven.CompletionRequest
}

func newFakeLLM(handler func(req driven.CompletionRequest) (string, error)) *fakeLLM {
	return &fakeLLM{handler: handler}
}

// replies returns a fake that answers with responses in order, then errors.
func replies(responses ...string) *fakeLLM {
	var i int
	return newFakeLLM(func(driven.CompletionRequest) (string, error) {
		if i >= len(responses) {
			return "", errors.New("no more scripted responses")
		}
		i++
		return responses[i-1], nil
	})
}

func (f *fakeLLM) Complete(_ context.Context, req driven.CompletionRequest) (*driven.Completion, error) {
	f.mu.Lock()
	f.requests = append(f.requests, req)
	f.mu.Unlock()

	text, err := f.handler(req)
	if err != nil {
		return nil, err
	}
	return &driven.Completion{
		Text:             text,
		Model:            "fake-model",
		PromptTokens:     len(req.Prompt),
		CompletionTokens: len(text),
		TotalTokens:      len(req.Prompt) + len(text),
	}, nil
}

func (f *fakeLLM) ModelName() string { return "fake-model" }
func (f *fakeLLM) Provider() domain.AIProvider { return domain.AIProviderOpenAI }
func (f *fakeLLM) Ping(context.Context) error { return nil }
func (f *fakeLLM) Close() error { return nil }

func (f *fakeLLM) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.requests)
}

func (f *fakeLLM) lastPrompt() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.requests) == 0 {
		return ""
	}
	return f.requests[len(f.requests)-1].Prompt
}

// fakePrompts serves minimal templates exposing every field.
type fakePrompts map[string]string

func defaultFakePrompts() fakePrompts {
	return fakePrompts{
		driven.PromptExpression: "expressions of: {{.Text}}",
		driven.PromptParameter:  "entities of: {{.Text}}",
		driven.PromptTemplate:   "template {{.Segment}} with {{.Parameters}}",
		driven.PromptCategorize: "categorise {{.Keyword}} into {{.Categories}}",
		driven.PromptGenerate: strings.Join([]string{
			"WORDS {{.Words}}",
			"SENTENCES {{.Sentences}}",
			"EXPRESSIONS {{.Expressions}}",
			"PARAMETERS {{.Parameters}}",
			"INSTRUCTIONS {{.Instructions}}",
			"REFERENCE {{.Reference}}",
		}, "\n"),
	}
}

func (p fakePrompts) Load(name string) (string, error) {
	if s, ok := p[name]; ok {
		return s, nil
	}
	return "", domain.ErrNotFound
}

func (p fakePrompts) Reload() {}

// countingPacer counts waits and optionally fails them.
type countingPacer struct {
	waits int
	err   error
}

func (p *countingPacer) Wait(ctx context.Context) error {
	p.waits++
	if p.err != nil {
		return p.err
	}
	return ctx.Err()
}

// usageLog collects recorded token usage.
type usageLog struct {
	mu      sync.Mutex
	entries []domain.TokenUsage
}

func (u *usageLog) Record(_ context.Context, usage domain.TokenUsage) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.entries = append(u.entries, usage)
}

// fakeCorpus serves fixed documents per directory.
type fakeCorpus map[string][]domain.Document

func (c fakeCorpus) Read(_ context.Context, dir string) ([]domain.Document, error) {
	docs, ok := c[dir]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return docs, nil
}

// scriptedExtractor returns results keyed by document text.
type scriptedExtractor struct {
	kind    domain.ExtractionKind
	results map[string]domain.ExtractionResult
	calls   []string
}

func (e *scriptedExtractor) Kind() domain.ExtractionKind { return e.kind }

func (e *scriptedExtractor) Extract(_ context.Context, text string) domain.ExtractionResult {
	e.calls = append(e.calls, text)
	if r, ok := e.results[text]; ok {
		return r
	}
	return domain.Failure(domain.ErrParse)
}

func doc(id, content string) domain.Document {
	return domain.Document{ID: id, Path: "/corpus/" + id, Content: content}
}

func cmap(pairs ...string) *domain.CategoryMap {
	m := domain.NewCategoryMap()
	for i := 0; i+1 < len(pairs); i += 2 {
		m.Add(pairs[i], pairs[i+1])
	}
	return m
}
