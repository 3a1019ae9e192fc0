package cli

import (
	"bytes"
	"context"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/custodia-labs/quill-cli/internal/adapters/driven/corpus/filesystem"
	"github.com/custodia-labs/quill-cli/internal/adapters/driven/usage"
	"github.com/custodia-labs/quill-cli/internal/core/domain"
	"github.com/custodia-labs/quill-cli/internal/core/ports/driving"
)

type mockSettingsService struct {
	settings domain.AppSettings
	set      map[string]string
	err      error
}

func newMockSettingsService() *mockSettingsService {
	return &mockSettingsService{settings: domain.DefaultAppSettings(), set: make(map[string]string)}
}

func (m *mockSettingsService) Get() (*domain.AppSettings, error) {
	if m.err != nil {
		return nil, m.err
	}
	s := m.settings
	return &s, nil
}

func (m *mockSettingsService) Set(key, value string) error {
	if m.err != nil {
		return m.err
	}
	m.set[key] = value
	return nil
}

func (m *mockSettingsService) Keys() []string {
	return []string{"llm.api_key", "llm.model", "llm.provider"}
}

type mockAnalysisService struct {
	err         error
	runs        int
	runCategory domain.RoutingCategory
	paramsDir   string
}

func (m *mockAnalysisService) Morphemes(_ context.Context, _ string) (domain.WordSet, error) {
	if m.err != nil {
		return nil, m.err
	}
	return domain.NewWordSet("피부", "관리", "무료"), nil
}

func (m *mockAnalysisService) Sentences(_ context.Context, _ string) ([]string, error) {
	if m.err != nil {
		return nil, m.err
	}
	return []string{"첫 문장입니다.", "두 번째 문장!"}, nil
}

func (m *mockAnalysisService) Expressions(_ context.Context, _ string) (*driving.AggregationReport, error) {
	if m.err != nil {
		return nil, m.err
	}
	result := domain.NewCategoryMap()
	result.Add("혜택", "지금 바로 신청하세요")
	return &driving.AggregationReport{Kind: domain.ExtractionExpression, Result: result, Processed: 2, Failed: 1}, nil
}

func (m *mockAnalysisService) Parameters(_ context.Context, _ string) (*driving.AggregationReport, error) {
	if m.err != nil {
		return nil, m.err
	}
	result := domain.NewCategoryMap()
	result.Add("병원", "서울치과")
	return &driving.AggregationReport{Kind: domain.ExtractionParameter, Result: result, Processed: 3}, nil
}

func (m *mockAnalysisService) Templates(_ context.Context, _, paramsDir string) ([]driving.TemplatedDocument, error) {
	if m.err != nil {
		return nil, m.err
	}
	m.paramsDir = paramsDir
	return []driving.TemplatedDocument{{FileName: "a.txt", Text: "[병원]에서 만나요.", Templated: 1}}, nil
}

func (m *mockAnalysisService) Library(_ context.Context, _ string) ([]driving.LibraryEntry, error) {
	if m.err != nil {
		return nil, m.err
	}
	return []driving.LibraryEntry{{Category: "a", Sentences: []string{"하나.", "둘."}}}, nil
}

func (m *mockAnalysisService) Run(
	_ context.Context, _ string, category domain.RoutingCategory,
) (*driving.AnalysisReport, error) {
	if m.err != nil {
		return nil, m.err
	}
	m.runs++
	m.runCategory = category
	return &driving.AnalysisReport{
		Category:    category,
		Snapshot:    "snap-1",
		Documents:   2,
		UniqueWords: 10,
		Sentences:   4,
	}, nil
}

type mockManuscriptService struct {
	manuscripts  []domain.Manuscript
	err          error
	category     domain.RoutingCategory
	instructions string
	keyword      string
}

func (m *mockManuscriptService) Generate(
	_ context.Context, category domain.RoutingCategory, instructions string,
) (*domain.Manuscript, error) {
	if m.err != nil {
		return nil, m.err
	}
	m.category = category
	m.instructions = instructions
	return testManuscript(category, instructions), nil
}

func (m *mockManuscriptService) GenerateForKeyword(_ context.Context, keyword string) (*domain.Manuscript, error) {
	if m.err != nil {
		return nil, m.err
	}
	m.keyword = keyword
	return testManuscript(domain.CategoryHospital, keyword), nil
}

func (m *mockManuscriptService) List(_ context.Context, _ domain.RoutingCategory) ([]domain.Manuscript, error) {
	return m.manuscripts, m.err
}

func (m *mockManuscriptService) Dataset(_ context.Context, _ domain.RoutingCategory) (*domain.AnalysisDataset, error) {
	return domain.NewAnalysisDataset(), m.err
}

func testManuscript(category domain.RoutingCategory, keyword string) *domain.Manuscript {
	return &domain.Manuscript{
		ID:        "ms-1",
		Content:   "생성된 원고입니다.",
		Keyword:   keyword,
		Category:  category,
		CreatedAt: time.Date(2026, 4, 1, 12, 0, 0, 0, time.UTC),
	}
}

type mockCategorizer struct {
	category domain.RoutingCategory
	err      error
}

func (m *mockCategorizer) Categorize(_ context.Context, _ string) (domain.RoutingCategory, error) {
	return m.category, m.err
}

type mockWatcher struct {
	batches [][]filesystem.Event
	err     error
}

func (m *mockWatcher) Watch(_ context.Context, _ string) (<-chan []filesystem.Event, error) {
	if m.err != nil {
		return nil, m.err
	}
	ch := make(chan []filesystem.Event, len(m.batches))
	for _, b := range m.batches {
		ch <- b
	}
	close(ch)
	return ch, nil
}

type mockUsage struct {
	stats usage.Stats
}

func (m *mockUsage) Stats() usage.Stats {
	return m.stats
}

// testServices holds the mocks installed by setupTestServices.
type testServices struct {
	settings    *mockSettingsService
	analysis    *mockAnalysisService
	manuscripts *mockManuscriptService
	categorizer *mockCategorizer
	watcher     *mockWatcher
	usage       *mockUsage
	validated   int
}

// setupTestServices installs mock services and returns them with a cleanup
// function that clears the services and resets every flag.
func setupTestServices() (*testServices, func()) {
	ts := &testServices{
		settings:    newMockSettingsService(),
		analysis:    &mockAnalysisService{},
		manuscripts: &mockManuscriptService{},
		categorizer: &mockCategorizer{category: domain.CategoryStartup},
		watcher:     &mockWatcher{},
		usage:       &mockUsage{},
	}
	Configure(Services{
		Settings:    ts.settings,
		Analysis:    ts.analysis,
		Manuscripts: ts.manuscripts,
		Categorizer: ts.categorizer,
		Watcher:     ts.watcher,
		Usage:       ts.usage,
		ValidateLLM: func(_ context.Context, _ *domain.LLMSettings) error {
			ts.validated++
			return nil
		},
		LLMProvider: domain.AIProviderOpenAI,
	})

	return ts, func() {
		Configure(Services{})
		resetFlags(rootCmd)
		rootCmd.SetArgs(nil)
	}
}

func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

// execute runs the root command with args and returns its output.
func execute(args ...string) (string, error) {
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	err := rootCmd.ExecuteContext(context.Background())
	return buf.String(), err
}
