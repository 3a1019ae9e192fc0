package file

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/custodia-labs/quill-cli/internal/core/ports/driven"
)

// Ensure PromptStore implements the interface.
var _ driven.PromptStore = (*PromptStore)(nil)

// PromptStore loads LLM prompts from user-editable files on disk.
// Prompts are loaded from a configurable directory with fallback to embedded defaults.
//
// The store uses lazy initialisation - files are only created when first accessed,
// not in the constructor.
type PromptStore struct {
	mu        sync.RWMutex
	promptDir string
	cache     map[string]string
	initOnce  sync.Once
	initErr   error
}

// defaultPrompts contains embedded default prompts, written as text/template
// sources. They seed the prompt directory on first use.
//
//nolint:lll // Prompt content is intentionally long and should not be wrapped.
var defaultPrompts = map[string]string{
	driven.PromptExpression: `다음은 블로그 원고의 일부입니다.

[원고 내용]
{{.Text}}

[요청]
위 원고 내용에서 마케팅/콘텐츠 제작에 유용하게 활용될 수 있는 '표현'들을 추출해주세요.
'표현'은 특정 중분류(예: '긍정적 평가', '부정적 평가', '제품 특징', '서비스 장점', '사용 후기', '감성 표현', '행동 유도', '문제점 제시', '해결책 제시', '비교/대조', '수치/통계', '질문 유도')에 적합한 단어 또는 짧은 문장(구)입니다.
각 표현은 해당 중분류의 '키'에 해당하는 '밸류'로 매칭시켜주세요.
결과는 반드시 다음 JSON 형식으로 반환해주세요.

{
  "중분류_키1": ["표현1", "표현2"],
  "중분류_키2": ["표현3", "표현4"]
}`,

	driven.PromptParameter: `다음은 블로그 원고 텍스트입니다.

[원고 내용]
{{.Text}}

[요청]
위 원고 내용에서 반복적으로 나타나거나, 대체 가능한 핵심 개체(entity)들을 모두 추출해주세요.
추출된 개체들을 의미적으로 유사한 항목끼리 그룹화하고, 각 그룹을 대표할 수 있는 가장 적절한 "대표 키워드"를 한 단어로 지정해주세요.
예를 들어, '땀땀', '토끼정'은 '상호명'으로, '갤럭시S24', '아이폰16'은 '제품명'으로 그룹화할 수 있습니다.
결과는 반드시 다음 JSON 형식으로 반환해주세요.

{
  "대표 키워드1": ["추출된 개체1", "추출된 개체2"],
  "대표 키워드2": ["추출된 개체3", "추출된 개체4"]
}`,

	driven.PromptTemplate: `다음은 원본 텍스트의 한 부분과, 이 텍스트 내에서 대체될 수 있는 파라미터들의 목록입니다.
파라미터 목록은 '대표 키워드': ['값1', '값2'] 형태의 JSON 객체입니다.

[원본 텍스트 세그먼트]
{{.Segment}}

[파라미터 목록]
{{.Parameters}}

[요청]
원본 텍스트 세그먼트 내에서 '파라미터 목록'에 있는 '값'들을 찾아서 해당 '대표 키워드'로 대체해주세요.
예를 들어, '갤럭시S24'라는 값이 '제품명'이라는 대표 키워드에 속한다면, 원본 텍스트의 '갤럭시S24'를 '[제품명]'으로 대체해야 합니다.
대체된 결과만 출력해주세요. 다른 설명이나 추가적인 텍스트는 포함하지 마세요.`,

	driven.PromptCategorize: `다음 키워드가 어떤 카테고리에 가장 적합한지 아래 목록에서 하나만 골라주세요.
다른 설명 없이 카테고리 이름만 정확하게 반환해야 합니다.

[키워드]
{{.Keyword}}

[카테고리 목록]
{{.Categories}}`,

	driven.PromptGenerate: `[고유 단어 리스트]
{{.Words}}

[문장 리스트]
{{.Sentences}}

[표현 라이브러리 (중분류 키워드: [표현])]
{{.Expressions}}

[AI 개체 인식 및 그룹화 결과 (대표 키워드: [개체])]
{{.Parameters}}

[사용자 지시사항]
{{.Instructions}}
{{if .Reference}}
[참고 문서]
{{.Reference}}
{{end}}
[요청]
위 분석 자료의 단어, 문장 구조, 표현, 개체 그룹을 참고하여 '{{.Instructions}}' 키워드에 맞는 블로그 원고를 한국어로 작성해주세요.
- 문장 리스트의 어조와 문장 길이를 따르되 문장을 그대로 복사하지 마세요.
- 개체 그룹의 값은 키워드에 맞는 새로운 값으로 바꿔 사용하세요.
- 제목 1개와 본문을 작성하고, 본문은 소제목 없이 자연스러운 문단으로 구성하세요.
- 원고 외의 설명은 출력하지 마세요.`,

	driven.PromptReference: ``,
}

// promptFiles lists the files created in the prompt directory.
var promptFiles = []string{
	driven.PromptExpression,
	driven.PromptParameter,
	driven.PromptTemplate,
	driven.PromptCategorize,
	driven.PromptGenerate,
	driven.PromptReference,
}

// NewPromptStore creates a new file-based prompt store.
// If promptDir is empty, defaults to HomeDir()/prompts.
//
// The constructor does not perform any I/O - directory creation and
// file writes happen lazily on first Load() call.
func NewPromptStore(promptDir string) (*PromptStore, error) {
	if promptDir == "" {
		home, err := HomeDir()
		if err != nil {
			return nil, fmt.Errorf("get home directory: %w", err)
		}
		promptDir = filepath.Join(home, "prompts")
	}

	return &PromptStore{
		promptDir: promptDir,
		cache:     make(map[string]string),
	}, nil
}

// Load returns the prompt template for the given name.
// On first call, initialises the prompt directory and creates default files.
// Falls back to the embedded default if the file is missing or unreadable.
func (s *PromptStore) Load(name string) (string, error) {
	s.initOnce.Do(s.initialise)
	if s.initErr != nil {
		if prompt, ok := defaultPrompts[name]; ok {
			return prompt, nil
		}
		return "", fmt.Errorf("prompt store init failed: %w", s.initErr)
	}

	s.mu.RLock()
	if prompt, ok := s.cache[name]; ok {
		s.mu.RUnlock()
		return prompt, nil
	}
	s.mu.RUnlock()

	// Load from file (no lock held during I/O)
	prompt, err := s.loadFromFile(name)
	if err != nil {
		if defaultPrompt, ok := defaultPrompts[name]; ok {
			return defaultPrompt, nil
		}
		return "", fmt.Errorf("load prompt %q: %w", name, err)
	}

	// Double-check so concurrent loads agree on one value
	s.mu.Lock()
	if cached, ok := s.cache[name]; ok {
		prompt = cached
	} else {
		s.cache[name] = prompt
	}
	s.mu.Unlock()

	return prompt, nil
}

// Reload clears the prompt cache, forcing fresh loads from disk.
func (s *PromptStore) Reload() {
	s.mu.Lock()
	s.cache = make(map[string]string)
	s.mu.Unlock()
}

// Dir returns the prompt directory path.
func (s *PromptStore) Dir() string {
	return s.promptDir
}

// initialise creates the prompt directory and default files.
func (s *PromptStore) initialise() {
	if err := os.MkdirAll(s.promptDir, 0700); err != nil {
		s.initErr = fmt.Errorf("create prompt directory: %w", err)
		return
	}

	// Existing files are user edits and are never overwritten
	for _, name := range promptFiles {
		path := s.path(name)
		if _, err := os.Stat(path); os.IsNotExist(err) {
			if err := os.WriteFile(path, []byte(defaultPrompts[name]), 0600); err != nil {
				s.initErr = fmt.Errorf("create default prompt %q: %w", name, err)
				return
			}
		}
	}

	if err := s.createReadme(); err != nil {
		s.initErr = err
	}
}

func (s *PromptStore) path(name string) string {
	return filepath.Join(s.promptDir, name+".txt")
}

// loadFromFile reads a prompt from disk.
func (s *PromptStore) loadFromFile(name string) (string, error) {
	data, err := os.ReadFile(s.path(name))
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}

// createReadme writes a README file explaining the prompts directory.
func (s *PromptStore) createReadme() error {
	path := filepath.Join(s.promptDir, "README.md")
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		return nil // Already exists or stat error (ignore)
	}

	content := `# Quill Prompts

This directory contains the prompts Quill sends to the AI provider.

## Files

- ` + "`expression.txt`" + ` - Extracts marketing expressions by mid-level category. Fields: ` + "`{{.Text}}`" + `
- ` + "`parameter.txt`" + ` - Extracts and groups named entities. Fields: ` + "`{{.Text}}`" + `
- ` + "`template.txt`" + ` - Replaces known values with [category] placeholders. Fields: ` + "`{{.Segment}}`, `{{.Parameters}}`" + `
- ` + "`categorize.txt`" + ` - Routes a keyword to one category. Fields: ` + "`{{.Keyword}}`, `{{.Categories}}`" + `
- ` + "`generate.txt`" + ` - Writes the manuscript. Fields: ` + "`{{.Words}}`, `{{.Sentences}}`, `{{.Expressions}}`, `{{.Parameters}}`, `{{.Instructions}}`, `{{.Reference}}`" + `
- ` + "`reference.txt`" + ` - Free-form reference document passed to generate as ` + "`{{.Reference}}`" + `

## Customisation

Prompts are Go text/template sources. Edit any file to change the AI's
behaviour; changes take effect on the next command. Delete a file to
restore its default.
`
	return os.WriteFile(path, []byte(content), 0600)
}
