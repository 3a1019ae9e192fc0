package domain

import "time"

const unknownDescription = "Unknown"

// AIProvider identifies an AI service provider.
type AIProvider string

// Available AI providers.
const (
	// AIProviderOllama is local Ollama instance.
	AIProviderOllama AIProvider = "ollama"

	// AIProviderOpenAI is OpenAI cloud API.
	AIProviderOpenAI AIProvider = "openai"

	// AIProviderAnthropic is Anthropic cloud API.
	AIProviderAnthropic AIProvider = "anthropic"

	// AIProviderGemini is Google Gemini cloud API.
	AIProviderGemini AIProvider = "gemini"

	// AIProviderSolar is Upstage Solar, served over an OpenAI-compatible API.
	AIProviderSolar AIProvider = "solar"
)

// AIProviders returns all recognised providers.
func AIProviders() []AIProvider {
	return []AIProvider{AIProviderOpenAI, AIProviderAnthropic, AIProviderGemini, AIProviderSolar, AIProviderOllama}
}

// IsValid returns true if the AI provider is recognised.
func (p AIProvider) IsValid() bool {
	switch p {
	case AIProviderOllama, AIProviderOpenAI, AIProviderAnthropic, AIProviderGemini, AIProviderSolar:
		return true
	default:
		return false
	}
}

// RequiresAPIKey returns true if this provider needs an API key.
func (p AIProvider) RequiresAPIKey() bool {
	return p != AIProviderOllama
}

// APIKeyEnv returns the environment variable holding this provider's key.
func (p AIProvider) APIKeyEnv() string {
	switch p {
	case AIProviderOpenAI:
		return "OPENAI_API_KEY"
	case AIProviderAnthropic:
		return "ANTHROPIC_API_KEY"
	case AIProviderGemini:
		return "GEMINI_API_KEY"
	case AIProviderSolar:
		return "UPSTAGE_API_KEY"
	default:
		return ""
	}
}

// String returns the string representation.
func (p AIProvider) String() string {
	return string(p)
}

// Description returns a human-readable description of the provider.
func (p AIProvider) Description() string {
	switch p {
	case AIProviderOllama:
		return "Ollama (local)"
	case AIProviderOpenAI:
		return "OpenAI (cloud)"
	case AIProviderAnthropic:
		return "Anthropic (cloud)"
	case AIProviderGemini:
		return "Google Gemini (cloud)"
	case AIProviderSolar:
		return "Upstage Solar (cloud)"
	default:
		return unknownDescription
	}
}

// LLMSettings holds LLM provider configuration.
type LLMSettings struct {
	// Provider is the LLM service provider.
	Provider AIProvider

	// Model is the default model name. Empty uses the provider's default.
	Model string

	// BaseURL is the API endpoint (for Ollama and compatible APIs).
	BaseURL string

	// APIKey is the API key for cloud providers.
	APIKey string
}

// IsConfigured returns true if the LLM provider is set up.
func (l LLMSettings) IsConfigured() bool {
	if !l.Provider.IsValid() {
		return false
	}
	if l.Provider.RequiresAPIKey() && l.APIKey == "" {
		return false
	}
	return true
}

// StageModels overrides the model per pipeline stage.
// An empty field uses LLMSettings.Model.
type StageModels struct {
	Expression string
	Parameter  string
	Template   string
	Categorize string
	Generate   string
}

// PipelineSettings holds aggregation scheduling configuration.
type PipelineSettings struct {
	// CallInterval is the minimum gap between consecutive extraction calls.
	CallInterval time.Duration

	// TemplateInterval is the minimum gap between consecutive templating calls.
	TemplateInterval time.Duration

	// FilePattern selects corpus files within a directory. Several glob
	// patterns may be given separated by commas.
	FilePattern string
}

// StorageBackend selects the document store implementation.
type StorageBackend string

// Available storage backends.
const (
	StorageSQLite StorageBackend = "sqlite"
	StorageMemory StorageBackend = "memory"
)

// IsValid returns true if the backend is recognised.
func (b StorageBackend) IsValid() bool {
	return b == StorageSQLite || b == StorageMemory
}

// StorageSettings holds document store configuration.
type StorageSettings struct {
	Backend StorageBackend

	// DataDir holds the database file. Empty means ~/.quill/data.
	DataDir string
}

// ServerSettings holds HTTP API configuration.
type ServerSettings struct {
	Addr string
}

// AppSettings holds all application settings.
type AppSettings struct {
	LLM      LLMSettings
	Models   StageModels
	Pipeline PipelineSettings
	Storage  StorageSettings
	Server   ServerSettings
}

// Default pipeline pacing.
const (
	DefaultCallInterval     = time.Second
	DefaultTemplateInterval = 500 * time.Millisecond
)

// DefaultAppSettings returns settings with sensible defaults.
// The API key is left empty; it must come from the config file or environment.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		LLM: LLMSettings{
			Provider: AIProviderOpenAI,
		},
		Pipeline: PipelineSettings{
			CallInterval:     DefaultCallInterval,
			TemplateInterval: DefaultTemplateInterval,
			FilePattern:      "*.txt",
		},
		Storage: StorageSettings{
			Backend: StorageSQLite,
		},
		Server: ServerSettings{
			Addr: ":8000",
		},
	}
}

// Pipeline stages that call the LLM. Used for model overrides and usage accounting.
const (
	StageExpression = "expression"
	StageParameter  = "parameter"
	StageTemplate   = "template"
	StageCategorize = "categorize"
	StageGenerate   = "generate"
)

// ModelFor returns the model configured for stage, falling back to the default model.
func (s AppSettings) ModelFor(stage string) string {
	var m string
	switch stage {
	case StageExpression:
		m = s.Models.Expression
	case StageParameter:
		m = s.Models.Parameter
	case StageTemplate:
		m = s.Models.Template
	case StageCategorize:
		m = s.Models.Categorize
	case StageGenerate:
		m = s.Models.Generate
	}
	if m == "" {
		return s.LLM.Model
	}
	return m
}
