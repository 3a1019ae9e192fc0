package services

import (
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/custodia-labs/quill-cli/internal/core/domain"
	"github.com/custodia-labs/quill-cli/internal/core/ports/driven"
	"github.com/custodia-labs/quill-cli/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
//
//nolint:gosec // G101: These are config key names, not actual credentials.
const (
	keyLLMProvider      = "llm.provider"
	keyLLMModel         = "llm.model"
	keyLLMBaseURL       = "llm.base_url"
	keyLLMAPIKey        = "llm.api_key"
	keyModelExpression  = "models.expression"
	keyModelParameter   = "models.parameter"
	keyModelTemplate    = "models.template"
	keyModelCategorize  = "models.categorize"
	keyModelGenerate    = "models.generate"
	keyCallInterval     = "pipeline.call_interval"
	keyTemplateInterval = "pipeline.template_interval"
	keyFilePattern      = "pipeline.file_pattern"
	keyStorageBackend   = "storage.backend"
	keyStorageDataDir   = "storage.data_dir"
	keyServerAddr       = "server.addr"
)

// Environment overrides, applied after the config file.
const (
	EnvDataDir     = "QUILL_DATA_DIR"
	EnvLLMProvider = "QUILL_LLM_PROVIDER"
	EnvLLMModel    = "QUILL_LLM_MODEL"
)

// SettingsService manages application settings.
type SettingsService struct {
	configStore driven.ConfigStore
	lookupEnv   func(string) (string, bool)
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore) *SettingsService {
	return &SettingsService{
		configStore: configStore,
		lookupEnv:   os.LookupEnv,
	}
}

// Get retrieves current application settings.
func (s *SettingsService) Get() (*domain.AppSettings, error) {
	defaults := domain.DefaultAppSettings()

	settings := &domain.AppSettings{
		LLM: domain.LLMSettings{
			Provider: s.getProvider(defaults.LLM.Provider),
			Model:    s.getString(keyLLMModel, defaults.LLM.Model),
			BaseURL:  s.configStore.GetString(keyLLMBaseURL), // Empty means the provider default.
			APIKey:   s.configStore.GetString(keyLLMAPIKey),
		},
		Models: domain.StageModels{
			Expression: s.configStore.GetString(keyModelExpression),
			Parameter:  s.configStore.GetString(keyModelParameter),
			Template:   s.configStore.GetString(keyModelTemplate),
			Categorize: s.configStore.GetString(keyModelCategorize),
			Generate:   s.configStore.GetString(keyModelGenerate),
		},
		Pipeline: domain.PipelineSettings{
			CallInterval:     s.getDuration(keyCallInterval, defaults.Pipeline.CallInterval),
			TemplateInterval: s.getDuration(keyTemplateInterval, defaults.Pipeline.TemplateInterval),
			FilePattern:      s.getString(keyFilePattern, defaults.Pipeline.FilePattern),
		},
		Storage: domain.StorageSettings{
			Backend: s.getBackend(defaults.Storage.Backend),
			DataDir: s.configStore.GetString(keyStorageDataDir),
		},
		Server: domain.ServerSettings{
			Addr: s.getString(keyServerAddr, defaults.Server.Addr),
		},
	}

	s.applyEnv(settings)
	return settings, nil
}

// applyEnv overlays environment variables onto settings.
func (s *SettingsService) applyEnv(settings *domain.AppSettings) {
	if v, ok := s.lookupEnv(EnvLLMProvider); ok && domain.AIProvider(v).IsValid() {
		settings.LLM.Provider = domain.AIProvider(v)
	}
	if v, ok := s.lookupEnv(EnvLLMModel); ok && v != "" {
		settings.LLM.Model = v
	}
	if v, ok := s.lookupEnv(EnvDataDir); ok && v != "" {
		settings.Storage.DataDir = v
	}
	if env := settings.LLM.Provider.APIKeyEnv(); env != "" {
		if v, ok := s.lookupEnv(env); ok && v != "" {
			settings.LLM.APIKey = v
		}
	}
}

// setters validate a raw value and return what to store.
var setters = map[string]func(string) (any, error){
	keyLLMProvider: func(v string) (any, error) {
		if !domain.AIProvider(v).IsValid() {
			return nil, fmt.Errorf("%w: unknown provider %q", domain.ErrInvalidInput, v)
		}
		return v, nil
	},
	keyCallInterval:     parseDurationValue,
	keyTemplateInterval: parseDurationValue,
	keyStorageBackend: func(v string) (any, error) {
		if !domain.StorageBackend(v).IsValid() {
			return nil, fmt.Errorf("%w: unknown storage backend %q", domain.ErrInvalidInput, v)
		}
		return v, nil
	},
	keyLLMModel:        stringValue,
	keyLLMBaseURL:      stringValue,
	keyLLMAPIKey:       stringValue,
	keyModelExpression: stringValue,
	keyModelParameter:  stringValue,
	keyModelTemplate:   stringValue,
	keyModelCategorize: stringValue,
	keyModelGenerate:   stringValue,
	keyFilePattern:     stringValue,
	keyStorageDataDir:  stringValue,
	keyServerAddr:      stringValue,
}

func stringValue(v string) (any, error) {
	return v, nil
}

func parseDurationValue(v string) (any, error) {
	d, err := time.ParseDuration(v)
	if err != nil || d < 0 {
		return nil, fmt.Errorf("%w: invalid duration %q", domain.ErrInvalidInput, v)
	}
	return d.String(), nil
}

// Set validates and persists one setting by dot-notation key.
func (s *SettingsService) Set(key, value string) error {
	setter, ok := setters[key]
	if !ok {
		return fmt.Errorf("%w: unknown setting %q", domain.ErrInvalidInput, key)
	}
	v, err := setter(value)
	if err != nil {
		return err
	}
	if err := s.configStore.Set(key, v); err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	if err := s.configStore.Save(); err != nil {
		return fmt.Errorf("save config: %w", err)
	}
	return nil
}

// Keys lists the settable keys in sorted order.
func (s *SettingsService) Keys() []string {
	keys := make([]string, 0, len(setters))
	for k := range setters {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Helper methods for reading config with defaults.

func (s *SettingsService) getString(key, defaultVal string) string {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getDuration(key string, defaultVal time.Duration) time.Duration {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	d, err := time.ParseDuration(val)
	if err != nil || d < 0 {
		return defaultVal
	}
	return d
}

func (s *SettingsService) getProvider(defaultVal domain.AIProvider) domain.AIProvider {
	provider := domain.AIProvider(s.configStore.GetString(keyLLMProvider))
	if !provider.IsValid() {
		return defaultVal
	}
	return provider
}

func (s *SettingsService) getBackend(defaultVal domain.StorageBackend) domain.StorageBackend {
	backend := domain.StorageBackend(s.configStore.GetString(keyStorageBackend))
	if !backend.IsValid() {
		return defaultVal
	}
	return backend
}
