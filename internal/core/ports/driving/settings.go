package driving

import "github.com/custodia-labs/quill-cli/internal/core/domain"

// SettingsService manages application settings.
type SettingsService interface {
	// Get retrieves current settings: defaults, then the config file,
	// then environment overrides.
	Get() (*domain.AppSettings, error)

	// Set validates and persists one setting by dot-notation key.
	Set(key, value string) error

	// Keys lists the settable keys.
	Keys() []string
}
