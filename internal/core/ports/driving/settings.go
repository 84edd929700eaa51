package driving

import "github.com/custodia-labs/annlib/internal/core/domain"

// SettingsService manages the project configuration.
type SettingsService interface {
	// Get returns the effective settings: the configuration file merged
	// over defaults and validated.
	Get() (*domain.Settings, error)

	// GetDefaults returns default settings.
	GetDefaults() domain.Settings

	// Init writes the defaults to the configuration file if it has no
	// processor section yet. Reports whether anything was written.
	Init() (bool, error)

	// Path returns the configuration file path.
	Path() string
}
