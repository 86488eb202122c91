package backend

import "github.com/desertthunder/hookx/internal/models"

// Source records where a set of [Coordinates] came from.
type Source string

const (
	SourceSetup       Source = "setup"
	SourceDefaults    Source = "defaults"
	SourcePlaceholder Source = "placeholder"
)

const (
	PlaceholderURL     = "https://placeholder.invalid"
	PlaceholderAnonKey = "placeholder-anon-key"
)

// ConfigReader is the part of the setup store the resolver needs.
type ConfigReader interface {
	GetConfig() (models.BackendConfig, bool)
}

// Coordinates are the resolved backend url and anon key.
type Coordinates struct {
	URL     string
	AnonKey string
	Source  Source
}

// IsConfigured is false only for placeholder coordinates.
func (c Coordinates) IsConfigured() bool {
	return c.Source != SourcePlaceholder
}

// Resolve picks coordinates from store, then defaults, then placeholders.
// A nil store is skipped. Defaults are used only when they pass [models.BackendConfig.Validate].
func Resolve(store ConfigReader, defaults models.BackendConfig) Coordinates {
	if store != nil {
		if cfg, ok := store.GetConfig(); ok {
			return Coordinates{URL: cfg.URL, AnonKey: cfg.AnonKey, Source: SourceSetup}
		}
	}

	if defaults.Validate() == nil {
		return Coordinates{URL: defaults.URL, AnonKey: defaults.AnonKey, Source: SourceDefaults}
	}

	return Coordinates{URL: PlaceholderURL, AnonKey: PlaceholderAnonKey, Source: SourcePlaceholder}
}
