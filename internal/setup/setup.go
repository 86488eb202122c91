// Package setup stores the backend coordinates entered in the first-run setup wizard.
//
// The coordinates live in the durable key-value store under [ConfigKey] together with a
// completion flag under [CompleteKey], so hookx can run without build-time configuration.
// Unlike the cart, failed writes are returned: a setup that did not persist must not
// look complete.
package setup

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/hookx/internal/models"
	"github.com/desertthunder/hookx/internal/shared"
)

const (
	ConfigKey   = "backend_config"
	CompleteKey = "setup_complete"

	completeValue = "true"
)

// Store reads and writes the setup state.
type Store struct {
	kv     models.KeyValueStore
	logger *log.Logger
}

// NewStore creates a Store over kv. A nil logger defaults to [shared.NewLogger].
func NewStore(kv models.KeyValueStore, logger *log.Logger) *Store {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &Store{kv: kv, logger: shared.WithLogger(logger, "component", "setup")}
}

// SaveConfig persists cfg and marks setup complete.
//
// A config missing its url or anon key is rejected with [shared.ErrInvalidInput] before anything
// is written; full validation is left to callers. Storage failures are returned wrapped in
// [shared.ErrPersistenceWrite].
func (s *Store) SaveConfig(cfg models.BackendConfig) error {
	if cfg.URL == "" || cfg.AnonKey == "" {
		return fmt.Errorf("%w: url and anon key are required", shared.ErrInvalidInput)
	}

	payload, err := shared.MarshalJSON(cfg, false)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	if err := s.kv.Set(ConfigKey, string(payload)); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrPersistenceWrite, err)
	}
	if err := s.kv.Set(CompleteKey, completeValue); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrPersistenceWrite, err)
	}

	s.logger.Info("backend config saved", "url", cfg.URL)
	return nil
}

// Lookup reads the persisted config as a tagged result.
//
// A read failure or a value that is not a JSON object with both fields is [shared.DecodeMalformed].
func (s *Store) Lookup() shared.Decoded[models.BackendConfig] {
	raw, found, err := s.kv.Get(ConfigKey)
	if err != nil {
		return shared.Decoded[models.BackendConfig]{
			Status: shared.DecodeMalformed,
			Err:    fmt.Errorf("%w: %v", shared.ErrPersistenceRead, err),
		}
	}

	decoded := shared.DecodeJSON[models.BackendConfig](raw, found)
	if decoded.OK() && (decoded.Value.URL == "" || decoded.Value.AnonKey == "") {
		return shared.Decoded[models.BackendConfig]{
			Status: shared.DecodeMalformed,
			Err:    fmt.Errorf("%w: incomplete config", shared.ErrPersistenceRead),
		}
	}
	return decoded
}

// GetConfig returns the saved config. Absent and malformed values both report false.
func (s *Store) GetConfig() (models.BackendConfig, bool) {
	decoded := s.Lookup()
	if decoded.Status == shared.DecodeMalformed {
		s.logger.Warn("ignoring stored backend config", "error", decoded.Err)
	}
	if !decoded.OK() {
		return models.BackendConfig{}, false
	}
	return decoded.Value, true
}

// IsSetupComplete reports whether SaveConfig has succeeded since the last ClearConfig.
func (s *Store) IsSetupComplete() bool {
	v, found, err := s.kv.Get(CompleteKey)
	if err != nil {
		s.logger.Warn("reading setup flag", "error", err)
		return false
	}
	return found && v == completeValue
}

// ClearConfig removes the config and the completion flag.
func (s *Store) ClearConfig() error {
	var errs []error
	for _, key := range []string{ConfigKey, CompleteKey} {
		if err := s.kv.Remove(key); err != nil {
			errs = append(errs, fmt.Errorf("%w: %s: %v", shared.ErrPersistenceWrite, key, err))
		}
	}
	if err := errors.Join(errs...); err != nil {
		return err
	}

	s.logger.Info("backend config cleared")
	return nil
}
