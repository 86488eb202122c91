package setup

import (
	"errors"
	"io"
	"testing"

	"github.com/desertthunder/hookx/internal/models"
	"github.com/desertthunder/hookx/internal/repositories"
	"github.com/desertthunder/hookx/internal/shared"
	tu "github.com/desertthunder/hookx/internal/testing"
)

func newTestStore(kv models.KeyValueStore) *Store {
	return NewStore(kv, shared.NewLogger(io.Discard))
}

func TestStore(t *testing.T) {
	t.Run("Scenario", func(t *testing.T) {
		s := newTestStore(tu.NewRecordingStore(nil))
		cfg := models.BackendConfig{URL: "https://x", AnonKey: "k"}

		if s.IsSetupComplete() {
			t.Fatal("fresh store should not be complete")
		}

		if err := s.SaveConfig(cfg); err != nil {
			t.Fatalf("failed to save config: %v", err)
		}
		if !s.IsSetupComplete() {
			t.Error("expected setup to be complete after save")
		}

		got, ok := s.GetConfig()
		if !ok || got != cfg {
			t.Errorf("expected %+v, got %+v (ok=%v)", cfg, got, ok)
		}

		if err := s.ClearConfig(); err != nil {
			t.Fatalf("failed to clear config: %v", err)
		}
		if s.IsSetupComplete() {
			t.Error("expected setup to be incomplete after clear")
		}
		if _, ok := s.GetConfig(); ok {
			t.Error("expected config to be absent after clear")
		}
	})

	t.Run("Persisted Format", func(t *testing.T) {
		kv := tu.NewRecordingStore(nil)
		s := newTestStore(kv)

		if err := s.SaveConfig(models.BackendConfig{URL: "https://x", AnonKey: "k"}); err != nil {
			t.Fatalf("failed to save config: %v", err)
		}

		if raw, _ := kv.Value(ConfigKey); raw != `{"url":"https://x","anonKey":"k"}` {
			t.Errorf("unexpected stored config %s", raw)
		}
		if raw, _ := kv.Value(CompleteKey); raw != "true" {
			t.Errorf("unexpected stored flag %s", raw)
		}
	})

	t.Run("Lookup", func(t *testing.T) {
		tc := []struct {
			name string
			seed map[string]string
			want shared.DecodeStatus
		}{
			{name: "absent", seed: nil, want: shared.DecodeAbsent},
			{name: "ok", seed: map[string]string{ConfigKey: `{"url":"https://x","anonKey":"k"}`}, want: shared.DecodeOK},
			{name: "not json", seed: map[string]string{ConfigKey: "https://x"}, want: shared.DecodeMalformed},
			{name: "wrong shape", seed: map[string]string{ConfigKey: `["https://x","k"]`}, want: shared.DecodeMalformed},
			{name: "missing key", seed: map[string]string{ConfigKey: `{"url":"https://x"}`}, want: shared.DecodeMalformed},
			{name: "null", seed: map[string]string{ConfigKey: "null"}, want: shared.DecodeMalformed},
		}

		for _, tt := range tc {
			t.Run(tt.name, func(t *testing.T) {
				s := newTestStore(tu.NewRecordingStore(tt.seed))
				got := s.Lookup()
				if got.Status != tt.want {
					t.Errorf("expected %v, got %v (%v)", tt.want, got.Status, got.Err)
				}
				if _, ok := s.GetConfig(); ok != (tt.want == shared.DecodeOK) {
					t.Errorf("GetConfig ok = %v for status %v", ok, tt.want)
				}
			})
		}
	})

	t.Run("Flag Requires Literal True", func(t *testing.T) {
		s := newTestStore(tu.NewRecordingStore(map[string]string{CompleteKey: "yes"}))
		if s.IsSetupComplete() {
			t.Error("only the literal \"true\" marks setup complete")
		}
	})

	t.Run("Read Failure", func(t *testing.T) {
		kv := tu.NewRecordingStore(map[string]string{
			ConfigKey:   `{"url":"https://x","anonKey":"k"}`,
			CompleteKey: "true",
		})
		kv.FailReads(true)
		s := newTestStore(kv)

		if s.IsSetupComplete() {
			t.Error("read failure should report incomplete")
		}
		if _, ok := s.GetConfig(); ok {
			t.Error("read failure should report absent")
		}
		if got := s.Lookup(); !errors.Is(got.Err, shared.ErrPersistenceRead) {
			t.Errorf("expected ErrPersistenceRead, got %v", got.Err)
		}
	})

	t.Run("Save Failure Propagates", func(t *testing.T) {
		kv := tu.NewRecordingStore(nil)
		kv.FailWrites(true)
		s := newTestStore(kv)

		err := s.SaveConfig(models.BackendConfig{URL: "https://x", AnonKey: "k"})
		if !errors.Is(err, shared.ErrPersistenceWrite) {
			t.Errorf("expected ErrPersistenceWrite, got %v", err)
		}
		if s.IsSetupComplete() {
			t.Error("failed save must not complete setup")
		}
	})

	t.Run("Incomplete Config Rejected", func(t *testing.T) {
		tc := []struct {
			name string
			cfg  models.BackendConfig
		}{
			{name: "missing key", cfg: models.BackendConfig{URL: "https://x"}},
			{name: "missing url", cfg: models.BackendConfig{AnonKey: "k"}},
			{name: "zero", cfg: models.BackendConfig{}},
		}

		for _, tt := range tc {
			t.Run(tt.name, func(t *testing.T) {
				kv := tu.NewRecordingStore(nil)
				s := newTestStore(kv)

				if err := s.SaveConfig(tt.cfg); !errors.Is(err, shared.ErrInvalidInput) {
					t.Errorf("expected ErrInvalidInput, got %v", err)
				}
				if len(kv.Writes()) != 0 {
					t.Errorf("expected no writes, got %+v", kv.Writes())
				}
				if s.IsSetupComplete() {
					t.Error("rejected config must not complete setup")
				}
			})
		}
	})

	t.Run("Flag Failure Leaves Setup Incomplete", func(t *testing.T) {
		kv := tu.NewRecordingStore(nil)
		kv.FailKey(CompleteKey)
		s := newTestStore(kv)

		if err := s.SaveConfig(models.BackendConfig{URL: "https://x", AnonKey: "k"}); err == nil {
			t.Fatal("expected error when the flag cannot be written")
		}
		if s.IsSetupComplete() {
			t.Error("setup must not look complete")
		}
	})

	t.Run("Clear Failure", func(t *testing.T) {
		kv := tu.NewRecordingStore(nil)
		s := newTestStore(kv)
		if err := s.SaveConfig(models.BackendConfig{URL: "https://x", AnonKey: "k"}); err != nil {
			t.Fatalf("failed to save: %v", err)
		}

		kv.FailWrites(true)
		if err := s.ClearConfig(); !errors.Is(err, shared.ErrPersistenceWrite) {
			t.Errorf("expected ErrPersistenceWrite, got %v", err)
		}
	})

	t.Run("Clear When Empty", func(t *testing.T) {
		s := newTestStore(tu.NewRecordingStore(nil))
		if err := s.ClearConfig(); err != nil {
			t.Errorf("clearing an empty store should succeed: %v", err)
		}
	})

	t.Run("SQLite Backed", func(t *testing.T) {
		db, err := shared.OpenStorage(shared.StorageConfig{Path: shared.MemoryDatabase})
		if err != nil {
			t.Fatalf("failed to open storage: %v", err)
		}
		defer db.Close()

		kv := repositories.NewKVRepository(db)
		if err := newTestStore(kv).SaveConfig(models.BackendConfig{URL: "https://x", AnonKey: "k"}); err != nil {
			t.Fatalf("failed to save: %v", err)
		}

		reopened := newTestStore(kv)
		if !reopened.IsSetupComplete() {
			t.Error("expected flag to survive a new store")
		}
		if cfg, ok := reopened.GetConfig(); !ok || cfg.URL != "https://x" {
			t.Errorf("unexpected config %+v (ok=%v)", cfg, ok)
		}
	})
}
