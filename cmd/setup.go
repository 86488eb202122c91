package main

import (
	"context"
	"fmt"
	"time"

	"github.com/desertthunder/hookx/internal/backend"
	"github.com/desertthunder/hookx/internal/models"
	"github.com/desertthunder/hookx/internal/repositories"
	"github.com/desertthunder/hookx/internal/shared"
	"github.com/urfave/cli/v3"
)

func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Configure storage and backend coordinates",
		Commands: []*cli.Command{
			{
				Name:   "init",
				Usage:  "Write config.toml from the bundled template",
				Action: r.SetupInit,
			},
			{
				Name:  "database",
				Usage: "Initialize database and run migrations",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "rollback", Usage: "Roll back the most recent migration instead"},
					&cli.BoolFlag{Name: "keys", Usage: "List the stored keys"},
				},
				Action: r.SetupDatabase,
			},
			{
				Name:  "save",
				Usage: "Save the backend url and anon key",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "url", Usage: "Backend url", Required: true},
					&cli.StringFlag{Name: "anon-key", Usage: "Backend anon key", Required: true},
				},
				Before: r.OpenStorage,
				After:  r.CloseStorage,
				Action: r.SetupSave,
			},
			{
				Name:  "status",
				Usage: "Show which backend coordinates are in use",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "json", Usage: "Output raw JSON"},
				},
				Before: r.OpenStorage,
				After:  r.CloseStorage,
				Action: r.SetupStatus,
			},
			{
				Name:   "clear",
				Usage:  "Forget the saved backend coordinates",
				Before: r.OpenStorage,
				After:  r.CloseStorage,
				Action: r.SetupClear,
			},
		},
	}
}

// SetupInit creates the config file named by --config.
func (r *Runner) SetupInit(ctx context.Context, cmd *cli.Command) error {
	path := cmd.String("config")
	if err := shared.CreateConfigFile(path); err != nil {
		return err
	}
	r.logger.Info("config file created", "path", path)
	return r.writePlain("✓ Config written to %s\n", path)
}

// SetupDatabase initializes the database and runs migrations. With --rollback it undoes the
// latest migration after bringing the schema up to date.
func (r *Runner) SetupDatabase(ctx context.Context, cmd *cli.Command) error {
	r.logger.Info("initializing database", "path", r.config.Storage.Path)

	db, err := shared.OpenStorage(r.config.Storage)
	if err != nil {
		return err
	}
	defer db.Close()

	if cmd.Bool("rollback") {
		if err := shared.RollbackMigration(db); err != nil {
			return err
		}
		r.logger.Warn("rolled back latest migration", "path", r.config.Storage.Path)
	}

	versions, err := shared.AppliedVersions(db)
	if err != nil {
		return err
	}

	r.logger.Infof("setup complete for database: %v", r.config.Storage.Path)
	if err := r.writePlain("✓ Database ready at %s (%d migrations applied)\n", r.config.Storage.Path, len(versions)); err != nil {
		return err
	}
	if !cmd.Bool("keys") {
		return nil
	}

	entries, err := repositories.NewKVRepository(db).List("")
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		return r.writePlainln("No stored keys")
	}
	for _, e := range entries {
		if err := r.writePlain("  %-16s updated %s\n", e.Key, e.UpdatedAt.Format(time.RFC3339)); err != nil {
			return err
		}
	}
	return nil
}

// SetupSave validates and stores the backend coordinates, completing setup.
func (r *Runner) SetupSave(ctx context.Context, cmd *cli.Command) error {
	cfg := models.BackendConfig{URL: cmd.String("url"), AnonKey: cmd.String("anon-key")}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrInvalidArgument, err)
	}

	if err := r.setup.SaveConfig(cfg); err != nil {
		return err
	}
	return r.writePlain("✓ Backend configured: %s\n", cfg.URL)
}

type setupStatus struct {
	SetupComplete bool           `json:"setupComplete"`
	Configured    bool           `json:"configured"`
	Source        backend.Source `json:"source"`
	URL           string         `json:"url"`
	AnonKey       string         `json:"anonKey"`
}

// SetupStatus prints the resolved coordinates and where they came from.
func (r *Runner) SetupStatus(ctx context.Context, cmd *cli.Command) error {
	coords := backend.Resolve(r.setup, r.defaults())
	status := setupStatus{
		SetupComplete: r.setup.IsSetupComplete(),
		Configured:    coords.IsConfigured(),
		Source:        coords.Source,
		URL:           coords.URL,
		AnonKey:       models.BackendConfig{AnonKey: coords.AnonKey}.MaskedKey(),
	}

	if cmd.Bool("json") {
		return r.writeJSON(status, true)
	}

	r.writePlainHeader("Backend")
	r.writePlain("Setup complete: %v\n", status.SetupComplete)
	r.writePlain("Source:         %s\n", status.Source)
	r.writePlain("URL:            %s\n", status.URL)
	r.writePlain("Anon key:       %s\n", status.AnonKey)
	if !status.Configured {
		r.writePlainln("Network features are disabled. Run 'hookx setup save --url ... --anon-key ...'.")
	}
	return nil
}

// SetupClear removes the saved coordinates.
func (r *Runner) SetupClear(ctx context.Context, cmd *cli.Command) error {
	if err := r.setup.ClearConfig(); err != nil {
		return err
	}
	return r.writePlain("✓ Backend configuration cleared\n")
}
