package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/hookx/internal/backend"
	"github.com/desertthunder/hookx/internal/cart"
	"github.com/desertthunder/hookx/internal/models"
	"github.com/desertthunder/hookx/internal/repositories"
	"github.com/desertthunder/hookx/internal/setup"
	"github.com/desertthunder/hookx/internal/shared"
	"github.com/urfave/cli/v3"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config     *shared.Config
	configPath string
	pinned     bool
	httpClient *http.Client
	logger     *log.Logger
	output     io.Writer

	db    *sql.DB
	kv    models.KeyValueStore
	setup *setup.Store
	cart  *cart.Store
}

// RunnerOpts contains configuration options for creating a Runner.
//
// KV replaces the SQLite store, which lets tests run commands against an in-memory double.
type RunnerOpts struct {
	Config     *shared.Config
	ConfigPath string
	HTTPClient *http.Client
	Logger     *log.Logger
	Output     io.Writer
	KV         models.KeyValueStore
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = http.DefaultClient
	}

	pinned := opts.Config != nil
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}

	return &Runner{
		config:     opts.Config,
		pinned:     pinned,
		configPath: opts.ConfigPath,
		httpClient: opts.HTTPClient,
		logger:     opts.Logger,
		output:     opts.Output,
		kv:         opts.KV,
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, cartCommand, billingCommand, playlistCommand, serveCommand, tuiCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// SetLogger replaces the runner's logger.
func (r *Runner) SetLogger(l *log.Logger) {
	r.logger = l
}

// LoadConfig resolves the config file named by --config, falling back to the path given to
// [NewRunner]. A config passed to [NewRunner] is kept unless --config is set explicitly.
func (r *Runner) LoadConfig(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	if !r.pinned || cmd.IsSet("config") {
		path := cmd.String("config")
		if !cmd.IsSet("config") && r.configPath != "" {
			path = r.configPath
		}

		config, err := shared.ResolveConfig(path)
		if err != nil {
			return ctx, err
		}
		r.config = config
		r.configPath = path
	}

	level := r.config.Log.Level
	if cmd.IsSet("log-level") {
		level = cmd.String("log-level")
	}
	shared.SetLogLevel(r.logger, shared.ParseLevel(level))
	return ctx, nil
}

// OpenStorage opens the key-value store and the setup store on top of it.
func (r *Runner) OpenStorage(ctx context.Context, _ *cli.Command) (context.Context, error) {
	if r.kv == nil {
		db, err := shared.OpenStorage(r.config.Storage)
		if err != nil {
			return ctx, err
		}
		r.db = db
		r.kv = repositories.NewKVRepository(db)
	}
	r.setup = setup.NewStore(r.kv, r.logger)
	return ctx, nil
}

// ProvideCart opens storage and installs a hydrated cart in the command context.
func (r *Runner) ProvideCart(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	ctx, err := r.OpenStorage(ctx, cmd)
	if err != nil {
		return ctx, err
	}
	r.cart = cart.New(r.kv, cart.Options{Logger: r.logger})
	return cart.WithStore(ctx, r.cart), nil
}

// CloseStorage flushes the cart and closes the database opened by [Runner.OpenStorage].
func (r *Runner) CloseStorage(_ context.Context, _ *cli.Command) error {
	var errs []error
	if r.cart != nil {
		errs = append(errs, r.cart.Close())
		r.cart = nil
	}
	if r.db != nil {
		errs = append(errs, r.db.Close())
		r.db = nil
		r.kv = nil
	}
	return errors.Join(errs...)
}

func (r *Runner) defaults() models.BackendConfig {
	return models.BackendConfig{URL: r.config.Backend.URL, AnonKey: r.config.Backend.AnonKey}
}

// backendClient builds a client from the resolved coordinates. Commands that need the network
// fail with [shared.ErrNotConfigured] when only placeholders are available.
func (r *Runner) backendClient(ctx context.Context) (*backend.Client, error) {
	coords := backend.Resolve(r.setup, r.defaults())
	client := backend.NewClient(ctx, coords, backend.ClientOpts{
		HTTPClient: r.httpClient,
		RateLimit:  r.config.Backend.RateLimit,
		Timeout:    time.Duration(r.config.Backend.TimeoutSeconds) * time.Second,
		Logger:     r.logger,
	})
	if !client.IsConfigured() {
		return nil, fmt.Errorf("%w: run 'hookx setup save' or set %s and %s",
			shared.ErrNotConfigured, shared.EnvBackendURL, shared.EnvBackendAnonKey)
	}
	return client, nil
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	var output []byte
	var err error

	if pretty {
		output, err = json.MarshalIndent(data, "", "  ")
	} else {
		output, err = json.Marshal(data)
	}

	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainln(format string, args ...any) error {
	text := "\n" + fmt.Sprintf(format, args...) + "\n"
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainHeader(title string) {
	r.writePlain("═══════════════════════════════════════\n")
	r.writePlain("%v\n", title)
	r.writePlain("═══════════════════════════════════════\n")
}
