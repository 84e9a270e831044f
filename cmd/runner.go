package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/classificone/internal/models"
	"github.com/desertthunder/classificone/internal/repositories"
	"github.com/desertthunder/classificone/internal/services"
	"github.com/desertthunder/classificone/internal/shared"
	"github.com/desertthunder/classificone/internal/tasks"
	"github.com/urfave/cli/v3"
	"github.com/zmb3/spotify/v2"
	"golang.org/x/oauth2"
	"google.golang.org/api/option"
)

// QueueStore is the queue playlist as seen by the CLI.
type QueueStore interface {
	tasks.Queue
	Tracks(ctx context.Context) ([]models.TrackCandidate, error)
}

// LedgerStore is a ledger backend that can also enumerate its partitions.
type LedgerStore interface {
	tasks.Ledger
	Partitions(ctx context.Context) ([]string, error)
}

// HistoryStore records and lists submissions.
type HistoryStore interface {
	tasks.History
	List(ctx context.Context, limit int) ([]*models.Submission, error)
	FindByURI(ctx context.Context, uri string) ([]*models.Submission, error)
}

// Runner holds all dependencies for CLI commands and provides methods for each command action.
//
// Stores left nil in [RunnerOpts] are built from the configuration the first time a command needs them.
type Runner struct {
	config     *shared.Config
	configPath string
	logger     *log.Logger
	output     io.Writer
	catalog    tasks.Catalog
	queue      QueueStore
	ledger     LedgerStore
	history    HistoryStore
	chat       tasks.MessageSource
	db         *sql.DB
	closers    []io.Closer
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config     *shared.Config
	ConfigPath string
	Logger     *log.Logger
	Output     io.Writer
	Catalog    tasks.Catalog
	Queue      QueueStore
	Ledger     LedgerStore
	History    HistoryStore
	Chat       tasks.MessageSource
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}

	return &Runner{
		config:     opts.Config,
		configPath: opts.ConfigPath,
		logger:     opts.Logger,
		output:     opts.Output,
		catalog:    opts.Catalog,
		queue:      opts.Queue,
		ledger:     opts.Ledger,
		history:    opts.History,
		chat:       opts.Chat,
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		serveCommand, submitCommand, queueCommand, ledgerCommand, historyCommand, authCommand, setupCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// Close releases the database and log file opened by commands.
func (r *Runner) Close() error {
	var errs []error
	for i := len(r.closers) - 1; i >= 0; i-- {
		errs = append(errs, r.closers[i].Close())
	}
	r.closers = nil
	return errors.Join(errs...)
}

// loadConfig resolves the configuration once per process: the --config file when it exists, otherwise the
// embedded defaults, then the environment overlay. Log settings are applied here.
func (r *Runner) loadConfig(cmd *cli.Command) (*shared.Config, error) {
	if r.config != nil {
		return r.config, nil
	}

	path := cmd.String("config")
	if path == "" {
		path = "config.toml"
	}

	config := shared.DefaultConfig()
	if _, err := os.Stat(path); err == nil {
		loaded, err := shared.LoadConfig(path)
		if err != nil {
			return nil, err
		}
		config = loaded
	} else {
		r.logger.Warn("config file not found, using defaults", "path", path)
	}
	config.ApplyEnv()

	if config.Log.File != "" {
		logger, closer, err := shared.NewFileLogger(config.Log.File)
		if err != nil {
			r.logger.Warn("failed to open log file, logging to stderr only", "error", err)
		} else {
			r.logger = logger
			r.closers = append(r.closers, closer)
		}
	}
	shared.SetLogLevel(r.logger, config.Log.Level)

	r.config = config
	r.configPath = path
	return config, nil
}

// saveTokens stores a new Spotify token in the config and, when the config came from a file, writes it back.
func (r *Runner) saveTokens(token *oauth2.Token) error {
	if r.config == nil {
		return fmt.Errorf("%w: config is nil", shared.ErrMissingConfig)
	}

	if err := r.config.Spotify.Update(token); err != nil {
		return fmt.Errorf("failed to update spotify configuration: %w", err)
	}

	if r.configPath == "" {
		return nil
	}

	if err := shared.SaveConfig(r.configPath, r.config); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}
	return nil
}

func (r *Runner) spotifyClient(ctx context.Context) (*spotify.Client, error) {
	httpClient, err := services.NewSpotifyHTTPClient(ctx, r.config.Spotify, func(token *oauth2.Token) {
		if err := r.saveTokens(token); err != nil {
			r.logger.Warn("failed to persist refreshed spotify token", "error", err)
			return
		}
		r.logger.Debug("persisted refreshed spotify token")
	})
	if err != nil {
		return nil, fmt.Errorf("%w (run 'classificone auth spotify' first)", err)
	}
	return spotify.New(httpClient), nil
}

// spotifyStores builds the catalog and queue that were not injected.
func (r *Runner) spotifyStores(ctx context.Context) (tasks.Catalog, QueueStore, error) {
	if r.catalog != nil && r.queue != nil {
		return r.catalog, r.queue, nil
	}

	client, err := r.spotifyClient(ctx)
	if err != nil {
		return nil, nil, err
	}

	if r.catalog == nil {
		r.catalog = services.NewSpotifyCatalog(client)
	}
	if r.queue == nil {
		playlist, err := services.NewSpotifyPlaylist(client, services.ParsePlaylistID(r.config.Spotify.QueueID))
		if err != nil {
			return nil, nil, err
		}
		r.queue = playlist
	}
	return r.catalog, r.queue, nil
}

func (r *Runner) database() (*sql.DB, error) {
	if r.db != nil {
		return r.db, nil
	}
	db, err := shared.OpenDatabase(r.config.Database)
	if err != nil {
		return nil, err
	}
	r.db = db
	r.closers = append(r.closers, db)
	return db, nil
}

// ledgerStore builds the configured ledger backend.
func (r *Runner) ledgerStore(ctx context.Context) (LedgerStore, error) {
	if r.ledger != nil {
		return r.ledger, nil
	}

	switch r.config.Ledger.Backend {
	case shared.LedgerBackendSheets:
		id, err := r.config.Ledger.SpreadsheetID()
		if err != nil {
			return nil, err
		}
		var opts []option.ClientOption
		if r.config.Ledger.CredentialsFile != "" {
			opts = append(opts, option.WithCredentialsFile(r.config.Ledger.CredentialsFile))
		}
		ledger, err := services.NewSheetsLedger(ctx, id, opts...)
		if err != nil {
			return nil, err
		}
		r.ledger = ledger
	case shared.LedgerBackendSQLite:
		db, err := r.database()
		if err != nil {
			return nil, err
		}
		r.ledger = repositories.NewLedgerRepository(db)
	default:
		return nil, fmt.Errorf("%w: unknown ledger backend %q", shared.ErrInvalidConfig, r.config.Ledger.Backend)
	}
	return r.ledger, nil
}

func (r *Runner) historyStore() (HistoryStore, error) {
	if r.history != nil {
		return r.history, nil
	}
	db, err := r.database()
	if err != nil {
		return nil, err
	}
	r.history = repositories.NewSubmissionRepository(db)
	return r.history, nil
}

func (r *Runner) queueRecorder(ctx context.Context) (*tasks.QueueRecorder, error) {
	catalog, queue, err := r.spotifyStores(ctx)
	if err != nil {
		return nil, err
	}
	return tasks.NewQueueRecorder(catalog, queue, r.logger), nil
}

func (r *Runner) ledgerRecorder(ctx context.Context) (*tasks.LedgerRecorder, error) {
	catalog, _, err := r.spotifyStores(ctx)
	if err != nil {
		return nil, err
	}
	ledger, err := r.ledgerStore(ctx)
	if err != nil {
		return nil, err
	}

	opts := tasks.LedgerOptions{
		Year:    r.config.Ledger.OperativeYear(),
		Sandbox: r.config.Ledger.SandboxPartition,
	}
	if r.config.Ledger.LockDir != "" {
		opts.Locker = tasks.NewFileLocker(r.config.Ledger.LockDir, r.config.Ledger.LockTimeoutDuration())
	}
	return tasks.NewLedgerRecorder(catalog, ledger, opts, r.logger), nil
}

// coordinator validates the config and wires the full intake pipeline.
// History is optional: when the database cannot be opened submissions are not recorded.
func (r *Runner) coordinator(ctx context.Context) (*tasks.Coordinator, error) {
	if err := r.config.Validate(); err != nil {
		return nil, err
	}

	queue, err := r.queueRecorder(ctx)
	if err != nil {
		return nil, err
	}
	ledger, err := r.ledgerRecorder(ctx)
	if err != nil {
		return nil, err
	}

	var history tasks.History
	if h, err := r.historyStore(); err != nil {
		r.logger.Warn("submission history disabled", "error", err)
	} else {
		history = h
	}

	return tasks.NewCoordinator(r.config.Bot, queue, ledger, history, r.logger), nil
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
