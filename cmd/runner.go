package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/tagsync/internal/repositories"
	"github.com/desertthunder/tagsync/internal/services"
	"github.com/desertthunder/tagsync/internal/shared"
	"github.com/desertthunder/tagsync/internal/tasks"
	"github.com/urfave/cli/v3"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config     *shared.Config
	configPath string
	logger     *log.Logger
	output     io.Writer
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config     *shared.Config
	ConfigPath string
	Logger     *log.Logger
	Output     io.Writer
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
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
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		serveCommand, publishCommand, historyCommand, authCommand, setupCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// SetLogger swaps the runner's logger, used when a command owns the terminal.
func (r *Runner) SetLogger(logger *log.Logger) {
	r.logger = logger
}

// buildEngine wires the publish pipeline from the runner's configuration:
// token provider, platform client, and record store client.
func (r *Runner) buildEngine(ctx context.Context) (*tasks.PublishEngine, error) {
	if err := r.config.Validate(); err != nil {
		return nil, err
	}

	yt := r.config.Credentials.YouTube
	provider, err := services.NewTokenProvider(yt.ClientID, yt.ClientSecret, yt.RefreshToken)
	if err != nil {
		return nil, err
	}

	publisher, err := services.NewPublisherService(ctx, provider, r.config.Limits.YouTubeRPS, r.config.Limits.YouTubeBurst)
	if err != nil {
		return nil, err
	}

	at := r.config.Credentials.Airtable
	records, err := services.NewAirtableService(at.APIKey, at.BaseID, at.Table)
	if err != nil {
		return nil, err
	}

	return tasks.NewPublishEngine(publisher, records, r.logger), nil
}

// openHistory opens the local sync history database with pending migrations
// applied. The caller closes the returned handle.
func (r *Runner) openHistory() (*sql.DB, *repositories.SyncRecordRepository, error) {
	db, err := shared.NewDatabase(r.config.Database.Path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open history database: %w", err)
	}

	shared.ConfigureDatabase(db, r.config.Database.MaxOpenConns, r.config.Database.MaxIdleConns)

	if err := shared.RunMigrations(db); err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return db, repositories.NewSyncRecordRepository(db), nil
}

// attachHistory wires the optional audit trail into the engine. A missing or
// broken database only loses history, never publishing.
func (r *Runner) attachHistory(engine *tasks.PublishEngine) (closer func()) {
	db, repo, err := r.openHistory()
	if err != nil {
		r.logger.Warn("sync history disabled", "error", err)
		return func() {}
	}

	engine.SetHistoryArchiver(repositories.NewSyncArchiveAdapter(repo))
	return func() { db.Close() }
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
