package main

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/nicholasnucifora/spotify-filterer/internal/dedupe"
	"github.com/nicholasnucifora/spotify-filterer/internal/repositories"
	"github.com/nicholasnucifora/spotify-filterer/internal/services"
	"github.com/nicholasnucifora/spotify-filterer/internal/shared"
	"github.com/nicholasnucifora/spotify-filterer/internal/tasks"
	"github.com/urfave/cli/v3"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config  *shared.Config
	library services.Library
	logger  *log.Logger
	output  io.Writer
	engine  *tasks.FilterEngine
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config  *shared.Config
	Library services.Library
	Logger  *log.Logger
	Output  io.Writer
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

	r := &Runner{
		config:  opts.Config,
		library: opts.Library,
		logger:  opts.Logger,
		output:  opts.Output,
	}
	r.engine = tasks.NewFilterEngine(opts.Library, r.matchConfig(), opts.Logger)
	return r
}

// matchConfig builds the scoring configuration from the file config,
// falling back to defaults for unset thresholds.
func (r *Runner) matchConfig() dedupe.Config {
	cfg := dedupe.DefaultConfig()
	if r.config.Matching.DupThreshold > 0 {
		cfg.DupThreshold = r.config.Matching.DupThreshold
	}
	if r.config.Matching.WarnThreshold > 0 {
		cfg.WarnThreshold = r.config.Matching.WarnThreshold
	}
	return cfg
}

// openRuns opens the run-history database, applies migrations, and returns
// the repository. The caller owns the database handle.
func (r *Runner) openRuns() (*repositories.RunRepository, *sql.DB, error) {
	db, err := shared.NewDatabase(r.config.Database.Path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open database: %w", err)
	}
	shared.ConfigureDatabase(db, r.config.Database.MaxOpenConns, r.config.Database.MaxIdleConns)

	if err := shared.RunMigrations(db); err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return repositories.NewRunRepository(db), db, nil
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, authCommand, playlistsCommand, filterCommand, runsCommand, snapshotCommand, serveCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
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
