package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/urfave/cli/v3"

	"github.com/MichelW6667/lrcget/internal/library"
	"github.com/MichelW6667/lrcget/internal/lrclib"
	"github.com/MichelW6667/lrcget/internal/match"
	"github.com/MichelW6667/lrcget/internal/shared"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config    *shared.Config
	client    *lrclib.Client
	store     *library.Store
	engine    *match.Engine
	publisher *lrclib.Publisher
	logger    *log.Logger
	output    io.Writer
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config *shared.Config
	Client *lrclib.Client
	Store  *library.Store
	Logger *log.Logger
	Output io.Writer
}

// NewRunner creates a new Runner with the provided configuration. The match
// engine and publisher derive from the client and stay nil without one.
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

	var engine *match.Engine
	var publisher *lrclib.Publisher
	if opts.Client != nil {
		engine = match.NewEngine(opts.Client)
		publisher = lrclib.NewPublisher(opts.Client)
	}

	return &Runner{
		config:    opts.Config,
		client:    opts.Client,
		store:     opts.Store,
		engine:    engine,
		publisher: publisher,
		logger:    opts.Logger,
		output:    opts.Output,
	}
}

// SetLogger swaps the runner's logger, used when the TUI owns the terminal.
func (r *Runner) SetLogger(l *log.Logger) {
	r.logger = l
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, libraryCommand, downloadCommand, searchCommand, getCommand, publishCommand, flagCommand, configCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// requireStore returns the library store or an error directing the user to
// run setup first.
func (r *Runner) requireStore() (*library.Store, error) {
	if r.store == nil {
		return nil, fmt.Errorf("%w: run 'lrcget setup' first", shared.ErrLibraryUnavailable)
	}
	return r.store, nil
}

// requireClient returns the remote client or an error when the runner was
// built without one.
func (r *Runner) requireClient() (*lrclib.Client, error) {
	if r.client == nil {
		return nil, fmt.Errorf("%w: lyrics service client not initialized", shared.ErrServiceUnavailable)
	}
	return r.client, nil
}

// requirePublisher returns the publish workflow, which exists whenever the
// runner holds a client.
func (r *Runner) requirePublisher() (*lrclib.Publisher, error) {
	if r.publisher == nil {
		return nil, fmt.Errorf("%w: lyrics service client not initialized", shared.ErrServiceUnavailable)
	}
	return r.publisher, nil
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
