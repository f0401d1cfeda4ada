package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/player/internal/player"
	"github.com/desertthunder/player/internal/search"
	"github.com/desertthunder/player/internal/services"
	"github.com/desertthunder/player/internal/shared"
	"github.com/urfave/cli/v3"
)

const version = "0.3.0"

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config     *shared.Config
	configPath string
	loaded     bool
	fetcher    services.Fetcher
	httpClient *http.Client
	logger     *log.Logger
	output     io.Writer
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config     *shared.Config
	ConfigPath string
	Fetcher    services.Fetcher // Replaces --file and --source for pipeline commands
	HTTPClient *http.Client
	Logger     *log.Logger
	Output     io.Writer
}

// NewRunner creates a new Runner with the provided configuration.
//
// A runner created without a config resolves one from --config before each command runs.
func NewRunner(opts RunnerOpts) *Runner {
	loaded := opts.Config != nil
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = http.DefaultClient
	}

	return &Runner{
		config:     opts.Config,
		configPath: opts.ConfigPath,
		loaded:     loaded,
		fetcher:    opts.Fetcher,
		httpClient: opts.HTTPClient,
		logger:     opts.Logger,
		output:     opts.Output,
	}
}

// App builds the root command.
func (r *Runner) App() *cli.Command {
	return &cli.Command{
		Name:    "player",
		Usage:   "Serve a music library and drive the browser player",
		Version: version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to configuration file (default: ./config.toml, then the XDG config dir)",
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "Override the configured log level (debug, info, warn, error)",
			},
		},
		Before:   r.Before,
		Commands: r.register(),
		Writer:   r.output,
	}
}

// Before loads configuration and applies the log level ahead of every command.
func (r *Runner) Before(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	if !r.loaded || cmd.IsSet("config") {
		config, path, err := shared.ResolveConfig(cmd.String("config"))
		if err != nil {
			return ctx, err
		}
		r.config, r.configPath, r.loaded = config, path, true
		if path != "" {
			r.logger.Debug("loaded config", "path", path)
		}
	}

	if err := r.config.Validate(); err != nil {
		return ctx, err
	}

	level := r.config.Log.Level
	if cmd.IsSet("log-level") {
		level = cmd.String("log-level")
	}
	shared.SetLogLevel(r.logger, shared.ParseLogLevel(level))
	return ctx, nil
}

// SetLogger replaces the logger, e.g. to keep output away from a full-screen UI.
func (r *Runner) SetLogger(logger *log.Logger) {
	r.logger = logger
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, serveCommand, libraryCommand, playlistCommand, searchCommand, browseCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// fetcherFor picks the metadata source for a pipeline command: an injected fetcher,
// then --file, then --source, then the configured endpoint.
func (r *Runner) fetcherFor(cmd *cli.Command) (services.Fetcher, error) {
	if r.fetcher != nil {
		return r.fetcher, nil
	}
	if path := cmd.String("file"); path != "" {
		return services.LoadMetaFile(path)
	}

	url := cmd.String("source")
	if url == "" {
		url = r.config.Source.MetaURL
	}
	src := r.config.Source
	return services.NewMetaService(url, src.Token, src.Timeout.Duration, r.httpClient), nil
}

// factoryFor validates an engine name, falling back to the configured engine.
func (r *Runner) factoryFor(name string) (search.Factory, error) {
	if name == "" {
		name = r.config.Search.Engine
	}
	return search.NewFactory(name, search.Options{Database: r.config.Search.Database})
}

// openSession runs the player pipeline for cmd's source and engine flags.
func (r *Runner) openSession(ctx context.Context, cmd *cli.Command) (*player.Session, error) {
	fetcher, err := r.fetcherFor(cmd)
	if err != nil {
		return nil, err
	}
	factory, err := r.factoryFor(cmd.String("engine"))
	if err != nil {
		return nil, err
	}
	return player.Init(ctx, fetcher, factory, r.playerOptions(), r.logger)
}

func (r *Runner) playerOptions() player.Options {
	return player.OptionsFromConfig(r.config.Player)
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	output, err := shared.MarshalJSON(data, pretty)
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
