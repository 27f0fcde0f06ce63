package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/Lualttt/Pipe-Bomb-Server/internal/lyrics"
	"github.com/Lualttt/Pipe-Bomb-Server/internal/repositories"
	"github.com/Lualttt/Pipe-Bomb-Server/internal/resolver"
	"github.com/Lualttt/Pipe-Bomb-Server/internal/services"
	"github.com/Lualttt/Pipe-Bomb-Server/internal/session"
	"github.com/Lualttt/Pipe-Bomb-Server/internal/shared"
	"github.com/Lualttt/Pipe-Bomb-Server/internal/tasks"
	"github.com/charmbracelet/log"
	"github.com/urfave/cli/v3"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config     *shared.Config
	registry   *services.Registry
	resolver   *resolver.Resolver
	lyrics     *lyrics.Registry
	session    *session.Session
	journal    *repositories.ResolutionRepository
	api        *services.APIService
	httpClient *http.Client
	logger     *log.Logger
	output     io.Writer
	engine     tasks.LyricsEngine
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config     *shared.Config
	Registry   *services.Registry
	Resolver   *resolver.Resolver
	Lyrics     *lyrics.Registry
	Session    *session.Session
	Journal    *repositories.ResolutionRepository
	API        *services.APIService
	HTTPClient *http.Client
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
	if opts.HTTPClient == nil {
		opts.HTTPClient = http.DefaultClient
	}

	// Nil pointers must stay nil interfaces so the engine's guards fire.
	var directory tasks.TrackDirectory
	if opts.Registry != nil {
		directory = opts.Registry
	}
	var trackResolver tasks.Resolver
	if opts.Resolver != nil {
		trackResolver = opts.Resolver
	}
	var lyricsLookup tasks.LyricsLookup
	if opts.Lyrics != nil {
		lyricsLookup = opts.Lyrics
	}
	engine := tasks.NewTrackEngine(directory, trackResolver, lyricsLookup)

	return &Runner{
		config:     opts.Config,
		registry:   opts.Registry,
		resolver:   opts.Resolver,
		lyrics:     opts.Lyrics,
		session:    opts.Session,
		journal:    opts.Journal,
		api:        opts.API,
		httpClient: opts.HTTPClient,
		logger:     opts.Logger,
		output:     opts.Output,
		engine:     engine,
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, serveCommand, lyricsCommand, resolveCommand, searchCommand, warmCommand, journalCommand, apiCommand, tuiCommand,
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

func (r *Runner) writePlainHeader(title string) {
	r.writePlain("═══════════════════════════════════════\n")
	r.writePlain("%v\n", title)
	r.writePlain("═══════════════════════════════════════\n")
}
