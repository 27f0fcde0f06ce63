package main

import (
	"context"
	"fmt"
	"os"

	"github.com/Lualttt/Pipe-Bomb-Server/internal/shared"
	"github.com/Lualttt/Pipe-Bomb-Server/internal/ui"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/urfave/cli/v3"
)

// TUI launches the interactive search and lyrics browser.
func (r *Runner) TUI(ctx context.Context, cmd *cli.Command) error {
	if r.registry == nil {
		return fmt.Errorf("%w: service registry not initialized", shared.ErrServiceUnavailable)
	}
	if r.engine == nil {
		return fmt.Errorf("%w: track engine not initialized", shared.ErrServiceUnavailable)
	}

	// Redirect logs to file to avoid interfering with TUI rendering
	if err := os.MkdirAll("./tmp", 0755); err != nil {
		return fmt.Errorf("failed to create log directory: %w", err)
	}
	logFile, err := os.OpenFile("./tmp/pipebomb-tui.log", os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	defer logFile.Close()
	r.logger = shared.NewLogger(logFile)
	shared.SetLogLevel(r.logger, log.DebugLevel)

	model := ui.NewModel(ctx, r.registry, r.engine)
	p := tea.NewProgram(model)

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	return nil
}

// tuiCommand launches the terminal UI
func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "tui",
		Usage:  "Interactive track search and lyrics browser",
		Action: r.TUI,
	}
}
