package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/player/internal/player"
	"github.com/desertthunder/player/internal/shared"
	"github.com/desertthunder/player/internal/ui"
	"github.com/urfave/cli/v3"
)

// Browse launches the interactive terminal UI over the sorted playlist.
func (r *Runner) Browse(ctx context.Context, cmd *cli.Command) error {
	// Redirect logs to file to avoid interfering with TUI rendering
	fileLogger, err := shared.NewFileLogger(cmd.String("log-file"))
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	fileLogger.SetLevel(r.logger.GetLevel())
	r.SetLogger(fileLogger)

	model := ui.NewModel(ctx, func(ctx context.Context) (*player.Session, error) {
		return r.openSession(ctx, cmd)
	})
	p := tea.NewProgram(model, tea.WithContext(ctx), tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	if s := model.Session(); s != nil {
		return s.Close()
	}
	return nil
}
