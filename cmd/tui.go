package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/hookx/internal/shared"
	"github.com/desertthunder/hookx/internal/ui"
	"github.com/urfave/cli/v3"
)

func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "tui",
		Usage: "Browse the cart in an interactive terminal UI",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "log-file",
				Usage: "File that receives log output while the TUI runs",
				Value: "./tmp/hookx-tui.log",
			},
		},
		Before: r.tuiBefore,
		After:  r.CloseStorage,
		Action: r.TUI,
	}
}

// tuiBefore redirects logs to a file before the cart is opened so hydration warnings do not
// interfere with rendering.
func (r *Runner) tuiBefore(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	fileLogger, err := shared.NewFileLogger(cmd.String("log-file"))
	if err != nil {
		return ctx, fmt.Errorf("failed to create file logger: %w", err)
	}
	shared.SetLogLevel(fileLogger, r.logger.GetLevel())
	r.SetLogger(fileLogger)

	return r.ProvideCart(ctx, cmd)
}

// TUI launches the interactive cart browser.
func (r *Runner) TUI(ctx context.Context, cmd *cli.Command) error {
	model, err := ui.NewModel(ctx)
	if err != nil {
		return err
	}

	p := tea.NewProgram(model, tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	return nil
}
