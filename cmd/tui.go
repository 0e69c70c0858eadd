package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/urfave/cli/v3"

	"github.com/MichelW6667/lrcget/internal/downloader"
	"github.com/MichelW6667/lrcget/internal/shared"
	"github.com/MichelW6667/lrcget/internal/ui"
)

// DownloadTUI launches the interactive terminal UI for a bulk download.
func (r *Runner) DownloadTUI(ctx context.Context, cmd *cli.Command) error {
	store, err := r.requireStore()
	if err != nil {
		return err
	}
	if _, err := r.requireClient(); err != nil {
		return err
	}

	policy := policyFromFlags(cmd)
	if err := policy.Validate(); err != nil {
		return err
	}

	tracks, err := store.TracksForDownload(ctx, policy.Scope)
	if err != nil {
		return err
	}

	// Redirect logs to file to avoid interfering with TUI rendering
	fileLogger, err := shared.NewFileLogger("./tmp/lrcget-tui.log")
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	r.SetLogger(fileLogger)

	d := downloader.New(store, r.engine, downloader.Opts{
		Workers:   cmd.Int("workers"),
		RateLimit: r.config.LRCLib.RateLimit,
		Logger:    fileLogger,
	})

	model := ui.NewModel(ctx, d, tracks, policy)
	p := tea.NewProgram(model)

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	return nil
}
