package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/MichelW6667/lrcget/internal/formatter"
	"github.com/MichelW6667/lrcget/internal/shared"
)

// LibraryImport loads tracks from a JSON manifest into the catalog.
func (r *Runner) LibraryImport(ctx context.Context, cmd *cli.Command) error {
	path := cmd.StringArg("manifest")
	if path == "" {
		return fmt.Errorf("%w: manifest path", shared.ErrMissingArgument)
	}

	store, err := r.requireStore()
	if err != nil {
		return err
	}

	r.logger.Info("importing manifest", "path", path)

	result, err := store.ImportManifest(ctx, path)
	if err != nil {
		return err
	}

	r.writePlain("✓ Imported %d of %d tracks\n", result.Imported, result.Total)
	if result.Duplicates > 0 {
		r.writePlain("  %d duplicates skipped\n", result.Duplicates)
	}
	if result.Invalid > 0 {
		r.writePlain("  %d invalid entries skipped\n", result.Invalid)
	}

	return nil
}

// LibraryList prints the catalog, optionally restricted to tracks missing
// lyrics.
func (r *Runner) LibraryList(ctx context.Context, cmd *cli.Command) error {
	onlyMissing := cmd.Bool("missing")
	useJSON := cmd.Bool("json")
	pretty := cmd.Bool("pretty")

	store, err := r.requireStore()
	if err != nil {
		return err
	}

	tracks, err := store.List(ctx, onlyMissing)
	if err != nil {
		return err
	}

	if useJSON {
		return r.writeJSON(tracks, pretty)
	}

	data, err := formatter.TracksToText(tracks)
	if err != nil {
		return err
	}
	return r.writePlain("%s", data)
}

// LibraryStats prints lyrics coverage counts for the catalog.
func (r *Runner) LibraryStats(ctx context.Context, cmd *cli.Command) error {
	store, err := r.requireStore()
	if err != nil {
		return err
	}

	stats, err := store.Stats(ctx)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(stats, true)
	}

	r.writePlainHeader("Library Stats")
	r.writePlain("Total tracks: %d\n", stats.Total)
	r.writePlain("Synced lyrics: %d\n", stats.Synced)
	r.writePlain("Plain lyrics: %d\n", stats.Plain)
	r.writePlain("Instrumental: %d\n", stats.Instrumental)
	r.writePlain("Missing lyrics: %d\n", stats.Missing)

	return nil
}

// LibraryExport writes the catalog to a file, format picked by extension.
func (r *Runner) LibraryExport(ctx context.Context, cmd *cli.Command) error {
	path := cmd.StringArg("path")
	if path == "" {
		return fmt.Errorf("%w: output path", shared.ErrMissingArgument)
	}

	store, err := r.requireStore()
	if err != nil {
		return err
	}

	tracks, err := store.List(ctx, cmd.Bool("missing"))
	if err != nil {
		return err
	}

	written, err := formatter.WriteTracks(tracks, path)
	if err != nil {
		return err
	}

	r.logger.Info("catalog exported", "path", written, "tracks", len(tracks))
	r.writePlain("✓ Exported %d tracks to %s\n", len(tracks), written)

	return nil
}
