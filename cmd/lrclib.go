package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/urfave/cli/v3"

	"github.com/MichelW6667/lrcget/internal/lrclib"
	"github.com/MichelW6667/lrcget/internal/shared"
)

// Search queries the lyrics service and prints the matching entries.
func (r *Runner) Search(ctx context.Context, cmd *cli.Command) error {
	client, err := r.requireClient()
	if err != nil {
		return err
	}

	params := lrclib.SearchParams{
		Track:  cmd.String("title"),
		Artist: cmd.String("artist"),
		Album:  cmd.String("album"),
		Query:  cmd.String("query"),
	}
	if params.Track == "" && params.Query == "" {
		return fmt.Errorf("%w: provide --title or --query", shared.ErrMissingArgument)
	}

	r.logger.Info("searching lyrics service", "title", params.Track, "query", params.Query)

	candidates, err := client.Search(ctx, params)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(candidates, cmd.Bool("pretty"))
	}

	if len(candidates) == 0 {
		return r.writePlain("No results\n")
	}

	r.writePlain("🔍 Found %d results\n\n", len(candidates))
	for i, c := range candidates {
		line := fmt.Sprintf("%d. %s - %s", i+1, c.ArtistName, c.Title())
		if c.AlbumName != "" {
			line += fmt.Sprintf(" (%s)", c.AlbumName)
		}
		if seconds, ok := c.DurationSeconds(); ok {
			line += fmt.Sprintf(" [%s]", shared.FormatDuration(seconds))
		}
		r.writePlain("%s\n", line)
		r.writePlain("   id=%d %s\n", c.ID, describeCandidate(c))
	}

	return nil
}

// Get fetches a single entry by its remote id and prints its lyrics.
func (r *Runner) Get(ctx context.Context, cmd *cli.Command) error {
	client, err := r.requireClient()
	if err != nil {
		return err
	}

	raw := cmd.StringArg("id")
	if raw == "" {
		return fmt.Errorf("%w: remote id required", shared.ErrMissingArgument)
	}

	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return fmt.Errorf("%w: remote id %q is not a number", shared.ErrInvalidArgument, raw)
	}

	candidate, err := client.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(candidate, cmd.Bool("pretty"))
	}

	r.writePlainHeader(fmt.Sprintf("%s - %s", candidate.ArtistName, candidate.Title()))
	switch {
	case candidate.Instrumental:
		r.writePlain("Instrumental track, no lyrics\n")
	case candidate.HasSynced():
		r.writePlain("%s\n", candidate.SyncedLyrics)
	case candidate.HasPlain():
		r.writePlain("%s\n", candidate.PlainLyrics)
	default:
		r.writePlain("Entry holds no lyrics\n")
	}

	return nil
}

// Publish submits a local track's stored lyrics to the lyrics service.
func (r *Runner) Publish(ctx context.Context, cmd *cli.Command) error {
	store, err := r.requireStore()
	if err != nil {
		return err
	}
	publisher, err := r.requirePublisher()
	if err != nil {
		return err
	}

	id := int64(cmd.Int("id"))
	track, lyrics, err := store.StoredLyrics(ctx, id)
	if err != nil {
		return err
	}

	req := lrclib.PublishRequest{
		TrackName:    track.Title,
		ArtistName:   track.ArtistName,
		AlbumName:    track.AlbumName,
		Duration:     track.Duration,
		PlainLyrics:  lyrics.Plain,
		SyncedLyrics: lyrics.Synced,
	}

	r.writePlain("Publishing lyrics for %s - %s\n", track.ArtistName, track.Title)
	publisher.OnStep = func(step string) {
		r.writePlain("  %s...\n", step)
	}

	if err := publisher.Publish(ctx, req); err != nil {
		return err
	}

	return r.writePlain("✓ Published\n")
}

// Flag reports a remote entry as incorrect.
func (r *Runner) Flag(ctx context.Context, cmd *cli.Command) error {
	publisher, err := r.requirePublisher()
	if err != nil {
		return err
	}

	raw := cmd.StringArg("id")
	if raw == "" {
		return fmt.Errorf("%w: remote id required", shared.ErrMissingArgument)
	}

	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return fmt.Errorf("%w: remote id %q is not a number", shared.ErrInvalidArgument, raw)
	}

	publisher.OnStep = func(step string) {
		r.writePlain("  %s...\n", step)
	}

	if err := publisher.Flag(ctx, id, cmd.String("reason")); err != nil {
		return err
	}

	return r.writePlain("✓ Entry flagged\n")
}

// describeCandidate summarizes which lyric forms a search result carries.
func describeCandidate(c lrclib.Candidate) string {
	switch {
	case c.Instrumental:
		return "instrumental"
	case c.HasSynced() && c.HasPlain():
		return "synced+plain"
	case c.HasSynced():
		return "synced"
	case c.HasPlain():
		return "plain"
	default:
		return "no lyrics"
	}
}
