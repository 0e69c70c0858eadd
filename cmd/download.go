package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/MichelW6667/lrcget/internal/downloader"
	"github.com/MichelW6667/lrcget/internal/formatter"
	"github.com/MichelW6667/lrcget/internal/match"
	"github.com/MichelW6667/lrcget/internal/shared"
)

// scopeFromConfig maps the config's skip switches onto a download scope.
// Skipping synced tracks wins when both switches are set.
func scopeFromConfig(config *shared.Config) string {
	switch {
	case config.Download.SkipTracksWithSyncedLyrics:
		return string(match.ScopeSkipSynced)
	case config.Download.SkipTracksWithPlainLyrics:
		return string(match.ScopeSkipPlain)
	default:
		return string(match.ScopeAll)
	}
}

// policyFromFlags assembles the per-run matching policy from the command's
// flags. Flag defaults come from config, so an unflagged run follows it.
func policyFromFlags(cmd *cli.Command) match.Policy {
	return match.Policy{
		Preference:        match.Preference(cmd.String("prefer")),
		DurationTolerance: cmd.Float("tolerance"),
		FuzzySearch:       cmd.Bool("fuzzy"),
		Scope:             match.Scope(cmd.String("scope")),
	}
}

// DownloadRun downloads lyrics for the whole library, streaming per-track
// outcomes and printing a summary once the run settles.
func (r *Runner) DownloadRun(ctx context.Context, cmd *cli.Command) error {
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
	if len(tracks) == 0 {
		r.writePlain("Library is empty, nothing to download\n")
		return nil
	}

	d := downloader.New(store, r.engine, downloader.Opts{
		Workers:   cmd.Int("workers"),
		RateLimit: r.config.LRCLib.RateLimit,
		Logger:    r.logger,
	})

	events, cancel := d.Subscribe()
	defer cancel()

	r.writePlain("📥 Downloading lyrics for %d tracks\n\n", len(tracks))

	if err := d.Start(ctx, tracks, policy); err != nil {
		return err
	}

	// Outcome lines stream from the subscription; the pool-drained signal
	// bounds the loop even if a lagging buffer dropped the terminal event.
	done := d.Done()
stream:
	for {
		select {
		case event := <-events:
			if event.Entry != nil {
				r.writeOutcome(*event.Entry)
			}
			if event.State == downloader.Finished || event.State == downloader.Stopped {
				break stream
			}
		case <-done:
			break stream
		}
	}

	snap := d.Snapshot()

	r.writePlain("\n")
	if snap.State == downloader.Finished {
		r.writePlainHeader("Download Complete!")
	} else {
		r.writePlainHeader("Download Stopped")
	}
	r.writePlain("Processed: %d/%d tracks\n", snap.Processed, snap.Total)
	r.writePlain("Downloaded: %d\n", snap.Counters.Success)
	r.writePlain("Skipped: %d\n", snap.Counters.Skipped)
	r.writePlain("Not found: %d\n", snap.Counters.NotFound)
	r.writePlain("Failed: %d\n", snap.Counters.Failed)

	if reportPath := cmd.String("report"); reportPath != "" {
		report := formatter.NewReport(snap, d.Log())
		written, err := formatter.WriteReport(report, reportPath)
		if err != nil {
			return err
		}
		r.writePlain("\nReport saved to: %s\n", written)
	}

	return nil
}

// writeOutcome prints one per-track result line.
func (r *Runner) writeOutcome(entry downloader.LogEntry) {
	switch entry.Status {
	case downloader.StatusSuccess:
		r.writePlain("✓ %s - %s (%s)\n", entry.ArtistName, entry.Title, entry.Message)
	case downloader.StatusSkipped:
		r.writePlain("• %s - %s (%s)\n", entry.ArtistName, entry.Title, entry.Message)
	case downloader.StatusNotFound:
		r.writePlain("🔍 %s - %s (%s)\n", entry.ArtistName, entry.Title, entry.Message)
	case downloader.StatusFailure:
		r.writePlain("✗ %s - %s (%s)\n", entry.ArtistName, entry.Title, entry.Message)
	}
}
