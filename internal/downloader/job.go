package downloader

import (
	"time"

	"github.com/MichelW6667/lrcget/internal/match"
	"github.com/MichelW6667/lrcget/internal/models"
	"github.com/MichelW6667/lrcget/internal/shared"
)

// job holds the mutable state of one download run. Every field is guarded by
// the owning Downloader's mutex; methods assume the caller holds it.
type job struct {
	runID  string
	tracks []models.Track
	policy match.Policy

	outcomes map[int64]Status
	counters Counters
	log      []LogEntry
}

func newJob(tracks []models.Track, policy match.Policy) *job {
	return &job{
		runID:    shared.GenerateID(),
		tracks:   tracks,
		policy:   policy,
		outcomes: make(map[int64]Status, len(tracks)),
	}
}

// applyOutcome records the terminal status for one track, bumps the matching
// counter and appends the log entry.
func (j *job) applyOutcome(track models.Track, status Status, message string) LogEntry {
	j.outcomes[track.ID] = status

	switch status {
	case StatusSuccess:
		j.counters.Success++
	case StatusSkipped:
		j.counters.Skipped++
	case StatusNotFound:
		j.counters.NotFound++
	case StatusFailure:
		j.counters.Failed++
	}

	entry := LogEntry{
		TrackID:    track.ID,
		Title:      track.Title,
		ArtistName: track.ArtistName,
		Status:     status,
		Message:    message,
		At:         time.Now(),
	}
	j.log = append(j.log, entry)

	return entry
}

// removeFailures clears failed outcomes, their counter and their log entries
// so the tracks can run again. Returns the tracks to retry in the job's
// original order.
func (j *job) removeFailures() []models.Track {
	var retry []models.Track
	for _, track := range j.tracks {
		if j.outcomes[track.ID] == StatusFailure {
			retry = append(retry, track)
			delete(j.outcomes, track.ID)
		}
	}
	j.counters.Failed = 0

	kept := j.log[:0]
	for _, entry := range j.log {
		if entry.Status != StatusFailure {
			kept = append(kept, entry)
		}
	}
	j.log = kept

	return retry
}

// complete reports whether every track of the job has a terminal outcome.
func (j *job) complete() bool {
	return j.counters.Processed() == len(j.tracks)
}
