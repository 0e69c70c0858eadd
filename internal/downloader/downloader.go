package downloader

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/charmbracelet/log"
	"golang.org/x/time/rate"

	"github.com/MichelW6667/lrcget/internal/lrclib"
	"github.com/MichelW6667/lrcget/internal/match"
	"github.com/MichelW6667/lrcget/internal/models"
	"github.com/MichelW6667/lrcget/internal/shared"
)

// LyricsWriter persists matched lyrics for a track.
type LyricsWriter interface {
	SaveLyrics(ctx context.Context, trackID int64, lyrics models.Lyrics) error
}

// Matcher finds the best remote lyrics entry for one track under a policy.
// [match.Engine] is the production implementation.
type Matcher interface {
	FindBestMatch(ctx context.Context, track models.Track, policy match.Policy) (match.Result, error)
}

const (
	defaultWorkers = 4
	maxWorkers     = 8
	defaultRate    = 5.0
	eventBuffer    = 64
)

// Opts configures a Downloader. Zero values select defaults.
type Opts struct {
	// Workers is the number of concurrent track processors (default 4, cap 8).
	Workers int
	// RateLimit is the dispatch budget in tracks per second (default 5).
	RateLimit float64
	// Logger receives run and per-track log lines (default stderr).
	Logger *log.Logger
}

// Downloader drives bulk lyrics downloads over a fixed track list. It owns
// one job at a time; Start, Stop, RetryFailed and StartOver move the job
// through the [State] lifecycle.
type Downloader struct {
	writer  LyricsWriter
	matcher Matcher
	opts    Opts
	logger  *log.Logger

	mu      sync.Mutex
	state   State
	job     *job
	stop    chan struct{}
	done    chan struct{}
	subs    map[int]chan Event
	nextSub int
}

// New creates a Downloader over a lyrics writer and a matcher. Zero opts
// select four workers and a five-per-second dispatch budget.
func New(writer LyricsWriter, matcher Matcher, opts Opts) *Downloader {
	if opts.Workers <= 0 {
		opts.Workers = defaultWorkers
	}
	if opts.Workers > maxWorkers {
		opts.Workers = maxWorkers
	}
	if opts.RateLimit <= 0 {
		opts.RateLimit = defaultRate
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}

	return &Downloader{
		writer:  writer,
		matcher: matcher,
		opts:    opts,
		logger:  opts.Logger,
		subs:    make(map[int]chan Event),
	}
}

// Start begins a job over the given tracks. It rejects an invalid policy, a
// second start while Running, and a leftover finished or stopped job that
// has not been discarded via StartOver.
func (d *Downloader) Start(ctx context.Context, tracks []models.Track, policy match.Policy) error {
	if err := policy.Validate(); err != nil {
		return err
	}

	d.mu.Lock()
	switch d.state {
	case Running:
		d.mu.Unlock()
		return shared.ErrDownloadRunning
	case Finished, Stopped:
		d.mu.Unlock()
		return shared.ErrDownloadActive
	}

	j := newJob(tracks, policy)
	d.job = j
	d.state = Running
	stop := make(chan struct{})
	done := make(chan struct{})
	d.stop = stop
	d.done = done
	d.publishLocked(d.eventLocked(nil))
	d.mu.Unlock()

	d.logger.Info("download started",
		"run_id", j.runID,
		"tracks", len(tracks),
		"workers", d.opts.Workers,
	)

	go d.run(ctx, j, j.tracks, stop, done)

	return nil
}

// Stop halts dispatch. In-flight tracks drain and record their outcomes; the
// state settles to Stopped, or to Finished when the halt raced completion.
func (d *Downloader) Stop() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.state != Running {
		return shared.ErrDownloadNotRunning
	}

	select {
	case <-d.stop:
	default:
		close(d.stop)
	}

	return nil
}

// RetryFailed re-runs only the failed tracks of a finished job. Their old
// outcomes and log entries are dropped first, so each retried track settles
// exactly once in the final report.
func (d *Downloader) RetryFailed(ctx context.Context) error {
	d.mu.Lock()

	if d.state != Finished {
		d.mu.Unlock()
		return shared.ErrDownloadNotFinished
	}
	if d.job.counters.Failed == 0 {
		d.mu.Unlock()
		return shared.ErrNoFailedTracks
	}

	j := d.job
	retry := j.removeFailures()
	d.state = Running
	stop := make(chan struct{})
	done := make(chan struct{})
	d.stop = stop
	d.done = done
	d.publishLocked(d.eventLocked(nil))
	d.mu.Unlock()

	d.logger.Info("retrying failed tracks", "run_id", j.runID, "tracks", len(retry))

	go d.run(ctx, j, retry, stop, done)

	return nil
}

// StartOver discards a finished or stopped job, returning to Idle.
func (d *Downloader) StartOver() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	switch d.state {
	case Running:
		return shared.ErrDownloadActive
	case Idle:
		return shared.ErrDownloadNotRunning
	}

	d.job = nil
	d.stop = nil
	d.done = nil
	d.state = Idle
	d.publishLocked(d.eventLocked(nil))

	return nil
}

// Subscribe registers a progress listener. Delivery is non-blocking: a
// subscriber that lags past its buffer misses intermediate events instead of
// stalling the pipeline. The returned cancel removes the subscription and
// closes the channel; it is safe to call more than once.
func (d *Downloader) Subscribe() (<-chan Event, func()) {
	d.mu.Lock()
	defer d.mu.Unlock()

	id := d.nextSub
	d.nextSub++
	ch := make(chan Event, eventBuffer)
	d.subs[id] = ch

	cancel := func() {
		d.mu.Lock()
		defer d.mu.Unlock()
		if _, ok := d.subs[id]; ok {
			delete(d.subs, id)
			close(ch)
		}
	}

	return ch, cancel
}

// Done returns a channel that closes once the current run's pool drains.
// When nothing is running it returns an already-closed channel, so callers
// can always select on it.
func (d *Downloader) Done() <-chan struct{} {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.done == nil {
		closed := make(chan struct{})
		close(closed)
		return closed
	}
	return d.done
}

// Snapshot returns the downloader's current position, read atomically.
func (d *Downloader) Snapshot() Snapshot {
	d.mu.Lock()
	defer d.mu.Unlock()

	snap := Snapshot{State: d.state}
	if d.job != nil {
		snap.RunID = d.job.runID
		snap.Processed = d.job.counters.Processed()
		snap.Total = len(d.job.tracks)
		snap.Counters = d.job.counters
	}
	return snap
}

// Progress returns completion as a fraction in [0, 1].
func (d *Downloader) Progress() float64 {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.job == nil || len(d.job.tracks) == 0 {
		if d.state == Finished {
			return 1
		}
		return 0
	}

	p := float64(d.job.counters.Processed()) / float64(len(d.job.tracks))
	if p > 1 {
		p = 1
	}
	return p
}

// Log returns a copy of the completion-ordered entries recorded so far.
func (d *Downloader) Log() []LogEntry {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.job == nil {
		return nil
	}
	out := make([]LogEntry, len(d.job.log))
	copy(out, d.job.log)
	return out
}

// run dispatches tracks to the worker pool and settles the final state once
// the pool drains.
func (d *Downloader) run(ctx context.Context, j *job, tracks []models.Track, stop <-chan struct{}, done chan<- struct{}) {
	limiter := rate.NewLimiter(rate.Limit(d.opts.RateLimit), 1)

	jobs := make(chan models.Track, len(tracks))
	var wg sync.WaitGroup

	for i := 0; i < d.opts.Workers; i++ {
		wg.Add(1)
		go d.worker(ctx, &wg, j, jobs, stop)
	}

	go func() {
		defer close(jobs)
		for _, track := range tracks {
			select {
			case <-ctx.Done():
				return
			case <-stop:
				return
			default:
			}

			if err := limiter.Wait(ctx); err != nil {
				return
			}

			select {
			case jobs <- track:
			case <-ctx.Done():
				return
			case <-stop:
				return
			}
		}
	}()

	wg.Wait()
	d.settle(j)
	close(done)
}

func (d *Downloader) worker(ctx context.Context, wg *sync.WaitGroup, j *job, jobs <-chan models.Track, stop <-chan struct{}) {
	defer wg.Done()

	for track := range jobs {
		// halt before picking up queued work; the track in hand still drains
		select {
		case <-stop:
			return
		default:
		}
		if ctx.Err() != nil {
			return
		}

		status, message := d.processTrack(ctx, j.policy, track)
		if ctx.Err() != nil {
			// a cancelled context is not a track outcome
			return
		}

		d.complete(j, track, status, message)
	}
}

// processTrack takes one track through scope exclusion, matching and
// persistence, and classifies the terminal outcome.
func (d *Downloader) processTrack(ctx context.Context, policy match.Policy, track models.Track) (Status, string) {
	switch policy.ScopeSkip(track) {
	case match.SkipUpToDate:
		return StatusSkipped, "already up to date"
	case match.SkipExcluded:
		return StatusSkipped, "excluded by download scope"
	}

	result, err := d.matcher.FindBestMatch(ctx, track, policy)
	if err != nil {
		if errors.Is(err, lrclib.ErrNotFound) {
			return StatusNotFound, "no lyrics found"
		}
		return StatusFailure, err.Error()
	}

	switch result.Verdict {
	case match.AlreadyUpToDate:
		return StatusSkipped, "already up to date"
	case match.NoMatch:
		return StatusNotFound, "no lyrics found"
	}

	if err := d.writer.SaveLyrics(ctx, track.ID, result.Lyrics); err != nil {
		return StatusFailure, fmt.Sprintf("failed to save lyrics: %v", err)
	}

	return StatusSuccess, successMessage(result)
}

func successMessage(result match.Result) string {
	if result.Lyrics.Instrumental {
		return fmt.Sprintf("marked instrumental (%s match)", result.Stage)
	}
	if result.Lyrics.Synced != "" {
		return fmt.Sprintf("synced lyrics (%s match)", result.Stage)
	}
	return fmt.Sprintf("plain lyrics (%s match)", result.Stage)
}

// complete commits one track's outcome and broadcasts the updated snapshot.
func (d *Downloader) complete(j *job, track models.Track, status Status, message string) {
	d.mu.Lock()
	if d.job != j {
		d.mu.Unlock()
		return
	}
	entry := j.applyOutcome(track, status, message)
	d.publishLocked(d.eventLocked(&entry))
	d.mu.Unlock()

	d.logger.Debug("track processed",
		"title", track.Title,
		"artist", track.ArtistName,
		"status", string(status),
		"message", message,
	)
}

// settle flips the job to its final state after the pool drains: Finished
// when every track has an outcome, Stopped otherwise.
func (d *Downloader) settle(j *job) {
	d.mu.Lock()
	if d.job != j {
		d.mu.Unlock()
		return
	}
	if j.complete() {
		d.state = Finished
	} else {
		d.state = Stopped
	}
	final := d.state
	processed := j.counters.Processed()
	total := len(j.tracks)
	d.publishLocked(d.eventLocked(nil))
	d.mu.Unlock()

	d.logger.Info("download "+final.String(),
		"run_id", j.runID,
		"processed", processed,
		"total", total,
	)
}

// eventLocked assembles a progress snapshot. Caller holds the mutex.
func (d *Downloader) eventLocked(entry *LogEntry) Event {
	ev := Event{State: d.state, Entry: entry}
	if d.job != nil {
		ev.Processed = d.job.counters.Processed()
		ev.Total = len(d.job.tracks)
		ev.Counters = d.job.counters
	}
	return ev
}

// publishLocked fans an event out to every subscriber without blocking.
// Caller holds the mutex.
func (d *Downloader) publishLocked(ev Event) {
	for _, ch := range d.subs {
		select {
		case ch <- ev:
		default:
		}
	}
}
