package downloader

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/MichelW6667/lrcget/internal/lrclib"
	"github.com/MichelW6667/lrcget/internal/match"
	"github.com/MichelW6667/lrcget/internal/models"
	"github.com/MichelW6667/lrcget/internal/shared"
)

type matchFunc func(ctx context.Context, track models.Track) (match.Result, error)

type mockMatcher struct {
	mu       sync.Mutex
	calls    int
	perTrack map[int64]int
	fn       matchFunc
}

func newMockMatcher(fn matchFunc) *mockMatcher {
	return &mockMatcher{perTrack: make(map[int64]int), fn: fn}
}

func (m *mockMatcher) FindBestMatch(ctx context.Context, track models.Track, policy match.Policy) (match.Result, error) {
	m.mu.Lock()
	m.calls++
	m.perTrack[track.ID]++
	m.mu.Unlock()

	if m.fn != nil {
		return m.fn(ctx, track)
	}
	return syncedResult(), nil
}

func (m *mockMatcher) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

func (m *mockMatcher) trackCalls(id int64) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.perTrack[id]
}

func syncedResult() match.Result {
	return match.Result{
		Verdict: match.Found,
		Stage:   match.StageExact,
		Lyrics: models.Lyrics{
			Plain:  "Breathe, breathe in the air",
			Synced: "[00:12.00] Breathe, breathe in the air",
		},
	}
}

type mockWriter struct {
	mu    sync.Mutex
	saved map[int64]models.Lyrics
	err   error
}

func newMockWriter() *mockWriter {
	return &mockWriter{saved: make(map[int64]models.Lyrics)}
}

func (w *mockWriter) SaveLyrics(ctx context.Context, trackID int64, lyrics models.Lyrics) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.err != nil {
		return w.err
	}
	w.saved[trackID] = lyrics
	return nil
}

func (w *mockWriter) savedCount() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.saved)
}

func testTracks(n int) []models.Track {
	tracks := make([]models.Track, n)
	for i := range tracks {
		tracks[i] = models.Track{
			ID:         int64(i + 1),
			Title:      fmt.Sprintf("Track %02d", i+1),
			ArtistName: "Pink Floyd",
			Duration:   180,
		}
	}
	return tracks
}

func newTestDownloader(matcher Matcher, writer LyricsWriter, workers int) *Downloader {
	return New(writer, matcher, Opts{
		Workers:   workers,
		RateLimit: 1000,
		Logger:    shared.NewLogger(io.Discard),
	})
}

func waitSettled(t *testing.T, d *Downloader) {
	t.Helper()
	select {
	case <-d.Done():
	case <-time.After(5 * time.Second):
		t.Fatal("download did not settle in time")
	}
}

func TestDownloader_Run(t *testing.T) {
	t.Run("all tracks succeed", func(t *testing.T) {
		matcher := newMockMatcher(nil)
		writer := newMockWriter()
		d := newTestDownloader(matcher, writer, 4)

		if err := d.Start(context.Background(), testTracks(8), match.DefaultPolicy()); err != nil {
			t.Fatalf("Start failed: %v", err)
		}
		waitSettled(t, d)

		snap := d.Snapshot()
		if snap.State != Finished {
			t.Errorf("expected state finished, got %v", snap.State)
		}
		if snap.RunID == "" {
			t.Error("expected a run ID")
		}
		if snap.Counters.Success != 8 {
			t.Errorf("expected 8 successes, got %d", snap.Counters.Success)
		}
		if snap.Processed != snap.Total {
			t.Errorf("processed %d does not match total %d", snap.Processed, snap.Total)
		}
		if writer.savedCount() != 8 {
			t.Errorf("expected 8 saved tracks, got %d", writer.savedCount())
		}
		if p := d.Progress(); p != 1 {
			t.Errorf("expected progress 1, got %f", p)
		}
		if entries := d.Log(); len(entries) != 8 {
			t.Errorf("expected 8 log entries, got %d", len(entries))
		}
	})

	t.Run("counter sum equals processed count", func(t *testing.T) {
		matcher := newMockMatcher(func(ctx context.Context, track models.Track) (match.Result, error) {
			if track.ID%2 == 0 {
				return match.Result{Verdict: match.NoMatch}, nil
			}
			return syncedResult(), nil
		})
		d := newTestDownloader(matcher, newMockWriter(), 4)

		if err := d.Start(context.Background(), testTracks(9), match.DefaultPolicy()); err != nil {
			t.Fatalf("Start failed: %v", err)
		}
		waitSettled(t, d)

		snap := d.Snapshot()
		if got := snap.Counters.Processed(); got != snap.Processed {
			t.Errorf("counter sum %d does not match processed %d", got, snap.Processed)
		}
		if snap.Counters.Success != 5 || snap.Counters.NotFound != 4 {
			t.Errorf("expected 5 successes and 4 misses, got %+v", snap.Counters)
		}
	})

	t.Run("empty track list finishes immediately", func(t *testing.T) {
		matcher := newMockMatcher(nil)
		d := newTestDownloader(matcher, newMockWriter(), 2)

		if err := d.Start(context.Background(), nil, match.DefaultPolicy()); err != nil {
			t.Fatalf("Start failed: %v", err)
		}
		waitSettled(t, d)

		snap := d.Snapshot()
		if snap.State != Finished {
			t.Errorf("expected state finished, got %v", snap.State)
		}
		if matcher.callCount() != 0 {
			t.Errorf("expected no matcher calls, got %d", matcher.callCount())
		}
		if p := d.Progress(); p != 1 {
			t.Errorf("expected progress 1 for an empty finished run, got %f", p)
		}
	})

	t.Run("rejects invalid policy", func(t *testing.T) {
		d := newTestDownloader(newMockMatcher(nil), newMockWriter(), 2)

		policy := match.DefaultPolicy()
		policy.Preference = "fancy"

		err := d.Start(context.Background(), testTracks(1), policy)
		if !errors.Is(err, shared.ErrInvalidConfig) {
			t.Errorf("expected invalid config error, got %v", err)
		}
		if snap := d.Snapshot(); snap.State != Idle {
			t.Errorf("expected state idle after rejected start, got %v", snap.State)
		}
	})

	t.Run("rejects second start while running", func(t *testing.T) {
		unblock := make(chan struct{})
		started := make(chan struct{}, 8)
		matcher := newMockMatcher(func(ctx context.Context, track models.Track) (match.Result, error) {
			started <- struct{}{}
			select {
			case <-unblock:
			case <-ctx.Done():
				return match.Result{}, ctx.Err()
			}
			return syncedResult(), nil
		})
		d := newTestDownloader(matcher, newMockWriter(), 2)

		if err := d.Start(context.Background(), testTracks(4), match.DefaultPolicy()); err != nil {
			t.Fatalf("Start failed: %v", err)
		}
		<-started

		if err := d.Start(context.Background(), testTracks(4), match.DefaultPolicy()); !errors.Is(err, shared.ErrDownloadRunning) {
			t.Errorf("expected running error, got %v", err)
		}

		close(unblock)
		waitSettled(t, d)
	})

	t.Run("rejects start over a leftover job", func(t *testing.T) {
		d := newTestDownloader(newMockMatcher(nil), newMockWriter(), 2)

		if err := d.Start(context.Background(), testTracks(2), match.DefaultPolicy()); err != nil {
			t.Fatalf("Start failed: %v", err)
		}
		waitSettled(t, d)

		err := d.Start(context.Background(), testTracks(2), match.DefaultPolicy())
		if !errors.Is(err, shared.ErrDownloadActive) {
			t.Errorf("expected active job error, got %v", err)
		}
	})
}

func TestDownloader_OutcomeClassification(t *testing.T) {
	matcher := newMockMatcher(func(ctx context.Context, track models.Track) (match.Result, error) {
		switch track.ID {
		case 1:
			return syncedResult(), nil
		case 2:
			return match.Result{Verdict: match.NoMatch}, nil
		case 3:
			return match.Result{Verdict: match.AlreadyUpToDate}, nil
		case 4:
			return match.Result{}, fmt.Errorf("failed to fetch lyrics: %w", lrclib.ErrNotFound)
		case 5:
			return match.Result{}, fmt.Errorf("%w: connection refused", lrclib.ErrNetwork)
		default:
			return match.Result{
				Verdict: match.Found,
				Stage:   match.StageDuration,
				Lyrics:  models.Lyrics{Instrumental: true, Synced: models.InstrumentalSentinel},
			}, nil
		}
	})
	writer := newMockWriter()
	d := newTestDownloader(matcher, writer, 3)

	if err := d.Start(context.Background(), testTracks(6), match.DefaultPolicy()); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	waitSettled(t, d)

	snap := d.Snapshot()
	if snap.State != Finished {
		t.Fatalf("expected state finished, got %v", snap.State)
	}

	want := Counters{Success: 2, Skipped: 1, NotFound: 2, Failed: 1}
	if snap.Counters != want {
		t.Errorf("expected counters %+v, got %+v", want, snap.Counters)
	}
	if snap.Processed != 6 {
		t.Errorf("one failure must not abort the rest: processed %d of 6", snap.Processed)
	}
	if writer.savedCount() != 2 {
		t.Errorf("expected 2 saved tracks, got %d", writer.savedCount())
	}

	statuses := make(map[int64]Status)
	messages := make(map[int64]string)
	for _, entry := range d.Log() {
		statuses[entry.TrackID] = entry.Status
		messages[entry.TrackID] = entry.Message
	}

	wantStatuses := map[int64]Status{
		1: StatusSuccess,
		2: StatusNotFound,
		3: StatusSkipped,
		4: StatusNotFound,
		5: StatusFailure,
		6: StatusSuccess,
	}
	for id, wantStatus := range wantStatuses {
		if statuses[id] != wantStatus {
			t.Errorf("track %d: expected status %q, got %q", id, wantStatus, statuses[id])
		}
	}

	if messages[6] != "marked instrumental (duration match)" {
		t.Errorf("unexpected instrumental message: %q", messages[6])
	}
	if messages[1] != "synced lyrics (exact match)" {
		t.Errorf("unexpected success message: %q", messages[1])
	}
	if msg := messages[5]; !strings.Contains(msg, "connection refused") {
		t.Errorf("expected the failure message to carry the cause, got %q", msg)
	}
}

func TestDownloader_SaveFailure(t *testing.T) {
	writer := newMockWriter()
	writer.err = errors.New("disk full")
	d := newTestDownloader(newMockMatcher(nil), writer, 2)

	if err := d.Start(context.Background(), testTracks(3), match.DefaultPolicy()); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	waitSettled(t, d)

	snap := d.Snapshot()
	if snap.Counters.Failed != 3 {
		t.Errorf("expected 3 failures, got %+v", snap.Counters)
	}
	for _, entry := range d.Log() {
		if entry.Status != StatusFailure {
			t.Errorf("track %d: expected failure, got %q", entry.TrackID, entry.Status)
		}
	}
}

func TestDownloader_ScopeSkip(t *testing.T) {
	matcher := newMockMatcher(nil)
	d := newTestDownloader(matcher, newMockWriter(), 2)

	tracks := testTracks(3)
	tracks[0].State = models.StateSynced
	tracks[1].State = models.StateInstrumental

	policy := match.DefaultPolicy()
	policy.Scope = match.ScopeSkipSynced

	if err := d.Start(context.Background(), tracks, policy); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	waitSettled(t, d)

	snap := d.Snapshot()
	if snap.Counters.Skipped != 2 || snap.Counters.Success != 1 {
		t.Errorf("expected 2 skipped and 1 success, got %+v", snap.Counters)
	}

	// scope exclusion happens before any remote work
	if matcher.trackCalls(1) != 0 || matcher.trackCalls(2) != 0 {
		t.Errorf("excluded tracks reached the matcher: %d calls total", matcher.callCount())
	}
	if matcher.trackCalls(3) != 1 {
		t.Errorf("expected one matcher call for track 3, got %d", matcher.trackCalls(3))
	}

	messages := make(map[int64]string)
	for _, entry := range d.Log() {
		messages[entry.TrackID] = entry.Message
	}
	if messages[1] != "already up to date" {
		t.Errorf("unexpected skip message for synced track: %q", messages[1])
	}
	if messages[2] != "excluded by download scope" {
		t.Errorf("unexpected skip message for instrumental track: %q", messages[2])
	}
}

func TestDownloader_Stop(t *testing.T) {
	t.Run("in-flight tracks drain, queued tracks do not run", func(t *testing.T) {
		unblock := make(chan struct{})
		started := make(chan struct{}, 8)
		matcher := newMockMatcher(func(ctx context.Context, track models.Track) (match.Result, error) {
			started <- struct{}{}
			select {
			case <-unblock:
			case <-ctx.Done():
				return match.Result{}, ctx.Err()
			}
			return syncedResult(), nil
		})
		d := newTestDownloader(matcher, newMockWriter(), 2)

		if err := d.Start(context.Background(), testTracks(8), match.DefaultPolicy()); err != nil {
			t.Fatalf("Start failed: %v", err)
		}

		for i := 0; i < 2; i++ {
			select {
			case <-started:
			case <-time.After(5 * time.Second):
				t.Fatal("workers never picked up tracks")
			}
		}

		if err := d.Stop(); err != nil {
			t.Fatalf("Stop failed: %v", err)
		}
		close(unblock)
		waitSettled(t, d)

		snap := d.Snapshot()
		if snap.State != Stopped {
			t.Errorf("expected state stopped, got %v", snap.State)
		}
		if snap.Processed != 2 {
			t.Errorf("expected exactly the 2 in-flight tracks to settle, got %d", snap.Processed)
		}
		if snap.Counters.Success != 2 {
			t.Errorf("in-flight tracks should record real outcomes, got %+v", snap.Counters)
		}
	})

	t.Run("stop without a running job", func(t *testing.T) {
		d := newTestDownloader(newMockMatcher(nil), newMockWriter(), 2)
		if err := d.Stop(); !errors.Is(err, shared.ErrDownloadNotRunning) {
			t.Errorf("expected not running error, got %v", err)
		}
	})

	t.Run("stop after settle", func(t *testing.T) {
		d := newTestDownloader(newMockMatcher(nil), newMockWriter(), 2)
		if err := d.Start(context.Background(), testTracks(2), match.DefaultPolicy()); err != nil {
			t.Fatalf("Start failed: %v", err)
		}
		waitSettled(t, d)

		if err := d.Stop(); !errors.Is(err, shared.ErrDownloadNotRunning) {
			t.Errorf("expected not running error, got %v", err)
		}
	})
}

func TestDownloader_Cancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	unblock := make(chan struct{})
	started := make(chan struct{}, 8)
	matcher := newMockMatcher(func(ctx context.Context, track models.Track) (match.Result, error) {
		started <- struct{}{}
		select {
		case <-unblock:
		case <-ctx.Done():
			return match.Result{}, ctx.Err()
		}
		return syncedResult(), nil
	})
	d := newTestDownloader(matcher, newMockWriter(), 2)

	if err := d.Start(ctx, testTracks(6), match.DefaultPolicy()); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	for i := 0; i < 2; i++ {
		select {
		case <-started:
		case <-time.After(5 * time.Second):
			t.Fatal("workers never picked up tracks")
		}
	}

	cancel()
	waitSettled(t, d)

	snap := d.Snapshot()
	if snap.State != Stopped {
		t.Errorf("expected state stopped after cancellation, got %v", snap.State)
	}
	if snap.Processed != 0 {
		t.Errorf("cancellation must not record outcomes, got %d processed", snap.Processed)
	}
	if entries := d.Log(); len(entries) != 0 {
		t.Errorf("expected an empty log after cancellation, got %d entries", len(entries))
	}
}

func TestDownloader_RetryFailed(t *testing.T) {
	var healed atomic.Bool
	matcher := newMockMatcher(func(ctx context.Context, track models.Track) (match.Result, error) {
		if !healed.Load() && (track.ID == 2 || track.ID == 5) {
			return match.Result{}, fmt.Errorf("%w: timeout", lrclib.ErrNetwork)
		}
		return syncedResult(), nil
	})
	d := newTestDownloader(matcher, newMockWriter(), 3)

	if err := d.RetryFailed(context.Background()); !errors.Is(err, shared.ErrDownloadNotFinished) {
		t.Fatalf("expected not finished error before any run, got %v", err)
	}

	if err := d.Start(context.Background(), testTracks(6), match.DefaultPolicy()); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	waitSettled(t, d)

	first := d.Snapshot()
	if first.State != Finished {
		t.Fatalf("expected state finished, got %v", first.State)
	}
	if first.Counters.Failed != 2 || first.Counters.Success != 4 {
		t.Fatalf("expected 4 successes and 2 failures, got %+v", first.Counters)
	}

	healed.Store(true)
	if err := d.RetryFailed(context.Background()); err != nil {
		t.Fatalf("RetryFailed failed: %v", err)
	}
	waitSettled(t, d)

	second := d.Snapshot()
	if second.State != Finished {
		t.Errorf("expected state finished after retry, got %v", second.State)
	}
	if second.RunID != first.RunID {
		t.Errorf("retry must stay within the same job: %q vs %q", second.RunID, first.RunID)
	}
	if second.Counters.Failed != 0 || second.Counters.Success != 6 {
		t.Errorf("expected 6 successes and no failures, got %+v", second.Counters)
	}
	if second.Processed != second.Total {
		t.Errorf("processed %d does not match total %d", second.Processed, second.Total)
	}

	// only the failed tracks ran twice
	for id := int64(1); id <= 6; id++ {
		want := 1
		if id == 2 || id == 5 {
			want = 2
		}
		if got := matcher.trackCalls(id); got != want {
			t.Errorf("track %d: expected %d matcher calls, got %d", id, want, got)
		}
	}

	entries := d.Log()
	if len(entries) != 6 {
		t.Fatalf("expected 6 log entries after retry, got %d", len(entries))
	}
	retried := map[int64]bool{}
	for _, entry := range entries[4:] {
		retried[entry.TrackID] = true
	}
	if !retried[2] || !retried[5] {
		t.Errorf("expected the retried tracks at the end of the log, got %+v", retried)
	}

	if err := d.RetryFailed(context.Background()); !errors.Is(err, shared.ErrNoFailedTracks) {
		t.Errorf("expected no failed tracks error, got %v", err)
	}
}

func TestDownloader_StartOver(t *testing.T) {
	t.Run("discards a finished job", func(t *testing.T) {
		d := newTestDownloader(newMockMatcher(nil), newMockWriter(), 2)

		if err := d.Start(context.Background(), testTracks(3), match.DefaultPolicy()); err != nil {
			t.Fatalf("Start failed: %v", err)
		}
		waitSettled(t, d)
		firstRun := d.Snapshot().RunID

		if err := d.StartOver(); err != nil {
			t.Fatalf("StartOver failed: %v", err)
		}

		snap := d.Snapshot()
		if snap.State != Idle {
			t.Errorf("expected state idle, got %v", snap.State)
		}
		if snap.Total != 0 || snap.RunID != "" {
			t.Errorf("expected the job to be discarded, got %+v", snap)
		}
		if p := d.Progress(); p != 0 {
			t.Errorf("expected progress 0 after start over, got %f", p)
		}

		// a fresh job gets a fresh identity
		if err := d.Start(context.Background(), testTracks(2), match.DefaultPolicy()); err != nil {
			t.Fatalf("Start after StartOver failed: %v", err)
		}
		waitSettled(t, d)
		if again := d.Snapshot().RunID; again == firstRun {
			t.Error("expected a new run ID after start over")
		}
	})

	t.Run("rejected while running", func(t *testing.T) {
		unblock := make(chan struct{})
		started := make(chan struct{}, 4)
		matcher := newMockMatcher(func(ctx context.Context, track models.Track) (match.Result, error) {
			started <- struct{}{}
			<-unblock
			return syncedResult(), nil
		})
		d := newTestDownloader(matcher, newMockWriter(), 1)

		if err := d.Start(context.Background(), testTracks(2), match.DefaultPolicy()); err != nil {
			t.Fatalf("Start failed: %v", err)
		}
		<-started

		if err := d.StartOver(); !errors.Is(err, shared.ErrDownloadActive) {
			t.Errorf("expected active error, got %v", err)
		}

		close(unblock)
		waitSettled(t, d)
	})

	t.Run("rejected when idle", func(t *testing.T) {
		d := newTestDownloader(newMockMatcher(nil), newMockWriter(), 1)
		if err := d.StartOver(); !errors.Is(err, shared.ErrDownloadNotRunning) {
			t.Errorf("expected not running error, got %v", err)
		}
	})
}

func TestDownloader_Events(t *testing.T) {
	t.Run("snapshots arrive in completion order", func(t *testing.T) {
		matcher := newMockMatcher(func(ctx context.Context, track models.Track) (match.Result, error) {
			if track.ID == 3 {
				return match.Result{Verdict: match.NoMatch}, nil
			}
			return syncedResult(), nil
		})
		d := newTestDownloader(matcher, newMockWriter(), 4)

		events, cancelSub := d.Subscribe()
		defer cancelSub()

		if err := d.Start(context.Background(), testTracks(5), match.DefaultPolicy()); err != nil {
			t.Fatalf("Start failed: %v", err)
		}
		waitSettled(t, d)

		var got []Event
	drain:
		for {
			select {
			case ev := <-events:
				got = append(got, ev)
			default:
				break drain
			}
		}

		if len(got) < 3 {
			t.Fatalf("expected at least start, completions and finish, got %d events", len(got))
		}
		if got[0].State != Running || got[0].Processed != 0 || got[0].Total != 5 {
			t.Errorf("unexpected first event: %+v", got[0])
		}
		last := got[len(got)-1]
		if last.State != Finished || last.Processed != 5 {
			t.Errorf("unexpected final event: %+v", last)
		}

		completions := 0
		prev := -1
		for _, ev := range got {
			if ev.Processed < prev {
				t.Errorf("processed count went backwards: %d after %d", ev.Processed, prev)
			}
			prev = ev.Processed
			if ev.Counters.Processed() != ev.Processed {
				t.Errorf("inconsistent snapshot: %+v", ev)
			}
			if ev.Entry != nil {
				completions++
			}
		}
		if completions != 5 {
			t.Errorf("expected 5 completion events, got %d", completions)
		}
	})

	t.Run("cancel closes the channel and is idempotent", func(t *testing.T) {
		d := newTestDownloader(newMockMatcher(nil), newMockWriter(), 1)

		events, cancelSub := d.Subscribe()
		cancelSub()
		cancelSub()

		select {
		case _, ok := <-events:
			if ok {
				t.Error("expected a closed channel after cancel")
			}
		case <-time.After(time.Second):
			t.Error("channel not closed after cancel")
		}
	})

	t.Run("a lagging subscriber never blocks the run", func(t *testing.T) {
		d := newTestDownloader(newMockMatcher(nil), newMockWriter(), 4)

		// never read from this subscription; its buffer overflows harmlessly
		_, cancelSub := d.Subscribe()
		defer cancelSub()

		tracks := testTracks(eventBuffer + 40)
		if err := d.Start(context.Background(), tracks, match.DefaultPolicy()); err != nil {
			t.Fatalf("Start failed: %v", err)
		}
		waitSettled(t, d)

		snap := d.Snapshot()
		if snap.State != Finished || snap.Processed != len(tracks) {
			t.Errorf("run stalled behind a slow subscriber: %+v", snap)
		}
	})
}

func TestDownloader_Concurrency(t *testing.T) {
	matcher := newMockMatcher(func(ctx context.Context, track models.Track) (match.Result, error) {
		switch track.ID % 4 {
		case 1:
			return syncedResult(), nil
		case 2:
			return match.Result{Verdict: match.NoMatch}, nil
		case 3:
			return match.Result{}, fmt.Errorf("%w: reset by peer", lrclib.ErrNetwork)
		default:
			return match.Result{Verdict: match.AlreadyUpToDate}, nil
		}
	})
	d := newTestDownloader(matcher, newMockWriter(), 8)

	if err := d.Start(context.Background(), testTracks(30), match.DefaultPolicy()); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	waitSettled(t, d)

	snap := d.Snapshot()
	want := Counters{Success: 8, Skipped: 7, NotFound: 8, Failed: 7}
	if snap.Counters != want {
		t.Errorf("expected counters %+v, got %+v", want, snap.Counters)
	}
	if snap.State != Finished {
		t.Errorf("expected state finished, got %v", snap.State)
	}
	if entries := d.Log(); len(entries) != 30 {
		t.Errorf("expected 30 log entries, got %d", len(entries))
	}

	// every track settles exactly once
	for id := int64(1); id <= 30; id++ {
		if got := matcher.trackCalls(id); got != 1 {
			t.Errorf("track %d: expected 1 matcher call, got %d", id, got)
		}
	}
}
