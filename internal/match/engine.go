package match

import (
	"context"
	"errors"
	"math"
	"strings"

	"github.com/MichelW6667/lrcget/internal/lrclib"
	"github.com/MichelW6667/lrcget/internal/models"
)

// Source is the slice of the remote client the engine needs.
type Source interface {
	Get(ctx context.Context, title, artist, album string, duration float64) (*lrclib.Candidate, error)
	Search(ctx context.Context, params lrclib.SearchParams) ([]lrclib.Candidate, error)
}

// Verdict classifies the engine's conclusion for one track.
type Verdict int

const (
	// Found means a candidate was accepted and lyrics are ready to persist.
	Found Verdict = iota
	// NoMatch means no stage produced an acceptable candidate.
	NoMatch
	// AlreadyUpToDate means the track already holds what the policy would
	// produce, so nothing was fetched.
	AlreadyUpToDate
)

// Stage names, reported in results and logs.
const (
	StageExact    = "exact"
	StageDuration = "duration"
	StageFuzzy    = "fuzzy"
)

const (
	// exactEpsilon is the duration slack allowed on an exact signature hit.
	exactEpsilon = 2.0

	// fuzzyThreshold is the minimum similarity a fuzzy candidate needs.
	fuzzyThreshold = 0.3
)

// Result is the outcome of a match run for one track.
type Result struct {
	Verdict   Verdict
	Lyrics    models.Lyrics
	Candidate *lrclib.Candidate
	Stage     string
}

// stage is one strategy in the ordered search list. Returning a nil
// candidate with a nil error means the stage found nothing and the next
// stage should run.
type stage struct {
	name string
	run  func(ctx context.Context) (*lrclib.Candidate, error)
}

// Engine finds the best remote lyrics entry for a track under a policy.
type Engine struct {
	source Source
}

// NewEngine creates an engine on top of the given source.
func NewEngine(source Source) *Engine {
	return &Engine{source: source}
}

// FindBestMatch runs the staged search for one track. The policy must have
// been validated. Errors are remote failures; absence of a match is a
// NoMatch verdict, not an error.
func (e *Engine) FindBestMatch(ctx context.Context, track models.Track, policy Policy) (Result, error) {
	if policy.UpToDate(track) {
		return Result{Verdict: AlreadyUpToDate}, nil
	}

	var (
		candidate *lrclib.Candidate
		stageName string
	)
	for _, s := range e.stagesFor(track, policy) {
		c, err := s.run(ctx)
		if err != nil {
			return Result{}, err
		}
		if c != nil {
			candidate = c
			stageName = s.name
			break
		}
	}

	if candidate == nil {
		return Result{Verdict: NoMatch}, nil
	}

	return selectLyrics(track, policy, candidate, stageName), nil
}

// stagesFor builds the ordered strategy list for one track. The fallback
// stages need a known track duration to validate candidates against, and the
// fuzzy stage only ever runs after a fruitless duration search.
func (e *Engine) stagesFor(track models.Track, policy Policy) []stage {
	stages := []stage{{
		name: StageExact,
		run: func(ctx context.Context) (*lrclib.Candidate, error) {
			return e.exact(ctx, track)
		},
	}}

	if policy.DurationTolerance > 0 && track.HasDuration() {
		stages = append(stages, stage{
			name: StageDuration,
			run: func(ctx context.Context) (*lrclib.Candidate, error) {
				return e.byDuration(ctx, track, policy.DurationTolerance)
			},
		})

		if policy.FuzzySearch {
			stages = append(stages, stage{
				name: StageFuzzy,
				run: func(ctx context.Context) (*lrclib.Candidate, error) {
					return e.fuzzy(ctx, track, policy.DurationTolerance)
				},
			})
		}
	}

	return stages
}

// exact looks the track up by its full signature. A hit must agree with the
// track's duration within exactEpsilon when both sides report one.
func (e *Engine) exact(ctx context.Context, track models.Track) (*lrclib.Candidate, error) {
	candidate, err := e.source.Get(ctx, track.Title, track.ArtistName, track.AlbumName, track.Duration)
	if err != nil {
		if errors.Is(err, lrclib.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}

	if remote, ok := candidate.DurationSeconds(); ok && track.HasDuration() {
		if math.Abs(remote-track.Duration) > exactEpsilon {
			return nil, nil
		}
	}

	return candidate, nil
}

// byDuration searches by title and artist, keeps candidates whose reported
// duration falls inside the tolerance window and picks the closest one.
// Ties keep the order the service returned.
func (e *Engine) byDuration(ctx context.Context, track models.Track, tolerance float64) (*lrclib.Candidate, error) {
	candidates, err := e.source.Search(ctx, lrclib.SearchParams{Track: track.Title, Artist: track.ArtistName})
	if err != nil {
		return nil, err
	}

	var best *lrclib.Candidate
	bestDelta := math.MaxFloat64

	for i := range candidates {
		c := &candidates[i]
		remote, ok := c.DurationSeconds()
		if !ok {
			continue
		}

		delta := math.Abs(remote - track.Duration)
		if delta > tolerance {
			continue
		}
		if delta < bestDelta {
			best = c
			bestDelta = delta
		}
	}

	return best, nil
}

// fuzzy runs a free-text search and validates candidates by token-set
// similarity against the track's title and artist. The duration window still
// applies when both durations are known. Highest similarity wins; ties go to
// the closest duration, then to the order the service returned.
func (e *Engine) fuzzy(ctx context.Context, track models.Track, tolerance float64) (*lrclib.Candidate, error) {
	query := strings.TrimSpace(track.Title + " " + track.ArtistName)
	candidates, err := e.source.Search(ctx, lrclib.SearchParams{Query: query})
	if err != nil {
		return nil, err
	}

	want := track.Title + " " + track.ArtistName

	var best *lrclib.Candidate
	bestScore := 0.0
	bestDelta := math.MaxFloat64

	for i := range candidates {
		c := &candidates[i]

		delta := math.MaxFloat64
		if remote, ok := c.DurationSeconds(); ok && track.HasDuration() {
			delta = math.Abs(remote - track.Duration)
			if delta > tolerance {
				continue
			}
		}

		score := Jaccard(c.Title()+" "+c.ArtistName, want)
		if score < fuzzyThreshold {
			continue
		}

		if score > bestScore || (score == bestScore && delta < bestDelta) {
			best = c
			bestScore = score
			bestDelta = delta
		}
	}

	return best, nil
}

// selectLyrics applies the lyrics type preference to an accepted candidate
// and catches the case where the result adds nothing over what the track
// already holds.
func selectLyrics(track models.Track, policy Policy, candidate *lrclib.Candidate, stageName string) Result {
	found := func(lyrics models.Lyrics) Result {
		return Result{Verdict: Found, Lyrics: lyrics, Candidate: candidate, Stage: stageName}
	}

	if candidate.Instrumental {
		return found(models.Lyrics{Instrumental: true})
	}

	switch policy.Preference {
	case PreferSyncedOnly:
		if !candidate.HasSynced() {
			return Result{Verdict: NoMatch}
		}
		return found(models.Lyrics{Synced: candidate.SyncedLyrics})

	case PreferPlainOnly:
		switch {
		case candidate.HasPlain():
			return found(models.Lyrics{Plain: candidate.PlainLyrics})
		case candidate.HasSynced():
			return found(models.Lyrics{Plain: StripTimestamps(candidate.SyncedLyrics)})
		default:
			return Result{Verdict: NoMatch}
		}

	default:
		if !candidate.HasSynced() {
			if !candidate.HasPlain() {
				return Result{Verdict: NoMatch}
			}
			if track.State == models.StatePlain {
				return Result{Verdict: AlreadyUpToDate}
			}
		}
		return found(models.Lyrics{Plain: candidate.PlainLyrics, Synced: candidate.SyncedLyrics})
	}
}
