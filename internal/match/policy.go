package match

import (
	"fmt"

	"github.com/MichelW6667/lrcget/internal/models"
	"github.com/MichelW6667/lrcget/internal/shared"
)

// Preference selects which lyrics kinds a run will accept.
type Preference string

const (
	// PreferBoth keeps whatever the accepted candidate provides.
	PreferBoth Preference = "both"
	// PreferSyncedOnly rejects candidates without synced lyrics.
	PreferSyncedOnly Preference = "synced_only"
	// PreferPlainOnly produces plain text, stripping synced lyrics if needed.
	PreferPlainOnly Preference = "plain_only"
)

// Scope selects which tracks a run considers at all, based on what they
// already hold.
type Scope string

const (
	ScopeAll        Scope = "all"
	ScopeSkipSynced Scope = "skip_synced"
	ScopeSkipPlain  Scope = "skip_plain"
)

// Valid reports whether the scope is one of the known values.
func (s Scope) Valid() bool {
	switch s {
	case ScopeAll, ScopeSkipSynced, ScopeSkipPlain:
		return true
	default:
		return false
	}
}

// SkipCause explains why the scope excluded a track before matching.
type SkipCause int

const (
	// SkipNone means the track is in scope and should be matched.
	SkipNone SkipCause = iota
	// SkipUpToDate means the track already holds the kind of lyrics the
	// scope avoids re-fetching.
	SkipUpToDate
	// SkipExcluded means the scope excludes the track outright.
	SkipExcluded
)

// Policy is the per-run matching configuration. Assembled once when a run
// starts and never mutated afterwards.
type Policy struct {
	Preference        Preference
	DurationTolerance float64
	FuzzySearch       bool
	Scope             Scope
}

// DefaultPolicy mirrors the configuration defaults.
func DefaultPolicy() Policy {
	return Policy{
		Preference:        PreferBoth,
		DurationTolerance: 3.0,
		FuzzySearch:       true,
		Scope:             ScopeAll,
	}
}

// Validate checks every field against its allowed range. Called once before
// a run starts; the engine assumes a validated policy.
func (p Policy) Validate() error {
	switch p.Preference {
	case PreferBoth, PreferSyncedOnly, PreferPlainOnly:
	default:
		return fmt.Errorf("%w: unknown lyrics type preference %q", shared.ErrInvalidConfig, string(p.Preference))
	}

	if p.DurationTolerance < 0 || p.DurationTolerance > 5 {
		return fmt.Errorf("%w: duration tolerance %.1f outside [0, 5]", shared.ErrInvalidConfig, p.DurationTolerance)
	}

	if !p.Scope.Valid() {
		return fmt.Errorf("%w: unknown download scope %q", shared.ErrInvalidConfig, string(p.Scope))
	}

	return nil
}

// ScopeSkip reports whether the scope excludes the track before any matching
// happens, and why. Excluded tracks must never reach the engine.
func (p Policy) ScopeSkip(t models.Track) SkipCause {
	switch p.Scope {
	case ScopeSkipSynced:
		switch t.State {
		case models.StateSynced:
			return SkipUpToDate
		case models.StateInstrumental:
			return SkipExcluded
		}
	case ScopeSkipPlain:
		switch t.State {
		case models.StatePlain:
			return SkipUpToDate
		case models.StateInstrumental:
			return SkipExcluded
		}
	}
	return SkipNone
}

// UpToDate reports whether the track already holds what this policy would
// produce, making a remote query pointless.
func (p Policy) UpToDate(t models.Track) bool {
	if p.Preference == PreferPlainOnly {
		return t.State == models.StatePlain
	}
	return t.State == models.StateSynced
}
