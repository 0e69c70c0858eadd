package library

import (
	"context"

	"github.com/MichelW6667/lrcget/internal/match"
	"github.com/MichelW6667/lrcget/internal/models"
)

// Library is the catalog surface the download pipeline consumes. [Store] is
// the production implementation.
type Library interface {
	// TracksForDownload returns the tracks a run should consider, in stable
	// order. Implementations must not drop tracks the scope will skip; the
	// pipeline accounts for those visibly.
	TracksForDownload(ctx context.Context, scope match.Scope) ([]models.Track, error)

	// SaveLyrics persists a matched payload for one track.
	SaveLyrics(ctx context.Context, trackID int64, lyrics models.Lyrics) error
}
