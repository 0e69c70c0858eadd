// package models defines the data model for the lyrics download pipeline
package models

// InstrumentalSentinel is the synced-lyrics marker stored for instrumental
// tracks in place of timestamped lines.
const InstrumentalSentinel = "[au: instrumental]"

// LyricsState describes which kind of lyrics a track currently holds.
type LyricsState string

const (
	StateNone         LyricsState = "none"
	StatePlain        LyricsState = "plain"
	StateSynced       LyricsState = "synced"
	StateInstrumental LyricsState = "instrumental"
)

// Track is an immutable snapshot of one local track's metadata.
//
// Owned by the library store; the download pipeline receives a copy per run
// and never mutates it.
type Track struct {
	ID         int64       `json:"id"`
	Title      string      `json:"title"`
	ArtistName string      `json:"artist_name"`
	AlbumName  string      `json:"album_name"`
	Duration   float64     `json:"duration"` // Duration in seconds; 0 when unknown
	FilePath   string      `json:"file_path"` // Audio file path for sidecar lyrics, empty when absent
	State      LyricsState `json:"lyrics_state"`
}

// HasDuration reports whether the track carries a usable duration.
func (t Track) HasDuration() bool {
	return t.Duration > 0
}

// Lyrics is the payload produced by a successful match and persisted by the
// library store. At most one of the three shapes is meaningful: instrumental
// marker, synced (optionally with plain), or plain only.
type Lyrics struct {
	Plain        string `json:"plain"`
	Synced       string `json:"synced"`
	Instrumental bool   `json:"instrumental"`
}

// Kind derives the LyricsState that persisting this payload yields.
func (l Lyrics) Kind() LyricsState {
	switch {
	case l.Instrumental:
		return StateInstrumental
	case l.Synced != "":
		return StateSynced
	case l.Plain != "":
		return StatePlain
	default:
		return StateNone
	}
}

// Empty reports whether the payload carries nothing to persist.
func (l Lyrics) Empty() bool {
	return l.Kind() == StateNone
}
