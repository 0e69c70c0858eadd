package lrclib

import (
	"errors"
	"fmt"
	"strings"
)

// Typed errors for remote failures. Wrapped with request context where useful;
// test with [errors.Is].
var (
	// ErrNotFound indicates the service holds no entry for the requested track.
	ErrNotFound = errors.New("lyrics not found")

	// ErrRateLimited indicates the service responded 429 and the caller should back off.
	ErrRateLimited = errors.New("rate limited by lyrics service")

	// ErrUnauthorized indicates a write was rejected because the publish token
	// was missing, stale, or incorrect.
	ErrUnauthorized = errors.New("publish token rejected")

	// ErrNetwork indicates the request failed before an HTTP response arrived.
	ErrNetwork = errors.New("network error")
)

// ServerError is returned for non-2xx statuses that don't map to a sentinel
// error, carrying whatever the service put in its JSON error body.
type ServerError struct {
	Code    int
	Name    string
	Message string
}

func (e *ServerError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("lyrics service error: %s (status %d)", e.Message, e.Code)
	}
	return fmt.Sprintf("lyrics service error: status %d", e.Code)
}

// apiError mirrors the service's JSON error body.
type apiError struct {
	StatusCode int    `json:"statusCode"`
	Name       string `json:"error"`
	Message    string `json:"message"`
}

// Candidate represents one lyrics entry as the service returns it.
// Duration is a pointer because the service may omit it.
type Candidate struct {
	ID           int64    `json:"id"`
	Name         string   `json:"name"`
	TrackName    string   `json:"trackName"`
	ArtistName   string   `json:"artistName"`
	AlbumName    string   `json:"albumName"`
	Duration     *float64 `json:"duration"`
	Instrumental bool     `json:"instrumental"`
	PlainLyrics  string   `json:"plainLyrics"`
	SyncedLyrics string   `json:"syncedLyrics"`
}

// DurationSeconds reports the candidate's duration and whether the service
// included one.
func (c *Candidate) DurationSeconds() (float64, bool) {
	if c.Duration == nil {
		return 0, false
	}
	return *c.Duration, true
}

// HasSynced reports whether the candidate carries non-blank synced lyrics.
func (c *Candidate) HasSynced() bool {
	return strings.TrimSpace(c.SyncedLyrics) != ""
}

// HasPlain reports whether the candidate carries non-blank plain lyrics.
func (c *Candidate) HasPlain() bool {
	return strings.TrimSpace(c.PlainLyrics) != ""
}

// Title returns the track name, preferring the trackName field over its alias.
func (c *Candidate) Title() string {
	if c.TrackName != "" {
		return c.TrackName
	}
	return c.Name
}

// SearchParams selects which query form a search uses. Track/Artist/Album map
// to the field-scoped parameters; Query maps to the free-text parameter.
// Empty fields are omitted from the request.
type SearchParams struct {
	Track  string
	Artist string
	Album  string
	Query  string
}

// Challenge is a proof-of-work puzzle handed out by the service. A solution
// nonce authorizes exactly one write via Token.
type Challenge struct {
	Prefix string `json:"prefix"`
	Target string `json:"target"`
}

// Token builds the publish token header value for a solved challenge.
func (ch *Challenge) Token(nonce string) string {
	return ch.Prefix + ":" + nonce
}

// PublishRequest is the body of a publish call.
type PublishRequest struct {
	TrackName    string  `json:"trackName"`
	ArtistName   string  `json:"artistName"`
	AlbumName    string  `json:"albumName"`
	Duration     float64 `json:"duration"`
	PlainLyrics  string  `json:"plainLyrics"`
	SyncedLyrics string  `json:"syncedLyrics"`
}

// flagRequest is the body of a flag call.
type flagRequest struct {
	TrackID int64  `json:"trackId"`
	Reason  string `json:"reason"`
}
