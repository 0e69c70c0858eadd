package library

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/MichelW6667/lrcget/internal/match"
	"github.com/MichelW6667/lrcget/internal/models"
	"github.com/MichelW6667/lrcget/internal/shared"
)

const trackColumns = `id, title, artist_name, album_name, duration, file_path, lyrics_state`

// Store keeps the track catalog in SQLite and mirrors saved lyrics into
// sidecar files next to each track's audio file.
type Store struct {
	db *sql.DB
}

// NewStore creates a Store over an open database. The caller owns the
// connection and runs migrations before first use.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// Insert adds one track and returns its assigned ID.
func (s *Store) Insert(ctx context.Context, track models.Track) (int64, error) {
	if track.Title == "" || track.ArtistName == "" {
		return 0, fmt.Errorf("%w: title and artist are required", shared.ErrInvalidInput)
	}

	state := track.State
	if state == "" {
		state = models.StateNone
	}

	filePath := sql.NullString{String: track.FilePath, Valid: track.FilePath != ""}

	query := `
		INSERT INTO tracks (title, title_lower, artist_name, album_name, duration, file_path, lyrics_state)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	result, err := s.db.ExecContext(ctx, query,
		track.Title,
		strings.ToLower(track.Title),
		track.ArtistName,
		track.AlbumName,
		track.Duration,
		filePath,
		string(state),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert track: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get inserted id: %w", err)
	}

	return id, nil
}

// Get retrieves one track by ID.
func (s *Store) Get(ctx context.Context, id int64) (models.Track, error) {
	query := `SELECT ` + trackColumns + ` FROM tracks WHERE id = ?`

	track, err := scanTrack(s.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Track{}, shared.ErrTrackNotFound
	}
	if err != nil {
		return models.Track{}, fmt.Errorf("failed to load track: %w", err)
	}

	return track, nil
}

// List retrieves the catalog ordered by artist, album and title. With
// onlyMissing set it returns just the tracks that hold no lyrics yet.
func (s *Store) List(ctx context.Context, onlyMissing bool) ([]models.Track, error) {
	query := `SELECT ` + trackColumns + ` FROM tracks`
	args := []any{}

	if onlyMissing {
		query += ` WHERE lyrics_state = ?`
		args = append(args, string(models.StateNone))
	}

	query += ` ORDER BY artist_name COLLATE NOCASE, album_name COLLATE NOCASE, title COLLATE NOCASE`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query tracks: %w", err)
	}
	defer rows.Close()

	var tracks []models.Track
	for rows.Next() {
		track, err := scanTrack(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan track: %w", err)
		}
		tracks = append(tracks, track)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return tracks, nil
}

// TracksForDownload returns the full ordered catalog for a download run.
// Tracks the scope will skip are included on purpose: the pipeline records a
// visible skip outcome for each instead of dropping them silently here.
func (s *Store) TracksForDownload(ctx context.Context, scope match.Scope) ([]models.Track, error) {
	if !scope.Valid() {
		return nil, fmt.Errorf("%w: unknown download scope %q", shared.ErrInvalidConfig, string(scope))
	}
	return s.List(ctx, false)
}

// SaveLyrics stores a matched payload for one track and refreshes its
// sidecar files when the track has an audio path.
func (s *Store) SaveLyrics(ctx context.Context, trackID int64, lyrics models.Lyrics) error {
	state := lyrics.Kind()
	if state == models.StateNone {
		return fmt.Errorf("%w: empty lyrics payload", shared.ErrInvalidInput)
	}

	var filePath sql.NullString
	err := s.db.QueryRowContext(ctx, `SELECT file_path FROM tracks WHERE id = ?`, trackID).Scan(&filePath)
	if errors.Is(err, sql.ErrNoRows) {
		return shared.ErrTrackNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to load track: %w", err)
	}

	plain, synced := materialize(lyrics)

	query := `
		UPDATE tracks
		SET plain_lyrics = ?, synced_lyrics = ?, lyrics_state = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`

	if _, err := s.db.ExecContext(ctx, query, plain, synced, string(state), trackID); err != nil {
		return fmt.Errorf("failed to store lyrics: %w", err)
	}

	if filePath.Valid && filePath.String != "" {
		if err := writeSidecars(filePath.String, plain, synced); err != nil {
			return fmt.Errorf("failed to write lyric files: %w", err)
		}
	}

	return nil
}

// StoredLyrics loads one track together with the lyric bodies it holds.
func (s *Store) StoredLyrics(ctx context.Context, id int64) (models.Track, models.Lyrics, error) {
	query := `
		SELECT id, title, artist_name, album_name, duration, file_path, lyrics_state, plain_lyrics, synced_lyrics
		FROM tracks
		WHERE id = ?
	`

	var (
		track    models.Track
		filePath sql.NullString
		state    string
		lyrics   models.Lyrics
	)

	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&track.ID,
		&track.Title,
		&track.ArtistName,
		&track.AlbumName,
		&track.Duration,
		&filePath,
		&state,
		&lyrics.Plain,
		&lyrics.Synced,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Track{}, models.Lyrics{}, shared.ErrTrackNotFound
	}
	if err != nil {
		return models.Track{}, models.Lyrics{}, fmt.Errorf("failed to load track: %w", err)
	}

	if filePath.Valid {
		track.FilePath = filePath.String
	}
	track.State = models.LyricsState(state)
	lyrics.Instrumental = track.State == models.StateInstrumental

	if track.State == models.StateNone {
		return track, models.Lyrics{}, shared.ErrNoStoredLyrics
	}

	return track, lyrics, nil
}

// Stats aggregates the catalog by lyric state.
type Stats struct {
	Total        int `json:"total"`
	Synced       int `json:"synced"`
	Plain        int `json:"plain"`
	Instrumental int `json:"instrumental"`
	Missing      int `json:"missing"`
}

// Stats counts tracks per lyric state.
func (s *Store) Stats(ctx context.Context) (Stats, error) {
	query := `SELECT lyrics_state, COUNT(*) FROM tracks GROUP BY lyrics_state`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return Stats{}, fmt.Errorf("failed to query stats: %w", err)
	}
	defer rows.Close()

	var stats Stats
	for rows.Next() {
		var (
			state string
			count int
		)
		if err := rows.Scan(&state, &count); err != nil {
			return Stats{}, fmt.Errorf("failed to scan stats: %w", err)
		}

		stats.Total += count
		switch models.LyricsState(state) {
		case models.StateSynced:
			stats.Synced = count
		case models.StatePlain:
			stats.Plain = count
		case models.StateInstrumental:
			stats.Instrumental = count
		default:
			stats.Missing += count
		}
	}

	if err := rows.Err(); err != nil {
		return Stats{}, fmt.Errorf("row iteration error: %w", err)
	}

	return stats, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTrack(row rowScanner) (models.Track, error) {
	var (
		track    models.Track
		filePath sql.NullString
		state    string
	)

	err := row.Scan(
		&track.ID,
		&track.Title,
		&track.ArtistName,
		&track.AlbumName,
		&track.Duration,
		&filePath,
		&state,
	)
	if err != nil {
		return models.Track{}, err
	}

	if filePath.Valid {
		track.FilePath = filePath.String
	}
	track.State = models.LyricsState(state)

	return track, nil
}

// materialize flattens a payload into the two stored bodies. Instrumental
// tracks store the sentinel marker as their synced side.
func materialize(lyrics models.Lyrics) (plain, synced string) {
	if lyrics.Instrumental {
		return "", models.InstrumentalSentinel
	}
	return lyrics.Plain, lyrics.Synced
}

// writeSidecars mirrors stored lyrics next to the audio file: plain text in
// .txt, synced text in .lrc. An empty side removes its file.
func writeSidecars(filePath, plain, synced string) error {
	base := strings.TrimSuffix(filePath, filepath.Ext(filePath))

	if err := writeOrRemove(base+".txt", plain); err != nil {
		return err
	}
	return writeOrRemove(base+".lrc", synced)
}

func writeOrRemove(path, content string) error {
	if content == "" {
		err := os.Remove(path)
		if err != nil && !os.IsNotExist(err) {
			return err
		}
		return nil
	}
	return os.WriteFile(path, []byte(content), 0644)
}
