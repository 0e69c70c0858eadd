package library

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/MichelW6667/lrcget/internal/models"
	"github.com/MichelW6667/lrcget/internal/shared"
)

// manifestTrack is one entry of an import manifest.
type manifestTrack struct {
	Title      string  `json:"title"`
	ArtistName string  `json:"artist_name"`
	AlbumName  string  `json:"album_name"`
	Duration   float64 `json:"duration"`
	FilePath   string  `json:"file_path"`
}

// ImportResult summarizes a manifest import.
type ImportResult struct {
	Total      int `json:"total"`
	Imported   int `json:"imported"`
	Duplicates int `json:"duplicates"`
	Invalid    int `json:"invalid"`
}

// ImportManifest loads a JSON track manifest into the catalog. The manifest
// is a flat array of track entries; title and artist are required per entry.
// Entries that normalize to an already-known title/artist pair are counted
// as duplicates and not inserted, both against the catalog and within the
// manifest itself.
func (s *Store) ImportManifest(ctx context.Context, path string) (ImportResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return ImportResult{}, fmt.Errorf("failed to read manifest: %w", err)
	}

	var entries []manifestTrack
	if err := json.Unmarshal(data, &entries); err != nil {
		return ImportResult{}, fmt.Errorf("failed to parse manifest: %w", err)
	}

	existing, err := s.List(ctx, false)
	if err != nil {
		return ImportResult{}, err
	}

	seen := make(map[string]bool, len(existing))
	for _, track := range existing {
		seen[shared.NormalizeTrackKey(track.Title, track.ArtistName)] = true
	}

	result := ImportResult{Total: len(entries)}
	for _, entry := range entries {
		if entry.Title == "" || entry.ArtistName == "" {
			result.Invalid++
			continue
		}

		key := shared.NormalizeTrackKey(entry.Title, entry.ArtistName)
		if seen[key] {
			result.Duplicates++
			continue
		}
		seen[key] = true

		_, err := s.Insert(ctx, models.Track{
			Title:      entry.Title,
			ArtistName: entry.ArtistName,
			AlbumName:  entry.AlbumName,
			Duration:   entry.Duration,
			FilePath:   entry.FilePath,
		})
		if err != nil {
			return result, err
		}
		result.Imported++
	}

	return result, nil
}
