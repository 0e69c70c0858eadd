// package formatter renders download reports and library listings to portable formats (CSV, Markdown, plain text, JSON)
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/MichelW6667/lrcget/internal/downloader"
	"github.com/MichelW6667/lrcget/internal/models"
	"github.com/MichelW6667/lrcget/internal/shared"
)

// Report is one download run's outcome, ready for rendering.
type Report struct {
	RunID    string                `json:"run_id"`
	State    string                `json:"state"`
	Total    int                   `json:"total"`
	Counters downloader.Counters   `json:"counters"`
	Entries  []downloader.LogEntry `json:"entries"`
}

// NewReport assembles a report from a downloader snapshot and its completion
// log.
func NewReport(snap downloader.Snapshot, entries []downloader.LogEntry) Report {
	return Report{
		RunID:    snap.RunID,
		State:    snap.State.String(),
		Total:    snap.Total,
		Counters: snap.Counters,
		Entries:  entries,
	}
}

// ReportToCSV converts a download report to CSV with columns: Track ID, Title, Artist, Status, Message, Completed At
func ReportToCSV(report Report) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"Track ID", "Title", "Artist", "Status", "Message", "Completed At"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, entry := range report.Entries {
		record := []string{
			strconv.FormatInt(entry.TrackID, 10),
			entry.Title,
			entry.ArtistName,
			string(entry.Status),
			entry.Message,
			entry.At.Format(time.RFC3339),
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ReportToMarkdown converts a download report to Markdown with a summary
// block and the completion-ordered outcome list.
func ReportToMarkdown(report Report) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("# Download Report %s\n\n", report.RunID))
	buf.WriteString(fmt.Sprintf("**State**: %s\n", report.State))
	buf.WriteString(fmt.Sprintf("**Tracks**: %d\n", report.Total))
	buf.WriteString(fmt.Sprintf("**Downloaded**: %d\n", report.Counters.Success))
	buf.WriteString(fmt.Sprintf("**Skipped**: %d\n", report.Counters.Skipped))
	buf.WriteString(fmt.Sprintf("**Not found**: %d\n", report.Counters.NotFound))
	buf.WriteString(fmt.Sprintf("**Failed**: %d\n\n", report.Counters.Failed))

	buf.WriteString("## Outcomes\n\n")
	for i, entry := range report.Entries {
		messagePart := ""
		if entry.Message != "" {
			messagePart = fmt.Sprintf(" (%s)", entry.Message)
		}
		buf.WriteString(fmt.Sprintf("%d. %s - %s [%s]%s\n", i+1, entry.ArtistName, entry.Title, entry.Status, messagePart))
	}

	return buf.Bytes(), nil
}

// ReportToText converts a download report to plain text.
func ReportToText(report Report) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("Download report: %s\n", report.RunID))
	buf.WriteString(fmt.Sprintf("State: %s\n", report.State))
	buf.WriteString(fmt.Sprintf("Tracks: %d (%d downloaded, %d skipped, %d not found, %d failed)\n\n",
		report.Total,
		report.Counters.Success,
		report.Counters.Skipped,
		report.Counters.NotFound,
		report.Counters.Failed,
	))

	for i, entry := range report.Entries {
		buf.WriteString(fmt.Sprintf("%d. %s - %s: %s\n", i+1, entry.ArtistName, entry.Title, entry.Status))
	}

	return buf.Bytes(), nil
}

// ReportToJSON converts a download report to indented JSON.
func ReportToJSON(report Report) ([]byte, error) {
	return shared.MarshalJSON(report, true)
}

// TracksToCSV converts a library listing to CSV with columns: ID, Title, Artist, Album, Duration, Lyrics, File
func TracksToCSV(tracks []models.Track) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"ID", "Title", "Artist", "Album", "Duration", "Lyrics", "File"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, track := range tracks {
		record := []string{
			strconv.FormatInt(track.ID, 10),
			track.Title,
			track.ArtistName,
			track.AlbumName,
			shared.FormatDuration(track.Duration),
			string(track.State),
			track.FilePath,
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// TracksToMarkdown converts a library listing to Markdown.
func TracksToMarkdown(tracks []models.Track) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString("# Library\n\n")
	buf.WriteString(fmt.Sprintf("**Tracks**: %d\n\n", len(tracks)))

	buf.WriteString("## Tracks\n\n")
	for i, track := range tracks {
		albumPart := ""
		if track.AlbumName != "" {
			albumPart = fmt.Sprintf(" (%s)", track.AlbumName)
		}
		durationPart := ""
		if track.HasDuration() {
			durationPart = fmt.Sprintf(" [%s]", shared.FormatDuration(track.Duration))
		}
		buf.WriteString(fmt.Sprintf("%d. %s - %s%s%s, lyrics: %s\n", i+1, track.ArtistName, track.Title, albumPart, durationPart, track.State))
	}

	return buf.Bytes(), nil
}

// TracksToText converts a library listing to plain text.
func TracksToText(tracks []models.Track) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("Tracks: %d\n\n", len(tracks)))

	for i, track := range tracks {
		buf.WriteString(fmt.Sprintf("%d. %s - %s [%s]\n", i+1, track.ArtistName, track.Title, track.State))
	}

	return buf.Bytes(), nil
}

// TracksToJSON converts a library listing to indented JSON.
func TracksToJSON(tracks []models.Track) ([]byte, error) {
	return shared.MarshalJSON(tracks, true)
}

// WriteReport renders a download report to the format implied by the path's
// extension (.csv, .md, .json, anything else plain text) and writes it.
//
// Defaults to {runID}_report.csv when the path is empty.
func WriteReport(report Report, path string) (string, error) {
	if path == "" {
		path = fmt.Sprintf("%s_report.csv", report.RunID)
	}

	var (
		data []byte
		err  error
	)
	switch normalizeExt(path) {
	case ".csv":
		data, err = ReportToCSV(report)
	case ".md", ".markdown":
		data, err = ReportToMarkdown(report)
	case ".json":
		data, err = ReportToJSON(report)
	default:
		data, err = ReportToText(report)
	}
	if err != nil {
		return "", fmt.Errorf("failed to generate report: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write report file: %w", err)
	}

	return path, nil
}

// WriteTracks renders a library listing to the format implied by the path's
// extension (.csv, .md, .json, anything else plain text) and writes it.
func WriteTracks(tracks []models.Track, path string) (string, error) {
	if path == "" {
		path = "library_tracks.csv"
	}

	var (
		data []byte
		err  error
	)
	switch normalizeExt(path) {
	case ".csv":
		data, err = TracksToCSV(tracks)
	case ".md", ".markdown":
		data, err = TracksToMarkdown(tracks)
	case ".json":
		data, err = TracksToJSON(tracks)
	default:
		data, err = TracksToText(tracks)
	}
	if err != nil {
		return "", fmt.Errorf("failed to generate listing: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write listing file: %w", err)
	}

	return path, nil
}

func normalizeExt(path string) string {
	return strings.ToLower(filepath.Ext(path))
}
