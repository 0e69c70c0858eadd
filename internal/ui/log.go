package ui

import (
	"fmt"

	"github.com/MichelW6667/lrcget/internal/downloader"
)

// logTail caps how many recent outcomes stay on screen.
const logTail = 8

func statusGlyph(status downloader.Status) string {
	switch status {
	case downloader.StatusSuccess:
		return styles.ok.Render("✓")
	case downloader.StatusSkipped:
		return styles.help.Render("•")
	case downloader.StatusNotFound:
		return styles.warn.Render("?")
	case downloader.StatusFailure:
		return styles.err.Render("✗")
	default:
		return " "
	}
}

// entryLine renders one outcome as a single log row.
func entryLine(entry downloader.LogEntry) string {
	line := fmt.Sprintf("%s %s - %s", statusGlyph(entry.Status), entry.ArtistName, entry.Title)
	if entry.Message != "" {
		line = fmt.Sprintf("%s %s", line, styles.help.Render("("+entry.Message+")"))
	}
	return line
}

// appendEntry pushes an outcome onto the tail, dropping the oldest past the cap.
func appendEntry(tail []downloader.LogEntry, entry downloader.LogEntry) []downloader.LogEntry {
	tail = append(tail, entry)
	if len(tail) > logTail {
		tail = tail[len(tail)-logTail:]
	}
	return tail
}
