package match

import (
	"regexp"
	"strings"
)

// timestampToken matches a single [mm:ss.xx] tag. Minutes may run past 99
// and the fractional part is optional; the pattern can never span lines.
var timestampToken = regexp.MustCompile(`\[\d{1,3}:\d{2}(?:[.:]\d{1,3})?\]`)

// StripTimestamps converts synced lyrics to plain text. Every timestamp
// token is removed wherever it appears in a line, leading or mid-line, and
// the output has exactly as many lines as the input.
func StripTimestamps(synced string) string {
	lines := strings.Split(synced, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(timestampToken.ReplaceAllString(line, ""))
	}
	return strings.Join(lines, "\n")
}
