package match

import (
	"strings"
	"unicode"
)

// tokens lowercases s, maps every non-alphanumeric rune to a space and
// splits the result into words.
func tokens(s string) []string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		} else {
			b.WriteRune(' ')
		}
	}
	return strings.Fields(b.String())
}

// Jaccard computes set similarity over the word tokens of a and b:
// |A ∩ B| / |A ∪ B|. Two empty token sets count as identical; one empty set
// shares nothing with a non-empty one.
func Jaccard(a, b string) float64 {
	setA := make(map[string]struct{})
	for _, tok := range tokens(a) {
		setA[tok] = struct{}{}
	}
	setB := make(map[string]struct{})
	for _, tok := range tokens(b) {
		setB[tok] = struct{}{}
	}

	if len(setA) == 0 && len(setB) == 0 {
		return 1
	}
	if len(setA) == 0 || len(setB) == 0 {
		return 0
	}

	intersection := 0
	for tok := range setA {
		if _, ok := setB[tok]; ok {
			intersection++
		}
	}

	union := len(setA) + len(setB) - intersection
	return float64(intersection) / float64(union)
}
