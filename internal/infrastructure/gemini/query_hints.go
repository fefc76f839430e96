package gemini

import (
	"regexp"
	"strconv"
	"strings"
)

// QueryHints are facts pulled out of the shopper's free-text query so the
// prompt can state them explicitly next to the literal query.
type QueryHints struct {
	// PartySize is the number of people the shopper is buying for, 0 if unstated
	PartySize int
	// ReferenceBrand is a brand the shopper wants something similar to
	ReferenceBrand string
}

// Compiled regex patterns for query interpretation
var (
	// Matches "for 30 people", "feeds 8", "serving about 12 guests"
	partySizePattern = regexp.MustCompile(`(?i)\b(?:for|feeds?|feeding|serves?|serving)\s+(?:about\s+|around\s+|roughly\s+|approximately\s+)?(\d{1,4})\s+(?:people|persons|guests|kids|children|adults|friends|servings|portions)\b`)

	// Matches "party of 20", "group of 6", "crowd of 50"
	groupSizePattern = regexp.MustCompile(`(?i)\b(?:party|group|crowd|team|family)\s+of\s+(\d{1,4})\b`)

	// Matches "like Minute Maid", "similar to Kind Bars": the keyword is
	// case-insensitive, the brand is a run of capitalized words.
	referenceBrandPattern = regexp.MustCompile(`\b(?i:something\s+like|similar\s+to|comparable\s+to|like)\s+((?:[A-Z0-9][\w'&.\-]*)(?:\s+[A-Z0-9][\w'&.\-]*)*)`)

	// Multiple spaces cleanup
	multiSpacePattern = regexp.MustCompile(`\s+`)
)

// Words before "like" that turn it into wanting rather than similarity
var wantingWords = map[string]bool{
	"would": true, "i": true, "we": true, "they": true, "you": true, "really": true,
}

// NormalizeQuery trims the query and collapses internal whitespace
func NormalizeQuery(query string) string {
	return strings.TrimSpace(multiSpacePattern.ReplaceAllString(query, " "))
}

// InterpretQuery extracts quantity and brand-similarity hints from a query
func InterpretQuery(query string) QueryHints {
	q := NormalizeQuery(query)
	return QueryHints{
		PartySize:      extractPartySize(q),
		ReferenceBrand: extractReferenceBrand(q),
	}
}

func extractPartySize(q string) int {
	for _, pattern := range []*regexp.Regexp{partySizePattern, groupSizePattern} {
		m := pattern.FindStringSubmatch(q)
		if m == nil {
			continue
		}
		n, err := strconv.Atoi(m[1])
		if err == nil && n > 1 {
			return n
		}
	}
	return 0
}

func extractReferenceBrand(q string) string {
	for _, loc := range referenceBrandPattern.FindAllStringSubmatchIndex(q, -1) {
		if isWantingPhrase(q[:loc[0]]) {
			continue
		}
		brand := strings.TrimRight(q[loc[2]:loc[3]], ".,;:!?-")
		if brand != "" {
			return brand
		}
	}
	return ""
}

// isWantingPhrase reports whether the text before a "like" match reads as
// "I would like" rather than "something like".
func isWantingPhrase(before string) bool {
	words := strings.Fields(strings.ToLower(before))
	if len(words) == 0 {
		return false
	}
	last := words[len(words)-1]
	return wantingWords[last] || strings.HasSuffix(last, "'d") || strings.HasSuffix(last, "’d")
}
