package usecase

import (
	"regexp"
	"strings"

	"github.com/ix-ath/shelf-sense/internal/domain"
)

var punctuationRegex = regexp.MustCompile(`[^\w\s]`)

// tagStopWords are dropped before comparing tags
var tagStopWords = map[string]bool{
	"a": true, "an": true, "the": true, "and": true, "or": true,
	"of": true, "for": true, "with": true, "diet": true, "only": true,
}

const (
	defaultFuzzyEditDistance = 2
	minFuzzyKeyLength        = 5
	shortKeyLength           = 8 // keys shorter than this tolerate one edit
	minTokenOverlap          = 0.6
)

// TagMatcherConfig holds configuration for the tag matcher
type TagMatcherConfig struct {
	Catalog           []domain.TagCategory
	FuzzyEditDistance int
}

type catalogEntry struct {
	tag    string
	key    string
	tokens []string
}

// TagMatcher resolves free-text dietary tags to their catalog spelling so
// "gluten free", "GLUTEN-FREE" and "glutenfree" all toggle the same tag.
type TagMatcher struct {
	entries           []catalogEntry
	fuzzyEditDistance int
}

// NewTagMatcher creates a matcher over the configured catalog, or the
// built-in one when none is given
func NewTagMatcher(config TagMatcherConfig) *TagMatcher {
	catalog := config.Catalog
	if catalog == nil {
		catalog = domain.TagCatalog
	}
	distance := config.FuzzyEditDistance
	if distance <= 0 {
		distance = defaultFuzzyEditDistance
	}

	m := &TagMatcher{fuzzyEditDistance: distance}
	for _, category := range catalog {
		for _, tag := range category.Tags {
			tokens := tokenize(tag)
			m.entries = append(m.entries, catalogEntry{
				tag:    tag,
				key:    strings.Join(tokens, ""),
				tokens: tokens,
			})
		}
	}
	return m
}

// Resolve returns the catalog tag input refers to. Input that matches no
// catalog tag is returned trimmed with ok false; custom tags are allowed.
func (m *TagMatcher) Resolve(input string) (tag string, ok bool) {
	trimmed := strings.TrimSpace(input)
	tokens := tokenize(trimmed)
	if len(tokens) == 0 {
		return trimmed, false
	}
	key := strings.Join(tokens, "")

	for _, e := range m.entries {
		if e.key == key {
			return e.tag, true
		}
	}

	// Typos: closest key within the edit distance, first in catalog order on ties
	allowed := m.fuzzyEditDistance
	if len(key) < shortKeyLength {
		allowed = min(allowed, 1)
	}
	best, bestDistance := -1, allowed+1
	if len(key) >= minFuzzyKeyLength {
		for i, e := range m.entries {
			if len(e.key) < minFuzzyKeyLength || abs(len(e.key)-len(key)) > allowed {
				continue
			}
			if d := levenshteinDistance(key, e.key); d < bestDistance {
				best, bestDistance = i, d
			}
		}
	}
	if best >= 0 {
		return m.entries[best].tag, true
	}

	// Reordered or partially spelled words: token overlap
	bestScore := 0.0
	for i, e := range m.entries {
		if score := tokenOverlap(tokens, e.tokens); score > bestScore {
			best, bestScore = i, score
		}
	}
	if best >= 0 && bestScore >= minTokenOverlap {
		return m.entries[best].tag, true
	}

	return trimmed, false
}

// tokenize splits a string into lowercase tokens without punctuation or stop words
func tokenize(s string) []string {
	cleaned := punctuationRegex.ReplaceAllString(strings.ToLower(s), " ")
	cleaned = strings.ReplaceAll(cleaned, "_", " ")

	var tokens []string
	for _, word := range strings.Fields(cleaned) {
		if tagStopWords[word] {
			continue
		}
		tokens = append(tokens, word)
	}
	return tokens
}

// tokenOverlap is the Jaccard similarity of two token sets
func tokenOverlap(a, b []string) float64 {
	set := make(map[string]bool, len(a))
	for _, t := range a {
		set[t] = true
	}
	union := len(set)
	shared := 0
	seen := make(map[string]bool, len(b))
	for _, t := range b {
		if seen[t] {
			continue
		}
		seen[t] = true
		if set[t] {
			shared++
		} else {
			union++
		}
	}
	if union == 0 {
		return 0
	}
	return float64(shared) / float64(union)
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

// levenshteinDistance calculates the edit distance between two strings
func levenshteinDistance(s1, s2 string) int {
	r1 := []rune(s1)
	r2 := []rune(s2)
	if len(r1) == 0 {
		return len(r2)
	}
	if len(r2) == 0 {
		return len(r1)
	}

	// two rows instead of the full matrix
	prev := make([]int, len(r2)+1)
	curr := make([]int, len(r2)+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(r1); i++ {
		curr[0] = i
		for j := 1; j <= len(r2); j++ {
			cost := 0
			if r1[i-1] != r2[j-1] {
				cost = 1
			}
			curr[j] = min(
				prev[j]+1,      // deletion
				curr[j-1]+1,    // insertion
				prev[j-1]+cost, // substitution
			)
		}
		prev, curr = curr, prev
	}

	return prev[len(r2)]
}
