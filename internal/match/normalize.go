package match

import (
	"regexp"
	"strings"
)

// Snippets quoted by the answer model and text extracted from the PDF layer
// disagree on whitespace, punctuation, and casing. Both sides go through the
// same normalization before any comparison.
var (
	// ASCII-only: accented letters are stripped ("café" → "caf"). Snippets
	// and page text pass through the same rule, so matching still agrees;
	// only the stripped characters lose signal.
	nonAlphanumeric = regexp.MustCompile(`[^a-z0-9\s]+`)
	whitespaceRuns  = regexp.MustCompile(`\s+`)
)

// minTermLength is exclusive: tokens this short carry no signal ("to", "of")
// and are dropped before matching.
const minTermLength = 2

// Normalize lowercases text, strips everything that is not a letter, digit,
// or space, and collapses whitespace runs to a single space.
func Normalize(text string) string {
	text = strings.ToLower(text)
	text = nonAlphanumeric.ReplaceAllString(text, "")
	text = whitespaceRuns.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}

// SearchTerms normalizes a snippet and returns its distinct qualifying words
// in first-seen order. Words of length <= 2 are discarded.
func SearchTerms(snippet string) []string {
	normalized := Normalize(snippet)
	if normalized == "" {
		return nil
	}
	seen := map[string]bool{}
	terms := []string{}
	for _, word := range strings.Split(normalized, " ") {
		if len(word) <= minTermLength || seen[word] {
			continue
		}
		seen[word] = true
		terms = append(terms, word)
	}
	return terms
}
