package match

import (
	"errors"
	"strings"
)

// Typed failures let the caller decide whether a retry is worthwhile: a
// snippet without qualifying words will never match, while a weak score may
// improve once the page layer finishes rendering.
var (
	ErrNoSearchTerms     = errors.New("match: snippet has no qualifying search terms")
	ErrInsufficientMatch = errors.New("match: no fragment group meets the score threshold")
)

// maxIndexGap is the largest number of fragment indices two hits may be apart
// and still belong to the same group.
const maxIndexGap = 5

// Group is a contiguous run of fragment indices judged to be the best
// location of a snippet, with its match score (distinct terms found).
type Group struct {
	Indices []int
	Score   int
}

// Start returns the first fragment index of the group.
func (g Group) Start() int {
	if len(g.Indices) == 0 {
		return -1
	}
	return g.Indices[0]
}

// Locate finds the contiguous fragment run that best contains the snippet.
// texts holds the raw fragment text of a page in reading order; indices in
// the returned group are positions in that slice. Locate is pure: identical
// inputs always produce the identical group.
func Locate(texts []string, snippet string) (Group, error) {
	terms := SearchTerms(snippet)
	if len(terms) == 0 {
		return Group{}, ErrNoSearchTerms
	}

	// A fragment is a hit when any term occurs inside its normalized text.
	// Containment rather than token equality: PDF extraction often glues
	// words together or splits them apart.
	hits := []int{}
	for i, text := range texts {
		normalized := Normalize(text)
		if normalized == "" {
			continue
		}
		for _, term := range terms {
			if strings.Contains(normalized, term) {
				hits = append(hits, i)
				break
			}
		}
	}
	if len(hits) == 0 {
		return Group{}, ErrInsufficientMatch
	}

	best := Group{Score: -1}
	start := hits[0]
	prev := hits[0]
	for _, hit := range hits[1:] {
		if hit-prev > maxIndexGap {
			if group := scoreRange(texts, terms, start, prev); group.Score > best.Score {
				best = group
			}
			start = hit
		}
		prev = hit
	}
	if group := scoreRange(texts, terms, start, prev); group.Score > best.Score {
		best = group
	}

	// A single stray word is too weak to highlight unless the snippet never
	// had more than one word to offer.
	threshold := 2
	if len(terms) < threshold {
		threshold = len(terms)
	}
	if best.Score < threshold {
		return Group{}, ErrInsufficientMatch
	}
	return best, nil
}

// scoreRange builds the group covering [start, end] inclusive, intermediate
// non-hit fragments included so the run stays contiguous. The raw texts are
// concatenated before normalization so a term split across a fragment
// boundary is still recognized.
func scoreRange(texts []string, terms []string, start, end int) Group {
	var b strings.Builder
	indices := make([]int, 0, end-start+1)
	for i := start; i <= end; i++ {
		indices = append(indices, i)
		b.WriteString(texts[i])
	}
	combined := Normalize(b.String())

	score := 0
	for _, term := range terms {
		if strings.Contains(combined, term) {
			score++
		}
	}
	return Group{Indices: indices, Score: score}
}
