package llm

import (
	"regexp"
	"strings"
)

// (?s) lets a quote span lines; models often wrap long quotes.
var quotePattern = regexp.MustCompile(`(?s)\[\[(.*?)\]\]`)

// normalizeSpace collapses whitespace runs so a quote and its source compare
// equal regardless of line wrapping on either side.
func normalizeSpace(text string) string {
	return strings.Join(strings.Fields(text), " ")
}

// buildAnswer extracts the [[quote]] markers the model used and resolves
// each to the first source whose text contains it. Quotes that resolve to no
// source are dropped: a citation the viewer cannot trace is worse than none.
func buildAnswer(text string, sources []Source) Answer {
	citations := []Citation{}
	seen := map[string]bool{}
	for _, groups := range quotePattern.FindAllStringSubmatch(text, -1) {
		quote := normalizeSpace(strings.TrimSpace(groups[1]))
		if quote == "" || seen[quote] {
			continue
		}
		for _, source := range sources {
			if !strings.Contains(normalizeSpace(source.Text), quote) {
				continue
			}
			seen[quote] = true
			citations = append(citations, Citation{
				DocumentID:   source.DocumentID,
				DocumentName: source.DocumentName,
				PageNumber:   source.PageNumber,
				SectionRef:   source.SectionRef,
				Snippet:      quote,
			})
			break
		}
	}

	confidence := 0.5
	if len(citations) > 0 {
		confidence = 1.0
	}
	return Answer{Text: text, Citations: citations, Confidence: confidence}
}
