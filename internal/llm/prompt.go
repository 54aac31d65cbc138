package llm

import (
	"fmt"
	"strings"
)

const answerSystemPrompt = "You are a meticulous legal document analysis assistant who compares information across multiple contracts.\n" +
	"Key requirements:\n" +
	"- Always analyze ALL provided documents\n" +
	"- Clearly state which document each quote comes from\n" +
	"- If information is only found in some documents, explicitly mention this\n" +
	"- Format quotes as: In [Document Name], [[exact quote]]"

func clipText(text string, limit int) string {
	text = strings.TrimSpace(text)
	if limit <= 0 || len(text) <= limit {
		return text
	}
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	return string(runes[:limit])
}

// buildAnswerPrompt lays out every source page with its provenance and asks
// the model to attribute each quote with [[...]] markers, which the caller
// extracts back into citations.
func buildAnswerPrompt(question string, sources []Source) string {
	names := []string{}
	seen := map[string]bool{}
	for _, source := range sources {
		if seen[source.DocumentID] {
			continue
		}
		seen[source.DocumentID] = true
		names = append(names, source.DocumentName)
	}

	var b strings.Builder
	b.WriteString("Answer the following question using information from ")
	b.WriteString(fmt.Sprintf("%d selected document(s): %s\n\n", len(names), question))
	b.WriteString("Available Documents:\n")
	for _, name := range names {
		b.WriteString("- " + name + "\n")
	}
	b.WriteString("\nContext from Documents:\n")

	budget := maxPromptChars - b.Len()
	perSource := budget
	if len(sources) > 0 {
		perSource = budget / len(sources)
	}
	for _, source := range sources {
		text := clipText(source.Text, perSource)
		if text == "" {
			continue
		}
		b.WriteString(fmt.Sprintf("[Document: %s | Page %d]\n", source.DocumentName, source.PageNumber))
		b.WriteString(text)
		b.WriteString("\n\n")
	}

	b.WriteString("IMPORTANT INSTRUCTIONS:\n")
	b.WriteString("1. Analyze ALL provided documents equally.\n")
	b.WriteString("2. For each quote, specify which document it comes from using the format: In [Document Name], [[exact quote]].\n")
	b.WriteString("3. Copy quotes verbatim from the context; never paraphrase inside [[ ]].\n")
	b.WriteString("4. If you can only find relevant information in one document, explicitly say the others do not cover it.\n")
	b.WriteString("5. Keep quotes concise and specific.\n")
	return b.String()
}
