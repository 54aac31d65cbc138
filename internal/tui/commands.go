package tui

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/csheth/citelens/internal/document"
	"github.com/csheth/citelens/internal/highlight"
	"github.com/csheth/citelens/internal/llm"
	"github.com/csheth/citelens/internal/session"
)

type docOpenedMsg struct {
	Doc *document.Rendered
}

type docOpenFailedMsg struct {
	DocumentID string
	Err        error
}

type answerResultMsg struct {
	Question string
	Answer   llm.Answer
	Err      error
}

type highlightTickMsg struct {
	Generation uint64
}

type sessionSavedMsg struct {
	Err error
}

// saveExchangeCmd records one resolved exchange in the session transcript.
// The transcript is an audit trail; failures are reported but never block
// the answer flow.
func (m *model) saveExchangeCmd(exchange qaExchange) tea.Cmd {
	if m.config.SessionPath == "" || m.set == nil {
		return nil
	}
	citations := make([]session.CitationRecord, 0, len(exchange.Citations))
	for _, citation := range exchange.Citations {
		citations = append(citations, session.CitationRecord{
			DocumentID:   citation.DocumentID,
			DocumentName: citation.DocumentName,
			PageNumber:   citation.PageNumber,
			SectionRef:   citation.SectionRef,
			Snippet:      citation.Snippet,
		})
	}
	entry := session.Exchange{
		SetID:      m.set.ID,
		SetName:    m.set.Name,
		Question:   exchange.Question,
		Answer:     exchange.Answer,
		Confidence: exchange.Confidence,
		Citations:  citations,
		AskedAt:    exchange.AskedAt,
	}
	path := m.config.SessionPath
	return func() tea.Msg {
		return sessionSavedMsg{Err: session.Append(path, entry)}
	}
}

func (m *model) openDocumentCmd(path, id, name string) tea.Cmd {
	return m.jobs.Start(jobKindOpen, func(_ context.Context) (tea.Msg, error) {
		doc, err := document.Render(path, id, name)
		if err != nil {
			return docOpenFailedMsg{DocumentID: id, Err: err}, fmt.Errorf("open %s: %w", name, err)
		}
		return docOpenedMsg{Doc: doc}, nil
	})
}

func (m *model) askQuestionCmd(question string, sources []llm.Source) tea.Cmd {
	client := m.config.LLM
	return m.jobs.Start(jobKindAnswer, func(ctx context.Context) (tea.Msg, error) {
		answer, err := client.Answer(ctx, question, sources)
		if err != nil {
			return answerResultMsg{Question: question, Err: err}, err
		}
		return answerResultMsg{Question: question, Answer: answer}, nil
	})
}

func highlightTickCmd(generation uint64) tea.Cmd {
	return tea.Tick(highlight.RetryDelay, func(time.Time) tea.Msg {
		return highlightTickMsg{Generation: generation}
	})
}
