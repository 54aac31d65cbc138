package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/muesli/reflow/wordwrap"

	"github.com/csheth/citelens/internal/focus"
)

func (m *model) View() string {
	switch m.stage {
	case stagePicker:
		return m.viewPicker()
	case stageLoading:
		return m.viewLoading()
	case stageViewer:
		return m.viewViewer()
	default:
		return ""
	}
}

func (m *model) viewPicker() string {
	parts := []string{m.heroView(), sectionHeaderStyle.Render("Contract Sets")}
	if len(m.config.Library) == 0 {
		parts = append(parts, helperStyle.Render("No contract sets found. Point -library at a folder of PDF folders."))
	}
	for i, set := range m.config.Library {
		label := fmt.Sprintf("%s (%d document(s))", set.Name, len(set.Documents))
		if i == m.setIndex {
			label = pickerCursorStyle.Render("> " + label)
		} else {
			label = "  " + label
		}
		parts = append(parts, label)
	}
	parts = append(parts, "", helperStyle.Render("↑/↓ select • Enter open • q quit"))
	parts = m.appendMessages(parts)
	return joinNonEmpty(parts)
}

func (m *model) viewLoading() string {
	parts := []string{
		m.heroView(),
		fmt.Sprintf("%s %s", m.spinner.View(), m.infoMessage),
	}
	parts = m.appendMessages(parts)
	return joinNonEmpty(parts)
}

func (m *model) viewViewer() string {
	m.refreshViewerIfDirty()
	parts := []string{
		m.statusBarView(),
		m.pageView.View(),
	}
	if m.composerMode != composerModeIdle {
		parts = append(parts, sectionHeaderStyle.Render("Composer"), m.composer.View())
	}
	parts = m.appendMessages(parts)
	parts = append(parts, m.transcriptView())
	if m.helpVisible {
		parts = append(parts, m.helpView())
	}
	return joinNonEmpty(parts)
}

func (m *model) heroView() string {
	return joinNonEmpty([]string{
		titleStyle.Render("CiteLens"),
		taglineStyle.Render(heroTagline),
	})
}

func (m *model) statusBarView() string {
	doc := m.docs[m.activeDocID]
	name := "—"
	pages := 0
	if doc != nil {
		name = doc.Name
		pages = doc.PageCount
	}
	status := fmt.Sprintf("%s • page %d/%d", name, m.activePage, pages)
	if len(m.opening) > 0 {
		status += fmt.Sprintf(" • %s rendering %d…", m.spinner.View(), len(m.opening))
	}
	return statusBarStyle.Render(status)
}

func (m *model) appendMessages(parts []string) []string {
	if m.errorMessage != "" {
		parts = append(parts, errorStyle.Render(m.errorMessage))
	}
	if m.infoMessage != "" {
		message := m.infoMessage
		if m.answerPending {
			message = fmt.Sprintf("%s %s", m.spinner.View(), message)
		}
		parts = append(parts, helperStyle.Render(message))
	}
	return parts
}

// transcriptView shows the last few question/answer turns, newest last,
// with each citation rendered as a numbered colored chip.
func (m *model) transcriptView() string {
	var b strings.Builder
	b.WriteString(sectionHeaderStyle.Render("Transcript"))
	b.WriteRune('\n')
	if len(m.qaHistory) == 0 {
		b.WriteString(helperStyle.Render("Questions and answers will appear here. Press q to ask."))
		return b.String()
	}
	width := m.pageView.Width
	if width < minViewportWidth {
		width = minViewportWidth
	}
	start := 0
	if len(m.qaHistory) > 3 {
		start = len(m.qaHistory) - 3
	}
	for _, exchange := range m.qaHistory[start:] {
		b.WriteString(sectionHeaderStyle.Render("Q: ") + exchange.Question)
		b.WriteRune('\n')
		switch {
		case exchange.Pending:
			b.WriteString(helperStyle.Render(fmt.Sprintf("%s Waiting for the model…", m.spinner.View())))
		case exchange.Error != "":
			b.WriteString(errorStyle.Render(exchange.Error))
		default:
			b.WriteString(wordwrap.String(exchange.Answer, width))
			if len(exchange.Citations) > 0 {
				b.WriteRune('\n')
				b.WriteString(m.citationChips(exchange.Citations))
			}
			if exchange.Confidence > 0 {
				b.WriteRune('\n')
				b.WriteString(confidenceStyle.Render(fmt.Sprintf("confidence %.1f", exchange.Confidence)))
			}
		}
		b.WriteRune('\n')
	}
	return strings.TrimRight(b.String(), "\n")
}

func (m *model) citationChips(citations []focus.Citation) string {
	chips := make([]string, 0, len(citations))
	for i, citation := range citations {
		label := fmt.Sprintf("[%d] %s p.%d", i+1, citation.DocumentName, citation.PageNumber)
		chips = append(chips, chipStyles[citation.Color].Render(label))
	}
	return strings.Join(chips, "  ")
}

func (m *model) helpView() string {
	lines := []string{
		"q        ask a question",
		"1-9      jump to a citation of the latest answer",
		"g        go to page",
		"n/p      next / previous page",
		"tab      next document in the set",
		"↑/↓      scroll the page",
		"?        toggle this help",
		"Esc      quit",
	}
	if len(m.recentJobs) > 0 {
		lines = append(lines, "", "recent jobs:")
		for _, job := range m.recentJobs {
			entry := fmt.Sprintf("  %-12s %s", job.ID, job.Status)
			if job.Status != jobStatusRunning {
				entry += fmt.Sprintf(" (%s)", job.Duration.Round(time.Millisecond))
			}
			lines = append(lines, entry)
		}
	}
	return helpBoxStyle.Render(strings.Join(lines, "\n"))
}

func joinNonEmpty(parts []string) string {
	filtered := parts[:0]
	for _, part := range parts {
		if strings.TrimSpace(part) != "" {
			filtered = append(filtered, part)
		}
	}
	return strings.Join(filtered, "\n")
}
