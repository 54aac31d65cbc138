package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"
)

// refreshViewerIfDirty rebuilds the page content. Each fragment occupies
// exactly one row so fragment indices line up with viewport rows; overlay
// placement and scroll offsets both rely on that mapping.
func (m *model) refreshViewerIfDirty() {
	if !m.viewportDirty {
		return
	}
	m.viewportDirty = false

	doc := m.docs[m.activeDocID]
	if doc == nil {
		m.viewportContent = helperStyle.Render("Rendering document…")
		m.viewportRows = 1
		m.pageView.SetContent(m.viewportContent)
		return
	}
	layer := doc.Layer(m.activePage)
	if layer == nil {
		m.viewportContent = helperStyle.Render(fmt.Sprintf("Page %d has no extractable text layer.", m.activePage))
		m.viewportRows = 1
		m.pageView.SetContent(m.viewportContent)
		return
	}

	overlayRows := m.overlayRowsFor(doc.ID, m.activePage)
	lines := make([]string, len(layer.Fragments))
	for i, fragment := range layer.Fragments {
		line := truncateLine(fragment.RawText, m.pageView.Width)
		if style, ok := overlayRows[fragment.Index]; ok {
			line = style.Render(line)
		}
		lines[i] = line
	}
	m.viewportContent = strings.Join(lines, "\n")
	m.viewportRows = len(lines)
	m.pageView.SetContent(m.viewportContent)
}

// overlayRowsFor maps fragment index to its overlay style, but only when
// the painted overlays belong to the page currently shown.
func (m *model) overlayRowsFor(documentID string, page int) map[int]lipgloss.Style {
	rows := map[int]lipgloss.Style{}
	if m.overlayDocID != documentID || m.overlayPage != page {
		return rows
	}
	for _, overlay := range m.overlays {
		rows[overlay.FragmentIndex] = overlayStyles[overlay.Color]
	}
	return rows
}

// truncateLine keeps one fragment on one row even when the terminal is
// narrower than the fragment text.
func truncateLine(text string, width int) string {
	if width <= 0 || len(text) <= width {
		return text
	}
	wrapped := wordwrap.String(text, width)
	if idx := strings.IndexByte(wrapped, '\n'); idx >= 0 {
		return wrapped[:idx] + "…"
	}
	return wrapped
}
