package tui

import (
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/csheth/citelens/internal/document"
	"github.com/csheth/citelens/internal/focus"
	"github.com/csheth/citelens/internal/highlight"
	"github.com/csheth/citelens/internal/library"
	"github.com/csheth/citelens/internal/llm"
	"github.com/csheth/citelens/internal/match"
)

// Config wires runtime options into the TUI program.
type Config struct {
	Library     []library.Set
	LLM         llm.Client
	SessionPath string
}

// New returns a tea.Model ready to be mounted into a Program.
func New(config Config) tea.Model {
	composer := textinput.New()
	composer.CharLimit = 240
	composer.Width = 70

	spin := spinner.New()
	spin.Spinner = spinner.Dot

	vp := viewport.New(80, 20)
	vp.MouseWheelEnabled = true

	m := &model{
		config:       config,
		stage:        stagePicker,
		composer:     composer,
		composerMode: composerModeIdle,
		spinner:      spin,
		pageView:     vp,
		store:        focus.NewStore(),
		docs:         map[string]*document.Rendered{},
		opening:      map[string]bool{},
		infoMessage:  "Pick a contract set to begin.",
	}
	m.store.OnChange(func(state focus.State) {
		m.pendingFocus = &state
	})
	return m
}

type model struct {
	config Config
	stage  stage
	jobs   jobBus

	composer     textinput.Model
	composerMode composerMode
	spinner      spinner.Model
	pageView     viewport.Model

	store        *focus.Store
	pendingFocus *focus.State

	set      *library.Set
	setIndex int
	docs     map[string]*document.Rendered
	opening  map[string]bool

	activeDocID string
	activePage  int

	attempt      *highlight.Attempt
	overlays     []highlight.Overlay
	overlayDocID string
	overlayPage  int

	qaHistory     []qaExchange
	answerPending bool

	recentJobs []jobSnapshot

	viewportContent string
	viewportRows    int
	viewportDirty   bool

	infoMessage  string
	errorMessage string
	helpVisible  bool
	windowWidth  int
	windowHeight int
}

func (m *model) Init() tea.Cmd {
	return textinput.Blink
}

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		if m.stage == stageLoading || m.answerPending || len(m.opening) > 0 {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
		return m, nil
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC:
			return m, tea.Quit
		case tea.KeyEsc:
			if m.composerMode != composerModeIdle {
				m.closeComposer()
				return m, nil
			}
			if m.helpVisible {
				m.helpVisible = false
				return m, nil
			}
			return m, tea.Quit
		}
		return m.handleKey(msg)
	case tea.MouseMsg:
		if m.stage == stageViewer && m.composerMode == composerModeIdle {
			var cmd tea.Cmd
			m.pageView, cmd = m.pageView.Update(msg)
			return m, cmd
		}
		return m, nil
	case tea.WindowSizeMsg:
		m.windowWidth = msg.Width
		m.windowHeight = msg.Height
		newWidth := msg.Width - viewportHorizontalPadding
		if newWidth < minViewportWidth {
			newWidth = minViewportWidth
		}
		m.pageView.Width = newWidth
		height := msg.Height - chromeHeight - transcriptHeight
		if height < 5 {
			height = 5
		}
		m.pageView.Height = height
		m.markViewportDirty()
		return m, nil
	case jobSignalMsg:
		m.recordJob(msg.Snapshot)
		return m, nil
	case jobResultEnvelope:
		m.recordJob(msg.Snapshot)
		if msg.Payload == nil {
			return m, nil
		}
		return m.Update(msg.Payload)
	case docOpenedMsg:
		return m.onDocOpened(msg)
	case docOpenFailedMsg:
		delete(m.opening, msg.DocumentID)
		m.errorMessage = msg.Err.Error()
		if m.stage == stageLoading && len(m.opening) == 0 && len(m.docs) == 0 {
			m.stage = stagePicker
			m.infoMessage = "No document could be opened. Pick another set."
		}
		return m, nil
	case answerResultMsg:
		return m.onAnswerResult(msg)
	case sessionSavedMsg:
		if msg.Err != nil {
			m.errorMessage = fmt.Sprintf("session save failed: %v", msg.Err)
		}
		return m, nil
	case highlightTickMsg:
		return m, m.onHighlightTick(msg)
	}
	return m, nil
}

func (m *model) handleKey(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.composerMode != composerModeIdle {
		return m.handleComposerKey(key)
	}
	switch m.stage {
	case stagePicker:
		return m.handlePickerKey(key)
	case stageLoading:
		return m, nil
	case stageViewer:
		return m.handleViewerKey(key)
	}
	return m, nil
}

func (m *model) handlePickerKey(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key.String() {
	case "up", "k":
		if m.setIndex > 0 {
			m.setIndex--
		}
		return m, nil
	case "down", "j":
		if m.setIndex < len(m.config.Library)-1 {
			m.setIndex++
		}
		return m, nil
	case "enter":
		return m, m.selectSet(m.setIndex)
	case "q":
		return m, tea.Quit
	}
	return m, nil
}

// selectSet starts one open job per document; the viewer appears as soon as
// the first document is ready while the rest keep rendering behind it.
func (m *model) selectSet(index int) tea.Cmd {
	if index < 0 || index >= len(m.config.Library) {
		return nil
	}
	set := m.config.Library[index]
	m.set = &set
	m.stage = stageLoading
	m.infoMessage = fmt.Sprintf("Opening %s…", set.Name)
	m.errorMessage = ""
	cmds := []tea.Cmd{m.spinner.Tick}
	for _, doc := range set.Documents {
		m.opening[doc.ID] = true
		cmds = append(cmds, m.openDocumentCmd(doc.Path, doc.ID, doc.Name))
	}
	return tea.Batch(cmds...)
}

func (m *model) onDocOpened(msg docOpenedMsg) (tea.Model, tea.Cmd) {
	delete(m.opening, msg.Doc.ID)
	m.docs[msg.Doc.ID] = msg.Doc
	if msg.Doc.ID == m.activeDocID {
		m.markViewportDirty()
	}
	if m.stage == stageLoading {
		m.stage = stageViewer
		m.activeDocID = msg.Doc.ID
		m.activePage = 1
		m.composerMode = composerModeIdle
		m.infoMessage = fmt.Sprintf("Loaded %s. Press q to ask a question.", msg.Doc.Name)
		m.markViewportDirty()
	}
	if len(m.opening) == 0 && m.stage == stageViewer {
		m.infoMessage = fmt.Sprintf("All %d document(s) ready. Press q to ask a question.", len(m.docs))
	}
	return m, nil
}

func (m *model) handleViewerKey(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	keyed := key.String()
	if len(keyed) == 1 && keyed[0] >= '1' && keyed[0] <= '9' {
		return m, m.selectCitation(int(keyed[0] - '1'))
	}
	switch keyed {
	case "q":
		m.openComposer(composerModeQuestion)
		return m, textinput.Blink
	case "g":
		m.openComposer(composerModeGotoPage)
		return m, textinput.Blink
	case "n", "right":
		return m, m.jumpToPage(m.activePage + 1)
	case "p", "left":
		return m, m.jumpToPage(m.activePage - 1)
	case "tab":
		return m, m.cycleDocument()
	case "?":
		m.helpVisible = !m.helpVisible
		return m, nil
	}
	var cmd tea.Cmd
	m.pageView, cmd = m.pageView.Update(key)
	return m, cmd
}

func (m *model) openComposer(mode composerMode) {
	m.composerMode = mode
	m.composer.SetValue("")
	switch mode {
	case composerModeQuestion:
		m.composer.Placeholder = composerQuestionPlaceholder
	case composerModeGotoPage:
		m.composer.Placeholder = composerGotoPlaceholder
	}
	m.composer.Focus()
}

func (m *model) closeComposer() {
	m.composerMode = composerModeIdle
	m.composer.SetValue("")
	m.composer.Blur()
}

func (m *model) handleComposerKey(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Type == tea.KeyEnter {
		value := strings.TrimSpace(m.composer.Value())
		mode := m.composerMode
		m.closeComposer()
		switch mode {
		case composerModeQuestion:
			return m, m.submitQuestion(value)
		case composerModeGotoPage:
			page, err := strconv.Atoi(value)
			if err != nil {
				m.errorMessage = fmt.Sprintf("%q is not a page number", value)
				return m, nil
			}
			return m, m.jumpToPage(page)
		}
		return m, nil
	}
	var cmd tea.Cmd
	m.composer, cmd = m.composer.Update(key)
	return m, cmd
}

// jumpToPage publishes a plain navigation intent with no citation attached.
func (m *model) jumpToPage(page int) tea.Cmd {
	doc := m.docs[m.activeDocID]
	if doc == nil {
		return nil
	}
	if page < 1 || page > doc.PageCount {
		m.errorMessage = fmt.Sprintf("Page %d is out of range (1-%d).", page, doc.PageCount)
		return nil
	}
	m.errorMessage = ""
	m.store.Set(focus.State{DocumentID: m.activeDocID, PageNumber: page})
	return m.consumeFocusChange()
}

func (m *model) cycleDocument() tea.Cmd {
	if m.set == nil || len(m.set.Documents) < 2 {
		return nil
	}
	current := 0
	for i, doc := range m.set.Documents {
		if doc.ID == m.activeDocID {
			current = i
			break
		}
	}
	next := m.set.Documents[(current+1)%len(m.set.Documents)]
	m.store.Set(focus.State{DocumentID: next.ID, PageNumber: 1})
	return m.consumeFocusChange()
}

// selectCitation publishes the chosen citation from the most recent answered
// exchange as the new focus intent.
func (m *model) selectCitation(index int) tea.Cmd {
	exchange := m.latestAnswered()
	if exchange == nil {
		m.infoMessage = "No answer with citations yet. Press q to ask."
		return nil
	}
	if index < 0 || index >= len(exchange.Citations) {
		m.errorMessage = fmt.Sprintf("Answer has %d citation(s).", len(exchange.Citations))
		return nil
	}
	citation := exchange.Citations[index]
	m.errorMessage = ""
	m.infoMessage = fmt.Sprintf("Locating citation %d in %s, page %d…", index+1, citation.DocumentName, citation.PageNumber)
	m.store.Set(focus.State{
		DocumentID: citation.DocumentID,
		PageNumber: citation.PageNumber,
		Citation:   &citation,
	})
	return m.consumeFocusChange()
}

func (m *model) latestAnswered() *qaExchange {
	for i := len(m.qaHistory) - 1; i >= 0; i-- {
		if !m.qaHistory[i].Pending && m.qaHistory[i].Error == "" {
			return &m.qaHistory[i]
		}
	}
	return nil
}

// consumeFocusChange reacts to the last store write: clear the previous
// overlays, move the viewer, and start a fresh highlight attempt when a
// citation rides along.
func (m *model) consumeFocusChange() tea.Cmd {
	if m.pendingFocus == nil {
		return nil
	}
	state := *m.pendingFocus
	m.pendingFocus = nil

	m.clearOverlays()
	m.activeDocID = state.DocumentID
	m.activePage = state.PageNumber
	m.markViewportDirty()

	var cmds []tea.Cmd
	if openCmd := m.ensureDocumentOpen(state.DocumentID); openCmd != nil {
		cmds = append(cmds, openCmd, m.spinner.Tick)
	}
	if state.Citation == nil {
		m.attempt = nil
		m.pageView.SetYOffset(0)
		return tea.Batch(cmds...)
	}
	m.attempt = highlight.NewAttempt(m.store.Generation(), *state.Citation)
	if stepCmd := m.stepHighlight(); stepCmd != nil {
		cmds = append(cmds, stepCmd)
	}
	return tea.Batch(cmds...)
}

// ensureDocumentOpen starts an open job for a focus target whose document
// has not been rendered yet. Citations may point anywhere in the set.
func (m *model) ensureDocumentOpen(documentID string) tea.Cmd {
	if documentID == "" || m.docs[documentID] != nil || m.opening[documentID] {
		return nil
	}
	if m.set == nil {
		return nil
	}
	for _, doc := range m.set.Documents {
		if doc.ID == documentID {
			m.opening[doc.ID] = true
			return m.openDocumentCmd(doc.Path, doc.ID, doc.Name)
		}
	}
	return nil
}

// stepHighlight runs one observation of the current attempt. A stale
// attempt is dropped without any log or message.
func (m *model) stepHighlight() tea.Cmd {
	if m.attempt == nil {
		return nil
	}
	if m.attempt.Stale(m.store.Generation()) {
		m.attempt = nil
		return nil
	}
	var texts []string
	if doc := m.docs[m.attempt.Citation.DocumentID]; doc != nil {
		if layer := doc.Layer(m.attempt.Citation.PageNumber); layer != nil {
			texts = layer.Texts()
		}
	}
	result := m.attempt.Observe(texts)
	switch result.Outcome {
	case highlight.OutcomePaint:
		m.paintHighlight(result.Group)
		return nil
	case highlight.OutcomeRetry:
		return highlightTickCmd(m.attempt.Generation)
	default:
		// Log only. A failed highlight leaves the page exactly as a plain
		// navigation would; the user sees no error.
		log.Printf("[highlight] attempt gave up after %d tries: %v", m.attempt.Tries, result.Err)
		m.infoMessage = ""
		return nil
	}
}

func (m *model) onHighlightTick(msg highlightTickMsg) tea.Cmd {
	if m.attempt == nil || m.attempt.Generation != msg.Generation {
		return nil
	}
	return m.stepHighlight()
}

// paintHighlight replaces the overlay set and scrolls the winning group
// into the upper quarter of the viewport.
func (m *model) paintHighlight(group match.Group) {
	citation := m.attempt.Citation
	doc := m.docs[citation.DocumentID]
	if doc == nil {
		return
	}
	layer := doc.Layer(citation.PageNumber)
	m.overlays = highlight.BuildOverlays(group, layer, citation.Color)
	m.overlayDocID = citation.DocumentID
	m.overlayPage = citation.PageNumber
	m.markViewportDirty()
	m.refreshViewerIfDirty()
	offset := highlight.ScrollOffset(group.Start(), m.pageView.Height, m.viewportRows)
	m.pageView.SetYOffset(offset)
	m.errorMessage = ""
	m.infoMessage = fmt.Sprintf("Highlighted %d fragment(s) on page %d of %s.", len(m.overlays), citation.PageNumber, citation.DocumentName)
}

func (m *model) clearOverlays() {
	m.overlays = nil
	m.overlayDocID = ""
	m.overlayPage = 0
}

func (m *model) submitQuestion(question string) tea.Cmd {
	if question == "" {
		return nil
	}
	if m.config.LLM == nil {
		m.errorMessage = "Connect OpenAI or Ollama (flags or env) to ask questions."
		return nil
	}
	sources := m.collectSources()
	if len(sources) == 0 {
		m.errorMessage = "No document text available yet. Wait for rendering to finish."
		return nil
	}
	m.qaHistory = append(m.qaHistory, qaExchange{
		Question: question,
		Pending:  true,
		AskedAt:  time.Now(),
	})
	m.answerPending = true
	m.errorMessage = ""
	m.infoMessage = "Thinking…"
	return tea.Batch(m.askQuestionCmd(question, sources), m.spinner.Tick)
}

// collectSources flattens every rendered page of the active set into one
// source per page, in set order, so citations resolve back to a page.
func (m *model) collectSources() []llm.Source {
	if m.set == nil {
		return nil
	}
	var sources []llm.Source
	for _, entry := range m.set.Documents {
		doc := m.docs[entry.ID]
		if doc == nil {
			continue
		}
		for page := 1; page <= doc.PageCount; page++ {
			layer := doc.Layer(page)
			if layer == nil {
				continue
			}
			sources = append(sources, llm.Source{
				DocumentID:   doc.ID,
				DocumentName: doc.Name,
				PageNumber:   page,
				Text:         layer.Text(),
			})
		}
	}
	return sources
}

func (m *model) onAnswerResult(msg answerResultMsg) (tea.Model, tea.Cmd) {
	m.answerPending = false
	entry := m.pendingExchange(msg.Question)
	if entry == nil {
		return m, nil
	}
	entry.Pending = false
	if msg.Err != nil {
		entry.Error = msg.Err.Error()
		m.errorMessage = entry.Error
		m.infoMessage = "Question failed. Press q to retry."
		return m, nil
	}
	entry.Answer = msg.Answer.Text
	entry.Confidence = msg.Answer.Confidence
	entry.Citations = mapCitations(msg.Answer.Citations)
	m.errorMessage = ""
	if len(entry.Citations) > 0 {
		m.infoMessage = fmt.Sprintf("Answer ready with %d citation(s). Press 1-%d to jump.", len(entry.Citations), len(entry.Citations))
	} else {
		m.infoMessage = "Answer ready. No verifiable citations were found."
	}
	return m, m.saveExchangeCmd(*entry)
}

func (m *model) pendingExchange(question string) *qaExchange {
	for i := len(m.qaHistory) - 1; i >= 0; i-- {
		if m.qaHistory[i].Pending && m.qaHistory[i].Question == question {
			return &m.qaHistory[i]
		}
	}
	return nil
}

// mapCitations assigns palette colors by citation position so the answer
// chips and the page overlays agree.
func mapCitations(citations []llm.Citation) []focus.Citation {
	mapped := make([]focus.Citation, 0, len(citations))
	for i, c := range citations {
		mapped = append(mapped, focus.Citation{
			DocumentID:   c.DocumentID,
			DocumentName: c.DocumentName,
			PageNumber:   c.PageNumber,
			SectionRef:   c.SectionRef,
			Snippet:      c.Snippet,
			Color:        focus.PaletteColor(i),
		})
	}
	return mapped
}

func (m *model) recordJob(snapshot jobSnapshot) {
	for i := range m.recentJobs {
		if m.recentJobs[i].ID == snapshot.ID {
			m.recentJobs[i] = snapshot
			return
		}
	}
	m.recentJobs = append(m.recentJobs, snapshot)
	if len(m.recentJobs) > 8 {
		m.recentJobs = m.recentJobs[len(m.recentJobs)-8:]
	}
}

func (m *model) markViewportDirty() {
	m.viewportDirty = true
}

var (
	titleStyle         = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205")).Underline(true)
	sectionHeaderStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("81"))
	errorStyle         = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	helperStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	pickerCursorStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("0")).Background(lipgloss.Color("229"))
	taglineStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("#ffb347")).Italic(true)
	statusBarStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#0f0f0f")).Background(lipgloss.Color("#8ecae6")).Padding(0, 1)
	helpBoxStyle       = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("#56526e")).Padding(1, 2)
	confidenceStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#a3be8c"))

	overlayStyles = map[focus.ColorTag]lipgloss.Style{
		focus.ColorYellow: lipgloss.NewStyle().Foreground(lipgloss.Color("0")).Background(lipgloss.Color("229")),
		focus.ColorGreen:  lipgloss.NewStyle().Foreground(lipgloss.Color("0")).Background(lipgloss.Color("120")),
		focus.ColorBlue:   lipgloss.NewStyle().Foreground(lipgloss.Color("0")).Background(lipgloss.Color("117")),
		focus.ColorPink:   lipgloss.NewStyle().Foreground(lipgloss.Color("0")).Background(lipgloss.Color("218")),
		focus.ColorOrange: lipgloss.NewStyle().Foreground(lipgloss.Color("0")).Background(lipgloss.Color("215")),
	}

	chipStyles = map[focus.ColorTag]lipgloss.Style{
		focus.ColorYellow: lipgloss.NewStyle().Foreground(lipgloss.Color("229")).Bold(true),
		focus.ColorGreen:  lipgloss.NewStyle().Foreground(lipgloss.Color("120")).Bold(true),
		focus.ColorBlue:   lipgloss.NewStyle().Foreground(lipgloss.Color("117")).Bold(true),
		focus.ColorPink:   lipgloss.NewStyle().Foreground(lipgloss.Color("218")).Bold(true),
		focus.ColorOrange: lipgloss.NewStyle().Foreground(lipgloss.Color("215")).Bold(true),
	}
)
