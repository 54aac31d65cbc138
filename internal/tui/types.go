package tui

import (
	"time"

	"github.com/csheth/citelens/internal/focus"
)

type stage int

const (
	stagePicker stage = iota
	stageLoading
	stageViewer
)

const heroTagline = "Ask your contracts; see the evidence highlighted."

const (
	minViewportWidth          = 40
	viewportHorizontalPadding = 4
	transcriptHeight          = 9
	chromeHeight              = 8
)

type composerMode int

const (
	composerModeIdle composerMode = iota
	composerModeQuestion
	composerModeGotoPage
)

const (
	composerQuestionPlaceholder = "Ask about the loaded contracts…"
	composerGotoPlaceholder     = "Jump to page number…"
)

// qaExchange is one question/answer turn in the transcript. Citations are
// mapped onto the focus palette as soon as the answer arrives so chips and
// overlays share colors.
type qaExchange struct {
	Question   string
	Answer     string
	Citations  []focus.Citation
	Confidence float64
	Error      string
	Pending    bool
	AskedAt    time.Time
}
