// Package highlight drives one citation-highlight attempt from the moment a
// focus intent is set until overlays are painted or the attempt gives up.
// The page layer renders asynchronously, so an attempt may have to wait for
// fragments to materialize; waiting happens on the caller's timer, never by
// blocking.
package highlight

import (
	"errors"
	"time"

	"github.com/csheth/citelens/internal/focus"
	"github.com/csheth/citelens/internal/match"
)

// ErrLayerNotReady reports that the target page has no fragment list yet.
// Retryable: rendering may still be in flight.
var ErrLayerNotReady = errors.New("highlight: page fragment layer not ready")

const (
	// RetryDelay is the pause between attempts while waiting for the layer.
	RetryDelay = 100 * time.Millisecond
	// MaxAttempts bounds the wait: one immediate attempt plus ten retries.
	MaxAttempts = 11
)

// Phase tracks an attempt through its lifecycle. Highlighted and Failed are
// terminal; a new focus intent always starts a fresh attempt from Idle.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseAwaitingLayer
	PhaseMatching
	PhaseHighlighted
	PhaseFailed
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseAwaitingLayer:
		return "awaiting-layer"
	case PhaseMatching:
		return "matching"
	case PhaseHighlighted:
		return "highlighted"
	case PhaseFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Outcome tells the driver what to do after an observation.
type Outcome int

const (
	// OutcomePaint: a group was located; paint overlays and scroll.
	OutcomePaint Outcome = iota
	// OutcomeRetry: observe again after RetryDelay, re-checking staleness
	// first.
	OutcomeRetry
	// OutcomeFail: terminal; log and leave the page unhighlighted.
	OutcomeFail
)

// Result is the decision produced by one observation step.
type Result struct {
	Outcome Outcome
	Group   match.Group
	Err     error
}

// Attempt is the state of a single highlight attempt. It captures the focus
// generation that started it; the driver compares that against the live
// store before every resumed step and abandons the attempt on mismatch.
type Attempt struct {
	Generation uint64
	Citation   focus.Citation
	Phase      Phase
	Tries      int
}

// NewAttempt starts an attempt for the given citation under the given focus
// generation.
func NewAttempt(generation uint64, citation focus.Citation) *Attempt {
	return &Attempt{Generation: generation, Citation: citation, Phase: PhaseIdle}
}

// Stale reports whether a newer focus intent has superseded this attempt.
// Stale attempts stop silently: no overlays, no error surfaced, no retries
// consumed.
func (a *Attempt) Stale(currentGeneration uint64) bool {
	return a.Generation != currentGeneration
}

// Terminal reports whether the attempt can make no further progress.
func (a *Attempt) Terminal() bool {
	return a.Phase == PhaseHighlighted || a.Phase == PhaseFailed
}

// Observe consumes one attempt against the page's current fragment texts.
// An absent or empty layer is retryable, as is an insufficient match; a
// snippet without search terms fails immediately since no amount of
// rendering can fix it.
func (a *Attempt) Observe(texts []string) Result {
	if a.Terminal() {
		return Result{Outcome: OutcomeFail, Err: ErrLayerNotReady}
	}
	a.Tries++

	if len(texts) == 0 {
		a.Phase = PhaseAwaitingLayer
		return a.retryOrFail(ErrLayerNotReady)
	}

	a.Phase = PhaseMatching
	group, err := match.Locate(texts, a.Citation.Snippet)
	if err == nil {
		a.Phase = PhaseHighlighted
		return Result{Outcome: OutcomePaint, Group: group}
	}
	if errors.Is(err, match.ErrNoSearchTerms) {
		a.Phase = PhaseFailed
		return Result{Outcome: OutcomeFail, Err: err}
	}
	// A later attempt may see a more complete layer.
	a.Phase = PhaseAwaitingLayer
	return a.retryOrFail(err)
}

func (a *Attempt) retryOrFail(err error) Result {
	if a.Tries >= MaxAttempts {
		a.Phase = PhaseFailed
		return Result{Outcome: OutcomeFail, Err: err}
	}
	return Result{Outcome: OutcomeRetry, Err: err}
}
