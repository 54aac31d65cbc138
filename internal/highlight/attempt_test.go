package highlight

import (
	"errors"
	"testing"

	"github.com/csheth/citelens/internal/focus"
	"github.com/csheth/citelens/internal/match"
)

func clauseCitation() focus.Citation {
	return focus.Citation{
		DocumentID: "msa_base",
		PageNumber: 3,
		Snippet:    "parties agree to terms",
		Color:      focus.ColorYellow,
	}
}

func TestObserveImmediateMatch(t *testing.T) {
	attempt := NewAttempt(1, clauseCitation())
	texts := []string{"The Parties", "agree to the", "terms set forth", "herein."}

	result := attempt.Observe(texts)
	if result.Outcome != OutcomePaint {
		t.Fatalf("outcome = %v, want paint (err=%v)", result.Outcome, result.Err)
	}
	if result.Group.Score != 3 {
		t.Fatalf("score = %d, want 3", result.Group.Score)
	}
	if attempt.Phase != PhaseHighlighted {
		t.Fatalf("phase = %v, want highlighted", attempt.Phase)
	}
	if !attempt.Terminal() {
		t.Fatal("highlighted attempt should be terminal")
	}
}

func TestObserveWaitsForLayerThenMatches(t *testing.T) {
	attempt := NewAttempt(1, clauseCitation())

	for i := 0; i < 4; i++ {
		result := attempt.Observe(nil)
		if result.Outcome != OutcomeRetry {
			t.Fatalf("attempt %d outcome = %v, want retry", i+1, result.Outcome)
		}
		if !errors.Is(result.Err, ErrLayerNotReady) {
			t.Fatalf("attempt %d err = %v, want ErrLayerNotReady", i+1, result.Err)
		}
		if attempt.Phase != PhaseAwaitingLayer {
			t.Fatalf("phase = %v, want awaiting-layer", attempt.Phase)
		}
	}

	result := attempt.Observe([]string{"The Parties", "agree to the", "terms set forth"})
	if result.Outcome != OutcomePaint {
		t.Fatalf("outcome = %v after layer arrived, want paint", result.Outcome)
	}
	if attempt.Tries != 5 {
		t.Fatalf("tries = %d, want 5", attempt.Tries)
	}
}

func TestObserveExhaustsAfterElevenAttempts(t *testing.T) {
	attempt := NewAttempt(1, clauseCitation())

	for i := 0; i < MaxAttempts-1; i++ {
		if result := attempt.Observe(nil); result.Outcome != OutcomeRetry {
			t.Fatalf("attempt %d outcome = %v, want retry", i+1, result.Outcome)
		}
	}
	result := attempt.Observe(nil)
	if result.Outcome != OutcomeFail {
		t.Fatalf("final outcome = %v, want fail", result.Outcome)
	}
	if attempt.Phase != PhaseFailed {
		t.Fatalf("phase = %v, want failed", attempt.Phase)
	}

	// Terminal attempts schedule nothing further.
	if result := attempt.Observe(nil); result.Outcome != OutcomeFail {
		t.Fatalf("terminal attempt outcome = %v, want fail", result.Outcome)
	}
	if attempt.Tries != MaxAttempts {
		t.Fatalf("tries = %d, want %d (terminal observes consume nothing)", attempt.Tries, MaxAttempts)
	}
}

func TestObserveNoSearchTermsFailsImmediately(t *testing.T) {
	citation := clauseCitation()
	citation.Snippet = "to or of"
	attempt := NewAttempt(1, citation)

	result := attempt.Observe([]string{"some rendered text"})
	if result.Outcome != OutcomeFail {
		t.Fatalf("outcome = %v, want fail", result.Outcome)
	}
	if !errors.Is(result.Err, match.ErrNoSearchTerms) {
		t.Fatalf("err = %v, want ErrNoSearchTerms", result.Err)
	}
	if attempt.Tries != 1 {
		t.Fatalf("tries = %d, want 1 (never retried)", attempt.Tries)
	}
}

func TestObserveInsufficientMatchRetries(t *testing.T) {
	citation := clauseCitation()
	citation.Snippet = "xyzzyplugh"
	attempt := NewAttempt(1, citation)

	result := attempt.Observe([]string{"unrelated contract text"})
	if result.Outcome != OutcomeRetry {
		t.Fatalf("outcome = %v, want retry (layer may still be partial)", result.Outcome)
	}
	if !errors.Is(result.Err, match.ErrInsufficientMatch) {
		t.Fatalf("err = %v, want ErrInsufficientMatch", result.Err)
	}
}

func TestStale(t *testing.T) {
	attempt := NewAttempt(7, clauseCitation())
	if attempt.Stale(7) {
		t.Fatal("attempt should not be stale under its own generation")
	}
	if !attempt.Stale(8) {
		t.Fatal("attempt should be stale once a newer intent exists")
	}
}
