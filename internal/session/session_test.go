package session

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func sampleExchange(setID, question string) Exchange {
	return Exchange{
		SetID:      setID,
		SetName:    "ACME",
		Question:   question,
		Answer:     "Disclosed information stays confidential.",
		Confidence: 1.0,
		Citations: []CitationRecord{
			{DocumentID: "acme_nda.pdf", DocumentName: "nda.pdf", PageNumber: 1, Snippet: "strictly confidential"},
		},
		AskedAt: time.Date(2026, 8, 30, 10, 0, 0, 0, time.UTC),
	}
}

func TestAppendCreatesAndExtends(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sessions", "transcript.json")

	if err := Append(path, sampleExchange("acme", "q1")); err != nil {
		t.Fatalf("first append: %v", err)
	}
	if err := Append(path, sampleExchange("acme", "q2")); err != nil {
		t.Fatalf("second append: %v", err)
	}

	entries, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].Question != "q1" || entries[1].Question != "q2" {
		t.Fatalf("order not preserved: %q, %q", entries[0].Question, entries[1].Question)
	}
	if len(entries[0].Citations) != 1 || entries[0].Citations[0].PageNumber != 1 {
		t.Fatalf("citations not round-tripped: %+v", entries[0].Citations)
	}
}

func TestAppendWithEmptyPathIsNoop(t *testing.T) {
	if err := Append("", sampleExchange("acme", "q")); err != nil {
		t.Fatalf("empty path should be a noop, got %v", err)
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.json"))
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected os.ErrNotExist, got %v", err)
	}
}

func TestForSetFilters(t *testing.T) {
	entries := []Exchange{
		sampleExchange("acme", "q1"),
		sampleExchange("globex", "q2"),
		sampleExchange("acme", "q3"),
	}
	filtered := ForSet(entries, "acme")
	if len(filtered) != 2 {
		t.Fatalf("expected 2 entries for acme, got %d", len(filtered))
	}
	if filtered[1].Question != "q3" {
		t.Fatalf("unexpected entry: %+v", filtered[1])
	}
}
