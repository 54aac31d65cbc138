// Package session persists the question/answer transcript to a JSON file so
// a review can be resumed or audited later. The file holds one JSON array;
// every append rewrites it, which is fine at transcript sizes.
package session

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"time"
)

// Exchange records one resolved question/answer turn.
type Exchange struct {
	SetID      string           `json:"setId"`
	SetName    string           `json:"setName"`
	Question   string           `json:"question"`
	Answer     string           `json:"answer"`
	Confidence float64          `json:"confidence"`
	Citations  []CitationRecord `json:"citations,omitempty"`
	AskedAt    time.Time        `json:"askedAt"`
}

// CitationRecord stores where an answer's quote was located.
type CitationRecord struct {
	DocumentID   string `json:"documentId"`
	DocumentName string `json:"documentName"`
	PageNumber   int    `json:"pageNumber"`
	SectionRef   string `json:"sectionRef,omitempty"`
	Snippet      string `json:"snippet"`
}

// Append adds one exchange to the transcript file, creating it if necessary.
func Append(path string, exchange Exchange) error {
	if path == "" {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	entries, err := Load(path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	entries = append(entries, exchange)
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// Load reads the full transcript. A missing file surfaces os.ErrNotExist so
// callers can treat it as an empty transcript.
func Load(path string) ([]Exchange, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var entries []Exchange
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// ForSet filters the transcript down to one contract set.
func ForSet(entries []Exchange, setID string) []Exchange {
	filtered := []Exchange{}
	for _, entry := range entries {
		if entry.SetID == setID {
			filtered = append(filtered, entry)
		}
	}
	return filtered
}
