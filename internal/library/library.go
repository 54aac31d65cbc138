// Package library locates the contract sets available to the viewer: each
// folder under the data directory is one set, each PDF inside it one
// document.
package library

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// Document is one openable PDF.
type Document struct {
	ID   string
	Name string
	Path string
}

// Set groups the documents of one contract set.
type Set struct {
	ID        string
	Name      string
	Documents []Document
}

// Scan walks the data directory and returns all contract sets that contain
// at least one PDF. Document ids are derived from the folder and file name
// so they stay stable across runs, matching the ids the retrieval service
// uses in its citations.
func Scan(dir string) ([]Set, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to scan library %s: %w", dir, err)
	}

	sets := []Set{}
	for _, entry := range entries {
		if !entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		documents, err := scanFolder(dir, entry.Name())
		if err != nil {
			return nil, err
		}
		if len(documents) == 0 {
			continue
		}
		sets = append(sets, Set{
			ID:        strings.ToLower(entry.Name()),
			Name:      strings.ToUpper(entry.Name()),
			Documents: documents,
		})
	}
	return sets, nil
}

func scanFolder(dir, folder string) ([]Document, error) {
	entries, err := os.ReadDir(filepath.Join(dir, folder))
	if err != nil {
		return nil, fmt.Errorf("failed to scan set %s: %w", folder, err)
	}

	documents := []Document{}
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || strings.HasPrefix(name, ".") {
			continue
		}
		if !strings.EqualFold(filepath.Ext(name), ".pdf") {
			continue
		}
		documents = append(documents, Document{
			ID:   DocumentID(folder, name),
			Name: name,
			Path: filepath.Join(dir, folder, name),
		})
	}
	return documents, nil
}

// DocumentID derives the stable id for a PDF within a set folder.
func DocumentID(folder, filename string) string {
	base := strings.TrimSuffix(filename, filepath.Ext(filename))
	return strings.ToLower(folder + "_" + base)
}

// SingleDocument wraps one ad-hoc PDF path in a throwaway set with a fresh
// id, for opening a file that lives outside the library.
func SingleDocument(path string) Set {
	name := filepath.Base(path)
	return Set{
		ID:   uuid.NewString(),
		Name: name,
		Documents: []Document{{
			ID:   uuid.NewString(),
			Name: name,
			Path: path,
		}},
	}
}
