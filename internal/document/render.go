package document

import (
	"fmt"
	"log"
	"os"

	"github.com/ledongthuc/pdf"
)

const (
	defaultPageWidth  = 612.0
	defaultPageHeight = 792.0
)

// Render opens a PDF and extracts the text layer of every page. Pages whose
// content stream cannot be interpreted are skipped with a log line; their
// layers stay absent and the viewer degrades to navigation-only for them.
// Extracted layers are cached on disk keyed by the file's identity.
func Render(path, id, name string) (*Rendered, error) {
	cache, cacheErr := newLayerCache()
	if cacheErr != nil {
		log.Printf("[document] layer cache unavailable: %v", cacheErr)
	}
	info, statErr := os.Stat(path)
	if cache != nil && statErr == nil {
		if entry, ok := cache.Load(path, info); ok {
			return NewRendered(id, name, entry.PageCount, entry.Layers), nil
		}
	}

	file, reader, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open pdf: %w", err)
	}
	defer file.Close()

	doc := &Rendered{
		ID:        id,
		Name:      name,
		PageCount: reader.NumPage(),
		layers:    map[int]*PageLayer{},
	}
	extracted := make([]*PageLayer, 0, doc.PageCount)
	for pageNumber := 1; pageNumber <= doc.PageCount; pageNumber++ {
		layer, err := renderPage(reader, pageNumber)
		if err != nil {
			log.Printf("[document] %s page %d: %v", id, pageNumber, err)
			continue
		}
		doc.layers[pageNumber] = layer
		extracted = append(extracted, layer)
	}
	if cache != nil && statErr == nil {
		if err := cache.Store(path, info, doc.PageCount, extracted); err != nil {
			log.Printf("[document] layer cache write failed: %v", err)
		}
	}
	return doc, nil
}

func renderPage(reader *pdf.Reader, pageNumber int) (layer *PageLayer, err error) {
	// The content-stream interpreter panics on malformed streams.
	defer func() {
		if r := recover(); r != nil {
			layer = nil
			err = fmt.Errorf("content extraction panicked: %v", r)
		}
	}()

	page := reader.Page(pageNumber)
	if page.V.IsNull() {
		return nil, fmt.Errorf("page object missing")
	}

	width, height := pageSize(page)
	content := page.Content()
	return &PageLayer{
		PageNumber: pageNumber,
		Width:      width,
		Height:     height,
		Fragments:  buildFragments(content.Text, width, height),
	}, nil
}

func pageSize(page pdf.Page) (float64, float64) {
	mediaBox := page.V.Key("MediaBox")
	if mediaBox.Len() != 4 {
		return defaultPageWidth, defaultPageHeight
	}
	width := mediaBox.Index(2).Float64() - mediaBox.Index(0).Float64()
	height := mediaBox.Index(3).Float64() - mediaBox.Index(1).Float64()
	if width <= 0 || height <= 0 {
		return defaultPageWidth, defaultPageHeight
	}
	return width, height
}
