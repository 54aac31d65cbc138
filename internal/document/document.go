// Package document turns PDF pages into ordered lists of positioned text
// fragments. Fragments are what the matcher and the highlight overlays
// operate on; nothing downstream ever touches the PDF itself.
package document

// Box is a fragment's bounding box in page-local coordinates, origin at the
// top-left corner of the page.
type Box struct {
	Left   float64
	Top    float64
	Width  float64
	Height float64
}

// Fragment is one positioned piece of page text in reading order. Index is
// the fragment's position in the page's list: strictly increasing, no gaps.
type Fragment struct {
	Index   int
	RawText string
	Box     Box
}

// PageLayer is the rendered text layer of a single page. The fragment slice
// is immutable once produced.
type PageLayer struct {
	PageNumber int
	Width      float64
	Height     float64
	Fragments  []Fragment
}

// Texts returns the raw fragment texts in reading order, aligned with
// fragment indices.
func (l *PageLayer) Texts() []string {
	texts := make([]string, len(l.Fragments))
	for i, fragment := range l.Fragments {
		texts[i] = fragment.RawText
	}
	return texts
}

// Text joins the page's fragment texts with spaces, for prompt context and
// quote resolution.
func (l *PageLayer) Text() string {
	out := ""
	for i, fragment := range l.Fragments {
		if i > 0 {
			out += " "
		}
		out += fragment.RawText
	}
	return out
}

// Rendered is a fully extracted document: every page's text layer, keyed by
// 1-based page number.
type Rendered struct {
	ID        string
	Name      string
	PageCount int
	layers    map[int]*PageLayer
}

// NewRendered assembles a document from prebuilt page layers. The rendering
// pipeline uses Render; this exists for synthetic layers in tests and tools.
func NewRendered(id, name string, pageCount int, layers []*PageLayer) *Rendered {
	doc := &Rendered{
		ID:        id,
		Name:      name,
		PageCount: pageCount,
		layers:    map[int]*PageLayer{},
	}
	for _, layer := range layers {
		if layer != nil {
			doc.layers[layer.PageNumber] = layer
		}
	}
	return doc
}

// Layer returns the text layer for a page, or nil when the page was not
// rendered (out of range, or extraction failed for that page).
func (d *Rendered) Layer(pageNumber int) *PageLayer {
	if d == nil {
		return nil
	}
	return d.layers[pageNumber]
}

// PageText returns the joined text of a page, empty when the layer is absent.
func (d *Rendered) PageText(pageNumber int) string {
	layer := d.Layer(pageNumber)
	if layer == nil {
		return ""
	}
	return layer.Text()
}
