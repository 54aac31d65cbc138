package highlight

import (
	"github.com/csheth/citelens/internal/document"
	"github.com/csheth/citelens/internal/focus"
	"github.com/csheth/citelens/internal/match"
)

// Overlay is one transient visual element covering a fragment of the winning
// group. At most one overlay set exists document-wide; the driver clears the
// previous set before painting a new one.
type Overlay struct {
	FragmentIndex int
	Box           document.Box
	Color         focus.ColorTag
}

// BuildOverlays positions one overlay per fragment of the winning group,
// each at its fragment's bounding box. Indices outside the layer are
// dropped rather than painted at a guessed position.
func BuildOverlays(group match.Group, layer *document.PageLayer, color focus.ColorTag) []Overlay {
	if layer == nil {
		return nil
	}
	overlays := make([]Overlay, 0, len(group.Indices))
	for _, index := range group.Indices {
		if index < 0 || index >= len(layer.Fragments) {
			continue
		}
		overlays = append(overlays, Overlay{
			FragmentIndex: index,
			Box:           layer.Fragments[index].Box,
			Color:         color,
		})
	}
	return overlays
}

// ScrollOffset computes the viewport offset that places the first painted
// overlay roughly a quarter of the way down the visible area, keeping
// reading context above it instead of pinning the match to the top edge.
// Offsets are clamped to the scrollable range.
func ScrollOffset(firstOverlayRow, viewportHeight, contentRows int) int {
	offset := firstOverlayRow - viewportHeight/4
	maxOffset := contentRows - viewportHeight
	if maxOffset < 0 {
		maxOffset = 0
	}
	if offset > maxOffset {
		offset = maxOffset
	}
	if offset < 0 {
		offset = 0
	}
	return offset
}
