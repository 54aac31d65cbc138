package highlight

import (
	"testing"

	"github.com/csheth/citelens/internal/document"
	"github.com/csheth/citelens/internal/focus"
	"github.com/csheth/citelens/internal/match"
)

func fixtureLayer() *document.PageLayer {
	return &document.PageLayer{
		PageNumber: 3,
		Width:      612,
		Height:     792,
		Fragments: []document.Fragment{
			{Index: 0, RawText: "The Parties", Box: document.Box{Left: 72, Top: 80, Width: 70, Height: 14}},
			{Index: 1, RawText: "agree to the", Box: document.Box{Left: 72, Top: 96, Width: 75, Height: 14}},
			{Index: 2, RawText: "terms set forth", Box: document.Box{Left: 72, Top: 112, Width: 90, Height: 14}},
		},
	}
}

func TestBuildOverlaysOnePerGroupFragment(t *testing.T) {
	group := match.Group{Indices: []int{0, 1, 2}, Score: 3}
	overlays := BuildOverlays(group, fixtureLayer(), focus.ColorGreen)

	if len(overlays) != 3 {
		t.Fatalf("overlay count = %d, want group size 3", len(overlays))
	}
	for i, overlay := range overlays {
		if overlay.FragmentIndex != i {
			t.Fatalf("overlay %d covers fragment %d", i, overlay.FragmentIndex)
		}
		if overlay.Color != focus.ColorGreen {
			t.Fatalf("overlay %d color = %v, want green", i, overlay.Color)
		}
	}
	if overlays[1].Box.Top != 96 {
		t.Fatalf("overlay box not taken from fragment: top = %v", overlays[1].Box.Top)
	}
}

func TestBuildOverlaysDropsOutOfRangeIndices(t *testing.T) {
	group := match.Group{Indices: []int{2, 3, 9}, Score: 1}
	overlays := BuildOverlays(group, fixtureLayer(), focus.ColorBlue)
	if len(overlays) != 1 || overlays[0].FragmentIndex != 2 {
		t.Fatalf("overlays = %+v, want only fragment 2", overlays)
	}
}

func TestBuildOverlaysNilLayer(t *testing.T) {
	if overlays := BuildOverlays(match.Group{Indices: []int{0}}, nil, focus.ColorYellow); overlays != nil {
		t.Fatalf("overlays = %v, want nil", overlays)
	}
}

func TestScrollOffsetQuarterPlacement(t *testing.T) {
	// Overlay on row 40, 20-row viewport: the overlay lands 5 rows below
	// the top edge, a quarter of the way down.
	if got := ScrollOffset(40, 20, 200); got != 35 {
		t.Fatalf("offset = %d, want 35", got)
	}
}

func TestScrollOffsetNeverNegative(t *testing.T) {
	if got := ScrollOffset(2, 20, 200); got != 0 {
		t.Fatalf("offset = %d, want 0 for matches near the top", got)
	}
}

func TestScrollOffsetClampsToScrollableRange(t *testing.T) {
	if got := ScrollOffset(195, 20, 200); got != 180 {
		t.Fatalf("offset = %d, want 180 (content end)", got)
	}
	// Content shorter than the viewport never scrolls.
	if got := ScrollOffset(3, 20, 10); got != 0 {
		t.Fatalf("offset = %d, want 0 when everything fits", got)
	}
}
