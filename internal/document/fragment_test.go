package document

import (
	"testing"

	"github.com/ledongthuc/pdf"
)

func glyph(s string, x, y, w float64) pdf.Text {
	return pdf.Text{S: s, X: x, Y: y, W: w, FontSize: 12}
}

func TestBuildFragmentsOrdersTopToBottom(t *testing.T) {
	// PDF y grows upward, so the run with the largest y is the first line.
	texts := []pdf.Text{
		glyph("herein.", 72, 700, 40),
		glyph("The Parties", 72, 740, 70),
		glyph("agree to the terms", 72, 720, 110),
	}

	fragments := buildFragments(texts, 612, 792)
	if len(fragments) != 3 {
		t.Fatalf("fragment count = %d, want 3", len(fragments))
	}
	want := []string{"The Parties", "agree to the terms", "herein."}
	for i, fragment := range fragments {
		if fragment.RawText != want[i] {
			t.Fatalf("fragment %d = %q, want %q", i, fragment.RawText, want[i])
		}
		if fragment.Index != i {
			t.Fatalf("fragment index = %d, want %d (dense, increasing)", fragment.Index, i)
		}
	}
}

func TestBuildFragmentsMergesRunsOnOneLine(t *testing.T) {
	texts := []pdf.Text{
		glyph("The", 72, 740, 24),
		glyph("Parties", 104, 740, 48),
	}

	fragments := buildFragments(texts, 612, 792)
	if len(fragments) != 1 {
		t.Fatalf("fragment count = %d, want 1", len(fragments))
	}
	// Gap between the runs (104 - 96 = 8pt) exceeds the word-gap threshold,
	// so a space is inserted.
	if fragments[0].RawText != "The Parties" {
		t.Fatalf("merged text = %q, want %q", fragments[0].RawText, "The Parties")
	}
}

func TestBuildFragmentsKeepsAdjacentRunsGlued(t *testing.T) {
	// Runs split mid-word by the writer have no horizontal gap and must stay
	// glued for split-word matching to work downstream.
	texts := []pdf.Text{
		glyph("indemni", 72, 740, 45),
		glyph("fication", 117, 740, 48),
	}

	fragments := buildFragments(texts, 612, 792)
	if len(fragments) != 1 || fragments[0].RawText != "indemnification" {
		t.Fatalf("fragments = %+v, want one glued word", fragments)
	}
}

func TestBuildFragmentsBoxInPageCoordinates(t *testing.T) {
	texts := []pdf.Text{glyph("Clause", 100, 700, 50)}

	fragments := buildFragments(texts, 612, 792)
	if len(fragments) != 1 {
		t.Fatalf("fragment count = %d, want 1", len(fragments))
	}
	box := fragments[0].Box
	if box.Left != 100 {
		t.Fatalf("left = %v, want 100", box.Left)
	}
	// Top-left origin: top = pageHeight - baseline - fontSize.
	if want := 792.0 - 700 - 12; box.Top != want {
		t.Fatalf("top = %v, want %v", box.Top, want)
	}
	if box.Width != 50 {
		t.Fatalf("width = %v, want 50", box.Width)
	}
	if box.Height <= 0 {
		t.Fatalf("height = %v, want positive", box.Height)
	}
}

func TestBuildFragmentsEmptyInput(t *testing.T) {
	if fragments := buildFragments(nil, 612, 792); fragments != nil {
		t.Fatalf("fragments = %v, want nil", fragments)
	}
}

func TestRenderedLayerLookup(t *testing.T) {
	layer := &PageLayer{PageNumber: 2, Fragments: []Fragment{{Index: 0, RawText: "terms"}}}
	doc := NewRendered("msa_base", "base.pdf", 3, []*PageLayer{layer})

	if got := doc.Layer(2); got != layer {
		t.Fatalf("Layer(2) = %v, want fixture layer", got)
	}
	if doc.Layer(1) != nil {
		t.Fatal("Layer(1) should be absent")
	}
	if doc.PageText(2) != "terms" {
		t.Fatalf("PageText = %q, want %q", doc.PageText(2), "terms")
	}
	if doc.PageText(3) != "" {
		t.Fatal("PageText of an absent layer should be empty")
	}

	var nilDoc *Rendered
	if nilDoc.Layer(1) != nil {
		t.Fatal("nil document should report absent layers")
	}
}
