package document

import (
	"sort"
	"strings"

	"github.com/ledongthuc/pdf"
)

const (
	// Glyph runs whose baselines differ by no more than this belong to the
	// same visual line.
	rowEpsilon = 2.0
	// Horizontal gap, relative to font size, beyond which two runs on the
	// same line get a separating space.
	wordGapRatio = 0.3

	fallbackFontSize = 10.0
)

// buildFragments groups raw glyph runs into line fragments in reading
// order: top of the page first, left to right within a line. Fragment
// indices are assigned after ordering, so they are dense and strictly
// increasing.
func buildFragments(texts []pdf.Text, pageWidth, pageHeight float64) []Fragment {
	if len(texts) == 0 {
		return nil
	}

	ordered := make([]pdf.Text, len(texts))
	copy(ordered, texts)
	sort.SliceStable(ordered, func(i, j int) bool {
		if diff := ordered[i].Y - ordered[j].Y; diff > rowEpsilon || diff < -rowEpsilon {
			// PDF y grows upward; larger y renders higher on the page.
			return ordered[i].Y > ordered[j].Y
		}
		return ordered[i].X < ordered[j].X
	})

	fragments := []Fragment{}
	row := []pdf.Text{ordered[0]}
	for _, text := range ordered[1:] {
		if row[0].Y-text.Y > rowEpsilon {
			fragments = appendRow(fragments, row, pageHeight)
			row = row[:0]
		}
		row = append(row, text)
	}
	fragments = appendRow(fragments, row, pageHeight)
	return fragments
}

func appendRow(fragments []Fragment, row []pdf.Text, pageHeight float64) []Fragment {
	if len(row) == 0 {
		return fragments
	}

	var b strings.Builder
	left := row[0].X
	right := row[0].X + row[0].W
	size := row[0].FontSize
	baseline := row[0].Y

	b.WriteString(row[0].S)
	for i, text := range row[1:] {
		prev := row[i]
		if text.FontSize > size {
			size = text.FontSize
		}
		if gap := text.X - (prev.X + prev.W); gap > wordGapRatio*gapFontSize(text) {
			b.WriteRune(' ')
		}
		b.WriteString(text.S)
		if edge := text.X + text.W; edge > right {
			right = edge
		}
		if text.Y < baseline {
			baseline = text.Y
		}
	}
	if size <= 0 {
		size = fallbackFontSize
	}

	raw := b.String()
	if raw == "" {
		return fragments
	}
	return append(fragments, Fragment{
		Index:   len(fragments),
		RawText: raw,
		Box: Box{
			Left:   left,
			Top:    pageHeight - baseline - size,
			Width:  right - left,
			Height: size * 1.2,
		},
	})
}

func gapFontSize(text pdf.Text) float64 {
	if text.FontSize > 0 {
		return text.FontSize
	}
	return fallbackFontSize
}
