// Package layout reconstructs reading-order text from positioned glyphs.
//
// Bank statements are column-heavy: dates, concepts and amounts live in
// separate columns whose alignment carries meaning. The native text layer of
// a PDF hands back glyphs in content-stream order, which rarely matches
// visual order, so rows are rebuilt from glyph coordinates and horizontal
// gaps are rendered as proportional spacing to keep columns recognizable.
package layout

import (
	"math"
	"sort"
	"strings"
)

// Glyph is one positioned text run from a page's native content stream.
// X and Y are in PDF user-space units (Y grows upward), W is the run width.
type Glyph struct {
	Text string
	X    float64
	Y    float64
	W    float64
}

const (
	// rowTolerance is the vertical band (in user-space units) within which
	// glyphs are considered to be on the same visual line.
	rowTolerance = 3.0

	// gapUnitsPerSpace converts a horizontal gap into space characters.
	gapUnitsPerSpace = 4.0

	// maxGapSpaces caps column padding so huge gaps don't blow up lines.
	maxGapSpaces = 10
)

type row struct {
	y      float64
	glyphs []Glyph
}

// Extract rebuilds page text from glyphs. pageHeight converts native
// bottom-up Y coordinates into top-down reading order. Output is
// deterministic for a fixed glyph set; an empty glyph set yields "".
func Extract(glyphs []Glyph, pageHeight float64) string {
	// Zero-width or empty glyphs carry no visual content and must not
	// start a row or affect spacing.
	kept := make([]Glyph, 0, len(glyphs))
	for _, g := range glyphs {
		if g.Text == "" || g.W <= 0 {
			continue
		}
		g.Y = pageHeight - g.Y
		kept = append(kept, g)
	}
	if len(kept) == 0 {
		return ""
	}

	sort.SliceStable(kept, func(i, j int) bool { return kept[i].Y < kept[j].Y })

	// Greedy row assignment: each glyph joins the first row whose
	// representative Y is within tolerance, else opens a new row.
	var rows []*row
	for _, g := range kept {
		placed := false
		for _, r := range rows {
			if math.Abs(r.y-g.Y) <= rowTolerance {
				r.glyphs = append(r.glyphs, g)
				placed = true
				break
			}
		}
		if !placed {
			rows = append(rows, &row{y: g.Y, glyphs: []Glyph{g}})
		}
	}

	var b strings.Builder
	for i, r := range rows {
		if i > 0 {
			b.WriteByte('\n')
		}
		sort.SliceStable(r.glyphs, func(a, c int) bool { return r.glyphs[a].X < r.glyphs[c].X })
		writeRow(&b, r.glyphs)
	}
	return b.String()
}

func writeRow(b *strings.Builder, glyphs []Glyph) {
	prevEnd := math.Inf(-1)
	for i, g := range glyphs {
		if i > 0 {
			gap := g.X - prevEnd
			b.WriteString(strings.Repeat(" ", spacesForGap(gap)))
		}
		b.WriteString(g.Text)
		prevEnd = g.X + g.W
	}
}

func spacesForGap(gap float64) int {
	if gap <= 0 {
		return 0
	}
	n := int(math.Round(gap / gapUnitsPerSpace))
	if n > maxGapSpaces {
		return maxGapSpaces
	}
	return n
}
