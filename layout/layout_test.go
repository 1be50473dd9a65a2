package layout

import (
	"strings"
	"testing"
)

// ---------------------------------------------------------------------------
// Row reconstruction
// ---------------------------------------------------------------------------

func TestExtractRowsTopToBottom(t *testing.T) {
	// Page height 800. Native Y grows upward, so Y=700 is near the top.
	glyphs := []Glyph{
		{Text: "ABONO", X: 10, Y: 500, W: 40},
		{Text: "FECHA", X: 10, Y: 700, W: 40},
		{Text: "CARGO", X: 10, Y: 600, W: 40},
	}

	got := Extract(glyphs, 800)
	lines := strings.Split(got, "\n")
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d: %q", len(lines), got)
	}
	want := []string{"FECHA", "CARGO", "ABONO"}
	for i, w := range want {
		if lines[i] != w {
			t.Errorf("line[%d] = %q, want %q", i, lines[i], w)
		}
	}
}

func TestExtractRowToleranceClustering(t *testing.T) {
	// Glyphs within ±3 units vertically belong to one row.
	glyphs := []Glyph{
		{Text: "15/ENE", X: 10, Y: 700, W: 30},
		{Text: "PAGO", X: 100, Y: 702, W: 25},
		{Text: "$1,500.00", X: 300, Y: 698.5, W: 50},
	}

	got := Extract(glyphs, 800)
	if strings.Contains(got, "\n") {
		t.Fatalf("expected a single row, got %q", got)
	}
	for _, tok := range []string{"15/ENE", "PAGO", "$1,500.00"} {
		if !strings.Contains(got, tok) {
			t.Errorf("row missing %q: %q", tok, got)
		}
	}
}

func TestExtractLeftToRightWithinRow(t *testing.T) {
	glyphs := []Glyph{
		{Text: "RIGHT", X: 200, Y: 100, W: 30},
		{Text: "LEFT", X: 10, Y: 100, W: 30},
		{Text: "MID", X: 100, Y: 100, W: 30},
	}

	got := Extract(glyphs, 800)
	li := strings.Index(got, "LEFT")
	mi := strings.Index(got, "MID")
	ri := strings.Index(got, "RIGHT")
	if !(li < mi && mi < ri) {
		t.Errorf("expected LEFT < MID < RIGHT ordering, got %q", got)
	}
}

// ---------------------------------------------------------------------------
// Gap spacing
// ---------------------------------------------------------------------------

func TestSpacesForGap(t *testing.T) {
	tests := []struct {
		name string
		gap  float64
		want int
	}{
		{"touching", 0, 0},
		{"overlapping", -5, 0},
		{"small_gap", 4, 1},
		{"column_gap", 40, 10},
		{"huge_gap_capped", 400, 10},
		{"rounds", 6, 2}, // 6/4 = 1.5 rounds to 2
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := spacesForGap(tt.gap); got != tt.want {
				t.Errorf("spacesForGap(%v) = %d, want %d", tt.gap, got, tt.want)
			}
		})
	}
}

func TestExtractColumnSpacing(t *testing.T) {
	// Gap of 40 units between glyph end and next glyph start = 10 spaces.
	glyphs := []Glyph{
		{Text: "CONCEPTO", X: 10, Y: 100, W: 50}, // ends at 60
		{Text: "100.00", X: 100, Y: 100, W: 30},  // gap of 40
	}

	got := Extract(glyphs, 800)
	want := "CONCEPTO" + strings.Repeat(" ", 10) + "100.00"
	if got != want {
		t.Errorf("Extract() = %q, want %q", got, want)
	}
}

// ---------------------------------------------------------------------------
// Edge cases
// ---------------------------------------------------------------------------

func TestExtractEmpty(t *testing.T) {
	if got := Extract(nil, 800); got != "" {
		t.Errorf("Extract(nil) = %q, want empty", got)
	}
	if got := Extract([]Glyph{}, 800); got != "" {
		t.Errorf("Extract(empty) = %q, want empty", got)
	}
}

func TestExtractSkipsZeroWidthGlyphs(t *testing.T) {
	glyphs := []Glyph{
		{Text: "", X: 10, Y: 100, W: 20},
		{Text: "ghost", X: 50, Y: 100, W: 0},
		{Text: "REAL", X: 100, Y: 100, W: 30},
	}

	got := Extract(glyphs, 800)
	if got != "REAL" {
		t.Errorf("Extract() = %q, want %q", got, "REAL")
	}
}

func TestExtractDeterministic(t *testing.T) {
	glyphs := []Glyph{
		{Text: "SALDO", X: 10, Y: 650, W: 35},
		{Text: "ANTERIOR", X: 60, Y: 650, W: 50},
		{Text: "12,345.67", X: 300, Y: 650, W: 55},
		{Text: "DEPOSITOS", X: 10, Y: 630, W: 60},
	}

	first := Extract(glyphs, 800)
	for i := 0; i < 5; i++ {
		if got := Extract(glyphs, 800); got != first {
			t.Fatalf("run %d differs:\n%q\nvs\n%q", i, got, first)
		}
	}
}
