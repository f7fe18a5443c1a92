package pdftext

import "testing"

func charAt(r rune, x, y0, y1 float64) Char {
	return Char{Rune: r, Box: Rect{X0: x, Y0: y0, X1: x + 10, Y1: y1}}
}

func TestBuildRunsExplicitBreaks(t *testing.T) {
	chars := []Char{
		charAt('a', 0, 50, 60),
		charAt('b', 10, 50, 60),
		charAt('c', 0, 50, 60),
	}
	breaks := map[int]bool{1: true}

	runs := buildRuns(chars, breaks)
	if len(runs) != 2 {
		t.Fatalf("got %d runs, want 2", len(runs))
	}
	if !runs[0].EndsLine {
		t.Error("first run should end its line")
	}
	if runs[1].EndsLine {
		t.Error("final run should not end a line")
	}
	if len(runs[0].Chars) != 2 || len(runs[1].Chars) != 1 {
		t.Errorf("run lengths = %d, %d; want 2, 1", len(runs[0].Chars), len(runs[1].Chars))
	}
}

func TestBuildRunsGeometricBreak(t *testing.T) {
	// No explicit newline, but the third character sits on a lower line with
	// no vertical overlap.
	chars := []Char{
		charAt('a', 0, 50, 60),
		charAt('b', 10, 50, 60),
		charAt('c', 0, 20, 30),
	}

	runs := buildRuns(chars, nil)
	if len(runs) != 2 {
		t.Fatalf("got %d runs, want 2", len(runs))
	}
	if !runs[0].EndsLine {
		t.Error("line change should close the first run with EndsLine")
	}
}

func TestBuildRunsSingleLine(t *testing.T) {
	chars := []Char{
		charAt('a', 0, 50, 60),
		charAt('b', 10, 52, 58), // overlaps vertically, same line
	}

	runs := buildRuns(chars, nil)
	if len(runs) != 1 {
		t.Fatalf("got %d runs, want 1", len(runs))
	}
	if runs[0].EndsLine {
		t.Error("single-line page should not end with a virtual space")
	}
}

func TestBuildRunsEmpty(t *testing.T) {
	if runs := buildRuns(nil, nil); runs != nil {
		t.Errorf("buildRuns(nil) = %v, want nil", runs)
	}
}

func TestVerticalOverlap(t *testing.T) {
	line := Rect{X0: 0, Y0: 50, X1: 100, Y1: 60}

	if !verticalOverlap(line, Rect{X0: 0, Y0: 52, X1: 10, Y1: 58}) {
		t.Error("contained box should overlap")
	}
	if verticalOverlap(line, Rect{X0: 0, Y0: 20, X1: 10, Y1: 30}) {
		t.Error("disjoint box should not overlap")
	}
	// Zero-height boxes (some space glyphs) count as overlapping when they
	// sit inside the line band.
	if !verticalOverlap(line, Rect{X0: 0, Y0: 55, X1: 10, Y1: 55}) {
		t.Error("zero-height box inside the line should overlap")
	}
}
