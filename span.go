package pdftext

// This file implements the flattened character stream over a page's run
// sequence. Every run contributes its characters in order; a run that ends a
// visual line contributes one extra virtual space directly after its last
// character. The stream is never materialized: each lookup walks the run
// sequence from the start, so a lookup is O(runs) and a full-page search is
// O(pattern length x page length). Pages are small (thousands of
// characters), which keeps this acceptable.

// runsLength returns the virtual length of the flattened character stream:
// the sum of all run lengths plus one per line-ending run.
func runsLength(runs []TextRun) int {
	length := 0
	for i := range runs {
		length += len(runs[i].Chars)
		if runs[i].EndsLine {
			length++
		}
	}
	return length
}

// runsCharAt returns the character at the given virtual index, a space for
// the virtual position after a line-ending run, or 0 when the index is past
// the end of the stream.
func runsCharAt(runs []TextRun, index int) rune {
	offset := 0
	for i := range runs {
		run := &runs[i]
		if index < offset+len(run.Chars) {
			return run.Chars[index-offset].Rune
		}
		if run.EndsLine {
			if index == offset+len(run.Chars) {
				return ' '
			}
			offset++
		}
		offset += len(run.Chars)
	}
	return 0
}

// addMatchChar folds the bounding box of the character at the given virtual
// index into the match rectangle. The accumulation is order dependent on
// purpose: the left edge is fixed by the first character written, the right
// edge grows to the rightmost edge seen, the top edge grows monotonically,
// and the bottom edge is fixed by the first character whose bottom was
// recorded. This reproduces the highlight rectangles of the original viewer;
// it is not a plain bounding-box union. Virtual line-end spaces have no box
// and contribute nothing.
func addMatchChar(rect *Rect, runs []TextRun, index int) {
	if rect == nil {
		return
	}

	offset := 0
	for i := range runs {
		run := &runs[i]
		if index < offset+len(run.Chars) {
			box := run.Chars[index-offset].Box

			if rect.X0 == 0 {
				rect.X0 = box.X0
			}
			if box.X1 > rect.X1 {
				rect.X1 = box.X1
			}
			if box.Y1 > rect.Y1 {
				rect.Y1 = box.Y1
			}
			if rect.Y0 == 0 {
				rect.Y0 = box.Y0
			}

			return
		}

		if run.EndsLine {
			if index == offset+len(run.Chars) {
				return
			}
			offset++
		}
		offset += len(run.Chars)
	}
}

// matchRuns attempts to match pattern at the given virtual start index,
// case-insensitively with ASCII folding. When the pattern holds a literal
// space and the stream holds a space at the current position, all
// consecutive stream spaces are consumed before the pattern advances past
// that one space, so "foo bar" matches across runs of spaces and across a
// line break (the line-end virtual space). Every matched character's box is
// folded into rect as the match proceeds; on a mismatch the match aborts and
// returns 0, leaving whatever was already accumulated in rect. On success it
// returns the number of stream positions consumed, which can exceed the
// pattern length because of space-run collapsing.
func matchRuns(runs []TextRun, pattern string, start int, rect *Rect) int {
	if len(runs) == 0 || pattern == "" || rect == nil {
		return 0
	}

	n := start
	for _, c := range pattern {
		if c == ' ' && runsCharAt(runs, n) == ' ' {
			for runsCharAt(runs, n) == ' ' {
				addMatchChar(rect, runs, n)
				n++
			}
		} else {
			if asciiFold(c) != asciiFold(runsCharAt(runs, n)) {
				return 0
			}
			addMatchChar(rect, runs, n)
			n++
		}
	}

	return n - start
}

// asciiFold lowercases ASCII letters and leaves everything else untouched.
func asciiFold(r rune) rune {
	if r >= 'A' && r <= 'Z' {
		return r + ('a' - 'A')
	}
	return r
}
