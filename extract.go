package pdftext

import (
	"math"

	"github.com/klippa-app/go-pdfium"
	"github.com/klippa-app/go-pdfium/references"
	"github.com/klippa-app/go-pdfium/requests"
	"github.com/pkg/errors"
)

// pdfiumTextSource extracts the positioned text runs for one page through a
// pdfium instance. It implements TextSource for pages created by Document.
type pdfiumTextSource struct {
	instance pdfium.Pdfium
	page     references.FPDF_PAGE
}

// TextRuns loads the page's text layer and groups its characters into
// line-runs. Character boxes stay in PDF coordinates; the page model flips
// them on output.
func (s *pdfiumTextSource) TextRuns() ([]TextRun, error) {
	textPage, err := s.instance.FPDFText_LoadPage(&requests.FPDFText_LoadPage{
		Page: requests.Page{
			ByReference: &s.page,
		},
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to load text page")
	}
	defer s.instance.FPDFText_ClosePage(&requests.FPDFText_ClosePage{
		TextPage: textPage.TextPage,
	})

	charCount, err := s.instance.FPDFText_CountChars(&requests.FPDFText_CountChars{
		TextPage: textPage.TextPage,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to count characters")
	}
	if charCount.Count == 0 {
		return nil, nil
	}

	chars, breaks, err := extractChars(s.instance, textPage.TextPage, charCount.Count)
	if err != nil {
		return nil, errors.Wrap(err, "failed to extract characters")
	}

	return buildRuns(chars, breaks), nil
}

// extractChars pulls every character's code point and bounding box from the
// text page. Explicit newline characters carry no useful box; they are
// recorded as line breaks (by index into the returned chars) instead of as
// characters.
func extractChars(instance pdfium.Pdfium, textPage references.FPDF_TEXTPAGE, count int) ([]Char, map[int]bool, error) {
	chars := make([]Char, 0, count)
	breaks := make(map[int]bool)

	for i := range count {
		unicodeRes, err := instance.FPDFText_GetUnicode(&requests.FPDFText_GetUnicode{
			TextPage: textPage,
			Index:    i,
		})
		if err != nil || unicodeRes.Unicode == 0 {
			continue
		}

		r := rune(unicodeRes.Unicode)
		if r == '\r' {
			continue
		}
		if r == '\n' {
			if len(chars) > 0 {
				breaks[len(chars)-1] = true
			}
			continue
		}

		charBox, err := instance.FPDFText_GetCharBox(&requests.FPDFText_GetCharBox{
			TextPage: textPage,
			Index:    i,
		})
		if err != nil {
			continue
		}

		chars = append(chars, Char{
			Rune: r,
			Box: Rect{
				X0: charBox.Left,
				Y0: charBox.Bottom,
				X1: charBox.Right,
				Y1: charBox.Top,
			},
		})
	}

	return chars, breaks, nil
}

// buildRuns groups consecutive characters into runs, closing a run with
// EndsLine at every explicit line break and at every geometric line change
// (no vertical overlap between a character and the running line box). The
// final run never ends a line, so a page contributes no trailing virtual
// space.
func buildRuns(chars []Char, breaks map[int]bool) []TextRun {
	if len(chars) == 0 {
		return nil
	}

	var runs []TextRun
	var current []Char
	var lineBox Rect

	flush := func(endsLine bool) {
		if len(current) == 0 {
			return
		}
		runs = append(runs, TextRun{Chars: current, EndsLine: endsLine})
		current = nil
	}

	for i, ch := range chars {
		if len(current) > 0 && !verticalOverlap(lineBox, ch.Box) {
			flush(true)
		}

		if len(current) == 0 {
			lineBox = ch.Box
		} else {
			lineBox.Y0 = math.Min(lineBox.Y0, ch.Box.Y0)
			lineBox.Y1 = math.Max(lineBox.Y1, ch.Box.Y1)
		}
		current = append(current, ch)

		if breaks[i] {
			flush(true)
		}
	}
	flush(false)

	if len(runs) > 0 {
		runs[len(runs)-1].EndsLine = false
	}

	return runs
}

// verticalOverlap reports whether a character box shares at least 30% of the
// smaller height with the running line box, the same visual-line test the
// word grouping of the layout analysis uses.
func verticalOverlap(line, box Rect) bool {
	overlap := math.Min(line.Y1, box.Y1) - math.Max(line.Y0, box.Y0)
	minHeight := math.Min(line.Height(), box.Height())
	if minHeight <= 0 {
		return overlap >= 0
	}
	return overlap > minHeight*0.3
}
