package pdftext

import (
	"log"
	"strings"
	"time"

	"github.com/pkg/errors"
)

// Page is the searchable text model of a single document page.
//
// The run sequence is pulled lazily from the page's TextSource: the first
// search or extraction call performs the backend text pass exactly once and
// caches the result until the page is closed. The NotExtracted -> Extracted
// transition is the only mutation a Page performs and it is not internally
// synchronized; the host must serialize access to one page (a page-level
// lock, or confining each page to one goroutine). Distinct pages share no
// state and may be used fully in parallel.
type Page struct {
	Number int
	Width  float64
	Height float64

	source   TextSource
	resolver PageResolver
	links    []PageLink

	runs      []TextRun
	extracted bool

	logTiming bool
	closer    func() error
}

// NewPage creates a page model with the given dimensions and text source.
// The source is consulted lazily on the first search or extraction call.
func NewPage(number int, width, height float64, source TextSource) *Page {
	return &Page{
		Number: number,
		Width:  width,
		Height: height,
		source: source,
	}
}

// SetLinks attaches the page's native link annotations and the resolver used
// for goto targets. Links() returns nothing until this is called.
func (p *Page) SetLinks(links []PageLink, resolver PageResolver) {
	p.links = links
	p.resolver = resolver
}

// Close releases backend resources held by the page, if any. The cached run
// sequence is dropped with the page.
func (p *Page) Close() error {
	if p.closer == nil {
		return nil
	}
	err := p.closer()
	p.closer = nil
	return err
}

// ensureExtracted performs the one-time backend text pass. Idempotent once
// the page is in the extracted state.
func (p *Page) ensureExtracted() error {
	if p.extracted {
		return nil
	}
	if p.source == nil {
		return errors.Wrap(ErrInvalidArguments, "page has no text source")
	}

	start := time.Now()
	runs, err := p.source.TextRuns()
	if err != nil {
		return errors.Wrapf(ErrOperationFailed, "extracting page %d text: %v", p.Number, err)
	}
	if p.logTiming {
		log.Printf("page %d: extracted %d runs in %v", p.Number, len(runs), time.Since(start))
	}

	p.runs = runs
	p.extracted = true
	return nil
}

// Search finds every occurrence of pattern in the page text and returns one
// highlight rectangle per match, in device coordinates. Matching is
// case-insensitive (ASCII folding) and a space in the pattern consumes any
// run of spaces or a line break in the page text. Every virtual start index
// is probed, so overlapping occurrences of a repeated pattern each produce
// their own rectangle. A page without matches yields an empty list, not an
// error.
func (p *Page) Search(pattern string) ([]Rect, error) {
	if p == nil || pattern == "" {
		return nil, errors.Wrap(ErrInvalidArguments, "searching page text")
	}
	if err := p.ensureExtracted(); err != nil {
		return nil, err
	}

	var results []Rect

	length := runsLength(p.runs)
	for i := 0; i < length; i++ {
		var rect Rect

		match := matchRuns(p.runs, pattern, i, &rect)
		if match == 0 {
			continue
		}

		// Flip the accumulated PDF-space edges to top-down device space.
		rect.Y0, rect.Y1 = p.Height-rect.Y1, p.Height-rect.Y0

		results = append(results, rect)
	}

	return results, nil
}

// TextInRect extracts the readable text whose glyph boxes intersect region
// (device coordinates). Control characters below code point 32 are rendered
// as '?'. A line break is emitted after every line-ending run that
// contributed at least one character. Returns the empty string when nothing
// intersects the region.
func (p *Page) TextInRect(region Rect) (string, error) {
	if p == nil {
		return "", errors.Wrap(ErrInvalidArguments, "extracting page text")
	}
	if err := p.ensureExtracted(); err != nil {
		return "", err
	}

	var text strings.Builder

	for i := range p.runs {
		run := &p.runs[i]
		seen := false

		for _, ch := range run.Chars {
			c := ch.Rune
			if c < 32 {
				c = '?'
			}

			box := ch.Box
			if box.X1 >= region.X0 && box.X0 <= region.X1 &&
				(p.Height-box.Y1) >= region.Y0 && (p.Height-box.Y0) <= region.Y1 {
				text.WriteRune(c)
				seen = true
			}
		}

		if seen && run.EndsLine {
			text.WriteByte('\n')
		}
	}

	return text.String(), nil
}

// Text returns the whole page text, one line per line-ending run.
func (p *Page) Text() (string, error) {
	if p == nil {
		return "", errors.Wrap(ErrInvalidArguments, "extracting page text")
	}
	return p.TextInRect(Rect{X0: 0, Y0: 0, X1: p.Width, Y1: p.Height})
}

// Links converts the page's native link annotations into generic links:
// rectangles flipped to device coordinates, URI destinations copied, goto
// destinations resolved through the page resolver. Annotations with an
// unsupported kind or an unresolvable destination are skipped.
func (p *Page) Links() ([]Link, error) {
	if p == nil {
		return nil, errors.Wrap(ErrInvalidArguments, "listing page links")
	}

	links := make([]Link, 0, len(p.links))
	for _, native := range p.links {
		position := Rect{
			X0: native.Rect.X0,
			Y0: p.Height - native.Rect.Y1,
			X1: native.Rect.X1,
			Y1: p.Height - native.Rect.Y0,
		}

		switch native.Kind {
		case LinkKindURI:
			links = append(links, Link{
				Kind:     LinkKindURI,
				Position: position,
				Target:   LinkTarget{URI: native.URI},
			})
		case LinkKindGoto:
			if p.resolver == nil {
				continue
			}
			pageNumber, err := p.resolver.FindPageNumber(native.Dest)
			if err != nil {
				continue
			}
			links = append(links, Link{
				Kind:     LinkKindGoto,
				Position: position,
				Target:   LinkTarget{PageNumber: pageNumber},
			})
		default:
			continue
		}
	}

	return links, nil
}
