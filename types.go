package pdftext

// Rect is an axis-aligned rectangle. Character boxes coming from the
// rendering backend are in PDF coordinates (origin bottom-left, Y0 bottom,
// Y1 top). Search results and extraction regions are in device coordinates
// (origin top-left, Y0 top, Y1 bottom), produced by flipping against the
// page height.
type Rect struct {
	X0 float64 // Left
	Y0 float64
	X1 float64 // Right
	Y1 float64
}

// Width returns the width of the rectangle.
func (r Rect) Width() float64 {
	return r.X1 - r.X0
}

// Height returns the height of the rectangle.
func (r Rect) Height() float64 {
	return r.Y1 - r.Y0
}

// Char is a single positioned character inside a text run.
type Char struct {
	Rune rune
	Box  Rect // PDF coordinates
}

// TextRun is one contiguous run of positioned characters emitted by the
// rendering backend, in reading order. A run with EndsLine set is the last
// run of a visual line and contributes one virtual space character to the
// page's flattened character stream, directly after its last real character.
type TextRun struct {
	Chars    []Char
	EndsLine bool
}

// LinkKind discriminates link targets.
type LinkKind int

const (
	LinkKindInvalid LinkKind = iota
	LinkKindGoto             // target is a page within the same document
	LinkKindURI              // target is an external address
)

// LinkTarget holds the destination of a link; which field is meaningful
// depends on the link kind.
type LinkTarget struct {
	URI        string
	PageNumber int // zero-based
}

// Link is a resolved, generic link as handed to the viewer host.
type Link struct {
	Kind LinkKind
	// Position of the link region on the page, device coordinates. Zero for
	// outline links, which carry no rectangle of their own.
	Position Rect
	Target   LinkTarget
}

// PageRef is an opaque reference into the document's page table, resolved to
// a page number through a PageResolver. Backends choose the concrete type.
type PageRef any

// PageResolver maps an internal destination reference to a zero-based page
// index. Resolution may fail; callers treat a failed resolution as a
// dropped link.
type PageResolver interface {
	FindPageNumber(ref PageRef) (int, error)
}

// OutlineEntry is one node of the native bookmark forest as decoded by the
// rendering backend. The builder never mutates entries; the produced index
// tree holds no references into them.
type OutlineEntry struct {
	Title    string
	Kind     LinkKind
	URI      string  // set when Kind is LinkKindURI
	Dest     PageRef // set when Kind is LinkKindGoto
	Children []OutlineEntry
}

// PageLink is one native link annotation on a page, in PDF coordinates,
// prior to conversion into a generic Link.
type PageLink struct {
	Kind LinkKind
	Rect Rect // PDF coordinates
	URI  string
	Dest PageRef
}

// IndexNode is a node of the generated document index. The root node is a
// synthetic placeholder with no link; every other node carries the outline
// entry's title and its resolved link.
type IndexNode struct {
	Title    string
	Link     *Link
	Children []*IndexNode
}

// TextSource produces the positioned text runs for one page. It is invoked
// at most once per page; the page caches the result for its lifetime.
type TextSource interface {
	TextRuns() ([]TextRun, error)
}

// MetadataEntry is one entry of the document information dictionary.
type MetadataEntry struct {
	Key   string
	Value string
}
