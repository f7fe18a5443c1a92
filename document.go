package pdftext

import (
	"github.com/klippa-app/go-pdfium"
	"github.com/klippa-app/go-pdfium/enums"
	"github.com/klippa-app/go-pdfium/references"
	"github.com/klippa-app/go-pdfium/requests"
	"github.com/klippa-app/go-pdfium/responses"
	"github.com/pkg/errors"
)

// Config controls document behavior.
type Config struct {
	// Password is used to open protected documents (default: none).
	Password string

	// EnableTimingLogs logs per-page text extraction timing (default: false).
	EnableTimingLogs bool
}

// DefaultConfig returns the default document configuration.
func DefaultConfig() Config {
	return Config{}
}

// Document wraps an open pdfium document and hands out searchable page
// models. It implements PageResolver for the goto destinations produced by
// its own outline and link adapters.
type Document struct {
	instance pdfium.Pdfium
	doc      references.FPDF_DOCUMENT
	config   Config
}

// OpenDocument opens a PDF file with the default configuration.
func OpenDocument(instance pdfium.Pdfium, filePath string) (*Document, error) {
	return OpenDocumentWithConfig(instance, filePath, DefaultConfig())
}

// OpenDocumentWithConfig opens a PDF file with a custom configuration.
func OpenDocumentWithConfig(instance pdfium.Pdfium, filePath string, config Config) (*Document, error) {
	if instance == nil || filePath == "" {
		return nil, errors.Wrap(ErrInvalidArguments, "opening document")
	}

	request := &requests.OpenDocument{
		FilePath: &filePath,
	}
	if config.Password != "" {
		request.Password = &config.Password
	}

	doc, err := instance.OpenDocument(request)
	if err != nil {
		return nil, classifyBackendError(err, "failed to open PDF document")
	}

	return &Document{
		instance: instance,
		doc:      doc.Document,
		config:   config,
	}, nil
}

// OpenDocumentBytes opens an in-memory PDF with the default configuration.
func OpenDocumentBytes(instance pdfium.Pdfium, pdfBytes []byte) (*Document, error) {
	if instance == nil || len(pdfBytes) == 0 {
		return nil, errors.Wrap(ErrInvalidArguments, "opening document")
	}

	doc, err := instance.OpenDocument(&requests.OpenDocument{
		File: &pdfBytes,
	})
	if err != nil {
		return nil, classifyBackendError(err, "failed to open PDF document")
	}

	return &Document{
		instance: instance,
		doc:      doc.Document,
		config:   DefaultConfig(),
	}, nil
}

// Close releases the underlying pdfium document.
func (d *Document) Close() error {
	if d == nil {
		return errors.Wrap(ErrInvalidArguments, "closing document")
	}
	_, err := d.instance.FPDF_CloseDocument(&requests.FPDF_CloseDocument{
		Document: d.doc,
	})
	if err != nil {
		return errors.Wrap(err, "failed to close PDF document")
	}
	return nil
}

// PageCount returns the number of pages in the document.
func (d *Document) PageCount() (int, error) {
	pageCount, err := d.instance.FPDF_GetPageCount(&requests.FPDF_GetPageCount{
		Document: d.doc,
	})
	if err != nil {
		return 0, errors.Wrap(err, "failed to get page count")
	}
	return pageCount.PageCount, nil
}

// LoadPage loads the page at the given zero-based index and returns its
// searchable model, including the page's native link annotations. Close the
// page to release its backend handle.
func (d *Document) LoadPage(index int) (*Page, error) {
	if d == nil || index < 0 {
		return nil, errors.Wrap(ErrInvalidArguments, "loading page")
	}

	pageResp, err := d.instance.FPDF_LoadPage(&requests.FPDF_LoadPage{
		Document: d.doc,
		Index:    index,
	})
	if err != nil {
		return nil, classifyBackendError(err, "failed to load page")
	}
	pageRef := pageResp.Page

	width, err := d.instance.FPDF_GetPageWidthF(&requests.FPDF_GetPageWidthF{
		Page: requests.Page{
			ByReference: &pageRef,
		},
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to get page width")
	}

	height, err := d.instance.FPDF_GetPageHeightF(&requests.FPDF_GetPageHeightF{
		Page: requests.Page{
			ByReference: &pageRef,
		},
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to get page height")
	}

	page := NewPage(index, float64(width.PageWidth), float64(height.PageHeight), &pdfiumTextSource{
		instance: d.instance,
		page:     pageRef,
	})
	page.logTiming = d.config.EnableTimingLogs
	page.closer = func() error {
		_, err := d.instance.FPDF_ClosePage(&requests.FPDF_ClosePage{
			Page: pageRef,
		})
		return err
	}

	links, err := d.pageLinks(pageRef)
	if err == nil {
		page.SetLinks(links, d)
	}

	return page, nil
}

// FindPageNumber resolves a destination reference produced by this
// document's adapters. References carry the zero-based page index pdfium
// already resolved; anything else, and negative indices, fail resolution.
func (d *Document) FindPageNumber(ref PageRef) (int, error) {
	index, ok := ref.(int)
	if !ok || index < 0 {
		return 0, errors.Wrap(ErrOperationFailed, "destination does not resolve to a page")
	}
	return index, nil
}

// Index generates the navigable document index from the PDF outline.
func (d *Document) Index() (*IndexNode, error) {
	if d == nil {
		return nil, errors.Wrap(ErrInvalidArguments, "generating document index")
	}

	bookmarks, err := d.instance.GetBookmarks(&requests.GetBookmarks{
		Document: d.doc,
	})
	if err != nil {
		return nil, classifyBackendError(err, "failed to load document outline")
	}

	return GenerateIndex(d, convertBookmarks(bookmarks.Bookmarks))
}

// convertBookmarks translates pdfium's bookmark tree into the native outline
// forest consumed by the index builder. Bookmarks without a usable action or
// destination keep LinkKindInvalid and are dropped by the builder.
func convertBookmarks(bookmarks []responses.GetBookmarksBookmark) []OutlineEntry {
	entries := make([]OutlineEntry, 0, len(bookmarks))

	for _, bookmark := range bookmarks {
		entry := OutlineEntry{
			Title: bookmark.Title,
			Kind:  LinkKindInvalid,
		}

		if bookmark.ActionInfo != nil {
			switch bookmark.ActionInfo.Type {
			case enums.FPDF_ACTION_ACTION_URI:
				if bookmark.ActionInfo.URIPath != nil {
					entry.Kind = LinkKindURI
					entry.URI = *bookmark.ActionInfo.URIPath
				}
			case enums.FPDF_ACTION_ACTION_GOTO:
				if bookmark.ActionInfo.DestInfo != nil {
					entry.Kind = LinkKindGoto
					entry.Dest = bookmark.ActionInfo.DestInfo.PageIndex
				}
			}
		} else if bookmark.DestInfo != nil {
			entry.Kind = LinkKindGoto
			entry.Dest = bookmark.DestInfo.PageIndex
		}

		entry.Children = convertBookmarks(bookmark.Children)
		entries = append(entries, entry)
	}

	return entries
}

// metadataTags are the information-dictionary entries surfaced by Metadata,
// in the order they are reported.
var metadataTags = []string{
	"Title",
	"Author",
	"Subject",
	"Keywords",
	"Creator",
	"Producer",
	"CreationDate",
	"ModDate",
}

// Metadata returns the document information dictionary entries that carry a
// value. Tags pdfium cannot read are skipped.
func (d *Document) Metadata() ([]MetadataEntry, error) {
	if d == nil {
		return nil, errors.Wrap(ErrInvalidArguments, "reading document metadata")
	}

	entries := make([]MetadataEntry, 0, len(metadataTags))
	for _, tag := range metadataTags {
		text, err := d.instance.FPDF_GetMetaText(&requests.FPDF_GetMetaText{
			Document: d.doc,
			Tag:      tag,
		})
		if err != nil || text.Value == "" {
			continue
		}
		entries = append(entries, MetadataEntry{Key: tag, Value: text.Value})
	}

	return entries, nil
}

// pageLinks enumerates the page's link annotations and translates each into
// the native PageLink form, still in PDF coordinates. Links without a
// rectangle are skipped; links without a recognizable action or destination
// keep LinkKindInvalid and are skipped later during conversion.
func (d *Document) pageLinks(pageRef references.FPDF_PAGE) ([]PageLink, error) {
	var links []PageLink

	startPos := 0
	for {
		enumerate, err := d.instance.FPDFLink_Enumerate(&requests.FPDFLink_Enumerate{
			Page: requests.Page{
				ByReference: &pageRef,
			},
			StartPos: startPos,
		})
		if err != nil {
			return nil, errors.Wrap(err, "failed to enumerate page links")
		}
		if enumerate.Link == nil || enumerate.NextStartPos == nil {
			break
		}
		startPos = *enumerate.NextStartPos
		linkRef := *enumerate.Link

		annotRect, err := d.instance.FPDFLink_GetAnnotRect(&requests.FPDFLink_GetAnnotRect{
			Link: linkRef,
		})
		if err != nil || annotRect.Rect == nil {
			continue
		}

		link := PageLink{
			Kind: LinkKindInvalid,
			Rect: Rect{
				X0: float64(annotRect.Rect.Left),
				Y0: float64(annotRect.Rect.Bottom),
				X1: float64(annotRect.Rect.Right),
				Y1: float64(annotRect.Rect.Top),
			},
		}

		if action, err := d.instance.FPDFLink_GetAction(&requests.FPDFLink_GetAction{
			Link: linkRef,
		}); err == nil && action.Action != nil {
			actionType, err := d.instance.FPDFAction_GetType(&requests.FPDFAction_GetType{
				Action: *action.Action,
			})
			if err == nil && actionType.Type == enums.FPDF_ACTION_ACTION_URI {
				uriPath, err := d.instance.FPDFAction_GetURIPath(&requests.FPDFAction_GetURIPath{
					Document: d.doc,
					Action:   *action.Action,
				})
				if err == nil && uriPath.URIPath != nil {
					link.Kind = LinkKindURI
					link.URI = *uriPath.URIPath
				}
			}
		}

		if link.Kind == LinkKindInvalid {
			if dest, err := d.instance.FPDFLink_GetDest(&requests.FPDFLink_GetDest{
				Document: d.doc,
				Link:     linkRef,
			}); err == nil && dest.Dest != nil {
				destIndex, err := d.instance.FPDFDest_GetDestPageIndex(&requests.FPDFDest_GetDestPageIndex{
					Document: d.doc,
					Dest:     *dest.Dest,
				})
				if err == nil && destIndex.Index >= 0 {
					link.Kind = LinkKindGoto
					link.Dest = destIndex.Index
				}
			}
		}

		links = append(links, link)
	}

	return links, nil
}
