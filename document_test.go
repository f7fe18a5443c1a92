package pdftext_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/klippa-app/go-pdfium"
	"github.com/klippa-app/go-pdfium/webassembly"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/viewerkit/pdftext"
)

// setupPDFium initialises a pdfium instance for testing.
func setupPDFium(t *testing.T) pdfium.Pdfium {
	t.Helper()

	pool, err := webassembly.Init(webassembly.Config{
		MinIdle:  1,
		MaxIdle:  1,
		MaxTotal: 1,
	})
	require.NoError(t, err)

	t.Cleanup(func() {
		pool.Close()
	})

	instance, err := pool.GetInstance(time.Second * 30)
	require.NoError(t, err)

	return instance
}

// openTestDocument opens testdata/sample.pdf, skipping when it is absent.
func openTestDocument(t *testing.T) *pdftext.Document {
	t.Helper()

	testPDFPath := filepath.Join("testdata", "sample.pdf")
	if _, err := os.Stat(testPDFPath); os.IsNotExist(err) {
		t.Skip("Test PDF not found, skipping test")
	}

	instance := setupPDFium(t)
	doc, err := pdftext.OpenDocument(instance, testPDFPath)
	require.NoError(t, err)

	t.Cleanup(func() {
		doc.Close()
	})

	return doc
}

func TestDocumentPageCount(t *testing.T) {
	doc := openTestDocument(t)

	count, err := doc.PageCount()
	require.NoError(t, err)
	assert.Greater(t, count, 0)
}

func TestDocumentSearch(t *testing.T) {
	doc := openTestDocument(t)

	page, err := doc.LoadPage(0)
	require.NoError(t, err)
	defer page.Close()

	text, err := page.Text()
	require.NoError(t, err)
	require.NotEmpty(t, text)

	t.Logf("page 0 text:\n%s", text)

	matches, err := page.Search(text[:3])
	require.NoError(t, err)
	assert.NotEmpty(t, matches, "the page's own leading text must be found")

	for _, rect := range matches {
		assert.LessOrEqual(t, rect.Y0, rect.Y1, "device rectangles run top-down")
	}
}

func TestDocumentMetadata(t *testing.T) {
	doc := openTestDocument(t)

	entries, err := doc.Metadata()
	require.NoError(t, err)

	for _, entry := range entries {
		t.Logf("%s: %s", entry.Key, entry.Value)
		assert.NotEmpty(t, entry.Key)
		assert.NotEmpty(t, entry.Value)
	}
}

func TestDocumentIndex(t *testing.T) {
	doc := openTestDocument(t)

	index, err := doc.Index()
	require.NoError(t, err)
	require.NotNil(t, index)

	assert.Equal(t, "ROOT", index.Title)
	assert.Nil(t, index.Link)
}

func TestDocumentInvalidArguments(t *testing.T) {
	_, err := pdftext.OpenDocument(nil, "whatever.pdf")
	assert.ErrorIs(t, err, pdftext.ErrInvalidArguments)
}
