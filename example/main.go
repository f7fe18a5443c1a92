package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/klippa-app/go-pdfium"
	"github.com/klippa-app/go-pdfium/webassembly"
	"github.com/urfave/cli/v3"

	"github.com/viewerkit/pdftext"
)

func main() {
	cmd := &cli.Command{
		Name:  "pdftext",
		Usage: "Search and extract text from PDF files",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "input",
				Aliases:  []string{"i"},
				Usage:    "Input PDF file path",
				Required: true,
			},
			&cli.StringFlag{
				Name:  "password",
				Usage: "Document password",
			},
		},
		Commands: []*cli.Command{
			{
				Name:  "info",
				Usage: "Print document metadata",
				Action: withDocument(func(_ *cli.Command, doc *pdftext.Document) error {
					return printInfo(doc)
				}),
			},
			{
				Name:  "search",
				Usage: "Search for a pattern and print match rectangles per page",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "pattern",
						Aliases:  []string{"p"},
						Usage:    "Text to search for",
						Required: true,
					},
				},
				Action: withDocument(func(cmd *cli.Command, doc *pdftext.Document) error {
					return searchDocument(doc, cmd.String("pattern"))
				}),
			},
			{
				Name:  "text",
				Usage: "Print the text of a page",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "page",
						Usage: "Page number (0-indexed)",
						Value: 0,
					},
				},
				Action: withDocument(func(cmd *cli.Command, doc *pdftext.Document) error {
					return printPageText(doc, cmd.Int("page"))
				}),
			},
			{
				Name:  "outline",
				Usage: "Print the document outline with resolved targets",
				Action: withDocument(func(_ *cli.Command, doc *pdftext.Document) error {
					return printOutline(doc)
				}),
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}

// withDocument initialises pdfium, opens the input document and hands it to
// the wrapped action.
func withDocument(action func(*cli.Command, *pdftext.Document) error) cli.ActionFunc {
	return func(_ context.Context, cmd *cli.Command) error {
		pool, err := webassembly.Init(webassembly.Config{
			MinIdle:  1,
			MaxIdle:  1,
			MaxTotal: 1,
		})
		if err != nil {
			return fmt.Errorf("failed to initialise pdfium: %w", err)
		}
		defer pool.Close()

		instance, err := pool.GetInstance(time.Second * 30)
		if err != nil {
			return fmt.Errorf("failed to get pdfium instance: %w", err)
		}

		doc, err := openDocument(instance, cmd)
		if err != nil {
			return err
		}
		defer doc.Close()

		return action(cmd, doc)
	}
}

func openDocument(instance pdfium.Pdfium, cmd *cli.Command) (*pdftext.Document, error) {
	config := pdftext.DefaultConfig()
	config.Password = cmd.String("password")

	doc, err := pdftext.OpenDocumentWithConfig(instance, cmd.String("input"), config)
	if err != nil {
		return nil, fmt.Errorf("failed to open document: %w", err)
	}
	return doc, nil
}

func printInfo(doc *pdftext.Document) error {
	pageCount, err := doc.PageCount()
	if err != nil {
		return err
	}
	fmt.Printf("Pages: %d\n", pageCount)

	entries, err := doc.Metadata()
	if err != nil {
		return err
	}
	for _, entry := range entries {
		fmt.Printf("%s: %s\n", entry.Key, entry.Value)
	}
	return nil
}

func searchDocument(doc *pdftext.Document, pattern string) error {
	pageCount, err := doc.PageCount()
	if err != nil {
		return err
	}

	total := 0
	for i := 0; i < pageCount; i++ {
		page, err := doc.LoadPage(i)
		if err != nil {
			return err
		}

		matches, err := page.Search(pattern)
		if err != nil {
			page.Close()
			return err
		}

		for _, rect := range matches {
			fmt.Printf("page %d: (%.2f, %.2f) - (%.2f, %.2f)\n", i, rect.X0, rect.Y0, rect.X1, rect.Y1)
		}
		total += len(matches)

		page.Close()
	}

	fmt.Fprintf(os.Stderr, "%d matches\n", total)
	return nil
}

func printPageText(doc *pdftext.Document, pageNumber int) error {
	page, err := doc.LoadPage(pageNumber)
	if err != nil {
		return err
	}
	defer page.Close()

	text, err := page.Text()
	if err != nil {
		return err
	}
	fmt.Println(text)
	return nil
}

func printOutline(doc *pdftext.Document) error {
	index, err := doc.Index()
	if err != nil {
		return err
	}
	for _, child := range index.Children {
		printIndexNode(child, 0)
	}
	return nil
}

func printIndexNode(node *pdftext.IndexNode, depth int) {
	target := ""
	if node.Link != nil {
		switch node.Link.Kind {
		case pdftext.LinkKindGoto:
			target = fmt.Sprintf(" -> page %d", node.Link.Target.PageNumber)
		case pdftext.LinkKindURI:
			target = fmt.Sprintf(" -> %s", node.Link.Target.URI)
		}
	}
	fmt.Printf("%s%s%s\n", strings.Repeat("  ", depth), node.Title, target)

	for _, child := range node.Children {
		printIndexNode(child, depth+1)
	}
}
