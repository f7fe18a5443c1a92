package pdftext

import "github.com/pkg/errors"

// GenerateIndex converts the native bookmark forest into a navigable index
// tree. The returned root is a synthetic node with no link; each child
// carries an outline entry's title and its resolved link. Entries whose link
// kind is unsupported, or whose goto destination cannot be resolved, are
// dropped together with their subtree while their siblings continue; partial
// trees are valid output. The caller owns the returned tree, which holds no
// references into the source forest.
func GenerateIndex(resolver PageResolver, outline []OutlineEntry) (*IndexNode, error) {
	if resolver == nil || outline == nil {
		return nil, errors.Wrap(ErrInvalidArguments, "generating document index")
	}

	root := &IndexNode{Title: "ROOT"}
	buildIndex(resolver, outline, root)

	return root, nil
}

// buildIndex walks one sibling level depth-first, appending to parent in
// sibling order. Recursion into an entry's children happens only after the
// entry itself was kept, so a dropped entry never contributes descendants.
func buildIndex(resolver PageResolver, entries []OutlineEntry, parent *IndexNode) {
	for i := range entries {
		entry := &entries[i]

		var link *Link
		switch entry.Kind {
		case LinkKindURI:
			link = &Link{
				Kind:   LinkKindURI,
				Target: LinkTarget{URI: entry.URI},
			}
		case LinkKindGoto:
			pageNumber, err := resolver.FindPageNumber(entry.Dest)
			if err != nil {
				continue
			}
			link = &Link{
				Kind:   LinkKindGoto,
				Target: LinkTarget{PageNumber: pageNumber},
			}
		default:
			continue
		}

		node := &IndexNode{Title: entry.Title, Link: link}
		parent.Children = append(parent.Children, node)

		if len(entry.Children) > 0 {
			buildIndex(resolver, entry.Children, node)
		}
	}
}
