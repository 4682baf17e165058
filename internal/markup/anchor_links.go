package markup

import (
	"context"
	"strings"
	"sync"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

const anchorLinksName = "anchor_links"

// AnchorLinkClass is the class list of the injected heading anchors.
const AnchorLinkClass = "relative mt-[12px] left-[10px] anchor-link"

const linkIconSVG = `<svg width="16" height="16" viewBox="0 0 24 24"><path fill="currentcolor" d="m12.11 15.39-3.88 3.88a2.52 2.52 0 0 1-3.5 0 2.47 2.47 0 0 1 0-3.5l3.88-3.88a1 1 0 0 0-1.42-1.42l-3.88 3.89a4.48 4.48 0 0 0 6.33 6.33l3.89-3.88a1 1 0 1 0-1.42-1.42Zm8.58-12.08a4.49 4.49 0 0 0-6.33 0l-3.89 3.88a1 1 0 0 0 1.42 1.42l3.88-3.88a2.52 2.52 0 0 1 3.5 0 2.47 2.47 0 0 1 0 3.5l-3.88 3.88a1 1 0 1 0 1.42 1.42l3.88-3.89a4.49 4.49 0 0 0 0-6.33ZM8.83 15.17a1 1 0 0 0 1.1.22 1 1 0 0 0 .32-.22l4.92-4.92a1 1 0 0 0-1.42-1.42l-4.92 4.92a1 1 0 0 0 0 1.42Z"></path></svg>`

var (
	linkIconOnce sync.Once
	linkIcon     *html.Node
	linkIconErr  error
)

// icon returns the parsed link icon. It is parsed once and cloned per use.
func icon() (*html.Node, error) {
	linkIconOnce.Do(func() {
		ctx := &html.Node{Type: html.ElementNode, Data: "a", DataAtom: atom.A}
		nodes, err := html.ParseFragment(strings.NewReader(linkIconSVG), ctx)
		if err != nil {
			linkIconErr = err
			return
		}
		if len(nodes) > 0 {
			linkIcon = nodes[0]
		}
	})
	return linkIcon, linkIconErr
}

// AnchorLinks appends a self-link with a link icon to every heading that has
// an id.
type AnchorLinks struct{}

func (AnchorLinks) Name() string  { return anchorLinksName }
func (AnchorLinks) Phase() Phase { return PhaseDecorate }
func (AnchorLinks) Dependencies() Dependencies {
	return Dependencies{
		MustRunAfter:      []string{headingIDsName},
		RunAfterIfPresent: []string{highlightName},
		ReadsHeadingIDs:   true,
		ModifiesHeadings:  true,
	}
}

func (AnchorLinks) Apply(ctx context.Context, t *Tree) error {
	svg, err := icon()
	if err != nil {
		return err
	}
	var headings []*html.Node
	walk(t.Root, func(n *html.Node) bool {
		if headingLevel(n) > 0 {
			if id, ok := getAttr(n, "id"); ok && id != "" {
				headings = append(headings, n)
			}
			return false
		}
		return true
	})
	for _, h := range headings {
		if err := ctx.Err(); err != nil {
			return err
		}
		id, _ := getAttr(h, "id")
		a := element(atom.A, attr("href", "#"+id), attr("class", AnchorLinkClass))
		if svg != nil {
			a.AppendChild(cloneNode(svg))
		}
		h.AppendChild(a)
	}
	return nil
}
