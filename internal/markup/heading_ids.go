package markup

import (
	"context"
	"strings"

	"golang.org/x/net/html"
)

const headingIDsName = "heading_ids"

// HeadingIDs gives every heading without an id a unique slug derived from
// its text. Existing ids are kept and reserved so derived ids never collide
// with them.
type HeadingIDs struct{}

func (HeadingIDs) Name() string              { return headingIDsName }
func (HeadingIDs) Phase() Phase              { return PhaseSlug }
func (HeadingIDs) Dependencies() Dependencies { return Dependencies{} }

func (HeadingIDs) Apply(ctx context.Context, t *Tree) error {
	slugger := NewSlugger()

	var headings []*html.Node
	walk(t.Root, func(n *html.Node) bool {
		if headingLevel(n) > 0 {
			headings = append(headings, n)
			if id, ok := getAttr(n, "id"); ok && id != "" {
				slugger.Reserve(id)
			}
			return false
		}
		return true
	})

	t.Headings = t.Headings[:0]
	for _, n := range headings {
		if err := ctx.Err(); err != nil {
			return err
		}
		txt := textContent(n)
		id, ok := getAttr(n, "id")
		if !ok || id == "" {
			id = slugger.Slug(txt)
			setAttr(n, "id", id)
		}
		t.Headings = append(t.Headings, Heading{
			Level: headingLevel(n),
			ID:    id,
			Text:  strings.TrimSpace(txt),
		})
	}
	return nil
}
