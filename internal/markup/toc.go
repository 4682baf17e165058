package markup

import (
	"context"
	"strconv"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

const tocName = "toc"

// TOC collects h2/h3 headings (by default) in document order, nests each
// heading under the closest preceding shallower one, and inserts a
// <nav class="toc"> as the first node of the fragment. The entries are also
// kept on the Tree. Documents without matching headings get no nav.
type TOC struct {
	// Levels lists heading levels to include; nil means h2 and h3.
	Levels []int
}

func (TOC) Name() string  { return tocName }
func (TOC) Phase() Phase { return PhaseStructure }
func (TOC) Dependencies() Dependencies {
	return Dependencies{
		MustRunAfter:    []string{headingIDsName},
		ReadsHeadingIDs: true,
	}
}

func (s TOC) Apply(ctx context.Context, t *Tree) error {
	levels := s.Levels
	if len(levels) == 0 {
		levels = []int{2, 3}
	}
	include := make(map[int]bool, len(levels))
	for _, l := range levels {
		include[l] = true
	}

	var flat []Heading
	for _, h := range t.Headings {
		if include[h.Level] {
			flat = append(flat, h)
		}
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	t.TOC = nestHeadings(flat)
	if len(t.TOC) == 0 {
		return nil
	}

	nav := element(atom.Nav, attr("class", "toc"))
	nav.AppendChild(renderTOCList(t.TOC, 1))
	t.Root.InsertBefore(nav, t.Root.FirstChild)
	return nil
}

// nestHeadings turns a flat heading list into a tree. A heading becomes a
// child of the nearest earlier entry with a smaller level.
func nestHeadings(headings []Heading) []TOCEntry {
	var build func(i, parentLevel int) ([]TOCEntry, int)
	build = func(i, parentLevel int) ([]TOCEntry, int) {
		var out []TOCEntry
		for i < len(headings) && headings[i].Level > parentLevel {
			h := headings[i]
			entry := TOCEntry{Level: h.Level, ID: h.ID, Text: h.Text}
			entry.Children, i = build(i+1, h.Level)
			out = append(out, entry)
		}
		return out, i
	}
	entries, _ := build(0, 0)
	return entries
}

func renderTOCList(entries []TOCEntry, depth int) *html.Node {
	ol := element(atom.Ol, attr("class", "toc-level toc-level-"+strconv.Itoa(depth)))
	for _, e := range entries {
		h := "h" + strconv.Itoa(e.Level)
		li := element(atom.Li, attr("class", "toc-item toc-item-"+h))
		a := element(atom.A, attr("class", "toc-link toc-link-"+h), attr("href", "#"+e.ID))
		a.AppendChild(text(e.Text))
		li.AppendChild(a)
		if len(e.Children) > 0 {
			li.AppendChild(renderTOCList(e.Children, depth+1))
		}
		ol.AppendChild(li)
	}
	return ol
}
