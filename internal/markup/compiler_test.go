package markup

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func articleCompiler(t *testing.T) *Compiler {
	t.Helper()
	opts, err := ArticleOptions(DefaultTheme)
	require.NoError(t, err)
	c, err := NewCompiler(opts)
	require.NoError(t, err)
	return c
}

func TestCompile_Plain(t *testing.T) {
	c, err := NewCompiler(PlainOptions())
	require.NoError(t, err)

	got, err := c.Compile(context.Background(), "# Title\n\nSome *text*.\n")
	require.NoError(t, err)
	assert.Equal(t, "<h1>Title</h1>\n<p>Some <em>text</em>.</p>\n", got.HTML)
	assert.Empty(t, got.TOC)
	assert.Empty(t, got.Headings)
}

func TestCompile_DuplicateHeadings(t *testing.T) {
	c := articleCompiler(t)

	got, err := c.Compile(context.Background(), "## Setup\n\nfirst\n\n## Setup\n\nsecond\n")
	require.NoError(t, err)

	require.Len(t, got.Headings, 2)
	assert.Equal(t, "setup", got.Headings[0].ID)
	assert.Equal(t, "setup-1", got.Headings[1].ID)
	assert.Contains(t, got.HTML, `<h2 id="setup">Setup<a href="#setup" class="`+AnchorLinkClass+`">`)
	assert.Contains(t, got.HTML, `<h2 id="setup-1">Setup<a href="#setup-1"`)
}

func TestCompile_TOC(t *testing.T) {
	c := articleCompiler(t)

	body := "# Title\n\n## Install\n\n### Linux\n\n### macOS\n\n## Usage\n\n#### Deep\n"
	got, err := c.Compile(context.Background(), body)
	require.NoError(t, err)

	require.Len(t, got.TOC, 2)
	assert.Equal(t, "install", got.TOC[0].ID)
	assert.Equal(t, "Install", got.TOC[0].Text)
	require.Len(t, got.TOC[0].Children, 2)
	assert.Equal(t, "linux", got.TOC[0].Children[0].ID)
	assert.Equal(t, "macos", got.TOC[0].Children[1].ID)
	assert.Equal(t, "usage", got.TOC[1].ID)
	assert.Empty(t, got.TOC[1].Children)

	assert.True(t, strings.HasPrefix(got.HTML, `<nav class="toc"><ol class="toc-level toc-level-1">`), got.HTML)
	assert.Contains(t, got.HTML, `<a class="toc-link toc-link-h2" href="#install">Install</a>`)
	assert.Contains(t, got.HTML, `<ol class="toc-level toc-level-2">`)
	assert.NotContains(t, got.HTML, `href="#deep">Deep</a>`)
}

func TestCompile_NoHeadingsNoNav(t *testing.T) {
	c := articleCompiler(t)

	got, err := c.Compile(context.Background(), "Just a paragraph.\n")
	require.NoError(t, err)
	assert.Equal(t, "<p>Just a paragraph.</p>\n", got.HTML)
	assert.Nil(t, got.TOC)
}

func TestCompile_KeepsExistingIDs(t *testing.T) {
	c := articleCompiler(t)

	got, err := c.Compile(context.Background(), "<h2 id=\"setup\">Custom</h2>\n\n## Setup\n")
	require.NoError(t, err)
	require.Len(t, got.Headings, 2)
	assert.Equal(t, "setup", got.Headings[0].ID)
	assert.Equal(t, "setup-1", got.Headings[1].ID)
}

func TestCompile_Highlight(t *testing.T) {
	c := articleCompiler(t)

	got, err := c.Compile(context.Background(), "```go\npackage main\n\nfunc main() {}\n```\n")
	require.NoError(t, err)

	assert.Contains(t, got.HTML, `<figure data-rehype-pretty-code-figure="">`)
	assert.Contains(t, got.HTML, `data-language="go"`)
	assert.Contains(t, got.HTML, `data-theme="poimandres"`)
	assert.Contains(t, got.HTML, `background-color:#1b1e28`)
	assert.Contains(t, got.HTML, `color:#91b4d5`)
	assert.Equal(t, 3, strings.Count(got.HTML, `<span data-line="">`))
	assert.NotContains(t, got.HTML, `class="language-go"`)
}

func TestCompile_HighlightUnknownLanguage(t *testing.T) {
	c := articleCompiler(t)

	got, err := c.Compile(context.Background(), "```nosuchlang\nhello\n```\n\n```\nplain\n```\n")
	require.NoError(t, err)
	assert.Contains(t, got.HTML, `data-language="nosuchlang"`)
	assert.Contains(t, got.HTML, `data-language="plaintext"`)
	assert.Contains(t, got.HTML, `hello`)
}

func TestCompile_InlineHTMLPassesThrough(t *testing.T) {
	c := articleCompiler(t)

	got, err := c.Compile(context.Background(), "<div class=\"callout\">Note</div>\n\n| a | b |\n|---|---|\n| 1 | 2 |\n")
	require.NoError(t, err)
	assert.Contains(t, got.HTML, `<div class="callout">Note</div>`)
	assert.Contains(t, got.HTML, `<table>`)
}

func TestCompile_StageFailure(t *testing.T) {
	boom := errors.New("boom")
	c, err := NewCompiler(Options{Stages: []Stage{
		mockStage{name: "explode", phase: PhaseSlug, apply: func(*Tree) error { return boom }},
	}})
	require.NoError(t, err)

	_, err = c.Compile(context.Background(), "text")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrCompile)
	assert.ErrorIs(t, err, boom)

	var ce *CompileError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, "explode", ce.Stage)
}

func TestCompile_StagePanic(t *testing.T) {
	c, err := NewCompiler(Options{Stages: []Stage{
		mockStage{name: "panicky", phase: PhaseSlug, apply: func(*Tree) error { panic("bad tree") }},
	}})
	require.NoError(t, err)

	_, err = c.Compile(context.Background(), "text")
	require.ErrorIs(t, err, ErrCompile)
	assert.Contains(t, err.Error(), "bad tree")
}

func TestCompile_Cancelled(t *testing.T) {
	c := articleCompiler(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.Compile(ctx, "## Heading\n")
	require.ErrorIs(t, err, context.Canceled)
}

func TestCompile_ObservesStages(t *testing.T) {
	opts, err := ArticleOptions("")
	require.NoError(t, err)
	var seen []string
	opts.Observe = func(stage string, _ time.Duration) { seen = append(seen, stage) }

	c, err := NewCompiler(opts)
	require.NoError(t, err)
	_, err = c.Compile(context.Background(), "## A\n")
	require.NoError(t, err)
	assert.Equal(t, []string{"heading_ids", "toc", "highlight", "anchor_links"}, seen)
}

func TestNewCompiler_RejectsBadChain(t *testing.T) {
	_, err := NewCompiler(Options{Stages: []Stage{AnchorLinks{}}})
	require.Error(t, err)
}

func TestLookupTheme(t *testing.T) {
	style, err := LookupTheme("")
	require.NoError(t, err)
	assert.Equal(t, DefaultTheme, style.Name)

	_, err = LookupTheme("definitely-not-a-theme")
	require.Error(t, err)
}

func TestCompile_TOCFollowsDocumentOrder(t *testing.T) {
	c := articleCompiler(t)
	properties := gopter.NewProperties(nil)

	properties.Property("flattened toc matches h2/h3 order", prop.ForAll(
		func(levels []int) bool {
			var sb strings.Builder
			var want []string
			for i, l := range levels {
				title := "Heading " + string(rune('a'+i%26))
				sb.WriteString(strings.Repeat("#", l) + " " + title + "\n\n")
				if l == 2 || l == 3 {
					want = append(want, title)
				}
			}
			got, err := c.Compile(context.Background(), sb.String())
			if err != nil {
				return false
			}
			var flat []string
			var visit func([]TOCEntry)
			visit = func(es []TOCEntry) {
				for _, e := range es {
					flat = append(flat, e.Text)
					visit(e.Children)
				}
			}
			visit(got.TOC)
			if len(flat) != len(want) {
				return false
			}
			for i := range want {
				if flat[i] != want[i] {
					return false
				}
			}
			ids := make(map[string]bool)
			for _, h := range got.Headings {
				if ids[h.ID] {
					return false
				}
				ids[h.ID] = true
			}
			return true
		},
		gen.SliceOfN(12, gen.IntRange(1, 4)),
	))

	properties.TestingRun(t)
}
