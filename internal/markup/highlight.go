package markup

import (
	"context"
	"fmt"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/lexers"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

const highlightName = "highlight"

// Highlight replaces fenced code blocks (pre > code) with token-colored
// markup: a <figure data-rehype-pretty-code-figure> holding the pre/code
// pair, one <span data-line> per source line, and inline-styled token spans.
// Blocks with no or an unknown language are emitted as plaintext.
type Highlight struct {
	Style *chroma.Style
}

// NewHighlight builds the stage for the named theme.
func NewHighlight(theme string) (*Highlight, error) {
	style, err := LookupTheme(theme)
	if err != nil {
		return nil, err
	}
	return &Highlight{Style: style}, nil
}

func (*Highlight) Name() string              { return highlightName }
func (*Highlight) Phase() Phase              { return PhaseDecorate }
func (*Highlight) Dependencies() Dependencies { return Dependencies{} }

func (h *Highlight) Apply(ctx context.Context, t *Tree) error {
	style := h.Style
	if style == nil {
		style = poimandres
	}

	var blocks []*html.Node
	walk(t.Root, func(n *html.Node) bool {
		if n.Type == html.ElementNode && n.DataAtom == atom.Pre {
			if code := firstElementChild(n); code != nil && code.DataAtom == atom.Code {
				blocks = append(blocks, n)
			}
			return false
		}
		return true
	})

	for _, pre := range blocks {
		if err := ctx.Err(); err != nil {
			return err
		}
		figure, err := highlightBlock(style, pre)
		if err != nil {
			return err
		}
		pre.Parent.InsertBefore(figure, pre)
		pre.Parent.RemoveChild(pre)
	}
	return nil
}

func highlightBlock(style *chroma.Style, pre *html.Node) (*html.Node, error) {
	code := firstElementChild(pre)
	lang := codeLanguage(code)
	source := textContent(code)

	var lexer chroma.Lexer
	if lang != "" {
		lexer = lexers.Get(lang)
	} else {
		lang = "plaintext"
	}
	if lexer == nil {
		lexer = lexers.Fallback
	}
	lexer = chroma.Coalesce(lexer)

	it, err := lexer.Tokenise(nil, source)
	if err != nil {
		return nil, fmt.Errorf("tokenise %s block: %w", lang, err)
	}

	bg := style.Get(chroma.Background)
	preStyle := make([]string, 0, 2)
	if bg.Background.IsSet() {
		preStyle = append(preStyle, "background-color:"+bg.Background.String())
	}
	if bg.Colour.IsSet() {
		preStyle = append(preStyle, "color:"+bg.Colour.String())
	}

	figure := element(atom.Figure, attr("data-rehype-pretty-code-figure", ""))
	newPre := element(atom.Pre,
		attr("style", strings.Join(preStyle, ";")),
		attr("tabindex", "0"),
		attr("data-language", lang),
		attr("data-theme", style.Name),
	)
	newCode := element(atom.Code,
		attr("data-language", lang),
		attr("data-theme", style.Name),
		attr("style", "display: grid;"),
	)
	figure.AppendChild(newPre)
	newPre.AppendChild(newCode)

	lines := chroma.SplitTokensIntoLines(it.Tokens())
	if n := len(lines); n > 0 && isBlankLine(lines[n-1]) {
		lines = lines[:n-1]
	}
	for i, line := range lines {
		if i > 0 {
			newCode.AppendChild(text("\n"))
		}
		span := element(atom.Span, attr("data-line", ""))
		for _, tok := range line {
			value := strings.TrimRight(tok.Value, "\n")
			if value == "" {
				continue
			}
			span.AppendChild(tokenSpan(style, tok.Type, value))
		}
		newCode.AppendChild(span)
	}
	return figure, nil
}

func tokenSpan(style *chroma.Style, tt chroma.TokenType, value string) *html.Node {
	entry := style.Get(tt)
	var css []string
	if entry.Colour.IsSet() {
		css = append(css, "color:"+entry.Colour.String())
	}
	if entry.Bold == chroma.Yes {
		css = append(css, "font-weight:bold")
	}
	if entry.Italic == chroma.Yes {
		css = append(css, "font-style:italic")
	}
	if entry.Underline == chroma.Yes {
		css = append(css, "text-decoration:underline")
	}
	span := element(atom.Span)
	if len(css) > 0 {
		setAttr(span, "style", strings.Join(css, ";"))
	}
	span.AppendChild(text(value))
	return span
}

// codeLanguage reads the language from a "language-xxx" class.
func codeLanguage(code *html.Node) string {
	class, _ := getAttr(code, "class")
	for _, c := range strings.Fields(class) {
		if lang, ok := strings.CutPrefix(c, "language-"); ok {
			return lang
		}
	}
	return ""
}

func isBlankLine(line []chroma.Token) bool {
	for _, tok := range line {
		if strings.TrimSpace(tok.Value) != "" {
			return false
		}
	}
	return true
}

func firstElementChild(n *html.Node) *html.Node {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode {
			return c
		}
	}
	return nil
}
