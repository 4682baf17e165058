package markup

import (
	"fmt"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/styles"
)

// DefaultTheme is the highlighting theme used when none is configured.
const DefaultTheme = "poimandres"

// poimandres approximates the Poimandres VS Code theme.
var poimandres = styles.Register(chroma.MustNewStyle(DefaultTheme, chroma.StyleEntries{
	chroma.Background:          "#a6accd bg:#1b1e28",
	chroma.Text:                "#a6accd",
	chroma.Error:               "#d0679d",
	chroma.Comment:             "italic #767c9d",
	chroma.CommentPreproc:      "#91b4d5",
	chroma.Keyword:             "#91b4d5",
	chroma.KeywordConstant:     "#5de4c7",
	chroma.KeywordType:         "#a6accd",
	chroma.KeywordDeclaration:  "#91b4d5",
	chroma.Name:                "#e4f0fb",
	chroma.NameBuiltin:         "#5de4c7",
	chroma.NameFunction:        "#add7ff",
	chroma.NameClass:           "#a6accd",
	chroma.NameConstant:        "#5de4c7",
	chroma.NameTag:             "#5de4c7",
	chroma.NameAttribute:       "#91b4d5",
	chroma.NameVariable:        "#e4f0fb",
	chroma.LiteralString:       "#5de4c7",
	chroma.LiteralStringEscape: "#fcc5e9",
	chroma.LiteralNumber:       "#5de4c7",
	chroma.Operator:            "#91b4d5",
	chroma.Punctuation:         "#a6accd",
	chroma.GenericDeleted:      "#d0679d",
	chroma.GenericInserted:     "#5de4c7",
	chroma.GenericEmph:         "italic",
	chroma.GenericStrong:       "bold",
}))

// LookupTheme returns the registered chroma style with the given name.
func LookupTheme(name string) (*chroma.Style, error) {
	if name == "" {
		return poimandres, nil
	}
	style := styles.Get(name)
	if style == nil || style.Name != name {
		return nil, fmt.Errorf("unknown highlight theme %q", name)
	}
	return style, nil
}
