package markup

// DefaultStages returns the long-form article chain: heading ids, table of
// contents, syntax highlighting and heading anchor links.
func DefaultStages(theme string) ([]Stage, error) {
	hl, err := NewHighlight(theme)
	if err != nil {
		return nil, err
	}
	return []Stage{HeadingIDs{}, TOC{}, hl, AnchorLinks{}}, nil
}

// ArticleOptions is the GFM compiler configuration with the default chain.
func ArticleOptions(theme string) (Options, error) {
	stages, err := DefaultStages(theme)
	if err != nil {
		return Options{}, err
	}
	return Options{GFM: true, Stages: stages}, nil
}

// PlainOptions compiles CommonMark with no stages.
func PlainOptions() Options {
	return Options{}
}
