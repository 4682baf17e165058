package frontmatter

import (
	"bytes"
	"errors"

	"gopkg.in/yaml.v3"
)

// ErrMissingClosingDelimiter indicates the document started with a YAML
// front-matter delimiter but did not contain a closing delimiter.
var ErrMissingClosingDelimiter = errors.New("yaml front-matter start delimiter found but closing delimiter is missing")

// ErrNotMapping indicates the front-matter block parsed as YAML but is not a key/value mapping.
var ErrNotMapping = errors.New("front-matter must be a YAML mapping")

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Block is the result of splitting a content file into front-matter and body.
type Block struct {
	// Raw holds the YAML between the delimiters, without the delimiters themselves.
	Raw []byte
	// Body is everything after the closing delimiter (or the whole file when Present is false).
	Body []byte
	// Present reports whether the file opened with a front-matter delimiter.
	Present bool
	// Newline is the line ending detected from the first line ("\n" or "\r\n").
	Newline string
}

// Split separates YAML front-matter (`---` delimited) from the Markdown/MDX body.
//
// A leading UTF-8 BOM is ignored. A closing delimiter at end of file without a
// trailing newline is accepted.
func Split(content []byte) (Block, error) {
	content = bytes.TrimPrefix(content, utf8BOM)
	nl := detectNewline(content)

	open := []byte("---" + nl)
	if !bytes.HasPrefix(content, open) {
		return Block{Body: content, Newline: nl}, nil
	}

	rest := content[len(open):]
	if bytes.HasPrefix(rest, open) {
		return Block{Raw: []byte{}, Body: rest[len(open):], Present: true, Newline: nl}, nil
	}

	closeSeq := []byte(nl + "---" + nl)
	if idx := bytes.Index(rest, closeSeq); idx >= 0 {
		return Block{
			Raw:     rest[:idx+len(nl)],
			Body:    rest[idx+len(closeSeq):],
			Present: true,
			Newline: nl,
		}, nil
	}

	eofClose := []byte(nl + "---")
	if bytes.HasSuffix(rest, eofClose) {
		return Block{
			Raw:     rest[:len(rest)-len("---")],
			Body:    []byte{},
			Present: true,
			Newline: nl,
		}, nil
	}

	return Block{Newline: nl}, ErrMissingClosingDelimiter
}

// ParseYAML parses raw YAML front-matter (without --- delimiters) into a map.
// Empty input yields an empty, non-nil map.
func ParseYAML(raw []byte) (map[string]any, error) {
	if len(bytes.TrimSpace(raw)) == 0 {
		return map[string]any{}, nil
	}

	var node yaml.Node
	if err := yaml.Unmarshal(raw, &node); err != nil {
		return nil, err
	}
	if len(node.Content) == 0 {
		return map[string]any{}, nil
	}
	if node.Content[0].Kind != yaml.MappingNode {
		return nil, ErrNotMapping
	}

	fields := map[string]any{}
	if err := node.Content[0].Decode(&fields); err != nil {
		return nil, err
	}
	return fields, nil
}

func detectNewline(content []byte) string {
	if i := bytes.IndexByte(content, '\n'); i > 0 && content[i-1] == '\r' {
		return "\r\n"
	}
	return "\n"
}
