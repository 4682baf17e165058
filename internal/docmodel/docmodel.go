package docmodel

import (
	"os"
	"path"
	"path/filepath"
	"strings"

	"git.home.luguber.info/inful/collectionbuilder/internal/foundation/errors"
	"git.home.luguber.info/inful/collectionbuilder/internal/frontmatter"
	"git.home.luguber.info/inful/collectionbuilder/internal/schema"
)

// ContentDocument is one raw content file: front-matter plus body, identified by its
// path relative to the collection directory.
type ContentDocument struct {
	// Collection is the name of the collection the file was discovered for.
	Collection string
	// Path is the slash-separated path relative to the collection directory, without extension.
	Path string
	// FileName is the base name including extension.
	FileName string
	// Directory is the slash-separated directory relative to the collection directory ("" at top level).
	Directory string
	// Extension includes the leading dot.
	Extension string
	// FilePath is the location on disk.
	FilePath string

	FrontMatter map[string]any
	// RawFrontMatter is the YAML between the delimiters.
	RawFrontMatter []byte
	Body           string
}

// Meta locates a document: which collection, the collection root directory, and the file.
type Meta struct {
	Collection string
	Root       string
	FilePath   string
}

// Parse splits raw file content into front-matter and body and parses the front-matter.
//
// Unreadable front-matter is reported as a *schema.Violation on the pseudo-field
// "front-matter", since such a document can never satisfy its schema.
func Parse(content []byte, meta Meta) (*ContentDocument, error) {
	doc, err := newDocument(meta)
	if err != nil {
		return nil, err
	}

	block, err := frontmatter.Split(content)
	if err != nil {
		return nil, frontMatterError(doc, "closed --- block", "unterminated block", err)
	}

	fields, err := frontmatter.ParseYAML(block.Raw)
	if err != nil {
		return nil, frontMatterError(doc, "YAML mapping", "invalid YAML", err)
	}

	doc.FrontMatter = fields
	doc.RawFrontMatter = append([]byte(nil), block.Raw...)
	doc.Body = string(block.Body)
	return doc, nil
}

// ParseFile reads meta.FilePath from disk and parses it.
func ParseFile(meta Meta) (*ContentDocument, error) {
	// #nosec G304 -- paths come from collection discovery under the configured content root.
	content, err := os.ReadFile(meta.FilePath)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryFileSystem, "failed to read document").
			WithContext("path", meta.FilePath).
			Build()
	}
	return Parse(content, meta)
}

func newDocument(meta Meta) (*ContentDocument, error) {
	rel, err := filepath.Rel(meta.Root, meta.FilePath)
	if err != nil || strings.HasPrefix(rel, "..") {
		return nil, errors.FileSystemError("document is outside its collection directory").
			WithContext("root", meta.Root).
			WithContext("path", meta.FilePath).
			Build()
	}
	rel = filepath.ToSlash(rel)

	name := path.Base(rel)
	ext := path.Ext(name)
	dir := path.Dir(rel)
	if dir == "." {
		dir = ""
	}

	return &ContentDocument{
		Collection: meta.Collection,
		Path:       strings.TrimSuffix(rel, ext),
		FileName:   name,
		Directory:  dir,
		Extension:  ext,
		FilePath:   meta.FilePath,
	}, nil
}

func frontMatterError(doc *ContentDocument, expected, got string, cause error) error {
	violation := &schema.Violation{
		Schema:   doc.Collection,
		Field:    "front-matter",
		Expected: expected,
		Got:      got,
		Err:      cause,
	}
	return errors.WrapError(violation, errors.CategorySchema, "failed to parse front-matter").
		WithContext("path", doc.Path).
		Build()
}
