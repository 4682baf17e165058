package docmodel

import (
	"os"
	"path/filepath"
	"testing"

	"git.home.luguber.info/inful/collectionbuilder/internal/foundation/errors"
	"git.home.luguber.info/inful/collectionbuilder/internal/frontmatter"
	"git.home.luguber.info/inful/collectionbuilder/internal/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func meta(rel string) Meta {
	root := filepath.FromSlash("/content/blog")
	return Meta{Collection: "posts", Root: root, FilePath: filepath.Join(root, filepath.FromSlash(rel))}
}

func TestParse_SplitsAndDerivesMeta(t *testing.T) {
	doc, err := Parse([]byte("---\ntitle: Hello\n---\n# Body\n"), meta("2024-03-01-hello.mdx"))
	require.NoError(t, err)

	assert.Equal(t, "posts", doc.Collection)
	assert.Equal(t, "2024-03-01-hello", doc.Path)
	assert.Equal(t, "2024-03-01-hello.mdx", doc.FileName)
	assert.Equal(t, ".mdx", doc.Extension)
	assert.Empty(t, doc.Directory)
	assert.Equal(t, "Hello", doc.FrontMatter["title"])
	assert.Equal(t, "title: Hello\n", string(doc.RawFrontMatter))
	assert.Equal(t, "# Body\n", doc.Body)
}

func TestParse_NestedPathUsesForwardSlashes(t *testing.T) {
	doc, err := Parse([]byte("body"), meta("2024/intro.mdx"))
	require.NoError(t, err)
	assert.Equal(t, "2024/intro", doc.Path)
	assert.Equal(t, "2024", doc.Directory)
	assert.Empty(t, doc.FrontMatter)
}

func TestParse_MissingClosingDelimiter_IsSchemaViolation(t *testing.T) {
	_, err := Parse([]byte("---\ntitle: x\n# body\n"), meta("a.mdx"))
	require.Error(t, err)
	require.ErrorIs(t, err, frontmatter.ErrMissingClosingDelimiter)
	require.ErrorIs(t, err, schema.ErrSchemaViolation)
	assert.True(t, errors.HasCategory(err, errors.CategorySchema))

	var v *schema.Violation
	require.ErrorAs(t, err, &v)
	assert.Equal(t, "front-matter", v.Field)
}

func TestParse_InvalidYAML_IsSchemaViolation(t *testing.T) {
	_, err := Parse([]byte("---\ntitle: [x\n---\nbody"), meta("a.mdx"))
	require.ErrorIs(t, err, schema.ErrSchemaViolation)
}

func TestParse_OutsideRoot(t *testing.T) {
	_, err := Parse([]byte("x"), Meta{Collection: "posts", Root: "/content/blog", FilePath: "/content/job/a.mdx"})
	require.Error(t, err)
	assert.True(t, errors.HasCategory(err, errors.CategoryFileSystem))
	assert.False(t, errors.HasSeverity(err, errors.SeverityFatal))
}

func TestParseFile(t *testing.T) {
	root := t.TempDir()
	file := filepath.Join(root, "acme.mdx")
	require.NoError(t, os.WriteFile(file, []byte("---\ncompany_name: Acme\n---\nHi\n"), 0o600))

	doc, err := ParseFile(Meta{Collection: "customers", Root: root, FilePath: file})
	require.NoError(t, err)
	assert.Equal(t, "acme", doc.Path)
	assert.Equal(t, "Acme", doc.FrontMatter["company_name"])
	assert.Equal(t, file, doc.FilePath)
}

func TestParseFile_Missing(t *testing.T) {
	root := t.TempDir()
	_, err := ParseFile(Meta{Collection: "customers", Root: root, FilePath: filepath.Join(root, "nope.mdx")})
	require.Error(t, err)
	assert.True(t, errors.HasCategory(err, errors.CategoryFileSystem))
}
