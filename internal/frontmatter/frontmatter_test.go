package frontmatter

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSplit_NoFrontmatter_ReturnsBodyOnly(t *testing.T) {
	input := []byte("# Title\n\nHello\n")

	block, err := Split(input)
	require.NoError(t, err)
	require.False(t, block.Present)
	require.Empty(t, block.Raw)
	require.Equal(t, input, block.Body)
}

func TestSplit_YAMLFrontmatter_SplitsFrontmatterAndBody(t *testing.T) {
	block, err := Split([]byte("---\ntitle: Hello\n---\n# Title\n"))
	require.NoError(t, err)
	require.True(t, block.Present)
	require.Equal(t, []byte("title: Hello\n"), block.Raw)
	require.Equal(t, []byte("# Title\n"), block.Body)
	require.Equal(t, "\n", block.Newline)
}

func TestSplit_MissingClosingDelimiter_ReturnsError(t *testing.T) {
	_, err := Split([]byte("---\ntitle: Hello\n# Title\n"))
	require.Error(t, err)
	require.True(t, errors.Is(err, ErrMissingClosingDelimiter))
}

func TestSplit_CRLF_SplitsFrontmatterAndBody(t *testing.T) {
	block, err := Split([]byte("---\r\ntitle: Hello\r\n---\r\n# Title\r\n"))
	require.NoError(t, err)
	require.True(t, block.Present)
	require.Equal(t, []byte("title: Hello\r\n"), block.Raw)
	require.Equal(t, []byte("# Title\r\n"), block.Body)
	require.Equal(t, "\r\n", block.Newline)
}

func TestSplit_EmptyFrontmatterBlock(t *testing.T) {
	block, err := Split([]byte("---\n---\n# Title\n"))
	require.NoError(t, err)
	require.True(t, block.Present)
	require.Empty(t, block.Raw)
	require.Equal(t, []byte("# Title\n"), block.Body)
}

func TestSplit_ClosingDelimiterAtEOF(t *testing.T) {
	block, err := Split([]byte("---\ntitle: Only\n---"))
	require.NoError(t, err)
	require.True(t, block.Present)
	require.Equal(t, []byte("title: Only\n"), block.Raw)
	require.Empty(t, block.Body)
}

func TestSplit_IgnoresBOM(t *testing.T) {
	block, err := Split(append([]byte{0xEF, 0xBB, 0xBF}, []byte("---\na: b\n---\nbody")...))
	require.NoError(t, err)
	require.True(t, block.Present)
	require.Equal(t, []byte("body"), block.Body)
}

func TestParseYAML_ValidYAML_ReturnsMap(t *testing.T) {
	fields, err := ParseYAML([]byte("title: Hello\ntags:\n  - redis\n  - kafka\ndraft: true\norder: 3\n"))
	require.NoError(t, err)
	require.Equal(t, "Hello", fields["title"])
	require.Equal(t, []any{"redis", "kafka"}, fields["tags"])
	require.Equal(t, true, fields["draft"])
	require.Equal(t, 3, fields["order"])
}

func TestParseYAML_Empty_ReturnsEmptyMap(t *testing.T) {
	fields, err := ParseYAML([]byte("  \n"))
	require.NoError(t, err)
	require.NotNil(t, fields)
	require.Empty(t, fields)
}

func TestParseYAML_NonMapping_ReturnsError(t *testing.T) {
	_, err := ParseYAML([]byte("- a\n- b\n"))
	require.ErrorIs(t, err, ErrNotMapping)
}

func TestParseYAML_InvalidYAML_ReturnsError(t *testing.T) {
	_, err := ParseYAML([]byte("title: [unterminated\n"))
	require.Error(t, err)
}
