package errors

import (
	"fmt"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCLIErrorAdapter_ExitCodeFor(t *testing.T) {
	adapter := NewCLIErrorAdapter(false, slog.Default())

	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{name: "nil error", err: nil, expected: 0},
		{name: "validation", err: NewError(CategoryValidation, "bad flag").Build(), expected: 2},
		{name: "schema", err: NewError(CategorySchema, "missing title").Build(), expected: 3},
		{name: "compile", err: NewError(CategoryCompile, "stage failed").Build(), expected: 3},
		{name: "config", err: ConfigError("bad config").Build(), expected: 7},
		{name: "build", err: BuildError("write failed").Build(), expected: 11},
		{name: "internal", err: NewError(CategoryInternal, "boom").Fatal().Build(), expected: 10},
		{name: "wrapped classified", err: fmt.Errorf("outer: %w", ConfigError("inner").Build()), expected: 7},
		{name: "unclassified", err: fmt.Errorf("plain"), expected: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, adapter.ExitCodeFor(tt.err))
		})
	}
}

func TestCLIErrorAdapter_FormatError(t *testing.T) {
	quiet := NewCLIErrorAdapter(false, slog.Default())
	verbose := NewCLIErrorAdapter(true, slog.Default())

	assert.Empty(t, quiet.FormatError(nil))
	assert.Equal(t, "Error: plain", quiet.FormatError(fmt.Errorf("plain")))

	internal := NewError(CategoryInternal, "hidden detail").Build()
	assert.Equal(t, "Internal error occurred (use -v for details)", quiet.FormatError(internal))
	assert.Contains(t, verbose.FormatError(internal), "hidden detail")

	schema := NewError(CategorySchema, "missing field title").Build()
	assert.Contains(t, quiet.FormatError(schema), "missing field title")
}
