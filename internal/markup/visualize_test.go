package markup

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVisualize(t *testing.T) {
	stages, err := DefaultStages("")
	require.NoError(t, err)

	for _, format := range SupportedFormats() {
		t.Run(string(format), func(t *testing.T) {
			out, err := Visualize(stages, format)
			require.NoError(t, err)
			assert.Contains(t, out, "heading_ids")
			assert.NotEmpty(t, FormatDescription(format))
		})
	}
}

func TestVisualize_Text(t *testing.T) {
	stages, err := DefaultStages("")
	require.NoError(t, err)

	out, err := Visualize(stages, FormatText)
	require.NoError(t, err)
	assert.Contains(t, out, "Phase 1: slug")
	assert.Contains(t, out, "⤷ depends on: heading_ids")
	assert.Contains(t, out, "⤷ after (if present): highlight")
	assert.Less(t, strings.Index(out, "[highlight]"), strings.Index(out, "[anchor_links]"))
	assert.Contains(t, out, "Total: 4 stages across 3 phases")
}

func TestVisualize_JSON(t *testing.T) {
	stages, err := DefaultStages("")
	require.NoError(t, err)

	out, err := Visualize(stages, FormatJSON)
	require.NoError(t, err)

	var doc struct {
		Stages []struct {
			Name  string `json:"name"`
			Order int    `json:"order"`
		} `json:"stages"`
		TotalStages int `json:"totalStages"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &doc))
	assert.Equal(t, 4, doc.TotalStages)
	assert.Equal(t, "heading_ids", doc.Stages[0].Name)
	assert.Equal(t, 1, doc.Stages[0].Order)
	assert.Equal(t, "highlight", doc.Stages[2].Name)
	assert.Equal(t, "anchor_links", doc.Stages[3].Name)
}

func TestVisualize_Unsupported(t *testing.T) {
	_, err := Visualize(nil, "svg")
	require.Error(t, err)
}
