package metrics

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrometheusRecorder(t *testing.T) {
	reg := prom.NewRegistry()
	pr := NewPrometheusRecorder(reg)

	pr.ObserveDocumentDuration("posts", 15*time.Millisecond)
	pr.IncDocumentResult("posts", ResultSuccess)
	pr.IncDocumentResult("posts", ResultSchema)
	pr.IncDocumentResult("posts", ResultSchema)
	pr.ObserveStageDuration("heading_ids", time.Millisecond)
	pr.ObserveBuildDuration(500 * time.Millisecond)
	pr.IncBuildOutcome(BuildOutcomePartial)
	pr.SetCollectionSize("posts", 7)

	assert.InDelta(t, 2, testutil.ToFloat64(pr.documentResults.WithLabelValues("posts", string(ResultSchema))), 0)
	assert.InDelta(t, 7, testutil.ToFloat64(pr.collectionSize.WithLabelValues("posts")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(pr.buildOutcome.WithLabelValues(string(BuildOutcomePartial))), 0)

	mfs, err := reg.Gather()
	require.NoError(t, err)
	assert.NotEmpty(t, mfs)
	assert.Same(t, reg, pr.Registry())
}

func TestPrometheusRecorder_NilRegistry(t *testing.T) {
	pr := NewPrometheusRecorder(nil)
	require.NotNil(t, pr.Registry())
	pr.IncBuildOutcome(BuildOutcomeSuccess)
}

func TestPrometheusRecorder_NilReceiver(t *testing.T) {
	var pr *PrometheusRecorder
	assert.NotPanics(t, func() {
		pr.ObserveDocumentDuration("jobs", time.Second)
		pr.IncDocumentResult("jobs", ResultFailed)
		pr.SetCollectionSize("jobs", 1)
	})
}

func TestPrometheusRecorder_WriteTextfile(t *testing.T) {
	pr := NewPrometheusRecorder(nil)
	pr.SetCollectionSize("customers", 3)

	path := filepath.Join(t.TempDir(), "collectionbuilder.prom")
	require.NoError(t, pr.WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `collectionbuilder_collection_records{collection="customers"} 3`)
}
