package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInit(t *testing.T) {
	t.Parallel()

	assert.NotPanics(t, func() {
		Init()
		Init()
	})

	w := httptest.NewRecorder()
	Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", http.NoBody))

	require.Equal(t, http.StatusOK, w.Code)
}

func TestRecordRefresh(t *testing.T) {
	t.Parallel()

	before := testutil.ToFloat64(RefreshesTotal.WithLabelValues("XX", "skipped"))

	RecordRefresh("XX", "skipped", 0)
	RecordRefresh("XX", "skipped", 0)

	assert.Equal(t, before+2, testutil.ToFloat64(RefreshesTotal.WithLabelValues("XX", "skipped")))
}

func TestRecordSnapshot(t *testing.T) {
	t.Parallel()

	RecordSnapshot("YY", 3)

	assert.Equal(t, 3.0, testutil.ToFloat64(SnapshotQuotes.WithLabelValues("YY")))
	assert.InDelta(
		t,
		float64(time.Now().Unix()),
		testutil.ToFloat64(SnapshotLastUpdate.WithLabelValues("YY")),
		5,
	)
}

func TestRecordExtraction(t *testing.T) {
	t.Parallel()

	RecordExtraction("https://zz.example", "pattern")

	assert.Equal(
		t,
		1.0,
		testutil.ToFloat64(ExtractionsTotal.WithLabelValues("https://zz.example", "pattern")),
	)
}
