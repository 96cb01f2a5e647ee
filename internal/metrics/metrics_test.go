package metrics

import (
	"errors"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tourtags/internal/domain"
)

func TestCollector(t *testing.T) {
	c := NewCollector()

	c.FetchDone(domain.VariantTag, 3*time.Millisecond, nil)
	c.FetchDone(domain.VariantTag, time.Millisecond, errors.New("locked"))
	c.FetchDone(domain.VariantYear, time.Millisecond, nil)
	c.Patched("tag_change")
	c.Patched("tag_change")
	c.NodesLive(42)

	assert.Equal(t, 1.0, testutil.ToFloat64(c.fetches.WithLabelValues("tag", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.fetches.WithLabelValues("tag", "error")))
	assert.Equal(t, 2.0, testutil.ToFloat64(c.patches.WithLabelValues("tag_change")))
	assert.Equal(t, 42.0, testutil.ToFloat64(c.liveNodes))

	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	require.Equal(t, 200, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "tourtags_tree_live_nodes 42"))
}
