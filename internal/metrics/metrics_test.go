package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMetrics_RegistersOnce(t *testing.T) {
	registry := prometheus.NewRegistry()

	m, err := NewMetrics(registry)
	require.NoError(t, err)
	require.NotNil(t, m)

	_, err = NewMetrics(registry)
	assert.Error(t, err)
}

func TestRecorders(t *testing.T) {
	m, err := NewMetrics(prometheus.NewRegistry())
	require.NoError(t, err)

	m.CommentCreated()
	m.Like(OutcomeSuccess)
	m.Like(OutcomeDuplicate)
	m.Like(OutcomeDuplicate)
	m.FavoriteToggled(true)
	m.Refresh(OutcomeStale)
	m.ThreadCacheLookup(false)

	assert.InDelta(t, 1, testutil.ToFloat64(m.CommentsCreated), 0)
	assert.InDelta(t, 2, testutil.ToFloat64(m.Likes.WithLabelValues(OutcomeDuplicate)), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.FavoriteToggles.WithLabelValues("on")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.Refreshes.WithLabelValues(OutcomeStale)), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.ThreadCache.WithLabelValues("miss")), 0)
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics

	assert.NotPanics(t, func() {
		m.CommentCreated()
		m.Like(OutcomeError)
		m.Refresh(OutcomeSuccess)
		m.ReportMail(OutcomeSuccess)
	})
}
