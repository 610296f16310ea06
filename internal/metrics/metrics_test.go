package metrics_test

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tinkerloft/opsdesk/internal/metrics"
)

func TestRegister(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := metrics.Register(reg)
	require.NoError(t, err)
	require.NotNil(t, m)

	m.InquiriesTotal.WithLabelValues("auto_resolved").Inc()
	m.TicketsCreatedTotal.Inc()
	m.ClassificationFailuresTotal.Inc()
	m.ResolveDuration.Observe(0.25)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.InquiriesTotal.WithLabelValues("auto_resolved")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.TicketsCreatedTotal))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ClassificationFailuresTotal))
}

func TestRegisterTwiceFails(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, err := metrics.Register(reg)
	require.NoError(t, err)

	_, err = metrics.Register(reg)
	assert.Error(t, err)
}

func TestCacheObserver(t *testing.T) {
	m := metrics.New()
	observe := m.CacheObserver()

	observe(true)
	observe(true)
	observe(false)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.CacheLookupsTotal.WithLabelValues("hit")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.CacheLookupsTotal.WithLabelValues("miss")))
}
