package node

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetricsRegister(t *testing.T) {
	m := NewMetrics()
	reg := prometheus.NewRegistry()
	assert.NotPanics(t, func() { m.MustRegister(reg) })

	m.Pings.Inc()
	m.Pings.Inc()
	assert.Equal(t, float64(2), testutil.ToFloat64(m.Pings))
	assert.Zero(t, testutil.ToFloat64(m.DecodeErrors))
}
