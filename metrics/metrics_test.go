package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/require"
)

func TestRoundFinished(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.RoundStarted(3)
	m.RoundFinished(StatusOK, 2*time.Millisecond, 16, 10)
	m.RoundFinished(StatusNotFound, time.Millisecond, 0, 10)
	m.RoundFinished(StatusOK, time.Millisecond, 4, 10)

	require.Equal(t, 2.0, testutil.ToFloat64(m.RoundsTotal.WithLabelValues(StatusOK)))
	require.Equal(t, 1.0, testutil.ToFloat64(m.RoundsTotal.WithLabelValues(StatusNotFound)))
	require.Equal(t, 3.0, testutil.ToFloat64(m.Participants))
	require.Equal(t, 10.0, testutil.ToFloat64(m.NoiseScale))

	var hist dto.Metric
	require.NoError(t, m.DLogIterations.Write(&hist))
	require.Equal(t, uint64(2), hist.GetHistogram().GetSampleCount())
	require.Equal(t, 20.0, hist.GetHistogram().GetSampleSum())
}

func TestNilMetrics(t *testing.T) {
	var m *Metrics
	m.RoundStarted(1)
	m.RoundFinished(StatusOK, time.Second, 1, 1)
}
