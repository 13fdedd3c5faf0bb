package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"svw.info/ordl/internal/ports"
)

var (
	_ ports.Metrics = (*Prometheus)(nil)
	_ ports.Metrics = Nop{}
)

func TestCounters(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.PuzzleServed(true)
	m.PuzzleServed(true)
	m.PuzzleServed(false)
	m.Checked(false)
	m.Completed("daily", true, 3)
	m.Completed("archive", false, 4)
	m.Rejected("malformed")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.puzzles.WithLabelValues("true")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.puzzles.WithLabelValues("false")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.checks.WithLabelValues("incorrect")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.completions.WithLabelValues("daily", "won", "3")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.completions.WithLabelValues("archive", "lost", "4")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.rejections.WithLabelValues("malformed")))
}

func TestHistogramsCollect(t *testing.T) {
	m := New(prometheus.NewRegistry())
	m.Submitted("daily", 4)
	m.ObserveRequest("/api/puzzle/{id}", "GET", 200, 0.002)

	assert.Equal(t, 1, testutil.CollectAndCount(m.submissions))
	assert.Equal(t, 1, testutil.CollectAndCount(m.requests))
}
