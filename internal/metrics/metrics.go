// Package metrics exports gameplay counters to Prometheus.
package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

// Prometheus implements ports.Metrics. Collectors are registered on the
// registerer passed to New so tests can use a private registry.
type Prometheus struct {
	puzzles     *prometheus.CounterVec
	checks      *prometheus.CounterVec
	submissions *prometheus.HistogramVec
	completions *prometheus.CounterVec
	rejections  *prometheus.CounterVec
	requests    *prometheus.HistogramVec
}

func New(reg prometheus.Registerer) *Prometheus {
	m := &Prometheus{
		puzzles: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "ordl_puzzles_served_total",
			Help: "Puzzle reads by whether the puzzle is today's",
		}, []string{"today"}),
		checks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "ordl_checks_total",
			Help: "Stateless order checks by result",
		}, []string{"result"}),
		submissions: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "ordl_submission_correct_positions",
			Help:    "Correct positions per submitted attempt",
			Buckets: []float64{0, 1, 2, 3, 4, 5, 6},
		}, []string{"mode"}),
		completions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "ordl_games_completed_total",
			Help: "Finished games by mode, outcome and guesses used",
		}, []string{"mode", "outcome", "guesses"}),
		rejections: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "ordl_rejections_total",
			Help: "Requests refused before scoring, by reason",
		}, []string{"reason"}),
		requests: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "ordl_http_request_duration_seconds",
			Help:    "HTTP request latency by route and status",
			Buckets: prometheus.ExponentialBuckets(0.0005, 2, 12),
		}, []string{"route", "method", "status"}),
	}
	reg.MustRegister(m.puzzles, m.checks, m.submissions, m.completions, m.rejections, m.requests)
	return m
}

func (m *Prometheus) PuzzleServed(isToday bool) {
	m.puzzles.WithLabelValues(strconv.FormatBool(isToday)).Inc()
}

func (m *Prometheus) Checked(allCorrect bool) {
	result := "incorrect"
	if allCorrect {
		result = "correct"
	}
	m.checks.WithLabelValues(result).Inc()
}

func (m *Prometheus) Submitted(mode string, correct int) {
	m.submissions.WithLabelValues(mode).Observe(float64(correct))
}

func (m *Prometheus) Completed(mode string, won bool, guesses int) {
	outcome := "lost"
	if won {
		outcome = "won"
	}
	m.completions.WithLabelValues(mode, outcome, strconv.Itoa(guesses)).Inc()
}

func (m *Prometheus) Rejected(reason string) {
	m.rejections.WithLabelValues(reason).Inc()
}

// ObserveRequest records one HTTP request.
func (m *Prometheus) ObserveRequest(route, method string, status int, seconds float64) {
	m.requests.WithLabelValues(route, method, strconv.Itoa(status)).Observe(seconds)
}

// Nop discards everything.
type Nop struct{}

func (Nop) PuzzleServed(bool) {}
func (Nop) Checked(bool) {}
func (Nop) Submitted(string, int) {}
func (Nop) Completed(string, bool, int) {}
func (Nop) Rejected(string) {}
