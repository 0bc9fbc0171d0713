package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	ResultSuccess = "success"
	ResultFailure = "failure"
)

// ReviewMetrics records registration and review workflow activity.
// A nil *ReviewMetrics is valid and records nothing.
type ReviewMetrics struct {
	reviewActions *prometheus.CounterVec
	submissions   *prometheus.CounterVec
	httpDuration  *prometheus.HistogramVec
}

// NewReviewMetrics registers the workflow metrics on the provided registerer.
func NewReviewMetrics(reg prometheus.Registerer) *ReviewMetrics {
	if reg == nil {
		return &ReviewMetrics{}
	}
	reviewActions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "review_actions_total",
		Help: "Review actions submitted by reviewers.",
	}, []string{"action", "result"})
	submissions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "registration_submissions_total",
		Help: "Business registration submissions.",
	}, []string{"result"})
	httpDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route", "status"})
	reg.MustRegister(reviewActions, submissions, httpDuration)
	return &ReviewMetrics{
		reviewActions: reviewActions,
		submissions:   submissions,
		httpDuration:  httpDuration,
	}
}

// IncReviewAction counts one review action with its outcome.
func (m *ReviewMetrics) IncReviewAction(action, result string) {
	if m == nil || m.reviewActions == nil {
		return
	}
	m.reviewActions.WithLabelValues(normalizeLabel(action), normalizeLabel(result)).Inc()
}

// IncSubmission counts one registration submission with its outcome.
func (m *ReviewMetrics) IncSubmission(result string) {
	if m == nil || m.submissions == nil {
		return
	}
	m.submissions.WithLabelValues(normalizeLabel(result)).Inc()
}

// ObserveRequest records the latency of one HTTP request.
func (m *ReviewMetrics) ObserveRequest(method, route string, status int, duration time.Duration) {
	if m == nil || m.httpDuration == nil {
		return
	}
	m.httpDuration.
		WithLabelValues(method, normalizeLabel(route), strconv.Itoa(status)).
		Observe(duration.Seconds())
}

// Result maps an error onto the result label.
func Result(err error) string {
	if err != nil {
		return ResultFailure
	}
	return ResultSuccess
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
