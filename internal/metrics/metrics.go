package metrics

import (
	"strconv"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	pollsStartedTotal prometheus.Counter
	votesTotal        *prometheus.CounterVec
	pollsClosedTotal  prometheus.Counter
	sessionsActive    prometheus.Gauge
	httpRequestsTotal *prometheus.CounterVec
	registerOnce      sync.Once
)

// Register initializes Prometheus metrics on the default registry.
func Register() {
	registerOnce.Do(func() {
		pollsStartedTotal = promauto.NewCounter(prometheus.CounterOpts{
			Namespace: "pollbot",
			Name:      "polls_started_total",
			Help:      "Total polls started.",
		})

		votesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: "pollbot",
			Name:      "votes_total",
			Help:      "Total votes processed, labeled by outcome.",
		}, []string{"result"})

		pollsClosedTotal = promauto.NewCounter(prometheus.CounterOpts{
			Namespace: "pollbot",
			Name:      "polls_closed_total",
			Help:      "Total polls closed.",
		})

		sessionsActive = promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: "pollbot",
			Name:      "sessions_active",
			Help:      "Poll sessions currently held in the registry.",
		})

		httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: "pollbot",
			Name:      "http_requests_total",
			Help:      "Total HTTP requests processed by the ops listener.",
		}, []string{"method", "path", "status"})
	})
}

func IncPollStarted() {
	if pollsStartedTotal == nil {
		return
	}
	pollsStartedTotal.Inc()
}

// IncVote increments votes_total with the outcome label
// ("accepted" or "rejected").
func IncVote(result string) {
	if votesTotal == nil {
		return
	}
	votesTotal.WithLabelValues(result).Inc()
}

func IncPollClosed() {
	if pollsClosedTotal == nil {
		return
	}
	pollsClosedTotal.Inc()
}

func SetSessionsActive(n int) {
	if sessionsActive == nil {
		return
	}
	sessionsActive.Set(float64(n))
}

// IncRequest increments the http_requests_total counter with the given labels.
func IncRequest(method, path string, status int) {
	if httpRequestsTotal == nil {
		return
	}
	httpRequestsTotal.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
}
