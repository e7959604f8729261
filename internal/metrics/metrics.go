package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the application. A nil *Metrics
// is valid and records nothing.
type Metrics struct {
	HTTPRequests       *prometheus.CounterVec
	HTTPDuration       *prometheus.HistogramVec
	OTPSent            prometheus.Counter
	VotesCast          *prometheus.CounterVec
	IssueStatusChanges *prometheus.CounterVec
	AccountsCreated    *prometheus.CounterVec
}

// New creates the metrics and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		HTTPRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests by method, route and status",
		}, []string{"method", "route", "status"}),
		HTTPDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
		OTPSent: factory.NewCounter(prometheus.CounterOpts{
			Name: "otp_sent_total",
			Help: "Total number of one-time codes issued",
		}),
		VotesCast: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "votes_cast_total",
			Help: "Total number of votes cast or updated, by direction",
		}, []string{"direction"}),
		IssueStatusChanges: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "issue_status_changes_total",
			Help: "Total number of issue status changes, by new status",
		}, []string{"status"}),
		AccountsCreated: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "accounts_created_total",
			Help: "Total number of accounts created, by role",
		}, []string{"role"}),
	}
}

func (m *Metrics) IncrementOTPSent() {
	if m == nil {
		return
	}
	m.OTPSent.Inc()
}

func (m *Metrics) IncrementVotesCast(upvote bool) {
	if m == nil {
		return
	}
	direction := "down"
	if upvote {
		direction = "up"
	}
	m.VotesCast.WithLabelValues(direction).Inc()
}

func (m *Metrics) IncrementStatusChanges(status string) {
	if m == nil {
		return
	}
	m.IssueStatusChanges.WithLabelValues(status).Inc()
}

func (m *Metrics) IncrementAccountsCreated(role string) {
	if m == nil {
		return
	}
	m.AccountsCreated.WithLabelValues(role).Inc()
}

// Middleware records request count and latency per matched route.
func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if m == nil {
			c.Next()
			return
		}
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.HTTPRequests.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).Inc()
		m.HTTPDuration.WithLabelValues(c.Request.Method, route).Observe(time.Since(start).Seconds())
	}
}
