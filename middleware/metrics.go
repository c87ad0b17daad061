package middleware

import (
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/techjourney/folio/session"
)

var (
	requestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "folio_http_request_duration_seconds",
		Help:    "Latency of requests served, by route template.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route", "status"})

	pageViews = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "folio_page_views_total",
		Help: "Successful page renders by route template.",
	}, []string{"route"})

	sessionEvents = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "folio_session_events_total",
		Help: "Session transitions by kind.",
	}, []string{"kind"})
)

// Metrics records request latency for every request and a page view for
// successful GETs of content pages.
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		status := c.Writer.Status()
		requestDuration.WithLabelValues(c.Request.Method, route, strconv.Itoa(status)).Observe(time.Since(start).Seconds())

		if c.Request.Method != "GET" || status < 200 || status >= 400 {
			return
		}
		if route == "/health" || route == "/metrics" || route == "/captcha" || strings.HasPrefix(route, "/static/") {
			return
		}
		pageViews.WithLabelValues(route).Inc()
	}
}

// CountSessionEvents is a session.Store subscriber feeding folio_session_events_total.
func CountSessionEvents(e session.Event) {
	sessionEvents.WithLabelValues(string(e.Kind)).Inc()
}
