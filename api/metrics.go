package api

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var requestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Namespace: "folio",
	Subsystem: "api",
	Name:      "request_duration_seconds",
	Help:      "Latency of calls to the content API.",
	Buckets:   prometheus.DefBuckets,
}, []string{"method", "route", "outcome"})
