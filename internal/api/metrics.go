package api

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var requestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "rtfd",
	Name:      "api_requests_total",
	Help:      "Describe and badge requests by endpoint and result.",
}, []string{"endpoint", "result"})
