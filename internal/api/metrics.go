package api

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "prio_http_requests_total",
			Help: "HTTP requests handled, by route and status",
		},
		[]string{"method", "route", "status"},
	)
	rankRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "prio_rank_requests_total",
			Help: "Task list rankings computed, by sort key",
		},
		[]string{"sort"},
	)
	rateLimited = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "prio_rate_limited_total",
			Help: "Requests rejected by the rate limiter",
		},
		[]string{"route"},
	)
	wsClients = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "prio_ws_clients",
			Help: "Connected websocket change-feed clients",
		},
	)
)

func init() {
	prometheus.MustRegister(httpRequests)
	prometheus.MustRegister(rankRequests)
	prometheus.MustRegister(rateLimited)
	prometheus.MustRegister(wsClients)
}
