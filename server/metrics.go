package server

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	chatRequests = promauto.NewCounter(prometheus.CounterOpts{
		Name: "quarry_chat_requests_total",
		Help: "Chat requests received.",
	})

	chatErrors = promauto.NewCounter(prometheus.CounterOpts{
		Name: "quarry_chat_errors_total",
		Help: "Chat requests that failed.",
	})

	sessionResets = promauto.NewCounter(prometheus.CounterOpts{
		Name: "quarry_session_resets_total",
		Help: "Session resets performed.",
	})
)
