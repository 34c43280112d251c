// Package metrics exposes service-level Prometheus metrics, scraped via /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// MessagesTotal counts persisted conversation messages by sender.
	MessagesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "chatbot",
		Name:      "messages_total",
		Help:      "Conversation messages persisted, by sender.",
	}, []string{"sender"})

	// EscalationsTotal counts agent replies that carried the escalation marker.
	EscalationsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "chatbot",
		Name:      "escalations_total",
		Help:      "Agent replies that triggered a human hand-off.",
	})

	// TicketsCreatedTotal counts tickets created by the escalation path,
	// by whether an assignee was available.
	TicketsCreatedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "chatbot",
		Name:      "tickets_created_total",
		Help:      "Tickets created on escalation, by assignment outcome.",
	}, []string{"assigned"})

	// AgentRequestSeconds observes vendor agent round-trip latency.
	AgentRequestSeconds = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "chatbot",
		Name:      "agent_request_seconds",
		Help:      "Latency of hosted agent chat calls.",
		Buckets:   []float64{.1, .25, .5, 1, 2.5, 5, 10, 30},
	})
)
