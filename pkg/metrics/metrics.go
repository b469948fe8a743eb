package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ChatTurns counts handled messages by the step that produced the reply.
	ChatTurns = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "fintech_agent_chat_turns_total",
		Help: "Chat turns handled, by resolution stage",
	}, []string{"stage"})

	ChatTurnLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "fintech_agent_chat_turn_latency_seconds",
		Help:    "Latency of a single chat turn",
		Buckets: prometheus.DefBuckets,
	})

	IntentsResolved = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "fintech_agent_intents_resolved_total",
		Help: "Intents returned by the classifier",
	}, []string{"intent"})

	GeneratorRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "fintech_agent_generator_requests_total",
		Help: "Generative fallback calls, by outcome",
	}, []string{"outcome"})

	ActiveSessions = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "fintech_agent_active_sessions",
		Help: "Bill payment sessions currently held in memory",
	})

	SessionsExpired = promauto.NewCounter(prometheus.CounterOpts{
		Name: "fintech_agent_sessions_expired_total",
		Help: "Sessions removed by the idle sweep",
	})

	BillPayments = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "fintech_agent_bill_payments_total",
		Help: "Simulated bill payments, by bill type and result",
	}, []string{"bill_type", "result"})
)
