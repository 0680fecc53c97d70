package bot

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	eventsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "groupguard_events_total",
		Help: "Inbound chat events by kind",
	}, []string{"kind"})

	commandsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "groupguard_commands_total",
		Help: "Classified commands by outcome",
	}, []string{"command", "result"})

	spamBlockedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "groupguard_spam_blocked_total",
		Help: "Messages caught by the content filter",
	})

	transportFailuresTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "groupguard_transport_failures_total",
		Help: "Actions the transport failed to perform",
	}, []string{"action"})

	scheduledLeavesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "groupguard_scheduled_leaves_total",
		Help: "Delayed leave tasks by lifecycle step",
	}, []string{"result"})

	eventDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "groupguard_event_duration_seconds",
		Help:    "Time spent processing one event including its actions",
		Buckets: prometheus.ExponentialBuckets(0.005, 2, 10),
	})
)
