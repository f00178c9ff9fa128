// Package metrics holds the Prometheus collectors of the bot.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// UpdatesTotal counts inbound events by kind (command, callback, document).
	UpdatesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "regcheck_updates_total",
			Help: "Inbound Telegram events handled by the bot",
		},
		[]string{"kind"},
	)

	UpdateDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "regcheck_update_duration_seconds",
			Help:    "Time spent handling one inbound event",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"kind"},
	)

	DocumentsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "regcheck_documents_classified_total",
			Help: "Registration documents classified, by verdict",
		},
		[]string{"verdict"},
	)

	// ReceiptsTotal outcome: accepted, rejected, duplicate, unreadable.
	ReceiptsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "regcheck_receipts_total",
			Help: "Payment receipts processed, by outcome",
		},
		[]string{"outcome"},
	)

	// RejectedUploadsTotal reason: too_large, unsupported_type, unreadable.
	RejectedUploadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "regcheck_rejected_uploads_total",
			Help: "Uploads rejected before classification, by reason",
		},
		[]string{"reason"},
	)

	PendingSessions = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "regcheck_pending_sessions",
			Help: "Classified documents waiting for a payment receipt",
		},
	)
)
