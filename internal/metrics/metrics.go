// Package metrics exposes the Prometheus instruments for the service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ScansTotal counts accepted card scans.
	ScansTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "charm_scans_total",
		Help: "Number of card scans recorded.",
	})

	// NotificationsFannedOut counts notification rows written by fan-out.
	NotificationsFannedOut = promauto.NewCounter(prometheus.CounterOpts{
		Name: "charm_notifications_fanned_out_total",
		Help: "Number of notification rows written by event fan-out.",
	})
)
