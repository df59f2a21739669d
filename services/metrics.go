package services

import (
	apperrors "frontoffice/errors"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "frontoffice",
		Name:      "http_requests_total",
		Help:      "HTTP requests by method, route and status.",
	}, []string{"method", "route", "status"})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "frontoffice",
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency by method and route.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route"})

	BookingTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "frontoffice",
		Name:      "booking_transitions_total",
		Help:      "Booking state machine operations by action and outcome code.",
	}, []string{"action", "result"})

	PaymentsRecorded = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "frontoffice",
		Name:      "payments_recorded_total",
		Help:      "Payments appended to folios by mode.",
	}, []string{"mode"})

	RoomClaimConflicts = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "frontoffice",
		Name:      "room_claim_conflicts_total",
		Help:      "Booking attempts rejected because the room was not vacant.",
	})

	AuditFailures = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "frontoffice",
		Name:      "audit_failures_total",
		Help:      "Audit events that could not be written to a sink.",
	})
)

func observeTransition(action string, err error) {
	result := "ok"
	if err != nil {
		result = string(apperrors.CodeOf(err))
	}
	BookingTransitions.WithLabelValues(action, result).Inc()
}
