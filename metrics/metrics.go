// Package metrics exposes registry lifecycle events as Prometheus metrics.
package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/wippyai/owned-drop/registry"
)

// Monitor is a registry Observer backed by Prometheus collectors.
type Monitor struct {
	live    *prometheus.GaugeVec
	created *prometheus.CounterVec
	dropped *prometheus.CounterVec
	borrows *prometheus.CounterVec
}

// NewMonitor creates a monitor and registers its collectors on reg.
// A nil reg falls back to the default registerer.
func NewMonitor(reg prometheus.Registerer) *Monitor {
	m := &Monitor{
		live: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "owneddrop_guards_live",
				Help: "Number of live guarded values in the registry",
			},
			[]string{"type_id"},
		),
		created: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "owneddrop_guards_created_total",
				Help: "Total guarded values inserted into the registry",
			},
			[]string{"type_id"},
		),
		dropped: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "owneddrop_guards_dropped_total",
				Help: "Total guarded values extracted and consumed",
			},
			[]string{"type_id"},
		),
		borrows: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "owneddrop_guard_borrows_total",
				Help: "Total borrows taken against live guarded values",
			},
			[]string{"type_id"},
		),
	}

	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.live, m.created, m.dropped, m.borrows)

	return m
}

// OnGuardEvent implements the registry.Observer interface.
func (m *Monitor) OnGuardEvent(e registry.Event) {
	typeID := strconv.FormatUint(uint64(e.TypeID), 10)

	switch e.Type {
	case registry.EventCreated:
		m.created.WithLabelValues(typeID).Inc()
		m.live.WithLabelValues(typeID).Inc()
	case registry.EventDropped:
		m.dropped.WithLabelValues(typeID).Inc()
		m.live.WithLabelValues(typeID).Dec()
	case registry.EventBorrowed:
		m.borrows.WithLabelValues(typeID).Inc()
	}
}
