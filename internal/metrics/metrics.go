// Package metrics exports navigation lifecycle counters to Prometheus.
package metrics

import (
	"net/http"

	"github.com/aretw0/wayfinder/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "wayfinder"

// Collector turns lifecycle hook events into Prometheus series.
type Collector struct {
	registry *prometheus.Registry

	active      prometheus.Gauge
	started     prometheus.Counter
	cleanups    prometheus.Counter
	closes      *prometheus.CounterVec
	transitions *prometheus.CounterVec
	effects     *prometheus.CounterVec
	actions     prometheus.Counter
}

// New creates a collector registered on its own registry.
func New() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		active: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "coordinators_active",
			Help:      "Coordinators started and not yet cleaned up.",
		}),
		started: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "coordinators_started_total",
			Help:      "Coordinators started.",
		}),
		cleanups: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "coordinator_cleanups_total",
			Help:      "Coordinator cleanups.",
		}),
		closes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "coordinator_closes_total",
			Help:      "Coordinator closes by reason.",
		}, []string{"reason"}),
		transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "screen_transitions_total",
			Help:      "Screen stack operations by kind.",
		}, []string{"op"}),
		effects: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "effects_total",
			Help:      "Effects started and cancelled.",
		}, []string{"event"}),
		actions: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "actions_total",
			Help:      "Actions reduced by the root store.",
		}),
	}
	c.registry.MustRegister(c.active, c.started, c.cleanups, c.closes, c.transitions, c.effects, c.actions)
	return c
}

// Registry exposes the registry the series live in.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// Handler serves the collected series in the Prometheus text format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

// Hooks returns lifecycle hooks that feed the collector.
func (c *Collector) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnCoordinatorStart: func(*domain.CoordinatorEvent) {
			c.started.Inc()
			c.active.Inc()
		},
		OnCoordinatorCleanup: func(*domain.CoordinatorEvent) {
			c.cleanups.Inc()
			c.active.Dec()
		},
		OnCoordinatorClose: func(e *domain.CoordinatorEvent) {
			c.closes.WithLabelValues(string(e.Reason)).Inc()
		},
		OnScreenTransition: func(e *domain.ScreenEvent) {
			c.transitions.WithLabelValues(string(e.Op)).Inc()
		},
		OnEffectStart: func(*domain.EffectEvent) {
			c.effects.WithLabelValues("start").Inc()
		},
		OnEffectCancel: func(*domain.EffectEvent) {
			c.effects.WithLabelValues("cancel").Inc()
		},
		OnAction: func(*domain.ActionEvent) {
			c.actions.Inc()
		},
	}
}
