// Package prom exports collection health as Prometheus metrics.
package prom

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/Root48/DataCollectionModule/internal/domain"
)

// Exporter mirrors delivery outcomes and collection state onto Prometheus
// metrics. Wire its Observe methods to the status and delivery feeds.
type Exporter struct {
	deliveries prometheus.Counter
	failures   prometheus.Counter
	battery    prometheus.Gauge
	lowPower   prometheus.Gauge
	active     prometheus.Gauge
}

// New registers the collector metrics on the given registerer.
func New(reg prometheus.Registerer) *Exporter {
	f := promauto.With(reg)
	return &Exporter{
		deliveries: f.NewCounter(prometheus.CounterOpts{
			Name: "power_collector_deliveries_total",
			Help: "Samples delivered to the remote collector.",
		}),
		failures: f.NewCounter(prometheus.CounterOpts{
			Name: "power_collector_failures_total",
			Help: "Samples that exhausted their retry budget.",
		}),
		battery: f.NewGauge(prometheus.GaugeOpts{
			Name: "power_collector_battery_level",
			Help: "Battery level from the latest journaled sample, 0 to 1.",
		}),
		lowPower: f.NewGauge(prometheus.GaugeOpts{
			Name: "power_collector_low_power_mode",
			Help: "Whether the device reports low power mode, 0 or 1.",
		}),
		active: f.NewGauge(prometheus.GaugeOpts{
			Name: "power_collector_active",
			Help: "Whether periodic collection is running, 0 or 1.",
		}),
	}
}

// ObserveDelivery updates throughput and battery metrics from one outcome.
// An unknown level leaves the battery gauge at its last value.
func (e *Exporter) ObserveDelivery(rec domain.DeliveryRecord) {
	if rec.Delivered {
		e.deliveries.Inc()
	} else {
		e.failures.Inc()
	}
	if rec.Level >= 0 {
		e.battery.Set(rec.Level)
	}
	e.lowPower.Set(b2f(rec.LowPowerMode))
}

// ObserveStatus mirrors the collection phase onto the active gauge.
func (e *Exporter) ObserveStatus(st domain.CollectionStatus) {
	if st.Phase == domain.PhaseIdle {
		e.active.Set(0)
		return
	}
	e.active.Set(1)
}

func b2f(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
