package prometheus

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/codewandler/actr-go/internal/dining"
)

type diningMetrics struct {
	mealsTotal  *prometheus.CounterVec
	eating      *prometheus.GaugeVec
	unheldDrops prometheus.Counter
	admitted    prometheus.Gauge
	waiting     prometheus.Gauge
}

// NewDiningMetrics creates and registers the dinner metrics.
func NewDiningMetrics(reg prometheus.Registerer) dining.Metrics {
	m := &diningMetrics{
		mealsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "dining",
			Name:      "meals_total",
			Help:      "Meals finished per diner",
		}, []string{"diner"}),

		eating: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "dining",
			Name:      "eating",
			Help:      "1 while the diner holds both chopsticks",
		}, []string{"diner"}),

		unheldDrops: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "dining",
			Name:      "unheld_drops_total",
			Help:      "Attempts to drop a chopstick nobody held",
		}),

		admitted: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "dining",
			Name:      "waiter_admitted",
			Help:      "Diners the waiter currently lets eat",
		}),

		waiting: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "dining",
			Name:      "waiter_waiting",
			Help:      "Diners waiting for the waiter",
		}),
	}

	reg.MustRegister(m.mealsTotal, m.eating, m.unheldDrops, m.admitted, m.waiting)
	return m
}

func (m *diningMetrics) MealStarted(diner string) {
	m.eating.WithLabelValues(diner).Set(1)
}

func (m *diningMetrics) MealFinished(diner string) {
	m.eating.WithLabelValues(diner).Set(0)
	m.mealsTotal.WithLabelValues(diner).Inc()
}

func (m *diningMetrics) UnheldDrop() { m.unheldDrops.Inc() }

func (m *diningMetrics) WaiterQueue(eating, waiting int) {
	m.admitted.Set(float64(eating))
	m.waiting.Set(float64(waiting))
}

var _ dining.Metrics = (*diningMetrics)(nil)
