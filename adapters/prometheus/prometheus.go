// Package prometheus provides Prometheus implementations of the runtime and
// dinner metrics interfaces.
package prometheus

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/codewandler/actr-go/core/actor"
	"github.com/codewandler/actr-go/core/metrics"
	"github.com/codewandler/actr-go/internal/dining"
)

const namespace = "actr"

type timer struct {
	h     prometheus.Observer
	start time.Time
}

func newTimer(h prometheus.Observer) metrics.Timer {
	return &timer{h: h, start: time.Now()}
}

func (t *timer) ObserveDuration() {
	t.h.Observe(time.Since(t.start).Seconds())
}

// Latency buckets in seconds. Behaviors in this runtime are mostly short,
// so the low end is finer than the client default.
var defaultBuckets = []float64{
	.0001, .0005, .001, .0025, .005, .01, .025, .05, .1, .25, .5, 1, 2.5,
}

func boolToStr(b bool) string { return strconv.FormatBool(b) }

// Metrics bundles every Prometheus implementation of this module.
type Metrics struct {
	Actor  actor.ActorMetrics
	Dining dining.Metrics
}

// NewMetrics registers actor and dinner metrics with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	return &Metrics{
		Actor:  NewActorMetrics(reg),
		Dining: NewDiningMetrics(reg),
	}
}
