package metrics

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/wippyai/sides/resource"
)

const namespace = "sides"

// Collector counts handoff stages and handle lifecycle events.
// It implements consumer.Recorder and resource.Observer.
type Collector struct {
	provides   *prometheus.CounterVec
	dispatches prometheus.Counter
	lastNumber prometheus.Gauge
	handoffs   *prometheus.CounterVec
	events     *prometheus.CounterVec
	live       prometheus.Gauge
}

// New creates a collector and registers it with reg.
func New(reg prometheus.Registerer) (*Collector, error) {
	c := &Collector{
		provides: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "provides_total",
			Help:      "Objects requested from the provider, by result.",
		}, []string{"result"}),
		dispatches: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "number_dispatches_total",
			Help:      "Number capability calls made by the consumer.",
		}),
		lastNumber: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_number",
			Help:      "Most recently reported number.",
		}),
		handoffs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "handoffs_total",
			Help:      "Objects forwarded to the sink, by result.",
		}, []string{"result"}),
		events: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "handle_events_total",
			Help:      "Handle table lifecycle events, by type.",
		}, []string{"event"}),
		live: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "live_handles",
			Help:      "Handles currently published to the other side.",
		}),
	}

	for _, col := range []prometheus.Collector{
		c.provides, c.dispatches, c.lastNumber, c.handoffs, c.events, c.live,
	} {
		if err := reg.Register(col); err != nil {
			return nil, fmt.Errorf("register metrics: %w", err)
		}
	}
	return c, nil
}

// ObserveProvide implements consumer.Recorder.
func (c *Collector) ObserveProvide(err error) {
	c.provides.WithLabelValues(result(err)).Inc()
}

// ObserveDispatch implements consumer.Recorder.
func (c *Collector) ObserveDispatch(value int32) {
	c.dispatches.Inc()
	c.lastNumber.Set(float64(value))
}

// ObserveHandoff implements consumer.Recorder.
func (c *Collector) ObserveHandoff(err error) {
	c.handoffs.WithLabelValues(result(err)).Inc()
}

// OnResourceEvent implements resource.Observer.
func (c *Collector) OnResourceEvent(e resource.Event) {
	c.events.WithLabelValues(e.Type.String()).Inc()
	switch e.Type {
	case resource.EventCreated:
		c.live.Inc()
	case resource.EventDropped, resource.EventTaken:
		c.live.Dec()
	}
}

func result(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

// Write prints every sample gathered from g as "name{labels} value" lines,
// sorted by metric name.
func Write(w io.Writer, g prometheus.Gatherer) error {
	families, err := g.Gather()
	if err != nil {
		return fmt.Errorf("gather metrics: %w", err)
	}
	sort.Slice(families, func(i, j int) bool {
		return families[i].GetName() < families[j].GetName()
	})

	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			var labels []string
			for _, lp := range m.GetLabel() {
				labels = append(labels, fmt.Sprintf("%s=%q", lp.GetName(), lp.GetValue()))
			}
			name := mf.GetName()
			if len(labels) > 0 {
				name += "{" + strings.Join(labels, ",") + "}"
			}

			var v float64
			switch {
			case m.GetCounter() != nil:
				v = m.GetCounter().GetValue()
			case m.GetGauge() != nil:
				v = m.GetGauge().GetValue()
			default:
				continue
			}
			if _, err := fmt.Fprintf(w, "%s %g\n", name, v); err != nil {
				return err
			}
		}
	}
	return nil
}
