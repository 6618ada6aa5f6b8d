package vitals

import (
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/webperf-tools/vitaltop/model"
	"github.com/webperf-tools/vitaltop/observer"
	"github.com/webperf-tools/vitaltop/util"
)

// Collector classifies core web vitals against published thresholds. It is
// active in every mode, not just development, and holds its own
// subscriptions: it shares no state with the layout analyzer even though
// both observe the same shift stream.
type Collector struct {
	mu             sync.Mutex
	metrics        []model.Metric
	subs           []*observer.Subscription
	now            func() time.Time
	log            *zap.SugaredLogger
	firstInputSeen bool
	cls            float64
	destroyOnce    sync.Once
}

// New creates a collector, seeds FCP/TTFB from already-delivered timing
// data on the bus, and subscribes to the paint, first-input, layout-shift
// and navigation streams. Subscription failures degrade, never crash.
func New(bus *observer.Bus, log *zap.SugaredLogger) *Collector {
	if log == nil {
		log = util.NopLogger()
	}
	c := &Collector{now: time.Now, log: log}

	// Buffered timing data: paint marks and navigation timing that arrived
	// before this collector existed.
	for _, p := range bus.PaintTimeline() {
		if p.Name == "first-contentful-paint" {
			c.record(model.MetricFCP, p.StartTime)
			break
		}
	}
	if nav := bus.Navigation(); nav != nil {
		c.record(model.MetricTTFB, nav.ResponseStart-nav.RequestStart)
	}

	for _, kind := range []model.EntryKind{model.KindPaint, model.KindFirstInput, model.KindLayoutShift, model.KindNavigation} {
		sub, err := bus.Subscribe(c.handle, kind)
		if err != nil {
			log.Warnf("%s observation unavailable: %v", kind, err)
			continue
		}
		c.subs = append(c.subs, sub)
	}
	return c
}

// SetClock injects the time source.
func (c *Collector) SetClock(now func() time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = now
}

func (c *Collector) handle(e model.Entry) {
	switch v := e.(type) {
	case model.PaintEntry:
		switch v.Name {
		case "first-contentful-paint":
			c.record(model.MetricFCP, v.StartTime)
		case "largest-contentful-paint":
			c.record(model.MetricLCP, v.StartTime)
		}
	case model.FirstInputEntry:
		c.mu.Lock()
		seen := c.firstInputSeen
		c.firstInputSeen = true
		c.mu.Unlock()
		if !seen {
			c.record(model.MetricFID, v.ProcessingStart-v.StartTime)
		}
	case model.LayoutShiftEntry:
		if v.HadRecentInput {
			return
		}
		c.mu.Lock()
		c.cls += v.Value
		total := c.cls
		c.mu.Unlock()
		c.record(model.MetricCLS, total)
	case model.NavigationEntry:
		c.record(model.MetricTTFB, v.ResponseStart-v.RequestStart)
	}
}

func (c *Collector) record(name model.MetricName, value float64) {
	m := model.Metric{
		Name:      name,
		Value:     value,
		Rating:    Rate(name, value),
		Timestamp: c.clock()(),
	}
	c.mu.Lock()
	c.metrics = append(c.metrics, m)
	c.mu.Unlock()
	c.log.Debugf("vital %s=%.4g rated %s", name, value, m.Rating)
}

func (c *Collector) clock() func() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Metrics returns a copy of the full metric history.
func (c *Collector) Metrics() []model.Metric {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]model.Metric, len(c.metrics))
	copy(out, c.metrics)
	return out
}

// LatestMetrics returns, per metric name, the most recently timestamped
// record. A later record with an equal timestamp wins.
func (c *Collector) LatestMetrics() map[model.MetricName]model.Metric {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := map[model.MetricName]model.Metric{}
	for _, m := range c.metrics {
		cur, ok := out[m.Name]
		if !ok || !m.Timestamp.Before(cur.Timestamp) {
			out[m.Name] = m
		}
	}
	return out
}

// Clear empties the metric history and resets the CLS accumulator and
// first-input latch.
func (c *Collector) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.metrics = nil
	c.cls = 0
	c.firstInputSeen = false
}

// Destroy detaches all subscriptions. Idempotent.
func (c *Collector) Destroy() {
	c.destroyOnce.Do(func() {
		for _, s := range c.subs {
			s.Unsubscribe()
		}
	})
}
