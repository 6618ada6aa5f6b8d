package vitals

import (
	"math"
	"testing"
	"time"

	"github.com/webperf-tools/vitaltop/model"
	"github.com/webperf-tools/vitaltop/observer"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) Now() time.Time          { return c.t }
func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestCollector(t *testing.T) (*Collector, *observer.Bus, *fakeClock) {
	t.Helper()
	bus := observer.NewBus()
	c := New(bus, nil)
	clk := &fakeClock{t: time.Unix(1000, 0)}
	c.SetClock(clk.Now)
	return c, bus, clk
}

func TestRateBoundariesInclusive(t *testing.T) {
	tests := []struct {
		name  model.MetricName
		value float64
		want  model.Rating
	}{
		{model.MetricLCP, 2500, model.RatingGood},
		{model.MetricLCP, 2500.01, model.RatingNeedsImprovement},
		{model.MetricLCP, 4000, model.RatingNeedsImprovement},
		{model.MetricLCP, 4000.01, model.RatingPoor},
		{model.MetricFID, 100, model.RatingGood},
		{model.MetricFID, 300, model.RatingNeedsImprovement},
		{model.MetricFID, 301, model.RatingPoor},
		{model.MetricCLS, 0.1, model.RatingGood},
		{model.MetricCLS, 0.25, model.RatingNeedsImprovement},
		{model.MetricCLS, 0.2500001, model.RatingPoor},
		{model.MetricFCP, 1800, model.RatingGood},
		{model.MetricFCP, 3000, model.RatingNeedsImprovement},
		{model.MetricFCP, 3001, model.RatingPoor},
		{model.MetricTTFB, 800, model.RatingGood},
		{model.MetricTTFB, 1800, model.RatingNeedsImprovement},
		{model.MetricTTFB, 1801, model.RatingPoor},
	}
	for _, tt := range tests {
		if got := Rate(tt.name, tt.value); got != tt.want {
			t.Errorf("Rate(%s, %v) = %s, want %s", tt.name, tt.value, got, tt.want)
		}
	}
}

func TestLatestMetricsPicksNewest(t *testing.T) {
	c, bus, clk := newTestCollector(t)

	bus.Publish(model.PaintEntry{Name: "largest-contentful-paint", StartTime: 2000})
	clk.Advance(time.Second)
	bus.Publish(model.PaintEntry{Name: "largest-contentful-paint", StartTime: 3500})

	latest := c.LatestMetrics()
	m, ok := latest[model.MetricLCP]
	if !ok {
		t.Fatal("LatestMetrics missing LCP")
	}
	if m.Value != 3500 {
		t.Errorf("latest LCP value = %v, want 3500 (most recent record)", m.Value)
	}
	if m.Rating != model.RatingNeedsImprovement {
		t.Errorf("latest LCP rating = %s, want needs-improvement", m.Rating)
	}
	if got := len(c.Metrics()); got != 2 {
		t.Errorf("Metrics history has %d records, want 2", got)
	}
}

func TestFirstInputOnly(t *testing.T) {
	c, bus, _ := newTestCollector(t)

	bus.Publish(model.FirstInputEntry{StartTime: 1000, ProcessingStart: 1050})
	bus.Publish(model.FirstInputEntry{StartTime: 2000, ProcessingStart: 2400})

	latest := c.LatestMetrics()
	m, ok := latest[model.MetricFID]
	if !ok {
		t.Fatal("LatestMetrics missing FID")
	}
	if m.Value != 50 {
		t.Errorf("FID = %v, want 50 (processingStart - startTime of the first input only)", m.Value)
	}
	if m.Rating != model.RatingGood {
		t.Errorf("FID rating = %s, want good", m.Rating)
	}
}

func TestCLSIgnoresRecentInput(t *testing.T) {
	c, bus, _ := newTestCollector(t)

	bus.Publish(model.LayoutShiftEntry{Value: 0.05})
	bus.Publish(model.LayoutShiftEntry{Value: 0.9, HadRecentInput: true})
	bus.Publish(model.LayoutShiftEntry{Value: 0.07})

	m, ok := c.LatestMetrics()[model.MetricCLS]
	if !ok {
		t.Fatal("LatestMetrics missing CLS")
	}
	if math.Abs(m.Value-0.12) > 1e-9 {
		t.Errorf("CLS = %v, want 0.12 (input-driven shift excluded)", m.Value)
	}
	if m.Rating != model.RatingNeedsImprovement {
		t.Errorf("CLS rating = %s, want needs-improvement", m.Rating)
	}
}

func TestSeedsFromBufferedTiming(t *testing.T) {
	bus := observer.NewBus()
	// Timing data that arrived before the collector existed.
	bus.Publish(model.PaintEntry{Name: "first-paint", StartTime: 600})
	bus.Publish(model.PaintEntry{Name: "first-contentful-paint", StartTime: 1200})
	bus.Publish(model.NavigationEntry{RequestStart: 10, ResponseStart: 450})

	c := New(bus, nil)
	latest := c.LatestMetrics()

	if m, ok := latest[model.MetricFCP]; !ok || m.Value != 1200 {
		t.Errorf("seeded FCP = %+v, want value 1200", m)
	}
	if m, ok := latest[model.MetricTTFB]; !ok || m.Value != 440 {
		t.Errorf("seeded TTFB = %+v, want value 440 (responseStart - requestStart)", m)
	}
}

func TestNavigationAfterConstruction(t *testing.T) {
	c, bus, _ := newTestCollector(t)

	bus.Publish(model.NavigationEntry{RequestStart: 20, ResponseStart: 320})

	if m, ok := c.LatestMetrics()[model.MetricTTFB]; !ok || m.Value != 300 {
		t.Errorf("TTFB from live navigation entry = %+v, want value 300", m)
	}
}

func TestClearEmptiesAndResets(t *testing.T) {
	c, bus, _ := newTestCollector(t)

	bus.Publish(model.LayoutShiftEntry{Value: 0.2})
	bus.Publish(model.FirstInputEntry{StartTime: 0, ProcessingStart: 10})
	c.Clear()

	if got := len(c.Metrics()); got != 0 {
		t.Errorf("Metrics has %d records after Clear, want 0", got)
	}

	// CLS starts from zero again and a new first input qualifies.
	bus.Publish(model.LayoutShiftEntry{Value: 0.03})
	bus.Publish(model.FirstInputEntry{StartTime: 100, ProcessingStart: 180})
	latest := c.LatestMetrics()
	if m := latest[model.MetricCLS]; math.Abs(m.Value-0.03) > 1e-9 {
		t.Errorf("CLS after Clear = %v, want 0.03", m.Value)
	}
	if m := latest[model.MetricFID]; m.Value != 80 {
		t.Errorf("FID after Clear = %v, want 80", m.Value)
	}
}

func TestDestroyIdempotent(t *testing.T) {
	c, bus, _ := newTestCollector(t)
	c.Destroy()
	c.Destroy()

	bus.Publish(model.PaintEntry{Name: "largest-contentful-paint", StartTime: 100})
	if got := len(c.Metrics()); got != 0 {
		t.Errorf("destroyed collector recorded %d metrics, want 0", got)
	}
}

func TestUnsupportedStreamsDegrade(t *testing.T) {
	bus := observer.NewBus()
	bus.MarkUnsupported(model.KindPaint, model.KindFirstInput)

	c := New(bus, nil) // must not fail
	bus.Publish(model.LayoutShiftEntry{Value: 0.02})
	if _, ok := c.LatestMetrics()[model.MetricCLS]; !ok {
		t.Error("supported layout-shift stream should still record CLS")
	}
	bus.Publish(model.FirstInputEntry{StartTime: 0, ProcessingStart: 5})
	if _, ok := c.LatestMetrics()[model.MetricFID]; ok {
		t.Error("unsupported first-input stream must not record FID")
	}
}
