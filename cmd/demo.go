package cmd

import (
	"context"
	"math/rand"
	"time"

	"github.com/webperf-tools/vitaltop/engine"
	"github.com/webperf-tools/vitaltop/hooks"
	"github.com/webperf-tools/vitaltop/model"
)

// runDemoFeed synthesizes a plausible page session: navigation and paint
// timing up front, then periodic layout shifts, input, and measured
// operations, so the overlay has something to show without a browser.
func runDemoFeed(ctx context.Context, eng *engine.Engine) {
	bus := eng.Bus
	bus.Publish(model.NavigationEntry{RequestStart: 12, ResponseStart: 430, LoadEventEnd: 2100})
	bus.Publish(model.PaintEntry{Name: "first-paint", StartTime: 900})
	bus.Publish(model.PaintEntry{Name: "first-contentful-paint", StartTime: 1240})
	bus.Publish(model.PaintEntry{Name: "largest-contentful-paint", StartTime: 2300})
	bus.Publish(model.FirstInputEntry{StartTime: 3000, ProcessingStart: 3042})

	page := &model.Element{Tag: "main", Classes: []string{"page"}}
	elements := []*model.Element{
		{Tag: "img", Classes: []string{"viewer", "spread"}, Parent: page},
		{Tag: "div", ID: "toolbar", Classes: []string{"floating"}, Parent: page},
		{Tag: "footer", Classes: []string{"credits"}},
	}

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	sched := hooks.NextTurn()
	ticker := time.NewTicker(700 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			el := elements[rng.Intn(len(elements))]
			dy := float64(rng.Intn(40))
			bus.Publish(model.LayoutShiftEntry{
				Value: rng.Float64() * 0.08,
				// Sometimes the user caused it; collectors must ignore those.
				HadRecentInput: rng.Intn(6) == 0,
				Sources: []model.ShiftSource{{
					Element:      el,
					PreviousRect: model.Rect{X: 0, Y: 120, Width: 640, Height: 480},
					CurrentRect:  model.Rect{X: 0, Y: 120 + dy, Width: 640, Height: 480},
				}},
			})

			decode := time.Duration(10+rng.Intn(80)) * time.Millisecond
			hooks.AsyncEffect(eng.Tracker, "demo:image-decode", func() error {
				time.Sleep(decode)
				return nil
			})
			hooks.TimedUpdate(eng.Tracker, sched, "demo:page-turn", func() {
				time.Sleep(time.Duration(rng.Intn(8)) * time.Millisecond)
			})
		}
	}
}
