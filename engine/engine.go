package engine

import (
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/webperf-tools/vitaltop/analyzer"
	"github.com/webperf-tools/vitaltop/config"
	"github.com/webperf-tools/vitaltop/model"
	"github.com/webperf-tools/vitaltop/observer"
	"github.com/webperf-tools/vitaltop/report"
	"github.com/webperf-tools/vitaltop/tracker"
	"github.com/webperf-tools/vitaltop/util"
	"github.com/webperf-tools/vitaltop/vitals"
)

// Engine wires the bus, the three collectors and the reporter into one
// explicitly constructed unit. There are no package-level singletons:
// construct at application start, Destroy at teardown.
type Engine struct {
	Bus      *observer.Bus
	Tracker  *tracker.Tracker
	Analyzer *analyzer.Analyzer
	Vitals   *vitals.Collector
	Reporter *report.Reporter
	History  *History

	tickMu      sync.Mutex
	destroyOnce sync.Once
}

// New builds an engine for the given config. log may be nil.
func New(cfg config.Config, log *zap.SugaredLogger) *Engine {
	if log == nil {
		log = util.NopLogger()
	}
	dev := cfg.Development()

	bus := observer.NewBus()
	tr := tracker.New(dev, log)
	an := analyzer.New(bus, dev, log)
	if cfg.WindowMs > 0 {
		an.SetWindow(time.Duration(cfg.WindowMs) * time.Millisecond)
	}
	vt := vitals.New(bus, log)

	return &Engine{
		Bus:      bus,
		Tracker:  tr,
		Analyzer: an,
		Vitals:   vt,
		Reporter: report.New(tr, an, vt, log),
		History:  NewHistory(cfg.HistorySize),
	}
}

// Tick assembles one overlay snapshot and pushes it into history.
// Serialized so overlapping ticks cannot interleave.
func (e *Engine) Tick() model.Overlay {
	e.tickMu.Lock()
	defer e.tickMu.Unlock()
	snap := e.Reporter.Snapshot()
	e.History.Push(snap)
	return snap
}

// Destroy tears the collectors down exactly once. In-flight async
// measurements finish unobserved.
func (e *Engine) Destroy() {
	e.destroyOnce.Do(func() {
		e.Analyzer.Destroy()
		e.Vitals.Destroy()
	})
}
