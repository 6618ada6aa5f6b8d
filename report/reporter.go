package report

import (
	"fmt"
	"io"
	"os"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/webperf-tools/vitaltop/analyzer"
	"github.com/webperf-tools/vitaltop/model"
	"github.com/webperf-tools/vitaltop/style"
	"github.com/webperf-tools/vitaltop/tracker"
	"github.com/webperf-tools/vitaltop/util"
	"github.com/webperf-tools/vitaltop/vitals"
)

// vitalOrder is the display order for the vitals section.
var vitalOrder = []model.MetricName{
	model.MetricFCP, model.MetricTTFB, model.MetricLCP, model.MetricFID, model.MetricCLS,
}

// Reporter aggregates the three collectors into console reports and the
// overlay snapshot. It owns none of their state; every report reads
// through accessors at print time.
type Reporter struct {
	tracker  *tracker.Tracker
	analyzer *analyzer.Analyzer
	vitals   *vitals.Collector
	log      *zap.SugaredLogger
	out      io.Writer
	mu       sync.Mutex
}

// New wires a reporter over the given collectors. log may be nil.
func New(tr *tracker.Tracker, an *analyzer.Analyzer, vt *vitals.Collector, log *zap.SugaredLogger) *Reporter {
	if log == nil {
		log = util.NopLogger()
	}
	return &Reporter{tracker: tr, analyzer: an, vitals: vt, log: log, out: os.Stdout}
}

// SetOutput redirects all printed reports.
func (r *Reporter) SetOutput(w io.Writer) {
	r.mu.Lock()
	r.out = w
	r.mu.Unlock()
	r.tracker.SetOutput(w)
	r.analyzer.SetOutput(w)
}

func (r *Reporter) writer() io.Writer {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.out
}

// PrintCustom prints the named-interval report.
func (r *Reporter) PrintCustom() {
	r.tracker.PrintReport()
}

// PrintVitals prints the latest record per vital, severity-colored.
func (r *Reporter) PrintVitals() {
	out := r.writer()
	latest := r.vitals.LatestMetrics()
	fmt.Fprintln(out, style.Title.Render("── Core Web Vitals ──"))
	if len(latest) == 0 {
		fmt.Fprintln(out, style.Dim.Render("  no vitals recorded"))
		return
	}
	for _, name := range vitalOrder {
		m, ok := latest[name]
		if !ok {
			continue
		}
		fmt.Fprintf(out, "  %-5s %s (%s)\n", name, style.MetricValue(m), m.Rating)
	}
}

// PrintShifts prints the layout-stability report.
func (r *Reporter) PrintShifts() {
	r.analyzer.PrintReport()
}

// PrintFull prints all three sections.
func (r *Reporter) PrintFull() {
	out := r.writer()
	fmt.Fprintln(out, style.Title.Render("══ Performance Report ══"))
	r.PrintVitals()
	r.PrintShifts()
	r.PrintCustom()
}

// ClearAll clears every collector's state and confirms via the log.
func (r *Reporter) ClearAll() {
	r.tracker.Clear()
	r.analyzer.Clear()
	r.vitals.Clear()
	r.log.Infof("performance state cleared")
}

// Snapshot assembles the structured overlay snapshot.
func (r *Reporter) Snapshot() model.Overlay {
	snap := model.Overlay{Timestamp: time.Now()}

	latest := r.vitals.LatestMetrics()
	for _, name := range vitalOrder {
		if m, ok := latest[name]; ok {
			snap.Vitals = append(snap.Vitals, m)
		}
	}

	snap.ShiftScore = r.analyzer.TotalScore()
	snap.ShiftRating = model.WindowRating(snap.ShiftScore)
	snap.ShiftCount = r.analyzer.Count()
	snap.TopElements = r.analyzer.TopElements(10)

	recs := r.tracker.Report()
	sort.Slice(recs, func(i, j int) bool { return recs[i].Duration > recs[j].Duration })
	if len(recs) > 10 {
		recs = recs[:10]
	}
	snap.SlowIntervals = recs
	return snap
}
