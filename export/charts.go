// Package export renders collected measurements as a local HTML chart
// page. Output is a file on disk only; nothing leaves the machine.
package export

import (
	"fmt"
	"os"
	"sort"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/webperf-tools/vitaltop/model"
)

// WriteChart renders interval durations and vitals history to path.
func WriteChart(path string, intervals []model.Interval, metrics []model.Metric) error {
	page := components.NewPage()
	page.PageTitle = "vitaltop report"

	if bar := intervalBar(intervals); bar != nil {
		page.AddCharts(bar)
	}
	for _, line := range vitalLines(metrics) {
		page.AddCharts(line)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create chart file: %w", err)
	}
	defer f.Close()
	if err := page.Render(f); err != nil {
		return fmt.Errorf("render charts: %w", err)
	}
	return nil
}

// intervalBar charts completed intervals by descending duration.
func intervalBar(intervals []model.Interval) *charts.Bar {
	if len(intervals) == 0 {
		return nil
	}
	recs := make([]model.Interval, len(intervals))
	copy(recs, intervals)
	sort.Slice(recs, func(i, j int) bool { return recs[i].Duration > recs[j].Duration })

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: "Interval durations (ms)"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Type: "category", AxisLabel: &opts.AxisLabel{Rotate: 45}}),
		charts.WithInitializationOpts(opts.Initialization{Width: "100%", Height: "400px"}),
	)

	var names []string
	var data []opts.BarData
	for _, r := range recs {
		names = append(names, r.Name)
		data = append(data, opts.BarData{Value: float64(r.Duration.Microseconds()) / 1000})
	}
	bar.SetXAxis(names).AddSeries("duration", data)
	return bar
}

// vitalLines charts each metric's history over time, one chart per name.
func vitalLines(metrics []model.Metric) []*charts.Line {
	byName := map[model.MetricName][]model.Metric{}
	var order []model.MetricName
	for _, m := range metrics {
		if _, ok := byName[m.Name]; !ok {
			order = append(order, m.Name)
		}
		byName[m.Name] = append(byName[m.Name], m)
	}

	var lines []*charts.Line
	for _, name := range order {
		series := byName[name]
		line := charts.NewLine()
		line.SetGlobalOptions(
			charts.WithTitleOpts(opts.Title{Title: string(name)}),
			charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
			charts.WithXAxisOpts(opts.XAxis{Type: "category"}),
			charts.WithYAxisOpts(opts.YAxis{Type: "value"}),
			charts.WithInitializationOpts(opts.Initialization{Width: "100%", Height: "300px"}),
		)
		var labels []string
		var data []opts.LineData
		for _, m := range series {
			labels = append(labels, m.Timestamp.Format("15:04:05.000"))
			data = append(data, opts.LineData{Value: m.Value})
		}
		line.SetXAxis(labels).AddSeries(string(name), data,
			charts.WithLineChartOpts(opts.LineChart{Smooth: opts.Bool(true), ShowSymbol: opts.Bool(true)}),
		)
		lines = append(lines, line)
	}
	return lines
}
