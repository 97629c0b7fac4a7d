// Package chart renders the mempool fee distribution as an interactive
// chart served over a loopback HTTP port.
package chart

import (
	"fmt"
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/tapyruslabs/chaintools/internal/models"
)

// FeeChart builds the fee-pressure chart for a distribution: cumulative
// mempool size in megabytes on the linear axis, fee rate on a
// logarithmic axis. The distribution already carries values in the
// right units; no conversion happens here.
func FeeChart(dist *models.FeeDistribution) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			PageTitle: "Mempool fee distribution",
		}),
		charts.WithTitleOpts(opts.Title{
			Title: fmt.Sprintf("%d transactions", len(dist.Entries)),
		}),
		charts.WithXAxisOpts(opts.XAxis{
			Name: "Mempool size (MB)",
		}),
		charts.WithYAxisOpts(opts.YAxis{
			Name: "Fee rate (tapyrus/vbyte)",
			Type: "log",
		}),
	)

	sizes := dist.CumulativeMegabytes()
	rates := dist.Rates()

	xAxis := make([]string, len(sizes))
	series := make([]opts.LineData, len(rates))
	for i := range sizes {
		xAxis[i] = fmt.Sprintf("%.3f", sizes[i])
		series[i] = opts.LineData{Value: rates[i]}
	}

	line.SetXAxis(xAxis).AddSeries("fee rate", series)
	return line
}

// Render writes the chart page for a distribution to w.
func Render(dist *models.FeeDistribution, w io.Writer) error {
	return FeeChart(dist).Render(w)
}
