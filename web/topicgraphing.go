//    BiotopeGoServer
//    Copyright: E Gunderson 2024-25
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package web

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/labstack/echo/v4"
)

// RtChart - a stacked bar of per-region topic composition
func RtChart(c echo.Context) error {
	b := buildcompositionbar()

	var buf bytes.Buffer
	err := b.Render(&buf)
	if err != nil {
		Msg.EC(err)
		return c.String(http.StatusInternalServerError, err.Error())
	}

	return c.HTML(http.StatusOK, buf.String())
}

// buildcompositionbar - one series per topic, stacked; x-axis is the regions
func buildcompositionbar() *charts.Bar {
	const (
		TITLESTR  = "Topic composition by region"
		SUBSTR    = "k=%d; sweeps=%d; run %s"
		SERIESFMT = "topic %d"
		STACKNAME = "composition"
		BOTTALIGN = "3%"
	)

	sum := Current.Sum
	d, k := sum.Theta.Dims()

	tit := opts.Title{
		Title:    TITLESTR,
		Subtitle: fmt.Sprintf(SUBSTR, Current.Cfg.LDATopics, Current.Cfg.LDASweeps, Current.RunID),
		Bottom:   BOTTALIGN,
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			Width:  Current.Cfg.ChartWd,
			Height: Current.Cfg.ChartHt,
		}),
		charts.WithTitleOpts(tit),
		charts.WithLegendOpts(opts.Legend{Show: true}),
		charts.WithTooltipOpts(opts.Tooltip{Show: true}),
	)

	bar.SetXAxis(sum.Regions)

	// each topic contributes one stacked series across all regions
	for j := 0; j < k; j++ {
		bd := make([]opts.BarData, d)
		for i := 0; i < d; i++ {
			bd[i] = opts.BarData{Value: sum.Theta.At(i, j)}
		}
		bar.AddSeries(fmt.Sprintf(SERIESFMT, j), bd)
	}

	bar.SetSeriesOptions(
		charts.WithBarChartOpts(opts.BarChart{Stack: STACKNAME}),
	)

	return bar
}
