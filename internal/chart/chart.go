// Package chart renders exported weather tables as HTML charts.
package chart

import (
	"errors"
	"fmt"
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/i474232898/meteosource-go/internal/weather"
)

// ErrNotNumeric is returned when a column holds no numbers to plot.
var ErrNotNumeric = errors.New("column has no numeric values")

// RenderLine writes an HTML line chart of one numeric column against the
// table index. Null cells are rendered as gaps.
func RenderLine(w io.Writer, title string, t *weather.Table, column string) error {
	values, err := t.Column(column)
	if err != nil {
		return err
	}

	xs := make([]string, len(t.Rows))
	points := make([]opts.LineData, len(values))
	numeric := false
	for i, v := range values {
		xs[i] = axisLabel(t, i)
		if f, ok := v.Float(); ok {
			points[i] = opts.LineData{Value: f}
			numeric = true
			continue
		}
		points[i] = opts.LineData{Value: "-"}
	}
	if !numeric {
		return fmt.Errorf("%w: %q", ErrNotNumeric, column)
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			PageTitle: title,
			Width:     "900px",
			Height:    "500px",
		}),
		charts.WithTitleOpts(opts.Title{
			Title:    title,
			Subtitle: column,
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
	)
	line.SetXAxis(xs).AddSeries(column, points)

	return line.Render(w)
}

func axisLabel(t *weather.Table, i int) string {
	idx := t.Rows[i].Index
	if idx.IsZero() {
		return fmt.Sprint(i)
	}
	if t.IndexName == weather.KeyDay {
		return idx.Format(weather.LayoutDay)
	}
	return idx.Format(weather.LayoutDateTime)
}
