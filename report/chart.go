package report

import (
	"io"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"

	"github.com/YuminosukeSato/scitext/metrics"
	"github.com/YuminosukeSato/scitext/pkg/errors"
)

const (
	chartWidth  = 6 * vg.Inch
	chartHeight = 4 * vg.Inch
	barWidth    = vg.Length(14)
)

// newMetricsChart builds a grouped bar chart with accuracy, precision and
// recall per model. Undefined metrics are drawn as zero-height bars.
func newMetricsChart(reports []*metrics.Report) (*plot.Plot, error) {
	if len(reports) == 0 {
		return nil, errors.NewValueError("report.MetricsChart", "no reports to plot")
	}

	p := plot.New()
	p.Title.Text = "Evaluation on the test partition"
	p.Y.Label.Text = "score"
	p.Y.Min, p.Y.Max = 0, 1
	p.Legend.Top = true

	series := []struct {
		name  string
		value func(*metrics.Report) float64
	}{
		{"accuracy", func(r *metrics.Report) float64 { return r.Accuracy }},
		{"precision", func(r *metrics.Report) float64 { return r.Precision }},
		{"recall", func(r *metrics.Report) float64 { return r.Recall }},
	}

	names := make([]string, len(reports))
	for i, r := range reports {
		names[i] = r.Model
	}

	for k, s := range series {
		values := make(plotter.Values, len(reports))
		for i, r := range reports {
			if v := s.value(r); !math.IsNaN(v) {
				values[i] = v
			}
		}
		bars, err := plotter.NewBarChart(values, barWidth)
		if err != nil {
			return nil, errors.Wrapf(err, "bar chart %s", s.name)
		}
		bars.LineStyle.Width = vg.Length(0)
		bars.Color = plotutil.Color(k)
		bars.Offset = barWidth * vg.Length(k-len(series)/2)
		p.Add(bars)
		p.Legend.Add(s.name, bars)
	}
	p.NominalX(names...)
	return p, nil
}

// SaveMetricsChart writes the metrics chart to path. The image format
// follows the file extension (png, svg, pdf, ...).
func SaveMetricsChart(path string, reports []*metrics.Report) error {
	p, err := newMetricsChart(reports)
	if err != nil {
		return err
	}
	if err := p.Save(chartWidth, chartHeight, path); err != nil {
		return errors.Wrapf(err, "save chart %s", path)
	}
	return nil
}

// WriteMetricsChart renders the metrics chart to w in the given image
// format, e.g. "png" or "svg".
func WriteMetricsChart(w io.Writer, reports []*metrics.Report, format string) error {
	p, err := newMetricsChart(reports)
	if err != nil {
		return err
	}
	wt, err := p.WriterTo(chartWidth, chartHeight, format)
	if err != nil {
		return errors.Wrapf(err, "chart format %s", format)
	}
	if _, err := wt.WriteTo(w); err != nil {
		return errors.Wrap(err, "write chart")
	}
	return nil
}
