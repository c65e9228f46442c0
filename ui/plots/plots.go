// Package plots converts the training History of a model to plot points, and saves them as
// JSON points or as a PNG chart.
package plots

import (
	"encoding/json"
	"fmt"
	"image/color"
	"io"
	"math"
	"os"
	"slices"
	"sort"

	"github.com/charmbracelet/lipgloss"
	lgtable "github.com/charmbracelet/lipgloss/table"
	"github.com/nnframework/nnframework/pkg/ml/model"
	"github.com/nnframework/nnframework/pkg/ml/train/metrics"
	"github.com/pkg/errors"
	"golang.org/x/exp/maps"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"k8s.io/klog/v2"
)

// TrainingPlotFileName is the default file name used to store the plot points collected during training.
const TrainingPlotFileName = "training_plot_points.json"

// Point represents a training plot point. It is used to save/load plots.
type Point struct {
	// MetricName of this point.
	MetricName string

	// Short name
	Short string

	// MetricType typically will be "loss", "accuracy".
	// It's used in plotting to aggregate similar metric types in the same plot.
	MetricType string

	// Step is the epoch (starting from 1) this metric was measured, stored as a float64.
	Step float64

	// Value is the metric captured.
	Value float64
}

// PointsFromHistory converts the history of a model to points: for each epoch one point with the
// loss and one with the metric, named after the loss and metric of config.
//
// Epochs with NaN or infinite values are skipped.
func PointsFromHistory(history model.History, config *model.Configuration) []Point {
	loss := config.Loss()
	metric := config.Metric()
	points := make([]Point, 0, 2*history.Len())
	for epoch := range history.Len() {
		step := float64(epoch + 1)
		if v := history.Loss[epoch]; isFinite(v) {
			points = append(points, Point{
				MetricName: "Loss: " + loss.Name(),
				Short:      loss.String(),
				MetricType: metrics.LossMetricType,
				Step:       step,
				Value:      v,
			})
		}
		if epoch < len(history.Metric) {
			if v := history.Metric[epoch]; isFinite(v) {
				points = append(points, Point{
					MetricName: metric.Name(),
					Short:      metric.ShortName(),
					MetricType: metric.MetricType(),
					Step:       step,
					Value:      v,
				})
			}
		}
	}
	return points
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// SavePoints writes the points to filePath, one JSON object per line. Use LoadPoints to read them back.
func SavePoints(filePath string, points []Point) error {
	f, err := os.Create(filePath)
	if err != nil {
		return errors.Wrapf(err, "failed to create plots file %q", filePath)
	}
	enc := json.NewEncoder(f)
	for _, point := range points {
		if err = enc.Encode(point); err != nil {
			_ = f.Close()
			return errors.Wrapf(err, "failed to encode point %v", point)
		}
	}
	if err = f.Close(); err != nil {
		return errors.Wrapf(err, "failed to close plots file %q", filePath)
	}
	klog.V(1).Infof("saved %d plot points to %q", len(points), filePath)
	return nil
}

// LoadPoints parses all plot points saved in the given file.
func LoadPoints(filePath string) ([]Point, error) {
	f, err := os.Open(filePath)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read plots file %q", filePath)
	}
	defer func() { _ = f.Close() }()

	dec := json.NewDecoder(f)
	var points []Point
	for {
		var point Point
		err := dec.Decode(&point)
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrapf(err, "error while decoding plots file %q", filePath)
		}
		points = append(points, point)
	}
	return points, nil
}

// Points is a collection of Point objects organized by their Step value.
// It's a `map[float64][]Point` with several utility methods.
type Points map[float64][]Point

// NewPoints create a Points object from a collection of individual `Point`.
func NewPoints(rawPoints []Point) (points Points) {
	points = make(map[float64][]Point)
	for _, p := range rawPoints {
		points[p.Step] = append(points[p.Step], p)
	}
	return points
}

// Map executes the given function on all individual points, in `Step` order.
func (points Points) Map(fn func(p *Point)) {
	sortedKeys := maps.Keys(points)
	slices.Sort(sortedKeys)
	for _, step := range sortedKeys {
		stepPoints := points[step]
		for ii := range stepPoints {
			fn(&stepPoints[ii])
		}
	}
}

// Extract converts the [Points] structure back to a list of individual points.
// The output is sorted by [Point.Step].
func (points Points) Extract() (rawPoints []Point) {
	points.Map(func(p *Point) {
		rawPoints = append(rawPoints, *p)
	})
	return
}

// MetricsNames return the list of metrics names in the whole collection, sorted alphabetically by their type and
// then by their name.
func (points Points) MetricsNames() []string {
	nameToType := make(map[string]string)
	points.Map(func(p *Point) {
		nameToType[p.MetricName] = p.MetricType
	})
	names := maps.Keys(nameToType)
	slices.Sort(names)
	sort.SliceStable(names, func(i, j int) bool {
		return nameToType[names[i]] < nameToType[names[j]]
	})
	return names
}

// TableForMetrics returns a table with the first column being the `Step` followed
// by the columns given by the `metrics` names.
// If `metrics` is empty, it will include all metrics in the table.
func (points Points) TableForMetrics(metrics ...string) string {
	cellStyle := lipgloss.NewStyle().Padding(0, 1)
	headerStyle := lipgloss.NewStyle().Padding(0, 1).Bold(true).Reverse(true)
	table := lgtable.New().
		Border(lipgloss.RoundedBorder()).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == lgtable.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})

	if len(metrics) == 0 {
		metrics = points.MetricsNames()
	}
	headers := []string{"Epoch"}
	headers = append(headers, metrics...)
	table.Headers(headers...)

	sortedKeys := maps.Keys(points)
	slices.Sort(sortedKeys)
	for _, step := range sortedKeys {
		row := make([]string, 1+len(metrics))
		row[0] = fmt.Sprintf("%.0f", step)
		for _, pt := range points[step] {
			idx := slices.Index(metrics, pt.MetricName)
			if idx != -1 {
				row[idx+1] = fmt.Sprintf("%f", pt.Value)
			}
		}
		table.Row(row...)
	}
	return table.String()
}

func (points Points) String() string {
	return points.TableForMetrics()
}

var lineColors = []color.Color{
	color.RGBA{R: 0x1f, G: 0x77, B: 0xb4, A: 0xff},
	color.RGBA{R: 0xff, G: 0x7f, B: 0x0e, A: 0xff},
	color.RGBA{R: 0x2c, G: 0xa0, B: 0x2c, A: 0xff},
	color.RGBA{R: 0xd6, G: 0x27, B: 0x28, A: 0xff},
}

// SavePNG draws one line per metric of points, with the epoch in the X axis, and saves the chart
// as a PNG image in filePath.
func SavePNG(filePath, title string, points []Point) error {
	if len(points) == 0 {
		return errors.Errorf("SavePNG(%q): no points to plot", filePath)
	}
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "epoch"
	p.Y.Label.Text = "value"
	p.Legend.Top = true

	collection := NewPoints(points)
	for ii, name := range collection.MetricsNames() {
		var xys plotter.XYs
		collection.Map(func(pt *Point) {
			if pt.MetricName == name {
				xys = append(xys, plotter.XY{X: pt.Step, Y: pt.Value})
			}
		})
		line, err := plotter.NewLine(xys)
		if err != nil {
			return errors.Wrapf(err, "SavePNG(%q): metric %q", filePath, name)
		}
		line.Color = lineColors[ii%len(lineColors)]
		line.Width = vg.Points(1.5)
		p.Add(line)
		p.Legend.Add(name, line)
	}
	if err := p.Save(12*vg.Inch, 6*vg.Inch, filePath); err != nil {
		return errors.Wrapf(err, "SavePNG(%q): failed to save", filePath)
	}
	klog.V(1).Infof("saved training plot to %q", filePath)
	return nil
}
