package charts

import (
	"bytes"
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/justas-b/ecommerce-dashboard/pkg/contracts/domain"
)

// Default image size in pixels
const (
	DefaultWidth  = 960
	DefaultHeight = 480

	noDataLabel = "No data"
	// maxLabels keeps the x axis readable on long histograms
	maxLabels = 16
	minBarPx  = 2
)

// ContentType is the media type produced by Render
const ContentType = "image/png"

var barColor = drawing.ColorFromHex("1f77b4")

// Renderer draws figures at a fixed size
type Renderer struct {
	Width  int
	Height int
}

// NewRenderer returns a renderer with the default size
func NewRenderer() *Renderer {
	return &Renderer{Width: DefaultWidth, Height: DefaultHeight}
}

// Render writes fig to w as PNG
func (r *Renderer) Render(w io.Writer, fig domain.Figure) error {
	var err error
	switch {
	case fig.Kind == domain.FigurePie && fig.Total() > 0:
		err = r.pie(fig).Render(chart.PNG, w)
	case fig.Kind == domain.FigurePie, fig.Kind == domain.FigureBar, fig.Kind == domain.FigureHistogram:
		err = r.bar(fig).Render(chart.PNG, w)
	default:
		return fmt.Errorf("unsupported figure kind %q", fig.Kind)
	}
	if err != nil {
		return fmt.Errorf("render %q: %w", fig.Title, err)
	}
	return nil
}

// RenderBytes is Render into a buffer
func (r *Renderer) RenderBytes(fig domain.Figure) ([]byte, error) {
	var buf bytes.Buffer
	if err := r.Render(&buf, fig); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (r *Renderer) size() (int, int) {
	w, h := r.Width, r.Height
	if w <= 0 {
		w = DefaultWidth
	}
	if h <= 0 {
		h = DefaultHeight
	}
	return w, h
}

func (r *Renderer) bar(fig domain.Figure) chart.BarChart {
	width, height := r.size()

	bars := make([]chart.Value, 0, len(fig.Points))
	step := int(math.Ceil(float64(len(fig.Points)) / maxLabels))
	if step < 1 || fig.Kind != domain.FigureHistogram {
		step = 1
	}
	var max float64
	for i, p := range fig.Points {
		label := p.Label
		if i%step != 0 {
			label = ""
		}
		bars = append(bars, chart.Value{
			Label: label,
			Value: p.Value,
			Style: chart.Style{FillColor: barColor, StrokeColor: barColor},
		})
		max = math.Max(max, p.Value)
	}
	if len(bars) == 0 {
		bars = append(bars, chart.Value{Label: noDataLabel, Value: 0})
	}
	if max <= 0 {
		max = 1
	}

	plotWidth := width - 120
	barWidth := plotWidth / (2 * len(bars))
	if barWidth < minBarPx {
		barWidth = minBarPx
	}
	spacing := barWidth
	if fig.Kind == domain.FigureHistogram {
		barWidth = plotWidth / len(bars)
		if barWidth < minBarPx {
			barWidth = minBarPx
		}
		spacing = 0
	}

	return chart.BarChart{
		Title:      fig.Title,
		Width:      width,
		Height:     height,
		BarWidth:   barWidth,
		BarSpacing: spacing,
		Background: chart.Style{Padding: chart.Box{Top: 48, Left: 16, Right: 16, Bottom: 16}},
		YAxis: chart.YAxis{
			Name:           fig.YLabel,
			Range:          &chart.ContinuousRange{Min: 0, Max: max * 1.1},
			ValueFormatter: formatValue,
		},
		Bars: bars,
	}
}

func (r *Renderer) pie(fig domain.Figure) chart.PieChart {
	width, height := r.size()

	values := make([]chart.Value, 0, len(fig.Points))
	for _, p := range fig.Points {
		if p.Value <= 0 {
			continue
		}
		values = append(values, chart.Value{
			Label: fmt.Sprintf("%s (%s)", p.Label, formatValue(p.Value)),
			Value: p.Value,
		})
	}

	return chart.PieChart{
		Title:      fig.Title,
		Width:      width,
		Height:     height,
		Background: chart.Style{Padding: chart.Box{Top: 48}},
		Values:     values,
	}
}

func formatValue(v interface{}) string {
	f, ok := v.(float64)
	if !ok {
		return fmt.Sprint(v)
	}
	if f == math.Trunc(f) {
		return strconv.FormatFloat(f, 'f', 0, 64)
	}
	return strconv.FormatFloat(f, 'f', 2, 64)
}
