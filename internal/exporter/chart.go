package exporter

import (
	"fmt"
	"image/color"
	"io"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"scorepanel/internal/dataprocessing"
	"scorepanel/pkg/contracts/domain"
)

// Chart image formats
const (
	FormatPNG = "png"
	FormatSVG = "svg"
)

const (
	chartWidth  = 10 * vg.Inch
	chartHeight = 6 * vg.Inch
)

var (
	participationColor = color.RGBA{R: 0xFF, G: 0x8C, B: 0x00, A: 255}
	outcomeColor       = color.RGBA{A: 255}
	regionalDashes     = []vg.Length{vg.Points(5), vg.Points(3)}
)

// ContentType returns the MIME type of a chart format
func ContentType(format string) string {
	if format == FormatSVG {
		return "image/svg+xml"
	}
	return "image/png"
}

// ValidFormat reports whether format can be rendered
func ValidFormat(format string) bool {
	return format == FormatPNG || format == FormatSVG
}

// ChartRenderer draws the charts of one view
type ChartRenderer struct {
	groups map[string]domain.ColumnGroup
}

// NewChartRenderer creates a renderer that labels points using the
// view's column group formats
func NewChartRenderer(v domain.View) *ChartRenderer {
	groups := make(map[string]domain.ColumnGroup, len(v.Groups))
	for _, g := range v.Groups {
		groups[g.Key] = g
	}
	return &ChartRenderer{groups: groups}
}

// Render writes the chart as an image in the given format
func (r *ChartRenderer) Render(w io.Writer, chart *domain.ChartView, format string) error {
	if chart == nil {
		return fmt.Errorf("no chart to render")
	}
	if !ValidFormat(format) {
		return fmt.Errorf("unsupported chart format %q", format)
	}

	p, err := r.Plot(chart)
	if err != nil {
		return err
	}

	wt, err := p.WriterTo(chartWidth, chartHeight, format)
	if err != nil {
		return fmt.Errorf("failed to prepare %s writer: %w", format, err)
	}
	if _, err := wt.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write %s chart: %w", format, err)
	}
	return nil
}

// Plot builds the gonum plot of a chart
func (r *ChartRenderer) Plot(chart *domain.ChartView) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = chart.Title
	p.Title.TextStyle.Font.Size = vg.Points(14)
	p.BackgroundColor = color.White
	p.Legend.Top = true
	p.Add(plotter.NewGrid())

	for _, s := range chart.Series {
		if err := r.addSeries(p, s); err != nil {
			return nil, err
		}
		if hasReference(s) {
			if err := r.addReference(p, s); err != nil {
				return nil, err
			}
		}
	}

	p.X.Tick.Marker = stageTicks(chart.Stages)
	p.X.Min = -0.5
	p.X.Max = float64(len(chart.Stages)) - 0.5
	p.X.Tick.Label.Rotation = math.Pi / 8
	p.X.Tick.Label.XAlign = draw.XRight
	p.X.Tick.Label.YAlign = draw.YCenter

	return p, nil
}

func (r *ChartRenderer) addSeries(p *plot.Plot, s domain.Series) error {
	var pts plotter.XYs
	var labels []string
	for i, pt := range s.Points {
		if !pt.Value.Valid {
			continue
		}
		pts = append(pts, plotter.XY{X: float64(i), Y: pt.Value.Value})
		labels = append(labels, r.label(s.Family, pt.Raw))
	}
	if len(pts) == 0 {
		return nil
	}

	line, scatter, err := lineWithMarkers(pts, familyColor(s.Family), s.Entity == domain.EntityRegional)
	if err != nil {
		return fmt.Errorf("series %q: %w", s.Name, err)
	}
	p.Add(line, scatter)
	p.Legend.Add(s.Name, line, scatter)

	if s.Entity == domain.EntitySchool {
		l, err := plotter.NewLabels(plotter.XYLabels{XYs: pts, Labels: labels})
		if err != nil {
			return fmt.Errorf("series %q labels: %w", s.Name, err)
		}
		l.Offset = vg.Point{X: -vg.Points(10), Y: vg.Points(6)}
		p.Add(l)
	}
	return nil
}

// addReference draws the regional values carried on each point as a dashed
// line
func (r *ChartRenderer) addReference(p *plot.Plot, s domain.Series) error {
	var pts plotter.XYs
	for i, pt := range s.Points {
		if pt.Reference == nil || !pt.Reference.Valid {
			continue
		}
		pts = append(pts, plotter.XY{X: float64(i), Y: pt.Reference.Scale(r.groups[s.Family].ChartDivisor).Value})
	}
	if len(pts) == 0 {
		return nil
	}

	line, scatter, err := lineWithMarkers(pts, familyColor(s.Family), true)
	if err != nil {
		return fmt.Errorf("series %q reference: %w", s.Name, err)
	}
	p.Add(line, scatter)
	p.Legend.Add("Regional", line, scatter)
	return nil
}

func (r *ChartRenderer) label(family string, raw domain.Number) string {
	g, ok := r.groups[family]
	if !ok {
		return dataprocessing.FormatDecimal(raw)
	}
	if g.Format == domain.FormatPercent {
		// raw percentages keep their 0-100 scale
		return dataprocessing.FormatPercent(raw.Scale(100))
	}
	return dataprocessing.FormatValue(raw, g.Format)
}

func lineWithMarkers(pts plotter.XYs, c color.Color, dashed bool) (*plotter.Line, *plotter.Scatter, error) {
	line, err := plotter.NewLine(pts)
	if err != nil {
		return nil, nil, err
	}
	line.Color = c
	line.Width = vg.Points(2)
	if dashed {
		line.Dashes = regionalDashes
	}

	scatter, err := plotter.NewScatter(pts)
	if err != nil {
		return nil, nil, err
	}
	scatter.Color = c
	scatter.Radius = vg.Points(3)
	scatter.Shape = draw.CircleGlyph{}
	return line, scatter, nil
}

func familyColor(family string) color.Color {
	if family == "participation" {
		return participationColor
	}
	return outcomeColor
}

func hasReference(s domain.Series) bool {
	for _, pt := range s.Points {
		if pt.Reference != nil {
			return true
		}
	}
	return false
}

func stageTicks(stages []string) plot.ConstantTicks {
	ticks := make(plot.ConstantTicks, len(stages))
	for i, s := range stages {
		ticks[i] = plot.Tick{Value: float64(i), Label: s}
	}
	return ticks
}
