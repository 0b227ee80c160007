package chart

import (
	"context"
	"io"
	"os"

	"github.com/golang/freetype/truetype"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/vulntrend/pkg/domain/interfaces"
	"github.com/secmon-lab/vulntrend/pkg/domain/model"
	gochart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// Format is the output format of Image
type Format string

const (
	FormatPNG Format = "png"
	FormatSVG Format = "svg"

	DefaultWidth  = 1200
	DefaultHeight = 600
)

// barFill is the share of a label slot covered by its bars
const barFill = 0.8

// Image draws the stacked bar chart as PNG or SVG with go-chart
type Image struct {
	format Format
	width  int
	height int
	font   *truetype.Font
}

// ImageOption configures Image
type ImageOption func(*Image)

// WithSize sets the canvas size in pixels; non-positive values keep the default
func WithSize(width, height int) ImageOption {
	return func(i *Image) {
		if width > 0 {
			i.width = width
		}
		if height > 0 {
			i.height = height
		}
	}
}

// WithFont sets the font of titles, labels and legend. Needed for CJK titles.
func WithFont(font *truetype.Font) ImageOption {
	return func(i *Image) {
		i.font = font
	}
}

// NewImage creates an image renderer
func NewImage(format Format, opts ...ImageOption) (*Image, error) {
	if format != FormatPNG && format != FormatSVG {
		return nil, goerr.New("unsupported image format", goerr.V("format", format))
	}

	img := &Image{
		format: format,
		width:  DefaultWidth,
		height: DefaultHeight,
	}
	for _, opt := range opts {
		opt(img)
	}
	return img, nil
}

// LoadFont reads a TrueType font file
func LoadFont(path string) (*truetype.Font, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read font file", goerr.V("path", path))
	}
	font, err := truetype.Parse(data)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to parse font file", goerr.V("path", path))
	}
	return font, nil
}

func (i *Image) Render(ctx context.Context, w io.Writer, c *model.Chart) error {
	if len(c.Labels) == 0 {
		return goerr.New("chart has no label")
	}

	ch := i.build(c)

	provider := gochart.PNG
	if i.format == FormatSVG {
		provider = gochart.SVG
	}
	if err := ch.Render(provider, w); err != nil {
		return goerr.Wrap(err, "failed to render chart image", goerr.V("format", i.format))
	}
	return nil
}

func (i *Image) ContentType() string {
	if i.format == FormatSVG {
		return "image/svg+xml"
	}
	return "image/png"
}

func (i *Image) build(c *model.Chart) gochart.Chart {
	n := len(c.Labels)

	ticks := make([]gochart.Tick, 0, n)
	for idx, label := range c.Labels {
		ticks = append(ticks, gochart.Tick{Value: float64(idx + 1), Label: label})
	}

	yMax := c.MaxStackTotal() * 1.1
	if yMax < 1 {
		yMax = 1
	}

	ch := gochart.Chart{
		Title:      c.Title,
		Width:      i.width,
		Height:     i.height,
		Font:       i.font,
		Background: gochart.Style{Padding: gochart.Box{Top: 60, Left: 16, Right: 16, Bottom: 16}},
		XAxis: gochart.XAxis{
			Name:  c.XAxisTitle,
			Range: &gochart.ContinuousRange{Min: 0.5, Max: float64(n) + 0.5},
			Ticks: ticks,
			Style: gochart.Style{TextRotationDegrees: 45},
		},
		YAxis: gochart.YAxis{
			Name:  c.YAxisTitle,
			Range: &gochart.ContinuousRange{Min: 0, Max: yMax},
		},
		Series: segmentSeries(c),
	}
	ch.Elements = []gochart.Renderable{gochart.Legend(&ch)}

	return ch
}

// segmentSeries turns each dataset into bar segments placed on top of the
// lower tiers of the same stack. Stacks sit side by side within a label slot.
func segmentSeries(c *model.Chart) []gochart.Series {
	stacks := c.Stacks()
	stackIndex := make(map[string]int, len(stacks))
	for idx, s := range stacks {
		stackIndex[s] = idx
	}

	bases := make(map[string][]float64, len(stacks))
	for _, s := range stacks {
		bases[s] = make([]float64, len(c.Labels))
	}

	series := make([]gochart.Series, 0, len(c.Datasets))
	for _, ds := range c.Datasets {
		stack := ds.Stack()
		base := append([]float64(nil), bases[stack]...)
		for idx := range base {
			if idx < len(ds.Data) {
				bases[stack][idx] += ds.Data[idx]
			}
		}

		color := toDrawingColor(ds.Color)
		series = append(series, &stackedSegment{
			name:       ds.Label,
			values:     ds.Data,
			base:       base,
			stack:      stackIndex[stack],
			stackCount: len(stacks),
			style: gochart.Style{
				FillColor:   color,
				StrokeColor: color,
				StrokeWidth: 1,
			},
		})
	}
	return series
}

func toDrawingColor(c model.Color) drawing.Color {
	return drawing.Color{R: c.R, G: c.G, B: c.B, A: c.Alpha8()}
}

// stackedSegment implements gochart.Series for one tier of one stack
type stackedSegment struct {
	name       string
	values     []float64
	base       []float64
	stack      int
	stackCount int
	style      gochart.Style
}

func (s *stackedSegment) GetName() string { return s.name }

func (s *stackedSegment) GetYAxis() gochart.YAxisType { return gochart.YAxisPrimary }

func (s *stackedSegment) GetStyle() gochart.Style { return s.style }

func (s *stackedSegment) Validate() error {
	if len(s.values) != len(s.base) {
		return goerr.New("segment values not aligned with base",
			goerr.V("series", s.name),
			goerr.V("values", len(s.values)),
			goerr.V("base", len(s.base)))
	}
	if s.stackCount < 1 || s.stack < 0 || s.stack >= s.stackCount {
		return goerr.New("invalid stack position", goerr.V("series", s.name))
	}
	return nil
}

func (s *stackedSegment) Render(r gochart.Renderer, canvasBox gochart.Box, xrange, yrange gochart.Range, defaults gochart.Style) {
	style := s.style.InheritFrom(defaults)

	slot := float64(xrange.Translate(2) - xrange.Translate(1))
	barWidth := slot * barFill / float64(s.stackCount)

	for idx, v := range s.values {
		if v <= 0 {
			continue
		}
		center := float64(canvasBox.Left + xrange.Translate(float64(idx+1)))
		left := center - slot*barFill/2 + float64(s.stack)*barWidth

		bottom := canvasBox.Bottom - yrange.Translate(s.base[idx])
		top := canvasBox.Bottom - yrange.Translate(s.base[idx]+v)
		if top == bottom {
			top = bottom - 1
		}

		gochart.Draw.Box(r, gochart.Box{
			Top:    top,
			Left:   int(left),
			Right:  int(left + barWidth),
			Bottom: bottom,
		}, style)
	}
}

var _ interfaces.ChartRenderer = (*Image)(nil)
