package config

import (
	"log/slog"

	"github.com/m-mizutani/goerr/v2"
	controller "github.com/secmon-lab/vulntrend/pkg/controller/http"
	"github.com/secmon-lab/vulntrend/pkg/domain/interfaces"
	"github.com/secmon-lab/vulntrend/pkg/domain/model"
	"github.com/secmon-lab/vulntrend/pkg/service/chart"
	"github.com/urfave/cli/v3"
)

// Output formats of the render command
const (
	FormatPNG  = "png"
	FormatSVG  = "svg"
	FormatHTML = "html"
	FormatJSON = "json"
)

// Chart holds chart rendering configuration
type Chart struct {
	Format string
	Width  int
	Height int
	Font   string
}

// Flags returns CLI flags for Chart configuration. withFormat adds --format.
func (c *Chart) Flags(withFormat bool) []cli.Flag {
	flags := []cli.Flag{
		&cli.IntFlag{
			Name:        "width",
			Usage:       "Image width in pixels",
			Category:    "Chart",
			Value:       chart.DefaultWidth,
			Sources:     cli.EnvVars("VULNTREND_WIDTH"),
			Destination: &c.Width,
		},
		&cli.IntFlag{
			Name:        "height",
			Usage:       "Image height in pixels",
			Category:    "Chart",
			Value:       chart.DefaultHeight,
			Sources:     cli.EnvVars("VULNTREND_HEIGHT"),
			Destination: &c.Height,
		},
		&cli.StringFlag{
			Name:        "font",
			Usage:       "TrueType font file for image titles and labels (needed for CJK text)",
			Category:    "Chart",
			Sources:     cli.EnvVars("VULNTREND_FONT"),
			Destination: &c.Font,
		},
	}

	if withFormat {
		flags = append([]cli.Flag{
			&cli.StringFlag{
				Name:        "format",
				Aliases:     []string{"f"},
				Usage:       "Output format (png, svg, html, json)",
				Category:    "Chart",
				Value:       FormatPNG,
				Sources:     cli.EnvVars("VULNTREND_FORMAT"),
				Destination: &c.Format,
			},
		}, flags...)
	}

	return flags
}

func (c *Chart) imageOptions() ([]chart.ImageOption, error) {
	opts := []chart.ImageOption{chart.WithSize(c.Width, c.Height)}
	if c.Font != "" {
		font, err := chart.LoadFont(c.Font)
		if err != nil {
			return nil, err
		}
		opts = append(opts, chart.WithFont(font))
	}
	return opts, nil
}

// Configure creates the renderer of the selected format
func (c *Chart) Configure(locale model.Locale) (interfaces.ChartRenderer, error) {
	switch c.Format {
	case FormatPNG, FormatSVG:
		opts, err := c.imageOptions()
		if err != nil {
			return nil, err
		}
		return chart.NewImage(chart.Format(c.Format), opts...)
	case FormatHTML:
		return chart.NewHTML(locale)
	case FormatJSON:
		return chart.NewJSON(true), nil
	default:
		return nil, goerr.New("invalid chart format", goerr.V("format", c.Format))
	}
}

// ConfigureServer creates the renderers of every HTTP endpoint
func (c *Chart) ConfigureServer(locale model.Locale) (controller.Renderers, error) {
	opts, err := c.imageOptions()
	if err != nil {
		return controller.Renderers{}, err
	}

	page, err := chart.NewHTML(locale)
	if err != nil {
		return controller.Renderers{}, err
	}
	png, err := chart.NewImage(chart.FormatPNG, opts...)
	if err != nil {
		return controller.Renderers{}, err
	}
	svg, err := chart.NewImage(chart.FormatSVG, opts...)
	if err != nil {
		return controller.Renderers{}, err
	}

	return controller.Renderers{
		Page: page,
		JSON: chart.NewJSON(false),
		PNG:  png,
		SVG:  svg,
	}, nil
}

// LogValue returns structured log value
func (c Chart) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("format", c.Format),
		slog.Int("width", c.Width),
		slog.Int("height", c.Height),
		slog.String("font", c.Font),
	)
}
