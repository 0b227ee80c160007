package model

import (
	"fmt"
	"strconv"

	"github.com/secmon-lab/vulntrend/pkg/domain/types"
)

// Color is an RGBA color with alpha in [0, 1]
type Color struct {
	R uint8   `json:"r"`
	G uint8   `json:"g"`
	B uint8   `json:"b"`
	A float64 `json:"a"`
}

// CSS returns the color as a CSS rgba() expression
func (c Color) CSS() string {
	return fmt.Sprintf("rgba(%d, %d, %d, %s)", c.R, c.G, c.B, strconv.FormatFloat(c.A, 'f', -1, 64))
}

// Alpha8 returns the alpha channel scaled to 0-255
func (c Color) Alpha8() uint8 {
	switch {
	case c.A <= 0:
		return 0
	case c.A >= 1:
		return 255
	default:
		return uint8(c.A*255 + 0.5)
	}
}

// DatasetStyle is the fixed presentation of one (source, tier) series
type DatasetStyle struct {
	Label  string
	Source types.Source
	Tier   types.Tier
	Color  Color
}

// Stack returns the stack group of the dataset
func (s DatasetStyle) Stack() string {
	return s.Source.String()
}

// DatasetStyles returns the six dataset styles in drawing order
func DatasetStyles() []DatasetStyle {
	return []DatasetStyle{
		{Label: "Cyber High", Source: types.SourceCyber, Tier: types.TierHigh, Color: Color{220, 38, 38, 0.8}},
		{Label: "Cyber Medium", Source: types.SourceCyber, Tier: types.TierMedium, Color: Color{249, 115, 22, 0.8}},
		{Label: "Cyber Low", Source: types.SourceCyber, Tier: types.TierLow, Color: Color{234, 179, 8, 0.8}},
		{Label: "Sonar High", Source: types.SourceSonar, Tier: types.TierHigh, Color: Color{239, 68, 68, 0.8}},
		{Label: "Sonar Medium", Source: types.SourceSonar, Tier: types.TierMedium, Color: Color{251, 191, 36, 0.8}},
		{Label: "Sonar Low", Source: types.SourceSonar, Tier: types.TierLow, Color: Color{250, 204, 21, 0.8}},
	}
}

// Dataset is one series of the chart with its style
type Dataset struct {
	DatasetStyle
	Data []float64
}

// Chart is a renderer-agnostic description of the stacked bar chart
type Chart struct {
	Title       string
	XAxisTitle  string
	YAxisTitle  string
	Labels      []string
	Datasets    []Dataset
	Stacked     bool
	BeginAtZero bool
	Legend      string
	Locale      Locale
}

// BuildChart creates the chart description from a series bundle
func BuildChart(bundle *SeriesBundle, locale Locale) *Chart {
	msg := locale.Messages()

	chart := &Chart{
		Title:       msg.Title,
		XAxisTitle:  msg.XAxisTitle,
		YAxisTitle:  msg.YAxisTitle,
		Labels:      bundle.Labels,
		Stacked:     true,
		BeginAtZero: true,
		Legend:      "top",
		Locale:      locale,
	}

	for _, style := range DatasetStyles() {
		chart.Datasets = append(chart.Datasets, Dataset{
			DatasetStyle: style,
			Data:         bundle.Series(style.Source, style.Tier),
		})
	}

	return chart
}

// Stacks returns the stack groups in order of first appearance
func (c *Chart) Stacks() []string {
	var stacks []string
	seen := make(map[string]bool)
	for _, ds := range c.Datasets {
		if !seen[ds.Stack()] {
			seen[ds.Stack()] = true
			stacks = append(stacks, ds.Stack())
		}
	}
	return stacks
}

// MaxStackTotal returns the highest stacked value over all labels and stacks
func (c *Chart) MaxStackTotal() float64 {
	var maxTotal float64
	for i := range c.Labels {
		totals := make(map[string]float64)
		for _, ds := range c.Datasets {
			if i < len(ds.Data) {
				totals[ds.Stack()] += ds.Data[i]
			}
		}
		for _, total := range totals {
			if total > maxTotal {
				maxTotal = total
			}
		}
	}
	return maxTotal
}
