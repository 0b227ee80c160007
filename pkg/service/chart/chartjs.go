package chart

import "github.com/secmon-lab/vulntrend/pkg/domain/model"

// ChartJSConfig is the Chart.js configuration of the stacked bar chart
type ChartJSConfig struct {
	Type    string         `json:"type"`
	Data    ChartJSData    `json:"data"`
	Options ChartJSOptions `json:"options"`
}

// ChartJSData holds the labels and datasets
type ChartJSData struct {
	Labels   []string         `json:"labels"`
	Datasets []ChartJSDataset `json:"datasets"`
}

// ChartJSDataset is one bar series in a stack
type ChartJSDataset struct {
	Label           string    `json:"label"`
	Data            []float64 `json:"data"`
	BackgroundColor string    `json:"backgroundColor"`
	Stack           string    `json:"stack"`
}

// ChartJSOptions holds the chart options
type ChartJSOptions struct {
	Responsive bool           `json:"responsive"`
	Plugins    ChartJSPlugins `json:"plugins"`
	Scales     ChartJSScales  `json:"scales"`
}

// ChartJSPlugins configures the title and legend plugins
type ChartJSPlugins struct {
	Title  ChartJSTitle  `json:"title"`
	Legend ChartJSLegend `json:"legend"`
}

// ChartJSTitle is a chart or axis title
type ChartJSTitle struct {
	Display bool         `json:"display"`
	Text    string       `json:"text"`
	Font    *ChartJSFont `json:"font,omitempty"`
}

// ChartJSFont sets the title font size
type ChartJSFont struct {
	Size int `json:"size"`
}

// ChartJSLegend places the legend
type ChartJSLegend struct {
	Position string `json:"position"`
}

// ChartJSScales holds both axes
type ChartJSScales struct {
	X ChartJSAxis `json:"x"`
	Y ChartJSAxis `json:"y"`
}

// ChartJSAxis is one stacked axis
type ChartJSAxis struct {
	Stacked     bool         `json:"stacked"`
	BeginAtZero bool         `json:"beginAtZero,omitempty"`
	Title       ChartJSTitle `json:"title"`
}

// NewChartJSConfig converts the chart description into a Chart.js bar config
func NewChartJSConfig(c *model.Chart) *ChartJSConfig {
	cfg := &ChartJSConfig{
		Type: "bar",
		Data: ChartJSData{
			Labels:   c.Labels,
			Datasets: make([]ChartJSDataset, 0, len(c.Datasets)),
		},
		Options: ChartJSOptions{
			Responsive: true,
			Plugins: ChartJSPlugins{
				Title:  ChartJSTitle{Display: true, Text: c.Title, Font: &ChartJSFont{Size: 16}},
				Legend: ChartJSLegend{Position: c.Legend},
			},
			Scales: ChartJSScales{
				X: ChartJSAxis{
					Stacked: c.Stacked,
					Title:   ChartJSTitle{Display: true, Text: c.XAxisTitle},
				},
				Y: ChartJSAxis{
					Stacked:     c.Stacked,
					BeginAtZero: c.BeginAtZero,
					Title:       ChartJSTitle{Display: true, Text: c.YAxisTitle},
				},
			},
		},
	}

	for _, ds := range c.Datasets {
		cfg.Data.Datasets = append(cfg.Data.Datasets, ChartJSDataset{
			Label:           ds.Label,
			Data:            ds.Data,
			BackgroundColor: ds.Color.CSS(),
			Stack:           ds.Stack(),
		})
	}

	return cfg
}
