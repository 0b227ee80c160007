package chart

import (
	"context"
	"encoding/json"
	"io"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/vulntrend/pkg/domain/interfaces"
	"github.com/secmon-lab/vulntrend/pkg/domain/model"
)

// JSON writes the Chart.js configuration as JSON
type JSON struct {
	indent bool
}

// NewJSON creates a JSON renderer; indent pretty-prints the output
func NewJSON(indent bool) *JSON {
	return &JSON{indent: indent}
}

func (j *JSON) Render(ctx context.Context, w io.Writer, c *model.Chart) error {
	enc := json.NewEncoder(w)
	if j.indent {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(NewChartJSConfig(c)); err != nil {
		return goerr.Wrap(err, "failed to encode chart config")
	}
	return nil
}

func (j *JSON) ContentType() string {
	return "application/json"
}

var _ interfaces.ChartRenderer = (*JSON)(nil)
