package interfaces

//go:generate moq -out mocks/renderer_mock.go -pkg mocks . ChartRenderer

import (
	"context"
	"io"

	"github.com/secmon-lab/vulntrend/pkg/domain/model"
)

// ChartRenderer turns a chart description into an artifact
type ChartRenderer interface {
	Render(ctx context.Context, w io.Writer, chart *model.Chart) error
	ContentType() string
}

// PageRenderer renders the full status page (loading indicator and chart mount)
type PageRenderer interface {
	RenderPage(ctx context.Context, w io.Writer, page *model.Page) error
}
