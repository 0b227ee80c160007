package chart

import (
	"context"
	"html/template"
	"io"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/vulntrend/frontend"
	"github.com/secmon-lab/vulntrend/pkg/domain/interfaces"
	"github.com/secmon-lab/vulntrend/pkg/domain/model"
	"github.com/secmon-lab/vulntrend/pkg/domain/types"
)

// HTML renders the chart page: a loading indicator and a Chart.js canvas
type HTML struct {
	tmpl   *template.Template
	locale model.Locale
}

// pageData is the template input
type pageData struct {
	Lang        string
	Title       string
	StatusText  string
	HideLoading bool
	Config      *ChartJSConfig
}

// NewHTML creates an HTML renderer; locale is used for pages without a chart
func NewHTML(locale model.Locale) (*HTML, error) {
	tmpl, err := frontend.PageTemplate()
	if err != nil {
		return nil, goerr.Wrap(err, "failed to parse page template")
	}
	return &HTML{tmpl: tmpl, locale: locale}, nil
}

// Render writes a page with the chart drawn and the loading indicator hidden
func (h *HTML) Render(ctx context.Context, w io.Writer, c *model.Chart) error {
	return h.RenderPage(ctx, w, &model.Page{
		Status: model.Status{State: types.LoadStateSuccess},
		Chart:  c,
		Locale: c.Locale,
	})
}

// RenderPage writes the page for any state. The chart is drawn only on success;
// otherwise the loading indicator shows the loading text or the failure message.
func (h *HTML) RenderPage(ctx context.Context, w io.Writer, page *model.Page) error {
	locale := page.Locale
	if locale == "" {
		locale = h.locale
	}
	msg := locale.Messages()

	data := pageData{
		Lang:       string(locale),
		Title:      msg.Title,
		StatusText: msg.Loading,
	}

	switch page.Status.State {
	case types.LoadStateSuccess:
		if page.Chart == nil {
			return goerr.New("success page has no chart")
		}
		data.HideLoading = true
		data.Config = NewChartJSConfig(page.Chart)
	case types.LoadStateFailed:
		data.StatusText = page.Status.Message
	}

	if err := h.tmpl.Execute(w, data); err != nil {
		return goerr.Wrap(err, "failed to execute page template")
	}
	return nil
}

func (h *HTML) ContentType() string {
	return "text/html; charset=utf-8"
}

var (
	_ interfaces.ChartRenderer = (*HTML)(nil)
	_ interfaces.PageRenderer  = (*HTML)(nil)
)
