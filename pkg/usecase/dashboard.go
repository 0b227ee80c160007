package usecase

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/vulntrend/pkg/domain/interfaces"
	"github.com/secmon-lab/vulntrend/pkg/domain/model"
	"github.com/secmon-lab/vulntrend/pkg/domain/types"
)

// DashboardConfig holds configuration for Dashboard use case
type DashboardConfig struct {
	services []types.Service
	locale   model.Locale
	now      func() time.Time
	repo     interfaces.Repository
	notifier interfaces.Notifier
}

// DashboardOption is a functional option for configuring Dashboard
type DashboardOption func(*DashboardConfig)

// WithServices sets the ordered service list
func WithServices(services []types.Service) DashboardOption {
	return func(c *DashboardConfig) {
		c.services = services
	}
}

// WithLocale sets the locale of chart titles and failure messages
func WithLocale(locale model.Locale) DashboardOption {
	return func(c *DashboardConfig) {
		c.locale = locale
	}
}

// WithClock sets the clock used to compute the reference date
func WithClock(now func() time.Time) DashboardOption {
	return func(c *DashboardConfig) {
		c.now = now
	}
}

// WithRepository stores every finished report
func WithRepository(repo interfaces.Repository) DashboardOption {
	return func(c *DashboardConfig) {
		c.repo = repo
	}
}

// WithNotifier publishes every finished report
func WithNotifier(notifier interfaces.Notifier) DashboardOption {
	return func(c *DashboardConfig) {
		c.notifier = notifier
	}
}

// NewDashboardConfig creates a new DashboardConfig with default values and optional settings
func NewDashboardConfig(opts ...DashboardOption) *DashboardConfig {
	config := &DashboardConfig{
		services: model.DefaultServices(),
		locale:   model.DefaultLocale,
		now:      time.Now,
	}

	for _, opt := range opts {
		opt(config)
	}

	return config
}

// Dashboard runs period computation, aggregation, flattening and rendering
type Dashboard struct {
	aggregator *Aggregator
	config     *DashboardConfig
}

// NewDashboard creates a new Dashboard reading snapshots from reader
func NewDashboard(reader interfaces.SnapshotReader, config *DashboardConfig) *Dashboard {
	if config == nil {
		config = NewDashboardConfig()
	}
	return &Dashboard{
		aggregator: NewAggregator(NewSnapshotFetcher(reader)),
		config:     config,
	}
}

// Locale returns the configured locale
func (d *Dashboard) Locale() model.Locale {
	return d.config.locale
}

// Build computes the periods, aggregates snapshots and flattens them into the report bundle.
// The returned report is still loading; err is a structural failure, panics included.
func (d *Dashboard) Build(ctx context.Context) (report *model.Report, err error) {
	report = model.NewReport(time.Time{}, d.config.services)

	defer func() {
		if r := recover(); r != nil {
			err = goerr.New(fmt.Sprint(r), goerr.V("report_id", report.ID))
		}
	}()

	now := d.config.now()
	report.ReferenceDate = now

	periods := model.ComputePeriods(now)
	report.Periods = periods

	aggregated, err := d.aggregator.Aggregate(ctx, d.config.services, periods)
	if err != nil {
		return report, err
	}

	bundle, err := model.Flatten(aggregated, d.config.services, periods)
	if err != nil {
		return report, err
	}
	report.Bundle = bundle

	return report, nil
}

// Run builds the report and, unless a structural failure occurred, renders the chart to w.
// The returned report is always in a terminal state. On failure the renderer is not invoked
// and the status message is the locale's error prefix followed by the failure's message.
func (d *Dashboard) Run(ctx context.Context, renderer interfaces.ChartRenderer, w io.Writer) *model.Report {
	logger := ctxlog.From(ctx)

	report, err := d.Build(ctx)
	if err == nil {
		chart := model.BuildChart(report.Bundle, d.config.locale)
		if renderErr := renderer.Render(ctx, w, chart); renderErr != nil {
			err = goerr.Wrap(renderErr, "failed to render chart")
		}
	}

	if err != nil {
		logger.Error("Failed to build vulnerability chart",
			"error", err,
			"report_id", report.ID,
		)
		if failErr := report.Fail(d.config.locale.FailureMessage(rootCause(err))); failErr != nil {
			logger.Warn("Failed to settle report", "error", failErr)
		}
		return report
	}

	if err := report.Succeed(); err != nil {
		logger.Warn("Failed to settle report", "error", err)
	}

	logger.Info("Vulnerability chart rendered",
		"report_id", report.ID,
		"labels", report.Bundle.Len(),
	)
	return report
}

// Page returns what the status page shows for a finished report
func (d *Dashboard) Page(report *model.Report) *model.Page {
	page := &model.Page{
		Status: report.Status,
		Locale: d.config.locale,
	}
	if report.Status.State == types.LoadStateSuccess && report.Bundle != nil {
		page.Chart = model.BuildChart(report.Bundle, d.config.locale)
	}
	return page
}

// Record stores the report and publishes it when a repository or notifier is configured
func (d *Dashboard) Record(ctx context.Context, report *model.Report) error {
	if d.config.repo != nil {
		if err := d.config.repo.PutReport(ctx, report); err != nil {
			return goerr.Wrap(err, "failed to save report", goerr.V("report_id", report.ID))
		}
	}

	if d.config.notifier != nil {
		if err := d.config.notifier.Notify(ctx, report); err != nil {
			return goerr.Wrap(err, "failed to notify report", goerr.V("report_id", report.ID))
		}
	}

	return nil
}

// rootCause returns the innermost error so the status shows the original message
func rootCause(err error) error {
	for {
		next := errors.Unwrap(err)
		if next == nil {
			return err
		}
		err = next
	}
}
