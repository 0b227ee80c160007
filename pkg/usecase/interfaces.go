package usecase

import (
	"context"
	"io"

	"github.com/secmon-lab/vulntrend/pkg/domain/interfaces"
	"github.com/secmon-lab/vulntrend/pkg/domain/model"
)

// DashboardUseCase defines the interface of one aggregation-and-render run
type DashboardUseCase interface {
	// Run builds the report and renders the chart on success. The report is always terminal.
	Run(ctx context.Context, renderer interfaces.ChartRenderer, w io.Writer) *model.Report

	// Page returns what the status page shows for a finished report
	Page(report *model.Report) *model.Page

	// Record stores and publishes a finished report
	Record(ctx context.Context, report *model.Report) error

	// Locale returns the configured locale
	Locale() model.Locale
}

var _ DashboardUseCase = (*Dashboard)(nil)
