package interfaces

import (
	"context"

	"github.com/secmon-lab/vulntrend/pkg/domain/model"
	"github.com/secmon-lab/vulntrend/pkg/domain/types"
)

// Repository defines the interface for report persistence
type Repository interface {
	// PutReport stores or replaces a report
	PutReport(ctx context.Context, report *model.Report) error
	// GetReport retrieves a report by ID. Returns model.ErrReportNotFound if missing.
	GetReport(ctx context.Context, id types.ReportID) (*model.Report, error)
	// ListReports returns reports, newest first. limit <= 0 means no limit.
	ListReports(ctx context.Context, limit int) ([]*model.Report, error)

	// Close closes the repository connection
	Close() error
}
