package repository

import (
	"context"
	"sort"
	"sync"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/vulntrend/pkg/domain/interfaces"
	"github.com/secmon-lab/vulntrend/pkg/domain/model"
	"github.com/secmon-lab/vulntrend/pkg/domain/types"
)

// DefaultMemoryCapacity is the number of reports Memory keeps, matching the
// default page size of the report listing
const DefaultMemoryCapacity = 20

// Memory implements Repository interface with in-memory storage.
// Only the newest capacity reports are kept.
type Memory struct {
	mu       sync.RWMutex
	reports  map[types.ReportID]*model.Report
	capacity int
}

// MemoryOption configures Memory
type MemoryOption func(*Memory)

// WithCapacity sets how many reports are kept; n <= 0 keeps every report
func WithCapacity(n int) MemoryOption {
	return func(m *Memory) {
		m.capacity = n
	}
}

// NewMemory creates a new memory repository
func NewMemory(opts ...MemoryOption) interfaces.Repository {
	m := &Memory{
		reports:  make(map[types.ReportID]*model.Report),
		capacity: DefaultMemoryCapacity,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// PutReport saves a report to memory
func (m *Memory) PutReport(ctx context.Context, report *model.Report) error {
	if report == nil {
		return goerr.New("report is nil")
	}
	if err := report.Validate(); err != nil {
		return goerr.Wrap(err, "invalid report")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.reports[report.ID] = cloneReport(report)
	m.evict()
	return nil
}

// evict drops the oldest reports beyond capacity. Caller holds the write lock.
func (m *Memory) evict() {
	if m.capacity <= 0 {
		return
	}
	for len(m.reports) > m.capacity {
		var oldest *model.Report
		for _, r := range m.reports {
			if oldest == nil || r.CreatedAt.Before(oldest.CreatedAt) ||
				(r.CreatedAt.Equal(oldest.CreatedAt) && r.ID < oldest.ID) {
				oldest = r
			}
		}
		delete(m.reports, oldest.ID)
	}
}

// GetReport retrieves a report by ID
func (m *Memory) GetReport(ctx context.Context, id types.ReportID) (*model.Report, error) {
	if id == "" {
		return nil, goerr.New("report ID is empty")
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	report, exists := m.reports[id]
	if !exists {
		return nil, goerr.Wrap(model.ErrReportNotFound, "failed to get report", goerr.V("id", id))
	}

	return cloneReport(report), nil
}

// ListReports lists reports, newest first
func (m *Memory) ListReports(ctx context.Context, limit int) ([]*model.Report, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	reports := make([]*model.Report, 0, len(m.reports))
	for _, report := range m.reports {
		reports = append(reports, cloneReport(report))
	}

	sort.Slice(reports, func(i, j int) bool {
		return reports[i].CreatedAt.After(reports[j].CreatedAt)
	})

	if limit > 0 && len(reports) > limit {
		reports = reports[:limit]
	}

	return reports, nil
}

// Close does nothing for memory repository
func (m *Memory) Close() error {
	return nil
}

// cloneReport copies the report so callers cannot modify stored state
func cloneReport(report *model.Report) *model.Report {
	c := *report
	c.Services = append([]types.Service(nil), report.Services...)
	c.Periods = append([]model.Period(nil), report.Periods...)

	if report.Bundle != nil {
		b := *report.Bundle
		b.Labels = append([]string(nil), report.Bundle.Labels...)
		b.Present = append([]bool(nil), report.Bundle.Present...)
		b.Datasets = model.Datasets{
			Cyber: cloneTierSeries(report.Bundle.Datasets.Cyber),
			Sonar: cloneTierSeries(report.Bundle.Datasets.Sonar),
		}
		c.Bundle = &b
	}

	return &c
}

func cloneTierSeries(ts model.TierSeries) model.TierSeries {
	return model.TierSeries{
		High:   append([]float64(nil), ts.High...),
		Medium: append([]float64(nil), ts.Medium...),
		Low:    append([]float64(nil), ts.Low...),
	}
}

var _ interfaces.Repository = (*Memory)(nil)
