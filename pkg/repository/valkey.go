package repository

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/vulntrend/pkg/domain/interfaces"
	"github.com/secmon-lab/vulntrend/pkg/domain/model"
	"github.com/secmon-lab/vulntrend/pkg/domain/types"
	valkey "github.com/valkey-io/valkey-go"
)

const (
	valkeyReportPrefix = "vulntrend:report:"
	valkeyReportIndex  = "vulntrend:reports"
)

// Valkey implements Repository interface with a Valkey (Redis compatible) server.
// Reports are stored as JSON strings; a sorted set scored by creation time keeps the listing order.
type Valkey struct {
	client valkey.Client
}

// NewValkey creates a new Valkey repository connected to addr
func NewValkey(ctx context.Context, addr string) (interfaces.Repository, error) {
	client, err := valkey.NewClient(valkey.ClientOption{InitAddress: []string{addr}})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create valkey client", goerr.V("addr", addr))
	}

	ctxlog.From(ctx).Info("Valkey repository initialized successfully", "addr", addr)

	return &Valkey{client: client}, nil
}

func valkeyReportKey(id types.ReportID) string {
	return valkeyReportPrefix + id.String()
}

// PutReport saves a report and indexes it by creation time
func (v *Valkey) PutReport(ctx context.Context, report *model.Report) error {
	if report == nil {
		return goerr.New("report is nil")
	}
	if err := report.Validate(); err != nil {
		return goerr.Wrap(err, "invalid report")
	}

	data, err := json.Marshal(report)
	if err != nil {
		return goerr.Wrap(err, "failed to marshal report", goerr.V("id", report.ID))
	}

	setCmd := v.client.B().Set().Key(valkeyReportKey(report.ID)).Value(string(data)).Build()
	if err := v.client.Do(ctx, setCmd).Error(); err != nil {
		return goerr.Wrap(err, "failed to save report to valkey", goerr.V("id", report.ID))
	}

	score := float64(report.CreatedAt.UnixNano())
	indexCmd := v.client.B().Zadd().Key(valkeyReportIndex).ScoreMember().ScoreMember(score, report.ID.String()).Build()
	if err := v.client.Do(ctx, indexCmd).Error(); err != nil {
		return goerr.Wrap(err, "failed to index report in valkey", goerr.V("id", report.ID))
	}

	return nil
}

// GetReport retrieves a report by ID
func (v *Valkey) GetReport(ctx context.Context, id types.ReportID) (*model.Report, error) {
	if id == "" {
		return nil, goerr.New("report ID is empty")
	}

	cmd := v.client.B().Get().Key(valkeyReportKey(id)).Build()
	data, err := v.client.Do(ctx, cmd).AsBytes()
	if err != nil {
		if valkey.IsValkeyNil(err) {
			return nil, goerr.Wrap(model.ErrReportNotFound, "failed to get report", goerr.V("id", id))
		}
		return nil, goerr.Wrap(err, "failed to get report from valkey", goerr.V("id", id))
	}

	var report model.Report
	if err := json.Unmarshal(data, &report); err != nil {
		return nil, goerr.Wrap(err, "failed to decode report", goerr.V("id", id))
	}

	return &report, nil
}

// ListReports lists reports, newest first. Index entries whose report is gone are skipped.
func (v *Valkey) ListReports(ctx context.Context, limit int) ([]*model.Report, error) {
	stop := int64(-1)
	if limit > 0 {
		stop = int64(limit - 1)
	}

	cmd := v.client.B().Zrange().Key(valkeyReportIndex).
		Min("0").Max(strconv.FormatInt(stop, 10)).Rev().Build()
	ids, err := v.client.Do(ctx, cmd).AsStrSlice()
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list report index from valkey")
	}

	reports := make([]*model.Report, 0, len(ids))
	for _, id := range ids {
		report, err := v.GetReport(ctx, types.ReportID(id))
		if err != nil {
			if errors.Is(err, model.ErrReportNotFound) {
				ctxlog.From(ctx).Warn("Report index entry without report", "id", id)
				continue
			}
			return nil, err
		}
		reports = append(reports, report)
	}

	return reports, nil
}

// Close shuts down the underlying client connection
func (v *Valkey) Close() error {
	v.client.Close()
	return nil
}

var _ interfaces.Repository = (*Valkey)(nil)
