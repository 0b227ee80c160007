package usecase

import (
	"context"
	"errors"

	"github.com/m-mizutani/ctxlog"
	"github.com/secmon-lab/vulntrend/pkg/domain/interfaces"
	"github.com/secmon-lab/vulntrend/pkg/domain/model"
	"github.com/secmon-lab/vulntrend/pkg/domain/types"
)

// SnapshotFetcher reads one snapshot per (service, period)
type SnapshotFetcher struct {
	reader interfaces.SnapshotReader
}

// NewSnapshotFetcher creates a new SnapshotFetcher
func NewSnapshotFetcher(reader interfaces.SnapshotReader) *SnapshotFetcher {
	return &SnapshotFetcher{reader: reader}
}

// Fetch returns the snapshot of the service for the period, or nil when there is no data.
// Read and decode failures are logged and absorbed; they never reach the caller.
func (f *SnapshotFetcher) Fetch(ctx context.Context, service types.Service, period model.Period) *model.Snapshot {
	key := period.SnapshotKey(service)
	logger := ctxlog.From(ctx).With(
		"service", service,
		"period", period.Label,
		"key", key,
	)

	data, err := f.reader.Read(ctx, key)
	if err != nil {
		if errors.Is(err, model.ErrSnapshotNotFound) {
			logger.Debug("Snapshot not found")
		} else {
			logger.Warn("Failed to read snapshot", "error", err)
		}
		return nil
	}

	snapshot, err := model.ParseSnapshot(data)
	if err != nil {
		logger.Warn("Malformed snapshot document", "error", err)
		return nil
	}
	if snapshot == nil {
		logger.Debug("Snapshot document is null")
		return nil
	}

	logger.Debug("Snapshot fetched")
	return snapshot
}
