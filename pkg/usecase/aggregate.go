package usecase

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/vulntrend/pkg/domain/model"
	"github.com/secmon-lab/vulntrend/pkg/domain/types"
)

// Aggregator collects snapshots into an AggregatedMap
type Aggregator struct {
	fetcher *SnapshotFetcher
}

// NewAggregator creates a new Aggregator
func NewAggregator(fetcher *SnapshotFetcher) *Aggregator {
	return &Aggregator{fetcher: fetcher}
}

// Aggregate fetches every (service, period) pair one after another, service-major and
// period-minor. Each service gets an entry; absent snapshots leave their slot unset.
// It fails only when ctx is done before all fetches were issued.
func (a *Aggregator) Aggregate(ctx context.Context, services []types.Service, periods []model.Period) (model.AggregatedMap, error) {
	aggregated := make(model.AggregatedMap, len(services))

	for _, service := range services {
		if _, ok := aggregated[service]; !ok {
			aggregated[service] = make(map[types.PeriodLabel]*model.Snapshot, len(periods))
		}

		for _, period := range periods {
			if err := ctx.Err(); err != nil {
				return nil, goerr.Wrap(err, "aggregation interrupted",
					goerr.V("service", service),
					goerr.V("period", period.Label))
			}

			if snapshot := a.fetcher.Fetch(ctx, service, period); snapshot != nil {
				aggregated[service][period.Label] = snapshot
			}
		}
	}

	return aggregated, nil
}
