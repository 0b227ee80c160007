package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/vulntrend/pkg/domain/interfaces/mocks"
	"github.com/secmon-lab/vulntrend/pkg/domain/model"
	"github.com/secmon-lab/vulntrend/pkg/domain/types"
	"github.com/secmon-lab/vulntrend/pkg/usecase"
)

// mapReader serves documents from an in-memory map; other keys are not found
func mapReader(docs map[string]string) *mocks.SnapshotReaderMock {
	return &mocks.SnapshotReaderMock{
		ReadFunc: func(ctx context.Context, key string) ([]byte, error) {
			if doc, ok := docs[key]; ok {
				return []byte(doc), nil
			}
			return nil, model.ErrSnapshotNotFound
		},
	}
}

func TestAggregator(t *testing.T) {
	services := []types.Service{"account", "payment", "user"}
	periods := model.ComputePeriods(time.Date(2024, time.March, 15, 0, 0, 0, 0, time.UTC))

	t.Run("fetches sequentially in service-major order", func(t *testing.T) {
		reader := mapReader(nil)
		aggregator := usecase.NewAggregator(usecase.NewSnapshotFetcher(reader))

		aggregated, err := aggregator.Aggregate(context.Background(), services, periods)
		gt.NoError(t, err).Required()

		var keys []string
		for _, call := range reader.ReadCalls() {
			keys = append(keys, call.Key)
		}
		gt.Equal(t, keys, []string{
			"account/2024-02-29.json",
			"account/2024-03-31.json",
			"payment/2024-02-29.json",
			"payment/2024-03-31.json",
			"user/2024-02-29.json",
			"user/2024-03-31.json",
		})

		// every service has an entry, none has data
		gt.Equal(t, len(aggregated), 3)
		for _, svc := range services {
			byPeriod, ok := aggregated[svc]
			gt.True(t, ok)
			gt.Equal(t, len(byPeriod), 0)
		}
	})

	t.Run("records only present snapshots", func(t *testing.T) {
		reader := mapReader(map[string]string{
			"payment/2024-03-31.json": `{"sonar":{"low":4}}`,
			"user/2024-02-29.json":    `not json`,
		})
		aggregator := usecase.NewAggregator(usecase.NewSnapshotFetcher(reader))

		aggregated, err := aggregator.Aggregate(context.Background(), services, periods)
		gt.NoError(t, err).Required()

		gt.V(t, aggregated.Lookup("payment", "2024-03")).NotNil()
		_, exists := aggregated["user"]["2024-02"]
		gt.False(t, exists)
		_, exists = aggregated["payment"]["2024-02"]
		gt.False(t, exists)
	})

	t.Run("stops when context is cancelled", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		reader := &mocks.SnapshotReaderMock{
			ReadFunc: func(ctx context.Context, key string) ([]byte, error) {
				cancel()
				return nil, model.ErrSnapshotNotFound
			},
		}
		aggregator := usecase.NewAggregator(usecase.NewSnapshotFetcher(reader))

		_, err := aggregator.Aggregate(ctx, services, periods)
		gt.Error(t, err)
		gt.Equal(t, len(reader.ReadCalls()), 1)
	})
}
