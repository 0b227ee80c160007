package usecase_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/vulntrend/pkg/domain/interfaces/mocks"
	"github.com/secmon-lab/vulntrend/pkg/domain/model"
	"github.com/secmon-lab/vulntrend/pkg/domain/types"
	"github.com/secmon-lab/vulntrend/pkg/repository"
	"github.com/secmon-lab/vulntrend/pkg/usecase"
)

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func okRenderer() *mocks.ChartRendererMock {
	return &mocks.ChartRendererMock{
		RenderFunc: func(ctx context.Context, w io.Writer, chart *model.Chart) error {
			_, err := w.Write([]byte("chart"))
			return err
		},
		ContentTypeFunc: func() string { return "text/plain" },
	}
}

func TestDashboardRun(t *testing.T) {
	referenceDate := time.Date(2024, time.March, 15, 12, 0, 0, 0, time.UTC)

	t.Run("end-to-end with one snapshot", func(t *testing.T) {
		reader := mapReader(map[string]string{
			"account/2024-02-29.json": `{"cyber":{"high":2,"medium":1,"low":0},"sonar":{"high":0,"medium":3,"low":1}}`,
		})
		dashboard := usecase.NewDashboard(reader, usecase.NewDashboardConfig(
			usecase.WithServices([]types.Service{"account", "payment", "user"}),
			usecase.WithClock(fixedClock(referenceDate)),
		))
		renderer := okRenderer()

		var buf bytes.Buffer
		report := dashboard.Run(context.Background(), renderer, &buf)

		gt.Equal(t, report.Status.State, types.LoadStateSuccess)
		gt.Equal(t, report.Status.Message, "")
		gt.Equal(t, buf.String(), "chart")
		gt.Equal(t, len(reader.ReadCalls()), 6)

		gt.Equal(t, report.Periods[0].Label, types.PeriodLabel("2024-02"))
		gt.Equal(t, report.Periods[1].Label, types.PeriodLabel("2024-03"))

		bundle := report.Bundle
		gt.Equal(t, bundle.Labels, []string{
			"account-2024-02", "account-2024-03",
			"payment-2024-02", "payment-2024-03",
			"user-2024-02", "user-2024-03",
		})
		gt.Equal(t, bundle.Datasets.Cyber.High, []float64{2, 0, 0, 0, 0, 0})
		gt.Equal(t, bundle.Datasets.Cyber.Medium, []float64{1, 0, 0, 0, 0, 0})
		gt.Equal(t, bundle.Datasets.Cyber.Low, []float64{0, 0, 0, 0, 0, 0})
		gt.Equal(t, bundle.Datasets.Sonar.High, []float64{0, 0, 0, 0, 0, 0})
		gt.Equal(t, bundle.Datasets.Sonar.Medium, []float64{3, 0, 0, 0, 0, 0})
		gt.Equal(t, bundle.Datasets.Sonar.Low, []float64{1, 0, 0, 0, 0, 0})

		calls := renderer.RenderCalls()
		gt.Equal(t, len(calls), 1)
		gt.Equal(t, calls[0].Chart.Labels, bundle.Labels)
		gt.Equal(t, len(calls[0].Chart.Datasets), 6)
	})

	t.Run("idempotent against unchanged data", func(t *testing.T) {
		reader := mapReader(map[string]string{
			"user/2024-03-31.json": `{"sonar":{"high":9}}`,
		})
		dashboard := usecase.NewDashboard(reader, usecase.NewDashboardConfig(
			usecase.WithClock(fixedClock(referenceDate)),
		))

		first := dashboard.Run(context.Background(), okRenderer(), io.Discard)
		second := dashboard.Run(context.Background(), okRenderer(), io.Discard)
		gt.Equal(t, first.Bundle, second.Bundle)
		gt.Equal(t, first.Periods, second.Periods)
	})

	t.Run("structural failure in period computation", func(t *testing.T) {
		dashboard := usecase.NewDashboard(mapReader(nil), usecase.NewDashboardConfig(
			usecase.WithClock(func() time.Time { panic("X") }),
		))
		renderer := okRenderer()

		report := dashboard.Run(context.Background(), renderer, io.Discard)
		gt.Equal(t, report.Status.State, types.LoadStateFailed)
		gt.Equal(t, report.Status.Message, "加载数据失败: X")
		gt.Equal(t, len(renderer.RenderCalls()), 0)
	})

	t.Run("structural failure in flattening", func(t *testing.T) {
		dashboard := usecase.NewDashboard(mapReader(nil), usecase.NewDashboardConfig(
			usecase.WithServices(nil),
			usecase.WithClock(fixedClock(referenceDate)),
			usecase.WithLocale(model.LocaleEN),
		))
		renderer := okRenderer()

		report := dashboard.Run(context.Background(), renderer, io.Discard)
		gt.Equal(t, report.Status.State, types.LoadStateFailed)
		gt.Equal(t, report.Status.Message, "Failed to load data: no service to flatten")
		gt.Equal(t, len(renderer.RenderCalls()), 0)
		gt.V(t, report.Bundle).Nil()
	})

	t.Run("cancelled run fails", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		dashboard := usecase.NewDashboard(mapReader(nil), usecase.NewDashboardConfig(
			usecase.WithClock(fixedClock(referenceDate)),
		))
		renderer := okRenderer()

		report := dashboard.Run(ctx, renderer, io.Discard)
		gt.Equal(t, report.Status.State, types.LoadStateFailed)
		gt.Equal(t, report.Status.Message, "加载数据失败: context canceled")
		gt.Equal(t, len(renderer.RenderCalls()), 0)
	})

	t.Run("render error fails the run", func(t *testing.T) {
		dashboard := usecase.NewDashboard(mapReader(nil), usecase.NewDashboardConfig(
			usecase.WithClock(fixedClock(referenceDate)),
		))
		renderer := &mocks.ChartRendererMock{
			RenderFunc: func(ctx context.Context, w io.Writer, chart *model.Chart) error {
				return errors.New("disk full")
			},
		}

		report := dashboard.Run(context.Background(), renderer, io.Discard)
		gt.Equal(t, report.Status.State, types.LoadStateFailed)
		gt.Equal(t, report.Status.Message, "加载数据失败: disk full")
	})

	t.Run("failed fetches still render zero-filled chart", func(t *testing.T) {
		reader := &mocks.SnapshotReaderMock{
			ReadFunc: func(ctx context.Context, key string) ([]byte, error) {
				return nil, errors.New("network unreachable")
			},
		}
		dashboard := usecase.NewDashboard(reader, usecase.NewDashboardConfig(
			usecase.WithClock(fixedClock(referenceDate)),
		))

		report := dashboard.Run(context.Background(), okRenderer(), io.Discard)
		gt.Equal(t, report.Status.State, types.LoadStateSuccess)
		gt.Equal(t, report.Bundle.Len(), 6)
		gt.Equal(t, report.Bundle.Datasets.Cyber.High, []float64{0, 0, 0, 0, 0, 0})
	})
}

func TestDashboardPage(t *testing.T) {
	referenceDate := time.Date(2024, time.January, 10, 0, 0, 0, 0, time.UTC)
	dashboard := usecase.NewDashboard(mapReader(nil), usecase.NewDashboardConfig(
		usecase.WithClock(fixedClock(referenceDate)),
	))

	t.Run("success page carries the chart", func(t *testing.T) {
		report := dashboard.Run(context.Background(), okRenderer(), io.Discard)
		page := dashboard.Page(report)
		gt.Equal(t, page.Status.State, types.LoadStateSuccess)
		gt.V(t, page.Chart).NotNil()
		gt.Equal(t, page.Chart.Labels[0], "account-2023-12")
	})

	t.Run("failed page has no chart", func(t *testing.T) {
		report := model.NewReport(referenceDate, nil)
		gt.NoError(t, report.Fail("加载数据失败: X"))
		page := dashboard.Page(report)
		gt.V(t, page.Chart).Nil()
		gt.Equal(t, page.Status.Message, "加载数据失败: X")
	})
}

func TestDashboardRecord(t *testing.T) {
	ctx := context.Background()
	referenceDate := time.Date(2024, time.March, 15, 0, 0, 0, 0, time.UTC)

	t.Run("stores and notifies", func(t *testing.T) {
		repo := repository.NewMemory()
		notifier := &mocks.NotifierMock{
			NotifyFunc: func(ctx context.Context, report *model.Report) error { return nil },
		}
		dashboard := usecase.NewDashboard(mapReader(nil), usecase.NewDashboardConfig(
			usecase.WithClock(fixedClock(referenceDate)),
			usecase.WithRepository(repo),
			usecase.WithNotifier(notifier),
		))

		report := dashboard.Run(ctx, okRenderer(), io.Discard)
		gt.NoError(t, dashboard.Record(ctx, report)).Required()

		stored, err := repo.GetReport(ctx, report.ID)
		gt.NoError(t, err).Required()
		gt.Equal(t, stored.Status.State, types.LoadStateSuccess)
		gt.Equal(t, len(notifier.NotifyCalls()), 1)
		gt.Equal(t, notifier.NotifyCalls()[0].Report.ID, report.ID)
	})

	t.Run("notifier error is returned", func(t *testing.T) {
		notifier := &mocks.NotifierMock{
			NotifyFunc: func(ctx context.Context, report *model.Report) error { return errors.New("slack down") },
		}
		dashboard := usecase.NewDashboard(mapReader(nil), usecase.NewDashboardConfig(
			usecase.WithClock(fixedClock(referenceDate)),
			usecase.WithNotifier(notifier),
		))

		report := dashboard.Run(ctx, okRenderer(), io.Discard)
		err := dashboard.Record(ctx, report)
		gt.Error(t, err)
		gt.S(t, err.Error()).Contains("failed to notify report")
	})

	t.Run("nothing configured is a no-op", func(t *testing.T) {
		dashboard := usecase.NewDashboard(mapReader(nil), nil)
		report := model.NewReport(referenceDate, nil)
		gt.NoError(t, dashboard.Record(ctx, report))
	})
}
