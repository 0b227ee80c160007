package model_test

import (
	"strings"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/vulntrend/pkg/domain/model"
	"github.com/secmon-lab/vulntrend/pkg/domain/types"
)

func TestComputePeriods(t *testing.T) {
	t.Run("previous month of March is February", func(t *testing.T) {
		periods := model.ComputePeriods(time.Date(2024, time.March, 15, 10, 0, 0, 0, time.UTC))
		gt.Equal(t, len(periods), 2)
		gt.Equal(t, periods[0].Label, types.PeriodLabel("2024-02"))
		gt.Equal(t, periods[1].Label, types.PeriodLabel("2024-03"))
	})

	t.Run("January wraps to December of the previous year", func(t *testing.T) {
		periods := model.ComputePeriods(time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC))
		gt.Equal(t, periods[0].Year, 2023)
		gt.Equal(t, periods[0].Month, time.December)
		gt.Equal(t, periods[0].Label, types.PeriodLabel("2023-12"))
		gt.Equal(t, periods[1].Year, 2024)
		gt.Equal(t, periods[1].Month, time.January)
		gt.Equal(t, periods[1].Label, types.PeriodLabel("2024-01"))
	})

	t.Run("previous month is current minus one for every month", func(t *testing.T) {
		for m := time.January; m <= time.December; m++ {
			periods := model.ComputePeriods(time.Date(2030, m, 28, 0, 0, 0, 0, time.UTC))
			if m == time.January {
				gt.Equal(t, periods[0].Month, time.December)
				gt.Equal(t, periods[0].Year, 2029)
			} else {
				gt.Equal(t, periods[0].Month, m-1)
				gt.Equal(t, periods[0].Year, 2030)
			}
			gt.Equal(t, periods[1].Month, m)
		}
	})

	t.Run("last day of month as reference date", func(t *testing.T) {
		periods := model.ComputePeriods(time.Date(2024, time.March, 31, 23, 59, 59, 0, time.UTC))
		gt.Equal(t, periods[0].Label, types.PeriodLabel("2024-02"))
	})
}

func TestPeriodSnapshotDate(t *testing.T) {
	t.Run("30-day month", func(t *testing.T) {
		date := model.NewPeriod(2024, time.April).SnapshotDate()
		gt.Equal(t, date, "2024-04-30")
		gt.True(t, strings.HasSuffix(date, "-30"))
	})

	t.Run("31-day month", func(t *testing.T) {
		gt.Equal(t, model.NewPeriod(2023, time.December).SnapshotDate(), "2023-12-31")
	})

	t.Run("February in a leap year", func(t *testing.T) {
		gt.Equal(t, model.NewPeriod(2024, time.February).SnapshotDate(), "2024-02-29")
	})

	t.Run("February in a non-leap year", func(t *testing.T) {
		gt.Equal(t, model.NewPeriod(2023, time.February).SnapshotDate(), "2023-02-28")
	})

	t.Run("century non-leap year", func(t *testing.T) {
		gt.Equal(t, model.NewPeriod(2100, time.February).LastDay(), 28)
		gt.Equal(t, model.NewPeriod(2000, time.February).LastDay(), 29)
	})

	t.Run("zero padded year and month", func(t *testing.T) {
		p := model.NewPeriod(999, time.May)
		gt.Equal(t, p.Label, types.PeriodLabel("0999-05"))
		gt.Equal(t, p.SnapshotDate(), "0999-05-31")
	})
}

func TestPeriodSnapshotKey(t *testing.T) {
	p := model.NewPeriod(2024, time.February)
	gt.Equal(t, p.SnapshotKey("account"), "account/2024-02-29.json")
}
