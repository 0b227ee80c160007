package model

import (
	"fmt"
	"time"

	"github.com/secmon-lab/vulntrend/pkg/domain/types"
)

// Period is a calendar month with its "YYYY-MM" label
type Period struct {
	Year  int               `json:"year" firestore:"year"`
	Month time.Month        `json:"month" firestore:"month"`
	Label types.PeriodLabel `json:"label" firestore:"label"`
}

// NewPeriod creates a Period for the given year and month
func NewPeriod(year int, month time.Month) Period {
	return Period{
		Year:  year,
		Month: month,
		Label: types.PeriodLabel(fmt.Sprintf("%04d-%02d", year, int(month))),
	}
}

// ComputePeriods returns the previous and the current calendar month of now, in that order
func ComputePeriods(now time.Time) []Period {
	year, month := now.Year(), now.Month()

	prevYear, prevMonth := year, month-1
	if month == time.January {
		prevYear, prevMonth = year-1, time.December
	}

	return []Period{
		NewPeriod(prevYear, prevMonth),
		NewPeriod(year, month),
	}
}

// LastDay returns the last valid day of the month
func (p Period) LastDay() int {
	// Day 0 of the following month normalizes to the last day of this one
	return time.Date(p.Year, p.Month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// SnapshotDate returns the zero-padded "YYYY-MM-DD" date of the month's last day
func (p Period) SnapshotDate() string {
	return fmt.Sprintf("%04d-%02d-%02d", p.Year, int(p.Month), p.LastDay())
}

// SnapshotKey returns the document key of a service snapshot for this period
func (p Period) SnapshotKey(service types.Service) string {
	return service.String() + "/" + p.SnapshotDate() + ".json"
}
