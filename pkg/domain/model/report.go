package model

import (
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/vulntrend/pkg/domain/types"
)

// Status is the visible state of the loading indicator
type Status struct {
	State   types.LoadState `json:"state" firestore:"state"`
	Message string          `json:"message,omitempty" firestore:"message,omitempty"`
}

// Report is the outcome of one aggregation run
type Report struct {
	ID            types.ReportID  `json:"id" firestore:"id"`
	CreatedAt     time.Time       `json:"created_at" firestore:"created_at"`
	ReferenceDate time.Time       `json:"reference_date" firestore:"reference_date"`
	Services      []types.Service `json:"services" firestore:"services"`
	Periods       []Period        `json:"periods" firestore:"periods"`
	Bundle        *SeriesBundle   `json:"bundle,omitempty" firestore:"bundle,omitempty"`
	Status        Status          `json:"status" firestore:"status"`
}

// NewReport creates a report in the loading state
func NewReport(referenceDate time.Time, services []types.Service) *Report {
	return &Report{
		ID:            types.NewReportID(),
		CreatedAt:     time.Now().UTC(),
		ReferenceDate: referenceDate,
		Services:      services,
		Status:        Status{State: types.LoadStateLoading},
	}
}

// Succeed moves the report to the success state; the loading indicator is hidden
func (r *Report) Succeed() error {
	if r.Status.State.IsTerminal() {
		return goerr.New("report is already finished", goerr.V("state", r.Status.State))
	}
	r.Status = Status{State: types.LoadStateSuccess}
	return nil
}

// Fail moves the report to the failed state with the given status text
func (r *Report) Fail(message string) error {
	if r.Status.State.IsTerminal() {
		return goerr.New("report is already finished", goerr.V("state", r.Status.State))
	}
	r.Status = Status{State: types.LoadStateFailed, Message: message}
	return nil
}

// Validate validates the report
func (r *Report) Validate() error {
	if err := r.ID.Validate(); err != nil {
		return err
	}
	if !r.Status.State.IsValid() {
		return goerr.New("invalid report state", goerr.V("state", r.Status.State))
	}
	if r.Bundle != nil {
		if err := r.Bundle.Validate(); err != nil {
			return goerr.Wrap(err, "invalid report bundle", goerr.V("id", r.ID))
		}
	}
	return nil
}

// Page is what the HTML surface shows: the status and, on success, the chart
type Page struct {
	Status Status
	Chart  *Chart
	Locale Locale
}
