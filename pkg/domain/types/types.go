package types

import (
	"github.com/google/uuid"
	"github.com/m-mizutani/goerr/v2"
)

// Service represents a tracked service name (e.g. "account")
type Service string

// String returns the string representation
func (s Service) String() string {
	return string(s)
}

// Validate checks that the service name can be used as a path segment
func (s Service) Validate() error {
	if s == "" {
		return goerr.New("service name is empty")
	}
	for _, c := range s {
		if c == '/' || c == '\\' {
			return goerr.New("service name must not contain path separators", goerr.V("service", s))
		}
	}
	if s == "." || s == ".." {
		return goerr.New("invalid service name", goerr.V("service", s))
	}
	return nil
}

// PeriodLabel is a "YYYY-MM" month label
type PeriodLabel string

// String returns the string representation
func (l PeriodLabel) String() string {
	return string(l)
}

// Source represents the scan origin of a vulnerability count
type Source string

const (
	SourceCyber Source = "cyber"
	SourceSonar Source = "sonar"
)

// Sources returns all sources in presentation order
func Sources() []Source {
	return []Source{SourceCyber, SourceSonar}
}

// String returns the string representation
func (s Source) String() string {
	return string(s)
}

// Tier represents a severity level
type Tier string

const (
	TierHigh   Tier = "high"
	TierMedium Tier = "medium"
	TierLow    Tier = "low"
)

// Tiers returns all tiers in presentation order
func Tiers() []Tier {
	return []Tier{TierHigh, TierMedium, TierLow}
}

// String returns the string representation
func (t Tier) String() string {
	return string(t)
}

// ReportID represents a report identifier
type ReportID string

// String returns the string representation
func (id ReportID) String() string {
	return string(id)
}

// NewReportID creates a new ReportID (UUID v7, time ordered)
func NewReportID() ReportID {
	id, err := uuid.NewV7()
	if err != nil {
		return ReportID(uuid.New().String())
	}
	return ReportID(id.String())
}

// Validate checks the report ID is not empty
func (id ReportID) Validate() error {
	if id == "" {
		return goerr.New("report ID is empty")
	}
	return nil
}
