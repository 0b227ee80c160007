package model

import (
	"bytes"
	"encoding/json"
	"math"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/vulntrend/pkg/domain/types"
)

// SeverityCounts holds the per-tier counts of one scan source.
// Nil fields mean the tier was absent (or null) in the document.
type SeverityCounts struct {
	High   *float64 `json:"high,omitempty" firestore:"high,omitempty"`
	Medium *float64 `json:"medium,omitempty" firestore:"medium,omitempty"`
	Low    *float64 `json:"low,omitempty" firestore:"low,omitempty"`
}

// Snapshot is a single service/period vulnerability-count document
type Snapshot struct {
	Cyber *SeverityCounts `json:"cyber,omitempty" firestore:"cyber,omitempty"`
	Sonar *SeverityCounts `json:"sonar,omitempty" firestore:"sonar,omitempty"`
}

// ParseSnapshot decodes a snapshot document. A literal JSON null yields (nil, nil).
func ParseSnapshot(data []byte) (*Snapshot, error) {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		return nil, nil
	}

	var snapshot Snapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, goerr.Wrap(err, "failed to decode snapshot")
	}
	return &snapshot, nil
}

// Counts returns the counts of the given source, or nil if absent
func (s *Snapshot) Counts(source types.Source) *SeverityCounts {
	if s == nil {
		return nil
	}
	switch source {
	case types.SourceCyber:
		return s.Cyber
	case types.SourceSonar:
		return s.Sonar
	default:
		return nil
	}
}

// Tier returns the raw tier value, or nil if absent
func (c *SeverityCounts) Tier(tier types.Tier) *float64 {
	if c == nil {
		return nil
	}
	switch tier {
	case types.TierHigh:
		return c.High
	case types.TierMedium:
		return c.Medium
	case types.TierLow:
		return c.Low
	default:
		return nil
	}
}

// Has reports whether the tier value is present in the document (even if zero)
func (s *Snapshot) Has(source types.Source, tier types.Tier) bool {
	return s.Counts(source).Tier(tier) != nil
}

// ValueOr returns the tier count of the source, or def when the source or tier
// is absent, null or zero. Zero and missing are indistinguishable here.
func (s *Snapshot) ValueOr(source types.Source, tier types.Tier, def float64) float64 {
	v := s.Counts(source).Tier(tier)
	if v == nil || *v == 0 || math.IsNaN(*v) {
		return def
	}
	return *v
}

// Float returns a pointer to v, used to build snapshots in code
func Float(v float64) *float64 {
	return &v
}
