package model

import (
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/vulntrend/pkg/domain/types"
)

// AggregatedMap maps service → period label → snapshot. A missing entry means no data.
type AggregatedMap map[types.Service]map[types.PeriodLabel]*Snapshot

// Lookup returns the snapshot for the service and period, or nil
func (m AggregatedMap) Lookup(service types.Service, label types.PeriodLabel) *Snapshot {
	byPeriod, ok := m[service]
	if !ok {
		return nil
	}
	return byPeriod[label]
}

// TierSeries holds one numeric series per severity tier
type TierSeries struct {
	High   []float64 `json:"high" firestore:"high"`
	Medium []float64 `json:"medium" firestore:"medium"`
	Low    []float64 `json:"low" firestore:"low"`
}

func (ts *TierSeries) tier(tier types.Tier) *[]float64 {
	switch tier {
	case types.TierHigh:
		return &ts.High
	case types.TierMedium:
		return &ts.Medium
	case types.TierLow:
		return &ts.Low
	default:
		return nil
	}
}

// Datasets holds the tier series of both sources
type Datasets struct {
	Cyber TierSeries `json:"cyber" firestore:"cyber"`
	Sonar TierSeries `json:"sonar" firestore:"sonar"`
}

func (d *Datasets) source(source types.Source) *TierSeries {
	switch source {
	case types.SourceCyber:
		return &d.Cyber
	case types.SourceSonar:
		return &d.Sonar
	default:
		return nil
	}
}

// SeriesBundle is the chart input: labels and six index-aligned series.
// Present[i] tells whether a snapshot existed for Labels[i]; it does not affect the series.
type SeriesBundle struct {
	Labels   []string `json:"labels" firestore:"labels"`
	Datasets Datasets `json:"datasets" firestore:"datasets"`
	Present  []bool   `json:"present" firestore:"present"`
}

// Flatten reshapes the aggregated snapshots into label-aligned series.
// Iteration is service-major, period-minor; absent snapshots and absent or zero tiers become 0.
func Flatten(aggregated AggregatedMap, services []types.Service, periods []Period) (*SeriesBundle, error) {
	if len(services) == 0 {
		return nil, goerr.New("no service to flatten")
	}
	if len(periods) == 0 {
		return nil, goerr.New("no period to flatten")
	}

	size := len(services) * len(periods)
	bundle := &SeriesBundle{
		Labels:  make([]string, 0, size),
		Present: make([]bool, 0, size),
	}
	for _, src := range types.Sources() {
		for _, tier := range types.Tiers() {
			*bundle.Datasets.source(src).tier(tier) = make([]float64, 0, size)
		}
	}

	for _, service := range services {
		for _, period := range periods {
			bundle.Labels = append(bundle.Labels, service.String()+"-"+period.Label.String())

			snapshot := aggregated.Lookup(service, period.Label)
			bundle.Present = append(bundle.Present, snapshot != nil)

			for _, src := range types.Sources() {
				for _, tier := range types.Tiers() {
					series := bundle.Datasets.source(src).tier(tier)
					// nil snapshot yields 0 for every tier
					*series = append(*series, snapshot.ValueOr(src, tier, 0))
				}
			}
		}
	}

	return bundle, nil
}

// Len returns the number of labels
func (b *SeriesBundle) Len() int {
	return len(b.Labels)
}

// Series returns the series of a source and tier, or nil for unknown ones
func (b *SeriesBundle) Series(source types.Source, tier types.Tier) []float64 {
	ts := b.Datasets.source(source)
	if ts == nil {
		return nil
	}
	s := ts.tier(tier)
	if s == nil {
		return nil
	}
	return *s
}

// StackTotal returns the sum of all tiers of a source at index i
func (b *SeriesBundle) StackTotal(source types.Source, i int) float64 {
	var total float64
	for _, tier := range types.Tiers() {
		total += b.Series(source, tier)[i]
	}
	return total
}

// Validate checks that every series is aligned with the labels
func (b *SeriesBundle) Validate() error {
	n := len(b.Labels)
	if len(b.Present) != n {
		return goerr.New("presence flags not aligned with labels",
			goerr.V("labels", n),
			goerr.V("present", len(b.Present)))
	}
	for _, src := range types.Sources() {
		for _, tier := range types.Tiers() {
			if got := len(b.Series(src, tier)); got != n {
				return goerr.New("series not aligned with labels",
					goerr.V("source", src),
					goerr.V("tier", tier),
					goerr.V("labels", n),
					goerr.V("length", got))
			}
		}
	}
	return nil
}
