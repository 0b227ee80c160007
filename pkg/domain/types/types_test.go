package types_test

import (
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/vulntrend/pkg/domain/types"
)

func TestLoadStateValidation(t *testing.T) {
	tests := []struct {
		name     string
		state    types.LoadState
		expected bool
	}{
		{"Valid loading", types.LoadStateLoading, true},
		{"Valid success", types.LoadStateSuccess, true},
		{"Valid failed", types.LoadStateFailed, true},
		{"Invalid empty", types.LoadState(""), false},
		{"Invalid mixed case", types.LoadState("Success"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := tt.state.IsValid()
			if result != tt.expected {
				t.Errorf("LoadState(%q).IsValid() = %v, want %v", tt.state, result, tt.expected)
			}
		})
	}
}

func TestLoadStateIsTerminal(t *testing.T) {
	gt.False(t, types.LoadStateLoading.IsTerminal())
	gt.True(t, types.LoadStateSuccess.IsTerminal())
	gt.True(t, types.LoadStateFailed.IsTerminal())
}

func TestServiceValidate(t *testing.T) {
	t.Run("valid service", func(t *testing.T) {
		gt.NoError(t, types.Service("account").Validate())
	})

	t.Run("empty service", func(t *testing.T) {
		gt.Error(t, types.Service("").Validate())
	})

	t.Run("service with separator", func(t *testing.T) {
		gt.Error(t, types.Service("a/b").Validate())
		gt.Error(t, types.Service(`a\b`).Validate())
	})

	t.Run("dot segments", func(t *testing.T) {
		gt.Error(t, types.Service("..").Validate())
	})
}

func TestPresentationOrder(t *testing.T) {
	gt.Equal(t, types.Sources(), []types.Source{types.SourceCyber, types.SourceSonar})
	gt.Equal(t, types.Tiers(), []types.Tier{types.TierHigh, types.TierMedium, types.TierLow})
}

func TestNewReportID(t *testing.T) {
	id1 := types.NewReportID()
	id2 := types.NewReportID()
	gt.NoError(t, id1.Validate())
	gt.NotEqual(t, id1, id2)
	gt.Error(t, types.ReportID("").Validate())
}
