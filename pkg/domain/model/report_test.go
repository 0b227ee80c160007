package model_test

import (
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/vulntrend/pkg/domain/model"
	"github.com/secmon-lab/vulntrend/pkg/domain/types"
)

func TestReportTransitions(t *testing.T) {
	t.Run("loading to success", func(t *testing.T) {
		r := model.NewReport(time.Now(), testServices())
		gt.Equal(t, r.Status.State, types.LoadStateLoading)
		gt.NoError(t, r.Succeed())
		gt.Equal(t, r.Status.State, types.LoadStateSuccess)
		gt.Equal(t, r.Status.Message, "")
	})

	t.Run("loading to failed", func(t *testing.T) {
		r := model.NewReport(time.Now(), testServices())
		gt.NoError(t, r.Fail("boom"))
		gt.Equal(t, r.Status.State, types.LoadStateFailed)
		gt.Equal(t, r.Status.Message, "boom")
	})

	t.Run("terminal states do not transition", func(t *testing.T) {
		r := model.NewReport(time.Now(), testServices())
		gt.NoError(t, r.Succeed())
		gt.Error(t, r.Fail("late"))
		gt.Error(t, r.Succeed())
		gt.Equal(t, r.Status.State, types.LoadStateSuccess)
	})

	t.Run("validate", func(t *testing.T) {
		r := model.NewReport(time.Now(), testServices())
		gt.NoError(t, r.Validate())

		r.Bundle = &model.SeriesBundle{Labels: []string{"x"}}
		gt.Error(t, r.Validate())

		r.Bundle = nil
		r.ID = ""
		gt.Error(t, r.Validate())
	})
}
