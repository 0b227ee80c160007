package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/vulntrend/pkg/domain/interfaces/mocks"
	"github.com/secmon-lab/vulntrend/pkg/domain/model"
	"github.com/secmon-lab/vulntrend/pkg/domain/types"
)

func TestPrintReports(t *testing.T) {
	referenceDate := time.Date(2024, time.March, 15, 0, 0, 0, 0, time.UTC)
	services := []types.Service{"user"}
	periods := model.ComputePeriods(referenceDate)

	ok := model.NewReport(referenceDate, services)
	ok.Periods = periods
	bundle, err := model.Flatten(model.AggregatedMap{}, services, periods)
	gt.NoError(t, err).Required()
	ok.Bundle = bundle
	gt.NoError(t, ok.Succeed())

	failed := model.NewReport(referenceDate, services)
	gt.NoError(t, failed.Fail("加载数据失败: X"))

	var buf bytes.Buffer
	gt.NoError(t, printReports(&buf, []*model.Report{ok, failed}))

	out := buf.String()
	gt.S(t, out).Contains("SUMMARY")
	gt.S(t, out).Contains(ok.ID.String())
	gt.S(t, out).Contains("2024-03-15")
	gt.S(t, out).Contains("2 labels, 0 with data (2024-02, 2024-03)")
	gt.S(t, out).Contains("加载数据失败: X")
}

func TestWriteOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chart.svg")
	gt.NoError(t, writeOutput(path, []byte("<svg/>")))

	data, err := os.ReadFile(path)
	gt.NoError(t, err)
	gt.Equal(t, string(data), "<svg/>")

	gt.Error(t, writeOutput(filepath.Join(t.TempDir(), "missing", "chart.svg"), []byte("x")))
}

func TestWriteOutputReportsDeviceError(t *testing.T) {
	if _, err := os.Stat("/dev/full"); err != nil {
		t.Skip("/dev/full is not available")
	}
	gt.Error(t, writeOutput("/dev/full", []byte("<svg/>")))
}

type closingReader struct {
	closed int
}

func (r *closingReader) Read(ctx context.Context, key string) ([]byte, error) {
	return nil, nil
}

func (r *closingReader) Close() error {
	r.closed++
	return nil
}

func TestCloseReader(t *testing.T) {
	ctx := context.Background()

	reader := &closingReader{}
	closeReader(ctx, reader)
	gt.Equal(t, reader.closed, 1)

	// readers without Close are left alone
	closeReader(ctx, &mocks.SnapshotReaderMock{})
}
