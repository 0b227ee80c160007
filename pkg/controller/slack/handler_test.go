package slack_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	slackCtrl "github.com/secmon-lab/vulntrend/pkg/controller/slack"
	"github.com/secmon-lab/vulntrend/pkg/domain/interfaces/mocks"
	"github.com/secmon-lab/vulntrend/pkg/domain/model"
	"github.com/secmon-lab/vulntrend/pkg/service/chart"
	"github.com/secmon-lab/vulntrend/pkg/usecase"
	"github.com/secmon-lab/vulntrend/pkg/utils/async"
	"github.com/slack-go/slack"
)

const testSecret = "test-signing-secret"

func newHandler(t *testing.T) (*slackCtrl.Handler, *mocks.SlackClientMock) {
	t.Helper()
	reader := &mocks.SnapshotReaderMock{
		ReadFunc: func(ctx context.Context, key string) ([]byte, error) {
			if key == "user/2024-03-31.json" {
				return []byte(`{"cyber":{"high":4}}`), nil
			}
			return nil, model.ErrSnapshotNotFound
		},
	}
	dashboard := usecase.NewDashboard(reader, usecase.NewDashboardConfig(
		usecase.WithLocale(model.LocaleEN),
		usecase.WithClock(func() time.Time {
			return time.Date(2024, time.March, 15, 0, 0, 0, 0, time.UTC)
		}),
	))
	client := &mocks.SlackClientMock{
		PostMessageContextFunc: func(ctx context.Context, channelID string, options ...slack.MsgOption) (string, string, error) {
			return channelID, "1234.5678", nil
		},
	}
	return slackCtrl.NewHandler(testSecret, dashboard, chart.NewJSON(false), client), client
}

func commandRequest(t *testing.T, form url.Values, sign bool) *http.Request {
	t.Helper()
	body := form.Encode()
	req := httptest.NewRequest(http.MethodPost, "/hooks/slack/command", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	ts := strconv.FormatInt(time.Now().Unix(), 10)
	req.Header.Set("X-Slack-Request-Timestamp", ts)
	if sign {
		req.Header.Set("X-Slack-Signature", slackCtrl.Sign(testSecret, ts, []byte(body)))
	} else {
		req.Header.Set("X-Slack-Signature", "v0=deadbeef")
	}
	return req
}

func TestHandleCommand(t *testing.T) {
	form := url.Values{
		"command":    {"/vulntrend"},
		"channel_id": {"C012345"},
		"user_id":    {"U012345"},
		"team_id":    {"T012345"},
	}

	t.Run("runs and posts the report", func(t *testing.T) {
		handler, client := newHandler(t)
		rec := httptest.NewRecorder()
		handler.HandleCommand(rec, commandRequest(t, form, true))

		gt.Equal(t, rec.Code, http.StatusOK)
		var msg slack.Msg
		gt.NoError(t, json.Unmarshal(rec.Body.Bytes(), &msg)).Required()
		gt.Equal(t, msg.ResponseType, slack.ResponseTypeEphemeral)
		gt.Equal(t, msg.Text, "Loading...")

		gt.NoError(t, async.WaitTimeout(5*time.Second)).Required()
		calls := client.PostMessageContextCalls()
		gt.Equal(t, len(calls), 1)
		gt.Equal(t, calls[0].ChannelID, "C012345")
	})

	t.Run("invalid signature", func(t *testing.T) {
		handler, client := newHandler(t)
		rec := httptest.NewRecorder()
		handler.HandleCommand(rec, commandRequest(t, form, false))

		gt.Equal(t, rec.Code, http.StatusUnauthorized)
		gt.NoError(t, async.WaitTimeout(time.Second))
		gt.Equal(t, len(client.PostMessageContextCalls()), 0)
	})

	t.Run("missing timestamp", func(t *testing.T) {
		handler, _ := newHandler(t)
		req := commandRequest(t, form, true)
		req.Header.Del("X-Slack-Request-Timestamp")
		rec := httptest.NewRecorder()
		handler.HandleCommand(rec, req)
		gt.Equal(t, rec.Code, http.StatusUnauthorized)
	})

	t.Run("stale timestamp", func(t *testing.T) {
		handler, _ := newHandler(t)
		body := form.Encode()
		req := httptest.NewRequest(http.MethodPost, "/hooks/slack/command", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		ts := strconv.FormatInt(time.Now().Add(-10*time.Minute).Unix(), 10)
		req.Header.Set("X-Slack-Request-Timestamp", ts)
		req.Header.Set("X-Slack-Signature", slackCtrl.Sign(testSecret, ts, []byte(body)))

		rec := httptest.NewRecorder()
		handler.HandleCommand(rec, req)
		gt.Equal(t, rec.Code, http.StatusUnauthorized)
	})

	t.Run("missing channel", func(t *testing.T) {
		handler, _ := newHandler(t)
		rec := httptest.NewRecorder()
		handler.HandleCommand(rec, commandRequest(t, url.Values{"command": {"/vulntrend"}}, true))
		gt.Equal(t, rec.Code, http.StatusBadRequest)
	})
}
