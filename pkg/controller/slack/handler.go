package slack

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/vulntrend/pkg/domain/interfaces"
	slackSvc "github.com/secmon-lab/vulntrend/pkg/service/slack"
	"github.com/secmon-lab/vulntrend/pkg/usecase"
	"github.com/secmon-lab/vulntrend/pkg/utils/async"
	"github.com/slack-go/slack"
)

// Handler answers the Slack slash command by running one aggregation and
// posting the report to the channel the command came from
type Handler struct {
	signingSecret string
	dashboard     usecase.DashboardUseCase
	renderer      interfaces.ChartRenderer
	client        interfaces.SlackClient
	now           func() time.Time
}

// NewHandler creates a new Slack handler
func NewHandler(signingSecret string, dashboard usecase.DashboardUseCase, renderer interfaces.ChartRenderer, client interfaces.SlackClient) *Handler {
	return &Handler{
		signingSecret: signingSecret,
		dashboard:     dashboard,
		renderer:      renderer,
		client:        client,
		now:           time.Now,
	}
}

// HandleCommand handles a slash command request
func (h *Handler) HandleCommand(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	body, err := io.ReadAll(r.Body)
	if err != nil {
		ctxlog.From(ctx).Error("Failed to read request body", "error", err)
		h.writeError(ctx, w, goerr.Wrap(err, "failed to read request body"), http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	if err := h.verifySlackSignature(r, body); err != nil {
		ctxlog.From(ctx).Warn("Invalid Slack signature", "error", err)
		h.writeError(ctx, w, goerr.Wrap(err, "invalid signature"), http.StatusUnauthorized)
		return
	}

	r.Body = io.NopCloser(bytes.NewReader(body))
	cmd, err := slack.SlashCommandParse(r)
	if err != nil {
		ctxlog.From(ctx).Error("Failed to parse slash command", "error", err)
		h.writeError(ctx, w, goerr.Wrap(err, "failed to parse slash command"), http.StatusBadRequest)
		return
	}
	if cmd.ChannelID == "" {
		h.writeError(ctx, w, goerr.New("channel_id not found"), http.StatusBadRequest)
		return
	}

	ctxlog.From(ctx).Info("Slash command received",
		"command", cmd.Command,
		"user", cmd.UserID,
		"channel", cmd.ChannelID,
	)

	// Acknowledge within Slack's 3 second limit; the report follows as a channel message
	locale := h.dashboard.Locale()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(&slack.Msg{
		ResponseType: slack.ResponseTypeEphemeral,
		Text:         locale.Messages().Loading,
	}); err != nil {
		ctxlog.From(ctx).Error("Failed to write command response", "error", err)
	}

	channelID := cmd.ChannelID
	async.Dispatch(ctx, func(ctx context.Context) error {
		report := h.dashboard.Run(ctx, h.renderer, io.Discard)
		if err := h.dashboard.Record(ctx, report); err != nil {
			ctxlog.From(ctx).Warn("Failed to record report", "error", err, "report_id", report.ID)
		}
		return slackSvc.NewNotifier(h.client, channelID, locale).Notify(ctx, report)
	})
}

// verifySlackSignature verifies the Slack request signature
func (h *Handler) verifySlackSignature(r *http.Request, body []byte) error {
	timestamp := r.Header.Get("X-Slack-Request-Timestamp")
	if timestamp == "" {
		return goerr.New("missing timestamp header")
	}

	// 5 minute replay window
	ts, err := strconv.ParseInt(timestamp, 10, 64)
	if err != nil {
		return goerr.Wrap(err, "invalid timestamp")
	}

	if abs(h.now().Unix()-ts) > 60*5 {
		return goerr.New("timestamp too old", goerr.V("timestamp", ts))
	}

	signature := r.Header.Get("X-Slack-Signature")
	if signature == "" {
		return goerr.New("missing signature header")
	}

	expected := Sign(h.signingSecret, timestamp, body)
	if !hmac.Equal([]byte(signature), []byte(expected)) {
		return goerr.New("signature mismatch")
	}

	return nil
}

// Sign returns the v0 signature Slack sends for body at timestamp
func Sign(secret, timestamp string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(fmt.Sprintf("v0:%s:%s", timestamp, string(body))))
	return "v0=" + hex.EncodeToString(mac.Sum(nil))
}

// writeError writes an error response
func (h *Handler) writeError(ctx context.Context, w http.ResponseWriter, err error, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	var message string
	if goErr := goerr.Unwrap(err); goErr != nil {
		message = goErr.Error()
	} else {
		message = err.Error()
	}

	if err := json.NewEncoder(w).Encode(map[string]string{
		"error": message,
	}); err != nil {
		ctxlog.From(ctx).Error("Failed to write error response", "error", err)
	}
}

func abs(n int64) int64 {
	if n < 0 {
		return -n
	}
	return n
}
