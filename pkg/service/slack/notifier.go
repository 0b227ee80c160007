package slack

import (
	"context"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/vulntrend/pkg/domain/interfaces"
	"github.com/secmon-lab/vulntrend/pkg/domain/model"
	"github.com/slack-go/slack"
)

// Notifier posts report summaries to a Slack channel
type Notifier struct {
	client    interfaces.SlackClient
	channelID string
	locale    model.Locale
}

// NewNotifier creates a Notifier posting to channelID
func NewNotifier(client interfaces.SlackClient, channelID string, locale model.Locale) *Notifier {
	return &Notifier{
		client:    client,
		channelID: channelID,
		locale:    locale,
	}
}

// Notify posts the report
func (n *Notifier) Notify(ctx context.Context, report *model.Report) error {
	if report == nil {
		return goerr.New("report is nil")
	}

	channel, ts, err := n.client.PostMessageContext(ctx, n.channelID,
		slack.MsgOptionText(ReportSummary(report, n.locale), false),
		slack.MsgOptionBlocks(BuildReportBlocks(report, n.locale)...),
	)
	if err != nil {
		return goerr.Wrap(err, "failed to notify report",
			goerr.V("report_id", report.ID),
			goerr.V("channel", n.channelID))
	}

	ctxlog.From(ctx).Info("Report posted to Slack",
		"report_id", report.ID,
		"channel", channel,
		"ts", ts,
	)
	return nil
}

var _ interfaces.Notifier = (*Notifier)(nil)
