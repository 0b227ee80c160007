package interfaces

//go:generate moq -out mocks/slack_mock.go -pkg mocks . SlackClient Notifier

import (
	"context"

	"github.com/secmon-lab/vulntrend/pkg/domain/model"
	"github.com/slack-go/slack"
)

// SlackClient is the subset of slack.Client used for notifications
type SlackClient interface {
	PostMessageContext(ctx context.Context, channelID string, options ...slack.MsgOption) (string, string, error)
}

// Notifier publishes the outcome of a run
type Notifier interface {
	Notify(ctx context.Context, report *model.Report) error
}
