package config

import (
	"log/slog"

	"github.com/m-mizutani/goerr/v2"
	slackCtrl "github.com/secmon-lab/vulntrend/pkg/controller/slack"
	"github.com/secmon-lab/vulntrend/pkg/domain/interfaces"
	"github.com/secmon-lab/vulntrend/pkg/domain/model"
	slackSvc "github.com/secmon-lab/vulntrend/pkg/service/slack"
	"github.com/secmon-lab/vulntrend/pkg/usecase"
	"github.com/urfave/cli/v3"
)

// Slack holds Slack configuration
type Slack struct {
	OAuthToken    string
	ChannelID     string
	SigningSecret string
}

// Flags returns CLI flags for Slack configuration
func (s *Slack) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "slack-oauth-token",
			Usage:       "Slack OAuth token for posting reports",
			Category:    "Slack",
			Sources:     cli.EnvVars("VULNTREND_SLACK_OAUTH_TOKEN"),
			Destination: &s.OAuthToken,
		},
		&cli.StringFlag{
			Name:        "slack-channel-id",
			Usage:       "Slack channel ID that receives reports",
			Category:    "Slack",
			Sources:     cli.EnvVars("VULNTREND_SLACK_CHANNEL_ID"),
			Destination: &s.ChannelID,
		},
		&cli.StringFlag{
			Name:        "slack-signing-secret",
			Usage:       "Slack signing secret for the slash command endpoint",
			Category:    "Slack",
			Sources:     cli.EnvVars("VULNTREND_SLACK_SIGNING_SECRET"),
			Destination: &s.SigningSecret,
		},
	}
}

// Configure creates the Slack notifier
func (s *Slack) Configure(locale model.Locale) (interfaces.Notifier, error) {
	if !s.IsConfigured() {
		return nil, goerr.New("slack is not configured: token and channel ID are required")
	}
	return slackSvc.NewNotifier(slackSvc.New(s.OAuthToken), s.ChannelID, locale), nil
}

// ConfigureCommand creates the slash command handler, or nil when the token or signing secret is missing
func (s *Slack) ConfigureCommand(dashboard usecase.DashboardUseCase, renderer interfaces.ChartRenderer) *slackCtrl.Handler {
	if s.OAuthToken == "" || s.SigningSecret == "" {
		return nil
	}
	return slackCtrl.NewHandler(s.SigningSecret, dashboard, renderer, slackSvc.New(s.OAuthToken))
}

// IsConfigured checks if Slack is properly configured for posting
func (s *Slack) IsConfigured() bool {
	return s.OAuthToken != "" && s.ChannelID != ""
}

// LogValue returns structured log value
func (s Slack) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Bool("has_oauth_token", s.OAuthToken != ""),
		slog.String("channel_id", s.ChannelID),
		slog.Bool("has_signing_secret", s.SigningSecret != ""),
	)
}
