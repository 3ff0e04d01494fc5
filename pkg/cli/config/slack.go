package config

import (
	"github.com/urfave/cli/v3"

	"github.com/seamark-lab/quartermaster/pkg/domain/interfaces"
	"github.com/seamark-lab/quartermaster/pkg/service/notify"
)

// Slack holds CLI flags for the notification channel
type Slack struct {
	botToken string
	channel  string
}

// Flags returns CLI flags for Slack configuration
func (s *Slack) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "slack-bot-token",
			Usage:       "Slack bot token for action notifications",
			Category:    "Slack",
			Sources:     cli.EnvVars("QUARTERMASTER_SLACK_BOT_TOKEN"),
			Destination: &s.botToken,
		},
		&cli.StringFlag{
			Name:        "slack-channel",
			Usage:       "Slack channel for action notifications",
			Category:    "Slack",
			Sources:     cli.EnvVars("QUARTERMASTER_SLACK_CHANNEL"),
			Destination: &s.channel,
		},
	}
}

// IsConfigured reports whether notifications are enabled
func (s *Slack) IsConfigured() bool {
	return s.botToken != "" && s.channel != ""
}

// Configure builds the notifier, nil when not configured
func (s *Slack) Configure() (interfaces.Notifier, error) {
	if !s.IsConfigured() {
		return nil, nil
	}
	return notify.NewSlackNotifier(s.botToken, s.channel)
}
