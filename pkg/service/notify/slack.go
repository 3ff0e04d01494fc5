package notify

import (
	"context"
	"fmt"

	"github.com/m-mizutani/goerr/v2"
	"github.com/slack-go/slack"

	"github.com/seamark-lab/quartermaster/pkg/domain/interfaces"
	"github.com/seamark-lab/quartermaster/pkg/domain/model"
	"github.com/seamark-lab/quartermaster/pkg/domain/types"
)

// SlackNotifier posts action outcomes to a Slack channel. It is invoked
// fire-and-forget from the dispatch pipeline; callers never wait on it and
// its errors never reach the acting user.
type SlackNotifier struct {
	api     *slack.Client
	channel string
}

var _ interfaces.Notifier = &SlackNotifier{}

// NewSlackNotifier creates a notifier posting to the given channel
func NewSlackNotifier(token, channel string) (*SlackNotifier, error) {
	if token == "" {
		return nil, goerr.New("Slack bot token is required")
	}
	if channel == "" {
		return nil, goerr.New("Slack channel is required")
	}

	return &SlackNotifier{
		api:     slack.New(token),
		channel: channel,
	}, nil
}

// NotifyActionResult posts one execution outcome as a Block Kit message
func (n *SlackNotifier) NotifyActionResult(ctx context.Context, note *model.ActionNotification) error {
	header := fmt.Sprintf("%s %s", statusEmoji(note.Status), note.Label)

	fields := []*slack.TextBlockObject{
		slack.NewTextBlockObject(slack.MarkdownType,
			fmt.Sprintf("*Yacht:*\n%s", note.YachtID), false, false),
		slack.NewTextBlockObject(slack.MarkdownType,
			fmt.Sprintf("*Actor:*\n%s (%s)", note.ActorID, note.ActorRole), false, false),
	}
	if note.ErrorCode != "" {
		fields = append(fields, slack.NewTextBlockObject(slack.MarkdownType,
			fmt.Sprintf("*Error code:*\n%s", note.ErrorCode), false, false))
	}

	blocks := []slack.Block{
		slack.NewHeaderBlock(slack.NewTextBlockObject(slack.PlainTextType, header, false, false)),
		slack.NewSectionBlock(nil, fields, nil),
	}
	if note.Message != "" {
		blocks = append(blocks, slack.NewContextBlock("",
			slack.NewTextBlockObject(slack.MarkdownType, note.Message, false, false)))
	}

	_, _, err := n.api.PostMessageContext(ctx, n.channel,
		slack.MsgOptionBlocks(blocks...),
		slack.MsgOptionText(header, false),
	)
	if err != nil {
		return goerr.Wrap(err, "failed to post action notification",
			goerr.V("channel", n.channel),
			goerr.V("action_id", note.ActionID))
	}

	return nil
}

func statusEmoji(status types.ExecStatus) string {
	if status == types.ExecStatusSuccess {
		return "✅"
	}
	return "⚠️"
}
