package slack

import (
	"context"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/slack-go/slack"

	"github.com/mempirate/advisor/log"
)

// Slack rejects longer message texts.
const MAX_MESSAGE_LENGTH = 40000

const truncatedSuffix = "\n...(truncated)"

// Notifier posts messages to an incoming webhook.
type Notifier struct {
	log        zerolog.Logger
	webhookURL string
	username   string
}

func NewNotifier(webhookURL string) *Notifier {
	return &Notifier{
		log:        log.NewLogger("slack"),
		webhookURL: webhookURL,
		username:   "advisor",
	}
}

// Notify posts text to the webhook, truncated to what Slack accepts.
func (n *Notifier) Notify(ctx context.Context, text string) error {
	msg := &slack.WebhookMessage{
		Username: n.username,
		Text:     truncate(text),
	}

	if err := slack.PostWebhookContext(ctx, n.webhookURL, msg); err != nil {
		return errors.Wrap(err, "failed to post to Slack")
	}

	n.log.Debug().Int("length", len(msg.Text)).Msg("Posted to Slack")
	return nil
}

func truncate(text string) string {
	if len(text) <= MAX_MESSAGE_LENGTH {
		return text
	}

	cut := MAX_MESSAGE_LENGTH - len(truncatedSuffix)
	// Don't split a multi-byte rune
	for cut > 0 && !isRuneStart(text[cut]) {
		cut--
	}

	return text[:cut] + truncatedSuffix
}

func isRuneStart(b byte) bool {
	return b&0xC0 != 0x80
}
