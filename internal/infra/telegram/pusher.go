package telegram

import (
	"context"
	"errors"
	"fmt"
	"html"
	"strings"

	"loadtracker/internal/domain/push"
	domainTelegram "loadtracker/internal/domain/telegram"

	"gopkg.in/telebot.v3"
)

const providerName = "telegram"

// Pusher mirrors reminders into operator-configured Telegram chats.
// The chats are chosen explicitly, so the tag audience does not apply.
type Pusher struct {
	sender  domainTelegram.Sender
	chatIDs []int64
}

func NewPusher(sender domainTelegram.Sender, chatIDs []int64) *Pusher {
	return &Pusher{sender: sender, chatIDs: chatIDs}
}

func (p *Pusher) Push(ctx context.Context, n push.Notification) (push.Receipt, error) {
	receipt := push.Receipt{Provider: providerName}
	if p == nil || p.sender == nil {
		return receipt, push.ErrNotConfigured
	}

	text := FormatNotification(n)
	var errs []error
	for _, chatID := range p.chatIDs {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}
		if err := p.sender.SendMessage(chatID, text, &telebot.SendOptions{ParseMode: telebot.ModeHTML}); err != nil {
			errs = append(errs, fmt.Errorf("chat %d: %w", chatID, err))
			continue
		}
		receipt.Recipients++
	}
	return receipt, errors.Join(errs...)
}

// FormatNotification renders a notification as an HTML Telegram message.
func FormatNotification(n push.Notification) string {
	var b strings.Builder
	if n.Title != "" {
		b.WriteString("<b>")
		b.WriteString(html.EscapeString(n.Title))
		b.WriteString("</b>\n")
	}
	b.WriteString(html.EscapeString(n.Body))
	return b.String()
}
