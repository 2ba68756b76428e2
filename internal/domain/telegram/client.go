package telegram

import "gopkg.in/telebot.v3"

// Sender sends a text message to a Telegram chat.
// Keeps reminder delivery decoupled from the bot library's polling lifecycle.
type Sender interface {
	SendMessage(chatID int64, text string, options *telebot.SendOptions) error
}
