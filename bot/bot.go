package bot

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

const defaultAPIURL = "https://api.telegram.org"

// Sender posts messages to a single Telegram chat.
type Sender struct {
	api    *tgbotapi.BotAPI
	chatID int64
	// channel is used instead of chatID for @username destinations.
	channel string
}

// Option configures a Sender.
type Option func(*tgbotapi.BotAPI)

// WithAPIURL sets the Bot API base URL (for testing).
func WithAPIURL(u string) Option {
	return func(api *tgbotapi.BotAPI) {
		api.SetAPIEndpoint(strings.TrimRight(u, "/") + "/bot%s/%s")
	}
}

// WithTimeout sets the HTTP client timeout.
func WithTimeout(d time.Duration) Option {
	return func(api *tgbotapi.BotAPI) {
		api.Client = &http.Client{Timeout: d}
	}
}

// NewSender creates a sender for chatID, which is either a numeric chat
// identifier or a channel @username. No request is made until Send.
func NewSender(token, chatID string, opts ...Option) (*Sender, error) {
	if token == "" {
		return nil, fmt.Errorf("bot token is required")
	}
	chatID = strings.TrimSpace(chatID)
	if chatID == "" {
		return nil, fmt.Errorf("chat id is required")
	}

	api := &tgbotapi.BotAPI{
		Token:  token,
		Client: &http.Client{Timeout: 10 * time.Second},
		Buffer: 100,
	}
	api.SetAPIEndpoint(defaultAPIURL + "/bot%s/%s")
	for _, opt := range opts {
		opt(api)
	}

	s := &Sender{api: api}
	if id, err := strconv.ParseInt(chatID, 10, 64); err == nil {
		s.chatID = id
	} else {
		s.channel = chatID
	}
	return s, nil
}

// Send posts text once, with HTML formatting when html is set, and returns
// the Telegram message ID. There is no retry.
func (s *Sender) Send(ctx context.Context, text string, html bool) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	var msg tgbotapi.MessageConfig
	if s.channel != "" {
		msg = tgbotapi.NewMessageToChannel(s.channel, text)
	} else {
		msg = tgbotapi.NewMessage(s.chatID, text)
	}
	if html {
		msg.ParseMode = tgbotapi.ModeHTML
	}
	msg.DisableWebPagePreview = true

	sent, err := s.api.Send(msg)
	if err != nil {
		return 0, fmt.Errorf("send message: %w", err)
	}
	return int64(sent.MessageID), nil
}
