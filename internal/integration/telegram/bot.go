package telegram

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/smartwallet/backend/internal/application/usecase/interpret"
)

// botAPI is the part of tgbotapi.BotAPI used by the bot.
type botAPI interface {
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	StopReceivingUpdates()
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
	GetFileDirectURL(fileID string) (string, error)
}

// Config configures the bot.
type Config struct {
	Token       string
	PollTimeout int
	Debug       bool
}

// Bot long-polls Telegram and answers each message through a Handler.
type Bot struct {
	api         botAPI
	handler     *Handler
	http        *http.Client
	pollTimeout int
}

// NewBot authenticates against Telegram and creates the bot.
func NewBot(cfg Config, handler *Handler) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(cfg.Token)
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}
	api.Debug = cfg.Debug
	slog.Info("Telegram bot authorized", "username", api.Self.UserName)

	return newBot(api, handler, cfg.PollTimeout), nil
}

func newBot(api botAPI, handler *Handler, pollTimeout int) *Bot {
	if pollTimeout <= 0 {
		pollTimeout = 60
	}
	return &Bot{
		api:         api,
		handler:     handler,
		http:        &http.Client{Timeout: 30 * time.Second},
		pollTimeout: pollTimeout,
	}
}

// Run processes updates until ctx is cancelled.
func (b *Bot) Run(ctx context.Context) {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = b.pollTimeout
	updates := b.api.GetUpdatesChan(u)
	defer b.api.StopReceivingUpdates()

	for {
		select {
		case <-ctx.Done():
			slog.Info("Telegram bot shutting down")
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			b.handleUpdate(ctx, update)
		}
	}
}

func (b *Bot) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	msg := update.Message
	if msg == nil || msg.Chat == nil {
		return
	}

	in := Message{ChatID: msg.Chat.ID}
	switch {
	case msg.IsCommand():
		in.Command = msg.Command()
		in.Args = msg.CommandArguments()
	case msg.Voice != nil:
		audio, err := b.download(ctx, msg.Voice.FileID)
		if err != nil {
			slog.Error("Failed to download voice note", "error", err, "chatID", in.ChatID)
			b.reply(in.ChatID, replyFailure)
			return
		}
		in.Audio = audio
		in.AudioMIME = msg.Voice.MimeType
	case msg.Text != "":
		in.Text = msg.Text
	default:
		return
	}

	b.reply(in.ChatID, b.handler.Handle(ctx, in))

	// The credentials should not stay in the chat history
	if in.Command == "link" {
		if _, err := b.api.Request(tgbotapi.NewDeleteMessage(in.ChatID, msg.MessageID)); err != nil {
			slog.Warn("Failed to delete link message", "error", err, "chatID", in.ChatID)
		}
	}
}

func (b *Bot) reply(chatID int64, text string) {
	if text == "" {
		return
	}
	if _, err := b.api.Send(tgbotapi.NewMessage(chatID, truncate(text))); err != nil {
		slog.Error("Failed to send telegram message", "error", err, "chatID", chatID)
	}
}

func (b *Bot) download(ctx context.Context, fileID string) ([]byte, error) {
	url, err := b.api.GetFileDirectURL(fileID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve file: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	resp, err := b.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to download file: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to download file: status %d", resp.StatusCode)
	}

	// One byte over the limit lets the use case reject oversized audio
	return io.ReadAll(io.LimitReader(resp.Body, interpret.MaxAudioBytes+1))
}
