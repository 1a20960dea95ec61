package telegram

import (
	"context"
	"strings"
	"sync"

	"m5cup/internal/application"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

type Bot struct {
	api      *tgbotapi.BotAPI
	services *application.Service
	logger   application.Logger

	// pendingComments maps an admin chat to the team id whose comment
	// they are about to type.
	mu              sync.Mutex
	pendingComments map[int64]int
}

func NewBot(api *tgbotapi.BotAPI, services *application.Service, logger application.Logger) *Bot {
	return &Bot{
		api:             api,
		services:        services,
		logger:          logger,
		pendingComments: make(map[int64]int),
	}
}

func (b *Bot) Init() error {
	b.logger.Info("Telegram bot authorized on account %s", b.api.Self.UserName)
	return nil
}

func (b *Bot) Run(ctx context.Context) {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := b.api.GetUpdatesChan(u)

	for {
		select {
		case <-ctx.Done():
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			b.route(update)
		}
	}
}

func (b *Bot) Stop() {
	b.api.StopReceivingUpdates()
}

func (b *Bot) route(update tgbotapi.Update) {
	if update.CallbackQuery != nil {
		b.handleCallback(update.CallbackQuery)
		return
	}

	msg := update.Message
	if msg == nil || msg.From == nil {
		return
	}

	chatID := msg.Chat.ID
	text := msg.Text

	if b.consumePendingComment(chatID, msg.From.ID, text) {
		return
	}

	if strings.HasPrefix(text, "/") && text != "/start" {
		b.handleAdminCommand(chatID, msg.From.ID, text)
		return
	}

	// Everything else belongs to the registration conversation; the
	// session worker replies asynchronously via Send.
	b.services.Registration.Dispatch(chatID, application.Inbound{
		UserID:   msg.From.ID,
		Username: msg.From.UserName,
		Text:     text,
	})
}
