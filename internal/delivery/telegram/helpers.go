package telegram

import (
	"m5cup/internal/application"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Send implements application.Sender. Session workers call it from
// their own goroutines; tgbotapi's Send is safe for that.
func (b *Bot) Send(chatID int64, text string, keyboard string) {
	if text == "" {
		return
	}
	msg := tgbotapi.NewMessage(chatID, text)

	switch keyboard {
	case application.KbMain:
		msg.ReplyMarkup = tgbotapi.NewReplyKeyboard(
			tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton(application.BtnRegister)),
			tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton(application.BtnInfo)),
			tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton(application.BtnStatus)),
			tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton(application.BtnFAQ)),
		)
	case application.KbRegistration:
		msg.ReplyMarkup = tgbotapi.NewReplyKeyboard(
			tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton(application.BtnCheckSub)),
			tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton(application.BtnBack)),
		)
	case application.KbBack:
		msg.ReplyMarkup = tgbotapi.NewReplyKeyboard(
			tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton(application.BtnBack)),
		)
	case application.KbConfirm:
		msg.ReplyMarkup = tgbotapi.NewReplyKeyboard(
			tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton(application.BtnContinue)),
			tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton(application.BtnResend)),
			tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton(application.BtnBack)),
		)
	default:
		msg.ReplyMarkup = tgbotapi.NewRemoveKeyboard(true)
	}

	if _, err := b.api.Send(msg); err != nil {
		b.logger.Error("failed to send message to %d: %v", chatID, err)
	}
}
