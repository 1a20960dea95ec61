package telegram

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"m5cup/internal/application"
	"m5cup/internal/models"
	"m5cup/internal/repository"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

const accessDeniedText = "У вас нет доступа к админ-панели."

func (b *Bot) handleAdminCommand(chatID, userID int64, text string) {
	if !b.services.Moderation.Authorize(userID) {
		b.Send(chatID, accessDeniedText, application.KbNone)
		return
	}

	switch {
	case text == "/admin":
		b.Send(chatID, "🔐 Админ-панель:\n\n"+
			"/list_teams - Список команд с кнопками модерации\n"+
			"/stats - Статистика регистраций\n"+
			"/add_admin [telegram id] [имя] - Добавить админа\n"+
			"/admins - Список администраторов\n"+
			"/export - Выгрузка в Excel\n"+
			"/sync - Выгрузка в Google Таблицу", application.KbNone)

	case text == "/list_teams":
		b.sendTeamsList(chatID, userID)

	case text == "/stats":
		stats, err := b.services.Moderation.Stats(userID)
		if err != nil {
			b.sendModerationError(chatID, err)
			return
		}
		b.Send(chatID, stats, application.KbNone)

	case strings.HasPrefix(text, "/add_admin"):
		b.addAdmin(chatID, userID, text)

	case text == "/admins":
		admins, err := b.services.Moderation.ListAdmins(userID)
		if err != nil {
			b.sendModerationError(chatID, err)
			return
		}
		b.Send(chatID, renderAdminsList(admins), application.KbNone)

	case text == "/export":
		data, err := b.services.Export.BuildExcelReport()
		if err != nil {
			b.Send(chatID, "Ошибка выгрузки: "+err.Error(), application.KbNone)
			return
		}
		file := tgbotapi.FileBytes{Name: "teams.xlsx", Bytes: data}
		if _, err := b.api.Send(tgbotapi.NewDocument(chatID, file)); err != nil {
			b.logger.Error("failed to send export to %d: %v", chatID, err)
		}

	case text == "/sync":
		url, err := b.services.Export.SyncToSheet()
		if err != nil {
			b.Send(chatID, "Ошибка синхронизации: "+err.Error(), application.KbNone)
			return
		}
		b.Send(chatID, "📊 Таблица обновлена: "+url, application.KbNone)

	default:
		b.Send(chatID, "Неизвестная команда. /admin — список команд.", application.KbNone)
	}
}

func (b *Bot) sendTeamsList(chatID, userID int64) {
	teams, err := b.services.Moderation.ListTeams(userID)
	if err != nil {
		b.sendModerationError(chatID, err)
		return
	}
	if len(teams) == 0 {
		b.Send(chatID, "Зарегистрированных команд пока нет.", application.KbNone)
		return
	}

	for _, t := range teams {
		msg := tgbotapi.NewMessage(chatID, renderTeamCard(t))
		msg.ReplyMarkup = teamActionKeyboard(t.ID)
		if _, err := b.api.Send(msg); err != nil {
			b.logger.Error("failed to send team card %d: %v", t.ID, err)
		}
	}
}

func (b *Bot) addAdmin(chatID, userID int64, text string) {
	parts := strings.Fields(text)
	if len(parts) < 2 {
		b.Send(chatID, "Используйте: /add_admin [telegram id] [имя]", application.KbNone)
		return
	}
	newID, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil {
		b.Send(chatID, "Некорректный telegram id.", application.KbNone)
		return
	}
	name := ""
	if len(parts) > 2 {
		name = strings.Join(parts[2:], " ")
	}

	added, err := b.services.Moderation.AddAdmin(userID, newID, name)
	if err != nil {
		b.sendModerationError(chatID, err)
		return
	}
	if !added {
		b.Send(chatID, "Этот пользователь уже администратор.", application.KbNone)
		return
	}
	b.Send(chatID, fmt.Sprintf("✅ Администратор %d добавлен.", newID), application.KbNone)
}

func (b *Bot) handleCallback(cb *tgbotapi.CallbackQuery) {
	// Message is nil for callbacks on messages too old or otherwise
	// inaccessible to the bot.
	if cb.Message == nil || cb.From == nil {
		return
	}
	userID := cb.From.ID
	chatID := cb.Message.Chat.ID
	data := cb.Data

	action, teamID, ok := parseTeamAction(data)
	if !ok {
		b.answerCallback(cb.ID, "")
		return
	}

	switch action {
	case "approve", "reject":
		var err error
		if action == "approve" {
			err = b.services.Moderation.Approve(userID, teamID)
		} else {
			err = b.services.Moderation.Reject(userID, teamID)
		}
		if err != nil {
			b.answerCallback(cb.ID, moderationErrorText(err))
			return
		}

		b.answerCallback(cb.ID, "Статус команды обновлен!")
		b.refreshTeamCard(cb, teamID)

	case "comment":
		if !b.services.Moderation.Authorize(userID) {
			b.answerCallback(cb.ID, accessDeniedText)
			return
		}
		b.mu.Lock()
		b.pendingComments[chatID] = teamID
		b.mu.Unlock()
		b.answerCallback(cb.ID, "")
		b.Send(chatID, fmt.Sprintf("💬 Введите комментарий для команды #%d:", teamID), application.KbNone)
	}
}

// consumePendingComment stores the next admin message as the comment of
// the team picked via the inline button. Returns false when no comment
// is awaited from this chat.
func (b *Bot) consumePendingComment(chatID, userID int64, text string) bool {
	b.mu.Lock()
	teamID, ok := b.pendingComments[chatID]
	if ok {
		delete(b.pendingComments, chatID)
	}
	b.mu.Unlock()
	if !ok {
		return false
	}

	if err := b.services.Moderation.Comment(userID, teamID, text); err != nil {
		b.sendModerationError(chatID, err)
		return true
	}
	b.Send(chatID, fmt.Sprintf("💬 Комментарий для команды #%d сохранён.", teamID), application.KbNone)
	return true
}

// refreshTeamCard re-renders the moderated team in place of the card
// the button was pressed on.
func (b *Bot) refreshTeamCard(cb *tgbotapi.CallbackQuery, teamID int) {
	team, err := b.services.Moderation.TeamByID(cb.From.ID, teamID)
	if err != nil {
		b.logger.Error("failed to reload team %d: %v", teamID, err)
		return
	}

	edit := tgbotapi.NewEditMessageText(cb.Message.Chat.ID, cb.Message.MessageID, renderTeamCard(*team))
	kb := teamActionKeyboard(teamID)
	edit.ReplyMarkup = &kb
	if _, err := b.api.Send(edit); err != nil {
		b.logger.Error("failed to refresh team card %d: %v", teamID, err)
	}
}

func (b *Bot) answerCallback(id, text string) {
	if _, err := b.api.Request(tgbotapi.NewCallback(id, text)); err != nil {
		b.logger.Error("failed to answer callback: %v", err)
	}
}

func (b *Bot) sendModerationError(chatID int64, err error) {
	b.Send(chatID, moderationErrorText(err), application.KbNone)
}

func moderationErrorText(err error) string {
	switch {
	case errors.Is(err, application.ErrNotAuthorized):
		return accessDeniedText
	case errors.Is(err, repository.ErrTeamNotFound):
		return "Команда не найдена."
	case errors.Is(err, repository.ErrInvalidTransition):
		return "Недопустимая смена статуса."
	}
	return "❌ Ошибка при обновлении. Попробуйте ещё раз."
}

// parseTeamAction splits callback data of the form
// "approve_team_12" into its action and team id.
func parseTeamAction(data string) (string, int, bool) {
	parts := strings.Split(data, "_")
	if len(parts) != 3 || parts[1] != "team" {
		return "", 0, false
	}
	id, err := strconv.Atoi(parts[2])
	if err != nil {
		return "", 0, false
	}
	switch parts[0] {
	case "approve", "reject", "comment":
		return parts[0], id, true
	}
	return "", 0, false
}

func renderAdminsList(admins []models.Admin) string {
	if len(admins) == 0 {
		return "Администраторы не назначены."
	}

	var sb strings.Builder
	sb.WriteString("🔐 Администраторы:\n")
	for _, a := range admins {
		name := a.Username
		if name == "" {
			name = "без имени"
		}
		sb.WriteString(fmt.Sprintf("• %d — %s (с %s)\n", a.TelegramID, name, a.AddedDate.Format("02.01.2006")))
	}
	return sb.String()
}

func renderTeamCard(t models.Team) string {
	comment := "Нет"
	if t.AdminComment != nil && *t.AdminComment != "" {
		comment = *t.AdminComment
	}

	var roster strings.Builder
	for _, p := range t.Players {
		roster.WriteString(fmt.Sprintf("• %s – @%s\n", p.Nickname, p.TelegramUsername))
	}

	return fmt.Sprintf("🎮 Команда: %s (#%d)\n"+
		"📅 Дата регистрации: %s\n"+
		"📱 Контакт капитана: %s\n"+
		"📊 Статус: %s\n"+
		"💭 Комментарий: %s\n\n"+
		"👥 Игроки:\n%s",
		t.Name, t.ID,
		t.RegistrationDate.Format("02.01.2006 15:04"),
		t.CaptainContact, t.Status, comment, roster.String())
}

func teamActionKeyboard(teamID int) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("✅ Одобрить", fmt.Sprintf("approve_team_%d", teamID)),
			tgbotapi.NewInlineKeyboardButtonData("❌ Отклонить", fmt.Sprintf("reject_team_%d", teamID)),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("💬 Комментарий", fmt.Sprintf("comment_team_%d", teamID)),
		),
	)
}
