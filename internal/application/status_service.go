package application

import (
	"errors"
	"fmt"
	"strings"

	"m5cup/internal/models"
	"m5cup/internal/repository"
)

var statusEmoji = map[string]string{
	models.StatusPending:  "⏳",
	models.StatusApproved: "✅",
	models.StatusRejected: "❌",
}

type StatusService interface {
	// TeamStatus renders the registration status card for a team name.
	TeamStatus(name string) string
}

type StatusServiceImpl struct {
	repo   repository.Registration
	logger Logger
}

func NewStatusServiceImpl(repo repository.Registration, logger Logger) *StatusServiceImpl {
	return &StatusServiceImpl{repo: repo, logger: logger}
}

func (s *StatusServiceImpl) TeamStatus(name string) string {
	team, err := s.repo.GetTeamByName(name)
	if errors.Is(err, repository.ErrTeamNotFound) {
		return "❌ Команда с таким названием не найдена.\n" +
			"Проверьте правильность написания названия или зарегистрируйте команду."
	}
	if err != nil {
		s.logger.Error("status lookup for %q failed: %v", name, err)
		return "❌ Не удалось проверить статус. Попробуйте позже."
	}

	emoji, ok := statusEmoji[team.Status]
	if !ok {
		emoji = "❓"
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("📋 Статус регистрации команды %s:\n\n", team.Name))
	sb.WriteString(fmt.Sprintf("Статус: %s %s\n", emoji, statusTitle(team.Status)))
	sb.WriteString(fmt.Sprintf("Дата регистрации: %s\n", team.RegistrationDate.Format("02.01.2006 15:04")))
	sb.WriteString("\n👥 Состав команды:\n")
	for _, p := range team.Players {
		sb.WriteString(fmt.Sprintf("• %s – @%s\n", p.Nickname, p.TelegramUsername))
	}
	if team.AdminComment != nil && *team.AdminComment != "" {
		sb.WriteString(fmt.Sprintf("\n💬 Комментарий администратора:\n%s", *team.AdminComment))
	}
	return sb.String()
}

func statusTitle(status string) string {
	if status == "" {
		return status
	}
	return strings.ToUpper(status[:1]) + status[1:]
}
