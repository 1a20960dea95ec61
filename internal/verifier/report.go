package verifier

import (
	"fmt"
	"strings"
)

// Render builds the user-facing summary: a single success line when the
// whole roster is subscribed, otherwise the list of problem entries.
func (r Report) Render(channel string) string {
	var problems []Result
	for _, res := range r.Results {
		if !res.Subscribed() {
			problems = append(problems, res)
		}
	}

	if len(problems) == 0 {
		return fmt.Sprintf("✅ Все игроки из списка подписаны на канал %s!", channel)
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("⚠️ Следующие игроки не подписаны на канал %s или не удалось проверить их подписку:\n", channel))
	for _, p := range problems {
		sb.WriteString(fmt.Sprintf("• %s – @%s%s\n", p.Nickname, p.Username, annotation(p.Status)))
	}
	sb.WriteString("\nПожалуйста, убедитесь, что все игроки подписаны на канал. Некоторые проверки могли не пройти из-за настроек приватности пользователя")
	return sb.String()
}

func annotation(status string) string {
	switch status {
	case StatusUnresolved:
		return " (Проверьте правильность юзернейма)"
	case StatusFailed:
		return " (Ошибка проверки)"
	}
	return ""
}
