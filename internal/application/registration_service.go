package application

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"m5cup/internal/models"
	"m5cup/internal/repository"
	"m5cup/internal/verifier"
)

// minPlayers is the smallest roster that may proceed past PLAYERS_LIST.
const minPlayers = 4

// playerPattern accepts "<nickname> - @<handle>" with either dash kind.
// Lines that do not match are dropped without comment; the product has
// always behaved that way, only the count of parsed lines matters.
var playerPattern = regexp.MustCompile(`^(.+?)\s*[-–]\s*@([a-zA-Z0-9_]+)`)

type MembershipChecker interface {
	CheckRequester(ctx context.Context, userID int64) (bool, error)
	CheckPlayers(ctx context.Context, players []models.NewPlayer) verifier.Report
}

type RegistrationService interface {
	// Dispatch hands one user message to the chat's session worker.
	Dispatch(chatID int64, in Inbound)
	BindSender(snd Sender)
}

type RegistrationServiceImpl struct {
	repo     repository.Registration
	checker  MembershipChecker
	status   StatusService
	sessions *SessionStore
	sender   Sender
	channel  string
	logger   Logger
}

func NewRegistrationServiceImpl(repo repository.Registration, checker MembershipChecker, status StatusService, sessions *SessionStore, channel string, logger Logger) *RegistrationServiceImpl {
	s := &RegistrationServiceImpl{
		repo:     repo,
		checker:  checker,
		status:   status,
		sessions: sessions,
		channel:  channel,
		logger:   logger,
	}
	sessions.SetHandler(s.handle)
	return s
}

func (s *RegistrationServiceImpl) BindSender(snd Sender) {
	s.sender = snd
}

func (s *RegistrationServiceImpl) Dispatch(chatID int64, in Inbound) {
	s.sessions.Dispatch(chatID, in)
}

func (s *RegistrationServiceImpl) handle(sess *Session, in Inbound) {
	text := strings.TrimSpace(in.Text)

	// Restarts win over any state and discard the draft. Both are also
	// interrupts in the session store, so they cancel an in-flight
	// verification before they get here.
	switch text {
	case "/start":
		sess.Draft = Draft{}
		sess.State = models.StateIdle
		s.send(sess, welcomeText, KbMain)
		return
	case BtnRegister:
		sess.Draft = Draft{}
		sess.State = models.StateCheckingSubscription
		s.send(sess, s.subscribePrompt(), KbRegistration)
		return
	}

	switch sess.State {
	case models.StateIdle:
		s.handleMenu(sess, text)
	case models.StateCheckingSubscription:
		s.handleCheckingSubscription(sess, in, text)
	case models.StateTeamName:
		s.handleTeamName(sess, text)
	case models.StatePlayersList:
		s.handlePlayersList(sess, text)
	case models.StateConfirmation:
		s.handleConfirmation(sess, text)
	case models.StateCaptainContacts:
		s.handleCaptainContacts(sess, text)
	case models.StateWaitingTeamName:
		s.handleStatusLookup(sess, text)
	case models.StateTournamentInfo:
		s.handleStaticPage(sess, text, infoText)
	case models.StateFAQ:
		s.handleStaticPage(sess, text, faqText)
	default:
		sess.State = models.StateIdle
		s.send(sess, menuFallbackText, KbMain)
	}
}

func (s *RegistrationServiceImpl) handleMenu(sess *Session, text string) {
	switch text {
	case BtnInfo:
		sess.State = models.StateTournamentInfo
		s.send(sess, infoText, KbBack)
	case BtnStatus:
		sess.State = models.StateWaitingTeamName
		s.send(sess, statusPromptText, KbBack)
	case BtnFAQ:
		sess.State = models.StateFAQ
		s.send(sess, faqText, KbBack)
	default:
		s.send(sess, menuFallbackText, KbMain)
	}
}

func (s *RegistrationServiceImpl) handleCheckingSubscription(sess *Session, in Inbound, text string) {
	switch text {
	case BtnCheckSub:
		ctx := sess.BeginVerification()
		member, err := s.checker.CheckRequester(ctx, in.UserID)
		sess.EndVerification()

		if err != nil {
			s.logger.Error("subscription check for %d failed: %v", in.UserID, err)
			s.send(sess, subscribeErrorText, KbRegistration)
			return
		}
		if !member {
			s.send(sess, fmt.Sprintf("❌ Вы не подписаны на канал. Пожалуйста, подпишитесь на %s и попробуйте снова.", s.channel), KbRegistration)
			return
		}
		sess.State = models.StateTeamName
		s.send(sess, "🎮 Отлично! Теперь введи название твоей команды.\n\n✍🏼 Напиши название в ответном сообщении.", KbBack)
	case BtnBack:
		sess.State = models.StateIdle
		s.send(sess, backToMenuText, KbMain)
	default:
		s.send(sess, s.subscribePrompt(), KbRegistration)
	}
}

func (s *RegistrationServiceImpl) handleTeamName(sess *Session, text string) {
	if text == BtnBack {
		sess.State = models.StateCheckingSubscription
		s.send(sess, s.subscribePrompt(), KbRegistration)
		return
	}
	sess.Draft.TeamName = text
	sess.State = models.StatePlayersList
	s.send(sess, rosterPromptText, KbBack)
}

func (s *RegistrationServiceImpl) handlePlayersList(sess *Session, text string) {
	if text == BtnBack {
		sess.State = models.StateTeamName
		s.send(sess, teamNamePromptText, KbBack)
		return
	}

	players := parseRoster(text)
	if len(players) < minPlayers {
		s.send(sess, rosterRetryText, KbBack)
		return
	}

	sess.Draft.Players = players
	s.send(sess, "⏳ Проверяем подписку игроков на канал. Это может занять некоторое время...", KbNone)

	ctx := sess.BeginVerification()
	report := s.checker.CheckPlayers(ctx, players)
	// EndVerification cancels ctx as cleanup, so the interruption has
	// to be read off first.
	interrupted := ctx.Err() != nil
	sess.EndVerification()

	if interrupted {
		// The user backed out or restarted mid-check; the interrupt
		// message is already queued behind us.
		return
	}

	sess.Draft.Report = &report
	sess.State = models.StateConfirmation
	s.send(sess, report.Render(s.channel), KbConfirm)
}

func (s *RegistrationServiceImpl) handleConfirmation(sess *Session, text string) {
	switch text {
	case BtnContinue:
		sess.State = models.StateCaptainContacts
		s.send(sess, contactPromptText, KbBack)
	case BtnResend:
		sess.Draft.Players = nil
		sess.Draft.Report = nil
		sess.State = models.StatePlayersList
		s.send(sess, rosterResendText, KbBack)
	case BtnBack:
		sess.State = models.StatePlayersList
		s.send(sess, rosterPromptText, KbBack)
	default:
		s.send(sess, confirmFallbackText, KbConfirm)
	}
}

func (s *RegistrationServiceImpl) handleCaptainContacts(sess *Session, text string) {
	if text == BtnBack {
		sess.State = models.StatePlayersList
		s.send(sess, rosterPromptText, KbBack)
		return
	}

	sess.Draft.CaptainContact = text

	teamID, err := s.repo.CreateTeamWithPlayers(sess.Draft.TeamName, sess.Draft.Players, sess.Draft.CaptainContact)
	if err != nil {
		s.logger.Error("failed to persist registration of %q: %v", sess.Draft.TeamName, err)
		s.send(sess, "❌ Не удалось сохранить регистрацию. Отправьте контакты капитана ещё раз.", KbBack)
		return
	}
	s.logger.Info("team %q registered, id=%d, players=%d", sess.Draft.TeamName, teamID, len(sess.Draft.Players))

	s.send(sess, renderRegistered(sess.Draft), KbMain)
	sess.Draft = Draft{}
	sess.State = models.StateIdle
	sess.Complete()
}

func (s *RegistrationServiceImpl) handleStatusLookup(sess *Session, text string) {
	if text == BtnBack {
		sess.State = models.StateIdle
		s.send(sess, backToMenuText, KbMain)
		return
	}
	sess.State = models.StateIdle
	s.send(sess, s.status.TeamStatus(text), KbMain)
}

func (s *RegistrationServiceImpl) handleStaticPage(sess *Session, text, page string) {
	if text == BtnBack {
		sess.State = models.StateIdle
		s.send(sess, backToMenuText, KbMain)
		return
	}
	s.send(sess, page, KbBack)
}

func (s *RegistrationServiceImpl) send(sess *Session, text, kb string) {
	s.sender.Send(sess.ChatID, text, kb)
}

func (s *RegistrationServiceImpl) subscribePrompt() string {
	return fmt.Sprintf("📢 Для участия в M5 Domination Cup необходимо быть подписанным на наш канал!\n\n"+
		"🔗 Подпишись на %s, затем нажми \"Проверить подписку\".\n\n"+
		"🛑 Если ты уже подписан, просто нажми \"Проверить подписку\".", s.channel)
}

// parseRoster keeps lines matching playerPattern in input order and
// drops everything else.
func parseRoster(text string) []models.NewPlayer {
	var players []models.NewPlayer
	for _, line := range strings.Split(text, "\n") {
		m := playerPattern.FindStringSubmatch(strings.TrimSpace(line))
		if m == nil {
			continue
		}
		players = append(players, models.NewPlayer{
			Nickname:         strings.TrimSpace(m[1]),
			TelegramUsername: strings.TrimSpace(m[2]),
		})
	}
	return players
}

func renderRegistered(d Draft) string {
	var sb strings.Builder
	sb.WriteString("✅ Поздравляем! Ваша команда успешно зарегистрирована на M5 Domination Cup!\n\n")
	sb.WriteString("📋 Информация о регистрации:\n")
	sb.WriteString(fmt.Sprintf("🎮 Название команды: %s\n\n", d.TeamName))
	sb.WriteString("👥 Состав команды:\n")
	for _, p := range d.Players {
		sb.WriteString(fmt.Sprintf("• %s – @%s\n", p.Nickname, p.TelegramUsername))
	}
	sb.WriteString(fmt.Sprintf("\n👨‍✈️ Контакты капитана:\n%s\n\n", d.CaptainContact))
	sb.WriteString("📢 Вскоре мы свяжемся с капитаном для подтверждения участия.\n\n")
	sb.WriteString("🔥 Удачи в турнире! 🎮🏆")
	return sb.String()
}
