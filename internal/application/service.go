package application

import (
	"time"

	"m5cup/internal/repository"
	"m5cup/pkg/sheets"

	"github.com/jonboulle/clockwork"
)

// Reply keyboard kinds understood by the delivery layer.
const (
	KbNone         = "empty"
	KbMain         = "main"
	KbRegistration = "registration"
	KbBack         = "back"
	KbConfirm      = "confirm"
)

// Button captions shared between the engine and the delivery keyboards.
const (
	BtnRegister = "Регистрация"
	BtnInfo     = "Информация о турнире"
	BtnStatus   = "Проверить статус регистрации"
	BtnFAQ      = "FAQ"
	BtnBack     = "Назад"
	BtnCheckSub = "Проверить подписку"
	BtnContinue = "✅ Продолжить"
	BtnResend   = "🔄 Отправить список заново"
)

type Logger interface {
	Error(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Info(format string, v ...interface{})
	Debug(format string, v ...interface{})
}

// Sender delivers a reply to a chat with one of the Kb* keyboards.
// Implemented by the telegram delivery.
type Sender interface {
	Send(chatID int64, text string, keyboard string)
}

type Service struct {
	Registration RegistrationService
	Moderation   ModerationService
	Status       StatusService
	Export       ExportService
}

type Options struct {
	Channel    string
	OwnerEmail string
	SessionTTL time.Duration
	Clock      clockwork.Clock
}

func NewService(repos *repository.Repository, checker MembershipChecker, sheetsClient sheets.Client, opts Options, logger Logger) *Service {
	if opts.Clock == nil {
		opts.Clock = clockwork.NewRealClock()
	}

	status := NewStatusServiceImpl(repos.Registration, logger)
	sessions := NewSessionStore(opts.SessionTTL, opts.Clock, logger)

	return &Service{
		Registration: NewRegistrationServiceImpl(repos.Registration, checker, status, sessions, opts.Channel, logger),
		Moderation:   NewModerationServiceImpl(repos.Registration, repos.Admin, logger),
		Status:       status,
		Export:       NewExportServiceImpl(repos.Registration, sheetsClient, opts.OwnerEmail, logger),
	}
}

// BindSender wires the delivery into the conversation engine. The bot
// needs the services first, so the sender is attached afterwards.
func (s *Service) BindSender(snd Sender) {
	s.Registration.BindSender(snd)
}
