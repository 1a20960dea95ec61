package application

import (
	"errors"
	"fmt"
	"strings"

	"m5cup/internal/models"
	"m5cup/internal/repository"
)

// ErrNotAuthorized is returned for any moderation entry point invoked
// by a non-admin identity. No further detail leaks to the caller.
var ErrNotAuthorized = errors.New("access denied")

type ModerationService interface {
	Authorize(callerID int64) bool
	Approve(callerID int64, teamID int) error
	Reject(callerID int64, teamID int) error
	Comment(callerID int64, teamID int, text string) error
	ListTeams(callerID int64) ([]models.Team, error)
	TeamByID(callerID int64, teamID int) (*models.Team, error)
	Stats(callerID int64) (string, error)
	AddAdmin(callerID, newID int64, username string) (bool, error)
	ListAdmins(callerID int64) ([]models.Admin, error)
}

type ModerationServiceImpl struct {
	teams  repository.Registration
	admins repository.Admin
	logger Logger
}

func NewModerationServiceImpl(teams repository.Registration, admins repository.Admin, logger Logger) *ModerationServiceImpl {
	return &ModerationServiceImpl{
		teams:  teams,
		admins: admins,
		logger: logger,
	}
}

func (s *ModerationServiceImpl) Authorize(callerID int64) bool {
	ok, err := s.admins.IsAdmin(callerID)
	if err != nil {
		s.logger.Error("admin lookup for %d failed: %v", callerID, err)
		return false
	}
	return ok
}

func (s *ModerationServiceImpl) Approve(callerID int64, teamID int) error {
	return s.setStatus(callerID, teamID, models.StatusApproved)
}

func (s *ModerationServiceImpl) Reject(callerID int64, teamID int) error {
	return s.setStatus(callerID, teamID, models.StatusRejected)
}

func (s *ModerationServiceImpl) setStatus(callerID int64, teamID int, status string) error {
	if !s.Authorize(callerID) {
		return ErrNotAuthorized
	}

	ok, err := s.teams.SetStatus(teamID, status)
	if err != nil {
		return fmt.Errorf("set status of team %d: %w", teamID, err)
	}
	if !ok {
		return repository.ErrTeamNotFound
	}
	s.logger.Info("admin %d set team %d to %s", callerID, teamID, status)
	return nil
}

func (s *ModerationServiceImpl) Comment(callerID int64, teamID int, text string) error {
	if !s.Authorize(callerID) {
		return ErrNotAuthorized
	}

	ok, err := s.teams.SetComment(teamID, text)
	if err != nil {
		return fmt.Errorf("set comment of team %d: %w", teamID, err)
	}
	if !ok {
		return repository.ErrTeamNotFound
	}
	return nil
}

// ListTeams returns every registration regardless of status; reviewers
// see the full history.
func (s *ModerationServiceImpl) ListTeams(callerID int64) ([]models.Team, error) {
	if !s.Authorize(callerID) {
		return nil, ErrNotAuthorized
	}
	return s.teams.GetAllTeams()
}

func (s *ModerationServiceImpl) TeamByID(callerID int64, teamID int) (*models.Team, error) {
	if !s.Authorize(callerID) {
		return nil, ErrNotAuthorized
	}
	return s.teams.GetTeamByID(teamID)
}

func (s *ModerationServiceImpl) Stats(callerID int64) (string, error) {
	if !s.Authorize(callerID) {
		return "", ErrNotAuthorized
	}

	counts, err := s.teams.CountByStatus()
	if err != nil {
		return "", err
	}

	total := 0
	for _, n := range counts {
		total += n
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("📊 Статистика регистраций\n\nВсего команд: %d\n", total))
	sb.WriteString(fmt.Sprintf("⏳ На рассмотрении: %d\n", counts[models.StatusPending]))
	sb.WriteString(fmt.Sprintf("✅ Одобрено: %d\n", counts[models.StatusApproved]))
	sb.WriteString(fmt.Sprintf("❌ Отклонено: %d\n", counts[models.StatusRejected]))
	return sb.String(), nil
}

func (s *ModerationServiceImpl) ListAdmins(callerID int64) ([]models.Admin, error) {
	if !s.Authorize(callerID) {
		return nil, ErrNotAuthorized
	}
	return s.admins.ListAdmins()
}

func (s *ModerationServiceImpl) AddAdmin(callerID, newID int64, username string) (bool, error) {
	if !s.Authorize(callerID) {
		return false, ErrNotAuthorized
	}

	added, err := s.admins.AddAdmin(newID, username)
	if err != nil {
		return false, fmt.Errorf("add admin %d: %w", newID, err)
	}
	if added {
		s.logger.Info("admin %d added admin %d (%s)", callerID, newID, username)
	}
	return added, nil
}
