package repository

import (
	"database/sql"
	"errors"

	"m5cup/internal/models"
)

var (
	ErrTeamNotFound = errors.New("team not found")

	// ErrInvalidTransition is returned by SetStatus for a status outside
	// the review taxonomy or a transition the workflow does not allow.
	ErrInvalidTransition = errors.New("invalid status transition")
)

type Registration interface {
	// CreateTeamWithPlayers persists the team row and every player row in
	// one transaction and returns the new team id.
	CreateTeamWithPlayers(name string, players []models.NewPlayer, captainContact string) (int, error)

	GetTeamByID(id int) (*models.Team, error)
	GetTeamByName(name string) (*models.Team, error)
	GetAllTeams() ([]models.Team, error)

	SetStatus(teamID int, status string) (bool, error)
	SetComment(teamID int, comment string) (bool, error)

	CountByStatus() (map[string]int, error)
}

type Admin interface {
	IsAdmin(telegramID int64) (bool, error)
	// AddAdmin returns false without error when the identity is already present.
	AddAdmin(telegramID int64, username string) (bool, error)
	ListAdmins() ([]models.Admin, error)
}

type Repository struct {
	Registration
	Admin
	db *sql.DB
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{
		Registration: NewRegistrationPostgres(db),
		Admin:        NewAdminPostgres(db),
		db:           db,
	}
}
