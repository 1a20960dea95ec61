package repository

import (
	"database/sql"
	"fmt"

	"m5cup/internal/models"

	"github.com/jonboulle/clockwork"
)

type RegistrationPostgres struct {
	db    *sql.DB
	clock clockwork.Clock
}

func NewRegistrationPostgres(db *sql.DB) *RegistrationPostgres {
	return NewRegistrationPostgresWithClock(db, clockwork.NewRealClock())
}

func NewRegistrationPostgresWithClock(db *sql.DB, clock clockwork.Clock) *RegistrationPostgres {
	return &RegistrationPostgres{db: db, clock: clock}
}

func (r *RegistrationPostgres) CreateTeamWithPlayers(name string, players []models.NewPlayer, captainContact string) (int, error) {
	tx, err := r.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("begin registration tx: %w", err)
	}
	defer tx.Rollback()

	var teamID int
	err = tx.QueryRow(`
		INSERT INTO teams (team_name, captain_contact, registration_date)
		VALUES ($1, $2, $3) RETURNING id
	`, name, captainContact, r.clock.Now().UTC()).Scan(&teamID)
	if err != nil {
		return 0, fmt.Errorf("insert team: %w", err)
	}

	for _, p := range players {
		_, err = tx.Exec(`
			INSERT INTO players (team_id, nickname, telegram_username)
			VALUES ($1, $2, $3)
		`, teamID, p.Nickname, p.TelegramUsername)
		if err != nil {
			return 0, fmt.Errorf("insert player %q: %w", p.Nickname, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit registration tx: %w", err)
	}
	return teamID, nil
}

func (r *RegistrationPostgres) GetTeamByID(id int) (*models.Team, error) {
	return r.getTeam(`WHERE id = $1`, id)
}

// GetTeamByName resolves duplicates to the most recent registration;
// team_name carries no unique constraint.
func (r *RegistrationPostgres) GetTeamByName(name string) (*models.Team, error) {
	return r.getTeam(`WHERE team_name = $1 ORDER BY registration_date DESC LIMIT 1`, name)
}

func (r *RegistrationPostgres) getTeam(filter string, arg interface{}) (*models.Team, error) {
	var t models.Team
	err := r.db.QueryRow(`
		SELECT id, team_name, captain_contact, registration_date, status, admin_comment
		FROM teams `+filter, arg).Scan(
		&t.ID, &t.Name, &t.CaptainContact, &t.RegistrationDate, &t.Status, &t.AdminComment,
	)
	if err == sql.ErrNoRows {
		return nil, ErrTeamNotFound
	}
	if err != nil {
		return nil, err
	}

	t.Players, err = r.getPlayers(t.ID)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *RegistrationPostgres) GetAllTeams() ([]models.Team, error) {
	rows, err := r.db.Query(`
		SELECT id, team_name, captain_contact, registration_date, status, admin_comment
		FROM teams ORDER BY registration_date DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var teams []models.Team
	for rows.Next() {
		var t models.Team
		if err := rows.Scan(&t.ID, &t.Name, &t.CaptainContact, &t.RegistrationDate, &t.Status, &t.AdminComment); err != nil {
			return nil, err
		}
		teams = append(teams, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range teams {
		teams[i].Players, err = r.getPlayers(teams[i].ID)
		if err != nil {
			return nil, err
		}
	}
	return teams, nil
}

// getPlayers keeps submission order: player ids are assigned in insert order.
func (r *RegistrationPostgres) getPlayers(teamID int) ([]models.Player, error) {
	rows, err := r.db.Query(`
		SELECT id, team_id, nickname, telegram_username, is_captain
		FROM players WHERE team_id = $1 ORDER BY id
	`, teamID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var players []models.Player
	for rows.Next() {
		var p models.Player
		if err := rows.Scan(&p.ID, &p.TeamID, &p.Nickname, &p.TelegramUsername, &p.IsCaptain); err != nil {
			return nil, err
		}
		players = append(players, p)
	}
	return players, rows.Err()
}

// SetStatus enforces the review taxonomy: pending may go either way,
// approved and rejected may flip to each other, and re-applying the
// current status succeeds. Only the status column is touched.
func (r *RegistrationPostgres) SetStatus(teamID int, status string) (bool, error) {
	if !models.ValidStatus(status) {
		return false, ErrInvalidTransition
	}

	tx, err := r.db.Begin()
	if err != nil {
		return false, err
	}
	defer tx.Rollback()

	var current string
	err = tx.QueryRow(`SELECT status FROM teams WHERE id = $1 FOR UPDATE`, teamID).Scan(&current)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	if !transitionAllowed(current, status) {
		return false, ErrInvalidTransition
	}

	if _, err := tx.Exec(`UPDATE teams SET status = $2 WHERE id = $1`, teamID, status); err != nil {
		return false, err
	}
	return true, tx.Commit()
}

func transitionAllowed(from, to string) bool {
	if from == to {
		return true
	}
	switch from {
	case models.StatusPending:
		return to == models.StatusApproved || to == models.StatusRejected
	case models.StatusApproved:
		return to == models.StatusRejected
	case models.StatusRejected:
		return to == models.StatusApproved
	}
	return false
}

func (r *RegistrationPostgres) SetComment(teamID int, comment string) (bool, error) {
	res, err := r.db.Exec(`UPDATE teams SET admin_comment = $2 WHERE id = $1`, teamID, comment)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *RegistrationPostgres) CountByStatus() (map[string]int, error) {
	rows, err := r.db.Query(`SELECT status, COUNT(*) FROM teams GROUP BY status`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var status string
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, err
		}
		counts[status] = n
	}
	return counts, rows.Err()
}
