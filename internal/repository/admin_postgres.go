package repository

import (
	"database/sql"
	"errors"

	"m5cup/internal/models"

	"github.com/jonboulle/clockwork"
	"github.com/lib/pq"
)

type AdminPostgres struct {
	db    *sql.DB
	clock clockwork.Clock
}

func NewAdminPostgres(db *sql.DB) *AdminPostgres {
	return NewAdminPostgresWithClock(db, clockwork.NewRealClock())
}

func NewAdminPostgresWithClock(db *sql.DB, clock clockwork.Clock) *AdminPostgres {
	return &AdminPostgres{db: db, clock: clock}
}

func (r *AdminPostgres) IsAdmin(telegramID int64) (bool, error) {
	var one int
	err := r.db.QueryRow(`SELECT 1 FROM admins WHERE telegram_id = $1`, telegramID).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (r *AdminPostgres) ListAdmins() ([]models.Admin, error) {
	rows, err := r.db.Query(`
		SELECT id, telegram_id, COALESCE(username, ''), added_date
		FROM admins ORDER BY added_date
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var admins []models.Admin
	for rows.Next() {
		var a models.Admin
		if err := rows.Scan(&a.ID, &a.TelegramID, &a.Username, &a.AddedDate); err != nil {
			return nil, err
		}
		admins = append(admins, a)
	}
	return admins, rows.Err()
}

func (r *AdminPostgres) AddAdmin(telegramID int64, username string) (bool, error) {
	_, err := r.db.Exec(`
		INSERT INTO admins (telegram_id, username, added_date)
		VALUES ($1, $2, $3)
	`, telegramID, username, r.clock.Now().UTC())
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
