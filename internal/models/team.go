package models

import "time"

const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

// ValidStatus reports whether s is one of the three review statuses.
func ValidStatus(s string) bool {
	return s == StatusPending || s == StatusApproved || s == StatusRejected
}

type Team struct {
	ID               int       `json:"id"`
	Name             string    `json:"team_name"`
	CaptainContact   string    `json:"captain_contact"`
	RegistrationDate time.Time `json:"registration_date"`
	Status           string    `json:"status"`
	AdminComment     *string   `json:"admin_comment"`
	Players          []Player  `json:"players"`
}

type Player struct {
	ID               int    `json:"id"`
	TeamID           int    `json:"team_id"`
	Nickname         string `json:"nickname"`
	TelegramUsername string `json:"telegram_username"`
	IsCaptain        bool   `json:"is_captain"`
}

// NewPlayer is a roster entry collected during registration,
// before the team row exists.
type NewPlayer struct {
	Nickname         string
	TelegramUsername string
}
