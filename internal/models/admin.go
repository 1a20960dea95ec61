package models

import "time"

type Admin struct {
	ID         int       `json:"id"`
	TelegramID int64     `json:"telegram_id"`
	Username   string    `json:"username"`
	AddedDate  time.Time `json:"added_date"`
}
