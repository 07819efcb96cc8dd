package models

import (
	"time"
)

// ErrorLog mirrors every error written to the log file into the database so
// it can be browsed from the admin screens.
type ErrorLog struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Timestamp time.Time `json:"timestamp"`
	Message   string    `gorm:"type:text" json:"message"`
}
