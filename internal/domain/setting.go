package domain

import "time"

// Setting is a durable key-value pair, such as the configured API base URL.
type Setting struct {
	Key       string    `db:"key" gorm:"primaryKey;size:100"`
	Value     string    `db:"value" gorm:"not null"`
	UpdatedAt time.Time `db:"updated_at"`
}
