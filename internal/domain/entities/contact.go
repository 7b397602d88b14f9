package entities

import (
	"time"
)

const (
	MaxContactNameLength  = 50
	MaxContactPhoneLength = 11
)

// ContactMessage is a message left through the public contact form
type ContactMessage struct {
	ID        int64     `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Phone     string    `json:"phone" db:"phone"`
	Message   string    `json:"message" db:"message"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
