package entities

import (
	"time"
)

// Role is the application role carried on a user profile
type Role string

const (
	RolePatient Role = "patient"
	RoleDoctor  Role = "doctor"
	RoleStaff   Role = "staff"
	RoleAdmin   Role = "admin"
)

// Valid reports whether r is one of the known roles
func (r Role) Valid() bool {
	switch r {
	case RolePatient, RoleDoctor, RoleStaff, RoleAdmin:
		return true
	}
	return false
}

// Identity represents an account that can authenticate against the API
type Identity struct {
	ID           int64     `json:"id" db:"id"`
	Username     string    `json:"username" db:"username"`
	Email        string    `json:"email,omitempty" db:"email"`
	FirstName    string    `json:"first_name" db:"first_name"`
	LastName     string    `json:"last_name" db:"last_name"`
	PasswordHash string    `json:"-" db:"password_hash"`
	IsActive     bool      `json:"is_active" db:"is_active"`
	IsStaff      bool      `json:"is_staff" db:"is_staff"`
	DateJoined   time.Time `json:"date_joined" db:"date_joined"`
}

// FullName returns the first and last name joined by a space
func (i *Identity) FullName() string {
	switch {
	case i.FirstName == "":
		return i.LastName
	case i.LastName == "":
		return i.FirstName
	}
	return i.FirstName + " " + i.LastName
}

// UserProfile holds the role and personal details attached to an identity
type UserProfile struct {
	ID             int64      `json:"id" db:"id"`
	IdentityID     int64      `json:"user" db:"identity_id"`
	Role           Role       `json:"role" db:"role"`
	Bio            string     `json:"bio" db:"bio"`
	Address        string     `json:"address" db:"address"`
	DateOfBirth    *time.Time `json:"date_of_birth,omitempty" db:"date_of_birth"`
	ProfilePicture string     `json:"profile_picture" db:"profile_picture"`
	CreatedAt      time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at" db:"updated_at"`

	Identity *Identity `json:"identity,omitempty" db:"-"`
}
