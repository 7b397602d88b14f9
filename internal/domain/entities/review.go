package entities

import (
	"time"
)

// Rating is a star rating stored as its textual value "1".."5"
type Rating string

// Valid reports whether r is within "1".."5"
func (r Rating) Valid() bool {
	return len(r) == 1 && r[0] >= '1' && r[0] <= '5'
}

// Review is a patient's review of a doctor
type Review struct {
	ID         int64     `json:"id" db:"id"`
	ReviewerID int64     `json:"reviewer" db:"reviewer_id"`
	DoctorID   int64     `json:"doctor" db:"doctor_id"`
	Body       string    `json:"body" db:"body"`
	Rating     Rating    `json:"rating" db:"rating"`
	CreatedOn  time.Time `json:"created_on" db:"created_on"`

	// Identity id of the reviewing patient, resolved by the store.
	ReviewerIdentityID int64 `json:"-" db:"reviewer_identity_id"`
}
