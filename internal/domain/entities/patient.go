package entities

// Patient is the patient record attached 1:1 to an identity
type Patient struct {
	ID         int64  `json:"id" db:"id"`
	IdentityID int64  `json:"user" db:"identity_id"`
	Image      string `json:"image" db:"image"`
	Phone      string `json:"phone" db:"phone"`

	Identity *Identity `json:"identity,omitempty" db:"-"`
}
