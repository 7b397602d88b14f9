package entities

// Doctor is the doctor record attached 1:1 to an identity
type Doctor struct {
	ID         int64  `json:"id" db:"id"`
	IdentityID int64  `json:"user" db:"identity_id"`
	Image      string `json:"image" db:"image"`
	Fee        int    `json:"fee" db:"fee"`
	MeetLink   string `json:"meet_link,omitempty" db:"meet_link"`

	Designations    []Designation    `json:"designation" db:"-"`
	Specialisations []Specialisation `json:"specialisation" db:"-"`
	AvailableTimes  []AvailableTime  `json:"available_time" db:"-"`

	Identity *Identity `json:"identity,omitempty" db:"-"`
}
