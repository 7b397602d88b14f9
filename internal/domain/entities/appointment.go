package entities

import (
	"time"
)

// AppointmentType is how the consultation takes place
type AppointmentType string

const (
	AppointmentTypeOnline  AppointmentType = "Online"
	AppointmentTypeOffline AppointmentType = "Offline"
)

// Valid reports whether t is a known appointment type
func (t AppointmentType) Valid() bool {
	return t == AppointmentTypeOnline || t == AppointmentTypeOffline
}

// AppointmentStatus represents the status of an appointment
type AppointmentStatus string

const (
	AppointmentStatusPending   AppointmentStatus = "Pending"
	AppointmentStatusConfirmed AppointmentStatus = "Confirmed"
	AppointmentStatusRejected  AppointmentStatus = "Rejected"
	AppointmentStatusCompleted AppointmentStatus = "Completed"
)

// Valid reports whether s is a known status
func (s AppointmentStatus) Valid() bool {
	switch s {
	case AppointmentStatusPending, AppointmentStatusConfirmed, AppointmentStatusRejected, AppointmentStatusCompleted:
		return true
	}
	return false
}

var appointmentTransitions = map[AppointmentStatus][]AppointmentStatus{
	AppointmentStatusPending:   {AppointmentStatusConfirmed, AppointmentStatusRejected},
	AppointmentStatusConfirmed: {AppointmentStatusCompleted},
}

// CanTransitionTo reports whether a status change from s to next is allowed.
// Re-asserting the current status is allowed and is a no-op.
func (s AppointmentStatus) CanTransitionTo(next AppointmentStatus) bool {
	if s == next {
		return true
	}
	for _, allowed := range appointmentTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Appointment binds a patient, a doctor and a time slot
type Appointment struct {
	ID        int64             `json:"id" db:"id"`
	PatientID int64             `json:"patient" db:"patient_id"`
	DoctorID  int64             `json:"doctor" db:"doctor_id"`
	TimeID    int64             `json:"time" db:"time_id"`
	Type      AppointmentType   `json:"appointment_type" db:"appointment_type"`
	Status    AppointmentStatus `json:"appointment_status" db:"appointment_status"`
	Symptoms  string            `json:"symptoms" db:"symptoms"`
	Cancel    bool              `json:"cancel" db:"cancel"`
	CreatedAt time.Time         `json:"created_at" db:"created_at"`
	UpdatedAt time.Time         `json:"updated_at" db:"updated_at"`

	// Identity ids of the two participants, resolved by the store for
	// access checks. Not client-writable.
	PatientIdentityID int64 `json:"-" db:"patient_identity_id"`
	DoctorIdentityID  int64 `json:"-" db:"doctor_identity_id"`
}
