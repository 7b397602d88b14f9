package access

// Capability is a permission on a group of appointment fields
type Capability uint8

const (
	CapView Capability = 1 << iota
	CapEditDetails
	CapToggleCancel
	CapTransitionStatus
	CapDelete
)

func (c Capability) String() string {
	switch c {
	case CapView:
		return "view"
	case CapEditDetails:
		return "edit details"
	case CapToggleCancel:
		return "cancel"
	case CapTransitionStatus:
		return "change status"
	case CapDelete:
		return "delete"
	}
	return "unknown"
}

// CapabilitySet is a set of capabilities
type CapabilitySet uint8

// Has reports whether every capability in caps is in the set
func (s CapabilitySet) Has(caps ...Capability) bool {
	for _, c := range caps {
		if uint8(s)&uint8(c) == 0 {
			return false
		}
	}
	return true
}

func (s CapabilitySet) with(c Capability) CapabilitySet {
	return CapabilitySet(uint8(s) | uint8(c))
}

// Participants are the identities on either side of an appointment
type Participants struct {
	PatientIdentityID int64
	DoctorIdentityID  int64
}

// AppointmentCapabilities returns what caller may do with an appointment
// between participants.
//
// The booking patient edits details, cancels and deletes. The appointment's
// doctor moves the status along. Privileged callers do everything except
// editing the patient's details.
func AppointmentCapabilities(caller Caller, p Participants) CapabilitySet {
	var set CapabilitySet
	if !caller.IsAuthenticated() {
		return set
	}

	isPatient := caller.IdentityID == p.PatientIdentityID
	isDoctor := caller.IdentityID == p.DoctorIdentityID
	privileged := IsPrivileged(caller)

	if isPatient || isDoctor || privileged {
		set = set.with(CapView)
	}
	if isPatient {
		set = set.with(CapEditDetails)
	}
	if isPatient || privileged {
		set = set.with(CapToggleCancel).with(CapDelete)
	}
	if isDoctor || privileged {
		set = set.with(CapTransitionStatus)
	}
	return set
}
