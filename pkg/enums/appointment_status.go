package enums

import "strings"

// AppointmentStatus is the lifecycle state of a viewing appointment.
type AppointmentStatus string

const (
	AppointmentStatusPending   AppointmentStatus = "PENDING"
	AppointmentStatusContacted AppointmentStatus = "CONTACTED"
	AppointmentStatusConfirmed AppointmentStatus = "CONFIRMED"
	AppointmentStatusCancelled AppointmentStatus = "CANCELLED"
)

var appointmentStatuses = []AppointmentStatus{
	AppointmentStatusPending,
	AppointmentStatusContacted,
	AppointmentStatusConfirmed,
	AppointmentStatusCancelled,
}

// appointmentTransitions encodes the allowed forward moves. CANCELLED is
// terminal and PENDING is only ever an initial state.
var appointmentTransitions = map[AppointmentStatus][]AppointmentStatus{
	AppointmentStatusPending:   {AppointmentStatusContacted, AppointmentStatusConfirmed, AppointmentStatusCancelled},
	AppointmentStatusContacted: {AppointmentStatusConfirmed, AppointmentStatusCancelled},
	AppointmentStatusConfirmed: {AppointmentStatusCancelled},
	AppointmentStatusCancelled: {},
}

func AppointmentStatuses() []AppointmentStatus {
	out := make([]AppointmentStatus, len(appointmentStatuses))
	copy(out, appointmentStatuses)
	return out
}

func (s AppointmentStatus) IsValid() bool {
	for _, known := range appointmentStatuses {
		if s == known {
			return true
		}
	}
	return false
}

func (s AppointmentStatus) String() string {
	return string(s)
}

// CanTransitionTo reports whether moving from s to next is allowed.
// A no-op transition (same status) is always permitted.
func (s AppointmentStatus) CanTransitionTo(next AppointmentStatus) bool {
	if s == next {
		return true
	}
	for _, allowed := range appointmentTransitions[s] {
		if next == allowed {
			return true
		}
	}
	return false
}

// Blocking reports whether an appointment in this status still ties up the
// assigned agent for deactivation purposes.
func (s AppointmentStatus) Blocking() bool {
	return s == AppointmentStatusPending || s == AppointmentStatusContacted
}

func ParseAppointmentStatus(value string) (AppointmentStatus, bool) {
	candidate := AppointmentStatus(strings.ToUpper(strings.TrimSpace(value)))
	if candidate.IsValid() {
		return candidate, true
	}
	return "", false
}
