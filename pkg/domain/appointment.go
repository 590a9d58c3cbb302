package domain

import (
	"encoding/json"
	"fmt"
)

// AppointmentStatus is the display status derived from an appointment's flags.
type AppointmentStatus string

const (
	StatusUpcoming  AppointmentStatus = "upcoming"
	StatusCompleted AppointmentStatus = "completed"
	StatusCancelled AppointmentStatus = "cancelled"
)

// AppointmentStatuses lists the statuses in filter-cycle order.
var AppointmentStatuses = []AppointmentStatus{StatusUpcoming, StatusCompleted, StatusCancelled}

// Appointment is a booked slot as returned by the admin appointment list.
type Appointment struct {
	ID          string     `json:"_id"`
	Patient     PatientRef `json:"userId"`
	Doctor      DoctorRef  `json:"docId"`
	SlotDate    string     `json:"slotDate"`
	SlotTime    string     `json:"slotTime"`
	Amount      float64    `json:"amount"`
	Cancelled   bool       `json:"cancelled"`
	Payment     bool       `json:"payment"`
	IsCompleted bool       `json:"isCompleted"`
}

// Status derives the display status. Cancellation wins over completion.
func (a Appointment) Status() AppointmentStatus {
	switch {
	case a.Cancelled:
		return StatusCancelled
	case a.IsCompleted:
		return StatusCompleted
	default:
		return StatusUpcoming
	}
}

// PatientRef is the appointment's patient. The backend sends either the bare
// user ID or the populated user document.
type PatientRef struct {
	ID    string `json:"_id"`
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
	Image string `json:"image,omitempty"`
	DOB   string `json:"dob,omitempty"`
}

// UnmarshalJSON accepts an ID string or a populated object.
func (p *PatientRef) UnmarshalJSON(data []byte) error {
	type plain PatientRef
	var out plain
	if err := decodeRef(data, &out.ID, &out); err != nil {
		return fmt.Errorf("decode patient: %w", err)
	}
	*p = PatientRef(out)
	return nil
}

// DoctorRef is the appointment's doctor, populated or bare like PatientRef.
type DoctorRef struct {
	ID         string  `json:"_id"`
	Name       string  `json:"name"`
	Speciality string  `json:"speciality,omitempty"`
	Image      string  `json:"image,omitempty"`
	Fees       float64 `json:"fees,omitempty"`
}

// UnmarshalJSON accepts an ID string or a populated object.
func (d *DoctorRef) UnmarshalJSON(data []byte) error {
	type plain DoctorRef
	var out plain
	if err := decodeRef(data, &out.ID, &out); err != nil {
		return fmt.Errorf("decode doctor: %w", err)
	}
	*d = DoctorRef(out)
	return nil
}

func decodeRef(data []byte, id *string, obj any) error {
	if string(data) == "null" {
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		return json.Unmarshal(data, id)
	}
	return json.Unmarshal(data, obj)
}

// FilterAppointments returns the appointments with the given status, or all
// of them when status is empty.
func FilterAppointments(appts []Appointment, status AppointmentStatus) []Appointment {
	if status == "" {
		return appts
	}
	out := make([]Appointment, 0, len(appts))
	for _, a := range appts {
		if a.Status() == status {
			out = append(out, a)
		}
	}
	return out
}
