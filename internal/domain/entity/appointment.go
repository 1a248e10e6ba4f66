package entity

import (
	"time"

	"github.com/google/uuid"
)

// AppointmentStatus represents the status of an appointment
//
// Transitions:
//
//	scheduled → confirmed → completed
//	scheduled → canceled
//	confirmed → canceled
type AppointmentStatus string

const (
	AppointmentStatusScheduled AppointmentStatus = "scheduled"
	AppointmentStatusConfirmed AppointmentStatus = "confirmed"
	AppointmentStatusCanceled  AppointmentStatus = "canceled"
	AppointmentStatusCompleted AppointmentStatus = "completed"
)

var appointmentTransitions = map[AppointmentStatus][]AppointmentStatus{
	AppointmentStatusScheduled: {AppointmentStatusConfirmed, AppointmentStatusCanceled},
	AppointmentStatusConfirmed: {AppointmentStatusCompleted, AppointmentStatusCanceled},
	AppointmentStatusCanceled:  {},
	AppointmentStatusCompleted: {},
}

func (s AppointmentStatus) IsValid() bool {
	_, ok := appointmentTransitions[s]
	return ok
}

// IsTerminal reports whether no further transition is allowed from s.
func (s AppointmentStatus) IsTerminal() bool {
	return len(appointmentTransitions[s]) == 0
}

// AppointmentType is how the consultation takes place
type AppointmentType string

const (
	AppointmentTypeInPerson     AppointmentType = "in_person"
	AppointmentTypeTelemedicine AppointmentType = "telemedicine"
)

// Appointment is a consultation booked by a patient with a professional
type Appointment struct {
	ID             uuid.UUID         `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	PatientID      uuid.UUID         `gorm:"type:uuid;not null;index" json:"patient_id"`
	ProfessionalID uuid.UUID         `gorm:"type:uuid;not null;index" json:"professional_id"`
	Date           string            `gorm:"column:appointment_date;type:varchar(10);not null" json:"date"`
	Time           string            `gorm:"column:appointment_time;type:varchar(5);not null" json:"time"`
	Status         AppointmentStatus `gorm:"type:varchar(20);not null;default:'scheduled'" json:"status"`
	Notes          string            `gorm:"type:text" json:"notes,omitempty"`
	Type           AppointmentType   `gorm:"type:varchar(20)" json:"type,omitempty"`
	Location       string            `gorm:"type:varchar(255)" json:"location,omitempty"`
	ReminderSent   bool              `gorm:"not null;default:false" json:"reminder_sent"`
	CreatedAt      time.Time         `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time         `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Appointment) TableName() string {
	return "appointments"
}

// CanTransitionTo checks the closed transition table
func (a *Appointment) CanTransitionTo(next AppointmentStatus) bool {
	for _, s := range appointmentTransitions[a.Status] {
		if s == next {
			return true
		}
	}
	return false
}

// HasParticipant reports whether userID is the patient or the professional.
func (a *Appointment) HasParticipant(userID uuid.UUID) bool {
	return a.PatientID == userID || a.ProfessionalID == userID
}

// IsUpcoming checks if the appointment still has to take place
func (a *Appointment) IsUpcoming() bool {
	return a.Status == AppointmentStatusScheduled || a.Status == AppointmentStatusConfirmed
}
