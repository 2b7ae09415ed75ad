package entity

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// AppointmentStatus represents the lifecycle state of an appointment
type AppointmentStatus string

const (
	AppointmentStatusPending   AppointmentStatus = "pending"
	AppointmentStatusCompleted AppointmentStatus = "completed"
	AppointmentStatusCancelled AppointmentStatus = "cancelled"
)

var ErrInvalidTransition = errors.New("appointment status transition is not allowed")

var appointmentStatuses = []AppointmentStatus{
	AppointmentStatusPending,
	AppointmentStatusCompleted,
	AppointmentStatusCancelled,
}

// Completed and cancelled are terminal.
var appointmentTransitions = map[AppointmentStatus][]AppointmentStatus{
	AppointmentStatusPending: {AppointmentStatusCompleted, AppointmentStatusCancelled},
}

// ActiveAppointmentStatuses hold a reservation on their slot.
var ActiveAppointmentStatuses = []AppointmentStatus{
	AppointmentStatusPending,
	AppointmentStatusCompleted,
}

func (s AppointmentStatus) Valid() bool {
	for _, status := range appointmentStatuses {
		if s == status {
			return true
		}
	}
	return false
}

func (s AppointmentStatus) IsActive() bool {
	return s == AppointmentStatusPending || s == AppointmentStatusCompleted
}

func (s AppointmentStatus) IsTerminal() bool {
	return s.Valid() && len(appointmentTransitions[s]) == 0
}

func (s AppointmentStatus) CanTransitionTo(to AppointmentStatus) bool {
	for _, allowed := range appointmentTransitions[s] {
		if allowed == to {
			return true
		}
	}
	return false
}

// TransitionSources lists every status that may legally move to `to`,
// in declaration order.
func TransitionSources(to AppointmentStatus) []AppointmentStatus {
	var sources []AppointmentStatus
	for _, from := range appointmentStatuses {
		if from.CanTransitionTo(to) {
			sources = append(sources, from)
		}
	}
	return sources
}

// Appointment is a patient's reservation of one doctor time slot
type Appointment struct {
	ID              uuid.UUID         `gorm:"type:uuid;primaryKey" json:"id"`
	PatientID       uuid.UUID         `gorm:"type:uuid;not null;index" json:"patient_id"`
	DoctorID        int64             `gorm:"not null" json:"doctor_id"`
	AppointmentDate Date              `gorm:"type:date;not null" json:"appointment_date"`
	TimeSlot        TimeSlot          `gorm:"type:varchar(5);not null" json:"time_slot"`
	Note            string            `gorm:"type:text" json:"note,omitempty"`
	Status          AppointmentStatus `gorm:"type:varchar(20);not null" json:"status"`
	CreatedAt       time.Time         `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time         `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	Doctor *Doctor `gorm:"foreignKey:DoctorID" json:"doctor,omitempty"`
}

func (Appointment) TableName() string {
	return "appointments"
}

// ScheduledAt returns the start moment of the appointment in loc
func (a *Appointment) ScheduledAt(loc *time.Location) time.Time {
	return a.TimeSlot.At(a.AppointmentDate, loc)
}

func (a *Appointment) IsOwnedBy(patientID uuid.UUID) bool {
	return a.PatientID == patientID
}

func (a *Appointment) IsPending() bool {
	return a.Status == AppointmentStatusPending
}

func (a *Appointment) IsCancelled() bool {
	return a.Status == AppointmentStatusCancelled
}
