package dto

import (
	"time"

	"hospital-booking/internal/domain/entity"

	"github.com/google/uuid"
)

// Request DTOs

type CreateAppointmentRequest struct {
	DoctorID int64  `json:"doctor_id" validate:"required,gt=0"`
	Date     string `json:"date" validate:"required,date"`
	Time     string `json:"time" validate:"required,timeslot"`
	Notes    string `json:"notes" validate:"omitempty"`
}

type RescheduleAppointmentRequest struct {
	Date string `json:"date" validate:"required,date"`
	Time string `json:"time" validate:"required,timeslot"`
}

// Response DTOs

type AppointmentResponse struct {
	ID              uuid.UUID                `json:"id"`
	PatientID       uuid.UUID                `json:"patient_id"`
	DoctorID        int64                    `json:"doctor_id"`
	DoctorName      string                   `json:"doctor_name,omitempty"`
	DoctorSpecialty string                   `json:"specialty,omitempty"`
	Date            entity.Date              `json:"date"`
	Time            entity.TimeSlot          `json:"time"`
	TimeLabel       string                   `json:"time_label"`
	Notes           string                   `json:"notes,omitempty"`
	Status          entity.AppointmentStatus `json:"status"`
	CreatedAt       time.Time                `json:"created_at"`
	UpdatedAt       time.Time                `json:"updated_at"`
}

type AppointmentListResponse struct {
	Appointments []AppointmentResponse `json:"appointments"`
	Total        int                   `json:"total"`
}

type CancelAppointmentResponse struct {
	Appointment     AppointmentResponse `json:"appointment"`
	RefundRequested bool                `json:"refund_requested"`
}

type RescheduleAppointmentResponse struct {
	Previous    AppointmentResponse `json:"previous"`
	Appointment AppointmentResponse `json:"appointment"`
}

type AvailableSlotsResponse struct {
	DoctorID int64             `json:"doctor_id"`
	Date     entity.Date       `json:"date"`
	Slots    []entity.TimeSlot `json:"slots"`
	Labels   []string          `json:"labels"`
}
