package repository

import (
	"errors"

	"hospital-booking/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ErrSlotConflict is returned by Create when an active appointment already
// holds the same doctor, date and time slot.
var ErrSlotConflict = errors.New("time slot already reserved")

// ErrUnknownDoctor is returned by Create when the doctor row does not exist.
var ErrUnknownDoctor = errors.New("doctor does not exist")

type AppointmentRepository interface {
	Create(db *gorm.DB, appointment *entity.Appointment) error
	FindByID(db *gorm.DB, id uuid.UUID) (*entity.Appointment, error)
	FindByIDForUpdate(db *gorm.DB, id uuid.UUID) (*entity.Appointment, error)
	FindByPatientID(db *gorm.DB, patientID uuid.UUID) ([]entity.Appointment, error)
	FindUpcomingByPatientID(db *gorm.DB, patientID uuid.UUID, from entity.Date, limit int) ([]entity.Appointment, error)
	FindByDoctorAndDate(db *gorm.DB, doctorID int64, date entity.Date) ([]entity.Appointment, error)
	UpdateStatus(db *gorm.DB, id uuid.UUID, to entity.AppointmentStatus) (bool, error)
	CompleteElapsed(db *gorm.DB, today entity.Date, cutoff entity.TimeSlot) ([]entity.Appointment, error)
}
