package repository

import (
	"hospital-booking/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PaymentRepository interface {
	FindByAppointmentID(db *gorm.DB, appointmentID uuid.UUID) (*entity.Payment, error)
	FindByPatientID(db *gorm.DB, patientID uuid.UUID) ([]entity.Payment, error)
	MoveToAppointment(db *gorm.DB, fromAppointmentID, toAppointmentID uuid.UUID) (bool, error)
	RequestRefund(db *gorm.DB, appointmentID uuid.UUID) (bool, error)
}
