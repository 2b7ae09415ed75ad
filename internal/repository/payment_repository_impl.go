package repository

import (
	"errors"

	"hospital-booking/internal/domain/entity"
	domainRepo "hospital-booking/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type paymentRepository struct{}

func NewPaymentRepository() domainRepo.PaymentRepository {
	return &paymentRepository{}
}

func (r *paymentRepository) FindByAppointmentID(db *gorm.DB, appointmentID uuid.UUID) (*entity.Payment, error) {
	var payment entity.Payment
	err := db.Where("appointment_id = ?", appointmentID).First(&payment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &payment, nil
}

func (r *paymentRepository) FindByPatientID(db *gorm.DB, patientID uuid.UUID) ([]entity.Payment, error) {
	var payments []entity.Payment
	err := db.Joins("JOIN appointments ON appointments.id = payments.appointment_id").
		Where("appointments.patient_id = ?", patientID).
		Order("payments.created_at DESC").
		Find(&payments).Error
	if err != nil {
		return nil, err
	}
	return payments, nil
}

// MoveToAppointment re-points a payment at the appointment that replaced it.
func (r *paymentRepository) MoveToAppointment(db *gorm.DB, fromAppointmentID, toAppointmentID uuid.UUID) (bool, error) {
	result := db.Model(&entity.Payment{}).
		Where("appointment_id = ?", fromAppointmentID).
		Update("appointment_id", toAppointmentID)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// RequestRefund flags a completed payment for refund.
// Returns false when there is no completed payment for the appointment.
func (r *paymentRepository) RequestRefund(db *gorm.DB, appointmentID uuid.UUID) (bool, error) {
	result := db.Model(&entity.Payment{}).
		Where("appointment_id = ? AND status = ?", appointmentID, entity.PaymentStatusCompleted).
		Update("status", entity.PaymentStatusRefundRequested)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
