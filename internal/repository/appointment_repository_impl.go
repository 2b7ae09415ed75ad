package repository

import (
	"errors"

	"hospital-booking/internal/domain/entity"
	domainRepo "hospital-booking/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Partial unique index over (doctor_id, appointment_date, time_slot) for active rows.
const activeSlotConstraint = "ux_appointments_active_slot"

type appointmentRepository struct{}

func NewAppointmentRepository() domainRepo.AppointmentRepository {
	return &appointmentRepository{}
}

// Create inserts the appointment in a single statement. The partial unique
// index decides races between concurrent bookings of the same slot.
func (r *appointmentRepository) Create(db *gorm.DB, appointment *entity.Appointment) error {
	if appointment.ID == uuid.Nil {
		appointment.ID = uuid.New()
	}

	err := db.Omit(clause.Associations).Create(appointment).Error
	if err == nil {
		return nil
	}
	if isDuplicateKeyError(err, activeSlotConstraint) {
		return domainRepo.ErrSlotConflict
	}
	if isForeignKeyError(err, "doctor") {
		return domainRepo.ErrUnknownDoctor
	}
	return err
}

func (r *appointmentRepository) FindByID(db *gorm.DB, id uuid.UUID) (*entity.Appointment, error) {
	var appointment entity.Appointment
	err := db.Preload("Doctor").Where("id = ?", id).First(&appointment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &appointment, nil
}

// FindByIDForUpdate locks the row until the surrounding transaction ends.
// The doctor is preloaded in its own query, so only the appointment row is
// locked.
func (r *appointmentRepository) FindByIDForUpdate(db *gorm.DB, id uuid.UUID) (*entity.Appointment, error) {
	var appointment entity.Appointment
	err := db.Clauses(clause.Locking{Strength: "UPDATE"}).
		Preload("Doctor").
		Where("id = ?", id).
		First(&appointment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &appointment, nil
}

func (r *appointmentRepository) FindByPatientID(db *gorm.DB, patientID uuid.UUID) ([]entity.Appointment, error) {
	var appointments []entity.Appointment
	err := db.Preload("Doctor").
		Where("patient_id = ?", patientID).
		Order("appointment_date DESC, time_slot DESC").
		Find(&appointments).Error
	if err != nil {
		return nil, err
	}
	return appointments, nil
}

func (r *appointmentRepository) FindUpcomingByPatientID(db *gorm.DB, patientID uuid.UUID, from entity.Date, limit int) ([]entity.Appointment, error) {
	var appointments []entity.Appointment
	err := db.Preload("Doctor").
		Where("patient_id = ? AND status = ? AND appointment_date >= ?", patientID, entity.AppointmentStatusPending, from).
		Order("appointment_date ASC, time_slot ASC").
		Limit(limit).
		Find(&appointments).Error
	if err != nil {
		return nil, err
	}
	return appointments, nil
}

func (r *appointmentRepository) FindByDoctorAndDate(db *gorm.DB, doctorID int64, date entity.Date) ([]entity.Appointment, error) {
	var appointments []entity.Appointment
	err := db.Where("doctor_id = ? AND appointment_date = ?", doctorID, date).
		Order("time_slot ASC").
		Find(&appointments).Error
	if err != nil {
		return nil, err
	}
	return appointments, nil
}

// UpdateStatus moves the appointment to `to` only if its current status may
// legally transition there. found is false when no appointment has that id;
// entity.ErrInvalidTransition is returned when it exists but the move is illegal.
func (r *appointmentRepository) UpdateStatus(db *gorm.DB, id uuid.UUID, to entity.AppointmentStatus) (bool, error) {
	sources := entity.TransitionSources(to)
	if len(sources) > 0 {
		result := db.Model(&entity.Appointment{}).
			Where("id = ? AND status IN ?", id, sources).
			Update("status", to)
		if result.Error != nil {
			return false, result.Error
		}
		if result.RowsAffected > 0 {
			return true, nil
		}
	}

	var count int64
	if err := db.Model(&entity.Appointment{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, err
	}
	if count == 0 {
		return false, nil
	}
	return true, entity.ErrInvalidTransition
}

// CompleteElapsed marks pending appointments as completed when their slot
// started on or before cutoff on `today`, or on any earlier day. An empty
// cutoff only completes earlier days.
func (r *appointmentRepository) CompleteElapsed(db *gorm.DB, today entity.Date, cutoff entity.TimeSlot) ([]entity.Appointment, error) {
	var completed []entity.Appointment

	query := db.Model(&completed).Clauses(clause.Returning{})
	if cutoff == "" {
		query = query.Where("status = ? AND appointment_date < ?", entity.AppointmentStatusPending, today)
	} else {
		query = query.Where(
			"status = ? AND (appointment_date < ? OR (appointment_date = ? AND time_slot <= ?))",
			entity.AppointmentStatusPending, today, today, cutoff,
		)
	}

	if err := query.Update("status", entity.AppointmentStatusCompleted).Error; err != nil {
		return nil, err
	}
	return completed, nil
}
