package usecase

import (
	"context"
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"hospital-booking/internal/converter"
	"hospital-booking/internal/delivery/dto"
	"hospital-booking/internal/delivery/http/middleware"
	"hospital-booking/internal/domain/entity"
	"hospital-booking/internal/domain/repository"
	"hospital-booking/internal/infrastructure/database"
	"hospital-booking/internal/service"
	"hospital-booking/pkg/metrics"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	ErrUnauthenticated     = errors.New("user not found in context")
	ErrAppointmentNotFound = errors.New("appointment not found")
	ErrAppointmentNotOwned = errors.New("appointment does not belong to you")
	ErrSlotUnavailable     = errors.New("time slot is no longer available")
	ErrAppointmentPast     = errors.New("appointment time has already passed")
	ErrAlreadyCancelled    = errors.New("appointment is already cancelled")
	ErrInvalidTransition   = errors.New("appointment can no longer be changed")
)

const (
	defaultUpcomingLimit = 5
	maxUpcomingLimit     = 50

	sideEffectTimeout = 5 * time.Second
)

type AppointmentUsecase interface {
	CreateAppointment(ctx context.Context, req *dto.CreateAppointmentRequest) (*dto.AppointmentResponse, error)
	GetMyAppointments(ctx context.Context) (*dto.AppointmentListResponse, error)
	GetUpcomingAppointments(ctx context.Context, limit int) (*dto.AppointmentListResponse, error)
	GetAppointment(ctx context.Context, id uuid.UUID) (*dto.AppointmentResponse, error)
	CancelAppointment(ctx context.Context, id uuid.UUID) (*dto.CancelAppointmentResponse, error)
	RescheduleAppointment(ctx context.Context, id uuid.UUID, req *dto.RescheduleAppointmentRequest) (*dto.RescheduleAppointmentResponse, error)
	CompleteElapsedAppointments(ctx context.Context) (int, error)
}

type appointmentUsecase struct {
	db              database.Transactor
	log             *logrus.Logger
	appointmentRepo repository.AppointmentRepository
	doctorRepo      repository.DoctorRepository
	paymentRepo     repository.PaymentRepository
	catalog         *service.SlotCatalog
	cache           service.AvailabilityCache
	auditService    service.AuditService
	metrics         *metrics.Collector
	noteMaxLength   int
	now             func() time.Time
}

func NewAppointmentUsecase(
	db database.Transactor,
	log *logrus.Logger,
	appointmentRepo repository.AppointmentRepository,
	doctorRepo repository.DoctorRepository,
	paymentRepo repository.PaymentRepository,
	catalog *service.SlotCatalog,
	cache service.AvailabilityCache,
	auditService service.AuditService,
	metrics *metrics.Collector,
	noteMaxLength int,
) AppointmentUsecase {
	return &appointmentUsecase{
		db:              db,
		log:             log,
		appointmentRepo: appointmentRepo,
		doctorRepo:      doctorRepo,
		paymentRepo:     paymentRepo,
		catalog:         catalog,
		cache:           cache,
		auditService:    auditService,
		metrics:         metrics,
		noteMaxLength:   noteMaxLength,
		now:             time.Now,
	}
}

// CreateAppointment reserves a slot for the logged-in patient.
//
// Flow:
// 1. Validate doctor, date, slot and notes before touching storage
// 2. Insert the appointment; the active-slot unique index decides races
// 3. Write the audit entry in the same transaction
// 4. Invalidate the cached availability of that doctor and day
func (u *appointmentUsecase) CreateAppointment(ctx context.Context, req *dto.CreateAppointmentRequest) (*dto.AppointmentResponse, error) {
	patientID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		return nil, ErrUnauthenticated
	}

	response, err := u.createAppointment(ctx, patientID, req)
	u.count(u.metrics.AppointmentsTotal, metrics.OutcomeCreated, err)
	return response, err
}

func (u *appointmentUsecase) createAppointment(ctx context.Context, patientID uuid.UUID, req *dto.CreateAppointmentRequest) (*dto.AppointmentResponse, error) {
	if req.DoctorID <= 0 {
		return nil, ErrMissingDoctorID
	}
	date, slot, err := u.parseTarget(req.Date, req.Time)
	if err != nil {
		return nil, err
	}
	notes := strings.TrimSpace(req.Notes)
	if u.noteMaxLength > 0 && utf8.RuneCountInString(notes) > u.noteMaxLength {
		return nil, ErrNotesTooLong
	}

	doctor, err := u.doctorRepo.FindByID(u.db.Conn(ctx), req.DoctorID)
	if err != nil {
		return nil, storageError(u.log, "find doctor", err, false)
	}
	if doctor == nil {
		return nil, ErrDoctorNotFound
	}

	appointment := &entity.Appointment{
		ID:              uuid.New(),
		PatientID:       patientID,
		DoctorID:        doctor.ID,
		AppointmentDate: date,
		TimeSlot:        slot,
		Note:            notes,
		Status:          entity.AppointmentStatusPending,
	}

	err = u.db.WithinTransaction(ctx, func(tx *gorm.DB) error {
		if err := u.appointmentRepo.Create(tx, appointment); err != nil {
			return err
		}
		return u.auditService.Record(ctx, tx, service.AuditEntry{
			Actor:    &patientID,
			Action:   entity.AuditActionAppointmentCreate,
			Entity:   "appointment",
			EntityID: appointment.ID.String(),
			After:    converter.AppointmentToResponse(appointment),
		})
	})
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrSlotConflict):
			return nil, ErrSlotUnavailable
		case errors.Is(err, repository.ErrUnknownDoctor):
			return nil, ErrDoctorNotFound
		default:
			return nil, storageError(u.log, "create appointment", err, true)
		}
	}

	u.invalidateAvailability(doctor.ID, date)

	appointment.Doctor = doctor
	u.log.Infof("Appointment created: id=%s, doctor=%d, date=%s, time=%s", appointment.ID, doctor.ID, date, slot)
	return converter.AppointmentToResponse(appointment), nil
}

// GetMyAppointments returns the patient's appointments, newest first
func (u *appointmentUsecase) GetMyAppointments(ctx context.Context) (*dto.AppointmentListResponse, error) {
	patientID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		return nil, ErrUnauthenticated
	}

	appointments, err := u.appointmentRepo.FindByPatientID(u.db.Conn(ctx), patientID)
	if err != nil {
		return nil, storageError(u.log, "find appointments for patient "+patientID.String(), err, false)
	}

	return &dto.AppointmentListResponse{
		Appointments: converter.AppointmentsToResponses(appointments),
		Total:        len(appointments),
	}, nil
}

// GetUpcomingAppointments returns pending appointments from today on, soonest first
func (u *appointmentUsecase) GetUpcomingAppointments(ctx context.Context, limit int) (*dto.AppointmentListResponse, error) {
	patientID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		return nil, ErrUnauthenticated
	}

	if limit <= 0 {
		limit = defaultUpcomingLimit
	}
	if limit > maxUpcomingLimit {
		limit = maxUpcomingLimit
	}

	now := u.now()
	appointments, err := u.appointmentRepo.FindUpcomingByPatientID(u.db.Conn(ctx), patientID, u.catalog.Today(now), limit)
	if err != nil {
		return nil, storageError(u.log, "find upcoming appointments for patient "+patientID.String(), err, false)
	}

	// Today's rows may already have started.
	upcoming := make([]entity.Appointment, 0, len(appointments))
	for _, appointment := range appointments {
		if u.catalog.IsPast(appointment.AppointmentDate, appointment.TimeSlot, now) {
			continue
		}
		upcoming = append(upcoming, appointment)
	}

	return &dto.AppointmentListResponse{
		Appointments: converter.AppointmentsToResponses(upcoming),
		Total:        len(upcoming),
	}, nil
}

func (u *appointmentUsecase) GetAppointment(ctx context.Context, id uuid.UUID) (*dto.AppointmentResponse, error) {
	patientID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		return nil, ErrUnauthenticated
	}

	appointment, err := u.appointmentRepo.FindByID(u.db.Conn(ctx), id)
	if err != nil {
		return nil, storageError(u.log, "find appointment "+id.String(), err, false)
	}
	if appointment == nil {
		return nil, ErrAppointmentNotFound
	}
	if !appointment.IsOwnedBy(patientID) {
		return nil, ErrAppointmentNotOwned
	}

	return converter.AppointmentToResponse(appointment), nil
}

// CancelAppointment releases the patient's future appointment. A completed
// payment for it is flagged for refund in the same transaction.
func (u *appointmentUsecase) CancelAppointment(ctx context.Context, id uuid.UUID) (*dto.CancelAppointmentResponse, error) {
	patientID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		return nil, ErrUnauthenticated
	}

	response, err := u.cancelAppointment(ctx, patientID, id)
	u.count(u.metrics.CancellationsTotal, metrics.OutcomeCancelled, err)
	return response, err
}

func (u *appointmentUsecase) cancelAppointment(ctx context.Context, patientID, id uuid.UUID) (*dto.CancelAppointmentResponse, error) {
	appointment, err := u.appointmentRepo.FindByID(u.db.Conn(ctx), id)
	if err != nil {
		return nil, storageError(u.log, "find appointment "+id.String(), err, false)
	}
	if err := u.checkChangeable(appointment, patientID); err != nil {
		return nil, err
	}

	var refundRequested bool
	err = u.db.WithinTransaction(ctx, func(tx *gorm.DB) error {
		found, err := u.appointmentRepo.UpdateStatus(tx, id, entity.AppointmentStatusCancelled)
		if err != nil {
			return err
		}
		if !found {
			return ErrAppointmentNotFound
		}

		refundRequested, err = u.paymentRepo.RequestRefund(tx, id)
		if err != nil {
			return err
		}

		oldValue := converter.AppointmentToResponse(appointment)
		newValue := *oldValue
		newValue.Status = entity.AppointmentStatusCancelled
		if err := u.auditService.Record(ctx, tx, service.AuditEntry{
			Actor:    &patientID,
			Action:   entity.AuditActionAppointmentCancel,
			Entity:   "appointment",
			EntityID: id.String(),
			Before:   oldValue,
			After:    newValue,
		}); err != nil {
			return err
		}
		if refundRequested {
			// Payments are keyed by appointment in the trail.
			return u.auditService.Record(ctx, tx, service.AuditEntry{
				Actor:    &patientID,
				Action:   entity.AuditActionPaymentRefundRequest,
				Entity:   "payment",
				EntityID: id.String(),
				Before:   entity.PaymentStatusCompleted,
				After:    entity.PaymentStatusRefundRequested,
			})
		}
		return nil
	})
	if err != nil {
		return nil, u.transitionError(ctx, id, "cancel appointment", err)
	}

	u.invalidateAvailability(appointment.DoctorID, appointment.AppointmentDate)

	appointment.Status = entity.AppointmentStatusCancelled
	u.log.Infof("Appointment cancelled: id=%s, refund_requested=%t", id, refundRequested)
	return &dto.CancelAppointmentResponse{
		Appointment:     *converter.AppointmentToResponse(appointment),
		RefundRequested: refundRequested,
	}, nil
}

// RescheduleAppointment cancels the appointment and books the new slot for
// the same doctor in one transaction. If the new slot is taken nothing
// changes. The payment follows the new appointment.
func (u *appointmentUsecase) RescheduleAppointment(ctx context.Context, id uuid.UUID, req *dto.RescheduleAppointmentRequest) (*dto.RescheduleAppointmentResponse, error) {
	patientID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		return nil, ErrUnauthenticated
	}

	response, err := u.rescheduleAppointment(ctx, patientID, id, req)
	u.count(u.metrics.ReschedulesTotal, metrics.OutcomeRescheduled, err)
	return response, err
}

func (u *appointmentUsecase) rescheduleAppointment(ctx context.Context, patientID, id uuid.UUID, req *dto.RescheduleAppointmentRequest) (*dto.RescheduleAppointmentResponse, error) {
	date, slot, err := u.parseTarget(req.Date, req.Time)
	if err != nil {
		return nil, err
	}

	var previous, replacement *entity.Appointment
	err = u.db.WithinTransaction(ctx, func(tx *gorm.DB) error {
		current, err := u.appointmentRepo.FindByIDForUpdate(tx, id)
		if err != nil {
			return err
		}
		if err := u.checkChangeable(current, patientID); err != nil {
			return err
		}
		if current.AppointmentDate.Equal(date) && current.TimeSlot == slot {
			return ErrSameSlot
		}

		if _, err := u.appointmentRepo.UpdateStatus(tx, id, entity.AppointmentStatusCancelled); err != nil {
			return err
		}

		next := &entity.Appointment{
			ID:              uuid.New(),
			PatientID:       patientID,
			DoctorID:        current.DoctorID,
			AppointmentDate: date,
			TimeSlot:        slot,
			Note:            current.Note,
			Status:          entity.AppointmentStatusPending,
		}
		if err := u.appointmentRepo.Create(tx, next); err != nil {
			return err
		}
		if _, err := u.paymentRepo.MoveToAppointment(tx, current.ID, next.ID); err != nil {
			return err
		}

		oldValue := converter.AppointmentToResponse(current)
		newValue := converter.AppointmentToResponse(next)
		if err := u.auditService.Record(ctx, tx, service.AuditEntry{
			Actor:    &patientID,
			Action:   entity.AuditActionAppointmentReschedule,
			Entity:   "appointment",
			EntityID: id.String(),
			Before:   oldValue,
			After:    newValue,
		}); err != nil {
			return err
		}

		current.Status = entity.AppointmentStatusCancelled
		next.Doctor = current.Doctor
		previous, replacement = current, next
		return nil
	})
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrSlotConflict):
			return nil, ErrSlotUnavailable
		case errors.Is(err, ErrValidation),
			errors.Is(err, ErrAppointmentNotFound),
			errors.Is(err, ErrAppointmentNotOwned),
			errors.Is(err, ErrAlreadyCancelled),
			errors.Is(err, ErrAppointmentPast),
			errors.Is(err, ErrInvalidTransition):
			return nil, err
		default:
			return nil, u.transitionError(ctx, id, "reschedule appointment", err)
		}
	}

	u.invalidateAvailability(previous.DoctorID, previous.AppointmentDate)
	if !previous.AppointmentDate.Equal(replacement.AppointmentDate) {
		u.invalidateAvailability(replacement.DoctorID, replacement.AppointmentDate)
	}

	u.log.Infof("Appointment rescheduled: id=%s -> %s, date=%s, time=%s", previous.ID, replacement.ID, date, slot)
	return &dto.RescheduleAppointmentResponse{
		Previous:    *converter.AppointmentToResponse(previous),
		Appointment: *converter.AppointmentToResponse(replacement),
	}, nil
}

// CompleteElapsedAppointments moves every pending appointment whose slot has
// run its full length to completed. It returns how many were moved.
func (u *appointmentUsecase) CompleteElapsedAppointments(ctx context.Context) (int, error) {
	today, cutoff := u.catalog.ElapsedCutoff(u.now())

	var completed []entity.Appointment
	err := u.db.WithinTransaction(ctx, func(tx *gorm.DB) error {
		var err error
		completed, err = u.appointmentRepo.CompleteElapsed(tx, today, cutoff)
		if err != nil {
			return err
		}
		if len(completed) == 0 {
			return nil
		}

		ids := make([]string, len(completed))
		for i := range completed {
			ids[i] = completed[i].ID.String()
		}
		return u.auditService.Record(ctx, tx, service.AuditEntry{
			Action:   entity.AuditActionAppointmentComplete,
			Entity:   "appointment",
			EntityID: "batch",
			Before:   entity.AppointmentStatusPending,
			After:    map[string]interface{}{"status": entity.AppointmentStatusCompleted, "ids": ids},
		})
	})
	if err != nil {
		return 0, storageError(u.log, "complete elapsed appointments", err, true)
	}

	// Completed rows keep their slot, so cached availability stays valid.
	u.metrics.CompletedTotal.Add(float64(len(completed)))
	return len(completed), nil
}

// parseTarget validates a requested date and slot against the catalog and
// the current time.
func (u *appointmentUsecase) parseTarget(dateStr, timeStr string) (entity.Date, entity.TimeSlot, error) {
	if dateStr == "" {
		return entity.Date{}, "", ErrMissingDate
	}
	date, err := entity.ParseDate(dateStr)
	if err != nil {
		return entity.Date{}, "", ErrInvalidDate
	}
	slot, err := entity.ParseTimeSlot(timeStr)
	if err != nil || !u.catalog.Contains(slot) {
		return entity.Date{}, "", ErrInvalidTimeSlot
	}
	if u.catalog.IsPast(date, slot, u.now()) {
		return entity.Date{}, "", ErrDateInPast
	}
	return date, slot, nil
}

// checkChangeable holds the rules shared by cancel and reschedule.
func (u *appointmentUsecase) checkChangeable(appointment *entity.Appointment, patientID uuid.UUID) error {
	if appointment == nil {
		return ErrAppointmentNotFound
	}
	if !appointment.IsOwnedBy(patientID) {
		return ErrAppointmentNotOwned
	}
	if appointment.IsCancelled() {
		return ErrAlreadyCancelled
	}
	if !appointment.IsPending() {
		return ErrInvalidTransition
	}
	if u.catalog.IsPast(appointment.AppointmentDate, appointment.TimeSlot, u.now()) {
		return ErrAppointmentPast
	}
	return nil
}

// transitionError maps a failed status change. When another request changed
// the status first, the current row decides which error the caller sees.
func (u *appointmentUsecase) transitionError(ctx context.Context, id uuid.UUID, op string, err error) error {
	if errors.Is(err, ErrAppointmentNotFound) {
		return err
	}
	if !errors.Is(err, entity.ErrInvalidTransition) {
		return storageError(u.log, op+" "+id.String(), err, true)
	}

	current, findErr := u.appointmentRepo.FindByID(u.db.Conn(ctx), id)
	if findErr != nil {
		return storageError(u.log, "find appointment "+id.String(), findErr, false)
	}
	if current != nil && current.IsCancelled() {
		return ErrAlreadyCancelled
	}
	return ErrInvalidTransition
}

// invalidateAvailability runs after commit on its own deadline, so a
// cancelled request still clears the cache. Failures only cost freshness
// until the entry expires.
func (u *appointmentUsecase) invalidateAvailability(doctorID int64, date entity.Date) {
	ctx, cancel := context.WithTimeout(context.Background(), sideEffectTimeout)
	defer cancel()

	if err := u.cache.Invalidate(ctx, doctorID, date); err != nil {
		u.log.Warnf("Failed to invalidate availability cache for doctor %d on %s: %+v", doctorID, date, err)
	}
}

func (u *appointmentUsecase) count(counter *prometheus.CounterVec, success string, err error) {
	counter.WithLabelValues(outcomeOf(success, err)).Inc()
}

func outcomeOf(success string, err error) string {
	switch {
	case err == nil:
		return success
	case errors.Is(err, ErrSlotUnavailable):
		return metrics.OutcomeSlotUnavailable
	case errors.Is(err, ErrValidation):
		return metrics.OutcomeValidation
	case errors.Is(err, ErrAppointmentNotFound), errors.Is(err, ErrDoctorNotFound):
		return metrics.OutcomeNotFound
	case errors.Is(err, ErrAppointmentNotOwned):
		return metrics.OutcomeForbidden
	case errors.Is(err, ErrAlreadyCancelled), errors.Is(err, ErrAppointmentPast), errors.Is(err, ErrInvalidTransition):
		return metrics.OutcomeRejected
	case errors.Is(err, ErrOutcomeUnknown):
		return metrics.OutcomeUnknown
	default:
		return metrics.OutcomeStorageError
	}
}
