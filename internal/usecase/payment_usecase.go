package usecase

import (
	"context"
	"errors"

	"hospital-booking/internal/converter"
	"hospital-booking/internal/delivery/dto"
	"hospital-booking/internal/delivery/http/middleware"
	"hospital-booking/internal/domain/repository"
	"hospital-booking/internal/infrastructure/database"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

var (
	ErrPaymentNotFound = errors.New("payment not found")
)

type PaymentUsecase interface {
	GetMyPayments(ctx context.Context) (*dto.PaymentListResponse, error)
	GetPaymentByAppointment(ctx context.Context, appointmentID uuid.UUID) (*dto.PaymentResponse, error)
}

type paymentUsecase struct {
	db              database.Transactor
	log             *logrus.Logger
	paymentRepo     repository.PaymentRepository
	appointmentRepo repository.AppointmentRepository
}

func NewPaymentUsecase(
	db database.Transactor,
	log *logrus.Logger,
	paymentRepo repository.PaymentRepository,
	appointmentRepo repository.AppointmentRepository,
) PaymentUsecase {
	return &paymentUsecase{
		db:              db,
		log:             log,
		paymentRepo:     paymentRepo,
		appointmentRepo: appointmentRepo,
	}
}

func (u *paymentUsecase) GetMyPayments(ctx context.Context) (*dto.PaymentListResponse, error) {
	patientID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		return nil, ErrUnauthenticated
	}

	payments, err := u.paymentRepo.FindByPatientID(u.db.Conn(ctx), patientID)
	if err != nil {
		return nil, storageError(u.log, "find payments for patient "+patientID.String(), err, false)
	}

	return &dto.PaymentListResponse{
		Payments: converter.PaymentsToResponses(payments),
		Total:    len(payments),
	}, nil
}

// GetPaymentByAppointment returns the payment of one of the patient's
// appointments. Ownership is checked on the appointment.
func (u *paymentUsecase) GetPaymentByAppointment(ctx context.Context, appointmentID uuid.UUID) (*dto.PaymentResponse, error) {
	patientID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		return nil, ErrUnauthenticated
	}

	appointment, err := u.appointmentRepo.FindByID(u.db.Conn(ctx), appointmentID)
	if err != nil {
		return nil, storageError(u.log, "find appointment "+appointmentID.String(), err, false)
	}
	if appointment == nil {
		return nil, ErrAppointmentNotFound
	}
	if !appointment.IsOwnedBy(patientID) {
		return nil, ErrAppointmentNotOwned
	}

	payment, err := u.paymentRepo.FindByAppointmentID(u.db.Conn(ctx), appointmentID)
	if err != nil {
		return nil, storageError(u.log, "find payment for appointment "+appointmentID.String(), err, false)
	}
	if payment == nil {
		return nil, ErrPaymentNotFound
	}

	return converter.PaymentToResponse(payment), nil
}
