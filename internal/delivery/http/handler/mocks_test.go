package handler

import (
	"context"

	"hospital-booking/internal/delivery/dto"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type MockAppointmentUsecase struct {
	mock.Mock
}

func (m *MockAppointmentUsecase) CreateAppointment(ctx context.Context, req *dto.CreateAppointmentRequest) (*dto.AppointmentResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.AppointmentResponse), args.Error(1)
}

func (m *MockAppointmentUsecase) GetMyAppointments(ctx context.Context) (*dto.AppointmentListResponse, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.AppointmentListResponse), args.Error(1)
}

func (m *MockAppointmentUsecase) GetUpcomingAppointments(ctx context.Context, limit int) (*dto.AppointmentListResponse, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.AppointmentListResponse), args.Error(1)
}

func (m *MockAppointmentUsecase) GetAppointment(ctx context.Context, id uuid.UUID) (*dto.AppointmentResponse, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.AppointmentResponse), args.Error(1)
}

func (m *MockAppointmentUsecase) CancelAppointment(ctx context.Context, id uuid.UUID) (*dto.CancelAppointmentResponse, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.CancelAppointmentResponse), args.Error(1)
}

func (m *MockAppointmentUsecase) RescheduleAppointment(ctx context.Context, id uuid.UUID, req *dto.RescheduleAppointmentRequest) (*dto.RescheduleAppointmentResponse, error) {
	args := m.Called(ctx, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.RescheduleAppointmentResponse), args.Error(1)
}

func (m *MockAppointmentUsecase) CompleteElapsedAppointments(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

type MockAvailabilityUsecase struct {
	mock.Mock
}

func (m *MockAvailabilityUsecase) GetAvailableSlots(ctx context.Context, doctorID int64, date string) (*dto.AvailableSlotsResponse, error) {
	args := m.Called(ctx, doctorID, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.AvailableSlotsResponse), args.Error(1)
}

type MockDoctorUsecase struct {
	mock.Mock
}

func (m *MockDoctorUsecase) GetAllDoctors(ctx context.Context, specialty string) (*dto.DoctorListResponse, error) {
	args := m.Called(ctx, specialty)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.DoctorListResponse), args.Error(1)
}

func (m *MockDoctorUsecase) GetDoctor(ctx context.Context, doctorID int64) (*dto.DoctorResponse, error) {
	args := m.Called(ctx, doctorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.DoctorResponse), args.Error(1)
}

func (m *MockDoctorUsecase) SearchDoctors(ctx context.Context, query string) (*dto.DoctorListResponse, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.DoctorListResponse), args.Error(1)
}

func (m *MockDoctorUsecase) GetTopRatedDoctors(ctx context.Context, limit int) (*dto.DoctorListResponse, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.DoctorListResponse), args.Error(1)
}

func (m *MockDoctorUsecase) GetSpecialties(ctx context.Context) (*dto.SpecialtyListResponse, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.SpecialtyListResponse), args.Error(1)
}

func (m *MockDoctorUsecase) RateDoctor(ctx context.Context, doctorID int64, req *dto.RateDoctorRequest) (*dto.DoctorResponse, error) {
	args := m.Called(ctx, doctorID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.DoctorResponse), args.Error(1)
}

type MockPaymentUsecase struct {
	mock.Mock
}

func (m *MockPaymentUsecase) GetMyPayments(ctx context.Context) (*dto.PaymentListResponse, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.PaymentListResponse), args.Error(1)
}

func (m *MockPaymentUsecase) GetPaymentByAppointment(ctx context.Context, appointmentID uuid.UUID) (*dto.PaymentResponse, error) {
	args := m.Called(ctx, appointmentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.PaymentResponse), args.Error(1)
}

type MockAuditLogUsecase struct {
	mock.Mock
}

func (m *MockAuditLogUsecase) GetAllAuditLogs(ctx context.Context, req *dto.AuditLogFilterRequest) (*dto.AuditLogListResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.AuditLogListResponse), args.Error(1)
}

func (m *MockAuditLogUsecase) GetAuditLog(ctx context.Context, id int64) (*dto.AuditLogResponse, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.AuditLogResponse), args.Error(1)
}
