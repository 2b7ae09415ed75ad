package service

import (
	"context"
	"errors"
	"testing"

	"hospital-booking/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"
)

type mockAuditLogRepository struct {
	mock.Mock
}

func (m *mockAuditLogRepository) Create(db *gorm.DB, log *entity.AuditLog) error {
	args := m.Called(db, log)
	return args.Error(0)
}

func (m *mockAuditLogRepository) FindAll(db *gorm.DB, filter *entity.AuditLogFilter) ([]entity.AuditLog, error) {
	args := m.Called(db, filter)
	return args.Get(0).([]entity.AuditLog), args.Error(1)
}

func (m *mockAuditLogRepository) FindByID(db *gorm.DB, id int64) (*entity.AuditLog, error) {
	args := m.Called(db, id)
	return args.Get(0).(*entity.AuditLog), args.Error(1)
}

func TestAuditService_Record(t *testing.T) {
	patientID := uuid.New()

	t.Run("state change keeps both sides", func(t *testing.T) {
		repo := new(mockAuditLogRepository)
		repo.On("Create", mock.Anything, mock.MatchedBy(func(log *entity.AuditLog) bool {
			return log.UserID != nil && *log.UserID == patientID &&
				log.Action == entity.AuditActionAppointmentCancel &&
				log.Metadata["entity"] == "appointment" &&
				log.Metadata["entity_id"] == "abc" &&
				log.Metadata["before"] == entity.AppointmentStatusPending &&
				log.Metadata["after"] == entity.AppointmentStatusCancelled
		})).Return(nil)

		err := NewAuditService(newTestLogger(), repo).Record(context.Background(), nil, AuditEntry{
			Actor:    &patientID,
			Action:   entity.AuditActionAppointmentCancel,
			Entity:   "appointment",
			EntityID: "abc",
			Before:   entity.AppointmentStatusPending,
			After:    entity.AppointmentStatusCancelled,
		})

		assert.NoError(t, err)
		repo.AssertExpectations(t)
	})

	t.Run("new record has no before", func(t *testing.T) {
		repo := new(mockAuditLogRepository)
		var written *entity.AuditLog
		repo.On("Create", mock.Anything, mock.Anything).
			Run(func(args mock.Arguments) { written = args.Get(1).(*entity.AuditLog) }).
			Return(nil)

		err := NewAuditService(newTestLogger(), repo).Record(context.Background(), nil, AuditEntry{
			Action:   entity.AuditActionAppointmentComplete,
			Entity:   "appointment",
			EntityID: "batch",
			After:    "done",
		})

		assert.NoError(t, err)
		assert.Nil(t, written.UserID)
		assert.NotContains(t, written.Metadata, "before")
		assert.Equal(t, "done", written.Metadata["after"])
	})

	t.Run("storage failure is returned", func(t *testing.T) {
		repo := new(mockAuditLogRepository)
		repo.On("Create", mock.Anything, mock.Anything).Return(errors.New("connection reset"))

		err := NewAuditService(newTestLogger(), repo).Record(context.Background(), nil, AuditEntry{
			Action: entity.AuditActionDoctorRate,
			Entity: "doctor",
		})

		assert.EqualError(t, err, "connection reset")
	})
}
