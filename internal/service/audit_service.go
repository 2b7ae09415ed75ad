package service

import (
	"context"

	"hospital-booking/internal/domain/entity"
	"hospital-booking/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// AuditEntry is one change to a booking record. Actor is nil for changes
// made by the completion worker.
type AuditEntry struct {
	Actor    *uuid.UUID
	Action   string
	Entity   string
	EntityID string
	Before   interface{}
	After    interface{}
}

func (e AuditEntry) metadata() entity.JSON {
	metadata := entity.JSON{
		"entity":    e.Entity,
		"entity_id": e.EntityID,
		"after":     e.After,
	}
	if e.Before != nil {
		metadata["before"] = e.Before
	}
	return metadata
}

// AuditService appends to the audit trail. Record must run on the same
// transaction as the change it describes so a rolled back booking leaves no
// entry behind.
type AuditService interface {
	Record(ctx context.Context, tx *gorm.DB, entry AuditEntry) error
}

type auditService struct {
	log       *logrus.Logger
	auditRepo repository.AuditLogRepository
}

func NewAuditService(log *logrus.Logger, auditRepo repository.AuditLogRepository) AuditService {
	return &auditService{
		log:       log,
		auditRepo: auditRepo,
	}
}

func (s *auditService) Record(ctx context.Context, tx *gorm.DB, entry AuditEntry) error {
	auditLog := &entity.AuditLog{
		UserID:   entry.Actor,
		Action:   entry.Action,
		Metadata: entry.metadata(),
	}

	if err := s.auditRepo.Create(tx, auditLog); err != nil {
		s.log.WithFields(logrus.Fields{
			"action":    entry.Action,
			"entity":    entry.Entity,
			"entity_id": entry.EntityID,
		}).Warnf("Failed to record audit entry: %+v", err)
		return err
	}

	return nil
}
