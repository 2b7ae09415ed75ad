package usecase

import (
	"context"
	"errors"

	"hospital-booking/internal/converter"
	"hospital-booking/internal/delivery/dto"
	"hospital-booking/internal/domain/entity"
	"hospital-booking/internal/domain/repository"
	"hospital-booking/internal/infrastructure/database"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

var (
	ErrAuditLogNotFound = errors.New("audit log not found")
)

type AuditLogUsecase interface {
	GetAllAuditLogs(ctx context.Context, req *dto.AuditLogFilterRequest) (*dto.AuditLogListResponse, error)
	GetAuditLog(ctx context.Context, id int64) (*dto.AuditLogResponse, error)
}

type auditLogUsecase struct {
	db           database.Transactor
	log          *logrus.Logger
	auditLogRepo repository.AuditLogRepository
}

func NewAuditLogUsecase(
	db database.Transactor,
	log *logrus.Logger,
	auditLogRepo repository.AuditLogRepository,
) AuditLogUsecase {
	return &auditLogUsecase{
		db:           db,
		log:          log,
		auditLogRepo: auditLogRepo,
	}
}

func (u *auditLogUsecase) GetAllAuditLogs(ctx context.Context, req *dto.AuditLogFilterRequest) (*dto.AuditLogListResponse, error) {
	filter, err := toAuditLogFilter(req)
	if err != nil {
		return nil, err
	}

	logs, err := u.auditLogRepo.FindAll(u.db.Conn(ctx), filter)
	if err != nil {
		return nil, storageError(u.log, "find audit logs", err, false)
	}

	return &dto.AuditLogListResponse{
		Logs:  converter.AuditLogsToResponses(logs),
		Total: len(logs),
	}, nil
}

func (u *auditLogUsecase) GetAuditLog(ctx context.Context, id int64) (*dto.AuditLogResponse, error) {
	auditLog, err := u.auditLogRepo.FindByID(u.db.Conn(ctx), id)
	if err != nil {
		return nil, storageError(u.log, "find audit log", err, false)
	}
	if auditLog == nil {
		return nil, ErrAuditLogNotFound
	}

	return converter.AuditLogToResponse(auditLog), nil
}

func toAuditLogFilter(req *dto.AuditLogFilterRequest) (*entity.AuditLogFilter, error) {
	filter := &entity.AuditLogFilter{}
	if req == nil {
		return filter, nil
	}

	filter.Action = req.Action
	filter.Limit = req.Limit

	if req.UserID != "" {
		userID, err := uuid.Parse(req.UserID)
		if err != nil {
			return nil, ErrInvalidUserID
		}
		filter.UserID = &userID
	}
	if req.From != "" {
		from, err := entity.ParseDate(req.From)
		if err != nil {
			return nil, ErrInvalidDate
		}
		filter.From = from
	}
	if req.To != "" {
		to, err := entity.ParseDate(req.To)
		if err != nil {
			return nil, ErrInvalidDate
		}
		filter.To = to
	}
	if !filter.From.IsZero() && !filter.To.IsZero() && filter.To.Before(filter.From) {
		return nil, ErrInvalidDateRange
	}

	return filter, nil
}
