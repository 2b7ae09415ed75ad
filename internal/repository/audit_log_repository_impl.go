package repository

import (
	"errors"

	"hospital-booking/internal/domain/entity"
	domainRepo "hospital-booking/internal/domain/repository"

	"gorm.io/gorm"
)

const (
	defaultAuditLogLimit = 100
	maxAuditLogLimit     = 500
)

type auditLogRepository struct{}

func NewAuditLogRepository() domainRepo.AuditLogRepository {
	return &auditLogRepository{}
}

func (r *auditLogRepository) Create(db *gorm.DB, log *entity.AuditLog) error {
	return db.Create(log).Error
}

func (r *auditLogRepository) FindAll(db *gorm.DB, filter *entity.AuditLogFilter) ([]entity.AuditLog, error) {
	var logs []entity.AuditLog
	limit := defaultAuditLogLimit
	query := db.Model(&entity.AuditLog{})

	if filter != nil {
		if filter.Action != "" {
			query = query.Where("action = ?", filter.Action)
		}
		if filter.UserID != nil {
			query = query.Where("user_id = ?", *filter.UserID)
		}
		if !filter.From.IsZero() {
			query = query.Where("created_at >= ?", filter.From)
		}
		if !filter.To.IsZero() {
			query = query.Where("created_at < ?", filter.To.AddDays(1))
		}
		if filter.Limit > 0 {
			limit = filter.Limit
		}
	}
	if limit > maxAuditLogLimit {
		limit = maxAuditLogLimit
	}

	err := query.Order("created_at DESC, id DESC").Limit(limit).Find(&logs).Error
	if err != nil {
		return nil, err
	}
	return logs, nil
}

func (r *auditLogRepository) FindByID(db *gorm.DB, id int64) (*entity.AuditLog, error) {
	var log entity.AuditLog
	err := db.Where("id = ?", id).First(&log).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &log, nil
}
