package dto

import (
	"time"

	"hospital-booking/internal/domain/entity"

	"github.com/google/uuid"
)

// Request DTOs

// AuditLogFilterRequest is read from the query string
type AuditLogFilterRequest struct {
	Action string `json:"action" validate:"omitempty,max=100"`
	UserID string `json:"user_id" validate:"omitempty,uuid"`
	From   string `json:"from" validate:"omitempty,date"`
	To     string `json:"to" validate:"omitempty,date"`
	Limit  int    `json:"limit" validate:"omitempty,gte=1,lte=500"`
}

// Response DTOs

type AuditLogResponse struct {
	ID        int64       `json:"id"`
	UserID    *uuid.UUID  `json:"user_id,omitempty"`
	Action    string      `json:"action"`
	Metadata  entity.JSON `json:"metadata"`
	CreatedAt time.Time   `json:"created_at"`
}

type AuditLogListResponse struct {
	Logs  []AuditLogResponse `json:"logs"`
	Total int                `json:"total"`
}
