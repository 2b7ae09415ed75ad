package entity

import "github.com/google/uuid"

// AuditLogFilter is a domain-level filter for querying audit logs.
// Used by repository layer to avoid coupling with delivery DTOs.
type AuditLogFilter struct {
	Action string     // Exact action, e.g. appointment.cancel
	UserID *uuid.UUID // Actor
	From   Date       // Inclusive, by created_at day
	To     Date       // Inclusive, by created_at day
	Limit  int        // 0 means the repository default
}
