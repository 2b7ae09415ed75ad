package converter

import (
	"hospital-booking/internal/delivery/dto"
	"hospital-booking/internal/domain/entity"
)

// AuditLogToResponse always yields an object for metadata. Rows written
// without metadata scan back as nil and would otherwise render as null.
func AuditLogToResponse(auditLog *entity.AuditLog) *dto.AuditLogResponse {
	if auditLog == nil {
		return nil
	}

	metadata := auditLog.Metadata
	if metadata == nil {
		metadata = entity.JSON{}
	}

	return &dto.AuditLogResponse{
		ID:        auditLog.ID,
		UserID:    auditLog.UserID,
		Action:    auditLog.Action,
		Metadata:  metadata,
		CreatedAt: auditLog.CreatedAt,
	}
}

func AuditLogsToResponses(auditLogs []entity.AuditLog) []dto.AuditLogResponse {
	responses := make([]dto.AuditLogResponse, 0, len(auditLogs))
	for i := range auditLogs {
		responses = append(responses, *AuditLogToResponse(&auditLogs[i]))
	}
	return responses
}
