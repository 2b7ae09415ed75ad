package handler

import (
	"errors"
	"net/http"
	"strconv"

	"hospital-booking/internal/delivery/dto"
	"hospital-booking/internal/usecase"
	"hospital-booking/pkg/response"
	"hospital-booking/pkg/validator"

	"github.com/gorilla/mux"
)

type AuditLogHandler struct {
	auditLogUsecase usecase.AuditLogUsecase
	validator       *validator.CustomValidator
}

func NewAuditLogHandler(auditLogUsecase usecase.AuditLogUsecase, validator *validator.CustomValidator) *AuditLogHandler {
	return &AuditLogHandler{
		auditLogUsecase: auditLogUsecase,
		validator:       validator,
	}
}

func (h *AuditLogHandler) GetAuditLog(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	auditLogID, err := strconv.ParseInt(vars["id"], 10, 64)
	if err != nil {
		response.BadRequest(w, "Invalid audit log ID")
		return
	}

	auditLog, err := h.auditLogUsecase.GetAuditLog(r.Context(), auditLogID)
	if err != nil {
		if errors.Is(err, usecase.ErrAuditLogNotFound) {
			response.NotFound(w, "Audit log not found")
			return
		}
		writeError(w, err, "Failed to get audit log")
		return
	}

	response.Success(w, http.StatusOK, "Audit log retrieved successfully", auditLog)
}

// GetAllAuditLogs supports ?action=&user_id=&from=&to=&limit=
func (h *AuditLogHandler) GetAllAuditLogs(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	req := dto.AuditLogFilterRequest{
		Action: query.Get("action"),
		UserID: query.Get("user_id"),
		From:   query.Get("from"),
		To:     query.Get("to"),
	}
	if limit := query.Get("limit"); limit != "" {
		value, err := strconv.Atoi(limit)
		if err != nil {
			response.BadRequest(w, "Invalid limit")
			return
		}
		req.Limit = value
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	auditLogs, err := h.auditLogUsecase.GetAllAuditLogs(r.Context(), &req)
	if err != nil {
		writeError(w, err, "Failed to get audit logs")
		return
	}

	response.Success(w, http.StatusOK, "Audit logs retrieved successfully", auditLogs)
}
