package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"hospital-booking/internal/delivery/dto"
	"hospital-booking/internal/usecase"
	"hospital-booking/pkg/response"
	"hospital-booking/pkg/validator"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

type AppointmentHandler struct {
	appointmentUsecase  usecase.AppointmentUsecase
	availabilityUsecase usecase.AvailabilityUsecase
	validator           *validator.CustomValidator
}

func NewAppointmentHandler(
	appointmentUsecase usecase.AppointmentUsecase,
	availabilityUsecase usecase.AvailabilityUsecase,
	validator *validator.CustomValidator,
) *AppointmentHandler {
	return &AppointmentHandler{
		appointmentUsecase:  appointmentUsecase,
		availabilityUsecase: availabilityUsecase,
		validator:           validator,
	}
}

// GetAvailableSlots serves both /appointments/timeslots?doctor_id= and
// /doctors/{id}/available-slots.
func (h *AppointmentHandler) GetAvailableSlots(w http.ResponseWriter, r *http.Request) {
	rawDoctorID := mux.Vars(r)["id"]
	if rawDoctorID == "" {
		rawDoctorID = r.URL.Query().Get("doctor_id")
	}

	var doctorID int64
	if rawDoctorID != "" {
		id, err := strconv.ParseInt(rawDoctorID, 10, 64)
		if err != nil {
			response.BadRequest(w, "Invalid doctor ID")
			return
		}
		doctorID = id
	}

	slots, err := h.availabilityUsecase.GetAvailableSlots(r.Context(), doctorID, r.URL.Query().Get("date"))
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrDoctorNotFound):
			response.NotFound(w, "Doctor not found")
		default:
			writeError(w, err, "Failed to get available slots")
		}
		return
	}

	response.Success(w, http.StatusOK, "Available slots retrieved successfully", slots)
}

func (h *AppointmentHandler) CreateAppointment(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateAppointmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	appointment, err := h.appointmentUsecase.CreateAppointment(r.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrDoctorNotFound):
			response.NotFound(w, "Doctor not found")
		case errors.Is(err, usecase.ErrSlotUnavailable):
			response.Conflict(w, "This time slot is no longer available, please pick another one")
		default:
			writeError(w, err, "Failed to create appointment")
		}
		return
	}

	response.Success(w, http.StatusCreated, "Appointment created successfully", appointment)
}

func (h *AppointmentHandler) GetMyAppointments(w http.ResponseWriter, r *http.Request) {
	appointments, err := h.appointmentUsecase.GetMyAppointments(r.Context())
	if err != nil {
		writeError(w, err, "Failed to get appointments")
		return
	}

	response.Success(w, http.StatusOK, "Appointments retrieved successfully", appointments)
}

func (h *AppointmentHandler) GetUpcomingAppointments(w http.ResponseWriter, r *http.Request) {
	limit, ok := queryInt(w, r, "limit")
	if !ok {
		return
	}

	appointments, err := h.appointmentUsecase.GetUpcomingAppointments(r.Context(), limit)
	if err != nil {
		writeError(w, err, "Failed to get upcoming appointments")
		return
	}

	response.Success(w, http.StatusOK, "Upcoming appointments retrieved successfully", appointments)
}

func (h *AppointmentHandler) GetAppointment(w http.ResponseWriter, r *http.Request) {
	appointmentID, ok := pathUUID(w, r, "Invalid appointment ID")
	if !ok {
		return
	}

	appointment, err := h.appointmentUsecase.GetAppointment(r.Context(), appointmentID)
	if err != nil {
		if !writeAppointmentError(w, err) {
			writeError(w, err, "Failed to get appointment")
		}
		return
	}

	response.Success(w, http.StatusOK, "Appointment retrieved successfully", appointment)
}

func (h *AppointmentHandler) CancelAppointment(w http.ResponseWriter, r *http.Request) {
	appointmentID, ok := pathUUID(w, r, "Invalid appointment ID")
	if !ok {
		return
	}

	result, err := h.appointmentUsecase.CancelAppointment(r.Context(), appointmentID)
	if err != nil {
		if !writeAppointmentError(w, err) {
			writeError(w, err, "Failed to cancel appointment")
		}
		return
	}

	response.Success(w, http.StatusOK, "Appointment cancelled successfully", result)
}

func (h *AppointmentHandler) RescheduleAppointment(w http.ResponseWriter, r *http.Request) {
	appointmentID, ok := pathUUID(w, r, "Invalid appointment ID")
	if !ok {
		return
	}

	var req dto.RescheduleAppointmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	result, err := h.appointmentUsecase.RescheduleAppointment(r.Context(), appointmentID, &req)
	if err != nil {
		if errors.Is(err, usecase.ErrSlotUnavailable) {
			response.Conflict(w, "This time slot is no longer available, please pick another one")
			return
		}
		if !writeAppointmentError(w, err) {
			writeError(w, err, "Failed to reschedule appointment")
		}
		return
	}

	response.Success(w, http.StatusOK, "Appointment rescheduled successfully", result)
}

// writeAppointmentError answers the lookup, ownership and state errors of a
// single appointment. It reports whether err was one of them.
func writeAppointmentError(w http.ResponseWriter, err error) bool {
	switch {
	case errors.Is(err, usecase.ErrAppointmentNotFound):
		response.NotFound(w, "Appointment not found")
	case errors.Is(err, usecase.ErrAppointmentNotOwned):
		response.Forbidden(w, "Appointment does not belong to you")
	case errors.Is(err, usecase.ErrAppointmentPast):
		response.BadRequest(w, "Appointment time has already passed")
	case errors.Is(err, usecase.ErrAlreadyCancelled):
		response.Conflict(w, "Appointment is already cancelled")
	case errors.Is(err, usecase.ErrInvalidTransition):
		response.Conflict(w, "Appointment can no longer be changed")
	default:
		return false
	}
	return true
}

func pathUUID(w http.ResponseWriter, r *http.Request, message string) (uuid.UUID, bool) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		response.BadRequest(w, message)
		return uuid.Nil, false
	}
	return id, true
}

func pathInt64(w http.ResponseWriter, r *http.Request, message string) (int64, bool) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil || id <= 0 {
		response.BadRequest(w, message)
		return 0, false
	}
	return id, true
}

// queryInt reads an optional integer query parameter; absent means 0.
func queryInt(w http.ResponseWriter, r *http.Request, name string) (int, bool) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, true
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value < 0 {
		response.BadRequest(w, "Invalid "+name)
		return 0, false
	}
	return value, true
}
