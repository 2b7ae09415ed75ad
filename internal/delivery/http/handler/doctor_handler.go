package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"hospital-booking/internal/delivery/dto"
	"hospital-booking/internal/usecase"
	"hospital-booking/pkg/response"
	"hospital-booking/pkg/validator"

	"github.com/gorilla/mux"
)

type DoctorHandler struct {
	doctorUsecase usecase.DoctorUsecase
	validator     *validator.CustomValidator
}

func NewDoctorHandler(doctorUsecase usecase.DoctorUsecase, validator *validator.CustomValidator) *DoctorHandler {
	return &DoctorHandler{
		doctorUsecase: doctorUsecase,
		validator:     validator,
	}
}

func (h *DoctorHandler) GetAllDoctors(w http.ResponseWriter, r *http.Request) {
	doctors, err := h.doctorUsecase.GetAllDoctors(r.Context(), r.URL.Query().Get("specialty"))
	if err != nil {
		writeError(w, err, "Failed to get doctors")
		return
	}

	response.Success(w, http.StatusOK, "Doctors retrieved successfully", doctors)
}

func (h *DoctorHandler) GetDoctorsBySpecialty(w http.ResponseWriter, r *http.Request) {
	doctors, err := h.doctorUsecase.GetAllDoctors(r.Context(), mux.Vars(r)["specialty"])
	if err != nil {
		writeError(w, err, "Failed to get doctors")
		return
	}

	response.Success(w, http.StatusOK, "Doctors retrieved successfully", doctors)
}

func (h *DoctorHandler) GetDoctor(w http.ResponseWriter, r *http.Request) {
	doctorID, ok := pathInt64(w, r, "Invalid doctor ID")
	if !ok {
		return
	}

	doctor, err := h.doctorUsecase.GetDoctor(r.Context(), doctorID)
	if err != nil {
		if errors.Is(err, usecase.ErrDoctorNotFound) {
			response.NotFound(w, "Doctor not found")
			return
		}
		writeError(w, err, "Failed to get doctor")
		return
	}

	response.Success(w, http.StatusOK, "Doctor retrieved successfully", doctor)
}

func (h *DoctorHandler) SearchDoctors(w http.ResponseWriter, r *http.Request) {
	doctors, err := h.doctorUsecase.SearchDoctors(r.Context(), r.URL.Query().Get("query"))
	if err != nil {
		writeError(w, err, "Failed to search doctors")
		return
	}

	response.Success(w, http.StatusOK, "Doctors retrieved successfully", doctors)
}

func (h *DoctorHandler) GetTopRatedDoctors(w http.ResponseWriter, r *http.Request) {
	limit, ok := queryInt(w, r, "limit")
	if !ok {
		return
	}

	doctors, err := h.doctorUsecase.GetTopRatedDoctors(r.Context(), limit)
	if err != nil {
		writeError(w, err, "Failed to get top rated doctors")
		return
	}

	response.Success(w, http.StatusOK, "Doctors retrieved successfully", doctors)
}

func (h *DoctorHandler) GetSpecialties(w http.ResponseWriter, r *http.Request) {
	specialties, err := h.doctorUsecase.GetSpecialties(r.Context())
	if err != nil {
		writeError(w, err, "Failed to get specialties")
		return
	}

	response.Success(w, http.StatusOK, "Specialties retrieved successfully", specialties)
}

func (h *DoctorHandler) RateDoctor(w http.ResponseWriter, r *http.Request) {
	doctorID, ok := pathInt64(w, r, "Invalid doctor ID")
	if !ok {
		return
	}

	var req dto.RateDoctorRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	doctor, err := h.doctorUsecase.RateDoctor(r.Context(), doctorID, &req)
	if err != nil {
		if errors.Is(err, usecase.ErrDoctorNotFound) {
			response.NotFound(w, "Doctor not found")
			return
		}
		writeError(w, err, "Failed to rate doctor")
		return
	}

	response.Success(w, http.StatusOK, "Rating submitted successfully", doctor)
}
