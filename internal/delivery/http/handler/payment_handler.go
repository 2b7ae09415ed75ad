package handler

import (
	"errors"
	"net/http"

	"hospital-booking/internal/usecase"
	"hospital-booking/pkg/response"
)

type PaymentHandler struct {
	paymentUsecase usecase.PaymentUsecase
}

func NewPaymentHandler(paymentUsecase usecase.PaymentUsecase) *PaymentHandler {
	return &PaymentHandler{
		paymentUsecase: paymentUsecase,
	}
}

func (h *PaymentHandler) GetMyPayments(w http.ResponseWriter, r *http.Request) {
	payments, err := h.paymentUsecase.GetMyPayments(r.Context())
	if err != nil {
		writeError(w, err, "Failed to get payments")
		return
	}

	response.Success(w, http.StatusOK, "Payments retrieved successfully", payments)
}

func (h *PaymentHandler) GetPaymentByAppointment(w http.ResponseWriter, r *http.Request) {
	appointmentID, ok := pathUUID(w, r, "Invalid appointment ID")
	if !ok {
		return
	}

	payment, err := h.paymentUsecase.GetPaymentByAppointment(r.Context(), appointmentID)
	if err != nil {
		if errors.Is(err, usecase.ErrPaymentNotFound) {
			response.NotFound(w, "Payment not found")
			return
		}
		if !writeAppointmentError(w, err) {
			writeError(w, err, "Failed to get payment")
		}
		return
	}

	response.Success(w, http.StatusOK, "Payment retrieved successfully", payment)
}
