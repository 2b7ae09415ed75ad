package converter

import (
	"hospital-booking/internal/delivery/dto"
	"hospital-booking/internal/domain/entity"
)

// PaymentToResponse converts a Payment entity to PaymentResponse DTO.
// Only the masked card number leaves the service.
func PaymentToResponse(payment *entity.Payment) *dto.PaymentResponse {
	if payment == nil {
		return nil
	}

	return &dto.PaymentResponse{
		ID:             payment.ID,
		AppointmentID:  payment.AppointmentID,
		Amount:         payment.Amount,
		Method:         payment.Method,
		CardNumber:     payment.MaskedCard(),
		Status:         payment.Status,
		TransactionRef: payment.TransactionRef,
		CreatedAt:      payment.CreatedAt,
	}
}

func PaymentsToResponses(payments []entity.Payment) []dto.PaymentResponse {
	responses := make([]dto.PaymentResponse, len(payments))
	for i := range payments {
		responses[i] = *PaymentToResponse(&payments[i])
	}
	return responses
}
