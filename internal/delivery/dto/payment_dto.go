package dto

import (
	"time"

	"hospital-booking/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Response DTOs

type PaymentResponse struct {
	ID             uuid.UUID            `json:"id"`
	AppointmentID  uuid.UUID            `json:"appointment_id"`
	Amount         decimal.Decimal      `json:"amount"`
	Method         string               `json:"method"`
	CardNumber     string               `json:"card_number,omitempty"`
	Status         entity.PaymentStatus `json:"status"`
	TransactionRef string               `json:"transaction_ref,omitempty"`
	CreatedAt      time.Time            `json:"created_at"`
}

type PaymentListResponse struct {
	Payments []PaymentResponse `json:"payments"`
	Total    int               `json:"total"`
}
