package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PaymentStatus represents the state of a captured payment
type PaymentStatus string

const (
	PaymentStatusPending         PaymentStatus = "pending"
	PaymentStatusCompleted       PaymentStatus = "completed"
	PaymentStatusFailed          PaymentStatus = "failed"
	PaymentStatusRefundRequested PaymentStatus = "refund_requested"
)

// Payment is recorded by the external payment processor; this service only reads it
// and flags refunds.
type Payment struct {
	ID             uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	AppointmentID  uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex" json:"appointment_id"`
	Amount         decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"amount"`
	Method         string          `gorm:"type:varchar(30);not null" json:"method"`
	CardLast4      string          `gorm:"column:card_last4;type:varchar(4)" json:"card_last4,omitempty"`
	Status         PaymentStatus   `gorm:"type:varchar(20);not null" json:"status"`
	TransactionRef string          `gorm:"type:varchar(100)" json:"transaction_ref,omitempty"`
	CreatedAt      time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Payment) TableName() string {
	return "payments"
}

// IsRefundable reports whether a cancellation should request a refund
func (p *Payment) IsRefundable() bool {
	return p.Status == PaymentStatusCompleted
}

// MaskedCard renders the stored last four digits as a masked card number
func (p *Payment) MaskedCard() string {
	if p.CardLast4 == "" {
		return ""
	}
	return "**** **** **** " + p.CardLast4
}
