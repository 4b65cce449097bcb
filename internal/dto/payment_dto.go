package dto

import (
	"time"

	"github.com/noah-isme/onboard-go-api/internal/models"
)

// CreateOrderRequest asks the gateway for a new order. Amount is in rupees.
type CreateOrderRequest struct {
	Amount int64 `json:"amount" validate:"required,gt=0"`
}

// OrderResponse relays the gateway's order descriptor unchanged.
type OrderResponse struct {
	OrderID  string `json:"order_id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
	Status   string `json:"status"`
}

// VerifyPaymentRequest carries the checkout callback fields.
type VerifyPaymentRequest struct {
	OrderID   string `json:"order_id" validate:"required,max=128"`
	PaymentID string `json:"payment_id" validate:"required,max=128"`
	Signature string `json:"signature" validate:"required,max=256"`
}

// VerifyPaymentResult reports the ledger state after a verification call.
type VerifyPaymentResult struct {
	PaymentID       string `json:"payment_id"`
	Amount          int64  `json:"amount"`
	PaidAmount      int64  `json:"paid_amount"`
	Remaining       int64  `json:"remaining"`
	Status          string `json:"status"`
	AlreadyRecorded bool   `json:"already_recorded"`
}

// PaymentEntry is one immutable ledger history entry.
type PaymentEntry struct {
	Amount        int64     `json:"amount"`
	TransactionID string    `json:"transaction_id"`
	OrderID       string    `json:"order_id"`
	Date          time.Time `json:"date"`
}

// FeeSummary reports the current fee ledger for a student.
type FeeSummary struct {
	TotalAmount int64          `json:"total_amount"`
	PaidAmount  int64          `json:"paid_amount"`
	Remaining   int64          `json:"remaining"`
	Status      string         `json:"status"`
	History     []PaymentEntry `json:"history"`
}

// NewFeeSummary builds the summary from a profile snapshot.
func NewFeeSummary(profile models.StudentProfile) FeeSummary {
	history := make([]PaymentEntry, 0, len(profile.Payments))
	for _, payment := range profile.Payments {
		history = append(history, PaymentEntry{
			Amount:        payment.Amount,
			TransactionID: payment.TransactionID,
			OrderID:       payment.OrderID,
			Date:          payment.CreatedAt,
		})
	}

	return FeeSummary{
		TotalAmount: profile.Fee.TotalAmount,
		PaidAmount:  profile.Fee.PaidAmount,
		Remaining:   profile.Fee.Remaining(),
		Status:      string(profile.Fee.Status),
		History:     history,
	}
}
