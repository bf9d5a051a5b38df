package models

import (
	"time"
)

// Payment statuses
const (
	PaymentRecordPending = "Pending"
	PaymentRecordPaid    = "Paid"
	PaymentRecordFailed  = "Failed"
)

// Payment is an append-only record of money received. It is never mutated
// after creation except for status correction; applying a payment is the only
// mutator of its target invoice.
type Payment struct {
	ID uint `gorm:"primaryKey" json:"id"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	// Which module this payment is linked to (Booking, Laundry, Pantry, ...).
	SourceType string `gorm:"column:source_type;size:64;index:idx_payments_source" json:"sourceType"`
	SourceID   uint   `gorm:"column:source_id;index:idx_payments_source" json:"sourceId"`

	InvoiceID *uint `gorm:"column:invoice_id;index" json:"invoiceId,omitempty"`

	PaymentNumber string `gorm:"column:payment_number;uniqueIndex;size:32" json:"paymentNumber"`

	Amount      float64 `json:"amount"`
	PaymentMode string  `gorm:"column:payment_mode;size:32" json:"paymentMode"`
	IsAdvance   bool    `gorm:"column:is_advance" json:"isAdvance"`

	Status      string `gorm:"size:32" json:"status"`
	CollectedBy string `gorm:"column:collected_by;size:128" json:"collectedBy,omitempty"`
	Remarks     string `gorm:"type:text" json:"remarks,omitempty"`

	ReceivedAt time.Time `gorm:"column:received_at" json:"receivedAt"`
}
