package models

import (
	"time"
)

// Invoice statuses are fully determined by paid vs total, recomputed on
// every payment application.
const (
	InvoiceStatusUnpaid  = "Unpaid"
	InvoiceStatusPartial = "Partial"
	InvoiceStatusPaid    = "Paid"
)

// Service types an invoice can bill against.
const (
	ServiceTypeBooking        = "Booking"
	ServiceTypeLaundry        = "Laundry"
	ServiceTypeRoomInspection = "RoomInspection"
	ServiceTypeHousekeeping   = "Housekeeping"
	ServiceTypeRestaurant     = "RestaurantOrder"
	ServiceTypeRoomService    = "RoomService"
)

// InvoiceItem is one signed line on an invoice; discounts are negative items.
type InvoiceItem struct {
	Description string  `json:"description"`
	Amount      float64 `json:"amount"`
}

type Invoice struct {
	ID uint `gorm:"primaryKey" json:"id"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	// Polymorphic reference: ServiceType discriminates which table
	// ServiceRefID points into; resolved through the service registry.
	ServiceType  string `gorm:"column:service_type;size:64;index" json:"serviceType"`
	ServiceRefID uint   `gorm:"column:service_ref_id;index" json:"serviceRefId"`

	BookingID *uint `gorm:"column:booking_id;index" json:"bookingId,omitempty"`

	InvoiceNumber string    `gorm:"column:invoice_number;uniqueIndex;size:32" json:"invoiceNumber"`
	IssueDate     time.Time `gorm:"column:issue_date" json:"issueDate"`

	Items []InvoiceItem `gorm:"serializer:json" json:"items"`

	SubTotal    float64 `gorm:"column:sub_total" json:"subTotal"`
	Tax         float64 `json:"tax"`
	Discount    float64 `json:"discount"`
	TotalAmount float64 `gorm:"column:total_amount" json:"totalAmount"`

	PaidAmount    float64 `gorm:"column:paid_amount" json:"paidAmount"`
	BalanceAmount float64 `gorm:"column:balance_amount" json:"balanceAmount"`

	PaymentMode string     `gorm:"column:payment_mode;size:32" json:"paymentMode,omitempty"`
	PaidAt      *time.Time `gorm:"column:paid_at" json:"paidAt,omitempty"`

	Status string `gorm:"size:32" json:"status"`
}

// RecomputeStatus re-derives balance and status from the paid amount. This is
// the single place the invoice invariant lives.
func (i *Invoice) RecomputeStatus() {
	i.BalanceAmount = i.TotalAmount - i.PaidAmount
	switch {
	case i.BalanceAmount <= 0:
		i.BalanceAmount = 0
		i.Status = InvoiceStatusPaid
	case i.PaidAmount > 0:
		i.Status = InvoiceStatusPartial
	default:
		i.Status = InvoiceStatusUnpaid
	}
}

// ValidServiceType reports whether the registry knows the given type.
func ValidServiceType(t string) bool {
	switch t {
	case ServiceTypeBooking, ServiceTypeLaundry, ServiceTypeRoomInspection,
		ServiceTypeHousekeeping, ServiceTypeRestaurant, ServiceTypeRoomService:
		return true
	}
	return false
}
