package models

import (
	"strconv"
	"strings"
	"time"

	"gorm.io/gorm"
)

// Booking statuses
const (
	BookingStatusBooked     = "Booked"
	BookingStatusCheckedIn  = "Checked In"
	BookingStatusCheckedOut = "Checked Out"
	BookingStatusCancelled  = "Cancelled"
)

// Booking payment statuses
const (
	PaymentStatusPending = "Pending"
	PaymentStatusPartial = "Partial"
	PaymentStatusPaid    = "Paid"
)

// RoomRate is the per-room rate entry embedded in a booking. ExtraBedStartDate
// bounds the extra-bed charge: nil means the extra bed covers the whole stay.
type RoomRate struct {
	RoomNumber        string     `json:"roomNumber"`
	CustomRate        float64    `json:"customRate"`
	ExtraBed          bool       `json:"extraBed"`
	ExtraBedStartDate *time.Time `json:"extraBedStartDate,omitempty"`
}

// AdvancePayment is an embedded receipt against a booking.
type AdvancePayment struct {
	Amount        float64   `json:"amount"`
	PaymentMethod string    `json:"paymentMethod"`
	TransactionID string    `json:"transactionId,omitempty"`
	PaymentDate   time.Time `json:"paymentDate"`
	Status        string    `json:"status,omitempty"`
}

type Booking struct {
	ID uint `gorm:"primaryKey" json:"id"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	GRCNo     string `gorm:"column:grc_no;size:64;index" json:"grcNo"`
	GuestName string `gorm:"column:guest_name;size:191" json:"guestName"`
	MobileNo  string `gorm:"column:mobile_no;size:32" json:"mobileNo,omitempty"`
	Address   string `gorm:"type:text" json:"address,omitempty"`
	City      string `gorm:"size:128" json:"city,omitempty"`

	// RoomNumber keeps the legacy comma-joined list ("101, 102"); use
	// RoomNumberList to read it.
	RoomNumber   string     `gorm:"column:room_number;size:191;index" json:"roomNumber"`
	CheckInDate  *time.Time `gorm:"column:check_in_date" json:"checkInDate,omitempty"`
	CheckOutDate *time.Time `gorm:"column:check_out_date" json:"checkOutDate,omitempty"`
	Days         int        `gorm:"column:days" json:"days,omitempty"`

	Rate           float64    `gorm:"column:rate" json:"rate"`
	RoomRates      []RoomRate `gorm:"serializer:json" json:"roomRates,omitempty"`
	ExtraBedCharge float64    `gorm:"column:extra_bed_charge" json:"extraBedCharge,omitempty"`

	DiscountPercent    float64 `gorm:"column:discount_percent" json:"discountPercent,omitempty"`
	DiscountRoomSource float64 `gorm:"column:discount_room_source" json:"discountRoomSource,omitempty"`

	// Tax rate snapshot taken at booking time; zero means "use the current
	// configured rate".
	CGSTRate float64 `gorm:"column:cgst_rate" json:"cgstRate,omitempty"`
	SGSTRate float64 `gorm:"column:sgst_rate" json:"sgstRate,omitempty"`

	NetAmount          float64          `gorm:"column:net_amount" json:"netAmount,omitempty"`
	TotalAdvanceAmount float64          `gorm:"column:total_advance_amount" json:"totalAdvanceAmount,omitempty"`
	AdvancePayments    []AdvancePayment `gorm:"serializer:json" json:"advancePayments,omitempty"`

	Status        string `gorm:"size:32;index" json:"status"`
	PaymentStatus string `gorm:"column:payment_status;size:32" json:"paymentStatus"`

	InvoiceID *uint `gorm:"column:invoice_id" json:"invoiceId,omitempty"`

	IsActive bool `gorm:"column:is_active;default:true" json:"isActive"`
	// Soft delete is an explicit flag: bookings are never hard-removed by the
	// core, only by explicit admin action.
	Deleted bool `gorm:"column:deleted;default:false" json:"deleted"`
}

// RoomNumberList splits the comma-joined room number string.
func (b *Booking) RoomNumberList() []string {
	if strings.TrimSpace(b.RoomNumber) == "" {
		return nil
	}
	parts := strings.Split(b.RoomNumber, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// HasRoom reports whether the booking references the given room number.
func (b *Booking) HasRoom(roomNumber string) bool {
	for _, n := range b.RoomNumberList() {
		if SameRoomNumber(n, roomNumber) {
			return true
		}
	}
	return false
}

// OccupiesAt reports whether the booking holds its rooms at the given instant:
// status Booked or Checked In and the date inside [checkInDate, checkOutDate].
func (b *Booking) OccupiesAt(at time.Time) bool {
	if b.Status != BookingStatusBooked && b.Status != BookingStatusCheckedIn {
		return false
	}
	if b.CheckInDate == nil || b.CheckOutDate == nil {
		return false
	}
	return !at.Before(*b.CheckInDate) && !at.After(*b.CheckOutDate)
}

// AdvanceTotal sums the embedded advance payments.
func (b *Booking) AdvanceTotal() float64 {
	var sum float64
	for _, p := range b.AdvancePayments {
		sum += p.Amount
	}
	return sum
}

// SameRoomNumber compares room numbers the way the legacy data needs: trimmed
// string equality first, then numeric equality so "007" still matches "7".
func SameRoomNumber(a, b string) bool {
	a = strings.TrimSpace(a)
	b = strings.TrimSpace(b)
	if a == "" || b == "" {
		return false
	}
	if strings.EqualFold(a, b) {
		return true
	}
	na, errA := strconv.Atoi(a)
	nb, errB := strconv.Atoi(b)
	return errA == nil && errB == nil && na == nb
}

// ActiveBookingScope filters to live bookings the way every reader should.
func ActiveBookingScope(db *gorm.DB) *gorm.DB {
	return db.Where("is_active = ? AND deleted = ?", true, false)
}
