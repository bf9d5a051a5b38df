package models

import (
	"time"

	"gorm.io/datatypes"
)

// Checkout statuses
const (
	CheckoutStatusPending = "Pending"
	CheckoutStatusPartial = "Partial"
	CheckoutStatusPaid    = "Paid"
)

// Checkout is the folio produced when a guest vacates: one per booking, the
// unique index makes a second createCheckout call an update, never a duplicate.
type Checkout struct {
	ID uint `gorm:"primaryKey" json:"id"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	BookingID uint    `gorm:"column:booking_id;uniqueIndex" json:"bookingId"`
	Booking   Booking `gorm:"foreignKey:BookingID" json:"booking,omitempty"`

	BookingCharges     float64 `gorm:"column:booking_charges" json:"bookingCharges"`
	RestaurantCharges  float64 `gorm:"column:restaurant_charges" json:"restaurantCharges"`
	RoomServiceCharges float64 `gorm:"column:room_service_charges" json:"roomServiceCharges"`
	LaundryCharges     float64 `gorm:"column:laundry_charges" json:"laundryCharges"`
	InspectionCharges  float64 `gorm:"column:inspection_charges" json:"inspectionCharges"`

	TotalAmount   float64 `gorm:"column:total_amount" json:"totalAmount"`
	PendingAmount float64 `gorm:"column:pending_amount" json:"pendingAmount"`

	// ServiceItems keeps the per-category charge detail that produced the
	// totals (restaurant orders, laundry services, inspection items).
	ServiceItems datatypes.JSON `gorm:"column:service_items" json:"serviceItems,omitempty"`

	Status string `gorm:"size:32" json:"status"`
}

// PaidAmount derives what has been settled so far from the stored totals.
func (c *Checkout) PaidAmount() float64 {
	paid := c.TotalAmount - c.PendingAmount
	if paid < 0 {
		return 0
	}
	return paid
}
