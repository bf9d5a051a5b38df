package models

import (
	"time"
)

// ServiceOrderItem is a line on a restaurant, room-service or laundry order.
type ServiceOrderItem struct {
	ItemID           uint    `json:"itemId,omitempty"`
	ItemName         string  `json:"itemName"`
	Quantity         int     `json:"quantity"`
	Price            float64 `json:"price,omitempty"`
	Rate             float64 `json:"rate,omitempty"`
	CalculatedAmount float64 `json:"calculatedAmount,omitempty"`
	ItemNotes        string  `json:"itemNotes,omitempty"`
}

// RestaurantOrder is a dine-in order; the table number doubles as the room
// number when the guest charges the meal to the room.
type RestaurantOrder struct {
	ID uint `gorm:"primaryKey" json:"id"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	TableNo   string `gorm:"column:table_no;size:32;index" json:"tableNo"`
	BookingID *uint  `gorm:"column:booking_id;index" json:"bookingId,omitempty"`

	Items  []ServiceOrderItem `gorm:"serializer:json" json:"items"`
	Amount float64            `json:"amount"`
	IsPaid bool               `gorm:"column:is_paid;default:false" json:"isPaid"`
}

// ChargeTotal sums the order's item amounts, degrading missing prices to zero.
func (o *RestaurantOrder) ChargeTotal() float64 {
	var sum float64
	for _, it := range o.Items {
		sum += it.Price * float64(it.Quantity)
	}
	if sum == 0 {
		return o.Amount
	}
	return sum
}

// RoomServiceOrder is in-room dining delivered against a room number.
type RoomServiceOrder struct {
	ID uint `gorm:"primaryKey" json:"id"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	RoomNumber string `gorm:"column:room_number;size:32;index" json:"roomNumber"`
	BookingID  *uint  `gorm:"column:booking_id;index" json:"bookingId,omitempty"`

	Items  []ServiceOrderItem `gorm:"serializer:json" json:"items"`
	Amount float64            `json:"amount"`
	IsPaid bool               `gorm:"column:is_paid;default:false" json:"isPaid"`
}

// ChargeTotal sums the order's item amounts, falling back to the stored total.
func (o *RoomServiceOrder) ChargeTotal() float64 {
	var sum float64
	for _, it := range o.Items {
		sum += it.Price * float64(it.Quantity)
	}
	if sum == 0 {
		return o.Amount
	}
	return sum
}

// LaundryOrder links laundry work to a stay by booking id, GRC number or room
// number; older records only carry one of the three.
type LaundryOrder struct {
	ID uint `gorm:"primaryKey" json:"id"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	BookingID  *uint  `gorm:"column:booking_id;index" json:"bookingId,omitempty"`
	GRCNo      string `gorm:"column:grc_no;size:64;index" json:"grcNo,omitempty"`
	RoomNumber string `gorm:"column:room_number;size:32" json:"roomNumber,omitempty"`

	Items       []ServiceOrderItem `gorm:"serializer:json" json:"items"`
	TotalAmount float64            `gorm:"column:total_amount" json:"totalAmount"`
	IsPaid      bool               `gorm:"column:is_paid;default:false" json:"isPaid"`
}

// ChargeTotal prefers per-item calculated amounts, then rate×quantity, then
// the stored total.
func (o *LaundryOrder) ChargeTotal() float64 {
	var sum float64
	for _, it := range o.Items {
		if it.CalculatedAmount != 0 {
			sum += it.CalculatedAmount
			continue
		}
		sum += it.Rate * float64(it.Quantity)
	}
	if sum == 0 {
		return o.TotalAmount
	}
	return sum
}
