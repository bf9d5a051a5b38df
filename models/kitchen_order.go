package models

import (
	"time"
)

// Kitchen order kinds.
const (
	KitchenOrderTypePreparation     = "kitchen_preparation"
	KitchenOrderTypeKitchenToPantry = "kitchen_to_pantry"
	KitchenOrderTypePantryToKitchen = "pantry_to_kitchen"
)

// KitchenOrder is the kitchen-side record of a transfer, cross-linked to the
// pantry order that carries or fulfils it.
type KitchenOrder struct {
	ID uint `gorm:"primaryKey" json:"id"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	Items       []OrderItem `gorm:"serializer:json" json:"items"`
	TotalAmount float64     `gorm:"column:total_amount" json:"totalAmount"`

	PantryOrderID *uint `gorm:"column:pantry_order_id;index" json:"pantryOrderId,omitempty"`

	Status    string `gorm:"size:32;index" json:"status"`
	OrderType string `gorm:"column:order_type;size:32;index" json:"orderType"`

	SpecialInstructions string `gorm:"column:special_instructions;type:text" json:"specialInstructions,omitempty"`
	OrderedBy           string `gorm:"column:ordered_by;size:128" json:"orderedBy,omitempty"`

	ReceivedAt  *time.Time `gorm:"column:received_at" json:"receivedAt,omitempty"`
	DeliveredAt *time.Time `gorm:"column:delivered_at" json:"deliveredAt,omitempty"`
}
