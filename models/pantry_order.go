package models

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"
)

// Transfer order statuses, shared by pantry and kitchen orders. The lifecycle
// is pending → approved → preparing → ready → delivered/fulfilled, with
// cancelled reachable from any non-terminal state.
const (
	OrderStatusPending   = "pending"
	OrderStatusApproved  = "approved"
	OrderStatusPreparing = "preparing"
	OrderStatusReady     = "ready"
	OrderStatusDelivered = "delivered"
	OrderStatusFulfilled = "fulfilled"
	OrderStatusCancelled = "cancelled"
)

// Pantry order transfer kinds (directed pairs).
const (
	OrderTypeKitchenToPantry = "Kitchen to Pantry"
	OrderTypePantryToKitchen = "Pantry to Kitchen"
	OrderTypePantryToVendor  = "Pantry to vendor"
)

// Vendor order payment statuses.
const (
	OrderPaymentPending = "pending"
	OrderPaymentPartial = "partial"
	OrderPaymentPaid    = "paid"
)

// OrderItem is one line of a transfer order. Name and Unit are snapshots taken
// at order time so historical orders survive catalog deletions.
type OrderItem struct {
	ItemID            uint    `json:"itemId"`
	Name              string  `json:"name,omitempty"`
	Unit              string  `json:"unit,omitempty"`
	Quantity          int     `json:"quantity"`
	UnitPrice         float64 `json:"unitPrice"`
	AvailableQuantity int     `json:"availableQuantity,omitempty"`
	IsOutOfStock      bool    `json:"isOutOfStock,omitempty"`
}

// OutOfStockItem reports a shortfall detected while creating a Kitchen to
// Pantry order; it is the input to auto-vendor-ordering.
type OutOfStockItem struct {
	ItemID            uint    `json:"itemId"`
	Name              string  `json:"name"`
	RequestedQuantity int     `json:"requestedQuantity"`
	AvailableQuantity int     `json:"availableQuantity"`
	NeededQuantity    int     `json:"neededQuantity"`
	EstimatedPrice    float64 `json:"estimatedPrice,omitempty"`
}

// OrderFulfillment records an amount revision made when a vendor order is
// settled against the delivered goods.
type OrderFulfillment struct {
	PreviousAmount float64    `json:"previousAmount,omitempty"`
	NewAmount      float64    `json:"newAmount,omitempty"`
	Difference     float64    `json:"difference,omitempty"`
	FulfilledAt    *time.Time `json:"fulfilledAt,omitempty"`
	FulfilledBy    string     `json:"fulfilledBy,omitempty"`
	Notes          string     `json:"notes,omitempty"`
}

// OrderPaymentDetails tracks how a vendor order was paid.
type OrderPaymentDetails struct {
	PaidAmount    float64    `json:"paidAmount"`
	PaidAt        *time.Time `json:"paidAt,omitempty"`
	PaymentMethod string     `json:"paymentMethod,omitempty"`
	TransactionID string     `json:"transactionId,omitempty"`
	Notes         string     `json:"notes,omitempty"`
}

// PantryOrder is a transfer request between pantry, kitchen and vendor.
type PantryOrder struct {
	ID uint `gorm:"primaryKey" json:"id"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	Items       []OrderItem `gorm:"serializer:json" json:"items"`
	TotalAmount float64     `gorm:"column:total_amount" json:"totalAmount"`

	PackagingCharge float64 `gorm:"column:packaging_charge;default:0" json:"packagingCharge"`
	LabourCharge    float64 `gorm:"column:labour_charge;default:0" json:"labourCharge"`

	VendorID *uint  `gorm:"column:vendor_id;index" json:"vendorId,omitempty"`
	Vendor   Vendor `gorm:"foreignKey:VendorID" json:"vendor,omitempty"`

	// Cross-link to the counterpart kitchen order; optional because the
	// counterpart write is best-effort and may be repaired later.
	KitchenOrderID *uint `gorm:"column:kitchen_order_id;index" json:"kitchenOrderId,omitempty"`

	Status    string `gorm:"size:32;index" json:"status"`
	OrderType string `gorm:"column:order_type;size:32;index" json:"orderType"`

	SpecialInstructions string `gorm:"column:special_instructions;type:text" json:"specialInstructions,omitempty"`
	OrderedBy           string `gorm:"column:ordered_by;size:128" json:"orderedBy,omitempty"`

	DeliveredAt *time.Time `gorm:"column:delivered_at" json:"deliveredAt,omitempty"`

	Fulfillment *OrderFulfillment `gorm:"serializer:json" json:"fulfillment,omitempty"`

	PaymentStatus  string               `gorm:"column:payment_status;size:16;default:pending" json:"paymentStatus"`
	PaymentDetails *OrderPaymentDetails `gorm:"serializer:json" json:"paymentDetails,omitempty"`

	// OriginalRequest snapshots the requested items and detected shortfalls of
	// a Kitchen to Pantry order before clamping, for retrieval fallbacks.
	OriginalRequest datatypes.JSON `gorm:"column:original_request" json:"originalRequest,omitempty"`
}

// OriginalRequestSnapshot is the document stored in PantryOrder.OriginalRequest.
type OriginalRequestSnapshot struct {
	Items           []OrderItem      `json:"items"`
	OutOfStockItems []OutOfStockItem `json:"outOfStockItems,omitempty"`
}

// MarshalOriginalRequest encodes the snapshot for storage.
func MarshalOriginalRequest(s OriginalRequestSnapshot) (datatypes.JSON, error) {
	raw, err := json.Marshal(s)
	if err != nil {
		return nil, err
	}
	return datatypes.JSON(raw), nil
}

// UnmarshalOriginalRequest decodes a stored snapshot; a missing or malformed
// snapshot yields the zero value, never an error the caller has to handle.
func UnmarshalOriginalRequest(raw datatypes.JSON) (OriginalRequestSnapshot, bool) {
	var s OriginalRequestSnapshot
	if len(raw) == 0 {
		return s, false
	}
	if err := json.Unmarshal(raw, &s); err != nil {
		return OriginalRequestSnapshot{}, false
	}
	return s, true
}

// TerminalOrderStatus reports whether no further transitions are allowed.
func TerminalOrderStatus(s string) bool {
	return s == OrderStatusFulfilled || s == OrderStatusCancelled
}

// ValidOrderStatus reports whether s is one of the lifecycle states.
func ValidOrderStatus(s string) bool {
	switch s {
	case OrderStatusPending, OrderStatusApproved, OrderStatusPreparing,
		OrderStatusReady, OrderStatusDelivered, OrderStatusFulfilled, OrderStatusCancelled:
		return true
	}
	return false
}
