package models

import (
	"time"
)

// Checklist item statuses that produce a charge.
const (
	ChecklistStatusOK      = "ok"
	ChecklistStatusMissing = "missing"
	ChecklistStatusDamaged = "damaged"
	ChecklistStatusUsed    = "used"
)

// ChecklistItem is one inspected article in a room inspection.
type ChecklistItem struct {
	Item        string  `json:"item"`
	Status      string  `json:"status"`
	Quantity    int     `json:"quantity"`
	CostPerUnit float64 `json:"costPerUnit"`
}

// Chargeable reports whether the item's condition bills the guest.
func (c ChecklistItem) Chargeable() bool {
	switch c.Status {
	case ChecklistStatusMissing, ChecklistStatusDamaged, ChecklistStatusUsed:
		return true
	}
	return false
}

// RoomInspection records damage/loss findings after a stay.
type RoomInspection struct {
	ID uint `gorm:"primaryKey" json:"id"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	BookingID  *uint  `gorm:"column:booking_id;index" json:"bookingId,omitempty"`
	RoomNumber string `gorm:"column:room_number;size:32" json:"roomNumber,omitempty"`

	InspectionType string          `gorm:"column:inspection_type;size:64" json:"inspectionType,omitempty"`
	Checklist      []ChecklistItem `gorm:"serializer:json" json:"checklist,omitempty"`
	TotalCharges   float64         `gorm:"column:total_charges" json:"totalCharges"`
	Remarks        string          `gorm:"type:text" json:"remarks,omitempty"`
	InspectedBy    string          `gorm:"column:inspected_by;size:128" json:"inspectedBy,omitempty"`
}
