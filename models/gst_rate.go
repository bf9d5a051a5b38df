package models

import (
	"time"
)

// GSTRate is an admin-editable tax configuration row. The latest row is
// snapshotted into a billing.TaxConfig per computation; changing it affects
// subsequently computed tax amounts, never stored ones.
type GSTRate struct {
	ID uint `gorm:"primaryKey" json:"id"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	TotalGST float64 `gorm:"column:total_gst" json:"totalGST"`
	CGST     float64 `json:"cgst"`
	SGST     float64 `json:"sgst"`
}
