package models

import (
	"time"
)

type Vendor struct {
	ID uint `gorm:"primaryKey" json:"id"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	CompanyName string `gorm:"column:company_name;size:191" json:"companyName,omitempty"`
	Name        string `gorm:"size:191" json:"name"`
	Phone       string `gorm:"size:32" json:"phone,omitempty"`
	Email       string `gorm:"size:191" json:"email,omitempty"`
	Address     string `gorm:"type:text" json:"address,omitempty"`
	UpiID       string `gorm:"column:upi_id;size:128" json:"upiId,omitempty"`

	IsActive bool `gorm:"column:is_active;default:true" json:"isActive"`
}
