package models

import (
	"gorm.io/gorm"
)

// Admin is the seeded back-office login. Authentication itself lives in the
// auth middleware, outside this core.
type Admin struct {
	gorm.Model

	FullName string `gorm:"size:191" json:"fullName"`
	Username string `gorm:"size:191;uniqueIndex" json:"username"`
	Password string `gorm:"size:191" json:"-"`
}
