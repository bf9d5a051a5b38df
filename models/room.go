package models

import (
	"gorm.io/gorm"
)

// Room statuses
const (
	RoomStatusAvailable   = "available"
	RoomStatusBooked      = "booked"
	RoomStatusMaintenance = "maintenance"
)

type Room struct {
	gorm.Model

	RoomNumber string `json:"roomNumber" gorm:"column:room_number;uniqueIndex;type:varchar(50)"`
	RoomCode   string `json:"roomCode"   gorm:"column:room_code;type:varchar(50)"`

	Type        string  `json:"type"`
	Status      string  `json:"status"`
	Floor       string  `json:"floor" gorm:"type:varchar(10)"`
	Price       float64 `json:"price"`
	Description string  `json:"description" gorm:"type:text"`
}
