package controllers

import (
	"log"
	"net/http"
	"strings"

	"havana-backend/config"
	"havana-backend/models"

	"github.com/gin-gonic/gin"
)

// ----------------------------------------------------
// 1. Get Rooms (GET /api/rooms)
// ----------------------------------------------------

func GetRooms(c *gin.Context) {
	var rooms []models.Room
	config.DB.Order("room_number ASC").Find(&rooms)

	c.JSON(http.StatusOK, rooms)
}

// ----------------------------------------------------
// 2. Create Room (POST /api/rooms)
// ----------------------------------------------------

func CreateRoom(c *gin.Context) {
	var room models.Room

	if err := c.ShouldBindJSON(&room); err != nil {
		log.Printf("❌ JSON BINDING ERROR (400): %v", err)
		c.JSON(http.StatusBadRequest, gin.H{
			"status":  "error",
			"message": "Invalid request payload",
			"details": err.Error(),
		})
		return
	}

	room.RoomNumber = strings.TrimSpace(room.RoomNumber)
	if room.RoomNumber == "" {
		log.Println("❌ RoomNumber cannot be empty.")
		c.JSON(http.StatusBadRequest, gin.H{
			"status":  "error",
			"message": "RoomNumber cannot be empty",
		})
		return
	}

	if room.Status == "" {
		room.Status = models.RoomStatusAvailable
	}

	if err := config.DB.Create(&room).Error; err != nil {
		if isDuplicateKeyError(err) {
			log.Printf("❌ Duplicate Room Number: %s", room.RoomNumber)
			c.JSON(http.StatusConflict, gin.H{
				"status":  "error",
				"message": "Room number already exists",
			})
			return
		}
		log.Printf("❌ DB CREATE ERROR: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"status":  "error",
			"message": "Could not create room",
		})
		return
	}

	c.JSON(http.StatusCreated, room)
}

// ----------------------------------------------------
// 3. Update Room (PUT /api/rooms/:id)
// ----------------------------------------------------

type UpdateRoomPayload struct {
	RoomNumber  *string  `json:"roomNumber"`
	RoomCode    *string  `json:"roomCode"`
	Type        *string  `json:"type"`
	Status      *string  `json:"status"`
	Floor       *string  `json:"floor"`
	Price       *float64 `json:"price"`
	Description *string  `json:"description"`
}

func UpdateRoom(c *gin.Context) {
	id := c.Param("id")

	var room models.Room
	if err := config.DB.First(&room, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"status":  "error",
			"message": "Room not found",
		})
		return
	}

	var payload UpdateRoomPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"status":  "error",
			"message": "Invalid request payload",
		})
		return
	}

	if payload.RoomNumber != nil {
		room.RoomNumber = strings.TrimSpace(*payload.RoomNumber)
	}
	if payload.RoomCode != nil {
		room.RoomCode = *payload.RoomCode
	}
	if payload.Type != nil {
		room.Type = *payload.Type
	}
	if payload.Status != nil {
		room.Status = *payload.Status
	}
	if payload.Floor != nil {
		room.Floor = *payload.Floor
	}
	if payload.Price != nil {
		room.Price = *payload.Price
	}
	if payload.Description != nil {
		room.Description = *payload.Description
	}

	if err := config.DB.Save(&room).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"status":  "error",
			"message": "Could not update room",
		})
		return
	}

	c.JSON(http.StatusOK, room)
}

// ----------------------------------------------------
// 4. Delete Room (DELETE /api/rooms/:id)
// ----------------------------------------------------

func DeleteRoom(c *gin.Context) {
	id := c.Param("id")

	res := config.DB.Delete(&models.Room{}, id)
	if res.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"status":  "error",
			"message": "Could not delete room",
		})
		return
	}
	if res.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{
			"status":  "error",
			"message": "Room not found",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"message": "Room deleted",
	})
}
