package controllers

import (
	"net/http"

	"havana-backend/config"
	"havana-backend/models"

	"github.com/gin-gonic/gin"
)

// ----------------------------------------------------
// Vendor CRUD (package-level, config.DB)
// ----------------------------------------------------

// GET /api/vendors
func GetVendors(c *gin.Context) {
	var vendors []models.Vendor
	config.DB.Order("name ASC").Find(&vendors)
	c.JSON(http.StatusOK, gin.H{"success": true, "vendors": vendors})
}

// POST /api/vendors
func CreateVendor(c *gin.Context) {
	var vendor models.Vendor
	if err := c.ShouldBindJSON(&vendor); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid request payload"})
		return
	}
	vendor.IsActive = true
	if err := config.DB.Create(&vendor).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "vendor": vendor})
}

type UpdateVendorPayload struct {
	CompanyName *string `json:"companyName"`
	Name        *string `json:"name"`
	Phone       *string `json:"phone"`
	Email       *string `json:"email"`
	Address     *string `json:"address"`
	UpiID       *string `json:"upiId"`
	IsActive    *bool   `json:"isActive"`
}

// PUT /api/vendors/:id
func UpdateVendor(c *gin.Context) {
	var vendor models.Vendor
	if err := config.DB.First(&vendor, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "Vendor not found"})
		return
	}

	var payload UpdateVendorPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid request payload"})
		return
	}
	if payload.CompanyName != nil {
		vendor.CompanyName = *payload.CompanyName
	}
	if payload.Name != nil {
		vendor.Name = *payload.Name
	}
	if payload.Phone != nil {
		vendor.Phone = *payload.Phone
	}
	if payload.Email != nil {
		vendor.Email = *payload.Email
	}
	if payload.Address != nil {
		vendor.Address = *payload.Address
	}
	if payload.UpiID != nil {
		vendor.UpiID = *payload.UpiID
	}
	if payload.IsActive != nil {
		vendor.IsActive = *payload.IsActive
	}
	if err := config.DB.Save(&vendor).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "vendor": vendor})
}

// DELETE /api/vendors/:id deactivates rather than removing, so historical
// orders keep their vendor.
func DeleteVendor(c *gin.Context) {
	var vendor models.Vendor
	if err := config.DB.First(&vendor, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "Vendor not found"})
		return
	}
	if err := config.DB.Model(&vendor).Update("is_active", false).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Vendor deactivated"})
}
