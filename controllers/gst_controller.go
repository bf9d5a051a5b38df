package controllers

import (
	"net/http"

	"havana-backend/config"
	"havana-backend/models"
	"havana-backend/services"

	"github.com/gin-gonic/gin"
)

// ----------------------------------------------------
// GST rate configuration (package-level, config.DB)
// ----------------------------------------------------

// GET /api/gst-rates
func GetGSTRates(c *gin.Context) {
	var rates []models.GSTRate
	config.DB.Order("id ASC").Find(&rates)
	c.JSON(http.StatusOK, gin.H{"success": true, "rates": rates})
}

// POST /api/gst-rates
func CreateGSTRate(c *gin.Context) {
	var rate models.GSTRate
	if err := c.ShouldBindJSON(&rate); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid request payload"})
		return
	}
	if err := config.DB.Create(&rate).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "rate": rate})
}

// GET /api/gst-rates/:id
func GetGSTRate(c *gin.Context) {
	var rate models.GSTRate
	if err := config.DB.First(&rate, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "GST rate not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "rate": rate})
}

// PUT /api/gst-rates/:id
func UpdateGSTRate(gstSvc *services.GSTService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := paramID(c)
		if !ok {
			return
		}
		var payload models.GSTRate
		if err := c.ShouldBindJSON(&payload); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid request payload"})
			return
		}
		rate, err := gstSvc.Update(id, payload)
		if err != nil {
			respondServiceError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "rate": rate})
	}
}

// DELETE /api/gst-rates/:id
func DeleteGSTRate(c *gin.Context) {
	res := config.DB.Delete(&models.GSTRate{}, c.Param("id"))
	if res.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": res.Error.Error()})
		return
	}
	if res.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "GST rate not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "GST rate deleted"})
}
