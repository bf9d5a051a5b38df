package controllers

import (
	"net/http"
	"time"

	"havana-backend/services"

	"github.com/gin-gonic/gin"
)

// MaintenanceController exposes the repair jobs as admin endpoints.
type MaintenanceController struct {
	MaintenanceSvc *services.MaintenanceService
}

func NewMaintenanceController(svc *services.MaintenanceService) *MaintenanceController {
	return &MaintenanceController{MaintenanceSvc: svc}
}

// POST /api/admin/fix-room-status
func (ctl *MaintenanceController) FixRoomStatus(c *gin.Context) {
	report, err := ctl.MaintenanceSvc.FixRoomStatus(time.Now())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "report": report})
}

// POST /api/admin/fix-payment-data
func (ctl *MaintenanceController) FixPaymentData(c *gin.Context) {
	fixes, err := ctl.MaintenanceSvc.FixPaymentData()
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "fixedBookings": fixes})
}

// POST /api/admin/migrate-room-rates
func (ctl *MaintenanceController) MigrateRoomRates(c *gin.Context) {
	migrated, err := ctl.MaintenanceSvc.MigrateBookingRoomRates()
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "migrated": migrated})
}
