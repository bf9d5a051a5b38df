package controllers

import (
	"net/http"

	"havana-backend/services"
	"havana-backend/utils"

	"github.com/gin-gonic/gin"
)

// ---------------------------
// Payload / DTOs
// ---------------------------

type CreateCheckoutPayload struct {
	BookingID uint `json:"bookingId" binding:"required"`
}

type UpdateCheckoutStatusPayload struct {
	Status     string   `json:"status" binding:"required"`
	PaidAmount *float64 `json:"paidAmount"`
}

// ---------------------------
// Controller
// ---------------------------

type CheckoutController struct {
	CheckoutSvc *services.CheckoutService
}

func NewCheckoutController(svc *services.CheckoutService) *CheckoutController {
	return &CheckoutController{CheckoutSvc: svc}
}

// POST /api/checkouts
func (ctl *CheckoutController) CreateCheckout(c *gin.Context) {
	var payload CreateCheckoutPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "bookingId is required")
		return
	}

	checkout, err := ctl.CheckoutSvc.CreateCheckout(payload.BookingID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusCreated, checkout)
}

// GET /api/checkouts/booking/:id
func (ctl *CheckoutController) GetByBooking(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	checkout, err := ctl.CheckoutSvc.GetByBooking(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, checkout)
}

// PUT /api/checkouts/:id/payment-status
func (ctl *CheckoutController) UpdatePaymentStatus(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	var payload UpdateCheckoutStatusPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "status is required")
		return
	}

	checkout, err := ctl.CheckoutSvc.UpdatePaymentStatus(id, payload.Status, payload.PaidAmount)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, checkout)
}

// GET /api/checkouts/:id/invoice
func (ctl *CheckoutController) GetInvoice(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	view, err := ctl.CheckoutSvc.RenderInvoice(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, view)
}
