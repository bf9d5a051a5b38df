package controllers

import (
	"net/http"
	"strconv"

	"havana-backend/services"
	"havana-backend/utils"

	"github.com/gin-gonic/gin"
)

type PaymentController struct {
	PaymentSvc *services.PaymentService
}

func NewPaymentController(svc *services.PaymentService) *PaymentController {
	return &PaymentController{PaymentSvc: svc}
}

// POST /api/payments
func (ctl *PaymentController) CreatePayment(c *gin.Context) {
	var payload services.CreatePaymentInput
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid request payload")
		return
	}

	payment, err := ctl.PaymentSvc.CreatePayment(payload)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusCreated, payment)
}

// GET /api/payments?sourceType=&sourceId=
func (ctl *PaymentController) GetAllPayments(c *gin.Context) {
	sourceID, _ := strconv.ParseUint(c.Query("sourceId"), 10, 32)
	payments, err := ctl.PaymentSvc.ListPayments(c.Query("sourceType"), uint(sourceID))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, payments)
}

// GET /api/payments/:id
func (ctl *PaymentController) GetPayment(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	payment, err := ctl.PaymentSvc.GetPayment(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, payment)
}

// GET /api/payments/source/:sourceType/:sourceId
func (ctl *PaymentController) GetPaymentsBySource(c *gin.Context) {
	sourceID, err := strconv.ParseUint(c.Param("sourceId"), 10, 32)
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid source id")
		return
	}
	payments, err := ctl.PaymentSvc.ListPayments(c.Param("sourceType"), uint(sourceID))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, payments)
}

// GET /api/payments/total/:sourceType/:sourceId
func (ctl *PaymentController) GetTotalPaid(c *gin.Context) {
	sourceID, err := strconv.ParseUint(c.Param("sourceId"), 10, 32)
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid source id")
		return
	}
	total, err := ctl.PaymentSvc.TotalPaid(c.Param("sourceType"), uint(sourceID))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "totalPaid": total})
}
