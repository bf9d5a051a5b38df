package controllers

import (
	"net/http"

	"havana-backend/services"
	"havana-backend/utils"

	"github.com/gin-gonic/gin"
)

type ProcessPaymentPayload struct {
	Amount      float64 `json:"amount" binding:"required"`
	PaymentMode string  `json:"paymentMode"`
}

type InvoiceController struct {
	InvoiceSvc *services.InvoiceService
}

func NewInvoiceController(svc *services.InvoiceService) *InvoiceController {
	return &InvoiceController{InvoiceSvc: svc}
}

// POST /api/invoices
func (ctl *InvoiceController) CreateInvoice(c *gin.Context) {
	var payload services.CreateInvoiceInput
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid request payload")
		return
	}

	invoice, err := ctl.InvoiceSvc.CreateInvoice(payload)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusCreated, invoice)
}

// GET /api/invoices
func (ctl *InvoiceController) GetAllInvoices(c *gin.Context) {
	invoices, err := ctl.InvoiceSvc.ListInvoices()
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, invoices)
}

// GET /api/invoices/:id
func (ctl *InvoiceController) GetInvoice(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	invoice, err := ctl.InvoiceSvc.GetInvoice(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, invoice)
}

// GET /api/invoices/final/booking/:id
func (ctl *InvoiceController) GetFinalInvoiceByBooking(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	view, err := ctl.InvoiceSvc.GetFinalInvoiceByBooking(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"grandTotal": view.GrandTotal,
		"invoices":   []any{view},
	})
}

// POST /api/invoices/:id/payment
func (ctl *InvoiceController) ProcessPayment(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	var payload ProcessPaymentPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "valid payment amount is required")
		return
	}

	invoice, err := ctl.InvoiceSvc.ProcessPayment(id, payload.Amount, payload.PaymentMode)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, invoice)
}
