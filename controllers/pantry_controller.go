package controllers

import (
	"net/http"

	"havana-backend/models"
	"havana-backend/services"
	"havana-backend/utils"

	"github.com/gin-gonic/gin"
)

// ---------------------------
// Payload / DTOs
// ---------------------------

type AdjustStockPayload struct {
	Quantity  int    `json:"quantity" binding:"required"`
	Operation string `json:"operation" binding:"required"` // add / subtract
}

type UpdateOrderStatusPayload struct {
	Status string `json:"status" binding:"required"`
}

type FulfillOrderPayload struct {
	NewAmount   float64 `json:"newAmount" binding:"required"`
	FulfilledBy string  `json:"fulfilledBy"`
	Notes       string  `json:"notes"`
}

type VendorPaymentPayload struct {
	PaymentStatus string  `json:"paymentStatus" binding:"required"`
	PaidAmount    float64 `json:"paidAmount"`
	PaymentMethod string  `json:"paymentMethod"`
	TransactionID string  `json:"transactionId"`
	Notes         string  `json:"notes"`
}

// ---------------------------
// Controller
// ---------------------------

type PantryController struct {
	PantrySvc *services.PantryService
}

func NewPantryController(svc *services.PantryService) *PantryController {
	return &PantryController{PantrySvc: svc}
}

// ----------------------------------------------------
// Pantry items
// ----------------------------------------------------

// GET /api/pantry/items
func (ctl *PantryController) GetAllItems(c *gin.Context) {
	items, err := ctl.PantrySvc.ListItems()
	if err != nil {
		respondServiceError(c, err)
		return
	}

	type itemView struct {
		models.PantryItem
		IsLowStock bool `json:"isLowStock"`
	}
	views := make([]itemView, len(items))
	for i, item := range items {
		views[i] = itemView{PantryItem: item, IsLowStock: item.IsLowStock()}
	}
	utils.JSONSuccess(c, http.StatusOK, views)
}

// GET /api/pantry/items/low-stock
func (ctl *PantryController) GetLowStockItems(c *gin.Context) {
	items, err := ctl.PantrySvc.LowStockItems()
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, items)
}

// GET /api/pantry/items/low-stock/report
func (ctl *PantryController) GetLowStockReport(c *gin.Context) {
	report, err := ctl.PantrySvc.BuildLowStockReport()
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, report)
}

// POST /api/pantry/items
func (ctl *PantryController) CreateItem(c *gin.Context) {
	var item models.PantryItem
	if err := c.ShouldBindJSON(&item); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid request payload")
		return
	}
	if err := ctl.PantrySvc.CreateItem(&item); err != nil {
		if isDuplicateKeyError(err) {
			utils.JSONError(c, http.StatusConflict, "item with this name already exists")
			return
		}
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusCreated, item)
}

// PUT /api/pantry/items/:id
func (ctl *PantryController) UpdateItem(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	var payload services.UpdateItemInput
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid request payload")
		return
	}
	item, err := ctl.PantrySvc.UpdateItem(id, payload)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, item)
}

// DELETE /api/pantry/items/:id
func (ctl *PantryController) DeleteItem(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	if err := ctl.PantrySvc.DeleteItem(id); err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONMessage(c, http.StatusOK, "Pantry item deleted")
}

// PATCH /api/pantry/items/:id/stock
func (ctl *PantryController) AdjustStock(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	var payload AdjustStockPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "quantity and operation are required")
		return
	}
	item, err := ctl.PantrySvc.AdjustStock(id, payload.Quantity, payload.Operation)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, item)
}

// ----------------------------------------------------
// Pantry orders
// ----------------------------------------------------

// POST /api/pantry/orders
func (ctl *PantryController) CreateOrder(c *gin.Context) {
	var payload services.CreateOrderInput
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid request payload")
		return
	}

	result, err := ctl.PantrySvc.CreateOrder(payload)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"success":         true,
		"order":           result.Order,
		"outOfStockItems": result.OutOfStockItems,
		"autoVendorOrder": result.AutoVendorOrder,
		"message":         result.Message,
	})
}

// GET /api/pantry/orders?orderType=&status=
func (ctl *PantryController) GetOrders(c *gin.Context) {
	orders, err := ctl.PantrySvc.ListOrders(c.Query("orderType"), c.Query("status"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, orders)
}

// GET /api/pantry/orders/:id
func (ctl *PantryController) GetOrder(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	order, err := ctl.PantrySvc.GetOrder(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, order)
}

// PUT /api/pantry/orders/:id/status
func (ctl *PantryController) UpdateOrderStatus(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	var payload UpdateOrderStatusPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "status is required")
		return
	}
	order, err := ctl.PantrySvc.UpdateOrderStatus(id, payload.Status)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, order)
}

// DELETE /api/pantry/orders/:id
func (ctl *PantryController) DeleteOrder(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	if err := ctl.PantrySvc.DeleteOrder(id); err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONMessage(c, http.StatusOK, "Pantry order deleted successfully")
}

// POST /api/pantry/orders/:id/fulfill
func (ctl *PantryController) FulfillOrder(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	var payload FulfillOrderPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "newAmount is required")
		return
	}
	order, err := ctl.PantrySvc.FulfillVendorOrder(id, payload.NewAmount, payload.FulfilledBy, payload.Notes)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":     true,
		"order":       order,
		"fulfillment": order.Fulfillment,
	})
}

// PUT /api/pantry/orders/:id/payment-status
func (ctl *PantryController) UpdatePaymentStatus(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	var payload VendorPaymentPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "paymentStatus is required")
		return
	}

	order, err := ctl.PantrySvc.UpdateVendorPaymentStatus(id, payload.PaymentStatus, models.OrderPaymentDetails{
		PaidAmount:    payload.PaidAmount,
		PaymentMethod: payload.PaymentMethod,
		TransactionID: payload.TransactionID,
		Notes:         payload.Notes,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, order)
}

// ----------------------------------------------------
// Vendor insight
// ----------------------------------------------------

// GET /api/pantry/vendors/suggested
func (ctl *PantryController) GetSuggestedVendors(c *gin.Context) {
	vendors, err := ctl.PantrySvc.SuggestedVendors()
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, vendors)
}

// GET /api/pantry/vendors/:id/analytics
func (ctl *PantryController) GetVendorAnalytics(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	analytics, err := ctl.PantrySvc.GetVendorAnalytics(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, analytics)
}
