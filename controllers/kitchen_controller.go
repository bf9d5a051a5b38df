package controllers

import (
	"net/http"
	"strconv"

	"havana-backend/models"
	"havana-backend/services"
	"havana-backend/utils"

	"github.com/gin-gonic/gin"
)

type TakeOutPayload struct {
	Items []services.TakeOutLine `json:"items" binding:"required"`
	Notes string                 `json:"notes"`
}

type RestockPayload struct {
	OrderedBy string `json:"orderedBy"`
}

type KitchenController struct {
	KitchenSvc *services.KitchenOrderService
}

func NewKitchenController(svc *services.KitchenOrderService) *KitchenController {
	return &KitchenController{KitchenSvc: svc}
}

// ----------------------------------------------------
// Kitchen orders
// ----------------------------------------------------

// GET /api/kitchen/orders?status=&orderType=&page=&limit=
func (ctl *KitchenController) GetAllOrders(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	result, err := ctl.KitchenSvc.ListOrders(c.Query("status"), c.Query("orderType"), page, limit)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	// Legacy clients expect a bare array.
	if c.Query("legacy") == "true" {
		c.JSON(http.StatusOK, result.Orders)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"orders": result.Orders,
		"pagination": gin.H{
			"page":  result.Page,
			"limit": result.Limit,
			"total": result.Total,
			"pages": result.Pages,
		},
	})
}

// GET /api/kitchen/orders/:id
func (ctl *KitchenController) GetOrder(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	order, err := ctl.KitchenSvc.GetOrder(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, order)
}

// POST /api/kitchen/orders
func (ctl *KitchenController) CreateOrder(c *gin.Context) {
	var order models.KitchenOrder
	if err := c.ShouldBindJSON(&order); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid request payload")
		return
	}
	created, err := ctl.KitchenSvc.CreateOrder(&order)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusCreated, created)
}

// PUT /api/kitchen/orders/:id
func (ctl *KitchenController) UpdateOrder(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	var payload services.UpdateKitchenOrderInput
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid request payload")
		return
	}
	order, err := ctl.KitchenSvc.UpdateOrder(id, payload)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, order)
}

// DELETE /api/kitchen/orders/:id
func (ctl *KitchenController) DeleteOrder(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	if err := ctl.KitchenSvc.DeleteOrder(id); err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONMessage(c, http.StatusOK, "Kitchen order deleted successfully")
}

// POST /api/kitchen/orders/sync-missing
func (ctl *KitchenController) SyncMissingOrders(c *gin.Context) {
	created, err := ctl.KitchenSvc.SyncMissingKitchenOrders()
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":       true,
		"message":       "Synced kitchen orders",
		"createdOrders": created,
	})
}

// ----------------------------------------------------
// Kitchen store
// ----------------------------------------------------

// GET /api/kitchen/store
func (ctl *KitchenController) GetStoreItems(c *gin.Context) {
	items, err := ctl.KitchenSvc.ListStoreItems()
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, items)
}

// POST /api/kitchen/store
func (ctl *KitchenController) CreateStoreItem(c *gin.Context) {
	var item models.KitchenStoreItem
	if err := c.ShouldBindJSON(&item); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid request payload")
		return
	}
	if err := ctl.KitchenSvc.CreateStoreItem(&item); err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusCreated, item)
}

// PUT /api/kitchen/store/:id
func (ctl *KitchenController) UpdateStoreItem(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	var payload services.UpdateStoreItemInput
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid request payload")
		return
	}
	item, err := ctl.KitchenSvc.UpdateStoreItem(id, payload)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, item)
}

// DELETE /api/kitchen/store/:id
func (ctl *KitchenController) DeleteStoreItem(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	if err := ctl.KitchenSvc.DeleteStoreItem(id); err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONMessage(c, http.StatusOK, "Item deleted successfully")
}

// POST /api/kitchen/store/take-out
func (ctl *KitchenController) TakeOutItems(c *gin.Context) {
	var payload TakeOutPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "items are required")
		return
	}
	if err := ctl.KitchenSvc.TakeOutItems(payload.Items); err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONMessage(c, http.StatusOK, "Items taken out successfully")
}

// POST /api/kitchen/store/:id/order
func (ctl *KitchenController) RestockFromPantry(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	var payload RestockPayload
	_ = c.ShouldBindJSON(&payload)

	kitchenOrder, pantryOrder, err := ctl.KitchenSvc.RestockFromPantry(id, payload.OrderedBy)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":      true,
		"message":      "Orders created successfully",
		"kitchenOrder": kitchenOrder,
		"pantryOrder":  pantryOrder,
	})
}
