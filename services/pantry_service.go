package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"havana-backend/models"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// PantryService owns pantry stock and the transfer orders moving it between
// pantry, kitchen and vendors.
type PantryService struct {
	DB       *gorm.DB
	Notifier *Notifier
}

func NewPantryService(db *gorm.DB, notifier *Notifier) *PantryService {
	return &PantryService{DB: db, Notifier: notifier}
}

// ---------------- Pantry items ----------------

func (s *PantryService) ListItems() ([]models.PantryItem, error) {
	var items []models.PantryItem
	if err := s.DB.Order("name ASC").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (s *PantryService) LowStockItems() ([]models.PantryItem, error) {
	var items []models.PantryItem
	err := s.DB.Where("stock_quantity <= ?", models.LowStockThreshold).
		Order("name ASC").Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (s *PantryService) CreateItem(item *models.PantryItem) error {
	return s.DB.Create(item).Error
}

// UpdateItemInput carries the editable catalog fields; nil means leave
// unchanged.
type UpdateItemInput struct {
	Name          *string  `json:"name"`
	Category      *string  `json:"category"`
	Price         *float64 `json:"price"`
	CostPerUnit   *float64 `json:"costPerUnit"`
	Description   *string  `json:"description"`
	StockQuantity *int     `json:"stockQuantity"`
	MinStockLevel *int     `json:"minStockLevel"`
	Unit          *string  `json:"unit"`
	IsAvailable   *bool    `json:"isAvailable"`
}

func (s *PantryService) UpdateItem(id uint, in UpdateItemInput) (*models.PantryItem, error) {
	item, err := s.GetItem(id)
	if err != nil {
		return nil, err
	}
	if in.Name != nil {
		item.Name = *in.Name
	}
	if in.Category != nil {
		item.Category = *in.Category
	}
	if in.Price != nil {
		item.Price = *in.Price
	}
	if in.CostPerUnit != nil {
		item.CostPerUnit = *in.CostPerUnit
	}
	if in.Description != nil {
		item.Description = *in.Description
	}
	if in.StockQuantity != nil {
		item.StockQuantity = *in.StockQuantity
	}
	if in.MinStockLevel != nil {
		item.MinStockLevel = *in.MinStockLevel
	}
	if in.Unit != nil {
		item.Unit = *in.Unit
	}
	if in.IsAvailable != nil {
		item.IsAvailable = *in.IsAvailable
	}
	if err := s.DB.Save(item).Error; err != nil {
		return nil, err
	}
	return item, nil
}

func (s *PantryService) DeleteItem(id uint) error {
	res := s.DB.Delete(&models.PantryItem{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return NotFoundf("pantry item %d", id)
	}
	return nil
}

func (s *PantryService) GetItem(id uint) (*models.PantryItem, error) {
	var item models.PantryItem
	if err := s.DB.First(&item, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NotFoundf("pantry item %d", id)
		}
		return nil, err
	}
	return &item, nil
}

// AdjustStock adds or subtracts quantity on an item. Subtraction floors at
// zero rather than erroring; this is a manual correction endpoint, not a
// transfer.
func (s *PantryService) AdjustStock(id uint, quantity int, operation string) (*models.PantryItem, error) {
	item, err := s.GetItem(id)
	if err != nil {
		return nil, err
	}
	switch operation {
	case "add":
		item.StockQuantity += quantity
	case "subtract":
		item.StockQuantity -= quantity
		if item.StockQuantity < 0 {
			item.StockQuantity = 0
		}
	default:
		return nil, Validationf("unknown stock operation %q", operation)
	}
	if err := s.DB.Save(item).Error; err != nil {
		return nil, err
	}
	return item, nil
}

// LowStockLine is one entry in the reorder report.
type LowStockLine struct {
	Name          string  `json:"name"`
	Category      string  `json:"category"`
	CurrentStock  int     `json:"currentStock"`
	MinStockLevel int     `json:"minStockLevel"`
	Unit          string  `json:"unit"`
	Shortfall     int     `json:"shortfall"`
	EstimatedCost float64 `json:"estimatedCost"`
	TotalCost     float64 `json:"totalCost"`
}

// LowStockReport prices the restock of every item at or below the threshold.
type LowStockReport struct {
	ReportNumber       string         `json:"reportNumber"`
	GeneratedAt        time.Time      `json:"generatedAt"`
	Items              []LowStockLine `json:"items"`
	TotalItems         int            `json:"totalItems"`
	TotalEstimatedCost float64        `json:"totalEstimatedCost"`
}

func (s *PantryService) BuildLowStockReport() (*LowStockReport, error) {
	items, err := s.LowStockItems()
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, NotFoundf("no low stock items found")
	}

	now := time.Now()
	report := &LowStockReport{
		ReportNumber: fmt.Sprintf("LSI-%d", now.UnixMilli()),
		GeneratedAt:  now,
		TotalItems:   len(items),
	}
	for _, item := range items {
		shortfall := models.LowStockThreshold - item.StockQuantity
		if shortfall < 0 {
			shortfall = 0
		}
		line := LowStockLine{
			Name:          item.Name,
			Category:      item.Category,
			CurrentStock:  item.StockQuantity,
			MinStockLevel: models.LowStockThreshold,
			Unit:          item.Unit,
			Shortfall:     shortfall,
			EstimatedCost: item.CostPerUnit,
			TotalCost:     float64(shortfall) * item.CostPerUnit,
		}
		report.Items = append(report.Items, line)
		report.TotalEstimatedCost += line.TotalCost
	}
	return report, nil
}

// ---------------- Transfer orders ----------------

// CreateOrderInput carries a transfer request.
type CreateOrderInput struct {
	OrderType           string             `json:"orderType"`
	Items               []models.OrderItem `json:"items"`
	TotalAmount         float64            `json:"totalAmount"`
	VendorID            *uint              `json:"vendorId"`
	PackagingCharge     float64            `json:"packagingCharge"`
	LabourCharge        float64            `json:"labourCharge"`
	SpecialInstructions string             `json:"specialInstructions"`
	OrderedBy           string             `json:"orderedBy"`
}

// OrderResult is the outcome of CreateOrder: the saved order plus an explicit
// report of any shortfall and the vendor order spawned to cover it.
type OrderResult struct {
	Order           *models.PantryOrder     `json:"order"`
	OutOfStockItems []models.OutOfStockItem `json:"outOfStockItems,omitempty"`
	AutoVendorOrder *models.PantryOrder     `json:"autoVendorOrder,omitempty"`
	Message         string                  `json:"message"`
}

// CreateOrder creates a transfer order with kind-specific stock handling.
// Kitchen to Pantry tolerates shortfalls and spawns a vendor order for them;
// Pantry to Kitchen validates eagerly and fulfils immediately; vendor orders
// are plain procurement records until delivery.
func (s *PantryService) CreateOrder(in CreateOrderInput) (*OrderResult, error) {
	switch in.OrderType {
	case models.OrderTypeKitchenToPantry:
		return s.createKitchenToPantryOrder(in)
	case models.OrderTypePantryToKitchen:
		return s.createPantryToKitchenOrder(in)
	case models.OrderTypePantryToVendor:
		return s.createVendorOrder(in)
	default:
		return nil, Validationf("unknown order type %q", in.OrderType)
	}
}

func (s *PantryService) createKitchenToPantryOrder(in CreateOrderInput) (*OrderResult, error) {
	var outOfStock []models.OutOfStockItem
	orderItems := make([]models.OrderItem, 0, len(in.Items))
	var totalAmount float64

	for _, req := range in.Items {
		item, err := s.GetItem(req.ItemID)
		if err != nil {
			return nil, err
		}

		line := req
		line.Name = item.Name
		line.Unit = item.Unit

		if item.StockQuantity < req.Quantity {
			needed := req.Quantity - item.StockQuantity
			minLevel := item.MinStockLevel
			if minLevel == 0 {
				minLevel = 10
			}
			if needed < minLevel {
				needed = minLevel
			}
			outOfStock = append(outOfStock, models.OutOfStockItem{
				ItemID:            item.ID,
				Name:              item.Name,
				RequestedQuantity: req.Quantity,
				AvailableQuantity: item.StockQuantity,
				NeededQuantity:    needed,
				EstimatedPrice:    item.Price,
			})
			line.AvailableQuantity = item.StockQuantity
			line.IsOutOfStock = item.StockQuantity == 0
			totalAmount += float64(item.StockQuantity) * req.UnitPrice
		} else {
			line.AvailableQuantity = req.Quantity
			totalAmount += float64(req.Quantity) * req.UnitPrice
		}
		orderItems = append(orderItems, line)
	}

	snapshot, err := models.MarshalOriginalRequest(models.OriginalRequestSnapshot{
		Items:           orderItems,
		OutOfStockItems: outOfStock,
	})
	if err != nil {
		return nil, err
	}

	order := models.PantryOrder{
		Items:               orderItems,
		TotalAmount:         totalAmount,
		PackagingCharge:     in.PackagingCharge,
		LabourCharge:        in.LabourCharge,
		Status:              models.OrderStatusPending,
		OrderType:           models.OrderTypeKitchenToPantry,
		SpecialInstructions: in.SpecialInstructions,
		OrderedBy:           in.OrderedBy,
		PaymentStatus:       models.OrderPaymentPending,
		OriginalRequest:     snapshot,
	}
	if err := s.DB.Create(&order).Error; err != nil {
		return nil, fmt.Errorf("create pantry order: %w", err)
	}

	result := &OrderResult{Order: &order, OutOfStockItems: outOfStock, Message: "Order created successfully"}
	if len(outOfStock) > 0 {
		result.AutoVendorOrder = s.autoCreateVendorOrder(outOfStock, in.OrderedBy)
		result.Message = fmt.Sprintf(
			"Order created with available items. Vendor order auto-created for %d out-of-stock items.",
			len(outOfStock))
	}

	s.Notifier.Emit(EventPantryOrderCreated, &order)
	return result, nil
}

func (s *PantryService) createPantryToKitchenOrder(in CreateOrderInput) (*OrderResult, error) {
	// Eager validation: one short item rejects the whole order before any
	// write.
	items := make([]*models.PantryItem, 0, len(in.Items))
	for _, req := range in.Items {
		item, err := s.GetItem(req.ItemID)
		if err != nil {
			return nil, err
		}
		if item.StockQuantity < req.Quantity {
			return nil, &InsufficientStockError{
				ItemName:  item.Name,
				Available: item.StockQuantity,
				Requested: req.Quantity,
			}
		}
		items = append(items, item)
	}

	now := time.Now()
	orderItems := make([]models.OrderItem, len(in.Items))
	for i, req := range in.Items {
		req.Name = items[i].Name
		req.Unit = items[i].Unit
		req.AvailableQuantity = req.Quantity
		orderItems[i] = req
	}

	order := models.PantryOrder{
		Items:               orderItems,
		TotalAmount:         in.TotalAmount,
		PackagingCharge:     in.PackagingCharge,
		LabourCharge:        in.LabourCharge,
		Status:              models.OrderStatusFulfilled,
		OrderType:           models.OrderTypePantryToKitchen,
		SpecialInstructions: in.SpecialInstructions,
		OrderedBy:           in.OrderedBy,
		PaymentStatus:       models.OrderPaymentPending,
		DeliveredAt:         &now,
		Fulfillment: &models.OrderFulfillment{
			FulfilledAt: &now,
			FulfilledBy: in.OrderedBy,
			Notes:       "Automatically fulfilled - items sent to kitchen store",
		},
	}
	if err := s.DB.Create(&order).Error; err != nil {
		return nil, fmt.Errorf("create pantry order: %w", err)
	}

	// Immediate fulfilment: debit pantry, credit kitchen store, and record
	// the delivered counterpart order. Secondary failures are logged, not
	// surfaced; the repair pass reconciles later.
	for i, req := range in.Items {
		if err := s.debitPantryStock(req.ItemID, req.Quantity); err != nil {
			log.Error().Uint("item", req.ItemID).Err(err).Msg("pantry debit failed")
			continue
		}
		if err := s.creditKitchenStore(items[i].Name, items[i].Category, items[i].Unit, req.Quantity); err != nil {
			log.Error().Str("item", items[i].Name).Err(err).Msg("kitchen store credit failed")
		}
	}

	kitchenOrder := models.KitchenOrder{
		Items:               orderItems,
		TotalAmount:         order.TotalAmount,
		Status:              models.OrderStatusDelivered,
		OrderType:           models.KitchenOrderTypePantryToKitchen,
		SpecialInstructions: order.SpecialInstructions,
		OrderedBy:           order.OrderedBy,
		PantryOrderID:       &order.ID,
		ReceivedAt:          &now,
	}
	if err := s.DB.Create(&kitchenOrder).Error; err != nil {
		log.Error().Uint("pantryOrder", order.ID).Err(err).Msg("counterpart kitchen order create failed")
	} else {
		order.KitchenOrderID = &kitchenOrder.ID
		if err := s.DB.Model(&order).Update("kitchen_order_id", kitchenOrder.ID).Error; err != nil {
			log.Warn().Uint("pantryOrder", order.ID).Err(err).Msg("kitchen order back-link failed")
		}
		s.Notifier.Emit(EventKitchenOrderCreated, &kitchenOrder)
	}

	s.Notifier.Emit(EventPantryOrderCreated, &order)
	return &OrderResult{Order: &order, Message: "Order created successfully"}, nil
}

func (s *PantryService) createVendorOrder(in CreateOrderInput) (*OrderResult, error) {
	orderItems := make([]models.OrderItem, len(in.Items))
	for i, req := range in.Items {
		if item, err := s.GetItem(req.ItemID); err == nil {
			req.Name = item.Name
			req.Unit = item.Unit
		}
		orderItems[i] = req
	}

	totalAmount := in.TotalAmount
	if totalAmount == 0 {
		for _, it := range orderItems {
			totalAmount += float64(it.Quantity) * it.UnitPrice
		}
	}

	order := models.PantryOrder{
		Items:               orderItems,
		TotalAmount:         totalAmount,
		PackagingCharge:     in.PackagingCharge,
		LabourCharge:        in.LabourCharge,
		VendorID:            in.VendorID,
		Status:              models.OrderStatusPending,
		OrderType:           models.OrderTypePantryToVendor,
		SpecialInstructions: in.SpecialInstructions,
		OrderedBy:           in.OrderedBy,
		PaymentStatus:       models.OrderPaymentPending,
	}
	if err := s.DB.Create(&order).Error; err != nil {
		return nil, fmt.Errorf("create vendor order: %w", err)
	}

	s.Notifier.Emit(EventPantryOrderCreated, &order)
	return &OrderResult{Order: &order, Message: "Order created successfully"}, nil
}

// VendorHistory summarizes a vendor's procurement track record.
type VendorHistory struct {
	TotalOrders     int
	FulfilledOrders int
}

// FulfillmentRate is fulfilled/total, zero for a vendor with no history.
func (h VendorHistory) FulfillmentRate() float64 {
	if h.TotalOrders == 0 {
		return 0
	}
	return float64(h.FulfilledOrders) / float64(h.TotalOrders)
}

// VendorScore weights reliability over experience: 0.7 on the fulfillment
// rate plus 0.3 on order volume capped at ten orders.
func VendorScore(h VendorHistory) float64 {
	experience := float64(h.TotalOrders) / 10
	if experience > 1 {
		experience = 1
	}
	return h.FulfillmentRate()*0.7 + experience*0.3
}

// BestVendor picks the highest-scoring vendor; ties keep the earlier entry.
func BestVendor(vendors []models.Vendor, history map[uint]VendorHistory) (models.Vendor, float64, bool) {
	if len(vendors) == 0 {
		return models.Vendor{}, 0, false
	}
	best := vendors[0]
	bestScore := -1.0
	for _, v := range vendors {
		if score := VendorScore(history[v.ID]); score > bestScore {
			bestScore = score
			best = v
		}
	}
	return best, bestScore, true
}

func (s *PantryService) vendorHistory(vendorID uint) (VendorHistory, error) {
	var h VendorHistory
	base := s.DB.Model(&models.PantryOrder{}).
		Where("vendor_id = ? AND order_type = ?", vendorID, models.OrderTypePantryToVendor)

	var total, fulfilled int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return h, err
	}
	if err := base.Session(&gorm.Session{}).Where("status = ?", models.OrderStatusFulfilled).Count(&fulfilled).Error; err != nil {
		return h, err
	}
	h.TotalOrders = int(total)
	h.FulfilledOrders = int(fulfilled)
	return h, nil
}

// autoCreateVendorOrder spawns a procurement order for shortfall items with
// the best-scoring active vendor. Entirely best-effort: any failure is logged
// and the primary order proceeds without a vendor order.
func (s *PantryService) autoCreateVendorOrder(outOfStock []models.OutOfStockItem, orderedBy string) *models.PantryOrder {
	var vendors []models.Vendor
	if err := s.DB.Where("is_active = ?", true).Order("id ASC").Find(&vendors).Error; err != nil {
		log.Error().Err(err).Msg("auto vendor order: vendor lookup failed")
		return nil
	}
	if len(vendors) == 0 {
		log.Info().Msg("auto vendor order: no active vendor found")
		return nil
	}

	history := make(map[uint]VendorHistory, len(vendors))
	for _, v := range vendors {
		h, err := s.vendorHistory(v.ID)
		if err != nil {
			log.Error().Uint("vendor", v.ID).Err(err).Msg("auto vendor order: history lookup failed")
			return nil
		}
		history[v.ID] = h
	}
	vendor, score, _ := BestVendor(vendors, history)

	items := make([]models.OrderItem, len(outOfStock))
	names := make([]string, len(outOfStock))
	var totalAmount float64
	for i, oos := range outOfStock {
		items[i] = models.OrderItem{
			ItemID:    oos.ItemID,
			Name:      oos.Name,
			Quantity:  oos.NeededQuantity,
			UnitPrice: oos.EstimatedPrice,
		}
		names[i] = oos.Name
		totalAmount += float64(oos.NeededQuantity) * oos.EstimatedPrice
	}

	order := models.PantryOrder{
		Items:       items,
		TotalAmount: totalAmount,
		VendorID:    &vendor.ID,
		Status:      models.OrderStatusPending,
		OrderType:   models.OrderTypePantryToVendor,
		SpecialInstructions: fmt.Sprintf(
			"Auto-generated order for out-of-stock items: %s. Selected vendor based on %.1f%% performance score.",
			strings.Join(names, ", "), score*100),
		OrderedBy:     orderedBy,
		PaymentStatus: models.OrderPaymentPending,
	}
	if err := s.DB.Create(&order).Error; err != nil {
		log.Error().Err(err).Msg("auto vendor order: create failed")
		return nil
	}

	log.Info().Uint("order", order.ID).Str("vendor", vendor.Name).
		Float64("score", score).Msg("auto-created vendor order")
	s.Notifier.Emit(EventPantryOrderCreated, &order)
	return &order
}

// UpdateOrderStatus transitions an order and runs the stock movements the
// transition implies.
func (s *PantryService) UpdateOrderStatus(orderID uint, status string) (*models.PantryOrder, error) {
	if !models.ValidOrderStatus(status) {
		return nil, Validationf("invalid order status %q", status)
	}

	order, err := s.GetOrder(orderID)
	if err != nil {
		return nil, err
	}
	if models.TerminalOrderStatus(order.Status) {
		return nil, Validationf("order %d is already %s", orderID, order.Status)
	}
	order.Status = status

	switch {
	case order.OrderType == models.OrderTypeKitchenToPantry &&
		(status == models.OrderStatusApproved || status == models.OrderStatusFulfilled):
		if err := s.fulfillKitchenToPantry(order); err != nil {
			return nil, err
		}
	case order.OrderType == models.OrderTypePantryToVendor &&
		(status == models.OrderStatusDelivered || status == models.OrderStatusFulfilled):
		s.creditVendorDelivery(order)
	}

	if err := s.DB.Save(order).Error; err != nil {
		return nil, fmt.Errorf("save pantry order: %w", err)
	}

	s.Notifier.Emit(EventPantryOrderUpdated, order)
	return order, nil
}

// fulfillKitchenToPantry moves whatever the pantry can actually serve: per
// item the transfer clamps to min(stock, requested), the pantry is debited,
// the kitchen store credited, and the linked kitchen order is created or
// updated as delivered with the processed quantities.
func (s *PantryService) fulfillKitchenToPantry(order *models.PantryOrder) error {
	now := time.Now()
	var processed []models.OrderItem
	var processedAmount float64

	for _, line := range order.Items {
		item, err := s.GetItem(line.ItemID)
		if err != nil {
			log.Warn().Uint("item", line.ItemID).Err(err).Msg("fulfil: pantry item missing, skipping")
			continue
		}

		transferable := line.Quantity
		if item.StockQuantity < transferable {
			transferable = item.StockQuantity
		}
		if transferable <= 0 {
			continue
		}

		if err := s.debitPantryStock(item.ID, transferable); err != nil {
			return fmt.Errorf("debit pantry stock for %s: %w", item.Name, err)
		}
		if err := s.creditKitchenStore(item.Name, item.Category, item.Unit, transferable); err != nil {
			return fmt.Errorf("credit kitchen store for %s: %w", item.Name, err)
		}

		processed = append(processed, models.OrderItem{
			ItemID:    item.ID,
			Name:      item.Name,
			Unit:      item.Unit,
			Quantity:  transferable,
			UnitPrice: line.UnitPrice,
		})
		processedAmount += float64(transferable) * line.UnitPrice
	}

	if order.KitchenOrderID != nil {
		// The delivered record carries the processed lines, not the request.
		var kitchenOrder models.KitchenOrder
		if err := s.DB.First(&kitchenOrder, *order.KitchenOrderID).Error; err != nil {
			log.Warn().Uint("kitchenOrder", *order.KitchenOrderID).Err(err).Msg("linked kitchen order lookup failed")
		} else {
			kitchenOrder.Status = models.OrderStatusDelivered
			kitchenOrder.ReceivedAt = &now
			kitchenOrder.Items = processed
			kitchenOrder.TotalAmount = processedAmount
			if err := s.DB.Save(&kitchenOrder).Error; err != nil {
				log.Warn().Uint("kitchenOrder", kitchenOrder.ID).Err(err).Msg("linked kitchen order update failed")
			}
		}
	} else {
		instructions := order.SpecialInstructions
		if instructions == "" {
			instructions = fmt.Sprintf("Items transferred from pantry order %d", order.ID)
		}
		kitchenOrder := models.KitchenOrder{
			Items:               processed,
			TotalAmount:         processedAmount,
			Status:              models.OrderStatusDelivered,
			OrderType:           models.KitchenOrderTypeKitchenToPantry,
			SpecialInstructions: instructions,
			OrderedBy:           order.OrderedBy,
			PantryOrderID:       &order.ID,
			ReceivedAt:          &now,
		}
		if err := s.DB.Create(&kitchenOrder).Error; err != nil {
			log.Warn().Uint("pantryOrder", order.ID).Err(err).Msg("counterpart kitchen order create failed")
		} else {
			order.KitchenOrderID = &kitchenOrder.ID
			s.Notifier.Emit(EventKitchenOrderCreated, &kitchenOrder)
		}
	}

	order.Status = models.OrderStatusFulfilled
	order.DeliveredAt = &now
	return nil
}

// creditVendorDelivery books the delivered goods into pantry stock. The
// vendor delivers what was ordered; there is no per-line delivery tracking
// beyond order status.
func (s *PantryService) creditVendorDelivery(order *models.PantryOrder) {
	now := time.Now()
	order.DeliveredAt = &now
	for _, line := range order.Items {
		if err := s.creditPantryStock(line.ItemID, line.Quantity); err != nil {
			log.Warn().Uint("item", line.ItemID).Err(err).Msg("vendor delivery credit failed")
		}
	}
}

// FulfillVendorOrder settles a vendor order against the delivered goods,
// recording the amount revision.
func (s *PantryService) FulfillVendorOrder(orderID uint, newAmount float64, fulfilledBy, notes string) (*models.PantryOrder, error) {
	order, err := s.GetOrder(orderID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	order.Fulfillment = &models.OrderFulfillment{
		PreviousAmount: order.TotalAmount,
		NewAmount:      newAmount,
		Difference:     newAmount - order.TotalAmount,
		FulfilledAt:    &now,
		FulfilledBy:    fulfilledBy,
		Notes:          notes,
	}
	order.Status = models.OrderStatusFulfilled
	order.TotalAmount = newAmount

	if err := s.DB.Save(order).Error; err != nil {
		return nil, fmt.Errorf("save pantry order: %w", err)
	}
	s.Notifier.Emit(EventPantryOrderUpdated, order)
	return order, nil
}

// UpdateVendorPaymentStatus records a payment against a vendor order. Only
// vendor orders carry payment tracking.
func (s *PantryService) UpdateVendorPaymentStatus(orderID uint, paymentStatus string, details models.OrderPaymentDetails) (*models.PantryOrder, error) {
	order, err := s.GetOrder(orderID)
	if err != nil {
		return nil, err
	}
	if order.OrderType != models.OrderTypePantryToVendor {
		return nil, Validationf("payment status can only be updated for vendor orders")
	}

	if paymentStatus == models.OrderPaymentPaid || paymentStatus == models.OrderPaymentPartial {
		details.PaidAt = ptrNow()
	} else {
		details.PaidAt = nil
	}
	order.PaymentStatus = paymentStatus
	order.PaymentDetails = &details

	if err := s.DB.Save(order).Error; err != nil {
		return nil, fmt.Errorf("save pantry order: %w", err)
	}
	return order, nil
}

// ListOrders returns orders newest first, optionally filtered, with snapshot
// fallbacks applied for items deleted from the catalog.
func (s *PantryService) ListOrders(orderType, status string) ([]models.PantryOrder, error) {
	q := s.DB.Preload("Vendor").Order("created_at DESC")
	if orderType != "" {
		q = q.Where("order_type = ?", orderType)
	}
	if status != "" {
		q = q.Where("status = ?", status)
	}
	var orders []models.PantryOrder
	if err := q.Find(&orders).Error; err != nil {
		return nil, err
	}
	for i := range orders {
		s.resolveItemSnapshots(&orders[i])
	}
	return orders, nil
}

func (s *PantryService) GetOrder(id uint) (*models.PantryOrder, error) {
	var order models.PantryOrder
	if err := s.DB.Preload("Vendor").First(&order, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NotFoundf("pantry order %d", id)
		}
		return nil, err
	}
	s.resolveItemSnapshots(&order)
	return &order, nil
}

func (s *PantryService) DeleteOrder(id uint) error {
	res := s.DB.Delete(&models.PantryOrder{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return NotFoundf("pantry order %d", id)
	}
	return nil
}

// resolveItemSnapshots backfills names and units for order lines whose
// catalog item was deleted, preferring the order's own OriginalRequest
// snapshot over a generic placeholder.
func (s *PantryService) resolveItemSnapshots(order *models.PantryOrder) {
	snapshot, _ := models.UnmarshalOriginalRequest(order.OriginalRequest)
	for i := range order.Items {
		line := &order.Items[i]
		if line.Name != "" {
			continue
		}
		var found bool
		for _, orig := range snapshot.Items {
			if orig.ItemID == line.ItemID && orig.Name != "" {
				line.Name = orig.Name
				if line.Unit == "" {
					line.Unit = orig.Unit
				}
				found = true
				break
			}
		}
		if !found {
			line.Name = "Deleted Item"
			if line.Unit == "" {
				line.Unit = "pcs"
			}
		}
	}
}

// ---------------- Vendor insight reads ----------------

// VendorStats decorates a vendor with its order history figures.
type VendorStats struct {
	Vendor          models.Vendor `json:"vendor"`
	TotalOrders     int           `json:"totalOrders"`
	FulfilledOrders int           `json:"fulfilledOrders"`
	TotalAmount     float64       `json:"totalAmount"`
	AvgAmount       float64       `json:"avgAmount"`
	FulfillmentRate float64       `json:"fulfillmentRate"`
}

// SuggestedVendors ranks active vendors by fulfillment rate then volume.
func (s *PantryService) SuggestedVendors() ([]VendorStats, error) {
	var vendors []models.Vendor
	if err := s.DB.Where("is_active = ?", true).Order("name ASC").Find(&vendors).Error; err != nil {
		return nil, err
	}

	stats := make([]VendorStats, 0, len(vendors))
	for _, v := range vendors {
		var orders []models.PantryOrder
		err := s.DB.Where("vendor_id = ? AND order_type = ?", v.ID, models.OrderTypePantryToVendor).
			Find(&orders).Error
		if err != nil {
			return nil, err
		}

		st := VendorStats{Vendor: v, TotalOrders: len(orders)}
		for _, o := range orders {
			st.TotalAmount += o.TotalAmount
			if o.Status == models.OrderStatusFulfilled {
				st.FulfilledOrders++
			}
		}
		if st.TotalOrders > 0 {
			st.AvgAmount = st.TotalAmount / float64(st.TotalOrders)
			st.FulfillmentRate = float64(st.FulfilledOrders) / float64(st.TotalOrders) * 100
		}
		stats = append(stats, st)
	}

	// Better fulfillment rate first, then the more experienced vendor.
	for i := 1; i < len(stats); i++ {
		for j := i; j > 0; j-- {
			a, b := stats[j-1], stats[j]
			if b.FulfillmentRate > a.FulfillmentRate ||
				(b.FulfillmentRate == a.FulfillmentRate && b.TotalOrders > a.TotalOrders) {
				stats[j-1], stats[j] = b, a
			} else {
				break
			}
		}
	}
	return stats, nil
}

// VendorAnalytics is the per-vendor order drill-down.
type VendorAnalytics struct {
	VendorID         uint                 `json:"vendorId"`
	TotalOrders      int                  `json:"totalOrders"`
	TotalAmount      float64              `json:"totalAmount"`
	TotalItems       int                  `json:"totalItems"`
	StatusBreakdown  map[string]int       `json:"statusBreakdown"`
	PaymentBreakdown map[string]int       `json:"paymentBreakdown"`
	RecentOrders     []models.PantryOrder `json:"recentOrders"`
}

func (s *PantryService) GetVendorAnalytics(vendorID uint) (*VendorAnalytics, error) {
	var orders []models.PantryOrder
	err := s.DB.Where("vendor_id = ?", vendorID).Order("created_at DESC").Find(&orders).Error
	if err != nil {
		return nil, err
	}

	analytics := &VendorAnalytics{
		VendorID:         vendorID,
		TotalOrders:      len(orders),
		StatusBreakdown:  map[string]int{},
		PaymentBreakdown: map[string]int{},
	}
	for _, o := range orders {
		analytics.TotalAmount += o.TotalAmount
		analytics.TotalItems += len(o.Items)
		analytics.StatusBreakdown[o.Status]++
		analytics.PaymentBreakdown[o.PaymentStatus]++
	}
	if len(orders) > 10 {
		orders = orders[:10]
	}
	analytics.RecentOrders = orders
	return analytics, nil
}

// ---------------- Stock primitives ----------------

// debitPantryStock decrements stock, guarded so a concurrent transfer cannot
// drive it negative.
func (s *PantryService) debitPantryStock(itemID uint, quantity int) error {
	res := s.DB.Model(&models.PantryItem{}).
		Where("id = ? AND stock_quantity >= ?", itemID, quantity).
		Update("stock_quantity", gorm.Expr("stock_quantity - ?", quantity))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return Validationf("stock changed concurrently for item %d", itemID)
	}
	return nil
}

func (s *PantryService) creditPantryStock(itemID uint, quantity int) error {
	res := s.DB.Model(&models.PantryItem{}).
		Where("id = ?", itemID).
		Update("stock_quantity", gorm.Expr("stock_quantity + ?", quantity))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return NotFoundf("pantry item %d", itemID)
	}
	return nil
}

// creditKitchenStore increments the kitchen-side mirror entry, creating it on
// first transfer. Kitchen store entries are keyed by name.
func (s *PantryService) creditKitchenStore(name, category, unit string, quantity int) error {
	var item models.KitchenStoreItem
	err := s.DB.Where("name = ?", name).First(&item).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		if category == "" {
			category = "Food"
		}
		if unit == "" {
			unit = "pcs"
		}
		return s.DB.Create(&models.KitchenStoreItem{
			Name:     name,
			Category: category,
			Quantity: quantity,
			Unit:     unit,
		}).Error
	case err != nil:
		return err
	}
	return s.DB.Model(&item).Update("quantity", gorm.Expr("quantity + ?", quantity)).Error
}

func ptrNow() *time.Time {
	t := time.Now()
	return &t
}
