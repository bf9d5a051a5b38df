package services

import (
	"errors"
	"fmt"
	"math"
	"time"

	"havana-backend/models"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// kitchenToPantryStatus maps a kitchen order status to the status its linked
// pantry order should carry. Identity for the lifecycle states; anything not
// listed propagates unchanged.
var kitchenToPantryStatus = map[string]string{
	models.OrderStatusApproved:  models.OrderStatusApproved,
	models.OrderStatusPreparing: models.OrderStatusPreparing,
	models.OrderStatusReady:     models.OrderStatusReady,
	models.OrderStatusDelivered: models.OrderStatusDelivered,
}

// KitchenOrderService owns the kitchen side of transfer orders and the
// kitchen store.
type KitchenOrderService struct {
	DB       *gorm.DB
	Notifier *Notifier
}

func NewKitchenOrderService(db *gorm.DB, notifier *Notifier) *KitchenOrderService {
	return &KitchenOrderService{DB: db, Notifier: notifier}
}

// OrderPage is a paginated kitchen order listing.
type OrderPage struct {
	Orders []models.KitchenOrder `json:"orders"`
	Page   int                   `json:"page"`
	Limit  int                   `json:"limit"`
	Total  int64                 `json:"total"`
	Pages  int                   `json:"pages"`
}

// ListOrders returns kitchen orders newest first with pagination.
func (s *KitchenOrderService) ListOrders(status, orderType string, page, limit int) (*OrderPage, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 50
	}

	q := s.DB.Model(&models.KitchenOrder{})
	if status != "" {
		q = q.Where("status = ?", status)
	}
	if orderType != "" {
		q = q.Where("order_type = ?", orderType)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, err
	}

	var orders []models.KitchenOrder
	err := q.Order("created_at DESC").Offset((page - 1) * limit).Limit(limit).Find(&orders).Error
	if err != nil {
		return nil, err
	}

	return &OrderPage{
		Orders: orders,
		Page:   page,
		Limit:  limit,
		Total:  total,
		Pages:  int(math.Ceil(float64(total) / float64(limit))),
	}, nil
}

func (s *KitchenOrderService) GetOrder(id uint) (*models.KitchenOrder, error) {
	var order models.KitchenOrder
	if err := s.DB.First(&order, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NotFoundf("kitchen order %d", id)
		}
		return nil, err
	}
	return &order, nil
}

// CreateOrder saves a kitchen order. A kitchen_to_pantry request additionally
// creates the counterpart pantry order and cross-links both sides; that
// second write is best-effort.
func (s *KitchenOrderService) CreateOrder(order *models.KitchenOrder) (*models.KitchenOrder, error) {
	if order.Status == "" {
		order.Status = models.OrderStatusPending
	}
	if err := s.DB.Create(order).Error; err != nil {
		return nil, fmt.Errorf("create kitchen order: %w", err)
	}

	if order.OrderType == models.KitchenOrderTypeKitchenToPantry {
		instructions := order.SpecialInstructions
		if instructions == "" {
			instructions = fmt.Sprintf("Order from kitchen: %d", order.ID)
		}
		pantryOrder := models.PantryOrder{
			Items:               order.Items,
			TotalAmount:         order.TotalAmount,
			Status:              models.OrderStatusPending,
			OrderType:           models.OrderTypeKitchenToPantry,
			SpecialInstructions: instructions,
			OrderedBy:           order.OrderedBy,
			KitchenOrderID:      &order.ID,
			PaymentStatus:       models.OrderPaymentPending,
		}
		if err := s.DB.Create(&pantryOrder).Error; err != nil {
			log.Error().Uint("kitchenOrder", order.ID).Err(err).Msg("counterpart pantry order create failed")
		} else {
			order.PantryOrderID = &pantryOrder.ID
			if err := s.DB.Model(order).Update("pantry_order_id", pantryOrder.ID).Error; err != nil {
				log.Warn().Uint("kitchenOrder", order.ID).Err(err).Msg("pantry order back-link failed")
			}
			s.Notifier.Emit(EventPantryOrderCreated, &pantryOrder)
		}
	}

	s.Notifier.Emit(EventKitchenOrderCreated, order)
	return order, nil
}

// UpdateKitchenOrderInput carries the editable kitchen order fields; nil
// means leave unchanged.
type UpdateKitchenOrderInput struct {
	Status              *string            `json:"status"`
	Items               []models.OrderItem `json:"items"`
	TotalAmount         *float64           `json:"totalAmount"`
	SpecialInstructions *string            `json:"specialInstructions"`
	OrderedBy           *string            `json:"orderedBy"`
}

// UpdateOrder applies field updates to a kitchen order. A transition to
// delivered on a transfer order moves the stock (debit pantry, credit kitchen
// store) and the new status is synced to the linked pantry order through the
// status mapping; a missing counterpart is logged, never fatal.
func (s *KitchenOrderService) UpdateOrder(id uint, in UpdateKitchenOrderInput) (*models.KitchenOrder, error) {
	order, err := s.GetOrder(id)
	if err != nil {
		return nil, err
	}

	status := ""
	if in.Status != nil {
		status = *in.Status
		if !models.ValidOrderStatus(status) {
			return nil, Validationf("invalid order status %q", status)
		}
		order.Status = status
		if status == models.OrderStatusDelivered {
			now := time.Now()
			order.ReceivedAt = &now
		}
	}
	if in.Items != nil {
		order.Items = in.Items
	}
	if in.TotalAmount != nil {
		order.TotalAmount = *in.TotalAmount
	}
	if in.SpecialInstructions != nil {
		order.SpecialInstructions = *in.SpecialInstructions
	}
	if in.OrderedBy != nil {
		order.OrderedBy = *in.OrderedBy
	}

	if err := s.DB.Save(order).Error; err != nil {
		return nil, fmt.Errorf("update kitchen order: %w", err)
	}

	transfer := order.OrderType == models.KitchenOrderTypeKitchenToPantry ||
		order.OrderType == models.KitchenOrderTypePantryToKitchen
	if status == models.OrderStatusDelivered && transfer && len(order.Items) > 0 {
		s.moveDeliveredStock(order)
	}

	if order.OrderType == models.KitchenOrderTypePantryToKitchen && order.PantryOrderID != nil && status != "" {
		s.syncLinkedPantryOrder(*order.PantryOrderID, status)
	}

	return order, nil
}

// moveDeliveredStock debits pantry stock by item name and credits the kitchen
// store. Items the pantry cannot cover are logged and only their store credit
// proceeds, matching the one-way nature of a delivery already made.
func (s *KitchenOrderService) moveDeliveredStock(order *models.KitchenOrder) {
	for _, line := range order.Items {
		if line.Name == "" || line.Quantity <= 0 {
			log.Warn().Uint("order", order.ID).Uint("item", line.ItemID).Msg("skipping unnamed or empty order line")
			continue
		}

		res := s.DB.Model(&models.PantryItem{}).
			Where("name = ? AND stock_quantity >= ?", line.Name, line.Quantity).
			Update("stock_quantity", gorm.Expr("stock_quantity - ?", line.Quantity))
		if res.Error != nil {
			log.Error().Str("item", line.Name).Err(res.Error).Msg("pantry debit failed")
		} else if res.RowsAffected == 0 {
			log.Warn().Str("item", line.Name).Int("quantity", line.Quantity).Msg("insufficient pantry stock for delivered order")
		}

		if err := s.creditKitchenStore(line.Name, line.Unit, line.Quantity); err != nil {
			log.Error().Str("item", line.Name).Err(err).Msg("kitchen store credit failed")
		}
	}
}

func (s *KitchenOrderService) syncLinkedPantryOrder(pantryOrderID uint, kitchenStatus string) {
	pantryStatus, ok := kitchenToPantryStatus[kitchenStatus]
	if !ok {
		pantryStatus = kitchenStatus
	}

	res := s.DB.Model(&models.PantryOrder{}).Where("id = ?", pantryOrderID).
		Update("status", pantryStatus)
	if res.Error != nil {
		log.Error().Uint("pantryOrder", pantryOrderID).Err(res.Error).Msg("pantry order status sync failed")
		return
	}
	if res.RowsAffected == 0 {
		log.Warn().Uint("pantryOrder", pantryOrderID).Msg("linked pantry order not found for status sync")
	}
}

func (s *KitchenOrderService) DeleteOrder(id uint) error {
	res := s.DB.Delete(&models.KitchenOrder{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return NotFoundf("kitchen order %d", id)
	}
	return nil
}

// SyncMissingKitchenOrders backfills kitchen orders for approved or fulfilled
// Kitchen to Pantry orders that lost their counterpart, crediting the kitchen
// store and restoring the cross-link.
func (s *KitchenOrderService) SyncMissingKitchenOrders() ([]models.KitchenOrder, error) {
	var pantryOrders []models.PantryOrder
	err := s.DB.Where("order_type = ? AND status IN ? AND kitchen_order_id IS NULL",
		models.OrderTypeKitchenToPantry,
		[]string{models.OrderStatusApproved, models.OrderStatusFulfilled}).
		Find(&pantryOrders).Error
	if err != nil {
		return nil, err
	}

	created := make([]models.KitchenOrder, 0, len(pantryOrders))
	for i := range pantryOrders {
		pantryOrder := &pantryOrders[i]

		status := models.OrderStatusApproved
		if pantryOrder.Status == models.OrderStatusApproved {
			status = models.OrderStatusDelivered
		}
		instructions := pantryOrder.SpecialInstructions
		if instructions == "" {
			instructions = fmt.Sprintf("Synced from pantry order %d", pantryOrder.ID)
		}

		kitchenOrder := models.KitchenOrder{
			Items:               pantryOrder.Items,
			TotalAmount:         pantryOrder.TotalAmount,
			Status:              status,
			OrderType:           models.KitchenOrderTypeKitchenToPantry,
			SpecialInstructions: instructions,
			OrderedBy:           pantryOrder.OrderedBy,
			PantryOrderID:       &pantryOrder.ID,
		}
		if err := s.DB.Create(&kitchenOrder).Error; err != nil {
			log.Error().Uint("pantryOrder", pantryOrder.ID).Err(err).Msg("sync: kitchen order create failed")
			continue
		}

		for _, line := range pantryOrder.Items {
			name := line.Name
			if name == "" {
				name = "Unknown Item"
			}
			if line.Quantity <= 0 {
				continue
			}
			if err := s.creditKitchenStore(name, line.Unit, line.Quantity); err != nil {
				log.Error().Str("item", name).Err(err).Msg("sync: kitchen store credit failed")
			}
		}

		if err := s.DB.Model(pantryOrder).Update("kitchen_order_id", kitchenOrder.ID).Error; err != nil {
			log.Warn().Uint("pantryOrder", pantryOrder.ID).Err(err).Msg("sync: back-link failed")
		}
		created = append(created, kitchenOrder)
	}
	return created, nil
}

// ---------------- Kitchen store ----------------

func (s *KitchenOrderService) ListStoreItems() ([]models.KitchenStoreItem, error) {
	var items []models.KitchenStoreItem
	if err := s.DB.Order("name ASC").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (s *KitchenOrderService) CreateStoreItem(item *models.KitchenStoreItem) error {
	return s.DB.Create(item).Error
}

// UpdateStoreItemInput carries the editable store item fields; nil means
// leave unchanged.
type UpdateStoreItemInput struct {
	Name     *string `json:"name"`
	Category *string `json:"category"`
	Quantity *int    `json:"quantity"`
	Unit     *string `json:"unit"`
}

func (s *KitchenOrderService) UpdateStoreItem(id uint, in UpdateStoreItemInput) (*models.KitchenStoreItem, error) {
	var item models.KitchenStoreItem
	if err := s.DB.First(&item, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NotFoundf("kitchen store item %d", id)
		}
		return nil, err
	}
	if in.Name != nil {
		item.Name = *in.Name
	}
	if in.Category != nil {
		item.Category = *in.Category
	}
	if in.Quantity != nil {
		item.Quantity = *in.Quantity
	}
	if in.Unit != nil {
		item.Unit = *in.Unit
	}
	if err := s.DB.Save(&item).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *KitchenOrderService) DeleteStoreItem(id uint) error {
	res := s.DB.Delete(&models.KitchenStoreItem{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return NotFoundf("kitchen store item %d", id)
	}
	return nil
}

// TakeOutLine is one consumption request against the kitchen store.
type TakeOutLine struct {
	ItemName string `json:"itemName"`
	Quantity int    `json:"quantity"`
}

// TakeOutItems consumes stock from the kitchen store. Validated eagerly so a
// short item rejects the whole request before any decrement.
func (s *KitchenOrderService) TakeOutItems(lines []TakeOutLine) error {
	for _, line := range lines {
		var item models.KitchenStoreItem
		if err := s.DB.Where("name = ?", line.ItemName).First(&item).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return NotFoundf("item %q not found", line.ItemName)
			}
			return err
		}
		if item.Quantity < line.Quantity {
			return &InsufficientStockError{
				ItemName:  line.ItemName,
				Available: item.Quantity,
				Requested: line.Quantity,
			}
		}
	}

	for _, line := range lines {
		err := s.DB.Model(&models.KitchenStoreItem{}).
			Where("name = ?", line.ItemName).
			Update("quantity", gorm.Expr("quantity - ?", line.Quantity)).Error
		if err != nil {
			return err
		}
	}
	return nil
}

// RestockFromPantry raises a Kitchen to Pantry request for a store item that
// ran out, paired with its counterpart pantry order.
func (s *KitchenOrderService) RestockFromPantry(storeItemID uint, orderedBy string) (*models.KitchenOrder, *models.PantryOrder, error) {
	var storeItem models.KitchenStoreItem
	if err := s.DB.First(&storeItem, storeItemID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, NotFoundf("kitchen store item %d", storeItemID)
		}
		return nil, nil, err
	}

	var pantryItem models.PantryItem
	if err := s.DB.Where("name = ?", storeItem.Name).First(&pantryItem).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, Validationf("item %q not found in pantry", storeItem.Name)
		}
		return nil, nil, err
	}

	unitPrice := pantryItem.CostPerUnit
	if unitPrice == 0 {
		unitPrice = 10
	}
	const restockQty = 10
	line := models.OrderItem{
		ItemID:    pantryItem.ID,
		Name:      pantryItem.Name,
		Unit:      pantryItem.Unit,
		Quantity:  restockQty,
		UnitPrice: unitPrice,
	}

	kitchenOrder := models.KitchenOrder{
		Items:               []models.OrderItem{line},
		TotalAmount:         unitPrice * restockQty,
		Status:              models.OrderStatusPending,
		OrderType:           models.KitchenOrderTypeKitchenToPantry,
		SpecialInstructions: fmt.Sprintf("Urgent: %s is out of stock in kitchen", storeItem.Name),
		OrderedBy:           orderedBy,
	}
	if err := s.DB.Create(&kitchenOrder).Error; err != nil {
		return nil, nil, fmt.Errorf("create kitchen order: %w", err)
	}

	pantryOrder := models.PantryOrder{
		Items:               []models.OrderItem{line},
		TotalAmount:         unitPrice * restockQty,
		Status:              models.OrderStatusPending,
		OrderType:           models.OrderTypeKitchenToPantry,
		SpecialInstructions: fmt.Sprintf("Kitchen request: %s is out of stock", storeItem.Name),
		OrderedBy:           orderedBy,
		KitchenOrderID:      &kitchenOrder.ID,
		PaymentStatus:       models.OrderPaymentPending,
	}
	if err := s.DB.Create(&pantryOrder).Error; err != nil {
		return nil, nil, fmt.Errorf("create pantry order: %w", err)
	}

	kitchenOrder.PantryOrderID = &pantryOrder.ID
	if err := s.DB.Model(&kitchenOrder).Update("pantry_order_id", pantryOrder.ID).Error; err != nil {
		log.Warn().Uint("kitchenOrder", kitchenOrder.ID).Err(err).Msg("pantry order back-link failed")
	}

	s.Notifier.Emit(EventKitchenOrderCreated, &kitchenOrder)
	s.Notifier.Emit(EventPantryOrderCreated, &pantryOrder)
	return &kitchenOrder, &pantryOrder, nil
}

// creditKitchenStore increments the named store entry, creating it on first
// use.
func (s *KitchenOrderService) creditKitchenStore(name, unit string, quantity int) error {
	var item models.KitchenStoreItem
	err := s.DB.Where("name = ?", name).First(&item).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		if unit == "" {
			unit = "pcs"
		}
		return s.DB.Create(&models.KitchenStoreItem{
			Name:     name,
			Category: "Food",
			Quantity: quantity,
			Unit:     unit,
		}).Error
	case err != nil:
		return err
	}
	return s.DB.Model(&item).Update("quantity", gorm.Expr("quantity + ?", quantity)).Error
}
