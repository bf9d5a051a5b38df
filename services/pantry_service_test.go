package services

import (
	"errors"
	"testing"

	"havana-backend/models"
	"havana-backend/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVendorScore(t *testing.T) {
	assert.Equal(t, 0.0, VendorScore(VendorHistory{}), "no history scores zero")
	assert.InDelta(t, 1.0, VendorScore(VendorHistory{TotalOrders: 10, FulfilledOrders: 10}), 0.001)
	assert.InDelta(t, 0.71, VendorScore(VendorHistory{TotalOrders: 5, FulfilledOrders: 4}), 0.001)

	// Experience caps at ten orders; reliability still dominates.
	saturated := VendorScore(VendorHistory{TotalOrders: 100, FulfilledOrders: 50})
	assert.InDelta(t, 0.65, saturated, 0.001)
}

func TestBestVendorTieKeepsFirst(t *testing.T) {
	vendors := []models.Vendor{
		{ID: 1, Name: "First Supply Co"},
		{ID: 2, Name: "Second Supply Co"},
	}
	history := map[uint]VendorHistory{
		1: {TotalOrders: 4, FulfilledOrders: 2},
		2: {TotalOrders: 4, FulfilledOrders: 2},
	}
	best, score, ok := BestVendor(vendors, history)
	require.True(t, ok)
	assert.Equal(t, uint(1), best.ID, "equal scores keep the earlier vendor")
	assert.Greater(t, score, 0.0)

	_, _, ok = BestVendor(nil, nil)
	assert.False(t, ok)
}

func TestKitchenToPantryOrderWithShortfall(t *testing.T) {
	db := newTestDB(t)
	svc := NewPantryService(db, NewNotifier())

	item := models.PantryItem{
		Name: "Basmati Rice", Category: "Grains", Unit: "kg",
		StockQuantity: 4, MinStockLevel: 5, Price: 80, IsAvailable: true,
	}
	require.NoError(t, db.Create(&item).Error)
	vendor := models.Vendor{Name: "Agro Traders", IsActive: true}
	require.NoError(t, db.Create(&vendor).Error)

	result, err := svc.CreateOrder(CreateOrderInput{
		OrderType: models.OrderTypeKitchenToPantry,
		Items:     []models.OrderItem{{ItemID: item.ID, Quantity: 10, UnitPrice: 80}},
		OrderedBy: "chef",
	})
	require.NoError(t, err)

	require.Len(t, result.OutOfStockItems, 1)
	oos := result.OutOfStockItems[0]
	assert.Equal(t, 10, oos.RequestedQuantity)
	assert.Equal(t, 4, oos.AvailableQuantity)
	assert.Equal(t, 6, oos.NeededQuantity, "shortfall already above the min level stays as-is")

	line := result.Order.Items[0]
	assert.Equal(t, 4, line.AvailableQuantity)
	assert.False(t, line.IsOutOfStock, "partially available is not out of stock")
	assert.Equal(t, 320.0, result.Order.TotalAmount, "only the servable portion is billed")

	require.NotNil(t, result.AutoVendorOrder)
	assert.Equal(t, models.OrderTypePantryToVendor, result.AutoVendorOrder.OrderType)
	require.NotNil(t, result.AutoVendorOrder.VendorID)
	assert.Equal(t, vendor.ID, *result.AutoVendorOrder.VendorID)
	assert.Contains(t, result.Message, "Vendor order auto-created for 1 out-of-stock items")

	// Creation records the request; stock only moves on approval.
	reloaded, err := svc.GetItem(item.ID)
	require.NoError(t, err)
	assert.Equal(t, 4, reloaded.StockQuantity)
}

func TestShortfallNeededQuantityFloorsAtMinLevel(t *testing.T) {
	db := newTestDB(t)
	svc := NewPantryService(db, NewNotifier())

	item := models.PantryItem{Name: "Saffron", Unit: "g", StockQuantity: 9, MinStockLevel: 0}
	require.NoError(t, db.Create(&item).Error)

	result, err := svc.CreateOrder(CreateOrderInput{
		OrderType: models.OrderTypeKitchenToPantry,
		Items:     []models.OrderItem{{ItemID: item.ID, Quantity: 10}},
	})
	require.NoError(t, err)
	require.Len(t, result.OutOfStockItems, 1)
	assert.Equal(t, 10, result.OutOfStockItems[0].NeededQuantity, "unset min level defaults to ten")
}

func TestApproveKitchenToPantryMovesStock(t *testing.T) {
	db := newTestDB(t)
	svc := NewPantryService(db, NewNotifier())

	item := models.PantryItem{Name: "Paneer", Category: "Dairy", Unit: "kg", StockQuantity: 4}
	require.NoError(t, db.Create(&item).Error)

	result, err := svc.CreateOrder(CreateOrderInput{
		OrderType: models.OrderTypeKitchenToPantry,
		Items:     []models.OrderItem{{ItemID: item.ID, Quantity: 10, UnitPrice: 200}},
	})
	require.NoError(t, err)

	order, err := svc.UpdateOrderStatus(result.Order.ID, models.OrderStatusApproved)
	require.NoError(t, err)

	assert.Equal(t, models.OrderStatusFulfilled, order.Status, "approval runs the clamped fulfilment")
	assert.NotNil(t, order.DeliveredAt)

	reloaded, err := svc.GetItem(item.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, reloaded.StockQuantity, "the four in stock were transferred")

	var store models.KitchenStoreItem
	require.NoError(t, db.Where("name = ?", "Paneer").First(&store).Error)
	assert.Equal(t, 4, store.Quantity)

	require.NotNil(t, order.KitchenOrderID)
	var kitchenOrder models.KitchenOrder
	require.NoError(t, db.First(&kitchenOrder, *order.KitchenOrderID).Error)
	assert.Equal(t, models.OrderStatusDelivered, kitchenOrder.Status)
	assert.Equal(t, 800.0, kitchenOrder.TotalAmount, "counterpart carries the processed amount")
}

func TestApproveKitchenOriginatedOrderRewritesCounterpartItems(t *testing.T) {
	db := newTestDB(t)
	notifier := NewNotifier()
	pantrySvc := NewPantryService(db, notifier)
	kitchenSvc := NewKitchenOrderService(db, notifier)

	item := models.PantryItem{Name: "Paneer", Category: "Dairy", Unit: "kg", StockQuantity: 4}
	require.NoError(t, db.Create(&item).Error)

	// The request originates in the kitchen, so the kitchen order exists and
	// is cross-linked before the pantry side approves it.
	kitchenOrder, err := kitchenSvc.CreateOrder(&models.KitchenOrder{
		OrderType:   models.KitchenOrderTypeKitchenToPantry,
		Items:       []models.OrderItem{{ItemID: item.ID, Name: "Paneer", Unit: "kg", Quantity: 10, UnitPrice: 200}},
		TotalAmount: 2000,
	})
	require.NoError(t, err)
	require.NotNil(t, kitchenOrder.PantryOrderID)

	order, err := pantrySvc.UpdateOrderStatus(*kitchenOrder.PantryOrderID, models.OrderStatusApproved)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusFulfilled, order.Status)

	var delivered models.KitchenOrder
	require.NoError(t, db.First(&delivered, kitchenOrder.ID).Error)
	assert.Equal(t, models.OrderStatusDelivered, delivered.Status)
	require.NotNil(t, delivered.ReceivedAt)

	require.Len(t, delivered.Items, 1)
	assert.Equal(t, 4, delivered.Items[0].Quantity, "delivered lines reflect what actually moved")
	assert.Equal(t, 800.0, delivered.TotalAmount)

	var lineTotal float64
	for _, line := range delivered.Items {
		lineTotal += float64(line.Quantity) * line.UnitPrice
	}
	assert.Equal(t, delivered.TotalAmount, lineTotal, "amount agrees with the lines")
}

func TestPantryToKitchenRejectsWholeOrderOnShortfall(t *testing.T) {
	db := newTestDB(t)
	svc := NewPantryService(db, NewNotifier())

	ok := models.PantryItem{Name: "Flour", Unit: "kg", StockQuantity: 50}
	short := models.PantryItem{Name: "Butter", Unit: "kg", StockQuantity: 3}
	require.NoError(t, db.Create(&ok).Error)
	require.NoError(t, db.Create(&short).Error)

	_, err := svc.CreateOrder(CreateOrderInput{
		OrderType: models.OrderTypePantryToKitchen,
		Items: []models.OrderItem{
			{ItemID: ok.ID, Quantity: 10},
			{ItemID: short.ID, Quantity: 5},
		},
	})
	require.Error(t, err)

	var stockErr *InsufficientStockError
	require.True(t, errors.As(err, &stockErr))
	assert.Equal(t, "Butter", stockErr.ItemName)
	assert.Equal(t, 3, stockErr.Available)
	assert.Equal(t, 5, stockErr.Requested)
	assert.Equal(t, "insufficient stock for Butter. Available: 3, Requested: 5", stockErr.Error())

	// Nothing was written and nothing moved.
	var count int64
	require.NoError(t, db.Model(&models.PantryOrder{}).Count(&count).Error)
	assert.EqualValues(t, 0, count)
	reloaded, err := svc.GetItem(ok.ID)
	require.NoError(t, err)
	assert.Equal(t, 50, reloaded.StockQuantity)
}

func TestPantryToKitchenFulfilsImmediately(t *testing.T) {
	db := newTestDB(t)
	svc := NewPantryService(db, NewNotifier())

	item := models.PantryItem{Name: "Tomatoes", Category: "Vegetables", Unit: "kg", StockQuantity: 10}
	require.NoError(t, db.Create(&item).Error)

	result, err := svc.CreateOrder(CreateOrderInput{
		OrderType: models.OrderTypePantryToKitchen,
		Items:     []models.OrderItem{{ItemID: item.ID, Quantity: 4, UnitPrice: 30}},
		OrderedBy: "storekeeper",
	})
	require.NoError(t, err)

	order := result.Order
	assert.Equal(t, models.OrderStatusFulfilled, order.Status)
	assert.NotNil(t, order.DeliveredAt)
	require.NotNil(t, order.Fulfillment)
	assert.Equal(t, "Automatically fulfilled - items sent to kitchen store", order.Fulfillment.Notes)

	reloaded, err := svc.GetItem(item.ID)
	require.NoError(t, err)
	assert.Equal(t, 6, reloaded.StockQuantity)

	var store models.KitchenStoreItem
	require.NoError(t, db.Where("name = ?", "Tomatoes").First(&store).Error)
	assert.Equal(t, 4, store.Quantity)

	require.NotNil(t, order.KitchenOrderID)
	var kitchenOrder models.KitchenOrder
	require.NoError(t, db.First(&kitchenOrder, *order.KitchenOrderID).Error)
	assert.Equal(t, models.KitchenOrderTypePantryToKitchen, kitchenOrder.OrderType)
	assert.Equal(t, models.OrderStatusDelivered, kitchenOrder.Status)
	require.NotNil(t, kitchenOrder.PantryOrderID)
	assert.Equal(t, order.ID, *kitchenOrder.PantryOrderID)
}

func TestVendorDeliveryCreditsPantry(t *testing.T) {
	db := newTestDB(t)
	svc := NewPantryService(db, NewNotifier())

	item := models.PantryItem{Name: "Oil", Unit: "l", StockQuantity: 2}
	require.NoError(t, db.Create(&item).Error)
	vendor := models.Vendor{Name: "Oil Depot", IsActive: true}
	require.NoError(t, db.Create(&vendor).Error)

	result, err := svc.CreateOrder(CreateOrderInput{
		OrderType: models.OrderTypePantryToVendor,
		VendorID:  &vendor.ID,
		Items:     []models.OrderItem{{ItemID: item.ID, Quantity: 12, UnitPrice: 150}},
	})
	require.NoError(t, err)
	assert.Equal(t, 1800.0, result.Order.TotalAmount, "total derived from lines when not supplied")

	order, err := svc.UpdateOrderStatus(result.Order.ID, models.OrderStatusDelivered)
	require.NoError(t, err)
	assert.NotNil(t, order.DeliveredAt)

	reloaded, err := svc.GetItem(item.ID)
	require.NoError(t, err)
	assert.Equal(t, 14, reloaded.StockQuantity, "delivery books goods into pantry stock")
}

func TestUpdateOrderStatusRejectsUnknownStatus(t *testing.T) {
	db := newTestDB(t)
	svc := NewPantryService(db, NewNotifier())

	_, err := svc.UpdateOrderStatus(1, "shipped")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestUpdateOrderStatusRejectsTerminalOrders(t *testing.T) {
	db := newTestDB(t)
	svc := NewPantryService(db, NewNotifier())

	fulfilled := models.PantryOrder{OrderType: models.OrderTypePantryToVendor, Status: models.OrderStatusFulfilled}
	cancelled := models.PantryOrder{OrderType: models.OrderTypePantryToVendor, Status: models.OrderStatusCancelled}
	require.NoError(t, db.Create(&fulfilled).Error)
	require.NoError(t, db.Create(&cancelled).Error)

	_, err := svc.UpdateOrderStatus(fulfilled.ID, models.OrderStatusPending)
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.UpdateOrderStatus(cancelled.ID, models.OrderStatusApproved)
	assert.ErrorIs(t, err, ErrValidation)

	var reloaded models.PantryOrder
	require.NoError(t, db.First(&reloaded, fulfilled.ID).Error)
	assert.Equal(t, models.OrderStatusFulfilled, reloaded.Status, "terminal orders never transition")
}

func TestUpdateItemEditsCamelCaseFields(t *testing.T) {
	db := newTestDB(t)
	svc := NewPantryService(db, NewNotifier())

	item := models.PantryItem{Name: "Saffron", Category: "Spices", Unit: "g", StockQuantity: 5, MinStockLevel: 2, IsAvailable: true}
	require.NoError(t, db.Create(&item).Error)

	updated, err := svc.UpdateItem(item.ID, UpdateItemInput{
		MinStockLevel: utils.PtrInt(8),
		StockQuantity: utils.PtrInt(30),
		CostPerUnit:   utils.PtrFloat(450),
		IsAvailable:   utils.PtrBool(false),
	})
	require.NoError(t, err)
	assert.Equal(t, 8, updated.MinStockLevel)
	assert.Equal(t, 30, updated.StockQuantity)
	assert.Equal(t, 450.0, updated.CostPerUnit)
	assert.False(t, updated.IsAvailable)
	assert.Equal(t, "Saffron", updated.Name, "omitted fields are untouched")

	var reloaded models.PantryItem
	require.NoError(t, db.First(&reloaded, item.ID).Error)
	assert.Equal(t, 8, reloaded.MinStockLevel, "the edit is persisted")

	_, err = svc.UpdateItem(999, UpdateItemInput{})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFulfillVendorOrderRecordsRevision(t *testing.T) {
	db := newTestDB(t)
	svc := NewPantryService(db, NewNotifier())

	vendor := models.Vendor{Name: "Greens", IsActive: true}
	require.NoError(t, db.Create(&vendor).Error)
	order := models.PantryOrder{
		OrderType:   models.OrderTypePantryToVendor,
		VendorID:    &vendor.ID,
		Status:      models.OrderStatusPending,
		TotalAmount: 1000,
	}
	require.NoError(t, db.Create(&order).Error)

	updated, err := svc.FulfillVendorOrder(order.ID, 880, "manager", "two crates short")
	require.NoError(t, err)

	assert.Equal(t, models.OrderStatusFulfilled, updated.Status)
	assert.Equal(t, 880.0, updated.TotalAmount)
	require.NotNil(t, updated.Fulfillment)
	assert.Equal(t, 1000.0, updated.Fulfillment.PreviousAmount)
	assert.Equal(t, -120.0, updated.Fulfillment.Difference)
	assert.Equal(t, "manager", updated.Fulfillment.FulfilledBy)
}

func TestVendorPaymentStatusOnlyOnVendorOrders(t *testing.T) {
	db := newTestDB(t)
	svc := NewPantryService(db, NewNotifier())

	order := models.PantryOrder{OrderType: models.OrderTypeKitchenToPantry, Status: models.OrderStatusPending}
	require.NoError(t, db.Create(&order).Error)

	_, err := svc.UpdateVendorPaymentStatus(order.ID, models.OrderPaymentPaid, models.OrderPaymentDetails{})
	assert.ErrorIs(t, err, ErrValidation)

	vendorOrder := models.PantryOrder{OrderType: models.OrderTypePantryToVendor, Status: models.OrderStatusFulfilled}
	require.NoError(t, db.Create(&vendorOrder).Error)

	updated, err := svc.UpdateVendorPaymentStatus(vendorOrder.ID, models.OrderPaymentPaid, models.OrderPaymentDetails{
		PaidAmount:    500,
		PaymentMethod: "UPI",
	})
	require.NoError(t, err)
	assert.Equal(t, models.OrderPaymentPaid, updated.PaymentStatus)
	require.NotNil(t, updated.PaymentDetails)
	assert.NotNil(t, updated.PaymentDetails.PaidAt)
}

func TestResolveItemSnapshots(t *testing.T) {
	db := newTestDB(t)
	svc := NewPantryService(db, NewNotifier())

	item := models.PantryItem{Name: "Cumin", Unit: "g", StockQuantity: 100}
	require.NoError(t, db.Create(&item).Error)

	result, err := svc.CreateOrder(CreateOrderInput{
		OrderType: models.OrderTypeKitchenToPantry,
		Items:     []models.OrderItem{{ItemID: item.ID, Quantity: 10}},
	})
	require.NoError(t, err)

	// Blank out the snapshot on the stored lines, then delete the item; the
	// OriginalRequest document must rehydrate the name.
	stored := result.Order
	stored.Items[0].Name = ""
	stored.Items[0].Unit = ""
	require.NoError(t, db.Save(stored).Error)
	require.NoError(t, svc.DeleteItem(item.ID))

	order, err := svc.GetOrder(stored.ID)
	require.NoError(t, err)
	assert.Equal(t, "Cumin", order.Items[0].Name)
	assert.Equal(t, "g", order.Items[0].Unit)
}

func TestAdjustStockFloorsAtZero(t *testing.T) {
	db := newTestDB(t)
	svc := NewPantryService(db, NewNotifier())

	item := models.PantryItem{Name: "Sugar", Unit: "kg", StockQuantity: 5}
	require.NoError(t, db.Create(&item).Error)

	updated, err := svc.AdjustStock(item.ID, 3, "add")
	require.NoError(t, err)
	assert.Equal(t, 8, updated.StockQuantity)

	updated, err = svc.AdjustStock(item.ID, 20, "subtract")
	require.NoError(t, err)
	assert.Equal(t, 0, updated.StockQuantity)

	_, err = svc.AdjustStock(item.ID, 1, "divide")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestLowStockReport(t *testing.T) {
	db := newTestDB(t)
	svc := NewPantryService(db, NewNotifier())

	require.NoError(t, db.Create(&models.PantryItem{Name: "Salt", Unit: "kg", StockQuantity: 12, CostPerUnit: 15}).Error)
	require.NoError(t, db.Create(&models.PantryItem{Name: "Pepper", Unit: "g", StockQuantity: 50, CostPerUnit: 5}).Error)

	report, err := svc.BuildLowStockReport()
	require.NoError(t, err)

	assert.Regexp(t, `^LSI-\d+$`, report.ReportNumber)
	require.Len(t, report.Items, 1, "well-stocked items are excluded")
	line := report.Items[0]
	assert.Equal(t, "Salt", line.Name)
	assert.Equal(t, 8, line.Shortfall)
	assert.Equal(t, 120.0, line.TotalCost)
	assert.Equal(t, 120.0, report.TotalEstimatedCost)
}

func TestSuggestedVendorsRanking(t *testing.T) {
	db := newTestDB(t)
	svc := NewPantryService(db, NewNotifier())

	reliable := models.Vendor{Name: "Alpha", IsActive: true}
	flaky := models.Vendor{Name: "Beta", IsActive: true}
	inactive := models.Vendor{Name: "Gamma", IsActive: false}
	require.NoError(t, db.Create(&reliable).Error)
	require.NoError(t, db.Create(&flaky).Error)
	require.NoError(t, db.Create(&inactive).Error)

	mkOrder := func(vendorID uint, status string) {
		require.NoError(t, db.Create(&models.PantryOrder{
			OrderType: models.OrderTypePantryToVendor,
			VendorID:  &vendorID,
			Status:    status,
		}).Error)
	}
	mkOrder(reliable.ID, models.OrderStatusFulfilled)
	mkOrder(reliable.ID, models.OrderStatusFulfilled)
	mkOrder(flaky.ID, models.OrderStatusFulfilled)
	mkOrder(flaky.ID, models.OrderStatusPending)

	stats, err := svc.SuggestedVendors()
	require.NoError(t, err)

	require.Len(t, stats, 2, "inactive vendors are excluded")
	assert.Equal(t, "Alpha", stats[0].Vendor.Name)
	assert.Equal(t, 100.0, stats[0].FulfillmentRate)
	assert.Equal(t, 50.0, stats[1].FulfillmentRate)
}
