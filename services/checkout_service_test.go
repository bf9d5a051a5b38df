package services

import (
	"testing"

	"havana-backend/models"
	"havana-backend/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateCheckoutAggregatesCharges(t *testing.T) {
	db := newTestDB(t)
	svc := NewCheckoutService(db, NewChargeService(db), NewGSTService(db))

	booking := models.Booking{Rate: 2000, Days: 2, RoomNumber: "101", GRCNo: "GRC-1", IsActive: true}
	require.NoError(t, db.Create(&booking).Error)

	require.NoError(t, db.Create(&models.LaundryOrder{
		BookingID:   &booking.ID,
		TotalAmount: 300,
	}).Error)
	require.NoError(t, db.Create(&models.RestaurantOrder{
		TableNo: "101",
		Items:   []models.ServiceOrderItem{{ItemName: "Dal Fry", Quantity: 2, Price: 180}},
	}).Error)

	checkout, err := svc.CreateCheckout(booking.ID)
	require.NoError(t, err)

	assert.Equal(t, 4000.0, checkout.BookingCharges)
	assert.Equal(t, 360.0, checkout.RestaurantCharges)
	assert.Equal(t, 300.0, checkout.LaundryCharges)
	assert.Equal(t, 4660.0, checkout.TotalAmount)
	assert.Equal(t, 4660.0, checkout.PendingAmount)
	assert.Equal(t, models.CheckoutStatusPending, checkout.Status)
}

func TestCreateCheckoutUpsertPreservesPaid(t *testing.T) {
	db := newTestDB(t)
	svc := NewCheckoutService(db, NewChargeService(db), NewGSTService(db))

	booking := models.Booking{Rate: 2000, Days: 2, RoomNumber: "101", IsActive: true}
	require.NoError(t, db.Create(&booking).Error)

	first, err := svc.CreateCheckout(booking.ID)
	require.NoError(t, err)
	require.Equal(t, 4000.0, first.TotalAmount)

	_, err = svc.UpdatePaymentStatus(first.ID, models.CheckoutStatusPartial, utils.PtrFloat(1000))
	require.NoError(t, err)

	second, err := svc.CreateCheckout(booking.ID)
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID, "second call updates, never duplicates")
	assert.Equal(t, 3000.0, second.PendingAmount, "already-paid amount survives the recompute")

	var count int64
	require.NoError(t, db.Model(&models.Checkout{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestUpdatePaymentStatusPaidFinalizesStay(t *testing.T) {
	db := newTestDB(t)
	svc := NewCheckoutService(db, NewChargeService(db), NewGSTService(db))

	room := models.Room{RoomNumber: "101", Status: models.RoomStatusBooked}
	require.NoError(t, db.Create(&room).Error)
	maintenance := models.Room{RoomNumber: "102", Status: models.RoomStatusMaintenance}
	require.NoError(t, db.Create(&maintenance).Error)

	booking := models.Booking{
		Rate: 2000, Days: 1,
		RoomNumber: "101, 102",
		Status:     models.BookingStatusCheckedIn,
		IsActive:   true,
	}
	require.NoError(t, db.Create(&booking).Error)

	checkout, err := svc.CreateCheckout(booking.ID)
	require.NoError(t, err)

	checkout, err = svc.UpdatePaymentStatus(checkout.ID, models.CheckoutStatusPaid, utils.PtrFloat(checkout.TotalAmount))
	require.NoError(t, err)
	assert.Equal(t, 0.0, checkout.PendingAmount)

	var reloadedBooking models.Booking
	require.NoError(t, db.First(&reloadedBooking, booking.ID).Error)
	assert.Equal(t, models.BookingStatusCheckedOut, reloadedBooking.Status)
	assert.Equal(t, models.PaymentStatusPaid, reloadedBooking.PaymentStatus)

	var reloadedRoom models.Room
	require.NoError(t, db.First(&reloadedRoom, room.ID).Error)
	assert.Equal(t, models.RoomStatusAvailable, reloadedRoom.Status, "booked room is released")

	reloadedRoom = models.Room{}
	require.NoError(t, db.First(&reloadedRoom, maintenance.ID).Error)
	assert.Equal(t, models.RoomStatusMaintenance, reloadedRoom.Status, "maintenance room is untouched")
}

func TestRenderInvoiceTotals(t *testing.T) {
	db := newTestDB(t)
	svc := NewCheckoutService(db, NewChargeService(db), NewGSTService(db))

	booking := models.Booking{
		Rate: 2000, Days: 2,
		RoomNumber:      "101",
		GuestName:       "A. Traveller",
		DiscountPercent: 10,
		IsActive:        true,
	}
	require.NoError(t, db.Create(&booking).Error)

	checkout, err := svc.CreateCheckout(booking.ID)
	require.NoError(t, err)

	view, err := svc.RenderInvoice(checkout.ID)
	require.NoError(t, err)

	assert.Regexp(t, `^P\d{10}$`, view.InvoiceDetails.BillNo)
	assert.Equal(t, "A. Traveller", view.ClientDetails.Name)

	require.Len(t, view.Taxes, 1)
	assert.InDelta(t, 4000.0, view.Taxes[0].TaxableAmount, 0.001)
	assert.InDelta(t, 240.0, view.Taxes[0].CGST, 0.001)
	assert.InDelta(t, 240.0, view.Taxes[0].SGST, 0.001)

	assert.InDelta(t, 400.0, view.Payment.Discount, 0.001)
	assert.InDelta(t, 4080.0, view.Payment.Total, 0.001)
}

func TestRenderInvoiceBackfillsRoomService(t *testing.T) {
	db := newTestDB(t)
	svc := NewCheckoutService(db, NewChargeService(db), NewGSTService(db))

	booking := models.Booking{Rate: 1000, Days: 1, RoomNumber: "101", IsActive: true}
	require.NoError(t, db.Create(&booking).Error)

	checkout, err := svc.CreateCheckout(booking.ID)
	require.NoError(t, err)
	require.Equal(t, 0.0, checkout.RoomServiceCharges)

	// A room-service order that arrived after the folio was cut.
	require.NoError(t, db.Create(&models.RoomServiceOrder{
		RoomNumber: "101",
		Amount:     250,
	}).Error)

	view, err := svc.RenderInvoice(checkout.ID)
	require.NoError(t, err)

	var found bool
	for _, item := range view.Items {
		if item.Particulars == "Room Service" {
			found = true
			assert.Equal(t, 250.0, item.Amount)
		}
	}
	assert.True(t, found, "backfilled charge appears on the rendered bill")

	var reloaded models.Checkout
	require.NoError(t, db.First(&reloaded, checkout.ID).Error)
	assert.Equal(t, 250.0, reloaded.RoomServiceCharges, "backfill is persisted")
	assert.Equal(t, 1250.0, reloaded.TotalAmount)
}

func TestGetByBookingNotFound(t *testing.T) {
	db := newTestDB(t)
	svc := NewCheckoutService(db, NewChargeService(db), NewGSTService(db))

	_, err := svc.GetByBooking(77)
	assert.ErrorIs(t, err, ErrNotFound)
}
