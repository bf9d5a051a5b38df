package services

import (
	"errors"
	"testing"

	"havana-backend/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateInvoiceValidation(t *testing.T) {
	svc := NewInvoiceService(newTestDB(t))

	_, err := svc.CreateInvoice(CreateInvoiceInput{})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.CreateInvoice(CreateInvoiceInput{ServiceType: "Massage", ServiceRefID: 1})
	assert.ErrorIs(t, err, ErrValidation, "unknown service type is rejected")

	_, err = svc.CreateInvoice(CreateInvoiceInput{ServiceType: models.ServiceTypeBooking, ServiceRefID: 99})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCreateBookingInvoice(t *testing.T) {
	db := newTestDB(t)
	svc := NewInvoiceService(db)

	booking := models.Booking{Rate: 2500, Days: 2, DiscountPercent: 10, IsActive: true}
	require.NoError(t, db.Create(&booking).Error)

	// The booking's own discount overrides the caller-supplied one.
	invoice, err := svc.CreateInvoice(CreateInvoiceInput{
		ServiceType:  models.ServiceTypeBooking,
		ServiceRefID: booking.ID,
		Discount:     50,
	})
	require.NoError(t, err)

	assert.Equal(t, 5000.0, invoice.SubTotal)
	assert.Equal(t, 500.0, invoice.Discount)
	assert.Equal(t, 4500.0, invoice.TotalAmount)
	assert.Equal(t, models.InvoiceStatusUnpaid, invoice.Status)
	require.NotNil(t, invoice.BookingID)
	assert.Equal(t, booking.ID, *invoice.BookingID)

	require.Len(t, invoice.Items, 2)
	assert.Equal(t, "Room Charges (2 Nights)", invoice.Items[0].Description)
	assert.Equal(t, -500.0, invoice.Items[1].Amount, "discount is a negative line")

	var reloaded models.Booking
	require.NoError(t, db.First(&reloaded, booking.ID).Error)
	require.NotNil(t, reloaded.InvoiceID)
	assert.Equal(t, invoice.ID, *reloaded.InvoiceID, "booking back-links to its invoice")
}

func TestProcessPaymentLifecycle(t *testing.T) {
	db := newTestDB(t)
	svc := NewInvoiceService(db)

	booking := models.Booking{Rate: 2500, Days: 2, IsActive: true}
	require.NoError(t, db.Create(&booking).Error)

	invoice, err := svc.CreateInvoice(CreateInvoiceInput{
		ServiceType:  models.ServiceTypeBooking,
		ServiceRefID: booking.ID,
	})
	require.NoError(t, err)
	require.Equal(t, 5000.0, invoice.TotalAmount)

	_, err = svc.ProcessPayment(invoice.ID, 0, "Cash")
	assert.ErrorIs(t, err, ErrValidation)

	invoice, err = svc.ProcessPayment(invoice.ID, 2000, "Cash")
	require.NoError(t, err)
	assert.Equal(t, models.InvoiceStatusPartial, invoice.Status)
	assert.Equal(t, 3000.0, invoice.BalanceAmount)
	assert.Nil(t, invoice.PaidAt)

	invoice, err = svc.ProcessPayment(invoice.ID, 3000, "UPI")
	require.NoError(t, err)
	assert.Equal(t, models.InvoiceStatusPaid, invoice.Status)
	assert.Equal(t, 0.0, invoice.BalanceAmount)
	assert.NotNil(t, invoice.PaidAt)
	assert.Equal(t, "UPI", invoice.PaymentMode)

	_, err = svc.ProcessPayment(invoice.ID, 1, "Cash")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrValidation)
	assert.Contains(t, err.Error(), "exceeds invoice total")
}

func TestHousekeepingInvoiceItems(t *testing.T) {
	svc := NewInvoiceService(newTestDB(t))

	invoice, err := svc.CreateInvoice(CreateInvoiceInput{
		ServiceType:  models.ServiceTypeHousekeeping,
		ServiceRefID: 7,
		ExtraItems: []models.InvoiceItem{
			{Description: "Deep cleaning", Amount: 300},
			{Description: "Minibar restock", Amount: 150},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, 450.0, invoice.SubTotal)

	// Without items a housekeeping invoice still issues with a zero line.
	invoice, err = svc.CreateInvoice(CreateInvoiceInput{
		ServiceType:  models.ServiceTypeHousekeeping,
		ServiceRefID: 8,
	})
	require.NoError(t, err)
	assert.Equal(t, 0.0, invoice.SubTotal)
	require.Len(t, invoice.Items, 1)
	assert.Equal(t, "Housekeeping Service", invoice.Items[0].Description)
}

func TestZeroTotalInvoiceIssuesAsPaid(t *testing.T) {
	svc := NewInvoiceService(newTestDB(t))

	invoice, err := svc.CreateInvoice(CreateInvoiceInput{
		ServiceType:  models.ServiceTypeHousekeeping,
		ServiceRefID: 9,
	})
	require.NoError(t, err)

	// Nothing to pay on a zero amount, so Paid and balance zero agree.
	assert.Equal(t, 0.0, invoice.TotalAmount)
	assert.Equal(t, 0.0, invoice.BalanceAmount)
	assert.Equal(t, models.InvoiceStatusPaid, invoice.Status)
}

func TestGenericServiceRequiresItems(t *testing.T) {
	svc := NewInvoiceService(newTestDB(t))

	_, err := svc.CreateInvoice(CreateInvoiceInput{
		ServiceType:  models.ServiceTypeRestaurant,
		ServiceRefID: 3,
	})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestGetFinalInvoiceByBooking(t *testing.T) {
	db := newTestDB(t)
	svc := NewInvoiceService(db)

	booking := models.Booking{Rate: 2000, Days: 2, DiscountRoomSource: 200, IsActive: true}
	require.NoError(t, db.Create(&booking).Error)

	_, err := svc.CreateInvoice(CreateInvoiceInput{
		ServiceType:  models.ServiceTypeBooking,
		ServiceRefID: booking.ID,
	})
	require.NoError(t, err)

	laundry := models.Invoice{
		ServiceType:   models.ServiceTypeLaundry,
		ServiceRefID:  1,
		BookingID:     &booking.ID,
		InvoiceNumber: "INV-11111",
		Items:         []models.InvoiceItem{{Description: "Laundry - Shirts (Qty: 3)", Amount: 450}},
		SubTotal:      450,
		TotalAmount:   450,
	}
	require.NoError(t, db.Create(&laundry).Error)

	view, err := svc.GetFinalInvoiceByBooking(booking.ID)
	require.NoError(t, err)

	assert.Equal(t, 4450.0, view.SubTotal, "room charge plus linked laundry line")
	assert.Equal(t, 200.0, view.Discount)
	assert.Equal(t, 4250.0, view.GrandTotal)

	// The room-charge line of the booking invoice must not be double-counted.
	for _, item := range view.Items {
		if item.Description == "Room Charges (2 Nights)" {
			assert.Equal(t, 4000.0, item.Amount)
		}
	}

	var persisted int64
	require.NoError(t, db.Model(&models.Invoice{}).Count(&persisted).Error)
	assert.EqualValues(t, 2, persisted, "the final view is never persisted")
}

func TestRecomputeStatus(t *testing.T) {
	inv := models.Invoice{TotalAmount: 100}
	inv.RecomputeStatus()
	assert.Equal(t, models.InvoiceStatusUnpaid, inv.Status)

	inv.PaidAmount = 40
	inv.RecomputeStatus()
	assert.Equal(t, models.InvoiceStatusPartial, inv.Status)
	assert.Equal(t, 60.0, inv.BalanceAmount)

	inv.PaidAmount = 100
	inv.RecomputeStatus()
	assert.Equal(t, models.InvoiceStatusPaid, inv.Status)
	assert.Equal(t, 0.0, inv.BalanceAmount)
}

func TestUniqueInvoiceNumberFormat(t *testing.T) {
	svc := NewInvoiceService(newTestDB(t))
	number, err := svc.UniqueInvoiceNumber()
	require.NoError(t, err)
	assert.Regexp(t, `^INV-\d{5}$`, number)
}

func TestInvoiceNotFound(t *testing.T) {
	svc := NewInvoiceService(newTestDB(t))
	_, err := svc.GetInvoice(42)
	assert.True(t, errors.Is(err, ErrNotFound))
}
