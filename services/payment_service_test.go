package services

import (
	"testing"

	"havana-backend/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreatePaymentValidation(t *testing.T) {
	db := newTestDB(t)
	svc := NewPaymentService(db, NewInvoiceService(db))

	_, err := svc.CreatePayment(CreatePaymentInput{Amount: 0, PaymentMode: "Cash", PaymentType: "Final", SourceType: "Booking", SourceID: 1})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.CreatePayment(CreatePaymentInput{Amount: 100})
	assert.ErrorIs(t, err, ErrValidation, "mode, type and source are required")
}

func TestCreatePaymentDefaults(t *testing.T) {
	db := newTestDB(t)
	svc := NewPaymentService(db, NewInvoiceService(db))

	payment, err := svc.CreatePayment(CreatePaymentInput{
		Amount:      500,
		PaymentMode: "Cash",
		PaymentType: "advance",
		SourceType:  "Booking",
		SourceID:    3,
	})
	require.NoError(t, err)

	assert.True(t, payment.IsAdvance, "payment type matching is case-insensitive")
	assert.Equal(t, models.PaymentRecordPaid, payment.Status, "status defaults to Paid")
	assert.Regexp(t, `^PAY-\d{5}$`, payment.PaymentNumber)
	assert.False(t, payment.ReceivedAt.IsZero())
}

func TestCreatePaymentAppliesToInvoice(t *testing.T) {
	db := newTestDB(t)
	invoices := NewInvoiceService(db)
	svc := NewPaymentService(db, invoices)

	booking := models.Booking{Rate: 2500, Days: 2, IsActive: true}
	require.NoError(t, db.Create(&booking).Error)
	invoice, err := invoices.CreateInvoice(CreateInvoiceInput{
		ServiceType:  models.ServiceTypeBooking,
		ServiceRefID: booking.ID,
	})
	require.NoError(t, err)

	_, err = svc.CreatePayment(CreatePaymentInput{
		Amount:      2000,
		PaymentMode: "UPI",
		PaymentType: "Final",
		SourceType:  "Booking",
		SourceID:    booking.ID,
		InvoiceID:   &invoice.ID,
	})
	require.NoError(t, err)

	invoice, err = invoices.GetInvoice(invoice.ID)
	require.NoError(t, err)
	assert.Equal(t, 2000.0, invoice.PaidAmount)
	assert.Equal(t, models.InvoiceStatusPartial, invoice.Status)
}

func TestCreatePaymentRejectsOverpaymentBeforeWrite(t *testing.T) {
	db := newTestDB(t)
	invoices := NewInvoiceService(db)
	svc := NewPaymentService(db, invoices)

	booking := models.Booking{Rate: 1000, Days: 1, IsActive: true}
	require.NoError(t, db.Create(&booking).Error)
	invoice, err := invoices.CreateInvoice(CreateInvoiceInput{
		ServiceType:  models.ServiceTypeBooking,
		ServiceRefID: booking.ID,
	})
	require.NoError(t, err)

	_, err = svc.CreatePayment(CreatePaymentInput{
		Amount:      1500,
		PaymentMode: "Cash",
		PaymentType: "Final",
		SourceType:  "Booking",
		SourceID:    booking.ID,
		InvoiceID:   &invoice.ID,
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrValidation)

	var count int64
	require.NoError(t, db.Model(&models.Payment{}).Count(&count).Error)
	assert.EqualValues(t, 0, count, "overpayment leaves no payment record behind")
}

func TestTotalPaid(t *testing.T) {
	db := newTestDB(t)
	svc := NewPaymentService(db, NewInvoiceService(db))

	for _, in := range []CreatePaymentInput{
		{Amount: 1000, PaymentMode: "Cash", PaymentType: "Advance", SourceType: "Booking", SourceID: 5},
		{Amount: 500, PaymentMode: "UPI", PaymentType: "Final", SourceType: "Booking", SourceID: 5},
		{Amount: 750, PaymentMode: "Cash", PaymentType: "Final", SourceType: "Booking", SourceID: 5, Status: models.PaymentRecordPending},
		{Amount: 300, PaymentMode: "Cash", PaymentType: "Final", SourceType: "Laundry", SourceID: 5},
	} {
		_, err := svc.CreatePayment(in)
		require.NoError(t, err)
	}

	total, err := svc.TotalPaid("Booking", 5)
	require.NoError(t, err)
	assert.Equal(t, 1500.0, total, "pending payments and other sources are excluded")

	total, err = svc.TotalPaid("Booking", 99)
	require.NoError(t, err)
	assert.Equal(t, 0.0, total)
}

func TestListPaymentsFiltered(t *testing.T) {
	db := newTestDB(t)
	svc := NewPaymentService(db, NewInvoiceService(db))

	for _, sid := range []uint{1, 1, 2} {
		_, err := svc.CreatePayment(CreatePaymentInput{
			Amount: 100, PaymentMode: "Cash", PaymentType: "Final",
			SourceType: "Booking", SourceID: sid,
		})
		require.NoError(t, err)
	}

	payments, err := svc.ListPayments("Booking", 1)
	require.NoError(t, err)
	assert.Len(t, payments, 2)

	payments, err = svc.ListPayments("", 0)
	require.NoError(t, err)
	assert.Len(t, payments, 3)
}
