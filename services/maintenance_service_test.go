package services

import (
	"strings"
	"testing"
	"time"

	"havana-backend/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFixRoomStatus(t *testing.T) {
	db := newTestDB(t)
	svc := NewMaintenanceService(db)
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

	// 101 should be booked: an active stay spans the reference time.
	// 102 should be released: nothing claims it.
	// 103 is in maintenance and must never be touched.
	require.NoError(t, db.Create(&models.Room{RoomNumber: "101", Status: models.RoomStatusAvailable}).Error)
	require.NoError(t, db.Create(&models.Room{RoomNumber: "102", Status: models.RoomStatusBooked}).Error)
	require.NoError(t, db.Create(&models.Room{RoomNumber: "103", Status: models.RoomStatusMaintenance}).Error)

	require.NoError(t, db.Create(&models.Booking{
		GRCNo:        "GRC-7",
		RoomNumber:   "101",
		Status:       models.BookingStatusCheckedIn,
		CheckInDate:  date(2025, 6, 14),
		CheckOutDate: date(2025, 6, 17),
		IsActive:     true,
	}).Error)

	report, err := svc.FixRoomStatus(now)
	require.NoError(t, err)

	assert.Equal(t, 3, report.RoomsChecked)
	assert.Equal(t, 1, report.BookingsChecked)
	require.Len(t, report.Corrections, 2)

	byRoom := map[string]RoomCorrection{}
	for _, c := range report.Corrections {
		byRoom[c.RoomNumber] = c
	}
	assert.Equal(t, models.RoomStatusBooked, byRoom["101"].To)
	assert.Equal(t, models.RoomStatusAvailable, byRoom["102"].To)

	var maintenance models.Room
	require.NoError(t, db.Where("room_number = ?", "103").First(&maintenance).Error)
	assert.Equal(t, models.RoomStatusMaintenance, maintenance.Status)

	// Idempotent: running again right away changes nothing.
	report, err = svc.FixRoomStatus(now)
	require.NoError(t, err)
	assert.Empty(t, report.Corrections)
}

func TestFixRoomStatusMatchesLegacyNumbering(t *testing.T) {
	db := newTestDB(t)
	svc := NewMaintenanceService(db)
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

	require.NoError(t, db.Create(&models.Room{RoomNumber: "7", Status: models.RoomStatusAvailable}).Error)
	require.NoError(t, db.Create(&models.Booking{
		GRCNo:        "GRC-9",
		RoomNumber:   "007",
		Status:       models.BookingStatusBooked,
		CheckInDate:  date(2025, 6, 15),
		CheckOutDate: date(2025, 6, 16),
		IsActive:     true,
	}).Error)

	report, err := svc.FixRoomStatus(now)
	require.NoError(t, err)

	require.Len(t, report.Corrections, 1)
	assert.Equal(t, "7", report.Corrections[0].RoomNumber, "zero-padded numbers match numerically")
	assert.Equal(t, models.RoomStatusBooked, report.Corrections[0].To)
}

func TestFixRoomStatusIgnoresInactiveBookings(t *testing.T) {
	db := newTestDB(t)
	svc := NewMaintenanceService(db)
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

	require.NoError(t, db.Create(&models.Room{RoomNumber: "201", Status: models.RoomStatusBooked}).Error)
	require.NoError(t, db.Create(&models.Booking{
		RoomNumber:   "201",
		Status:       models.BookingStatusCheckedIn,
		CheckInDate:  date(2025, 6, 14),
		CheckOutDate: date(2025, 6, 17),
		IsActive:     true,
		Deleted:      true,
	}).Error)

	report, err := svc.FixRoomStatus(now)
	require.NoError(t, err)

	require.Len(t, report.Corrections, 1)
	assert.Equal(t, models.RoomStatusAvailable, report.Corrections[0].To, "deleted bookings hold no rooms")
}

func TestFixPaymentData(t *testing.T) {
	db := newTestDB(t)
	svc := NewMaintenanceService(db)

	ledgerShort := models.Booking{
		GRCNo:         "GRC-21",
		PaymentStatus: models.PaymentStatusPaid,
		NetAmount:     5000,
		AdvancePayments: []models.AdvancePayment{
			{Amount: 2000, PaymentMethod: "Cash", PaymentDate: time.Now()},
		},
		TotalAdvanceAmount: 2000,
		IsActive:           true,
	}
	settled := models.Booking{
		GRCNo:         "GRC-22",
		PaymentStatus: models.PaymentStatusPaid,
		NetAmount:     3000,
		AdvancePayments: []models.AdvancePayment{
			{Amount: 3000, PaymentMethod: "UPI", PaymentDate: time.Now()},
		},
		TotalAdvanceAmount: 3000,
		IsActive:           true,
	}
	pending := models.Booking{
		GRCNo:         "GRC-23",
		PaymentStatus: models.PaymentStatusPending,
		NetAmount:     4000,
		IsActive:      true,
	}
	require.NoError(t, db.Create(&ledgerShort).Error)
	require.NoError(t, db.Create(&settled).Error)
	require.NoError(t, db.Create(&pending).Error)

	fixes, err := svc.FixPaymentData()
	require.NoError(t, err)

	require.Len(t, fixes, 1, "only paid bookings with an unsettled ledger are repaired")
	assert.Equal(t, ledgerShort.ID, fixes[0].BookingID)
	assert.Equal(t, 3000.0, fixes[0].BalanceDue)

	var reloaded models.Booking
	require.NoError(t, db.First(&reloaded, ledgerShort.ID).Error)
	require.Len(t, reloaded.AdvancePayments, 2)
	balancing := reloaded.AdvancePayments[1]
	assert.Equal(t, 3000.0, balancing.Amount)
	assert.Equal(t, "Unknown", balancing.PaymentMethod)
	assert.True(t, strings.HasPrefix(balancing.TransactionID, "FIX_"))
	assert.Equal(t, "Completed", balancing.Status)
	assert.Equal(t, 5000.0, reloaded.TotalAdvanceAmount)

	// Convergent: the repaired ledger is not repaired twice.
	fixes, err = svc.FixPaymentData()
	require.NoError(t, err)
	assert.Empty(t, fixes)
}

func TestMigrateBookingRoomRates(t *testing.T) {
	db := newTestDB(t)
	svc := NewMaintenanceService(db)

	legacy := models.Booking{
		GRCNo:      "GRC-31",
		RoomNumber: "101, 102",
		Rate:       4000,
		Days:       2,
		IsActive:   true,
	}
	flagged := models.Booking{
		GRCNo:       "GRC-32",
		RoomNumber:  "201",
		CheckInDate: date(2025, 6, 10),
		RoomRates:   []models.RoomRate{{RoomNumber: "201", CustomRate: 1500, ExtraBed: true}},
		IsActive:    true,
	}
	require.NoError(t, db.Create(&legacy).Error)
	require.NoError(t, db.Create(&flagged).Error)

	migrated, err := svc.MigrateBookingRoomRates()
	require.NoError(t, err)
	assert.Equal(t, 2, migrated)

	var reloaded models.Booking
	require.NoError(t, db.First(&reloaded, legacy.ID).Error)
	require.Len(t, reloaded.RoomRates, 2)
	assert.Equal(t, 1000.0, reloaded.RoomRates[0].CustomRate, "legacy rate split per room per day")
	assert.Equal(t, "101", reloaded.RoomRates[0].RoomNumber)
	assert.Equal(t, "102", reloaded.RoomRates[1].RoomNumber)

	reloaded = models.Booking{}
	require.NoError(t, db.First(&reloaded, flagged.ID).Error)
	require.NotNil(t, reloaded.RoomRates[0].ExtraBedStartDate)
	assert.True(t, reloaded.RoomRates[0].ExtraBedStartDate.Equal(*flagged.CheckInDate),
		"extra-bed start defaults to check-in")

	migrated, err = svc.MigrateBookingRoomRates()
	require.NoError(t, err)
	assert.Equal(t, 0, migrated)
}
