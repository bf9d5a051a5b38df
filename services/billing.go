package services

import (
	"math"
	"time"

	"havana-backend/models"
)

// Default GST split used when no configured rate row exists yet.
const (
	DefaultCGSTRate = 0.06
	DefaultSGSTRate = 0.06
)

// TaxConfig is the tax rate snapshot a computation runs with. It is passed
// explicitly per call; there is no mutable global, so an admin rate change
// only affects amounts computed afterwards.
type TaxConfig struct {
	CGSTRate float64
	SGSTRate float64
}

// DefaultTaxConfig is the fallback 6% + 6% split.
func DefaultTaxConfig() TaxConfig {
	return TaxConfig{CGSTRate: DefaultCGSTRate, SGSTRate: DefaultSGSTRate}
}

// TaxConfigForBooking prefers the booking's snapshotted rates over cfg.
func TaxConfigForBooking(b *models.Booking, cfg TaxConfig) TaxConfig {
	if b.CGSTRate > 0 || b.SGSTRate > 0 {
		return TaxConfig{CGSTRate: b.CGSTRate, SGSTRate: b.SGSTRate}
	}
	return cfg
}

// NightsBetween is ceil(|checkOut − checkIn| in days), minimum 1.
func NightsBetween(checkIn, checkOut time.Time) int {
	diff := checkOut.Sub(checkIn)
	if diff < 0 {
		diff = -diff
	}
	nights := int(math.Ceil(diff.Hours() / 24))
	if nights < 1 {
		nights = 1
	}
	return nights
}

// BookingNights derives the nights of a stay; missing dates degrade to the
// stored day count, minimum 1.
func BookingNights(b *models.Booking) int {
	if b.CheckInDate != nil && b.CheckOutDate != nil {
		return NightsBetween(*b.CheckInDate, *b.CheckOutDate)
	}
	if b.Days > 0 {
		return b.Days
	}
	return 1
}

// RoomCharge is Σ customRate × nights over roomRates, falling back to
// rate × nights when no per-room rates exist. A missing rate charges 0.
func RoomCharge(b *models.Booking) float64 {
	nights := BookingNights(b)
	if len(b.RoomRates) == 0 {
		return b.Rate * float64(nights)
	}
	var total float64
	for _, rr := range b.RoomRates {
		total += rr.CustomRate * float64(nights)
	}
	return total
}

// ExtraBedDays is how many nights the extra bed of a room is billed for:
// ceil((checkOut − extraBedStart) / 1 day) when a start date precedes the
// check-out, otherwise the full stay. Non-positive spans bill 0 days.
func ExtraBedDays(rr models.RoomRate, checkOut *time.Time, fullDays int) int {
	if !rr.ExtraBed {
		return 0
	}
	if rr.ExtraBedStartDate == nil || checkOut == nil {
		return fullDays
	}
	if !rr.ExtraBedStartDate.Before(*checkOut) {
		return 0
	}
	days := int(math.Ceil(checkOut.Sub(*rr.ExtraBedStartDate).Hours() / 24))
	if days <= 0 {
		return 0
	}
	return days
}

// ExtraBedCharge bills one room's extra bed at the booking's per-night rate.
func ExtraBedCharge(b *models.Booking, rr models.RoomRate) float64 {
	days := ExtraBedDays(rr, b.CheckOutDate, BookingNights(b))
	if days <= 0 {
		return 0
	}
	return b.ExtraBedCharge * float64(days)
}

// TotalExtraBedCharge sums extra-bed charges across the booking's rooms.
func TotalExtraBedCharge(b *models.Booking) float64 {
	var total float64
	for _, rr := range b.RoomRates {
		total += ExtraBedCharge(b, rr)
	}
	return total
}

// PercentDiscount is roomCharge × discountPercent/100; non-positive percents
// discount nothing.
func PercentDiscount(roomCharge, discountPercent float64) float64 {
	if discountPercent <= 0 {
		return 0
	}
	return roomCharge * discountPercent / 100
}

// BookingDiscounts returns the percent and flat discount amounts for a stay.
func BookingDiscounts(b *models.Booking, roomCharge float64) (percent, flat float64) {
	return PercentDiscount(roomCharge, b.DiscountPercent), b.DiscountRoomSource
}

// GSTSplit applies the configured CGST/SGST rates to the taxable amount.
// The taxable base is the pre-discount combined base: room charge plus any
// room-service/restaurant charges added before tax.
func GSTSplit(taxableAmount float64, cfg TaxConfig) (cgst, sgst float64) {
	return taxableAmount * cfg.CGSTRate, taxableAmount * cfg.SGSTRate
}
