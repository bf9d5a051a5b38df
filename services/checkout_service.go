package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"havana-backend/models"
	"havana-backend/utils"

	"github.com/rs/zerolog/log"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// CheckoutService owns the Checkout entity: folio creation, payment-status
// transitions and the rendered invoice view.
type CheckoutService struct {
	DB      *gorm.DB
	Charges *ChargeService
	GST     *GSTService
}

func NewCheckoutService(db *gorm.DB, charges *ChargeService, gst *GSTService) *CheckoutService {
	return &CheckoutService{DB: db, Charges: charges, GST: gst}
}

// CreateCheckout aggregates the booking's charges into its Checkout record.
// Upsert semantics: a second call updates the existing record's charges and
// preserves what has already been paid, it never duplicates.
func (s *CheckoutService) CreateCheckout(bookingID uint) (*models.Checkout, error) {
	breakdown, _, err := s.Charges.Aggregate(bookingID)
	if err != nil {
		return nil, err
	}

	serviceItems, err := json.Marshal(map[string]any{
		"restaurant": breakdown.Restaurant,
		"laundry":    breakdown.Laundry,
		"inspection": breakdown.Inspections,
	})
	if err != nil {
		return nil, fmt.Errorf("encode service items: %w", err)
	}

	total := breakdown.Total()

	var checkout models.Checkout
	err = s.DB.Where("booking_id = ?", bookingID).First(&checkout).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		checkout = models.Checkout{
			BookingID:     bookingID,
			Status:        models.CheckoutStatusPending,
			PendingAmount: total,
		}
	case err != nil:
		return nil, fmt.Errorf("load checkout: %w", err)
	}

	paid := checkout.PaidAmount()
	checkout.BookingCharges = breakdown.BookingCharges
	checkout.RestaurantCharges = breakdown.RestaurantCharges
	checkout.RoomServiceCharges = breakdown.RoomServiceCharges
	checkout.LaundryCharges = breakdown.LaundryCharges
	checkout.InspectionCharges = breakdown.InspectionCharges
	checkout.TotalAmount = total
	checkout.PendingAmount = maxFloat(0, total-paid)
	checkout.ServiceItems = datatypes.JSON(serviceItems)

	if err := s.DB.Save(&checkout).Error; err != nil {
		return nil, fmt.Errorf("save checkout: %w", err)
	}
	return &checkout, nil
}

// GetByBooking returns the checkout for a booking, with the booking preloaded.
func (s *CheckoutService) GetByBooking(bookingID uint) (*models.Checkout, error) {
	var checkout models.Checkout
	err := s.DB.Preload("Booking").Where("booking_id = ?", bookingID).First(&checkout).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, NotFoundf("checkout for booking %d", bookingID)
	}
	if err != nil {
		return nil, err
	}
	return &checkout, nil
}

// UpdatePaymentStatus sets the checkout status and, when a paid amount is
// supplied, recomputes pendingAmount = max(0, total − paid). A transition to
// the terminal Paid state finalizes the stay: the booking is checked out,
// marked paid, and every room on it is released best-effort.
func (s *CheckoutService) UpdatePaymentStatus(checkoutID uint, status string, paidAmount *float64) (*models.Checkout, error) {
	var checkout models.Checkout
	if err := s.DB.First(&checkout, checkoutID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NotFoundf("checkout %d", checkoutID)
		}
		return nil, err
	}

	checkout.Status = status
	if paidAmount != nil {
		checkout.PendingAmount = maxFloat(0, checkout.TotalAmount-*paidAmount)
	}
	if err := s.DB.Save(&checkout).Error; err != nil {
		return nil, fmt.Errorf("save checkout: %w", err)
	}

	if status == models.CheckoutStatusPaid {
		s.finalizeStay(checkout.BookingID)
	}
	return &checkout, nil
}

// finalizeStay flips the booking to Checked Out / Paid and releases its rooms.
// Secondary writes are best-effort: a missing room is logged and skipped, and
// the status synchronizer repairs any drift later.
func (s *CheckoutService) finalizeStay(bookingID uint) {
	var booking models.Booking
	if err := s.DB.First(&booking, bookingID).Error; err != nil {
		log.Warn().Uint("booking", bookingID).Err(err).Msg("finalize: booking missing, skipping")
		return
	}

	booking.Status = models.BookingStatusCheckedOut
	booking.PaymentStatus = models.PaymentStatusPaid
	if err := s.DB.Save(&booking).Error; err != nil {
		log.Warn().Uint("booking", bookingID).Err(err).Msg("finalize: booking update failed")
	}

	for _, roomNumber := range booking.RoomNumberList() {
		var room models.Room
		if err := s.DB.Where("room_number = ?", roomNumber).First(&room).Error; err != nil {
			log.Warn().Str("room", roomNumber).Err(err).Msg("finalize: room not found, skipping release")
			continue
		}
		if room.Status == models.RoomStatusBooked {
			room.Status = models.RoomStatusAvailable
			if err := s.DB.Save(&room).Error; err != nil {
				log.Warn().Str("room", roomNumber).Err(err).Msg("finalize: room release failed")
			}
		}
	}
}

// InvoiceView is the rendered bill for a checkout.
type InvoiceView struct {
	InvoiceDetails InvoiceViewDetails `json:"invoiceDetails"`
	ClientDetails  InvoiceViewClient  `json:"clientDetails"`
	Items          []InvoiceViewItem  `json:"items"`
	Taxes          []InvoiceViewTax   `json:"taxes"`
	Payment        InvoiceViewPayment `json:"payment"`
	OtherCharges   []ChargeLine       `json:"otherCharges"`
}

type InvoiceViewDetails struct {
	BillNo       string `json:"billNo"`
	BillDate     string `json:"billDate"`
	GRCNo        string `json:"grcNo"`
	RoomNo       string `json:"roomNo"`
	CheckInDate  string `json:"checkInDate"`
	CheckOutDate string `json:"checkOutDate"`
}

type InvoiceViewClient struct {
	Name     string `json:"name"`
	Address  string `json:"address"`
	City     string `json:"city"`
	MobileNo string `json:"mobileNo"`
}

type InvoiceViewItem struct {
	Date        string  `json:"date"`
	Particulars string  `json:"particulars"`
	CGST        float64 `json:"cgst"`
	SGST        float64 `json:"sgst"`
	Amount      float64 `json:"amount"`
}

type InvoiceViewTax struct {
	TaxRate       float64 `json:"taxRate"`
	TaxableAmount float64 `json:"taxableAmount"`
	CGST          float64 `json:"cgst"`
	SGST          float64 `json:"sgst"`
	Amount        float64 `json:"amount"`
}

type InvoiceViewPayment struct {
	TaxableAmount float64 `json:"taxableAmount"`
	CGST          float64 `json:"cgst"`
	SGST          float64 `json:"sgst"`
	Discount      float64 `json:"discount"`
	Total         float64 `json:"total"`
}

// RenderInvoice builds the GST-split invoice view for a checkout from the
// stored totals plus the live booking snapshot. When the stored room-service
// figure is zero it is recomputed from the source orders and persisted: a
// consistency repair on read, not a pure query.
func (s *CheckoutService) RenderInvoice(checkoutID uint) (*InvoiceView, error) {
	var checkout models.Checkout
	err := s.DB.Preload("Booking").First(&checkout, checkoutID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, NotFoundf("checkout %d", checkoutID)
	}
	if err != nil {
		return nil, err
	}
	booking := checkout.Booking

	// Lazy backfill of room-service charges recorded before the aggregator
	// learned about them.
	if checkout.RoomServiceCharges == 0 {
		orders, err := s.Charges.unpaidRoomServiceOrders(&booking)
		if err == nil {
			var recomputed float64
			for _, o := range orders {
				recomputed += o.ChargeTotal()
			}
			if recomputed > 0 {
				checkout.RoomServiceCharges = recomputed
				checkout.TotalAmount += recomputed
				checkout.PendingAmount += recomputed
				if err := s.DB.Save(&checkout).Error; err != nil {
					log.Warn().Uint("checkout", checkout.ID).Err(err).Msg("room-service backfill save failed")
				}
			}
		}
	}

	cfg := TaxConfigForBooking(&booking, s.GST.Current())
	taxable := checkout.BookingCharges + checkout.RoomServiceCharges + checkout.RestaurantCharges
	cgst, sgst := GSTSplit(taxable, cfg)

	roomCharge := RoomCharge(&booking)
	percentDiscount, flatDiscount := BookingDiscounts(&booking, roomCharge)
	discount := percentDiscount + flatDiscount

	now := time.Now()
	view := &InvoiceView{
		InvoiceDetails: InvoiceViewDetails{
			BillNo:       utils.GenerateBillNumber(now),
			BillDate:     formatDate(&now),
			GRCNo:        orNA(booking.GRCNo),
			RoomNo:       orNA(booking.RoomNumber),
			CheckInDate:  formatDate(booking.CheckInDate),
			CheckOutDate: formatDate(booking.CheckOutDate),
		},
		ClientDetails: InvoiceViewClient{
			Name:     orNA(booking.GuestName),
			Address:  booking.Address,
			City:     booking.City,
			MobileNo: orNA(booking.MobileNo),
		},
	}

	view.Items = append(view.Items, InvoiceViewItem{
		Date:        formatDate(booking.CheckInDate),
		Particulars: fmt.Sprintf("Room Rent (Room: %s)", orNA(booking.RoomNumber)),
		CGST:        roomCharge * cfg.CGSTRate,
		SGST:        roomCharge * cfg.SGSTRate,
		Amount:      roomCharge,
	})
	for _, rr := range booking.RoomRates {
		if charge := ExtraBedCharge(&booking, rr); charge > 0 {
			view.Items = append(view.Items, InvoiceViewItem{
				Date:        formatDate(booking.CheckInDate),
				Particulars: fmt.Sprintf("Extra Bed (Room: %s)", rr.RoomNumber),
				Amount:      charge,
			})
		}
	}
	if checkout.RoomServiceCharges > 0 {
		view.Items = append(view.Items, InvoiceViewItem{
			Date:        formatDate(&now),
			Particulars: "Room Service",
			CGST:        checkout.RoomServiceCharges * cfg.CGSTRate,
			SGST:        checkout.RoomServiceCharges * cfg.SGSTRate,
			Amount:      checkout.RoomServiceCharges,
		})
	}

	view.Taxes = []InvoiceViewTax{{
		TaxRate:       cfg.CGSTRate * 100,
		TaxableAmount: taxable,
		CGST:          cgst,
		SGST:          sgst,
		Amount:        taxable,
	}}
	view.Payment = InvoiceViewPayment{
		TaxableAmount: taxable,
		CGST:          cgst,
		SGST:          sgst,
		Discount:      discount,
		Total:         checkout.TotalAmount - discount + cgst + sgst,
	}

	if checkout.RestaurantCharges > 0 {
		view.OtherCharges = append(view.OtherCharges, ChargeLine{Description: "IN ROOM DINING", Amount: checkout.RestaurantCharges})
	}
	if checkout.LaundryCharges > 0 {
		view.OtherCharges = append(view.OtherCharges, ChargeLine{Description: "LAUNDRY", Amount: checkout.LaundryCharges})
	}
	if checkout.InspectionCharges > 0 {
		view.OtherCharges = append(view.OtherCharges, ChargeLine{Description: "ROOM INSPECTION CHARGES", Amount: checkout.InspectionCharges})
	}

	return view, nil
}

func maxFloat(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}

func formatDate(t *time.Time) string {
	if t == nil {
		return "N/A"
	}
	return t.Format("02/01/2006")
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}
