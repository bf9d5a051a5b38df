package services

import (
	"errors"
	"fmt"
	"time"

	"havana-backend/models"
	"havana-backend/utils"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// InvoiceService builds invoices per service type and applies payments
// against them.
type InvoiceService struct {
	DB *gorm.DB
}

func NewInvoiceService(db *gorm.DB) *InvoiceService {
	return &InvoiceService{DB: db}
}

// CreateInvoiceInput is the request shape for CreateInvoice. ExtraItems feeds
// the types that take caller-supplied lines (Housekeeping and the generic
// service types).
type CreateInvoiceInput struct {
	ServiceType  string               `json:"serviceType"`
	ServiceRefID uint                 `json:"serviceRefId"`
	Tax          float64              `json:"tax"`
	Discount     float64              `json:"discount"`
	PaymentMode  string               `json:"paymentMode"`
	ExtraItems   []models.InvoiceItem `json:"items"`
}

// CreateInvoice dispatches to per-service-type line construction, computes
// totalAmount = subTotal + tax − discount, and saves the document once. The
// invoice is built fully in memory; a failed builder leaves nothing behind.
func (s *InvoiceService) CreateInvoice(in CreateInvoiceInput) (*models.Invoice, error) {
	if in.ServiceType == "" || in.ServiceRefID == 0 {
		return nil, Validationf("serviceType and serviceRefId are required")
	}
	if !models.ValidServiceType(in.ServiceType) {
		return nil, Validationf("invalid service type %q", in.ServiceType)
	}

	built, err := s.buildItems(in)
	if err != nil {
		return nil, err
	}

	discount := in.Discount
	if built.discount > 0 {
		discount = built.discount
	}
	totalAmount := built.subTotal + in.Tax - discount

	number, err := s.UniqueInvoiceNumber()
	if err != nil {
		return nil, err
	}

	invoice := models.Invoice{
		ServiceType:   in.ServiceType,
		ServiceRefID:  in.ServiceRefID,
		BookingID:     built.bookingID,
		InvoiceNumber: number,
		IssueDate:     time.Now(),
		Items:         built.items,
		SubTotal:      built.subTotal,
		Tax:           in.Tax,
		Discount:      discount,
		TotalAmount:   totalAmount,
		PaidAmount:    0,
		PaymentMode:   in.PaymentMode,
	}
	// A zero-total invoice starts out Paid, not Unpaid with a zero balance.
	invoice.RecomputeStatus()
	if err := s.DB.Create(&invoice).Error; err != nil {
		return nil, fmt.Errorf("create invoice: %w", err)
	}

	// Best-effort back-link from the booking to its invoice.
	if in.ServiceType == models.ServiceTypeBooking {
		if err := s.DB.Model(&models.Booking{}).Where("id = ?", in.ServiceRefID).
			Update("invoice_id", invoice.ID).Error; err != nil {
			log.Warn().Uint("booking", in.ServiceRefID).Err(err).Msg("invoice back-link failed")
		}
	}
	return &invoice, nil
}

type builtInvoice struct {
	items     []models.InvoiceItem
	subTotal  float64
	discount  float64
	bookingID *uint
}

func (s *InvoiceService) buildItems(in CreateInvoiceInput) (builtInvoice, error) {
	switch in.ServiceType {
	case models.ServiceTypeBooking:
		return s.bookingItems(in.ServiceRefID)
	case models.ServiceTypeRoomInspection:
		return s.inspectionItems(in.ServiceRefID)
	case models.ServiceTypeLaundry:
		return s.laundryItems(in.ServiceRefID)
	case models.ServiceTypeHousekeeping:
		if len(in.ExtraItems) > 0 {
			return builtInvoice{items: in.ExtraItems, subTotal: sumItems(in.ExtraItems)}, nil
		}
		return builtInvoice{items: []models.InvoiceItem{{Description: "Housekeeping Service", Amount: 0}}}, nil
	default:
		if len(in.ExtraItems) == 0 {
			return builtInvoice{}, Validationf("items are required for service type %q", in.ServiceType)
		}
		return builtInvoice{items: in.ExtraItems, subTotal: sumItems(in.ExtraItems)}, nil
	}
}

// bookingItems renders the room-charge line plus discounts as negative lines.
// The booking's own discounts win over any caller-supplied discount.
func (s *InvoiceService) bookingItems(bookingID uint) (builtInvoice, error) {
	var booking models.Booking
	if err := s.DB.First(&booking, bookingID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return builtInvoice{}, NotFoundf("booking %d", bookingID)
		}
		return builtInvoice{}, err
	}

	nights := BookingNights(&booking)
	roomCharge := RoomCharge(&booking)
	percentDiscount, flatDiscount := BookingDiscounts(&booking, roomCharge)

	items := []models.InvoiceItem{{
		Description: fmt.Sprintf("Room Charges (%d Night%s)", nights, plural(nights)),
		Amount:      roomCharge,
	}}
	if percentDiscount > 0 {
		items = append(items, models.InvoiceItem{
			Description: fmt.Sprintf("Discount (%g%%)", booking.DiscountPercent),
			Amount:      -percentDiscount,
		})
	}
	if flatDiscount > 0 {
		items = append(items, models.InvoiceItem{Description: "Flat Discount", Amount: -flatDiscount})
	}

	id := booking.ID
	return builtInvoice{
		items:     items,
		subTotal:  roomCharge,
		discount:  percentDiscount + flatDiscount,
		bookingID: &id,
	}, nil
}

func (s *InvoiceService) inspectionItems(inspectionID uint) (builtInvoice, error) {
	var inspection models.RoomInspection
	if err := s.DB.First(&inspection, inspectionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return builtInvoice{}, NotFoundf("room inspection %d", inspectionID)
		}
		return builtInvoice{}, err
	}

	var items []models.InvoiceItem
	var subTotal float64
	for _, ci := range inspection.Checklist {
		if !ci.Chargeable() {
			continue
		}
		qty := ci.Quantity
		if qty == 0 {
			qty = 1
		}
		amount := float64(qty) * ci.CostPerUnit
		items = append(items, models.InvoiceItem{
			Description: fmt.Sprintf("%s (%s) - Qty: %d", ci.Item, ci.Status, qty),
			Amount:      amount,
		})
		subTotal += amount
	}

	// Older inspections carry only the total; fall back to one generic line.
	if subTotal == 0 && inspection.TotalCharges > 0 {
		items = []models.InvoiceItem{{
			Description: "Room Inspection - " + inspection.InspectionType,
			Amount:      inspection.TotalCharges,
		}}
		subTotal = inspection.TotalCharges
	}

	return builtInvoice{items: items, subTotal: subTotal, bookingID: inspection.BookingID}, nil
}

func (s *InvoiceService) laundryItems(laundryID uint) (builtInvoice, error) {
	var order models.LaundryOrder
	if err := s.DB.First(&order, laundryID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return builtInvoice{}, NotFoundf("laundry order %d", laundryID)
		}
		return builtInvoice{}, err
	}

	items := make([]models.InvoiceItem, 0, len(order.Items))
	for _, it := range order.Items {
		qty := it.Quantity
		if qty == 0 {
			qty = 1
		}
		notes := it.ItemNotes
		if notes == "" {
			notes = "No notes"
		}
		items = append(items, models.InvoiceItem{
			Description: fmt.Sprintf("Laundry - %s (Qty: %d)", notes, qty),
			Amount:      it.CalculatedAmount,
		})
	}

	subTotal := order.TotalAmount
	if subTotal == 0 {
		subTotal = sumItems(items)
	}
	return builtInvoice{items: items, subTotal: subTotal, bookingID: order.BookingID}, nil
}

// ProcessPayment applies an amount to the invoice. Overpayment is rejected
// outright; the remaining fields are recomputed by the invoice invariant.
func (s *InvoiceService) ProcessPayment(invoiceID uint, amount float64, paymentMode string) (*models.Invoice, error) {
	if amount <= 0 {
		return nil, Validationf("valid payment amount is required")
	}

	var invoice models.Invoice
	if err := s.DB.First(&invoice, invoiceID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NotFoundf("invoice %d", invoiceID)
		}
		return nil, err
	}

	if invoice.PaidAmount+amount > invoice.TotalAmount {
		return nil, Validationf("payment amount exceeds invoice total")
	}

	invoice.PaidAmount += amount
	if paymentMode != "" {
		invoice.PaymentMode = paymentMode
	}
	invoice.RecomputeStatus()
	if invoice.Status == models.InvoiceStatusPaid {
		invoice.PaidAt = utils.PtrTime(time.Now())
	}

	if err := s.DB.Save(&invoice).Error; err != nil {
		return nil, fmt.Errorf("save invoice: %w", err)
	}
	return &invoice, nil
}

// ListInvoices returns all invoices, newest first.
func (s *InvoiceService) ListInvoices() ([]models.Invoice, error) {
	var invoices []models.Invoice
	if err := s.DB.Order("created_at DESC").Find(&invoices).Error; err != nil {
		return nil, err
	}
	return invoices, nil
}

func (s *InvoiceService) GetInvoice(id uint) (*models.Invoice, error) {
	var invoice models.Invoice
	if err := s.DB.First(&invoice, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NotFoundf("invoice %d", id)
		}
		return nil, err
	}
	return &invoice, nil
}

// FinalInvoiceView is the consolidated folio for a booking: the room-charge
// lines plus every non-booking invoice line, under one grand total. It is a
// view, never persisted.
type FinalInvoiceView struct {
	InvoiceNumber string               `json:"invoiceNumber"`
	BookingID     uint                 `json:"bookingId"`
	Items         []models.InvoiceItem `json:"items"`
	SubTotal      float64              `json:"subTotal"`
	Discount      float64              `json:"discount"`
	GrandTotal    float64              `json:"grandTotal"`
}

// GetFinalInvoiceByBooking consolidates the booking's room charges with the
// line items of every other invoice linked to it.
func (s *InvoiceService) GetFinalInvoiceByBooking(bookingID uint) (*FinalInvoiceView, error) {
	var booking models.Booking
	if err := s.DB.First(&booking, bookingID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NotFoundf("booking %d", bookingID)
		}
		return nil, err
	}

	var linked []models.Invoice
	if err := s.DB.Where("booking_id = ?", bookingID).Find(&linked).Error; err != nil {
		return nil, err
	}

	nights := BookingNights(&booking)
	roomCharge := RoomCharge(&booking)
	percentDiscount, flatDiscount := BookingDiscounts(&booking, roomCharge)
	totalDiscount := percentDiscount + flatDiscount

	items := []models.InvoiceItem{{
		Description: fmt.Sprintf("Room Charges (%d Night%s)", nights, plural(nights)),
		Amount:      roomCharge,
	}}
	if percentDiscount > 0 {
		items = append(items, models.InvoiceItem{
			Description: fmt.Sprintf("Discount (%g%%)", booking.DiscountPercent),
			Amount:      -percentDiscount,
		})
	}
	if flatDiscount > 0 {
		items = append(items, models.InvoiceItem{Description: "Flat Discount", Amount: -flatDiscount})
	}

	var additional float64
	for _, inv := range linked {
		if inv.ServiceType == models.ServiceTypeBooking {
			continue
		}
		for _, it := range inv.Items {
			items = append(items, it)
			additional += it.Amount
		}
	}

	subTotal := roomCharge + additional
	number, err := s.UniqueInvoiceNumber()
	if err != nil {
		return nil, err
	}

	return &FinalInvoiceView{
		InvoiceNumber: number,
		BookingID:     bookingID,
		Items:         items,
		SubTotal:      subTotal,
		Discount:      totalDiscount,
		GrandTotal:    subTotal - totalDiscount,
	}, nil
}

// UniqueInvoiceNumber draws INV-XXXXX numbers until one is free.
func (s *InvoiceService) UniqueInvoiceNumber() (string, error) {
	for {
		number, err := utils.GenerateDocumentNumber("INV")
		if err != nil {
			return "", err
		}
		var count int64
		if err := s.DB.Model(&models.Invoice{}).Where("invoice_number = ?", number).Count(&count).Error; err != nil {
			return "", err
		}
		if count == 0 {
			return number, nil
		}
	}
}

func sumItems(items []models.InvoiceItem) float64 {
	var sum float64
	for _, it := range items {
		sum += it.Amount
	}
	return sum
}
