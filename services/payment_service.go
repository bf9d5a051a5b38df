package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"havana-backend/models"
	"havana-backend/utils"

	"gorm.io/gorm"
)

// PaymentService appends payment records and applies linked ones to their
// invoice through the guarded invoice path.
type PaymentService struct {
	DB       *gorm.DB
	Invoices *InvoiceService
}

func NewPaymentService(db *gorm.DB, invoices *InvoiceService) *PaymentService {
	return &PaymentService{DB: db, Invoices: invoices}
}

// CreatePaymentInput is the request shape for CreatePayment. PaymentType is
// "Advance" or "Final".
type CreatePaymentInput struct {
	Amount      float64 `json:"amount"`
	PaymentMode string  `json:"paymentMode"`
	PaymentType string  `json:"paymentType"`
	Status      string  `json:"status"`
	InvoiceID   *uint   `json:"invoiceId"`
	SourceType  string  `json:"sourceType"`
	SourceID    uint    `json:"sourceId"`
	Remarks     string  `json:"remarks"`
	CollectedBy string  `json:"collectedBy"`
}

// CreatePayment appends a payment record. When an invoice is linked the
// amount is also applied to it, with overpayment rejected before anything is
// written. The record and the invoice update are two writes with no
// transaction; the invoice is mutated only through ProcessPayment.
func (s *PaymentService) CreatePayment(in CreatePaymentInput) (*models.Payment, error) {
	if in.Amount <= 0 {
		return nil, Validationf("amount must be greater than 0")
	}
	if in.PaymentMode == "" || in.PaymentType == "" || in.SourceType == "" || in.SourceID == 0 {
		return nil, Validationf("required fields missing")
	}

	if in.InvoiceID != nil {
		invoice, err := s.Invoices.GetInvoice(*in.InvoiceID)
		if err != nil {
			return nil, err
		}
		if invoice.PaidAmount+in.Amount > invoice.TotalAmount {
			return nil, Validationf("payment amount exceeds invoice total")
		}
	}

	number, err := s.UniquePaymentNumber()
	if err != nil {
		return nil, err
	}

	status := in.Status
	if status == "" {
		status = models.PaymentRecordPaid
	}

	payment := models.Payment{
		SourceType:    in.SourceType,
		SourceID:      in.SourceID,
		InvoiceID:     in.InvoiceID,
		PaymentNumber: number,
		Amount:        in.Amount,
		PaymentMode:   in.PaymentMode,
		IsAdvance:     strings.EqualFold(in.PaymentType, "advance"),
		Status:        status,
		CollectedBy:   in.CollectedBy,
		Remarks:       in.Remarks,
		ReceivedAt:    time.Now(),
	}
	if err := s.DB.Create(&payment).Error; err != nil {
		return nil, fmt.Errorf("create payment: %w", err)
	}

	if in.InvoiceID != nil {
		if _, err := s.Invoices.ProcessPayment(*in.InvoiceID, in.Amount, in.PaymentMode); err != nil {
			return nil, fmt.Errorf("apply payment to invoice: %w", err)
		}
	}
	return &payment, nil
}

// ListPayments returns payments, optionally filtered by source, newest first.
func (s *PaymentService) ListPayments(sourceType string, sourceID uint) ([]models.Payment, error) {
	q := s.DB.Order("received_at DESC")
	if sourceType != "" {
		q = q.Where("source_type = ?", sourceType)
	}
	if sourceID != 0 {
		q = q.Where("source_id = ?", sourceID)
	}
	var payments []models.Payment
	if err := q.Find(&payments).Error; err != nil {
		return nil, err
	}
	return payments, nil
}

func (s *PaymentService) GetPayment(id uint) (*models.Payment, error) {
	var payment models.Payment
	if err := s.DB.First(&payment, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NotFoundf("payment %d", id)
		}
		return nil, err
	}
	return &payment, nil
}

// TotalPaid sums the settled payments recorded against a source.
func (s *PaymentService) TotalPaid(sourceType string, sourceID uint) (float64, error) {
	var total float64
	err := s.DB.Model(&models.Payment{}).
		Where("source_type = ? AND source_id = ? AND status = ?", sourceType, sourceID, models.PaymentRecordPaid).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&total).Error
	if err != nil {
		return 0, err
	}
	return total, nil
}

// UniquePaymentNumber draws PAY-XXXXX numbers until one is free.
func (s *PaymentService) UniquePaymentNumber() (string, error) {
	for {
		number, err := utils.GenerateDocumentNumber("PAY")
		if err != nil {
			return "", err
		}
		var count int64
		if err := s.DB.Model(&models.Payment{}).Where("payment_number = ?", number).Count(&count).Error; err != nil {
			return "", err
		}
		if count == 0 {
			return number, nil
		}
	}
}
