package services

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"vetclinic-server/internal/models"
)

var (
	// ErrDuplicateInvoice is returned when the appointment already has an invoice.
	ErrDuplicateInvoice = errors.New("an invoice already exists for this appointment")
	// ErrPaymentNotPositive is returned for a zero or negative payment amount.
	ErrPaymentNotPositive = errors.New("payment amount must be greater than zero")
	// ErrPaymentExceedsBalance is returned when a payment is larger than what is still owed.
	ErrPaymentExceedsBalance = errors.New("payment amount exceeds remaining balance")
	// ErrInvoiceSettled is returned when a payment is added to a fully paid invoice.
	ErrInvoiceSettled = errors.New("invoice has no remaining balance")
)

var hundred = decimal.NewFromInt(100)

// defaultVATRate is the fraction assumed when a VAT percentage has to be
// derived from a zero-priced line item.
var defaultVATRate = decimal.NewFromFloat(0.24)

// ItemTotal computes one line's total: quantity*unitPrice plus the item-level
// VAT amount minus the item-level discount amount, both expressed as whole
// percentages of the base price.
func ItemTotal(quantity int, unitPrice, vatPct, discountPct decimal.Decimal) decimal.Decimal {
	base := unitPrice.Mul(decimal.NewFromInt(int64(quantity)))
	vat := vatPct.Div(hundred).Mul(base)
	discount := discountPct.Div(hundred).Mul(base)
	return base.Add(vat).Sub(discount)
}

// Subtotal sums the stored line totals of an invoice's items.
func Subtotal(items []models.InvoiceItem) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(decimal.NewFromFloat(item.TotalPrice))
	}
	return total
}

// FinalAmount applies the invoice-level tax and discount percentages on top
// of the subtotal. Item-level VAT/discount is already baked into the
// subtotal, so a percentage set at both levels is applied twice; that is the
// behavior the billing screen has always had.
func FinalAmount(subtotal, taxPct, discountPct decimal.Decimal) decimal.Decimal {
	tax := subtotal.Mul(taxPct.Div(hundred))
	discount := subtotal.Mul(discountPct.Div(hundred))
	return subtotal.Add(tax).Sub(discount)
}

// RemainingBalance is the final amount minus everything paid so far.
func RemainingBalance(final decimal.Decimal, payments []models.Payment) decimal.Decimal {
	paid := decimal.Zero
	for _, p := range payments {
		paid = paid.Add(decimal.NewFromFloat(p.Amount))
	}
	return final.Sub(paid)
}

// DeriveStatus maps a remaining balance to a payment status label.
func DeriveStatus(remaining, final decimal.Decimal) models.PaymentStatus {
	switch {
	case remaining.LessThanOrEqual(decimal.Zero):
		return models.PaymentStatusPaid
	case remaining.LessThan(final):
		return models.PaymentStatusPartiallyPaid
	default:
		return models.PaymentStatusUnpaid
	}
}

// VATFraction derives the VAT fraction from a line's VAT amount and base
// price. A zero base would divide by zero, so it falls back to the standard
// rate instead.
func VATFraction(vatAmount, base decimal.Decimal) decimal.Decimal {
	if base.IsZero() {
		return defaultVATRate
	}
	return vatAmount.Div(base)
}

// BillingService owns invoices, their line items and their payments.
type BillingService struct {
	db *gorm.DB
}

// NewBillingService creates a new BillingService.
func NewBillingService(db *gorm.DB) *BillingService {
	return &BillingService{db: db}
}

// CreateInvoice creates a zeroed draft invoice for an appointment. One
// invoice per appointment, enforced here at insert time rather than by a
// schema constraint.
func (s *BillingService) CreateInvoice(appointmentID, paymentMethod string) (*models.Invoice, error) {
	var invoice models.Invoice
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var appointment models.Appointment
		if err := tx.First(&appointment, "id = ?", appointmentID).Error; err != nil {
			return err
		}

		var existing int64
		if err := tx.Model(&models.Invoice{}).Where("appointment_id = ?", appointmentID).Count(&existing).Error; err != nil {
			return err
		}
		if existing > 0 {
			return ErrDuplicateInvoice
		}

		invoice = models.Invoice{
			AppointmentID: appointmentID,
			PatientID:     appointment.PatientID,
			PaymentStatus: models.PaymentStatusUnpaid,
			PaymentMethod: paymentMethod,
		}
		return tx.Create(&invoice).Error
	})
	if err != nil {
		return nil, err
	}
	return &invoice, nil
}

// AddItem appends a line item and recalculates the invoice.
func (s *BillingService) AddItem(invoiceID, description string, quantity int, unitPrice, vatPct, discountPct float64) (*models.InvoiceItem, error) {
	total := ItemTotal(quantity,
		decimal.NewFromFloat(unitPrice),
		decimal.NewFromFloat(vatPct),
		decimal.NewFromFloat(discountPct))

	item := models.InvoiceItem{
		InvoiceID:   invoiceID,
		Description: description,
		Quantity:    quantity,
		UnitPrice:   unitPrice,
		VATPct:      vatPct,
		DiscountPct: discountPct,
		TotalPrice:  total.Round(2).InexactFloat64(),
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&models.Invoice{}, "id = ?", invoiceID).Error; err != nil {
			return err
		}
		if err := tx.Create(&item).Error; err != nil {
			return err
		}
		return s.recalculate(tx, invoiceID)
	})
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// UpdateItem replaces a line item's fields and recalculates the invoice.
func (s *BillingService) UpdateItem(itemID, description string, quantity int, unitPrice, vatPct, discountPct float64) (*models.InvoiceItem, error) {
	var item models.InvoiceItem
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&item, "id = ?", itemID).Error; err != nil {
			return err
		}

		item.Description = description
		item.Quantity = quantity
		item.UnitPrice = unitPrice
		item.VATPct = vatPct
		item.DiscountPct = discountPct
		item.TotalPrice = ItemTotal(quantity,
			decimal.NewFromFloat(unitPrice),
			decimal.NewFromFloat(vatPct),
			decimal.NewFromFloat(discountPct)).Round(2).InexactFloat64()

		if err := tx.Save(&item).Error; err != nil {
			return err
		}
		return s.recalculate(tx, item.InvoiceID)
	})
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// DeleteItem removes a line item and recalculates the invoice.
func (s *BillingService) DeleteItem(itemID string) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var item models.InvoiceItem
		if err := tx.First(&item, "id = ?", itemID).Error; err != nil {
			return err
		}
		if err := tx.Delete(&item).Error; err != nil {
			return err
		}
		return s.recalculate(tx, item.InvoiceID)
	})
}

// SetRates updates the invoice-level tax/discount percentages and payment
// method, then recalculates.
func (s *BillingService) SetRates(invoiceID string, taxPct, discountPct float64, paymentMethod string) (*models.Invoice, error) {
	var invoice models.Invoice
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&invoice, "id = ?", invoiceID).Error; err != nil {
			return err
		}
		invoice.TaxPct = taxPct
		invoice.DiscountPct = discountPct
		if paymentMethod != "" {
			invoice.PaymentMethod = paymentMethod
		}
		if err := tx.Save(&invoice).Error; err != nil {
			return err
		}
		if err := s.recalculate(tx, invoiceID); err != nil {
			return err
		}
		return tx.First(&invoice, "id = ?", invoiceID).Error
	})
	if err != nil {
		return nil, err
	}
	return &invoice, nil
}

// AddPayment records a partial payment. The amount is validated against the
// current remaining balance before anything is written: an overdrawn payment
// is an input error, not a state change.
func (s *BillingService) AddPayment(invoiceID string, amount float64, method, notes string) (*models.Payment, error) {
	var payment models.Payment
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var invoice models.Invoice
		if err := tx.Preload("Payments").First(&invoice, "id = ?", invoiceID).Error; err != nil {
			return err
		}

		remaining := RemainingBalance(decimal.NewFromFloat(invoice.FinalAmount), invoice.Payments)
		if remaining.LessThanOrEqual(decimal.Zero) {
			return ErrInvoiceSettled
		}

		amt := decimal.NewFromFloat(amount)
		if amt.LessThanOrEqual(decimal.Zero) {
			return ErrPaymentNotPositive
		}
		if amt.GreaterThan(remaining) {
			return ErrPaymentExceedsBalance
		}

		payment = models.Payment{
			InvoiceID: invoiceID,
			Amount:    amount,
			Method:    method,
			Notes:     notes,
			PaidAt:    time.Now(),
		}
		if err := tx.Create(&payment).Error; err != nil {
			return err
		}

		if method != "" {
			if err := tx.Model(&models.Invoice{}).Where("id = ?", invoiceID).
				Update("payment_method", method).Error; err != nil {
				return err
			}
		}
		return s.recalculate(tx, invoiceID)
	})
	if err != nil {
		return nil, err
	}
	return &payment, nil
}

// DeletePayment removes a recorded payment and recomputes the invoice. This
// is the one path where a Paid invoice can regress to Partially Paid.
func (s *BillingService) DeletePayment(paymentID string) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var payment models.Payment
		if err := tx.First(&payment, "id = ?", paymentID).Error; err != nil {
			return err
		}
		if err := tx.Delete(&payment).Error; err != nil {
			return err
		}
		return s.recalculate(tx, payment.InvoiceID)
	})
}

// GetInvoice loads an invoice with items and payments.
func (s *BillingService) GetInvoice(invoiceID string) (*models.Invoice, error) {
	var invoice models.Invoice
	if err := s.db.Preload("Items").Preload("Payments").First(&invoice, "id = ?", invoiceID).Error; err != nil {
		return nil, err
	}
	return &invoice, nil
}

// recalculate re-derives TotalAmount, FinalAmount, RemainingBalance and
// PaymentStatus from the invoice's current items and payments.
func (s *BillingService) recalculate(tx *gorm.DB, invoiceID string) error {
	var invoice models.Invoice
	if err := tx.Preload("Items").Preload("Payments").First(&invoice, "id = ?", invoiceID).Error; err != nil {
		return err
	}

	subtotal := Subtotal(invoice.Items)
	final := FinalAmount(subtotal,
		decimal.NewFromFloat(invoice.TaxPct),
		decimal.NewFromFloat(invoice.DiscountPct)).Round(2)
	remaining := RemainingBalance(final, invoice.Payments).Round(2)

	return tx.Model(&models.Invoice{}).Where("id = ?", invoiceID).Updates(map[string]interface{}{
		"total_amount":      subtotal.Round(2).InexactFloat64(),
		"final_amount":      final.InexactFloat64(),
		"remaining_balance": remaining.InexactFloat64(),
		"payment_status":    DeriveStatus(remaining, final),
	}).Error
}
