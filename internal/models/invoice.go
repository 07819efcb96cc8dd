package models

import (
	"time"
)

// PaymentStatus represents how much of an invoice has been settled
type PaymentStatus string

const (
	PaymentStatusUnpaid        PaymentStatus = "Unpaid"
	PaymentStatusPartiallyPaid PaymentStatus = "Partially Paid"
	PaymentStatusPaid          PaymentStatus = "Paid"
)

// Invoice belongs to exactly one appointment. TaxPct and DiscountPct are
// whole percentages (0-100) applied on the item subtotal; FinalAmount,
// RemainingBalance and PaymentStatus are derived columns kept in sync by the
// billing service.
type Invoice struct {
	BaseModel
	AppointmentID    string        `gorm:"size:36;index" json:"appointmentId"`
	PatientID        string        `gorm:"size:36;index" json:"patientId"`
	TotalAmount      float64       `gorm:"not null;default:0" json:"totalAmount"`
	TaxPct           float64       `gorm:"default:0" json:"taxPct"`
	DiscountPct      float64       `gorm:"default:0" json:"discountPct"`
	FinalAmount      float64       `gorm:"not null;default:0" json:"finalAmount"`
	RemainingBalance float64       `gorm:"default:0" json:"remainingBalance"`
	PaymentStatus    PaymentStatus `gorm:"size:20;default:'Unpaid'" json:"paymentStatus"`
	PaymentMethod    string        `gorm:"size:50" json:"paymentMethod"`

	// Relations
	Appointment Appointment   `gorm:"foreignKey:AppointmentID" json:"-"`
	Patient     Patient       `gorm:"foreignKey:PatientID" json:"-"`
	Items       []InvoiceItem `gorm:"foreignKey:InvoiceID" json:"items,omitempty"`
	Payments    []Payment     `gorm:"foreignKey:InvoiceID" json:"payments,omitempty"`
}

// InvoiceItem is one billable line. VATPct and DiscountPct are optional
// per-item percentages; TotalPrice stores the already-adjusted line total.
type InvoiceItem struct {
	BaseModel
	InvoiceID   string  `gorm:"size:36;index" json:"invoiceId"`
	Description string  `gorm:"size:255;not null" json:"description"`
	Quantity    int     `gorm:"not null" json:"quantity"`
	UnitPrice   float64 `gorm:"not null" json:"unitPrice"`
	VATPct      float64 `gorm:"column:vat_pct;default:0" json:"vatPct"`
	DiscountPct float64 `gorm:"default:0" json:"discountPct"`
	TotalPrice  float64 `gorm:"not null" json:"totalPrice"`
}

// Payment records one (possibly partial) payment against an invoice.
type Payment struct {
	BaseModel
	InvoiceID string    `gorm:"size:36;index;not null" json:"invoiceId"`
	Amount    float64   `gorm:"not null" json:"amount"`
	Method    string    `gorm:"size:50" json:"method"`
	Notes     string    `gorm:"size:255" json:"notes"`
	PaidAt    time.Time `json:"paidAt"`

	Invoice Invoice `gorm:"foreignKey:InvoiceID;constraint:OnDelete:CASCADE" json:"-"`
}
