package handlers

import (
	"errors"
	"fmt"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"vetclinic-server/internal/models"
	"vetclinic-server/internal/services"
	"vetclinic-server/internal/utils"
)

// InvoiceHandler handles the billing screen's requests. All amount math and
// the payment guardrails live in the billing service.
type InvoiceHandler struct {
	DB      *gorm.DB
	Billing *services.BillingService
}

// NewInvoiceHandler creates a new InvoiceHandler.
func NewInvoiceHandler(db *gorm.DB, billing *services.BillingService) *InvoiceHandler {
	return &InvoiceHandler{DB: db, Billing: billing}
}

// CreateInvoiceRequest represents the request body for opening a draft invoice.
type CreateInvoiceRequest struct {
	AppointmentID string `json:"appointmentId" binding:"required"`
	PaymentMethod string `json:"paymentMethod"`
}

// CreateInvoice opens a zeroed draft invoice for an appointment. A second
// invoice for the same appointment is rejected with 409.
func (h *InvoiceHandler) CreateInvoice(c *gin.Context) {
	var req CreateInvoiceRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	invoice, err := h.Billing.CreateInvoice(req.AppointmentID, req.PaymentMethod)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrDuplicateInvoice):
			utils.Conflict(c, err.Error())
		case errors.Is(err, gorm.ErrRecordNotFound):
			utils.NotFound(c, "Appointment not found")
		default:
			utils.InternalServerError(c, "Failed to create invoice: "+err.Error())
		}
		return
	}
	utils.Created(c, "Invoice created", invoice)
}

// ListInvoices returns invoices, optionally filtered by patient or payment
// status.
func (h *InvoiceHandler) ListInvoices(c *gin.Context) {
	query := h.DB.Preload("Patient").Order("created_at desc")

	if patientID := c.Query("patientId"); patientID != "" {
		query = query.Where("patient_id = ?", patientID)
	}
	if status := c.Query("paymentStatus"); status != "" {
		query = query.Where("payment_status = ?", status)
	}

	var invoices []models.Invoice
	if err := query.Find(&invoices).Error; err != nil {
		utils.InternalServerError(c, "Failed to fetch invoices: "+err.Error())
		return
	}
	utils.Success(c, "Invoices fetched", invoices)
}

// GetInvoice returns one invoice with its items and payments.
func (h *InvoiceHandler) GetInvoice(c *gin.Context) {
	invoice, err := h.Billing.GetInvoice(c.Param("id"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.NotFound(c, "Invoice not found")
		} else {
			utils.InternalServerError(c, "Failed to fetch invoice: "+err.Error())
		}
		return
	}
	utils.Success(c, "Invoice fetched", invoice)
}

// InvoiceItemRequest represents the request body for adding or editing a line
// item. Percentages are whole numbers (10 means 10%).
type InvoiceItemRequest struct {
	Description string  `json:"description" binding:"required"`
	Quantity    int     `json:"quantity" binding:"required,min=1"`
	UnitPrice   float64 `json:"unitPrice" binding:"omitempty,min=0"`
	VATPct      float64 `json:"vatPct" binding:"omitempty,min=0,max=100"`
	DiscountPct float64 `json:"discountPct" binding:"omitempty,min=0,max=100"`
}

// AddItem appends a line item to an invoice and returns the recalculated
// invoice.
func (h *InvoiceHandler) AddItem(c *gin.Context) {
	var req InvoiceItemRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	invoiceID := c.Param("id")
	if _, err := h.Billing.AddItem(invoiceID, req.Description, req.Quantity, req.UnitPrice, req.VATPct, req.DiscountPct); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.NotFound(c, "Invoice not found")
		} else {
			utils.InternalServerError(c, "Failed to add item: "+err.Error())
		}
		return
	}

	invoice, err := h.Billing.GetInvoice(invoiceID)
	if err != nil {
		utils.InternalServerError(c, "Failed to reload invoice: "+err.Error())
		return
	}
	utils.Created(c, "Item added", invoice)
}

// UpdateItem edits a line item and returns the recalculated invoice.
func (h *InvoiceHandler) UpdateItem(c *gin.Context) {
	var req InvoiceItemRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	item, err := h.Billing.UpdateItem(c.Param("itemId"), req.Description, req.Quantity, req.UnitPrice, req.VATPct, req.DiscountPct)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.NotFound(c, "Invoice item not found")
		} else {
			utils.InternalServerError(c, "Failed to update item: "+err.Error())
		}
		return
	}

	invoice, err := h.Billing.GetInvoice(item.InvoiceID)
	if err != nil {
		utils.InternalServerError(c, "Failed to reload invoice: "+err.Error())
		return
	}
	utils.Success(c, "Item updated", invoice)
}

// DeleteItem removes a line item and recalculates the invoice.
func (h *InvoiceHandler) DeleteItem(c *gin.Context) {
	if err := h.Billing.DeleteItem(c.Param("itemId")); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.NotFound(c, "Invoice item not found")
		} else {
			utils.InternalServerError(c, "Failed to delete item: "+err.Error())
		}
		return
	}
	utils.Success(c, "Item deleted", nil)
}

// SetRatesRequest represents the request body for the invoice-level tax and
// discount percentages.
type SetRatesRequest struct {
	TaxPct        float64 `json:"taxPct" binding:"omitempty,min=0,max=100"`
	DiscountPct   float64 `json:"discountPct" binding:"omitempty,min=0,max=100"`
	PaymentMethod string  `json:"paymentMethod"`
}

// SetRates updates the invoice-level percentages and recalculates totals.
func (h *InvoiceHandler) SetRates(c *gin.Context) {
	var req SetRatesRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	invoice, err := h.Billing.SetRates(c.Param("id"), req.TaxPct, req.DiscountPct, req.PaymentMethod)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.NotFound(c, "Invoice not found")
		} else {
			utils.InternalServerError(c, "Failed to update invoice: "+err.Error())
		}
		return
	}
	utils.Success(c, "Invoice updated", invoice)
}

// AddPaymentRequest represents the request body for recording a payment.
type AddPaymentRequest struct {
	Amount float64 `json:"amount" binding:"required"`
	Method string  `json:"method"`
	Notes  string  `json:"notes"`
}

// AddPayment records a partial payment. Non-positive and overdrawn amounts
// are input errors; nothing is written for them.
func (h *InvoiceHandler) AddPayment(c *gin.Context) {
	var req AddPaymentRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	invoiceID := c.Param("id")
	if _, err := h.Billing.AddPayment(invoiceID, req.Amount, req.Method, req.Notes); err != nil {
		switch {
		case errors.Is(err, services.ErrPaymentNotPositive),
			errors.Is(err, services.ErrPaymentExceedsBalance),
			errors.Is(err, services.ErrInvoiceSettled):
			utils.BadRequest(c, err.Error())
		case errors.Is(err, gorm.ErrRecordNotFound):
			utils.NotFound(c, "Invoice not found")
		default:
			utils.InternalServerError(c, "Failed to record payment: "+err.Error())
		}
		return
	}

	invoice, err := h.Billing.GetInvoice(invoiceID)
	if err != nil {
		utils.InternalServerError(c, "Failed to reload invoice: "+err.Error())
		return
	}
	utils.Created(c, "Payment recorded", invoice)
}

// ListPayments returns the payment history of an invoice.
func (h *InvoiceHandler) ListPayments(c *gin.Context) {
	var payments []models.Payment
	if err := h.DB.Where("invoice_id = ?", c.Param("id")).
		Order("paid_at asc").Find(&payments).Error; err != nil {
		utils.InternalServerError(c, "Failed to fetch payments: "+err.Error())
		return
	}
	utils.Success(c, "Payments fetched", payments)
}

// DeletePayment removes a recorded payment and recomputes the invoice, which
// can move a Paid invoice back to Partially Paid.
func (h *InvoiceHandler) DeletePayment(c *gin.Context) {
	if err := h.Billing.DeletePayment(c.Param("paymentId")); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.NotFound(c, "Payment not found")
		} else {
			utils.InternalServerError(c, "Failed to delete payment: "+err.Error())
		}
		return
	}
	utils.Success(c, "Payment deleted", nil)
}

// ExportInvoicesCSV streams the invoice list as CSV.
func (h *InvoiceHandler) ExportInvoicesCSV(c *gin.Context) {
	var invoices []models.Invoice
	if err := h.DB.Preload("Patient").Order("created_at desc").Find(&invoices).Error; err != nil {
		utils.InternalServerError(c, "Failed to fetch invoices: "+err.Error())
		return
	}

	headers := []string{"Created", "Patient", "Subtotal", "Tax %", "Discount %", "Final", "Remaining", "Status", "Method"}
	rows := make([][]string, 0, len(invoices))
	for _, inv := range invoices {
		rows = append(rows, []string{
			inv.CreatedAt.Format(utils.DateLayout),
			inv.Patient.Name,
			fmt.Sprintf("%.2f", inv.TotalAmount),
			fmt.Sprintf("%.1f", inv.TaxPct),
			fmt.Sprintf("%.1f", inv.DiscountPct),
			fmt.Sprintf("%.2f", inv.FinalAmount),
			fmt.Sprintf("%.2f", inv.RemainingBalance),
			string(inv.PaymentStatus),
			inv.PaymentMethod,
		})
	}
	utils.SendCSV(c, "invoices.csv", headers, rows)
}
