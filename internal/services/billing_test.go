package services

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"vetclinic-server/internal/models"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 0.001
}

func createAppointment(t *testing.T, svc *SchedulingService, patientID, vetID, when string) string {
	t.Helper()
	result, err := svc.Schedule(ScheduleRequest{
		PatientID:      patientID,
		VeterinarianID: vetID,
		StartTimes:     []time.Time{at(t, when)},
		Reason:         "Billing test visit",
	})
	if err != nil {
		t.Fatalf("schedule: %v", err)
	}
	if len(result.Created) != 1 {
		t.Fatalf("expected 1 created appointment")
	}
	return result.Created[0].ID
}

func TestItemTotal(t *testing.T) {
	tests := []struct {
		name        string
		quantity    int
		unitPrice   float64
		vatPct      float64
		discountPct float64
		want        float64
	}{
		{"plain", 2, 10, 0, 0, 20},
		{"with vat", 1, 100, 24, 0, 124},
		{"with discount", 1, 100, 0, 10, 90},
		{"vat and discount", 2, 50, 24, 10, 114},
		{"zero price", 3, 0, 24, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ItemTotal(tt.quantity,
				decimal.NewFromFloat(tt.unitPrice),
				decimal.NewFromFloat(tt.vatPct),
				decimal.NewFromFloat(tt.discountPct))
			if !got.Equal(decimal.NewFromFloat(tt.want)) {
				t.Errorf("ItemTotal = %s, want %v", got, tt.want)
			}
		})
	}
}

func TestFinalAmount(t *testing.T) {
	tests := []struct {
		name        string
		subtotal    float64
		taxPct      float64
		discountPct float64
		want        float64
	}{
		{"no adjustments", 25, 0, 0, 25},
		{"tax only", 25, 10, 0, 27.5},
		{"discount only", 100, 0, 20, 80},
		{"both", 100, 24, 10, 114},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FinalAmount(
				decimal.NewFromFloat(tt.subtotal),
				decimal.NewFromFloat(tt.taxPct),
				decimal.NewFromFloat(tt.discountPct))
			if !got.Equal(decimal.NewFromFloat(tt.want)) {
				t.Errorf("FinalAmount = %s, want %v", got, tt.want)
			}
		})
	}
}

func TestDeriveStatus(t *testing.T) {
	final := decimal.NewFromFloat(100)

	tests := []struct {
		name      string
		remaining float64
		want      models.PaymentStatus
	}{
		{"nothing paid", 100, models.PaymentStatusUnpaid},
		{"partially paid", 40, models.PaymentStatusPartiallyPaid},
		{"fully paid", 0, models.PaymentStatusPaid},
		{"overpaid", -0.01, models.PaymentStatusPaid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DeriveStatus(decimal.NewFromFloat(tt.remaining), final)
			if got != tt.want {
				t.Errorf("DeriveStatus(%v) = %q, want %q", tt.remaining, got, tt.want)
			}
		})
	}
}

func TestVATFractionZeroBaseFallback(t *testing.T) {
	got := VATFraction(decimal.NewFromFloat(5), decimal.Zero)
	if !got.Equal(decimal.NewFromFloat(0.24)) {
		t.Errorf("zero base fraction = %s, want 0.24", got)
	}

	got = VATFraction(decimal.NewFromFloat(24), decimal.NewFromFloat(100))
	if !got.Equal(decimal.NewFromFloat(0.24)) {
		t.Errorf("fraction = %s, want 0.24", got)
	}
}

func TestInvoiceLifecycle(t *testing.T) {
	db := newTestDB(t)
	patientID, vetID := seedPatientAndVet(t, db)
	scheduling := NewSchedulingService(db)
	billing := NewBillingService(db)

	appointmentID := createAppointment(t, scheduling, patientID, vetID, "2025-06-02 10:00")

	invoice, err := billing.CreateInvoice(appointmentID, "Card")
	if err != nil {
		t.Fatalf("create invoice: %v", err)
	}
	if invoice.PaymentStatus != models.PaymentStatusUnpaid {
		t.Errorf("new invoice status = %q, want Unpaid", invoice.PaymentStatus)
	}

	// Second invoice for the same appointment is rejected.
	if _, err := billing.CreateInvoice(appointmentID, "Cash"); !errors.Is(err, ErrDuplicateInvoice) {
		t.Errorf("duplicate invoice err = %v, want ErrDuplicateInvoice", err)
	}

	// Two items: 2 x 10.00 and 1 x 5.00, then 10% tax on the 25.00 subtotal.
	if _, err := billing.AddItem(invoice.ID, "Consultation", 2, 10, 0, 0); err != nil {
		t.Fatalf("add item: %v", err)
	}
	if _, err := billing.AddItem(invoice.ID, "Deworming tablet", 1, 5, 0, 0); err != nil {
		t.Fatalf("add item: %v", err)
	}
	if _, err := billing.SetRates(invoice.ID, 10, 0, ""); err != nil {
		t.Fatalf("set rates: %v", err)
	}

	reloaded, err := billing.GetInvoice(invoice.ID)
	if err != nil {
		t.Fatalf("get invoice: %v", err)
	}
	if !almostEqual(reloaded.TotalAmount, 25) {
		t.Errorf("subtotal = %v, want 25.00", reloaded.TotalAmount)
	}
	if !almostEqual(reloaded.FinalAmount, 27.5) {
		t.Errorf("final = %v, want 27.50", reloaded.FinalAmount)
	}
	if !almostEqual(reloaded.RemainingBalance, 27.5) {
		t.Errorf("remaining = %v, want 27.50", reloaded.RemainingBalance)
	}

	// 20.00 payment leaves 7.50 and Partially Paid.
	if _, err := billing.AddPayment(invoice.ID, 20, "Cash", ""); err != nil {
		t.Fatalf("add payment: %v", err)
	}
	reloaded, err = billing.GetInvoice(invoice.ID)
	if err != nil {
		t.Fatalf("get invoice: %v", err)
	}
	if !almostEqual(reloaded.RemainingBalance, 7.5) {
		t.Errorf("remaining after payment = %v, want 7.50", reloaded.RemainingBalance)
	}
	if reloaded.PaymentStatus != models.PaymentStatusPartiallyPaid {
		t.Errorf("status = %q, want Partially Paid", reloaded.PaymentStatus)
	}

	// Overdrawn payment is rejected and writes nothing.
	if _, err := billing.AddPayment(invoice.ID, 10, "Cash", ""); !errors.Is(err, ErrPaymentExceedsBalance) {
		t.Errorf("overdrawn payment err = %v, want ErrPaymentExceedsBalance", err)
	}
	var paymentCount int64
	if err := db.Model(&models.Payment{}).Count(&paymentCount).Error; err != nil {
		t.Fatalf("count payments: %v", err)
	}
	if paymentCount != 1 {
		t.Errorf("payments = %d, want 1 after rejected payment", paymentCount)
	}

	// Settling the exact remainder moves the invoice to Paid.
	if _, err := billing.AddPayment(invoice.ID, 7.5, "Card", ""); err != nil {
		t.Fatalf("settle: %v", err)
	}
	reloaded, err = billing.GetInvoice(invoice.ID)
	if err != nil {
		t.Fatalf("get invoice: %v", err)
	}
	if reloaded.PaymentStatus != models.PaymentStatusPaid {
		t.Errorf("status = %q, want Paid", reloaded.PaymentStatus)
	}
	if !almostEqual(reloaded.RemainingBalance, 0) {
		t.Errorf("remaining = %v, want 0", reloaded.RemainingBalance)
	}

	// A further payment on a settled invoice is rejected.
	if _, err := billing.AddPayment(invoice.ID, 1, "Cash", ""); !errors.Is(err, ErrInvoiceSettled) {
		t.Errorf("settled payment err = %v, want ErrInvoiceSettled", err)
	}
}

func TestPaymentMustBePositive(t *testing.T) {
	db := newTestDB(t)
	patientID, vetID := seedPatientAndVet(t, db)
	scheduling := NewSchedulingService(db)
	billing := NewBillingService(db)

	appointmentID := createAppointment(t, scheduling, patientID, vetID, "2025-06-03 10:00")
	invoice, err := billing.CreateInvoice(appointmentID, "")
	if err != nil {
		t.Fatalf("create invoice: %v", err)
	}
	if _, err := billing.AddItem(invoice.ID, "Vaccination", 1, 30, 0, 0); err != nil {
		t.Fatalf("add item: %v", err)
	}

	if _, err := billing.AddPayment(invoice.ID, 0, "Cash", ""); !errors.Is(err, ErrPaymentNotPositive) {
		t.Errorf("zero payment err = %v, want ErrPaymentNotPositive", err)
	}
	if _, err := billing.AddPayment(invoice.ID, -5, "Cash", ""); !errors.Is(err, ErrPaymentNotPositive) {
		t.Errorf("negative payment err = %v, want ErrPaymentNotPositive", err)
	}
}

func TestDeletePaymentRegressesStatus(t *testing.T) {
	db := newTestDB(t)
	patientID, vetID := seedPatientAndVet(t, db)
	scheduling := NewSchedulingService(db)
	billing := NewBillingService(db)

	appointmentID := createAppointment(t, scheduling, patientID, vetID, "2025-06-04 10:00")
	invoice, err := billing.CreateInvoice(appointmentID, "")
	if err != nil {
		t.Fatalf("create invoice: %v", err)
	}
	if _, err := billing.AddItem(invoice.ID, "Microchip", 1, 40, 0, 0); err != nil {
		t.Fatalf("add item: %v", err)
	}

	first, err := billing.AddPayment(invoice.ID, 15, "Cash", "")
	if err != nil {
		t.Fatalf("first payment: %v", err)
	}
	if _, err := billing.AddPayment(invoice.ID, 25, "Cash", ""); err != nil {
		t.Fatalf("second payment: %v", err)
	}

	reloaded, err := billing.GetInvoice(invoice.ID)
	if err != nil {
		t.Fatalf("get invoice: %v", err)
	}
	if reloaded.PaymentStatus != models.PaymentStatusPaid {
		t.Fatalf("status = %q, want Paid", reloaded.PaymentStatus)
	}

	if err := billing.DeletePayment(first.ID); err != nil {
		t.Fatalf("delete payment: %v", err)
	}
	reloaded, err = billing.GetInvoice(invoice.ID)
	if err != nil {
		t.Fatalf("get invoice: %v", err)
	}
	if reloaded.PaymentStatus != models.PaymentStatusPartiallyPaid {
		t.Errorf("status after delete = %q, want Partially Paid", reloaded.PaymentStatus)
	}
	if !almostEqual(reloaded.RemainingBalance, 15) {
		t.Errorf("remaining after delete = %v, want 15.00", reloaded.RemainingBalance)
	}
}

func TestItemEditsRecalculate(t *testing.T) {
	db := newTestDB(t)
	patientID, vetID := seedPatientAndVet(t, db)
	scheduling := NewSchedulingService(db)
	billing := NewBillingService(db)

	appointmentID := createAppointment(t, scheduling, patientID, vetID, "2025-06-05 10:00")
	invoice, err := billing.CreateInvoice(appointmentID, "")
	if err != nil {
		t.Fatalf("create invoice: %v", err)
	}

	item, err := billing.AddItem(invoice.ID, "X-ray", 1, 60, 0, 0)
	if err != nil {
		t.Fatalf("add item: %v", err)
	}

	if _, err := billing.UpdateItem(item.ID, "X-ray (two views)", 2, 60, 0, 0); err != nil {
		t.Fatalf("update item: %v", err)
	}
	reloaded, err := billing.GetInvoice(invoice.ID)
	if err != nil {
		t.Fatalf("get invoice: %v", err)
	}
	if !almostEqual(reloaded.TotalAmount, 120) {
		t.Errorf("subtotal after edit = %v, want 120.00", reloaded.TotalAmount)
	}

	if err := billing.DeleteItem(item.ID); err != nil {
		t.Fatalf("delete item: %v", err)
	}
	reloaded, err = billing.GetInvoice(invoice.ID)
	if err != nil {
		t.Fatalf("get invoice: %v", err)
	}
	if !almostEqual(reloaded.TotalAmount, 0) {
		t.Errorf("subtotal after delete = %v, want 0", reloaded.TotalAmount)
	}
	if reloaded.PaymentStatus != models.PaymentStatusPaid {
		// Zero remaining on a zero final counts as settled.
		t.Errorf("status = %q, want Paid for empty invoice", reloaded.PaymentStatus)
	}
}
