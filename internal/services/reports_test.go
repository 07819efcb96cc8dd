package services

import (
	"testing"
	"time"

	"vetclinic-server/internal/models"
)

func TestRevenueByMonth(t *testing.T) {
	db := newTestDB(t)
	patientID, _ := seedPatientAndVet(t, db)
	svc := NewReportService(db)

	invoices := []models.Invoice{
		{PatientID: patientID, FinalAmount: 100, PaymentStatus: models.PaymentStatusPaid},
		{PatientID: patientID, FinalAmount: 50, PaymentStatus: models.PaymentStatusUnpaid},
		{PatientID: patientID, FinalAmount: 80, PaymentStatus: models.PaymentStatusPaid},
	}
	created := []time.Time{
		at(t, "2025-01-15 10:00"),
		at(t, "2025-01-20 10:00"),
		at(t, "2025-02-01 10:00"),
	}
	for i := range invoices {
		invoices[i].CreatedAt = created[i]
		if err := db.Create(&invoices[i]).Error; err != nil {
			t.Fatalf("seed invoice: %v", err)
		}
	}

	result, err := svc.RevenueByMonth()
	if err != nil {
		t.Fatalf("revenue by month: %v", err)
	}
	if len(result) != 2 {
		t.Fatalf("months = %d, want 2", len(result))
	}
	if result[0].Month != "2025-01" || !almostEqual(result[0].Revenue, 150) {
		t.Errorf("first month = %s/%v, want 2025-01/150", result[0].Month, result[0].Revenue)
	}
	if result[1].Month != "2025-02" || !almostEqual(result[1].Revenue, 80) {
		t.Errorf("second month = %s/%v, want 2025-02/80", result[1].Month, result[1].Revenue)
	}
}

func TestUnpaidInvoicesOrdering(t *testing.T) {
	db := newTestDB(t)
	patientID, _ := seedPatientAndVet(t, db)
	svc := NewReportService(db)

	invoices := []models.Invoice{
		{PatientID: patientID, FinalAmount: 100, RemainingBalance: 100, PaymentStatus: models.PaymentStatusUnpaid},
		{PatientID: patientID, FinalAmount: 60, RemainingBalance: 0, PaymentStatus: models.PaymentStatusPaid},
		{PatientID: patientID, FinalAmount: 200, RemainingBalance: 150, PaymentStatus: models.PaymentStatusPartiallyPaid},
	}
	for i := range invoices {
		if err := db.Create(&invoices[i]).Error; err != nil {
			t.Fatalf("seed invoice: %v", err)
		}
	}

	result, err := svc.UnpaidInvoices()
	if err != nil {
		t.Fatalf("unpaid invoices: %v", err)
	}
	if len(result) != 2 {
		t.Fatalf("unpaid = %d, want 2", len(result))
	}
	if !almostEqual(result[0].RemainingBalance, 150) {
		t.Errorf("largest balance first, got %v", result[0].RemainingBalance)
	}
	if result[0].Patient.Name == "" {
		t.Error("expected patient preloaded")
	}
}

func TestAppointmentsBySpecies(t *testing.T) {
	db := newTestDB(t)
	patientID, vetID := seedPatientAndVet(t, db)
	scheduling := NewSchedulingService(db)
	svc := NewReportService(db)

	cat := models.Patient{Name: "Misty", Species: "Cat", OwnerName: "Nikos"}
	if err := db.Create(&cat).Error; err != nil {
		t.Fatalf("seed cat: %v", err)
	}

	if _, err := scheduling.Schedule(ScheduleRequest{
		PatientID:      patientID,
		VeterinarianID: vetID,
		StartTimes:     []time.Time{at(t, "2025-09-01 09:00"), at(t, "2025-09-02 09:00")},
		Reason:         "Checkup",
	}); err != nil {
		t.Fatalf("schedule dog: %v", err)
	}
	if _, err := scheduling.Schedule(ScheduleRequest{
		PatientID:      cat.ID,
		VeterinarianID: vetID,
		StartTimes:     []time.Time{at(t, "2025-09-03 09:00")},
		Reason:         "Vaccination",
	}); err != nil {
		t.Fatalf("schedule cat: %v", err)
	}

	result, err := svc.AppointmentsBySpecies()
	if err != nil {
		t.Fatalf("appointments by species: %v", err)
	}
	if len(result) != 2 {
		t.Fatalf("species = %d, want 2", len(result))
	}
	if result[0].Species != "Dog" || result[0].Count != 2 {
		t.Errorf("first = %+v, want Dog/2", result[0])
	}
	if result[1].Species != "Cat" || result[1].Count != 1 {
		t.Errorf("second = %+v, want Cat/1", result[1])
	}
}
