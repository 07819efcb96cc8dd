package services

import (
	"sort"

	"gorm.io/gorm"

	"vetclinic-server/internal/models"
)

// MonthlyRevenue is one bar of the revenue-by-month report.
type MonthlyRevenue struct {
	Month   string  `json:"month"` // YYYY-MM
	Revenue float64 `json:"revenue"`
}

// SpeciesCount is one row of the appointments-by-species report.
type SpeciesCount struct {
	Species string `json:"species"`
	Count   int    `json:"count"`
}

// ReportService computes the analytics behind the reporting screens.
// Grouping happens in Go so the queries stay portable between the sqlite
// and mysql drivers.
type ReportService struct {
	db *gorm.DB
}

// NewReportService creates a new ReportService.
func NewReportService(db *gorm.DB) *ReportService {
	return &ReportService{db: db}
}

// RevenueByMonth sums invoice final amounts per creation month, oldest first.
func (s *ReportService) RevenueByMonth() ([]MonthlyRevenue, error) {
	var invoices []models.Invoice
	if err := s.db.Find(&invoices).Error; err != nil {
		return nil, err
	}

	byMonth := make(map[string]float64)
	for _, inv := range invoices {
		month := inv.CreatedAt.Format("2006-01")
		byMonth[month] += inv.FinalAmount
	}

	months := make([]string, 0, len(byMonth))
	for month := range byMonth {
		months = append(months, month)
	}
	sort.Strings(months)

	result := make([]MonthlyRevenue, 0, len(months))
	for _, month := range months {
		result = append(result, MonthlyRevenue{Month: month, Revenue: byMonth[month]})
	}
	return result, nil
}

// UnpaidInvoices lists invoices that still carry a balance, largest first.
func (s *ReportService) UnpaidInvoices() ([]models.Invoice, error) {
	var invoices []models.Invoice
	err := s.db.
		Preload("Patient").
		Where("payment_status <> ?", models.PaymentStatusPaid).
		Order("remaining_balance desc").
		Find(&invoices).Error
	return invoices, err
}

// AppointmentsBySpecies counts appointments grouped by patient species,
// highest count first.
func (s *ReportService) AppointmentsBySpecies() ([]SpeciesCount, error) {
	var appointments []models.Appointment
	if err := s.db.Preload("Patient").Find(&appointments).Error; err != nil {
		return nil, err
	}

	bySpecies := make(map[string]int)
	for _, a := range appointments {
		bySpecies[a.Patient.Species]++
	}

	result := make([]SpeciesCount, 0, len(bySpecies))
	for species, count := range bySpecies {
		result = append(result, SpeciesCount{Species: species, Count: count})
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Count != result[j].Count {
			return result[i].Count > result[j].Count
		}
		return result[i].Species < result[j].Species
	})
	return result, nil
}
