package handlers

import (
	"fmt"
	"strconv"

	"github.com/gin-gonic/gin"

	"vetclinic-server/internal/services"
	"vetclinic-server/internal/utils"
)

// ReportHandler serves the three analytics reports and their CSV exports.
type ReportHandler struct {
	Reports *services.ReportService
}

// NewReportHandler creates a new ReportHandler.
func NewReportHandler(reports *services.ReportService) *ReportHandler {
	return &ReportHandler{Reports: reports}
}

// RevenueByMonth returns total invoiced revenue per month.
func (h *ReportHandler) RevenueByMonth(c *gin.Context) {
	result, err := h.Reports.RevenueByMonth()
	if err != nil {
		utils.InternalServerError(c, "Failed to compute revenue report: "+err.Error())
		return
	}
	utils.Success(c, "Revenue report", result)
}

// UnpaidInvoices returns invoices still carrying a balance, largest first.
func (h *ReportHandler) UnpaidInvoices(c *gin.Context) {
	result, err := h.Reports.UnpaidInvoices()
	if err != nil {
		utils.InternalServerError(c, "Failed to compute unpaid invoices report: "+err.Error())
		return
	}
	utils.Success(c, "Unpaid invoices report", result)
}

// AppointmentsBySpecies returns appointment counts grouped by species.
func (h *ReportHandler) AppointmentsBySpecies(c *gin.Context) {
	result, err := h.Reports.AppointmentsBySpecies()
	if err != nil {
		utils.InternalServerError(c, "Failed to compute species report: "+err.Error())
		return
	}
	utils.Success(c, "Species report", result)
}

// ExportRevenueCSV streams the monthly revenue report as CSV.
func (h *ReportHandler) ExportRevenueCSV(c *gin.Context) {
	result, err := h.Reports.RevenueByMonth()
	if err != nil {
		utils.InternalServerError(c, "Failed to compute revenue report: "+err.Error())
		return
	}

	rows := make([][]string, 0, len(result))
	for _, r := range result {
		rows = append(rows, []string{r.Month, fmt.Sprintf("%.2f", r.Revenue)})
	}
	utils.SendCSV(c, "revenue_by_month.csv", []string{"Month", "Revenue"}, rows)
}

// ExportUnpaidCSV streams the unpaid invoices report as CSV.
func (h *ReportHandler) ExportUnpaidCSV(c *gin.Context) {
	invoices, err := h.Reports.UnpaidInvoices()
	if err != nil {
		utils.InternalServerError(c, "Failed to compute unpaid invoices report: "+err.Error())
		return
	}

	rows := make([][]string, 0, len(invoices))
	for _, inv := range invoices {
		rows = append(rows, []string{
			inv.CreatedAt.Format(utils.DateLayout),
			inv.Patient.Name,
			inv.Patient.OwnerName,
			fmt.Sprintf("%.2f", inv.FinalAmount),
			fmt.Sprintf("%.2f", inv.RemainingBalance),
			string(inv.PaymentStatus),
		})
	}
	utils.SendCSV(c, "unpaid_invoices.csv",
		[]string{"Created", "Patient", "Owner", "Final Amount", "Remaining", "Status"}, rows)
}

// ExportSpeciesCSV streams the species report as CSV.
func (h *ReportHandler) ExportSpeciesCSV(c *gin.Context) {
	result, err := h.Reports.AppointmentsBySpecies()
	if err != nil {
		utils.InternalServerError(c, "Failed to compute species report: "+err.Error())
		return
	}

	rows := make([][]string, 0, len(result))
	for _, r := range result {
		rows = append(rows, []string{r.Species, strconv.Itoa(r.Count)})
	}
	utils.SendCSV(c, "appointments_by_species.csv", []string{"Species", "Appointments"}, rows)
}
