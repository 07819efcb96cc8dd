package handlers

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"vetclinic-server/internal/models"
	"vetclinic-server/internal/services"
	"vetclinic-server/internal/utils"
)

// ReminderHandler handles the reminder list screen.
type ReminderHandler struct {
	DB        *gorm.DB
	Reminders *services.ReminderService
}

// NewReminderHandler creates a new ReminderHandler.
func NewReminderHandler(db *gorm.DB, reminders *services.ReminderService) *ReminderHandler {
	return &ReminderHandler{DB: db, Reminders: reminders}
}

// ListReminders returns reminders, optionally filtered by status or
// appointment.
func (h *ReminderHandler) ListReminders(c *gin.Context) {
	query := h.DB.Preload("Appointment").Preload("Appointment.Patient").Order("remind_at asc")
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	if appointmentID := c.Query("appointmentId"); appointmentID != "" {
		query = query.Where("appointment_id = ?", appointmentID)
	}

	var reminders []models.Reminder
	if err := query.Find(&reminders).Error; err != nil {
		utils.InternalServerError(c, "Failed to fetch reminders: "+err.Error())
		return
	}
	utils.Success(c, "Reminders fetched", reminders)
}

// MarkTriggered acknowledges a reminder on screen without sending an email.
func (h *ReminderHandler) MarkTriggered(c *gin.Context) {
	id := c.Param("id")
	if err := h.DB.First(&models.Reminder{}, "id = ?", id).Error; err != nil {
		utils.NotFound(c, "Reminder not found")
		return
	}

	if err := h.Reminders.MarkTriggered(id); err != nil {
		utils.InternalServerError(c, "Failed to update reminder: "+err.Error())
		return
	}
	utils.Success(c, "Reminder acknowledged", nil)
}

// OverdueInvoices lists invoices still carrying a balance that are older
// than the given number of days (default 30), for payment chase-ups.
func (h *ReminderHandler) OverdueInvoices(c *gin.Context) {
	days := 30
	if raw := c.Query("days"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 {
			days = v
		}
	}

	invoices, err := h.Reminders.UnpaidInvoicesOlderThan(time.Now().AddDate(0, 0, -days))
	if err != nil {
		utils.InternalServerError(c, "Failed to fetch overdue invoices: "+err.Error())
		return
	}
	utils.Success(c, "Overdue invoices fetched", invoices)
}

// DeleteReminder removes a reminder.
func (h *ReminderHandler) DeleteReminder(c *gin.Context) {
	result := h.DB.Delete(&models.Reminder{}, "id = ?", c.Param("id"))
	if result.Error != nil {
		utils.InternalServerError(c, "Failed to delete reminder: "+result.Error.Error())
		return
	}
	if result.RowsAffected == 0 {
		utils.NotFound(c, "Reminder not found")
		return
	}
	utils.Success(c, "Reminder deleted", nil)
}
