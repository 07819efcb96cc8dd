package services

import (
	"time"

	"gorm.io/gorm"

	"vetclinic-server/internal/models"
)

// ReminderService finds reminders and appointments whose notification emails
// are due. The notifier calls it once a minute; the screens call it for
// listings.
type ReminderService struct {
	db *gorm.DB
}

// NewReminderService creates a new ReminderService.
func NewReminderService(db *gorm.DB) *ReminderService {
	return &ReminderService{db: db}
}

// DueReminders returns pending reminders whose time has come, with the
// appointment and patient preloaded for the email body.
func (s *ReminderService) DueReminders(now time.Time) ([]models.Reminder, error) {
	var reminders []models.Reminder
	err := s.db.
		Preload("Appointment").
		Preload("Appointment.Patient").
		Where("status = ? AND remind_at <= ?", models.ReminderPending, now).
		Find(&reminders).Error
	return reminders, err
}

// MarkSent flags a reminder after its email went out.
func (s *ReminderService) MarkSent(reminderID string) error {
	return s.db.Model(&models.Reminder{}).
		Where("id = ?", reminderID).
		Update("status", models.ReminderSent).Error
}

// MarkTriggered flags a reminder as manually acknowledged on screen.
func (s *ReminderService) MarkTriggered(reminderID string) error {
	return s.db.Model(&models.Reminder{}).
		Where("id = ?", reminderID).
		Update("status", models.ReminderTriggered).Error
}

// AppointmentsNeedingNotification returns tomorrow's appointments whose
// pre-visit email has not gone out yet. "Tomorrow" is the full calendar day
// after now, in local time.
func (s *ReminderService) AppointmentsNeedingNotification(now time.Time) ([]models.Appointment, error) {
	tomorrow := now.AddDate(0, 0, 1)
	dayStart := time.Date(tomorrow.Year(), tomorrow.Month(), tomorrow.Day(), 0, 0, 0, 0, time.Local)
	dayEnd := dayStart.AddDate(0, 0, 1)

	var appointments []models.Appointment
	err := s.db.
		Preload("Patient").
		Where("start_time >= ? AND start_time < ? AND notification_status = ?",
			dayStart, dayEnd, models.NotificationNotSent).
		Find(&appointments).Error
	return appointments, err
}

// MarkNotified flags an appointment once its reminder email was delivered.
func (s *ReminderService) MarkNotified(appointmentID string) error {
	return s.db.Model(&models.Appointment{}).
		Where("id = ?", appointmentID).
		Update("notification_status", models.NotificationSent).Error
}

// UnpaidInvoicesOlderThan returns invoices still carrying a balance that were
// created before the cutoff, for invoice-due reminder emails.
func (s *ReminderService) UnpaidInvoicesOlderThan(cutoff time.Time) ([]models.Invoice, error) {
	var invoices []models.Invoice
	err := s.db.
		Preload("Patient").
		Where("payment_status <> ? AND created_at < ?", models.PaymentStatusPaid, cutoff).
		Find(&invoices).Error
	return invoices, err
}
