package notifier

import (
	"fmt"
	"time"

	"vetclinic-server/internal/mailer"
	"vetclinic-server/internal/services"
	"vetclinic-server/internal/utils"
)

// Notifier periodically scans for due reminders, next-day appointments and
// low stock, and sends the corresponding emails. Email failures are logged
// and retried on the next scan, never fatal.
type Notifier struct {
	reminders *services.ReminderService
	inventory *services.InventoryService
	mail      *mailer.Mailer
	interval  time.Duration
	stop      chan struct{}
}

// New creates a Notifier scanning at the given interval.
func New(reminders *services.ReminderService, inventory *services.InventoryService, mail *mailer.Mailer, interval time.Duration) *Notifier {
	return &Notifier{
		reminders: reminders,
		inventory: inventory,
		mail:      mail,
		interval:  interval,
		stop:      make(chan struct{}),
	}
}

// Start launches the scan loop in a background goroutine.
func (n *Notifier) Start() {
	go n.run()
}

// Stop terminates the scan loop.
func (n *Notifier) Stop() {
	close(n.stop)
}

func (n *Notifier) run() {
	ticker := time.NewTicker(n.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			now := time.Now()
			n.scanAppointments(now)
			n.scanReminders(now)
		case <-n.stop:
			return
		}
	}
}

// scanAppointments emails owners about tomorrow's appointments that have not
// been notified yet. Appointments without an owner email are skipped and
// stay unflagged.
func (n *Notifier) scanAppointments(now time.Time) {
	appointments, err := n.reminders.AppointmentsNeedingNotification(now)
	if err != nil {
		utils.LogError("notifier: scan appointments: " + err.Error())
		return
	}

	for _, a := range appointments {
		if a.Patient.OwnerEmail == "" {
			continue
		}

		subject := fmt.Sprintf("Reminder: Appointment for %s", a.Patient.Name)
		body := fmt.Sprintf(
			"Dear %s,\n\n"+
				"This is a reminder for your upcoming appointment for %s:\n"+
				"Date & Time: %s\n"+
				"Reason: %s\n\n"+
				"Status: %s\n\n"+
				"Please contact us if you need to make changes.\nThank you!",
			a.Patient.OwnerName, a.Patient.Name,
			a.StartTime.Format(utils.DateTimeLayout), a.Reason, a.Status)

		if err := n.mail.Send(a.Patient.OwnerEmail, subject, body); err != nil {
			utils.LogError("notifier: appointment " + a.ID + ": " + err.Error())
			continue
		}
		if err := n.reminders.MarkNotified(a.ID); err != nil {
			utils.LogError("notifier: mark notified " + a.ID + ": " + err.Error())
		}
	}
}

// scanReminders sends explicit reminders whose time has come.
func (n *Notifier) scanReminders(now time.Time) {
	due, err := n.reminders.DueReminders(now)
	if err != nil {
		utils.LogError("notifier: scan reminders: " + err.Error())
		return
	}

	for _, r := range due {
		patient := r.Appointment.Patient
		if patient.OwnerEmail == "" {
			continue
		}

		subject := fmt.Sprintf("Reminder for %s", patient.Name)
		reason := r.Reason
		if reason == "" {
			reason = r.Appointment.Reason
		}
		body := fmt.Sprintf(
			"Dear %s,\n\nA reminder regarding %s:\n%s\n\nAppointment: %s\n",
			patient.OwnerName, patient.Name, reason,
			r.Appointment.StartTime.Format(utils.DateTimeLayout))

		if err := n.mail.Send(patient.OwnerEmail, subject, body); err != nil {
			utils.LogError("notifier: reminder " + r.ID + ": " + err.Error())
			continue
		}
		if err := n.reminders.MarkSent(r.ID); err != nil {
			utils.LogError("notifier: mark sent " + r.ID + ": " + err.Error())
		}
	}
}

// SendLowStockAlert emails a reorder summary to the clinic's own address.
// Called from the inventory screen after an adjustment.
func (n *Notifier) SendLowStockAlert(to string, low []services.ItemStock) error {
	if len(low) == 0 || to == "" {
		return nil
	}

	body := "The following items are at or below reorder level:\n\n"
	for _, stock := range low {
		body += fmt.Sprintf("- %s (on hand: %d, reorder at: %d)\n",
			stock.Name, stock.OnHand, stock.ReorderThreshold)
	}

	if err := n.mail.Send(to, "Low Stock Warning", body); err != nil {
		utils.LogError("notifier: low stock alert: " + err.Error())
		return err
	}
	return nil
}
