package services

import (
	"testing"
	"time"

	"vetclinic-server/internal/models"
)

func TestDueReminders(t *testing.T) {
	db := newTestDB(t)
	patientID, vetID := seedPatientAndVet(t, db)
	scheduling := NewSchedulingService(db)
	svc := NewReminderService(db)

	result, err := scheduling.Schedule(ScheduleRequest{
		PatientID:      patientID,
		VeterinarianID: vetID,
		StartTimes:     []time.Time{at(t, "2025-07-10 09:00")},
		Reason:         "Suture removal",
	})
	if err != nil {
		t.Fatalf("schedule: %v", err)
	}
	appointmentID := result.Created[0].ID

	now := at(t, "2025-07-09 12:00")
	due := models.Reminder{AppointmentID: appointmentID, RemindAt: at(t, "2025-07-09 09:00")}
	future := models.Reminder{AppointmentID: appointmentID, RemindAt: at(t, "2025-07-09 18:00")}
	sent := models.Reminder{AppointmentID: appointmentID, RemindAt: at(t, "2025-07-08 09:00"), Status: models.ReminderSent}
	for _, r := range []*models.Reminder{&due, &future, &sent} {
		if err := db.Create(r).Error; err != nil {
			t.Fatalf("seed reminder: %v", err)
		}
	}

	got, err := svc.DueReminders(now)
	if err != nil {
		t.Fatalf("due reminders: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("due = %d, want 1", len(got))
	}
	if got[0].ID != due.ID {
		t.Errorf("due reminder = %s, want %s", got[0].ID, due.ID)
	}
	if got[0].Appointment.Patient.OwnerEmail == "" {
		t.Error("expected patient preloaded for the email body")
	}

	if err := svc.MarkSent(due.ID); err != nil {
		t.Fatalf("mark sent: %v", err)
	}
	got, err = svc.DueReminders(now)
	if err != nil {
		t.Fatalf("due reminders: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("due after mark sent = %d, want 0", len(got))
	}
}

func TestAppointmentsNeedingNotification(t *testing.T) {
	db := newTestDB(t)
	patientID, vetID := seedPatientAndVet(t, db)
	scheduling := NewSchedulingService(db)
	svc := NewReminderService(db)

	// One appointment tomorrow, one the day after, one tomorrow but
	// already notified.
	result, err := scheduling.Schedule(ScheduleRequest{
		PatientID:      patientID,
		VeterinarianID: vetID,
		StartTimes: []time.Time{
			at(t, "2025-08-02 10:00"),
			at(t, "2025-08-02 11:00"),
			at(t, "2025-08-03 10:00"),
		},
		Reason: "Checkup",
	})
	if err != nil {
		t.Fatalf("schedule: %v", err)
	}
	if len(result.Created) != 3 {
		t.Fatalf("created = %d, want 3", len(result.Created))
	}

	notified := result.Created[1].ID
	if err := svc.MarkNotified(notified); err != nil {
		t.Fatalf("mark notified: %v", err)
	}

	now := at(t, "2025-08-01 08:00")
	needing, err := svc.AppointmentsNeedingNotification(now)
	if err != nil {
		t.Fatalf("needing notification: %v", err)
	}
	if len(needing) != 1 {
		t.Fatalf("needing = %d, want 1", len(needing))
	}
	if !needing[0].StartTime.Equal(at(t, "2025-08-02 10:00")) {
		t.Errorf("needing slot = %v, want 2025-08-02 10:00", needing[0].StartTime)
	}
}
