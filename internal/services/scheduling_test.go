package services

import (
	"errors"
	"testing"
	"time"

	"vetclinic-server/internal/models"
)

func at(t *testing.T, value string) time.Time {
	t.Helper()
	parsed, err := time.ParseInLocation("2006-01-02 15:04", value, time.Local)
	if err != nil {
		t.Fatalf("parse time %q: %v", value, err)
	}
	return parsed
}

func TestOverlaps(t *testing.T) {
	base := at(t, "2025-01-10 10:00")
	existing := []models.Appointment{{
		StartTime:       base,
		DurationMinutes: 30,
	}}

	tests := []struct {
		name     string
		start    string
		duration int
		conflict bool
	}{
		{"identical slot", "2025-01-10 10:00", 30, true},
		{"starts inside", "2025-01-10 10:15", 30, true},
		{"ends inside", "2025-01-10 09:45", 30, true},
		{"covers entirely", "2025-01-10 09:30", 120, true},
		{"back to back after", "2025-01-10 10:30", 30, false},
		{"back to back before", "2025-01-10 09:30", 30, false},
		{"different day", "2025-01-11 10:00", 30, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Overlaps(existing, at(t, tt.start), tt.duration)
			if (got != nil) != tt.conflict {
				t.Errorf("Overlaps(%s, %d) conflict = %v, want %v", tt.start, tt.duration, got != nil, tt.conflict)
			}
		})
	}
}

func TestScheduleRejectsOverlapKeepsBackToBack(t *testing.T) {
	db := newTestDB(t)
	patientID, vetID := seedPatientAndVet(t, db)
	svc := NewSchedulingService(db)

	first, err := svc.Schedule(ScheduleRequest{
		PatientID:      patientID,
		VeterinarianID: vetID,
		StartTimes:     []time.Time{at(t, "2025-01-10 10:00")},
		Reason:         "Annual checkup",
	})
	if err != nil {
		t.Fatalf("schedule: %v", err)
	}
	if len(first.Created) != 1 || len(first.Skipped) != 0 {
		t.Fatalf("expected 1 created, got created=%d skipped=%d", len(first.Created), len(first.Skipped))
	}
	if first.Created[0].DurationMinutes != 30 {
		t.Errorf("default duration = %d, want 30", first.Created[0].DurationMinutes)
	}
	if first.Created[0].Status != models.StatusScheduled {
		t.Errorf("default status = %q, want Scheduled", first.Created[0].Status)
	}

	// 10:15 overlaps the 10:00-10:30 slot.
	overlap, err := svc.Schedule(ScheduleRequest{
		PatientID:      patientID,
		VeterinarianID: vetID,
		StartTimes:     []time.Time{at(t, "2025-01-10 10:15")},
		Reason:         "Vaccination",
	})
	if err != nil {
		t.Fatalf("schedule overlap: %v", err)
	}
	if len(overlap.Created) != 0 || len(overlap.Skipped) != 1 {
		t.Fatalf("overlap should be skipped, got created=%d skipped=%d", len(overlap.Created), len(overlap.Skipped))
	}

	// 10:30 starts exactly when the first ends.
	adjacent, err := svc.Schedule(ScheduleRequest{
		PatientID:      patientID,
		VeterinarianID: vetID,
		StartTimes:     []time.Time{at(t, "2025-01-10 10:30")},
		Reason:         "Vaccination",
	})
	if err != nil {
		t.Fatalf("schedule adjacent: %v", err)
	}
	if len(adjacent.Created) != 1 {
		t.Fatalf("back-to-back slot should be created, skipped: %+v", adjacent.Skipped)
	}
}

func TestScheduleBatchPartialSuccess(t *testing.T) {
	db := newTestDB(t)
	patientID, vetID := seedPatientAndVet(t, db)
	svc := NewSchedulingService(db)

	if _, err := svc.Schedule(ScheduleRequest{
		PatientID:      patientID,
		VeterinarianID: vetID,
		StartTimes:     []time.Time{at(t, "2025-02-03 09:00")},
		Reason:         "Physio",
	}); err != nil {
		t.Fatalf("seed appointment: %v", err)
	}

	// Three dates, the middle one conflicts.
	result, err := svc.Schedule(ScheduleRequest{
		PatientID:      patientID,
		VeterinarianID: vetID,
		StartTimes: []time.Time{
			at(t, "2025-02-02 09:00"),
			at(t, "2025-02-03 09:00"),
			at(t, "2025-02-04 09:00"),
		},
		Reason: "Physio series",
	})
	if err != nil {
		t.Fatalf("batch schedule: %v", err)
	}

	if len(result.Created) != 2 {
		t.Errorf("created = %d, want 2", len(result.Created))
	}
	if len(result.Skipped) != 1 {
		t.Fatalf("skipped = %d, want 1", len(result.Skipped))
	}
	if !result.Skipped[0].StartTime.Equal(at(t, "2025-02-03 09:00")) {
		t.Errorf("skipped slot = %v, want 2025-02-03 09:00", result.Skipped[0].StartTime)
	}

	var count int64
	if err := db.Model(&models.Appointment{}).Count(&count).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 3 {
		t.Errorf("total appointments = %d, want 3", count)
	}
}

func TestCanceledAppointmentStillBlocksSlot(t *testing.T) {
	db := newTestDB(t)
	patientID, vetID := seedPatientAndVet(t, db)
	svc := NewSchedulingService(db)

	result, err := svc.Schedule(ScheduleRequest{
		PatientID:      patientID,
		VeterinarianID: vetID,
		StartTimes:     []time.Time{at(t, "2025-03-01 11:00")},
		Reason:         "Surgery consult",
	})
	if err != nil {
		t.Fatalf("schedule: %v", err)
	}

	if _, err := svc.SetStatus(result.Created[0].ID, models.StatusCanceled); err != nil {
		t.Fatalf("cancel: %v", err)
	}

	retry, err := svc.Schedule(ScheduleRequest{
		PatientID:      patientID,
		VeterinarianID: vetID,
		StartTimes:     []time.Time{at(t, "2025-03-01 11:00")},
		Reason:         "Surgery consult",
	})
	if err != nil {
		t.Fatalf("reschedule: %v", err)
	}
	if len(retry.Created) != 0 {
		t.Error("canceled appointment should still occupy its slot")
	}
}

func TestUpdateExcludesSelfAndResetsNotification(t *testing.T) {
	db := newTestDB(t)
	patientID, vetID := seedPatientAndVet(t, db)
	svc := NewSchedulingService(db)

	result, err := svc.Schedule(ScheduleRequest{
		PatientID:      patientID,
		VeterinarianID: vetID,
		StartTimes:     []time.Time{at(t, "2025-04-07 14:00")},
		Reason:         "Dental cleaning",
	})
	if err != nil {
		t.Fatalf("schedule: %v", err)
	}
	id := result.Created[0].ID

	// Pretend the reminder email already went out.
	if err := db.Model(&models.Appointment{}).Where("id = ?", id).
		Update("notification_status", models.NotificationSent).Error; err != nil {
		t.Fatalf("mark notified: %v", err)
	}

	// Saving without moving the time keeps the conflict check happy
	// (self is excluded) and keeps the notification flag.
	same, err := svc.Update(id, UpdateRequest{
		PatientID:       patientID,
		VeterinarianID:  vetID,
		StartTime:       at(t, "2025-04-07 14:00"),
		DurationMinutes: 30,
		Reason:          "Dental cleaning",
		Status:          models.StatusScheduled,
	})
	if err != nil {
		t.Fatalf("update in place: %v", err)
	}
	if same.NotificationStatus != models.NotificationSent {
		t.Error("unchanged time should keep notification status")
	}

	// Moving the time resets the flag.
	moved, err := svc.Update(id, UpdateRequest{
		PatientID:       patientID,
		VeterinarianID:  vetID,
		StartTime:       at(t, "2025-04-08 14:00"),
		DurationMinutes: 30,
		Reason:          "Dental cleaning",
		Status:          models.StatusScheduled,
	})
	if err != nil {
		t.Fatalf("update moved: %v", err)
	}
	if moved.NotificationStatus != models.NotificationNotSent {
		t.Error("time change should reset notification status")
	}
}

func TestUpdateIntoOccupiedSlotFails(t *testing.T) {
	db := newTestDB(t)
	patientID, vetID := seedPatientAndVet(t, db)
	svc := NewSchedulingService(db)

	result, err := svc.Schedule(ScheduleRequest{
		PatientID:      patientID,
		VeterinarianID: vetID,
		StartTimes: []time.Time{
			at(t, "2025-05-05 09:00"),
			at(t, "2025-05-05 10:00"),
		},
		Reason: "Checkups",
	})
	if err != nil {
		t.Fatalf("schedule: %v", err)
	}
	if len(result.Created) != 2 {
		t.Fatalf("created = %d, want 2", len(result.Created))
	}

	_, err = svc.Update(result.Created[1].ID, UpdateRequest{
		PatientID:       patientID,
		VeterinarianID:  vetID,
		StartTime:       at(t, "2025-05-05 09:15"),
		DurationMinutes: 30,
		Reason:          "Checkups",
		Status:          models.StatusScheduled,
	})
	if !errors.Is(err, ErrScheduleConflict) {
		t.Errorf("err = %v, want ErrScheduleConflict", err)
	}
}
