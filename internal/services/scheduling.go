package services

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"vetclinic-server/internal/models"
)

// ErrScheduleConflict is returned when a proposed appointment would
// double-book the veterinarian.
var ErrScheduleConflict = errors.New("veterinarian already has an appointment in this time range")

// SchedulingService owns appointment creation, editing and status changes.
type SchedulingService struct {
	db *gorm.DB
}

// NewSchedulingService creates a new SchedulingService.
func NewSchedulingService(db *gorm.DB) *SchedulingService {
	return &SchedulingService{db: db}
}

// Overlaps reports whether any of the given appointments overlaps the
// proposed [start, start+duration) interval. Comparisons are strict, so a
// stored appointment ending exactly at the proposed start does not conflict.
// Canceled appointments are NOT filtered out here: the calendar treats a
// canceled slot as still occupied.
func Overlaps(existing []models.Appointment, start time.Time, durationMinutes int) *models.Appointment {
	end := start.Add(time.Duration(durationMinutes) * time.Minute)
	for i := range existing {
		a := &existing[i]
		if a.EndTime().After(start) && a.StartTime.Before(end) {
			return a
		}
	}
	return nil
}

// findConflict loads the veterinarian's appointments that could overlap the
// proposed interval and runs the overlap check. excludeID skips the
// appointment currently being edited.
func (s *SchedulingService) findConflict(tx *gorm.DB, vetID string, start time.Time, durationMinutes int, excludeID string) (*models.Appointment, error) {
	end := start.Add(time.Duration(durationMinutes) * time.Minute)

	var candidates []models.Appointment
	q := tx.Where("veterinarian_id = ? AND start_time < ?", vetID, end)
	if excludeID != "" {
		q = q.Where("id <> ?", excludeID)
	}
	if err := q.Find(&candidates).Error; err != nil {
		return nil, err
	}

	return Overlaps(candidates, start, durationMinutes), nil
}

// ScheduleRequest describes a batch of proposed appointments: one per start
// time, all sharing the same patient, veterinarian and details.
type ScheduleRequest struct {
	PatientID       string
	VeterinarianID  string
	StartTimes      []time.Time
	DurationMinutes int
	AppointmentType string
	Reason          string
	Status          models.AppointmentStatus
}

// SkippedSlot reports one proposed start time that was rejected.
type SkippedSlot struct {
	StartTime time.Time `json:"startTime"`
	Reason    string    `json:"reason"`
}

// ScheduleResult lists what a batch request actually produced.
type ScheduleResult struct {
	Created []models.Appointment `json:"created"`
	Skipped []SkippedSlot        `json:"skipped"`
}

// Schedule creates appointments for every requested start time within a
// single transaction. Each candidate is checked and inserted independently:
// a conflicting slot is skipped and reported while the rest of the batch
// still goes through, so N proposed times can yield fewer than N rows.
func (s *SchedulingService) Schedule(req ScheduleRequest) (*ScheduleResult, error) {
	if req.DurationMinutes <= 0 {
		req.DurationMinutes = 30
	}
	if req.Status == "" {
		req.Status = models.StatusScheduled
	}

	result := &ScheduleResult{}
	err := s.db.Transaction(func(tx *gorm.DB) error {
		for _, start := range req.StartTimes {
			conflict, err := s.findConflict(tx, req.VeterinarianID, start, req.DurationMinutes, "")
			if err != nil {
				return err
			}
			if conflict != nil {
				result.Skipped = append(result.Skipped, SkippedSlot{
					StartTime: start,
					Reason: fmt.Sprintf("conflicts with appointment at %s",
						conflict.StartTime.Format("2006-01-02 15:04")),
				})
				continue
			}

			appointment := models.Appointment{
				PatientID:          req.PatientID,
				VeterinarianID:     req.VeterinarianID,
				StartTime:          start,
				DurationMinutes:    req.DurationMinutes,
				AppointmentType:    req.AppointmentType,
				Reason:             req.Reason,
				Status:             req.Status,
				NotificationStatus: models.NotificationNotSent,
			}
			if err := tx.Create(&appointment).Error; err != nil {
				return err
			}
			result.Created = append(result.Created, appointment)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// UpdateRequest carries the edited fields of an existing appointment.
type UpdateRequest struct {
	PatientID       string
	VeterinarianID  string
	StartTime       time.Time
	DurationMinutes int
	AppointmentType string
	Reason          string
	Status          models.AppointmentStatus
}

// Update edits an appointment. The appointment being edited is excluded from
// the conflict check, and moving it to a different time resets its
// notification flag so the reminder email goes out again.
func (s *SchedulingService) Update(id string, req UpdateRequest) (*models.Appointment, error) {
	var updated models.Appointment
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var appointment models.Appointment
		if err := tx.First(&appointment, "id = ?", id).Error; err != nil {
			return err
		}

		if req.DurationMinutes <= 0 {
			req.DurationMinutes = appointment.DurationMinutes
		}

		conflict, err := s.findConflict(tx, req.VeterinarianID, req.StartTime, req.DurationMinutes, id)
		if err != nil {
			return err
		}
		if conflict != nil {
			return ErrScheduleConflict
		}

		if !appointment.StartTime.Equal(req.StartTime) {
			appointment.NotificationStatus = models.NotificationNotSent
		}
		appointment.PatientID = req.PatientID
		appointment.VeterinarianID = req.VeterinarianID
		appointment.StartTime = req.StartTime
		appointment.DurationMinutes = req.DurationMinutes
		appointment.AppointmentType = req.AppointmentType
		appointment.Reason = req.Reason
		appointment.Status = req.Status

		if err := tx.Save(&appointment).Error; err != nil {
			return err
		}
		updated = appointment
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// SetStatus soft-terminates or otherwise re-labels an appointment. Normal
// flow never deletes an appointment row.
func (s *SchedulingService) SetStatus(id string, status models.AppointmentStatus) (*models.Appointment, error) {
	var appointment models.Appointment
	if err := s.db.First(&appointment, "id = ?", id).Error; err != nil {
		return nil, err
	}
	appointment.Status = status
	if err := s.db.Save(&appointment).Error; err != nil {
		return nil, err
	}
	return &appointment, nil
}
