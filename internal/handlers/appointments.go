package handlers

import (
	"errors"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"vetclinic-server/internal/models"
	"vetclinic-server/internal/services"
	"vetclinic-server/internal/utils"
)

// AppointmentHandler handles the scheduling screen's requests. Conflict
// detection and batch creation live in the scheduling service; this layer
// only parses, authorizes and maps errors to status codes.
type AppointmentHandler struct {
	DB         *gorm.DB
	Scheduling *services.SchedulingService
}

// NewAppointmentHandler creates a new AppointmentHandler.
func NewAppointmentHandler(db *gorm.DB, scheduling *services.SchedulingService) *AppointmentHandler {
	return &AppointmentHandler{DB: db, Scheduling: scheduling}
}

// CreateAppointmentsRequest represents a batch scheduling request: one time
// per entry in StartTimes, all sharing the same details.
type CreateAppointmentsRequest struct {
	PatientID       string   `json:"patientId" binding:"required"`
	VeterinarianID  string   `json:"veterinarianId" binding:"required"`
	StartTimes      []string `json:"startTimes" binding:"required,min=1"`
	DurationMinutes int      `json:"durationMinutes" binding:"omitempty,min=1"`
	AppointmentType string   `json:"appointmentType"`
	Reason          string   `json:"reason" binding:"required"`
	Status          string   `json:"status" binding:"omitempty,oneof=Scheduled 'To be Confirmed'"`
}

// CreateAppointments schedules one or more appointments in a single batch.
// Conflicting slots are skipped and reported alongside the created rows; the
// response is 201 if anything was created, 409 if every slot conflicted.
func (h *AppointmentHandler) CreateAppointments(c *gin.Context) {
	var req CreateAppointmentsRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	starts := make([]time.Time, 0, len(req.StartTimes))
	for _, raw := range req.StartTimes {
		start, err := utils.ParseDateTime(raw)
		if err != nil {
			utils.BadRequest(c, "Invalid start time '"+raw+"': expected "+utils.DateTimeLayout)
			return
		}
		starts = append(starts, start)
	}

	if err := h.DB.First(&models.Patient{}, "id = ?", req.PatientID).Error; err != nil {
		utils.NotFound(c, "Patient not found")
		return
	}
	if err := h.DB.First(&models.User{}, "id = ? AND role = ?", req.VeterinarianID, models.RoleVeterinarian).Error; err != nil {
		utils.NotFound(c, "Veterinarian not found")
		return
	}

	result, err := h.Scheduling.Schedule(services.ScheduleRequest{
		PatientID:       req.PatientID,
		VeterinarianID:  req.VeterinarianID,
		StartTimes:      starts,
		DurationMinutes: req.DurationMinutes,
		AppointmentType: req.AppointmentType,
		Reason:          req.Reason,
		Status:          models.AppointmentStatus(req.Status),
	})
	if err != nil {
		utils.InternalServerError(c, "Failed to schedule appointments: "+err.Error())
		return
	}

	if len(result.Created) == 0 {
		utils.Conflict(c, "All requested slots conflict with existing appointments")
		return
	}
	utils.Created(c, "Appointments scheduled", result)
}

// ListAppointments returns appointments filtered by the calendar screen's
// controls: date, date range, veterinarian, patient, status, free-text search.
func (h *AppointmentHandler) ListAppointments(c *gin.Context) {
	query := h.DB.Preload("Patient").Preload("Veterinarian").Order("start_time asc")

	if date := c.Query("date"); date != "" {
		day, err := utils.ParseDate(date)
		if err != nil {
			utils.BadRequest(c, "Invalid date: expected "+utils.DateLayout)
			return
		}
		query = query.Where("start_time >= ? AND start_time < ?", day, day.AddDate(0, 0, 1))
	}
	if from := c.Query("from"); from != "" {
		day, err := utils.ParseDate(from)
		if err != nil {
			utils.BadRequest(c, "Invalid from date: expected "+utils.DateLayout)
			return
		}
		query = query.Where("start_time >= ?", day)
	}
	if to := c.Query("to"); to != "" {
		day, err := utils.ParseDate(to)
		if err != nil {
			utils.BadRequest(c, "Invalid to date: expected "+utils.DateLayout)
			return
		}
		query = query.Where("start_time < ?", day.AddDate(0, 0, 1))
	}
	if vetID := c.Query("veterinarianId"); vetID != "" {
		query = query.Where("veterinarian_id = ?", vetID)
	}
	if patientID := c.Query("patientId"); patientID != "" {
		query = query.Where("patient_id = ?", patientID)
	}
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	if search := c.Query("search"); search != "" {
		like := "%" + search + "%"
		query = query.Joins("JOIN patients ON patients.id = appointments.patient_id").
			Where("patients.name LIKE ? OR patients.owner_name LIKE ? OR appointments.reason LIKE ?", like, like, like)
	}

	var appointments []models.Appointment
	if err := query.Find(&appointments).Error; err != nil {
		utils.InternalServerError(c, "Failed to fetch appointments: "+err.Error())
		return
	}
	utils.Success(c, "Appointments fetched", appointments)
}

// GetAppointment returns one appointment with patient and veterinarian.
func (h *AppointmentHandler) GetAppointment(c *gin.Context) {
	var appointment models.Appointment
	if err := h.DB.Preload("Patient").Preload("Veterinarian").
		First(&appointment, "id = ?", c.Param("id")).Error; err != nil {
		utils.NotFound(c, "Appointment not found")
		return
	}
	utils.Success(c, "Appointment fetched", appointment)
}

// UpdateAppointmentRequest represents the request body for editing an
// appointment.
type UpdateAppointmentRequest struct {
	PatientID       string `json:"patientId" binding:"required"`
	VeterinarianID  string `json:"veterinarianId" binding:"required"`
	StartTime       string `json:"startTime" binding:"required"`
	DurationMinutes int    `json:"durationMinutes" binding:"omitempty,min=1"`
	AppointmentType string `json:"appointmentType"`
	Reason          string `json:"reason" binding:"required"`
	Status          string `json:"status" binding:"required,oneof=Scheduled 'To be Confirmed' Completed No-show Canceled"`
}

// UpdateAppointment edits an appointment. A time change resets its reminder
// email flag; a conflicting new slot is rejected with 409.
func (h *AppointmentHandler) UpdateAppointment(c *gin.Context) {
	var req UpdateAppointmentRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	start, err := utils.ParseDateTime(req.StartTime)
	if err != nil {
		utils.BadRequest(c, "Invalid start time: expected "+utils.DateTimeLayout)
		return
	}

	updated, err := h.Scheduling.Update(c.Param("id"), services.UpdateRequest{
		PatientID:       req.PatientID,
		VeterinarianID:  req.VeterinarianID,
		StartTime:       start,
		DurationMinutes: req.DurationMinutes,
		AppointmentType: req.AppointmentType,
		Reason:          req.Reason,
		Status:          models.AppointmentStatus(req.Status),
	})
	if err != nil {
		switch {
		case errors.Is(err, services.ErrScheduleConflict):
			utils.Conflict(c, err.Error())
		case errors.Is(err, gorm.ErrRecordNotFound):
			utils.NotFound(c, "Appointment not found")
		default:
			utils.InternalServerError(c, "Failed to update appointment: "+err.Error())
		}
		return
	}
	utils.Success(c, "Appointment updated", updated)
}

// setStatus is the shared implementation of the status shortcut endpoints.
func (h *AppointmentHandler) setStatus(c *gin.Context, status models.AppointmentStatus, message string) {
	appointment, err := h.Scheduling.SetStatus(c.Param("id"), status)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.NotFound(c, "Appointment not found")
		} else {
			utils.InternalServerError(c, "Failed to update status: "+err.Error())
		}
		return
	}
	utils.Success(c, message, appointment)
}

// CompleteAppointment marks an appointment Completed.
func (h *AppointmentHandler) CompleteAppointment(c *gin.Context) {
	h.setStatus(c, models.StatusCompleted, "Appointment completed")
}

// CancelAppointment marks an appointment Canceled. The row is kept and the
// slot stays blocked on the calendar.
func (h *AppointmentHandler) CancelAppointment(c *gin.Context) {
	h.setStatus(c, models.StatusCanceled, "Appointment canceled")
}

// MarkNoShow marks an appointment No-show.
func (h *AppointmentHandler) MarkNoShow(c *gin.Context) {
	h.setStatus(c, models.StatusNoShow, "Appointment marked as no-show")
}

// SetReminderRequest represents the request body for attaching a reminder to
// an appointment.
type SetReminderRequest struct {
	RemindAt string `json:"remindAt" binding:"required"`
	Reason   string `json:"reason"`
}

// SetReminder creates a pending reminder for an appointment.
func (h *AppointmentHandler) SetReminder(c *gin.Context) {
	var req SetReminderRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	remindAt, err := utils.ParseDateTime(req.RemindAt)
	if err != nil {
		utils.BadRequest(c, "Invalid reminder time: expected "+utils.DateTimeLayout)
		return
	}

	appointmentID := c.Param("id")
	if err := h.DB.First(&models.Appointment{}, "id = ?", appointmentID).Error; err != nil {
		utils.NotFound(c, "Appointment not found")
		return
	}

	reminder := models.Reminder{
		AppointmentID: appointmentID,
		RemindAt:      remindAt,
		Reason:        req.Reason,
		Status:        models.ReminderPending,
	}
	if err := h.DB.Create(&reminder).Error; err != nil {
		utils.InternalServerError(c, "Failed to create reminder: "+err.Error())
		return
	}
	utils.Created(c, "Reminder created", reminder)
}

// ExportAppointmentsCSV streams the current appointment list as CSV.
func (h *AppointmentHandler) ExportAppointmentsCSV(c *gin.Context) {
	var appointments []models.Appointment
	if err := h.DB.Preload("Patient").Preload("Veterinarian").
		Order("start_time asc").Find(&appointments).Error; err != nil {
		utils.InternalServerError(c, "Failed to fetch appointments: "+err.Error())
		return
	}

	headers := []string{"Date & Time", "Duration (min)", "Patient", "Veterinarian", "Type", "Reason", "Status"}
	rows := make([][]string, 0, len(appointments))
	for _, a := range appointments {
		rows = append(rows, []string{
			a.StartTime.Format(utils.DateTimeLayout),
			strconv.Itoa(a.DurationMinutes),
			a.Patient.Name,
			a.Veterinarian.FullName,
			a.AppointmentType,
			a.Reason,
			string(a.Status),
		})
	}
	utils.SendCSV(c, "appointments.csv", headers, rows)
}
