package handlers

import (
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"vetclinic-server/internal/models"
	"vetclinic-server/internal/services"
	"vetclinic-server/internal/utils"
)

// ConsentHandler handles consent form requests. The consent screen can book
// a follow-up appointment in the same flow, so this handler also talks to
// the scheduling service.
type ConsentHandler struct {
	DB         *gorm.DB
	Scheduling *services.SchedulingService
}

// NewConsentHandler creates a new ConsentHandler.
func NewConsentHandler(db *gorm.DB, scheduling *services.SchedulingService) *ConsentHandler {
	return &ConsentHandler{DB: db, Scheduling: scheduling}
}

// FollowUpRequest is the optional follow-up appointment booked together with
// a consent form.
type FollowUpRequest struct {
	VeterinarianID  string `json:"veterinarianId" binding:"required"`
	StartTime       string `json:"startTime" binding:"required"`
	DurationMinutes int    `json:"durationMinutes" binding:"omitempty,min=1"`
	Reason          string `json:"reason"`
	RemindAt        string `json:"remindAt"`
}

// CreateConsentRequest represents the request body for recording a consent
// form.
type CreateConsentRequest struct {
	PatientID   string           `json:"patientId" binding:"required"`
	ConsentType string           `json:"consentType" binding:"required"`
	SignerName  string           `json:"signerName" binding:"required"`
	Notes       string           `json:"notes"`
	ValidUntil  string           `json:"validUntil"`
	FilePath    string           `json:"filePath"`
	Signed      bool             `json:"signed"`
	FollowUp    *FollowUpRequest `json:"followUp"`
}

// CreateConsent records a consent form and, when requested, books the
// follow-up appointment and its reminder. A conflicting follow-up slot fails
// the whole request with 409 so the consent is not half-recorded.
func (h *ConsentHandler) CreateConsent(c *gin.Context) {
	var req CreateConsentRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	if err := h.DB.First(&models.Patient{}, "id = ?", req.PatientID).Error; err != nil {
		utils.NotFound(c, "Patient not found")
		return
	}

	var validUntil time.Time
	if req.ValidUntil != "" {
		parsed, err := utils.ParseDate(req.ValidUntil)
		if err != nil {
			utils.BadRequest(c, "Invalid valid-until date: expected "+utils.DateLayout)
			return
		}
		validUntil = parsed
	}

	var followUpStart time.Time
	var remindAt time.Time
	if req.FollowUp != nil {
		var err error
		followUpStart, err = utils.ParseDateTime(req.FollowUp.StartTime)
		if err != nil {
			utils.BadRequest(c, "Invalid follow-up start time: expected "+utils.DateTimeLayout)
			return
		}
		if req.FollowUp.RemindAt != "" {
			remindAt, err = utils.ParseDateTime(req.FollowUp.RemindAt)
			if err != nil {
				utils.BadRequest(c, "Invalid reminder time: expected "+utils.DateTimeLayout)
				return
			}
		}
	}

	status := models.ConsentDraft
	if req.Signed {
		status = models.ConsentSigned
	}

	consent := models.ConsentForm{
		PatientID:   req.PatientID,
		ConsentType: req.ConsentType,
		SignerName:  req.SignerName,
		Notes:       req.Notes,
		ValidUntil:  validUntil,
		Status:      status,
		FilePath:    req.FilePath,
	}
	if err := h.DB.Create(&consent).Error; err != nil {
		utils.InternalServerError(c, "Failed to create consent form: "+err.Error())
		return
	}

	response := gin.H{"consent": consent}

	if req.FollowUp != nil {
		reason := req.FollowUp.Reason
		if reason == "" {
			reason = "Follow-up: " + req.ConsentType
		}

		result, err := h.Scheduling.Schedule(services.ScheduleRequest{
			PatientID:       req.PatientID,
			VeterinarianID:  req.FollowUp.VeterinarianID,
			StartTimes:      []time.Time{followUpStart},
			DurationMinutes: req.FollowUp.DurationMinutes,
			AppointmentType: models.TypeFollowUp,
			Reason:          reason,
			Status:          models.StatusToBeConfirmed,
		})
		if err != nil {
			utils.InternalServerError(c, "Failed to book follow-up: "+err.Error())
			return
		}
		if len(result.Created) == 0 {
			// Undo the consent so the flow is all-or-nothing.
			h.DB.Delete(&consent)
			utils.Conflict(c, "Follow-up slot conflicts with an existing appointment")
			return
		}

		appointment := result.Created[0]
		response["followUpAppointment"] = appointment

		if !remindAt.IsZero() {
			reminder := models.Reminder{
				AppointmentID: appointment.ID,
				RemindAt:      remindAt,
				Reason:        reason,
				Status:        models.ReminderPending,
			}
			if err := h.DB.Create(&reminder).Error; err != nil {
				utils.InternalServerError(c, "Failed to create reminder: "+err.Error())
				return
			}
			response["reminder"] = reminder
		}
	}

	utils.Created(c, "Consent form recorded", response)
}

// ListConsents returns consent forms, optionally filtered by patient or
// status.
func (h *ConsentHandler) ListConsents(c *gin.Context) {
	query := h.DB.Preload("Patient").Order("created_at desc")
	if patientID := c.Query("patientId"); patientID != "" {
		query = query.Where("patient_id = ?", patientID)
	}
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var consents []models.ConsentForm
	if err := query.Find(&consents).Error; err != nil {
		utils.InternalServerError(c, "Failed to fetch consent forms: "+err.Error())
		return
	}
	utils.Success(c, "Consent forms fetched", consents)
}

// GetConsent returns one consent form.
func (h *ConsentHandler) GetConsent(c *gin.Context) {
	var consent models.ConsentForm
	if err := h.DB.Preload("Patient").First(&consent, "id = ?", c.Param("id")).Error; err != nil {
		utils.NotFound(c, "Consent form not found")
		return
	}
	utils.Success(c, "Consent form fetched", consent)
}

// SignConsent marks a draft consent form as signed.
func (h *ConsentHandler) SignConsent(c *gin.Context) {
	h.setStatus(c, models.ConsentSigned, "Consent form signed")
}

// VoidConsent voids a consent form. Void forms are kept for the audit trail.
func (h *ConsentHandler) VoidConsent(c *gin.Context) {
	h.setStatus(c, models.ConsentVoid, "Consent form voided")
}

func (h *ConsentHandler) setStatus(c *gin.Context, status models.ConsentStatus, message string) {
	var consent models.ConsentForm
	if err := h.DB.First(&consent, "id = ?", c.Param("id")).Error; err != nil {
		utils.NotFound(c, "Consent form not found")
		return
	}

	consent.Status = status
	if err := h.DB.Save(&consent).Error; err != nil {
		utils.InternalServerError(c, "Failed to update consent form: "+err.Error())
		return
	}
	utils.Success(c, message, consent)
}
