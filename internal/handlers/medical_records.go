package handlers

import (
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"vetclinic-server/internal/middleware"
	"vetclinic-server/internal/models"
	"vetclinic-server/internal/utils"
)

// maxAttachmentSize caps uploaded files at 10 MB.
const maxAttachmentSize = 10 << 20

// MedicalRecordHandler handles clinical note requests.
type MedicalRecordHandler struct {
	DB *gorm.DB
}

// NewMedicalRecordHandler creates a new MedicalRecordHandler.
func NewMedicalRecordHandler(db *gorm.DB) *MedicalRecordHandler {
	return &MedicalRecordHandler{DB: db}
}

// MedicalRecordRequest represents the request body for creating or editing a
// clinical note.
type MedicalRecordRequest struct {
	PatientID     string `json:"patientId" binding:"required"`
	AppointmentID string `json:"appointmentId"`
	RecordType    string `json:"recordType" binding:"required,oneof=ConsultationNote LabResult ImagingReport VaccinationRecord SurgeryReport"`
	RecordDate    string `json:"date"`
	Title         string `json:"title" binding:"required"`
	Summary       string `json:"summary"`
	Details       string `json:"details"`
}

// ListMedicalRecords returns clinical notes, optionally filtered by patient
// or appointment.
func (h *MedicalRecordHandler) ListMedicalRecords(c *gin.Context) {
	query := h.DB.Preload("Attachments").Order("record_date desc")
	if patientID := c.Query("patientId"); patientID != "" {
		query = query.Where("patient_id = ?", patientID)
	}
	if appointmentID := c.Query("appointmentId"); appointmentID != "" {
		query = query.Where("appointment_id = ?", appointmentID)
	}

	var records []models.MedicalRecord
	if err := query.Find(&records).Error; err != nil {
		utils.InternalServerError(c, "Failed to fetch medical records: "+err.Error())
		return
	}
	utils.Success(c, "Medical records fetched", records)
}

// GetMedicalRecord returns one clinical note with its attachments.
func (h *MedicalRecordHandler) GetMedicalRecord(c *gin.Context) {
	var record models.MedicalRecord
	if err := h.DB.Preload("Attachments").First(&record, "id = ?", c.Param("id")).Error; err != nil {
		utils.NotFound(c, "Medical record not found")
		return
	}
	utils.Success(c, "Medical record fetched", record)
}

// CreateMedicalRecord writes a clinical note. The authenticated user becomes
// the authoring veterinarian.
func (h *MedicalRecordHandler) CreateMedicalRecord(c *gin.Context) {
	var req MedicalRecordRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	vetID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		utils.Unauthorized(c, "User not authenticated")
		return
	}

	recordDate := time.Now()
	if req.RecordDate != "" {
		parsed, err := utils.ParseDate(req.RecordDate)
		if err != nil {
			utils.BadRequest(c, "Invalid record date: expected "+utils.DateLayout)
			return
		}
		recordDate = parsed
	}

	if err := h.DB.First(&models.Patient{}, "id = ?", req.PatientID).Error; err != nil {
		utils.NotFound(c, "Patient not found")
		return
	}

	record := models.MedicalRecord{
		PatientID:      req.PatientID,
		VeterinarianID: vetID,
		AppointmentID:  req.AppointmentID,
		RecordType:     models.MedicalRecordType(req.RecordType),
		RecordDate:     recordDate,
		Title:          req.Title,
		Summary:        req.Summary,
		Details:        req.Details,
	}
	if err := h.DB.Create(&record).Error; err != nil {
		utils.InternalServerError(c, "Failed to create medical record: "+err.Error())
		return
	}
	utils.Created(c, "Medical record created", record)
}

// UpdateMedicalRecord edits a clinical note.
func (h *MedicalRecordHandler) UpdateMedicalRecord(c *gin.Context) {
	var req MedicalRecordRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	var record models.MedicalRecord
	if err := h.DB.First(&record, "id = ?", c.Param("id")).Error; err != nil {
		utils.NotFound(c, "Medical record not found")
		return
	}

	record.PatientID = req.PatientID
	record.AppointmentID = req.AppointmentID
	record.RecordType = models.MedicalRecordType(req.RecordType)
	record.Title = req.Title
	record.Summary = req.Summary
	record.Details = req.Details
	if req.RecordDate != "" {
		parsed, err := utils.ParseDate(req.RecordDate)
		if err != nil {
			utils.BadRequest(c, "Invalid record date: expected "+utils.DateLayout)
			return
		}
		record.RecordDate = parsed
	}

	if err := h.DB.Save(&record).Error; err != nil {
		utils.InternalServerError(c, "Failed to update medical record: "+err.Error())
		return
	}
	utils.Success(c, "Medical record updated", record)
}

// DeleteMedicalRecord removes a clinical note and its attachments.
func (h *MedicalRecordHandler) DeleteMedicalRecord(c *gin.Context) {
	id := c.Param("id")
	err := h.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("medical_record_id = ?", id).Delete(&models.MedicalRecordAttachment{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&models.MedicalRecord{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.NotFound(c, "Medical record not found")
		} else {
			utils.InternalServerError(c, "Failed to delete medical record: "+err.Error())
		}
		return
	}
	utils.Success(c, "Medical record deleted", nil)
}

// UploadAttachment stores a multipart file against a clinical note.
func (h *MedicalRecordHandler) UploadAttachment(c *gin.Context) {
	recordID := c.Param("id")
	if err := h.DB.First(&models.MedicalRecord{}, "id = ?", recordID).Error; err != nil {
		utils.NotFound(c, "Medical record not found")
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		utils.BadRequest(c, "No file provided: "+err.Error())
		return
	}
	if fileHeader.Size > maxAttachmentSize {
		utils.BadRequest(c, "File exceeds the 10 MB limit")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		utils.InternalServerError(c, "Failed to open uploaded file: "+err.Error())
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		utils.InternalServerError(c, "Failed to read uploaded file: "+err.Error())
		return
	}

	attachment := models.MedicalRecordAttachment{
		MedicalRecordID: recordID,
		FileName:        fileHeader.Filename,
		FileType:        fileHeader.Header.Get("Content-Type"),
		FileData:        data,
	}
	if err := h.DB.Create(&attachment).Error; err != nil {
		utils.InternalServerError(c, "Failed to store attachment: "+err.Error())
		return
	}
	utils.Created(c, "Attachment uploaded", attachment)
}

// GetAttachment streams an attachment's bytes with its stored MIME type.
func (h *MedicalRecordHandler) GetAttachment(c *gin.Context) {
	var attachment models.MedicalRecordAttachment
	if err := h.DB.First(&attachment, "id = ?", c.Param("attachmentId")).Error; err != nil {
		utils.NotFound(c, "Attachment not found")
		return
	}

	c.Header("Content-Disposition", "attachment; filename="+attachment.FileName)
	c.Data(http.StatusOK, attachment.FileType, attachment.FileData)
}

// DeleteAttachment removes a stored attachment.
func (h *MedicalRecordHandler) DeleteAttachment(c *gin.Context) {
	result := h.DB.Delete(&models.MedicalRecordAttachment{}, "id = ?", c.Param("attachmentId"))
	if result.Error != nil {
		utils.InternalServerError(c, "Failed to delete attachment: "+result.Error.Error())
		return
	}
	if result.RowsAffected == 0 {
		utils.NotFound(c, "Attachment not found")
		return
	}
	utils.Success(c, "Attachment deleted", nil)
}
