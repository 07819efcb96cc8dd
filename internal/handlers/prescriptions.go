package handlers

import (
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"vetclinic-server/internal/models"
	"vetclinic-server/internal/utils"
)

// PrescriptionHandler handles prescription requests.
type PrescriptionHandler struct {
	DB *gorm.DB
}

// NewPrescriptionHandler creates a new PrescriptionHandler.
func NewPrescriptionHandler(db *gorm.DB) *PrescriptionHandler {
	return &PrescriptionHandler{DB: db}
}

// PrescriptionRequest represents the request body for creating or editing a
// prescription.
type PrescriptionRequest struct {
	PatientID    string `json:"patientId" binding:"required"`
	Medication   string `json:"medication" binding:"required"`
	Dosage       string `json:"dosage"`
	Instructions string `json:"instructions"`
	DateIssued   string `json:"dateIssued"`
}

// ListPrescriptions returns prescriptions, optionally filtered by patient.
func (h *PrescriptionHandler) ListPrescriptions(c *gin.Context) {
	query := h.DB.Preload("Patient").Order("date_issued desc")
	if patientID := c.Query("patientId"); patientID != "" {
		query = query.Where("patient_id = ?", patientID)
	}

	var prescriptions []models.Prescription
	if err := query.Find(&prescriptions).Error; err != nil {
		utils.InternalServerError(c, "Failed to fetch prescriptions: "+err.Error())
		return
	}
	utils.Success(c, "Prescriptions fetched", prescriptions)
}

// GetPrescription returns one prescription.
func (h *PrescriptionHandler) GetPrescription(c *gin.Context) {
	var prescription models.Prescription
	if err := h.DB.Preload("Patient").First(&prescription, "id = ?", c.Param("id")).Error; err != nil {
		utils.NotFound(c, "Prescription not found")
		return
	}
	utils.Success(c, "Prescription fetched", prescription)
}

// CreatePrescription records a new prescription. DateIssued defaults to today.
func (h *PrescriptionHandler) CreatePrescription(c *gin.Context) {
	var req PrescriptionRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	dateIssued := time.Now()
	if req.DateIssued != "" {
		parsed, err := utils.ParseDate(req.DateIssued)
		if err != nil {
			utils.BadRequest(c, "Invalid date issued: expected "+utils.DateLayout)
			return
		}
		dateIssued = parsed
	}

	if err := h.DB.First(&models.Patient{}, "id = ?", req.PatientID).Error; err != nil {
		utils.NotFound(c, "Patient not found")
		return
	}

	prescription := models.Prescription{
		PatientID:    req.PatientID,
		Medication:   req.Medication,
		Dosage:       req.Dosage,
		Instructions: req.Instructions,
		DateIssued:   dateIssued,
	}
	if err := h.DB.Create(&prescription).Error; err != nil {
		utils.InternalServerError(c, "Failed to create prescription: "+err.Error())
		return
	}
	utils.Created(c, "Prescription created", prescription)
}

// UpdatePrescription edits a prescription.
func (h *PrescriptionHandler) UpdatePrescription(c *gin.Context) {
	var req PrescriptionRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	var prescription models.Prescription
	if err := h.DB.First(&prescription, "id = ?", c.Param("id")).Error; err != nil {
		utils.NotFound(c, "Prescription not found")
		return
	}

	prescription.PatientID = req.PatientID
	prescription.Medication = req.Medication
	prescription.Dosage = req.Dosage
	prescription.Instructions = req.Instructions
	if req.DateIssued != "" {
		parsed, err := utils.ParseDate(req.DateIssued)
		if err != nil {
			utils.BadRequest(c, "Invalid date issued: expected "+utils.DateLayout)
			return
		}
		prescription.DateIssued = parsed
	}

	if err := h.DB.Save(&prescription).Error; err != nil {
		utils.InternalServerError(c, "Failed to update prescription: "+err.Error())
		return
	}
	utils.Success(c, "Prescription updated", prescription)
}

// DeletePrescription removes a prescription.
func (h *PrescriptionHandler) DeletePrescription(c *gin.Context) {
	result := h.DB.Delete(&models.Prescription{}, "id = ?", c.Param("id"))
	if result.Error != nil {
		utils.InternalServerError(c, "Failed to delete prescription: "+result.Error.Error())
		return
	}
	if result.RowsAffected == 0 {
		utils.NotFound(c, "Prescription not found")
		return
	}
	utils.Success(c, "Prescription deleted", nil)
}
