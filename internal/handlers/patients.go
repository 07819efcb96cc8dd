package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"vetclinic-server/internal/models"
	"vetclinic-server/internal/utils"
)

// PatientHandler handles patient registry requests.
type PatientHandler struct {
	DB *gorm.DB
}

// NewPatientHandler creates a new PatientHandler.
func NewPatientHandler(db *gorm.DB) *PatientHandler {
	return &PatientHandler{DB: db}
}

// PatientRequest represents the request body for creating or editing a patient.
type PatientRequest struct {
	Name         string `json:"name" binding:"required"`
	Species      string `json:"species" binding:"required"`
	Breed        string `json:"breed"`
	AgeYears     int    `json:"ageYears" binding:"omitempty,min=0"`
	AgeMonths    int    `json:"ageMonths" binding:"omitempty,min=0,max=11"`
	OwnerName    string `json:"ownerName" binding:"required"`
	OwnerContact string `json:"ownerContact"`
	OwnerEmail   string `json:"ownerEmail" binding:"omitempty,email"`
}

// ListPatients returns patients, filtered by the registry screen's search
// fields: free text over name/owner, exact species, age range.
func (h *PatientHandler) ListPatients(c *gin.Context) {
	query := h.DB.Order("name asc")

	if search := c.Query("search"); search != "" {
		like := "%" + search + "%"
		query = query.Where("name LIKE ? OR owner_name LIKE ? OR owner_contact LIKE ?", like, like, like)
	}
	if species := c.Query("species"); species != "" {
		query = query.Where("species = ?", species)
	}
	if minAge := c.Query("minAgeYears"); minAge != "" {
		if v, err := strconv.Atoi(minAge); err == nil {
			query = query.Where("age_years >= ?", v)
		}
	}
	if maxAge := c.Query("maxAgeYears"); maxAge != "" {
		if v, err := strconv.Atoi(maxAge); err == nil {
			query = query.Where("age_years <= ?", v)
		}
	}

	var patients []models.Patient
	if err := query.Find(&patients).Error; err != nil {
		utils.InternalServerError(c, "Failed to fetch patients: "+err.Error())
		return
	}
	utils.Success(c, "Patients fetched", patients)
}

// GetPatient returns one patient by ID.
func (h *PatientHandler) GetPatient(c *gin.Context) {
	var patient models.Patient
	if err := h.DB.First(&patient, "id = ?", c.Param("id")).Error; err != nil {
		utils.NotFound(c, "Patient not found")
		return
	}
	utils.Success(c, "Patient fetched", patient)
}

// CreatePatient registers a new patient.
func (h *PatientHandler) CreatePatient(c *gin.Context) {
	var req PatientRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	patient := models.Patient{
		Name:         req.Name,
		Species:      req.Species,
		Breed:        req.Breed,
		AgeYears:     req.AgeYears,
		AgeMonths:    req.AgeMonths,
		OwnerName:    req.OwnerName,
		OwnerContact: req.OwnerContact,
		OwnerEmail:   req.OwnerEmail,
	}
	if err := h.DB.Create(&patient).Error; err != nil {
		utils.InternalServerError(c, "Failed to create patient: "+err.Error())
		return
	}
	utils.Created(c, "Patient created", patient)
}

// UpdatePatient edits a patient's details.
func (h *PatientHandler) UpdatePatient(c *gin.Context) {
	var req PatientRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	var patient models.Patient
	if err := h.DB.First(&patient, "id = ?", c.Param("id")).Error; err != nil {
		utils.NotFound(c, "Patient not found")
		return
	}

	patient.Name = req.Name
	patient.Species = req.Species
	patient.Breed = req.Breed
	patient.AgeYears = req.AgeYears
	patient.AgeMonths = req.AgeMonths
	patient.OwnerName = req.OwnerName
	patient.OwnerContact = req.OwnerContact
	patient.OwnerEmail = req.OwnerEmail

	if err := h.DB.Save(&patient).Error; err != nil {
		utils.InternalServerError(c, "Failed to update patient: "+err.Error())
		return
	}
	utils.Success(c, "Patient updated", patient)
}

// DeletePatient removes a patient from the registry.
func (h *PatientHandler) DeletePatient(c *gin.Context) {
	result := h.DB.Delete(&models.Patient{}, "id = ?", c.Param("id"))
	if result.Error != nil {
		utils.InternalServerError(c, "Failed to delete patient: "+result.Error.Error())
		return
	}
	if result.RowsAffected == 0 {
		utils.NotFound(c, "Patient not found")
		return
	}
	utils.Success(c, "Patient deleted", nil)
}

// ExportPatientsCSV streams the registry as a CSV download.
func (h *PatientHandler) ExportPatientsCSV(c *gin.Context) {
	var patients []models.Patient
	if err := h.DB.Order("name asc").Find(&patients).Error; err != nil {
		utils.InternalServerError(c, "Failed to fetch patients: "+err.Error())
		return
	}

	headers := []string{"Name", "Species", "Breed", "Age (Years)", "Age (Months)", "Owner", "Contact", "Email"}
	rows := make([][]string, 0, len(patients))
	for _, p := range patients {
		rows = append(rows, []string{
			p.Name, p.Species, p.Breed,
			strconv.Itoa(p.AgeYears), strconv.Itoa(p.AgeMonths),
			p.OwnerName, p.OwnerContact, p.OwnerEmail,
		})
	}

	utils.SendCSV(c, "patients.csv", headers, rows)
}
