package models

import (
	"time"
)

// ConsentStatus represents the lifecycle of a consent form
type ConsentStatus string

const (
	ConsentDraft  ConsentStatus = "Draft"
	ConsentSigned ConsentStatus = "Signed"
	ConsentVoid   ConsentStatus = "Void"
)

// Consent types offered by the consent screen
const (
	ConsentGeneralTreatment = "General Treatment Consent"
	ConsentSurgery          = "Surgery Consent"
	ConsentAnesthesia       = "Anesthesia Consent"
	ConsentHospitalization  = "Hospitalization Consent"
	ConsentMedication       = "Medication Consent"
)

// ConsentForm records an owner's signed consent for a procedure, with an
// optional attachment (scanned signature or PDF).
type ConsentForm struct {
	BaseModel
	PatientID   string        `gorm:"size:36;index;not null" json:"patientId"`
	ConsentType string        `gorm:"size:100;not null" json:"consentType"`
	SignerName  string        `gorm:"size:200;not null" json:"signerName"`
	Notes       string        `gorm:"type:text" json:"notes"`
	ValidUntil  time.Time     `json:"validUntil"`
	Status      ConsentStatus `gorm:"size:20;default:'Draft'" json:"status"`
	FilePath    string        `gorm:"size:500" json:"filePath"`

	Patient Patient `gorm:"foreignKey:PatientID" json:"-"`
}
