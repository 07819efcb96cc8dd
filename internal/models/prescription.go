package models

import (
	"time"
)

// Prescription represents medication prescribed to a patient.
type Prescription struct {
	BaseModel
	PatientID    string    `gorm:"size:36;index;not null" json:"patientId"`
	Medication   string    `gorm:"size:200;not null" json:"medication"`
	Dosage       string    `gorm:"size:100" json:"dosage"`
	Instructions string    `gorm:"type:text" json:"instructions"`
	DateIssued   time.Time `json:"dateIssued"`

	Patient Patient `gorm:"foreignKey:PatientID" json:"-"`
}
