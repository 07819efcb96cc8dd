package models

import (
	"time"
)

// MedicalRecordType represents the type of medical record
type MedicalRecordType string

const (
	RecordTypeConsultation  MedicalRecordType = "ConsultationNote"
	RecordTypeLabResult     MedicalRecordType = "LabResult"
	RecordTypeImagingReport MedicalRecordType = "ImagingReport"
	RecordTypeVaccination   MedicalRecordType = "VaccinationRecord"
	RecordTypeSurgeryReport MedicalRecordType = "SurgeryReport"
)

// MedicalRecord represents a clinical note for a patient, optionally linked
// to the appointment it was written during.
type MedicalRecord struct {
	BaseModel
	PatientID      string            `gorm:"size:36;index" json:"patientId"`
	VeterinarianID string            `gorm:"size:36;index" json:"veterinarianId"`
	AppointmentID  string            `gorm:"size:36;index" json:"appointmentId"`
	RecordType     MedicalRecordType `gorm:"size:50" json:"recordType"`
	RecordDate     time.Time         `json:"date"`
	Title          string            `gorm:"size:255;not null" json:"title"`
	Summary        string            `gorm:"type:text" json:"summary"`
	Details        string            `gorm:"type:text" json:"details"`

	// Relations
	Patient      Patient                   `gorm:"foreignKey:PatientID" json:"-"`
	Veterinarian User                      `gorm:"foreignKey:VeterinarianID" json:"-"`
	Attachments  []MedicalRecordAttachment `gorm:"foreignKey:MedicalRecordID" json:"attachments,omitempty"`
}

// MedicalRecordAttachment represents a file attached to a medical record
type MedicalRecordAttachment struct {
	BaseModel
	MedicalRecordID string `json:"medicalRecordId" gorm:"not null;type:varchar(36)"`
	FileName        string `json:"fileName" gorm:"not null"`
	FileType        string `json:"fileType" gorm:"not null"` // MIME type
	FileData        []byte `json:"-" gorm:"not null"`
}
