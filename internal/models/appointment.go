package models

import (
	"time"
)

// AppointmentStatus represents the status of an appointment
type AppointmentStatus string

const (
	StatusScheduled     AppointmentStatus = "Scheduled"
	StatusToBeConfirmed AppointmentStatus = "To be Confirmed"
	StatusCompleted     AppointmentStatus = "Completed"
	StatusNoShow        AppointmentStatus = "No-show"
	StatusCanceled      AppointmentStatus = "Canceled"
)

// NotificationStatus tracks whether the pre-visit reminder email went out
type NotificationStatus string

const (
	NotificationNotSent NotificationStatus = "Not Sent"
	NotificationSent    NotificationStatus = "Sent"
)

// AppointmentType values offered by the scheduling screen
const (
	TypeGeneral      = "General"
	TypeExamination  = "Examination"
	TypeConsultation = "Consultation"
	TypeFollowUp     = "Follow-Up"
	TypeSurgery      = "Surgery"
)

// Appointment represents a scheduled visit. Times are minute-granular naive
// local time; the booked interval is [StartTime, StartTime+DurationMinutes).
type Appointment struct {
	BaseModel
	PatientID          string             `gorm:"size:36;index" json:"patientId"`
	VeterinarianID     string             `gorm:"size:36;index" json:"veterinarianId"`
	StartTime          time.Time          `json:"startTime"`
	DurationMinutes    int                `gorm:"default:30" json:"durationMinutes"`
	AppointmentType    string             `gorm:"size:50;default:'General'" json:"appointmentType"`
	Reason             string             `gorm:"size:255;not null" json:"reason"`
	Status             AppointmentStatus  `gorm:"size:20;default:'Scheduled'" json:"status"`
	NotificationStatus NotificationStatus `gorm:"size:20;default:'Not Sent'" json:"notificationStatus"`

	// Relations
	Patient      Patient `gorm:"foreignKey:PatientID" json:"-"`
	Veterinarian User    `gorm:"foreignKey:VeterinarianID" json:"-"`
}

// EndTime is the exclusive end of the booked interval.
func (a *Appointment) EndTime() time.Time {
	return a.StartTime.Add(time.Duration(a.DurationMinutes) * time.Minute)
}
