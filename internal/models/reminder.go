package models

import (
	"time"
)

// ReminderStatus represents the lifecycle of a reminder
type ReminderStatus string

const (
	ReminderPending   ReminderStatus = "Pending"
	ReminderSent      ReminderStatus = "Sent"
	ReminderTriggered ReminderStatus = "Triggered"
)

// Reminder is a scheduled future email notification tied to an appointment.
type Reminder struct {
	BaseModel
	AppointmentID string         `gorm:"size:36;index" json:"appointmentId"`
	RemindAt      time.Time      `json:"remindAt"`
	Reason        string         `gorm:"size:255" json:"reason"`
	Status        ReminderStatus `gorm:"size:20;default:'Pending'" json:"status"`

	Appointment Appointment `gorm:"foreignKey:AppointmentID" json:"-"`
}
