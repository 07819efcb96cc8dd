package models

// Patient represents an animal registered with the clinic, together with
// its owner's contact details.
type Patient struct {
	BaseModel
	Name         string `gorm:"size:100;not null" json:"name"`
	Species      string `gorm:"size:50;not null" json:"species"`
	Breed        string `gorm:"size:100" json:"breed"`
	AgeYears     int    `gorm:"default:0" json:"ageYears"`
	AgeMonths    int    `gorm:"default:0" json:"ageMonths"`
	OwnerName    string `gorm:"size:200;not null" json:"ownerName"`
	OwnerContact string `gorm:"size:100" json:"ownerContact"`
	OwnerEmail   string `gorm:"size:255" json:"ownerEmail"`

	// Relations
	Appointments  []Appointment  `gorm:"foreignKey:PatientID" json:"-"`
	Prescriptions []Prescription `gorm:"foreignKey:PatientID" json:"-"`
	Consents      []ConsentForm  `gorm:"foreignKey:PatientID" json:"-"`
}
