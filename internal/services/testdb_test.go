package services

import (
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"vetclinic-server/internal/models"
)

// newTestDB opens a fresh in-memory database with the full schema.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}

	if err := models.AutoMigrate(db); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}
	if err := models.RunMigrations(db); err != nil {
		t.Fatalf("run migrations: %v", err)
	}
	return db
}

// seedPatientAndVet inserts the rows most service tests need.
func seedPatientAndVet(t *testing.T, db *gorm.DB) (patientID, vetID string) {
	t.Helper()

	patient := models.Patient{
		Name:       "Rex",
		Species:    "Dog",
		Breed:      "Labrador",
		OwnerName:  "Maria Pappas",
		OwnerEmail: "maria@example.com",
	}
	if err := db.Create(&patient).Error; err != nil {
		t.Fatalf("seed patient: %v", err)
	}

	vet := models.User{
		Username: "drklio",
		FullName: "Dr. Klio",
		Role:     models.RoleVeterinarian,
	}
	if err := vet.SetPassword("secret-pass"); err != nil {
		t.Fatalf("hash password: %v", err)
	}
	if err := db.Create(&vet).Error; err != nil {
		t.Fatalf("seed vet: %v", err)
	}
	return patient.ID, vet.ID
}
