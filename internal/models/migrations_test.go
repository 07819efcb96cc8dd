package models

import (
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if err := AutoMigrate(db); err != nil {
		t.Fatalf("auto migrate: %v", err)
	}
	return db
}

func TestRunMigrationsIsIdempotent(t *testing.T) {
	db := openTestDB(t)

	if err := RunMigrations(db); err != nil {
		t.Fatalf("first run: %v", err)
	}
	if err := RunMigrations(db); err != nil {
		t.Fatalf("second run: %v", err)
	}

	var count int64
	if err := db.Model(&SchemaMigration{}).Count(&count).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != int64(len(migrations)) {
		t.Errorf("applied migrations = %d, want %d", count, len(migrations))
	}
}

func TestBeforeCreateAssignsUUID(t *testing.T) {
	db := openTestDB(t)

	patient := Patient{Name: "Luna", Species: "Cat", OwnerName: "Eleni"}
	if err := db.Create(&patient).Error; err != nil {
		t.Fatalf("create: %v", err)
	}
	if patient.ID == "" {
		t.Error("expected generated UUID")
	}

	// An explicit ID is kept.
	fixed := Patient{BaseModel: BaseModel{ID: "fixed-id"}, Name: "Bo", Species: "Dog", OwnerName: "Eleni"}
	if err := db.Create(&fixed).Error; err != nil {
		t.Fatalf("create fixed: %v", err)
	}
	if fixed.ID != "fixed-id" {
		t.Errorf("ID = %q, want fixed-id", fixed.ID)
	}
}

func TestPasswordHashing(t *testing.T) {
	var user User
	if err := user.SetPassword("correct horse"); err != nil {
		t.Fatalf("set password: %v", err)
	}
	if user.Password == "correct horse" {
		t.Error("password stored in plaintext")
	}
	if !user.CheckPassword("correct horse") {
		t.Error("correct password rejected")
	}
	if user.CheckPassword("wrong") {
		t.Error("wrong password accepted")
	}
}
