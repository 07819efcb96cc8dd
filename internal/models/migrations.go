package models

import (
	"time"

	"gorm.io/gorm"
)

// SchemaMigration records an applied migration so each one runs exactly once.
type SchemaMigration struct {
	Version   int `gorm:"primaryKey;autoIncrement:false"`
	Name      string
	AppliedAt time.Time
}

type migration struct {
	Version int
	Name    string
	Run     func(db *gorm.DB) error
}

// Ordered list of schema changes that postdate the initial release. Columns
// that AutoMigrate already created are skipped, so re-running is harmless.
var migrations = []migration{
	{
		Version: 1,
		Name:    "appointments_duration_minutes",
		Run: func(db *gorm.DB) error {
			return addColumnIfMissing(db, &Appointment{}, "DurationMinutes")
		},
	},
	{
		Version: 2,
		Name:    "invoices_remaining_balance",
		Run: func(db *gorm.DB) error {
			return addColumnIfMissing(db, &Invoice{}, "RemainingBalance")
		},
	},
	{
		Version: 3,
		Name:    "invoice_items_vat_discount",
		Run: func(db *gorm.DB) error {
			if err := addColumnIfMissing(db, &InvoiceItem{}, "VATPct"); err != nil {
				return err
			}
			return addColumnIfMissing(db, &InvoiceItem{}, "DiscountPct")
		},
	},
	{
		Version: 4,
		Name:    "consent_forms_status",
		Run: func(db *gorm.DB) error {
			return addColumnIfMissing(db, &ConsentForm{}, "Status")
		},
	},
}

// RunMigrations applies every unapplied migration in order and records it
// in schema_migrations.
func RunMigrations(db *gorm.DB) error {
	if err := db.AutoMigrate(&SchemaMigration{}); err != nil {
		return err
	}

	for _, m := range migrations {
		var applied int64
		if err := db.Model(&SchemaMigration{}).Where("version = ?", m.Version).Count(&applied).Error; err != nil {
			return err
		}
		if applied > 0 {
			continue
		}

		err := db.Transaction(func(tx *gorm.DB) error {
			if err := m.Run(tx); err != nil {
				return err
			}
			return tx.Create(&SchemaMigration{
				Version:   m.Version,
				Name:      m.Name,
				AppliedAt: time.Now(),
			}).Error
		})
		if err != nil {
			return err
		}
	}

	return nil
}

func addColumnIfMissing(db *gorm.DB, model interface{}, field string) error {
	if db.Migrator().HasColumn(model, field) {
		return nil
	}
	return db.Migrator().AddColumn(model, field)
}
