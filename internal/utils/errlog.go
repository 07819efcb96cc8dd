package utils

import (
	"log"
	"os"
	"sync"
	"time"

	"gorm.io/gorm"

	"vetclinic-server/internal/models"
)

var (
	errlogMu   sync.Mutex
	errlogDB   *gorm.DB
	errlogFile *log.Logger
)

// SetupErrorLog wires the shared error logger to a log file and the
// error_logs table. Safe to call once at startup before any handler runs.
func SetupErrorLog(db *gorm.DB, filePath string) error {
	f, err := os.OpenFile(filePath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}

	errlogMu.Lock()
	defer errlogMu.Unlock()
	errlogDB = db
	errlogFile = log.New(f, "", log.LstdFlags)
	return nil
}

// LogError writes a timestamped message to both the log file and the
// error_logs table. Logging failures are swallowed: diagnostics must never
// take down the action that produced them.
func LogError(message string) {
	errlogMu.Lock()
	db := errlogDB
	file := errlogFile
	errlogMu.Unlock()

	if file != nil {
		file.Printf("ERROR - %s", message)
	} else {
		log.Printf("ERROR - %s", message)
	}

	if db != nil {
		db.Create(&models.ErrorLog{Timestamp: time.Now(), Message: message})
	}
}
