package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"vetclinic-server/internal/models"
	"vetclinic-server/internal/utils"
)

// ErrorLogHandler exposes the persisted error log to administrators.
type ErrorLogHandler struct {
	DB *gorm.DB
}

// NewErrorLogHandler creates a new ErrorLogHandler.
func NewErrorLogHandler(db *gorm.DB) *ErrorLogHandler {
	return &ErrorLogHandler{DB: db}
}

// ListErrorLogs returns recent error log rows, newest first. The limit
// defaults to 200.
func (h *ErrorLogHandler) ListErrorLogs(c *gin.Context) {
	limit := 200
	if raw := c.Query("limit"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 {
			limit = v
		}
	}

	var logs []models.ErrorLog
	if err := h.DB.Order("timestamp desc").Limit(limit).Find(&logs).Error; err != nil {
		utils.InternalServerError(c, "Failed to fetch error logs: "+err.Error())
		return
	}
	utils.Success(c, "Error logs fetched", logs)
}

// ClearErrorLogs deletes all persisted error log rows.
func (h *ErrorLogHandler) ClearErrorLogs(c *gin.Context) {
	if err := h.DB.Session(&gorm.Session{AllowGlobalUpdate: true}).
		Delete(&models.ErrorLog{}).Error; err != nil {
		utils.InternalServerError(c, "Failed to clear error logs: "+err.Error())
		return
	}
	utils.Success(c, "Error logs cleared", nil)
}
