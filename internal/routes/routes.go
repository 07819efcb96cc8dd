package routes

import (
	"vetclinic-server/internal/config"
	"vetclinic-server/internal/handlers"
	"vetclinic-server/internal/middleware"
	"vetclinic-server/internal/models"
	"vetclinic-server/internal/notifier"
	"vetclinic-server/internal/services"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// SetupRoutes configures the application routes.
func SetupRoutes(router *gin.Engine, db *gorm.DB, cfg *config.Config, n *notifier.Notifier) {
	// Initialize services
	scheduling := services.NewSchedulingService(db)
	billing := services.NewBillingService(db)
	inventory := services.NewInventoryService(db)
	reminders := services.NewReminderService(db)
	reports := services.NewReportService(db)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(db, cfg)
	userHandler := handlers.NewUserHandler(db)
	patientHandler := handlers.NewPatientHandler(db)
	appointmentHandler := handlers.NewAppointmentHandler(db, scheduling)
	invoiceHandler := handlers.NewInvoiceHandler(db, billing)
	inventoryHandler := handlers.NewInventoryHandler(db, inventory, n, cfg)
	prescriptionHandler := handlers.NewPrescriptionHandler(db)
	medicalRecordHandler := handlers.NewMedicalRecordHandler(db)
	consentHandler := handlers.NewConsentHandler(db, scheduling)
	reminderHandler := handlers.NewReminderHandler(db, reminders)
	reportHandler := handlers.NewReportHandler(reports)
	errorLogHandler := handlers.NewErrorLogHandler(db)

	// Public routes (no authentication required)
	public := router.Group("/api/v1")
	{
		authRoutes := public.Group("/auth")
		{
			authRoutes.POST("/login", authHandler.Login)
			authRoutes.POST("/refresh-token", authHandler.RefreshToken)
		}
	}

	// Authenticated routes
	private := router.Group("/api/v1")
	private.Use(middleware.AuthMiddleware(cfg))
	{
		authRoutesPrivate := private.Group("/auth")
		{
			authRoutesPrivate.POST("/logout", authHandler.Logout)
			authRoutesPrivate.GET("/profile", authHandler.GetProfile)
			authRoutesPrivate.PUT("/password", authHandler.ChangePassword)
		}

		// Staff management (admin-only except the veterinarian dropdown)
		userRoutes := private.Group("/users")
		{
			userRoutes.GET("/veterinarians", userHandler.ListVeterinarians)

			adminRoutes := userRoutes.Group("")
			adminRoutes.Use(middleware.RoleAuthMiddleware(models.RoleAdmin))
			{
				adminRoutes.GET("", userHandler.ListUsers)
				adminRoutes.POST("", userHandler.CreateUser)
				adminRoutes.PUT("/:id", userHandler.UpdateUser)
				adminRoutes.DELETE("/:id", userHandler.DeleteUser)
			}
		}

		// Patient registry
		patientRoutes := private.Group("/patients")
		{
			patientRoutes.GET("", patientHandler.ListPatients)
			patientRoutes.GET("/export", patientHandler.ExportPatientsCSV)
			patientRoutes.GET("/:id", patientHandler.GetPatient)
			patientRoutes.POST("", patientHandler.CreatePatient)
			patientRoutes.PUT("/:id", patientHandler.UpdatePatient)
			patientRoutes.DELETE("/:id", middleware.RoleAuthMiddleware(models.RoleAdmin), patientHandler.DeletePatient)
		}

		// Scheduling
		appointmentRoutes := private.Group("/appointments")
		{
			appointmentRoutes.POST("", appointmentHandler.CreateAppointments)
			appointmentRoutes.GET("", appointmentHandler.ListAppointments)
			appointmentRoutes.GET("/export", appointmentHandler.ExportAppointmentsCSV)
			appointmentRoutes.GET("/:id", appointmentHandler.GetAppointment)
			appointmentRoutes.PUT("/:id", appointmentHandler.UpdateAppointment)
			appointmentRoutes.PATCH("/:id/complete", appointmentHandler.CompleteAppointment)
			appointmentRoutes.PATCH("/:id/cancel", appointmentHandler.CancelAppointment)
			appointmentRoutes.PATCH("/:id/no-show", appointmentHandler.MarkNoShow)
			appointmentRoutes.POST("/:id/reminders", appointmentHandler.SetReminder)
		}

		// Billing
		invoiceRoutes := private.Group("/invoices")
		{
			invoiceRoutes.POST("", invoiceHandler.CreateInvoice)
			invoiceRoutes.GET("", invoiceHandler.ListInvoices)
			invoiceRoutes.GET("/export", invoiceHandler.ExportInvoicesCSV)
			invoiceRoutes.GET("/:id", invoiceHandler.GetInvoice)
			invoiceRoutes.PATCH("/:id/rates", invoiceHandler.SetRates)
			invoiceRoutes.POST("/:id/items", invoiceHandler.AddItem)
			invoiceRoutes.PUT("/items/:itemId", invoiceHandler.UpdateItem)
			invoiceRoutes.DELETE("/items/:itemId", invoiceHandler.DeleteItem)
			invoiceRoutes.POST("/:id/payments", invoiceHandler.AddPayment)
			invoiceRoutes.GET("/:id/payments", invoiceHandler.ListPayments)
			invoiceRoutes.DELETE("/payments/:paymentId", middleware.RoleAuthMiddleware(models.RoleAdmin), invoiceHandler.DeletePayment)
		}

		// Inventory
		inventoryRoutes := private.Group("/inventory")
		{
			inventoryRoutes.GET("", inventoryHandler.ListItems)
			inventoryRoutes.GET("/low-stock", inventoryHandler.LowStock)
			inventoryRoutes.GET("/low-stock/export", inventoryHandler.ExportLowStockCSV)
			inventoryRoutes.GET("/:id", inventoryHandler.GetItem)
			inventoryRoutes.POST("", inventoryHandler.CreateItem)
			inventoryRoutes.PUT("/:id", inventoryHandler.UpdateItem)
			inventoryRoutes.DELETE("/:id", middleware.RoleAuthMiddleware(models.RoleAdmin), inventoryHandler.DeleteItem)
			inventoryRoutes.POST("/:id/movements", inventoryHandler.AdjustStock)
			inventoryRoutes.GET("/:id/movements", inventoryHandler.ListMovements)
		}

		// Prescriptions (written by veterinarians)
		prescriptionRoutes := private.Group("/prescriptions")
		{
			prescriptionRoutes.GET("", prescriptionHandler.ListPrescriptions)
			prescriptionRoutes.GET("/:id", prescriptionHandler.GetPrescription)
			prescriptionRoutes.POST("", middleware.RoleAuthMiddleware(models.RoleVeterinarian, models.RoleAdmin), prescriptionHandler.CreatePrescription)
			prescriptionRoutes.PUT("/:id", middleware.RoleAuthMiddleware(models.RoleVeterinarian, models.RoleAdmin), prescriptionHandler.UpdatePrescription)
			prescriptionRoutes.DELETE("/:id", middleware.RoleAuthMiddleware(models.RoleVeterinarian, models.RoleAdmin), prescriptionHandler.DeletePrescription)
		}

		// Medical records
		medicalRecordRoutes := private.Group("/medical-records")
		{
			medicalRecordRoutes.GET("", medicalRecordHandler.ListMedicalRecords)
			medicalRecordRoutes.GET("/:id", medicalRecordHandler.GetMedicalRecord)
			medicalRecordRoutes.POST("", middleware.RoleAuthMiddleware(models.RoleVeterinarian, models.RoleAdmin), medicalRecordHandler.CreateMedicalRecord)
			medicalRecordRoutes.PUT("/:id", middleware.RoleAuthMiddleware(models.RoleVeterinarian, models.RoleAdmin), medicalRecordHandler.UpdateMedicalRecord)
			medicalRecordRoutes.DELETE("/:id", middleware.RoleAuthMiddleware(models.RoleVeterinarian, models.RoleAdmin), medicalRecordHandler.DeleteMedicalRecord)

			attachmentRoutes := medicalRecordRoutes.Group("/:id/attachments")
			attachmentRoutes.Use(middleware.RoleAuthMiddleware(models.RoleVeterinarian, models.RoleAdmin))
			{
				attachmentRoutes.POST("", medicalRecordHandler.UploadAttachment)
			}

			// Attachment IDs are globally unique, so these sit outside the /:id group.
			private.GET("/medical-records/attachments/:attachmentId", medicalRecordHandler.GetAttachment)
			private.DELETE("/medical-records/attachments/:attachmentId", middleware.RoleAuthMiddleware(models.RoleVeterinarian, models.RoleAdmin), medicalRecordHandler.DeleteAttachment)
		}

		// Consent forms
		consentRoutes := private.Group("/consents")
		{
			consentRoutes.POST("", consentHandler.CreateConsent)
			consentRoutes.GET("", consentHandler.ListConsents)
			consentRoutes.GET("/:id", consentHandler.GetConsent)
			consentRoutes.PATCH("/:id/sign", consentHandler.SignConsent)
			consentRoutes.PATCH("/:id/void", consentHandler.VoidConsent)
		}

		// Reminders
		reminderRoutes := private.Group("/reminders")
		{
			reminderRoutes.GET("", reminderHandler.ListReminders)
			reminderRoutes.GET("/overdue-invoices", reminderHandler.OverdueInvoices)
			reminderRoutes.PATCH("/:id/triggered", reminderHandler.MarkTriggered)
			reminderRoutes.DELETE("/:id", reminderHandler.DeleteReminder)
		}

		// Reports
		reportRoutes := private.Group("/reports")
		{
			reportRoutes.GET("/revenue-by-month", reportHandler.RevenueByMonth)
			reportRoutes.GET("/revenue-by-month/export", reportHandler.ExportRevenueCSV)
			reportRoutes.GET("/unpaid-invoices", reportHandler.UnpaidInvoices)
			reportRoutes.GET("/unpaid-invoices/export", reportHandler.ExportUnpaidCSV)
			reportRoutes.GET("/appointments-by-species", reportHandler.AppointmentsBySpecies)
			reportRoutes.GET("/appointments-by-species/export", reportHandler.ExportSpeciesCSV)
		}

		// Error log (admin-only)
		errorLogRoutes := private.Group("/error-logs")
		errorLogRoutes.Use(middleware.RoleAuthMiddleware(models.RoleAdmin))
		{
			errorLogRoutes.GET("", errorLogHandler.ListErrorLogs)
			errorLogRoutes.DELETE("", errorLogHandler.ClearErrorLogs)
		}
	}

	// Simple health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "UP"})
	})
}
