package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"clinic-scheduling-server/internal/audit"
	"clinic-scheduling-server/internal/config"
	"clinic-scheduling-server/internal/handlers"
	"clinic-scheduling-server/internal/middleware"
	"clinic-scheduling-server/internal/models"
	"clinic-scheduling-server/internal/repository"
	"clinic-scheduling-server/internal/scheduling"
)

// SetupRoutes wires the persistence layer into the scheduling core and
// configures the application routes.
func SetupRoutes(router *gin.Engine, db *gorm.DB, cfg *config.Config) {
	trail := audit.NewTrail(db)
	scheduler := scheduling.NewScheduler(scheduling.Collaborators{
		Users:        repository.NewUserDirectory(db),
		Appointments: repository.NewAppointmentStore(db),
		Availability: repository.NewAvailabilityStore(db),
		Audit:        trail,
	})

	authHandler := handlers.NewAuthHandler(db, cfg)
	userHandler := handlers.NewUserHandler(db)
	appointmentHandler := handlers.NewAppointmentHandler(scheduler, cfg)
	availabilityHandler := handlers.NewAvailabilityHandler(scheduler.Calendar)
	auditHandler := handlers.NewAuditHandler(trail)

	// Public routes (no authentication required)
	public := router.Group("/api/v1")
	{
		authRoutes := public.Group("/auth")
		{
			authRoutes.POST("/register", authHandler.Register)
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
		}

		// User management routes
		userRoutes := private.Group("/users")
		{
			// Accessible by all authenticated users, for booking.
			userRoutes.GET("/doctors", userHandler.GetDoctors)

			userRoutes.GET("/patients",
				middleware.RoleAuthMiddleware(models.RoleDoctor, models.RoleAdmin),
				userHandler.GetPatients)

			adminRoutes := userRoutes.Group("")
			adminRoutes.Use(middleware.RoleAuthMiddleware(models.RoleAdmin))
			{
				adminRoutes.POST("", userHandler.CreateUser)
				adminRoutes.GET("", userHandler.GetUsers)
				adminRoutes.GET("/:id", userHandler.GetUserByID)
				adminRoutes.PUT("/:id", userHandler.UpdateUser)
				adminRoutes.DELETE("/:id", userHandler.DeleteUser)
				adminRoutes.PATCH("/:id/activate", userHandler.SetUserActive(true))
				adminRoutes.PATCH("/:id/deactivate", userHandler.SetUserActive(false))
			}
		}

		// Availability calendar routes
		availabilityRoutes := private.Group("/availability")
		{
			// Window management is doctor/admin only; ownership is
			// enforced in the handler and the scheduling core.
			manage := availabilityRoutes.Group("")
			manage.Use(middleware.RoleAuthMiddleware(models.RoleDoctor, models.RoleAdmin))
			{
				manage.POST("", availabilityHandler.SetAvailability)
				manage.PUT("/:id", availabilityHandler.UpdateAvailability)
				manage.DELETE("/:id", availabilityHandler.DeleteAvailability)
				manage.POST("/unavailable", availabilityHandler.MarkUnavailable)
			}

			// Read side is open to any authenticated user.
			availabilityRoutes.GET("/doctor/:doctorId", availabilityHandler.GetDoctorAvailability)
			availabilityRoutes.GET("/doctor/:doctorId/next-slot", availabilityHandler.GetNextAvailableSlot)
			availabilityRoutes.GET("/doctor/:doctorId/statistics", availabilityHandler.GetAvailabilityStatistics)
			availabilityRoutes.GET("/doctors", availabilityHandler.GetAvailableDoctors)
		}

		// Appointment routes
		appointmentRoutes := private.Group("/appointments")
		{
			appointmentRoutes.POST("", appointmentHandler.CreateAppointment)

			// Role-differentiated listing, handler picks doctor or
			// patient schedule.
			appointmentRoutes.GET("", appointmentHandler.GetAppointmentsForUser)

			appointmentRoutes.GET("/urgent",
				middleware.RoleAuthMiddleware(models.RoleDoctor, models.RoleAdmin),
				appointmentHandler.GetUrgentAppointments)

			appointmentRoutes.GET("/statistics",
				middleware.RoleAuthMiddleware(models.RoleAdmin),
				appointmentHandler.GetStatistics)

			// Involved-party authorization happens inside the handlers
			// and the scheduling core.
			appointmentRoutes.GET("/:id", appointmentHandler.GetAppointmentByID)
			appointmentRoutes.PATCH("/:id/reschedule", appointmentHandler.RescheduleAppointment)
			appointmentRoutes.PATCH("/:id/cancel", appointmentHandler.CancelAppointment)
			appointmentRoutes.PATCH("/:id/confirm",
				middleware.RoleAuthMiddleware(models.RoleDoctor, models.RoleAdmin),
				appointmentHandler.ConfirmAppointment)
			appointmentRoutes.PATCH("/:id/start",
				middleware.RoleAuthMiddleware(models.RoleDoctor, models.RoleAdmin),
				appointmentHandler.StartAppointment)
			appointmentRoutes.PATCH("/:id/complete",
				middleware.RoleAuthMiddleware(models.RoleDoctor, models.RoleAdmin),
				appointmentHandler.CompleteAppointment)
			appointmentRoutes.PATCH("/:id/no-show",
				middleware.RoleAuthMiddleware(models.RoleDoctor, models.RoleAdmin),
				appointmentHandler.MarkNoShow)
		}

		// Audit trail (admin only)
		private.GET("/audit-logs",
			middleware.RoleAuthMiddleware(models.RoleAdmin),
			auditHandler.GetAuditLogs)
	}

	// Simple health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "UP"})
	})
}
