package routes

import (
	"os"

	"solarlead-backend/config"
	"solarlead-backend/controllers"
	"solarlead-backend/services"
	"solarlead-backend/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func SetupRouter(pipeline *services.SubmissionPipeline, webhooks *services.WebhookClient) *gin.Engine {
	r := gin.Default()

	allowedOrigins := []string{"http://localhost:3000"}
	if origin := os.Getenv("FRONTEND_ORIGIN"); origin != "" {
		allowedOrigins = append(allowedOrigins, origin)
	}

	r.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
	}))

	r.Use(config.PerformanceLogger())

	leadController := &controllers.LeadController{Pipeline: pipeline}
	appointmentController := &controllers.AppointmentController{Webhooks: webhooks}

	auth := r.Group("/auth")
	{
		auth.POST("/login", controllers.Login)

		auth.Use(utils.AuthMiddleware())
		auth.GET("/me", controllers.Me)
	}

	// Public endpoints: the intake form and the agent confirmation page
	// have no login.
	r.POST("/api/leads/submit", leadController.SubmitLead)
	r.POST("/api/appointments/confirm", appointmentController.ConfirmAppointment)

	api := r.Group("/api")
	api.Use(utils.AuthMiddleware())
	{
		// Lead routes
		leads := api.Group("/leads")
		{
			leads.GET("", controllers.GetLeads)
			leads.GET("/export", controllers.ExportLeads)
			leads.GET("/:id", leadController.GetLead)
			leads.PUT("/:id/status", leadController.UpdateLeadStatus)
		}

		// Dashboard analytics
		api.GET("/dashboard", controllers.GetDashboardAnalytics)

		// Custom field routes
		customFields := api.Group("/custom-fields")
		{
			customFields.GET("", controllers.GetCustomFields)
			customFields.POST("", controllers.AddCustomField)
			customFields.DELETE("/:id", controllers.DeleteCustomField)
		}

		// Member management, admin only
		members := api.Group("/members", utils.AdminRequired())
		{
			members.GET("", controllers.GetMembers)
			members.POST("", controllers.AddMember)
			members.PUT("/:id", controllers.UpdateMember)
			members.DELETE("/:id", controllers.DeleteMember)
		}
	}

	return r
}
