package main

import (
	"fmt"
	"log"
	"os"

	"solarlead-backend/config"
	"solarlead-backend/models"
	"solarlead-backend/routes"
	"solarlead-backend/services"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func init() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}
	config.ConnectDB()

	config.DB.AutoMigrate(
		&models.Member{},
		&models.SalesRep{},
		&models.Lead{},
		&models.RoutingRule{},
		&models.CityRoutingRule{},
		&models.RoutingLog{},
		&models.CustomFieldDefinition{},
	)
}

func main() {
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	router := services.NewLeadRouter(config.DB)
	notifier := services.NewNotifier(config.DB)
	notifier.StartScheduler()

	webhooks := services.NewWebhookClientFromEnv()
	pipeline := services.NewSubmissionPipeline(
		&services.GormLeadStore{DB: config.DB},
		router,
		services.NewSugarClientFromEnv(),
		webhooks,
		notifier,
	)

	r := routes.SetupRouter(pipeline, webhooks)
	printRoutes(r)
	r.Run(":" + port)
}

func printRoutes(r *gin.Engine) {
	routes := r.Routes()
	for _, route := range routes {
		fmt.Printf("%-6s %s\n", route.Method, route.Path)
	}
}
