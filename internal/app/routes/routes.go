package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/acadmx/curricula/internal/app/controllers"
)

// SetupRouter configures all application routes. The service surface is
// deliberately small: plan ingestion and its result, nothing else.
func SetupRouter(
	router *gin.Engine,
	planController *controllers.PlanController,
) {
	// API version group
	v1 := router.Group("/api/v1")

	plans := v1.Group("/plans")
	{
		// Upload a plan document, extract it, and ingest the result
		plans.POST("/import", planController.ImportPlan)
		// Ingest an already-extracted payload
		plans.POST("/ingest", planController.IngestPayload)
	}
}
