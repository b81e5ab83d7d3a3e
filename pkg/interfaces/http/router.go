package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// NewRouter builds the engine's API surface
func NewRouter(handler *PlanningHandler) *gin.Engine {
	r := gin.New()
	r.Use(gin.Logger())
	r.Use(gin.Recovery())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api/v1")
	{
		plan := api.Group("/planning")
		{
			plan.POST("/generate-mrp", handler.GenerateMRP)
			plan.GET("/capacity-plan/:id", handler.CapacityPlan)
		}
	}

	return r
}
