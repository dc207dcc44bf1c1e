package routes

import (
	"github.com/gin-gonic/gin"
)

// SetupWebRoutes thiết lập web routes (nếu cần trong tương lai)
func SetupWebRoutes(router *gin.Engine) {
	// Web routes group
	web := router.Group("/")
	{
		// Home page
		web.GET("/", func(c *gin.Context) {
			c.JSON(200, gin.H{
				"message": "Branch Resolver Service",
				"version": "1.0.0",
				"docs":    "/docs",
			})
		})

		// API documentation
		web.GET("/docs", func(c *gin.Context) {
			c.JSON(200, gin.H{
				"api": "Branch Resolver API v1",
				"endpoints": map[string]string{
					"resolve":    "POST /v1/branches/resolve",
					"branches":   "GET /v1/admin/branches",
					"search":     "GET /v1/admin/branches/search",
					"duplicates": "GET /v1/admin/branches/duplicates",
					"seed":       "POST /v1/admin/branches/seed",
					"aliases":    "GET /v1/admin/aliases",
					"health":     "GET /v1/health",
				},
			})
		})

		// Status page
		web.GET("/status", func(c *gin.Context) {
			c.JSON(200, gin.H{
				"status":  "running",
				"service": "Branch Resolver",
			})
		})
	}
}
