package routes

import (
	"github.com/branch-resolver/app/controllers"
	"github.com/gin-gonic/gin"
)

// SetupAPIRoutes thiết lập tất cả API routes
func SetupAPIRoutes(router *gin.Engine, resolveController *controllers.ResolveController, branchController *controllers.BranchController) {
	// API v1 group
	v1 := router.Group("/v1")
	{
		// Branch resolve routes
		branches := v1.Group("/branches")
		{
			branches.POST("/resolve", resolveController.ResolveBranch)
		}

		// Admin routes
		admin := v1.Group("/admin")
		{
			admin.GET("/branches", branchController.ListBranches)
			admin.POST("/branches", branchController.CreateBranch)
			admin.GET("/branches/search", branchController.SearchBranches)
			admin.GET("/branches/duplicates", branchController.SuggestDuplicates)
			admin.POST("/branches/seed", branchController.SeedBranches)
			admin.GET("/branches/:id", branchController.GetBranch)
			admin.PUT("/branches/:id", branchController.UpdateBranch)
			admin.DELETE("/branches/:id", branchController.DeleteBranch)
			admin.POST("/branches/:id/active", branchController.SetActive)
			admin.POST("/branches/:id/holiday", branchController.SetHolidaySchedule)
			admin.GET("/aliases", branchController.GetAliases)
			admin.GET("/cache/stats", branchController.GetCacheStats)
			admin.POST("/cache/clear", branchController.ClearCache)
		}

		// Health check route
		v1.GET("/health", resolveController.HealthCheck)
	}
}

// SetupHealthRoutes thiết lập health check routes
func SetupHealthRoutes(router *gin.Engine, resolveController *controllers.ResolveController) {
	// Root health check
	router.GET("/health", resolveController.HealthCheck)

	// Readiness check
	router.GET("/ready", resolveController.HealthCheck)

	// Liveness check
	router.GET("/live", resolveController.HealthCheck)
}

// SetupAllRoutes thiết lập tất cả routes
func SetupAllRoutes(router *gin.Engine, resolveController *controllers.ResolveController, branchController *controllers.BranchController) {
	// Thiết lập middleware
	setupMiddleware(router)

	// Thiết lập các loại routes
	SetupWebRoutes(router)
	SetupHealthRoutes(router, resolveController)
	SetupAPIRoutes(router, resolveController, branchController)

	// 404 handler
	router.NoRoute(func(c *gin.Context) {
		c.JSON(404, gin.H{
			"error":  "Route not found",
			"path":   c.Request.URL.Path,
			"method": c.Request.Method,
		})
	})
}

// setupMiddleware thiết lập middleware cho router
func setupMiddleware(router *gin.Engine) {
	// Recovery middleware
	router.Use(gin.Recovery())

	// Logger middleware
	router.Use(gin.Logger())

	// CORS middleware (nếu cần)
	// router.Use(cors.Default())
}
