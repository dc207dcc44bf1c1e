package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/branch-resolver/app/config"
	"github.com/branch-resolver/app/controllers"
	"github.com/branch-resolver/app/services"
	"github.com/branch-resolver/internal/external"
	"github.com/branch-resolver/internal/matcher"
	"github.com/branch-resolver/routes"
	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

func main() {
	// Load resolver tuning config (fallback về defaults nếu thiếu file)
	if err := config.Load("config/resolver.yaml"); err != nil {
		config.C = config.Defaults()
	}

	// Initialize logger
	logger, _ := zap.NewProduction()
	defer logger.Sync()

	logger.Info("Starting Branch Resolver Service...")

	// Initialize MongoDB connection
	mongoClient, err := initMongoDB(logger)
	if err != nil {
		logger.Fatal("Failed to connect to MongoDB", zap.Error(err))
	}
	defer func() {
		if err := mongoClient.Disconnect(context.Background()); err != nil {
			logger.Error("Failed to disconnect from MongoDB", zap.Error(err))
		}
	}()

	// Initialize matcher
	aliasTable, err := matcher.DefaultAliasTable()
	if err != nil {
		logger.Fatal("Failed to load geo alias table", zap.Error(err))
	}
	localMatcher := matcher.NewLocalMatcher(aliasTable, logger)

	// Initialize Gemini fallback nếu có API key
	var fallback services.FallbackResolver
	if apiKey := os.Getenv("GEMINI_API_KEY"); apiKey != "" {
		fallback = external.NewGeminiResolver(external.GeminiConfig{
			APIKey:  apiKey,
			Model:   config.C.Fallback.Model,
			Timeout: config.FallbackTimeout(),
		}, logger)
	}

	// Initialize cache service (MongoDB cache cho MVP, không cần Redis)
	database := mongoClient.Database("branch_resolver")
	cacheService, err := services.NewMongoCacheService(database, 1000, logger)
	if err != nil {
		logger.Fatal("Failed to create cache service", zap.Error(err))
	}

	// Initialize services (không có Meilisearch indexer cho MVP)
	catalogService := services.NewCatalogService(database, nil, logger)
	resolverService := services.NewResolverService(localMatcher, fallback, logger)

	if version, err := catalogService.CatalogVersion(context.Background()); err == nil {
		cacheService.SetCatalogVersion(version)
	}

	// Initialize controllers
	resolveController := controllers.NewResolveController(resolverService, catalogService, cacheService, 30*time.Second, logger)
	branchController := controllers.NewBranchController(catalogService, cacheService, aliasTable, logger)

	// Setup Gin router
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()

	// Setup routes
	routes.SetupAllRoutes(router, resolveController, branchController)

	// Start server
	port := getPort()
	srv := &http.Server{
		Addr:    ":" + port,
		Handler: router,
	}

	go func() {
		logger.Info("Starting HTTP server", zap.String("port", port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	// Give outstanding requests a deadline for completion
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited")
}

func initMongoDB(logger *zap.Logger) (*mongo.Client, error) {
	mongoURI := os.Getenv("MONGO_URI")
	if mongoURI == "" {
		mongoURI = "mongodb://localhost:27017"
	}

	logger.Info("Connecting to MongoDB", zap.String("uri", mongoURI))

	client, err := mongo.Connect(context.Background(), options.Client().ApplyURI(mongoURI))
	if err != nil {
		return nil, err
	}

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx, nil); err != nil {
		return nil, err
	}

	logger.Info("Successfully connected to MongoDB")
	return client, nil
}

func getPort() string {
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	return port
}
