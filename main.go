package main

import (
	"context"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/branch-resolver/app/config"
	"github.com/branch-resolver/app/controllers"
	"github.com/branch-resolver/app/services"
	"github.com/branch-resolver/internal/external"
	"github.com/branch-resolver/internal/matcher"
	"github.com/branch-resolver/internal/search"
	"github.com/branch-resolver/routes"
	"github.com/gin-gonic/gin"
	"github.com/spf13/viper"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

func main() {
	// 1. Load configuration
	loadConfig()

	// 2. Khởi tạo logger
	logger := initLogger()
	defer logger.Sync()

	logger.Info("Starting Branch Resolver Service")

	// 3. Kết nối MongoDB
	mongoDB := initMongoDB(logger)
	defer func() {
		if err := mongoDB.Client().Disconnect(context.Background()); err != nil {
			logger.Error("Error disconnecting MongoDB", zap.Error(err))
		}
	}()

	// 4. Khởi tạo Meilisearch indexer cho admin search (optional)
	branchIndexer := initBranchIndexer(logger)

	// 5. Load tuning config cho matcher (dùng defaults nếu thiếu file)
	if err := config.Load(viper.GetString("resolver.config_path")); err != nil {
		logger.Warn("Cannot read resolver config, using defaults", zap.Error(err))
		config.C = config.Defaults()
	}

	// 6. Khởi tạo alias table và local matcher
	aliasTable, err := matcher.DefaultAliasTable()
	if err != nil {
		logger.Fatal("Failed to load geo alias table", zap.Error(err))
	}
	logger.Info("Geo alias table loaded", zap.Int("entries", aliasTable.Len()))

	weights := matcher.Weights{
		Alias:          config.C.Scoring.AliasWeight,
		Token:          config.C.Scoring.TokenWeight,
		ConfusingToken: config.C.Scoring.ConfusingTokenWeight,
		Bigram:         config.C.Scoring.BigramWeight,
	}
	gate := matcher.GatePolicy{
		AliasScoreFloor: config.C.Gate.AliasScoreFloor,
		PlainScoreFloor: config.C.Gate.PlainScoreFloor,
		MinMatchRatio:   config.C.Gate.MinMatchRatio,
	}
	localMatcher := matcher.NewLocalMatcherWithPolicy(aliasTable, weights, gate, logger)

	// 7. Khởi tạo Gemini fallback nếu có API key
	var fallback services.FallbackResolver
	if apiKey := os.Getenv("GEMINI_API_KEY"); apiKey != "" {
		fallback = external.NewGeminiResolver(external.GeminiConfig{
			APIKey:  apiKey,
			Model:   config.C.Fallback.Model,
			Timeout: config.FallbackTimeout(),
		}, logger)
		logger.Info("Gemini fallback enabled", zap.String("model", config.C.Fallback.Model))
	} else {
		logger.Warn("GEMINI_API_KEY not set, AI fallback disabled")
	}

	// 8. Khởi tạo cache services (Redis L1 + MongoDB L2)
	redisURL := getEnv("REDIS_URL", "redis://localhost:6379")
	redisCache, err := services.NewRedisCacheService(redisURL, logger)
	if err != nil {
		logger.Fatal("Failed to initialize Redis cache", zap.Error(err))
	}

	l1Size := getEnvInt("L1_CACHE_SIZE", 10000)
	mongoCache, err := services.NewMongoCacheService(mongoDB, l1Size, logger)
	if err != nil {
		logger.Fatal("Failed to initialize MongoDB cache", zap.Error(err))
	}

	// Hybrid cache service (Redis L1 + MongoDB L2)
	cacheService := services.NewHybridCacheService(redisCache, mongoCache, logger)

	// 9. Khởi tạo services
	catalogService := services.NewCatalogService(mongoDB, branchIndexer, logger)
	resolverService := services.NewResolverService(localMatcher, fallback, logger)

	// 10. Gắn catalog version cho cache và warm up từ MongoDB
	if version, err := catalogService.CatalogVersion(context.Background()); err == nil {
		mongoCache.SetCatalogVersion(version)
	} else {
		logger.Warn("Cannot read catalog version", zap.Error(err))
	}
	if err := mongoCache.WarmUp(context.Background(), l1Size/2); err != nil {
		logger.Warn("Failed to warm up cache", zap.Error(err))
	}

	// 11. Khởi tạo controllers
	resolveTimeout := time.Duration(getEnvInt("RESOLVE_TIMEOUT_MS", 30000)) * time.Millisecond
	resolveController := controllers.NewResolveController(resolverService, catalogService, cacheService, resolveTimeout, logger)
	branchController := controllers.NewBranchController(catalogService, cacheService, aliasTable, logger)

	// 12. Khởi tạo Gin router
	router := gin.Default()

	// 13. Thiết lập routes
	routes.SetupAllRoutes(router, resolveController, branchController)

	// 14. Khởi động server
	port := getEnv("APP_PORT", "8080")
	logger.Info("Branch Resolver Service starting", zap.String("port", port))

	if err := router.Run(":" + port); err != nil {
		logger.Fatal("Failed to start server", zap.Error(err))
	}
}

// loadConfig load configuration từ file và env vars
func loadConfig() {
	viper.SetConfigName("app")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./config")
	viper.AddConfigPath(".")

	// Set defaults
	viper.SetDefault("app.port", "8080")
	viper.SetDefault("app.env", "development")
	viper.SetDefault("meilisearch.url", "http://meili:7700")
	viper.SetDefault("meilisearch.master_key", "")
	viper.SetDefault("mongo.url", "mongodb://localhost:27017/branch_resolver")
	viper.SetDefault("cache.l1_size", 10000)
	viper.SetDefault("resolver.config_path", "config/resolver.yaml")

	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		log.Printf("Warning: Cannot read config file: %v", err)
	}
}

// initLogger khởi tạo structured logger
func initLogger() *zap.Logger {
	env := getEnv("APP_ENV", "development")

	var cfg zap.Config
	if env == "production" {
		cfg = zap.NewProductionConfig()
	} else {
		cfg = zap.NewDevelopmentConfig()
	}

	logger, err := cfg.Build()
	if err != nil {
		log.Fatal("Cannot initialize logger:", err)
	}

	return logger
}

// initMongoDB khởi tạo kết nối MongoDB
func initMongoDB(logger *zap.Logger) *mongo.Database {
	mongoURL := getEnv("MONGO_URL", "mongodb://localhost:27017/branch_resolver")

	client, err := mongo.Connect(context.Background(), options.Client().ApplyURI(mongoURL))
	if err != nil {
		logger.Fatal("Failed to connect to MongoDB", zap.Error(err))
	}

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := client.Ping(ctx, nil); err != nil {
		logger.Fatal("Failed to ping MongoDB", zap.Error(err))
	}

	clientOpts := options.Client().ApplyURI(mongoURL)
	dbName := "branch_resolver"
	if clientOpts.Auth != nil && clientOpts.Auth.AuthSource != "" {
		dbName = clientOpts.Auth.AuthSource
	}

	db := client.Database(dbName)
	logger.Info("Connected to MongoDB", zap.String("database", dbName))

	return db
}

// initBranchIndexer khởi tạo Meilisearch indexer, trả về nil nếu không kết nối được
func initBranchIndexer(logger *zap.Logger) *search.BranchIndexer {
	meiliURL := viper.GetString("meilisearch.url")
	meiliKey := viper.GetString("meilisearch.master_key")

	client := search.NewClientWrapper(meiliURL, meiliKey)
	indexer := search.NewBranchIndexer(client, logger)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := indexer.EnsureIndex(ctx); err != nil {
		logger.Warn("Meilisearch unavailable, admin search disabled", zap.Error(err))
		return nil
	}

	logger.Info("Meilisearch branch index ready", zap.String("host", meiliURL))
	return indexer
}

// getEnv lấy environment variable với default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt lấy environment variable as int với default value
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}
