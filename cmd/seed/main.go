package main

import (
	"context"
	_ "embed"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/branch-resolver/app/services"
	"github.com/branch-resolver/internal/search"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

//go:embed data/branches.tsv
var defaultSeedData string

func main() {
	var (
		mongoURI = flag.String("mongo", envOr("MONGO_URI", "mongodb://localhost:27017"), "MongoDB URI")
		dbName   = flag.String("db", "branch_resolver", "tên database")
		meiliURL = flag.String("meili", envOr("MEILI_URL", ""), "Meilisearch URL (bỏ trống để skip index)")
		meiliKey = flag.String("meili-key", envOr("MEILI_MASTER_KEY", ""), "Meilisearch master key")
		seedFile = flag.String("file", "", "file TSV (mặc định dùng data embedded)")
	)
	flag.Parse()

	logger, _ := zap.NewDevelopment()
	defer logger.Sync()

	raw := defaultSeedData
	if *seedFile != "" {
		b, err := os.ReadFile(*seedFile)
		if err != nil {
			log.Fatal("Không đọc được file seed:", err)
		}
		raw = string(b)
	}

	branches := services.ParseSeedBranches(raw)
	if len(branches) == 0 {
		log.Fatal("Không parse được kho nào từ dữ liệu seed")
	}
	fmt.Printf("Đã parse %d kho từ dữ liệu seed\n", len(branches))

	// MongoDB connection
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	mongoClient, err := mongo.Connect(ctx, options.Client().ApplyURI(*mongoURI))
	if err != nil {
		log.Fatal("Không thể kết nối MongoDB:", err)
	}
	defer mongoClient.Disconnect(context.Background())

	if err := mongoClient.Ping(ctx, nil); err != nil {
		log.Fatal("Không ping được MongoDB:", err)
	}

	// Meilisearch indexer (optional)
	var indexer *search.BranchIndexer
	if *meiliURL != "" {
		client := search.NewClientWrapper(*meiliURL, *meiliKey)
		indexer = search.NewBranchIndexer(client, logger)
		if err := indexer.EnsureIndex(ctx); err != nil {
			log.Fatal("Không cấu hình được Meilisearch index:", err)
		}
		fmt.Println("Meilisearch index đã sẵn sàng")
	}

	catalog := services.NewCatalogService(mongoClient.Database(*dbName), indexer, logger)

	fmt.Println("Đang seed catalog...")
	if err := catalog.SeedBranches(ctx, branches); err != nil {
		log.Fatal("Lỗi seed catalog:", err)
	}

	version, err := catalog.CatalogVersion(ctx)
	if err != nil {
		log.Fatal("Lỗi đọc catalog version:", err)
	}

	fmt.Printf("Seed thành công! %d kho, catalog version %s\n", len(branches), version)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
