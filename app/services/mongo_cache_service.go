package services

import (
	"context"
	"crypto/sha256"
	"fmt"
	"sync/atomic"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/branch-resolver/app/models"
)

// MongoCacheService persistent cache sử dụng MongoDB + LRU in-memory.
// Entry mang catalog version để có thể vứt bỏ hàng loạt khi catalog đổi.
type MongoCacheService struct {
	db             *mongo.Database
	collection     *mongo.Collection
	l1Cache        *lru.Cache[string, *models.MatchResult]
	catalogVersion string
	logger         *zap.Logger

	// Metrics, đọc/ghi qua sync/atomic vì Get chạy song song từ các handler
	totalHits int64
	totalMiss int64
	l1Hits    int64
	l1Miss    int64
	mongoHits int64
	mongoMiss int64
}

// NewMongoCacheService tạo mới MongoCacheService
func NewMongoCacheService(db *mongo.Database, l1Size int, logger *zap.Logger) (*MongoCacheService, error) {
	l1Cache, err := lru.New[string, *models.MatchResult](l1Size)
	if err != nil {
		return nil, fmt.Errorf("không thể tạo LRU cache: %w", err)
	}

	collection := db.Collection("resolve_cache")

	indexModels := []mongo.IndexModel{
		{
			Keys:    bson.D{bson.E{Key: "query_fingerprint", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{bson.E{Key: "catalog_version", Value: 1}},
		},
		{
			Keys: bson.D{bson.E{Key: "created_at", Value: 1}},
		},
		{
			Keys: bson.D{bson.E{Key: "last_accessed", Value: 1}},
		},
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if _, err = collection.Indexes().CreateMany(ctx, indexModels); err != nil {
		logger.Warn("Không thể tạo indexes cho resolve_cache", zap.Error(err))
	}

	return &MongoCacheService{
		db:         db,
		collection: collection,
		l1Cache:    l1Cache,
		logger:     logger,
	}, nil
}

// SetCatalogVersion gắn phiên bản catalog hiện hành cho các entry ghi sau đó
func (mcs *MongoCacheService) SetCatalogVersion(version string) {
	mcs.catalogVersion = version
}

// Get lấy kết quả tra kho từ cache (L1 -> MongoDB)
func (mcs *MongoCacheService) Get(ctx context.Context, key string) (*models.MatchResult, bool, error) {
	if result, found := mcs.l1Cache.Get(key); found {
		atomic.AddInt64(&mcs.l1Hits, 1)
		atomic.AddInt64(&mcs.totalHits, 1)
		mcs.logger.Debug("L1 cache hit", zap.String("key", key))
		return result, true, nil
	}
	atomic.AddInt64(&mcs.l1Miss, 1)

	fingerprint := mcs.generateFingerprint(key)

	var cacheEntry models.ResolveCache
	filter := bson.M{"query_fingerprint": fingerprint}

	err := mcs.collection.FindOne(ctx, filter).Decode(&cacheEntry)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			atomic.AddInt64(&mcs.mongoMiss, 1)
			atomic.AddInt64(&mcs.totalMiss, 1)
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("lỗi query MongoDB cache: %w", err)
	}

	// Entry của catalog cũ coi như miss, để tầng trên tra lại
	if mcs.catalogVersion != "" && !cacheEntry.IsValidCatalogVersion(mcs.catalogVersion) {
		atomic.AddInt64(&mcs.mongoMiss, 1)
		atomic.AddInt64(&mcs.totalMiss, 1)
		return nil, false, nil
	}

	atomic.AddInt64(&mcs.mongoHits, 1)
	atomic.AddInt64(&mcs.totalHits, 1)

	go mcs.updateAccessStats(cacheEntry.ID)

	mcs.l1Cache.Add(key, &cacheEntry.Result)

	mcs.logger.Debug("MongoDB cache hit",
		zap.String("key", key),
		zap.String("fingerprint", fingerprint))

	return &cacheEntry.Result, true, nil
}

// Set lưu kết quả tra kho vào cache (L1 + MongoDB)
func (mcs *MongoCacheService) Set(ctx context.Context, key string, result *models.MatchResult) error {
	mcs.l1Cache.Add(key, result)

	fingerprint := mcs.generateFingerprint(key)
	cacheEntry := models.NewResolveCache(fingerprint, key, *result, mcs.catalogVersion)

	opts := options.Replace().SetUpsert(true)
	filter := bson.M{"query_fingerprint": fingerprint}

	if _, err := mcs.collection.ReplaceOne(ctx, filter, cacheEntry, opts); err != nil {
		mcs.logger.Error("Lỗi lưu vào MongoDB cache",
			zap.Error(err),
			zap.String("fingerprint", fingerprint))
		return fmt.Errorf("lỗi lưu vào MongoDB cache: %w", err)
	}

	mcs.logger.Debug("Đã lưu vào cache",
		zap.String("key", key),
		zap.String("fingerprint", fingerprint),
		zap.String("source", string(result.SearchSource)))

	return nil
}

// Delete xóa một entry khỏi cache
func (mcs *MongoCacheService) Delete(ctx context.Context, key string) error {
	mcs.l1Cache.Remove(key)

	fingerprint := mcs.generateFingerprint(key)
	if _, err := mcs.collection.DeleteOne(ctx, bson.M{"query_fingerprint": fingerprint}); err != nil {
		return fmt.Errorf("lỗi xóa khỏi MongoDB cache: %w", err)
	}
	return nil
}

// Clear xóa tất cả cache
func (mcs *MongoCacheService) Clear(ctx context.Context) error {
	mcs.l1Cache.Purge()

	if _, err := mcs.collection.DeleteMany(ctx, bson.M{}); err != nil {
		return fmt.Errorf("lỗi clear MongoDB cache: %w", err)
	}

	atomic.StoreInt64(&mcs.totalHits, 0)
	atomic.StoreInt64(&mcs.totalMiss, 0)
	atomic.StoreInt64(&mcs.l1Hits, 0)
	atomic.StoreInt64(&mcs.l1Miss, 0)
	atomic.StoreInt64(&mcs.mongoHits, 0)
	atomic.StoreInt64(&mcs.mongoMiss, 0)

	return nil
}

// InvalidateByCatalogVersion xóa mọi entry không thuộc phiên bản catalog hiện hành
func (mcs *MongoCacheService) InvalidateByCatalogVersion(ctx context.Context, catalogVersion string) error {
	mcs.l1Cache.Purge()
	mcs.catalogVersion = catalogVersion

	filter := bson.M{"catalog_version": bson.M{"$ne": catalogVersion}}

	result, err := mcs.collection.DeleteMany(ctx, filter)
	if err != nil {
		return fmt.Errorf("lỗi invalidate cache theo catalog version: %w", err)
	}

	mcs.logger.Info("Đã invalidate cache",
		zap.String("catalog_version", catalogVersion),
		zap.Int64("deleted_count", result.DeletedCount))

	return nil
}

// GetStats lấy thống kê cache
func (mcs *MongoCacheService) GetStats(ctx context.Context) (*CacheStats, error) {
	mongoCount, err := mcs.collection.CountDocuments(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("lỗi đếm documents trong MongoDB cache: %w", err)
	}

	totalHits := atomic.LoadInt64(&mcs.totalHits)
	totalMiss := atomic.LoadInt64(&mcs.totalMiss)

	total := totalHits + totalMiss
	hitRate := float64(0)
	if total > 0 {
		hitRate = float64(totalHits) / float64(total)
	}

	stats := &CacheStats{
		HitRate:    hitRate,
		TotalHits:  totalHits,
		TotalMiss:  totalMiss,
		TotalItems: mongoCount,
	}

	mcs.logger.Debug("Cache stats",
		zap.Float64("hit_rate", hitRate),
		zap.Int64("total_hits", totalHits),
		zap.Int64("total_miss", totalMiss),
		zap.Int("l1_size", mcs.l1Cache.Len()),
		zap.Int64("mongo_count", mongoCount))

	return stats, nil
}

// Exists kiểm tra key có tồn tại không
func (mcs *MongoCacheService) Exists(ctx context.Context, key string) (bool, error) {
	if mcs.l1Cache.Contains(key) {
		return true, nil
	}

	fingerprint := mcs.generateFingerprint(key)
	count, err := mcs.collection.CountDocuments(ctx, bson.M{"query_fingerprint": fingerprint})
	if err != nil {
		return false, fmt.Errorf("lỗi check exists trong MongoDB: %w", err)
	}
	return count > 0, nil
}

// GetTTL MongoDB persistent cache không có TTL, luôn trả về 0
func (mcs *MongoCacheService) GetTTL(ctx context.Context, key string) (time.Duration, error) {
	return 0, nil
}

// Close L1 cache không cần close, MongoDB connection do caller quản lý
func (mcs *MongoCacheService) Close() error {
	return nil
}

// generateFingerprint sinh fingerprint cho cache key
func (mcs *MongoCacheService) generateFingerprint(key string) string {
	hash := sha256.Sum256([]byte(key))
	return fmt.Sprintf("sha256:%x", hash)
}

// updateAccessStats cập nhật thống kê truy cập (async)
func (mcs *MongoCacheService) updateAccessStats(id primitive.ObjectID) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	update := bson.M{
		"$set": bson.M{"last_accessed": time.Now()},
		"$inc": bson.M{"access_count": 1},
	}

	if _, err := mcs.collection.UpdateOne(ctx, bson.M{"_id": id}, update); err != nil {
		mcs.logger.Warn("Lỗi update access stats", zap.Error(err))
	}
}

// WarmUp làm nóng L1 từ các entry được truy cập nhiều nhất
func (mcs *MongoCacheService) WarmUp(ctx context.Context, limit int) error {
	opts := options.Find().
		SetSort(bson.D{bson.E{Key: "access_count", Value: -1}}).
		SetLimit(int64(limit))

	cursor, err := mcs.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return fmt.Errorf("lỗi warm up cache: %w", err)
	}
	defer cursor.Close(ctx)

	count := 0
	for cursor.Next(ctx) {
		var cacheEntry models.ResolveCache
		if err := cursor.Decode(&cacheEntry); err != nil {
			mcs.logger.Warn("Lỗi decode cache entry trong warm up", zap.Error(err))
			continue
		}

		if mcs.catalogVersion != "" && !cacheEntry.IsValidCatalogVersion(mcs.catalogVersion) {
			continue
		}

		mcs.l1Cache.Add(cacheEntry.NormalizedQuery, &cacheEntry.Result)
		count++
	}

	mcs.logger.Info("Cache warm up hoàn thành",
		zap.Int("loaded_items", count),
		zap.Int("l1_size", mcs.l1Cache.Len()))

	return nil
}
