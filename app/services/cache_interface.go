package services

import (
	"context"
	"time"

	"github.com/branch-resolver/app/models"
)

// CacheStats thống kê cache
type CacheStats struct {
	HitRate    float64 `json:"hit_rate"`
	TotalHits  int64   `json:"total_hits"`
	TotalMiss  int64   `json:"total_miss"`
	TotalItems int64   `json:"total_items"`
}

// ICacheService interface cho cache kết quả tra kho. Key là địa chỉ khách
// đã chuẩn hóa, nên hai cách viết khác nhau của cùng địa chỉ dùng chung entry.
type ICacheService interface {
	// Get lấy kết quả tra kho từ cache
	Get(ctx context.Context, key string) (*models.MatchResult, bool, error)

	// Set lưu kết quả tra kho vào cache
	Set(ctx context.Context, key string, result *models.MatchResult) error

	// Delete xóa một key khỏi cache
	Delete(ctx context.Context, key string) error

	// Clear xóa tất cả cache
	Clear(ctx context.Context) error

	// InvalidateByCatalogVersion xóa các entry thuộc phiên bản catalog cũ
	InvalidateByCatalogVersion(ctx context.Context, catalogVersion string) error

	// GetStats lấy thống kê cache
	GetStats(ctx context.Context) (*CacheStats, error)

	// Exists kiểm tra key có tồn tại không
	Exists(ctx context.Context, key string) (bool, error)

	// GetTTL lấy TTL còn lại của key
	GetTTL(ctx context.Context, key string) (time.Duration, error)

	// Close đóng kết nối (nếu cần)
	Close() error
}
