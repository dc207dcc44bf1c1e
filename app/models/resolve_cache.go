package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ResolveCache cache kết quả tra kho theo địa chỉ khách
type ResolveCache struct {
	ID               primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	QueryFingerprint string             `bson:"query_fingerprint" json:"query_fingerprint"` // Fingerprint của truy vấn đã chuẩn hóa
	NormalizedQuery  string             `bson:"normalized_query" json:"normalized_query"`   // Truy vấn đã chuẩn hóa (cache key)
	Result           MatchResult        `bson:"result" json:"result"`                       // Kết quả tra kho
	CatalogVersion   string             `bson:"catalog_version" json:"catalog_version"`     // Phiên bản catalog lúc cache
	CreatedAt        time.Time          `bson:"created_at" json:"created_at"`
	LastAccessed     time.Time          `bson:"last_accessed" json:"last_accessed"`
	AccessCount      int                `bson:"access_count" json:"access_count"`
}

// NewResolveCache tạo mới một ResolveCache
func NewResolveCache(fingerprint, normalizedQuery string, result MatchResult, catalogVersion string) *ResolveCache {
	return &ResolveCache{
		QueryFingerprint: fingerprint,
		NormalizedQuery:  normalizedQuery,
		Result:           result,
		CatalogVersion:   catalogVersion,
		CreatedAt:        time.Now(),
		LastAccessed:     time.Now(),
		AccessCount:      1,
	}
}

// IsValidCatalogVersion cache chỉ dùng lại được khi catalog chưa đổi
func (rc *ResolveCache) IsValidCatalogVersion(currentVersion string) bool {
	return rc.CatalogVersion == currentVersion
}
