package responses

import (
	"github.com/branch-resolver/app/models"
	"github.com/branch-resolver/internal/search"
)

// ResolveResponse response tra kho
type ResolveResponse struct {
	Result           models.MatchResult `json:"result"`             // Kết quả tra kho
	ProcessingTimeMs int64              `json:"processing_time_ms"` // Thời gian xử lý (ms)
	CacheHit         bool               `json:"cache_hit"`          // Có hit cache không
}

// ErrorResponse response lỗi chung
type ErrorResponse struct {
	Error   string `json:"error"`   // Mã lỗi
	Message string `json:"message"` // Thông báo cho người dùng
}

// SuccessResponse response thành công chung
type SuccessResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

// HealthCheckResponse response health check
type HealthCheckResponse struct {
	Status    string            `json:"status"`
	Version   string            `json:"version"`
	Uptime    string            `json:"uptime"`
	Services  map[string]string `json:"services"`
	Timestamp string            `json:"timestamp"`
}

// BranchListResponse danh sách kho cho màn hình admin
type BranchListResponse struct {
	Branches []models.Branch `json:"branches"`
	Total    int             `json:"total"`
}

// BranchSearchResponse kết quả tìm kho qua search index
type BranchSearchResponse struct {
	Hits  []search.BranchDoc `json:"hits"`
	Total int                `json:"total"`
}

// AliasTableResponse bảng alias địa lý (chỉ đọc)
type AliasTableResponse struct {
	Entries map[string]string `json:"entries"`
	Total   int               `json:"total"`
}

// DuplicateSuggestionsResponse các cặp kho nghi trùng
type DuplicateSuggestionsResponse struct {
	Pairs []models.DuplicatePair `json:"pairs"`
	Total int                    `json:"total"`
}
