package controllers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/branch-resolver/app/requests"
	"github.com/branch-resolver/app/responses"
	"github.com/branch-resolver/app/services"
	"github.com/branch-resolver/internal/normalizer"
)

// ResolveController xử lý request tra kho theo địa chỉ khách
type ResolveController struct {
	resolverService *services.ResolverService
	catalogService  *services.CatalogService
	cacheService    services.ICacheService
	resolveTimeout  time.Duration
	startedAt       time.Time
	logger          *zap.Logger
}

// NewResolveController tạo mới ResolveController
func NewResolveController(
	resolverService *services.ResolverService,
	catalogService *services.CatalogService,
	cacheService services.ICacheService,
	resolveTimeout time.Duration,
	logger *zap.Logger,
) *ResolveController {
	if resolveTimeout <= 0 {
		resolveTimeout = 30 * time.Second
	}
	return &ResolveController{
		resolverService: resolverService,
		catalogService:  catalogService,
		cacheService:    cacheService,
		resolveTimeout:  resolveTimeout,
		startedAt:       time.Now(),
		logger:          logger,
	}
}

// ResolveBranch tìm kho phục vụ cho một địa chỉ khách
func (rc *ResolveController) ResolveBranch(c *gin.Context) {
	var req requests.ResolveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, responses.ErrorResponse{
			Error:   "INVALID_REQUEST",
			Message: "Request không hợp lệ: " + err.Error(),
		})
		return
	}

	startTime := time.Now()

	// cache key là địa chỉ đã chuẩn hóa: hai cách viết cùng một địa chỉ
	// dùng chung entry
	cacheKey := normalizer.Normalize(req.Address)

	if req.Options.UseCache && rc.cacheService != nil {
		if cached, found, err := rc.cacheService.Get(c.Request.Context(), cacheKey); err == nil && found {
			c.JSON(http.StatusOK, responses.ResolveResponse{
				Result:           *cached,
				ProcessingTimeMs: time.Since(startTime).Milliseconds(),
				CacheHit:         true,
			})
			return
		}
	}

	branches, err := rc.catalogService.ListBranches(c.Request.Context())
	if err != nil {
		rc.logger.Error("Lỗi load catalog", zap.Error(err))
		c.JSON(http.StatusInternalServerError, responses.ErrorResponse{
			Error:   "CATALOG_ERROR",
			Message: "Không đọc được danh sách chi nhánh.",
		})
		return
	}

	// chặn trần thời gian cho cả fallback AI
	ctx, cancel := context.WithTimeout(c.Request.Context(), rc.resolveTimeout)
	defer cancel()

	result, err := rc.resolverService.Resolve(ctx, req.Address, branches)
	if err != nil {
		rc.respondResolveError(c, err)
		return
	}

	if req.Options.UseCache && rc.cacheService != nil {
		if err := rc.cacheService.Set(c.Request.Context(), cacheKey, result); err != nil {
			rc.logger.Warn("Lỗi lưu cache", zap.Error(err))
		}
	}

	c.JSON(http.StatusOK, responses.ResolveResponse{
		Result:           *result,
		ProcessingTimeMs: time.Since(startTime).Milliseconds(),
		CacheHit:         false,
	})
}

func (rc *ResolveController) respondResolveError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrEmptyCatalog):
		c.JSON(http.StatusNotFound, responses.ErrorResponse{
			Error:   "EMPTY_CATALOG",
			Message: "Chưa có dữ liệu chi nhánh.",
		})
	case errors.Is(err, services.ErrNoActiveBranches):
		c.JSON(http.StatusNotFound, responses.ErrorResponse{
			Error:   "NO_ACTIVE_BRANCHES",
			Message: "Không có chi nhánh nào đang hoạt động.",
		})
	case errors.Is(err, services.ErrFallbackTimeout):
		c.JSON(http.StatusGatewayTimeout, responses.ErrorResponse{
			Error:   "FALLBACK_TIMEOUT",
			Message: "Tra cứu nâng cao quá thời gian. Vui lòng thử lại.",
		})
	case errors.Is(err, services.ErrFallbackCancelled):
		c.JSON(http.StatusRequestTimeout, responses.ErrorResponse{
			Error:   "FALLBACK_CANCELLED",
			Message: "Yêu cầu tra cứu đã bị hủy.",
		})
	case errors.Is(err, services.ErrNoFallbackMatch):
		c.JSON(http.StatusNotFound, responses.ErrorResponse{
			Error:   "NO_SUITABLE_BRANCH",
			Message: "Không tìm thấy kho phù hợp. Vui lòng nhập rõ Tỉnh/Thành phố.",
		})
	default:
		rc.logger.Error("Lỗi resolve không phân loại được", zap.Error(err))
		c.JSON(http.StatusInternalServerError, responses.ErrorResponse{
			Error:   "RESOLVE_ERROR",
			Message: "Lỗi tra cứu kho: " + err.Error(),
		})
	}
}

// HealthCheck kiểm tra trạng thái service
func (rc *ResolveController) HealthCheck(c *gin.Context) {
	servicesStatus := map[string]string{
		"matcher": "ok",
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	if _, err := rc.catalogService.ListBranches(ctx); err != nil {
		servicesStatus["mongodb"] = "error: " + err.Error()
	} else {
		servicesStatus["mongodb"] = "ok"
	}

	if rc.cacheService != nil {
		if _, err := rc.cacheService.GetStats(ctx); err != nil {
			servicesStatus["cache"] = "error: " + err.Error()
		} else {
			servicesStatus["cache"] = "ok"
		}
	}

	status := "healthy"
	for _, s := range servicesStatus {
		if s != "ok" {
			status = "degraded"
			break
		}
	}

	c.JSON(http.StatusOK, responses.HealthCheckResponse{
		Status:    status,
		Version:   "1.0.0",
		Uptime:    time.Since(rc.startedAt).String(),
		Services:  servicesStatus,
		Timestamp: time.Now().Format(time.RFC3339),
	})
}
