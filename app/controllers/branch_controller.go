package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/branch-resolver/app/models"
	"github.com/branch-resolver/app/requests"
	"github.com/branch-resolver/app/responses"
	"github.com/branch-resolver/app/services"
	"github.com/branch-resolver/internal/matcher"
)

// BranchController các API admin quản lý catalog kho
type BranchController struct {
	catalogService *services.CatalogService
	cacheService   services.ICacheService
	aliasTable     *matcher.AliasTable
	logger         *zap.Logger
}

// NewBranchController tạo mới BranchController
func NewBranchController(
	catalogService *services.CatalogService,
	cacheService services.ICacheService,
	aliasTable *matcher.AliasTable,
	logger *zap.Logger,
) *BranchController {
	return &BranchController{
		catalogService: catalogService,
		cacheService:   cacheService,
		aliasTable:     aliasTable,
		logger:         logger,
	}
}

// ListBranches liệt kê toàn bộ catalog theo thứ tự sort_index
func (bc *BranchController) ListBranches(c *gin.Context) {
	branches, err := bc.catalogService.ListBranches(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, responses.ErrorResponse{
			Error:   "CATALOG_ERROR",
			Message: "Lỗi đọc catalog: " + err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, responses.BranchListResponse{
		Branches: branches,
		Total:    len(branches),
	})
}

// GetBranch lấy chi tiết một kho
func (bc *BranchController) GetBranch(c *gin.Context) {
	branch, err := bc.catalogService.GetBranch(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, responses.ErrorResponse{
			Error:   "BRANCH_NOT_FOUND",
			Message: err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, branch)
}

// CreateBranch thêm kho mới vào catalog
func (bc *BranchController) CreateBranch(c *gin.Context) {
	var req requests.BranchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, responses.ErrorResponse{
			Error:   "INVALID_REQUEST",
			Message: "Request không hợp lệ: " + err.Error(),
		})
		return
	}

	branch := branchFromRequest(req)
	if err := bc.catalogService.CreateBranch(c.Request.Context(), branch); err != nil {
		c.JSON(http.StatusInternalServerError, responses.ErrorResponse{
			Error:   "CREATE_ERROR",
			Message: "Lỗi thêm kho: " + err.Error(),
		})
		return
	}

	bc.invalidateCache(c)
	c.JSON(http.StatusCreated, branch)
}

// UpdateBranch sửa thông tin kho
func (bc *BranchController) UpdateBranch(c *gin.Context) {
	var req requests.BranchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, responses.ErrorResponse{
			Error:   "INVALID_REQUEST",
			Message: "Request không hợp lệ: " + err.Error(),
		})
		return
	}

	existing, err := bc.catalogService.GetBranch(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, responses.ErrorResponse{
			Error:   "BRANCH_NOT_FOUND",
			Message: err.Error(),
		})
		return
	}

	branch := branchFromRequest(req)
	branch.ID = existing.ID
	branch.HolidaySchedule = existing.HolidaySchedule
	if req.SortIndex == 0 {
		branch.SortIndex = existing.SortIndex
	}

	if err := bc.catalogService.UpdateBranch(c.Request.Context(), branch); err != nil {
		c.JSON(http.StatusInternalServerError, responses.ErrorResponse{
			Error:   "UPDATE_ERROR",
			Message: "Lỗi cập nhật kho: " + err.Error(),
		})
		return
	}

	bc.invalidateCache(c)
	c.JSON(http.StatusOK, branch)
}

// DeleteBranch xóa kho khỏi catalog
func (bc *BranchController) DeleteBranch(c *gin.Context) {
	if err := bc.catalogService.DeleteBranch(c.Request.Context(), c.Param("id")); err != nil {
		c.JSON(http.StatusNotFound, responses.ErrorResponse{
			Error:   "DELETE_ERROR",
			Message: err.Error(),
		})
		return
	}

	bc.invalidateCache(c)
	c.JSON(http.StatusOK, responses.SuccessResponse{Success: true, Message: "Đã xóa kho"})
}

// SetActive bật/tắt một kho
func (bc *BranchController) SetActive(c *gin.Context) {
	var req requests.SetActiveRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.IsActive == nil {
		c.JSON(http.StatusBadRequest, responses.ErrorResponse{
			Error:   "INVALID_REQUEST",
			Message: "Thiếu trường is_active",
		})
		return
	}

	if err := bc.catalogService.SetActive(c.Request.Context(), c.Param("id"), *req.IsActive); err != nil {
		c.JSON(http.StatusNotFound, responses.ErrorResponse{
			Error:   "SET_ACTIVE_ERROR",
			Message: err.Error(),
		})
		return
	}

	bc.invalidateCache(c)
	c.JSON(http.StatusOK, responses.SuccessResponse{Success: true})
}

// SetHolidaySchedule cập nhật lịch nghỉ của kho
func (bc *BranchController) SetHolidaySchedule(c *gin.Context) {
	var req requests.HolidayScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, responses.ErrorResponse{
			Error:   "INVALID_REQUEST",
			Message: "Request không hợp lệ: " + err.Error(),
		})
		return
	}

	schedule := models.HolidaySchedule{
		IsEnabled: req.IsEnabled,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		Reason:    req.Reason,
	}

	if err := bc.catalogService.SetHolidaySchedule(c.Request.Context(), c.Param("id"), schedule); err != nil {
		c.JSON(http.StatusNotFound, responses.ErrorResponse{
			Error:   "HOLIDAY_ERROR",
			Message: err.Error(),
		})
		return
	}

	bc.invalidateCache(c)
	c.JSON(http.StatusOK, responses.SuccessResponse{Success: true})
}

// SeedBranches thay toàn bộ catalog bằng dữ liệu TSV
func (bc *BranchController) SeedBranches(c *gin.Context) {
	var req requests.SeedBranchesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, responses.ErrorResponse{
			Error:   "INVALID_REQUEST",
			Message: "Request không hợp lệ: " + err.Error(),
		})
		return
	}

	branches := services.ParseSeedBranches(req.RawData)
	if len(branches) == 0 {
		c.JSON(http.StatusBadRequest, responses.ErrorResponse{
			Error:   "EMPTY_SEED",
			Message: "Không parse được kho nào từ dữ liệu",
		})
		return
	}

	if err := bc.catalogService.SeedBranches(c.Request.Context(), branches); err != nil {
		c.JSON(http.StatusInternalServerError, responses.ErrorResponse{
			Error:   "SEED_ERROR",
			Message: "Lỗi seed catalog: " + err.Error(),
		})
		return
	}

	bc.invalidateCache(c)
	c.JSON(http.StatusOK, responses.SuccessResponse{
		Success: true,
		Message: "Đã nhập catalog",
		Data:    gin.H{"branches": len(branches)},
	})
}

// SearchBranches tìm kho qua Meilisearch cho màn hình admin
func (bc *BranchController) SearchBranches(c *gin.Context) {
	query := c.Query("q")
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	hits, err := bc.catalogService.SearchBranches(c.Request.Context(), query, limit)
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, responses.ErrorResponse{
			Error:   "SEARCH_ERROR",
			Message: "Lỗi tìm kiếm: " + err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, responses.BranchSearchResponse{Hits: hits, Total: len(hits)})
}

// SuggestDuplicates liệt kê các cặp kho nghi trùng
func (bc *BranchController) SuggestDuplicates(c *gin.Context) {
	pairs, err := bc.catalogService.SuggestDuplicates(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, responses.ErrorResponse{
			Error:   "DUPLICATE_SCAN_ERROR",
			Message: "Lỗi quét kho trùng: " + err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, responses.DuplicateSuggestionsResponse{Pairs: pairs, Total: len(pairs)})
}

// GetAliases trả về bảng alias địa lý (chỉ đọc, phục vụ debug)
func (bc *BranchController) GetAliases(c *gin.Context) {
	entries := bc.aliasTable.Entries()
	c.JSON(http.StatusOK, responses.AliasTableResponse{
		Entries: entries,
		Total:   len(entries),
	})
}

// GetCacheStats thống kê cache kết quả tra kho
func (bc *BranchController) GetCacheStats(c *gin.Context) {
	if bc.cacheService == nil {
		c.JSON(http.StatusServiceUnavailable, responses.ErrorResponse{
			Error:   "CACHE_DISABLED",
			Message: "Cache chưa được cấu hình",
		})
		return
	}

	stats, err := bc.cacheService.GetStats(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, responses.ErrorResponse{
			Error:   "CACHE_STATS_ERROR",
			Message: err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, stats)
}

// ClearCache xóa toàn bộ cache kết quả
func (bc *BranchController) ClearCache(c *gin.Context) {
	if bc.cacheService == nil {
		c.JSON(http.StatusServiceUnavailable, responses.ErrorResponse{
			Error:   "CACHE_DISABLED",
			Message: "Cache chưa được cấu hình",
		})
		return
	}

	if err := bc.cacheService.Clear(c.Request.Context()); err != nil {
		c.JSON(http.StatusInternalServerError, responses.ErrorResponse{
			Error:   "CACHE_CLEAR_ERROR",
			Message: err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, responses.SuccessResponse{Success: true, Message: "Đã xóa cache"})
}

// invalidateCache mọi thao tác ghi catalog đều làm cache kết quả cũ sai
func (bc *BranchController) invalidateCache(c *gin.Context) {
	if bc.cacheService == nil {
		return
	}

	version, err := bc.catalogService.CatalogVersion(c.Request.Context())
	if err != nil {
		bc.logger.Warn("Không lấy được catalog version, clear toàn bộ cache", zap.Error(err))
		version = ""
	}

	if version == "" {
		if err := bc.cacheService.Clear(c.Request.Context()); err != nil {
			bc.logger.Warn("Lỗi clear cache", zap.Error(err))
		}
		return
	}

	if err := bc.cacheService.InvalidateByCatalogVersion(c.Request.Context(), version); err != nil {
		bc.logger.Warn("Lỗi invalidate cache", zap.Error(err))
	}
}

func branchFromRequest(req requests.BranchRequest) *models.Branch {
	branch := &models.Branch{
		Name:        req.Name,
		Manager:     req.Manager,
		Address:     req.Address,
		PhoneNumber: req.PhoneNumber,
		Note:        req.Note,
		SortIndex:   req.SortIndex,
	}
	if branch.Manager == "" {
		branch.Manager = "Quản lý kho"
	}

	// ApplyDefaults mặc định is_active true; cờ tường minh trong request
	// ghi đè sau cùng
	branch.ApplyDefaults()
	if req.IsActive != nil {
		branch.IsActive = *req.IsActive
	}
	return branch
}
