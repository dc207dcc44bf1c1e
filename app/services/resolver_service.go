package services

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/branch-resolver/app/models"
	"github.com/branch-resolver/internal/external"
	"github.com/branch-resolver/internal/matcher"
)

var (
	// ErrEmptyCatalog catalog chưa có kho nào
	ErrEmptyCatalog = errors.New("chưa có dữ liệu chi nhánh")
	// ErrNoActiveBranches catalog có kho nhưng tất cả đều tắt
	ErrNoActiveBranches = errors.New("không có chi nhánh nào đang hoạt động")
	// ErrNoFallbackMatch cả local lẫn fallback đều không chốt được kho
	ErrNoFallbackMatch = errors.New("không tìm thấy kho phù hợp, vui lòng nhập rõ tỉnh/thành phố")
	// ErrFallbackTimeout fallback quá thời gian cho phép
	ErrFallbackTimeout = errors.New("tra cứu nâng cao quá thời gian, vui lòng thử lại")
	// ErrFallbackCancelled yêu cầu bị hủy khi đang chờ fallback
	ErrFallbackCancelled = errors.New("tra cứu nâng cao đã bị hủy")
)

// estimatedDistance cho kết quả local, không phải khoảng cách thật
const instantDistance = "Gần nhất (Tra cứu nhanh)"

// FallbackResolver tầng chọn kho chậm-mà-thông-minh, gọi khi local
// không đủ tin cậy. Interface để test thay bằng fake.
type FallbackResolver interface {
	Resolve(ctx context.Context, queryText string, candidates []external.Candidate) (*external.FallbackResponse, error)
}

// ResolverService điều phối hai tầng tra cứu: local trước, đủ tin cậy thì
// trả ngay không gọi mạng; không thì chuyển toàn bộ danh sách kho đang
// hoạt động cho fallback.
type ResolverService struct {
	matcher  *matcher.LocalMatcher
	fallback FallbackResolver // nil nếu không cấu hình API key
	logger   *zap.Logger
}

func NewResolverService(m *matcher.LocalMatcher, fallback FallbackResolver, logger *zap.Logger) *ResolverService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ResolverService{
		matcher:  m,
		fallback: fallback,
		logger:   logger,
	}
}

// Resolve tìm kho phục vụ cho địa chỉ khách nhập.
func (rs *ResolverService) Resolve(ctx context.Context, rawAddress string, branches []models.Branch) (*models.MatchResult, error) {
	if len(branches) == 0 {
		return nil, ErrEmptyCatalog
	}

	active := make([]models.Branch, 0, len(branches))
	for _, b := range branches {
		if b.IsActive {
			active = append(active, b)
		}
	}
	if len(active) == 0 {
		return nil, ErrNoActiveBranches
	}

	// Tầng 1: tra cứu tức thời
	if match := rs.matcher.FindMatch(rawAddress, active); match != nil {
		rs.logger.Info("Local match used",
			zap.String("branch", match.Branch.Name),
			zap.Int("score", match.Score))
		return buildResult(match.Branch, match.Reason, instantDistance, rawAddress, models.SourceInstant), nil
	}

	// Tầng 2: fallback AI
	if rs.fallback == nil {
		rs.logger.Warn("Local không chốt được kho và fallback chưa cấu hình",
			zap.String("address", rawAddress))
		return nil, ErrNoFallbackMatch
	}

	candidates := make([]external.Candidate, len(active))
	for i, b := range active {
		candidates[i] = external.Candidate{ID: b.ID, Address: b.Address}
	}

	resp, err := rs.fallback.Resolve(ctx, rawAddress, candidates)
	if err != nil {
		switch {
		case errors.Is(err, context.DeadlineExceeded):
			return nil, ErrFallbackTimeout
		case errors.Is(err, context.Canceled):
			return nil, ErrFallbackCancelled
		}
		rs.logger.Warn("Fallback lỗi", zap.Error(err), zap.String("address", rawAddress))
		return nil, ErrNoFallbackMatch
	}

	var chosen *models.Branch
	for i := range active {
		if active[i].ID == resp.SelectedBranchID {
			chosen = &active[i]
			break
		}
	}
	if chosen == nil {
		// mô hình trả id không có trong danh sách ứng viên
		rs.logger.Warn("Fallback trả id lạ",
			zap.String("selected_id", resp.SelectedBranchID))
		return nil, ErrNoFallbackMatch
	}

	reasoning := resp.Reasoning
	if reasoning == "" {
		reasoning = "Đề xuất bởi AI."
	}

	rs.logger.Info("AI fallback used",
		zap.String("branch", chosen.Name),
		zap.String("distance", resp.EstimatedDistance))
	return buildResult(chosen, reasoning, resp.EstimatedDistance, rawAddress, models.SourceAI), nil
}

func buildResult(b *models.Branch, reasoning, distance, rawAddress string, source models.SearchSource) *models.MatchResult {
	return &models.MatchResult{
		BranchID:                b.ID,
		BranchName:              b.Name,
		ManagerName:             b.Manager,
		BranchAddress:           b.Address,
		PhoneNumber:             b.PhoneNumber,
		Reasoning:               reasoning,
		EstimatedDistance:       distance,
		CustomerAddressOriginal: rawAddress,
		HolidaySchedule:         b.HolidaySchedule,
		SearchSource:            source,
	}
}
