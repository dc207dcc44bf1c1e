package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/branch-resolver/app/models"
	"github.com/branch-resolver/internal/external"
	"github.com/branch-resolver/internal/matcher"
)

type fakeFallback struct {
	resp       *external.FallbackResponse
	err        error
	calls      int
	gotQuery   string
	candidates []external.Candidate
}

func (f *fakeFallback) Resolve(ctx context.Context, queryText string, candidates []external.Candidate) (*external.FallbackResponse, error) {
	f.calls++
	f.gotQuery = queryText
	f.candidates = candidates
	if f.err != nil {
		return nil, f.err
	}
	return f.resp, nil
}

func resolverCatalog() []models.Branch {
	branches := []models.Branch{
		{ID: "br-lc", Name: "Kho Liên Chiểu", Manager: "Chị Thúy", Address: "123 Nguyễn Sinh Sắc, Liên Chiểu, Đà Nẵng", PhoneNumber: "0905111222", IsActive: true},
		{ID: "br-hn", Name: "Kho Hà Nội", Manager: "Anh Linh", Address: "Số 8 Xuân Thủy, Cầu Giấy, Hà Nội", PhoneNumber: "0988555666", IsActive: true},
		{ID: "br-off", Name: "Kho Đã Đóng", Manager: "Cô Hoa", Address: "1 Lạch Tray, Hải Phòng", PhoneNumber: "0912000111", IsActive: false},
	}
	for i := range branches {
		branches[i].RebuildSearchStr()
	}
	return branches
}

func newResolver(t *testing.T, fallback FallbackResolver) *ResolverService {
	t.Helper()
	table, err := matcher.DefaultAliasTable()
	require.NoError(t, err)
	return NewResolverService(matcher.NewLocalMatcher(table, zap.NewNop()), fallback, zap.NewNop())
}

func TestResolveEmptyCatalog(t *testing.T) {
	rs := newResolver(t, &fakeFallback{})
	_, err := rs.Resolve(context.Background(), "ha noi", nil)
	assert.ErrorIs(t, err, ErrEmptyCatalog)
}

func TestResolveNoActiveBranches(t *testing.T) {
	branches := resolverCatalog()
	for i := range branches {
		branches[i].IsActive = false
	}

	rs := newResolver(t, &fakeFallback{})
	_, err := rs.Resolve(context.Background(), "ha noi", branches)
	assert.ErrorIs(t, err, ErrNoActiveBranches)
}

func TestResolveBranchWithoutExplicitActiveFlag(t *testing.T) {
	// kho nhập tay không set cờ hoạt động vẫn phải vào danh sách ứng viên
	b := models.Branch{Name: "Kho Liên Chiểu", Address: "72 Nguyễn Sinh Sắc, Liên Chiểu, Đà Nẵng"}
	b.ApplyDefaults()
	require.True(t, b.IsActive)

	rs := newResolver(t, &fakeFallback{})
	result, err := rs.Resolve(context.Background(), "Đường Nguyễn Sinh Sắc, Đà Nẵng", []models.Branch{b})
	require.NoError(t, err)
	assert.Equal(t, "Kho Liên Chiểu", result.BranchName)
	assert.Equal(t, models.SourceInstant, result.SearchSource)
}

func TestResolveInstant(t *testing.T) {
	fallback := &fakeFallback{}
	rs := newResolver(t, fallback)

	result, err := rs.Resolve(context.Background(), "Nguyễn Sinh Sắc, Đà Nẵng", resolverCatalog())
	require.NoError(t, err)

	assert.Equal(t, models.SourceInstant, result.SearchSource)
	assert.Equal(t, "br-lc", result.BranchID)
	assert.Equal(t, "Kho Liên Chiểu", result.BranchName)
	assert.Equal(t, "Chị Thúy", result.ManagerName)
	assert.Equal(t, "Gần nhất (Tra cứu nhanh)", result.EstimatedDistance)
	assert.Equal(t, "Nguyễn Sinh Sắc, Đà Nẵng", result.CustomerAddressOriginal)
	assert.Zero(t, fallback.calls, "kết quả local đủ tin cậy thì không được gọi fallback")
}

func TestResolveFallback(t *testing.T) {
	fallback := &fakeFallback{
		resp: &external.FallbackResponse{
			SelectedBranchID:  "br-hn",
			EstimatedDistance: "~12 km",
			Reasoning:         "Kho gần vị trí khách nhất.",
		},
	}
	rs := newResolver(t, fallback)

	rawAddress := "123 Đường Rất Lạ, Khu Vực Chưa Biết"
	result, err := rs.Resolve(context.Background(), rawAddress, resolverCatalog())
	require.NoError(t, err)

	assert.Equal(t, models.SourceAI, result.SearchSource)
	assert.Equal(t, "br-hn", result.BranchID)
	assert.Equal(t, "~12 km", result.EstimatedDistance)
	assert.Equal(t, "Kho gần vị trí khách nhất.", result.Reasoning)
	assert.Equal(t, rawAddress, result.CustomerAddressOriginal)

	assert.Equal(t, 1, fallback.calls)
	assert.Equal(t, rawAddress, fallback.gotQuery, "fallback phải nhận địa chỉ gốc, không phải bản đã chuẩn hóa")
	require.Len(t, fallback.candidates, 2, "kho đã tắt không được đưa vào danh sách ứng viên")
	assert.Equal(t, "br-lc", fallback.candidates[0].ID)
	assert.Equal(t, "br-hn", fallback.candidates[1].ID)
}

func TestResolveFallbackDefaultReasoning(t *testing.T) {
	fallback := &fakeFallback{
		resp: &external.FallbackResponse{SelectedBranchID: "br-hn", EstimatedDistance: "~5 km"},
	}
	rs := newResolver(t, fallback)

	result, err := rs.Resolve(context.Background(), "456 Đường Rất Lạ Nào Đó", resolverCatalog())
	require.NoError(t, err)
	assert.Equal(t, "Đề xuất bởi AI.", result.Reasoning)
}

func TestResolveFallbackUnknownID(t *testing.T) {
	fallback := &fakeFallback{
		resp: &external.FallbackResponse{SelectedBranchID: "khong-ton-tai"},
	}
	rs := newResolver(t, fallback)

	_, err := rs.Resolve(context.Background(), "456 Đường Rất Lạ Nào Đó", resolverCatalog())
	assert.ErrorIs(t, err, ErrNoFallbackMatch)
}

func TestResolveFallbackSelectsInactiveBranch(t *testing.T) {
	// mô hình chọn đúng id nhưng kho đó đã tắt -> coi như id lạ
	fallback := &fakeFallback{
		resp: &external.FallbackResponse{SelectedBranchID: "br-off"},
	}
	rs := newResolver(t, fallback)

	_, err := rs.Resolve(context.Background(), "456 Đường Rất Lạ Nào Đó", resolverCatalog())
	assert.ErrorIs(t, err, ErrNoFallbackMatch)
}

func TestResolveFallbackErrors(t *testing.T) {
	tests := []struct {
		name        string
		fallbackErr error
		expected    error
	}{
		{"generic error", errors.New("mạng chập chờn"), ErrNoFallbackMatch},
		{"timeout", context.DeadlineExceeded, ErrFallbackTimeout},
		{"cancelled", context.Canceled, ErrFallbackCancelled},
		{"wrapped timeout", errors.New("wrap: " + context.DeadlineExceeded.Error()), ErrNoFallbackMatch},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rs := newResolver(t, &fakeFallback{err: tt.fallbackErr})
			_, err := rs.Resolve(context.Background(), "456 Đường Rất Lạ Nào Đó", resolverCatalog())
			assert.ErrorIs(t, err, tt.expected)
		})
	}
}

func TestResolveNoFallbackConfigured(t *testing.T) {
	rs := newResolver(t, nil)
	_, err := rs.Resolve(context.Background(), "456 Đường Rất Lạ Nào Đó", resolverCatalog())
	assert.ErrorIs(t, err, ErrNoFallbackMatch)
}
