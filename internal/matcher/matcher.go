package matcher

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/branch-resolver/app/models"
	"github.com/branch-resolver/internal/normalizer"
)

// Match kết quả tra cứu cục bộ.
type Match struct {
	Branch     *models.Branch
	Score      int
	Reason     string
	AliasKey   string
	AliasValue string
}

// LocalMatcher tầng tra cứu tức thời: normalize -> mở rộng alias ->
// tokenize -> chấm điểm từng kho -> cổng tin cậy. Thuần in-memory,
// không gọi mạng, không giữ state giữa các truy vấn.
type LocalMatcher struct {
	aliases *AliasTable
	weights Weights
	gate    GatePolicy
	logger  *zap.Logger
}

func NewLocalMatcher(aliases *AliasTable, logger *zap.Logger) *LocalMatcher {
	return NewLocalMatcherWithPolicy(aliases, DefaultWeights(), DefaultGatePolicy(), logger)
}

func NewLocalMatcherWithPolicy(aliases *AliasTable, weights Weights, gate GatePolicy, logger *zap.Logger) *LocalMatcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LocalMatcher{
		aliases: aliases,
		weights: weights,
		gate:    gate,
		logger:  logger,
	}
}

// FindMatch tìm kho tốt nhất cho địa chỉ khách nhập trong danh sách kho
// đang hoạt động. Trả về nil khi không có kết quả đủ tin cậy; đó không
// phải lỗi mà là tín hiệu chuyển sang fallback.
//
// Hai kho bằng điểm thì kho đứng trước trong danh sách thắng, nên thứ tự
// branches phải ổn định giữa các lần gọi.
func (m *LocalMatcher) FindMatch(rawAddress string, branches []models.Branch) *Match {
	normalized := normalizer.Normalize(rawAddress)
	if normalized == "" {
		return nil
	}

	exp := m.aliases.Expand(normalized)
	tokens := Tokenize(exp.Query)
	bigrams := Bigrams(tokens)

	var best *models.Branch
	maxScore := 0
	for i := range branches {
		score := m.weights.Score(tokens, bigrams, exp.Value, branches[i].SearchStr)
		if score > maxScore {
			maxScore = score
			best = &branches[i]
		}
	}
	if best == nil {
		return nil
	}

	hasAlias := exp.Value != ""
	if !m.gate.Accept(maxScore, hasAlias, tokens, best.SearchStr, rawAddress) {
		m.logger.Debug("Từ chối kết quả local, chuyển fallback",
			zap.String("query", normalized),
			zap.String("branch", best.Name),
			zap.Int("score", maxScore),
			zap.Bool("alias", hasAlias))
		return nil
	}

	reason := "Tìm thấy kho có địa chỉ trùng khớp với từ khóa bạn nhập."
	if hasAlias {
		reason = fmt.Sprintf("Đã tìm thấy kho tại khu vực %s (Phù hợp với: %s)",
			strings.ToUpper(exp.Value), exp.Key)
	}

	return &Match{
		Branch:     best,
		Score:      maxScore,
		Reason:     reason,
		AliasKey:   exp.Key,
		AliasValue: exp.Value,
	}
}
