package matcher

import (
	"regexp"
	"strings"
)

// Ngưỡng tin cậy mặc định của cổng chấp nhận kết quả local.
const (
	DefaultAliasScoreFloor = 100 // ngưỡng khi truy vấn đã khớp alias
	DefaultPlainScoreFloor = 40  // ngưỡng khi không có alias
	DefaultMinMatchRatio   = 0.4 // tỷ lệ token khớp tối thiểu cho địa chỉ có số nhà

	// Chỉ token dài hơn 2 ký tự mới đủ nghĩa để tính vào tỷ lệ khớp.
	minRatioTokenLen = 2
)

var reDigit = regexp.MustCompile(`\d`)

// GatePolicy chính sách quyết định tin kết quả local hay chuyển sang fallback.
type GatePolicy struct {
	AliasScoreFloor int     `yaml:"alias_score_floor" mapstructure:"alias_score_floor"`
	PlainScoreFloor int     `yaml:"plain_score_floor" mapstructure:"plain_score_floor"`
	MinMatchRatio   float64 `yaml:"min_match_ratio" mapstructure:"min_match_ratio"`
}

func DefaultGatePolicy() GatePolicy {
	return GatePolicy{
		AliasScoreFloor: DefaultAliasScoreFloor,
		PlainScoreFloor: DefaultPlainScoreFloor,
		MinMatchRatio:   DefaultMinMatchRatio,
	}
}

// MatchRatio tỷ lệ token có nghĩa xuất hiện trong searchStr của kho thắng.
// Trả 0 khi không có token nào đủ dài.
func MatchRatio(tokens []string, searchStr string) float64 {
	meaningful, matched := 0, 0
	for _, t := range tokens {
		if len(t) <= minRatioTokenLen {
			continue
		}
		meaningful++
		if strings.Contains(searchStr, t) {
			matched++
		}
	}
	if meaningful == 0 {
		return 0
	}
	return float64(matched) / float64(meaningful)
}

// Accept quyết định chấp nhận kết quả local. rawAddress là input gốc của
// người dùng (chưa chuẩn hóa) để dò số nhà.
func (g GatePolicy) Accept(score int, hasAlias bool, tokens []string, searchStr, rawAddress string) bool {
	floor := g.PlainScoreFloor
	if hasAlias {
		floor = g.AliasScoreFloor
	}
	if score < floor {
		return false
	}

	// Địa chỉ có số nhà mà từ khóa khớp quá ít là tín hiệu sai kho.
	// Đã khớp alias thì vẫn trả về ngay dù tên đường không trùng.
	if reDigit.MatchString(rawAddress) && MatchRatio(tokens, searchStr) < g.MinMatchRatio && !hasAlias {
		return false
	}
	return true
}
