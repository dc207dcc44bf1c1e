package matcher

import "strings"

// Trọng số mặc định của bộ chấm điểm. Thay đổi các hằng số này sẽ làm lệch
// kết quả chọn kho nên mọi chỉnh sửa phải cập nhật lại baseline trong test.
const (
	DefaultAliasWeight          = 500 // searchStr của kho chứa từ khóa vùng của alias
	DefaultTokenWeight          = 10  // token (>= 2 ký tự) xuất hiện trong searchStr
	DefaultConfusingTokenWeight = 5   // token dễ nhầm: tên đường trùng tên tỉnh
	DefaultBigramWeight         = 30  // cặp token liền kề xuất hiện liên tiếp

	minScoredTokenLen = 2
)

// Từ vừa là tên tỉnh vừa là tên đường/phường phổ biến, chỉ được tính nửa điểm.
var confusingWords = map[string]struct{}{
	"hue":         {},
	"ho chi minh": {},
	"thai binh":   {},
	"nam dinh":    {},
	"hung yen":    {},
	"cao bang":    {},
	"lang son":    {},
}

// Weights trọng số chấm điểm, override được qua file cấu hình.
type Weights struct {
	Alias          int `yaml:"alias" mapstructure:"alias"`
	Token          int `yaml:"token" mapstructure:"token"`
	ConfusingToken int `yaml:"confusing_token" mapstructure:"confusing_token"`
	Bigram         int `yaml:"bigram" mapstructure:"bigram"`
}

func DefaultWeights() Weights {
	return Weights{
		Alias:          DefaultAliasWeight,
		Token:          DefaultTokenWeight,
		ConfusingToken: DefaultConfusingTokenWeight,
		Bigram:         DefaultBigramWeight,
	}
}

// Score chấm điểm một kho trên bề mặt searchStr của nó.
// Điểm chỉ cộng dồn, không bao giờ trừ: thêm token khớp không làm giảm điểm.
func (w Weights) Score(tokens, bigrams []string, aliasValue, searchStr string) int {
	score := 0
	if aliasValue != "" && strings.Contains(searchStr, aliasValue) {
		score += w.Alias
	}
	for _, token := range tokens {
		if len(token) < minScoredTokenLen {
			continue
		}
		if !strings.Contains(searchStr, token) {
			continue
		}
		if _, ok := confusingWords[token]; ok {
			score += w.ConfusingToken
		} else {
			score += w.Token
		}
	}
	for _, phrase := range bigrams {
		if strings.Contains(searchStr, phrase) {
			score += w.Bigram
		}
	}
	return score
}
