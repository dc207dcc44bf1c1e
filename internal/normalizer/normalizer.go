package normalizer

import (
	"regexp"
	"strings"

	"github.com/mozillazg/go-unidecode"
)

var (
	reNonAlnum = regexp.MustCompile(`[^a-z0-9\s]`)
	reSpaces   = regexp.MustCompile(`\s+`)
)

// Normalize đưa chuỗi về dạng chuẩn không dấu: lowercase, bỏ dấu tiếng Việt,
// thay mọi ký tự không phải chữ/số bằng khoảng trắng rồi gọn khoảng trắng.
// Kết quả chỉ chứa [a-z0-9 ] và idempotent: Normalize(Normalize(x)) == Normalize(x).
func Normalize(raw string) string {
	if raw == "" {
		return ""
	}
	s := strings.ToLower(strings.TrimSpace(raw))
	// đ không phải combining mark nên xử lý riêng trước khi unidecode
	s = strings.ReplaceAll(s, "đ", "d")
	s = unidecode.Unidecode(s)
	s = reNonAlnum.ReplaceAllString(s, " ")
	s = reSpaces.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}
