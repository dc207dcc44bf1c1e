package normalizer

import (
	"regexp"
	"strings"
)

// Từ hành chính/đệm không mang tín hiệu phân biệt giữa các kho.
// Thứ tự có chủ đích: cụm dài đứng trước từ đơn cùng gốc.
var stopWords = []string{
	"thanh pho", "tinh", "quan", "huyen", "thi xa", "thi tran", "phuong", "xa", "ap",
	"duong", "so", "nha", "ngo", "ngach", "hem", "khu pho", "to", "viet nam", "vn",
}

var stopWordPatterns = buildStopWordPatterns()

func buildStopWordPatterns() []*regexp.Regexp {
	patterns := make([]*regexp.Regexp, 0, len(stopWords))
	for _, w := range stopWords {
		patterns = append(patterns, regexp.MustCompile(`\b`+regexp.QuoteMeta(w)+`\b`))
	}
	return patterns
}

// RemoveStopWords loại từ dừng theo ranh giới từ (không đụng vào chuỗi con
// bên trong từ khác, vd "to" trong "toan"), rồi gọn lại khoảng trắng.
// Input phải ở dạng đã Normalize.
func RemoveStopWords(text string) string {
	processed := text
	for _, p := range stopWordPatterns {
		processed = p.ReplaceAllString(processed, " ")
	}
	processed = reSpaces.ReplaceAllString(processed, " ")
	return strings.TrimSpace(processed)
}
