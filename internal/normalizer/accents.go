package normalizer

import (
	"strings"
	"unicode"

	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// StripDiacritics bỏ dấu nhưng giữ nguyên chữ hoa/thường và ký tự đặc biệt.
// Khác với Normalize: dùng cho dữ liệu hiển thị (tên kho đưa vào search index),
// không dùng cho pipeline chấm điểm.
func StripDiacritics(s string) string {
	t := transform.Chain(norm.NFD, transform.RemoveFunc(isMn), norm.NFC)
	out, _, _ := transform.String(t, s)
	return strings.Map(func(r rune) rune {
		if r == 'đ' {
			return 'd'
		}
		if r == 'Đ' {
			return 'D'
		}
		return r
	}, out)
}

// isMn kiểm tra xem rune có phải là diacritic mark không
func isMn(r rune) bool {
	return unicode.Is(unicode.Mn, r)
}

// RemoveAccentsAndLowercase loại bỏ dấu và chuyển về lowercase
func RemoveAccentsAndLowercase(s string) string {
	return strings.ToLower(StripDiacritics(s))
}
