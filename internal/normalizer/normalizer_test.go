package normalizer

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"empty", "", ""},
		{"already normalized", "nguyen van linh da nang", "nguyen van linh da nang"},
		{"lowercase + trim", "  Hà Nội  ", "ha noi"},
		{"full tone marks a", "à á ả ã ạ ă ằ ắ ẳ ẵ ặ â ầ ấ ẩ ẫ ậ", "a a a a a a a a a a a a a a a a a"},
		{"full tone marks e", "è é ẻ ẽ ẹ ê ề ế ể ễ ệ", "e e e e e e e e e e e"},
		{"full tone marks o", "ò ó ỏ õ ọ ô ồ ố ổ ỗ ộ ơ ờ ớ ở ỡ ợ", "o o o o o o o o o o o o o o o o o"},
		{"full tone marks u", "ù ú ủ ũ ụ ư ừ ứ ử ữ ự", "u u u u u u u u u u u"},
		{"full tone marks i y", "ì í ỉ ĩ ị ỳ ý ỷ ỹ ỵ", "i i i i i y y y y y"},
		{"dj fold", "Đà Nẵng đường Điện Biên Phủ", "da nang duong dien bien phu"},
		{"punctuation to space", "123/45, Nguyễn Văn Linh - P.Thạc Gián (Q.Thanh Khê)", "123 45 nguyen van linh p thac gian q thanh khe"},
		{"collapse whitespace", "ha   noi \t viet   nam", "ha noi viet nam"},
		{"digits kept", "Số 7 ngõ 82 Trần Duy Hưng", "so 7 ngo 82 tran duy hung"},
		{"uppercase diacritics", "HỒ CHÍ MINH", "ho chi minh"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Normalize(tt.input))
		})
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	inputs := []string{
		"Đường Nguyễn Sinh Sắc, Liên Chiểu, Đà Nẵng",
		"123/45 Lê Lợi!!!",
		"   ",
		"kho trung tâm (chính)",
	}
	for _, in := range inputs {
		once := Normalize(in)
		assert.Equal(t, once, Normalize(once), "normalize phải idempotent với input %q", in)
	}
}

func TestNormalizeAlphabet(t *testing.T) {
	allowed := regexp.MustCompile(`^[a-z0-9 ]*$`)
	inputs := []string{
		"Chị Thúy — 0905.123.456 — Kho Đà Nẵng",
		"ấp 3, xã Phước Kiển, huyện Nhà Bè",
		"№5 «quoted» ©",
	}
	for _, in := range inputs {
		out := Normalize(in)
		assert.Regexp(t, allowed, out)
		assert.NotContains(t, out, "  ")
	}
}

func TestRemoveStopWords(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"admin prefixes", "thanh pho da nang quan thanh khe phuong thac gian", "da nang thanh khe thac gian"},
		{"street markers", "so 5 duong nguyen trai", "5 nguyen trai"},
		{"country suffix", "cau giay ha noi viet nam", "cau giay ha noi"},
		{"word boundary only", "toan tinh hung yen", "toan hung yen"},
		{"no substring hit", "pho co hoi an", "pho co hoi an"},
		{"multi word stop", "khu pho 3 thi xa go cong", "3 go cong"},
		{"all stop words", "thanh pho tinh quan huyen", ""},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, RemoveStopWords(tt.input))
		})
	}
}

func TestRemoveAccentsAndLowercase(t *testing.T) {
	assert.Equal(t, "kho da nang", RemoveAccentsAndLowercase("Kho Đà Nẵng"))
	assert.Equal(t, "chi thuy", RemoveAccentsAndLowercase("Chị Thúy"))
}
