package utils

import (
	"crypto/rand"
	"fmt"
)

// GenerateUUID tạo UUID v4
func GenerateUUID() string {
	b := make([]byte, 16)
	rand.Read(b)
	// version 4, variant RFC 4122
	b[6] = (b[6] & 0x0f) | 0x40
	b[8] = (b[8] & 0x3f) | 0x80
	return fmt.Sprintf("%x-%x-%x-%x-%x", b[0:4], b[4:6], b[6:8], b[8:10], b[10:])
}

// GenerateShortID tạo ID ngắn (8 ký tự hex), dùng cho id kho sinh tự động
func GenerateShortID() string {
	b := make([]byte, 4)
	rand.Read(b)
	return fmt.Sprintf("%x", b)
}
