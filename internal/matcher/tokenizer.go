package matcher

import (
	"strings"

	"github.com/branch-resolver/internal/normalizer"
)

// Tokenize tách truy vấn đã mở rộng thành token sau khi loại từ dừng.
func Tokenize(expandedQuery string) []string {
	return strings.Fields(normalizer.RemoveStopWords(expandedQuery))
}

// Bigrams ghép mọi cặp token liền kề, kể cả token ngắn,
// làm tín hiệu cụm từ khi chấm điểm.
func Bigrams(tokens []string) []string {
	if len(tokens) < 2 {
		return nil
	}
	out := make([]string, 0, len(tokens)-1)
	for i := 0; i < len(tokens)-1; i++ {
		out = append(out, tokens[i]+" "+tokens[i+1])
	}
	return out
}
