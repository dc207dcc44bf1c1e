package matcher

import (
	"sort"
	"strings"
)

// AliasTable ánh xạ địa danh người dùng hay nhập sang từ khóa vùng
// có trong name/address của kho. Mọi key/value đều ở dạng đã chuẩn hóa.
type AliasTable struct {
	entries map[string]string
	// keys sắp theo độ dài giảm dần để ưu tiên địa danh dài hơn
	// ("go cong dong" thắng "go cong")
	keys []string
}

func NewAliasTable(entries map[string]string) *AliasTable {
	keys := make([]string, 0, len(entries))
	for k := range entries {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if len(keys[i]) != len(keys[j]) {
			return len(keys[i]) > len(keys[j])
		}
		return keys[i] < keys[j]
	})
	return &AliasTable{entries: entries, keys: keys}
}

// Expansion kết quả mở rộng truy vấn theo alias.
type Expansion struct {
	Query string // truy vấn sau khi nối thêm từ khóa vùng
	Key   string // địa danh khớp, rỗng nếu không có alias
	Value string // từ khóa vùng đích, rỗng nếu không có alias
}

// Expand tìm alias dài nhất xuất hiện trong truy vấn đã chuẩn hóa và NỐI
// từ khóa vùng vào cuối truy vấn (giữ nguyên phần gốc). Mỗi truy vấn chỉ
// áp dụng tối đa một alias.
func (t *AliasTable) Expand(normalizedQuery string) Expansion {
	for _, key := range t.keys {
		if strings.Contains(normalizedQuery, key) {
			value := t.entries[key]
			return Expansion{
				Query: normalizedQuery + " " + value,
				Key:   key,
				Value: value,
			}
		}
	}
	return Expansion{Query: normalizedQuery}
}

// Len số alias trong bảng.
func (t *AliasTable) Len() int {
	return len(t.entries)
}

// Entries bản sao của bảng, dùng cho API admin tra cứu.
func (t *AliasTable) Entries() map[string]string {
	out := make(map[string]string, len(t.entries))
	for k, v := range t.entries {
		out[k] = v
	}
	return out
}
