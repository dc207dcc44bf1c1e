package requests

// ResolveRequest request tra kho cho một địa chỉ khách
type ResolveRequest struct {
	Address string         `json:"address" binding:"required"` // Địa chỉ khách nhập
	Options ResolveOptions `json:"options,omitempty"`          // Tùy chọn tra cứu
}

// ResolveOptions tùy chọn tra cứu
type ResolveOptions struct {
	UseCache bool `json:"use_cache,omitempty"` // Có dùng cache kết quả không
}
