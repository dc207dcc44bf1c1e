package requests

// BranchRequest payload tạo/sửa kho. IsActive là con trỏ để phân biệt
// "không gửi" (mặc định true) với "gửi false".
type BranchRequest struct {
	Name        string `json:"name" binding:"required"`    // Tên kho
	Manager     string `json:"manager,omitempty"`          // Người quản lý
	Address     string `json:"address" binding:"required"` // Địa chỉ kho
	PhoneNumber string `json:"phone_number,omitempty"`     // Số điện thoại
	IsActive    *bool  `json:"is_active,omitempty"`        // Trạng thái hoạt động
	Note        string `json:"note,omitempty"`             // Ghi chú
	SortIndex   int    `json:"sort_index,omitempty"`       // Thứ tự trong catalog
}

// SetActiveRequest bật/tắt kho
type SetActiveRequest struct {
	IsActive *bool `json:"is_active" binding:"required"`
}

// HolidayScheduleRequest cập nhật lịch nghỉ
type HolidayScheduleRequest struct {
	IsEnabled bool   `json:"is_enabled"`
	StartTime string `json:"start_time,omitempty"` // ISO-8601
	EndTime   string `json:"end_time,omitempty"`
	Reason    string `json:"reason,omitempty"`
}

// SeedBranchesRequest nhập catalog từ dữ liệu TSV thô
type SeedBranchesRequest struct {
	RawData string `json:"raw_data" binding:"required"` // name \t manager \t address từng dòng
}
