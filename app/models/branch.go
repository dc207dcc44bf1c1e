package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/branch-resolver/helpers/utils"
	"github.com/branch-resolver/internal/normalizer"
)

// HolidaySchedule lịch nghỉ lễ của kho. Matcher không đọc tới,
// chỉ trả kèm trong kết quả để UI hiển thị cảnh báo.
type HolidaySchedule struct {
	IsEnabled bool   `bson:"is_enabled" json:"isEnabled"`
	StartTime string `bson:"start_time,omitempty" json:"startTime,omitempty"` // ISO-8601
	EndTime   string `bson:"end_time,omitempty" json:"endTime,omitempty"`
	Reason    string `bson:"reason,omitempty" json:"reason,omitempty"`
}

// Branch một kho/chi nhánh trong catalog.
type Branch struct {
	ID          string `bson:"_id" json:"id"`
	Name        string `bson:"name" json:"name"`
	Manager     string `bson:"manager" json:"manager"`
	Address     string `bson:"address" json:"address"`
	PhoneNumber string `bson:"phone_number" json:"phoneNumber"`

	// SearchStr bề mặt văn bản duy nhất matcher chấm điểm: dạng chuẩn hóa
	// của name + address + phone, kèm thêm name lần nữa để token tên kho
	// nặng hơn token địa chỉ.
	SearchStr string `bson:"search_str" json:"searchStr"`

	HolidaySchedule HolidaySchedule `bson:"holiday_schedule" json:"holidaySchedule"`
	IsActive        bool            `bson:"is_active" json:"isActive"`
	Note            string          `bson:"note,omitempty" json:"note,omitempty"`

	// SortIndex thứ tự catalog; khi hai kho bằng điểm, kho có SortIndex
	// nhỏ hơn thắng.
	SortIndex int       `bson:"sort_index" json:"sortIndex"`
	UpdatedAt time.Time `bson:"updated_at" json:"updatedAt"`
}

// RebuildSearchStr tính lại SearchStr từ các trường hiển thị hiện tại.
// Phải gọi lại sau mỗi lần sửa Name/Address/PhoneNumber.
func (b *Branch) RebuildSearchStr() {
	b.SearchStr = normalizer.Normalize(
		b.Name + " " + b.Address + " " + b.PhoneNumber + " " + normalizer.Normalize(b.Name),
	)
}

// ApplyDefaults vá bản ghi thiếu trường về giá trị an toàn trước khi
// đưa vào catalog: sinh id nếu trống và dẫn xuất SearchStr nếu chưa có.
func (b *Branch) ApplyDefaults() {
	if b.ID == "" {
		// bản ghi mới chưa từng vào catalog: mặc định đang hoạt động,
		// chỉ false tường minh mới tắt kho
		b.IsActive = true
		b.ID = "gen-" + utils.GenerateShortID()
	}
	if b.SearchStr == "" {
		b.RebuildSearchStr()
	}
	if b.UpdatedAt.IsZero() {
		b.UpdatedAt = time.Now()
	}
}

// UnmarshalBSON bản ghi cũ trong Mongo có thể thiếu is_active. Thiếu cờ
// được coi là đang hoạt động, nếu không một kho nhập tay sẽ lặng lẽ rơi
// khỏi danh sách ứng viên của matcher.
func (b *Branch) UnmarshalBSON(data []byte) error {
	type branchAlias Branch
	if err := bson.Unmarshal(data, (*branchAlias)(b)); err != nil {
		return err
	}

	var flags struct {
		IsActive *bool `bson:"is_active"`
	}
	if err := bson.Unmarshal(data, &flags); err != nil {
		return err
	}
	b.IsActive = flags.IsActive == nil || *flags.IsActive
	return nil
}
