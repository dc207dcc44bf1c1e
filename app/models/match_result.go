package models

// SearchSource tầng đã trả ra kết quả.
type SearchSource string

const (
	SourceInstant SearchSource = "INSTANT" // matcher cục bộ, không gọi mạng
	SourceAI      SearchSource = "AI"      // fallback qua mô hình ngôn ngữ
)

// MatchResult kết quả cuối trả cho người dùng, cùng một shape
// bất kể đi qua tầng nào.
type MatchResult struct {
	BranchID                string          `bson:"branch_id" json:"branchId"`
	BranchName              string          `bson:"branch_name" json:"branchName"`
	ManagerName             string          `bson:"manager_name" json:"managerName"`
	BranchAddress           string          `bson:"branch_address" json:"branchAddress"`
	PhoneNumber             string          `bson:"phone_number" json:"phoneNumber"`
	Reasoning               string          `bson:"reasoning" json:"reasoning"`
	EstimatedDistance       string          `bson:"estimated_distance" json:"estimatedDistance"`
	CustomerAddressOriginal string          `bson:"customer_address_original" json:"customerAddressOriginal"`
	HolidaySchedule         HolidaySchedule `bson:"holiday_schedule" json:"holidaySchedule"`
	SearchSource            SearchSource    `bson:"search_source" json:"searchSource"`
}
