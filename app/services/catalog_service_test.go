package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/branch-resolver/app/models"
)

func TestParseSeedBranches(t *testing.T) {
	raw := "Kho Liên Chiểu\tChị Thúy\t123 Nguyễn Sinh Sắc, Liên Chiểu, Đà Nẵng\n" +
		"Kho Hà Nội\tAnh Linh\t\"Số 8 Xuân Thủy, Cầu Giấy\"\n" +
		"\n" +
		"dòng rác không parse được\n" +
		"Kho Cẩm Lệ Anh Hoàng 45 Trường Chinh, Cẩm Lệ\n"

	branches := ParseSeedBranches(raw)
	require.Len(t, branches, 3)

	assert.Equal(t, "Kho Liên Chiểu", branches[0].Name)
	assert.Equal(t, "Chị Thúy", branches[0].Manager)
	assert.True(t, branches[0].IsActive)
	assert.NotEmpty(t, branches[0].ID)
	assert.Contains(t, branches[0].SearchStr, "nguyen sinh sac")
	assert.Contains(t, branches[0].SearchStr, "kho lien chieu")

	// dấu nháy kép bao quanh địa chỉ phải được gỡ
	assert.Equal(t, "Số 8 Xuân Thủy, Cầu Giấy", branches[1].Address)

	// dòng thiếu tab nhưng khớp pattern tên quản lý vẫn parse được
	assert.Equal(t, "Kho Cẩm Lệ", branches[2].Name)
	assert.Equal(t, "Anh Hoàng", branches[2].Manager)
	assert.Equal(t, "45 Trường Chinh, Cẩm Lệ", branches[2].Address)

	// sort index tăng dần theo thứ tự dòng
	assert.Less(t, branches[0].SortIndex, branches[1].SortIndex)
	assert.Less(t, branches[1].SortIndex, branches[2].SortIndex)
}

func TestParseSeedBranchesEmpty(t *testing.T) {
	assert.Empty(t, ParseSeedBranches(""))
	assert.Empty(t, ParseSeedBranches("\n\n\n"))
}

func TestRebuildSearchStrInvariant(t *testing.T) {
	b := models.Branch{
		Name:        "Kho Đà Nẵng",
		Address:     "72 Điện Biên Phủ, Thanh Khê",
		PhoneNumber: "0905.123.456",
	}
	b.RebuildSearchStr()

	// tên kho xuất hiện hai lần để token tên nặng hơn token địa chỉ
	assert.Equal(t, "kho da nang 72 dien bien phu thanh khe 0905 123 456 kho da nang", b.SearchStr)

	// đổi địa chỉ rồi rebuild phải cho bề mặt mới
	b.Address = "15 Nguyễn Văn Linh, Hải Châu"
	b.RebuildSearchStr()
	assert.Contains(t, b.SearchStr, "nguyen van linh")
	assert.NotContains(t, b.SearchStr, "dien bien phu")
}

func TestApplyDefaults(t *testing.T) {
	b := models.Branch{Name: "Kho Test", Address: "1 Đường Test"}
	b.ApplyDefaults()

	assert.NotEmpty(t, b.ID)
	assert.NotEmpty(t, b.SearchStr)
	assert.False(t, b.UpdatedAt.IsZero())

	// id đã có thì không được sinh lại
	b2 := models.Branch{ID: "giu-nguyen", Name: "Kho Test", Address: "1 Đường Test"}
	b2.ApplyDefaults()
	assert.Equal(t, "giu-nguyen", b2.ID)
}

func TestFindDuplicatePairs(t *testing.T) {
	branches := []models.Branch{
		{ID: "a", Name: "Kho Liên Chiểu", SearchStr: "kho lien chieu 123 nguyen sinh sac da nang"},
		{ID: "b", Name: "Kho Liên Chiểu (cũ)", SearchStr: "kho lien chieu 123 nguyen sinh sac da nang"},
		{ID: "c", Name: "Kho Hà Nội", SearchStr: "kho ha noi so 8 xuan thuy cau giay"},
	}

	pairs := findDuplicatePairs(branches)
	require.Len(t, pairs, 1)
	assert.Equal(t, "a", pairs[0].FirstID)
	assert.Equal(t, "b", pairs[0].SecondID)
	assert.InDelta(t, 1.0, pairs[0].Similarity, 1e-9)
}

func TestSimilarity(t *testing.T) {
	assert.InDelta(t, 1.0, similarity("kho da nang", "kho da nang"), 1e-9)
	assert.Zero(t, similarity("", "kho da nang"))
	assert.Less(t, similarity("kho ha noi", "kho ca mau"), duplicateSimilarityThreshold)
	// sai khác một ký tự trên chuỗi dài vẫn trên ngưỡng trùng
	assert.GreaterOrEqual(t, similarity("kho lien chieu da nang", "kho lien chieu da nangg"), duplicateSimilarityThreshold)
}
