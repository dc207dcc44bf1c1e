package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
)

func TestApplyDefaultsFreshBranchIsActive(t *testing.T) {
	b := Branch{Name: "Kho Đà Nẵng", Address: "72 Điện Biên Phủ, Thanh Khê, Đà Nẵng"}
	b.ApplyDefaults()

	assert.True(t, b.IsActive, "kho mới không gửi cờ phải mặc định hoạt động")
	assert.NotEmpty(t, b.ID)
	assert.NotEmpty(t, b.SearchStr)
	assert.False(t, b.UpdatedAt.IsZero())
}

func TestApplyDefaultsKeepsExplicitInactive(t *testing.T) {
	b := Branch{ID: "br-dn", Name: "Kho Đà Nẵng", Address: "72 Điện Biên Phủ", IsActive: false}
	b.ApplyDefaults()

	// bản ghi đã có id: cờ false tường minh phải giữ nguyên
	assert.False(t, b.IsActive)
	assert.Equal(t, "br-dn", b.ID)
}

func TestBranchDecodeMissingActiveFlag(t *testing.T) {
	cases := []struct {
		name string
		doc  bson.M
		want bool
	}{
		{
			name: "thiếu is_active coi như hoạt động",
			doc:  bson.M{"_id": "br-1", "name": "Kho Liên Chiểu", "address": "72 Nguyễn Sinh Sắc"},
			want: true,
		},
		{
			name: "is_active true",
			doc:  bson.M{"_id": "br-2", "name": "Kho Cẩm Lệ", "address": "45 Trường Chinh", "is_active": true},
			want: true,
		},
		{
			name: "is_active false tường minh",
			doc:  bson.M{"_id": "br-3", "name": "Kho Sơn Trà", "address": "18 Ngô Quyền", "is_active": false},
			want: false,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			raw, err := bson.Marshal(tc.doc)
			require.NoError(t, err)

			var b Branch
			require.NoError(t, bson.Unmarshal(raw, &b))

			assert.Equal(t, tc.want, b.IsActive)
			assert.NotEmpty(t, b.Name, "các trường khác vẫn phải decode bình thường")
		})
	}
}
