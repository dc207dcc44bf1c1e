package search

import (
	"context"
	"fmt"

	ms "github.com/meilisearch/meilisearch-go"
	"go.uber.org/zap"

	"github.com/branch-resolver/app/models"
	"github.com/branch-resolver/internal/normalizer"
)

const branchIndexName = "branches"

// BranchDoc document kho trong Meilisearch. NormalizedName để admin gõ
// không dấu vẫn tìm ra kho.
type BranchDoc struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	NormalizedName string `json:"normalized_name"`
	Manager        string `json:"manager"`
	Address        string `json:"address"`
	IsActive       bool   `json:"is_active"`
}

// BranchIndexer đẩy catalog kho vào Meilisearch phục vụ màn hình admin.
// Index này hoàn toàn tách khỏi pipeline chấm điểm: matcher không bao giờ
// đọc từ đây.
type BranchIndexer struct {
	client *ClientWrapper
	logger *zap.Logger
}

func NewBranchIndexer(client *ClientWrapper, logger *zap.Logger) *BranchIndexer {
	return &BranchIndexer{client: client, logger: logger}
}

// EnsureIndex cấu hình searchable/filterable attributes cho index kho
func (bi *BranchIndexer) EnsureIndex(ctx context.Context) error {
	idx := bi.client.Index(branchIndexName)

	_, err := idx.UpdateSettings(&ms.Settings{
		SearchableAttributes: []string{"name", "normalized_name", "address", "manager"},
		FilterableAttributes: []string{"is_active"},
	})
	if err != nil {
		return fmt.Errorf("lỗi cấu hình branch index: %w", err)
	}

	bi.logger.Info("Đã cấu hình branch index", zap.String("index", branchIndexName))
	return nil
}

// IndexBranches upsert danh sách kho vào index
func (bi *BranchIndexer) IndexBranches(ctx context.Context, branches []models.Branch) error {
	if len(branches) == 0 {
		return nil
	}

	docs := make([]BranchDoc, len(branches))
	for i, b := range branches {
		docs[i] = BranchDoc{
			ID:             b.ID,
			Name:           b.Name,
			NormalizedName: normalizer.RemoveAccentsAndLowercase(b.Name),
			Manager:        b.Manager,
			Address:        b.Address,
			IsActive:       b.IsActive,
		}
	}

	idx := bi.client.Index(branchIndexName)
	if _, err := idx.AddDocuments(docs, "id"); err != nil {
		return fmt.Errorf("lỗi index branches: %w", err)
	}

	bi.logger.Debug("Đã index branches", zap.Int("count", len(docs)))
	return nil
}

// DeleteBranch gỡ một kho khỏi index
func (bi *BranchIndexer) DeleteBranch(ctx context.Context, id string) error {
	idx := bi.client.Index(branchIndexName)
	if _, err := idx.DeleteDocument(id); err != nil {
		return fmt.Errorf("lỗi xóa document %s: %w", id, err)
	}
	return nil
}

// SearchBranches tìm kho theo từ khóa admin gõ
func (bi *BranchIndexer) SearchBranches(ctx context.Context, query string, limit int) ([]BranchDoc, error) {
	if limit <= 0 {
		limit = 20
	}

	resp, err := bi.client.SearchIndex(branchIndexName, query, "", int64(limit))
	if err != nil {
		return nil, fmt.Errorf("lỗi search branches: %w", err)
	}

	return parseBranchHits(resp), nil
}

// parseBranchHits parse kết quả từ Meilisearch thành BranchDoc
func parseBranchHits(result *ms.SearchResponse) []BranchDoc {
	docs := make([]BranchDoc, 0, len(result.Hits))

	for _, hit := range result.Hits {
		hitMap, ok := hit.(map[string]interface{})
		if !ok {
			continue
		}

		doc := BranchDoc{}
		if id, ok := hitMap["id"].(string); ok {
			doc.ID = id
		}
		if name, ok := hitMap["name"].(string); ok {
			doc.Name = name
		}
		if normalizedName, ok := hitMap["normalized_name"].(string); ok {
			doc.NormalizedName = normalizedName
		}
		if manager, ok := hitMap["manager"].(string); ok {
			doc.Manager = manager
		}
		if address, ok := hitMap["address"].(string); ok {
			doc.Address = address
		}
		if isActive, ok := hitMap["is_active"].(bool); ok {
			doc.IsActive = isActive
		}
		docs = append(docs, doc)
	}

	return docs
}
