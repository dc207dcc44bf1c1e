package services

import (
	"context"
	"fmt"
	"math"
	"regexp"
	"strings"
	"time"

	"github.com/agnivade/levenshtein"
	"github.com/xrash/smetrics"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/branch-resolver/app/models"
	"github.com/branch-resolver/helpers/utils"
	"github.com/branch-resolver/internal/search"
)

// CatalogService quản lý danh sách kho trong MongoDB. Mọi thao tác ghi đều
// dẫn xuất lại search_str và bump catalog version để cache biết mà vứt bỏ.
type CatalogService struct {
	collection *mongo.Collection
	indexer    *search.BranchIndexer // nil nếu không bật Meilisearch
	logger     *zap.Logger
}

func NewCatalogService(db *mongo.Database, indexer *search.BranchIndexer, logger *zap.Logger) *CatalogService {
	collection := db.Collection("branches")

	indexModels := []mongo.IndexModel{
		{Keys: bson.D{bson.E{Key: "sort_index", Value: 1}}},
		{Keys: bson.D{bson.E{Key: "is_active", Value: 1}}},
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if _, err := collection.Indexes().CreateMany(ctx, indexModels); err != nil {
		logger.Warn("Không thể tạo indexes cho branches", zap.Error(err))
	}

	return &CatalogService{
		collection: collection,
		indexer:    indexer,
		logger:     logger,
	}
}

// ListBranches trả về toàn bộ catalog theo thứ tự sort_index. Thứ tự này
// cũng là tie-break của matcher nên phải ổn định.
func (cs *CatalogService) ListBranches(ctx context.Context) ([]models.Branch, error) {
	opts := options.Find().SetSort(bson.D{bson.E{Key: "sort_index", Value: 1}})

	cursor, err := cs.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("lỗi query branches: %w", err)
	}
	defer cursor.Close(ctx)

	var branches []models.Branch
	if err := cursor.All(ctx, &branches); err != nil {
		return nil, fmt.Errorf("lỗi decode branches: %w", err)
	}

	// bản ghi cũ có thể thiếu search_str, rebuild tại chỗ để matcher
	// không phải xử lý chuỗi rỗng
	for i := range branches {
		if branches[i].SearchStr == "" {
			branches[i].RebuildSearchStr()
		}
	}
	return branches, nil
}

// GetBranch lấy một kho theo id
func (cs *CatalogService) GetBranch(ctx context.Context, id string) (*models.Branch, error) {
	var branch models.Branch
	err := cs.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&branch)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, fmt.Errorf("không tìm thấy kho %s", id)
		}
		return nil, fmt.Errorf("lỗi query branch: %w", err)
	}
	return &branch, nil
}

// CreateBranch thêm kho mới vào catalog
func (cs *CatalogService) CreateBranch(ctx context.Context, branch *models.Branch) error {
	branch.ApplyDefaults()
	branch.RebuildSearchStr()
	branch.UpdatedAt = time.Now()

	if branch.SortIndex == 0 {
		count, err := cs.collection.CountDocuments(ctx, bson.M{})
		if err == nil {
			branch.SortIndex = int(count) + 1
		}
	}

	if _, err := cs.collection.InsertOne(ctx, branch); err != nil {
		return fmt.Errorf("lỗi insert branch: %w", err)
	}

	cs.syncIndexer(ctx, *branch)
	cs.logger.Info("Đã thêm kho", zap.String("id", branch.ID), zap.String("name", branch.Name))
	return nil
}

// UpdateBranch sửa thông tin kho, search_str luôn được dẫn xuất lại
func (cs *CatalogService) UpdateBranch(ctx context.Context, branch *models.Branch) error {
	branch.RebuildSearchStr()
	branch.UpdatedAt = time.Now()

	result, err := cs.collection.ReplaceOne(ctx, bson.M{"_id": branch.ID}, branch)
	if err != nil {
		return fmt.Errorf("lỗi update branch: %w", err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("không tìm thấy kho %s", branch.ID)
	}

	cs.syncIndexer(ctx, *branch)
	cs.logger.Info("Đã cập nhật kho", zap.String("id", branch.ID))
	return nil
}

// DeleteBranch xóa kho khỏi catalog
func (cs *CatalogService) DeleteBranch(ctx context.Context, id string) error {
	result, err := cs.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("lỗi delete branch: %w", err)
	}
	if result.DeletedCount == 0 {
		return fmt.Errorf("không tìm thấy kho %s", id)
	}

	if cs.indexer != nil {
		if err := cs.indexer.DeleteBranch(ctx, id); err != nil {
			cs.logger.Warn("Lỗi xóa kho khỏi search index", zap.Error(err), zap.String("id", id))
		}
	}

	cs.logger.Info("Đã xóa kho", zap.String("id", id))
	return nil
}

// SetActive bật/tắt một kho. Kho tắt vẫn nằm trong catalog nhưng không
// bao giờ được chọn làm kết quả.
func (cs *CatalogService) SetActive(ctx context.Context, id string, active bool) error {
	update := bson.M{"$set": bson.M{"is_active": active, "updated_at": time.Now()}}

	result, err := cs.collection.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return fmt.Errorf("lỗi set active: %w", err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("không tìm thấy kho %s", id)
	}

	cs.logger.Info("Đã đổi trạng thái kho", zap.String("id", id), zap.Bool("active", active))
	return nil
}

// SetHolidaySchedule cập nhật lịch nghỉ của kho
func (cs *CatalogService) SetHolidaySchedule(ctx context.Context, id string, schedule models.HolidaySchedule) error {
	update := bson.M{"$set": bson.M{"holiday_schedule": schedule, "updated_at": time.Now()}}

	result, err := cs.collection.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return fmt.Errorf("lỗi set holiday schedule: %w", err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("không tìm thấy kho %s", id)
	}
	return nil
}

// CatalogVersion fingerprint thô của trạng thái catalog: đổi khi có bản ghi
// mới hoặc bản ghi được sửa.
func (cs *CatalogService) CatalogVersion(ctx context.Context) (string, error) {
	count, err := cs.collection.CountDocuments(ctx, bson.M{})
	if err != nil {
		return "", fmt.Errorf("lỗi đếm branches: %w", err)
	}

	opts := options.FindOne().SetSort(bson.D{bson.E{Key: "updated_at", Value: -1}})
	var latest models.Branch
	err = cs.collection.FindOne(ctx, bson.M{}, opts).Decode(&latest)
	if err != nil && err != mongo.ErrNoDocuments {
		return "", fmt.Errorf("lỗi lấy branch mới nhất: %w", err)
	}

	return fmt.Sprintf("v%d-%d", count, latest.UpdatedAt.Unix()), nil
}

// SeedBranches nhập danh sách kho (thay toàn bộ catalog)
func (cs *CatalogService) SeedBranches(ctx context.Context, branches []models.Branch) error {
	if _, err := cs.collection.DeleteMany(ctx, bson.M{}); err != nil {
		return fmt.Errorf("lỗi xóa catalog cũ: %w", err)
	}

	docs := make([]interface{}, len(branches))
	for i := range branches {
		docs[i] = branches[i]
	}

	if len(docs) > 0 {
		if _, err := cs.collection.InsertMany(ctx, docs); err != nil {
			return fmt.Errorf("lỗi insert catalog: %w", err)
		}
	}

	if cs.indexer != nil {
		if err := cs.indexer.IndexBranches(ctx, branches); err != nil {
			cs.logger.Warn("Lỗi index catalog vào Meilisearch", zap.Error(err))
		}
	}

	cs.logger.Info("Đã seed catalog", zap.Int("branches", len(branches)))
	return nil
}

// SearchBranches tìm kho cho màn hình admin qua Meilisearch
func (cs *CatalogService) SearchBranches(ctx context.Context, query string, limit int) ([]search.BranchDoc, error) {
	if cs.indexer == nil {
		return nil, fmt.Errorf("search index chưa được cấu hình")
	}
	return cs.indexer.SearchBranches(ctx, query, limit)
}

func (cs *CatalogService) syncIndexer(ctx context.Context, branch models.Branch) {
	if cs.indexer == nil {
		return
	}
	if err := cs.indexer.IndexBranches(ctx, []models.Branch{branch}); err != nil {
		cs.logger.Warn("Lỗi sync kho sang search index", zap.Error(err), zap.String("id", branch.ID))
	}
}

// --- SEED DATA PARSING ---

// regex cứu các dòng không đủ cột tab: tách theo prefix tên người quản lý
var seedLinePattern = regexp.MustCompile(`^(.+?)\s+((?:Chị|Anh|Cô|Chú|Thúy|Thu|Linh|Hoàng|Tổ|Kho|Nhà xe).+?)\s+(.+)$`)

// ParseSeedBranches parse dữ liệu kho dạng TSV (name \t manager \t address).
// Dòng hỏng bị bỏ qua thay vì làm fail cả đợt nhập.
func ParseSeedBranches(raw string) []models.Branch {
	lines := strings.Split(raw, "\n")
	branches := make([]models.Branch, 0, len(lines))

	for i, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}

		parts := strings.Split(line, "\t")
		if len(parts) < 3 {
			m := seedLinePattern.FindStringSubmatch(line)
			if m == nil {
				continue
			}
			parts = m[1:4]
		}

		name := strings.TrimSpace(parts[0])
		manager := strings.TrimSpace(parts[1])
		address := strings.TrimSpace(parts[2])
		if strings.HasPrefix(address, `"`) && strings.HasSuffix(address, `"`) {
			address = strings.Trim(address, `"`)
		}

		if name == "" || address == "" {
			continue
		}
		if manager == "" {
			manager = "Quản lý kho"
		}

		branch := models.Branch{
			ID:        fmt.Sprintf("init-%d-%s", i, utils.GenerateShortID()),
			Name:      name,
			Manager:   manager,
			Address:   address,
			IsActive:  true,
			SortIndex: i + 1,
			UpdatedAt: time.Now(),
		}
		branch.RebuildSearchStr()
		branches = append(branches, branch)
	}

	return branches
}

// --- NEAR-DUPLICATE DETECTION ---

// ngưỡng coi hai search_str là bản ghi trùng
const duplicateSimilarityThreshold = 0.90

// SuggestDuplicates quét catalog tìm các cặp kho có search_str gần giống
// nhau, gợi ý cho admin dọn dẹp.
func (cs *CatalogService) SuggestDuplicates(ctx context.Context) ([]models.DuplicatePair, error) {
	branches, err := cs.ListBranches(ctx)
	if err != nil {
		return nil, err
	}
	return findDuplicatePairs(branches), nil
}

func findDuplicatePairs(branches []models.Branch) []models.DuplicatePair {
	var pairs []models.DuplicatePair

	for i := 0; i < len(branches); i++ {
		for j := i + 1; j < len(branches); j++ {
			sim := similarity(branches[i].SearchStr, branches[j].SearchStr)
			if sim >= duplicateSimilarityThreshold {
				pairs = append(pairs, models.DuplicatePair{
					FirstID:    branches[i].ID,
					FirstName:  branches[i].Name,
					SecondID:   branches[j].ID,
					SecondName: branches[j].Name,
					Similarity: sim,
				})
			}
		}
	}
	return pairs
}

// similarity kết hợp Jaro-Winkler và Levenshtein, lấy điểm cao hơn
func similarity(a, b string) float64 {
	if a == "" || b == "" {
		return 0
	}

	jaroScore := smetrics.JaroWinkler(a, b, 0.7, 4)

	levDist := levenshtein.ComputeDistance(a, b)
	maxLen := math.Max(float64(len(a)), float64(len(b)))
	levScore := 1.0 - (float64(levDist) / maxLen)

	return math.Max(jaroScore, levScore)
}
