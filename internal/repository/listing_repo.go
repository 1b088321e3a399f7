package repository

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"listing_wizard_v1_202610/internal/middleware"
	"listing_wizard_v1_202610/internal/model"
	"listing_wizard_v1_202610/internal/wizard"
)

// ErrListingNotFound 商品不存在
var ErrListingNotFound = errors.New("商品不存在")

// ==================== 仓储接口 ====================

// ListingRepository 商品仓储接口
type ListingRepository interface {
	Create(ctx context.Context, payload *wizard.ListingPayload, userID int64) (*model.Listing, error)
	GetByID(ctx context.Context, id int64) (*model.Listing, error)
	ListByUser(ctx context.Context, filter ListingFilter) ([]model.Listing, int64, error)
}

// ==================== 过滤条件 ====================

// ListingFilter 商品过滤条件
type ListingFilter struct {
	UserID     int64
	CategoryID string
	Status     string
	Page       int
	PageSize   int
}

// normalize 分页默认值
func (f *ListingFilter) normalize() {
	if f.Page <= 0 {
		f.Page = 1
	}
	if f.PageSize <= 0 {
		f.PageSize = 20
	}
	if f.PageSize > 100 {
		f.PageSize = 100
	}
}

// ==================== 仓储实现 ====================

type listingRepo struct {
	db *gorm.DB
}

// NewListingRepository 创建商品仓储
func NewListingRepository(db *gorm.DB) ListingRepository {
	return &listingRepo{db: db}
}

func (r *listingRepo) Create(ctx context.Context, payload *wizard.ListingPayload, userID int64) (*model.Listing, error) {
	listing := model.NewListingFromPayload(payload, userID)
	if err := r.db.WithContext(ctx).Create(listing).Error; err != nil {
		return nil, err
	}
	return listing, nil
}

func (r *listingRepo) GetByID(ctx context.Context, id int64) (*model.Listing, error) {
	var listing model.Listing
	if err := r.db.WithContext(ctx).First(&listing, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrListingNotFound
		}
		return nil, err
	}
	return &listing, nil
}

func (r *listingRepo) ListByUser(ctx context.Context, filter ListingFilter) ([]model.Listing, int64, error) {
	filter.normalize()

	var listings []model.Listing
	var total int64

	query := r.db.WithContext(ctx).Model(&model.Listing{}).Where("user_id = ?", filter.UserID)
	if filter.CategoryID != "" {
		query = query.Where("category_id = ?", filter.CategoryID)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.PageSize
	err := query.Order(clause.OrderBy{Columns: []clause.OrderByColumn{
		{Column: clause.Column{Name: "created_at"}, Desc: true},
		{Column: clause.Column{Name: "id"}, Desc: true},
	}}).Offset(offset).Limit(filter.PageSize).Find(&listings).Error
	return listings, total, err
}

// ==================== ListingCreator 适配 ====================

// DBListingCreator 把商品仓储适配为向导的上架服务
// 用户 ID 取自请求上下文中的审计信息
type DBListingCreator struct {
	repo ListingRepository
}

var _ wizard.ListingCreator = (*DBListingCreator)(nil)

// NewDBListingCreator 创建数据库上架服务
func NewDBListingCreator(repo ListingRepository) *DBListingCreator {
	return &DBListingCreator{repo: repo}
}

// Create 落库，失败统一包装为 *wizard.SubmissionError
func (c *DBListingCreator) Create(ctx context.Context, payload *wizard.ListingPayload) (wizard.ListingID, error) {
	userID := middleware.GetAuditUserID(ctx)
	if userID == 0 {
		return "", &wizard.SubmissionError{Detail: "未登录，无法发布", Err: errors.New("missing user in context")}
	}

	listing, err := c.repo.Create(ctx, payload, userID)
	if err != nil {
		return "", &wizard.SubmissionError{Err: fmt.Errorf("保存商品失败: %w", err)}
	}
	return listing.ListingID(), nil
}

// ParseListingID 把对外的商品 ID 转回主键
func ParseListingID(id string) (int64, error) {
	n, err := strconv.ParseInt(id, 10, 64)
	if err != nil || n <= 0 {
		return 0, ErrListingNotFound
	}
	return n, nil
}
