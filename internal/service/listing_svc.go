package service

import (
	"context"
	"time"

	"listing_wizard_v1_202610/internal/api/dto"
	"listing_wizard_v1_202610/internal/model"
	"listing_wizard_v1_202610/internal/repository"
)

// ListingService 已发布商品查询
type ListingService struct {
	repo repository.ListingRepository
}

// NewListingService 创建商品服务
func NewListingService(repo repository.ListingRepository) *ListingService {
	return &ListingService{repo: repo}
}

// List 当前用户的商品
func (s *ListingService) List(ctx context.Context, userID int64, req *dto.ListListingsRequest) (*dto.ListingListResponse, error) {
	if userID <= 0 {
		return nil, ErrUnauthenticated
	}

	listings, total, err := s.repo.ListByUser(ctx, repository.ListingFilter{
		UserID:     userID,
		CategoryID: req.CategoryID,
		Status:     req.Status,
		Page:       req.Page,
		PageSize:   req.PageSize,
	})
	if err != nil {
		return nil, err
	}

	list := make([]dto.ListingVO, 0, len(listings))
	for i := range listings {
		list = append(list, toListingVO(&listings[i]))
	}
	return &dto.ListingListResponse{Total: total, Page: req.Page, List: list}, nil
}

// Get 商品详情，只能查看自己的商品
func (s *ListingService) Get(ctx context.Context, userID int64, id string) (*dto.ListingVO, error) {
	if userID <= 0 {
		return nil, ErrUnauthenticated
	}

	pk, err := repository.ParseListingID(id)
	if err != nil {
		return nil, err
	}
	listing, err := s.repo.GetByID(ctx, pk)
	if err != nil {
		return nil, err
	}
	if listing.UserID != userID {
		// 不暴露其他用户商品是否存在
		return nil, repository.ErrListingNotFound
	}

	vo := toListingVO(listing)
	return &vo, nil
}

func toListingVO(l *model.Listing) dto.ListingVO {
	contacts := make([]dto.ContactMethodVO, 0, len(l.ContactMethods))
	for _, c := range l.ContactMethods {
		contacts = append(contacts, dto.ContactMethodVO{Type: c.Type, Value: c.Value})
	}
	images := []string(l.Images)
	if images == nil {
		images = []string{}
	}

	return dto.ListingVO{
		ID:             string(l.ListingID()),
		Title:          l.Title,
		Description:    l.Description,
		Price:          l.Price,
		Currency:       l.Currency,
		Negotiable:     l.Negotiable,
		CategoryID:     l.CategoryID,
		SubcategoryID:  l.SubcategoryID,
		Condition:      l.Condition,
		Attributes:     l.Attributes,
		Location:       l.Location,
		ContactMethods: contacts,
		Images:         images,
		Status:         l.Status,
		CreatedAt:      l.CreatedAt.Format(time.RFC3339),
	}
}
