package service

import (
	"listing_wizard_v1_202610/internal/api/dto"
	"listing_wizard_v1_202610/internal/schema"
)

// CatalogService 分类目录查询
type CatalogService struct {
	registry schema.Registry
}

// NewCatalogService 创建目录服务
func NewCatalogService(registry schema.Registry) *CatalogService {
	return &CatalogService{registry: registry}
}

// Categories 全部一级分类
func (s *CatalogService) Categories() []dto.CategoryVO {
	cats := s.registry.GetCategories()
	out := make([]dto.CategoryVO, 0, len(cats))
	for _, c := range cats {
		out = append(out, dto.CategoryVO{
			ID:               c.ID,
			Name:             c.Name,
			Icon:             c.Icon,
			HasSubcategories: len(s.registry.GetSubcategories(c.ID)) > 0,
		})
	}
	return out
}

// Subcategories 分类下的子分类
func (s *CatalogService) Subcategories(categoryID string) ([]dto.SubcategoryVO, error) {
	if !categoryExists(s.registry, categoryID) {
		return nil, ErrUnknownCategory
	}

	subs := s.registry.GetSubcategories(categoryID)
	out := make([]dto.SubcategoryVO, 0, len(subs))
	for _, sub := range subs {
		out = append(out, dto.SubcategoryVO{
			ID:             sub.ID,
			CategoryID:     categoryID,
			Name:           sub.Name,
			AttributeCount: len(sub.Attributes),
		})
	}
	return out, nil
}

// SubcategoryConfig 子分类完整配置（属性定义 + 成色选项）
func (s *CatalogService) SubcategoryConfig(categoryID, subcategoryID string) (*dto.SubcategoryConfigVO, error) {
	if !categoryExists(s.registry, categoryID) {
		return nil, ErrUnknownCategory
	}
	sub, ok := s.registry.GetSubcategoryConfig(categoryID, subcategoryID)
	if !ok {
		return nil, ErrUnknownSubcategory
	}

	attrs := make([]dto.AttributeVO, 0, len(sub.Attributes))
	for _, a := range sub.Attributes {
		vo := dto.AttributeVO{
			Name:        a.Name,
			Label:       a.Label,
			Kind:        string(a.Kind),
			Required:    a.Required,
			Options:     a.Options,
			DependsOn:   a.DependsOn,
			Min:         a.Min,
			Max:         a.Max,
			Suffix:      a.Suffix,
			Placeholder: a.Placeholder,
		}
		if a.DependentOptions != nil {
			vo.DependentOptions = a.DependentOptions.Options
		}
		attrs = append(attrs, vo)
	}

	return &dto.SubcategoryConfigVO{
		ID:               sub.ID,
		CategoryID:       categoryID,
		Name:             sub.Name,
		Attributes:       attrs,
		ConditionOptions: s.registry.GetConditionOptions(categoryID, subcategoryID),
	}, nil
}
