package model

import (
	"strconv"

	"gorm.io/datatypes"

	"listing_wizard_v1_202610/internal/wizard"
)

// ==================== 状态常量 ====================

const (
	ListingStatusActive   = "active"
	ListingStatusArchived = "archived"
)

// ==================== 商品 ====================

// Listing 向导提交后落库的商品
type Listing struct {
	BaseModel

	UserID        int64   `gorm:"index;not null" json:"user_id"`
	Title         string  `gorm:"size:200;not null" json:"title"`
	Description   string  `gorm:"type:text" json:"description"`
	Price         float64 `gorm:"not null" json:"price"`
	Currency      string  `gorm:"size:8;default:EUR" json:"currency"`
	Negotiable    bool    `json:"negotiable"`
	CategoryID    string  `gorm:"size:64;index" json:"category_id"`
	SubcategoryID string  `gorm:"size:64" json:"subcategory_id"`
	Condition     string  `gorm:"size:64" json:"condition"`
	Location      string  `gorm:"size:255" json:"location"`
	Status        string  `gorm:"size:32;index;default:active" json:"status"`

	// JSON 列：postgres 为 jsonb，sqlite 为 json
	Attributes     datatypes.JSONMap                        `json:"attributes"`
	ContactMethods datatypes.JSONSlice[wizard.ContactMethod] `json:"contact_methods"`
	Images         datatypes.JSONSlice[string]              `json:"images"`
}

func (Listing) TableName() string {
	return "listings"
}

// NewListingFromPayload 由提交载荷构建商品
func NewListingFromPayload(p *wizard.ListingPayload, userID int64) *Listing {
	attrs := make(datatypes.JSONMap, len(p.Attributes))
	for k, v := range p.Attributes {
		attrs[k] = v
	}
	contacts := make([]wizard.ContactMethod, len(p.ContactMethods))
	copy(contacts, p.ContactMethods)
	images := make([]string, len(p.Images))
	copy(images, p.Images)

	return &Listing{
		UserID:         userID,
		Title:          p.Title,
		Description:    p.Description,
		Price:          p.Price,
		Currency:       p.Currency,
		Negotiable:     p.Negotiable,
		CategoryID:     p.CategoryID,
		SubcategoryID:  p.SubcategoryID,
		Condition:      p.Condition,
		Location:       p.Location,
		Status:         ListingStatusActive,
		Attributes:     attrs,
		ContactMethods: contacts,
		Images:         images,
	}
}

// ListingID 对外的商品 ID
func (l *Listing) ListingID() wizard.ListingID {
	return wizard.ListingID(strconv.FormatInt(l.ID, 10))
}
