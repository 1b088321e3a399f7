package dto

// ListListingsRequest 我的商品列表
type ListListingsRequest struct {
	CategoryID string `form:"category_id"`
	Status     string `form:"status" binding:"omitempty,oneof=active archived"`
	Page       int    `form:"page,default=1" binding:"min=1"`
	PageSize   int    `form:"page_size,default=20" binding:"min=1,max=100"`
}

// ContactMethodVO 联系方式
type ContactMethodVO struct {
	Type  string `json:"type"`
	Value string `json:"value,omitempty"`
}

// ListingVO 商品
type ListingVO struct {
	ID             string                 `json:"id"`
	Title          string                 `json:"title"`
	Description    string                 `json:"description"`
	Price          float64                `json:"price"`
	Currency       string                 `json:"currency"`
	Negotiable     bool                   `json:"negotiable"`
	CategoryID     string                 `json:"category_id"`
	SubcategoryID  string                 `json:"subcategory_id"`
	Condition      string                 `json:"condition,omitempty"`
	Attributes     map[string]interface{} `json:"attributes"`
	Location       string                 `json:"location"`
	ContactMethods []ContactMethodVO      `json:"contact_methods"`
	Images         []string               `json:"images"`
	Status         string                 `json:"status"`
	CreatedAt      string                 `json:"created_at"`
}

// ListingListResponse 分页列表
type ListingListResponse struct {
	Total int64       `json:"total"`
	Page  int         `json:"page"`
	List  []ListingVO `json:"list"`
}
