package dto

// ==================== 请求 DTO ====================

// SetCategoryRequest 选择分类
type SetCategoryRequest struct {
	CategoryID string `json:"category_id" binding:"required"`
}

// SetSubcategoryRequest 选择子分类
type SetSubcategoryRequest struct {
	SubcategoryID string `json:"subcategory_id" binding:"required"`
}

// SetConditionRequest 选择成色，空字符串表示清除
type SetConditionRequest struct {
	Condition string `json:"condition"`
}

// SetAttributeRequest 设置属性值，null 或空字符串表示清除
type SetAttributeRequest struct {
	Value interface{} `json:"value"`
}

// AddImageRequest 追加图片引用（已上传到媒体服务）
type AddImageRequest struct {
	Ref string `json:"ref" binding:"required,max=1024"`
}

// SetDetailsRequest 标题与描述
// 长度规则由向导校验，这里只限制上限
type SetDetailsRequest struct {
	Title       string `json:"title" binding:"max=200"`
	Description string `json:"description" binding:"max=10000"`
}

// ContactDTO 联系方式开关
type ContactDTO struct {
	Chat           bool   `json:"chat"`
	WhatsApp       bool   `json:"whatsapp"`
	Call           bool   `json:"call"`
	Phone          string `json:"phone" binding:"max=32"`
	WhatsAppNumber string `json:"whatsapp_number" binding:"max=32"`
}

// SetPricingRequest 价格与联系方式
type SetPricingRequest struct {
	Price      string     `json:"price"` // 原始输入，由向导解析
	Currency   string     `json:"currency" binding:"omitempty,len=3,uppercase"`
	Negotiable bool       `json:"negotiable"`
	Location   string     `json:"location" binding:"max=255"`
	SellerType string     `json:"seller_type" binding:"omitempty,oneof=private business"`
	Contact    ContactDTO `json:"contact"`
}

// ==================== 响应 DTO ====================

// FieldVO 解析后的动态表单字段
type FieldVO struct {
	Name        string   `json:"name"`
	Label       string   `json:"label"`
	Kind        string   `json:"kind"`
	Required    bool     `json:"required"`
	Enabled     bool     `json:"enabled"`
	Options     []string `json:"options"`
	DependsOn   string   `json:"depends_on,omitempty"`
	Min         *float64 `json:"min,omitempty"`
	Max         *float64 `json:"max,omitempty"`
	Suffix      string   `json:"suffix,omitempty"`
	Placeholder string   `json:"placeholder,omitempty"`
}

// PricingVO 价格与联系方式
type PricingVO struct {
	Price      string     `json:"price"`
	Currency   string     `json:"currency"`
	Negotiable bool       `json:"negotiable"`
	Location   string     `json:"location"`
	SellerType string     `json:"seller_type"`
	Contact    ContactDTO `json:"contact"`
}

// SessionVO 向导会话快照
type SessionVO struct {
	SessionID        string                 `json:"session_id"`
	Step             string                 `json:"step"`
	StepIndex        int                    `json:"step_index"`
	StepCount        int                    `json:"step_count"`
	CategoryID       string                 `json:"category_id"`
	SubcategoryID    string                 `json:"subcategory_id"`
	Condition        string                 `json:"condition"`
	ConditionOptions []string               `json:"condition_options"`
	Fields           []FieldVO              `json:"fields"`
	Values           map[string]interface{} `json:"values"`
	Errors           map[string]string      `json:"errors"`
	ErrorCount       int                    `json:"error_count"`
	Images           []string               `json:"images"`
	Title            string                 `json:"title"`
	Description      string                 `json:"description"`
	Pricing          PricingVO              `json:"pricing"`
	Submitting       bool                   `json:"submitting"`
	SubmitError      string                 `json:"submit_error,omitempty"`
	UpdatedAt        string                 `json:"updated_at"`
}

// NextResponse 下一步结果
type NextResponse struct {
	Advanced bool       `json:"advanced"`
	Session  *SessionVO `json:"session"`
}

// BackResponse 上一步结果，left=true 表示已在第一步，由客户端退出流程
type BackResponse struct {
	Left    bool       `json:"left"`
	Session *SessionVO `json:"session"`
}

// SetAttributeResponse 设置属性结果
type SetAttributeResponse struct {
	Cleared []string   `json:"cleared"` // 因依赖变化被清除的字段
	Session *SessionVO `json:"session"`
}

// SubmitResponse 发布成功
type SubmitResponse struct {
	ListingID string `json:"listing_id"`
}
