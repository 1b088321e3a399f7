package wizard

import (
	"context"
	"strings"

	"listing_wizard_v1_202610/internal/schema"
)

// AttributeSellerType 附加到属性里的卖家类型
const AttributeSellerType = "seller_type"

// 联系方式类型
const (
	ContactChat     = "chat"
	ContactWhatsApp = "whatsapp"
	ContactCall     = "call"
)

// ListingPayload 提交给上架服务的最终载荷
// 字段集合对外稳定
type ListingPayload struct {
	Title          string          `json:"title"`
	Description    string          `json:"description"`
	Price          float64         `json:"price"`
	Currency       string          `json:"currency"`
	Negotiable     bool            `json:"negotiable"`
	CategoryID     string          `json:"category_id"`
	SubcategoryID  string          `json:"subcategory_id"`
	Condition      string          `json:"condition,omitempty"`
	Attributes     map[string]any  `json:"attributes"`
	Location       string          `json:"location"`
	ContactMethods []ContactMethod `json:"contact_methods"`
	Images         []string        `json:"images"`
}

// ContactMethod 已启用的联系方式
type ContactMethod struct {
	Type  string `json:"type"`
	Value string `json:"value,omitempty"`
}

// ListingID 上架后的商品 ID
type ListingID string

// ListingCreator 上架服务
// 失败时返回 *SubmissionError，Detail 为服务端说明
type ListingCreator interface {
	Create(ctx context.Context, payload *ListingPayload) (ListingID, error)
}

// ==================== 组装 ====================

// Assemble 把会话折叠成提交载荷
// 只能在 Review 步骤调用，且前面所有步骤的规则都必须通过
func Assemble(s *Session) (*ListingPayload, error) {
	if s.step != StepReview {
		return nil, ErrNotAtReview
	}
	if errs := s.Validate(StepReview); !errs.Empty() {
		return nil, &ValidationError{Errors: errs}
	}

	price, err := ParsePrice(s.pricing.Price)
	if err != nil {
		return nil, &ValidationError{Errors: FieldErrorMap{FieldPrice: err.Error()}}
	}

	return &ListingPayload{
		Title:          strings.TrimSpace(s.title),
		Description:    strings.TrimSpace(s.description),
		Price:          price,
		Currency:       s.pricing.Currency,
		Negotiable:     s.pricing.Negotiable,
		CategoryID:     s.categoryID,
		SubcategoryID:  s.subcategoryID,
		Condition:      s.condition,
		Attributes:     collapseAttributes(s.Fields(), s.values, s.pricing.SellerType),
		Location:       strings.TrimSpace(s.pricing.Location),
		ContactMethods: contactMethods(s.pricing.Contact),
		Images:         s.Images(),
	}, nil
}

// collapseAttributes 只保留当前 schema 中有值的字段，数字统一为 float64
func collapseAttributes(fields []ResolvedField, bag ValueBag, sellerType string) map[string]any {
	out := make(map[string]any, len(fields)+1)
	for i := range fields {
		d := &fields[i].Descriptor
		v := bag.Get(d.Name)
		if IsEmpty(v) {
			continue
		}
		switch d.Kind {
		case schema.KindNumber:
			if n, ok := ToNumber(v); ok {
				v = n
			}
		case schema.KindText, schema.KindSelect:
			v = ValueString(v)
		}
		out[d.Name] = v
	}
	out[AttributeSellerType] = sellerType
	return out
}

// contactMethods 按 chat、whatsapp、call 顺序输出已启用的联系方式
func contactMethods(c ContactPreferences) []ContactMethod {
	methods := make([]ContactMethod, 0, 3)
	if c.Chat {
		methods = append(methods, ContactMethod{Type: ContactChat})
	}
	if c.WhatsApp {
		methods = append(methods, ContactMethod{Type: ContactWhatsApp, Value: strings.TrimSpace(c.WhatsAppNumber)})
	}
	if c.Call {
		methods = append(methods, ContactMethod{Type: ContactCall, Value: strings.TrimSpace(c.Phone)})
	}
	return methods
}
