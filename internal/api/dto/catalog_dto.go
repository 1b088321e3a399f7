package dto

// ==================== 分类目录 ====================

// CategoryVO 一级分类
type CategoryVO struct {
	ID               string `json:"id"`
	Name             string `json:"name"`
	Icon             string `json:"icon,omitempty"`
	HasSubcategories bool   `json:"has_subcategories"`
}

// SubcategoryVO 子分类列表项
type SubcategoryVO struct {
	ID             string `json:"id"`
	CategoryID     string `json:"category_id"`
	Name           string `json:"name"`
	AttributeCount int    `json:"attribute_count"`
}

// AttributeVO 属性定义（未解析依赖）
type AttributeVO struct {
	Name             string              `json:"name"`
	Label            string              `json:"label"`
	Kind             string              `json:"kind"`
	Required         bool                `json:"required"`
	Options          []string            `json:"options,omitempty"`
	DependsOn        string              `json:"depends_on,omitempty"`
	DependentOptions map[string][]string `json:"dependent_options,omitempty"`
	Min              *float64            `json:"min,omitempty"`
	Max              *float64            `json:"max,omitempty"`
	Suffix           string              `json:"suffix,omitempty"`
	Placeholder      string              `json:"placeholder,omitempty"`
}

// SubcategoryConfigVO 子分类完整配置
type SubcategoryConfigVO struct {
	ID               string        `json:"id"`
	CategoryID       string        `json:"category_id"`
	Name             string        `json:"name"`
	Attributes       []AttributeVO `json:"attributes"`
	ConditionOptions []string      `json:"condition_options"`
}
