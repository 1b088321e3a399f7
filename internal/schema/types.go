package schema

// ==================== 字段类型 ====================

// Kind 属性字段类型
type Kind string

const (
	KindText   Kind = "text"
	KindNumber Kind = "number"
	KindSelect Kind = "select"
	KindToggle Kind = "toggle"
)

// Valid 是否为已知类型
func (k Kind) Valid() bool {
	switch k {
	case KindText, KindNumber, KindSelect, KindToggle:
		return true
	}
	return false
}

// DefaultFallbackKey 依赖选项的兜底键
const DefaultFallbackKey = "Other"

// DefaultConditionOptions 子分类与分类都未定义成色时使用
var DefaultConditionOptions = []string{"New", "Like New", "Good", "Fair"}

// ==================== 目录模型 ====================

// Category 一级分类
type Category struct {
	ID               string   `yaml:"id" json:"id" validate:"required"`
	Name             string   `yaml:"name" json:"name" validate:"required"`
	Icon             string   `yaml:"icon" json:"icon"`
	ConditionOptions []string `yaml:"conditions,omitempty" json:"conditions,omitempty"`
}

// Subcategory 二级分类，决定属性表单
type Subcategory struct {
	ID               string                `yaml:"id" json:"id" validate:"required"`
	CategoryID       string                `yaml:"-" json:"category_id"`
	Name             string                `yaml:"name" json:"name" validate:"required"`
	Attributes       []AttributeDescriptor `yaml:"attributes" json:"attributes" validate:"dive"`
	ConditionOptions []string              `yaml:"conditions,omitempty" json:"conditions,omitempty"`
}

// AttributeDescriptor 动态表单字段描述
type AttributeDescriptor struct {
	Name             string            `yaml:"name" json:"name" validate:"required"`
	Label            string            `yaml:"label" json:"label" validate:"required"`
	Kind             Kind              `yaml:"kind" json:"kind" validate:"required,oneof=text number select toggle"`
	Required         bool              `yaml:"required" json:"required"`
	Options          []string          `yaml:"options,omitempty" json:"options,omitempty"`
	DependsOn        string            `yaml:"depends_on,omitempty" json:"depends_on,omitempty"`
	DependentOptions *DependentOptions `yaml:"dependent_options,omitempty" json:"dependent_options,omitempty"`
	Min              *float64          `yaml:"min,omitempty" json:"min,omitempty"`
	Max              *float64          `yaml:"max,omitempty" json:"max,omitempty"`
	Suffix           string            `yaml:"suffix,omitempty" json:"suffix,omitempty"` // 仅展示
	Placeholder      string            `yaml:"placeholder,omitempty" json:"placeholder,omitempty"`
}

// DependentOptions 父字段取值 -> 选项列表
type DependentOptions struct {
	Options  map[string][]string `yaml:"options" json:"options"`
	Fallback string              `yaml:"fallback,omitempty" json:"fallback,omitempty"`
}

// ==================== 辅助方法 ====================

// IsDependent 是否依赖其他字段
func (a *AttributeDescriptor) IsDependent() bool {
	return a.DependsOn != ""
}

// FallbackKey 兜底键，未配置时为 "Other"
func (d *DependentOptions) FallbackKey() string {
	if d == nil || d.Fallback == "" {
		return DefaultFallbackKey
	}
	return d.Fallback
}

// Lookup 按父字段取值查找选项，找不到时走兜底键
func (d *DependentOptions) Lookup(parentValue string) []string {
	if d == nil {
		return nil
	}
	if opts, ok := d.Options[parentValue]; ok {
		return opts
	}
	if opts, ok := d.Options[d.FallbackKey()]; ok {
		return opts
	}
	return nil
}

// Attribute 按名称查找属性
func (s *Subcategory) Attribute(name string) (*AttributeDescriptor, bool) {
	for i := range s.Attributes {
		if s.Attributes[i].Name == name {
			return &s.Attributes[i], true
		}
	}
	return nil, false
}

// Dependents 直接依赖 name 的字段
func (s *Subcategory) Dependents(name string) []*AttributeDescriptor {
	var out []*AttributeDescriptor
	for i := range s.Attributes {
		if s.Attributes[i].DependsOn == name {
			out = append(out, &s.Attributes[i])
		}
	}
	return out
}

// clone 深拷贝，registry 对外只暴露副本
func (s Subcategory) clone() Subcategory {
	out := s
	out.ConditionOptions = cloneStrings(s.ConditionOptions)
	out.Attributes = make([]AttributeDescriptor, len(s.Attributes))
	for i, a := range s.Attributes {
		a.Options = cloneStrings(a.Options)
		if a.DependentOptions != nil {
			dep := &DependentOptions{
				Fallback: a.DependentOptions.Fallback,
				Options:  make(map[string][]string, len(a.DependentOptions.Options)),
			}
			for k, v := range a.DependentOptions.Options {
				dep.Options[k] = cloneStrings(v)
			}
			a.DependentOptions = dep
		}
		if a.Min != nil {
			v := *a.Min
			a.Min = &v
		}
		if a.Max != nil {
			v := *a.Max
			a.Max = &v
		}
		out.Attributes[i] = a
	}
	return out
}

func cloneStrings(in []string) []string {
	if in == nil {
		return nil
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}
