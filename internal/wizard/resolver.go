package wizard

import "listing_wizard_v1_202610/internal/schema"

// ResolvedField 某一时刻的有效字段
type ResolvedField struct {
	Descriptor       schema.AttributeDescriptor `json:"descriptor"`
	Enabled          bool                       `json:"enabled"`
	EffectiveOptions []string                   `json:"effective_options"`
}

// Name 字段名
func (f *ResolvedField) Name() string {
	return f.Descriptor.Name
}

// ==================== 字段解析 ====================

// Resolve 计算有效字段列表
// 纯函数：相同 (sub, bag) 总是得到相同结果，不修改 bag
func Resolve(sub *schema.Subcategory, bag ValueBag) []ResolvedField {
	if sub == nil {
		return []ResolvedField{}
	}

	fields := make([]ResolvedField, 0, len(sub.Attributes))
	for i := range sub.Attributes {
		d := &sub.Attributes[i]
		enabled, options := resolveOptions(d, bag)
		fields = append(fields, ResolvedField{
			Descriptor:       *d,
			Enabled:          enabled,
			EffectiveOptions: options,
		})
	}
	return fields
}

// resolveOptions 单个字段的启用状态与可选项
func resolveOptions(d *schema.AttributeDescriptor, bag ValueBag) (bool, []string) {
	if !d.IsDependent() {
		if d.Kind == schema.KindSelect {
			return true, copyOptions(d.Options)
		}
		return true, []string{}
	}

	parent := bag.Get(d.DependsOn)
	if IsEmpty(parent) {
		return false, []string{}
	}
	return true, copyOptions(d.DependentOptions.Lookup(ValueString(parent)))
}

// ==================== 依赖失效 ====================

// StaleDependents name 变化后需要清空的直接依赖字段
// 只处理一层依赖，不沿依赖链继续传播
func StaleDependents(sub *schema.Subcategory, bag ValueBag, name string) []string {
	if sub == nil {
		return nil
	}

	var stale []string
	for _, d := range sub.Dependents(name) {
		current := bag.Get(d.Name)
		if IsEmpty(current) {
			continue
		}
		_, options := resolveOptions(d, bag)
		if !containsString(options, ValueString(current)) {
			stale = append(stale, d.Name)
		}
	}
	return stale
}

func copyOptions(in []string) []string {
	out := make([]string, len(in))
	copy(out, in)
	return out
}
