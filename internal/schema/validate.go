package schema

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

var structValidator = validator.New(validator.WithRequiredStructEnabled())

// ==================== 目录校验 ====================

// validateFile 结构校验 + 语义校验，所有问题一次性返回
func validateFile(f *catalogFile) error {
	var errs []error

	if err := structValidator.Struct(f); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			for _, fe := range verrs {
				errs = append(errs, fmt.Errorf("%s: 校验规则 %q 未通过", fe.Namespace(), fe.Tag()))
			}
		} else {
			errs = append(errs, err)
		}
	}

	seenCategories := make(map[string]bool)
	for _, node := range f.Categories {
		if node.ID == "" {
			continue
		}
		if seenCategories[node.ID] {
			errs = append(errs, fmt.Errorf("分类 %q 重复", node.ID))
		}
		seenCategories[node.ID] = true

		seenSubs := make(map[string]bool)
		for i := range node.Subcategories {
			sub := &node.Subcategories[i]
			if seenSubs[sub.ID] {
				errs = append(errs, fmt.Errorf("分类 %q 下子分类 %q 重复", node.ID, sub.ID))
			}
			seenSubs[sub.ID] = true
			errs = append(errs, ValidateSubcategory(sub)...)
		}
	}

	return errors.Join(errs...)
}

// ValidateSubcategory 校验单个子分类的属性定义
func ValidateSubcategory(sub *Subcategory) []error {
	var errs []error
	where := func(a *AttributeDescriptor) string {
		return fmt.Sprintf("子分类 %q 字段 %q", sub.ID, a.Name)
	}

	names := make(map[string]bool, len(sub.Attributes))
	for i := range sub.Attributes {
		a := &sub.Attributes[i]
		if names[a.Name] {
			errs = append(errs, fmt.Errorf("%s: 字段名重复", where(a)))
		}
		names[a.Name] = true
	}

	for i := range sub.Attributes {
		a := &sub.Attributes[i]

		// dependsOn 与 dependentOptions 必须同时出现
		switch {
		case a.DependsOn != "" && a.DependentOptions == nil:
			errs = append(errs, fmt.Errorf("%s: 声明了 depends_on 但缺少 dependent_options", where(a)))
		case a.DependsOn == "" && a.DependentOptions != nil:
			errs = append(errs, fmt.Errorf("%s: 声明了 dependent_options 但缺少 depends_on", where(a)))
		}

		if a.DependsOn != "" {
			if a.DependsOn == a.Name {
				errs = append(errs, fmt.Errorf("%s: 不能依赖自身", where(a)))
			} else if !names[a.DependsOn] {
				errs = append(errs, fmt.Errorf("%s: 依赖的字段 %q 不存在", where(a), a.DependsOn))
			}
		}

		if len(a.Options) > 0 && a.Kind != KindSelect {
			errs = append(errs, fmt.Errorf("%s: 只有 select 字段可以配置 options", where(a)))
		}
		if (a.Min != nil || a.Max != nil) && a.Kind != KindNumber {
			errs = append(errs, fmt.Errorf("%s: 只有 number 字段可以配置 min/max", where(a)))
		}
		if a.Min != nil && a.Max != nil && *a.Min > *a.Max {
			errs = append(errs, fmt.Errorf("%s: min %v 大于 max %v", where(a), *a.Min, *a.Max))
		}
	}

	for _, name := range findCycles(sub) {
		errs = append(errs, fmt.Errorf("子分类 %q 字段 %q: 依赖关系存在环", sub.ID, name))
	}

	return errs
}

// findCycles 返回处在依赖环上的字段名（按定义顺序）
// 每个字段最多一个父字段，沿 depends_on 链走即可
func findCycles(sub *Subcategory) []string {
	parent := make(map[string]string, len(sub.Attributes))
	for _, a := range sub.Attributes {
		if a.DependsOn != "" && a.DependsOn != a.Name {
			parent[a.Name] = a.DependsOn
		}
	}

	var out []string
	for _, a := range sub.Attributes {
		seen := map[string]bool{a.Name: true}
		cur := parent[a.Name]
		for cur != "" {
			if cur == a.Name {
				out = append(out, a.Name)
				break
			}
			if seen[cur] {
				break // 环不经过 a 本身
			}
			seen[cur] = true
			cur = parent[cur]
		}
	}
	return out
}
