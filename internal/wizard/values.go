package wizard

import (
	"fmt"
	"strconv"
	"strings"

	"listing_wizard_v1_202610/internal/schema"
)

// ValueBag 属性取值：string | float64/int | bool | nil
// 作用域是当前子分类，切换子分类时整体清空
type ValueBag map[string]any

// Clone 浅拷贝（值都是标量）
func (b ValueBag) Clone() ValueBag {
	out := make(ValueBag, len(b))
	for k, v := range b {
		out[k] = v
	}
	return out
}

// Get 读取取值
func (b ValueBag) Get(name string) any {
	if b == nil {
		return nil
	}
	return b[name]
}

// Has 是否存在非空取值
func (b ValueBag) Has(name string) bool {
	return !IsEmpty(b.Get(name))
}

// IsEmpty nil 与空白字符串视为空，数字和布尔总是有值
func IsEmpty(v any) bool {
	switch val := v.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(val) == ""
	case *string:
		return val == nil || strings.TrimSpace(*val) == ""
	}
	return false
}

// ValueString 取值的字符串形式，用于匹配依赖选项
func ValueString(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(val)
	case bool:
		return strconv.FormatBool(val)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(val), 'f', -1, 32)
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	}
	return fmt.Sprint(v)
}

// ToNumber 数字或数字字符串转为 float64
func ToNumber(v any) (float64, bool) {
	switch val := v.(type) {
	case float64:
		return val, true
	case float32:
		return float64(val), true
	case int:
		return float64(val), true
	case int32:
		return float64(val), true
	case int64:
		return float64(val), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(val), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	}
	return 0, false
}

// MatchesKind 非空取值是否符合字段类型
// 数字字段接受数字字符串，其余类型必须严格匹配
func MatchesKind(kind schema.Kind, v any) bool {
	switch kind {
	case schema.KindToggle:
		_, ok := v.(bool)
		return ok
	case schema.KindNumber:
		_, ok := ToNumber(v)
		return ok
	case schema.KindText, schema.KindSelect:
		_, ok := v.(string)
		return ok
	}
	return false
}

func containsString(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}
