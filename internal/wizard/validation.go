package wizard

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"listing_wizard_v1_202610/internal/schema"
)

const (
	MinTitleLength       = 5
	MinDescriptionLength = 20
)

// ValidationContext 校验某一步所需的全部输入
type ValidationContext struct {
	CategoryID       string
	SubcategoryID    string
	HasSubcategories bool // 分类下存在子分类时才要求选择子分类

	ImageCount int

	Title       string
	Description string

	Fields []ResolvedField
	Values ValueBag

	Price    string
	Location string
}

// ==================== 校验入口 ====================

// Validate 计算某一步的字段错误
// 该步的规则全部执行，不在第一个错误处返回
func Validate(step Step, vc *ValidationContext) FieldErrorMap {
	errs := make(FieldErrorMap)
	if vc == nil {
		vc = &ValidationContext{}
	}

	switch step {
	case StepCategory:
		validateCategory(vc, errs)
	case StepPhotos:
		validatePhotos(vc, errs)
	case StepBaseDetails:
		validateBaseDetails(vc, errs)
	case StepAttributes:
		validateAttributes(vc, errs)
	case StepPriceContact:
		validatePriceContact(vc, errs)
	case StepReview:
		// 确认步骤：重跑前面所有步骤
		validateCategory(vc, errs)
		validatePhotos(vc, errs)
		validateBaseDetails(vc, errs)
		validateAttributes(vc, errs)
		validatePriceContact(vc, errs)
	}

	return errs
}

// ==================== 各步骤规则 ====================

func validateCategory(vc *ValidationContext, errs FieldErrorMap) {
	if strings.TrimSpace(vc.CategoryID) == "" {
		errs[FieldCategory] = "请选择分类"
	}
	if vc.HasSubcategories && strings.TrimSpace(vc.SubcategoryID) == "" {
		errs[FieldSubcategory] = "请选择子分类"
	}
}

func validatePhotos(vc *ValidationContext, errs FieldErrorMap) {
	if vc.ImageCount <= 0 {
		errs[FieldImages] = "请至少上传一张图片"
	}
}

func validateBaseDetails(vc *ValidationContext, errs FieldErrorMap) {
	title := strings.TrimSpace(vc.Title)
	switch {
	case title == "":
		errs[FieldTitle] = "请填写标题"
	case utf8.RuneCountInString(title) < MinTitleLength:
		errs[FieldTitle] = fmt.Sprintf("标题至少需要 %d 个字符", MinTitleLength)
	}

	desc := strings.TrimSpace(vc.Description)
	switch {
	case desc == "":
		errs[FieldDescription] = "请填写描述"
	case utf8.RuneCountInString(desc) < MinDescriptionLength:
		errs[FieldDescription] = fmt.Sprintf("描述至少需要 %d 个字符", MinDescriptionLength)
	}
}

func validateAttributes(vc *ValidationContext, errs FieldErrorMap) {
	for i := range vc.Fields {
		d := &vc.Fields[i].Descriptor
		value := vc.Values.Get(d.Name)

		if IsEmpty(value) {
			if d.Required {
				errs[d.Name] = fmt.Sprintf("请填写%s", d.Label)
			}
			continue
		}

		if d.Kind != schema.KindNumber {
			continue
		}
		if msg := checkNumber(d, value); msg != "" {
			errs[d.Name] = msg
		}
	}
}

// checkNumber 数字字段的格式与上下限
func checkNumber(d *schema.AttributeDescriptor, value any) string {
	n, ok := ToNumber(value)
	if !ok || math.IsNaN(n) || math.IsInf(n, 0) {
		return fmt.Sprintf("%s必须是数字", d.Label)
	}
	if d.Min != nil && n < *d.Min {
		return fmt.Sprintf("%s不能小于 %s", d.Label, formatBound(*d.Min))
	}
	if d.Max != nil && n > *d.Max {
		return fmt.Sprintf("%s不能大于 %s", d.Label, formatBound(*d.Max))
	}
	return ""
}

func validatePriceContact(vc *ValidationContext, errs FieldErrorMap) {
	if _, err := ParsePrice(vc.Price); err != nil {
		errs[FieldPrice] = err.Error()
	}
	if strings.TrimSpace(vc.Location) == "" {
		errs[FieldLocation] = "请填写所在地"
	}
}

// ==================== 价格解析 ====================

// ParsePrice 解析价格，必须为正数
// 没有数字或 <= 0 都视为无效
func ParsePrice(raw string) (float64, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, fmt.Errorf("请填写价格")
	}
	if strings.IndexFunc(s, unicode.IsDigit) < 0 {
		return 0, fmt.Errorf("请输入有效的价格")
	}

	price, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(price) || math.IsInf(price, 0) {
		return 0, fmt.Errorf("请输入有效的价格")
	}
	if price <= 0 {
		return 0, fmt.Errorf("价格必须大于 0")
	}
	return price, nil
}

func formatBound(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
