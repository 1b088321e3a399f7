package wizard

import (
	"errors"
	"fmt"
	"sort"
)

// ==================== 字段错误 ====================

// 保留的伪字段名
const (
	FieldCategory    = "category"
	FieldSubcategory = "subcategory"
	FieldImages      = "images"
	FieldTitle       = "title"
	FieldDescription = "description"
	FieldPrice       = "price"
	FieldLocation    = "location"
)

// FieldErrorMap 字段名 -> 错误提示
// 每次校验整体重算，不做增量合并
type FieldErrorMap map[string]string

// Count 错误数量（汇总提示用）
func (m FieldErrorMap) Count() int {
	return len(m)
}

// Empty 是否没有错误
func (m FieldErrorMap) Empty() bool {
	return len(m) == 0
}

// Keys 排序后的字段名
func (m FieldErrorMap) Keys() []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Clone 拷贝
func (m FieldErrorMap) Clone() FieldErrorMap {
	out := make(FieldErrorMap, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// ==================== 错误定义 ====================

var (
	ErrNotAtReview      = errors.New("只能在确认步骤提交")
	ErrSubmitInFlight   = errors.New("已有提交正在进行")
	ErrTooManyImages    = fmt.Errorf("最多只能上传 %d 张图片", MaxImages)
	ErrImageIndex       = errors.New("图片索引无效")
	ErrEmptyImage       = errors.New("图片引用不能为空")
	ErrUnknownAttribute = errors.New("当前子分类没有该字段")
	ErrInvalidCondition = errors.New("成色选项无效")

	ErrInvalidAttributeValue = errors.New("字段取值类型不正确")
	ErrInvalidOption         = errors.New("取值不在可选项中")
	ErrAttributeDisabled     = errors.New("请先选择上级字段")
)

// ValidationError 提交前校验未通过
type ValidationError struct {
	Errors FieldErrorMap
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("校验未通过: %d 个字段有误", e.Errors.Count())
}

// SubmissionError 上架接口拒绝或网络失败
type SubmissionError struct {
	Detail string // 可展示给用户的服务端说明，可能为空
	Err    error
}

func (e *SubmissionError) Error() string {
	switch {
	case e.Detail != "" && e.Err != nil:
		return fmt.Sprintf("提交失败: %s: %v", e.Detail, e.Err)
	case e.Detail != "":
		return "提交失败: " + e.Detail
	case e.Err != nil:
		return fmt.Sprintf("提交失败: %v", e.Err)
	}
	return "提交失败"
}

func (e *SubmissionError) Unwrap() error {
	return e.Err
}

// UserMessage 给用户的提示
func (e *SubmissionError) UserMessage() string {
	if e.Detail != "" {
		return e.Detail
	}
	return "发布失败，请稍后重试"
}
