package wizard

import (
	"errors"
	"strings"

	"listing_wizard_v1_202610/internal/schema"
)

const (
	// MaxImages 单个商品最多图片数
	MaxImages = 10

	DefaultCurrency = "EUR"

	SellerTypePrivate  = "private"
	SellerTypeBusiness = "business"
)

// ContactPreferences 联系方式开关
type ContactPreferences struct {
	Chat           bool   `json:"chat"`
	WhatsApp       bool   `json:"whatsapp"`
	Call           bool   `json:"call"`
	Phone          string `json:"phone,omitempty"`
	WhatsAppNumber string `json:"whatsapp_number,omitempty"`
}

// Pricing 第 5 步：价格、所在地与联系偏好
type Pricing struct {
	Price      string             `json:"price"`
	Currency   string             `json:"currency"`
	Negotiable bool               `json:"negotiable"`
	Location   string             `json:"location"`
	SellerType string             `json:"seller_type"`
	Contact    ContactPreferences `json:"contact"`
}

// ==================== 向导状态机 ====================

// Session 一次发布流程的全部状态
// 只能通过下面的具名操作修改；不做 I/O，不加锁（由调用方串行化）
type Session struct {
	registry schema.Registry

	step          Step
	categoryID    string
	subcategoryID string
	condition     string
	values        ValueBag
	errors        FieldErrorMap

	images      []string
	title       string
	description string
	pricing     Pricing

	submitting bool
	submitErr  *SubmissionError
}

// NewSession 创建会话，初始步骤为 Category
func NewSession(registry schema.Registry) *Session {
	return &Session{
		registry: registry,
		step:     StepCategory,
		values:   make(ValueBag),
		errors:   make(FieldErrorMap),
		pricing: Pricing{
			Currency:   DefaultCurrency,
			SellerType: SellerTypePrivate,
			Contact:    ContactPreferences{Chat: true},
		},
	}
}

// ==================== 步骤切换 ====================

// Next 校验当前步骤，通过则前进一步
// 返回当前错误以及是否前进；Review 之后不再前进
func (s *Session) Next() (FieldErrorMap, bool) {
	errs := s.Validate(s.step)
	s.errors = errs
	if !errs.Empty() || s.step == StepReview {
		return errs.Clone(), false
	}
	s.step++
	return errs.Clone(), true
}

// Back 后退一步，不校验、不清空任何数据
// 已在第一步时返回 false，由外层导航处理“离开流程”
func (s *Session) Back() (bool, error) {
	if err := s.checkMutable(); err != nil {
		return false, err
	}
	if s.step == StepCategory {
		return false, nil
	}
	s.step--
	return true, nil
}

// checkMutable 提交在途时会话只读
func (s *Session) checkMutable() error {
	if s.submitting {
		return ErrSubmitInFlight
	}
	return nil
}

// ==================== 选择分类 ====================

// SetCategory 选择分类：清空子分类、属性、成色与错误
func (s *Session) SetCategory(categoryID string) error {
	if err := s.checkMutable(); err != nil {
		return err
	}
	s.categoryID = strings.TrimSpace(categoryID)
	s.subcategoryID = ""
	s.condition = ""
	s.values = make(ValueBag)
	s.errors = make(FieldErrorMap)
	return nil
}

// SetSubcategory 选择子分类：清空属性、成色与错误，保留分类
// 不同子分类的同名字段含义可能不同，所以整体清空
func (s *Session) SetSubcategory(subcategoryID string) error {
	if err := s.checkMutable(); err != nil {
		return err
	}
	s.subcategoryID = strings.TrimSpace(subcategoryID)
	s.condition = ""
	s.values = make(ValueBag)
	s.errors = make(FieldErrorMap)
	return nil
}

// SetCondition 选择成色，空字符串表示不选
func (s *Session) SetCondition(condition string) error {
	if err := s.checkMutable(); err != nil {
		return err
	}
	condition = strings.TrimSpace(condition)
	if condition != "" && !containsString(s.ConditionOptions(), condition) {
		return ErrInvalidCondition
	}
	s.condition = condition
	return nil
}

// ==================== 属性取值 ====================

// SetAttributeValue 写入属性值
// 随后清空取值已失效的直接依赖字段，只清除该字段自己的错误
// 空值总是允许（清空字段）；非空值须符合字段类型、启用状态与当前可选项
func (s *Session) SetAttributeValue(name string, value any) ([]string, error) {
	if err := s.checkMutable(); err != nil {
		return nil, err
	}
	sub, ok := s.Subcategory()
	if !ok {
		return nil, ErrUnknownAttribute
	}
	d, ok := sub.Attribute(name)
	if !ok {
		return nil, ErrUnknownAttribute
	}

	if IsEmpty(value) {
		delete(s.values, name)
	} else {
		if err := checkAttributeValue(d, s.values, value); err != nil {
			return nil, err
		}
		s.values[name] = value
	}

	cleared := StaleDependents(sub, s.values, name)
	for _, dep := range cleared {
		delete(s.values, dep)
	}

	delete(s.errors, name)
	return cleared, nil
}

// checkAttributeValue 按当前取值解析字段后校验非空取值
func checkAttributeValue(d *schema.AttributeDescriptor, bag ValueBag, value any) error {
	if !MatchesKind(d.Kind, value) {
		return ErrInvalidAttributeValue
	}
	enabled, options := resolveOptions(d, bag)
	if !enabled {
		return ErrAttributeDisabled
	}
	if d.Kind == schema.KindSelect && !containsString(options, ValueString(value)) {
		return ErrInvalidOption
	}
	return nil
}

// ==================== 图片与基础信息 ====================

// AddImage 追加图片引用
func (s *Session) AddImage(ref string) error {
	if err := s.checkMutable(); err != nil {
		return err
	}
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return ErrEmptyImage
	}
	if len(s.images) >= MaxImages {
		return ErrTooManyImages
	}
	s.images = append(s.images, ref)
	delete(s.errors, FieldImages)
	return nil
}

// RemoveImage 按索引删除图片
func (s *Session) RemoveImage(index int) error {
	if err := s.checkMutable(); err != nil {
		return err
	}
	if index < 0 || index >= len(s.images) {
		return ErrImageIndex
	}
	s.images = append(s.images[:index], s.images[index+1:]...)
	return nil
}

// SetDetails 标题与描述
func (s *Session) SetDetails(title, description string) error {
	if err := s.checkMutable(); err != nil {
		return err
	}
	s.title = title
	s.description = description
	delete(s.errors, FieldTitle)
	delete(s.errors, FieldDescription)
	return nil
}

// SetPricing 价格与联系偏好
func (s *Session) SetPricing(p Pricing) error {
	if err := s.checkMutable(); err != nil {
		return err
	}
	if strings.TrimSpace(p.Currency) == "" {
		p.Currency = DefaultCurrency
	}
	if p.SellerType != SellerTypeBusiness {
		p.SellerType = SellerTypePrivate
	}
	s.pricing = p
	delete(s.errors, FieldPrice)
	delete(s.errors, FieldLocation)
	return nil
}

// ==================== 查询 ====================

// Step 当前步骤
func (s *Session) Step() Step {
	return s.step
}

// Subcategory 当前子分类配置，未选择或未知时 ok=false
func (s *Session) Subcategory() (*schema.Subcategory, bool) {
	if s.categoryID == "" || s.subcategoryID == "" {
		return nil, false
	}
	return s.registry.GetSubcategoryConfig(s.categoryID, s.subcategoryID)
}

// Fields 当前有效字段列表
func (s *Session) Fields() []ResolvedField {
	sub, _ := s.Subcategory()
	return Resolve(sub, s.values)
}

// ConditionOptions 当前可选成色
func (s *Session) ConditionOptions() []string {
	return s.registry.GetConditionOptions(s.categoryID, s.subcategoryID)
}

// Values 属性取值副本
func (s *Session) Values() ValueBag {
	return s.values.Clone()
}

// Errors 当前错误副本
func (s *Session) Errors() FieldErrorMap {
	return s.errors.Clone()
}

// Images 图片引用副本
func (s *Session) Images() []string {
	out := make([]string, len(s.images))
	copy(out, s.images)
	return out
}

// ValidationContext 组装校验输入
func (s *Session) ValidationContext() *ValidationContext {
	return &ValidationContext{
		CategoryID:       s.categoryID,
		SubcategoryID:    s.subcategoryID,
		HasSubcategories: s.categoryID != "" && len(s.registry.GetSubcategories(s.categoryID)) > 0,
		ImageCount:       len(s.images),
		Title:            s.title,
		Description:      s.description,
		Fields:           s.Fields(),
		Values:           s.values,
		Price:            s.pricing.Price,
		Location:         s.pricing.Location,
	}
}

// Validate 只计算错误，不修改状态
func (s *Session) Validate(step Step) FieldErrorMap {
	return Validate(step, s.ValidationContext())
}

// ==================== 提交 ====================

// BeginSubmit 生成提交载荷并标记提交中
// 同一会话同时只允许一个提交
func (s *Session) BeginSubmit() (*ListingPayload, error) {
	if s.submitting {
		return nil, ErrSubmitInFlight
	}

	payload, err := Assemble(s)
	if err != nil {
		var verr *ValidationError
		if errors.As(err, &verr) {
			s.errors = verr.Errors.Clone()
		}
		return nil, err
	}

	s.submitting = true
	s.submitErr = nil
	return payload, nil
}

// EndSubmit 结束提交；失败时保留全部数据，停留在 Review
func (s *Session) EndSubmit(err error) {
	s.submitting = false
	if err == nil {
		s.submitErr = nil
		return
	}

	var serr *SubmissionError
	if !errors.As(err, &serr) {
		serr = &SubmissionError{Err: err}
	}
	s.submitErr = serr
}

// Submitting 是否有提交在途
func (s *Session) Submitting() bool {
	return s.submitting
}

// LastSubmitError 最近一次提交失败
func (s *Session) LastSubmitError() *SubmissionError {
	return s.submitErr
}

// ==================== 视图 ====================

// SessionView 渲染用快照
type SessionView struct {
	Step             Step
	CategoryID       string
	SubcategoryID    string
	Condition        string
	ConditionOptions []string
	Fields           []ResolvedField
	Values           ValueBag
	Errors           FieldErrorMap
	Images           []string
	Title            string
	Description      string
	Pricing          Pricing
	Submitting       bool
	SubmitError      string
}

// View 当前状态快照
func (s *Session) View() SessionView {
	v := SessionView{
		Step:             s.step,
		CategoryID:       s.categoryID,
		SubcategoryID:    s.subcategoryID,
		Condition:        s.condition,
		ConditionOptions: s.ConditionOptions(),
		Fields:           s.Fields(),
		Values:           s.Values(),
		Errors:           s.Errors(),
		Images:           s.Images(),
		Title:            s.title,
		Description:      s.description,
		Pricing:          s.pricing,
		Submitting:       s.submitting,
	}
	if s.submitErr != nil {
		v.SubmitError = s.submitErr.UserMessage()
	}
	return v
}
