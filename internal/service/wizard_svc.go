package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"listing_wizard_v1_202610/internal/api/dto"
	"listing_wizard_v1_202610/internal/middleware"
	"listing_wizard_v1_202610/internal/schema"
	"listing_wizard_v1_202610/internal/wizard"
	"listing_wizard_v1_202610/pkg/logger"
)

// MaxSessionsPerUser 单个用户同时进行中的向导数量上限
const MaxSessionsPerUser = 20

var (
	ErrSessionNotFound    = errors.New("会话不存在或已过期")
	ErrUnauthenticated    = errors.New("未登录")
	ErrForbidden          = errors.New("无权访问该会话")
	ErrTooManySessions    = errors.New("进行中的发布流程过多，请先完成或取消")
	ErrUnknownCategory    = errors.New("分类不存在")
	ErrUnknownSubcategory = errors.New("子分类不存在")
)

// ==================== 会话存储 ====================

// sessionEntry 单个向导会话
// mu 串行化同一会话上的所有操作
type sessionEntry struct {
	mu        sync.Mutex
	id        string
	ownerID   int64
	session   *wizard.Session
	updatedAt time.Time
}

// WizardService 向导会话服务
// 会话只保存在内存中，发布成功或过期后丢弃
type WizardService struct {
	registry schema.Registry
	creator  wizard.ListingCreator

	mu       sync.RWMutex
	sessions map[string]*sessionEntry

	now func() time.Time
}

// NewWizardService 创建向导服务
func NewWizardService(registry schema.Registry, creator wizard.ListingCreator) *WizardService {
	return &WizardService{
		registry: registry,
		creator:  creator,
		sessions: make(map[string]*sessionEntry),
		now:      time.Now,
	}
}

// ==================== 生命周期 ====================

// Start 开始一个新的发布流程
func (s *WizardService) Start(ctx context.Context, userID int64) (*dto.SessionVO, error) {
	if userID <= 0 {
		return nil, ErrUnauthenticated
	}

	e := &sessionEntry{
		id:        uuid.NewString(),
		ownerID:   userID,
		session:   wizard.NewSession(s.registry),
		updatedAt: s.now(),
	}

	s.mu.Lock()
	active := 0
	for _, other := range s.sessions {
		if other.ownerID == userID {
			active++
		}
	}
	if active >= MaxSessionsPerUser {
		s.mu.Unlock()
		return nil, ErrTooManySessions
	}
	s.sessions[e.id] = e
	s.mu.Unlock()

	logger.L().Info("[WizardService] 创建会话",
		zap.String("session_id", e.id),
		zap.Int64("user_id", userID),
	)

	e.mu.Lock()
	defer e.mu.Unlock()
	return toSessionVO(e), nil
}

// Get 当前快照
func (s *WizardService) Get(ctx context.Context, userID int64, sessionID string) (*dto.SessionVO, error) {
	var vo *dto.SessionVO
	err := s.withSession(userID, sessionID, func(e *sessionEntry) error {
		vo = toSessionVO(e)
		return nil
	})
	return vo, err
}

// Cancel 放弃流程；提交在途时不能取消
func (s *WizardService) Cancel(ctx context.Context, userID int64, sessionID string) error {
	err := s.withSession(userID, sessionID, func(e *sessionEntry) error {
		if e.session.Submitting() {
			return wizard.ErrSubmitInFlight
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.remove(sessionID)
	logger.L().Info("[WizardService] 取消会话", zap.String("session_id", sessionID))
	return nil
}

// ==================== 步骤切换 ====================

// Next 校验当前步骤并前进
func (s *WizardService) Next(ctx context.Context, userID int64, sessionID string) (*dto.NextResponse, error) {
	var resp *dto.NextResponse
	err := s.withSession(userID, sessionID, func(e *sessionEntry) error {
		_, advanced := e.session.Next()
		resp = &dto.NextResponse{Advanced: advanced, Session: toSessionVO(e)}
		return nil
	})
	return resp, err
}

// Back 返回上一步
func (s *WizardService) Back(ctx context.Context, userID int64, sessionID string) (*dto.BackResponse, error) {
	var resp *dto.BackResponse
	err := s.withSession(userID, sessionID, func(e *sessionEntry) error {
		moved, err := e.session.Back()
		if err != nil {
			return err
		}
		resp = &dto.BackResponse{Left: !moved, Session: toSessionVO(e)}
		return nil
	})
	return resp, err
}

// ==================== 字段编辑 ====================

// SetCategory 选择分类，未知分类直接拒绝
func (s *WizardService) SetCategory(ctx context.Context, userID int64, sessionID string, req *dto.SetCategoryRequest) (*dto.SessionVO, error) {
	if !categoryExists(s.registry, req.CategoryID) {
		return nil, ErrUnknownCategory
	}
	return s.update(userID, sessionID, func(sess *wizard.Session) error {
		return sess.SetCategory(req.CategoryID)
	})
}

// SetSubcategory 选择子分类，必须属于当前分类
func (s *WizardService) SetSubcategory(ctx context.Context, userID int64, sessionID string, req *dto.SetSubcategoryRequest) (*dto.SessionVO, error) {
	return s.update(userID, sessionID, func(sess *wizard.Session) error {
		if _, ok := s.registry.GetSubcategoryConfig(sess.View().CategoryID, req.SubcategoryID); !ok {
			return ErrUnknownSubcategory
		}
		return sess.SetSubcategory(req.SubcategoryID)
	})
}

// SetCondition 选择成色
func (s *WizardService) SetCondition(ctx context.Context, userID int64, sessionID string, req *dto.SetConditionRequest) (*dto.SessionVO, error) {
	return s.update(userID, sessionID, func(sess *wizard.Session) error {
		return sess.SetCondition(req.Condition)
	})
}

// SetAttribute 设置属性值，返回因依赖变化被清除的字段
func (s *WizardService) SetAttribute(ctx context.Context, userID int64, sessionID, name string, req *dto.SetAttributeRequest) (*dto.SetAttributeResponse, error) {
	var resp *dto.SetAttributeResponse
	err := s.withSession(userID, sessionID, func(e *sessionEntry) error {
		cleared, err := e.session.SetAttributeValue(name, req.Value)
		if err != nil {
			return err
		}
		if cleared == nil {
			cleared = []string{}
		}
		resp = &dto.SetAttributeResponse{Cleared: cleared, Session: toSessionVO(e)}
		return nil
	})
	return resp, err
}

// AddImage 追加图片
func (s *WizardService) AddImage(ctx context.Context, userID int64, sessionID string, req *dto.AddImageRequest) (*dto.SessionVO, error) {
	return s.update(userID, sessionID, func(sess *wizard.Session) error {
		return sess.AddImage(req.Ref)
	})
}

// RemoveImage 删除图片
func (s *WizardService) RemoveImage(ctx context.Context, userID int64, sessionID string, index int) (*dto.SessionVO, error) {
	return s.update(userID, sessionID, func(sess *wizard.Session) error {
		return sess.RemoveImage(index)
	})
}

// SetDetails 标题与描述
func (s *WizardService) SetDetails(ctx context.Context, userID int64, sessionID string, req *dto.SetDetailsRequest) (*dto.SessionVO, error) {
	return s.update(userID, sessionID, func(sess *wizard.Session) error {
		return sess.SetDetails(req.Title, req.Description)
	})
}

// SetPricing 价格与联系方式
func (s *WizardService) SetPricing(ctx context.Context, userID int64, sessionID string, req *dto.SetPricingRequest) (*dto.SessionVO, error) {
	return s.update(userID, sessionID, func(sess *wizard.Session) error {
		return sess.SetPricing(wizard.Pricing{
			Price:      req.Price,
			Currency:   req.Currency,
			Negotiable: req.Negotiable,
			Location:   req.Location,
			SellerType: req.SellerType,
			Contact: wizard.ContactPreferences{
				Chat:           req.Contact.Chat,
				WhatsApp:       req.Contact.WhatsApp,
				Call:           req.Contact.Call,
				Phone:          req.Contact.Phone,
				WhatsAppNumber: req.Contact.WhatsAppNumber,
			},
		})
	})
}

// ==================== 发布 ====================

// Submit 发布
// 组装在会话锁内完成，调用上架服务时不持有锁；同一会话的并发提交由在途标记拒绝
func (s *WizardService) Submit(ctx context.Context, userID int64, sessionID string) (*dto.SubmitResponse, error) {
	e, err := s.lookup(userID, sessionID)
	if err != nil {
		return nil, err
	}

	e.mu.Lock()
	payload, err := e.session.BeginSubmit()
	e.updatedAt = s.now()
	e.mu.Unlock()
	if err != nil {
		return nil, err
	}

	if middleware.GetAuditUserID(ctx) == 0 {
		ctx = middleware.WithAuditInfo(ctx, userID, "")
	}
	listingID, createErr := s.creator.Create(ctx, payload)

	e.mu.Lock()
	e.session.EndSubmit(createErr)
	e.updatedAt = s.now()
	submitErr := e.session.LastSubmitError()
	e.mu.Unlock()

	if createErr != nil {
		logger.L().Warn("[WizardService] 发布失败",
			zap.String("session_id", sessionID),
			zap.Int64("user_id", userID),
			zap.Error(createErr),
		)
		return nil, submitErr
	}

	s.remove(sessionID)
	logger.L().Info("[WizardService] 发布成功",
		zap.String("session_id", sessionID),
		zap.String("listing_id", string(listingID)),
	)
	return &dto.SubmitResponse{ListingID: string(listingID)}, nil
}

// ==================== 过期清理 ====================

// SweepExpired 清理超过 ttl 未操作的会话，提交在途的会话不清理
func (s *WizardService) SweepExpired(ttl time.Duration) int {
	threshold := s.now().Add(-ttl)

	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for id, e := range s.sessions {
		e.mu.Lock()
		expired := e.updatedAt.Before(threshold) && !e.session.Submitting()
		e.mu.Unlock()
		if expired {
			delete(s.sessions, id)
			removed++
		}
	}
	return removed
}

// Count 当前会话数量
func (s *WizardService) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// ==================== 内部方法 ====================

func (s *WizardService) lookup(userID int64, sessionID string) (*sessionEntry, error) {
	if userID <= 0 {
		return nil, ErrUnauthenticated
	}

	s.mu.RLock()
	e, ok := s.sessions[sessionID]
	s.mu.RUnlock()
	if !ok {
		return nil, ErrSessionNotFound
	}
	if e.ownerID != userID {
		return nil, ErrForbidden
	}
	return e, nil
}

// withSession 加锁后执行 fn，并刷新最后操作时间
func (s *WizardService) withSession(userID int64, sessionID string, fn func(e *sessionEntry) error) error {
	e, err := s.lookup(userID, sessionID)
	if err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.updatedAt = s.now()
	return fn(e)
}

// update 执行一次编辑并返回最新快照
func (s *WizardService) update(userID int64, sessionID string, fn func(sess *wizard.Session) error) (*dto.SessionVO, error) {
	var vo *dto.SessionVO
	err := s.withSession(userID, sessionID, func(e *sessionEntry) error {
		if err := fn(e.session); err != nil {
			return err
		}
		vo = toSessionVO(e)
		return nil
	})
	return vo, err
}

func (s *WizardService) remove(sessionID string) {
	s.mu.Lock()
	delete(s.sessions, sessionID)
	s.mu.Unlock()
}

func categoryExists(registry schema.Registry, categoryID string) bool {
	for _, c := range registry.GetCategories() {
		if c.ID == categoryID {
			return true
		}
	}
	return false
}

// ==================== VO 转换 ====================

// toSessionVO 调用方需持有 e.mu
func toSessionVO(e *sessionEntry) *dto.SessionVO {
	v := e.session.View()

	fields := make([]dto.FieldVO, 0, len(v.Fields))
	for _, f := range v.Fields {
		d := f.Descriptor
		fields = append(fields, dto.FieldVO{
			Name:        d.Name,
			Label:       d.Label,
			Kind:        string(d.Kind),
			Required:    d.Required,
			Enabled:     f.Enabled,
			Options:     f.EffectiveOptions,
			DependsOn:   d.DependsOn,
			Min:         d.Min,
			Max:         d.Max,
			Suffix:      d.Suffix,
			Placeholder: d.Placeholder,
		})
	}

	conditions := v.ConditionOptions
	if conditions == nil {
		conditions = []string{}
	}

	return &dto.SessionVO{
		SessionID:        e.id,
		Step:             v.Step.String(),
		StepIndex:        v.Step.Index(),
		StepCount:        len(wizard.Steps()),
		CategoryID:       v.CategoryID,
		SubcategoryID:    v.SubcategoryID,
		Condition:        v.Condition,
		ConditionOptions: conditions,
		Fields:           fields,
		Values:           v.Values,
		Errors:           v.Errors,
		ErrorCount:       v.Errors.Count(),
		Images:           v.Images,
		Title:            v.Title,
		Description:      v.Description,
		Pricing: dto.PricingVO{
			Price:      v.Pricing.Price,
			Currency:   v.Pricing.Currency,
			Negotiable: v.Pricing.Negotiable,
			Location:   v.Pricing.Location,
			SellerType: v.Pricing.SellerType,
			Contact: dto.ContactDTO{
				Chat:           v.Pricing.Contact.Chat,
				WhatsApp:       v.Pricing.Contact.WhatsApp,
				Call:           v.Pricing.Contact.Call,
				Phone:          v.Pricing.Contact.Phone,
				WhatsAppNumber: v.Pricing.Contact.WhatsAppNumber,
			},
		},
		Submitting:  v.Submitting,
		SubmitError: v.SubmitError,
		UpdatedAt:   e.updatedAt.Format(time.RFC3339),
	}
}
