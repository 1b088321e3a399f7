package controller

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"listing_wizard_v1_202610/internal/api/dto"
	"listing_wizard_v1_202610/internal/middleware"
	"listing_wizard_v1_202610/internal/service"
)

// ==================== 控制器 ====================

// WizardController 发布向导控制器
type WizardController struct {
	wizardService *service.WizardService
}

func NewWizardController(wizardService *service.WizardService) *WizardController {
	return &WizardController{wizardService: wizardService}
}

// ==================== 会话 ====================

// Start 开始发布流程
// @Summary 创建向导会话
// @Tags Wizard
// @Produce json
// @Security BearerAuth
// @Success 201 {object} dto.SessionVO
// @Router /api/wizard/sessions [post]
func (ctrl *WizardController) Start(c *gin.Context) {
	result, err := ctrl.wizardService.Start(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusCreated, result)
}

// Get 获取会话快照
// @Summary 获取向导会话
// @Tags Wizard
// @Produce json
// @Security BearerAuth
// @Param id path string true "会话ID"
// @Success 200 {object} dto.SessionVO
// @Router /api/wizard/sessions/{id} [get]
func (ctrl *WizardController) Get(c *gin.Context) {
	result, err := ctrl.wizardService.Get(c.Request.Context(), middleware.GetUserID(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, result)
}

// Cancel 放弃发布流程
// @Summary 取消向导会话
// @Tags Wizard
// @Security BearerAuth
// @Param id path string true "会话ID"
// @Success 200 {object} map[string]interface{}
// @Router /api/wizard/sessions/{id} [delete]
func (ctrl *WizardController) Cancel(c *gin.Context) {
	if err := ctrl.wizardService.Cancel(c.Request.Context(), middleware.GetUserID(c), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, nil)
}

// ==================== 步骤切换 ====================

// Next 校验当前步骤并前进
// @Summary 下一步
// @Description 校验失败时 advanced=false，错误在 session.errors 中
// @Tags Wizard
// @Produce json
// @Security BearerAuth
// @Param id path string true "会话ID"
// @Success 200 {object} dto.NextResponse
// @Router /api/wizard/sessions/{id}/next [post]
func (ctrl *WizardController) Next(c *gin.Context) {
	result, err := ctrl.wizardService.Next(c.Request.Context(), middleware.GetUserID(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, result)
}

// Back 返回上一步
// @Summary 上一步
// @Tags Wizard
// @Produce json
// @Security BearerAuth
// @Param id path string true "会话ID"
// @Success 200 {object} dto.BackResponse
// @Router /api/wizard/sessions/{id}/back [post]
func (ctrl *WizardController) Back(c *gin.Context) {
	result, err := ctrl.wizardService.Back(c.Request.Context(), middleware.GetUserID(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, result)
}

// ==================== 字段编辑 ====================

// SetCategory 选择分类
// @Summary 选择分类
// @Tags Wizard
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "会话ID"
// @Param body body dto.SetCategoryRequest true "分类"
// @Success 200 {object} dto.SessionVO
// @Router /api/wizard/sessions/{id}/category [put]
func (ctrl *WizardController) SetCategory(c *gin.Context) {
	var req dto.SetCategoryRequest
	if !bindJSON(c, &req) {
		return
	}
	result, err := ctrl.wizardService.SetCategory(c.Request.Context(), middleware.GetUserID(c), c.Param("id"), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, result)
}

// SetSubcategory 选择子分类
// @Summary 选择子分类
// @Tags Wizard
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "会话ID"
// @Param body body dto.SetSubcategoryRequest true "子分类"
// @Success 200 {object} dto.SessionVO
// @Router /api/wizard/sessions/{id}/subcategory [put]
func (ctrl *WizardController) SetSubcategory(c *gin.Context) {
	var req dto.SetSubcategoryRequest
	if !bindJSON(c, &req) {
		return
	}
	result, err := ctrl.wizardService.SetSubcategory(c.Request.Context(), middleware.GetUserID(c), c.Param("id"), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, result)
}

// SetCondition 选择成色
// @Summary 选择成色
// @Tags Wizard
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "会话ID"
// @Param body body dto.SetConditionRequest true "成色"
// @Success 200 {object} dto.SessionVO
// @Router /api/wizard/sessions/{id}/condition [put]
func (ctrl *WizardController) SetCondition(c *gin.Context) {
	var req dto.SetConditionRequest
	if !bindJSON(c, &req) {
		return
	}
	result, err := ctrl.wizardService.SetCondition(c.Request.Context(), middleware.GetUserID(c), c.Param("id"), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, result)
}

// SetAttribute 设置属性值
// @Summary 设置动态属性
// @Description 返回因父字段变化被清除的依赖字段
// @Tags Wizard
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "会话ID"
// @Param name path string true "属性名"
// @Param body body dto.SetAttributeRequest true "属性值"
// @Success 200 {object} dto.SetAttributeResponse
// @Router /api/wizard/sessions/{id}/attributes/{name} [put]
func (ctrl *WizardController) SetAttribute(c *gin.Context) {
	var req dto.SetAttributeRequest
	if !bindJSON(c, &req) {
		return
	}
	result, err := ctrl.wizardService.SetAttribute(c.Request.Context(), middleware.GetUserID(c), c.Param("id"), c.Param("name"), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, result)
}

// AddImage 追加图片
// @Summary 追加图片引用
// @Tags Wizard
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "会话ID"
// @Param body body dto.AddImageRequest true "图片引用"
// @Success 200 {object} dto.SessionVO
// @Router /api/wizard/sessions/{id}/images [post]
func (ctrl *WizardController) AddImage(c *gin.Context) {
	var req dto.AddImageRequest
	if !bindJSON(c, &req) {
		return
	}
	result, err := ctrl.wizardService.AddImage(c.Request.Context(), middleware.GetUserID(c), c.Param("id"), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, result)
}

// RemoveImage 删除图片
// @Summary 删除图片
// @Tags Wizard
// @Produce json
// @Security BearerAuth
// @Param id path string true "会话ID"
// @Param index path int true "图片索引"
// @Success 200 {object} dto.SessionVO
// @Router /api/wizard/sessions/{id}/images/{index} [delete]
func (ctrl *WizardController) RemoveImage(c *gin.Context) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		respondBadRequest(c, "无效的图片索引")
		return
	}
	result, err := ctrl.wizardService.RemoveImage(c.Request.Context(), middleware.GetUserID(c), c.Param("id"), index)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, result)
}

// SetDetails 标题与描述
// @Summary 设置标题与描述
// @Tags Wizard
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "会话ID"
// @Param body body dto.SetDetailsRequest true "标题与描述"
// @Success 200 {object} dto.SessionVO
// @Router /api/wizard/sessions/{id}/details [put]
func (ctrl *WizardController) SetDetails(c *gin.Context) {
	var req dto.SetDetailsRequest
	if !bindJSON(c, &req) {
		return
	}
	result, err := ctrl.wizardService.SetDetails(c.Request.Context(), middleware.GetUserID(c), c.Param("id"), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, result)
}

// SetPricing 价格与联系方式
// @Summary 设置价格、所在地与联系方式
// @Tags Wizard
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "会话ID"
// @Param body body dto.SetPricingRequest true "价格与联系方式"
// @Success 200 {object} dto.SessionVO
// @Router /api/wizard/sessions/{id}/pricing [put]
func (ctrl *WizardController) SetPricing(c *gin.Context) {
	var req dto.SetPricingRequest
	if !bindJSON(c, &req) {
		return
	}
	result, err := ctrl.wizardService.SetPricing(c.Request.Context(), middleware.GetUserID(c), c.Param("id"), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, result)
}

// ==================== 发布 ====================

// Submit 发布
// @Summary 发布商品
// @Description 只能在 review 步骤调用；校验失败返回 422，上架服务拒绝返回 502
// @Tags Wizard
// @Produce json
// @Security BearerAuth
// @Param id path string true "会话ID"
// @Success 201 {object} dto.SubmitResponse
// @Router /api/wizard/sessions/{id}/submit [post]
func (ctrl *WizardController) Submit(c *gin.Context) {
	result, err := ctrl.wizardService.Submit(c.Request.Context(), middleware.GetUserID(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusCreated, result)
}

// bindJSON 绑定失败时直接返回 400
func bindJSON(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		respondBadRequest(c, "参数错误: "+err.Error())
		return false
	}
	return true
}
