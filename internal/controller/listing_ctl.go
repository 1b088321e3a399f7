package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"listing_wizard_v1_202610/internal/api/dto"
	"listing_wizard_v1_202610/internal/middleware"
	"listing_wizard_v1_202610/internal/service"
)

// ListingController 已发布商品控制器
type ListingController struct {
	listingService *service.ListingService
}

func NewListingController(listingService *service.ListingService) *ListingController {
	return &ListingController{listingService: listingService}
}

// List 我的商品
// @Summary 我的商品列表
// @Tags Listing
// @Produce json
// @Security BearerAuth
// @Param category_id query string false "分类ID"
// @Param status query string false "状态"
// @Param page query int false "页码"
// @Param page_size query int false "每页数量"
// @Success 200 {object} dto.ListingListResponse
// @Router /api/listings [get]
func (ctrl *ListingController) List(c *gin.Context) {
	var req dto.ListListingsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		respondBadRequest(c, "参数错误: "+err.Error())
		return
	}

	result, err := ctrl.listingService.List(c.Request.Context(), middleware.GetUserID(c), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, result)
}

// Get 商品详情
// @Summary 商品详情
// @Tags Listing
// @Produce json
// @Security BearerAuth
// @Param id path string true "商品ID"
// @Success 200 {object} dto.ListingVO
// @Router /api/listings/{id} [get]
func (ctrl *ListingController) Get(c *gin.Context) {
	result, err := ctrl.listingService.Get(c.Request.Context(), middleware.GetUserID(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, result)
}
