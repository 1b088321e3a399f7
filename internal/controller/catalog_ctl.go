package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"listing_wizard_v1_202610/internal/service"
)

// CatalogController 分类目录控制器
type CatalogController struct {
	catalogService *service.CatalogService
}

func NewCatalogController(catalogService *service.CatalogService) *CatalogController {
	return &CatalogController{catalogService: catalogService}
}

// GetCategories 分类列表
// @Summary 获取一级分类
// @Tags Catalog
// @Produce json
// @Success 200 {array} dto.CategoryVO
// @Router /api/catalog/categories [get]
func (ctrl *CatalogController) GetCategories(c *gin.Context) {
	respondOK(c, http.StatusOK, ctrl.catalogService.Categories())
}

// GetSubcategories 子分类列表
// @Summary 获取子分类
// @Tags Catalog
// @Produce json
// @Param category_id path string true "分类ID"
// @Success 200 {array} dto.SubcategoryVO
// @Router /api/catalog/categories/{category_id}/subcategories [get]
func (ctrl *CatalogController) GetSubcategories(c *gin.Context) {
	result, err := ctrl.catalogService.Subcategories(c.Param("category_id"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, result)
}

// GetSubcategoryConfig 子分类配置
// @Summary 获取子分类属性定义与成色选项
// @Tags Catalog
// @Produce json
// @Param category_id path string true "分类ID"
// @Param subcategory_id path string true "子分类ID"
// @Success 200 {object} dto.SubcategoryConfigVO
// @Router /api/catalog/categories/{category_id}/subcategories/{subcategory_id} [get]
func (ctrl *CatalogController) GetSubcategoryConfig(c *gin.Context) {
	result, err := ctrl.catalogService.SubcategoryConfig(c.Param("category_id"), c.Param("subcategory_id"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, result)
}
