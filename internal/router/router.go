package router

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"listing_wizard_v1_202610/internal/controller"
	"listing_wizard_v1_202610/internal/middleware"

	_ "listing_wizard_v1_202610/docs"
)

// Controllers 路由依赖
// Listing 为 nil 时不注册商品查询路由（远程上架模式）
type Controllers struct {
	Catalog *controller.CatalogController
	Wizard  *controller.WizardController
	Listing *controller.ListingController
}

// InitRoutes 注册所有路由
func InitRoutes(r *gin.Engine, ctls Controllers, limiter *middleware.SubmitLimiter) {
	// 1. Swagger 文档路由
	// 访问 http://localhost:8080/swagger/index.html 即可查看
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"code": 0, "message": "success"})
	})

	// 2. API 路由组
	api := r.Group("/api")
	{
		// catalog 分类目录，无需登录
		catalog := api.Group("/catalog")
		{
			// GET /api/catalog/categories
			catalog.GET("/categories", ctls.Catalog.GetCategories)
			catalog.GET("/categories/:category_id/subcategories", ctls.Catalog.GetSubcategories)
			catalog.GET("/categories/:category_id/subcategories/:subcategory_id", ctls.Catalog.GetSubcategoryConfig)
		}

		authed := api.Group("", middleware.JWTAuth(), middleware.AuditContext())

		// wizard 发布向导
		sessions := authed.Group("/wizard/sessions")
		{
			sessions.POST("", ctls.Wizard.Start)
			sessions.GET("/:id", ctls.Wizard.Get)
			sessions.DELETE("/:id", ctls.Wizard.Cancel)

			sessions.POST("/:id/next", ctls.Wizard.Next)
			sessions.POST("/:id/back", ctls.Wizard.Back)

			sessions.PUT("/:id/category", ctls.Wizard.SetCategory)
			sessions.PUT("/:id/subcategory", ctls.Wizard.SetSubcategory)
			sessions.PUT("/:id/condition", ctls.Wizard.SetCondition)
			sessions.PUT("/:id/attributes/:name", ctls.Wizard.SetAttribute)
			sessions.POST("/:id/images", ctls.Wizard.AddImage)
			sessions.DELETE("/:id/images/:index", ctls.Wizard.RemoveImage)
			sessions.PUT("/:id/details", ctls.Wizard.SetDetails)
			sessions.PUT("/:id/pricing", ctls.Wizard.SetPricing)

			// POST /api/wizard/sessions/:id/submit 按用户限流
			sessions.POST("/:id/submit", middleware.SubmitRateLimit(limiter), ctls.Wizard.Submit)
		}

		if ctls.Listing != nil {
			listings := authed.Group("/listings")
			{
				listings.GET("", ctls.Listing.List)
				listings.GET("/:id", ctls.Listing.Get)
			}
		}
	}
}
