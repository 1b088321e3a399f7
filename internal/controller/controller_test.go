package controller

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"listing_wizard_v1_202610/internal/middleware"
	"listing_wizard_v1_202610/internal/model"
	"listing_wizard_v1_202610/internal/repository"
	"listing_wizard_v1_202610/internal/schema"
	"listing_wizard_v1_202610/internal/service"
	"listing_wizard_v1_202610/internal/wizard"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// setupRouter 组装完整链路，上架写入内存 sqlite
func setupRouter(t *testing.T, limiter *middleware.SubmitLimiter) *gin.Engine {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("连接测试数据库失败: %v", err)
	}
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(&model.Listing{}))

	registry := schema.Default()
	repo := repository.NewListingRepository(db)

	wizardCtl := NewWizardController(service.NewWizardService(registry, repository.NewDBListingCreator(repo)))
	catalogCtl := NewCatalogController(service.NewCatalogService(registry))
	listingCtl := NewListingController(service.NewListingService(repo))

	if limiter == nil {
		limiter = middleware.NewSubmitLimiter(600, 100)
	}

	r := gin.New()
	api := r.Group("/api")
	api.GET("/catalog/categories", catalogCtl.GetCategories)
	api.GET("/catalog/categories/:category_id/subcategories", catalogCtl.GetSubcategories)
	api.GET("/catalog/categories/:category_id/subcategories/:subcategory_id", catalogCtl.GetSubcategoryConfig)

	authed := api.Group("", middleware.JWTAuth(), middleware.AuditContext())
	s := authed.Group("/wizard/sessions")
	s.POST("", wizardCtl.Start)
	s.GET("/:id", wizardCtl.Get)
	s.DELETE("/:id", wizardCtl.Cancel)
	s.POST("/:id/next", wizardCtl.Next)
	s.POST("/:id/back", wizardCtl.Back)
	s.PUT("/:id/category", wizardCtl.SetCategory)
	s.PUT("/:id/subcategory", wizardCtl.SetSubcategory)
	s.PUT("/:id/condition", wizardCtl.SetCondition)
	s.PUT("/:id/attributes/:name", wizardCtl.SetAttribute)
	s.POST("/:id/images", wizardCtl.AddImage)
	s.DELETE("/:id/images/:index", wizardCtl.RemoveImage)
	s.PUT("/:id/details", wizardCtl.SetDetails)
	s.PUT("/:id/pricing", wizardCtl.SetPricing)
	s.POST("/:id/submit", middleware.SubmitRateLimit(limiter), wizardCtl.Submit)

	authed.GET("/listings", listingCtl.List)
	authed.GET("/listings/:id", listingCtl.Get)
	return r
}

func performRequest(r http.Handler, method, path string, body interface{}, token string) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, data interface{}) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	if data != nil && len(env.Data) > 0 {
		require.NoError(t, json.Unmarshal(env.Data, data))
	}
	return env
}

func tokenFor(t *testing.T, userID int64) string {
	t.Helper()
	token, err := middleware.GenerateAccessToken(userID, fmt.Sprintf("user-%d", userID))
	require.NoError(t, err)
	return token
}

type sessionBody struct {
	SessionID  string            `json:"session_id"`
	Step       string            `json:"step"`
	StepIndex  int               `json:"step_index"`
	Errors     map[string]string `json:"errors"`
	ErrorCount int               `json:"error_count"`
	Images     []string          `json:"images"`
}

type nextBody struct {
	Advanced bool        `json:"advanced"`
	Session  sessionBody `json:"session"`
}

func startSession(t *testing.T, r http.Handler, token string) string {
	t.Helper()
	w := performRequest(r, http.MethodPost, "/api/wizard/sessions", nil, token)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var s sessionBody
	decode(t, w, &s)
	require.NotEmpty(t, s.SessionID)
	return s.SessionID
}

// fillToReview 通过接口把会话填写到确认步骤
func fillToReview(t *testing.T, r http.Handler, token, id string) {
	t.Helper()
	base := "/api/wizard/sessions/" + id

	put := func(path string, body interface{}) {
		t.Helper()
		w := performRequest(r, http.MethodPut, base+path, body, token)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	}
	next := func() {
		t.Helper()
		w := performRequest(r, http.MethodPost, base+"/next", nil, token)
		require.Equal(t, http.StatusOK, w.Code)
		var resp nextBody
		decode(t, w, &resp)
		require.True(t, resp.Advanced, "未前进: %v", resp.Session.Errors)
	}

	put("/category", gin.H{"category_id": "electronics"})
	put("/subcategory", gin.H{"subcategory_id": "smartphones"})
	next()

	w := performRequest(r, http.MethodPost, base+"/images", gin.H{"ref": "media://front"}, token)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	next()

	put("/details", gin.H{
		"title":       "iPhone 14 128GB",
		"description": "Barely used, battery health 95%, original box.",
	})
	put("/condition", gin.H{"condition": "Like New"})
	next()

	put("/attributes/brand", gin.H{"value": "Apple"})
	put("/attributes/model", gin.H{"value": "iPhone 14"})
	next()

	put("/pricing", gin.H{
		"price":    "450",
		"location": "Berlin",
		"contact":  gin.H{"chat": true},
	})
	next()
}

// ==================== 分类目录 ====================

func TestCatalogController(t *testing.T) {
	r := setupRouter(t, nil)

	t.Run("分类列表无需登录", func(t *testing.T) {
		w := performRequest(r, http.MethodGet, "/api/catalog/categories", nil, "")
		require.Equal(t, http.StatusOK, w.Code)

		var cats []map[string]interface{}
		env := decode(t, w, &cats)
		assert.Equal(t, 0, env.Code)
		assert.Equal(t, "success", env.Message)
		require.NotEmpty(t, cats)
		assert.Equal(t, "electronics", cats[0]["id"])
	})

	t.Run("未知分类返回 404", func(t *testing.T) {
		w := performRequest(r, http.MethodGet, "/api/catalog/categories/spaceships/subcategories", nil, "")
		assert.Equal(t, http.StatusNotFound, w.Code)
		env := decode(t, w, nil)
		assert.Equal(t, http.StatusNotFound, env.Code)
	})

	t.Run("子分类配置", func(t *testing.T) {
		w := performRequest(r, http.MethodGet, "/api/catalog/categories/vehicles/subcategories/cars", nil, "")
		require.Equal(t, http.StatusOK, w.Code)

		var cfg struct {
			Attributes       []map[string]interface{} `json:"attributes"`
			ConditionOptions []string                 `json:"condition_options"`
		}
		decode(t, w, &cfg)
		assert.NotEmpty(t, cfg.Attributes)
		assert.NotEmpty(t, cfg.ConditionOptions)
	})

	t.Run("子分类不属于该分类", func(t *testing.T) {
		w := performRequest(r, http.MethodGet, "/api/catalog/categories/electronics/subcategories/cars", nil, "")
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

// ==================== 发布向导 ====================

func TestWizardController_Auth(t *testing.T) {
	r := setupRouter(t, nil)

	t.Run("未登录", func(t *testing.T) {
		w := performRequest(r, http.MethodPost, "/api/wizard/sessions", nil, "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("访问他人会话", func(t *testing.T) {
		id := startSession(t, r, tokenFor(t, 1))
		w := performRequest(r, http.MethodGet, "/api/wizard/sessions/"+id, nil, tokenFor(t, 2))
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("会话不存在", func(t *testing.T) {
		w := performRequest(r, http.MethodGet, "/api/wizard/sessions/nope", nil, tokenFor(t, 1))
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestWizardController_Steps(t *testing.T) {
	r := setupRouter(t, nil)
	token := tokenFor(t, 7)
	id := startSession(t, r, token)
	base := "/api/wizard/sessions/" + id

	t.Run("未选分类时下一步不前进", func(t *testing.T) {
		w := performRequest(r, http.MethodPost, base+"/next", nil, token)
		require.Equal(t, http.StatusOK, w.Code)

		var resp nextBody
		decode(t, w, &resp)
		assert.False(t, resp.Advanced)
		assert.Equal(t, "category", resp.Session.Step)
		assert.Contains(t, resp.Session.Errors, "category")
		assert.Equal(t, len(resp.Session.Errors), resp.Session.ErrorCount)
	})

	t.Run("参数缺失", func(t *testing.T) {
		w := performRequest(r, http.MethodPut, base+"/category", gin.H{}, token)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("未知分类", func(t *testing.T) {
		w := performRequest(r, http.MethodPut, base+"/category", gin.H{"category_id": "spaceships"}, token)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("第一步返回", func(t *testing.T) {
		w := performRequest(r, http.MethodPost, base+"/back", nil, token)
		require.Equal(t, http.StatusOK, w.Code)

		var resp struct {
			Left bool `json:"left"`
		}
		decode(t, w, &resp)
		assert.True(t, resp.Left)
	})

	t.Run("图片索引", func(t *testing.T) {
		w := performRequest(r, http.MethodPost, base+"/images", gin.H{"ref": "media://a"}, token)
		require.Equal(t, http.StatusOK, w.Code)

		w = performRequest(r, http.MethodDelete, base+"/images/abc", nil, token)
		assert.Equal(t, http.StatusBadRequest, w.Code)

		w = performRequest(r, http.MethodDelete, base+"/images/5", nil, token)
		assert.Equal(t, http.StatusBadRequest, w.Code)

		w = performRequest(r, http.MethodDelete, base+"/images/0", nil, token)
		require.Equal(t, http.StatusOK, w.Code)
		var s sessionBody
		decode(t, w, &s)
		assert.Empty(t, s.Images)
	})

	t.Run("依赖字段被清除", func(t *testing.T) {
		w := performRequest(r, http.MethodPut, base+"/category", gin.H{"category_id": "vehicles"}, token)
		require.Equal(t, http.StatusOK, w.Code)
		w = performRequest(r, http.MethodPut, base+"/subcategory", gin.H{"subcategory_id": "cars"}, token)
		require.Equal(t, http.StatusOK, w.Code)

		w = performRequest(r, http.MethodPut, base+"/attributes/make", gin.H{"value": "Toyota"}, token)
		require.Equal(t, http.StatusOK, w.Code)
		w = performRequest(r, http.MethodPut, base+"/attributes/model", gin.H{"value": "Corolla"}, token)
		require.Equal(t, http.StatusOK, w.Code)

		w = performRequest(r, http.MethodPut, base+"/attributes/make", gin.H{"value": "BMW"}, token)
		require.Equal(t, http.StatusOK, w.Code)
		var resp struct {
			Cleared []string `json:"cleared"`
		}
		decode(t, w, &resp)
		assert.Equal(t, []string{"model"}, resp.Cleared)
	})

	t.Run("未知属性", func(t *testing.T) {
		w := performRequest(r, http.MethodPut, base+"/attributes/wingspan", gin.H{"value": 3}, token)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("取值类型不符", func(t *testing.T) {
		w := performRequest(r, http.MethodPut, base+"/attributes/mileage", gin.H{"value": gin.H{"x": 1}}, token)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		env := decode(t, w, nil)
		assert.Equal(t, wizard.ErrInvalidAttributeValue.Error(), env.Message)
	})

	t.Run("车型不属于当前品牌", func(t *testing.T) {
		w := performRequest(r, http.MethodPut, base+"/attributes/model", gin.H{"value": "Corolla"}, token)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		env := decode(t, w, nil)
		assert.Equal(t, wizard.ErrInvalidOption.Error(), env.Message)
	})

	t.Run("未到确认步骤提交", func(t *testing.T) {
		w := performRequest(r, http.MethodPost, base+"/submit", nil, token)
		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("取消会话", func(t *testing.T) {
		w := performRequest(r, http.MethodDelete, base, nil, token)
		require.Equal(t, http.StatusOK, w.Code)

		w = performRequest(r, http.MethodGet, base, nil, token)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestWizardController_SubmitAndList(t *testing.T) {
	r := setupRouter(t, nil)
	token := tokenFor(t, 7)
	id := startSession(t, r, token)
	fillToReview(t, r, token, id)

	w := performRequest(r, http.MethodPost, "/api/wizard/sessions/"+id+"/submit", nil, token)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var submitted struct {
		ListingID string `json:"listing_id"`
	}
	decode(t, w, &submitted)
	require.NotEmpty(t, submitted.ListingID)

	t.Run("提交成功后会话结束", func(t *testing.T) {
		w := performRequest(r, http.MethodGet, "/api/wizard/sessions/"+id, nil, token)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("我的商品列表", func(t *testing.T) {
		w := performRequest(r, http.MethodGet, "/api/listings?page=1&page_size=10", nil, token)
		require.Equal(t, http.StatusOK, w.Code)

		var list struct {
			Total int64                    `json:"total"`
			List  []map[string]interface{} `json:"list"`
		}
		decode(t, w, &list)
		assert.Equal(t, int64(1), list.Total)
		require.Len(t, list.List, 1)
		assert.Equal(t, "iPhone 14 128GB", list.List[0]["title"])
	})

	t.Run("商品详情", func(t *testing.T) {
		w := performRequest(r, http.MethodGet, "/api/listings/"+submitted.ListingID, nil, token)
		require.Equal(t, http.StatusOK, w.Code)

		w = performRequest(r, http.MethodGet, "/api/listings/"+submitted.ListingID, nil, tokenFor(t, 8))
		assert.Equal(t, http.StatusNotFound, w.Code)

		w = performRequest(r, http.MethodGet, "/api/listings/abc", nil, token)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestWizardController_SubmitRateLimit(t *testing.T) {
	r := setupRouter(t, middleware.NewSubmitLimiter(1, 1))
	token := tokenFor(t, 9)
	id := startSession(t, r, token)

	w := performRequest(r, http.MethodPost, "/api/wizard/sessions/"+id+"/submit", nil, token)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = performRequest(r, http.MethodPost, "/api/wizard/sessions/"+id+"/submit", nil, token)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.NotEmpty(t, w.Header().Get("Retry-After"))
}

// ==================== 错误映射 ====================

func TestRespondError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
		wantMsg  string
	}{
		{"未登录", service.ErrUnauthenticated, http.StatusUnauthorized, ""},
		{"会话上限", service.ErrTooManySessions, http.StatusTooManyRequests, ""},
		{"在途提交", wizard.ErrSubmitInFlight, http.StatusConflict, ""},
		{"包装后的错误", fmt.Errorf("wrap: %w", wizard.ErrTooManyImages), http.StatusBadRequest, ""},
		{"取值类型不符", wizard.ErrInvalidAttributeValue, http.StatusBadRequest, "字段取值类型不正确"},
		{"取值不在选项中", wizard.ErrInvalidOption, http.StatusBadRequest, "取值不在可选项中"},
		{"上级字段未选择", wizard.ErrAttributeDisabled, http.StatusBadRequest, "请先选择上级字段"},
		{"校验未通过", &wizard.ValidationError{Errors: wizard.FieldErrorMap{"title": "请输入标题"}}, http.StatusUnprocessableEntity, ""},
		{"上架服务说明", &wizard.SubmissionError{Detail: "价格超出范围"}, http.StatusBadGateway, "价格超出范围"},
		{"上架服务无说明", &wizard.SubmissionError{Err: errors.New("timeout")}, http.StatusBadGateway, "发布失败，请稍后重试"},
		{"未知错误", errors.New("boom"), http.StatusInternalServerError, "服务器内部错误"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			respondError(c, tt.err)

			assert.Equal(t, tt.wantCode, w.Code)
			env := decode(t, w, nil)
			assert.Equal(t, tt.wantCode, env.Code)
			if tt.wantMsg != "" {
				assert.Equal(t, tt.wantMsg, env.Message)
			}
		})
	}

	t.Run("校验错误携带字段", func(t *testing.T) {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		respondError(c, &wizard.ValidationError{Errors: wizard.FieldErrorMap{"title": "请输入标题", "price": "请输入价格"}})

		var data struct {
			Errors     map[string]string `json:"errors"`
			ErrorCount int               `json:"error_count"`
		}
		decode(t, w, &data)
		assert.Equal(t, 2, data.ErrorCount)
		assert.Equal(t, "请输入标题", data.Errors["title"])
	})
}
