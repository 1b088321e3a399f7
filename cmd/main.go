package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"listing_wizard_v1_202610/internal/controller"
	"listing_wizard_v1_202610/internal/middleware"
	"listing_wizard_v1_202610/internal/model"
	"listing_wizard_v1_202610/internal/repository"
	"listing_wizard_v1_202610/internal/router"
	"listing_wizard_v1_202610/internal/schema"
	"listing_wizard_v1_202610/internal/service"
	"listing_wizard_v1_202610/internal/task"
	"listing_wizard_v1_202610/internal/wizard"
	"listing_wizard_v1_202610/pkg/config"
	"listing_wizard_v1_202610/pkg/database"
	"listing_wizard_v1_202610/pkg/logger"
	"listing_wizard_v1_202610/pkg/marketplace"
)

// @title Listing Wizard API
// @version 1.0
// @description 分类驱动的商品发布向导
// @host localhost:8080
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	// 1. 加载配置
	cfg, err := config.Load(getEnv("LISTING_CONFIG", ""))
	if err != nil {
		panic(err)
	}

	// 2. 初始化日志
	log, err := logger.Init(cfg.Log.Level, cfg.Log.Development)
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	// 3. 初始化依赖
	deps, err := initDependencies(cfg)
	if err != nil {
		log.Fatal("依赖初始化失败", zap.Error(err))
	}

	// 4. 启动定时任务
	sweeper := task.NewSessionSweeper(deps.Wizard, deps.Limiter, cfg.Session.TTL, cfg.Session.SweepCron)
	if err := sweeper.Start(); err != nil {
		log.Fatal("无法启动会话清理任务", zap.Error(err))
	}
	defer sweeper.Stop()

	// 5. 初始化路由
	gin.SetMode(cfg.Server.Mode)
	r := gin.New()
	r.Use(gin.Recovery())
	router.InitRoutes(r, deps.Controllers, deps.Limiter)

	// 6. 启动服务
	startServer(cfg.Addr(), r)
}

// ==================== 依赖容器 ====================

// Dependencies 依赖容器
type Dependencies struct {
	DB          *gorm.DB // 远程上架模式下为 nil
	Registry    schema.Registry
	Wizard      *service.WizardService
	Limiter     *middleware.SubmitLimiter
	Controllers router.Controllers
}

// ==================== 初始化函数 ====================

// initDependencies 初始化所有依赖
func initDependencies(cfg *config.Config) (*Dependencies, error) {
	middleware.SetJWTConfig(&middleware.JWTConfig{
		SecretKey:      cfg.JWT.Secret,
		Issuer:         cfg.JWT.Issuer,
		AccessTokenTTL: middleware.DefaultJWTConfig().AccessTokenTTL,
	})

	registry, err := initRegistry(cfg.Catalog.Path)
	if err != nil {
		return nil, err
	}

	deps := &Dependencies{
		Registry: registry,
		Limiter:  middleware.NewSubmitLimiter(cfg.RateLimit.SubmitPerMinute, cfg.RateLimit.Burst),
	}

	// -------- 上架后端 --------
	var creator wizard.ListingCreator
	switch cfg.Listing.Backend {
	case config.ListingBackendRemote:
		creator = marketplace.NewClient(marketplace.Options{
			BaseURL: cfg.Listing.RemoteURL,
			Token:   cfg.Listing.RemoteToken,
			Timeout: cfg.Listing.Timeout,
			Debug:   cfg.Log.Development,
		})
		logger.L().Info("上架后端: 远程服务", zap.String("url", cfg.Listing.RemoteURL))
	default:
		db, err := initDatabase(cfg)
		if err != nil {
			return nil, err
		}
		deps.DB = db

		repo := repository.NewListingRepository(db)
		creator = repository.NewDBListingCreator(repo)
		deps.Controllers.Listing = controller.NewListingController(service.NewListingService(repo))
		logger.L().Info("上架后端: 本地数据库")
	}

	// -------- 业务服务 --------
	deps.Wizard = service.NewWizardService(registry, creator)

	// -------- Controller 层 --------
	deps.Controllers.Wizard = controller.NewWizardController(deps.Wizard)
	deps.Controllers.Catalog = controller.NewCatalogController(service.NewCatalogService(registry))

	return deps, nil
}

// initRegistry 加载分类目录，未配置路径时使用内置目录
func initRegistry(path string) (schema.Registry, error) {
	if path == "" {
		catalog := schema.Default()
		logCatalog("内置", catalog)
		return catalog, nil
	}

	catalog, err := schema.LoadFile(path)
	if err != nil {
		return nil, err
	}
	logCatalog(path, catalog)
	return catalog, nil
}

func logCatalog(source string, catalog *schema.Catalog) {
	cats, subs, attrs := catalog.Stats()
	logger.L().Info("分类目录已加载",
		zap.String("source", source),
		zap.Int("categories", cats),
		zap.Int("subcategories", subs),
		zap.Int("attributes", attrs),
	)
}

// initDatabase 初始化数据库
func initDatabase(cfg *config.Config) (*gorm.DB, error) {
	opts := database.DefaultOptions()
	if cfg.Database.LogLevel != "" {
		opts.LogLevel = cfg.Database.LogLevel
	}

	db, err := database.Open(cfg.Database.DSN, opts, &model.Listing{})
	if err != nil {
		return nil, err
	}
	middleware.RegisterAuditCallbacks(db)
	return db, nil
}

// ==================== 服务启动 ====================

// startServer 启动服务
func startServer(addr string, r *gin.Engine) {
	srv := &http.Server{
		Addr:    addr,
		Handler: r,
	}

	// 异步启动服务
	go func() {
		logger.L().Info("服务启动", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.L().Fatal("服务启动失败", zap.Error(err))
		}
	}()

	// 等待退出信号
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.L().Info("正在关闭服务...")

	// 优雅关闭，最多等待 30 秒
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.L().Error("服务强制关闭", zap.Error(err))
	}

	logger.L().Info("服务已退出")
}

// ==================== 工具函数 ====================

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
