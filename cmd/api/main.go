package main

import (
	"context"
	"fmt"
	"net/http"
	_ "net/http/pprof"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"catalog_go/internal/api/mgt"
	v1 "catalog_go/internal/api/v1"
	"catalog_go/internal/core/config"
	"catalog_go/internal/core/database"
	"catalog_go/internal/core/logger"
	"catalog_go/internal/core/snowflake"
	"catalog_go/internal/middleware"
	"catalog_go/internal/repository"
	"catalog_go/internal/service"

	"github.com/redis/go-redis/v9"
)

func main() {
	// 1. 加载配置 (Viper)
	if err := config.Init("."); err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}
	cfg := config.Get()

	// 2. 初始化 Logger
	if err := logger.Init(&cfg.Logging); err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("Starting catalog_go...")

	// 3. 初始化 Postgres
	if err := database.Init(&cfg.Database); err != nil {
		logger.Error("Failed to init database", logger.String("error", err.Error()))
		os.Exit(1)
	}
	defer database.Close()

	// 4. 初始化 Redis (L2 Cache)
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.GetRedisAddr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
		PoolSize: cfg.Redis.PoolSize,
	})
	defer redisClient.Close()

	// 5. 初始化 Snowflake
	if err := snowflake.Init(&cfg.Snowflake); err != nil {
		logger.Error("Failed to init snowflake", logger.String("error", err.Error()))
		os.Exit(1)
	}

	// 6. 初始化 Repository
	tagRepo := repository.NewTagRepository(database.Get())
	boardRepo := repository.NewBoardRepository(database.Get())
	boardTagRepo := repository.NewBoardTagRepository(database.Get())
	assetRepo := repository.NewAssetRepository(database.Get())
	assetLinkRepo := repository.NewAssetLinkRepository(database.Get())
	analyticsRepo := repository.NewAnalyticsRepository(database.Get())
	taxonomyRepo := repository.NewTaxonomyRepository(database.Get())
	userRepo := repository.NewUserRepository(database.Get())

	// 7. 初始化 Service
	tagSvc := service.NewTagService(tagRepo, boardRepo, redisClient, &cfg.Cache)
	boardSvc := service.NewBoardService(boardRepo, boardTagRepo, assetLinkRepo, tagRepo, assetRepo, redisClient, &cfg.Cache)
	analyticsSvc := service.NewAnalyticsService(analyticsRepo, &cfg.Analytics)
	taxonomySvc := service.NewTaxonomyService(taxonomyRepo, time.Duration(cfg.Cache.DisplayTTLSec)*time.Second)
	userSvc := service.NewUserService(userRepo)

	// 8. 初始化 Handler
	boardV1Handler := v1.NewBoardHandler(boardSvc)
	tagV1Handler := v1.NewTagHandler(tagSvc)
	taxonomyV1Handler := v1.NewTaxonomyHandler(taxonomySvc)
	trackV1Handler := v1.NewTrackHandler(analyticsSvc)

	authMgtHandler := mgt.NewAuthHandler(userSvc)
	boardMgtHandler := mgt.NewBoardHandler(boardSvc)
	tagMgtHandler := mgt.NewTagHandler(tagSvc)
	analyticsMgtHandler := mgt.NewAnalyticsHandler(analyticsSvc)
	cacheMgtHandler := mgt.NewCacheHandler(tagSvc, boardSvc, taxonomySvc)

	// 9. 创建 IP 限制器
	rateLimiter := middleware.NewIPLimiter(cfg.Security.RateLimit, 60)

	// 10. 注册路由
	gin.SetMode(cfg.App.Mode)
	router := gin.New()

	// Middleware
	router.Use(middleware.RecoveryMiddleware())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggerMiddleware())
	router.Use(middleware.RateLimitMW(rateLimiter))
	router.Use(middleware.CORSMiddleware())

	// Health Check (跳过 IP 检查)
	router.GET("/health", func(c *gin.Context) {
		if err := database.Ping(); err != nil {
			c.JSON(503, gin.H{"status": "unhealthy", "error": err.Error()})
			return
		}
		c.JSON(200, gin.H{
			"status":    "healthy",
			"timestamp": time.Now().Unix(),
		})
	})

	// Health Check (详细版 - 用于负载均衡)
	router.GET("/healthz", func(c *gin.Context) {
		status := "ok"
		checks := make(map[string]string)

		// 检查 Postgres
		if err := database.Ping(); err != nil {
			status = "error"
			checks["postgres"] = err.Error()
		} else {
			checks["postgres"] = "ok"
		}

		// 检查 Redis
		ctx := context.Background()
		if err := redisClient.Ping(ctx).Err(); err != nil {
			status = "error"
			checks["redis"] = err.Error()
		} else {
			checks["redis"] = "ok"
		}

		code := 200
		if status != "ok" {
			code = 503
		}
		c.JSON(code, gin.H{
			"status":    status,
			"checks":    checks,
			"timestamp": time.Now().Unix(),
		})
	})

	// Root path (跳过 IP 检查)
	router.GET("/", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"name":    "catalog_go",
			"status":  "running",
			"version": "1.0.0",
		})
	})

	// Metrics (跳过 IP 检查)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Public API (v1)
	v1Group := router.Group("/api/v1")
	{
		// Board
		v1Group.GET("/boards", boardV1Handler.List)
		v1Group.GET("/board/:slug", boardV1Handler.Get)

		// Tag
		v1Group.GET("/tags", tagV1Handler.List)
		v1Group.GET("/tag/:slug", tagV1Handler.Get)
		v1Group.GET("/tag/:slug/boards", tagV1Handler.Boards)

		// Taxonomy display
		v1Group.GET("/taxonomy/display", taxonomyV1Handler.Display)

		// Engagement tracking
		v1Group.POST("/track", trackV1Handler.Track)
	}

	// Management API (mgt) - 强制 IP 白名单
	mgtGroup := router.Group("/api/mgt")
	mgtGroup.Use(middleware.AdminWhitelistMW())
	{
		mgtGroup.POST("/login", authMgtHandler.Login)
		mgtGroup.POST("/register", authMgtHandler.Register)

		boardMgt := mgtGroup.Group("")
		boardMgt.Use(middleware.JWTMW(&cfg.JWT))
		{
			boardMgt.POST("/boards", boardMgtHandler.Create)
			boardMgt.POST("/boards/reorder", boardMgtHandler.Reorder)
			boardMgt.PUT("/board/:slug", boardMgtHandler.Update)
			boardMgt.DELETE("/board/:slug", boardMgtHandler.Delete)

			boardMgt.POST("/board/:slug/tag/:tagSlug", boardMgtHandler.AttachTag)
			boardMgt.DELETE("/board/:slug/tag/:tagSlug", boardMgtHandler.DetachTag)

			boardMgt.POST("/board/:slug/assets", boardMgtHandler.PlaceAsset)
			boardMgt.DELETE("/board/:slug/asset/:assetID", boardMgtHandler.RemoveAsset)
			boardMgt.POST("/assets/resync-tags", boardMgtHandler.ResyncAssetTags)

			boardMgt.POST("/tags", tagMgtHandler.Create)
			boardMgt.GET("/tags/export", tagMgtHandler.Export)
			boardMgt.PUT("/tag/:slug", tagMgtHandler.Update)
			boardMgt.DELETE("/tag/:slug", tagMgtHandler.Delete)

			boardMgt.GET("/analytics/report", analyticsMgtHandler.Report)

			boardMgt.POST("/cache/flush", cacheMgtHandler.Flush)
		}
	}

	// 11. 启动 HTTP Server
	srv := &http.Server{
		Addr:    cfg.App.GetServerAddr(),
		Handler: router,
	}

	go func() {
		logger.Info("Server starting", logger.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("Server error", logger.String("error", err.Error()))
		}
	}()

	// pprof Server (可选，用于性能分析)
	go func() {
		logger.Info("PProf server starting", logger.String("addr", "localhost:6060"))
		if err := http.ListenAndServe("localhost:6060", nil); err != nil && err != http.ErrServerClosed {
			logger.Error("PProf server error", logger.String("error", err.Error()))
		}
	}()

	// Graceful shutdown (优雅关闭)
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", logger.String("error", err.Error()))
	}

	database.Close()
	redisClient.Close()
	logger.Sync()

	logger.Info("Server exited gracefully")
}
