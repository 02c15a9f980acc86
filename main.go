package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/Xushengqwer/image_search_service/docs" // 确保导入了 docs 包

	// 导入项目包
	appConfig "github.com/Xushengqwer/image_search_service/config"
	"github.com/Xushengqwer/image_search_service/constant"
	"github.com/Xushengqwer/image_search_service/controller"
	"github.com/Xushengqwer/image_search_service/dependencies"
	"github.com/Xushengqwer/image_search_service/mq/producer"
	"github.com/Xushengqwer/image_search_service/repo/postgres"
	redisrepo "github.com/Xushengqwer/image_search_service/repo/redis"
	"github.com/Xushengqwer/image_search_service/router"
	"github.com/Xushengqwer/image_search_service/service"
	"github.com/Xushengqwer/image_search_service/tasks"

	// 导入公共模块
	sharedCore "github.com/Xushengqwer/go-common/core"
	sharedTracing "github.com/Xushengqwer/go-common/core/tracing"

	"go.uber.org/zap"
)

// @title           Image Search Service API
// @version         1.0
// @description     图片入库与语义搜索服务：按内容哈希去重存储图片，基于描述向量做近邻检索。
// @termsOfService  http://swagger.io/terms/

// @license.name  Apache 2.0
// @license.url   http://www.apache.org/licenses/LICENSE-2.0.html

// @host      localhost:8083

// @schemes http https
func main() {
	// --- 配置和基础设置 ---
	var configFile string
	flag.StringVar(&configFile, "config", "config/config.development.yaml", "Path to configuration file")
	flag.Parse()

	// 1. 加载配置
	var cfg appConfig.ImageSearchConfig
	if err := sharedCore.LoadConfig(configFile, &cfg); err != nil {
		log.Fatalf("FATAL: 加载配置失败 (%s): %v", configFile, err)
	}

	// 打印最终生效的配置以供调试
	configBytes, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		log.Fatalf("无法序列化配置以进行打印: %v", err)
	}
	log.Printf("✅ 配置加载成功！最终生效的配置如下:\n%s\n", string(configBytes))

	// 2. 初始化 Logger
	logger, loggerErr := sharedCore.NewZapLogger(cfg.ZapConfig)
	if loggerErr != nil {
		log.Fatalf("FATAL: 初始化 ZapLogger 失败: %v", loggerErr)
	}
	defer func() {
		logger.Info("正在同步日志...")
		if err := logger.Logger().Sync(); err != nil {
			log.Printf("WARN: ZapLogger Sync 失败: %v\n", err)
		}
	}()
	logger.Info("Logger 初始化成功")

	// 3. 初始化 TracerProvider
	// MinIO 客户端的出站请求通过 otelhttp Transport 接入追踪（见 dependencies.InitMinio）。
	var tracerShutdown func(context.Context) error
	if cfg.TracerConfig.Enabled {
		var err error
		tracerShutdown, err = sharedTracing.InitTracerProvider(
			constant.ServiceName,
			constant.ServiceVersion,
			cfg.TracerConfig,
		)
		if err != nil {
			logger.Fatal("初始化 TracerProvider 失败", zap.Error(err))
		}
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			logger.Info("正在关闭 TracerProvider...")
			if err := tracerShutdown(ctx); err != nil {
				logger.Error("关闭 TracerProvider 失败", zap.Error(err))
			} else {
				logger.Info("TracerProvider 已成功关闭")
			}
		}()
		logger.Info("分布式追踪已初始化")
	} else {
		logger.Info("分布式追踪已禁用")
		tracerShutdown = func(ctx context.Context) error { return nil }
	}

	// --- 4. 初始化核心依赖 ---
	// 4.1 数据库 (PostgreSQL + pgvector)
	db, dbErr := dependencies.InitPostgres(&cfg, logger)
	if dbErr != nil {
		logger.Fatal("初始化 PostgreSQL 数据库失败", zap.Error(dbErr))
	}
	logger.Info("PostgreSQL 数据库连接成功")

	// 4.2 Redis
	rdb, redisErr := dependencies.InitRedis(&cfg.RedisConfig, logger)
	if redisErr != nil {
		logger.Fatal("初始化 Redis 失败", zap.Error(redisErr))
	}
	logger.Info("Redis 连接成功")

	// 4.3 MinIO 对象存储客户端
	minioClient, minioErr := dependencies.InitMinio(&cfg.MinioConfig, logger)
	if minioErr != nil {
		logger.Fatal("初始化 MinIO 客户端失败", zap.Error(minioErr))
	}
	logger.Info("MinIO 客户端初始化成功")

	// 4.4 句向量引擎 (ONNX)
	embedder, embedderErr := dependencies.InitEmbedder(&cfg.EmbeddingConfig, logger)
	if embedderErr != nil {
		logger.Fatal("初始化句向量引擎失败", zap.Error(embedderErr))
	}
	defer embedder.Close()
	logger.Info("句向量引擎初始化成功")

	// 4.5 Kafka 生产者
	var kafkaProducer *producer.KafkaProducer
	if len(cfg.KafkaConfig.Brokers) > 0 {
		kafkaProducer = producer.NewKafkaProducer(cfg.KafkaConfig, logger)
		defer func() {
			if err := kafkaProducer.Close(); err != nil {
				logger.Error("关闭 Kafka 生产者失败", zap.Error(err))
			}
		}()
		logger.Info("Kafka 生产者已初始化")
	} else {
		logger.Warn("未配置 Kafka brokers，Kafka 生产者将为 nil")
	}

	// --- 5. 初始化数据仓库层 (Repositories) ---
	imageRepo := postgres.NewImageRepository(db, logger)
	captionRepo := postgres.NewCaptionRepository(db, logger)
	logger.Debug("PostgreSQL Repositories 初始化完成")

	searchCache := redisrepo.NewSearchCache(rdb, logger)
	logger.Debug("Redis Repositories 初始化完成")

	// --- 6. 初始化服务层 (Services) ---
	ingestService := service.NewIngestService(imageRepo, captionRepo, minioClient, embedder, searchCache, kafkaProducer, logger)
	searchService := service.NewSearchService(captionRepo, embedder, searchCache, cfg.SearchConfig, logger)
	imageQueryService := service.NewImageQueryService(imageRepo, captionRepo, minioClient, logger)
	logger.Debug("Services 初始化完成")

	// --- 7. 初始化控制器层 (Controllers) ---
	imageController := controller.NewImageController(ingestService, imageQueryService, logger)
	searchController := controller.NewSearchController(searchService)
	logger.Debug("Controllers 初始化完成")

	// --- 8. 初始化定时任务 ---
	sweepTask := tasks.NewOrphanBlobSweepTask(imageRepo, minioClient, logger)
	logger.Info("后台定时任务已初始化并启动")

	// --- 9. 设置 Gin 路由器 ---
	ginRouter := router.SetupRouter(logger, &cfg, imageController, searchController)
	logger.Info("Gin 路由器已设置")

	// --- 10. 启动 HTTP 服务器 ---
	serverAddr := fmt.Sprintf(":%s", cfg.ServerConfig.Port)
	httpServer := &http.Server{
		Addr:    serverAddr,
		Handler: ginRouter,
	}

	go func() {
		logger.Info("HTTP 服务器开始监听", zap.String("address", serverAddr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("HTTP 服务器启动失败", zap.Error(err))
		}
		logger.Info("HTTP 服务器已停止监听")
	}()

	// --- 11. 实现优雅关停 ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	receivedSignal := <-quit
	logger.Info("收到关停信号，开始优雅退出...", zap.String("signal", receivedSignal.String()))

	shutdownCtx, shutdownCancelFunc := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancelFunc()

	// a. 停止 HTTP 服务器 (允许处理完当前请求)
	logger.Info("正在关闭 HTTP 服务器...")
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("关闭 HTTP 服务器失败", zap.Error(err))
	} else {
		logger.Info("HTTP 服务器已成功关闭")
	}

	// b. 停止定时任务调度器 (等待正在执行的清理结束)
	logger.Info("正在停止定时任务...")
	sweepStopCtx := sweepTask.Stop()
	select {
	case <-sweepStopCtx.Done():
		logger.Info("孤儿对象清理任务已停止")
	case <-shutdownCtx.Done():
		logger.Error("等待定时任务停止超时", zap.Error(shutdownCtx.Err()))
	}

	// c. (其他清理：TracerProvider / 日志 / 句向量引擎 - 已通过 defer 处理)

	logger.Info("服务已成功关闭")
}
