package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/Xushengqwer/go-common/core"
	"go.uber.org/zap"

	appConfig "github.com/Xushengqwer/image_search_service/config"
	"github.com/Xushengqwer/image_search_service/dependencies"
	"github.com/Xushengqwer/image_search_service/mq/producer"
	"github.com/Xushengqwer/image_search_service/repo/postgres"
	redisRepo "github.com/Xushengqwer/image_search_service/repo/redis"
	imageServicePkg "github.com/Xushengqwer/image_search_service/service"
)

func main() {
	// --- 0. 解析命令行参数 ---
	var numImages int
	var configFile string
	flag.StringVar(&configFile, "config", "config/config.development.yaml", "配置文件路径")
	flag.IntVar(&numImages, "n", 50, "要生成的图片数量 (默认: 50)")
	var waitSeconds int
	flag.IntVar(&waitSeconds, "wait", 5, "数据填充后等待的秒数 (确保异步事件发送完成, 默认: 5秒)")
	flag.Parse()

	absConfigFile, err := filepath.Abs(configFile)
	if err != nil {
		fmt.Printf("无法获取配置文件的绝对路径 '%s': %v\n", configFile, err)
		absConfigFile = configFile
	}
	fmt.Printf("准备使用配置文件 '%s' (尝试绝对路径: '%s') 生成 %d 张测试图片...\n", configFile, absConfigFile, numImages)

	if numImages <= 0 {
		fmt.Println("错误: 生成的图片数量必须大于 0")
		os.Exit(1)
	}
	if waitSeconds < 0 {
		fmt.Println("错误: 等待秒数不能为负")
		os.Exit(1)
	}

	// --- 1. 加载配置 ---
	var cfg appConfig.ImageSearchConfig
	if err := core.LoadConfig(absConfigFile, &cfg); err != nil {
		fmt.Printf("加载配置失败 (%s): %v\n", absConfigFile, err)
		os.Exit(1)
	}
	fmt.Println("配置加载成功。")
	if cfg.PostgresConfig.Write.DSN == "" {
		fmt.Println("警告: PostgreSQL Write DSN 为空。请检查：")
		fmt.Println("1. 配置文件路径是否正确 (当前尝试路径: ", absConfigFile, ")。")
		fmt.Println("2. 配置文件内容中 `postgres.write.dsn` 是否存在且有值。")
	}

	// --- 2. 初始化日志记录器 ---
	logger, loggerErr := core.NewZapLogger(cfg.ZapConfig)
	if loggerErr != nil {
		fmt.Printf("初始化 ZapLogger 失败: %v\n", loggerErr)
		os.Exit(1)
	}
	defer func() {
		_ = logger.Logger().Sync()
	}()
	logger.Info("Logger 初始化成功 (Seeder)")

	// --- 3. 初始化 PostgreSQL 数据库连接 ---
	db, dbErr := dependencies.InitPostgres(&cfg, logger)
	if dbErr != nil {
		logger.Fatal("初始化 PostgreSQL 失败 (Seeder)", zap.Error(dbErr))
	}
	logger.Info("PostgreSQL 连接成功 (Seeder)")

	// --- 4. 初始化 Redis ---
	rdb, redisErr := dependencies.InitRedis(&cfg.RedisConfig, logger)
	if redisErr != nil {
		logger.Fatal("初始化 Redis 失败 (Seeder)", zap.Error(redisErr))
	}
	logger.Info("Redis 连接成功 (Seeder)")

	// --- 5. 初始化 MinIO 客户端 ---
	minioClient, minioErr := dependencies.InitMinio(&cfg.MinioConfig, logger)
	if minioErr != nil {
		logger.Fatal("初始化 MinIO 客户端失败 (Seeder)", zap.Error(minioErr))
	}
	logger.Info("MinIO 客户端初始化成功 (Seeder)")

	// --- 6. 初始化句向量引擎 ---
	embedder, embedderErr := dependencies.InitEmbedder(&cfg.EmbeddingConfig, logger)
	if embedderErr != nil {
		logger.Fatal("初始化句向量引擎失败 (Seeder)", zap.Error(embedderErr))
	}
	defer embedder.Close()
	logger.Info("句向量引擎初始化成功 (Seeder)")

	// --- 7. 初始化 Kafka 生产者 (可选) ---
	var kafkaProducer *producer.KafkaProducer
	if len(cfg.KafkaConfig.Brokers) > 0 {
		kafkaProducer = producer.NewKafkaProducer(cfg.KafkaConfig, logger)
		logger.Info("Kafka 生产者已初始化 (Seeder)")
	} else {
		logger.Warn("未配置 Kafka brokers，Seeder 不发送入库事件")
	}

	// --- 8. 初始化 Repositories 与 Service ---
	imageRepo := postgres.NewImageRepository(db, logger)
	captionRepo := postgres.NewCaptionRepository(db, logger)
	searchCache := redisRepo.NewSearchCache(rdb, logger)

	ingestSvc := imageServicePkg.NewIngestService(
		imageRepo,
		captionRepo,
		minioClient,
		embedder,
		searchCache,
		kafkaProducer,
		logger,
	)

	// --- 9. 执行填充 ---
	ctx := context.Background()
	Seed(ctx, ingestSvc, logger, numImages)

	if waitSeconds > 0 {
		logger.Info("等待异步任务收尾...", zap.Int("seconds", waitSeconds))
		time.Sleep(time.Duration(waitSeconds) * time.Second)
	}
	logger.Info("Seeder 执行完毕。")
}
