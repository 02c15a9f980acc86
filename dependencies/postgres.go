// dependencies/postgres.go
package dependencies

import (
	"database/sql"
	"fmt"
	"time"

	"gorm.io/plugin/dbresolver"

	"github.com/Xushengqwer/go-common/core"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	appConfig "github.com/Xushengqwer/image_search_service/config"
	"github.com/Xushengqwer/image_search_service/models/entities"
)

// InitPostgres 初始化 PostgreSQL 连接，并配置读写分离 (如果配置了从库)。
// - 与 MySQL 初始化的差异：向量检索依赖 pgvector，连接建立后、迁移之前
//   需要确保 vector 扩展已启用（CREATE EXTENSION IF NOT EXISTS vector）。
// - 开启 TranslateError，让仓库层可以用 errors.Is 识别
//   gorm.ErrDuplicatedKey（去重竞争）与 gorm.ErrForeignKeyViolated（引用完整性）。
func InitPostgres(cfg *appConfig.ImageSearchConfig, logger *core.ZapLogger) (*gorm.DB, error) {
	pgCfg := cfg.PostgresConfig     // 获取 Postgres 配置
	gormLogCfg := cfg.GormLogConfig // 获取 GORM 日志配置

	// --- 主库连接 ---
	if pgCfg.Write.DSN == "" {
		return nil, fmt.Errorf("主数据库 DSN (postgres.write.dsn) 未配置")
	}
	gormLogger := core.NewGormLogger(logger, gormLogCfg)
	gormConfig := &gorm.Config{
		Logger:         gormLogger,
		TranslateError: true, // 将方言错误翻译为 gorm.ErrDuplicatedKey / ErrForeignKeyViolated 等
	}

	var db *gorm.DB
	var err error
	maxRetries := 5
	retryInterval := 2 * time.Second

	// 重试连接主库
	logger.Info("开始连接主数据库...")
	for i := 0; i < maxRetries; i++ {
		db, err = gorm.Open(postgres.Open(pgCfg.Write.DSN), gormConfig)
		if err == nil {
			var sqlDB *sql.DB
			var dbErr error
			sqlDB, dbErr = db.DB()
			if dbErr == nil {
				pingErr := sqlDB.Ping()
				if pingErr == nil {
					err = nil // 连接和 Ping 都成功
					break
				}
				err = pingErr // Ping 失败
			} else {
				err = dbErr // 获取 sql.DB 失败
			}
		}
		logger.Warn("无法连接到主数据库，尝试重试", zap.Int("retry", i+1), zap.Int("maxRetries", maxRetries), zap.Error(err))
		if i < maxRetries-1 {
			time.Sleep(retryInterval)
		}
	}
	if err != nil {
		logger.Error("无法连接到主数据库", zap.Error(err))
		return nil, fmt.Errorf("无法连接到主数据库: %w", err)
	}
	logger.Info("成功连接到主数据库")

	// --- 启用 pgvector 扩展 ---
	// 必须在 AutoMigrate 之前执行，否则 vector(384) 列类型无法创建。
	if execErr := db.Exec("CREATE EXTENSION IF NOT EXISTS vector").Error; execErr != nil {
		logger.Error("启用 pgvector 扩展失败", zap.Error(execErr))
		return nil, fmt.Errorf("启用 pgvector 扩展失败: %w", execErr)
	}
	logger.Info("pgvector 扩展已就绪")

	// --- 配置读写分离 (dbresolver) ---
	readReplicas := make([]gorm.Dialector, 0, len(pgCfg.Read))
	for i, replicaCfg := range pgCfg.Read {
		if replicaCfg.DSN == "" {
			logger.Warn("发现空的从库 DSN 配置，已跳过", zap.Int("index", i))
			continue
		}
		readReplicas = append(readReplicas, postgres.Open(replicaCfg.DSN))
		logger.Info("发现并准备配置从数据库", zap.Int("index", i))
	}

	// 只有在配置了有效的从库时才启用读写分离插件
	if len(readReplicas) > 0 {
		resolverConfig := dbresolver.Config{
			Sources:  []gorm.Dialector{postgres.Open(pgCfg.Write.DSN)}, // 主库作为写源
			Replicas: readReplicas,                                     // 从库作为读源
			Policy:   dbresolver.StrictRoundRobinPolicy(),              // 使用轮询策略分配读请求
		}
		err = db.Use(dbresolver.Register(resolverConfig))
		if err != nil {
			logger.Error("配置 GORM 读写分离插件失败", zap.Error(err))
			return nil, fmt.Errorf("配置 GORM 读写分离失败: %w", err)
		}
		logger.Info("成功配置 GORM 读写分离插件", zap.Int("从库数量", len(readReplicas)))
	} else {
		logger.Info("未配置有效的从数据库，不启用读写分离")
	}

	// --- 配置连接池 ---
	sqlDB, dbErr := db.DB()
	if dbErr != nil {
		logger.Error("无法获取数据库对象以配置连接池", zap.Error(dbErr))
		return nil, fmt.Errorf("无法获取数据库对象: %w", dbErr)
	}

	// 应用连接池设置 (以共享设置为基础，允许被主库的独立设置覆盖)
	maxIdle := pgCfg.SharedMaxIdleConns
	maxOpen := pgCfg.SharedMaxOpenConns
	maxLife := pgCfg.SharedConnMaxLifetime

	if pgCfg.Write.MaxIdleConns != nil {
		maxIdle = *pgCfg.Write.MaxIdleConns
	}
	if pgCfg.Write.MaxOpenConns != nil {
		maxOpen = *pgCfg.Write.MaxOpenConns
	}
	if pgCfg.Write.ConnMaxLifetime != nil {
		maxLife = *pgCfg.Write.ConnMaxLifetime
	}

	sqlDB.SetMaxIdleConns(maxIdle)
	sqlDB.SetMaxOpenConns(maxOpen)
	sqlDB.SetConnMaxLifetime(time.Duration(maxLife) * time.Second)

	logger.Info("配置数据库连接池",
		zap.Int("最大空闲连接数", maxIdle),
		zap.Int("最大打开连接数", maxOpen),
		zap.Int("连接最大生命周期(秒)", maxLife),
	)
	// 再次 Ping 确保配置后连接池可用
	if pingErr := sqlDB.Ping(); pingErr != nil {
		logger.Error("配置连接池后 Ping 数据库失败", zap.Error(pingErr))
		return nil, fmt.Errorf("配置连接池后 Ping 失败: %w", pingErr)
	}

	// --- 自动迁移 ---
	// AutoMigrate 默认会发送到主库 (Source)。
	// Caption 上的 belongs-to 关联会在 image_id 上建立真正的外键约束，
	// 这是入库流水线“引用完整性由存储层强制”的前提。
	logger.Info("开始执行数据库自动迁移...")
	migrateErr := db.AutoMigrate(
		&entities.Image{},
		&entities.Caption{},
	)
	if migrateErr != nil {
		logger.Error("数据库自动迁移失败", zap.Error(migrateErr))
		return nil, fmt.Errorf("数据库自动迁移失败: %w", migrateErr)
	}
	logger.Info("数据库自动迁移完成")

	logger.Info("成功初始化 PostgreSQL 连接 (包括读写分离和自动迁移)")
	return db, nil
}
