// File: tasks/orphan_blob_sweep.go
package tasks

import (
	"context"
	"errors"
	"time"

	"github.com/Xushengqwer/go-common/commonerrors"
	"github.com/Xushengqwer/go-common/core"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/Xushengqwer/image_search_service/constant"
	"github.com/Xushengqwer/image_search_service/dependencies"
	"github.com/Xushengqwer/image_search_service/repo/postgres"
)

// OrphanBlobSweepTask 负责定期清理对象存储中的无主对象。
// 入库流水线先写对象、后写 images 行：若行插入在中途失败，
// 对象存储中会留下一个没有任何元数据引用的对象。该任务把它们扫出来删掉。
type OrphanBlobSweepTask struct {
	imageRepo   postgres.ImageRepository
	minioClient dependencies.MinioClientInterface
	cron        *cron.Cron
	logger      *core.ZapLogger
}

// NewOrphanBlobSweepTask 初始化并启动孤儿对象清理的定时任务。
func NewOrphanBlobSweepTask(
	imageRepo postgres.ImageRepository,
	minioClient dependencies.MinioClientInterface,
	logger *core.ZapLogger,
) *OrphanBlobSweepTask {
	cronV3 := cron.New() // 默认分钟级精度

	task := &OrphanBlobSweepTask{
		imageRepo:   imageRepo,
		minioClient: minioClient,
		cron:        cronV3,
		logger:      logger,
	}
	task.startCronJob()
	return task
}

// startCronJob 配置并启动 cron 作业。
func (t *OrphanBlobSweepTask) startCronJob() {
	schedule := constant.OrphanBlobSweepCronSpec
	t.logger.Info("准备启动孤儿对象清理定时任务", zap.String("schedule", schedule))

	entryID, err := t.cron.AddFunc(schedule, func() {
		t.logger.Info("孤儿对象清理任务开始执行...")
		startTime := time.Now()
		// 为单次执行设置超时，防止对象遍历卡死拖住下一轮调度。
		ctx, cancel := context.WithTimeout(context.Background(), constant.OrphanBlobSweepTimeout)
		defer cancel()

		t.sweepOnce(ctx)

		duration := time.Since(startTime)
		t.logger.Info("孤儿对象清理任务执行完毕", zap.Duration("duration", duration))
	})

	if err != nil {
		t.logger.Fatal("添加孤儿对象清理 cron 作业失败", zap.Error(err), zap.String("schedule", schedule))
	}

	t.cron.Start()
	t.logger.Info("孤儿对象清理定时任务已启动", zap.Uint("cronEntryID", uint(entryID)))
}

// sweepOnce 执行一轮清理：遍历桶内对象，删除“最后修改时间早于保护窗口、
// 且 images 表中不存在同键行”的对象。
// - 保护窗口防止误删“对象已写入、images 行尚未提交”的正常入库中间态。
// - 单个对象的查询/删除失败只记日志并继续，一轮扫不完下一轮接着扫。
func (t *OrphanBlobSweepTask) sweepOnce(ctx context.Context) {
	cutoff := time.Now().Add(-constant.OrphanBlobGracePeriod)
	var scanned, deleted, failed int

	err := t.minioClient.ListObjects(ctx, func(obj dependencies.ObjectInfo) error {
		// 尊重超时：遍历回调里主动检查，避免在超大桶上无限跑下去。
		if err := ctx.Err(); err != nil {
			return err
		}
		scanned++

		if obj.LastModified.After(cutoff) {
			// 还在保护窗口内，可能是正在进行中的入库。
			return nil
		}

		_, err := t.imageRepo.FindByKey(ctx, obj.Key)
		if err == nil {
			// 有元数据行引用，不是孤儿。
			return nil
		}
		if !errors.Is(err, commonerrors.ErrRepoNotFound) {
			t.logger.Warn("清理任务查询图片元数据失败，跳过该对象",
				zap.String("objectKey", obj.Key), zap.Error(err))
			failed++
			return nil
		}

		if delErr := t.minioClient.DeleteObject(ctx, obj.Key); delErr != nil {
			t.logger.Warn("删除孤儿对象失败", zap.String("objectKey", obj.Key), zap.Error(delErr))
			failed++
			return nil
		}

		deleted++
		t.logger.Info("已删除孤儿对象",
			zap.String("objectKey", obj.Key),
			zap.Time("lastModified", obj.LastModified))
		return nil
	})

	if err != nil {
		t.logger.Error("孤儿对象清理遍历中断", zap.Error(err))
	}

	t.logger.Info("孤儿对象清理统计",
		zap.Int("scanned", scanned),
		zap.Int("deleted", deleted),
		zap.Int("failed", failed))
}

// Stop 优雅地停止 cron 调度器。
func (t *OrphanBlobSweepTask) Stop() context.Context {
	t.logger.Info("正在停止孤儿对象清理定时任务...")
	stopCtx := t.cron.Stop()
	t.logger.Info("孤儿对象清理定时任务已停止调度。等待正在执行的任务完成...")
	return stopCtx
}
