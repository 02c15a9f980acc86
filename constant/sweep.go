package constant

import "time"

// 孤儿对象清理任务相关常量。
const (
	// OrphanBlobSweepCronSpec 是清理任务的 cron 表达式（分钟级精度），默认每天凌晨 4 点执行。
	OrphanBlobSweepCronSpec = "0 4 * * *"

	// OrphanBlobGracePeriod 是对象的保护窗口。
	// 刚写入对象存储、但 images 行还没来得及提交的对象不能被误删，
	// 因此只清理最后修改时间早于该窗口的无主对象。
	OrphanBlobGracePeriod = 24 * time.Hour

	// OrphanBlobSweepTimeout 是单次清理任务的超时时间。
	OrphanBlobSweepTimeout = 10 * time.Minute
)
