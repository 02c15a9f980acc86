package entities

import "github.com/Xushengqwer/go-common/models/entities"

// Image 图片实体
//   - 使用场景: 表示一张“物理上唯一”的图片，唯一性由内容哈希决定。
//   - 表名: images (GORM 默认使用结构体名复数形式)
//   - 不变量: 对任意两次字节完全相同的入库调用，库中只会存在一行 Image，
//     由 ImageKey 上的唯一约束在存储层仲裁（并发重复插入由仓库层的
//     insert-if-absent 协议兜底）。
//   - 生命周期: 每个内容哈希只创建一次，当前业务不更新、不删除。
type Image struct {
	entities.BaseModel // 嵌入自定义的 BaseModel ,包含 ID, CreatedAt, UpdatedAt, DeletedAt

	// 内容键，即原始字节的 SHA-256 十六进制摘要加原始扩展名。
	// - 同时作为对象存储中的对象键（两份存储必须保持一致：对象存在 ⇔ 本行存在）。
	// - GORM 标签: uniqueIndex 即去重约束本体，not null 表示非空
	ImageKey string `gorm:"type:varchar(255);not null;uniqueIndex"`

	// 宽度（像素）。解码得到，理论上总是存在；保留指针以兼容历史数据。
	Width *int `gorm:"type:int"`

	// 高度（像素）。同上。
	Height *int `gorm:"type:int"`

	// 编码格式名，例如 "jpeg"、"png"。
	Format *string `gorm:"type:varchar(32)"`

	// 原始字节数。
	SizeBytes int64 `gorm:"type:bigint;not null"`
}
