package entities

import (
	"github.com/Xushengqwer/go-common/models/entities"
	"github.com/pgvector/pgvector-go"
)

// EmbeddingDimension 是 CaptionEmbedding 列的固定维度，由模型
// (all-MiniLM-L6-v2) 的输出维度决定，建表后不可变更。
const EmbeddingDimension = 384

// Caption 图片描述实体
//   - 使用场景: 一条挂在某张 Image 下的自然语言描述及其句向量。
//   - 表名: captions
//   - 关系: 与 Image 为“多对一”关系（同一张图片可以被多次入库并各带一条新描述）。
//   - 不变量: ImageID 必须引用一条存在的 Image 行，由数据库外键约束强制；
//     描述本身不做去重，相同文本重复入库会产生多行（这是显式的产品决策）。
//   - 生命周期: 每次入库调用创建一条，不更新、不删除。
type Caption struct {
	entities.BaseModel // 嵌入自定义的 BaseModel ,包含 ID, CreatedAt, UpdatedAt, DeletedAt

	// 关联的图片ID (外键，指向 images 表的主键)
	// - GORM 标签:
	//   - not null: 不允许悬挂的描述。
	//   - index: 按图片取全部描述是常见查询。
	ImageID uint64 `gorm:"type:bigint;not null;index"`

	// belongs-to 关联，促使 AutoMigrate 在 image_id 上真正建立外键约束。
	// - OnDelete:CASCADE: 将来若引入删除图片的操作，级联清掉描述，避免孤儿行
	//   （当前操作集不会删除 Image）。
	Image Image `gorm:"foreignKey:ImageID;constraint:OnDelete:CASCADE" json:"-"`

	// 描述文本，非空。
	Caption string `gorm:"type:text;not null"`

	// 描述文本的句向量，维度固定为 EmbeddingDimension，全表一致，
	// 否则 L2 距离比较没有意义。
	CaptionEmbedding pgvector.Vector `gorm:"type:vector(384)"`
}
