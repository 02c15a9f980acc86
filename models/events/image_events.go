package events

import "time"

// ImageIngestedEvent 图片入库完成事件。
// - 在一次入库调用成功提交（Caption 行已落库）之后异步发出，
//   供下游（例如索引预热、审计）消费。
// - 事件结构归属本服务而非 go-common：公共模块目前没有图片域的事件定义。
type ImageIngestedEvent struct {
	EventID    string    `json:"event_id"`     // 事件唯一ID (UUID)
	Timestamp  time.Time `json:"timestamp"`    // 事件产生时间
	ImageID    uint64    `json:"image_id"`     // 图片行ID
	ImageKey   string    `json:"image_key"`    // 内容键（亦是对象存储键）
	CaptionID  uint64    `json:"caption_id"`   // 本次新增的描述行ID
	Caption    string    `json:"caption"`      // 描述文本
	IsNewImage bool      `json:"is_new_image"` // 本次入库是否创建了新的 Image 行
}
