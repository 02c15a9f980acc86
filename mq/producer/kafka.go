package producer

import (
	"context"
	"encoding/json"
	"time"

	"github.com/Xushengqwer/go-common/core"
	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/Xushengqwer/image_search_service/config"
	"github.com/Xushengqwer/image_search_service/models/events"
)

// KafkaProducer Kafka 消息生产者
type KafkaProducer struct {
	writer *kafka.Writer
	logger *core.ZapLogger
	topics config.Topics
}

// NewKafkaProducer 创建一个新的 Kafka 生产者实例
func NewKafkaProducer(cfg config.KafkaConfig, logger *core.ZapLogger) *KafkaProducer {
	writer := &kafka.Writer{
		Addr:     kafka.TCP(cfg.Brokers...),
		Balancer: &kafka.LeastBytes{},
	}
	return &KafkaProducer{
		writer: writer,
		logger: logger,
		topics: cfg.Topics,
	}
}

// SendEvent 发送事件到指定 Kafka 主题
func (p *KafkaProducer) SendEvent(ctx context.Context, topic string, event interface{}) error {
	eventBytes, err := json.Marshal(event)
	if err != nil {
		p.logger.Error("Failed to marshal event", zap.Error(err), zap.String("topic", topic))
		return err
	}

	p.logger.Debug("Sending Kafka message",
		zap.String("topic", topic),
		zap.ByteString("payload", eventBytes))

	err = p.writer.WriteMessages(ctx, kafka.Message{
		Topic: topic,
		Value: eventBytes,
	})

	if err != nil {
		p.logger.Error("Failed to write Kafka message", zap.Error(err), zap.String("topic", topic))
	} else {
		p.logger.Info("Successfully sent Kafka message", zap.String("topic", topic))
	}
	return err
}

// SendImageIngestedEvent 发送图片入库完成事件到 Kafka
// - 意图: 通知下游消费者（索引重建、审核、统计等）有一次入库调用成功完成。
// - 去重命中（isNewImage=false）同样发事件：对下游而言“又一条描述挂到了既有图片”也是状态变化。
// - 输入: ctx 上下文, image/caption 相关字段来自刚完成的入库结果
// - 输出: error 错误信息
func (p *KafkaProducer) SendImageIngestedEvent(ctx context.Context, imageID uint64, imageKey string, captionID uint64, caption string, isNewImage bool) error {
	event := events.ImageIngestedEvent{
		EventID:    uuid.New().String(),
		Timestamp:  time.Now(),
		ImageID:    imageID,
		ImageKey:   imageKey,
		CaptionID:  captionID,
		Caption:    caption,
		IsNewImage: isNewImage,
	}

	return p.SendEvent(ctx, p.topics.ImageIngested, event)
}

// Close 关闭底层 writer，进程退出前调用。
func (p *KafkaProducer) Close() error {
	return p.writer.Close()
}
