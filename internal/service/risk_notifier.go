package service

import (
	"context"

	"wisefido-session-safety/internal/domain"
	"wisefido-session-safety/internal/redisutil"

	"go.uber.org/zap"
)

// RiskNotifier 风险事件发布器
// 把新检出的风险事件写入 Redis Streams，供外部通知链路消费
// 实例可为 nil（Redis 未启用时），所有方法按空操作处理
type RiskNotifier struct {
	client *redisutil.Client
	stream string
	logger *zap.Logger
}

// NewRiskNotifier 创建风险事件发布器
func NewRiskNotifier(client *redisutil.Client, stream string, logger *zap.Logger) *RiskNotifier {
	return &RiskNotifier{
		client: client,
		stream: stream,
		logger: logger,
	}
}

// PublishRiskEvent 发布单条风险事件到 Streams
// 发布失败不影响摄取主流程，由调用方决定如何记录
func (n *RiskNotifier) PublishRiskEvent(ctx context.Context, event domain.RiskEvent) error {
	if n == nil || n.client == nil {
		return nil
	}

	msgID, err := redisutil.PublishJSONToStream(ctx, n.client, n.stream, event)
	if err != nil {
		return err
	}

	n.logger.Debug("Risk event published to stream",
		zap.String("stream", n.stream),
		zap.String("message_id", msgID),
		zap.String("event_id", event.EventID),
		zap.String("category", string(event.Category)),
		zap.String("severity", string(event.Severity)))

	return nil
}
