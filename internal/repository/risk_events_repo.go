package repository

import (
	"context"

	"wisefido-session-safety/internal/domain"
)

// RiskEventsRepository 风险事件仓库接口
// 事件随父片段在同一事务写入（见 TranscriptSegmentsRepository），这里只有读路径
type RiskEventsRepository interface {
	// 单会话全量历史，detected_at 正序
	ListBySession(ctx context.Context, sessionID string) ([]domain.RiskEvent, error)

	// 多会话合并查询，detected_at 正序（subject 聚合用）
	ListBySessions(ctx context.Context, sessionIDs []string) ([]domain.RiskEvent, error)
}
