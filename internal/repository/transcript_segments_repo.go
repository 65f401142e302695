package repository

import (
	"context"

	"wisefido-session-safety/internal/domain"
)

// TranscriptSegmentsRepository 转写片段仓库接口
type TranscriptSegmentsRepository interface {
	// 在单个事务里持久化片段及其派生风险事件
	// 读者不会看到没有父片段的风险事件
	CreateSegmentWithRisks(ctx context.Context, segment *domain.TranscriptSegment, events []domain.RiskEvent) error

	// 按会话查询全部片段（时间正序）
	ListBySession(ctx context.Context, sessionID string) ([]domain.TranscriptSegment, error)
}
