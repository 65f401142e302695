package repository

import (
	"context"
	"time"
)

// SessionsRepository 会话仓库接口
// sessions 表由外部系统维护，本服务只读，用于 subject 聚合的尾随窗口解析
type SessionsRepository interface {
	// 查询 subject 在 since 之后启动的全部会话ID（started_at 正序）
	ListSessionIDsBySubjectSince(ctx context.Context, subjectID string, since time.Time) ([]string, error)
}
