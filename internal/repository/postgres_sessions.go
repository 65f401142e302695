package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// PostgresSessionsRepository 会话仓库 PostgreSQL 实现
type PostgresSessionsRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewPostgresSessionsRepository 创建会话仓库
func NewPostgresSessionsRepository(db *sql.DB, logger *zap.Logger) *PostgresSessionsRepository {
	return &PostgresSessionsRepository{
		db:     db,
		logger: logger,
	}
}

// ListSessionIDsBySubjectSince 查询 subject 在窗口内启动的会话ID列表
func (r *PostgresSessionsRepository) ListSessionIDsBySubjectSince(ctx context.Context, subjectID string, since time.Time) ([]string, error) {
	if subjectID == "" {
		return nil, fmt.Errorf("subject_id is required")
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT session_id
		FROM sessions
		WHERE subject_id = $1
		  AND started_at >= $2
		ORDER BY started_at ASC
	`, subjectID, since)
	if err != nil {
		return nil, fmt.Errorf("failed to query sessions: %w", err)
	}
	defer rows.Close()

	ids := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan session id: %w", err)
		}
		ids = append(ids, id)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate sessions: %w", err)
	}

	return ids, nil
}
