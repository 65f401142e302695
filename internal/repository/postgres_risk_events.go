package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"wisefido-session-safety/internal/domain"

	"go.uber.org/zap"
)

// PostgresRiskEventsRepository 风险事件仓库 PostgreSQL 实现
type PostgresRiskEventsRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewPostgresRiskEventsRepository 创建风险事件仓库
func NewPostgresRiskEventsRepository(db *sql.DB, logger *zap.Logger) *PostgresRiskEventsRepository {
	return &PostgresRiskEventsRepository{
		db:     db,
		logger: logger,
	}
}

const riskEventColumns = `
	event_id,
	session_id,
	segment_id,
	category,
	severity,
	matched_text,
	detected_at,
	created_at
`

// ListBySession 查询单会话的全部风险事件（detected_at 正序）
func (r *PostgresRiskEventsRepository) ListBySession(ctx context.Context, sessionID string) ([]domain.RiskEvent, error) {
	if sessionID == "" {
		return nil, fmt.Errorf("session_id is required")
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM risk_events
		WHERE session_id = $1
		ORDER BY detected_at ASC, created_at ASC
	`, riskEventColumns)

	rows, err := r.db.QueryContext(ctx, query, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to query risk events: %w", err)
	}
	defer rows.Close()

	return scanRiskEvents(rows)
}

// ListBySessions 查询多个会话的风险事件合并列表（detected_at 正序）
func (r *PostgresRiskEventsRepository) ListBySessions(ctx context.Context, sessionIDs []string) ([]domain.RiskEvent, error) {
	if len(sessionIDs) == 0 {
		return []domain.RiskEvent{}, nil
	}

	placeholders := make([]string, len(sessionIDs))
	args := make([]interface{}, len(sessionIDs))
	for i, id := range sessionIDs {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
		args[i] = id
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM risk_events
		WHERE session_id IN (%s)
		ORDER BY detected_at ASC, created_at ASC
	`, riskEventColumns, strings.Join(placeholders, ", "))

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query risk events: %w", err)
	}
	defer rows.Close()

	return scanRiskEvents(rows)
}

func scanRiskEvents(rows *sql.Rows) ([]domain.RiskEvent, error) {
	events := []domain.RiskEvent{}
	for rows.Next() {
		var event domain.RiskEvent
		err := rows.Scan(
			&event.EventID,
			&event.SessionID,
			&event.SegmentID,
			&event.Category,
			&event.Severity,
			&event.MatchedText,
			&event.DetectedAt,
			&event.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan risk event: %w", err)
		}
		events = append(events, event)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate risk events: %w", err)
	}

	return events, nil
}
