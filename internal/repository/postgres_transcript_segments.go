package repository

import (
	"context"
	"database/sql"
	"fmt"

	"wisefido-session-safety/internal/domain"

	"go.uber.org/zap"
)

// PostgresTranscriptSegmentsRepository 转写片段仓库 PostgreSQL 实现
type PostgresTranscriptSegmentsRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewPostgresTranscriptSegmentsRepository 创建转写片段仓库
func NewPostgresTranscriptSegmentsRepository(db *sql.DB, logger *zap.Logger) *PostgresTranscriptSegmentsRepository {
	return &PostgresTranscriptSegmentsRepository{
		db:     db,
		logger: logger,
	}
}

// CreateSegmentWithRisks 持久化片段及其派生风险事件（单事务）
func (r *PostgresTranscriptSegmentsRepository) CreateSegmentWithRisks(ctx context.Context, segment *domain.TranscriptSegment, events []domain.RiskEvent) error {
	if segment == nil {
		return fmt.Errorf("segment is required")
	}
	if segment.SessionID == "" {
		return fmt.Errorf("session_id is required")
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO transcript_segments (
			segment_id,
			session_id,
			speaker,
			text,
			start_time,
			end_time,
			sentiment_score,
			region,
			created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`,
		segment.SegmentID,
		segment.SessionID,
		segment.Speaker,
		segment.Text,
		segment.StartTime,
		segment.EndTime,
		segment.SentimentScore,
		segment.Region,
		segment.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert transcript segment: %w", err)
	}

	for i := range events {
		event := &events[i]
		_, err = tx.ExecContext(ctx, `
			INSERT INTO risk_events (
				event_id,
				session_id,
				segment_id,
				category,
				severity,
				matched_text,
				detected_at,
				created_at
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		`,
			event.EventID,
			event.SessionID,
			event.SegmentID,
			event.Category,
			event.Severity,
			event.MatchedText,
			event.DetectedAt,
			event.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to insert risk event: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// ListBySession 按会话查询全部片段（按片段时间正序）
func (r *PostgresTranscriptSegmentsRepository) ListBySession(ctx context.Context, sessionID string) ([]domain.TranscriptSegment, error) {
	if sessionID == "" {
		return nil, fmt.Errorf("session_id is required")
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT
			segment_id,
			session_id,
			speaker,
			text,
			start_time,
			end_time,
			sentiment_score,
			region,
			created_at
		FROM transcript_segments
		WHERE session_id = $1
		ORDER BY start_time ASC, created_at ASC
	`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to query transcript segments: %w", err)
	}
	defer rows.Close()

	segments := []domain.TranscriptSegment{}
	for rows.Next() {
		var seg domain.TranscriptSegment
		var sentiment sql.NullFloat64

		err := rows.Scan(
			&seg.SegmentID,
			&seg.SessionID,
			&seg.Speaker,
			&seg.Text,
			&seg.StartTime,
			&seg.EndTime,
			&sentiment,
			&seg.Region,
			&seg.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transcript segment: %w", err)
		}

		if sentiment.Valid {
			seg.SentimentScore = &sentiment.Float64
		}

		segments = append(segments, seg)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate transcript segments: %w", err)
	}

	return segments, nil
}
