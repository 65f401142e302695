package repository

import (
	"context"
	"database/sql"
	"fmt"

	"wisefido-session-safety/internal/domain"

	"go.uber.org/zap"
)

// PostgresRecordingsRepository 录制登记仓库 PostgreSQL 实现
type PostgresRecordingsRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewPostgresRecordingsRepository 创建录制登记仓库
func NewPostgresRecordingsRepository(db *sql.DB, logger *zap.Logger) *PostgresRecordingsRepository {
	return &PostgresRecordingsRepository{
		db:     db,
		logger: logger,
	}
}

// CreateRecording 登记一条会话录制（只追加，不影响转写/风险状态）
func (r *PostgresRecordingsRepository) CreateRecording(ctx context.Context, recording *domain.Recording) error {
	if recording == nil {
		return fmt.Errorf("recording is required")
	}
	if recording.SessionID == "" {
		return fmt.Errorf("session_id is required")
	}
	if recording.RecordingURL == "" {
		return fmt.Errorf("recording_url is required")
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO session_recordings (
			recording_id,
			session_id,
			recording_url,
			duration_sec,
			file_size,
			quality,
			storage_location,
			created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`,
		recording.RecordingID,
		recording.SessionID,
		recording.RecordingURL,
		recording.DurationSec,
		recording.FileSize,
		recording.Quality,
		recording.StorageLocation,
		recording.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert recording: %w", err)
	}

	return nil
}
