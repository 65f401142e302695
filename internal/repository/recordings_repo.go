package repository

import (
	"context"

	"wisefido-session-safety/internal/domain"
)

// RecordingsRepository 录制登记仓库接口（只追加）
type RecordingsRepository interface {
	CreateRecording(ctx context.Context, recording *domain.Recording) error
}
