package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"wisefido-session-safety/internal/domain"
	"wisefido-session-safety/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// RegisterRecordingRequest 录制登记请求
type RegisterRecordingRequest struct {
	SessionID       string   `json:"sessionId"`
	RecordingURL    string   `json:"recordingUrl"`
	DurationSec     *float64 `json:"durationSec,omitempty"`
	FileSize        *int64   `json:"fileSize,omitempty"`
	Quality         *string  `json:"quality,omitempty"`
	StorageLocation *string  `json:"storageLocation,omitempty"`
}

// RecordingService 录制登记服务接口
// 旁路写入，不触碰转写与风险状态
type RecordingService interface {
	RegisterRecording(ctx context.Context, req RegisterRecordingRequest) (*domain.Recording, error)
}

type recordingService struct {
	recordingsRepo repository.RecordingsRepository
	logger         *zap.Logger
}

// NewRecordingService 创建录制登记服务
func NewRecordingService(recordingsRepo repository.RecordingsRepository, logger *zap.Logger) RecordingService {
	return &recordingService{
		recordingsRepo: recordingsRepo,
		logger:         logger,
	}
}

func (s *recordingService) RegisterRecording(ctx context.Context, req RegisterRecordingRequest) (*domain.Recording, error) {
	if strings.TrimSpace(req.SessionID) == "" {
		return nil, ErrMissingSessionID
	}
	if strings.TrimSpace(req.RecordingURL) == "" {
		return nil, ErrMissingRecordingURL
	}

	recording := &domain.Recording{
		RecordingID:     uuid.NewString(),
		SessionID:       req.SessionID,
		RecordingURL:    req.RecordingURL,
		DurationSec:     req.DurationSec,
		FileSize:        req.FileSize,
		Quality:         req.Quality,
		StorageLocation: req.StorageLocation,
		CreatedAt:       time.Now(),
	}

	if err := s.recordingsRepo.CreateRecording(ctx, recording); err != nil {
		return nil, fmt.Errorf("failed to register recording: %w", err)
	}

	s.logger.Info("Recording registered",
		zap.String("recording_id", recording.RecordingID),
		zap.String("session_id", recording.SessionID))

	return recording, nil
}
