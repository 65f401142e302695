package service

import (
	"context"
	"fmt"
	"strings"

	"wisefido-session-safety/internal/domain"
	"wisefido-session-safety/internal/repository"

	"go.uber.org/zap"
)

// SessionTranscriptsResponse 会话转写查询响应
// includeRisks 时附带该会话全量风险事件（此处的事件计数是权威口径）
type SessionTranscriptsResponse struct {
	SessionID  string                     `json:"sessionId"`
	Segments   []domain.TranscriptSegment `json:"segments"`
	RiskEvents []domain.RiskEvent         `json:"riskEvents,omitempty"`
}

// TranscriptService 转写读取服务接口
type TranscriptService interface {
	// 查询会话的全部转写片段（时间正序），可选附带风险事件
	SessionTranscripts(ctx context.Context, sessionID string, includeRisks bool) (*SessionTranscriptsResponse, error)
}

type transcriptService struct {
	segmentsRepo repository.TranscriptSegmentsRepository
	risksRepo    repository.RiskEventsRepository
	logger       *zap.Logger
}

// NewTranscriptService 创建转写读取服务
func NewTranscriptService(
	segmentsRepo repository.TranscriptSegmentsRepository,
	risksRepo repository.RiskEventsRepository,
	logger *zap.Logger,
) TranscriptService {
	return &transcriptService{
		segmentsRepo: segmentsRepo,
		risksRepo:    risksRepo,
		logger:       logger,
	}
}

// SessionTranscripts 查询会话转写
// 无片段的会话返回空列表而非错误（会话存在性由外部系统负责）
func (s *transcriptService) SessionTranscripts(ctx context.Context, sessionID string, includeRisks bool) (*SessionTranscriptsResponse, error) {
	if strings.TrimSpace(sessionID) == "" {
		return nil, ErrMissingSessionID
	}

	segments, err := s.segmentsRepo.ListBySession(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to list transcript segments: %w", err)
	}
	if segments == nil {
		segments = []domain.TranscriptSegment{}
	}

	resp := &SessionTranscriptsResponse{
		SessionID: sessionID,
		Segments:  segments,
	}

	if includeRisks {
		events, err := s.risksRepo.ListBySession(ctx, sessionID)
		if err != nil {
			return nil, fmt.Errorf("failed to list risk events: %w", err)
		}
		resp.RiskEvents = events
	}

	return resp, nil
}
