package service

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"wisefido-session-safety/internal/detector"
	"wisefido-session-safety/internal/domain"
	"wisefido-session-safety/internal/repository"
	"wisefido-session-safety/internal/segmenter"
	"wisefido-session-safety/internal/textnorm"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// SegmentInput 摄取请求中的单个片段
type SegmentInput struct {
	Speaker        string   `json:"speaker"`
	Text           string   `json:"text"`
	StartTime      float64  `json:"startTime"`
	EndTime        float64  `json:"endTime"`
	SentimentScore *float64 `json:"sentimentScore,omitempty"`
}

// IngestRequest 结构化片段批量摄取请求
type IngestRequest struct {
	SessionID string         `json:"sessionId"`
	Region    string         `json:"region,omitempty"`
	Segments  []SegmentInput `json:"segments"`
}

// IngestResult 摄取结果计数
// saved 统计成功落库的片段数，riskDetected 统计其中至少有一条风险命中的片段数
type IngestResult struct {
	Saved        int `json:"saved"`
	RiskDetected int `json:"riskDetected"`
}

// RawIngestRequest 原始转写文本摄取请求（服务端切分）
type RawIngestRequest struct {
	SessionID      string  `json:"sessionId"`
	Transcript     string  `json:"transcript"`
	Speaker        string  `json:"speaker,omitempty"`
	Region         string  `json:"region,omitempty"`
	StartTimeSec   float64 `json:"startTimeSec,omitempty"`
	WordsPerSecond float64 `json:"wordsPerSecond,omitempty"`
}

// TranscribeIngestRequest 录音转写并摄取请求
type TranscribeIngestRequest struct {
	SessionID string `json:"sessionId"`
	AudioURL  string `json:"audioUrl"`
	Speaker   string `json:"speaker,omitempty"`
	Region    string `json:"region,omitempty"`
}

// Transcriber 外部语音转写协作方
type Transcriber interface {
	Transcribe(ctx context.Context, audioURL string) (string, error)
}

// IngestService 转写摄取服务接口
type IngestService interface {
	// 摄取结构化片段批次，逐片段检测风险并落库
	Ingest(ctx context.Context, req IngestRequest) (*IngestResult, error)

	// 摄取原始转写文本：按句切分、估算时间窗后走批量摄取
	IngestRaw(ctx context.Context, req RawIngestRequest) (*IngestResult, error)

	// 调用转写协作方获取文本后摄取
	TranscribeAndIngest(ctx context.Context, req TranscribeIngestRequest) (*IngestResult, error)
}

type ingestService struct {
	segmentsRepo repository.TranscriptSegmentsRepository
	detector     *detector.Detector
	notifier     *RiskNotifier
	transcriber  Transcriber
	logger       *zap.Logger
}

// NewIngestService 创建摄取服务
// notifier 与 transcriber 可为 nil，对应能力降级（不发布/不支持录音摄取）
func NewIngestService(
	segmentsRepo repository.TranscriptSegmentsRepository,
	det *detector.Detector,
	notifier *RiskNotifier,
	transcriber Transcriber,
	logger *zap.Logger,
) IngestService {
	return &ingestService{
		segmentsRepo: segmentsRepo,
		detector:     det,
		notifier:     notifier,
		transcriber:  transcriber,
		logger:       logger,
	}
}

// Ingest 批量摄取结构化片段
// 批次级校验失败整体拒绝；单片段无效或落库失败只跳过该片段，不中断批次
func (s *ingestService) Ingest(ctx context.Context, req IngestRequest) (*IngestResult, error) {
	if strings.TrimSpace(req.SessionID) == "" {
		return nil, ErrMissingSessionID
	}
	if len(req.Segments) == 0 {
		return nil, ErrNoSegments
	}

	region, err := resolveRegion(req.Region)
	if err != nil {
		return nil, err
	}

	result := &IngestResult{}
	for i, in := range req.Segments {
		if strings.TrimSpace(in.Text) == "" {
			s.logger.Warn("Skipping segment with empty text",
				zap.String("session_id", req.SessionID),
				zap.Int("index", i))
			continue
		}

		speaker := domain.Speaker(in.Speaker)
		if !speaker.Valid() {
			s.logger.Warn("Skipping segment with invalid speaker",
				zap.String("session_id", req.SessionID),
				zap.Int("index", i),
				zap.String("speaker", in.Speaker))
			continue
		}

		if in.StartTime < 0 || in.EndTime < in.StartTime {
			s.logger.Warn("Skipping segment with invalid time window",
				zap.String("session_id", req.SessionID),
				zap.Int("index", i),
				zap.Float64("start_time", in.StartTime),
				zap.Float64("end_time", in.EndTime))
			continue
		}

		now := time.Now()
		segment := &domain.TranscriptSegment{
			SegmentID:      uuid.NewString(),
			SessionID:      req.SessionID,
			Speaker:        speaker,
			Text:           in.Text,
			StartTime:      in.StartTime,
			EndTime:        in.EndTime,
			SentimentScore: in.SentimentScore,
			Region:         region,
			CreatedAt:      now,
		}

		hits := s.detector.Detect(textnorm.Normalize(in.Text))
		events := make([]domain.RiskEvent, 0, len(hits))
		for _, hit := range hits {
			events = append(events, domain.RiskEvent{
				EventID:     uuid.NewString(),
				SessionID:   req.SessionID,
				SegmentID:   segment.SegmentID,
				Category:    hit.Category,
				Severity:    hit.Severity,
				MatchedText: hit.MatchedPhrase,
				DetectedAt:  now,
				CreatedAt:   now,
			})
		}

		// 片段与风险事件同事务落库，单条失败不中断批次
		if err := s.segmentsRepo.CreateSegmentWithRisks(ctx, segment, events); err != nil {
			s.logger.Error("Failed to persist segment",
				zap.String("session_id", req.SessionID),
				zap.String("segment_id", segment.SegmentID),
				zap.Int("index", i),
				zap.Error(err))
			continue
		}

		result.Saved++
		if len(events) > 0 {
			result.RiskDetected++
		}

		// 发布是尽力而为，失败只记日志不影响摄取结果
		for _, event := range events {
			if err := s.notifier.PublishRiskEvent(ctx, event); err != nil {
				s.logger.Warn("Failed to publish risk event",
					zap.String("event_id", event.EventID),
					zap.String("session_id", event.SessionID),
					zap.Error(err))
			}
		}
	}

	s.logger.Info("Transcript batch ingested",
		zap.String("session_id", req.SessionID),
		zap.Int("received", len(req.Segments)),
		zap.Int("saved", result.Saved),
		zap.Int("risk_detected", result.RiskDetected))

	return result, nil
}

// IngestRaw 摄取原始转写文本
// 按句子切分并用语速估算时间窗，说话人默认 patient
func (s *ingestService) IngestRaw(ctx context.Context, req RawIngestRequest) (*IngestResult, error) {
	if strings.TrimSpace(req.SessionID) == "" {
		return nil, ErrMissingSessionID
	}
	if strings.TrimSpace(req.Transcript) == "" {
		return nil, ErrEmptyTranscript
	}

	speaker := req.Speaker
	if speaker == "" {
		speaker = string(domain.SpeakerPatient)
	}

	pieces, err := segmenter.Segment(req.Transcript, req.StartTimeSec, req.WordsPerSecond)
	if err != nil {
		return nil, fmt.Errorf("failed to segment transcript: %w", err)
	}

	segments := make([]SegmentInput, 0, len(pieces))
	for _, piece := range pieces {
		segments = append(segments, SegmentInput{
			Speaker:   speaker,
			Text:      piece.Text,
			StartTime: piece.StartTime,
			EndTime:   piece.EndTime,
		})
	}

	return s.Ingest(ctx, IngestRequest{
		SessionID: req.SessionID,
		Region:    req.Region,
		Segments:  segments,
	})
}

// TranscribeAndIngest 录音地址转写后摄取为单个片段
// 时长按默认语速估算，起点为 0（录音级摄取没有会话内偏移信息）
func (s *ingestService) TranscribeAndIngest(ctx context.Context, req TranscribeIngestRequest) (*IngestResult, error) {
	if strings.TrimSpace(req.SessionID) == "" {
		return nil, ErrMissingSessionID
	}
	if strings.TrimSpace(req.AudioURL) == "" {
		return nil, ErrMissingAudioURL
	}
	if s.transcriber == nil {
		return nil, ErrNoTranscriber
	}

	text, err := s.transcriber.Transcribe(ctx, req.AudioURL)
	if err != nil {
		return nil, fmt.Errorf("failed to transcribe audio: %w", err)
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyTranscription
	}

	speaker := req.Speaker
	if speaker == "" {
		speaker = string(domain.SpeakerPatient)
	}

	words := len(strings.Fields(text))
	duration := math.Max(1, math.Round(float64(words)/segmenter.DefaultWordsPerSecond))

	return s.Ingest(ctx, IngestRequest{
		SessionID: req.SessionID,
		Region:    req.Region,
		Segments: []SegmentInput{{
			Speaker:   speaker,
			Text:      text,
			StartTime: 0,
			EndTime:   duration,
		}},
	})
}

// resolveRegion 解析区域标签，空值按 us 处理
func resolveRegion(raw string) (domain.Region, error) {
	if raw == "" {
		return domain.RegionUS, nil
	}
	region := domain.Region(strings.ToLower(raw))
	if !region.Valid() {
		return "", ErrInvalidRegion
	}
	return region, nil
}
