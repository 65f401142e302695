package monitor

import (
	"context"
	"fmt"
	"time"

	"wisefido-session-safety/internal/domain"
	"wisefido-session-safety/internal/httpapi"
	"wisefido-session-safety/internal/service"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

// SessionAPI 会话安全 HTTP API 的客户端接口（监控器的后端依赖）
type SessionAPI interface {
	// 拉取会话转写（附带风险事件历史）
	FetchTranscripts(ctx context.Context, sessionID string) (*service.SessionTranscriptsResponse, error)

	// 拉取会话风险信息流
	FetchRiskFeed(ctx context.Context, sessionID string) (*domain.RiskFeedView, error)

	// 提交片段批次
	SubmitSegments(ctx context.Context, req service.IngestRequest) (*service.IngestResult, error)

	// 登记录制元数据
	RegisterRecording(ctx context.Context, req service.RegisterRecordingRequest) (*domain.Recording, error)
}

// SafetyAPIClient 会话安全 API 客户端（resty 实现）
type SafetyAPIClient struct {
	httpClient *resty.Client
	logger     *zap.Logger
}

// NewSafetyAPIClient 创建会话安全 API 客户端
func NewSafetyAPIClient(baseURL string, logger *zap.Logger) *SafetyAPIClient {
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(10 * time.Second).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")

	return &SafetyAPIClient{
		httpClient: client,
		logger:     logger,
	}
}

func (c *SafetyAPIClient) FetchTranscripts(ctx context.Context, sessionID string) (*service.SessionTranscriptsResponse, error) {
	var result httpapi.Result[service.SessionTranscriptsResponse]
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetQueryParam("session_id", sessionID).
		SetQueryParam("include_risks", "true").
		SetResult(&result).
		Get("/safety/api/v1/transcripts")
	if err != nil {
		return nil, fmt.Errorf("failed to fetch transcripts: %w", err)
	}
	if resp.IsError() || result.Code != httpapi.ResultSuccess {
		return nil, fmt.Errorf("transcripts API error: http=%d code=%d msg=%s", resp.StatusCode(), result.Code, result.Message)
	}
	return &result.Result, nil
}

func (c *SafetyAPIClient) FetchRiskFeed(ctx context.Context, sessionID string) (*domain.RiskFeedView, error) {
	var result httpapi.Result[domain.RiskFeedView]
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetQueryParam("session_id", sessionID).
		SetResult(&result).
		Get("/safety/api/v1/risk-feed")
	if err != nil {
		return nil, fmt.Errorf("failed to fetch risk feed: %w", err)
	}
	if resp.IsError() || result.Code != httpapi.ResultSuccess {
		return nil, fmt.Errorf("risk feed API error: http=%d code=%d msg=%s", resp.StatusCode(), result.Code, result.Message)
	}
	return &result.Result, nil
}

func (c *SafetyAPIClient) SubmitSegments(ctx context.Context, req service.IngestRequest) (*service.IngestResult, error) {
	var result httpapi.Result[service.IngestResult]
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetBody(req).
		SetResult(&result).
		Post("/safety/api/v1/transcripts/ingest")
	if err != nil {
		return nil, fmt.Errorf("failed to submit segments: %w", err)
	}
	if resp.IsError() || result.Code != httpapi.ResultSuccess {
		return nil, fmt.Errorf("ingest API error: http=%d code=%d msg=%s", resp.StatusCode(), result.Code, result.Message)
	}
	return &result.Result, nil
}

func (c *SafetyAPIClient) RegisterRecording(ctx context.Context, req service.RegisterRecordingRequest) (*domain.Recording, error) {
	var result httpapi.Result[domain.Recording]
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetBody(req).
		SetResult(&result).
		Post("/safety/api/v1/recordings")
	if err != nil {
		return nil, fmt.Errorf("failed to register recording: %w", err)
	}
	if resp.IsError() || result.Code != httpapi.ResultSuccess {
		return nil, fmt.Errorf("recordings API error: http=%d code=%d msg=%s", resp.StatusCode(), result.Code, result.Message)
	}
	return &result.Result, nil
}
