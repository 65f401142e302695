package service

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

// ASRRequest 语音转写 API 请求
type ASRRequest struct {
	AudioURL string `json:"audioUrl"`
}

// ASRResponse 语音转写 API 响应
type ASRResponse struct {
	Status int    `json:"status"`
	Msg    string `json:"msg"`
	Text   string `json:"text"`
}

// ASRClient 外部语音转写协作方 API 客户端
type ASRClient struct {
	httpClient *resty.Client
	logger     *zap.Logger
}

// NewASRClient 创建语音转写客户端
func NewASRClient(baseURL string, logger *zap.Logger) *ASRClient {
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(60 * time.Second). // 长录音转写耗时较长
		SetRetryCount(3).
		SetRetryWaitTime(1 * time.Second).
		SetRetryMaxWaitTime(5 * time.Second).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")

	return &ASRClient{
		httpClient: client,
		logger:     logger,
	}
}

// Transcribe 提交录音地址并返回转写文本
func (c *ASRClient) Transcribe(ctx context.Context, audioURL string) (string, error) {
	if audioURL == "" {
		return "", ErrMissingAudioURL
	}

	c.logger.Info("Calling ASR API: transcribe",
		zap.String("audio_url", audioURL),
	)

	var response ASRResponse
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetBody(ASRRequest{AudioURL: audioURL}).
		SetResult(&response).
		Post("/asr/api/v1/transcribe")

	if err != nil {
		c.logger.Error("ASR API call failed",
			zap.Error(err),
			zap.String("audio_url", audioURL),
		)
		return "", fmt.Errorf("failed to call ASR API: %w", err)
	}

	if resp.IsError() {
		return "", fmt.Errorf("ASR API returned HTTP %d", resp.StatusCode())
	}

	if response.Status != 0 {
		return "", fmt.Errorf("ASR API error: status=%d msg=%s", response.Status, response.Msg)
	}

	return response.Text, nil
}
