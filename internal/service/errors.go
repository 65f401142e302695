package service

import "errors"

// 业务校验哨兵错误，HTTP 层据此映射 400
var (
	// 摄取批次级校验
	ErrMissingSessionID = errors.New("session_id is required")
	ErrNoSegments       = errors.New("segments cannot be empty")
	ErrInvalidRegion    = errors.New("invalid region: must be 'us' or 'eu'")

	// 原始转写/录音摄取
	ErrEmptyTranscript    = errors.New("transcript is empty")
	ErrMissingAudioURL    = errors.New("audio_url is required")
	ErrEmptyTranscription = errors.New("transcription produced no text")
	ErrNoTranscriber      = errors.New("transcriber is not configured")

	// 风险信息流作用域校验（session 与 subject 二选一）
	ErrFeedScopeRequired = errors.New("exactly one of session_id or subject_id is required")

	// 录制登记
	ErrMissingRecordingURL = errors.New("recording_url is required")
)

// IsValidationError 判断是否业务校验错误（区别于存储/下游故障）
func IsValidationError(err error) bool {
	switch {
	case errors.Is(err, ErrMissingSessionID),
		errors.Is(err, ErrNoSegments),
		errors.Is(err, ErrInvalidRegion),
		errors.Is(err, ErrEmptyTranscript),
		errors.Is(err, ErrMissingAudioURL),
		errors.Is(err, ErrEmptyTranscription),
		errors.Is(err, ErrFeedScopeRequired),
		errors.Is(err, ErrMissingRecordingURL):
		return true
	}
	return false
}
