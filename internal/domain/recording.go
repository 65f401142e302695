package domain

import (
	"time"
)

// Recording 会话录制登记（对应 session_recordings 表）
// 只写旁路：登记不影响转写/风险状态
type Recording struct {
	// 主键
	RecordingID string `json:"recording_id" db:"recording_id"` // UUID, PRIMARY KEY

	// 会话关联
	SessionID string `json:"session_id" db:"session_id"` // UUID, NOT NULL

	// 录制元数据
	RecordingURL    string   `json:"recording_url" db:"recording_url"`    // TEXT, NOT NULL
	DurationSec     *float64 `json:"duration_sec,omitempty" db:"duration_sec"`     // DOUBLE PRECISION, nullable
	FileSize        *int64   `json:"file_size,omitempty" db:"file_size"`        // BIGINT, nullable
	Quality         *string  `json:"quality,omitempty" db:"quality"`          // VARCHAR(20), nullable
	StorageLocation *string  `json:"storage_location,omitempty" db:"storage_location"` // TEXT, nullable

	// 时间戳
	CreatedAt time.Time `json:"created_at" db:"created_at"` // TIMESTAMPTZ, NOT NULL
}
