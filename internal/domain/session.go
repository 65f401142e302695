package domain

import (
	"time"
)

// Session 会话记录（sessions 表由外部系统维护，本服务只读）
// 风险信息流按 subject 聚合时，用 started_at 做尾随窗口过滤
type Session struct {
	SessionID string    `json:"session_id" db:"session_id"` // UUID, PRIMARY KEY
	SubjectID string    `json:"subject_id" db:"subject_id"` // UUID, NOT NULL
	StartedAt time.Time `json:"started_at" db:"started_at"` // TIMESTAMPTZ, NOT NULL
	Region    Region    `json:"region" db:"region"`     // VARCHAR(4)
}
