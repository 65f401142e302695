package domain

import (
	"time"
)

// Speaker 片段说话人角色
type Speaker string

const (
	SpeakerPatient   Speaker = "patient"
	SpeakerProvider  Speaker = "provider"
	SpeakerCaregiver Speaker = "caregiver"
	SpeakerSystem    Speaker = "system"
)

// Valid 校验说话人取值
func (s Speaker) Valid() bool {
	switch s {
	case SpeakerPatient, SpeakerProvider, SpeakerCaregiver, SpeakerSystem:
		return true
	}
	return false
}

// Region 数据驻留标签（仅透传给存储路由，不参与检测逻辑）
type Region string

const (
	RegionUS Region = "us"
	RegionEU Region = "eu"
)

// Valid 校验区域取值（空值按 us 处理，由调用方决定）
func (r Region) Valid() bool {
	return r == RegionUS || r == RegionEU
}

// TranscriptSegment 转写片段领域模型（对应 transcript_segments 表）
// 摄取时创建一次，之后不可变；本服务不做更新/删除（留存与擦除由外部协作方负责）
type TranscriptSegment struct {
	// 主键
	SegmentID string `json:"segment_id" db:"segment_id"` // UUID, PRIMARY KEY

	// 会话关联
	SessionID string `json:"session_id" db:"session_id"` // UUID, NOT NULL（外部会话记录的外键）

	// 内容
	Speaker Speaker `json:"speaker" db:"speaker"` // VARCHAR(20), CHECK IN ('patient','provider','caregiver','system')
	Text    string  `json:"text" db:"text"`    // TEXT, NOT NULL

	// 会话内时间窗 [start_time, end_time)，单位秒
	StartTime float64 `json:"start_time" db:"start_time"` // DOUBLE PRECISION, NOT NULL, >= 0
	EndTime   float64 `json:"end_time" db:"end_time"`   // DOUBLE PRECISION, NOT NULL, >= start_time

	// 外部情绪评分（可选，本服务不约束取值范围）
	SentimentScore *float64 `json:"sentiment_score,omitempty" db:"sentiment_score"` // DOUBLE PRECISION, nullable

	// 数据驻留
	Region Region `json:"region" db:"region"` // VARCHAR(4), CHECK IN ('us','eu')

	// 时间戳
	CreatedAt time.Time `json:"created_at" db:"created_at"` // TIMESTAMPTZ, NOT NULL
}
