package domain

import (
	"time"
)

// Severity 风险等级（序关系 low < medium < high）
type Severity string

const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

// Rank 返回等级序数，用于排序/比较
func (s Severity) Rank() int {
	switch s {
	case SeverityLow:
		return 1
	case SeverityMedium:
		return 2
	case SeverityHigh:
		return 3
	}
	return 0
}

// RiskCategory 危机词库分类
type RiskCategory string

const (
	CategorySuicide      RiskCategory = "suicide"
	CategorySelfHarm     RiskCategory = "selfHarm"
	CategoryViolence     RiskCategory = "violence"
	CategoryHopelessness RiskCategory = "hopelessness"
	CategorySubstance    RiskCategory = "substance"
	CategoryAnxiety      RiskCategory = "anxiety"
	CategoryDepression   RiskCategory = "depression"
)

// RiskEvent 风险事件领域模型（对应 risk_events 表）
// 在父片段摄取时同步创建；只追加，不可变。确认/解除由外部协作方建模
type RiskEvent struct {
	// 主键
	EventID string `json:"event_id" db:"event_id"` // UUID, PRIMARY KEY

	// 会话与片段关联（每个风险事件恰好引用一个片段）
	SessionID string `json:"session_id" db:"session_id"` // UUID, NOT NULL
	SegmentID string `json:"segment_id" db:"segment_id"` // UUID, NOT NULL, REFERENCES transcript_segments(segment_id)

	// 检测结果
	Category    RiskCategory `json:"category" db:"category"`     // VARCHAR(30), NOT NULL
	Severity    Severity     `json:"severity" db:"severity"`     // VARCHAR(10), CHECK IN ('low','medium','high')
	MatchedText string       `json:"matched_text" db:"matched_text"` // TEXT, NOT NULL（命中的词条或脱敏引用）

	// 时间信息
	DetectedAt time.Time `json:"detected_at" db:"detected_at"` // TIMESTAMPTZ, NOT NULL

	// 时间戳
	CreatedAt time.Time `json:"created_at" db:"created_at"` // TIMESTAMPTZ, NOT NULL
}

// RiskFeedView 风险信息流视图（派生数据，每次读取重算，不持久化）
type RiskFeedView struct {
	Events        []RiskEvent `json:"events"`         // 最近 N 条，时间正序（最新在尾部）
	CriticalCount int         `json:"critical_count"` // severity == high 的总数
	TotalCount    int         `json:"total_count"`    // 窗口内全量计数
}
