package monitor

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"wisefido-session-safety/internal/domain"
	"wisefido-session-safety/internal/service"

	"go.uber.org/zap"
)

// DefaultPollInterval 默认轮询间隔
const DefaultPollInterval = 5 * time.Second

// Snapshot 监控器当前视图（值拷贝，调用方可随意持有）
type Snapshot struct {
	Transcripts []domain.TranscriptSegment
	RiskEvents  []domain.RiskEvent

	// CriticalCount 基于转写端事件计算（权威口径）
	// FeedCriticalCount 来自信息流接口，仅作交叉核对
	CriticalCount     int
	FeedCriticalCount int

	// Badges 按分类的事件计数
	Badges map[domain.RiskCategory]int

	Loading bool
	Err     error
}

// SessionMonitor 单会话安全监控器
// 周期性联合拉取转写与风险信息流，合并为原子快照
type SessionMonitor struct {
	sessionID string
	api       SessionAPI
	interval  time.Duration
	logger    *zap.Logger

	mu   sync.RWMutex
	snap Snapshot

	// 慢请求保护：上一轮未返回时跳过本轮，不叠加
	inFlight int32

	cancel context.CancelFunc
	done   chan struct{}
}

// NewSessionMonitor 创建会话监控器
// interval <= 0 时使用默认轮询间隔
func NewSessionMonitor(sessionID string, api SessionAPI, interval time.Duration, logger *zap.Logger) *SessionMonitor {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	return &SessionMonitor{
		sessionID: sessionID,
		api:       api,
		interval:  interval,
		logger:    logger,
		snap:      Snapshot{Loading: true, Badges: map[domain.RiskCategory]int{}},
	}
}

// Start 立即做一次联合拉取，然后启动轮询循环
func (m *SessionMonitor) Start(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	m.cancel = cancel
	m.done = make(chan struct{})

	m.Refresh(ctx)

	go func() {
		defer close(m.done)
		ticker := time.NewTicker(m.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				m.Refresh(ctx)
			}
		}
	}()
}

// Stop 停止轮询循环并等待退出
func (m *SessionMonitor) Stop() {
	if m.cancel == nil {
		return
	}
	m.cancel()
	<-m.done
}

// Snapshot 返回当前快照的拷贝
func (m *SessionMonitor) Snapshot() Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.snap
}

// Refresh 联合拉取转写与风险信息流并原子合并
// 上一次拉取尚未完成时直接跳过
func (m *SessionMonitor) Refresh(ctx context.Context) {
	if !atomic.CompareAndSwapInt32(&m.inFlight, 0, 1) {
		m.logger.Debug("Skipping refresh, previous fetch still in flight",
			zap.String("session_id", m.sessionID))
		return
	}
	defer atomic.StoreInt32(&m.inFlight, 0)

	var (
		wg          sync.WaitGroup
		transcripts *service.SessionTranscriptsResponse
		feed        *domain.RiskFeedView
		tErr, fErr  error
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		transcripts, tErr = m.api.FetchTranscripts(ctx, m.sessionID)
	}()
	go func() {
		defer wg.Done()
		feed, fErr = m.api.FetchRiskFeed(ctx, m.sessionID)
	}()
	wg.Wait()

	m.mu.Lock()
	defer m.mu.Unlock()

	m.snap.Loading = false

	if tErr != nil || fErr != nil {
		// 保留上一份数据，只标记错误；下一次成功后自动清除
		err := tErr
		if err == nil {
			err = fErr
		}
		m.snap.Err = err
		m.logger.Warn("Session monitor refresh failed",
			zap.String("session_id", m.sessionID),
			zap.Error(err))
		return
	}

	m.snap.Err = nil
	m.snap.Transcripts = transcripts.Segments
	m.snap.RiskEvents = transcripts.RiskEvents
	m.snap.FeedCriticalCount = feed.CriticalCount

	// 转写端事件是权威口径：计数与徽标都从它派生
	critical := 0
	badges := make(map[domain.RiskCategory]int, len(transcripts.RiskEvents))
	for _, event := range transcripts.RiskEvents {
		if event.Severity == domain.SeverityHigh {
			critical++
		}
		badges[event.Category]++
	}
	m.snap.CriticalCount = critical
	m.snap.Badges = badges
}

// IngestSegments 提交片段批次并强制刷新快照
func (m *SessionMonitor) IngestSegments(ctx context.Context, segments []service.SegmentInput) (*service.IngestResult, error) {
	result, err := m.api.SubmitSegments(ctx, service.IngestRequest{
		SessionID: m.sessionID,
		Segments:  segments,
	})
	if err != nil {
		return nil, err
	}

	m.Refresh(ctx)
	return result, nil
}

// RegisterRecording 登记录制元数据（旁路写入，不触发刷新）
func (m *SessionMonitor) RegisterRecording(ctx context.Context, req service.RegisterRecordingRequest) (*domain.Recording, error) {
	req.SessionID = m.sessionID
	return m.api.RegisterRecording(ctx, req)
}
