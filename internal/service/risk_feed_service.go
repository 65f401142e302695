package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"wisefido-session-safety/internal/domain"
	"wisefido-session-safety/internal/repository"

	"go.uber.org/zap"
)

// 风险信息流默认参数
const (
	DefaultFeedWindow      = 24 * time.Hour
	DefaultFeedRecentLimit = 10
)

// RiskFeedQuery 风险信息流查询
// SessionID 与 SubjectID 恰好填一个；Window 为 0 时使用默认尾随窗口
type RiskFeedQuery struct {
	SessionID string
	SubjectID string
	Window    time.Duration
}

// RiskFeedService 风险信息流服务接口
type RiskFeedService interface {
	// 单会话全量风险事件历史（detected_at 正序）
	SessionRiskEvents(ctx context.Context, sessionID string) ([]domain.RiskEvent, error)

	// 聚合风险信息流：窗口内全量计数 + 最近 N 条事件
	// session 作用域不做时间过滤，subject 作用域按会话启动时间做尾随窗口
	RiskFeed(ctx context.Context, query RiskFeedQuery) (*domain.RiskFeedView, error)
}

type riskFeedService struct {
	risksRepo     repository.RiskEventsRepository
	sessionsRepo  repository.SessionsRepository
	recentLimit   int
	defaultWindow time.Duration
	logger        *zap.Logger
}

// NewRiskFeedService 创建风险信息流服务
// recentLimit/defaultWindow 传零值时使用包默认值
func NewRiskFeedService(
	risksRepo repository.RiskEventsRepository,
	sessionsRepo repository.SessionsRepository,
	recentLimit int,
	defaultWindow time.Duration,
	logger *zap.Logger,
) RiskFeedService {
	if recentLimit <= 0 {
		recentLimit = DefaultFeedRecentLimit
	}
	if defaultWindow <= 0 {
		defaultWindow = DefaultFeedWindow
	}
	return &riskFeedService{
		risksRepo:     risksRepo,
		sessionsRepo:  sessionsRepo,
		recentLimit:   recentLimit,
		defaultWindow: defaultWindow,
		logger:        logger,
	}
}

func (s *riskFeedService) SessionRiskEvents(ctx context.Context, sessionID string) ([]domain.RiskEvent, error) {
	if strings.TrimSpace(sessionID) == "" {
		return nil, ErrMissingSessionID
	}

	events, err := s.risksRepo.ListBySession(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to list risk events: %w", err)
	}
	if events == nil {
		events = []domain.RiskEvent{}
	}
	return events, nil
}

// RiskFeed 聚合风险信息流
// criticalCount/totalCount 基于窗口内全量事件计算，不受最近 N 条截断影响
func (s *riskFeedService) RiskFeed(ctx context.Context, query RiskFeedQuery) (*domain.RiskFeedView, error) {
	hasSession := strings.TrimSpace(query.SessionID) != ""
	hasSubject := strings.TrimSpace(query.SubjectID) != ""
	if hasSession == hasSubject {
		return nil, ErrFeedScopeRequired
	}

	var (
		events []domain.RiskEvent
		err    error
	)

	if hasSession {
		events, err = s.risksRepo.ListBySession(ctx, query.SessionID)
		if err != nil {
			return nil, fmt.Errorf("failed to list risk events: %w", err)
		}
	} else {
		window := query.Window
		if window <= 0 {
			window = s.defaultWindow
		}
		since := time.Now().Add(-window)

		sessionIDs, err := s.sessionsRepo.ListSessionIDsBySubjectSince(ctx, query.SubjectID, since)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve subject sessions: %w", err)
		}

		// 窗口内无会话直接返回空流，不查事件表
		if len(sessionIDs) > 0 {
			events, err = s.risksRepo.ListBySessions(ctx, sessionIDs)
			if err != nil {
				return nil, fmt.Errorf("failed to list risk events: %w", err)
			}
		}
	}

	view := &domain.RiskFeedView{
		Events:     []domain.RiskEvent{},
		TotalCount: len(events),
	}
	for _, event := range events {
		if event.Severity == domain.SeverityHigh {
			view.CriticalCount++
		}
	}

	// 事件已按 detected_at 正序，取尾部保留最新
	if len(events) > s.recentLimit {
		view.Events = events[len(events)-s.recentLimit:]
	} else if len(events) > 0 {
		view.Events = events
	}

	s.logger.Debug("Risk feed aggregated",
		zap.String("session_id", query.SessionID),
		zap.String("subject_id", query.SubjectID),
		zap.Int("total_count", view.TotalCount),
		zap.Int("critical_count", view.CriticalCount))

	return view, nil
}
