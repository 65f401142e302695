package httpapi

import (
	"fmt"
	"net/http"
	"time"

	"wisefido-session-safety/internal/service"

	"go.uber.org/zap"
)

// RiskFeedHandler 风险信息流 Handler
type RiskFeedHandler struct {
	riskFeedService service.RiskFeedService
	logger          *zap.Logger
}

// NewRiskFeedHandler 创建风险信息流 Handler
func NewRiskFeedHandler(riskFeedService service.RiskFeedService, logger *zap.Logger) *RiskFeedHandler {
	return &RiskFeedHandler{
		riskFeedService: riskFeedService,
		logger:          logger,
	}
}

// ============================================
// GetRiskFeed 查询聚合风险信息流
// ============================================

func (h *RiskFeedHandler) GetRiskFeed(w http.ResponseWriter, r *http.Request) {
	query := service.RiskFeedQuery{
		SessionID: r.URL.Query().Get("session_id"),
		SubjectID: r.URL.Query().Get("subject_id"),
	}
	if hours := parseInt(r.URL.Query().Get("window_hours"), 0); hours > 0 {
		query.Window = time.Duration(hours) * time.Hour
	}

	view, err := h.riskFeedService.RiskFeed(r.Context(), query)
	if err != nil {
		if service.IsValidationError(err) {
			writeJSON(w, http.StatusBadRequest, Fail(err.Error()))
			return
		}
		h.logger.Error("Failed to aggregate risk feed",
			zap.String("session_id", query.SessionID),
			zap.String("subject_id", query.SubjectID),
			zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, Fail("failed to load risk feed"))
		return
	}

	writeJSON(w, http.StatusOK, Ok(view))
}

// ============================================
// ExportRiskEvents 导出会话风险事件 Excel
// ============================================

func (h *RiskFeedHandler) ExportRiskEvents(w http.ResponseWriter, r *http.Request) {
	sessionID := r.URL.Query().Get("session_id")

	events, err := h.riskFeedService.SessionRiskEvents(r.Context(), sessionID)
	if err != nil {
		if service.IsValidationError(err) {
			writeJSON(w, http.StatusBadRequest, Fail(err.Error()))
			return
		}
		h.logger.Error("Failed to load risk events for export",
			zap.String("session_id", sessionID),
			zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, Fail("failed to load risk events"))
		return
	}

	data, err := GenerateRiskEventsExport(events)
	if err != nil {
		h.logger.Error("Failed to generate risk events export",
			zap.String("session_id", sessionID),
			zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, Fail("failed to generate export"))
		return
	}

	filename := fmt.Sprintf("risk-events-%s-%s.xlsx", sessionID, time.Now().Format("20060102"))
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}
