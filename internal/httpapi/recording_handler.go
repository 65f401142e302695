package httpapi

import (
	"net/http"

	"wisefido-session-safety/internal/service"

	"go.uber.org/zap"
)

// RecordingHandler 录制登记 Handler
type RecordingHandler struct {
	recordingService service.RecordingService
	logger           *zap.Logger
}

// NewRecordingHandler 创建录制登记 Handler
func NewRecordingHandler(recordingService service.RecordingService, logger *zap.Logger) *RecordingHandler {
	return &RecordingHandler{
		recordingService: recordingService,
		logger:           logger,
	}
}

// RegisterRecording 登记会话录制元数据
func (h *RecordingHandler) RegisterRecording(w http.ResponseWriter, r *http.Request) {
	var req service.RegisterRecordingRequest
	if err := readBodyJSON(r, 1<<20, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, Fail("invalid JSON body"))
		return
	}

	recording, err := h.recordingService.RegisterRecording(r.Context(), req)
	if err != nil {
		if service.IsValidationError(err) {
			writeJSON(w, http.StatusBadRequest, Fail(err.Error()))
			return
		}
		h.logger.Error("Failed to register recording",
			zap.String("session_id", req.SessionID),
			zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, Fail("failed to register recording"))
		return
	}

	writeJSON(w, http.StatusOK, Ok(recording))
}
