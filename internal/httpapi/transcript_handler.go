package httpapi

import (
	"net/http"

	"wisefido-session-safety/internal/service"

	"go.uber.org/zap"
)

// TranscriptHandler 转写摄取/查询 Handler
type TranscriptHandler struct {
	ingestService     service.IngestService
	transcriptService service.TranscriptService
	logger            *zap.Logger
}

// NewTranscriptHandler 创建转写 Handler
func NewTranscriptHandler(ingestService service.IngestService, transcriptService service.TranscriptService, logger *zap.Logger) *TranscriptHandler {
	return &TranscriptHandler{
		ingestService:     ingestService,
		transcriptService: transcriptService,
		logger:            logger,
	}
}

// ============================================
// IngestTranscripts 批量摄取结构化片段
// ============================================

func (h *TranscriptHandler) IngestTranscripts(w http.ResponseWriter, r *http.Request) {
	var req service.IngestRequest
	if err := readBodyJSON(r, 4<<20, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, Fail("invalid JSON body"))
		return
	}

	result, err := h.ingestService.Ingest(r.Context(), req)
	if err != nil {
		h.writeIngestError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, Ok(result))
}

// ============================================
// IngestRawTranscript 摄取原始转写文本
// ============================================

func (h *TranscriptHandler) IngestRawTranscript(w http.ResponseWriter, r *http.Request) {
	var req service.RawIngestRequest
	if err := readBodyJSON(r, 4<<20, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, Fail("invalid JSON body"))
		return
	}

	result, err := h.ingestService.IngestRaw(r.Context(), req)
	if err != nil {
		h.writeIngestError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, Ok(result))
}

// ============================================
// TranscribeAndIngest 录音转写并摄取
// ============================================

func (h *TranscriptHandler) TranscribeAndIngest(w http.ResponseWriter, r *http.Request) {
	var req service.TranscribeIngestRequest
	if err := readBodyJSON(r, 1<<20, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, Fail("invalid JSON body"))
		return
	}

	result, err := h.ingestService.TranscribeAndIngest(r.Context(), req)
	if err != nil {
		h.writeIngestError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, Ok(result))
}

// ============================================
// GetTranscripts 查询会话转写
// ============================================

func (h *TranscriptHandler) GetTranscripts(w http.ResponseWriter, r *http.Request) {
	sessionID := r.URL.Query().Get("session_id")
	includeRisks := parseBool(r.URL.Query().Get("include_risks"))

	resp, err := h.transcriptService.SessionTranscripts(r.Context(), sessionID, includeRisks)
	if err != nil {
		if service.IsValidationError(err) {
			writeJSON(w, http.StatusBadRequest, Fail(err.Error()))
			return
		}
		h.logger.Error("Failed to load session transcripts",
			zap.String("session_id", sessionID),
			zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, Fail("failed to load transcripts"))
		return
	}

	writeJSON(w, http.StatusOK, Ok(resp))
}

// writeIngestError 摄取错误统一映射：校验错误 400，下游故障 500
func (h *TranscriptHandler) writeIngestError(w http.ResponseWriter, r *http.Request, err error) {
	if service.IsValidationError(err) {
		writeJSON(w, http.StatusBadRequest, Fail(err.Error()))
		return
	}
	h.logger.Error("Transcript ingest failed",
		zap.String("path", r.URL.Path),
		zap.Error(err))
	writeJSON(w, http.StatusInternalServerError, Fail("ingest failed"))
}
