package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/personachat-backend/internal/http/response"
	"github.com/yungbote/personachat-backend/internal/platform/logger"
	"github.com/yungbote/personachat-backend/internal/services"
	"github.com/yungbote/personachat-backend/internal/session"
)

type UploadHandler struct {
	log            *logger.Logger
	registry       *session.Registry
	primer         *services.PrimerService
	maxUploadBytes int64
}

func NewUploadHandler(log *logger.Logger, registry *session.Registry, primer *services.PrimerService, maxUploadBytes int64) *UploadHandler {
	return &UploadHandler{
		log:            log.With("handler", "UploadHandler"),
		registry:       registry,
		primer:         primer,
		maxUploadBytes: maxUploadBytes,
	}
}

type uploadReq struct {
	TranscriptText string `json:"transcriptText"`
	PersonaName    string `json:"personaName"`
}

// POST /api/upload
//
// Creates a session from an exported transcript and schedules priming in the
// background. The session id comes back immediately; clients join it over the
// realtime channel and wait for "ready".
func (h *UploadHandler) Upload(c *gin.Context) {
	if h.maxUploadBytes > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUploadBytes)
	}

	var req uploadReq
	if err := c.ShouldBindJSON(&req); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			response.RespondError(c, http.StatusRequestEntityTooLarge, "transcript_too_large", err)
			return
		}
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	if strings.TrimSpace(req.TranscriptText) == "" || strings.TrimSpace(req.PersonaName) == "" {
		response.RespondError(c, http.StatusBadRequest, "missing_fields", fmt.Errorf("transcriptText and personaName are required"))
		return
	}

	sess := h.registry.Create(req.TranscriptText, req.PersonaName)
	h.primer.Prime(context.Background(), sess)

	h.log.Info("Upload accepted", "session_id", sess.ID, "persona", req.PersonaName)
	response.RespondOK(c, gin.H{"sessionId": sess.ID.String()})
}
