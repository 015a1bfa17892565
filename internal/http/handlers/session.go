package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/pembrokehq/reflect-backend/internal/http/response"
	"github.com/pembrokehq/reflect-backend/internal/platform/logger"
	"github.com/pembrokehq/reflect-backend/internal/services"
)

type SessionHandler struct {
	log      *logger.Logger
	sessions services.SessionService
}

func NewSessionHandler(log *logger.Logger, sessions services.SessionService) *SessionHandler {
	return &SessionHandler{
		log:      log.With("handler", "SessionHandler"),
		sessions: sessions,
	}
}

type createSessionRequest struct {
	AgendaID        string `json:"agenda_id"`
	ParticipantName string `json:"participant_name"`
}

func (h *SessionHandler) CreateSession(c *gin.Context) {
	var req createSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	agendaID, err := uuid.Parse(req.AgendaID)
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_agenda_id", fmt.Errorf("agenda_id must be a UUID"))
		return
	}

	session, err := h.sessions.CreateSession(c.Request.Context(), agendaID, req.ParticipantName)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondCreated(c, session)
}

func (h *SessionHandler) GetSession(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_session_id", fmt.Errorf("session id must be a UUID"))
		return
	}

	session, err := h.sessions.GetSession(c.Request.Context(), id)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, session)
}
