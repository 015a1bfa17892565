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

type AgendaHandler struct {
	log    *logger.Logger
	intake services.IntakeService
}

func NewAgendaHandler(log *logger.Logger, intake services.IntakeService) *AgendaHandler {
	return &AgendaHandler{
		log:    log.With("handler", "AgendaHandler"),
		intake: intake,
	}
}

type createAgendaRequest struct {
	Title  string `json:"title"`
	Agenda string `json:"agenda"`
}

func (h *AgendaHandler) CreateAgenda(c *gin.Context) {
	var req createAgendaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}

	agenda, err := h.intake.GenerateAgendaForm(c.Request.Context(), req.Title, req.Agenda)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondCreated(c, agenda)
}

func (h *AgendaHandler) GetAgenda(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_agenda_id", fmt.Errorf("agenda id must be a UUID"))
		return
	}

	agenda, err := h.intake.GetAgenda(c.Request.Context(), id)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, agenda)
}
