package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/pembrokehq/reflect-backend/internal/domain/pd"
	"github.com/pembrokehq/reflect-backend/internal/http/response"
	"github.com/pembrokehq/reflect-backend/internal/platform/logger"
	"github.com/pembrokehq/reflect-backend/internal/reflection/rubric"
	"github.com/pembrokehq/reflect-backend/internal/services"
)

// AnalysisHandler covers notes submission and report retrieval.
type AnalysisHandler struct {
	log      *logger.Logger
	analysis services.AnalysisService
}

func NewAnalysisHandler(log *logger.Logger, analysis services.AnalysisService) *AnalysisHandler {
	return &AnalysisHandler{
		log:      log.With("handler", "AnalysisHandler"),
		analysis: analysis,
	}
}

type submitNotesRequest struct {
	GenericNotes        string            `json:"generic_notes"`
	StructuredResponses map[string]string `json:"structured_responses"`
	SelectedFrameworks  map[string]bool   `json:"selected_frameworks"`
}

func (h *AnalysisHandler) SubmitNotes(c *gin.Context) {
	sessionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_session_id", fmt.Errorf("session id must be a UUID"))
		return
	}

	var req submitNotesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}

	selection := rubric.Selection{}
	for k, v := range req.SelectedFrameworks {
		selection[rubric.Identifier(k)] = v
	}

	report, err := h.analysis.SubmitNotes(c.Request.Context(), sessionID, pd.SessionNotes{
		GenericNotes:        req.GenericNotes,
		StructuredResponses: req.StructuredResponses,
		SelectedFrameworks:  selection,
	})
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, report)
}

func (h *AnalysisHandler) GetReport(c *gin.Context) {
	sessionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_session_id", fmt.Errorf("session id must be a UUID"))
		return
	}

	report, err := h.analysis.GetReport(c.Request.Context(), sessionID)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, report)
}
