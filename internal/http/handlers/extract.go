package handlers

import (
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pembrokehq/reflect-backend/internal/http/response"
	"github.com/pembrokehq/reflect-backend/internal/platform/logger"
	"github.com/pembrokehq/reflect-backend/internal/services"
)

// ExtractHandler accepts a PDF upload and returns its text, so the client
// can review and edit the agenda before creating it.
type ExtractHandler struct {
	log        *logger.Logger
	extraction services.ExtractionService
}

func NewExtractHandler(log *logger.Logger, extraction services.ExtractionService) *ExtractHandler {
	return &ExtractHandler{
		log:        log.With("handler", "ExtractHandler"),
		extraction: extraction,
	}
}

type extractTextResponse struct {
	Text     string `json:"text"`
	Filename string `json:"filename"`
}

func (h *ExtractHandler) ExtractText(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "missing_file", fmt.Errorf("multipart field 'file' is required"))
		return
	}

	f, err := fileHeader.Open()
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "unreadable_file", err)
		return
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "unreadable_file", err)
		return
	}

	text, err := h.extraction.ExtractAgendaText(c.Request.Context(), data, fileHeader.Header.Get("Content-Type"))
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}

	response.RespondOK(c, extractTextResponse{
		Text:     text,
		Filename: fileHeader.Filename,
	})
}
