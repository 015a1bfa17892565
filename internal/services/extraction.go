package services

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/pembrokehq/reflect-backend/internal/platform/apierr"
	"github.com/pembrokehq/reflect-backend/internal/platform/docai"
	"github.com/pembrokehq/reflect-backend/internal/platform/logger"
)

const maxUploadBytes = 20 << 20

// ExtractionService turns an uploaded agenda document into plain text.
// Extraction is read-only: nothing is persisted, so retrying an upload
// is always safe.
type ExtractionService interface {
	ExtractAgendaText(ctx context.Context, data []byte, mimeType string) (string, error)
}

type extractionService struct {
	log   *logger.Logger
	docai docai.Extractor
}

func NewExtractionService(log *logger.Logger, ex docai.Extractor) ExtractionService {
	return &extractionService{
		log:   log.With("service", "ExtractionService"),
		docai: ex,
	}
}

func (s *extractionService) ExtractAgendaText(ctx context.Context, data []byte, mimeType string) (string, error) {
	if len(data) == 0 {
		return "", apierr.New(http.StatusBadRequest, "empty_file", fmt.Errorf("uploaded file is empty"))
	}
	if len(data) > maxUploadBytes {
		return "", apierr.New(http.StatusRequestEntityTooLarge, "file_too_large", fmt.Errorf("uploaded file exceeds %d bytes", maxUploadBytes))
	}
	if err := validatePDF(data, mimeType); err != nil {
		return "", apierr.New(http.StatusBadRequest, "unsupported_file_type", err)
	}

	text, err := s.docai.ExtractText(ctx, data, "application/pdf")
	if err != nil {
		s.log.Error("document extraction failed", "error", err.Error())
		return "", apierr.New(http.StatusBadGateway, "extraction_failed", err)
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return "", apierr.New(http.StatusUnprocessableEntity, "no_text_found", fmt.Errorf("no text could be extracted from the document"))
	}
	return text, nil
}

// validatePDF checks both the declared content type and the file magic;
// browsers report octet-stream for some PDF uploads, so the sniff is
// authoritative.
func validatePDF(data []byte, mimeType string) error {
	mt := strings.ToLower(strings.TrimSpace(mimeType))
	if i := strings.Index(mt, ";"); i >= 0 {
		mt = strings.TrimSpace(mt[:i])
	}
	switch mt {
	case "", "application/pdf", "application/octet-stream":
	default:
		return fmt.Errorf("unsupported content type %q, only PDF is accepted", mimeType)
	}
	if !bytes.HasPrefix(data, []byte("%PDF-")) {
		return fmt.Errorf("file does not look like a PDF")
	}
	return nil
}
