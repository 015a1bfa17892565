package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/pembrokehq/reflect-backend/internal/platform/apierr"
	"github.com/pembrokehq/reflect-backend/internal/platform/logger"
)

type fakeExtractor struct {
	text string
	err  error
}

func (f *fakeExtractor) ExtractText(ctx context.Context, data []byte, mimeType string) (string, error) {
	return f.text, f.err
}
func (f *fakeExtractor) Close() error { return nil }

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("development")
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	return log
}

func pdfBytes(body string) []byte {
	return []byte("%PDF-1.7\n" + body)
}

func TestExtractAgendaText(t *testing.T) {
	svc := NewExtractionService(testLogger(t), &fakeExtractor{text: "  Agenda: differentiation  "})
	got, err := svc.ExtractAgendaText(context.Background(), pdfBytes("content"), "application/pdf")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "Agenda: differentiation" {
		t.Fatalf("text not trimmed: %q", got)
	}
}

func TestExtractAgendaTextRejectsEmptyFile(t *testing.T) {
	svc := NewExtractionService(testLogger(t), &fakeExtractor{})
	_, err := svc.ExtractAgendaText(context.Background(), nil, "application/pdf")
	assertAPIStatus(t, err, http.StatusBadRequest, "empty_file")
}

func TestExtractAgendaTextRejectsNonPDFMime(t *testing.T) {
	svc := NewExtractionService(testLogger(t), &fakeExtractor{})
	_, err := svc.ExtractAgendaText(context.Background(), pdfBytes("x"), "image/png")
	assertAPIStatus(t, err, http.StatusBadRequest, "unsupported_file_type")
}

func TestExtractAgendaTextRejectsNonPDFMagic(t *testing.T) {
	svc := NewExtractionService(testLogger(t), &fakeExtractor{})
	_, err := svc.ExtractAgendaText(context.Background(), []byte("plain text file"), "application/pdf")
	assertAPIStatus(t, err, http.StatusBadRequest, "unsupported_file_type")
}

func TestExtractAgendaTextAllowsOctetStreamWithPDFMagic(t *testing.T) {
	svc := NewExtractionService(testLogger(t), &fakeExtractor{text: "ok"})
	if _, err := svc.ExtractAgendaText(context.Background(), pdfBytes("x"), "application/octet-stream"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestExtractAgendaTextEmptyResult(t *testing.T) {
	svc := NewExtractionService(testLogger(t), &fakeExtractor{text: "   "})
	_, err := svc.ExtractAgendaText(context.Background(), pdfBytes("x"), "application/pdf")
	assertAPIStatus(t, err, http.StatusUnprocessableEntity, "no_text_found")
}

func TestExtractAgendaTextProviderFailure(t *testing.T) {
	svc := NewExtractionService(testLogger(t), &fakeExtractor{err: fmt.Errorf("rpc unavailable")})
	_, err := svc.ExtractAgendaText(context.Background(), pdfBytes("x"), "application/pdf")
	assertAPIStatus(t, err, http.StatusBadGateway, "extraction_failed")
}

func assertAPIStatus(t *testing.T, err error, wantStatus int, wantCode string) {
	t.Helper()
	if err == nil {
		t.Fatal("expected error")
	}
	var ae *apierr.Error
	if !errors.As(err, &ae) {
		t.Fatalf("expected *apierr.Error, got %T", err)
	}
	if ae.Status != wantStatus {
		t.Fatalf("status: want %d got %d", wantStatus, ae.Status)
	}
	if ae.Code != wantCode {
		t.Fatalf("code: want %s got %s", wantCode, ae.Code)
	}
}
