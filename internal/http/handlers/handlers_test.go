package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	httpserver "github.com/pembrokehq/reflect-backend/internal/http"
	httpH "github.com/pembrokehq/reflect-backend/internal/http/handlers"
	"github.com/pembrokehq/reflect-backend/internal/http/response"

	"github.com/pembrokehq/reflect-backend/internal/domain/pd"
	"github.com/pembrokehq/reflect-backend/internal/platform/apierr"
	"github.com/pembrokehq/reflect-backend/internal/platform/logger"
	"github.com/pembrokehq/reflect-backend/internal/reflection/rubric"
)

type fakeIntake struct {
	agenda *pd.Agenda
	err    error
}

func (f *fakeIntake) GenerateAgendaForm(ctx context.Context, title, agendaText string) (*pd.Agenda, error) {
	return f.agenda, f.err
}

func (f *fakeIntake) GetAgenda(ctx context.Context, id uuid.UUID) (*pd.Agenda, error) {
	return f.agenda, f.err
}

type fakeSessions struct {
	session *pd.Session
	err     error
}

func (f *fakeSessions) CreateSession(ctx context.Context, agendaID uuid.UUID, participantName string) (*pd.Session, error) {
	return f.session, f.err
}

func (f *fakeSessions) GetSession(ctx context.Context, id uuid.UUID) (*pd.Session, error) {
	return f.session, f.err
}

type fakeAnalysis struct {
	report    *pd.Report
	submitErr error
	getErr    error
	gotNotes  pd.SessionNotes
}

func (f *fakeAnalysis) SubmitNotes(ctx context.Context, sessionID uuid.UUID, notes pd.SessionNotes) (*pd.Report, error) {
	f.gotNotes = notes
	return f.report, f.submitErr
}

func (f *fakeAnalysis) GetReport(ctx context.Context, sessionID uuid.UUID) (*pd.Report, error) {
	return f.report, f.getErr
}

type fakeExtraction struct {
	text string
	err  error
}

func (f *fakeExtraction) ExtractAgendaText(ctx context.Context, data []byte, mimeType string) (string, error) {
	return f.text, f.err
}

func newTestRouter(t *testing.T, intake *fakeIntake, sessions *fakeSessions, analysis *fakeAnalysis, extraction *fakeExtraction) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	log, err := logger.New("development")
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	cfg := httpserver.RouterConfig{
		Log:           log,
		HealthHandler: httpH.NewHealthHandler(),
	}
	if intake != nil {
		cfg.AgendaHandler = httpH.NewAgendaHandler(log, intake)
	}
	if sessions != nil {
		cfg.SessionHandler = httpH.NewSessionHandler(log, sessions)
	}
	if analysis != nil {
		cfg.AnalysisHandler = httpH.NewAnalysisHandler(log, analysis)
	}
	if extraction != nil {
		cfg.ExtractHandler = httpH.NewExtractHandler(log, extraction)
	}
	return httpserver.NewRouter(cfg)
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) response.ErrorEnvelope {
	t.Helper()
	var env response.ErrorEnvelope
	if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode error envelope: %v (body %s)", err, w.Body.String())
	}
	return env
}

func TestHealthcheck(t *testing.T) {
	r := newTestRouter(t, nil, nil, nil, nil)
	w := doJSON(t, r, http.MethodGet, "/healthcheck", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status: want 200 got %d", w.Code)
	}
	if w.Body.String() != "ok" {
		t.Fatalf("body: want ok got %q", w.Body.String())
	}
}

func TestCreateAgendaReturnsForm(t *testing.T) {
	form, err := pd.FormStructure{FocusQuestions: []string{"Q1?", "Q2?", "Q3?"}}.Encode()
	if err != nil {
		t.Fatalf("encode form: %v", err)
	}
	intake := &fakeIntake{agenda: &pd.Agenda{ID: uuid.New(), Title: "PD Day", FormStructure: form}}
	r := newTestRouter(t, intake, nil, nil, nil)

	w := doJSON(t, r, http.MethodPost, "/api/agendas", map[string]string{
		"title":  "PD Day",
		"agenda": "Agenda text",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("status: want 201 got %d (body %s)", w.Code, w.Body.String())
	}

	var got pd.Agenda
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode agenda: %v", err)
	}
	decoded, err := pd.DecodeFormStructure(got.FormStructure)
	if err != nil {
		t.Fatalf("decode form: %v", err)
	}
	if decoded.QuestionCount() != 3 {
		t.Fatalf("question count: want 3 got %d", decoded.QuestionCount())
	}
}

func TestCreateAgendaInvalidBody(t *testing.T) {
	r := newTestRouter(t, &fakeIntake{}, nil, nil, nil)
	req := httptest.NewRequest(http.MethodPost, "/api/agendas", strings.NewReader("not json"))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status: want 400 got %d", w.Code)
	}
	if decodeEnvelope(t, w).Error.Code != "invalid_body" {
		t.Fatalf("code: want invalid_body got %s", decodeEnvelope(t, w).Error.Code)
	}
}

func TestGetAgendaRejectsBadID(t *testing.T) {
	r := newTestRouter(t, &fakeIntake{}, nil, nil, nil)
	w := doJSON(t, r, http.MethodGet, "/api/agendas/not-a-uuid", nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status: want 400 got %d", w.Code)
	}
	if decodeEnvelope(t, w).Error.Code != "invalid_agenda_id" {
		t.Fatalf("unexpected code %s", decodeEnvelope(t, w).Error.Code)
	}
}

func TestCreateSessionMapsServiceError(t *testing.T) {
	sessions := &fakeSessions{err: apierr.New(http.StatusNotFound, "agenda_not_found", fmt.Errorf("agenda missing"))}
	r := newTestRouter(t, nil, sessions, nil, nil)

	w := doJSON(t, r, http.MethodPost, "/api/sessions", map[string]string{
		"agenda_id":        uuid.New().String(),
		"participant_name": "Sam",
	})
	if w.Code != http.StatusNotFound {
		t.Fatalf("status: want 404 got %d", w.Code)
	}
	env := decodeEnvelope(t, w)
	if env.Error.Code != "agenda_not_found" {
		t.Fatalf("code: want agenda_not_found got %s", env.Error.Code)
	}
}

func TestSubmitNotesPassesSelectionThrough(t *testing.T) {
	analysis := &fakeAnalysis{report: &pd.Report{ID: uuid.New()}}
	r := newTestRouter(t, nil, nil, analysis, nil)

	sessionID := uuid.New()
	w := doJSON(t, r, http.MethodPost, "/api/sessions/"+sessionID.String()+"/notes", map[string]any{
		"generic_notes": "notes",
		"selected_frameworks": map[string]bool{
			"aitsl":    true,
			"pembroke": true,
			"qtm":      false,
		},
	})
	if w.Code != http.StatusOK {
		t.Fatalf("status: want 200 got %d (body %s)", w.Code, w.Body.String())
	}
	if !analysis.gotNotes.SelectedFrameworks[rubric.AITSL] || !analysis.gotNotes.SelectedFrameworks[rubric.Pembroke] {
		t.Fatal("selection not passed to service")
	}
	if analysis.gotNotes.SelectedFrameworks[rubric.QTM] {
		t.Fatal("false selection treated as selected")
	}
}

func TestSubmitNotesEmptySelectionRejected(t *testing.T) {
	analysis := &fakeAnalysis{submitErr: apierr.New(http.StatusBadRequest, "invalid_frameworks", fmt.Errorf("at least one framework must be selected"))}
	r := newTestRouter(t, nil, nil, analysis, nil)

	w := doJSON(t, r, http.MethodPost, "/api/sessions/"+uuid.New().String()+"/notes", map[string]any{
		"generic_notes":       "notes",
		"selected_frameworks": map[string]bool{},
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status: want 400 got %d", w.Code)
	}
	if decodeEnvelope(t, w).Error.Code != "invalid_frameworks" {
		t.Fatalf("unexpected code %s", decodeEnvelope(t, w).Error.Code)
	}
}

func TestGetReportNotReadyCode(t *testing.T) {
	analysis := &fakeAnalysis{getErr: apierr.New(http.StatusNotFound, "report_not_ready", fmt.Errorf("report not yet generated"))}
	r := newTestRouter(t, nil, nil, analysis, nil)

	w := doJSON(t, r, http.MethodGet, "/api/sessions/"+uuid.New().String()+"/report", nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("status: want 404 got %d", w.Code)
	}
	if decodeEnvelope(t, w).Error.Code != "report_not_ready" {
		t.Fatalf("unexpected code %s", decodeEnvelope(t, w).Error.Code)
	}
}

func TestExtractTextRequiresFileField(t *testing.T) {
	r := newTestRouter(t, nil, nil, nil, &fakeExtraction{})
	req := httptest.NewRequest(http.MethodPost, "/api/extract-text", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status: want 400 got %d", w.Code)
	}
	if decodeEnvelope(t, w).Error.Code != "missing_file" {
		t.Fatalf("unexpected code %s", decodeEnvelope(t, w).Error.Code)
	}
}

func TestExtractTextReturnsExtractedText(t *testing.T) {
	r := newTestRouter(t, nil, nil, nil, &fakeExtraction{text: "Agenda body"})

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", "agenda.pdf")
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err := part.Write([]byte("%PDF-1.7 fake")); err != nil {
		t.Fatalf("write part: %v", err)
	}
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/extract-text", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status: want 200 got %d (body %s)", w.Code, w.Body.String())
	}
	var resp struct {
		Text     string `json:"text"`
		Filename string `json:"filename"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Text != "Agenda body" || resp.Filename != "agenda.pdf" {
		t.Fatalf("unexpected response %+v", resp)
	}
}
