package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/pembrokehq/reflect-backend/internal/domain/pd"
	"github.com/pembrokehq/reflect-backend/internal/platform/dbctx"
	"github.com/pembrokehq/reflect-backend/internal/reflection/rubric"
)

type fakeAI struct {
	out   string
	err   error
	calls int
}

func (f *fakeAI) GenerateText(ctx context.Context, system, user string) (string, error) {
	f.calls++
	return f.out, f.err
}

type fakeAgendaRepo struct {
	rows map[uuid.UUID]*pd.Agenda
}

func newFakeAgendaRepo() *fakeAgendaRepo {
	return &fakeAgendaRepo{rows: map[uuid.UUID]*pd.Agenda{}}
}

func (r *fakeAgendaRepo) Create(dbc dbctx.Context, row *pd.Agenda) error {
	if row.ID == uuid.Nil {
		row.ID = uuid.New()
	}
	r.rows[row.ID] = row
	return nil
}

func (r *fakeAgendaRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*pd.Agenda, error) {
	row, ok := r.rows[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return row, nil
}

type fakeSessionRepo struct {
	agendas  *fakeAgendaRepo
	rows     map[uuid.UUID]*pd.Session
	notesSet int
}

func newFakeSessionRepo(agendas *fakeAgendaRepo) *fakeSessionRepo {
	return &fakeSessionRepo{agendas: agendas, rows: map[uuid.UUID]*pd.Session{}}
}

func (r *fakeSessionRepo) Create(dbc dbctx.Context, row *pd.Session) error {
	if row.ID == uuid.Nil {
		row.ID = uuid.New()
	}
	r.rows[row.ID] = row
	return nil
}

func (r *fakeSessionRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*pd.Session, error) {
	row, ok := r.rows[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return row, nil
}

func (r *fakeSessionRepo) GetByIDWithAgenda(dbc dbctx.Context, id uuid.UUID) (*pd.Session, error) {
	row, err := r.GetByID(dbc, id)
	if err != nil {
		return nil, err
	}
	if agenda, ok := r.agendas.rows[row.AgendaID]; ok {
		row.Agenda = agenda
	}
	return row, nil
}

func (r *fakeSessionRepo) UpdateNotes(dbc dbctx.Context, id uuid.UUID, notes datatypes.JSON) error {
	row, ok := r.rows[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	row.Notes = notes
	r.notesSet++
	return nil
}

type fakeReportRepo struct {
	rows    map[uuid.UUID]*pd.Report
	upserts int
}

func newFakeReportRepo() *fakeReportRepo {
	return &fakeReportRepo{rows: map[uuid.UUID]*pd.Report{}}
}

func (r *fakeReportRepo) Upsert(dbc dbctx.Context, row *pd.Report) error {
	if existing, ok := r.rows[row.SessionID]; ok {
		row.ID = existing.ID
	} else if row.ID == uuid.Nil {
		row.ID = uuid.New()
	}
	r.rows[row.SessionID] = row
	r.upserts++
	return nil
}

func (r *fakeReportRepo) GetBySessionID(dbc dbctx.Context, sessionID uuid.UUID) (*pd.Report, error) {
	row, ok := r.rows[sessionID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return row, nil
}

func seedSession(t *testing.T, agendas *fakeAgendaRepo, sessions *fakeSessionRepo) *pd.Session {
	t.Helper()
	agenda := &pd.Agenda{Title: "Feedback Workshop", Content: "Agenda on formative feedback."}
	if err := agendas.Create(dbctx.Context{}, agenda); err != nil {
		t.Fatalf("seed agenda: %v", err)
	}
	session := &pd.Session{AgendaID: agenda.ID, ParticipantName: "Sam"}
	if err := sessions.Create(dbctx.Context{}, session); err != nil {
		t.Fatalf("seed session: %v", err)
	}
	return session
}

func validNotes() pd.SessionNotes {
	return pd.SessionNotes{
		GenericNotes:       "Feedback loops resonated.",
		SelectedFrameworks: rubric.Selection{rubric.AITSL: true},
	}
}

func validAnalysisJSON() string {
	return `{
		"aitsl_analysis": {"overall_compliance": "strong"},
		"key_insights": ["insight"],
		"recommendations": ["recommendation"]
	}`
}

func TestSubmitNotesGeneratesReport(t *testing.T) {
	agendas := newFakeAgendaRepo()
	sessions := newFakeSessionRepo(agendas)
	reports := newFakeReportRepo()
	session := seedSession(t, agendas, sessions)

	ai := &fakeAI{out: validAnalysisJSON()}
	svc := NewAnalysisService(testLogger(t), ai, sessions, reports)

	report, err := svc.SubmitNotes(context.Background(), session.ID, validNotes())
	if err != nil {
		t.Fatalf("submit notes: %v", err)
	}
	if report.SessionID != session.ID {
		t.Fatalf("report session: want %s got %s", session.ID, report.SessionID)
	}
	if sessions.notesSet != 1 {
		t.Fatal("notes were not persisted on the session")
	}

	var analysis map[string]json.RawMessage
	if err := json.Unmarshal(report.FrameworkAnalysis, &analysis); err != nil {
		t.Fatalf("analysis not valid JSON: %v", err)
	}
	if _, ok := analysis["aitsl_analysis"]; !ok {
		t.Fatal("analysis missing aitsl_analysis")
	}
}

func TestSubmitNotesUpsertsOnResubmission(t *testing.T) {
	agendas := newFakeAgendaRepo()
	sessions := newFakeSessionRepo(agendas)
	reports := newFakeReportRepo()
	session := seedSession(t, agendas, sessions)

	svc := NewAnalysisService(testLogger(t), &fakeAI{out: validAnalysisJSON()}, sessions, reports)

	first, err := svc.SubmitNotes(context.Background(), session.ID, validNotes())
	if err != nil {
		t.Fatalf("first submit: %v", err)
	}
	second, err := svc.SubmitNotes(context.Background(), session.ID, validNotes())
	if err != nil {
		t.Fatalf("second submit: %v", err)
	}
	if len(reports.rows) != 1 {
		t.Fatalf("report rows: want 1 got %d", len(reports.rows))
	}
	if first.ID != second.ID {
		t.Fatal("resubmission created a new report row")
	}
}

func TestSubmitNotesDegradesToFallbackOnBadModelOutput(t *testing.T) {
	agendas := newFakeAgendaRepo()
	sessions := newFakeSessionRepo(agendas)
	reports := newFakeReportRepo()
	session := seedSession(t, agendas, sessions)

	svc := NewAnalysisService(testLogger(t), &fakeAI{out: "not json"}, sessions, reports)

	report, err := svc.SubmitNotes(context.Background(), session.ID, validNotes())
	if err != nil {
		t.Fatalf("submit notes: %v", err)
	}
	var analysis map[string]json.RawMessage
	if err := json.Unmarshal(report.FrameworkAnalysis, &analysis); err != nil {
		t.Fatalf("fallback analysis not valid JSON: %v", err)
	}
	for _, key := range []string{"aitsl_analysis", "key_insights", "recommendations"} {
		if _, ok := analysis[key]; !ok {
			t.Fatalf("fallback analysis missing %s", key)
		}
	}
}

func TestSubmitNotesModelFailureAborts(t *testing.T) {
	agendas := newFakeAgendaRepo()
	sessions := newFakeSessionRepo(agendas)
	reports := newFakeReportRepo()
	session := seedSession(t, agendas, sessions)

	svc := NewAnalysisService(testLogger(t), &fakeAI{err: fmt.Errorf("upstream down")}, sessions, reports)

	_, err := svc.SubmitNotes(context.Background(), session.ID, validNotes())
	assertAPIStatus(t, err, http.StatusBadGateway, "model_failed")
	if reports.upserts != 0 {
		t.Fatal("report written despite model failure")
	}
	// Notes are saved before the model call; a retry picks up from there.
	if sessions.notesSet != 1 {
		t.Fatal("notes should remain persisted after model failure")
	}
}

func TestSubmitNotesRejectsEmptySelection(t *testing.T) {
	agendas := newFakeAgendaRepo()
	sessions := newFakeSessionRepo(agendas)
	reports := newFakeReportRepo()
	session := seedSession(t, agendas, sessions)

	ai := &fakeAI{out: validAnalysisJSON()}
	svc := NewAnalysisService(testLogger(t), ai, sessions, reports)

	notes := validNotes()
	notes.SelectedFrameworks = rubric.Selection{}
	_, err := svc.SubmitNotes(context.Background(), session.ID, notes)
	assertAPIStatus(t, err, http.StatusBadRequest, "invalid_frameworks")
	if ai.calls != 0 {
		t.Fatal("model called despite invalid selection")
	}
	if reports.upserts != 0 {
		t.Fatal("report written despite invalid selection")
	}
}

func TestSubmitNotesRejectsEmptyNotes(t *testing.T) {
	agendas := newFakeAgendaRepo()
	sessions := newFakeSessionRepo(agendas)
	reports := newFakeReportRepo()
	session := seedSession(t, agendas, sessions)

	svc := NewAnalysisService(testLogger(t), &fakeAI{}, sessions, reports)

	notes := pd.SessionNotes{SelectedFrameworks: rubric.Selection{rubric.QTM: true}}
	_, err := svc.SubmitNotes(context.Background(), session.ID, notes)
	assertAPIStatus(t, err, http.StatusBadRequest, "empty_notes")
}

func TestSubmitNotesUnknownSession(t *testing.T) {
	agendas := newFakeAgendaRepo()
	sessions := newFakeSessionRepo(agendas)
	svc := NewAnalysisService(testLogger(t), &fakeAI{out: validAnalysisJSON()}, sessions, newFakeReportRepo())

	_, err := svc.SubmitNotes(context.Background(), uuid.New(), validNotes())
	assertAPIStatus(t, err, http.StatusNotFound, "session_not_found")
}

func TestGetReportDistinguishesMissingSessionFromPendingReport(t *testing.T) {
	agendas := newFakeAgendaRepo()
	sessions := newFakeSessionRepo(agendas)
	reports := newFakeReportRepo()
	session := seedSession(t, agendas, sessions)

	svc := NewAnalysisService(testLogger(t), &fakeAI{}, sessions, reports)

	_, err := svc.GetReport(context.Background(), uuid.New())
	assertAPIStatus(t, err, http.StatusNotFound, "session_not_found")

	_, err = svc.GetReport(context.Background(), session.ID)
	assertAPIStatus(t, err, http.StatusNotFound, "report_not_ready")

	if err := reports.Upsert(dbctx.Context{}, &pd.Report{SessionID: session.ID}); err != nil {
		t.Fatalf("seed report: %v", err)
	}
	if _, err := svc.GetReport(context.Background(), session.ID); err != nil {
		t.Fatalf("get report: %v", err)
	}
}
