package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/pembrokehq/reflect-backend/internal/data/db"
	"github.com/pembrokehq/reflect-backend/internal/data/repos"
	"github.com/pembrokehq/reflect-backend/internal/domain/pd"
	"github.com/pembrokehq/reflect-backend/internal/platform/apierr"
	"github.com/pembrokehq/reflect-backend/internal/platform/dbctx"
	"github.com/pembrokehq/reflect-backend/internal/platform/logger"
	"github.com/pembrokehq/reflect-backend/internal/platform/openai"
	"github.com/pembrokehq/reflect-backend/internal/reflection"
	"github.com/pembrokehq/reflect-backend/internal/reflection/prompts"
)

// AnalysisService runs the notes-to-report pipeline: it stores the
// participant's notes on the session, maps them onto the selected
// frameworks with the model, and upserts the session's report. A session
// has at most one report; resubmitting replaces the analysis.
type AnalysisService interface {
	SubmitNotes(ctx context.Context, sessionID uuid.UUID, notes pd.SessionNotes) (*pd.Report, error)
	GetReport(ctx context.Context, sessionID uuid.UUID) (*pd.Report, error)
}

type analysisService struct {
	log         *logger.Logger
	ai          openai.Client
	sessionRepo repos.SessionRepo
	reportRepo  repos.ReportRepo
}

func NewAnalysisService(log *logger.Logger, ai openai.Client, sessionRepo repos.SessionRepo, reportRepo repos.ReportRepo) AnalysisService {
	return &analysisService{
		log:         log.With("service", "AnalysisService"),
		ai:          ai,
		sessionRepo: sessionRepo,
		reportRepo:  reportRepo,
	}
}

func (s *analysisService) SubmitNotes(ctx context.Context, sessionID uuid.UUID, notes pd.SessionNotes) (*pd.Report, error) {
	if err := notes.SelectedFrameworks.Validate(); err != nil {
		return nil, apierr.New(http.StatusBadRequest, "invalid_frameworks", err)
	}
	if notes.IsEmpty() {
		return nil, apierr.New(http.StatusBadRequest, "empty_notes", fmt.Errorf("notes must contain at least one response"))
	}

	dbc := dbctx.Context{Ctx: ctx}
	session, err := s.sessionRepo.GetByIDWithAgenda(dbc, sessionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierr.New(http.StatusNotFound, "session_not_found", fmt.Errorf("session %s not found", sessionID))
		}
		return nil, apierr.New(http.StatusInternalServerError, "session_lookup_failed", err)
	}
	if session.Agenda == nil {
		return nil, apierr.New(http.StatusInternalServerError, "agenda_missing", fmt.Errorf("session %s has no agenda", sessionID))
	}

	encodedNotes, err := notes.Encode()
	if err != nil {
		return nil, apierr.New(http.StatusInternalServerError, "notes_encode_failed", err)
	}
	if err := s.sessionRepo.UpdateNotes(dbc, sessionID, encodedNotes); err != nil {
		return nil, apierr.New(http.StatusInternalServerError, "notes_update_failed", err)
	}

	p, err := prompts.Build(prompts.PromptFrameworkAnalysis, prompts.Input{
		Title:               session.Agenda.Title,
		AgendaText:          session.Agenda.Content,
		ParticipantName:     session.ParticipantName,
		GenericNotes:        notes.GenericNotes,
		StructuredResponses: notes.StructuredResponses,
		Frameworks:          notes.SelectedFrameworks,
	})
	if err != nil {
		return nil, apierr.New(http.StatusInternalServerError, "prompt_build_failed", err)
	}

	raw, err := s.ai.GenerateText(ctx, p.System, p.User)
	if err != nil {
		s.log.Error("framework analysis generation failed",
			"session_id", sessionID.String(),
			"prompt", p.Name,
			"error", err.Error())
		return nil, apierr.New(http.StatusBadGateway, "model_failed", err)
	}

	result := reflection.NormalizeAnalysis(raw, notes.SelectedFrameworks)
	if result.Degraded {
		s.log.Warn("framework analysis output unusable, using fallback",
			"session_id", sessionID.String(),
			"prompt", p.Name,
			"error", result.ParseErr.Error())
	}

	analysisJSON, err := json.Marshal(result.Analysis)
	if err != nil {
		return nil, apierr.New(http.StatusInternalServerError, "analysis_encode_failed", err)
	}
	selectedJSON, err := json.Marshal(notes.SelectedFrameworks.Selected())
	if err != nil {
		return nil, apierr.New(http.StatusInternalServerError, "analysis_encode_failed", err)
	}

	insights := "Framework analysis completed using " + p.Name + " v" + fmt.Sprint(p.Version)
	if result.Degraded {
		insights = "Framework analysis degraded to fallback structure"
	}

	report := &pd.Report{
		SessionID:          sessionID,
		FrameworkAnalysis:  datatypes.JSON(analysisJSON),
		SelectedFrameworks: datatypes.JSON(selectedJSON),
		AIInsights:         insights,
	}
	if err := s.reportRepo.Upsert(dbc, report); err != nil {
		// Concurrent resubmissions can deadlock on the unique session_id
		// index; one retry resolves the survivor's upsert.
		if db.IsRetryable(err) {
			err = s.reportRepo.Upsert(dbc, report)
		}
		if err != nil {
			return nil, apierr.New(http.StatusInternalServerError, "report_save_failed", err)
		}
	}

	stored, err := s.reportRepo.GetBySessionID(dbc, sessionID)
	if err != nil {
		return nil, apierr.New(http.StatusInternalServerError, "report_lookup_failed", err)
	}

	s.log.Info("report generated",
		"session_id", sessionID.String(),
		"framework_count", notes.SelectedFrameworks.Count(),
		"degraded", result.Degraded)
	return stored, nil
}

// GetReport distinguishes a missing session from a session whose report
// has not been generated yet; clients poll on the latter.
func (s *analysisService) GetReport(ctx context.Context, sessionID uuid.UUID) (*pd.Report, error) {
	dbc := dbctx.Context{Ctx: ctx}
	if _, err := s.sessionRepo.GetByID(dbc, sessionID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierr.New(http.StatusNotFound, "session_not_found", fmt.Errorf("session %s not found", sessionID))
		}
		return nil, apierr.New(http.StatusInternalServerError, "session_lookup_failed", err)
	}

	report, err := s.reportRepo.GetBySessionID(dbc, sessionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierr.New(http.StatusNotFound, "report_not_ready", fmt.Errorf("report for session %s not yet generated", sessionID))
		}
		return nil, apierr.New(http.StatusInternalServerError, "report_lookup_failed", err)
	}
	return report, nil
}
