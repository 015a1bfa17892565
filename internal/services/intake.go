package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pembrokehq/reflect-backend/internal/data/repos"
	"github.com/pembrokehq/reflect-backend/internal/domain/pd"
	"github.com/pembrokehq/reflect-backend/internal/platform/apierr"
	"github.com/pembrokehq/reflect-backend/internal/platform/dbctx"
	"github.com/pembrokehq/reflect-backend/internal/platform/logger"
	"github.com/pembrokehq/reflect-backend/internal/platform/openai"
	"github.com/pembrokehq/reflect-backend/internal/reflection"
	"github.com/pembrokehq/reflect-backend/internal/reflection/prompts"
)

const maxAgendaChars = 60_000

// IntakeService creates agendas: it takes the raw agenda text, asks the
// model for focus questions, and persists agenda plus form in one row.
// Question generation degrades to keyword-derived questions rather than
// failing agenda creation.
type IntakeService interface {
	GenerateAgendaForm(ctx context.Context, title, agendaText string) (*pd.Agenda, error)
	GetAgenda(ctx context.Context, id uuid.UUID) (*pd.Agenda, error)
}

type intakeService struct {
	log        *logger.Logger
	ai         openai.Client
	agendaRepo repos.AgendaRepo
}

func NewIntakeService(log *logger.Logger, ai openai.Client, agendaRepo repos.AgendaRepo) IntakeService {
	return &intakeService{
		log:        log.With("service", "IntakeService"),
		ai:         ai,
		agendaRepo: agendaRepo,
	}
}

func (s *intakeService) GenerateAgendaForm(ctx context.Context, title, agendaText string) (*pd.Agenda, error) {
	title = strings.TrimSpace(title)
	agendaText = strings.TrimSpace(agendaText)
	if title == "" {
		return nil, apierr.New(http.StatusBadRequest, "missing_title", fmt.Errorf("title is required"))
	}
	if agendaText == "" {
		return nil, apierr.New(http.StatusBadRequest, "missing_agenda", fmt.Errorf("agenda text is required"))
	}
	if len(agendaText) > maxAgendaChars {
		return nil, apierr.New(http.StatusRequestEntityTooLarge, "agenda_too_large", fmt.Errorf("agenda text exceeds %d characters", maxAgendaChars))
	}

	p, err := prompts.Build(prompts.PromptFocusQuestions, prompts.Input{Title: title, AgendaText: agendaText})
	if err != nil {
		return nil, apierr.New(http.StatusInternalServerError, "prompt_build_failed", err)
	}

	raw, err := s.ai.GenerateText(ctx, p.System, p.User)
	if err != nil {
		s.log.Error("focus question generation failed",
			"prompt", p.Name,
			"error", err.Error())
		return nil, apierr.New(http.StatusBadGateway, "model_failed", err)
	}

	// Unusable output degrades to keyword-derived questions; only the
	// model call itself is allowed to fail agenda creation.
	questions, degraded, parseErr := reflection.NormalizeFocusQuestions(raw, agendaText)
	if degraded {
		s.log.Warn("focus question output unusable, using fallback",
			"prompt", p.Name,
			"error", parseErr.Error())
	}

	form := pd.FormStructure{
		Version:        pd.FormStructureVersion,
		FocusQuestions: questions,
	}
	encoded, err := form.Encode()
	if err != nil {
		return nil, apierr.New(http.StatusInternalServerError, "form_encode_failed", err)
	}

	agenda := &pd.Agenda{
		Title:         title,
		Content:       agendaText,
		FormStructure: encoded,
	}
	if err := s.agendaRepo.Create(dbctx.Context{Ctx: ctx}, agenda); err != nil {
		return nil, apierr.New(http.StatusInternalServerError, "agenda_create_failed", err)
	}

	s.log.Info("agenda created",
		"agenda_id", agenda.ID.String(),
		"question_count", form.QuestionCount())
	return agenda, nil
}

func (s *intakeService) GetAgenda(ctx context.Context, id uuid.UUID) (*pd.Agenda, error) {
	agenda, err := s.agendaRepo.GetByID(dbctx.Context{Ctx: ctx}, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierr.New(http.StatusNotFound, "agenda_not_found", fmt.Errorf("agenda %s not found", id))
		}
		return nil, apierr.New(http.StatusInternalServerError, "agenda_lookup_failed", err)
	}
	return agenda, nil
}
