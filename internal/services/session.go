package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pembrokehq/reflect-backend/internal/data/db"
	"github.com/pembrokehq/reflect-backend/internal/data/repos"
	"github.com/pembrokehq/reflect-backend/internal/domain/pd"
	"github.com/pembrokehq/reflect-backend/internal/platform/apierr"
	"github.com/pembrokehq/reflect-backend/internal/platform/dbctx"
	"github.com/pembrokehq/reflect-backend/internal/platform/logger"
)

// SessionService manages participant note-taking sessions against an agenda.
type SessionService interface {
	CreateSession(ctx context.Context, agendaID uuid.UUID, participantName string) (*pd.Session, error)
	GetSession(ctx context.Context, id uuid.UUID) (*pd.Session, error)
}

type sessionService struct {
	log         *logger.Logger
	agendaRepo  repos.AgendaRepo
	sessionRepo repos.SessionRepo
}

func NewSessionService(log *logger.Logger, agendaRepo repos.AgendaRepo, sessionRepo repos.SessionRepo) SessionService {
	return &sessionService{
		log:         log.With("service", "SessionService"),
		agendaRepo:  agendaRepo,
		sessionRepo: sessionRepo,
	}
}

func (s *sessionService) CreateSession(ctx context.Context, agendaID uuid.UUID, participantName string) (*pd.Session, error) {
	participantName = strings.TrimSpace(participantName)
	if participantName == "" {
		return nil, apierr.New(http.StatusBadRequest, "missing_participant_name", fmt.Errorf("participant name is required"))
	}

	dbc := dbctx.Context{Ctx: ctx}
	agenda, err := s.agendaRepo.GetByID(dbc, agendaID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierr.New(http.StatusNotFound, "agenda_not_found", fmt.Errorf("agenda %s not found", agendaID))
		}
		return nil, apierr.New(http.StatusInternalServerError, "agenda_lookup_failed", err)
	}

	session := &pd.Session{
		AgendaID:        agendaID,
		ParticipantName: participantName,
	}
	if err := s.sessionRepo.Create(dbc, session); err != nil {
		// Agenda can disappear between the existence check and the insert.
		if db.IsForeignKeyViolation(err) {
			return nil, apierr.New(http.StatusNotFound, "agenda_not_found", fmt.Errorf("agenda %s not found", agendaID))
		}
		return nil, apierr.New(http.StatusInternalServerError, "session_create_failed", err)
	}

	session.Agenda = agenda

	s.log.Info("session created",
		"session_id", session.ID.String(),
		"agenda_id", agendaID.String())
	return session, nil
}

func (s *sessionService) GetSession(ctx context.Context, id uuid.UUID) (*pd.Session, error) {
	session, err := s.sessionRepo.GetByIDWithAgenda(dbctx.Context{Ctx: ctx}, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierr.New(http.StatusNotFound, "session_not_found", fmt.Errorf("session %s not found", id))
		}
		return nil, apierr.New(http.StatusInternalServerError, "session_lookup_failed", err)
	}
	return session, nil
}
