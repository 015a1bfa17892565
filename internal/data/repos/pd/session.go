package pd

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/pembrokehq/reflect-backend/internal/domain/pd"
	"github.com/pembrokehq/reflect-backend/internal/platform/dbctx"
	"github.com/pembrokehq/reflect-backend/internal/platform/logger"
)

type SessionRepo interface {
	Create(dbc dbctx.Context, row *pd.Session) error
	GetByID(dbc dbctx.Context, id uuid.UUID) (*pd.Session, error)
	GetByIDWithAgenda(dbc dbctx.Context, id uuid.UUID) (*pd.Session, error)
	UpdateNotes(dbc dbctx.Context, id uuid.UUID, notes datatypes.JSON) error
}

type sessionRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewSessionRepo(db *gorm.DB, baseLog *logger.Logger) SessionRepo {
	return &sessionRepo{
		db:  db,
		log: baseLog.With("repo", "SessionRepo"),
	}
}

func (r *sessionRepo) Create(dbc dbctx.Context, row *pd.Session) error {
	tx := dbc.Tx
	if tx == nil {
		tx = r.db
	}
	return tx.WithContext(dbc.Ctx).Create(row).Error
}

func (r *sessionRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*pd.Session, error) {
	tx := dbc.Tx
	if tx == nil {
		tx = r.db
	}
	out := &pd.Session{}
	if err := tx.WithContext(dbc.Ctx).
		Where("id = ?", id).
		First(out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *sessionRepo) GetByIDWithAgenda(dbc dbctx.Context, id uuid.UUID) (*pd.Session, error) {
	tx := dbc.Tx
	if tx == nil {
		tx = r.db
	}
	out := &pd.Session{}
	if err := tx.WithContext(dbc.Ctx).
		Preload("Agenda").
		Where("id = ?", id).
		First(out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *sessionRepo) UpdateNotes(dbc dbctx.Context, id uuid.UUID, notes datatypes.JSON) error {
	tx := dbc.Tx
	if tx == nil {
		tx = r.db
	}
	return tx.WithContext(dbc.Ctx).
		Model(&pd.Session{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"notes":      notes,
			"updated_at": time.Now().UTC(),
		}).Error
}
