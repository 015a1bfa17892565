package pd

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pembrokehq/reflect-backend/internal/domain/pd"
	"github.com/pembrokehq/reflect-backend/internal/platform/dbctx"
	"github.com/pembrokehq/reflect-backend/internal/platform/logger"
)

type AgendaRepo interface {
	Create(dbc dbctx.Context, row *pd.Agenda) error
	GetByID(dbc dbctx.Context, id uuid.UUID) (*pd.Agenda, error)
}

type agendaRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewAgendaRepo(db *gorm.DB, baseLog *logger.Logger) AgendaRepo {
	return &agendaRepo{
		db:  db,
		log: baseLog.With("repo", "AgendaRepo"),
	}
}

func (r *agendaRepo) Create(dbc dbctx.Context, row *pd.Agenda) error {
	tx := dbc.Tx
	if tx == nil {
		tx = r.db
	}
	return tx.WithContext(dbc.Ctx).Create(row).Error
}

func (r *agendaRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*pd.Agenda, error) {
	tx := dbc.Tx
	if tx == nil {
		tx = r.db
	}
	out := &pd.Agenda{}
	if err := tx.WithContext(dbc.Ctx).
		Where("id = ?", id).
		First(out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
